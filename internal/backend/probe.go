package backend

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/tidwall/gjson"

	"github.com/elyasbromand/ytgrab"
)

const (
	probeTimeout  = 30 * time.Second
	probeCacheTTL = 5 * time.Minute
)

// A Prober invokes the backend in read-only, structured-output mode to fetch
// descriptive metadata before committing to a fetch. Results are cached per
// normalized URL so confirmation flows don't re-hit the network.
type Prober struct {
	runner *Runner
	cache  *gocache.Cache
}

func NewProber(r *Runner) *Prober {
	return &Prober{
		runner: r,
		cache:  gocache.New(probeCacheTTL, 2*probeCacheTTL),
	}
}

// Probe never fails: metadata is advisory, so any error (non-zero exit,
// timeout, malformed output) degrades to placeholder data instead of blocking
// the subsequent fetch decision.
func (p *Prober) Probe(ctx context.Context, target ytgrab.Target) ytgrab.Metadata {
	if cached, ok := p.cache.Get(target.URL); ok {
		return cached.(ytgrab.Metadata)
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	args := append(ytgrab.BaseArgs(), "--no-warnings")
	if target.IsCollection() {
		// Shallow enumeration: resolving every item's full metadata up front
		// would take as long as the download itself.
		args = append(args, "--flat-playlist", "--dump-single-json")
	} else {
		args = append(args, "--skip-download", "--dump-json")
	}
	args = append(args, target.URL)

	log := p.runner.log().Named("probe")
	out, err := exec.CommandContext(ctx, p.runner.Binary(), args...).Output()
	if err != nil || len(bytes.TrimSpace(out)) == 0 {
		log.Warnw("probe failed, using placeholder metadata", "url", target.URL, "error", err)
		return ytgrab.PlaceholderMetadata()
	}

	md := parseMetadata(out, target.IsCollection())
	p.cache.Set(target.URL, md, gocache.DefaultExpiration)
	return md
}

func parseMetadata(raw []byte, collection bool) ytgrab.Metadata {
	if !gjson.ValidBytes(raw) {
		return ytgrab.PlaceholderMetadata()
	}
	root := gjson.ParseBytes(raw)

	md := ytgrab.Metadata{
		Title:    root.Get("title").String(),
		Uploader: root.Get("uploader").String(),
		Duration: root.Get("duration").Int(),
		Views:    root.Get("view_count").Int(),
	}
	if md.Title == "" {
		md.Title = root.Get("playlist_title").String()
	}
	if md.Title == "" {
		md.Title = "Unknown"
	}
	if md.Uploader == "" {
		md.Uploader = "Unknown"
	}
	if collection {
		if entries := root.Get("entries"); entries.Exists() {
			md.ItemCount = int(entries.Get("#").Int())
		} else {
			md.ItemCount = ytgrab.ItemCountUnknown
		}
	}
	return md
}
