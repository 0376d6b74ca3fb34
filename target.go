package ytgrab

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/hashicorp/go-multierror"
)

var (
	ErrInvalidURL = errors.New("not a recognised YouTube URL")
)

type Classification string

const (
	ClassSingle     Classification = "single"
	ClassCollection Classification = "collection"
)

// A Target is a classified, normalized user-supplied address. It is created
// once per run by Classify and never mutated.
type Target struct {
	// Raw is the address exactly as the user supplied it.
	Raw string
	// URL is the normalized form, always carrying an explicit scheme.
	URL string
	// Class says whether the address names a single item or a collection.
	Class Classification
}

func (t Target) String() string {
	return t.URL
}

func (t Target) IsCollection() bool {
	return t.Class == ClassCollection
}

// WithoutList strips the list query component, downgrading a
// collection-qualified URL to its single-item form. Stripping is idempotent;
// a Target with no list component is returned unchanged.
func (t Target) WithoutList() Target {
	stripped := stripListParam(t.URL)
	return Target{
		Raw:   t.Raw,
		URL:   stripped,
		Class: classify(stripped),
	}
}

var schemeRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)

// Normalize prefixes "https://" when the address has no scheme. An existing
// scheme, whatever it is, is left alone.
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || schemeRe.MatchString(raw) {
		return raw
	}
	return "https://" + raw
}

type targetMatcher struct {
	name  string
	match func(u *url.URL) error
}

var targetMatchers = []targetMatcher{
	{"watch", matchWatch},
	{"shorts", matchShorts},
	{"short-link", matchShortLink},
	{"playlist", matchPlaylist},
}

var youtubeHosts = map[string]bool{
	"youtube.com":              true,
	"www.youtube.com":          true,
	"m.youtube.com":            true,
	"youtube-nocookie.com":     true,
	"www.youtube-nocookie.com": true,
}

func matchWatch(u *url.URL) error {
	if !youtubeHosts[u.Hostname()] {
		return fmt.Errorf("unrecognised hostname %q", u.Hostname())
	}
	if u.Path == "/watch" || u.Path == "/details" {
		if u.Query().Get("v") == "" {
			return fmt.Errorf("missing ?v= query parameter")
		}
		return nil
	}
	if strings.HasPrefix(u.Path, "/v/") && len(u.Path) > len("/v/") {
		return nil
	}
	return fmt.Errorf("not a watch path: %q", u.Path)
}

func matchShorts(u *url.URL) error {
	if !youtubeHosts[u.Hostname()] {
		return fmt.Errorf("unrecognised hostname %q", u.Hostname())
	}
	if strings.HasPrefix(u.Path, "/shorts/") && len(u.Path) > len("/shorts/") {
		return nil
	}
	return fmt.Errorf("not a shorts path: %q", u.Path)
}

func matchShortLink(u *url.URL) error {
	if u.Hostname() != "youtu.be" {
		return fmt.Errorf("unrecognised hostname %q", u.Hostname())
	}
	if strings.Trim(u.Path, "/") == "" {
		return fmt.Errorf("missing video ID")
	}
	return nil
}

func matchPlaylist(u *url.URL) error {
	if !youtubeHosts[u.Hostname()] {
		return fmt.Errorf("unrecognised hostname %q", u.Hostname())
	}
	if isCollectionURL(u) {
		return nil
	}
	return fmt.Errorf("no collection signature in %q", u.String())
}

// Classify validates a raw address against the recognized YouTube URL shapes
// and returns the normalized, classified Target. Addresses matching no shape
// fail with ErrInvalidURL, wrapping the per-matcher reasons.
func Classify(raw string) (Target, error) {
	normalized := Normalize(raw)
	if normalized == "" {
		return Target{}, fmt.Errorf("%w: empty address", ErrInvalidURL)
	}
	u, err := url.Parse(normalized)
	if err != nil {
		return Target{}, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	var result error
	for _, m := range targetMatchers {
		if err := m.match(u); err == nil {
			return Target{
				Raw:   raw,
				URL:   normalized,
				Class: classify(normalized),
			}, nil
		} else {
			result = multierror.Append(result, multierror.Prefix(err, fmt.Sprintf("[%v]", m.name)))
		}
	}
	return Target{}, fmt.Errorf("%w: %v", ErrInvalidURL, result)
}

// classify runs the collection predicate on an already-validated address.
func classify(normalized string) Classification {
	u, err := url.Parse(normalized)
	if err != nil {
		return ClassSingle
	}
	if isCollectionURL(u) {
		return ClassCollection
	}
	return ClassSingle
}

func isCollectionURL(u *url.URL) bool {
	if u.Query().Get("list") != "" {
		return true
	}
	path := strings.Trim(u.Path, "/")
	for _, segment := range strings.Split(path, "/") {
		if segment == "playlist" {
			return true
		}
	}
	// Channel/user playlist tabs, e.g. /c/NAME/playlists or /user/NAME/playlists.
	return strings.HasSuffix(path, "/playlists")
}

// stripListParam removes the list query component from an address string.
// Two separator shapes exist: "&list=..." mid-query, and "?list=..." leading
// the query (in which case the following parameter is promoted).
func stripListParam(s string) string {
	if i := strings.Index(s, "&list="); i >= 0 {
		rest := s[i+1:]
		if j := strings.IndexByte(rest, '&'); j >= 0 {
			return s[:i] + rest[j:]
		}
		return s[:i]
	}
	if i := strings.Index(s, "?list="); i >= 0 {
		rest := s[i+1:]
		if j := strings.IndexByte(rest, '&'); j >= 0 {
			return s[:i+1] + rest[j+1:]
		}
		return s[:i]
	}
	return s
}
