package ytgrab

import (
	"errors"
	"fmt"
	"path/filepath"
)

var (
	ErrNoTarget      = errors.New("plan has no target")
	ErrNoDestination = errors.New("plan has no destination directory")
)

const (
	// DefaultArchiveFilename is the persistence record for SkipCompleted
	// selections, kept under the destination directory.
	DefaultArchiveFilename = "downloaded.txt"

	singleOutputTemplate     = "%(title)s.%(ext)s"
	collectionOutputTemplate = "%(playlist_title)s/%(playlist_index)03d - %(title)s.%(ext)s"
)

// BaseArgs are the flags every backend invocation carries: line-buffered
// progress output plus the extractor client fingerprints that keep the
// platform serving formats instead of challenge pages.
func BaseArgs() []string {
	return []string{
		"--newline",
		"--progress",
		"--extractor-args", "youtube:player_client=android,web_embedded,tv",
	}
}

// An ExecutionPlan is the fully resolved, immutable value handed to the
// execution supervisor. It owns no external resources; Args turns it into the
// complete backend argument vector, the single place that assembly happens.
type ExecutionPlan struct {
	Target    Target
	Quality   QualitySelector
	Formats   FormatChain
	Selection CollectionSelection
	Profile   ResilienceProfile
	DestDir   string
}

// A PlanBuilder assembles an ExecutionPlan from the independent resolver
// outputs. Zero-value fields fall back to sensible defaults at Build time.
type PlanBuilder struct {
	target    Target
	quality   QualitySelector
	strategy  Strategy
	selection CollectionSelection
	hasSel    bool
	destDir   string
}

func NewPlanBuilder() *PlanBuilder {
	return &PlanBuilder{
		quality:  BestProgressive,
		strategy: StrategyStandard,
		destDir:  ".",
	}
}

func (b *PlanBuilder) WithTarget(t Target) *PlanBuilder {
	b.target = t
	return b
}

func (b *PlanBuilder) WithQuality(q QualitySelector) *PlanBuilder {
	b.quality = q
	return b
}

func (b *PlanBuilder) WithStrategy(s Strategy) *PlanBuilder {
	b.strategy = s
	return b
}

func (b *PlanBuilder) WithSelection(s CollectionSelection) *PlanBuilder {
	b.selection = s
	b.hasSel = true
	return b
}

func (b *PlanBuilder) WithDestination(dir string) *PlanBuilder {
	b.destDir = dir
	return b
}

func (b *PlanBuilder) Build() (ExecutionPlan, error) {
	if b.target.URL == "" {
		return ExecutionPlan{}, ErrNoTarget
	}
	if b.destDir == "" {
		return ExecutionPlan{}, ErrNoDestination
	}
	selection := b.selection
	if !b.hasSel {
		selection = SelectAll()
	}
	return ExecutionPlan{
		Target:    b.target,
		Quality:   b.quality,
		Formats:   Resolve(b.quality),
		Selection: selection,
		Profile:   b.strategy.Profile(),
		DestDir:   b.destDir,
	}, nil
}

// OutputTemplate is the backend naming template for downloaded files:
// title-named under the destination for single items, playlist-grouped and
// index-prefixed for collections.
func (p ExecutionPlan) OutputTemplate() string {
	if p.Target.IsCollection() {
		return filepath.Join(p.DestDir, collectionOutputTemplate)
	}
	return filepath.Join(p.DestDir, singleOutputTemplate)
}

// Args assembles the full backend argument vector. Every invocation flows
// through here, so format, selection and resilience flags cannot drift
// between call sites.
func (p ExecutionPlan) Args() []string {
	args := BaseArgs()
	args = append(args, "-o", p.OutputTemplate())
	if p.Quality == SubtitlesOnly {
		args = append(args, "--write-subs", "--skip-download")
	} else {
		args = append(args, "-f", p.Formats.Expr())
	}
	if p.Target.IsCollection() {
		args = append(args, "--yes-playlist", "--ignore-errors", "--continue")
		args = append(args, p.Selection.Args()...)
	}
	args = append(args, p.Profile.Args()...)
	args = append(args, p.Target.URL)
	return args
}

func (p ExecutionPlan) String() string {
	return fmt.Sprintf("ExecutionPlan{URL:%q, Quality:%q, Dest:%q}", p.Target.URL, p.Quality, p.DestDir)
}
