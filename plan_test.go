package ytgrab

import (
	"strings"
	"testing"

	assert_ "github.com/stretchr/testify/assert"
	require_ "github.com/stretchr/testify/require"
)

func mustClassify(t *testing.T, raw string) Target {
	t.Helper()
	target, err := Classify(raw)
	require_.NoError(t, err)
	return target
}

func TestPlanBuilderDefaults(t *testing.T) {
	assert := assert_.New(t)

	target := mustClassify(t, "https://youtu.be/dQw4w9WgXcQ")
	plan, err := NewPlanBuilder().WithTarget(target).Build()
	assert.NoError(err)
	assert.Equal(BestProgressive, plan.Quality)
	assert.Equal(StrategyStandard.Profile(), plan.Profile)
	assert.Equal(".", plan.DestDir)
}

func TestPlanBuilderRequiresTarget(t *testing.T) {
	assert := assert_.New(t)

	_, err := NewPlanBuilder().Build()
	assert.ErrorIs(err, ErrNoTarget)

	_, err = NewPlanBuilder().
		WithTarget(mustClassify(t, "https://youtu.be/abc")).
		WithDestination("").
		Build()
	assert.ErrorIs(err, ErrNoDestination)
}

func TestSingleItemArgs(t *testing.T) {
	assert := assert_.New(t)

	plan, err := NewPlanBuilder().
		WithTarget(mustClassify(t, "https://youtu.be/dQw4w9WgXcQ")).
		WithQuality(Height720).
		WithStrategy(StrategyStandard).
		WithDestination("/videos").
		Build()
	assert.NoError(err)

	args := plan.Args()
	// URL is always the final argument.
	assert.Equal("https://youtu.be/dQw4w9WgXcQ", args[len(args)-1])
	assert.Contains(args, "--newline")
	assert.Contains(args, "--progress")
	assert.Contains(args, "-o")
	assert.Contains(args, "/videos/%(title)s.%(ext)s")
	assert.Contains(args, "-f")
	assert.Contains(args, Resolve(Height720).Expr())
	// Single items never carry collection flags.
	assert.NotContains(args, "--yes-playlist")
	assert.NotContains(args, "--playlist-items")
}

func TestCollectionArgs(t *testing.T) {
	assert := assert_.New(t)

	selection, err := SelectRange(1, 10)
	assert.NoError(err)
	plan, err := NewPlanBuilder().
		WithTarget(mustClassify(t, "https://www.youtube.com/playlist?list=XYZ")).
		WithQuality(BestProgressive).
		WithSelection(selection).
		WithDestination("/videos").
		Build()
	assert.NoError(err)

	args := plan.Args()
	assert.Contains(args, "--yes-playlist")
	assert.Contains(args, "--ignore-errors")
	assert.Contains(args, "--continue")
	assert.Contains(args, "--playlist-items")
	assert.Contains(args, "1-10")
	assert.Contains(args, "/videos/%(playlist_title)s/%(playlist_index)03d - %(title)s.%(ext)s")
}

func TestSubtitlesOnlyArgs(t *testing.T) {
	assert := assert_.New(t)

	plan, err := NewPlanBuilder().
		WithTarget(mustClassify(t, "https://youtu.be/dQw4w9WgXcQ")).
		WithQuality(SubtitlesOnly).
		Build()
	assert.NoError(err)

	args := plan.Args()
	assert.Contains(args, "--write-subs")
	assert.Contains(args, "--skip-download")
	assert.NotContains(args, "-f")
}

func TestSkipCompletedArgs(t *testing.T) {
	assert := assert_.New(t)

	plan, err := NewPlanBuilder().
		WithTarget(mustClassify(t, "https://www.youtube.com/playlist?list=XYZ")).
		WithSelection(SelectSkipCompleted("/videos/downloaded.txt")).
		WithDestination("/videos").
		Build()
	assert.NoError(err)

	args := strings.Join(plan.Args(), " ")
	assert.Contains(args, "--download-archive /videos/downloaded.txt")
}
