package ytgrab

import (
	"strings"
	"testing"

	assert_ "github.com/stretchr/testify/assert"
)

func TestResolveAlwaysEndsInCatchAll(t *testing.T) {
	assert := assert_.New(t)

	for _, q := range []QualitySelector{
		BestProgressive, Height1080, Height720, Height480, Height360, AudioBest,
	} {
		chain := Resolve(q)
		assert.NotEmpty(chain, string(q))
		last := chain[len(chain)-1]
		// The terminal expression is unconditional: no filter can make it
		// match nothing while any stream exists.
		assert.False(strings.Contains(last, "["), string(q))
		if q == AudioBest {
			assert.Equal("bestaudio", last)
		} else {
			assert.Equal("best", last)
		}
	}
}

func TestResolveHardenedChain(t *testing.T) {
	assert := assert_.New(t)

	chain := Resolve(Height720)
	assert.Equal(FormatChain{
		"best[height<=720][ext=mp4][protocol!=m3u8][protocol!=m3u8_native]",
		"best[height<=720][protocol!=m3u8][protocol!=m3u8_native]",
		"best[ext=mp4][protocol!=m3u8][protocol!=m3u8_native]",
		"best[protocol!=m3u8][protocol!=m3u8_native]",
		"best",
	}, chain)
}

func TestResolveBestProgressiveDeduplicates(t *testing.T) {
	assert := assert_.New(t)

	// The selector-specific and generic fallback steps coincide for the
	// generic best selector; the chain must not repeat them.
	chain := Resolve(BestProgressive)
	assert.Equal(FormatChain{
		"best[ext=mp4][protocol!=m3u8][protocol!=m3u8_native]",
		"best[protocol!=m3u8][protocol!=m3u8_native]",
		"best",
	}, chain)
}

func TestResolveAudio(t *testing.T) {
	assert := assert_.New(t)

	chain := Resolve(AudioBest)
	assert.Equal(FormatChain{"bestaudio[ext=m4a]", "bestaudio"}, chain)
}

func TestResolveSubtitlesOnly(t *testing.T) {
	assert := assert_.New(t)

	assert.Nil(Resolve(SubtitlesOnly))
}

func TestFormatChainExpr(t *testing.T) {
	assert := assert_.New(t)

	chain := FormatChain{"a", "b", "c"}
	assert.Equal("a/b/c", chain.Expr())
}

func TestParseQuality(t *testing.T) {
	assert := assert_.New(t)

	q, err := ParseQuality("720p")
	assert.NoError(err)
	assert.Equal(Height720, q)

	q, err = ParseQuality(" BEST ")
	assert.NoError(err)
	assert.Equal(BestProgressive, q)

	_, err = ParseQuality("4k")
	assert.Error(err)
}
