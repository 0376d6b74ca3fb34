package ytgrab

import (
	"fmt"
	"strings"
)

// A QualitySelector is the user's abstract quality intent, resolved into a
// concrete FormatChain by Resolve.
type QualitySelector string

const (
	BestProgressive QualitySelector = "best"
	Height1080      QualitySelector = "1080p"
	Height720       QualitySelector = "720p"
	Height480       QualitySelector = "480p"
	Height360       QualitySelector = "360p"
	AudioBest       QualitySelector = "audio"
	SubtitlesOnly   QualitySelector = "subs"
)

var qualitySelectors = map[QualitySelector]bool{
	BestProgressive: true,
	Height1080:      true,
	Height720:       true,
	Height480:       true,
	Height360:       true,
	AudioBest:       true,
	SubtitlesOnly:   true,
}

// ParseQuality maps a user-facing quality name to a QualitySelector.
func ParseQuality(s string) (QualitySelector, error) {
	q := QualitySelector(strings.ToLower(strings.TrimSpace(s)))
	if !qualitySelectors[q] {
		return "", fmt.Errorf("unknown quality %q", s)
	}
	return q, nil
}

// A FormatChain is an ordered sequence of format expressions, tried
// left-to-right by the backend until one matches. It is data handed to the
// backend, never evaluated here.
type FormatChain []string

// Expr renders the chain as a single backend format argument.
func (c FormatChain) Expr() string {
	return strings.Join(c, "/")
}

// Height-ceilinged streams delivered over HLS fail partially often enough
// that an expression excluding them is always tried before one allowing them.
const (
	protocolExclusion = "[protocol!=m3u8][protocol!=m3u8_native]"
	containerMP4      = "[ext=mp4]"
	videoCatchAll     = "best"
	audioCatchAll     = "bestaudio"
)

func (q QualitySelector) baseExpr() string {
	switch q {
	case Height1080:
		return "best[height<=1080]"
	case Height720:
		return "best[height<=720]"
	case Height480:
		return "best[height<=480]"
	case Height360:
		return "best[height<=360]"
	case AudioBest:
		return audioCatchAll
	default:
		return videoCatchAll
	}
}

// Resolve turns an abstract quality intent into a hardened fallback chain.
// A single expression can legitimately match nothing, so the chain always
// ends in an unconditional catch-all that matches whenever any stream exists.
// SubtitlesOnly has no format chain and resolves to nil; ExecutionPlan turns
// it into the write-subtitles/skip-media flag pair instead.
func Resolve(q QualitySelector) FormatChain {
	switch q {
	case SubtitlesOnly:
		return nil
	case AudioBest:
		return FormatChain{audioCatchAll + containerM4A, audioCatchAll}
	default:
		base := q.baseExpr()
		return dedupe(FormatChain{
			base + containerMP4 + protocolExclusion,
			base + protocolExclusion,
			videoCatchAll + containerMP4 + protocolExclusion,
			videoCatchAll + protocolExclusion,
			videoCatchAll,
		})
	}
}

const containerM4A = "[ext=m4a]"

// dedupe drops repeated expressions while preserving order; for
// BestProgressive the selector-specific and generic fallbacks coincide.
func dedupe(chain FormatChain) FormatChain {
	seen := make(map[string]bool, len(chain))
	out := chain[:0]
	for _, expr := range chain {
		if seen[expr] {
			continue
		}
		seen[expr] = true
		out = append(out, expr)
	}
	return out
}
