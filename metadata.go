package ytgrab

import "fmt"

// ItemCountUnknown marks a collection whose size could not be determined.
const ItemCountUnknown = -1

// Metadata is the advisory description of a target fetched by the probe
// before committing to a download. A failed probe yields Placeholder values
// rather than an error; nothing here may block the fetch decision.
type Metadata struct {
	Title    string
	Uploader string
	// Duration in whole seconds, 0 when unknown.
	Duration int64
	Views    int64
	// ItemCount is the number of entries in a collection, ItemCountUnknown
	// when the shallow enumeration failed, and 0 for single items.
	ItemCount int
}

// PlaceholderMetadata is the degraded result used when the probe fails.
func PlaceholderMetadata() Metadata {
	return Metadata{
		Title:     "Unknown",
		Uploader:  "Unknown",
		ItemCount: ItemCountUnknown,
	}
}

// IsPlaceholder reports whether the probe degraded to placeholder data.
func (m Metadata) IsPlaceholder() bool {
	return m.Title == "Unknown" && m.Uploader == "Unknown" && m.Duration == 0 && m.Views == 0
}

// FormatDuration renders whole seconds as "1h 02m 03s" or "4m 05s".
func FormatDuration(seconds int64) string {
	if seconds <= 0 {
		return "Unknown"
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	seconds = seconds % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %02dm %02ds", hours, minutes, seconds)
	}
	return fmt.Sprintf("%dm %02ds", minutes, seconds)
}

// FormatViews renders a view count with B/M/K grouping.
func FormatViews(views int64) string {
	switch {
	case views <= 0:
		return "Unknown"
	case views >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", float64(views)/1_000_000_000)
	case views >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(views)/1_000_000)
	case views >= 1_000:
		return fmt.Sprintf("%.1fK", float64(views)/1_000)
	default:
		return fmt.Sprintf("%d", views)
	}
}
