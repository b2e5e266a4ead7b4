package core

import (
	"fmt"
	"math"
	"strconv"
)

// Tier classifies a percentage for display
type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// Percentage returns covered/total as a percentage rounded to two decimals.
// A zero total yields 0 so empty groups and dimensions stay finite.
func Percentage(covered, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(covered)*10000/float64(total)) / 100
}

// Classify maps a percentage onto its tier. Bands are inclusive on the lower end.
func Classify(pct float64) Tier {
	switch {
	case pct < 50:
		return TierLow
	case pct < 80:
		return TierMedium
	case pct >= 80:
		return TierHigh
	}
	// NaN compares false everywhere
	return ""
}

// Glyph returns the coloured marker for a tier.
func Glyph(tier Tier) string {
	switch tier {
	case TierHigh:
		return "🟢"
	case TierMedium:
		return "🟡"
	case TierLow:
		return "🔴"
	default:
		return ""
	}
}

// MaxPct is the highest stored percentage across the four dimensions.
func MaxPct(summary CoverageSummary) float64 {
	return summary.Percentages().Max()
}

// ClassifySummary picks one representative tier for a file or group.
func ClassifySummary(summary CoverageSummary) Tier {
	return Classify(MaxPct(summary))
}

// FormatPct renders a percentage in its shortest decimal form (85.71, 100, 0).
func FormatPct(pct float64) string {
	return strconv.FormatFloat(pct, 'f', -1, 64)
}

// FormatWithGlyph renders "<pct> <glyph>".
func FormatWithGlyph(pct float64) string {
	glyph := Glyph(Classify(pct))
	if glyph == "" {
		return FormatPct(pct)
	}
	return FormatPct(pct) + " " + glyph
}

// FloorWithGlyph renders "<floor(pct)> <glyph>" as used in grouped summaries.
func FloorWithGlyph(pct float64) string {
	return fmt.Sprintf("%d %s", int(math.Floor(pct)), Glyph(Classify(pct)))
}
