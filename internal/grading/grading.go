package grading

import "math"

// Tier is a qualitative bucket derived from a 0–10 mark. It drives badge
// coloring on the calendar and the pass/fail predicate.
type Tier string

const (
	TierHigh    Tier = "high"
	TierGood    Tier = "good"
	TierWarning Tier = "warning"
	TierLow     Tier = "low"
)

// PassMark is the minimum mark considered a pass.
const PassMark = 6

// TierFor maps a mark to its tier. Total over [0,10]; out-of-range
// marks clamp into the nearest bucket rather than failing, since the
// mark is always produced by Mark and stays in range in practice.
func TierFor(mark int) Tier {
	switch {
	case mark >= 8:
		return TierHigh
	case mark >= PassMark:
		return TierGood
	case mark >= 4:
		return TierWarning
	default:
		return TierLow
	}
}

// IsPassed reports whether a mark meets the pass threshold.
func IsPassed(mark int) bool { return mark >= PassMark }

// Mark normalizes a raw score against the total to the 0–10 scale.
// A zero or negative total yields 0 rather than dividing by zero.
func Mark(score, total float64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(10 * score / total))
}
