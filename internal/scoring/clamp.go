package scoring

import "math"

// Score bounds.
const (
	MinScore = 0.0
	MaxScore = 100.0
)

// Clamp bounds a raw prediction into [MinScore, MaxScore]. NaN clamps to MinScore.
func Clamp(raw float64) float64 {
	if math.IsNaN(raw) {
		return MinScore
	}
	return math.Max(MinScore, math.Min(MaxScore, raw))
}
