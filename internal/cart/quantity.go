package cart

import "math"

const (
	MinQty = 1
	MaxQty = 10
)

func clampQty(q int) int {
	return max(MinQty, min(MaxQty, q))
}

// normalizeQty floors q and clamps it into [MinQty, MaxQty]. NaN counts as 0.
func normalizeQty(q float64) int {
	if math.IsNaN(q) {
		q = 0
	}
	f := math.Floor(q)
	if f < MinQty {
		return MinQty
	}
	if f > MaxQty {
		return MaxQty
	}
	return int(f)
}
