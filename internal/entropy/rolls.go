package entropy

// Percent rolls a d100: a value in [1, 100].
func Percent(src Source) int {
	return src.IntN(100) + 1
}

// Range rolls an integer in [lo, hi]. When hi <= lo it returns lo without
// consuming a draw.
func Range(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + src.IntN(hi-lo+1)
}

// Symmetric rolls a float in [-spread, +spread).
func Symmetric(src Source, spread float64) float64 {
	return (src.Float64()*2 - 1) * spread
}
