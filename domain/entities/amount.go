package entities

import "math"

// MaxAmount caps every balance, pool and admin amount. Rollover growth and
// credits saturate here instead of wrapping int64.
const MaxAmount int64 = 1_000_000_000_000_000

// ValidAmount reports whether an externally supplied amount is within the ceiling
func ValidAmount(amount int64) bool {
	return amount >= -MaxAmount && amount <= MaxAmount
}

// AddAmount adds delta to value without wrapping, clamped to at most MaxAmount
func AddAmount(value, delta int64) int64 {
	var sum int64
	switch {
	case delta > 0 && value > math.MaxInt64-delta:
		sum = math.MaxInt64
	case delta < 0 && value < math.MinInt64-delta:
		sum = math.MinInt64
	default:
		sum = value + delta
	}
	if sum > MaxAmount {
		return MaxAmount
	}
	return sum
}

// ScaleAmount returns value * percent / 100 without wrapping, clamped to at
// most MaxAmount. value and percent must be non-negative.
func ScaleAmount(value, percent int64) int64 {
	if value <= 0 || percent <= 0 {
		return 0
	}
	if value > math.MaxInt64/percent {
		return MaxAmount
	}
	scaled := value * percent / 100
	if scaled > MaxAmount {
		return MaxAmount
	}
	return scaled
}
