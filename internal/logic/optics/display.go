package optics

import (
	"fmt"
	"math"
)

// InfinitySymbol is shown for distances treated as infinite.
const InfinitySymbol = "∞"

// InfinityPolicy decides when a finite distance is displayed as infinite.
// The thresholds are display heuristics, not optical law.
type InfinityPolicy struct {
	// Factor is the multiple of the focus distance beyond which a distance
	// is shown as infinite.
	Factor float64 `yaml:"infinity_factor" json:"infinity_factor"`
	// AbsoluteM is the absolute distance beyond which a distance is shown
	// as infinite.
	AbsoluteM float64 `yaml:"infinity_absolute_m" json:"infinity_absolute_m"`
}

// DefaultInfinityPolicy shows distances beyond 15× focus or 1000 m as ∞.
var DefaultInfinityPolicy = InfinityPolicy{Factor: 15, AbsoluteM: 1000}

// IsEffectivelyInfinite applies DefaultInfinityPolicy.
func IsEffectivelyInfinite(distanceM, focusDistanceM float64) bool {
	return DefaultInfinityPolicy.IsEffectivelyInfinite(distanceM, focusDistanceM)
}

// IsEffectivelyInfinite reports whether distanceM should be presented as
// infinite. True infinity always is; finite distances only when a positive
// focus reference is given and either threshold is exceeded.
func (p InfinityPolicy) IsEffectivelyInfinite(distanceM, focusDistanceM float64) bool {
	if math.IsInf(distanceM, 1) {
		return true
	}
	if !positive(focusDistanceM) {
		return false
	}
	return distanceM > p.Factor*focusDistanceM || distanceM > p.AbsoluteM
}

// Format renders a distance in unit with the given number of decimals,
// e.g. "5.0m" or "16.4ft". Pass focusDistanceM = 0 to disable the
// effective-infinity heuristic (true infinity is still shown as ∞).
func (p InfinityPolicy) Format(distanceM float64, unit Unit, precision int, focusDistanceM float64) string {
	if p.IsEffectivelyInfinite(distanceM, focusDistanceM) {
		return InfinitySymbol
	}
	if unit == Feet {
		return fmt.Sprintf("%.*fft", precision, MetersToFeet(distanceM))
	}
	return fmt.Sprintf("%.*fm", precision, distanceM)
}

// FormatDistance renders a distance using DefaultInfinityPolicy.
func FormatDistance(distanceM float64, unit Unit, precision int, focusDistanceM float64) string {
	return DefaultInfinityPolicy.Format(distanceM, unit, precision, focusDistanceM)
}
