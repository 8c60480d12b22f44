package optics

import (
	"fmt"
	"math"
)

// Pixel-density tolerances for catalog consistency checks.
const (
	megapixelTolerance    = 0.01 // relative to the stated megapixels
	densityTolerancePct   = 5.0  // horizontal vs vertical pixels per mm
	WarnMegapixelMismatch = "megapixel_mismatch"
	WarnDensityMismatch   = "pixel_density_mismatch"
)

// Warning is a non-blocking advisory attached to a result.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return w.Message
}

// CheckPixelDensity flags catalog data whose pixel dimensions disagree with
// the stated megapixels (beyond 1%) or whose horizontal and vertical pixel
// densities differ by 5% or more. Incomplete geometry yields no warnings.
func CheckPixelDensity(s SensorGeometry) []Warning {
	if s.ImageWidthPx <= 0 || s.ImageHeightPx <= 0 || !positive(s.WidthMm) || !positive(s.HeightMm) {
		return nil
	}
	var warnings []Warning

	if positive(s.Megapixels) {
		computed := float64(s.ImageWidthPx) * float64(s.ImageHeightPx) / 1e6
		if math.Abs(computed-s.Megapixels) >= s.Megapixels*megapixelTolerance {
			warnings = append(warnings, Warning{
				Code: WarnMegapixelMismatch,
				Message: fmt.Sprintf("Warning: %dx%d px is %.1fMP, catalog states %.1fMP",
					s.ImageWidthPx, s.ImageHeightPx, computed, s.Megapixels),
			})
		}
	}

	densityW := float64(s.ImageWidthPx) / s.WidthMm
	densityH := float64(s.ImageHeightPx) / s.HeightMm
	diffPct := math.Abs((densityW-densityH)/densityW) * 100
	if diffPct >= densityTolerancePct {
		warnings = append(warnings, Warning{
			Code: WarnDensityMismatch,
			Message: fmt.Sprintf("Warning: Pixel dimensions may not match sensor size (%.1f vs %.1f px/mm)",
				densityW, densityH),
		})
	}
	return warnings
}
