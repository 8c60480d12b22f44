// Package planner turns a per-frame ground footprint into a photogrammetry
// capture plan: unique coverage per image, image counts, a recommended
// aperture and a storage estimate.
package planner

import (
	"errors"
	"fmt"
	"math"

	"github.com/cjeanneret/dofplan/internal/logic/optics"
)

// ErrInvalidConfiguration reports a plan that cannot be computed, such as
// an overlap that leaves no unique coverage per image.
var ErrInvalidConfiguration = errors.New("invalid capture configuration")

// Surface is the subject to cover. Depth 0 means a flat surface; any
// positive depth models the subject as a six-sided box.
type Surface struct {
	WidthM  float64 `json:"width_m" yaml:"width_m"`
	HeightM float64 `json:"height_m" yaml:"height_m"`
	DepthM  float64 `json:"depth_m" yaml:"depth_m"`
}

// Validate rejects negative or non-finite dimensions.
func (s Surface) Validate() error {
	for _, d := range []struct {
		name string
		v    float64
	}{{"width", s.WidthM}, {"height", s.HeightM}, {"depth", s.DepthM}} {
		if math.IsNaN(d.v) || math.IsInf(d.v, 0) || d.v < 0 {
			return fmt.Errorf("%w: surface %s must be a finite value >= 0, got %g", ErrInvalidConfiguration, d.name, d.v)
		}
	}
	return nil
}

// ValidateOverlap checks that an overlap percentage leaves some unique
// coverage: it must lie in [0, 100).
func ValidateOverlap(pct float64) error {
	if math.IsNaN(pct) || pct < 0 || pct >= 100 {
		return fmt.Errorf("%w: overlap must be in [0, 100), got %g%%", ErrInvalidConfiguration, pct)
	}
	return nil
}

// EffectiveCoverage returns the unique area each image contributes.
// If overlap is 80%, each image only contributes 20% new content per axis.
// Formula: width × (100 − h_overlap) / 100, height × (100 − v_overlap) / 100
// Overlaps of 100% or more yield non-positive coverage, which
// ImagesRequired rejects.
func EffectiveCoverage(fp optics.Footprint, hOverlapPct, vOverlapPct float64) optics.Footprint {
	return optics.Footprint{
		WidthM:  fp.WidthM * (100 - hOverlapPct) / 100,
		HeightM: fp.HeightM * (100 - vOverlapPct) / 100,
	}
}

// TotalSurfaceArea returns the area to photograph in m².
// Flat surface (depth 0): width × height.
// Box: 2 × (wh + wd + hd), front + back + left + right + top + bottom.
func TotalSurfaceArea(widthM, heightM, depthM float64) float64 {
	if depthM == 0 {
		return widthM * heightM
	}
	return 2 * (widthM*heightM + widthM*depthM + heightM*depthM)
}
