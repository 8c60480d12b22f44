package optics

import (
	"encoding/json"
	"fmt"
	"math"
)

// Params holds the optical inputs of a depth-of-field calculation.
type Params struct {
	FocalLengthMm  float64 `json:"focal_length_mm"`
	Aperture       float64 `json:"aperture"` // f-number, e.g. 8 for f/8
	FocusDistanceM float64 `json:"focus_distance_m"`
	CropFactor     float64 `json:"crop_factor"` // 1 = full frame
}

// DOF is the result of a depth-of-field calculation.
// FarLimitM and TotalDOFM are +Inf when focused at or beyond the
// hyperfocal distance.
type DOF struct {
	HyperfocalM    float64 `json:"hyperfocal_m"`
	NearLimitM     float64 `json:"near_limit_m"`
	FarLimitM      float64 `json:"far_limit_m"`
	TotalDOFM      float64 `json:"total_dof_m"`
	FocusDistanceM float64 `json:"focus_distance_m"`
}

// FarIsInfinite reports whether everything beyond the near limit is in focus.
func (d DOF) FarIsInfinite() bool {
	return math.IsInf(d.FarLimitM, 1)
}

// MarshalJSON encodes infinite limits as null; JSON has no infinity.
func (d DOF) MarshalJSON() ([]byte, error) {
	finite := func(v float64) *float64 {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return nil
		}
		return &v
	}
	return json.Marshal(struct {
		HyperfocalM    float64  `json:"hyperfocal_m"`
		NearLimitM     float64  `json:"near_limit_m"`
		FarLimitM      *float64 `json:"far_limit_m"`
		TotalDOFM      *float64 `json:"total_dof_m"`
		FocusDistanceM float64  `json:"focus_distance_m"`
		FarInfinite    bool     `json:"far_infinite"`
	}{
		HyperfocalM:    d.HyperfocalM,
		NearLimitM:     d.NearLimitM,
		FarLimitM:      finite(d.FarLimitM),
		TotalDOFM:      finite(d.TotalDOFM),
		FocusDistanceM: d.FocusDistanceM,
		FarInfinite:    d.FarIsInfinite(),
	})
}

// HyperfocalDistance returns the hyperfocal distance in meters.
// Formula: H = f² / (N × c) / 1000
func HyperfocalDistance(focalLengthMm, aperture, cocMm float64) (float64, error) {
	if !positive(aperture) {
		return 0, fmt.Errorf("%w: aperture must be > 0, got %g", ErrInvalidConfiguration, aperture)
	}
	if !positive(cocMm) {
		return 0, fmt.Errorf("%w: circle of confusion must be > 0, got %g", ErrInvalidConfiguration, cocMm)
	}
	return focalLengthMm * focalLengthMm / (aperture * cocMm) / 1000.0, nil
}

// NearLimit returns the nearest acceptably sharp distance in meters.
// Formula: near = s × (H − f) / (H + s − 2f), with f in meters.
// The result is not clamped; a non-positive denominator is reported as an
// invalid configuration.
func NearLimit(focusDistanceM, focalLengthMm, aperture, cocMm float64) (float64, error) {
	h, err := HyperfocalDistance(focalLengthMm, aperture, cocMm)
	if err != nil {
		return 0, err
	}
	f := focalLengthMm / 1000.0
	denom := h + focusDistanceM - 2*f
	if denom <= 0 {
		return 0, fmt.Errorf("%w: near limit undefined for focus distance %gm with %gmm lens",
			ErrInvalidConfiguration, focusDistanceM, focalLengthMm)
	}
	return focusDistanceM * (h - f) / denom, nil
}

// FarLimit returns the farthest acceptably sharp distance in meters, or
// +Inf when the focus distance is at or beyond the hyperfocal distance.
// Formula: far = s × (H − f) / (H − s)
func FarLimit(focusDistanceM, focalLengthMm, aperture, cocMm float64) (float64, error) {
	h, err := HyperfocalDistance(focalLengthMm, aperture, cocMm)
	if err != nil {
		return 0, err
	}
	if focusDistanceM >= h {
		return math.Inf(1), nil
	}
	f := focalLengthMm / 1000.0
	return focusDistanceM * (h - f) / (h - focusDistanceM), nil
}

// TotalDOF returns far − near, or +Inf when far is infinite.
func TotalDOF(nearM, farM float64) float64 {
	if math.IsInf(farM, 1) {
		return math.Inf(1)
	}
	return farM - nearM
}

// Calculate runs the full depth-of-field chain for p.
// The focus distance must exceed the focal length: a lens cannot focus
// closer than that, and the near/far formulas lose their ordering there.
func Calculate(p Params) (DOF, error) {
	if !positive(p.FocalLengthMm) {
		return DOF{}, fmt.Errorf("%w: focal length must be > 0, got %g", ErrInvalidConfiguration, p.FocalLengthMm)
	}
	if !positive(p.FocusDistanceM) || p.FocusDistanceM <= p.FocalLengthMm/1000.0 {
		return DOF{}, fmt.Errorf("%w: focus distance must exceed the focal length, got %gm",
			ErrInvalidConfiguration, p.FocusDistanceM)
	}
	coc := CircleOfConfusion(p.CropFactor)
	h, err := HyperfocalDistance(p.FocalLengthMm, p.Aperture, coc)
	if err != nil {
		return DOF{}, err
	}
	near, err := NearLimit(p.FocusDistanceM, p.FocalLengthMm, p.Aperture, coc)
	if err != nil {
		return DOF{}, err
	}
	far, err := FarLimit(p.FocusDistanceM, p.FocalLengthMm, p.Aperture, coc)
	if err != nil {
		return DOF{}, err
	}
	return DOF{
		HyperfocalM:    h,
		NearLimitM:     near,
		FarLimitM:      far,
		TotalDOFM:      TotalDOF(near, far),
		FocusDistanceM: p.FocusDistanceM,
	}, nil
}

// InFocusRange describes the sharp zone in unit, e.g. "From 3.91m to
// 6.94m" or "From 12.83ft to infinity". Any unit other than Feet renders
// meters.
func InFocusRange(d DOF, unit Unit) string {
	if unit != Feet {
		unit = Meters
	}
	near := unit.FromMeters(d.NearLimitM)
	if d.FarIsInfinite() {
		return fmt.Sprintf("From %.2f%s to infinity", near, unit)
	}
	return fmt.Sprintf("From %.2f%s to %.2f%s", near, unit, unit.FromMeters(d.FarLimitM), unit)
}
