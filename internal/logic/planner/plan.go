package planner

import (
	"fmt"
	"math"

	"github.com/cjeanneret/dofplan/internal/logic/optics"
)

// boxFaces is the number of faces photographed for a subject with depth.
// Each face gets the full 2-D grid; shared edges between adjacent faces are
// not deducted, so the count is an upper-bound heuristic.
const boxFaces = 6

// MaxImages bounds the image count of a plan.
const MaxImages = math.MaxInt32

// Plan is the image grid needed to cover a surface with the desired overlap.
type Plan struct {
	TotalSurfaceAreaM2 float64          `json:"total_surface_area_m2"`
	UniqueCoverage     optics.Footprint `json:"unique_coverage"`
	ImagesAcross       int              `json:"images_across"` // images per row
	ImagesDown         int              `json:"images_down"`   // rows
	TotalImages        int              `json:"total_images"`
}

// Faces returns how many grids the plan contains (1 for a flat surface,
// 6 for a box).
func (p Plan) Faces() int {
	if p.ImagesAcross*p.ImagesDown == 0 {
		return 0
	}
	return p.TotalImages / (p.ImagesAcross * p.ImagesDown)
}

// ImagesRequired calculates the image grid for a surface given the unique
// coverage of one image.
// Round up to ensure the entire surface is covered; multiply by 6 when the
// subject has depth.
func ImagesRequired(widthM, heightM, depthM float64, effective optics.Footprint) (Plan, error) {
	if !(effective.WidthM > 0) || !(effective.HeightM > 0) {
		return Plan{}, fmt.Errorf("%w: unique coverage per image must be positive, got %gm x %gm",
			ErrInvalidConfiguration, effective.WidthM, effective.HeightM)
	}

	across := math.Ceil(widthM / effective.WidthM)
	down := math.Ceil(heightM / effective.HeightM)
	total := across * down
	if depthM > 0 {
		total *= boxFaces
	}
	if !(across <= MaxImages) || !(down <= MaxImages) || !(total <= MaxImages) {
		return Plan{}, fmt.Errorf("%w: %gm x %gm surface needs more than %d images",
			ErrInvalidConfiguration, widthM, heightM, MaxImages)
	}

	return Plan{
		TotalSurfaceAreaM2: TotalSurfaceArea(widthM, heightM, depthM),
		UniqueCoverage:     effective,
		ImagesAcross:       int(across),
		ImagesDown:         int(down),
		TotalImages:        int(total),
	}, nil
}

// PlanSurface validates the overlaps and surface, derives the unique
// coverage from the frame footprint and computes the plan.
func PlanSurface(fp optics.Footprint, s Surface, hOverlapPct, vOverlapPct float64) (Plan, error) {
	if err := ValidateOverlap(hOverlapPct); err != nil {
		return Plan{}, fmt.Errorf("horizontal: %w", err)
	}
	if err := ValidateOverlap(vOverlapPct); err != nil {
		return Plan{}, fmt.Errorf("vertical: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Plan{}, err
	}
	return ImagesRequired(s.WidthM, s.HeightM, s.DepthM, EffectiveCoverage(fp, hOverlapPct, vOverlapPct))
}
