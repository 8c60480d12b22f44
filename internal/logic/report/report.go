// Package report composes the optics and planner calculations for one
// camera, lens and subject into a single immutable result. Callers rerun
// Compute whenever an input changes.
package report

import (
	"errors"
	"fmt"

	"github.com/cjeanneret/dofplan/internal/catalog"
	"github.com/cjeanneret/dofplan/internal/debug"
	"github.com/cjeanneret/dofplan/internal/logic/optics"
	"github.com/cjeanneret/dofplan/internal/logic/planner"
)

// Advisory codes added on top of the optics pixel-density checks.
const (
	WarnApertureOutOfRange = "aperture_out_of_range"
	WarnIncompatibleLens   = "incompatible_lens"
	WarnLowDetail          = "low_detail"
)

// ErrUnknownEquipment is returned by Resolve for ids missing from the
// catalog.
var ErrUnknownEquipment = errors.New("unknown equipment")

// Request holds the user inputs of a calculation.
type Request struct {
	CameraID        string          `json:"camera_id"`
	LensID          string          `json:"lens_id"`
	Aperture        float64         `json:"aperture"`
	FocusDistanceM  float64         `json:"focus_distance_m"`
	Surface         planner.Surface `json:"surface"`
	HOverlapPercent float64         `json:"h_overlap_percent"`
	VOverlapPercent float64         `json:"v_overlap_percent"`
}

// Equipment is the resolved camera and lens of a Request.
type Equipment struct {
	Camera catalog.Camera
	Lens   catalog.Lens
}

// Params returns the optical inputs for this camera and lens.
func (eq Equipment) Params(aperture, focusDistanceM float64) optics.Params {
	return optics.Params{
		FocalLengthMm:  eq.Lens.FocalLengthMm,
		Aperture:       aperture,
		FocusDistanceM: focusDistanceM,
		CropFactor:     eq.Camera.Crop(),
	}
}

// Resolve looks up the camera and lens of req in cat.
func Resolve(cat *catalog.Catalog, req Request) (Equipment, error) {
	cam, ok := cat.Camera(req.CameraID)
	debug.Lookup("camera", req.CameraID, ok)
	if !ok {
		return Equipment{}, fmt.Errorf("%w: camera %q", ErrUnknownEquipment, req.CameraID)
	}
	lens, ok := cat.Lens(req.LensID)
	debug.Lookup("lens", req.LensID, ok)
	if !ok {
		return Equipment{}, fmt.Errorf("%w: lens %q", ErrUnknownEquipment, req.LensID)
	}
	return Equipment{Camera: cam, Lens: lens}, nil
}

// Report is the full result for one Request.
type Report struct {
	Camera              string           `json:"camera"`
	Lens                string           `json:"lens"`
	Params              optics.Params    `json:"params"`
	DOF                 optics.DOF       `json:"dof"`
	HorizontalFOVDeg    float64          `json:"horizontal_fov_deg"`
	VerticalFOVDeg      float64          `json:"vertical_fov_deg"`
	DiagonalFOVDeg      float64          `json:"diagonal_fov_deg"`
	Coverage            optics.Footprint `json:"coverage"` // one frame at the focus distance
	GSD                 optics.GSD       `json:"gsd"`
	Plan                planner.Plan     `json:"plan"`
	RecommendedAperture float64          `json:"recommended_aperture"`
	Storage             planner.Storage  `json:"storage"`
	Warnings            []optics.Warning `json:"warnings,omitempty"`
}

// Compute runs the depth of field, field of view, coverage, GSD, capture
// plan and storage calculations. Invalid optical or planning inputs return
// an error wrapping optics.ErrInvalidConfiguration or
// planner.ErrInvalidConfiguration; catalog inconsistencies and an aperture
// outside the lens range only add warnings.
func Compute(req Request, eq Equipment, table planner.StorageTable) (*Report, error) {
	cam, lens := eq.Camera, eq.Lens
	sensor := cam.Sensor()

	params := eq.Params(req.Aperture, req.FocusDistanceM)
	debug.PrintStruct("DOF params", params)

	dof, err := optics.Calculate(params)
	if err != nil {
		return nil, err
	}
	debug.Trace("hyperfocal=%.3fm near=%.3fm far=%.3fm", dof.HyperfocalM, dof.NearLimitM, dof.FarLimitM)

	coverage := optics.GroundCoverage(req.FocusDistanceM, lens.FocalLengthMm, sensor)
	plan, err := planner.PlanSurface(coverage, req.Surface, req.HOverlapPercent, req.VOverlapPercent)
	if err != nil {
		return nil, err
	}
	debug.Plan(plan.ImagesAcross, plan.ImagesDown, plan.TotalImages)

	gsd := optics.GroundSampleDistance(req.FocusDistanceM, lens.FocalLengthMm, sensor)

	r := &Report{
		Camera:              cam.Name(),
		Lens:                lens.Name(),
		Params:              params,
		DOF:                 dof,
		HorizontalFOVDeg:    optics.FieldOfView(lens.FocalLengthMm, sensor.WidthMm),
		VerticalFOVDeg:      optics.VerticalFieldOfView(lens.FocalLengthMm, sensor),
		DiagonalFOVDeg:      optics.DiagonalFieldOfView(lens.FocalLengthMm, sensor),
		Coverage:            coverage,
		GSD:                 gsd,
		Plan:                plan,
		RecommendedAperture: planner.RecommendedAperture(lens.MinAperture, lens.MaxAperture),
		Storage:             table.Estimate(plan.TotalImages, cam.Megapixels, cam.Brand, cam.Model),
		Warnings:            warnings(req, eq, gsd),
	}
	for _, w := range r.Warnings {
		debug.Warn("%s", w.Message)
	}
	return r, nil
}

func warnings(req Request, eq Equipment, gsd optics.GSD) []optics.Warning {
	ws := optics.CheckPixelDensity(eq.Camera.Sensor())
	if !catalog.IsCompatible(eq.Camera, eq.Lens) {
		ws = append(ws, optics.Warning{
			Code:    WarnIncompatibleLens,
			Message: fmt.Sprintf("%s is not listed as compatible with %s", eq.Lens.Name(), eq.Camera.Name()),
		})
	}
	if eq.Lens.MaxAperture > 0 && (req.Aperture < eq.Lens.MaxAperture || req.Aperture > eq.Lens.MinAperture) {
		ws = append(ws, optics.Warning{
			Code: WarnApertureOutOfRange,
			Message: fmt.Sprintf("f/%g is outside the lens range f/%g-f/%g",
				req.Aperture, eq.Lens.MaxAperture, eq.Lens.MinAperture),
		})
	}
	if !gsd.IsZero() && gsd.Mm >= 10 {
		ws = append(ws, optics.Warning{
			Code:    WarnLowDetail,
			Message: fmt.Sprintf("%s: %s", gsd.Quality(), gsd),
		})
	}
	return ws
}

// Summary is the display form of a Report.
type Summary struct {
	Hyperfocal   string `json:"hyperfocal"`
	NearLimit    string `json:"near_limit"`
	FarLimit     string `json:"far_limit"`
	TotalDOF     string `json:"total_dof"`
	InFocusRange string `json:"in_focus_range"`
	FieldOfView  string `json:"field_of_view"`
	Coverage     string `json:"coverage"`
	GSD          string `json:"gsd"`
	GSDQuality   string `json:"gsd_quality,omitempty"`
	JPEG         string `json:"jpeg"`
	RAW          string `json:"raw"`
}

// Summarize formats r for display in unit, hiding effectively infinite far
// limits behind the ∞ symbol according to policy.
func (r *Report) Summarize(policy optics.InfinityPolicy, unit optics.Unit) Summary {
	focus := r.DOF.FocusDistanceM
	return Summary{
		Hyperfocal:   policy.Format(r.DOF.HyperfocalM, unit, 2, 0),
		NearLimit:    policy.Format(r.DOF.NearLimitM, unit, 2, 0),
		FarLimit:     policy.Format(r.DOF.FarLimitM, unit, 2, focus),
		TotalDOF:     policy.Format(r.DOF.TotalDOFM, unit, 2, focus),
		InFocusRange: optics.InFocusRange(r.DOF, unit),
		FieldOfView:  fmt.Sprintf("%.1f° x %.1f°", r.HorizontalFOVDeg, r.VerticalFOVDeg),
		Coverage: fmt.Sprintf("%s x %s",
			policy.Format(r.Coverage.WidthM, unit, 2, 0), policy.Format(r.Coverage.HeightM, unit, 2, 0)),
		GSD:        r.GSD.String(),
		GSDQuality: r.GSD.Quality(),
		JPEG:       r.Storage.JPEG(),
		RAW:        r.Storage.RAW(),
	}
}
