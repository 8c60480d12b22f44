package report

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cjeanneret/dofplan/internal/catalog"
	"github.com/cjeanneret/dofplan/internal/logic/optics"
	"github.com/cjeanneret/dofplan/internal/logic/planner"
)

var ff24MP = catalog.Camera{
	ID:             "test-ff",
	Brand:          "Sony",
	Model:          "Test FF",
	SensorType:     "Full Frame",
	Mount:          catalog.MountSonyE,
	SensorWidthMm:  36,
	SensorHeightMm: 24,
	ImageWidthPx:   6000,
	ImageHeightPx:  4000,
	Megapixels:     24,
	CropFactor:     1,
}

var normal50 = catalog.Lens{
	ID:             "test-50",
	Brand:          "Sony",
	Model:          "FE 50mm F1.8",
	Mount:          catalog.MountSonyE,
	FocalLengthMm:  50,
	MaxAperture:    1.8,
	MinAperture:    22,
	CompatibleWith: []string{"Full Frame"},
}

func baseRequest() Request {
	return Request{
		Aperture:        8,
		FocusDistanceM:  10,
		Surface:         planner.Surface{WidthM: 10, HeightM: 10},
		HOverlapPercent: 60,
		VOverlapPercent: 60,
	}
}

func TestCompute_FullFrame50mm(t *testing.T) {
	got, err := Compute(baseRequest(), Equipment{Camera: ff24MP, Lens: normal50}, planner.DefaultStorageTable)
	require.NoError(t, err)

	want := &Report{
		Camera: "Sony Test FF",
		Lens:   "Sony FE 50mm F1.8",
		Params: optics.Params{FocalLengthMm: 50, Aperture: 8, FocusDistanceM: 10, CropFactor: 1},
		DOF: optics.DOF{
			HyperfocalM:    10.416667,
			NearLimitM:     5.102543,
			FarLimitM:      248.8,
			TotalDOFM:      243.697457,
			FocusDistanceM: 10,
		},
		HorizontalFOVDeg: 39.597753,
		VerticalFOVDeg:   26.991467,
		DiagonalFOVDeg:   46.793003,
		Coverage:         optics.Footprint{WidthM: 7.2, HeightM: 4.8},
		GSD:              optics.GSD{Mm: 1.2, ErrorMarginMm: 0.06},
		Plan: planner.Plan{
			TotalSurfaceAreaM2: 100,
			UniqueCoverage:     optics.Footprint{WidthM: 2.88, HeightM: 1.92},
			ImagesAcross:       4,
			ImagesDown:         6,
			TotalImages:        24,
		},
		RecommendedAperture: 8,
		Storage:             planner.Storage{JPEGMB: 288, RAWMB: 1440, Known: true},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(1e-6, 0), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Compute() mismatch (-want +got):\n%s", diff)
	}
}

func TestCompute_BeyondHyperfocal(t *testing.T) {
	req := baseRequest()
	req.FocusDistanceM = 20
	r, err := Compute(req, Equipment{Camera: ff24MP, Lens: normal50}, planner.DefaultStorageTable)
	require.NoError(t, err)
	assert.True(t, r.DOF.FarIsInfinite())
	assert.Equal(t, "From 6.84m to infinity", optics.InFocusRange(r.DOF, optics.Meters))
}

func TestCompute_InvalidConfiguration(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Request)
		target error
	}{
		{"zero_aperture", func(r *Request) { r.Aperture = 0 }, optics.ErrInvalidConfiguration},
		{"zero_focus", func(r *Request) { r.FocusDistanceM = 0 }, optics.ErrInvalidConfiguration},
		{"focus_inside_lens", func(r *Request) { r.FocusDistanceM = 0.04 }, optics.ErrInvalidConfiguration},
		{"full_h_overlap", func(r *Request) { r.HOverlapPercent = 100 }, planner.ErrInvalidConfiguration},
		{"negative_v_overlap", func(r *Request) { r.VOverlapPercent = -10 }, planner.ErrInvalidConfiguration},
		{"negative_surface", func(r *Request) { r.Surface.HeightM = -1 }, planner.ErrInvalidConfiguration},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := baseRequest()
			tc.mutate(&req)
			_, err := Compute(req, Equipment{Camera: ff24MP, Lens: normal50}, planner.DefaultStorageTable)
			assert.True(t, errors.Is(err, tc.target), "err = %v", err)
		})
	}
}

func warningCodes(ws []optics.Warning) []string {
	var codes []string
	for _, w := range ws {
		codes = append(codes, w.Code)
	}
	return codes
}

func TestCompute_Warnings(t *testing.T) {
	mismatched := ff24MP
	mismatched.Megapixels = 26

	apsOnly := normal50
	apsOnly.CompatibleWith = []string{"APS-C"}

	cases := []struct {
		name   string
		mutate func(*Request)
		eq     Equipment
		want   []string
	}{
		{"clean", func(*Request) {}, Equipment{Camera: ff24MP, Lens: normal50}, nil},
		{"aperture_too_narrow", func(r *Request) { r.Aperture = 32 }, Equipment{Camera: ff24MP, Lens: normal50},
			[]string{WarnApertureOutOfRange}},
		{"aperture_too_wide", func(r *Request) { r.Aperture = 1.4 }, Equipment{Camera: ff24MP, Lens: normal50},
			[]string{WarnApertureOutOfRange}},
		{"megapixels", func(*Request) {}, Equipment{Camera: mismatched, Lens: normal50},
			[]string{optics.WarnMegapixelMismatch}},
		{"incompatible", func(*Request) {}, Equipment{Camera: ff24MP, Lens: apsOnly},
			[]string{WarnIncompatibleLens}},
		{"low_detail", func(r *Request) { r.FocusDistanceM = 1000 }, Equipment{Camera: ff24MP, Lens: normal50},
			[]string{WarnLowDetail}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := baseRequest()
			tc.mutate(&req)
			r, err := Compute(req, tc.eq, planner.DefaultStorageTable)
			require.NoError(t, err)
			assert.Equal(t, tc.want, warningCodes(r.Warnings))
		})
	}
}

func TestCompute_UnknownMegapixels(t *testing.T) {
	cam := ff24MP
	cam.Megapixels = 0
	r, err := Compute(baseRequest(), Equipment{Camera: cam, Lens: normal50}, planner.DefaultStorageTable)
	require.NoError(t, err)
	assert.False(t, r.Storage.Known)
	assert.Equal(t, "N/A", r.Storage.JPEG())
}

func TestSummarize(t *testing.T) {
	r, err := Compute(baseRequest(), Equipment{Camera: ff24MP, Lens: normal50}, planner.DefaultStorageTable)
	require.NoError(t, err)

	want := Summary{
		Hyperfocal:   "10.42m",
		NearLimit:    "5.10m",
		FarLimit:     "∞", // 248.8m is beyond 15x the focus distance
		TotalDOF:     "∞",
		InFocusRange: "From 5.10m to 248.80m",
		FieldOfView:  "39.6° x 27.0°",
		Coverage:     "7.20m x 4.80m",
		GSD:          "1.20 mm/pixel (±0.06)",
		GSDQuality:   "High detail capture",
		JPEG:         "288 MB",
		RAW:          "1.4 GB",
	}
	if diff := cmp.Diff(want, r.Summarize(optics.DefaultInfinityPolicy, optics.Meters)); diff != "" {
		t.Errorf("Summarize() mismatch (-want +got):\n%s", diff)
	}

	wide := optics.InfinityPolicy{Factor: 100, AbsoluteM: 1000}
	s := r.Summarize(wide, optics.Feet)
	assert.Equal(t, "34.18ft", s.Hyperfocal)
	assert.Equal(t, "816.27ft", s.FarLimit)
	assert.Equal(t, "From 16.74ft to 816.27ft", s.InFocusRange)
}

func TestSummarize_TotalDOFJudgedOnItsOwn(t *testing.T) {
	// The far limit is beyond 15x focus but the depth itself is not.
	r := &Report{DOF: optics.DOF{
		HyperfocalM:    1.2,
		NearLimitM:     0.9,
		FarLimitM:      15.5,
		TotalDOFM:      14.6,
		FocusDistanceM: 1,
	}}
	s := r.Summarize(optics.DefaultInfinityPolicy, optics.Meters)
	assert.Equal(t, "∞", s.FarLimit)
	assert.Equal(t, "14.60m", s.TotalDOF)
	assert.Equal(t, "From 0.90m to 15.50m", s.InFocusRange)

	rows := FormatSweep([]optics.DOF{r.DOF}, optics.DefaultInfinityPolicy, optics.Meters)
	assert.Equal(t, "∞", rows[0].FarLimit)
	assert.Equal(t, "14.60m", rows[0].TotalDOF)

	r.DOF.FarLimitM, r.DOF.TotalDOFM = 40, 39.1
	s = r.Summarize(optics.DefaultInfinityPolicy, optics.Meters)
	assert.Equal(t, "∞", s.TotalDOF)

	r.DOF.FarLimitM, r.DOF.TotalDOFM = math.Inf(1), math.Inf(1)
	s = r.Summarize(optics.DefaultInfinityPolicy, optics.Meters)
	assert.Equal(t, "∞", s.TotalDOF)
}

func TestResolve(t *testing.T) {
	cat, err := catalog.Load("../../../configs/catalog.yaml")
	require.NoError(t, err)

	eq, err := Resolve(cat, Request{CameraID: "sony-a7iv", LensID: "sony-fe-24-f14"})
	require.NoError(t, err)
	assert.Equal(t, "A7 IV", eq.Camera.Model)
	assert.Equal(t, 24.0, eq.Lens.FocalLengthMm)

	_, err = Resolve(cat, Request{CameraID: "nope", LensID: "sony-fe-24-f14"})
	assert.ErrorIs(t, err, ErrUnknownEquipment)
	_, err = Resolve(cat, Request{CameraID: "sony-a7iv", LensID: "nope"})
	assert.ErrorIs(t, err, ErrUnknownEquipment)
}

func TestSweep(t *testing.T) {
	eq := Equipment{Camera: ff24MP, Lens: normal50}
	rows, err := Sweep(baseRequest(), eq, 2, 20, 4)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	wantFocus := []float64{2, 8, 14, 20}
	for i, d := range rows {
		assert.InDelta(t, wantFocus[i], d.FocusDistanceM, 1e-9)
		assert.InDelta(t, 10.416667, d.HyperfocalM, 1e-6)
	}

	formatted := FormatSweep(rows, optics.DefaultInfinityPolicy, optics.Meters)
	assert.Equal(t, "2.00m", formatted[0].Focus)
	assert.Equal(t, "∞", formatted[3].FarLimit)
	assert.Equal(t, "∞", formatted[3].TotalDOF)
	assert.NotEqual(t, "∞", formatted[0].FarLimit)

	_, err = Sweep(baseRequest(), eq, 20, 2, 4)
	assert.ErrorIs(t, err, optics.ErrInvalidConfiguration)
}
