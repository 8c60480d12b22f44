package optics

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircleOfConfusion(t *testing.T) {
	assert.Equal(t, 0.03, CircleOfConfusion(1))
	assert.Equal(t, 0.015, CircleOfConfusion(2))
	assert.InDelta(t, 0.02, CircleOfConfusion(1.5), 1e-12)
	assert.Zero(t, CircleOfConfusion(0))
	assert.Zero(t, CircleOfConfusion(-1))
	assert.Zero(t, CircleOfConfusion(math.NaN()))
}

func TestCropFactorFromSensor(t *testing.T) {
	assert.InDelta(t, 1.0, CropFactorFromSensor(36, 24), 1e-12)
	assert.InDelta(t, 1.525, CropFactorFromSensor(23.6, 15.8), 0.01)
	assert.InDelta(t, 2.0, CropFactorFromSensor(17.3, 13.0), 0.02)
	assert.Zero(t, CropFactorFromSensor(0, 24))
}

func TestHyperfocalDistance(t *testing.T) {
	// 24² / (8 × 0.03) / 1000 = 2.4 m
	h, err := HyperfocalDistance(24, 8, 0.03)
	require.NoError(t, err)
	assert.InDelta(t, 2.4, h, 1e-9)

	// 50² / (2.8 × 0.03) / 1000 ≈ 29.76 m
	h, err = HyperfocalDistance(50, 2.8, 0.03)
	require.NoError(t, err)
	assert.InDelta(t, 29.762, h, 1e-3)
}

func TestHyperfocalDistance_InvalidConfiguration(t *testing.T) {
	cases := []struct {
		name     string
		aperture float64
		coc      float64
	}{
		{"zero_aperture", 0, 0.03},
		{"negative_aperture", -8, 0.03},
		{"zero_coc", 8, 0},
		{"negative_coc", 8, -0.03},
		{"nan_aperture", math.NaN(), 0.03},
		{"inf_coc", 8, math.Inf(1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := HyperfocalDistance(50, tc.aperture, tc.coc)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfiguration)
		})
	}
}

func TestNearFarLimits_FiniteCase(t *testing.T) {
	// 24mm f/8 full frame: H = 2.4 m; focus 2 m is inside H.
	near, err := NearLimit(2, 24, 8, 0.03)
	require.NoError(t, err)
	far, err := FarLimit(2, 24, 8, 0.03)
	require.NoError(t, err)

	assert.InDelta(t, 2*(2.4-0.024)/(2.4+2-0.048), near, 1e-9)
	assert.InDelta(t, 2*(2.4-0.024)/(2.4-2), far, 1e-9)
	assert.Less(t, near, 2.0)
	assert.Greater(t, far, 2.0)
	assert.InDelta(t, far-near, TotalDOF(near, far), 1e-12)
}

func TestFarLimit_AtOrBeyondHyperfocalIsInfinite(t *testing.T) {
	cases := []struct {
		name  string
		focal float64
		ap    float64
		coc   float64
	}{
		{"24mm_f8_ff", 24, 8, 0.03},
		{"50mm_f2.8_ff", 50, 2.8, 0.03},
		{"35mm_f11_apsc", 35, 11, 0.02},
		{"200mm_f4_ff", 200, 4, 0.03},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, err := HyperfocalDistance(tc.focal, tc.ap, tc.coc)
			require.NoError(t, err)
			for _, mult := range []float64{1, 1.01, 2, 10, 1000} {
				s := h * mult
				far, err := FarLimit(s, tc.focal, tc.ap, tc.coc)
				require.NoError(t, err)
				assert.True(t, math.IsInf(far, 1), "focus %.3f >= H %.3f should give infinite far limit", s, h)

				near, err := NearLimit(s, tc.focal, tc.ap, tc.coc)
				require.NoError(t, err)
				assert.True(t, math.IsInf(TotalDOF(near, far), 1))
			}
		})
	}
}

func TestCalculate_OrderingInvariant(t *testing.T) {
	focals := []float64{14, 24, 35, 50, 85, 200}
	apertures := []float64{1.4, 2.8, 5.6, 8, 16}
	crops := []float64{1, 1.5, 2}
	distances := []float64{0.3, 0.5, 1, 2, 5, 10, 30, 100}

	for _, f := range focals {
		for _, n := range apertures {
			for _, c := range crops {
				for _, s := range distances {
					d, err := Calculate(Params{FocalLengthMm: f, Aperture: n, FocusDistanceM: s, CropFactor: c})
					require.NoError(t, err)
					assert.LessOrEqual(t, d.NearLimitM, d.FocusDistanceM)
					if !d.FarIsInfinite() {
						assert.LessOrEqual(t, d.FocusDistanceM, d.FarLimitM)
						assert.Less(t, s, d.HyperfocalM)
					} else {
						assert.GreaterOrEqual(t, s, d.HyperfocalM)
					}
				}
			}
		}
	}
}

func TestCalculate_EndToEnd24mm(t *testing.T) {
	d, err := Calculate(Params{FocalLengthMm: 24, Aperture: 8, FocusDistanceM: 5, CropFactor: 1})
	require.NoError(t, err)

	assert.InDelta(t, 2.4, d.HyperfocalM, 1e-9)
	assert.True(t, d.FarIsInfinite())
	assert.True(t, math.IsInf(d.TotalDOFM, 1))
	assert.InDelta(t, 5*(2.4-0.024)/(2.4+5-0.048), d.NearLimitM, 1e-9)
	assert.Equal(t, 5.0, d.FocusDistanceM)
	assert.Equal(t, "From 1.62m to infinity", InFocusRange(d, Meters))
}

func TestCalculate_InvalidConfiguration(t *testing.T) {
	cases := []struct {
		name string
		p    Params
	}{
		{"no_focal", Params{FocalLengthMm: 0, Aperture: 8, FocusDistanceM: 5, CropFactor: 1}},
		{"no_aperture", Params{FocalLengthMm: 50, Aperture: 0, FocusDistanceM: 5, CropFactor: 1}},
		{"no_crop", Params{FocalLengthMm: 50, Aperture: 8, FocusDistanceM: 5, CropFactor: 0}},
		{"zero_focus", Params{FocalLengthMm: 50, Aperture: 8, FocusDistanceM: 0, CropFactor: 1}},
		{"focus_inside_focal", Params{FocalLengthMm: 50, Aperture: 8, FocusDistanceM: 0.04, CropFactor: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Calculate(tc.p)
			assert.ErrorIs(t, err, ErrInvalidConfiguration)
		})
	}
}

func TestInFocusRange_Finite(t *testing.T) {
	d := DOF{NearLimitM: 1.0919, FarLimitM: 11.88, FocusDistanceM: 2}
	assert.Equal(t, "From 1.09m to 11.88m", InFocusRange(d, Meters))
	assert.Equal(t, "From 1.09m to 11.88m", InFocusRange(d, ""))
}

func TestInFocusRange_Feet(t *testing.T) {
	d := DOF{NearLimitM: 2, FarLimitM: 5, FocusDistanceM: 3}
	assert.Equal(t, "From 6.56ft to 16.40ft", InFocusRange(d, Feet))

	d.FarLimitM = math.Inf(1)
	assert.Equal(t, "From 6.56ft to infinity", InFocusRange(d, Feet))
}

func TestDOF_MarshalJSON(t *testing.T) {
	d := DOF{HyperfocalM: 2.4, NearLimitM: 1.6, FarLimitM: math.Inf(1), TotalDOFM: math.Inf(1), FocusDistanceM: 5}
	data, err := json.Marshal(d)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Nil(t, got["far_limit_m"])
	assert.Nil(t, got["total_dof_m"])
	assert.Equal(t, true, got["far_infinite"])
	assert.Equal(t, 2.4, got["hyperfocal_m"])

	d.FarLimitM, d.TotalDOFM = 11.88, 10.79
	data, err = json.Marshal(d)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 11.88, got["far_limit_m"])
	assert.Equal(t, false, got["far_infinite"])
}
