package optics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var ff24MP = SensorGeometry{WidthMm: 36, HeightMm: 24, ImageWidthPx: 6000, ImageHeightPx: 4000, Megapixels: 24}

func TestGroundSampleDistance(t *testing.T) {
	// pixel = 36/6000 = 0.006 mm; at 10 m with 50 mm: 0.006 × 10000 / 50 = 1.2 mm
	g := GroundSampleDistance(10, 50, ff24MP)
	assert.InDelta(t, 1.2, g.Mm, 1e-9)
	assert.InDelta(t, 0.06, g.ErrorMarginMm, 1e-9)

	// GSD scales linearly with distance and inversely with focal length.
	assert.InDelta(t, 2*g.Mm, GroundSampleDistance(20, 50, ff24MP).Mm, 1e-9)
	assert.InDelta(t, g.Mm/2, GroundSampleDistance(10, 100, ff24MP).Mm, 1e-9)
}

func TestGroundSampleDistance_MissingInput(t *testing.T) {
	assert.True(t, GroundSampleDistance(0, 50, ff24MP).IsZero())
	assert.True(t, GroundSampleDistance(10, 0, ff24MP).IsZero())
	assert.True(t, GroundSampleDistance(10, 50, SensorGeometry{WidthMm: 36}).IsZero())
	assert.True(t, GroundSampleDistance(10, 50, SensorGeometry{ImageWidthPx: 6000}).IsZero())
}

func TestGSD_String(t *testing.T) {
	cases := []struct {
		name string
		g    GSD
		want string
	}{
		{"millimeters", GroundSampleDistance(10, 50, ff24MP), "1.20 mm/pixel (±0.06)"},
		{"just_below_threshold", GSD{Mm: 9.99, ErrorMarginMm: 0.4995}, "9.99 mm/pixel (±0.50)"},
		{"at_threshold", GSD{Mm: 10, ErrorMarginMm: 0.5}, "1.00 cm/pixel (±0.05)"},
		{"centimeters", GroundSampleDistance(100, 50, ff24MP), "1.20 cm/pixel (±0.06)"},
		{"unknown", GSD{}, "N/A"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.g.String())
		})
	}
}

func TestGSD_Quality(t *testing.T) {
	assert.Equal(t, "High detail capture", GSD{Mm: 1.2}.Quality())
	assert.Equal(t, "Good for most applications", GSD{Mm: 3}.Quality())
	assert.Equal(t, "Good for most applications", GSD{Mm: 9.9}.Quality())
	assert.Equal(t, "Lower resolution capture", GSD{Mm: 12}.Quality())
	assert.Empty(t, GSD{}.Quality())
}
