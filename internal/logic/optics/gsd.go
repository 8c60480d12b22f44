package optics

import "fmt"

// GSDErrorMargin is the relative tolerance reported alongside a GSD value
// to reflect measurement and manufacturing spread.
const GSDErrorMargin = 0.05

// GSD thresholds in mm/pixel.
const (
	gsdCentimeterThresholdMm = 10.0
	gsdHighDetailMm          = 3.0
)

// GSD is a ground sample distance: the real-world size of one pixel.
type GSD struct {
	Mm            float64 `json:"mm_per_pixel"`
	ErrorMarginMm float64 `json:"error_margin_mm"`
}

// GroundSampleDistance returns the GSD at distanceM.
// Formula: pixel_size = sensor_width / image_width
//
//	GSD = pixel_size × distance_mm / focal_length
//
// Returns the zero GSD on any missing input.
func GroundSampleDistance(distanceM, focalLengthMm float64, s SensorGeometry) GSD {
	if !positive(distanceM) || !positive(focalLengthMm) || !positive(s.WidthMm) || s.ImageWidthPx <= 0 {
		return GSD{}
	}
	pixelSizeMm := s.WidthMm / float64(s.ImageWidthPx)
	gsdMm := pixelSizeMm * (distanceM * 1000.0) / focalLengthMm
	return GSD{Mm: gsdMm, ErrorMarginMm: gsdMm * GSDErrorMargin}
}

// IsZero reports whether the GSD could not be computed.
func (g GSD) IsZero() bool {
	return g.Mm == 0
}

// String renders the GSD in mm/pixel below 10 mm and in cm/pixel above,
// with its error margin, e.g. "1.23 mm/pixel (±0.06)".
func (g GSD) String() string {
	if g.IsZero() {
		return "N/A"
	}
	if g.Mm < gsdCentimeterThresholdMm {
		return fmt.Sprintf("%.2f mm/pixel (±%.2f)", g.Mm, g.ErrorMarginMm)
	}
	return fmt.Sprintf("%.2f cm/pixel (±%.2f)", g.Mm/10.0, g.ErrorMarginMm/10.0)
}

// Quality classifies the capture detail level of the GSD.
func (g GSD) Quality() string {
	switch {
	case g.IsZero():
		return ""
	case g.Mm < gsdHighDetailMm:
		return "High detail capture"
	case g.Mm < gsdCentimeterThresholdMm:
		return "Good for most applications"
	default:
		return "Lower resolution capture"
	}
}
