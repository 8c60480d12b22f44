package optics

import "math"

// SensorGeometry describes the physical sensor and its output resolution.
type SensorGeometry struct {
	WidthMm       float64 `json:"width_mm"`
	HeightMm      float64 `json:"height_mm"`
	ImageWidthPx  int     `json:"image_width_px"`
	ImageHeightPx int     `json:"image_height_px"`
	Megapixels    float64 `json:"megapixels"`
}

// Footprint is the ground extent covered by one frame.
type Footprint struct {
	WidthM  float64 `json:"width_m"`
	HeightM float64 `json:"height_m"`
}

// IsZero reports whether the footprint covers nothing.
func (f Footprint) IsZero() bool {
	return f.WidthM == 0 && f.HeightM == 0
}

// FieldOfView calculates the angle of view in degrees across the given
// sensor dimension (width for horizontal, height for vertical).
// Formula: FOV = 2 × arctan(sensor_dimension / (2 × focal_length))
// Returns 0 if either input is missing.
func FieldOfView(focalLengthMm, sensorDimensionMm float64) float64 {
	if !positive(focalLengthMm) || !positive(sensorDimensionMm) {
		return 0
	}
	return 2.0 * math.Atan(sensorDimensionMm/(2.0*focalLengthMm)) * 180.0 / math.Pi
}

// VerticalFieldOfView calculates the vertical angle of view in degrees.
func VerticalFieldOfView(focalLengthMm float64, s SensorGeometry) float64 {
	return FieldOfView(focalLengthMm, s.HeightMm)
}

// DiagonalFieldOfView calculates the diagonal angle of view in degrees.
func DiagonalFieldOfView(focalLengthMm float64, s SensorGeometry) float64 {
	if !positive(s.WidthMm) || !positive(s.HeightMm) {
		return 0
	}
	return FieldOfView(focalLengthMm, math.Hypot(s.WidthMm, s.HeightMm))
}

// GroundCoverage projects the sensor onto a plane at distanceM using
// similar triangles:
// width = distance × sensor_width / focal_length (all in meters)
// Returns an empty Footprint on any missing input.
func GroundCoverage(distanceM, focalLengthMm float64, s SensorGeometry) Footprint {
	if !positive(distanceM) || !positive(focalLengthMm) || !positive(s.WidthMm) || !positive(s.HeightMm) {
		return Footprint{}
	}
	focalM := focalLengthMm / 1000.0
	return Footprint{
		WidthM:  distanceM * (s.WidthMm / 1000.0) / focalM,
		HeightM: distanceM * (s.HeightMm / 1000.0) / focalM,
	}
}
