package optics

import "math"

const (
	// FullFrameCoCMm is the acceptable blur circle for a 36x24 mm sensor
	// viewed at standard size.
	FullFrameCoCMm = 0.03

	fullFrameWidthMm  = 36.0
	fullFrameHeightMm = 24.0
)

// FullFrameDiagonalMm is the diagonal of the 36x24 mm reference format.
var FullFrameDiagonalMm = math.Hypot(fullFrameWidthMm, fullFrameHeightMm)

// CircleOfConfusion returns the circle of confusion in mm for a sensor with
// the given crop factor. Smaller sensors need a proportionally smaller
// circle to look equally sharp at the same print size.
// Formula: CoC = 0.03 / crop_factor
func CircleOfConfusion(cropFactor float64) float64 {
	if !positive(cropFactor) {
		return 0
	}
	return FullFrameCoCMm / cropFactor
}

// CropFactorFromSensor derives the crop factor from physical sensor
// dimensions: full-frame diagonal / sensor diagonal.
func CropFactorFromSensor(widthMm, heightMm float64) float64 {
	if !positive(widthMm) || !positive(heightMm) {
		return 0
	}
	return FullFrameDiagonalMm / math.Hypot(widthMm, heightMm)
}
