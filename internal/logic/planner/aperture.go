package planner

// sweetSpotApertures are the f-numbers preferred for photogrammetry, in
// order of preference.
var sweetSpotApertures = []float64{8, 11, 16}

// RecommendedAperture picks the first sweet-spot f-number the lens can use.
// maxAperture is the widest setting (smallest number), minAperture the
// narrowest (largest number). Falls back to maxAperture when none fits.
func RecommendedAperture(minAperture, maxAperture float64) float64 {
	for _, ap := range sweetSpotApertures {
		if ap >= maxAperture && ap <= minAperture {
			return ap
		}
	}
	return maxAperture
}
