// Package optics implements the closed-form depth-of-field, field-of-view
// and ground-sample-distance formulas used for shot planning.
//
// Every function is pure. Missing or non-finite inputs yield a neutral
// value (0 or an empty Footprint); inputs that are present but physically
// meaningless yield an error wrapping ErrInvalidConfiguration.
//
// Distances are in meters, sensor dimensions and focal lengths in
// millimeters, unless a name says otherwise.
package optics

import (
	"errors"
	"math"
)

// ErrInvalidConfiguration reports inputs that are present but physically
// meaningless for the requested operation.
var ErrInvalidConfiguration = errors.New("invalid optical configuration")

// positive reports whether v is a usable, strictly positive number.
func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
