package optics

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FeetPerMeter is the fixed boundary conversion factor.
const FeetPerMeter = 3.28084

// Unit is a display unit for distances.
type Unit string

const (
	Meters Unit = "m"
	Feet   Unit = "ft"
)

// ParseUnit accepts "m"/"meters" and "ft"/"feet" (case-insensitive).
// An empty string selects meters.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "m", "meter", "meters", "metre", "metres":
		return Meters, nil
	case "ft", "foot", "feet":
		return Feet, nil
	default:
		return "", fmt.Errorf("unknown distance unit %q (want m or ft)", s)
	}
}

// MetersToFeet converts meters to feet.
func MetersToFeet(m float64) float64 {
	return m * FeetPerMeter
}

// FeetToMeters converts feet to meters.
func FeetToMeters(ft float64) float64 {
	return ft / FeetPerMeter
}

// ToMeters converts v expressed in u to meters.
func (u Unit) ToMeters(v float64) float64 {
	if u == Feet {
		return FeetToMeters(v)
	}
	return v
}

// FromMeters converts meters to u.
func (u Unit) FromMeters(m float64) float64 {
	if u == Feet {
		return MetersToFeet(m)
	}
	return m
}

// ParseDistance reads a distance such as "5", "5m", "5 m" or "16.4ft" and
// returns it in meters. A bare number is interpreted in defaultUnit.
func ParseDistance(input string, defaultUnit Unit) (float64, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	unit := defaultUnit
	switch {
	case strings.HasSuffix(s, "ft"):
		unit, s = Feet, strings.TrimSuffix(s, "ft")
	case strings.HasSuffix(s, "m"):
		unit, s = Meters, strings.TrimSuffix(s, "m")
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("parse distance %q: %w", input, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("parse distance %q: not a finite number", input)
	}
	return unit.ToMeters(v), nil
}
