package optics

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// MaxSweepPoints bounds the number of rows a FocusSweep may produce.
const MaxSweepPoints = 1000

// FocusSweep computes the depth of field at n evenly spaced focus distances
// from fromM to toM inclusive, keeping the other parameters of p fixed.
func FocusSweep(p Params, fromM, toM float64, n int) ([]DOF, error) {
	if n < 2 || n > MaxSweepPoints {
		return nil, fmt.Errorf("%w: sweep needs between 2 and %d points, got %d",
			ErrInvalidConfiguration, MaxSweepPoints, n)
	}
	if !positive(fromM) || !positive(toM) || toM <= fromM {
		return nil, fmt.Errorf("%w: sweep range must satisfy 0 < from < to, got %g..%g",
			ErrInvalidConfiguration, fromM, toM)
	}

	distances := floats.Span(make([]float64, n), fromM, toM)
	rows := make([]DOF, 0, n)
	for _, d := range distances {
		q := p
		q.FocusDistanceM = d
		dof, err := Calculate(q)
		if err != nil {
			return nil, fmt.Errorf("focus %.3fm: %w", d, err)
		}
		rows = append(rows, dof)
	}
	return rows, nil
}
