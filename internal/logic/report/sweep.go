package report

import "github.com/cjeanneret/dofplan/internal/logic/optics"

// SweepRow is one formatted line of a focus sweep.
type SweepRow struct {
	DOF       optics.DOF `json:"dof"`
	Focus     string     `json:"focus"`
	NearLimit string     `json:"near_limit"`
	FarLimit  string     `json:"far_limit"`
	TotalDOF  string     `json:"total_dof"`
}

// Sweep computes the depth of field of eq at req.Aperture for n focus
// distances spread evenly from fromM to toM. req.FocusDistanceM is ignored.
func Sweep(req Request, eq Equipment, fromM, toM float64, n int) ([]optics.DOF, error) {
	return optics.FocusSweep(eq.Params(req.Aperture, fromM), fromM, toM, n)
}

// FormatSweep renders sweep results for display.
func FormatSweep(rows []optics.DOF, policy optics.InfinityPolicy, unit optics.Unit) []SweepRow {
	out := make([]SweepRow, 0, len(rows))
	for _, d := range rows {
		out = append(out, SweepRow{
			DOF:       d,
			Focus:     policy.Format(d.FocusDistanceM, unit, 2, 0),
			NearLimit: policy.Format(d.NearLimitM, unit, 2, 0),
			FarLimit:  policy.Format(d.FarLimitM, unit, 2, d.FocusDistanceM),
			TotalDOF:  policy.Format(d.TotalDOFM, unit, 2, d.FocusDistanceM),
		})
	}
	return out
}
