// Package risk implements the rule-based risk model: it maps a student's
// raw attendance/marks/fee signals to a score, a coarse three-tier level,
// and an ordered list of human-readable risk factors. Pure functions only -
// no external dependencies, no state carried between calls.
package risk

import "fmt"

// Thresholds holds the six severity cut-points of the risk model. Red is
// the more severe tier. Attendance and marks are lower-is-worse; fee
// overdue days is higher-is-worse. Comparisons are strict: a value exactly
// equal to a cut-point resolves to the less severe bucket.
//
// Loaded once at startup, read-only afterwards; tests pass their own copy.
type Thresholds struct {
	AttendanceRed    float64
	AttendanceYellow float64
	MarksRed         float64
	MarksYellow      float64
	FeeOverdueRed    int
	FeeOverdueYellow int
}

// DefaultThresholds returns the standard cut-points.
func DefaultThresholds() Thresholds {
	return Thresholds{
		AttendanceRed:    60,
		AttendanceYellow: 75,
		MarksRed:         40,
		MarksYellow:      50,
		FeeOverdueRed:    30,
		FeeOverdueYellow: 15,
	}
}

// Validate checks that the cut-points are ordered sanely: for
// lower-is-worse signals red < yellow, for fee overdue red > yellow.
func (t Thresholds) Validate() error {
	if t.AttendanceRed >= t.AttendanceYellow {
		return fmt.Errorf("attendance thresholds: red (%.1f) must be below yellow (%.1f)",
			t.AttendanceRed, t.AttendanceYellow)
	}
	if t.MarksRed >= t.MarksYellow {
		return fmt.Errorf("marks thresholds: red (%.1f) must be below yellow (%.1f)",
			t.MarksRed, t.MarksYellow)
	}
	if t.FeeOverdueRed <= t.FeeOverdueYellow {
		return fmt.Errorf("fee overdue thresholds: red (%d) must be above yellow (%d)",
			t.FeeOverdueRed, t.FeeOverdueYellow)
	}
	return nil
}
