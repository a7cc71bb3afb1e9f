package risk

import (
	"fmt"

	"github.com/eduguard-hub/eduguard-core/internal/domain/roster"
	"github.com/eduguard-hub/eduguard-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// RISK LEVEL
// ══════════════════════════════════════════════════════════════════════════════

// Level is the coarse classification of a student's standing.
type Level string

const (
	// LevelLow - no meaningful risk signal.
	LevelLow Level = "Low"
	// LevelMedium - at least one serious signal (a single red alone is
	// Medium, not High).
	LevelMedium Level = "Medium"
	// LevelHigh - two red signals, or one red plus one yellow, or three
	// yellows.
	LevelHigh Level = "High"
)

// IsValid checks that the level is one of the three tiers.
func (l Level) IsValid() bool {
	switch l {
	case LevelLow, LevelMedium, LevelHigh:
		return true
	default:
		return false
	}
}

// String returns the string representation of the level.
func (l Level) String() string {
	return string(l)
}

// Score points per severity tier. Each signal contributes at most red
// points, so with three signals the total score is within [0, 9].
const (
	redPoints    = 3
	yellowPoints = 2

	// highCutoff and mediumCutoff map the accumulated score to a level.
	highCutoff   = 6
	mediumCutoff = 3
)

// levelForScore maps an accumulated score to the three-tier level. The
// bucketing is deliberately coarse and must not be replaced with weighted
// or normalized scoring.
func levelForScore(score int) Level {
	switch {
	case score >= highCutoff:
		return LevelHigh
	case score >= mediumCutoff:
		return LevelMedium
	default:
		return LevelLow
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ASSESSMENT
// ══════════════════════════════════════════════════════════════════════════════

// Assessment is the full result of classifying one student.
type Assessment struct {
	// StudentID - the assessed student.
	StudentID string

	// Level - the three-tier classification.
	Level Level

	// Score - the accumulated signal score (0-9).
	Score int

	// Factors - human-readable explanations for each signal that crossed
	// a threshold, in fixed order: attendance, marks, fee. A signal that
	// crosses neither threshold contributes no factor.
	Factors []string

	// Warnings - non-fatal data-quality notes, e.g. out-of-domain values
	// such as attendance above 100. The score above is still computed
	// from the literal values; nothing is clamped silently.
	Warnings []string
}

// HasFactors reports whether any signal crossed a threshold.
func (a Assessment) HasFactors() bool {
	return len(a.Factors) > 0
}

// ══════════════════════════════════════════════════════════════════════════════
// CLASSIFY
// ══════════════════════════════════════════════════════════════════════════════

// Classify maps a student's signals to a risk assessment against the given
// thresholds. If a required signal is absent (missing or non-numeric in the
// source) it fails with a data-quality error naming the student and field;
// the caller decides whether to exclude the student from aggregates or show
// an explicit "unscored" state.
func Classify(s *roster.Student, t Thresholds) (Assessment, error) {
	if s == nil {
		return Assessment{}, shared.NewDomainError("risk", "Classify", shared.ErrInvalidInput, "student is nil")
	}
	if !s.Attendance.Valid {
		return Assessment{}, shared.NewDataQualityError(s.ID, "attendance", "missing or non-numeric")
	}
	if !s.Marks.Valid {
		return Assessment{}, shared.NewDataQualityError(s.ID, "marks", "missing or non-numeric")
	}
	if !s.FeeOverdueDays.Valid {
		return Assessment{}, shared.NewDataQualityError(s.ID, "fee_overdue_days", "missing or non-numeric")
	}

	attendance := s.Attendance.Value
	marks := s.Marks.Value
	feeDays := s.FeeOverdueDays.Value

	score := 0
	factors := make([]string, 0, 3)

	// Attendance: lower is worse, strict comparison.
	switch {
	case attendance < t.AttendanceRed:
		score += redPoints
		factors = append(factors, fmt.Sprintf("Attendance critically low: %s%%", formatPercent(attendance)))
	case attendance < t.AttendanceYellow:
		score += yellowPoints
		factors = append(factors, fmt.Sprintf("Attendance low: %s%%", formatPercent(attendance)))
	}

	// Marks: lower is worse, strict comparison.
	switch {
	case marks < t.MarksRed:
		score += redPoints
		factors = append(factors, fmt.Sprintf("Marks critically low: %s%%", formatPercent(marks)))
	case marks < t.MarksYellow:
		score += yellowPoints
		factors = append(factors, fmt.Sprintf("Marks low: %s%%", formatPercent(marks)))
	}

	// Fee overdue: higher is worse, strict comparison. Both tiers share
	// one factor text; severity still shows up in the score.
	switch {
	case feeDays > t.FeeOverdueRed:
		score += redPoints
		factors = append(factors, fmt.Sprintf("Fee overdue: %d days", feeDays))
	case feeDays > t.FeeOverdueYellow:
		score += yellowPoints
		factors = append(factors, fmt.Sprintf("Fee overdue: %d days", feeDays))
	}

	return Assessment{
		StudentID: s.ID,
		Level:     levelForScore(score),
		Score:     score,
		Factors:   factors,
		Warnings:  domainWarnings(attendance, marks, feeDays),
	}, nil
}

// domainWarnings flags out-of-domain values. Threshold comparisons are
// still well-defined for them, so scoring proceeds; the condition is
// surfaced for the caller instead of being clamped.
func domainWarnings(attendance, marks float64, feeDays int) []string {
	var warnings []string
	if attendance < 0 || attendance > 100 {
		warnings = append(warnings, fmt.Sprintf("attendance %s%% outside [0,100]", formatPercent(attendance)))
	}
	if marks < 0 || marks > 100 {
		warnings = append(warnings, fmt.Sprintf("marks %s%% outside [0,100]", formatPercent(marks)))
	}
	if feeDays < 0 {
		warnings = append(warnings, fmt.Sprintf("fee overdue days %d is negative", feeDays))
	}
	return warnings
}

// formatPercent renders a percentage the way the source data wrote it:
// whole numbers without a decimal point, fractional values as-is.
func formatPercent(v float64) string {
	return fmt.Sprintf("%g", v)
}
