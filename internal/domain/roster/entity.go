// Package roster contains the student roster domain model: the student
// entity with its raw signals, and the teacher directory reference data.
// This is core business data - no external dependencies here.
package roster

import (
	"errors"
	"fmt"
	"strings"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// ClassCode identifies a class/department (e.g., "10A"). Grouping by class
// code is byte-exact: no trimming, no case folding. A mismatched code creates
// a distinct cohort, which upstream loaders must guard against.
type ClassCode string

// String returns the string representation of the class code.
func (c ClassCode) String() string {
	return string(c)
}

// IsValid checks that the class code is non-empty.
func (c ClassCode) IsValid() bool {
	return len(c) > 0
}

// Measure is a numeric signal that may be absent from the source record
// (missing or non-numeric in the input). Absent signals must fail scoring
// with a data-quality error, never score as zero.
type Measure struct {
	Value float64
	Valid bool
}

// NewMeasure creates a present measure.
func NewMeasure(v float64) Measure {
	return Measure{Value: v, Valid: true}
}

// Days is an integer day-count signal that may be absent from the source.
type Days struct {
	Value int
	Valid bool
}

// NewDays creates a present day count.
func NewDays(v int) Days {
	return Days{Value: v, Valid: true}
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: STUDENT
// ══════════════════════════════════════════════════════════════════════════════

// Student is the central entity of the system. Risk level is deliberately
// NOT a field here: it is computed on read by the risk package so it can
// never go stale when the underlying signals change.
type Student struct {
	// ID - unique student identifier from the source roster.
	ID string

	// Name - full student name.
	Name string

	// Email - contact address for outbound alerts.
	Email string

	// Phone - guardian/contact phone number.
	Phone string

	// GuardianName - parent or guardian name.
	GuardianName string

	// Class - class/department code, key into the teacher directory.
	Class ClassCode

	// Attendance - attendance percentage (nominally 0-100).
	Attendance Measure

	// Marks - marks percentage (nominally 0-100).
	Marks Measure

	// FeeOverdueDays - days the fee payment is overdue (nominally >= 0).
	FeeOverdueDays Days
}

// Domain errors.
var (
	// ErrInvalidStudentID - empty or whitespace-only student id.
	ErrInvalidStudentID = errors.New("invalid student id: must be non-empty")

	// ErrInvalidStudentName - empty student name.
	ErrInvalidStudentName = errors.New("invalid student name: must be non-empty")

	// ErrInvalidClassCode - empty class code.
	ErrInvalidClassCode = errors.New("invalid class code: must be non-empty")

	// ErrStudentNotFound - student not present in the roster.
	ErrStudentNotFound = errors.New("student not found")
)

// NewStudentParams contains the parameters for creating a student record.
type NewStudentParams struct {
	ID             string
	Name           string
	Email          string
	Phone          string
	GuardianName   string
	Class          ClassCode
	Attendance     Measure
	Marks          Measure
	FeeOverdueDays Days
}

// NewStudent creates a student with identity validation. Signal fields are
// accepted as-is, including absent ones: scoring-time checks belong to the
// risk package, not here.
func NewStudent(params NewStudentParams) (*Student, error) {
	if strings.TrimSpace(params.ID) == "" {
		return nil, ErrInvalidStudentID
	}
	if strings.TrimSpace(params.Name) == "" {
		return nil, ErrInvalidStudentName
	}
	if !params.Class.IsValid() {
		return nil, ErrInvalidClassCode
	}

	return &Student{
		ID:             params.ID,
		Name:           params.Name,
		Email:          params.Email,
		Phone:          params.Phone,
		GuardianName:   params.GuardianName,
		Class:          params.Class,
		Attendance:     params.Attendance,
		Marks:          params.Marks,
		FeeOverdueDays: params.FeeOverdueDays,
	}, nil
}

// HasCompleteSignals reports whether all three risk signals are present.
func (s *Student) HasCompleteSignals() bool {
	return s.Attendance.Valid && s.Marks.Valid && s.FeeOverdueDays.Valid
}

// String returns a string representation for logging.
func (s *Student) String() string {
	return fmt.Sprintf("Student{ID: %s, Name: %s, Class: %s}", s.ID, s.Name, s.Class)
}

// Clone creates a copy of the student.
func (s *Student) Clone() *Student {
	if s == nil {
		return nil
	}
	clone := *s
	return &clone
}

// ══════════════════════════════════════════════════════════════════════════════
// RECORD ISSUES
// ══════════════════════════════════════════════════════════════════════════════

// RecordIssue describes a roster record that could not be fully loaded or
// scored. Issues are informational to the caller; they never abort loading
// of the remaining roster.
type RecordIssue struct {
	// StudentID - id of the offending record ("" if the id itself is missing).
	StudentID string

	// Field - the missing or invalid field name.
	Field string

	// Detail - human-readable explanation.
	Detail string
}

// String returns the issue in "student/field: detail" form.
func (i RecordIssue) String() string {
	id := i.StudentID
	if id == "" {
		id = "<no id>"
	}
	return fmt.Sprintf("%s/%s: %s", id, i.Field, i.Detail)
}
