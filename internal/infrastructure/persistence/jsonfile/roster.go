// Package jsonfile loads the student roster and teacher directory from
// JSON files on disk. The roster format is {"students": [...]}. Loading is
// partial-failure tolerant: a malformed record becomes an issue next to
// the valid students, and only a missing or unparsable file is a hard
// error - there is deliberately no silent sample-data fallback.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/eduguard-hub/eduguard-core/internal/domain/roster"
)

// studentRecord mirrors one roster entry on disk. Pointer fields
// distinguish an absent signal from a zero one; json.RawMessage on the id
// tolerates both numeric and string ids in source data.
type studentRecord struct {
	ID             json.RawMessage `json:"id"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	ParentName     string          `json:"parent_name"`
	Class          string          `json:"class"`
	Attendance     *float64        `json:"attendance"`
	Marks          *float64        `json:"marks"`
	FeeOverdueDays *int            `json:"fee_overdue_days"`
}

// rosterFile is the top-level document shape.
type rosterFile struct {
	Students []json.RawMessage `json:"students"`
}

// RosterSource reads a students.json roster file. Implements
// roster.RosterSource.
type RosterSource struct {
	path string
}

// NewRosterSource creates a roster source for the given file path.
func NewRosterSource(path string) *RosterSource {
	return &RosterSource{path: path}
}

// Load reads and decodes the roster file. Records with a missing id, name
// or class are skipped with an issue; records with missing or non-numeric
// signal fields are loaded with absent signals plus an issue, so the risk
// model can report them as unscored.
func (s *RosterSource) Load(_ context.Context) ([]*roster.Student, []roster.RecordIssue, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, nil, fmt.Errorf("roster file %s: %w", s.path, err)
	}

	var file rosterFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("roster file %s: invalid JSON: %w", s.path, err)
	}
	if file.Students == nil {
		return nil, nil, fmt.Errorf("roster file %s: expected {\"students\": [...]}", s.path)
	}

	students := make([]*roster.Student, 0, len(file.Students))
	var issues []roster.RecordIssue

	for i, raw := range file.Students {
		student, recordIssues := decodeRecord(i, raw)
		issues = append(issues, recordIssues...)
		if student != nil {
			students = append(students, student)
		}
	}
	return students, issues, nil
}

// decodeRecord turns one raw roster entry into a student. Returns a nil
// student when identity fields are unusable.
func decodeRecord(index int, raw json.RawMessage) (*roster.Student, []roster.RecordIssue) {
	var rec studentRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		// Signal fields with the wrong type fail the whole object decode;
		// retry with them ignored so identity survives for the issue report.
		rec = studentRecord{}
		var loose map[string]json.RawMessage
		if err2 := json.Unmarshal(raw, &loose); err2 != nil {
			return nil, []roster.RecordIssue{{
				Field:  "record",
				Detail: fmt.Sprintf("entry %d is not an object: %v", index, err2),
			}}
		}
		decodeLoose(loose, &rec)
	}

	id := decodeID(rec.ID)
	var issues []roster.RecordIssue

	if strings.TrimSpace(id) == "" {
		return nil, []roster.RecordIssue{{
			Field:  "id",
			Detail: fmt.Sprintf("entry %d has no usable id", index),
		}}
	}

	attendance := roster.Measure{}
	if rec.Attendance != nil {
		attendance = roster.NewMeasure(*rec.Attendance)
	} else {
		issues = append(issues, roster.RecordIssue{StudentID: id, Field: "attendance", Detail: "missing or non-numeric"})
	}

	marks := roster.Measure{}
	if rec.Marks != nil {
		marks = roster.NewMeasure(*rec.Marks)
	} else {
		issues = append(issues, roster.RecordIssue{StudentID: id, Field: "marks", Detail: "missing or non-numeric"})
	}

	feeDays := roster.Days{}
	if rec.FeeOverdueDays != nil {
		feeDays = roster.NewDays(*rec.FeeOverdueDays)
	} else {
		issues = append(issues, roster.RecordIssue{StudentID: id, Field: "fee_overdue_days", Detail: "missing or non-numeric"})
	}

	student, err := roster.NewStudent(roster.NewStudentParams{
		ID:             id,
		Name:           rec.Name,
		Email:          rec.Email,
		Phone:          rec.Phone,
		GuardianName:   rec.ParentName,
		Class:          roster.ClassCode(rec.Class),
		Attendance:     attendance,
		Marks:          marks,
		FeeOverdueDays: feeDays,
	})
	if err != nil {
		issues = append(issues, roster.RecordIssue{StudentID: id, Field: "record", Detail: err.Error()})
		return nil, issues
	}
	return student, issues
}

// decodeLoose salvages identity and whichever signal fields decode
// cleanly from a record whose strict decode failed.
func decodeLoose(loose map[string]json.RawMessage, rec *studentRecord) {
	rec.ID = loose["id"]
	unmarshalInto(loose, "name", &rec.Name)
	unmarshalInto(loose, "email", &rec.Email)
	unmarshalInto(loose, "phone", &rec.Phone)
	unmarshalInto(loose, "parent_name", &rec.ParentName)
	unmarshalInto(loose, "class", &rec.Class)
	unmarshalInto(loose, "attendance", &rec.Attendance)
	unmarshalInto(loose, "marks", &rec.Marks)
	unmarshalInto(loose, "fee_overdue_days", &rec.FeeOverdueDays)
}

// unmarshalInto decodes one field into a throwaway value first, so a type
// mismatch leaves the destination untouched. Decoding straight into a
// pointer field would allocate the pointer before the value decode fails,
// turning a non-numeric signal into a present zero.
func unmarshalInto[T any](loose map[string]json.RawMessage, key string, dst *T) {
	raw, ok := loose[key]
	if !ok {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return
	}
	*dst = v
}

// decodeID accepts string and integer ids ("17" and 17 are the same id).
func decodeID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}
	var asInt int64
	if err := json.Unmarshal(raw, &asInt); err == nil {
		return fmt.Sprintf("%d", asInt)
	}
	return ""
}
