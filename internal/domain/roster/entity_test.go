package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStudent_Validation(t *testing.T) {
	valid := NewStudentParams{
		ID:             "s1",
		Name:           "Aruzhan Serikova",
		Class:          "10A",
		Attendance:     NewMeasure(90),
		Marks:          NewMeasure(85),
		FeeOverdueDays: NewDays(0),
	}

	s, err := NewStudent(valid)
	require.NoError(t, err)
	assert.True(t, s.HasCompleteSignals())

	noID := valid
	noID.ID = "  "
	_, err = NewStudent(noID)
	assert.ErrorIs(t, err, ErrInvalidStudentID)

	noName := valid
	noName.Name = ""
	_, err = NewStudent(noName)
	assert.ErrorIs(t, err, ErrInvalidStudentName)

	noClass := valid
	noClass.Class = ""
	_, err = NewStudent(noClass)
	assert.ErrorIs(t, err, ErrInvalidClassCode)
}

func TestStudent_AbsentSignals(t *testing.T) {
	s, err := NewStudent(NewStudentParams{
		ID:         "s1",
		Name:       "Partial Record",
		Class:      "10A",
		Attendance: NewMeasure(80),
	})
	require.NoError(t, err)

	assert.False(t, s.HasCompleteSignals())
	assert.True(t, s.Attendance.Valid)
	assert.False(t, s.Marks.Valid)
	assert.False(t, s.FeeOverdueDays.Valid)
}

func TestStudent_Clone(t *testing.T) {
	s, err := NewStudent(NewStudentParams{ID: "s1", Name: "A", Class: "10A"})
	require.NoError(t, err)

	clone := s.Clone()
	clone.Name = "B"
	assert.Equal(t, "A", s.Name)
}

func TestRecordIssue_String(t *testing.T) {
	assert.Equal(t, "s1/attendance: non-numeric",
		RecordIssue{StudentID: "s1", Field: "attendance", Detail: "non-numeric"}.String())
	assert.Equal(t, "<no id>/id: entry 3 has no usable id",
		RecordIssue{Field: "id", Detail: "entry 3 has no usable id"}.String())
}
