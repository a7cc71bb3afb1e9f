package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduguard-hub/eduguard-core/internal/domain/roster"
)

func writeRoster(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "students.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRosterSource_LoadsValidRecords(t *testing.T) {
	path := writeRoster(t, `{
		"students": [
			{"id": 1, "name": "Aruzhan Serikova", "email": "aruzhan@example.com",
			 "attendance": 92.5, "marks": 88, "fee_overdue_days": 0,
			 "class": "10A", "parent_name": "Saule Serikova", "phone": "+7700000001"},
			{"id": "s2", "name": "Nursultan Bek", "email": "nursultan@example.com",
			 "attendance": 55, "marks": 35, "fee_overdue_days": 42, "class": "10B"}
		]
	}`)

	students, issues, err := NewRosterSource(path).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, issues)
	require.Len(t, students, 2)

	first := students[0]
	assert.Equal(t, "1", first.ID, "numeric id is normalized to its string form")
	assert.Equal(t, "Aruzhan Serikova", first.Name)
	assert.Equal(t, roster.ClassCode("10A"), first.Class)
	assert.Equal(t, "Saule Serikova", first.GuardianName)
	require.True(t, first.Attendance.Valid)
	assert.InDelta(t, 92.5, first.Attendance.Value, 1e-9)

	assert.Equal(t, "s2", students[1].ID)
	assert.Equal(t, 42, students[1].FeeOverdueDays.Value)
}

func TestRosterSource_MissingSignalBecomesIssue(t *testing.T) {
	path := writeRoster(t, `{
		"students": [
			{"id": "s1", "name": "Partial Record", "class": "10A", "attendance": 80, "marks": 70}
		]
	}`)

	students, issues, err := NewRosterSource(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.False(t, students[0].FeeOverdueDays.Valid)
	require.Len(t, issues, 1)
	assert.Equal(t, "fee_overdue_days", issues[0].Field)
	assert.Equal(t, "s1", issues[0].StudentID)
}

func TestRosterSource_NonNumericSignalBecomesIssue(t *testing.T) {
	path := writeRoster(t, `{
		"students": [
			{"id": "s1", "name": "Bad Attendance", "class": "10A",
			 "attendance": "N/A", "marks": 70, "fee_overdue_days": 0}
		]
	}`)

	students, issues, err := NewRosterSource(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, students, 1, "record with one broken signal still loads")
	assert.False(t, students[0].Attendance.Valid)
	assert.True(t, students[0].Marks.Valid, "well-typed fields survive the loose decode")

	require.NotEmpty(t, issues)
	assert.Equal(t, "attendance", issues[0].Field)
}

func TestRosterSource_AllSignalsNonNumericStayAbsent(t *testing.T) {
	path := writeRoster(t, `{
		"students": [
			{"id": "s1", "name": "Mistyped Everything", "class": "10A",
			 "attendance": "N/A", "marks": "absent", "fee_overdue_days": "twenty"}
		]
	}`)

	students, issues, err := NewRosterSource(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, students, 1)

	// A mistyped field must never come back as a present zero: a zero
	// attendance would score as a red signal instead of an unscored record.
	assert.False(t, students[0].Attendance.Valid)
	assert.False(t, students[0].Marks.Valid)
	assert.False(t, students[0].FeeOverdueDays.Valid)

	require.Len(t, issues, 3)
	fields := []string{issues[0].Field, issues[1].Field, issues[2].Field}
	assert.Equal(t, []string{"attendance", "marks", "fee_overdue_days"}, fields)
}

func TestRosterSource_RecordWithoutIDIsSkipped(t *testing.T) {
	path := writeRoster(t, `{
		"students": [
			{"name": "No ID", "class": "10A", "attendance": 80, "marks": 70, "fee_overdue_days": 0},
			{"id": "s2", "name": "Fine", "class": "10A", "attendance": 80, "marks": 70, "fee_overdue_days": 0}
		]
	}`)

	students, issues, err := NewRosterSource(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "s2", students[0].ID)
	require.Len(t, issues, 1)
	assert.Equal(t, "id", issues[0].Field)
}

func TestRosterSource_MissingFileIsHardError(t *testing.T) {
	_, _, err := NewRosterSource(filepath.Join(t.TempDir(), "absent.json")).Load(context.Background())
	require.Error(t, err)
}

func TestRosterSource_CorruptFileIsHardError(t *testing.T) {
	path := writeRoster(t, `{"students": [`)
	_, _, err := NewRosterSource(path).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON")
}

func TestRosterSource_WrongTopLevelShapeIsHardError(t *testing.T) {
	path := writeRoster(t, `{"pupils": []}`)
	_, _, err := NewRosterSource(path).Load(context.Background())
	require.Error(t, err)
}

func TestDirectorySource_LoadsAssignments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "teachers.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"10A": {"name": "Dr. Priya Sharma", "subject": "Mathematics", "experience": "12 years", "students": 30}
	}`), 0o644))

	dir, err := NewDirectorySource(path).LoadDirectory(context.Background())
	require.NoError(t, err)

	teacher, ok := dir.Resolve("10A")
	assert.True(t, ok)
	assert.Equal(t, "Dr. Priya Sharma", teacher.Name)
	assert.Equal(t, 12, teacher.ExperienceYears())

	missing, ok := dir.Resolve("11Z")
	assert.False(t, ok)
	assert.Equal(t, roster.NotAssignedName, missing.Name)
}

func TestDirectorySource_EmptyPathYieldsEmptyDirectory(t *testing.T) {
	dir, err := NewDirectorySource("").LoadDirectory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, dir.Len())
}
