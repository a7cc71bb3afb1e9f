package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/eduguard-hub/eduguard-core/internal/domain/analytics"
)

func sampleStudentRows() []analytics.StudentRow {
	return []analytics.StudentRow{
		{
			Name: "Aruzhan Serikova", Class: "10A", Teacher: "Dr. Priya Sharma",
			Attendance: "92.5", Marks: "88", FeeOverdueDays: "0", RiskLevel: "Low",
		},
		{
			Name: "Nursultan Bek", Class: "10B", Teacher: "Not Assigned",
			Attendance: "55", Marks: "35", FeeOverdueDays: "42", RiskLevel: "High",
		},
	}
}

func sampleTeacherRows() []analytics.TeacherRow {
	return []analytics.TeacherRow{
		{
			Teacher: "Dr. Priya Sharma", Class: "10A", Subject: "Mathematics",
			Experience: "12 years", Students: "2",
			AvgAttendance: "73.8", AvgMarks: "61.5", HighRisk: "1", MediumRisk: "0",
		},
	}
}

func TestWorkbook_SheetsAndRows(t *testing.T) {
	data, err := Workbook(sampleStudentRows(), sampleTeacherRows())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{StudentSheetName, TeacherSheetName}, f.GetSheetList())

	rows, err := f.GetRows(StudentSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, analytics.StudentExportHeader, rows[0])
	assert.Equal(t, []string{"Aruzhan Serikova", "10A", "Dr. Priya Sharma", "92.5", "88", "0", "Low"}, rows[1])
	assert.Equal(t, []string{"Nursultan Bek", "10B", "Not Assigned", "55", "35", "42", "High"}, rows[2])

	teacherRows, err := f.GetRows(TeacherSheetName)
	require.NoError(t, err)
	require.Len(t, teacherRows, 2)
	assert.Equal(t, analytics.TeacherExportHeader, teacherRows[0])
	assert.Equal(t, "73.8", teacherRows[1][5])
}

func TestStudentWorkbook_SingleSheet(t *testing.T) {
	data, err := StudentWorkbook(sampleStudentRows())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{StudentSheetName}, f.GetSheetList())
}

func TestStudentCSV(t *testing.T) {
	data, err := StudentCSV(sampleStudentRows())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "name,class,teacher,attendance,marks,fee_overdue_days,risk_level", lines[0])
	assert.Equal(t, "Aruzhan Serikova,10A,Dr. Priya Sharma,92.5,88,0,Low", lines[1])
}

func TestTeacherCSV(t *testing.T) {
	data, err := TeacherCSV(sampleTeacherRows())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "teacher,class,subject,experience,students,avg_attendance,avg_marks,high_risk,medium_risk", lines[0])
	assert.Equal(t, "Dr. Priya Sharma,10A,Mathematics,12 years,2,73.8,61.5,1,0", lines[1])
}
