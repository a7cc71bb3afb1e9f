package analytics

import (
	"fmt"
	"strconv"

	"github.com/eduguard-hub/eduguard-core/internal/domain/risk"
	"github.com/eduguard-hub/eduguard-core/internal/domain/roster"
)

// ══════════════════════════════════════════════════════════════════════════════
// TABULAR EXPORT CONTRACT
// ══════════════════════════════════════════════════════════════════════════════
// Field order and naming here are a contract the presentation layer depends
// on for CSV/JSON/XLSX export. Do not reorder.

// StudentExportHeader is the column order for the per-student export.
var StudentExportHeader = []string{
	"name", "class", "teacher", "attendance", "marks", "fee_overdue_days", "risk_level",
}

// TeacherExportHeader is the column order for the per-teacher export.
var TeacherExportHeader = []string{
	"teacher", "class", "subject", "experience", "students",
	"avg_attendance", "avg_marks", "high_risk", "medium_risk",
}

// StudentRow is one flat export row per student.
type StudentRow struct {
	Name           string
	Class          roster.ClassCode
	Teacher        string
	Attendance     string
	Marks          string
	FeeOverdueDays string
	RiskLevel      string
}

// Values returns the row cells in StudentExportHeader order.
func (r StudentRow) Values() []string {
	return []string{
		r.Name, r.Class.String(), r.Teacher,
		r.Attendance, r.Marks, r.FeeOverdueDays, r.RiskLevel,
	}
}

// StudentRows builds export rows for the whole roster, classifying each
// student on read. Unscorable students still get a row with an explicit
// "Unscored" level rather than being dropped from the export.
func StudentRows(students []*roster.Student, directory *roster.Directory, t risk.Thresholds) []StudentRow {
	rows := make([]StudentRow, 0, len(students))
	for _, s := range students {
		teacher, _ := directory.Resolve(s.Class)
		row := StudentRow{
			Name:           s.Name,
			Class:          s.Class,
			Teacher:        teacher.Name,
			Attendance:     measureCell(s.Attendance),
			Marks:          measureCell(s.Marks),
			FeeOverdueDays: daysCell(s.FeeOverdueDays),
		}
		if a, err := risk.Classify(s, t); err == nil {
			row.RiskLevel = a.Level.String()
		} else {
			row.RiskLevel = "Unscored"
		}
		rows = append(rows, row)
	}
	return rows
}

// TeacherRow is one flat export row per teacher/class.
type TeacherRow struct {
	Teacher       string
	Class         roster.ClassCode
	Subject       string
	Experience    string
	Students      string
	AvgAttendance string
	AvgMarks      string
	HighRisk      string
	MediumRisk    string
}

// Values returns the row cells in TeacherExportHeader order.
func (r TeacherRow) Values() []string {
	return []string{
		r.Teacher, r.Class.String(), r.Subject, r.Experience, r.Students,
		r.AvgAttendance, r.AvgMarks, r.HighRisk, r.MediumRisk,
	}
}

// TeacherRows builds export rows from the teacher rollup. Averages are
// rounded to one decimal place, matching the operator-facing reports.
func TeacherRows(performance []TeacherPerformance) []TeacherRow {
	rows := make([]TeacherRow, 0, len(performance))
	for _, p := range performance {
		rows = append(rows, TeacherRow{
			Teacher:       p.TeacherName,
			Class:         p.Class,
			Subject:       p.Subject,
			Experience:    p.Experience,
			Students:      strconv.Itoa(p.Students),
			AvgAttendance: fmt.Sprintf("%.1f", p.AvgAttendance),
			AvgMarks:      fmt.Sprintf("%.1f", p.AvgMarks),
			HighRisk:      strconv.Itoa(p.HighRisk),
			MediumRisk:    strconv.Itoa(p.MediumRisk),
		})
	}
	return rows
}

func measureCell(m roster.Measure) string {
	if !m.Valid {
		return ""
	}
	return strconv.FormatFloat(m.Value, 'g', -1, 64)
}

func daysCell(d roster.Days) string {
	if !d.Valid {
		return ""
	}
	return strconv.Itoa(d.Value)
}
