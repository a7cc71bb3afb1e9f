// Package analytics rolls classified students up into per-class and
// per-teacher statistics. Aggregation is a pure function of its input:
// calling it twice on an unchanged roster yields identical results, and
// nothing is persisted - cached copies would go stale the moment the
// underlying signals change.
package analytics

import (
	"sort"

	"github.com/eduguard-hub/eduguard-core/internal/domain/risk"
	"github.com/eduguard-hub/eduguard-core/internal/domain/roster"
)

// ══════════════════════════════════════════════════════════════════════════════
// COHORT STATS
// ══════════════════════════════════════════════════════════════════════════════

// CohortStats is the derived aggregate for one class code.
type CohortStats struct {
	// Class - the grouping key, byte-exact from the student records.
	Class roster.ClassCode `json:"class"`

	// AvgAttendance - population mean of attendance percentages.
	AvgAttendance float64 `json:"avg_attendance"`

	// AvgMarks - population mean of marks percentages.
	AvgMarks float64 `json:"avg_marks"`

	// AvgFeeOverdueDays - population mean of fee-overdue day counts.
	AvgFeeOverdueDays float64 `json:"avg_fee_overdue_days"`

	// HighRiskCount - students whose computed level is High.
	HighRiskCount int `json:"high_risk_count"`

	// TotalStudents - all students in the group.
	TotalStudents int `json:"total_students"`
}

// TeacherPerformance is one row of the per-teacher rollup. Rows are
// produced for every class in the directory and for every class present
// on the roster, so directory gaps and roster-only codes both stay
// visible. Zero-student classes report zero means.
type TeacherPerformance struct {
	// TeacherName - directory name, or the "Not Assigned" sentinel.
	TeacherName string `json:"teacher"`

	// Class - the class code.
	Class roster.ClassCode `json:"class"`

	// Subject - taught subjects from the directory.
	Subject string `json:"subject"`

	// Experience - free-text experience from the directory.
	Experience string `json:"experience"`

	// Students - students on the roster for this class.
	Students int `json:"students"`

	// AvgAttendance / AvgMarks - population means for this class.
	AvgAttendance float64 `json:"avg_attendance"`
	AvgMarks      float64 `json:"avg_marks"`

	// HighRisk / MediumRisk - counts by computed level.
	HighRisk   int `json:"high_risk"`
	MediumRisk int `json:"medium_risk"`
}

// ══════════════════════════════════════════════════════════════════════════════
// AGGREGATION
// ══════════════════════════════════════════════════════════════════════════════

// group is the running accumulator for one class code.
type group struct {
	attendanceSum float64
	marksSum      float64
	feeDaysSum    float64
	high          int
	medium        int
	total         int
}

// collect groups scorable students by class code. Students whose signals
// cannot be classified are excluded from aggregates; the caller surfaces
// them separately as data-quality warnings.
func collect(students []*roster.Student, t risk.Thresholds) map[roster.ClassCode]*group {
	groups := make(map[roster.ClassCode]*group)
	for _, s := range students {
		a, err := risk.Classify(s, t)
		if err != nil {
			continue
		}
		g := groups[s.Class]
		if g == nil {
			g = &group{}
			groups[s.Class] = g
		}
		g.attendanceSum += s.Attendance.Value
		g.marksSum += s.Marks.Value
		g.feeDaysSum += float64(s.FeeOverdueDays.Value)
		g.total++
		switch a.Level {
		case risk.LevelHigh:
			g.high++
		case risk.LevelMedium:
			g.medium++
		}
	}
	return groups
}

// Aggregate rolls the roster up into per-class statistics keyed by the
// class code exactly as stored on each record. Classes known to the
// directory but with no enrolled students still get a zero-count row, so
// a staffed-but-empty class stays visible in the cohort view.
func Aggregate(students []*roster.Student, directory *roster.Directory, t risk.Thresholds) map[roster.ClassCode]CohortStats {
	groups := collect(students, t)
	stats := make(map[roster.ClassCode]CohortStats, len(groups)+directory.Len())
	for _, code := range directory.Classes() {
		stats[code] = CohortStats{Class: code}
	}
	for code, g := range groups {
		stats[code] = CohortStats{
			Class:             code,
			AvgAttendance:     mean(g.attendanceSum, g.total),
			AvgMarks:          mean(g.marksSum, g.total),
			AvgFeeOverdueDays: mean(g.feeDaysSum, g.total),
			HighRiskCount:     g.high,
			TotalStudents:     g.total,
		}
	}
	return stats
}

// TeacherRollup resolves the directory entry for every class and produces
// one performance row per class, sorted by class code so identical inputs
// yield identical output. Classes in the directory with no students get a
// zero-count row; classes on the roster with no directory entry get the
// NotAssigned sentinel.
func TeacherRollup(students []*roster.Student, directory *roster.Directory, t risk.Thresholds) []TeacherPerformance {
	groups := collect(students, t)

	codes := make(map[roster.ClassCode]struct{}, len(groups)+directory.Len())
	for _, code := range directory.Classes() {
		codes[code] = struct{}{}
	}
	for code := range groups {
		codes[code] = struct{}{}
	}

	ordered := make([]roster.ClassCode, 0, len(codes))
	for code := range codes {
		ordered = append(ordered, code)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })

	rows := make([]TeacherPerformance, 0, len(ordered))
	for _, code := range ordered {
		teacher, _ := directory.Resolve(code)
		row := TeacherPerformance{
			TeacherName: teacher.Name,
			Class:       code,
			Subject:     teacher.Subject,
			Experience:  teacher.Experience,
		}
		if g := groups[code]; g != nil {
			row.Students = g.total
			row.AvgAttendance = mean(g.attendanceSum, g.total)
			row.AvgMarks = mean(g.marksSum, g.total)
			row.HighRisk = g.high
			row.MediumRisk = g.medium
		}
		rows = append(rows, row)
	}
	return rows
}

// mean is a division-safe population mean: zero students means zero, not
// a division error.
func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
