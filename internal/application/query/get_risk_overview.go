// Package query contains read operations following the CQRS pattern.
// Queries never modify state - they only read and return data. Each query
// is a self-contained use case with its own request/response types.
package query

import (
	"context"
	"strings"
	"time"

	"github.com/eduguard-hub/eduguard-core/internal/domain/risk"
	"github.com/eduguard-hub/eduguard-core/internal/domain/roster"
	"github.com/eduguard-hub/eduguard-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET RISK OVERVIEW QUERY
// Classifies the whole roster on read and returns per-student risk DTOs
// plus roster-wide counters. Risk is never cached on the record: the
// signals may change between loads, so every call recomputes.
// ══════════════════════════════════════════════════════════════════════════════

// GetRiskOverviewQuery contains the overview request parameters.
type GetRiskOverviewQuery struct {
	// NameSearch - case-insensitive substring filter on student name
	// (empty = no filter).
	NameSearch string

	// RiskLevel - filter by computed level ("" = all levels).
	RiskLevel string

	// Classes - filter by class codes (empty = all classes).
	Classes []string
}

// Validate checks the query parameters.
func (q *GetRiskOverviewQuery) Validate() error {
	if q.RiskLevel != "" && !risk.Level(q.RiskLevel).IsValid() {
		return shared.NewDomainError("query", "GetRiskOverview", shared.ErrInvalidInput,
			"risk level must be one of Low, Medium, High")
	}
	return nil
}

// StudentRiskDTO is the per-student view returned to the presentation
// layer.
type StudentRiskDTO struct {
	// ID - student identifier.
	ID string `json:"id"`

	// Name - student name.
	Name string `json:"name"`

	// Email - contact address.
	Email string `json:"email"`

	// Phone - guardian/contact phone.
	Phone string `json:"phone"`

	// GuardianName - parent or guardian name.
	GuardianName string `json:"guardian_name"`

	// Class - class/department code.
	Class string `json:"class"`

	// Teacher - resolved class teacher, or the "Not Assigned" sentinel.
	Teacher string `json:"teacher"`

	// Attendance / Marks / FeeOverdueDays - the raw signals.
	Attendance     float64 `json:"attendance"`
	Marks          float64 `json:"marks"`
	FeeOverdueDays int     `json:"fee_overdue_days"`

	// RiskLevel - computed level: Low, Medium, High.
	RiskLevel string `json:"risk_level"`

	// RiskScore - accumulated signal score (0-9).
	RiskScore int `json:"risk_score"`

	// RiskFactors - human-readable factors, attendance then marks then fee.
	RiskFactors []string `json:"risk_factors"`
}

// GetRiskOverviewResult contains the roster-wide overview.
type GetRiskOverviewResult struct {
	// Students - per-student DTOs after filtering.
	Students []StudentRiskDTO `json:"students"`

	// TotalStudents - scored students before filtering.
	TotalStudents int `json:"total_students"`

	// HighRisk / MediumRisk / LowRisk - counts by level before filtering.
	HighRisk   int `json:"high_risk"`
	MediumRisk int `json:"medium_risk"`
	LowRisk    int `json:"low_risk"`

	// AvgAttendance / AvgMarks - roster-wide means of the scored students.
	AvgAttendance float64 `json:"avg_attendance"`
	AvgMarks      float64 `json:"avg_marks"`

	// FeeDueCount - students with any fee overdue.
	FeeDueCount int `json:"fee_due_count"`

	// Departments - distinct class codes on the roster.
	Departments int `json:"departments"`

	// Warnings - data-quality warnings: unscored records and
	// out-of-domain values. Informational; never aborts the overview.
	Warnings []string `json:"warnings,omitempty"`

	// GeneratedAt - result generation time.
	GeneratedAt time.Time `json:"generated_at"`
}

// GetRiskOverviewHandler handles risk overview queries.
type GetRiskOverviewHandler struct {
	source     roster.RosterSource
	directory  *roster.Directory
	thresholds risk.Thresholds
}

// NewGetRiskOverviewHandler creates a new overview query handler.
func NewGetRiskOverviewHandler(source roster.RosterSource, directory *roster.Directory, thresholds risk.Thresholds) *GetRiskOverviewHandler {
	return &GetRiskOverviewHandler{
		source:     source,
		directory:  directory,
		thresholds: thresholds,
	}
}

// Handle executes the overview query. Per-record scoring failures are
// collected as warnings and never abort the rest of the roster.
func (h *GetRiskOverviewHandler) Handle(ctx context.Context, q GetRiskOverviewQuery) (*GetRiskOverviewResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	students, issues, err := h.source.Load(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "GetRiskOverview", shared.ErrServiceUnavailable, "roster load failed", err)
	}

	result := &GetRiskOverviewResult{
		Students:    make([]StudentRiskDTO, 0, len(students)),
		GeneratedAt: time.Now().UTC(),
	}
	for _, issue := range issues {
		result.Warnings = append(result.Warnings, issue.String())
	}

	classes := make(map[roster.ClassCode]struct{})
	var attendanceSum, marksSum float64

	for _, s := range students {
		classes[s.Class] = struct{}{}

		a, err := risk.Classify(s, h.thresholds)
		if err != nil {
			result.Warnings = append(result.Warnings, err.Error())
			continue
		}
		result.Warnings = append(result.Warnings, a.Warnings...)

		result.TotalStudents++
		attendanceSum += s.Attendance.Value
		marksSum += s.Marks.Value
		if s.FeeOverdueDays.Value > 0 {
			result.FeeDueCount++
		}
		switch a.Level {
		case risk.LevelHigh:
			result.HighRisk++
		case risk.LevelMedium:
			result.MediumRisk++
		default:
			result.LowRisk++
		}

		if !q.matches(s, a) {
			continue
		}

		teacher, _ := h.directory.Resolve(s.Class)
		result.Students = append(result.Students, StudentRiskDTO{
			ID:             s.ID,
			Name:           s.Name,
			Email:          s.Email,
			Phone:          s.Phone,
			GuardianName:   s.GuardianName,
			Class:          s.Class.String(),
			Teacher:        teacher.Name,
			Attendance:     s.Attendance.Value,
			Marks:          s.Marks.Value,
			FeeOverdueDays: s.FeeOverdueDays.Value,
			RiskLevel:      a.Level.String(),
			RiskScore:      a.Score,
			RiskFactors:    a.Factors,
		})
	}

	if result.TotalStudents > 0 {
		result.AvgAttendance = attendanceSum / float64(result.TotalStudents)
		result.AvgMarks = marksSum / float64(result.TotalStudents)
	}
	result.Departments = len(classes)

	return result, nil
}

// matches applies the query filters to one scored student.
func (q *GetRiskOverviewQuery) matches(s *roster.Student, a risk.Assessment) bool {
	if q.NameSearch != "" && !strings.Contains(strings.ToLower(s.Name), strings.ToLower(q.NameSearch)) {
		return false
	}
	if q.RiskLevel != "" && a.Level != risk.Level(q.RiskLevel) {
		return false
	}
	if len(q.Classes) > 0 {
		found := false
		for _, c := range q.Classes {
			if s.Class == roster.ClassCode(c) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
