package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/eduguard-hub/eduguard-core/internal/application/command"
	"github.com/eduguard-hub/eduguard-core/internal/application/query"
	"github.com/eduguard-hub/eduguard-core/internal/domain/analytics"
	"github.com/eduguard-hub/eduguard-core/internal/domain/risk"
	"github.com/eduguard-hub/eduguard-core/internal/domain/roster"
	"github.com/eduguard-hub/eduguard-core/internal/domain/shared"
	"github.com/eduguard-hub/eduguard-core/internal/infrastructure/export"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSONError(w, http.StatusNotFound, "not_found", "Unknown endpoint")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "eduguard-core",
		"status":  "running",
	})
}

func (s *Server) handleLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	components := make(map[string]string, len(s.deps.Pingers))
	healthy := true
	for name, pinger := range s.deps.Pingers {
		if err := pinger.Ping(ctx); err != nil {
			components[name] = err.Error()
			healthy = false
		} else {
			components[name] = "ok"
		}
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]interface{}{
		"healthy":    healthy,
		"uptime":     s.Uptime().String(),
		"components": components,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// RISK OVERVIEW
// ══════════════════════════════════════════════════════════════════════════════

// handleGetStudents serves the classified roster. Filters: ?level=High,
// ?search=name, ?classes=10A,10B.
func (s *Server) handleGetStudents(w http.ResponseWriter, r *http.Request) {
	q := query.GetRiskOverviewQuery{
		NameSearch: r.URL.Query().Get("search"),
		RiskLevel:  r.URL.Query().Get("level"),
	}
	if classes := r.URL.Query().Get("classes"); classes != "" {
		q.Classes = strings.Split(classes, ",")
	}

	result, err := s.deps.RiskOverview.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// COHORT STATS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleGetCohorts(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.CohortStats.Handle(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleGetTeachers serves the per-teacher slice of the cohort rollup for
// frontends that only render the staffing view.
func (s *Server) handleGetTeachers(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.CohortStats.Handle(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"teachers":             result.Teachers,
		"total_teachers":       result.TotalTeachers,
		"avg_experience_years": result.AvgExperienceYears,
		"generated_at":         result.GeneratedAt,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// ALERT DISPATCH
// ══════════════════════════════════════════════════════════════════════════════

// sendAlertRequest is the POST /api/v1/alerts body.
type sendAlertRequest struct {
	StudentID  string `json:"student_id"`
	CustomText string `json:"custom_text,omitempty"`
}

func (s *Server) handleSendAlert(w http.ResponseWriter, r *http.Request) {
	var req sendAlertRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Request body must be valid JSON")
		return
	}

	result, err := s.deps.SendAlert.Handle(r.Context(), command.SendAlertCommand{
		StudentID:  req.StudentID,
		CustomText: req.CustomText,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// REPORT EXPORTS
// ══════════════════════════════════════════════════════════════════════════════

// Exporter builds downloadable report documents from the live roster.
type Exporter struct {
	source     roster.RosterSource
	directory  *roster.Directory
	thresholds risk.Thresholds
}

// NewExporter creates a report exporter.
func NewExporter(source roster.RosterSource, directory *roster.Directory, thresholds risk.Thresholds) *Exporter {
	return &Exporter{source: source, directory: directory, thresholds: thresholds}
}

// rows loads the roster and produces both export row sets.
func (e *Exporter) rows(ctx context.Context) ([]analytics.StudentRow, []analytics.TeacherRow, error) {
	students, _, err := e.source.Load(ctx)
	if err != nil {
		return nil, nil, shared.WrapError("export", "Rows", shared.ErrServiceUnavailable, "roster load failed", err)
	}
	studentRows := analytics.StudentRows(students, e.directory, e.thresholds)
	teacherRows := analytics.TeacherRows(analytics.TeacherRollup(students, e.directory, e.thresholds))
	return studentRows, teacherRows, nil
}

// Workbook builds the two-sheet XLSX report.
func (e *Exporter) Workbook(ctx context.Context) ([]byte, error) {
	students, teachers, err := e.rows(ctx)
	if err != nil {
		return nil, err
	}
	return export.Workbook(students, teachers)
}

// StudentCSV builds the per-student CSV report.
func (e *Exporter) StudentCSV(ctx context.Context) ([]byte, error) {
	students, _, err := e.rows(ctx)
	if err != nil {
		return nil, err
	}
	return export.StudentCSV(students)
}

// TeacherCSV builds the per-teacher CSV report.
func (e *Exporter) TeacherCSV(ctx context.Context) ([]byte, error) {
	_, teachers, err := e.rows(ctx)
	if err != nil {
		return nil, err
	}
	return export.TeacherCSV(teachers)
}

func (s *Server) handleExportWorkbook(w http.ResponseWriter, r *http.Request) {
	data, err := s.deps.Exporter.Workbook(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	serveDownload(w, data,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		fmt.Sprintf("eduguard_report_%s.xlsx", time.Now().UTC().Format("20060102")),
	)
}

func (s *Server) handleExportStudentsCSV(w http.ResponseWriter, r *http.Request) {
	data, err := s.deps.Exporter.StudentCSV(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	serveDownload(w, data, "text/csv; charset=utf-8",
		fmt.Sprintf("students_%s.csv", time.Now().UTC().Format("20060102")))
}

func (s *Server) handleExportTeachersCSV(w http.ResponseWriter, r *http.Request) {
	data, err := s.deps.Exporter.TeacherCSV(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	serveDownload(w, data, "text/csv; charset=utf-8",
		fmt.Sprintf("teachers_%s.csv", time.Now().UTC().Format("20060102")))
}

func serveDownload(w http.ResponseWriter, data []byte, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ══════════════════════════════════════════════════════════════════════════════
// ERROR MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// writeDomainError maps domain error kinds onto HTTP status codes.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case shared.IsNotFound(err):
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())
	case shared.IsValidation(err):
		writeJSONError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case shared.IsDataQuality(err):
		writeJSONError(w, http.StatusUnprocessableEntity, "data_quality", err.Error())
	default:
		writeJSONError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
