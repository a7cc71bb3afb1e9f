package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduguard-hub/eduguard-core/internal/application/command"
	"github.com/eduguard-hub/eduguard-core/internal/application/query"
	"github.com/eduguard-hub/eduguard-core/internal/domain/alert"
	"github.com/eduguard-hub/eduguard-core/internal/domain/analytics"
	"github.com/eduguard-hub/eduguard-core/internal/domain/risk"
	"github.com/eduguard-hub/eduguard-core/internal/domain/roster"
)

type stubRoster struct {
	students []*roster.Student
}

func (s *stubRoster) Load(context.Context) ([]*roster.Student, []roster.RecordIssue, error) {
	return s.students, nil, nil
}

type okChannel struct{}

func (okChannel) Name() string { return "test" }

func (okChannel) Send(_ context.Context, msg *alert.Message) alert.DeliveryOutcome {
	return alert.NewSuccessOutcome("test", msg.ID, "Email sent successfully!")
}

func testServer(t *testing.T) *Server {
	t.Helper()

	mk := func(id, name string, class roster.ClassCode, attendance, marks float64, feeDays int) *roster.Student {
		s, err := roster.NewStudent(roster.NewStudentParams{
			ID:             id,
			Name:           name,
			Email:          id + "@example.com",
			Class:          class,
			Attendance:     roster.NewMeasure(attendance),
			Marks:          roster.NewMeasure(marks),
			FeeOverdueDays: roster.NewDays(feeDays),
		})
		require.NoError(t, err)
		return s
	}

	source := &stubRoster{students: []*roster.Student{
		mk("s1", "Aruzhan Serikova", "10A", 90, 85, 0),
		mk("s2", "Nursultan Bek", "10B", 50, 30, 40),
	}}
	directory := roster.NewDirectory(map[roster.ClassCode]roster.Teacher{
		"10A": {Name: "Dr. Priya Sharma", Subject: "Mathematics", Experience: "12 years"},
	})
	thresholds := risk.DefaultThresholds()

	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 0

	return NewServer(cfg, Dependencies{
		RiskOverview: query.NewGetRiskOverviewHandler(source, directory, thresholds),
		CohortStats:  query.NewGetCohortStatsHandler(source, directory, thresholds, nil),
		SendAlert:    command.NewSendAlertHandler(source, thresholds, alert.NewDispatcher(okChannel{}), nil),
		Exporter:     NewExporter(source, directory, thresholds),
	})
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) JSONResponse {
	t.Helper()
	var resp JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestServer_Health(t *testing.T) {
	rec := doRequest(t, testServer(t), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeResponse(t, rec).Success)
}

func TestServer_GetStudents(t *testing.T) {
	rec := doRequest(t, testServer(t), http.MethodGet, "/api/v1/students", "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	require.True(t, resp.Success)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var result query.GetRiskOverviewResult
	require.NoError(t, json.Unmarshal(data, &result))

	assert.Equal(t, 2, result.TotalStudents)
	assert.Equal(t, 1, result.HighRisk)
	require.Len(t, result.Students, 2)
}

func TestServer_GetStudentsLevelFilter(t *testing.T) {
	rec := doRequest(t, testServer(t), http.MethodGet, "/api/v1/students?level=High", "")
	require.Equal(t, http.StatusOK, rec.Code)

	data, err := json.Marshal(decodeResponse(t, rec).Data)
	require.NoError(t, err)
	var result query.GetRiskOverviewResult
	require.NoError(t, json.Unmarshal(data, &result))
	require.Len(t, result.Students, 1)
	assert.Equal(t, "s2", result.Students[0].ID)
}

func TestServer_GetStudentsInvalidLevel(t *testing.T) {
	rec := doRequest(t, testServer(t), http.MethodGet, "/api/v1/students?level=Critical", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_failed", decodeResponse(t, rec).Error.Code)
}

func TestServer_GetCohorts(t *testing.T) {
	rec := doRequest(t, testServer(t), http.MethodGet, "/api/v1/cohorts", "")
	require.Equal(t, http.StatusOK, rec.Code)

	data, err := json.Marshal(decodeResponse(t, rec).Data)
	require.NoError(t, err)
	var result query.GetCohortStatsResult
	require.NoError(t, json.Unmarshal(data, &result))
	require.Len(t, result.Cohorts, 2)
	assert.Equal(t, roster.ClassCode("10A"), result.Cohorts[0].Class)
}

func TestServer_GetTeachers(t *testing.T) {
	rec := doRequest(t, testServer(t), http.MethodGet, "/api/v1/teachers", "")
	require.Equal(t, http.StatusOK, rec.Code)

	data, err := json.Marshal(decodeResponse(t, rec).Data)
	require.NoError(t, err)
	var payload struct {
		Teachers      []analytics.TeacherPerformance `json:"teachers"`
		TotalTeachers int                            `json:"total_teachers"`
	}
	require.NoError(t, json.Unmarshal(data, &payload))
	require.Len(t, payload.Teachers, 2)
	assert.Equal(t, 1, payload.TotalTeachers)
	assert.Equal(t, "Dr. Priya Sharma", payload.Teachers[0].TeacherName)
	assert.Equal(t, roster.NotAssignedName, payload.Teachers[1].TeacherName)
}

func TestServer_SendAlert(t *testing.T) {
	rec := doRequest(t, testServer(t), http.MethodPost, "/api/v1/alerts", `{"student_id":"s2"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	data, err := json.Marshal(decodeResponse(t, rec).Data)
	require.NoError(t, err)
	var result command.SendAlertResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.True(t, result.Outcome.Success)
	assert.Equal(t, alert.KindRiskAlert, result.Kind)
}

func TestServer_SendAlertUnknownStudent(t *testing.T) {
	rec := doRequest(t, testServer(t), http.MethodPost, "/api/v1/alerts", `{"student_id":"ghost"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_SendAlertBadBody(t *testing.T) {
	rec := doRequest(t, testServer(t), http.MethodPost, "/api/v1/alerts", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_ExportStudentsCSV(t *testing.T) {
	rec := doRequest(t, testServer(t), http.MethodGet, "/api/v1/export/students.csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "name,class,teacher,attendance,marks,fee_overdue_days,risk_level", lines[0])
}

func TestServer_ExportWorkbook(t *testing.T) {
	rec := doRequest(t, testServer(t), http.MethodGet, "/api/v1/export/report.xlsx", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rec.Header().Get("Content-Type"),
	)
	assert.NotEmpty(t, rec.Body.Bytes())
}

func TestServer_UnknownRoute(t *testing.T) {
	rec := doRequest(t, testServer(t), http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
