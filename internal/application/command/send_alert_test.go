package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduguard-hub/eduguard-core/internal/domain/alert"
	"github.com/eduguard-hub/eduguard-core/internal/domain/risk"
	"github.com/eduguard-hub/eduguard-core/internal/domain/roster"
	"github.com/eduguard-hub/eduguard-core/internal/domain/shared"
)

// stubRoster serves a fixed student list.
type stubRoster struct {
	students []*roster.Student
}

func (s *stubRoster) Load(context.Context) ([]*roster.Student, []roster.RecordIssue, error) {
	return s.students, nil, nil
}

// recordingChannel records every transport attempt.
type recordingChannel struct {
	sent []*alert.Message
}

func (c *recordingChannel) Name() string { return "recording" }

func (c *recordingChannel) Send(_ context.Context, msg *alert.Message) alert.DeliveryOutcome {
	c.sent = append(c.sent, msg)
	return alert.NewSuccessOutcome(c.Name(), msg.ID, "Email sent successfully!")
}

func buildStudent(t *testing.T, id, email string, attendance, marks float64, feeDays int) *roster.Student {
	t.Helper()
	s, err := roster.NewStudent(roster.NewStudentParams{
		ID:             id,
		Name:           "Meera Nair",
		Email:          email,
		Class:          "12A",
		Attendance:     roster.NewMeasure(attendance),
		Marks:          roster.NewMeasure(marks),
		FeeOverdueDays: roster.NewDays(feeDays),
	})
	require.NoError(t, err)
	return s
}

func newHandler(students []*roster.Student, channel alert.Channel) *SendAlertHandler {
	return NewSendAlertHandler(
		&stubRoster{students: students},
		risk.DefaultThresholds(),
		alert.NewDispatcher(channel),
		nil,
	)
}

func TestSendAlert_AtRiskStudentGetsRiskAlert(t *testing.T) {
	channel := &recordingChannel{}
	h := newHandler([]*roster.Student{buildStudent(t, "s1", "meera@example.com", 50, 30, 0)}, channel)

	result, err := h.Handle(context.Background(), SendAlertCommand{StudentID: "s1"})
	require.NoError(t, err)

	assert.Equal(t, alert.KindRiskAlert, result.Kind)
	assert.Equal(t, []string{
		"Attendance critically low: 50%",
		"Marks critically low: 30%",
	}, result.Factors)
	assert.True(t, result.Outcome.Success)
	require.Len(t, channel.sent, 1)
	assert.Contains(t, channel.sent[0].HTMLBody, "Attendance critically low: 50%")
}

func TestSendAlert_HealthyStudentGetsPositiveFeedback(t *testing.T) {
	channel := &recordingChannel{}
	h := newHandler([]*roster.Student{buildStudent(t, "s1", "meera@example.com", 95, 90, 0)}, channel)

	result, err := h.Handle(context.Background(), SendAlertCommand{StudentID: "s1"})
	require.NoError(t, err)

	assert.Equal(t, alert.KindPositiveFeedback, result.Kind)
	assert.Empty(t, result.Factors)
	require.Len(t, channel.sent, 1)
	assert.Contains(t, channel.sent[0].HTMLBody, "performing well academically")
}

func TestSendAlert_CustomTextOverridesFactors(t *testing.T) {
	channel := &recordingChannel{}
	h := newHandler([]*roster.Student{buildStudent(t, "s1", "meera@example.com", 50, 30, 0)}, channel)

	_, err := h.Handle(context.Background(), SendAlertCommand{
		StudentID:  "s1",
		CustomText: "Please visit the school office this week.",
	})
	require.NoError(t, err)

	require.Len(t, channel.sent, 1)
	assert.Contains(t, channel.sent[0].HTMLBody, "Please visit the school office this week.")
	assert.NotContains(t, channel.sent[0].HTMLBody, "Attendance critically low")
}

func TestSendAlert_MissingEmailNeverReachesTransport(t *testing.T) {
	channel := &recordingChannel{}
	h := newHandler([]*roster.Student{buildStudent(t, "s1", "", 50, 30, 0)}, channel)

	_, err := h.Handle(context.Background(), SendAlertCommand{StudentID: "s1"})
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
	assert.Empty(t, channel.sent, "transport must never be invoked for an invalid recipient")
}

func TestSendAlert_UnknownStudent(t *testing.T) {
	h := newHandler(nil, &recordingChannel{})

	_, err := h.Handle(context.Background(), SendAlertCommand{StudentID: "ghost"})
	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))
}

func TestSendAlert_UnscorableStudentIsDataQualityError(t *testing.T) {
	broken, err := roster.NewStudent(roster.NewStudentParams{
		ID:         "s1",
		Name:       "No Signals",
		Email:      "x@example.com",
		Class:      "12A",
		Attendance: roster.NewMeasure(80),
	})
	require.NoError(t, err)

	channel := &recordingChannel{}
	h := newHandler([]*roster.Student{broken}, channel)

	_, err = h.Handle(context.Background(), SendAlertCommand{StudentID: "s1"})
	require.Error(t, err)
	assert.True(t, shared.IsDataQuality(err))
	assert.Empty(t, channel.sent)
}

func TestSendAlert_EmptyStudentID(t *testing.T) {
	h := newHandler(nil, &recordingChannel{})

	_, err := h.Handle(context.Background(), SendAlertCommand{})
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
}
