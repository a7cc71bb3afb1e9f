package alert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduguard-hub/eduguard-core/internal/domain/roster"
	"github.com/eduguard-hub/eduguard-core/internal/domain/shared"
)

var composeTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func testStudent(t *testing.T, email string) *roster.Student {
	t.Helper()
	s, err := roster.NewStudent(roster.NewStudentParams{
		ID:             "s1",
		Name:           "Ravi Verma",
		Email:          email,
		Class:          "10A",
		Attendance:     roster.NewMeasure(55),
		Marks:          roster.NewMeasure(45),
		FeeOverdueDays: roster.NewDays(0),
	})
	require.NoError(t, err)
	return s
}

func TestComposeRiskAlert_SubjectAndBody(t *testing.T) {
	s := testStudent(t, "ravi@example.com")
	details := FactorText(s.Name, []string{"Attendance critically low: 55%", "Marks low: 45%"})

	msg, err := ComposeRiskAlert(s, details, composeTime)
	require.NoError(t, err)

	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, "ravi@example.com", msg.To)
	assert.Equal(t, KindRiskAlert, msg.Kind)
	assert.Equal(t, "EduGuard Alert: Ravi Verma - Academic Performance Alert", msg.Subject)
	assert.Contains(t, msg.HTMLBody, "Attendance critically low: 55%")
	assert.Contains(t, msg.HTMLBody, "Marks low: 45%")
	assert.Contains(t, msg.HTMLBody, "2026-03-14 09:30")
	assert.Equal(t, composeTime, msg.CreatedAt)
}

func TestComposeRiskAlert_IsDeterministicExceptID(t *testing.T) {
	s := testStudent(t, "ravi@example.com")

	a, err := ComposeRiskAlert(s, "custom operator text", composeTime)
	require.NoError(t, err)
	b, err := ComposeRiskAlert(s, "custom operator text", composeTime)
	require.NoError(t, err)

	assert.Equal(t, a.Subject, b.Subject)
	assert.Equal(t, a.HTMLBody, b.HTMLBody)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestComposePositiveFeedback_UsesOwnTemplate(t *testing.T) {
	s := testStudent(t, "ravi@example.com")

	msg, err := ComposePositiveFeedback(s, composeTime)
	require.NoError(t, err)
	assert.Equal(t, KindPositiveFeedback, msg.Kind)
	assert.Equal(t, "EduGuard Alert: Ravi Verma - Positive Performance Update", msg.Subject)
	assert.Contains(t, msg.HTMLBody, "performing well academically")
}

func TestCompose_EmptyRecipientIsValidationError(t *testing.T) {
	s := testStudent(t, "")

	_, err := ComposeRiskAlert(s, "some details", composeTime)
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
}

func TestCompose_MalformedRecipientIsValidationError(t *testing.T) {
	s := testStudent(t, "not-an-address")

	_, err := ComposeRiskAlert(s, "some details", composeTime)
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
}

func TestCompose_EmptyDetailsIsValidationError(t *testing.T) {
	s := testStudent(t, "ravi@example.com")

	_, err := ComposeRiskAlert(s, "   ", composeTime)
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
}

func TestCompose_DetailsAreHTMLEscaped(t *testing.T) {
	s := testStudent(t, "ravi@example.com")

	msg, err := ComposeRiskAlert(s, "score <40% & falling\nsecond line", composeTime)
	require.NoError(t, err)
	assert.Contains(t, msg.HTMLBody, "score &lt;40% &amp; falling<br>second line")
}
