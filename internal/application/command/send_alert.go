// Package command contains write operations following the CQRS pattern.
// Each command is a self-contained use case; dispatching an alert is the
// only operation in the system with an observable side effect, so it runs
// exactly once per invocation and only on explicit caller action.
package command

import (
	"context"
	"time"

	"github.com/eduguard-hub/eduguard-core/internal/domain/alert"
	"github.com/eduguard-hub/eduguard-core/internal/domain/risk"
	"github.com/eduguard-hub/eduguard-core/internal/domain/roster"
	"github.com/eduguard-hub/eduguard-core/internal/domain/shared"
	"github.com/eduguard-hub/eduguard-core/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SEND ALERT COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// SendAlertCommand contains the parameters for dispatching one alert.
type SendAlertCommand struct {
	// StudentID - the student to alert about.
	StudentID string

	// CustomText - optional operator-edited body text. When empty, the
	// analyzed risk factors become the alert details.
	CustomText string
}

// Validate checks the command parameters.
func (c *SendAlertCommand) Validate() error {
	if c.StudentID == "" {
		return shared.NewDomainError("command", "SendAlert", shared.ErrEmptyValue, "student id is required")
	}
	return nil
}

// SendAlertResult reports what was composed and how delivery went.
type SendAlertResult struct {
	// Kind - which template was used: a risk alert when factors exist,
	// positive feedback when the student has none.
	Kind alert.Kind `json:"kind"`

	// Factors - the analyzed risk factors the message was built from.
	Factors []string `json:"factors"`

	// Outcome - the typed delivery outcome of the single attempt.
	Outcome alert.DeliveryOutcome `json:"outcome"`
}

// SendAlertHandler handles alert dispatch commands.
type SendAlertHandler struct {
	source     roster.RosterSource
	thresholds risk.Thresholds
	dispatcher *alert.Dispatcher
	log        *logger.Logger

	// now is injectable for tests.
	now func() time.Time
}

// NewSendAlertHandler creates a new send-alert command handler.
func NewSendAlertHandler(source roster.RosterSource, thresholds risk.Thresholds, dispatcher *alert.Dispatcher, log *logger.Logger) *SendAlertHandler {
	if log == nil {
		log = logger.Default()
	}
	return &SendAlertHandler{
		source:     source,
		thresholds: thresholds,
		dispatcher: dispatcher,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Handle resolves the student, analyzes the risk factors, composes the
// matching message kind, and dispatches it exactly once. Compose/validate
// failures are returned before any transport involvement; transport
// failures come back inside the result.
func (h *SendAlertHandler) Handle(ctx context.Context, cmd SendAlertCommand) (*SendAlertResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	student, err := h.findStudent(ctx, cmd.StudentID)
	if err != nil {
		return nil, err
	}

	assessment, err := risk.Classify(student, h.thresholds)
	if err != nil {
		// A student whose signals cannot be scored cannot get a factor
		// based alert; the data-quality error goes back to the caller.
		return nil, err
	}

	msg, kind, err := h.composeFor(student, assessment, cmd.CustomText)
	if err != nil {
		return nil, err
	}

	outcome, err := h.dispatcher.Dispatch(ctx, msg)
	if err != nil {
		return nil, err
	}

	h.log.Info("alert dispatched",
		logger.StudentID(student.ID),
		logger.ClassCode(string(student.Class)),
		logger.RiskLevel(assessment.Level.String()),
		logger.RiskScore(assessment.Score),
		logger.String("kind", kind.String()),
		logger.Bool("success", outcome.Success),
		logger.String("channel", outcome.Channel),
	)

	return &SendAlertResult{
		Kind:    kind,
		Factors: assessment.Factors,
		Outcome: outcome,
	}, nil
}

// composeFor picks the template: risk alert when factors exist (with
// optional operator override text), positive feedback otherwise.
func (h *SendAlertHandler) composeFor(student *roster.Student, assessment risk.Assessment, customText string) (*alert.Message, alert.Kind, error) {
	if !assessment.HasFactors() {
		msg, err := alert.ComposePositiveFeedback(student, h.now())
		return msg, alert.KindPositiveFeedback, err
	}

	details := customText
	if details == "" {
		details = alert.FactorText(student.Name, assessment.Factors)
	}
	msg, err := alert.ComposeRiskAlert(student, details, h.now())
	return msg, alert.KindRiskAlert, err
}

// findStudent loads the roster and resolves one student by id.
func (h *SendAlertHandler) findStudent(ctx context.Context, id string) (*roster.Student, error) {
	students, _, err := h.source.Load(ctx)
	if err != nil {
		return nil, shared.WrapError("command", "SendAlert", shared.ErrServiceUnavailable, "roster load failed", err)
	}
	for _, s := range students {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, shared.WrapError("command", "SendAlert", shared.ErrNotFound, "student "+id, roster.ErrStudentNotFound)
}
