// Package alert turns a student's risk assessment into an outbound message
// and hands it to an injected delivery channel. Composition is a pure
// transformation; dispatch is the single side-effecting operation of the
// system and is only ever invoked on explicit caller action.
package alert

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eduguard-hub/eduguard-core/internal/domain/roster"
	"github.com/eduguard-hub/eduguard-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// MESSAGE KINDS
// ══════════════════════════════════════════════════════════════════════════════

// Kind distinguishes the canned message templates.
type Kind string

const (
	// KindRiskAlert - built from analyzed risk factors.
	KindRiskAlert Kind = "Academic Performance Alert"

	// KindPositiveFeedback - sent when a student has no risk factors.
	KindPositiveFeedback Kind = "Positive Performance Update"
)

// IsValid checks that the kind is one of the known templates.
func (k Kind) IsValid() bool {
	return k == KindRiskAlert || k == KindPositiveFeedback
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// ══════════════════════════════════════════════════════════════════════════════
// MESSAGE
// ══════════════════════════════════════════════════════════════════════════════

// subjectPrefix is the fixed subject prefix of every outbound message.
const subjectPrefix = "EduGuard Alert"

// Message is a composed, ready-to-send alert.
type Message struct {
	// ID - unique message identifier.
	ID string

	// To - recipient address.
	To string

	// StudentName - the student the message is about.
	StudentName string

	// Kind - which template produced the message.
	Kind Kind

	// Subject - deterministic: prefix + student name + kind.
	Subject string

	// HTMLBody - rendered HTML body.
	HTMLBody string

	// CreatedAt - generation timestamp embedded in the body.
	CreatedAt time.Time
}

// Validate rejects messages that must never reach a transport: empty
// recipient or empty body.
func (m *Message) Validate() error {
	if strings.TrimSpace(m.To) == "" {
		return shared.NewDomainError("alert", "Validate", shared.ErrEmptyValue, "recipient address is empty")
	}
	if !strings.Contains(m.To, "@") {
		return shared.NewDomainError("alert", "Validate", shared.ErrValidation,
			fmt.Sprintf("recipient address %q is malformed", m.To))
	}
	if strings.TrimSpace(m.HTMLBody) == "" {
		return shared.NewDomainError("alert", "Validate", shared.ErrEmptyValue, "message body is empty")
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// COMPOSER
// ══════════════════════════════════════════════════════════════════════════════

// ComposeRiskAlert builds a risk alert for a student. details is the
// literal risk-factor text; callers may pass override text instead (the
// operator-edited message). An empty recipient or empty details is a
// validation error surfaced to the caller, never silently dropped.
func ComposeRiskAlert(s *roster.Student, details string, now time.Time) (*Message, error) {
	return compose(s, KindRiskAlert, details, now)
}

// ComposePositiveFeedback builds the positive-feedback message used when a
// student has zero risk factors.
func ComposePositiveFeedback(s *roster.Student, now time.Time) (*Message, error) {
	details := fmt.Sprintf(
		"We are pleased to inform you that %s is performing well academically. Keep up the good work!",
		s.Name,
	)
	return compose(s, KindPositiveFeedback, details, now)
}

// FactorText joins analyzed risk factors into the default alert details,
// one bullet per factor.
func FactorText(studentName string, factors []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "We have identified the following concerns regarding %s's academic performance:\n\n", studentName)
	for _, f := range factors {
		fmt.Fprintf(&b, "- %s\n", f)
	}
	return b.String()
}

func compose(s *roster.Student, kind Kind, details string, now time.Time) (*Message, error) {
	if s == nil {
		return nil, shared.NewDomainError("alert", "Compose", shared.ErrInvalidInput, "student is nil")
	}
	if strings.TrimSpace(details) == "" {
		return nil, shared.NewDomainError("alert", "Compose", shared.ErrEmptyValue, "alert details are empty")
	}

	msg := &Message{
		ID:          uuid.NewString(),
		To:          s.Email,
		StudentName: s.Name,
		Kind:        kind,
		Subject:     fmt.Sprintf("%s: %s - %s", subjectPrefix, s.Name, kind),
		HTMLBody:    renderBody(s.Name, kind, details, now),
		CreatedAt:   now,
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return msg, nil
}

// renderBody fills the HTML template shared by both message kinds.
func renderBody(studentName string, kind Kind, details string, now time.Time) string {
	var b strings.Builder
	b.WriteString("<html><body style=\"font-family: Arial, sans-serif; padding: 20px;\">\n")
	b.WriteString("<h2>EduGuard Student Alert</h2>\n")
	b.WriteString("<h3>Dear Parent/Guardian,</h3>\n")
	fmt.Fprintf(&b, "<p>We would like to inform you about your ward's <strong>%s</strong> status:</p>\n", kind)
	b.WriteString("<div>\n")
	fmt.Fprintf(&b, "<h4>Student: %s</h4>\n", studentName)
	fmt.Fprintf(&b, "<p><strong>Alert Type:</strong> %s</p>\n", kind)
	fmt.Fprintf(&b, "<p><strong>Details:</strong> %s</p>\n", htmlEscapeMultiline(details))
	fmt.Fprintf(&b, "<p><strong>Date:</strong> %s</p>\n", now.Format("2006-01-02 15:04"))
	b.WriteString("</div>\n")
	b.WriteString("<p>Please contact the school administration for further discussion and support.</p>\n")
	b.WriteString("<p>Best regards,<br>EduGuard Team</p>\n")
	b.WriteString("</body></html>")
	return b.String()
}

// htmlEscapeMultiline escapes HTML metacharacters and turns newlines into
// <br> so operator-edited plain text renders readably.
func htmlEscapeMultiline(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
	)
	return strings.ReplaceAll(r.Replace(s), "\n", "<br>")
}
