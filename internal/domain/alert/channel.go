package alert

import (
	"context"
	"errors"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// DELIVERY OUTCOME
// ══════════════════════════════════════════════════════════════════════════════

// DeliveryOutcome is the typed result of one dispatch attempt. Transport
// failures are reported here, never raised as faults to the caller.
type DeliveryOutcome struct {
	// Success - whether the transport accepted the message.
	Success bool `json:"success"`

	// Detail - confirmation text on success, the captured transport
	// error text on failure.
	Detail string `json:"detail"`

	// MessageID - id of the message the attempt was for.
	MessageID string `json:"message_id"`

	// Channel - name of the channel that handled the attempt.
	Channel string `json:"channel"`

	// AttemptedAt - when the attempt was made.
	AttemptedAt time.Time `json:"attempted_at"`
}

// NewSuccessOutcome creates a successful delivery outcome.
func NewSuccessOutcome(channel, messageID, detail string) DeliveryOutcome {
	return DeliveryOutcome{
		Success:     true,
		Detail:      detail,
		MessageID:   messageID,
		Channel:     channel,
		AttemptedAt: time.Now().UTC(),
	}
}

// NewFailureOutcome creates a failed delivery outcome from a transport
// error. A nil err still produces a failure with a generic detail.
func NewFailureOutcome(channel, messageID string, err error) DeliveryOutcome {
	detail := "delivery failed"
	if err != nil {
		detail = err.Error()
	}
	return DeliveryOutcome{
		Success:     false,
		Detail:      detail,
		MessageID:   messageID,
		Channel:     channel,
		AttemptedAt: time.Now().UTC(),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CHANNEL INTERFACE
// ══════════════════════════════════════════════════════════════════════════════

// Channel is the outbound transport collaborator. Implementations own
// their protocol (SMTP or otherwise) and must bound their own I/O with
// the context; the core never retries on their behalf.
type Channel interface {
	// Name identifies the channel for outcome reporting.
	Name() string

	// Send makes exactly one delivery attempt.
	Send(ctx context.Context, msg *Message) DeliveryOutcome
}

// Channel errors shared by implementations.
var (
	// ErrChannelUnavailable - the transport cannot be reached.
	ErrChannelUnavailable = errors.New("alert channel is unavailable")

	// ErrAuthFailed - the transport rejected the configured credentials.
	ErrAuthFailed = errors.New("alert channel authentication failed")

	// ErrRecipientRejected - the transport rejected the recipient address.
	ErrRecipientRejected = errors.New("recipient rejected by transport")
)
