package email

import (
	"context"

	"github.com/eduguard-hub/eduguard-core/internal/domain/alert"
	"github.com/eduguard-hub/eduguard-core/pkg/logger"
)

// LogChannel writes alert messages to the log instead of sending them.
// Used in development and when SMTP is disabled, so the full compose and
// dispatch path stays exercised without an outbound mail server.
type LogChannel struct {
	log *logger.Logger
}

// NewLogChannel creates a log-only delivery channel.
func NewLogChannel(log *logger.Logger) *LogChannel {
	if log == nil {
		log = logger.Default()
	}
	return &LogChannel{log: log}
}

// Name identifies the channel in delivery outcomes.
func (c *LogChannel) Name() string { return "log" }

// Send records the message and reports success.
func (c *LogChannel) Send(_ context.Context, msg *alert.Message) alert.DeliveryOutcome {
	c.log.Info("alert logged instead of sent",
		logger.MessageID(msg.ID),
		logger.Recipient(msg.To),
		logger.String("subject", msg.Subject),
	)
	return alert.NewSuccessOutcome(c.Name(), msg.ID, "Email sent successfully!")
}
