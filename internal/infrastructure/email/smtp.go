// Package email implements the SMTP delivery channel for guardian alerts.
// Delivery is a single attempt with no retry or queue; the outcome of the
// attempt is reported as data so the caller decides what to do with a
// failure.
package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/eduguard-hub/eduguard-core/internal/domain/alert"
	"github.com/eduguard-hub/eduguard-core/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config holds SMTP server configuration.
type Config struct {
	// Host is the SMTP server hostname.
	Host string

	// Port is the SMTP server port (587 for STARTTLS).
	Port int

	// Username is the SMTP account username.
	Username string

	// Password is the SMTP account password or app password.
	Password string

	// From is the sender address shown to the guardian.
	From string

	// Timeout bounds the whole delivery attempt.
	Timeout time.Duration
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Port:    587,
		Timeout: 15 * time.Second,
	}
}

// Addr returns the server address in "host:port" format.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("smtp: host is required")
	}
	if c.From == "" {
		return fmt.Errorf("smtp: from address is required")
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SMTP CHANNEL
// ══════════════════════════════════════════════════════════════════════════════

// Channel delivers alert messages over SMTP with STARTTLS. Implements
// alert.Channel.
type Channel struct {
	config Config
	log    *logger.Logger
}

// NewChannel creates a new SMTP channel.
func NewChannel(cfg Config, log *logger.Logger) (*Channel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if log == nil {
		log = logger.Default()
	}
	return &Channel{config: cfg, log: log}, nil
}

// Name identifies the channel in delivery outcomes.
func (c *Channel) Name() string { return "smtp" }

// Send performs one delivery attempt. Transport failures are reported in
// the outcome, never as a Go error; the message has already been validated
// by the dispatcher.
func (c *Channel) Send(ctx context.Context, msg *alert.Message) alert.DeliveryOutcome {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	if err := c.deliver(ctx, msg); err != nil {
		c.log.Warn("email delivery failed",
			logger.MessageID(msg.ID),
			logger.Recipient(msg.To),
			logger.Err(err),
		)
		return alert.NewFailureOutcome(c.Name(), msg.ID, fmt.Errorf("Failed to send email: %w", err))
	}

	c.log.Info("email delivered",
		logger.MessageID(msg.ID),
		logger.Recipient(msg.To),
	)
	return alert.NewSuccessOutcome(c.Name(), msg.ID, "Email sent successfully!")
}

// deliver runs the SMTP conversation: dial, STARTTLS, auth, submit.
func (c *Channel) deliver(ctx context.Context, msg *alert.Message) error {
	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", c.config.Addr())
	if err != nil {
		return fmt.Errorf("%w: %v", alert.ErrChannelUnavailable, err)
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, c.config.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("%w: %v", alert.ErrChannelUnavailable, err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		tlsConfig := &tls.Config{ServerName: c.config.Host}
		if err := client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("starttls failed: %w", err)
		}
	}

	if c.config.Username != "" {
		auth := smtp.PlainAuth("", c.config.Username, c.config.Password, c.config.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("%w: %v", alert.ErrAuthFailed, err)
		}
	}

	if err := client.Mail(c.config.From); err != nil {
		return fmt.Errorf("sender rejected: %w", err)
	}
	if err := client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("%w: %v", alert.ErrRecipientRejected, err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("data command failed: %w", err)
	}
	if _, err := w.Write(encodeMIME(c.config.From, msg)); err != nil {
		w.Close()
		return fmt.Errorf("message write failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("message submit failed: %w", err)
	}

	return client.Quit()
}

// encodeMIME renders the message as a single-part HTML email.
func encodeMIME(from string, msg *alert.Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&b, "Message-ID: <%s@eduguard>\r\n", msg.ID)
	fmt.Fprintf(&b, "Date: %s\r\n", msg.CreatedAt.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTMLBody)
	b.WriteString("\r\n")
	return []byte(b.String())
}
