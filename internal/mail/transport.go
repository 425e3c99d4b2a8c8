// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natours Contributors

package mail

import (
	"context"
	"crypto/tls"
	"log/slog"
	"time"

	"github.com/samber/oops"
	gomail "github.com/wneessen/go-mail"
)

// SMTPConfig locates an SMTP relay.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
}

// SMTPTransport delivers mail through an SMTP relay, upgrading to TLS when
// the server offers STARTTLS.
type SMTPTransport struct {
	cfg  SMTPConfig
	opts []gomail.Option
	now  func() time.Time
}

// NewSMTPTransport creates an SMTPTransport.
func NewSMTPTransport(cfg SMTPConfig) (*SMTPTransport, error) {
	if cfg.Host == "" {
		return nil, oops.Code("MAIL_INVALID_CONFIG").Errorf("smtp host is required")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, oops.Code("MAIL_INVALID_CONFIG").With("port", cfg.Port).Errorf("smtp port out of range")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTimeout(cfg.Timeout),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
		gomail.WithTLSConfig(&tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}
	// Validate the options once; Send builds a fresh client per message.
	if _, err := gomail.NewClient(cfg.Host, opts...); err != nil {
		return nil, oops.Code("MAIL_INVALID_CONFIG").With("host", cfg.Host).Wrap(err)
	}
	return &SMTPTransport{cfg: cfg, opts: opts, now: time.Now}, nil
}

// Send delivers msg. The whole exchange is bounded by ctx and the
// configured timeout.
func (t *SMTPTransport) Send(ctx context.Context, msg Message) error {
	m, err := msg.Msg(t.now())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, t.cfg.Timeout)
	defer cancel()

	client, err := gomail.NewClient(t.cfg.Host, t.opts...)
	if err != nil {
		return oops.Code("MAIL_SMTP_FAILED").With("host", t.cfg.Host).With("stage", "client").Wrap(err)
	}
	if err := client.DialWithContext(ctx); err != nil {
		return oops.Code("MAIL_SMTP_FAILED").With("host", t.cfg.Host).With("stage", "dial").Wrap(err)
	}
	if err := client.Send(m); err != nil {
		_ = client.Close() //nolint:errcheck // already failing
		return oops.Code("MAIL_SMTP_FAILED").With("host", t.cfg.Host).With("stage", "send").Wrap(err)
	}
	if err := client.Close(); err != nil {
		return oops.Code("MAIL_SMTP_FAILED").With("host", t.cfg.Host).With("stage", "quit").Wrap(err)
	}
	return nil
}

// LogTransport writes messages to a logger instead of delivering them.
// Useful in development, where the reset link can be read from the log.
type LogTransport struct {
	logger *slog.Logger
}

// NewLogTransport creates a LogTransport. A nil logger uses slog.Default.
func NewLogTransport(logger *slog.Logger) *LogTransport {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogTransport{logger: logger}
}

// Send logs msg's envelope and plain text body.
func (t *LogTransport) Send(ctx context.Context, msg Message) error {
	t.logger.InfoContext(ctx, "mail not delivered (log transport)",
		"from", msg.From.Address,
		"to", msg.To.Address,
		"subject", msg.Subject,
		"body", msg.Text,
	)
	return nil
}
