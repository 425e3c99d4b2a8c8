// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natours Contributors

// Package mail renders and delivers the transactional email sent during
// signup and password reset.
package mail

import (
	"bytes"
	"context"
	"embed"
	htmltemplate "html/template"
	"net/mail"
	"strings"
	texttemplate "text/template"

	"github.com/samber/oops"

	"github.com/natours/identity/internal/auth"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Kinds of message a Mailer sends.
const (
	KindWelcome = "welcome"
	KindReset   = "reset"
)

var subjects = map[string]string{
	KindWelcome: "Welcome to the Natours family!",
	KindReset:   "Your password reset token (valid for only 10 minutes)",
}

// Transport hands a composed message to a delivery channel.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

// Mailer implements auth.Notifier.
type Mailer struct {
	from      *mail.Address
	transport Transport
	text      *texttemplate.Template
	html      *htmltemplate.Template
}

var _ auth.Notifier = (*Mailer)(nil)

// New creates a Mailer sending from the given address.
func New(from string, transport Transport) (*Mailer, error) {
	if transport == nil {
		return nil, oops.Code("MAIL_INVALID_CONFIG").Errorf("mail transport is required")
	}
	addr, err := mail.ParseAddress(from)
	if err != nil {
		return nil, oops.Code("MAIL_INVALID_CONFIG").With("from", from).Wrap(err)
	}
	text, err := texttemplate.ParseFS(templateFS, "templates/*.txt.tmpl")
	if err != nil {
		return nil, oops.Code("MAIL_INVALID_CONFIG").Wrap(err)
	}
	html, err := htmltemplate.ParseFS(templateFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, oops.Code("MAIL_INVALID_CONFIG").Wrap(err)
	}
	return &Mailer{from: addr, transport: transport, text: text, html: html}, nil
}

// SendWelcome greets a new principal.
func (m *Mailer) SendWelcome(ctx context.Context, to auth.Recipient, accountURL string) error {
	return m.send(ctx, KindWelcome, to, accountURL)
}

// SendPasswordReset delivers a reset link.
func (m *Mailer) SendPasswordReset(ctx context.Context, to auth.Recipient, resetURL string) error {
	return m.send(ctx, KindReset, to, resetURL)
}

func (m *Mailer) send(ctx context.Context, kind string, to auth.Recipient, url string) error {
	msg, err := m.Compose(kind, to, url)
	if err != nil {
		return err
	}
	if err := m.transport.Send(ctx, msg); err != nil {
		return oops.Code("MAIL_SEND_FAILED").With("kind", kind).Wrap(err)
	}
	return nil
}

type templateData struct {
	FirstName string
	URL       string
	Subject   string
}

// Compose renders a message of kind without sending it.
func (m *Mailer) Compose(kind string, to auth.Recipient, url string) (Message, error) {
	subject, ok := subjects[kind]
	if !ok {
		return Message{}, oops.Code("MAIL_RENDER_FAILED").With("kind", kind).Errorf("unknown message kind")
	}
	if _, err := mail.ParseAddress(to.Email); err != nil {
		return Message{}, oops.Code("MAIL_RENDER_FAILED").With("kind", kind).Wrap(err)
	}

	data := templateData{FirstName: FirstName(to.Name), URL: url, Subject: subject}

	var text, html bytes.Buffer
	if err := m.text.ExecuteTemplate(&text, kind+".txt.tmpl", data); err != nil {
		return Message{}, oops.Code("MAIL_RENDER_FAILED").With("kind", kind).Wrap(err)
	}
	if err := m.html.ExecuteTemplate(&html, kind+".html.tmpl", data); err != nil {
		return Message{}, oops.Code("MAIL_RENDER_FAILED").With("kind", kind).Wrap(err)
	}

	return Message{
		From:    *m.from,
		To:      mail.Address{Name: to.Name, Address: to.Email},
		Subject: subject,
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}

// FirstName returns the first whitespace-separated word of name.
func FirstName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
