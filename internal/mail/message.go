// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natours Contributors

package mail

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/oops"
	gomail "github.com/wneessen/go-mail"
)

// Message is a rendered email with plain text and HTML alternatives.
type Message struct {
	From    mail.Address
	To      mail.Address
	Subject string
	Text    string
	HTML    string
}

// Msg builds the multipart/alternative message handed to the SMTP client.
func (msg Message) Msg(now time.Time) (*gomail.Msg, error) {
	m := gomail.NewMsg(gomail.WithCharset(gomail.CharsetUTF8), gomail.WithEncoding(gomail.EncodingQP))
	if err := m.FromFormat(msg.From.Name, msg.From.Address); err != nil {
		return nil, oops.Code("MAIL_ENCODE_FAILED").With("header", "From").Wrap(err)
	}
	if err := m.AddToFormat(msg.To.Name, msg.To.Address); err != nil {
		return nil, oops.Code("MAIL_ENCODE_FAILED").With("header", "To").Wrap(err)
	}
	m.Subject(msg.Subject)
	m.SetDateWithValue(now)
	m.SetMessageIDWithValue(uuid.NewString() + "@" + domainOf(msg.From.Address))
	m.SetBodyString(gomail.TypeTextPlain, msg.Text)
	m.AddAlternativeString(gomail.TypeTextHTML, msg.HTML)
	return m, nil
}

func domainOf(addr string) string {
	if i := strings.LastIndexByte(addr, '@'); i >= 0 && i < len(addr)-1 {
		return addr[i+1:]
	}
	return "localhost"
}
