// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strings"
	"time"
)

// LogSender writes messages to the logger instead of sending them.
// It is the development backend.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender returns a [LogSender].
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Deliver implements [Sender].
func (sender *LogSender) Deliver(ctx context.Context, message Message) error {
	sender.logger.InfoContext(ctx, "mail_delivered_to_log",
		slog.String("to", message.To),
		slog.String("subject", message.Subject),
		slog.String("body", message.Body),
	)
	return nil
}

// SMTPSender delivers messages through an SMTP relay.
type SMTPSender struct {
	addr string
	from string
	auth smtp.Auth
	send func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPSender returns a sender for the relay at addr ("host:port").
// PLAIN auth is used when username is set.
func NewSMTPSender(addr, from, username, password string) *SMTPSender {
	var auth smtp.Auth
	if username != "" {
		host, _, _ := net.SplitHostPort(addr)
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPSender{addr: addr, from: from, auth: auth, send: smtp.SendMail}
}

// Deliver implements [Sender].
func (sender *SMTPSender) Deliver(ctx context.Context, message Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if strings.ContainsAny(message.To, "\r\n") || strings.ContainsAny(message.Subject, "\r\n") {
		return fmt.Errorf("mail: header injection rejected")
	}

	if err := sender.send(sender.addr, sender.auth, sender.from, []string{message.To}, sender.compose(message)); err != nil {
		return fmt.Errorf("mail: smtp send to %s failed: %w", sender.addr, err)
	}
	return nil
}

func (sender *SMTPSender) compose(message Message) []byte {
	var builder strings.Builder
	fmt.Fprintf(&builder, "From: %s\r\n", sender.from)
	fmt.Fprintf(&builder, "To: %s\r\n", message.To)
	fmt.Fprintf(&builder, "Subject: %s\r\n", message.Subject)
	fmt.Fprintf(&builder, "Date: %s\r\n", time.Now().UTC().Format(time.RFC1123Z))
	builder.WriteString("MIME-Version: 1.0\r\n")
	builder.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	builder.WriteString("\r\n")
	builder.WriteString(strings.ReplaceAll(message.Body, "\n", "\r\n"))
	builder.WriteString("\r\n")
	return []byte(builder.String())
}
