// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mail is the outbound notification sink.

Producers see only [Notifier]. In the server the notifier is a [RedisOutbox]:
Send pushes the message onto a Redis list and returns. A [Dispatcher] pops
messages and hands them to a [Sender] on a worker pool.

	signup ──Send──▶ RedisOutbox ──BRPOP──▶ Dispatcher ──▶ worker.Pool ──▶ Sender (SMTP|log)

Enqueue failures reach the caller; delivery failures are logged and counted.
*/
package mail

import (
	"context"
	"time"
)

// Notifier accepts a message for delivery.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Sender delivers a message to its recipient.
type Sender interface {
	Deliver(ctx context.Context, message Message) error
}

// Message is one outbound email.
type Message struct {
	To       string    `json:"to"`
	Subject  string    `json:"subject"`
	Body     string    `json:"body"`
	QueuedAt time.Time `json:"queued_at"`
}

// NotifierFunc adapts a function to [Notifier].
type NotifierFunc func(ctx context.Context, to, subject, body string) error

// Send calls f.
func (f NotifierFunc) Send(ctx context.Context, to, subject, body string) error {
	return f(ctx, to, subject, body)
}
