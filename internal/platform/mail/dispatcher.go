// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mail

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/metrics"
	"github.com/taibuivan/yamdb/internal/platform/worker"
)

const (
	popTimeout   = time.Second
	errorBackoff = 2 * time.Second
)

// queue is the part of [RedisOutbox] the dispatcher consumes.
type queue interface {
	Pop(ctx context.Context, timeout time.Duration) (*Message, error)
	Requeue(ctx context.Context, message Message) error
}

// Dispatcher drains a [RedisOutbox] into a [Sender].
type Dispatcher struct {
	outbox queue
	sender Sender
	logger *slog.Logger
}

// NewDispatcher returns a dispatcher; call [Dispatcher.Run] to start it.
func NewDispatcher(outbox *RedisOutbox, sender Sender, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{outbox: outbox, sender: sender, logger: logger}
}

// Run pops messages until ctx is cancelled, delivering them on workers
// goroutines. It waits for in-flight deliveries before returning.
func (dispatcher *Dispatcher) Run(ctx context.Context, workers int) error {
	// Deliveries already popped finish even after ctx is cancelled.
	pool := worker.NewPool(context.WithoutCancel(ctx), workers, workers)
	defer pool.Stop()

	dispatcher.logger.Info("mail_dispatcher_started", slog.Int("workers", workers))

	for {
		message, err := dispatcher.outbox.Pop(ctx, popTimeout)
		if ctx.Err() != nil {
			if message != nil {
				dispatcher.requeue(ctx, *message)
			}
			dispatcher.logger.Info("mail_dispatcher_stopped")
			return nil
		}
		if err != nil {
			dispatcher.logger.Error("mail_dequeue_failed", slog.Any("error", err))
			select {
			case <-time.After(errorBackoff):
				continue
			case <-ctx.Done():
				return nil
			}
		}
		if message == nil {
			continue
		}

		delivery := *message
		if err := pool.Submit(ctx, func(taskCtx context.Context) {
			dispatcher.deliver(taskCtx, delivery)
		}); err != nil {
			if errors.Is(err, context.Canceled) {
				dispatcher.requeue(ctx, delivery)
				dispatcher.logger.Info("mail_dispatcher_stopped")
				return nil
			}
			return err
		}
	}
}

// requeue hands a popped but undelivered message back to the queue for the
// next process.
func (dispatcher *Dispatcher) requeue(ctx context.Context, message Message) {
	if err := dispatcher.outbox.Requeue(context.WithoutCancel(ctx), message); err != nil {
		dispatcher.logger.Error("mail_requeue_failed",
			slog.String("to", message.To),
			slog.String("subject", message.Subject),
			slog.Any("error", err),
		)
		return
	}
	dispatcher.logger.Info("mail_requeued", slog.String("to", message.To))
}

func (dispatcher *Dispatcher) deliver(ctx context.Context, message Message) {
	if err := dispatcher.sender.Deliver(ctx, message); err != nil {
		metrics.MailDeliveries.WithLabelValues("failed").Inc()
		dispatcher.logger.Error("mail_delivery_failed",
			slog.String("to", message.To),
			slog.String("subject", message.Subject),
			slog.Any("error", err),
		)
		return
	}

	metrics.MailDeliveries.WithLabelValues("sent").Inc()
	dispatcher.logger.Info("mail_delivered",
		slog.String("to", message.To),
		slog.Duration("queued_for", time.Since(message.QueuedAt)),
	)
}
