// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mail

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shutdownQueue hands out one message and cancels the run while doing so,
// as if shutdown arrived right after BRPOP returned.
type shutdownQueue struct {
	cancel     context.CancelFunc
	message    Message
	requeued   []Message
	requeueErr error
}

func (queue *shutdownQueue) Pop(context.Context, time.Duration) (*Message, error) {
	queue.cancel()
	message := queue.message
	return &message, nil
}

func (queue *shutdownQueue) Requeue(ctx context.Context, message Message) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	queue.requeued = append(queue.requeued, message)
	return queue.requeueErr
}

type failingSender struct{ calls int }

func (sender *failingSender) Deliver(context.Context, Message) error {
	sender.calls++
	return errors.New("must not deliver")
}

func TestDispatcher_RequeuesMessagePoppedDuringShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	queue := &shutdownQueue{
		cancel:  cancel,
		message: Message{To: "alice@example.com", Subject: "Yamdb registration success.", QueuedAt: time.Unix(100, 0).UTC()},
	}
	sender := &failingSender{}
	dispatcher := &Dispatcher{outbox: queue, sender: sender, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	require.NoError(t, dispatcher.Run(ctx, 1))

	require.Len(t, queue.requeued, 1)
	assert.Equal(t, queue.message, queue.requeued[0])
	assert.Zero(t, sender.calls)
}

func TestDispatcher_RequeueFailureIsLogged(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var logs bytes.Buffer
	queue := &shutdownQueue{cancel: cancel, message: Message{To: "bob@example.com"}, requeueErr: errors.New("redis down")}
	dispatcher := &Dispatcher{outbox: queue, sender: &failingSender{}, logger: slog.New(slog.NewTextHandler(&logs, nil))}

	require.NoError(t, dispatcher.Run(ctx, 1))

	assert.Contains(t, logs.String(), "mail_requeue_failed")
	assert.Contains(t, logs.String(), "redis down")
}
