// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mail_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/mail"
)

func newOutbox(t *testing.T) (*mail.RedisOutbox, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mail.NewRedisOutbox(client, "mail:test"), server
}

func TestRedisOutbox_FIFO(t *testing.T) {
	outbox, _ := newOutbox(t)
	ctx := context.Background()

	require.NoError(t, outbox.Send(ctx, "a@example.com", "first", "1"))
	require.NoError(t, outbox.Send(ctx, "b@example.com", "second", "2"))

	length, err := outbox.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), length)

	first, err := outbox.Pop(ctx, 100*time.Millisecond)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "first", first.Subject)
	assert.Equal(t, "a@example.com", first.To)
	assert.False(t, first.QueuedAt.IsZero())

	second, err := outbox.Pop(ctx, 100*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, "second", second.Subject)
}

func TestRedisOutbox_EmptyPop(t *testing.T) {
	outbox, _ := newOutbox(t)

	message, err := outbox.Pop(context.Background(), 100*time.Millisecond)
	assert.NoError(t, err)
	assert.Nil(t, message)
}

func TestRedisOutbox_RequeueGoesToHead(t *testing.T) {
	outbox, _ := newOutbox(t)
	ctx := context.Background()

	require.NoError(t, outbox.Send(ctx, "a@example.com", "first", "1"))
	require.NoError(t, outbox.Send(ctx, "b@example.com", "second", "2"))

	first, err := outbox.Pop(ctx, 100*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, outbox.Requeue(ctx, *first))

	again, err := outbox.Pop(ctx, 100*time.Millisecond)
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.Equal(t, "first", again.Subject)
	assert.True(t, first.QueuedAt.Equal(again.QueuedAt))
}

func TestRedisOutbox_SendFailure(t *testing.T) {
	outbox, server := newOutbox(t)
	server.Close()

	err := outbox.Send(context.Background(), "a@example.com", "s", "b")
	assert.Error(t, err)
}

type recordingSender struct {
	mu       sync.Mutex
	messages []mail.Message
	fail     bool
}

func (s *recordingSender) Deliver(_ context.Context, message mail.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, message)
	if s.fail {
		return errors.New("relay down")
	}
	return nil
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

func TestDispatcher_DeliversQueuedMail(t *testing.T) {
	outbox, _ := newOutbox(t)
	sender := &recordingSender{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	for _, to := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		require.NoError(t, outbox.Send(context.Background(), to, "Yamdb registration success.", "code"))
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- mail.NewDispatcher(outbox, sender, logger).Run(ctx, 2) }()

	assert.Eventually(t, func() bool { return sender.count() == 3 }, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("dispatcher did not stop")
	}
}

func TestDispatcher_DeliveryFailureIsNotFatal(t *testing.T) {
	outbox, _ := newOutbox(t)
	sender := &recordingSender{fail: true}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	require.NoError(t, outbox.Send(context.Background(), "a@example.com", "s", "b"))
	require.NoError(t, outbox.Send(context.Background(), "b@example.com", "s", "b"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = mail.NewDispatcher(outbox, sender, logger).Run(ctx, 1) }()

	assert.Eventually(t, func() bool { return sender.count() == 2 }, 5*time.Second, 20*time.Millisecond)
}
