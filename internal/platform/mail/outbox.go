// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOutbox is a FIFO queue of messages stored in a Redis list.
type RedisOutbox struct {
	client redis.UniversalClient
	key    string
	now    func() time.Time
}

// NewRedisOutbox returns an outbox stored under key.
func NewRedisOutbox(client redis.UniversalClient, key string) *RedisOutbox {
	return &RedisOutbox{client: client, key: key, now: time.Now}
}

// Send implements [Notifier] by enqueueing the message.
func (outbox *RedisOutbox) Send(ctx context.Context, to, subject, body string) error {
	payload, err := json.Marshal(Message{To: to, Subject: subject, Body: body, QueuedAt: outbox.now().UTC()})
	if err != nil {
		return fmt.Errorf("mail: encode message: %w", err)
	}

	if err := outbox.client.LPush(ctx, outbox.key, payload).Err(); err != nil {
		return fmt.Errorf("mail: enqueue message: %w", err)
	}
	return nil
}

// Pop waits up to timeout for the oldest message. It returns (nil, nil) when
// the queue stayed empty.
func (outbox *RedisOutbox) Pop(ctx context.Context, timeout time.Duration) (*Message, error) {
	result, err := outbox.client.BRPop(ctx, timeout, outbox.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mail: dequeue message: %w", err)
	}

	// BRPOP answers [key, value].
	var message Message
	if err := json.Unmarshal([]byte(result[1]), &message); err != nil {
		return nil, fmt.Errorf("mail: decode message: %w", err)
	}
	return &message, nil
}

// Requeue puts a popped message back at the head of the queue, keeping its
// original QueuedAt.
func (outbox *RedisOutbox) Requeue(ctx context.Context, message Message) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("mail: encode message: %w", err)
	}

	if err := outbox.client.RPush(ctx, outbox.key, payload).Err(); err != nil {
		return fmt.Errorf("mail: requeue message: %w", err)
	}
	return nil
}

// Len returns the number of queued messages.
func (outbox *RedisOutbox) Len(ctx context.Context) (int64, error) {
	return outbox.client.LLen(ctx, outbox.key).Result()
}
