// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package worker provides a fixed-size goroutine pool for background jobs.
package worker

import (
	"context"
	"errors"
	"sync"
)

// ErrStopped is returned by [Pool.Submit] after [Pool.Stop].
var ErrStopped = errors.New("worker: pool stopped")

// Task is a unit of background work.
type Task func(ctx context.Context)

// Pool runs submitted tasks on a fixed number of goroutines.
type Pool struct {
	wg      sync.WaitGroup
	jobs    chan Task
	ctx     context.Context
	mu      sync.RWMutex
	stopped bool
}

// NewPool starts size workers with a queue of queueSize pending tasks.
// ctx is handed to every task.
func NewPool(ctx context.Context, size, queueSize int) *Pool {
	pool := &Pool{jobs: make(chan Task, queueSize), ctx: ctx}

	for i := 0; i < size; i++ {
		pool.wg.Add(1)
		go func() {
			defer pool.wg.Done()
			for job := range pool.jobs {
				job(pool.ctx)
			}
		}()
	}

	return pool
}

// Submit enqueues task, blocking while the queue is full until ctx is done.
func (pool *Pool) Submit(ctx context.Context, task Task) error {
	pool.mu.RLock()
	defer pool.mu.RUnlock()

	if pool.stopped {
		return ErrStopped
	}

	select {
	case pool.jobs <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop closes the queue and waits for queued tasks to finish.
func (pool *Pool) Stop() {
	pool.mu.Lock()
	if pool.stopped {
		pool.mu.Unlock()
		return
	}
	pool.stopped = true
	close(pool.jobs)
	pool.mu.Unlock()

	pool.wg.Wait()
}
