// Package worker runs fire-and-forget tasks outside the request lifecycle.
//
// A task submitted here is decoupled from the HTTP request that produced it:
// the caller has already been answered, nobody waits on the outcome, and a
// failure is only written to the log. Feed creation relies on this to answer
// the uploader before the document write is durable.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var ErrClosed = errors.New("worker: runner is shut down")

type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

type Runner struct {
	tasks   chan Task
	timeout time.Duration
	log     *zap.Logger
	group   errgroup.Group

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewRunner starts workers goroutines draining a queue of the given size.
// Each task gets its own context bounded by timeout.
func NewRunner(workers, queue int, timeout time.Duration, log *zap.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	r := &Runner{
		tasks:   make(chan Task, queue),
		timeout: timeout,
		log:     log,
		done:    make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		r.group.Go(func() error {
			for task := range r.tasks {
				r.run(task)
			}
			return nil
		})
	}
	go func() {
		_ = r.group.Wait()
		close(r.done)
	}()
	return r
}

// Submit queues the task. It blocks only while the queue is full.
func (r *Runner) Submit(task Task) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return ErrClosed
	}
	r.tasks <- task
	return nil
}

func (r *Runner) run(task Task) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	start := time.Now()
	err := func() (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				err = fmt.Errorf("panic: %v", rec)
			}
		}()
		return task.Run(ctx)
	}()
	if err != nil {
		r.log.Error("Background task failed",
			zap.String("task", task.Name),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return
	}
	r.log.Debug("Background task finished",
		zap.String("task", task.Name),
		zap.Duration("elapsed", time.Since(start)))
}

// Shutdown stops accepting tasks and waits for queued ones to finish or for ctx to expire.
func (r *Runner) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.tasks)
	}
	r.mu.Unlock()

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
