// Package worker runs detached background tasks that must outlive the
// request that submitted them.
package worker

import (
	"context"
	"errors"
	"runtime/debug"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ErrPoolClosed is returned by Close when called twice.
var ErrPoolClosed = errors.New("worker pool closed")

// Task is a unit of detached work. ctx is owned by the pool, not by the submitter.
type Task func(ctx context.Context)

// Pool is a fixed set of workers fed by a bounded queue.
type Pool struct {
	name    string
	queue   chan Task
	timeout time.Duration
	logger  zerolog.Logger

	baseCtx context.Context
	cancel  context.CancelFunc
	group   *errgroup.Group

	mu     sync.RWMutex
	closed bool
}

// New starts a pool with the given number of workers. Each task gets its own
// timeout derived from a pool-wide context.
func New(name string, workers, queueSize int, timeout time.Duration, logger zerolog.Logger) *Pool {
	baseCtx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		name:    name,
		queue:   make(chan Task, queueSize),
		timeout: timeout,
		logger:  logger.With().Str("pool", name).Logger(),
		baseCtx: baseCtx,
		cancel:  cancel,
		group:   &errgroup.Group{},
	}
	for i := 0; i < workers; i++ {
		p.group.Go(p.work)
	}
	return p
}

func (p *Pool) work() error {
	for task := range p.queue {
		p.run(task)
	}
	return nil
}

func (p *Pool) run(task Task) {
	ctx, cancel := context.WithTimeout(p.baseCtx, p.timeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("Background task panicked")
		}
	}()
	task(ctx)
}

// Submit enqueues task without blocking. It returns false when the queue is
// full or the pool is shutting down; the task is then dropped.
func (p *Pool) Submit(task Task) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}
	select {
	case p.queue <- task:
		return true
	default:
		return false
	}
}

// Pending returns the number of queued tasks not yet picked up
func (p *Pool) Pending() int {
	return len(p.queue)
}

// Close stops accepting tasks and waits for queued ones to finish. If ctx
// expires first, running tasks are cancelled and ctx's error is returned.
func (p *Pool) Close(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPoolClosed
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		_ = p.group.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		p.logger.Info().Msg("Worker pool drained")
		return nil
	case <-ctx.Done():
		p.cancel()
		<-done
		p.logger.Warn().Err(ctx.Err()).Msg("Worker pool shutdown deadline exceeded, remaining tasks cancelled")
		return ctx.Err()
	}
}
