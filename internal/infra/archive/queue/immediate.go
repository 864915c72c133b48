package queue

import (
	"context"
	"sync"

	"github.com/yanqian/geoscore/internal/domain/geoscore"
)

// HandlerQueue is a geoscore.JobQueue that delivers to a handler.
type HandlerQueue interface {
	geoscore.JobQueue
	SetHandler(handler Handler)
}

// Handler runs one job.
type Handler func(ctx context.Context, name string, payload map[string]any)

// ImmediateQueue runs each job on its own goroutine as soon as it is
// enqueued. Jobs are lost on process exit.
type ImmediateQueue struct {
	mu       sync.RWMutex
	handler  Handler
	inflight sync.WaitGroup
}

// NewImmediateQueue constructs the queue.
func NewImmediateQueue(handler Handler) *ImmediateQueue {
	return &ImmediateQueue{handler: handler}
}

// SetHandler replaces the handler for subsequent jobs.
func (q *ImmediateQueue) SetHandler(handler Handler) {
	q.mu.Lock()
	q.handler = handler
	q.mu.Unlock()
}

// Enqueue starts the job. It runs on a context detached from the caller's
// cancellation since it outlives the request.
func (q *ImmediateQueue) Enqueue(ctx context.Context, name string, payload any) error {
	q.mu.RLock()
	handler := q.handler
	q.mu.RUnlock()
	if handler == nil {
		return nil
	}
	typed, ok := payload.(map[string]any)
	if !ok {
		typed = map[string]any{}
	}
	q.inflight.Add(1)
	go func() {
		defer q.inflight.Done()
		handler(context.WithoutCancel(ctx), name, typed)
	}()
	return nil
}

// Wait blocks until every started job has returned.
func (q *ImmediateQueue) Wait() {
	q.inflight.Wait()
}

var _ HandlerQueue = (*ImmediateQueue)(nil)
