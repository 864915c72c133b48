package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"
)

const (
	defaultQueueKey = "geoscore:jobs"
	popTimeout      = 5 * time.Second
	popErrorBackoff = time.Second
)

// job is the wire form of a queued job.
type job struct {
	Name       string         `json:"name"`
	Payload    map[string]any `json:"payload"`
	EnqueuedAt time.Time      `json:"enqueuedAt"`
}

// ValkeyQueue keeps jobs in a Valkey list so they survive restarts and can
// be drained by any replica. Producers LPUSH, the worker BRPOPs.
type ValkeyQueue struct {
	client valkey.Client
	key    string
	logger *slog.Logger

	mu      sync.Mutex
	handler Handler
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewValkeyQueue constructs a Valkey-backed queue. No worker runs until
// SetHandler is called.
func NewValkeyQueue(client valkey.Client, key string, logger *slog.Logger) *ValkeyQueue {
	if key == "" {
		key = defaultQueueKey
	}
	return &ValkeyQueue{
		client: client,
		key:    key,
		logger: logger.With("component", "archive.queue.valkey", "queue", key),
	}
}

// SetHandler installs handler and starts the worker. Calling it again
// replaces the handler and restarts the worker. Like Close, it must not be
// called from inside a handler.
func (q *ValkeyQueue) SetHandler(handler Handler) {
	q.Close()

	q.mu.Lock()
	defer q.mu.Unlock()
	q.handler = handler
	if handler == nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	q.cancel = cancel
	q.done = make(chan struct{})
	go q.work(ctx, handler, q.done)
}

// Close stops the worker and waits for the in-flight job to finish.
// Calling it from inside a handler deadlocks, since the worker would wait
// on itself.
func (q *ValkeyQueue) Close() {
	q.mu.Lock()
	cancel, done := q.cancel, q.done
	q.cancel, q.done = nil, nil
	q.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Enqueue pushes a job onto the list.
func (q *ValkeyQueue) Enqueue(ctx context.Context, name string, payload any) error {
	encoded, err := encodeJob(name, payload, time.Now().UTC())
	if err != nil {
		return err
	}
	return q.client.Do(ctx, q.client.B().Lpush().Key(q.key).Element(encoded).Build()).Error()
}

func encodeJob(name string, payload any, at time.Time) (string, error) {
	typed, _ := payload.(map[string]any)
	encoded, err := json.Marshal(job{Name: name, Payload: typed, EnqueuedAt: at})
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func (q *ValkeyQueue) work(ctx context.Context, handler Handler, done chan struct{}) {
	defer close(done)
	for ctx.Err() == nil {
		j, ok := q.pop(ctx)
		if !ok {
			continue
		}
		if !j.EnqueuedAt.IsZero() {
			q.logger.Debug("job dequeued", "job", j.Name, "lag_ms", time.Since(j.EnqueuedAt).Milliseconds())
		}
		handler(context.WithoutCancel(ctx), j.Name, j.Payload)
	}
}

func (q *ValkeyQueue) pop(ctx context.Context) (job, bool) {
	cmd := q.client.B().Brpop().Key(q.key).Timeout(popTimeout.Seconds()).Build()
	reply, err := q.client.Do(ctx, cmd).AsStrSlice()
	switch {
	case err == nil:
	case valkey.IsValkeyNil(err), errors.Is(err, context.Canceled):
		return job{}, false
	default:
		q.logger.Warn("queue pop failed", "error", err)
		select {
		case <-ctx.Done():
		case <-time.After(popErrorBackoff):
		}
		return job{}, false
	}
	j, err := decodeJob(reply)
	if err != nil {
		q.logger.Warn("queue element is not a job", "error", err)
		return job{}, false
	}
	return j, true
}

// decodeJob reads a BRPOP reply, which is [list, element].
func decodeJob(reply []string) (job, error) {
	if len(reply) < 2 {
		return job{}, fmt.Errorf("brpop reply has %d elements", len(reply))
	}
	var j job
	if err := json.Unmarshal([]byte(reply[1]), &j); err != nil {
		return job{}, err
	}
	return j, nil
}

var _ HandlerQueue = (*ValkeyQueue)(nil)
