package queue

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

var (
	ErrQueueClosed = errors.New("queue is closed")
	ErrQueueFull   = errors.New("queue is full")
)

// Task is one queued unit of work. Payload encoding is owned by the module
// that enqueues it.
type Task struct {
	ID         string
	Payload    []byte
	EnqueuedAt time.Time
}

// Queue is a bounded in-process task queue with at-least-once consumption.
// Current implementation is channel-backed while runtime wiring is finalized
// for an external broker; Enqueue fails loudly instead of blocking or
// silently dropping when the buffer is exhausted.
type Queue struct {
	mu     sync.Mutex
	tasks  chan Task
	closed bool
	logger *slog.Logger
}

func New(capacity int, logger *slog.Logger) *Queue {
	if capacity <= 0 {
		capacity = 1024
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{
		tasks:  make(chan Task, capacity),
		logger: logger,
	}
}

func (q *Queue) Enqueue(ctx context.Context, task Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// The send happens under the same lock Close takes before closing the
	// channel, so a send on a closed channel cannot happen.
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.tasks <- task:
		return nil
	default:
		q.logger.Error("queue rejected task",
			"event", "queue_enqueue_rejected",
			"module", "internal/platform/queue",
			"layer", "platform",
			"task_id", task.ID,
			"depth", len(q.tasks),
		)
		return ErrQueueFull
	}
}

// Receive blocks until a task is available, the queue is drained and closed,
// or ctx is cancelled.
func (q *Queue) Receive(ctx context.Context) (Task, error) {
	select {
	case <-ctx.Done():
		return Task{}, ctx.Err()
	case task, ok := <-q.tasks:
		if !ok {
			return Task{}, ErrQueueClosed
		}
		return task, nil
	}
}

func (q *Queue) Depth() int {
	return len(q.tasks)
}

func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.tasks)
}

// RetryPolicy is the explicit retry configuration applied to every consumed
// task: bounded attempts, a backoff schedule between them, and a hard
// per-attempt timeout.
type RetryPolicy struct {
	MaxAttempts    int
	Backoff        []time.Duration
	AttemptTimeout time.Duration
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 3
	}
	if len(p.Backoff) == 0 {
		p.Backoff = []time.Duration{5 * time.Second, 10 * time.Second, 30 * time.Second}
	}
	if p.AttemptTimeout <= 0 {
		p.AttemptTimeout = 90 * time.Second
	}
	return p
}

func (p RetryPolicy) backoffFor(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > len(p.Backoff) {
		return p.Backoff[len(p.Backoff)-1]
	}
	return p.Backoff[attempt-1]
}

// Handler processes one task. A nil return acknowledges the task; an error
// triggers the consumer's retry policy.
type Handler func(ctx context.Context, task Task) error

// Consumer drains a Queue with retry semantics. Multiple consumers may run
// against the same queue concurrently; handlers must tolerate that.
type Consumer struct {
	Queue  *Queue
	Policy RetryPolicy
	Handle Handler
	// OnPermanentFailure fires after the last attempt fails; the task is
	// dropped afterwards.
	OnPermanentFailure func(ctx context.Context, task Task, err error)
	Logger             *slog.Logger
}

// Run consumes tasks until ctx is cancelled or the queue is closed and
// drained.
func (c Consumer) Run(ctx context.Context) error {
	logger := c.resolveLogger()
	logger.Info("queue consumer started",
		"event", "queue_consumer_started",
		"module", "internal/platform/queue",
		"layer", "platform",
	)
	for {
		task, err := c.Queue.Receive(ctx)
		if err != nil {
			if errors.Is(err, ErrQueueClosed) || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		c.Process(ctx, task)
	}
}

// Process runs one task through the retry policy. Exposed so tests and
// synchronous drains can process without a long-lived Run loop.
func (c Consumer) Process(ctx context.Context, task Task) {
	logger := c.resolveLogger()
	policy := c.Policy.normalized()

	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, policy.AttemptTimeout)
		lastErr = c.Handle(attemptCtx, task)
		cancel()
		if lastErr == nil {
			return
		}
		logger.Warn("task attempt failed",
			"event", "queue_task_attempt_failed",
			"module", "internal/platform/queue",
			"layer", "platform",
			"task_id", task.ID,
			"attempt", attempt,
			"max_attempts", policy.MaxAttempts,
			"error", lastErr.Error(),
		)
		if attempt == policy.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			lastErr = ctx.Err()
		case <-time.After(policy.backoffFor(attempt)):
		}
		if ctx.Err() != nil {
			break
		}
	}

	logger.Error("task failed permanently",
		"event", "queue_task_failed_permanently",
		"module", "internal/platform/queue",
		"layer", "platform",
		"task_id", task.ID,
		"error", lastErr.Error(),
	)
	if c.OnPermanentFailure != nil {
		c.OnPermanentFailure(ctx, task, lastErr)
	}
}

func (c Consumer) resolveLogger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}
