// Package worker applies queued wear events to the wardrobe store.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/fitcheck/internal/adapters/mq/queue"
	"github.com/okian/fitcheck/internal/domain/model"
	"github.com/okian/fitcheck/pkg/logger"
	"github.com/okian/fitcheck/pkg/metrics"
)

const poolShutdownTimeout = 30 * time.Second

// Event is what workers read off the queue.
type Event = queue.Event

// Applier persists a wear event.
type Applier interface {
	ApplyWear(ctx context.Context, ev model.WearEvent) (model.HistoryEntry, error)
}

// Queue defines how workers receive events.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Event
}

// ResultHook observes the outcome of each applied event.
type ResultHook func(ctx context.Context, ev Event, entry model.HistoryEntry, err error)

// Worker processes events from a queue.
type Worker interface {
	// Run consumes events until the queue closes or ctx is canceled.
	Run(ctx context.Context)
	// Shutdown stops the worker after the event in flight.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue   Queue
	applier Applier
	name    string
	hook    ResultHook

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a worker.
func NewInMemoryWorker(q Queue, applier Applier, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		applier:  applier,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.With(logger.String("worker", w.name))
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	events := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if acker, ok := w.queue.(interface{ Ack() }); ok {
				acker.Ack()
			}
			_ = w.processEvent(ctx, ev)
		}
	}
}

// Shutdown signals the worker and waits for it to exit.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed when Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} { return w.done }

func (w *InMemoryWorker) processEvent(ctx context.Context, ev Event) error { //nolint:gocritic // hugeParam: Event is received by value
	start := time.Now()
	metrics.UpdateWorkerActiveCount(int(activeWorkers.Add(1)))
	defer func() {
		metrics.UpdateWorkerActiveCount(int(activeWorkers.Add(-1)))
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	entry, err := w.applier.ApplyWear(ctx, ev)
	if w.hook != nil {
		w.hook(ctx, ev, entry, err)
	}
	if err != nil {
		metrics.RecordWearFailed()
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "apply_wear")
		w.logger.Error(ctx, "wear event failed",
			logger.String("event_id", ev.EventID),
			logger.String("top_id", ev.TopID),
			logger.String("bottom_id", ev.BottomID),
			logger.Error(err),
		)
		return fmt.Errorf("apply wear %s: %w", ev.EventID, err)
	}
	metrics.RecordWearApplied()
	w.logger.Debug(ctx, "wear applied",
		logger.String("event_id", ev.EventID),
		logger.String("entry_id", entry.ID),
	)
	return nil
}

var activeWorkers atomic.Int64

// Pool manages multiple workers sharing one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	logger  logger.Logger
}

// NewPool creates a pool. A count below 1 means a single writer.
func NewPool(workerCount int, q Queue, applier Applier, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := range p.workers {
		wopts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		p.workers[i] = NewInMemoryWorker(q, applier, wopts...)
	}
	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Shutdown closes the queue and waits for the workers to drain it.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var timedOut bool
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			timedOut = true
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			w.shutdownOnce.Do(func() { close(w.shutdown) })
		}
	}
	if timedOut {
		return fmt.Errorf("worker pool shutdown: %w", shutdownCtx.Err())
	}
	return nil
}
