// Package notifier delivers transfer notifications off the request path.
package notifier

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/iho/demobank/internal/domain"
	"github.com/iho/demobank/internal/infrastructure/metrics"
)

// Publisher defines the interface for publishing events to external systems.
type Publisher interface {
	Publish(ctx context.Context, event *domain.NotificationEvent) error
}

// Config for Dispatcher.
type Config struct {
	Publisher      Publisher
	Logger         zerolog.Logger
	Metrics        *metrics.Metrics
	QueueSize      int           // Events buffered before new ones are dropped
	Workers        int           // Goroutines publishing in parallel
	PublishTimeout time.Duration // Upper bound for one Publish call
}

// Dispatcher implements usecase.Notifier. Notify never blocks: events are
// queued and published by worker goroutines, and dropped when the queue is full.
type Dispatcher struct {
	publisher Publisher
	logger    zerolog.Logger
	metrics   *metrics.Metrics
	workers   int
	timeout   time.Duration
	now       func() time.Time

	mu     sync.RWMutex
	queue  chan *domain.NotificationEvent
	closed bool
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(cfg Config) *Dispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = 5 * time.Second
	}
	if cfg.Publisher == nil {
		cfg.Publisher = NewLogPublisher(cfg.Logger)
	}

	return &Dispatcher{
		publisher: cfg.Publisher,
		logger:    cfg.Logger.With().Str("component", "notifier").Logger(),
		metrics:   cfg.Metrics,
		workers:   cfg.Workers,
		timeout:   cfg.PublishTimeout,
		now:       func() time.Time { return time.Now().UTC() },
		queue:     make(chan *domain.NotificationEvent, cfg.QueueSize),
	}
}

// Notify queues a notification for ownerID.
func (d *Dispatcher) Notify(_ context.Context, ownerID, title, message string) {
	event := &domain.NotificationEvent{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Title:     title,
		Message:   message,
		Type:      domain.NotificationTypeTransaction,
		CreatedAt: d.now(),
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(event, "dispatcher stopped")
		return
	}

	select {
	case d.queue <- event:
	default:
		d.drop(event, "queue full")
	}
}

// Start runs the workers until ctx is done, then publishes whatever is
// still queued and returns ctx.Err().
func (d *Dispatcher) Start(ctx context.Context) error {
	d.logger.Info().
		Int("workers", d.workers).
		Int("queue_size", cap(d.queue)).
		Msg("notification dispatcher started")

	var wg sync.WaitGroup
	for i := 0; i < d.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for event := range d.queue {
				d.publish(event)
			}
		}()
	}

	<-ctx.Done()

	d.mu.Lock()
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	wg.Wait()
	d.logger.Info().Msg("notification dispatcher stopped")

	return ctx.Err()
}

// publish uses its own deadline; the request that produced the event is long gone.
func (d *Dispatcher) publish(event *domain.NotificationEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := d.publisher.Publish(ctx, event); err != nil {
		if d.metrics != nil {
			d.metrics.NotificationsFailed.Inc()
		}
		d.logger.Error().
			Err(err).
			Str("event_id", event.ID).
			Str("owner_id", event.OwnerID).
			Msg("failed to publish notification")
		return
	}

	if d.metrics != nil {
		d.metrics.NotificationsPublished.Inc()
	}
	d.logger.Debug().
		Str("event_id", event.ID).
		Str("owner_id", event.OwnerID).
		Str("title", event.Title).
		Msg("notification published")
}

func (d *Dispatcher) drop(event *domain.NotificationEvent, reason string) {
	if d.metrics != nil {
		d.metrics.NotificationsDropped.Inc()
	}
	d.logger.Warn().
		Str("event_id", event.ID).
		Str("owner_id", event.OwnerID).
		Str("title", event.Title).
		Str("reason", reason).
		Msg("notification dropped")
}

// LogPublisher is a simple publisher that logs events.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs the event.
func (p *LogPublisher) Publish(_ context.Context, event *domain.NotificationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	p.logger.Info().
		Str("event_id", event.ID).
		Str("owner_id", event.OwnerID).
		RawJSON("payload", payload).
		Msg("NOTIFICATION")

	return nil
}
