package dispatcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redlightcam/extension/internal/sim"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// HandlerFunc processes one gameplay event and returns a result.
type HandlerFunc func(sim.GameplayEvent) (any, error)

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Option configures handler registration.
type Option func(*config)

type config struct {
	bufferSize int
	blocking   bool
	logged     bool
}

// Buffered makes the handler async with a queue of the given size.
func Buffered(size int) Option {
	return func(c *config) {
		c.bufferSize = size
	}
}

// Blocking makes a buffered handler block when the queue is full instead of dropping.
func Blocking() Option {
	return func(c *config) {
		c.blocking = true
	}
}

// Logged adds debug logging to the handler.
func Logged() Option {
	return func(c *config) {
		c.logged = true
	}
}

// Dispatcher routes host events to registered handlers by event ID.
type Dispatcher struct {
	handlers map[string]HandlerFunc
	logger   Logger

	// OTEL metrics
	queueSize metric.Int64ObservableGauge
	processed metric.Int64Counter
	dropped   metric.Int64Counter

	// Track buffers for gauge callback
	mu      sync.RWMutex
	buffers map[string]chan sim.GameplayEvent
}

// New creates a new Dispatcher with the given logger.
// Uses the global OTel meter for metrics (no-op if not configured).
func New(logger Logger) (*Dispatcher, error) {
	d := &Dispatcher{
		handlers: make(map[string]HandlerFunc),
		buffers:  make(map[string]chan sim.GameplayEvent),
		logger:   logger,
	}

	// Get meter from global OTel provider (returns no-op if not configured)
	m := meter()

	var err error

	d.queueSize, err = m.Int64ObservableGauge(
		"dispatcher.queue.size",
		metric.WithDescription("Current number of events in queue"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating queue size gauge: %w", err)
	}

	_, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			d.mu.RLock()
			defer d.mu.RUnlock()
			for name, buf := range d.buffers {
				o.ObserveInt64(d.queueSize, int64(len(buf)),
					metric.WithAttributes(attribute.String("event", name)))
			}
			return nil
		},
		d.queueSize,
	)
	if err != nil {
		return nil, fmt.Errorf("registering queue callback: %w", err)
	}

	d.processed, err = m.Int64Counter(
		"dispatcher.events.processed",
		metric.WithDescription("Total events processed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating processed counter: %w", err)
	}

	d.dropped, err = m.Int64Counter(
		"dispatcher.events.dropped",
		metric.WithDescription("Total events dropped due to full queue"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dropped counter: %w", err)
	}

	return d, nil
}

// Register adds a handler for the given event ID with optional configuration.
func (d *Dispatcher) Register(eventID string, h HandlerFunc, opts ...Option) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	handler := h

	if cfg.bufferSize > 0 {
		handler = d.withBuffer(eventID, cfg.bufferSize, cfg.blocking, handler)
	}

	if cfg.logged {
		handler = d.withLogging(eventID, handler)
	}

	d.handlers[eventID] = handler
}

// Dispatch routes an event to its registered handler.
func (d *Dispatcher) Dispatch(e sim.GameplayEvent) (any, error) {
	h, ok := d.handlers[e.ID]
	if !ok {
		return nil, fmt.Errorf("unknown event: %s", e.ID)
	}
	return h(e)
}

// HasHandler returns true if a handler is registered for the event ID.
func (d *Dispatcher) HasHandler(eventID string) bool {
	_, ok := d.handlers[eventID]
	return ok
}

func (d *Dispatcher) withBuffer(eventID string, size int, blocking bool, h HandlerFunc) HandlerFunc {
	buffer := make(chan sim.GameplayEvent, size)

	d.mu.Lock()
	d.buffers[eventID] = buffer
	d.mu.Unlock()

	eventAttr := attribute.String("event", eventID)

	go func() {
		for e := range buffer {
			h(e)
			d.processed.Add(context.Background(), 1, metric.WithAttributes(eventAttr))
		}
	}()

	if blocking {
		return func(e sim.GameplayEvent) (any, error) {
			buffer <- e
			return "queued", nil
		}
	}

	return func(e sim.GameplayEvent) (any, error) {
		select {
		case buffer <- e:
			return "queued", nil
		default:
			d.dropped.Add(context.Background(), 1, metric.WithAttributes(eventAttr))
			return nil, fmt.Errorf("queue full: %s", eventID)
		}
	}
}

func (d *Dispatcher) withLogging(eventID string, h HandlerFunc) HandlerFunc {
	return func(e sim.GameplayEvent) (any, error) {
		start := time.Now()
		d.logger.Debug("handling event", "event", eventID, "fields", len(e.Fields))

		result, err := h(e)

		if err != nil {
			d.logger.Error("event failed", "event", eventID, "duration", time.Since(start), "error", err)
		} else {
			d.logger.Debug("event complete", "event", eventID, "duration", time.Since(start))
		}

		return result, err
	}
}
