// Package messaging implements the in-memory event bus BuddyHub commands
// publish domain events through. There is no background queue: handlers
// run synchronously on the publishing goroutine, and a handler error never
// fails the command that produced the event.
package messaging

import (
	"errors"
	"runtime/debug"
	"sync"
	"time"

	"github.com/lora213/buddyhub/internal/domain/shared"
	"github.com/lora213/buddyhub/pkg/logger"
)

// EventHandler processes a single domain event.
type EventHandler func(event shared.Event) error

// ErrEventBusClosed is returned when operations are attempted on a closed bus.
var ErrEventBusClosed = errors.New("event bus is closed")

// ══════════════════════════════════════════════════════════════════════════════
// IN-MEMORY EVENT BUS
// ══════════════════════════════════════════════════════════════════════════════

// InMemoryEventBus implements shared.EventPublisher for single-instance
// deployments. Handlers are registered per event type or globally.
type InMemoryEventBus struct {
	mu          sync.RWMutex
	handlers    map[shared.EventType][]EventHandler
	allHandlers []EventHandler
	logger      *logger.Logger
	metrics     *EventBusMetrics
	closed      bool
}

// NewInMemoryEventBus creates a new in-memory event bus.
func NewInMemoryEventBus(log *logger.Logger) *InMemoryEventBus {
	if log == nil {
		log = logger.Default()
	}

	return &InMemoryEventBus{
		handlers: make(map[shared.EventType][]EventHandler),
		logger:   log,
		metrics:  NewEventBusMetrics(),
	}
}

// Subscribe registers a handler for a specific event type.
func (b *InMemoryEventBus) Subscribe(eventType shared.EventType, handler EventHandler) error {
	if handler == nil {
		return errors.New("handler cannot be nil")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrEventBusClosed
	}

	b.handlers[eventType] = append(b.handlers[eventType], handler)
	return nil
}

// SubscribeAll registers a handler for all events.
func (b *InMemoryEventBus) SubscribeAll(handler EventHandler) error {
	if handler == nil {
		return errors.New("handler cannot be nil")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrEventBusClosed
	}

	b.allHandlers = append(b.allHandlers, handler)
	return nil
}

// Publish sends an event to all subscribed handlers. Handler errors are
// logged, not returned: the write that produced the event already happened.
func (b *InMemoryEventBus) Publish(event shared.Event) error {
	if event == nil {
		return errors.New("event cannot be nil")
	}

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrEventBusClosed
	}

	handlers := make([]EventHandler, 0, len(b.handlers[event.EventType()])+len(b.allHandlers))
	handlers = append(handlers, b.handlers[event.EventType()]...)
	handlers = append(handlers, b.allHandlers...)
	b.mu.RUnlock()

	b.metrics.RecordPublish(event.EventType())

	for _, handler := range handlers {
		b.execute(event, handler)
	}

	return nil
}

func (b *InMemoryEventBus) execute(event shared.Event, handler EventHandler) {
	start := time.Now()
	err := b.safeCall(event, handler)
	b.metrics.RecordHandlerExecution(event.EventType(), time.Since(start), err == nil)

	if err != nil {
		b.logger.Error("event handler failed",
			logger.String("event_type", string(event.EventType())),
			logger.String("aggregate_id", event.AggregateID()),
			logger.Err(err),
		)
	}
}

func (b *InMemoryEventBus) safeCall(event shared.Event, handler EventHandler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panic",
				logger.String("event_type", string(event.EventType())),
				logger.Any("panic", r),
				logger.String("stack", string(debug.Stack())),
			)
			err = errors.New("event handler panicked")
		}
	}()
	return handler(event)
}

// Close stops the bus. Further publishes return ErrEventBusClosed.
func (b *InMemoryEventBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

// Metrics returns the current metrics.
func (b *InMemoryEventBus) Metrics() *EventBusMetrics {
	return b.metrics
}

// ══════════════════════════════════════════════════════════════════════════════
// METRICS
// ══════════════════════════════════════════════════════════════════════════════

// EventBusMetrics tracks event bus counters.
type EventBusMetrics struct {
	mu sync.RWMutex

	publishedTotal map[shared.EventType]int64

	handlerExecutions    int64
	handlerSuccesses     int64
	handlerFailures      int64
	handlerTotalDuration time.Duration
}

// NewEventBusMetrics creates a new metrics tracker.
func NewEventBusMetrics() *EventBusMetrics {
	return &EventBusMetrics{
		publishedTotal: make(map[shared.EventType]int64),
	}
}

// RecordPublish records a published event.
func (m *EventBusMetrics) RecordPublish(eventType shared.EventType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.publishedTotal[eventType]++
}

// RecordHandlerExecution records a handler execution.
func (m *EventBusMetrics) RecordHandlerExecution(eventType shared.EventType, duration time.Duration, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.handlerExecutions++
	m.handlerTotalDuration += duration

	if success {
		m.handlerSuccesses++
	} else {
		m.handlerFailures++
	}
}

// Snapshot returns a point-in-time view of the counters.
func (m *EventBusMetrics) Snapshot() EventBusMetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var totalPublished int64
	for _, v := range m.publishedTotal {
		totalPublished += v
	}

	avgDuration := time.Duration(0)
	successRate := 1.0
	if m.handlerExecutions > 0 {
		avgDuration = m.handlerTotalDuration / time.Duration(m.handlerExecutions)
		successRate = float64(m.handlerSuccesses) / float64(m.handlerExecutions)
	}

	return EventBusMetricsSnapshot{
		TotalPublished:         totalPublished,
		TotalHandlerExecs:      m.handlerExecutions,
		HandlerSuccessRate:     successRate,
		AverageHandlerDuration: avgDuration,
	}
}

// EventBusMetricsSnapshot is a point-in-time snapshot of metrics.
type EventBusMetricsSnapshot struct {
	TotalPublished         int64
	TotalHandlerExecs      int64
	HandlerSuccessRate     float64
	AverageHandlerDuration time.Duration
}
