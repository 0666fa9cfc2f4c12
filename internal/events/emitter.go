// Package events publishes committed ledger movements and stock alerts.
package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wa-thone-kyaw/ano-backend/internal/logger"
	"github.com/wa-thone-kyaw/ano-backend/internal/metrics"
	"github.com/wa-thone-kyaw/ano-backend/internal/model"
)

const (
	TypeInventoryMovement   = "InventoryMovement"
	TypeRawMaterialMovement = "RawMaterialMovement"
	TypeLowStock            = "LowStock"
	TypeStockReceived       = "StockReceived"
)

// Publisher writes one keyed message. broker.KafkaProducer satisfies it.
type Publisher interface {
	Publish(ctx context.Context, key string, v interface{}) error
}

type Envelope struct {
	EventType string      `json:"event_type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

const (
	queueSize      = 1024
	publishTimeout = 5 * time.Second
)

type outbound struct {
	key      string
	envelope Envelope
}

// Emitter is called after a transaction commits. It counts movements and,
// when a publisher is configured, queues them for a background worker that
// publishes in order. Callers never wait on the publisher. Publish failures
// are logged and never reach the caller.
type Emitter struct {
	pub     Publisher
	logger  logger.ZapLogger
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan outbound
	done   chan struct{}
}

// NewEmitter accepts a nil publisher, in which case only metrics are recorded.
func NewEmitter(pub Publisher, log logger.ZapLogger) *Emitter {
	return newEmitter(pub, log, queueSize, publishTimeout)
}

func newEmitter(pub Publisher, log logger.ZapLogger, size int, timeout time.Duration) *Emitter {
	e := &Emitter{pub: pub, logger: log, timeout: timeout}
	if pub != nil {
		e.queue = make(chan outbound, size)
		e.done = make(chan struct{})
		go e.run()
	}
	return e
}

func (e *Emitter) InventoryMovements(_ context.Context, ms ...model.InventoryMovement) {
	for _, m := range ms {
		metrics.LedgerMovements.WithLabelValues("inventory", string(m.MovementType)).Inc()
		e.enqueue(fmt.Sprintf("product-%d", m.ProductID), TypeInventoryMovement, m)
	}
}

func (e *Emitter) RawMaterialMovements(_ context.Context, ms ...model.RawMaterialMovement) {
	for _, m := range ms {
		metrics.LedgerMovements.WithLabelValues("raw_material", string(m.MovementType)).Inc()
		e.enqueue(fmt.Sprintf("raw-material-%d", m.RawMaterialID), TypeRawMaterialMovement, m)
	}
}

func (e *Emitter) LowStock(_ context.Context, items []model.InventoryItem) {
	for _, it := range items {
		e.enqueue(fmt.Sprintf("product-%d", it.ProductID), TypeLowStock, it)
	}
}

// Close stops accepting events and waits until queued ones are published.
func (e *Emitter) Close() {
	if e == nil || e.queue == nil {
		return
	}
	e.mu.Lock()
	if !e.closed {
		e.closed = true
		close(e.queue)
	}
	e.mu.Unlock()
	<-e.done
}

func (e *Emitter) enqueue(key, eventType string, payload interface{}) {
	if e == nil || e.queue == nil {
		return
	}
	msg := outbound{
		key:      key,
		envelope: Envelope{EventType: eventType, Payload: payload, Timestamp: time.Now()},
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		e.logger.Warn("emitter closed, dropping event", zap.String("event_type", eventType), zap.String("key", key))
		return
	}
	select {
	case e.queue <- msg:
	default:
		metrics.EventsDropped.WithLabelValues(eventType).Inc()
		e.logger.Warn("event queue full, dropping event", zap.String("event_type", eventType), zap.String("key", key))
	}
}

func (e *Emitter) run() {
	defer close(e.done)
	for msg := range e.queue {
		ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
		err := e.pub.Publish(ctx, msg.key, msg.envelope)
		cancel()
		if err != nil {
			e.logger.Warn("failed to publish event",
				zap.String("event_type", msg.envelope.EventType),
				zap.String("key", msg.key),
				zap.Error(err),
			)
		}
	}
}
