package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wa-thone-kyaw/ano-backend/internal/logger"
	"github.com/wa-thone-kyaw/ano-backend/internal/model"
)

type recordingPublisher struct {
	mu     sync.Mutex
	keys   []string
	events []Envelope
	ctxErr []error
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, key string, v interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	p.events = append(p.events, v.(Envelope))
	p.ctxErr = append(p.ctxErr, ctx.Err())
	return p.err
}

func TestEmitterPublishesMovementsInOrder(t *testing.T) {
	pub := &recordingPublisher{}
	e := NewEmitter(pub, logger.NewNop())

	e.InventoryMovements(context.Background(),
		model.InventoryMovement{ProductID: 3, MovementType: model.MovementStockIn, QuantityChange: 10},
		model.InventoryMovement{ProductID: 3, MovementType: model.MovementOrderPlaced, QuantityChange: -6},
	)
	e.Close()

	require.Len(t, pub.events, 2)
	assert.Equal(t, []string{"product-3", "product-3"}, pub.keys)
	assert.Equal(t, TypeInventoryMovement, pub.events[0].EventType)
	assert.Equal(t, 10, pub.events[0].Payload.(model.InventoryMovement).QuantityChange)
	assert.Equal(t, -6, pub.events[1].Payload.(model.InventoryMovement).QuantityChange)
}

func TestEmitterOutlivesCallerContext(t *testing.T) {
	pub := &recordingPublisher{}
	e := NewEmitter(pub, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e.RawMaterialMovements(ctx, model.RawMaterialMovement{RawMaterialID: 2})
	e.Close()

	require.Len(t, pub.events, 1)
	assert.Equal(t, "raw-material-2", pub.keys[0])
	assert.NoError(t, pub.ctxErr[0])
}

func TestEmitterSwallowsPublishErrors(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	e := NewEmitter(pub, logger.NewNop())

	assert.NotPanics(t, func() {
		e.RawMaterialMovements(context.Background(), model.RawMaterialMovement{RawMaterialID: 1})
	})
	e.Close()
	assert.Len(t, pub.events, 1)
}

type stuckPublisher struct {
	started chan struct{}
	once    sync.Once
	err     chan error
}

func (p *stuckPublisher) Publish(ctx context.Context, _ string, _ interface{}) error {
	p.once.Do(func() { close(p.started) })
	<-ctx.Done()
	p.err <- ctx.Err()
	return ctx.Err()
}

func TestEmitterDoesNotBlockOnStuckPublisher(t *testing.T) {
	pub := &stuckPublisher{started: make(chan struct{}), err: make(chan error, 1)}
	e := newEmitter(pub, logger.NewNop(), 4, 100*time.Millisecond)

	start := time.Now()
	e.InventoryMovements(context.Background(), model.InventoryMovement{ProductID: 1})
	assert.Less(t, time.Since(start), 50*time.Millisecond)

	<-pub.started
	e.Close()
	assert.ErrorIs(t, <-pub.err, context.DeadlineExceeded)
}

type gatedPublisher struct {
	started chan struct{}
	once    sync.Once
	gate    chan struct{}
	mu      sync.Mutex
	keys    []string
}

func (p *gatedPublisher) Publish(_ context.Context, key string, _ interface{}) error {
	p.once.Do(func() { close(p.started) })
	<-p.gate
	p.mu.Lock()
	p.keys = append(p.keys, key)
	p.mu.Unlock()
	return nil
}

func TestEmitterDropsWhenQueueFull(t *testing.T) {
	pub := &gatedPublisher{started: make(chan struct{}), gate: make(chan struct{})}
	e := newEmitter(pub, logger.NewNop(), 1, time.Second)
	ctx := context.Background()

	e.InventoryMovements(ctx, model.InventoryMovement{ProductID: 1})
	<-pub.started
	e.InventoryMovements(ctx, model.InventoryMovement{ProductID: 2})
	e.InventoryMovements(ctx, model.InventoryMovement{ProductID: 3})

	close(pub.gate)
	e.Close()
	assert.Equal(t, []string{"product-1", "product-2"}, pub.keys)
}

func TestEmitterAfterClose(t *testing.T) {
	pub := &recordingPublisher{}
	e := NewEmitter(pub, logger.NewNop())
	e.Close()

	assert.NotPanics(t, func() {
		e.LowStock(context.Background(), []model.InventoryItem{{}})
		e.Close()
	})
	assert.Empty(t, pub.events)
}

func TestEmitterWithoutPublisher(t *testing.T) {
	e := NewEmitter(nil, logger.NewNop())
	assert.NotPanics(t, func() {
		e.LowStock(context.Background(), []model.InventoryItem{{}})
		e.Close()
	})
}
