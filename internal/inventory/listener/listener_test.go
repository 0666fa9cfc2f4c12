package listener

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wa-thone-kyaw/ano-backend/internal/database/dbtest"
	"github.com/wa-thone-kyaw/ano-backend/internal/events"
	"github.com/wa-thone-kyaw/ano-backend/internal/inventory/inventorytest"
	"github.com/wa-thone-kyaw/ano-backend/internal/inventory/usecase"
	"github.com/wa-thone-kyaw/ano-backend/internal/logger"
)

// queueReader replays queued messages, then cancels the listener.
type queueReader struct {
	msgs   [][]byte
	errs   []error
	cancel context.CancelFunc
}

func (q *queueReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(q.errs) > 0 {
		err := q.errs[0]
		q.errs = q.errs[1:]
		return kafka.Message{}, err
	}
	if len(q.msgs) == 0 {
		q.cancel()
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	m := q.msgs[0]
	q.msgs = q.msgs[1:]
	return kafka.Message{Value: m}, nil
}

func TestReceiptListenerAddsStock(t *testing.T) {
	repo := inventorytest.NewRepository()
	repo.Products[1] = "Bowl"
	repo.Products[2] = "Cup"
	uc := usecase.NewInventoryUseCase(repo, usecase.NewLedger(repo), dbtest.NewTxManager(repo),
		events.NewEmitter(nil, logger.NewNop()), 1, logger.NewNop())

	receipt, err := json.Marshal(StockReceivedEvent{
		EventType: events.TypeStockReceived,
		Payload: StockReceivedPayload{
			ReceiptID: "R-100",
			Items: []ReceiptItemEntry{
				{ProductID: 1, Quantity: 12},
				{ProductID: 2, Quantity: 4},
				{ProductID: 99, Quantity: 1},
			},
		},
		Timestamp: time.Now(),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reader := &queueReader{
		msgs:   [][]byte{[]byte("not json"), []byte(`{"event_type":"Other"}`), receipt},
		errs:   []error{errors.New("broker unavailable")},
		cancel: cancel,
	}
	l := NewReceiptListener(reader, uc, logger.NewNop())
	l.backoff = time.Millisecond

	l.Start(ctx)

	assert.Equal(t, 12, repo.Quantity(1, 1))
	assert.Equal(t, 4, repo.Quantity(2, 1))
	assert.Equal(t, "receipt R-100", repo.Movements()[0].Note)
}
