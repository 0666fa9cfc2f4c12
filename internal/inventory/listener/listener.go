package listener

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/wa-thone-kyaw/ano-backend/internal/events"
	"github.com/wa-thone-kyaw/ano-backend/internal/inventory"
	"github.com/wa-thone-kyaw/ano-backend/internal/inventory/dto"
	"github.com/wa-thone-kyaw/ano-backend/internal/logger"
)

// MessageReader is the consuming half of broker.KafkaConsumer.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// ReceiptListener applies StockReceived events from the receipts topic as
// stock additions.
type ReceiptListener struct {
	consumer MessageReader
	uc       inventory.UseCase
	logger   logger.ZapLogger
	backoff  time.Duration
}

func NewReceiptListener(consumer MessageReader, uc inventory.UseCase, log logger.ZapLogger) *ReceiptListener {
	return &ReceiptListener{
		consumer: consumer,
		uc:       uc,
		logger:   log,
		backoff:  time.Second,
	}
}

func (l *ReceiptListener) Start(ctx context.Context) {
	l.logger.Info("Starting stock receipt listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping stock receipt listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				select {
				case <-ctx.Done():
					return
				case <-time.After(l.backoff):
				}
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type StockReceivedEvent struct {
	EventType string               `json:"event_type"`
	Payload   StockReceivedPayload `json:"payload"`
	Timestamp time.Time            `json:"timestamp"`
}

type StockReceivedPayload struct {
	ReceiptID   string             `json:"receipt_id"`
	WarehouseID *int64             `json:"warehouse_id"`
	Items       []ReceiptItemEntry `json:"items"`
}

type ReceiptItemEntry struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

func (l *ReceiptListener) processMessage(ctx context.Context, value []byte) {
	var event StockReceivedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != events.TypeStockReceived {
		return
	}

	l.logger.Info("Processing StockReceived event",
		zap.String("receipt_id", event.Payload.ReceiptID),
		zap.Int("items", len(event.Payload.Items)),
	)

	for _, item := range event.Payload.Items {
		input := &dto.AddStockInput{
			ProductID:   item.ProductID,
			WarehouseID: event.Payload.WarehouseID,
			Quantity:    item.Quantity,
			Note:        fmt.Sprintf("receipt %s", event.Payload.ReceiptID),
		}
		if _, err := l.uc.AddStock(ctx, input); err != nil {
			l.logger.Error("Failed to add received stock",
				zap.String("receipt_id", event.Payload.ReceiptID),
				zap.Int64("product_id", item.ProductID),
				zap.Error(err),
			)
		}
	}
}
