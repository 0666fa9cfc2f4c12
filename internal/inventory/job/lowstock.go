package job

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/wa-thone-kyaw/ano-backend/internal/inventory"
	"github.com/wa-thone-kyaw/ano-backend/internal/logger"
	"github.com/wa-thone-kyaw/ano-backend/internal/metrics"
	"github.com/wa-thone-kyaw/ano-backend/internal/model"
)

const scanPageSize = 100

// Alerter receives the rows found by a scan. events.Emitter satisfies it.
type Alerter interface {
	LowStock(ctx context.Context, items []model.InventoryItem)
}

type LowStockScanner struct {
	uc      inventory.UseCase
	alerts  Alerter
	logger  logger.ZapLogger
	timeout time.Duration
}

func NewLowStockScanner(uc inventory.UseCase, alerts Alerter, log logger.ZapLogger) *LowStockScanner {
	return &LowStockScanner{
		uc:      uc,
		alerts:  alerts,
		logger:  log,
		timeout: 2 * time.Minute,
	}
}

// Scan walks every low-stock row across warehouses and returns how many it found.
func (s *LowStockScanner) Scan(ctx context.Context) (int, error) {
	var found []model.InventoryItem
	for page := 1; ; page++ {
		items, total, err := s.uc.ListLowStock(ctx, nil, page, scanPageSize)
		if err != nil {
			return 0, err
		}
		found = append(found, items...)
		if len(items) == 0 || len(found) >= total {
			break
		}
	}

	metrics.LowStockItems.Set(float64(len(found)))
	if len(found) == 0 {
		return 0, nil
	}

	for _, it := range found {
		s.logger.Warn("low stock",
			zap.Int64("product_id", it.ProductID),
			zap.String("product_name", it.ProductName),
			zap.Int64("warehouse_id", it.WarehouseID),
			zap.Int("quantity", it.Quantity),
			zap.Int("reorder_level", it.ReorderLevel),
		)
	}
	s.alerts.LowStock(ctx, found)
	return len(found), nil
}

func (s *LowStockScanner) run() {
	defer func() {
		if err := recover(); err != nil {
			s.logger.Error("low stock scan panicked", zap.Any("panic", err))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	n, err := s.Scan(ctx)
	if err != nil {
		s.logger.Error("low stock scan failed", zap.Error(err))
		return
	}
	s.logger.Info("low stock scan finished", zap.Int("items", n))
}

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Schedule registers the scan on spec and starts the scheduler. Stop the
// returned cron on shutdown.
func Schedule(s *LowStockScanner, spec string, loc *time.Location) (*cron.Cron, error) {
	if loc == nil {
		loc = time.Local
	}
	sched := cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))
	if _, err := sched.AddFunc(spec, s.run); err != nil {
		return nil, err
	}
	sched.Start()
	return sched, nil
}
