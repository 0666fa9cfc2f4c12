package usecase

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/wa-thone-kyaw/ano-backend/internal/apperror"
	"github.com/wa-thone-kyaw/ano-backend/internal/database/dbtest"
	"github.com/wa-thone-kyaw/ano-backend/internal/events"
	"github.com/wa-thone-kyaw/ano-backend/internal/inventory"
	"github.com/wa-thone-kyaw/ano-backend/internal/inventory/dto"
	"github.com/wa-thone-kyaw/ano-backend/internal/inventory/inventorytest"
	"github.com/wa-thone-kyaw/ano-backend/internal/logger"
	"github.com/wa-thone-kyaw/ano-backend/internal/model"
)

type fixture struct {
	repo *inventorytest.Repository
	tx   *dbtest.TxManager
	uc   *inventoryUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := inventorytest.NewRepository()
	repo.Products[1] = "Bowl"
	tx := dbtest.NewTxManager(repo)
	uc := NewInventoryUseCase(repo, NewLedger(repo), tx, events.NewEmitter(nil, logger.NewNop()), 1, logger.NewNop())
	return &fixture{repo: repo, tx: tx, uc: uc.(*inventoryUseCase)}
}

func (f *fixture) add(t *testing.T, qty int) *dto.AddStockResult {
	t.Helper()
	res, err := f.uc.AddStock(context.Background(), &dto.AddStockInput{ProductID: 1, Quantity: qty})
	require.NoError(t, err)
	return res
}

func TestAddStock(t *testing.T) {
	f := newFixture(t)

	res := f.add(t, 10)
	assert.Equal(t, 10, res.Quantity)
	assert.Equal(t, int64(1), res.WarehouseID)
	assert.Equal(t, 10, res.Log.AddedStock)

	res = f.add(t, 5)
	assert.Equal(t, 15, res.Quantity)
	assert.Equal(t, 15, f.repo.Quantity(1, 1))

	movements := f.repo.Movements()
	require.Len(t, movements, 2)
	assert.Equal(t, model.MovementStockIn, movements[1].MovementType)
	assert.Equal(t, 10, movements[1].QuantityBefore)
	assert.Equal(t, 15, movements[1].QuantityAfter)
	assert.Equal(t, model.RefStockLog, *movements[1].ReferenceType)
}

func TestAddStockValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.AddStock(ctx, &dto.AddStockInput{ProductID: 1, Quantity: 0})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = f.uc.AddStock(ctx, &dto.AddStockInput{ProductID: 99, Quantity: 3})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	wh := int64(7)
	_, err = f.uc.AddStock(ctx, &dto.AddStockInput{ProductID: 1, WarehouseID: &wh, Quantity: 3})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	assert.Equal(t, 0, f.repo.Quantity(1, 1))
	assert.Empty(t, f.repo.Movements())
}

func TestEditStockLog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.add(t, 10)
	f.add(t, 4)

	log, err := f.uc.EditStockLog(ctx, first.Log.ID, 6)
	require.NoError(t, err)
	assert.Equal(t, 6, log.AddedStock)
	assert.Equal(t, 10, f.repo.Quantity(1, 1))

	last := f.repo.Movements()[2]
	assert.Equal(t, model.MovementStockLogEdit, last.MovementType)
	assert.Equal(t, -4, last.QuantityChange)
}

func TestEditStockLogSameAmountRecordsNoMovement(t *testing.T) {
	f := newFixture(t)
	res := f.add(t, 10)

	_, err := f.uc.EditStockLog(context.Background(), res.Log.ID, 10)
	require.NoError(t, err)
	assert.Len(t, f.repo.Movements(), 1)
	assert.Equal(t, 10, f.repo.Quantity(1, 1))
}

func TestEditStockLogRejectsNegativeStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := f.add(t, 10)
	f.repo.SetQuantity(1, 1, 3) // stock sold elsewhere

	_, err := f.uc.EditStockLog(ctx, res.Log.ID, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrNegativeStock)
	assert.ErrorIs(t, err, inventory.ErrRejected)

	log, err := f.repo.GetStockLog(ctx, res.Log.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, log.AddedStock)
	assert.Equal(t, 3, f.repo.Quantity(1, 1))
	assert.Equal(t, 1, f.tx.Rollbacks)
}

func TestEditStockLogNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.EditStockLog(context.Background(), 42, 5)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestDeleteStockLog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.add(t, 10)
	f.add(t, 5)

	require.NoError(t, f.uc.DeleteStockLog(ctx, a.Log.ID))
	assert.Equal(t, 5, f.repo.Quantity(1, 1))

	log, err := f.repo.GetStockLog(ctx, a.Log.ID)
	require.NoError(t, err)
	assert.Nil(t, log)
}

func TestDeleteStockLogRejectedKeepsLog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.add(t, 10)
	f.repo.SetQuantity(1, 1, 4)

	err := f.uc.DeleteStockLog(ctx, a.Log.ID)
	assert.ErrorIs(t, err, apperror.ErrNegativeStock)

	log, err := f.repo.GetStockLog(ctx, a.Log.ID)
	require.NoError(t, err)
	assert.NotNil(t, log)
	assert.Equal(t, 4, f.repo.Quantity(1, 1))
}

func TestQuantityTracksStockLogs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.add(t, 8)
	b := f.add(t, 3)
	c := f.add(t, 12)
	_, err := f.uc.EditStockLog(ctx, b.Log.ID, 9)
	require.NoError(t, err)
	require.NoError(t, f.uc.DeleteStockLog(ctx, a.Log.ID))
	_, err = f.uc.EditStockLog(ctx, c.Log.ID, 1)
	require.NoError(t, err)

	assert.Equal(t, f.repo.StockLogTotal(1, 1), f.repo.Quantity(1, 1))
	assert.Equal(t, 10, f.repo.Quantity(1, 1))
}

func TestStockDetails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	for i, qty := range []int{10, 5, 2} {
		at := base.Add(time.Duration(i) * time.Hour)
		f.uc.now = func() time.Time { return at }
		f.add(t, qty)
	}

	details, err := f.uc.StockDetails(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Bowl", details.ProductName)
	assert.Equal(t, 17, details.TotalStock)
	assert.Equal(t, 17, details.RemainingStock)
	require.Len(t, details.StockDetails, 3)
	assert.Equal(t, 2, details.StockDetails[0].AddedStock)
	assert.Equal(t, 17, details.StockDetails[0].RemainingStock)
	assert.Equal(t, 10, details.StockDetails[2].RemainingStock)

	_, err = f.uc.StockDetails(ctx, 404)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestLowStockAndReorderLevel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.add(t, 3)

	items, total, err := f.uc.ListLowStock(ctx, nil, 1, 20)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)

	inv, err := f.uc.SetReorderLevel(ctx, &dto.ReorderLevelInput{ProductID: 1, ReorderLevel: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, inv.ReorderLevel)

	items, total, err = f.uc.ListLowStock(ctx, nil, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Bowl", items[0].ProductName)

	_, err = f.uc.SetReorderLevel(ctx, &dto.ReorderLevelInput{ProductID: 1, ReorderLevel: -1})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestGetProductInventoryWithoutRow(t *testing.T) {
	f := newFixture(t)
	inv, err := f.uc.GetProductInventory(context.Background(), 1, nil)
	require.NoError(t, err)
	assert.Zero(t, inv.Quantity)
	assert.Equal(t, int64(1), inv.WarehouseID)
}

func TestExportInventory(t *testing.T) {
	f := newFixture(t)
	f.add(t, 7)

	var buf bytes.Buffer
	require.NoError(t, f.uc.ExportInventory(context.Background(), &buf))

	wb, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	rows, err := wb.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "product_name", rows[0][1])
	assert.Equal(t, "Bowl", rows[1][1])
	assert.Equal(t, "7", rows[1][4])
}

type recordingEmitter struct {
	movements []model.InventoryMovement
}

func (e *recordingEmitter) InventoryMovements(_ context.Context, ms ...model.InventoryMovement) {
	e.movements = append(e.movements, ms...)
}

func TestMovementsEmittedAfterOuterCommit(t *testing.T) {
	f := newFixture(t)
	rec := &recordingEmitter{}
	f.uc.emitter = rec
	ctx := context.Background()

	err := f.tx.WithTx(ctx, func(ctx context.Context) error {
		_, err := f.uc.AddStock(ctx, &dto.AddStockInput{ProductID: 1, Quantity: 4})
		assert.Empty(t, rec.movements, "nothing is emitted while the outer transaction is open")
		return err
	})
	require.NoError(t, err)
	require.Len(t, rec.movements, 1)
	assert.Equal(t, 4, rec.movements[0].QuantityAfter)
}

func TestMovementsDroppedWhenOuterTransactionFails(t *testing.T) {
	f := newFixture(t)
	rec := &recordingEmitter{}
	f.uc.emitter = rec

	err := f.tx.WithTx(context.Background(), func(ctx context.Context) error {
		if _, err := f.uc.AddStock(ctx, &dto.AddStockInput{ProductID: 1, Quantity: 4}); err != nil {
			return err
		}
		return apperror.Validation("photo upload failed")
	})
	require.Error(t, err)
	assert.Empty(t, rec.movements)
	assert.Equal(t, 0, f.repo.Quantity(1, 1))
}

type gatedPublisher struct {
	gate      chan struct{}
	published chan string
}

func (p *gatedPublisher) Publish(ctx context.Context, key string, _ interface{}) error {
	select {
	case <-p.gate:
	case <-ctx.Done():
		return ctx.Err()
	}
	p.published <- key
	return nil
}

func TestAddStockDoesNotWaitOnPublisher(t *testing.T) {
	f := newFixture(t)
	pub := &gatedPublisher{gate: make(chan struct{}), published: make(chan string, 1)}
	emitter := events.NewEmitter(pub, logger.NewNop())
	f.uc.emitter = emitter

	done := make(chan error, 1)
	go func() {
		_, err := f.uc.AddStock(context.Background(), &dto.AddStockInput{ProductID: 1, Quantity: 5})
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("AddStock blocked on the event publisher")
	}
	assert.Equal(t, 5, f.repo.Quantity(1, 1))
	assert.Empty(t, pub.published)

	close(pub.gate)
	emitter.Close()
	assert.Equal(t, "product-1", <-pub.published)
}
