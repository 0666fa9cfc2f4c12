// Package inventorytest provides an in-memory inventory.Repository.
package inventorytest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/wa-thone-kyaw/ano-backend/internal/inventory/dto"
	"github.com/wa-thone-kyaw/ano-backend/internal/model"
)

type key struct{ product, warehouse int64 }

// Repository keeps inventory rows, stock logs and movements in memory. It
// implements dbtest.Snapshotter so a dbtest.TxManager can roll it back.
type Repository struct {
	mu         sync.Mutex
	Products   map[int64]string
	Warehouses map[int64]string
	rows       map[key]*model.Inventory
	logs       map[int64]model.StockLog
	movements  []model.InventoryMovement
	nextID     int64
}

func NewRepository() *Repository {
	return &Repository{
		Products:   map[int64]string{},
		Warehouses: map[int64]string{1: "Main Warehouse"},
		rows:       map[key]*model.Inventory{},
		logs:       map[int64]model.StockLog{},
	}
}

func (r *Repository) Snapshot() func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := make(map[key]*model.Inventory, len(r.rows))
	for k, v := range r.rows {
		c := *v
		rows[k] = &c
	}
	logs := make(map[int64]model.StockLog, len(r.logs))
	for k, v := range r.logs {
		logs[k] = v
	}
	movements := append([]model.InventoryMovement(nil), r.movements...)
	nextID := r.nextID

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.rows, r.logs, r.movements, r.nextID = rows, logs, movements, nextID
	}
}

// Quantity returns the stored quantity, 0 when there is no row.
func (r *Repository) Quantity(productID, warehouseID int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row, ok := r.rows[key{productID, warehouseID}]; ok {
		return row.Quantity
	}
	return 0
}

// SetQuantity seeds a row directly, bypassing the ledger.
func (r *Repository) SetQuantity(productID, warehouseID int64, qty int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.row(productID, warehouseID).Quantity = qty
}

func (r *Repository) Movements() []model.InventoryMovement {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.InventoryMovement(nil), r.movements...)
}

func (r *Repository) row(productID, warehouseID int64) *model.Inventory {
	k := key{productID, warehouseID}
	row, ok := r.rows[k]
	if !ok {
		r.nextID++
		row = &model.Inventory{ID: r.nextID, ProductID: productID, WarehouseID: warehouseID, UpdatedAt: time.Now()}
		r.rows[k] = row
	}
	return row
}

func (r *Repository) FindProductName(_ context.Context, productID int64) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name, ok := r.Products[productID]
	return name, ok, nil
}

func (r *Repository) WarehouseExists(_ context.Context, warehouseID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.Warehouses[warehouseID]
	return ok, nil
}

func (r *Repository) GetByProduct(_ context.Context, productID, warehouseID int64) (*model.Inventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[key{productID, warehouseID}]
	if !ok {
		return nil, nil
	}
	c := *row
	return &c, nil
}

func (r *Repository) SumQuantity(_ context.Context, productID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for k, row := range r.rows {
		if k.product == productID {
			total += row.Quantity
		}
	}
	return total, nil
}

func (r *Repository) FindAll(_ context.Context, filters *dto.InventoryFilters) ([]model.InventoryItem, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := []model.InventoryItem{}
	for _, row := range r.rows {
		if filters.ProductID != nil && row.ProductID != *filters.ProductID {
			continue
		}
		if filters.WarehouseID != nil && row.WarehouseID != *filters.WarehouseID {
			continue
		}
		if filters.LowStock && !(row.ReorderLevel > 0 && row.Quantity <= row.ReorderLevel) {
			continue
		}
		items = append(items, model.InventoryItem{
			Inventory:     *row,
			ProductName:   r.Products[row.ProductID],
			WarehouseName: r.Warehouses[row.WarehouseID],
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	total := len(items)
	if filters.PageSize > 0 {
		page := filters.Page
		if page < 1 {
			page = 1
		}
		start := (page - 1) * filters.PageSize
		if start > total {
			start = total
		}
		end := start + filters.PageSize
		if end > total {
			end = total
		}
		items = items[start:end]
	}
	return items, total, nil
}

func (r *Repository) EnsureRow(_ context.Context, productID, warehouseID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.row(productID, warehouseID)
	return nil
}

func (r *Repository) SetReorderLevel(_ context.Context, productID, warehouseID int64, level int) (*model.Inventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row := r.row(productID, warehouseID)
	row.ReorderLevel = level
	c := *row
	return &c, nil
}

func (r *Repository) ApplyDelta(_ context.Context, productID, warehouseID int64, delta int) (int, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[key{productID, warehouseID}]
	if !ok || row.Quantity+delta < 0 {
		return 0, false, nil
	}
	row.Quantity += delta
	row.UpdatedAt = time.Now()
	return row.Quantity, true, nil
}

func (r *Repository) LogMovement(_ context.Context, m *model.InventoryMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	m.ID = r.nextID
	r.movements = append(r.movements, *m)
	return nil
}

func (r *Repository) ListMovements(_ context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.InventoryMovement{}
	for i := len(r.movements) - 1; i >= 0; i-- {
		m := r.movements[i]
		if filters.ProductID != nil && m.ProductID != *filters.ProductID {
			continue
		}
		if filters.WarehouseID != nil && m.WarehouseID != *filters.WarehouseID {
			continue
		}
		if filters.MovementType != "" && string(m.MovementType) != filters.MovementType {
			continue
		}
		out = append(out, m)
	}
	return out, len(out), nil
}

func (r *Repository) CreateStockLog(_ context.Context, log *model.StockLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	log.ID = r.nextID
	r.logs[log.ID] = *log
	return nil
}

func (r *Repository) GetStockLog(_ context.Context, id int64) (*model.StockLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	log, ok := r.logs[id]
	if !ok {
		return nil, nil
	}
	return &log, nil
}

func (r *Repository) UpdateStockLog(_ context.Context, log *model.StockLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs[log.ID] = *log
	return nil
}

func (r *Repository) DeleteStockLog(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.logs, id)
	return nil
}

func (r *Repository) ListStockLogs(_ context.Context, productID int64) ([]model.StockLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.StockLog{}
	for _, l := range r.logs {
		if l.ProductID == productID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Repository) ListInventoryLogs(_ context.Context) ([]model.StockLogView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.StockLogView{}
	for _, row := range r.rows {
		matched := false
		for _, l := range r.logs {
			if l.ProductID != row.ProductID || l.WarehouseID != row.WarehouseID {
				continue
			}
			l := l
			matched = true
			out = append(out, model.StockLogView{
				ProductID:      row.ProductID,
				ProductName:    r.Products[row.ProductID],
				WarehouseID:    row.WarehouseID,
				RemainingStock: row.Quantity,
				LogID:          &l.ID,
				AddedStock:     &l.AddedStock,
				DateTime:       &l.DateTime,
			})
		}
		if !matched {
			out = append(out, model.StockLogView{
				ProductID:      row.ProductID,
				ProductName:    r.Products[row.ProductID],
				WarehouseID:    row.WarehouseID,
				RemainingStock: row.Quantity,
			})
		}
	}
	return out, nil
}

// StockLogTotal sums the stock logs of one product and warehouse.
func (r *Repository) StockLogTotal(productID, warehouseID int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, l := range r.logs {
		if l.ProductID == productID && l.WarehouseID == warehouseID {
			total += l.AddedStock
		}
	}
	return total
}
