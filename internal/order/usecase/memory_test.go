package usecase

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/wa-thone-kyaw/ano-backend/internal/model"
	"github.com/wa-thone-kyaw/ano-backend/internal/order/dto"
)

type memoryRepo struct {
	customers map[int64]bool
	products  map[int64]bool
	prices    map[int64]decimal.Decimal
	orders    map[int64]model.Order
	nextID    int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		customers: map[int64]bool{},
		products:  map[int64]bool{},
		prices:    map[int64]decimal.Decimal{},
		orders:    map[int64]model.Order{},
	}
}

func (m *memoryRepo) Snapshot() func() {
	orders := make(map[int64]model.Order, len(m.orders))
	for k, v := range m.orders {
		orders[k] = v
	}
	nextID := m.nextID
	return func() { m.orders, m.nextID = orders, nextID }
}

func (m *memoryRepo) CustomerExists(_ context.Context, id int64) (bool, error) {
	return m.customers[id], nil
}

func (m *memoryRepo) ProductExists(_ context.Context, id int64) (bool, error) {
	return m.products[id], nil
}

func (m *memoryRepo) LatestUnitPrice(_ context.Context, productID int64) (decimal.Decimal, bool, error) {
	p, ok := m.prices[productID]
	return p, ok, nil
}

func (m *memoryRepo) ExistsForPair(_ context.Context, customerID, productID, excludeID int64) (bool, error) {
	for _, o := range m.orders {
		if o.ID != excludeID && o.CustomerID == customerID && o.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryRepo) Create(_ context.Context, o *model.Order) error {
	m.nextID++
	o.ID = m.nextID
	m.orders[o.ID] = *o
	return nil
}

func (m *memoryRepo) GetForUpdate(_ context.Context, id int64) (*model.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (m *memoryRepo) Update(_ context.Context, o *model.Order) error {
	m.orders[o.ID] = *o
	return nil
}

func (m *memoryRepo) UpdateStatus(_ context.Context, id int64, status model.OrderStatus) (bool, error) {
	o, ok := m.orders[id]
	if !ok {
		return false, nil
	}
	o.Status = status
	m.orders[id] = o
	return true, nil
}

func (m *memoryRepo) Delete(_ context.Context, id int64) error {
	delete(m.orders, id)
	return nil
}

func (m *memoryRepo) FindByID(_ context.Context, id int64) (*model.OrderDetail, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	return &model.OrderDetail{Order: o}, nil
}

func (m *memoryRepo) FindAll(_ context.Context, _ *dto.OrderFilters) ([]model.OrderDetail, int, error) {
	out := []model.OrderDetail{}
	for _, o := range m.orders {
		out = append(out, model.OrderDetail{Order: o})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}
