package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wa-thone-kyaw/ano-backend/internal/apperror"
	"github.com/wa-thone-kyaw/ano-backend/internal/catalog/dto"
	"github.com/wa-thone-kyaw/ano-backend/internal/logger"
	"github.com/wa-thone-kyaw/ano-backend/internal/model"
)

type memoryRepo struct {
	mu     sync.Mutex
	rows   map[int64]model.Warehouse
	nextID int64
	used   map[int64]bool
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: map[int64]model.Warehouse{}, used: map[int64]bool{}}
}

func (m *memoryRepo) FindAll(ctx context.Context) ([]model.Warehouse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Warehouse, 0, len(m.rows))
	for _, w := range m.rows {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memoryRepo) FindByID(ctx context.Context, id int64) (*model.Warehouse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (m *memoryRepo) Create(ctx context.Context, w *model.Warehouse) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	w.ID = m.nextID
	m.rows[w.ID] = *w
	return nil
}

func (m *memoryRepo) Update(ctx context.Context, w *model.Warehouse) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[w.ID]; !ok {
		return false, nil
	}
	m.rows[w.ID] = *w
	return true, nil
}

func (m *memoryRepo) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

func (m *memoryRepo) InUse(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.used[id], nil
}

func newWarehouses() (*memoryRepo, *catalogUseCase[model.Warehouse, *model.Warehouse]) {
	repo := newMemoryRepo()
	uc := NewCatalogUseCase[model.Warehouse, *model.Warehouse](repo, dto.Warehouses, logger.NewNop())
	return repo, uc.(*catalogUseCase[model.Warehouse, *model.Warehouse])
}

func TestCreateAndList(t *testing.T) {
	_, uc := newWarehouses()
	ctx := context.Background()

	_, err := uc.Create(ctx, &model.Warehouse{WarehouseName: "Main"})
	require.NoError(t, err)
	second, err := uc.Create(ctx, &model.Warehouse{WarehouseName: "Yard"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Yard", list[0].WarehouseName)
}

func TestUpdateUsesPathID(t *testing.T) {
	_, uc := newWarehouses()
	ctx := context.Background()
	_, err := uc.Create(ctx, &model.Warehouse{WarehouseName: "Main"})
	require.NoError(t, err)

	loc := "Yangon"
	updated, err := uc.Update(ctx, 1, &model.Warehouse{ID: 99, WarehouseName: "Central", WarehouseLocation: &loc})
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.ID)

	got, err := uc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Central", got.WarehouseName)
	assert.Equal(t, "Yangon", *got.WarehouseLocation)
}

func TestUpdateMissing(t *testing.T) {
	_, uc := newWarehouses()
	_, err := uc.Update(context.Background(), 5, &model.Warehouse{WarehouseName: "X"})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestDeleteInUse(t *testing.T) {
	repo, uc := newWarehouses()
	ctx := context.Background()
	_, err := uc.Create(ctx, &model.Warehouse{WarehouseName: "Main"})
	require.NoError(t, err)
	repo.used[1] = true

	err = uc.Delete(ctx, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrInUse))
	assert.Equal(t, "Warehouse cannot be deleted; it is in use by one or more inventory items.", err.Error())

	_, err = uc.Get(ctx, 1)
	assert.NoError(t, err)
}

func TestDelete(t *testing.T) {
	_, uc := newWarehouses()
	ctx := context.Background()
	_, err := uc.Create(ctx, &model.Warehouse{WarehouseName: "Main"})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, 1))
	_, err = uc.Get(ctx, 1)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	err = uc.Delete(ctx, 1)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}
