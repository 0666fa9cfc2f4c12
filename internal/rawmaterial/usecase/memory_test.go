package usecase

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/wa-thone-kyaw/ano-backend/internal/model"
)

type memoryRepo struct {
	materials map[int64]model.RawMaterial
	usages    map[int64]model.RawMaterialUsage
	movements []model.RawMaterialMovement
	nextID    int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		materials: map[int64]model.RawMaterial{},
		usages:    map[int64]model.RawMaterialUsage{},
	}
}

func (r *memoryRepo) Snapshot() func() {
	materials := make(map[int64]model.RawMaterial, len(r.materials))
	for k, v := range r.materials {
		materials[k] = v
	}
	usages := make(map[int64]model.RawMaterialUsage, len(r.usages))
	for k, v := range r.usages {
		usages[k] = v
	}
	movements := append([]model.RawMaterialMovement(nil), r.movements...)
	nextID := r.nextID
	return func() {
		r.materials, r.usages, r.movements, r.nextID = materials, usages, movements, nextID
	}
}

func (r *memoryRepo) id() int64 {
	r.nextID++
	return r.nextID
}

func (r *memoryRepo) Create(_ context.Context, m *model.RawMaterial) error {
	m.ID = r.id()
	r.materials[m.ID] = *m
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, id int64) (*model.RawMaterial, error) {
	m, ok := r.materials[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *memoryRepo) GetForUpdate(ctx context.Context, id int64) (*model.RawMaterial, error) {
	return r.GetByID(ctx, id)
}

func (r *memoryRepo) FindAll(_ context.Context) ([]model.RawMaterial, error) {
	out := []model.RawMaterial{}
	for _, m := range r.materials {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *memoryRepo) Update(_ context.Context, m *model.RawMaterial) error {
	r.materials[m.ID] = *m
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, id int64) error {
	delete(r.materials, id)
	return nil
}

func (r *memoryRepo) HasUsages(_ context.Context, id int64) (bool, error) {
	for _, u := range r.usages {
		if u.RawMaterialID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepo) ApplyDelta(_ context.Context, id int64, delta decimal.Decimal) (decimal.Decimal, bool, error) {
	m, ok := r.materials[id]
	if !ok || m.Quantity.Add(delta).IsNegative() {
		return decimal.Zero, false, nil
	}
	m.Quantity = m.Quantity.Add(delta)
	r.materials[id] = m
	return m.Quantity, true, nil
}

func (r *memoryRepo) LogMovement(_ context.Context, m *model.RawMaterialMovement) error {
	m.ID = r.id()
	r.movements = append(r.movements, *m)
	return nil
}

func (r *memoryRepo) ListMovements(_ context.Context, materialID int64) ([]model.RawMaterialMovement, error) {
	out := []model.RawMaterialMovement{}
	for i := len(r.movements) - 1; i >= 0; i-- {
		if r.movements[i].RawMaterialID == materialID {
			out = append(out, r.movements[i])
		}
	}
	return out, nil
}

func (r *memoryRepo) CreateUsage(_ context.Context, u *model.RawMaterialUsage) error {
	u.ID = r.id()
	r.usages[u.ID] = *u
	return nil
}

func (r *memoryRepo) GetUsageForUpdate(_ context.Context, id int64) (*model.RawMaterialUsage, error) {
	u, ok := r.usages[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *memoryRepo) UpdateUsage(_ context.Context, u *model.RawMaterialUsage) error {
	r.usages[u.ID] = *u
	return nil
}

func (r *memoryRepo) DeleteUsage(_ context.Context, id int64) error {
	delete(r.usages, id)
	return nil
}

func (r *memoryRepo) ListUsages(_ context.Context) ([]model.UsageView, error) {
	out := []model.UsageView{}
	for _, u := range r.usages {
		m := r.materials[u.RawMaterialID]
		out = append(out, model.UsageView{RawMaterialUsage: u, MaterialName: m.MaterialName, Unit: m.Unit})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *memoryRepo) ListUsagesByMaterial(_ context.Context, materialID int64) ([]model.RawMaterialUsage, error) {
	out := []model.RawMaterialUsage{}
	for _, u := range r.usages {
		if u.RawMaterialID == materialID {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}
