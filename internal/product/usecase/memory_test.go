package usecase

import (
	"context"
	"encoding/json"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/wa-thone-kyaw/ano-backend/internal/apperror"
	invdto "github.com/wa-thone-kyaw/ano-backend/internal/inventory/dto"
	"github.com/wa-thone-kyaw/ano-backend/internal/model"
	"github.com/wa-thone-kyaw/ano-backend/internal/product/dto"
	"github.com/wa-thone-kyaw/ano-backend/internal/search"
)

type memoryRepo struct {
	categories map[int64]bool
	products   map[int64]model.Product
	photos     map[int64][]string
	prices     []model.Price
	ordered    map[int64]bool
	quantity   map[int64]int
	nextID     int64
	findAll    int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		categories: map[int64]bool{1: true},
		products:   map[int64]model.Product{},
		photos:     map[int64][]string{},
		ordered:    map[int64]bool{},
		quantity:   map[int64]int{},
	}
}

func (m *memoryRepo) Snapshot() func() {
	products := make(map[int64]model.Product, len(m.products))
	for k, v := range m.products {
		products[k] = v
	}
	photos := make(map[int64][]string, len(m.photos))
	for k, v := range m.photos {
		photos[k] = append([]string(nil), v...)
	}
	prices := append([]model.Price(nil), m.prices...)
	nextID := m.nextID
	return func() { m.products, m.photos, m.prices, m.nextID = products, photos, prices, nextID }
}

func (m *memoryRepo) CategoryExists(_ context.Context, id int64) (bool, error) {
	return m.categories[id], nil
}

func (m *memoryRepo) Create(_ context.Context, p *model.Product) error {
	m.nextID++
	p.ID = m.nextID
	m.products[p.ID] = *p
	return nil
}

func (m *memoryRepo) detail(p model.Product) model.ProductDetail {
	d := model.ProductDetail{Product: p, Quantity: m.quantity[p.ID]}
	var latest *model.Price
	for i := range m.prices {
		pr := m.prices[i]
		if pr.ProductID != p.ID {
			continue
		}
		if latest == nil || !pr.EffectiveDate.Before(latest.EffectiveDate) {
			latest = &pr
		}
	}
	if latest != nil {
		d.Price = &latest.Price
		d.Currency = &latest.Currency
	}
	return d
}

func (m *memoryRepo) FindByID(_ context.Context, id int64) (*model.ProductDetail, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, nil
	}
	d := m.detail(p)
	return &d, nil
}

func (m *memoryRepo) FindByIDs(_ context.Context, ids []int64) ([]model.ProductDetail, error) {
	out := []model.ProductDetail{}
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out = append(out, m.detail(p))
		}
	}
	return out, nil
}

func (m *memoryRepo) sorted() []model.Product {
	out := make([]model.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (m *memoryRepo) FindAll(_ context.Context, f *dto.ProductFilters) ([]model.ProductDetail, int, error) {
	m.findAll++
	var matched []model.ProductDetail
	for _, p := range m.sorted() {
		if f.Name != "" && !strings.Contains(strings.ToLower(p.ProductName), strings.ToLower(f.Name)) {
			continue
		}
		if f.CategoryID != nil && p.CategoryID != *f.CategoryID {
			continue
		}
		matched = append(matched, m.detail(p))
	}
	start := (f.Page - 1) * f.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return append([]model.ProductDetail{}, matched[start:end]...), len(matched), nil
}

func (m *memoryRepo) ListWithPrices(_ context.Context) ([]dto.PriceRow, error) {
	var rows []dto.PriceRow
	for _, p := range m.sorted() {
		base := dto.PriceRow{ProductID: p.ID, ProductName: p.ProductName, CategoryID: p.CategoryID}
		var own []model.Price
		for _, pr := range m.prices {
			if pr.ProductID == p.ID {
				own = append(own, pr)
			}
		}
		sort.SliceStable(own, func(i, j int) bool { return own[i].EffectiveDate.After(own[j].EffectiveDate) })
		if len(own) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, pr := range own {
			row := base
			id, price, currency, at := pr.ID, pr.Price, pr.Currency, pr.EffectiveDate
			row.PriceID, row.Price, row.Currency, row.EffectiveDate = &id, &price, &currency, &at
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (m *memoryRepo) Update(_ context.Context, p *model.Product) (bool, error) {
	old, ok := m.products[p.ID]
	if !ok {
		return false, nil
	}
	p.CreatedAt = old.CreatedAt
	m.products[p.ID] = *p
	return true, nil
}

func (m *memoryRepo) Delete(_ context.Context, id int64) error {
	delete(m.products, id)
	delete(m.photos, id)
	kept := m.prices[:0]
	for _, pr := range m.prices {
		if pr.ProductID != id {
			kept = append(kept, pr)
		}
	}
	m.prices = kept
	return nil
}

func (m *memoryRepo) HasOrders(_ context.Context, id int64) (bool, error) {
	return m.ordered[id], nil
}

func (m *memoryRepo) ListPhotos(_ context.Context, productID int64) ([]model.Photo, error) {
	out := []model.Photo{}
	for i, name := range m.photos[productID] {
		out = append(out, model.Photo{ID: int64(i + 1), ProductID: productID, Photo: name})
	}
	return out, nil
}

func (m *memoryRepo) PhotosByProduct(_ context.Context, ids []int64) (map[int64][]string, error) {
	out := map[int64][]string{}
	for _, id := range ids {
		if names := m.photos[id]; len(names) > 0 {
			out[id] = append([]string(nil), names...)
		}
	}
	return out, nil
}

func (m *memoryRepo) ReplacePhotos(_ context.Context, productID int64, names []string) error {
	m.photos[productID] = append([]string(nil), names...)
	return nil
}

func (m *memoryRepo) AddPrice(_ context.Context, p *model.Price) error {
	p.ID = int64(len(m.prices) + 1)
	m.prices = append(m.prices, *p)
	return nil
}

func (m *memoryRepo) LatestPrice(ctx context.Context, productID int64) (*model.Price, error) {
	prices, _ := m.ListPrices(ctx, productID)
	if len(prices) == 0 {
		return nil, nil
	}
	return &prices[0], nil
}

func (m *memoryRepo) ListPrices(_ context.Context, productID int64) ([]model.Price, error) {
	out := []model.Price{}
	for _, pr := range m.prices {
		if pr.ProductID == productID {
			out = append(out, pr)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].EffectiveDate.Equal(out[j].EffectiveDate) {
			return out[i].ID > out[j].ID
		}
		return out[i].EffectiveDate.After(out[j].EffectiveDate)
	})
	return out, nil
}

func (m *memoryRepo) ListAllPrices(_ context.Context) ([]model.PriceListing, error) {
	out := []model.PriceListing{}
	for _, pr := range m.prices {
		out = append(out, model.PriceListing{Price: pr, ProductName: m.products[pr.ProductID].ProductName})
	}
	return out, nil
}

type memoryDisk struct {
	mu      sync.Mutex
	files   map[string]string
	failPut bool
}

func newMemoryDisk() *memoryDisk {
	return &memoryDisk{files: map[string]string{}}
}

func (d *memoryDisk) Put(_ context.Context, path string, r io.Reader) error {
	if d.failPut {
		return io.ErrUnexpectedEOF
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.files[path] = string(b)
	return nil
}

func (d *memoryDisk) Delete(_ context.Context, path string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.files, path)
	return nil
}

func (d *memoryDisk) URL(path string) string { return "/uploads/" + path }

func (d *memoryDisk) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.files)
}

type memoryCache struct {
	entries map[string][]byte
	ttl     time.Duration
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (c *memoryCache) GetJSON(_ context.Context, key string, dst interface{}) (bool, error) {
	b, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *memoryCache) SetJSON(_ context.Context, key string, v interface{}, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.entries[key] = b
	c.ttl = ttl
	return nil
}

func (c *memoryCache) DeletePattern(_ context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	return nil
}

type stockStub struct {
	repo  *memoryRepo
	calls []invdto.AddStockInput
	err   error
}

func (s *stockStub) AddStock(_ context.Context, input *invdto.AddStockInput) (*invdto.AddStockResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	if _, ok := s.repo.products[input.ProductID]; !ok {
		return nil, apperror.NotFound("Product")
	}
	s.calls = append(s.calls, *input)
	s.repo.quantity[input.ProductID] += input.Quantity
	return &invdto.AddStockResult{ProductID: input.ProductID, WarehouseID: 1, Quantity: s.repo.quantity[input.ProductID]}, nil
}

type fakeIndex struct {
	docs     map[string]dto.Document
	searched int
	fail     bool
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{docs: map[string]dto.Document{}}
}

func (f *fakeIndex) CreateIndex(context.Context, string, string) error { return nil }

func (f *fakeIndex) Index(_ context.Context, _ string, id string, doc interface{}) error {
	f.docs[id] = doc.(dto.Document)
	return nil
}

func (f *fakeIndex) Delete(_ context.Context, _ string, id string) error {
	delete(f.docs, id)
	return nil
}

// Search returns every indexed document, newest id first.
func (f *fakeIndex) Search(_ context.Context, _ string, _ map[string]interface{}) (*search.SearchResult, error) {
	f.searched++
	if f.fail {
		return nil, io.ErrClosedPipe
	}
	ids := make([]string, 0, len(f.docs))
	for id := range f.docs {
		ids = append(ids, id)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(ids)))

	res := &search.SearchResult{}
	res.Hits.Total.Value = len(ids)
	for _, id := range ids {
		res.Hits.Hits = append(res.Hits.Hits, search.Hit{ID: id})
	}
	return res, nil
}
