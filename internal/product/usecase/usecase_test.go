package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wa-thone-kyaw/ano-backend/internal/apperror"
	"github.com/wa-thone-kyaw/ano-backend/internal/database/dbtest"
	"github.com/wa-thone-kyaw/ano-backend/internal/logger"
	"github.com/wa-thone-kyaw/ano-backend/internal/product/dto"
)

type fixture struct {
	repo  *memoryRepo
	disk  *memoryDisk
	cache *memoryCache
	index *fakeIndex
	stock *stockStub
	tx    *dbtest.TxManager
	uc    *productUseCase
	clock time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:  newMemoryRepo(),
		disk:  newMemoryDisk(),
		cache: newMemoryCache(),
		index: newFakeIndex(),
		clock: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	f.stock = &stockStub{repo: f.repo}
	f.tx = dbtest.NewTxManager(f.repo)
	uc := NewProductUseCase(f.repo, f.tx, f.stock, f.disk, f.cache, 5*time.Minute, f.index, logger.NewNop()).(*productUseCase)
	uc.now = func() time.Time { return f.clock }
	uc.async = func(fn func()) { fn() }
	f.uc = uc
	return f
}

func (f *fixture) tick() {
	f.clock = f.clock.Add(time.Minute)
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func photo(name, body string) dto.PhotoUpload {
	return dto.PhotoUpload{Ext: name, Body: strings.NewReader(body)}
}

func TestCreateProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.uc.CreateProduct(ctx, &dto.ProductInput{
		ProductName: " Rice Bowl ",
		CategoryID:  1,
		Price:       price("2500"),
		Quantity:    12,
	}, []dto.PhotoUpload{photo(".JPG", "a"), photo(".png", "b")})
	require.NoError(t, err)

	assert.Equal(t, "Rice Bowl", p.ProductName)
	assert.True(t, p.IsActive)
	require.NotNil(t, p.Price)
	assert.Equal(t, "2500", p.Price.String())
	assert.Equal(t, "MMK", *p.Currency)
	assert.Equal(t, 12, p.Quantity)
	require.Len(t, p.Photos, 2)
	assert.True(t, strings.HasSuffix(p.Photos[0], ".jpg"))
	assert.Equal(t, "/uploads/"+p.Photos[1], p.PhotoURLs[1])
	assert.Equal(t, 2, f.disk.count())

	require.Len(t, f.stock.calls, 1)
	assert.Nil(t, f.stock.calls[0].WarehouseID)
	assert.Contains(t, f.index.docs, "1")
}

func TestCreateProductInvalidCategoryRemovesPhotos(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.CreateProduct(context.Background(), &dto.ProductInput{
		ProductName: "Cup",
		CategoryID:  9,
	}, []dto.PhotoUpload{photo(".jpg", "a")})
	require.Error(t, err)
	assert.Equal(t, "Invalid category_id", err.Error())
	assert.Zero(t, f.disk.count())
	assert.Empty(t, f.repo.products)
}

func TestCreateProductStockFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	f.stock.err = apperror.NotFound("Warehouse")

	_, err := f.uc.CreateProduct(context.Background(), &dto.ProductInput{
		ProductName: "Cup",
		CategoryID:  1,
		Price:       price("100"),
		Quantity:    5,
	}, nil)
	require.Error(t, err)
	assert.Empty(t, f.repo.products)
	assert.Empty(t, f.repo.prices)
	assert.Equal(t, 1, f.tx.Rollbacks)
}

func TestCreateProductNegativePrice(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.CreateProduct(context.Background(), &dto.ProductInput{
		ProductName: "Cup",
		CategoryID:  1,
		Price:       price("-1"),
	}, nil)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestUpdateProductAppendsPriceOnlyWhenChanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, err := f.uc.CreateProduct(ctx, &dto.ProductInput{ProductName: "Plate", CategoryID: 1, Price: price("1000")}, nil)
	require.NoError(t, err)

	f.tick()
	_, err = f.uc.UpdateProduct(ctx, p.ID, &dto.ProductInput{ProductName: "Plate", CategoryID: 1, Price: price("1000.00")}, nil)
	require.NoError(t, err)
	prices, err := f.uc.ListPrices(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, prices, 1)

	f.tick()
	updated, err := f.uc.UpdateProduct(ctx, p.ID, &dto.ProductInput{ProductName: "Dinner Plate", CategoryID: 1, Price: price("1200")}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Dinner Plate", updated.ProductName)
	assert.Equal(t, "1200", updated.Price.String())

	prices, err = f.uc.ListPrices(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, prices, 2)
	assert.Equal(t, "1200", prices[0].Price.String())
	assert.Equal(t, "1000", prices[1].Price.String())
}

func TestUpdateProductReplacesPhotos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, err := f.uc.CreateProduct(ctx, &dto.ProductInput{ProductName: "Plate", CategoryID: 1},
		[]dto.PhotoUpload{photo(".jpg", "old1"), photo(".jpg", "old2")})
	require.NoError(t, err)
	oldNames := p.Photos

	updated, err := f.uc.UpdateProduct(ctx, p.ID, &dto.ProductInput{ProductName: "Plate", CategoryID: 1},
		[]dto.PhotoUpload{photo(".png", "new")})
	require.NoError(t, err)
	require.Len(t, updated.Photos, 1)
	assert.NotContains(t, oldNames, updated.Photos[0])
	assert.Equal(t, 1, f.disk.count())

	kept, err := f.uc.UpdateProduct(ctx, p.ID, &dto.ProductInput{ProductName: "Plate", CategoryID: 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, updated.Photos, kept.Photos)
}

func TestUpdateMissingProduct(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.UpdateProduct(context.Background(), 42, &dto.ProductInput{ProductName: "X", CategoryID: 1},
		[]dto.PhotoUpload{photo(".jpg", "a")})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	assert.Zero(t, f.disk.count())
}

func TestDeleteProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, err := f.uc.CreateProduct(ctx, &dto.ProductInput{ProductName: "Plate", CategoryID: 1, Price: price("10")},
		[]dto.PhotoUpload{photo(".jpg", "a")})
	require.NoError(t, err)

	require.NoError(t, f.uc.DeleteProduct(ctx, p.ID))
	assert.Zero(t, f.disk.count())
	assert.Empty(t, f.repo.prices)
	assert.NotContains(t, f.index.docs, "1")

	err = f.uc.DeleteProduct(ctx, p.ID)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestDeleteOrderedProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, err := f.uc.CreateProduct(ctx, &dto.ProductInput{ProductName: "Plate", CategoryID: 1},
		[]dto.PhotoUpload{photo(".jpg", "a")})
	require.NoError(t, err)
	f.repo.ordered[p.ID] = true

	err = f.uc.DeleteProduct(ctx, p.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrInUse))
	assert.Equal(t, 1, f.disk.count())
	assert.Contains(t, f.repo.products, p.ID)
}

func TestListProductsCachesAndInvalidates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, name := range []string{"Cup", "Bowl", "Plate"} {
		_, err := f.uc.CreateProduct(ctx, &dto.ProductInput{ProductName: name, CategoryID: 1}, nil)
		require.NoError(t, err)
	}

	filters := &dto.ProductFilters{Page: 1, Limit: 2}
	products, total, err := f.uc.ListProducts(ctx, filters)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, products, 2)
	assert.Equal(t, "Plate", products[0].ProductName)
	assert.Equal(t, 5*time.Minute, f.cache.ttl)

	_, _, err = f.uc.ListProducts(ctx, filters)
	require.NoError(t, err)
	assert.Equal(t, 1, f.repo.findAll)

	_, err = f.uc.CreateProduct(ctx, &dto.ProductInput{ProductName: "Mug", CategoryID: 1}, nil)
	require.NoError(t, err)
	assert.Empty(t, f.cache.entries)

	_, total, err = f.uc.ListProducts(ctx, filters)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Equal(t, 2, f.repo.findAll)
}

func TestListProductsRejectsBadPage(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.uc.ListProducts(context.Background(), &dto.ProductFilters{Page: 0, Limit: 5})
	require.Error(t, err)
	assert.Equal(t, "Page and limit must be greater than 0", err.Error())
}

func TestNameSearchUsesIndex(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, name := range []string{"Cup", "Bowl"} {
		_, err := f.uc.CreateProduct(ctx, &dto.ProductInput{ProductName: name, CategoryID: 1}, nil)
		require.NoError(t, err)
	}

	products, total, err := f.uc.ListProducts(ctx, &dto.ProductFilters{Name: "o", Page: 1, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, 1, f.index.searched)
	assert.Zero(t, f.repo.findAll)
	assert.Equal(t, 2, total)
	require.Len(t, products, 2)
	assert.Equal(t, int64(2), products[0].ID)
}

func TestNameSearchFallsBackToDatabase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, name := range []string{"Cup", "Bowl"} {
		_, err := f.uc.CreateProduct(ctx, &dto.ProductInput{ProductName: name, CategoryID: 1}, nil)
		require.NoError(t, err)
	}
	f.index.fail = true

	products, total, err := f.uc.ListProducts(ctx, &dto.ProductFilters{Name: "bo", Page: 1, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, 1, f.repo.findAll)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Bowl", products[0].ProductName)
}

func TestListAllProductsGroupsPrices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cup, err := f.uc.CreateProduct(ctx, &dto.ProductInput{ProductName: "Cup", CategoryID: 1, Price: price("100")}, nil)
	require.NoError(t, err)
	f.tick()
	_, err = f.uc.AddPrice(ctx, cup.ID, &dto.PriceInput{Price: decimal.NewFromInt(120)})
	require.NoError(t, err)
	_, err = f.uc.CreateProduct(ctx, &dto.ProductInput{ProductName: "Bowl", CategoryID: 1}, nil)
	require.NoError(t, err)

	all, err := f.uc.ListAllProducts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Bowl", all[0].ProductName)
	assert.Empty(t, all[0].PriceHistory)
	assert.Nil(t, all[0].Price)

	require.Len(t, all[1].PriceHistory, 2)
	assert.Equal(t, "120", all[1].Price.String())
	assert.Equal(t, []string{}, all[1].Photos)
}

func TestLatestPrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, err := f.uc.CreateProduct(ctx, &dto.ProductInput{ProductName: "Cup", CategoryID: 1}, nil)
	require.NoError(t, err)

	_, err = f.uc.LatestPrice(ctx, p.ID)
	assert.True(t, errors.Is(err, apperror.ErrPriceNotFound))

	earlier := f.clock.Add(-time.Hour)
	_, err = f.uc.AddPrice(ctx, p.ID, &dto.PriceInput{Price: decimal.NewFromInt(90), EffectiveDate: &earlier})
	require.NoError(t, err)
	_, err = f.uc.AddPrice(ctx, p.ID, &dto.PriceInput{Price: decimal.NewFromInt(80), Currency: "USD"})
	require.NoError(t, err)

	latest, err := f.uc.LatestPrice(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "80", latest.Price.String())
	assert.Equal(t, "USD", latest.Currency)
	assert.Equal(t, f.clock, latest.EffectiveDate)
}

func TestAddPriceUnknownProduct(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.AddPrice(context.Background(), 7, &dto.PriceInput{Price: decimal.NewFromInt(1)})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestStorePhotoFailure(t *testing.T) {
	f := newFixture(t)
	f.disk.failPut = true
	_, err := f.uc.CreateProduct(context.Background(), &dto.ProductInput{ProductName: "Cup", CategoryID: 1},
		[]dto.PhotoUpload{photo(".jpg", "a")})
	require.Error(t, err)
	assert.Empty(t, f.repo.products)
}
