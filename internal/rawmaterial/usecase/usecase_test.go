package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wa-thone-kyaw/ano-backend/internal/apperror"
	"github.com/wa-thone-kyaw/ano-backend/internal/database/dbtest"
	"github.com/wa-thone-kyaw/ano-backend/internal/events"
	"github.com/wa-thone-kyaw/ano-backend/internal/logger"
	"github.com/wa-thone-kyaw/ano-backend/internal/model"
	"github.com/wa-thone-kyaw/ano-backend/internal/rawmaterial/dto"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var day = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

type fixture struct {
	repo *memoryRepo
	tx   *dbtest.TxManager
	uc   *rawMaterialUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := newMemoryRepo()
	tx := dbtest.NewTxManager(repo)
	uc := NewRawMaterialUseCase(repo, tx, events.NewEmitter(nil, logger.NewNop()), logger.NewNop())
	return &fixture{repo: repo, tx: tx, uc: uc.(*rawMaterialUseCase)}
}

func (f *fixture) material(t *testing.T, qty string) *model.RawMaterial {
	t.Helper()
	m, err := f.uc.Create(context.Background(), &dto.RawMaterialInput{MaterialName: "Clay", Quantity: d(qty), Unit: "kg"})
	require.NoError(t, err)
	return m
}

func (f *fixture) quantity(id int64) decimal.Decimal {
	return f.repo.materials[id].Quantity
}

func usage(materialID int64, qty string, at time.Time) *dto.UsageInput {
	return &dto.UsageInput{RawMaterialID: materialID, UsedQuantity: d(qty), UsageDate: at}
}

func TestCreateRecordsInitialMovement(t *testing.T) {
	f := newFixture(t)
	m := f.material(t, "100")

	assert.Equal(t, dto.SourceLocal, m.Source)
	require.Len(t, f.repo.movements, 1)
	assert.Equal(t, model.MovementInitial, f.repo.movements[0].MovementType)
	assert.True(t, d("100").Equal(f.repo.movements[0].QuantityAfter))

	_, err := f.uc.Create(context.Background(), &dto.RawMaterialInput{MaterialName: "Glaze", Quantity: d("-1")})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = f.uc.Create(context.Background(), &dto.RawMaterialInput{MaterialName: "Glaze", Source: "imported"})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestUpdateRecordsAdjustment(t *testing.T) {
	f := newFixture(t)
	m := f.material(t, "100")

	_, err := f.uc.Update(context.Background(), m.ID, &dto.RawMaterialInput{MaterialName: "Clay", Quantity: d("80.5"), Unit: "kg"})
	require.NoError(t, err)

	last := f.repo.movements[len(f.repo.movements)-1]
	assert.Equal(t, model.MovementAdjustment, last.MovementType)
	assert.True(t, d("-19.5").Equal(last.QuantityChange))
	assert.True(t, d("80.5").Equal(f.quantity(m.ID)))
}

func TestRecordUsage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.material(t, "10")

	u, err := f.uc.RecordUsage(ctx, usage(m.ID, "2.5", day))
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.True(t, d("7.5").Equal(f.quantity(m.ID)))

	_, err = f.uc.RecordUsage(ctx, usage(m.ID, "8", day))
	assert.ErrorIs(t, err, apperror.ErrInsufficientQuantity)
	assert.True(t, d("7.5").Equal(f.quantity(m.ID)))
	assert.Len(t, f.repo.usages, 1)

	_, err = f.uc.RecordUsage(ctx, usage(99, "1", day))
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	_, err = f.uc.RecordUsage(ctx, usage(m.ID, "0", day))
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestEditUsageSameMaterial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.material(t, "10")
	u, err := f.uc.RecordUsage(ctx, usage(m.ID, "4", day))
	require.NoError(t, err)

	_, err = f.uc.EditUsage(ctx, u.ID, usage(m.ID, "9", day))
	require.NoError(t, err)
	assert.True(t, d("1").Equal(f.quantity(m.ID)))

	_, err = f.uc.EditUsage(ctx, u.ID, usage(m.ID, "11", day))
	assert.ErrorIs(t, err, apperror.ErrInsufficientQuantity)
	assert.True(t, d("1").Equal(f.quantity(m.ID)))
	assert.True(t, d("9").Equal(f.repo.usages[u.ID].UsedQuantity))
}

func TestEditUsageMovesBetweenMaterials(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	clay := f.material(t, "10")
	sand := f.material(t, "3")
	u, err := f.uc.RecordUsage(ctx, usage(clay.ID, "4", day))
	require.NoError(t, err)

	_, err = f.uc.EditUsage(ctx, u.ID, usage(sand.ID, "5", day))
	assert.ErrorIs(t, err, apperror.ErrInsufficientQuantity)
	assert.True(t, d("6").Equal(f.quantity(clay.ID)))
	assert.True(t, d("3").Equal(f.quantity(sand.ID)))

	_, err = f.uc.EditUsage(ctx, u.ID, usage(sand.ID, "2", day))
	require.NoError(t, err)
	assert.True(t, d("10").Equal(f.quantity(clay.ID)))
	assert.True(t, d("1").Equal(f.quantity(sand.ID)))
}

func TestDeleteUsageRestoresQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.material(t, "10")
	u, err := f.uc.RecordUsage(ctx, usage(m.ID, "4", day))
	require.NoError(t, err)

	require.NoError(t, f.uc.DeleteUsage(ctx, u.ID))
	assert.True(t, d("10").Equal(f.quantity(m.ID)))

	err = f.uc.DeleteUsage(ctx, u.ID)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestDeleteMaterialInUse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.material(t, "10")
	_, err := f.uc.RecordUsage(ctx, usage(m.ID, "1", day))
	require.NoError(t, err)

	err = f.uc.Delete(ctx, m.ID)
	assert.ErrorIs(t, err, apperror.ErrInUse)
	assert.Contains(t, f.repo.materials, m.ID)
}

func TestListUsageDetails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.material(t, "100")

	_, err := f.uc.RecordUsage(ctx, usage(m.ID, "10", day))
	require.NoError(t, err)
	_, err = f.uc.RecordUsage(ctx, usage(m.ID, "5", day.AddDate(0, 0, 1)))
	require.NoError(t, err)
	_, err = f.uc.RecordUsage(ctx, usage(m.ID, "3", day.AddDate(0, 0, 1)))
	require.NoError(t, err)

	details, err := f.uc.ListUsageDetails(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Clay", details.RawMaterialName)
	assert.True(t, d("82").Equal(details.RemainingQuantity))
	assert.True(t, d("18").Equal(details.TotalUsed))
	require.Len(t, details.UsageDetails, 3)

	first, last := details.UsageDetails[0], details.UsageDetails[2]
	assert.True(t, d("3").Equal(first.UsedQuantity))
	assert.True(t, d("18").Equal(first.CumulativeUsed))
	assert.True(t, d("82").Equal(first.RemainingAfter))
	assert.True(t, d("10").Equal(last.CumulativeUsed))
	assert.True(t, d("90").Equal(last.RemainingAfter))

	_, err = f.uc.ListUsageDetails(ctx, 404)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}
