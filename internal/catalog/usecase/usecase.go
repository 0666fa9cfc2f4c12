package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/wa-thone-kyaw/ano-backend/internal/apperror"
	"github.com/wa-thone-kyaw/ano-backend/internal/catalog"
	"github.com/wa-thone-kyaw/ano-backend/internal/catalog/dto"
	"github.com/wa-thone-kyaw/ano-backend/internal/logger"
)

type catalogUseCase[T any, P catalog.Record[T]] struct {
	repo   catalog.Repository[T]
	table  dto.Table
	logger logger.ZapLogger
}

func NewCatalogUseCase[T any, P catalog.Record[T]](repo catalog.Repository[T], table dto.Table, log logger.ZapLogger) catalog.UseCase[T] {
	return &catalogUseCase[T, P]{
		repo:   repo,
		table:  table,
		logger: log,
	}
}

func (uc *catalogUseCase[T, P]) Label() string { return uc.table.Label }

func (uc *catalogUseCase[T, P]) List(ctx context.Context) ([]T, error) {
	return uc.repo.FindAll(ctx)
}

func (uc *catalogUseCase[T, P]) Get(ctx context.Context, id int64) (*T, error) {
	item, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NotFound(uc.table.Label)
	}
	return item, nil
}

func (uc *catalogUseCase[T, P]) Create(ctx context.Context, entity *T) (*T, error) {
	if err := uc.repo.Create(ctx, entity); err != nil {
		return nil, err
	}
	return entity, nil
}

func (uc *catalogUseCase[T, P]) Update(ctx context.Context, id int64, entity *T) (*T, error) {
	P(entity).SetID(id)
	ok, err := uc.repo.Update(ctx, entity)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NotFound(uc.table.Label)
	}
	return entity, nil
}

func (uc *catalogUseCase[T, P]) Delete(ctx context.Context, id int64) error {
	item, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return apperror.NotFound(uc.table.Label)
	}

	used, err := uc.repo.InUse(ctx, id)
	if err != nil {
		return err
	}
	if used {
		uc.logger.Info("delete refused, row still referenced",
			zap.String("table", uc.table.Name), zap.Int64("id", id))
		return apperror.InUse(uc.table.InUseMsg)
	}
	return uc.repo.Delete(ctx, id)
}
