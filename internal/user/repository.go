package user

import (
	"context"
	"time"

	"github.com/wa-thone-kyaw/ano-backend/internal/model"
)

type Repository interface {
	FindAll(ctx context.Context) ([]model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, u *model.User) error
	Update(ctx context.Context, u *model.User) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int, error)
	SetPassword(ctx context.Context, id int64, hash string) (bool, error)
	SetLastLogin(ctx context.Context, id int64, at time.Time) error
}
