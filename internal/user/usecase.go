package user

import (
	"context"

	"github.com/wa-thone-kyaw/ano-backend/internal/model"
	"github.com/wa-thone-kyaw/ano-backend/internal/user/dto"
)

type UseCase interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id int64) (*model.User, error)
	CreateUser(ctx context.Context, input *dto.UserInput) (*dto.CreatedUser, error)
	UpdateUser(ctx context.Context, id int64, input *dto.UserInput) (*model.User, error)
	DeleteUser(ctx context.Context, id int64) error
	CountUsers(ctx context.Context) (int, error)
	ResetPassword(ctx context.Context, id int64) (string, error)
	ChangePassword(ctx context.Context, id int64, input *dto.ChangePasswordInput) error

	SignUp(ctx context.Context, input *dto.SignUpInput) (*model.User, error)
	Login(ctx context.Context, input *dto.LoginInput) (*dto.LoginResult, error)
}
