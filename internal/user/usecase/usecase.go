package usecase

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/wa-thone-kyaw/ano-backend/internal/apperror"
	"github.com/wa-thone-kyaw/ano-backend/internal/auth"
	"github.com/wa-thone-kyaw/ano-backend/internal/logger"
	"github.com/wa-thone-kyaw/ano-backend/internal/model"
	"github.com/wa-thone-kyaw/ano-backend/internal/user"
	"github.com/wa-thone-kyaw/ano-backend/internal/user/dto"
)

const (
	defaultRole     = "user"
	lastLoginLayout = "2006-01-02 15:04:05"
)

// TokenIssuer signs session tokens; *auth.TokenManager satisfies it.
type TokenIssuer interface {
	Issue(userID int64, role string) (string, error)
}

type userUseCase struct {
	repo   user.Repository
	tokens TokenIssuer
	loc    *time.Location
	logger logger.ZapLogger
	now    func() time.Time
}

// NewUserUseCase builds the user use case. loc is the zone last_login is
// recorded in.
func NewUserUseCase(repo user.Repository, tokens TokenIssuer, loc *time.Location, log logger.ZapLogger) user.UseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &userUseCase{
		repo:   repo,
		tokens: tokens,
		loc:    loc,
		logger: log,
		now:    time.Now,
	}
}

func (uc *userUseCase) ListUsers(ctx context.Context) ([]model.User, error) {
	return uc.repo.FindAll(ctx)
}

func (uc *userUseCase) GetUser(ctx context.Context, id int64) (*model.User, error) {
	u, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperror.NotFound("User")
	}
	return u, nil
}

func (uc *userUseCase) CreateUser(ctx context.Context, input *dto.UserInput) (*dto.CreatedUser, error) {
	plain := input.Password
	generated := ""
	if plain == "" {
		var err error
		if plain, err = auth.RandomPassword(); err != nil {
			return nil, apperror.Internal(err)
		}
		generated = plain
	}
	hash, err := auth.HashPassword(plain)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	u := &model.User{
		Name:     strings.TrimSpace(input.Name),
		Email:    normalizeEmail(input.Email),
		Password: hash,
		Role:     orDefault(input.Role, defaultRole),
		Status:   orDefault(input.Status, model.UserInactive),
		Promote:  input.Promote,
	}
	if err := uc.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	uc.logger.Info("user created", zap.Int64("user_id", u.ID), zap.String("role", u.Role))
	return &dto.CreatedUser{User: u, Password: generated}, nil
}

func (uc *userUseCase) UpdateUser(ctx context.Context, id int64, input *dto.UserInput) (*model.User, error) {
	existing, err := uc.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		ID:      id,
		Name:    strings.TrimSpace(input.Name),
		Email:   normalizeEmail(input.Email),
		Role:    orDefault(input.Role, existing.Role),
		Status:  orDefault(input.Status, existing.Status),
		Promote: input.Promote,
	}
	ok, err := uc.repo.Update(ctx, u)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NotFound("User")
	}
	return u, nil
}

func (uc *userUseCase) DeleteUser(ctx context.Context, id int64) error {
	ok, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NotFound("User")
	}
	return nil
}

func (uc *userUseCase) CountUsers(ctx context.Context) (int, error) {
	return uc.repo.Count(ctx)
}

// ResetPassword replaces the password with a random one and returns it. The
// plain value is never stored.
func (uc *userUseCase) ResetPassword(ctx context.Context, id int64) (string, error) {
	plain, err := auth.RandomPassword()
	if err != nil {
		return "", apperror.Internal(err)
	}
	hash, err := auth.HashPassword(plain)
	if err != nil {
		return "", apperror.Internal(err)
	}
	ok, err := uc.repo.SetPassword(ctx, id, hash)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", apperror.NotFound("User")
	}

	uc.logger.Info("password reset", zap.Int64("user_id", id))
	return plain, nil
}

func (uc *userUseCase) ChangePassword(ctx context.Context, id int64, input *dto.ChangePasswordInput) error {
	if input.OldPassword == "" || input.NewPassword == "" {
		return apperror.Validation("Both old and new passwords are required")
	}
	u, err := uc.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(u.Password, input.OldPassword) {
		return apperror.Validation("Old password is incorrect")
	}
	hash, err := auth.HashPassword(input.NewPassword)
	if err != nil {
		return apperror.Internal(err)
	}
	if _, err := uc.repo.SetPassword(ctx, id, hash); err != nil {
		return err
	}
	return nil
}

// SignUp registers a self-service account. New accounts stay Inactive until
// an admin activates them.
func (uc *userUseCase) SignUp(ctx context.Context, input *dto.SignUpInput) (*model.User, error) {
	email := normalizeEmail(input.Email)
	existing, err := uc.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.AlreadyExists("User already exists")
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	u := &model.User{
		Name:     strings.TrimSpace(input.Name),
		Email:    email,
		Password: hash,
		Role:     defaultRole,
		Status:   model.UserInactive,
	}
	if err := uc.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	uc.logger.Info("user signed up", zap.Int64("user_id", u.ID))
	return u, nil
}

func (uc *userUseCase) Login(ctx context.Context, input *dto.LoginInput) (*dto.LoginResult, error) {
	u, err := uc.repo.FindByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperror.ErrInvalidCredentials
	}
	if u.Status != model.UserActive {
		return nil, apperror.ErrInactiveAccount
	}
	if !auth.CheckPassword(u.Password, input.Password) {
		uc.logger.Warn("login rejected", zap.Int64("user_id", u.ID))
		return nil, apperror.ErrInvalidCredentials
	}

	at := uc.now().In(uc.loc)
	if err := uc.repo.SetLastLogin(ctx, u.ID, at); err != nil {
		return nil, err
	}

	token, err := uc.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &dto.LoginResult{
		Token: token,
		User: dto.LoginUser{
			Name:      u.Name,
			Email:     u.Email,
			Role:      u.Role,
			LastLogin: at.Format(lastLoginLayout),
		},
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
