package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wa-thone-kyaw/ano-backend/internal/apperror"
	"github.com/wa-thone-kyaw/ano-backend/internal/logger"
	"github.com/wa-thone-kyaw/ano-backend/internal/model"
	"github.com/wa-thone-kyaw/ano-backend/internal/user"
	"github.com/wa-thone-kyaw/ano-backend/internal/user/dto"
)

type stubUseCase struct {
	user.UseCase
}

func (stubUseCase) Login(_ context.Context, in *dto.LoginInput) (*dto.LoginResult, error) {
	switch in.Email {
	case "inactive@example.com":
		return nil, apperror.ErrInactiveAccount
	case "aung@example.com":
		return &dto.LoginResult{
			Token: "tok",
			User:  dto.LoginUser{Name: "Ko Aung", Email: in.Email, Role: "user", LastLogin: "2024-03-01 09:30:00"},
		}, nil
	default:
		return nil, apperror.ErrInvalidCredentials
	}
}

func (stubUseCase) SignUp(_ context.Context, in *dto.SignUpInput) (*model.User, error) {
	if in.Email == "taken@example.com" {
		return nil, apperror.AlreadyExists("User already exists")
	}
	return &model.User{ID: 1, Email: in.Email}, nil
}

func (stubUseCase) CountUsers(context.Context) (int, error) {
	return 3, nil
}

func (stubUseCase) ResetPassword(context.Context, int64) (string, error) {
	return "a1b2c3d4", nil
}

func (stubUseCase) CreateUser(_ context.Context, in *dto.UserInput) (*dto.CreatedUser, error) {
	return &dto.CreatedUser{User: &model.User{ID: 9, Name: in.Name, Email: in.Email}, Password: "0badf00d"}, nil
}

func serve(method, path, body string) *httptest.ResponseRecorder {
	h := NewUserHandler(stubUseCase{}, logger.NewNop())
	r := chi.NewRouter()
	r.Post("/login", h.Login)
	r.Post("/signup", h.SignUp)
	r.Post("/users", h.Create)
	r.Get("/users/count", h.Count)
	r.Put("/users/{id}/reset-password", h.ResetPassword)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestLogin(t *testing.T) {
	rec := serve(http.MethodPost, "/login", `{"email":"aung@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "tok", body["token"])
	assert.Equal(t, "Login successful", body["message"])
	assert.Equal(t, "2024-03-01 09:30:00", body["user"].(map[string]interface{})["last_login"])
}

func TestLoginFailures(t *testing.T) {
	rec := serve(http.MethodPost, "/login", `{"email":"nobody@example.com","password":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials")

	rec = serve(http.MethodPost, "/login", `{"email":"inactive@example.com","password":"x"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Account is inactive")

	rec = serve(http.MethodPost, "/login", `{"email":"aung@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSignUp(t *testing.T) {
	rec := serve(http.MethodPost, "/signup", `{"name":"Ko Aung","email":"aung@example.com","password":"secret1"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "User created successfully")

	rec = serve(http.MethodPost, "/signup", `{"name":"Ko Aung","email":"taken@example.com","password":"secret1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "User already exists")
}

func TestUserAdminRoutes(t *testing.T) {
	rec := serve(http.MethodGet, "/users/count", "")
	assert.JSONEq(t, `{"totalUsers":3}`, rec.Body.String())

	rec = serve(http.MethodPut, "/users/4/reset-password", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Password reset successful. Here is the new password.","newPassword":"a1b2c3d4"}`, rec.Body.String())

	rec = serve(http.MethodPost, "/users", `{"name":"Ma Su","email":"su@example.com"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"password":"0badf00d"`)
	assert.Contains(t, rec.Body.String(), `"message":"User added successfully"`)
}
