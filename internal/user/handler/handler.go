package handler

import (
	"net/http"

	"github.com/wa-thone-kyaw/ano-backend/internal/httpx"
	"github.com/wa-thone-kyaw/ano-backend/internal/logger"
	"github.com/wa-thone-kyaw/ano-backend/internal/model"
	"github.com/wa-thone-kyaw/ano-backend/internal/user"
	"github.com/wa-thone-kyaw/ano-backend/internal/user/dto"
)

type UserHandler struct {
	uc     user.UseCase
	logger logger.ZapLogger
}

func NewUserHandler(uc user.UseCase, log logger.ZapLogger) *UserHandler {
	return &UserHandler{
		uc:     uc,
		logger: log,
	}
}

type createdResponse struct {
	Message  string      `json:"message"`
	ID       int64       `json:"id"`
	Data     *model.User `json:"data"`
	Password string      `json:"password,omitempty"`
}

type updatedResponse struct {
	Message string      `json:"message"`
	Data    *model.User `json:"data"`
}

type countResponse struct {
	TotalUsers int `json:"totalUsers"`
}

type resetResponse struct {
	Message     string `json:"message"`
	NewPassword string `json:"newPassword"`
}

type loginResponse struct {
	*dto.LoginResult
	Message string `json:"message"`
}

// GET /users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.uc.ListUsers(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, r, users)
}

// GET /users/count
func (h *UserHandler) Count(w http.ResponseWriter, r *http.Request) {
	n, err := h.uc.CountUsers(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, r, countResponse{TotalUsers: n})
}

// GET /users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	u, err := h.uc.GetUser(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, r, u)
}

// POST /users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input dto.UserInput
	if err := httpx.Bind(r, &input); err != nil {
		httpx.Error(w, r, err)
		return
	}
	created, err := h.uc.CreateUser(r.Context(), &input)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Created(w, r, createdResponse{
		Message:  "User added successfully",
		ID:       created.User.ID,
		Data:     created.User,
		Password: created.Password,
	})
}

// PUT /users/{id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var input dto.UserInput
	if err := httpx.Bind(r, &input); err != nil {
		httpx.Error(w, r, err)
		return
	}
	u, err := h.uc.UpdateUser(r.Context(), id, &input)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, r, updatedResponse{Message: "User updated successfully", Data: u})
}

// DELETE /users/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if err := h.uc.DeleteUser(r.Context(), id); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Message(w, r, "User deleted successfully")
}

// PUT /users/{id}/reset-password
func (h *UserHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	plain, err := h.uc.ResetPassword(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, r, resetResponse{
		Message:     "Password reset successful. Here is the new password.",
		NewPassword: plain,
	})
}

// PUT /users/{id}/change-password
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var input dto.ChangePasswordInput
	if err := httpx.Bind(r, &input); err != nil {
		httpx.Error(w, r, err)
		return
	}
	if err := h.uc.ChangePassword(r.Context(), id, &input); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Message(w, r, "Password changed successfully")
}

// POST /signup
func (h *UserHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var input dto.SignUpInput
	if err := httpx.Bind(r, &input); err != nil {
		httpx.Error(w, r, err)
		return
	}
	if _, err := h.uc.SignUp(r.Context(), &input); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Created(w, r, httpx.MessageResponse{Message: "User created successfully"})
}

// POST /login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input dto.LoginInput
	if err := httpx.Bind(r, &input); err != nil {
		httpx.Error(w, r, err)
		return
	}
	res, err := h.uc.Login(r.Context(), &input)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, r, loginResponse{LoginResult: res, Message: "Login successful"})
}
