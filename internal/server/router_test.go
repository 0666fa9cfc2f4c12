package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wa-thone-kyaw/ano-backend/internal/auth"
	"github.com/wa-thone-kyaw/ano-backend/internal/logger"
	"github.com/wa-thone-kyaw/ano-backend/internal/model"
	"github.com/wa-thone-kyaw/ano-backend/internal/role"
	roleH "github.com/wa-thone-kyaw/ano-backend/internal/role/handler"
	userH "github.com/wa-thone-kyaw/ano-backend/internal/user/handler"
)

type stubRoles struct {
	role.UseCase
}

func (stubRoles) ListRoles(context.Context) ([]model.Role, error) {
	return []model.Role{{ID: 1, Name: "admin"}}, nil
}

func newTestRouter(t *testing.T) (http.Handler, *auth.TokenManager) {
	t.Helper()
	tokens := auth.NewTokenManager("secret", time.Hour)
	authz, err := auth.NewAuthorizer(auth.ModeAuthenticated, nil)
	require.NoError(t, err)

	log := logger.NewNop()
	h := &Handlers{
		Users: userH.NewUserHandler(nil, log),
		Roles: roleH.NewRoleHandler(stubRoles{}, log),
	}
	return NewRouter(h, Options{
		Tokens:       tokens,
		Authorizer:   authz,
		CORSOrigins:  []string{"*"},
		MaxBodyBytes: 1 << 20,
		UploadsDir:   t.TempDir(),
		Logger:       log,
	}), tokens
}

func TestPublicRoutes(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, path := range []string{"/products", "/orders", "/roles", "/users/count", "/inventory/low-stock"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestProtectedRouteWithToken(t *testing.T) {
	r, tokens := newTestRouter(t)
	raw, err := tokens.Issue(1, "admin")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/roles", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"name":"admin"}]`, rec.Body.String())
}
