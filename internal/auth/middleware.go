package auth

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/wa-thone-kyaw/ano-backend/internal/apperror"
	"github.com/wa-thone-kyaw/ano-backend/internal/httpx"
	"github.com/wa-thone-kyaw/ano-backend/internal/logger"
)

// Authenticate requires a valid bearer token and stores the caller in the
// request context.
func Authenticate(tokens *TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw, found := strings.CutPrefix(header, "Bearer ")
			if !found || strings.TrimSpace(raw) == "" {
				httpx.Error(w, r, apperror.ErrUnauthorized)
				return
			}

			claims, err := tokens.Parse(strings.TrimSpace(raw))
			if err != nil {
				httpx.Error(w, r, apperror.Wrap(apperror.ErrUnauthorized, err))
				return
			}

			ctx := WithUser(r.Context(), UserContext{UserID: claims.UserID, Role: claims.Role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Require admits the request only when authz grants the capability derived
// from resource and the request method.
func Require(authz Authorizer, resource string, log logger.ZapLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				httpx.Error(w, r, apperror.ErrUnauthorized)
				return
			}

			write := r.Method != http.MethodGet && r.Method != http.MethodHead
			capability := Capability(resource, write)
			allowed, err := authz.Authorize(r.Context(), user, capability)
			if err != nil {
				httpx.Error(w, r, err)
				return
			}
			if !allowed {
				log.Warn("capability denied",
					zap.String("user_id", user.UserID),
					zap.String("role", user.Role),
					zap.String("capability", capability),
				)
				httpx.Error(w, r, apperror.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
