package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mtlprog/taskdesk/internal/domain"
	"github.com/mtlprog/taskdesk/internal/handler/dto"
	"github.com/mtlprog/taskdesk/internal/logger"
)

type contextKey string

const (
	// ContextKeyIdentity is the key for storing the caller identity in request context.
	ContextKeyIdentity contextKey = "identity"
)

// TokenParser verifies a bearer token and returns the identity it carries.
type TokenParser interface {
	Parse(token string) (domain.Identity, error)
}

// AuthMiddleware handles Bearer token authentication.
type AuthMiddleware struct {
	tokens TokenParser
}

// NewAuthMiddleware creates a new AuthMiddleware.
func NewAuthMiddleware(tokens TokenParser) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
	}
}

// Authenticate validates Bearer token and adds the caller identity to request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			unauthorized(w, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			unauthorized(w, "invalid authorization header format")
			return
		}

		token := strings.TrimSpace(parts[1])
		if token == "" {
			unauthorized(w, "missing token")
			return
		}

		identity, err := m.tokens.Parse(token)
		if err != nil {
			logger.FromContext(r.Context()).Debug("token rejected", "error", err)
			unauthorized(w, domain.ErrInvalidToken.Error())
			return
		}

		ctx := WithIdentity(r.Context(), identity)
		ctx = logger.WithContext(ctx, logger.FromContext(ctx).With("user_id", identity.UserID))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithIdentity returns a context carrying the caller identity.
func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, ContextKeyIdentity, identity)
}

// GetIdentityFromContext retrieves the authenticated caller from request context.
func GetIdentityFromContext(ctx context.Context) (domain.Identity, error) {
	identity, ok := ctx.Value(ContextKeyIdentity).(domain.Identity)
	if !ok || identity.UserID == "" {
		return domain.Identity{}, domain.ErrInvalidToken
	}
	return identity, nil
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="taskdesk"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(dto.NewErrorResponse("INVALID_TOKEN", message))
}
