package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"

	"github.com/samasastudio/sq-gendash/pkg/logger"
)

// Roles carried in the "role" custom claim. Tokens without the claim are
// builders; viewers get read-only access.
const (
	RoleBuilder = "builder"
	RoleViewer  = "viewer"
)

type tokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type Middleware struct {
	AuthClient tokenVerifier
}

func NewMiddleware(client tokenVerifier) *Middleware {
	return &Middleware{AuthClient: client}
}

// context key
type contextKey string

const (
	UIDKey  contextKey = "uid"
	RoleKey contextKey = "role"
)

// Main middleware
func (m *Middleware) FirebaseAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		header := r.Header.Get("Authorization")
		if header == "" {
			http.Error(w, "missing Authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			http.Error(w, "invalid Authorization header", http.StatusUnauthorized)
			return
		}

		tokenStr := parts[1]

		// Verify ID Token
		token, err := m.AuthClient.VerifyIDToken(r.Context(), tokenStr)
		if err != nil {
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		role := RoleBuilder
		if claim, ok := token.Claims["role"].(string); ok && claim == RoleViewer {
			role = RoleViewer
		}

		// Add UID and role to context
		_, ctx := logger.With(r.Context(), "uid", token.UID, "role", role)
		ctx = context.WithValue(ctx, UIDKey, token.UID)
		ctx = context.WithValue(ctx, RoleKey, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole rejects requests whose role differs from role.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if Role(r.Context()) != role {
				logger.FromContext(r.Context()).Warn("role not permitted", "required", role)
				http.Error(w, "role not permitted", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Helper to extract UID
func UID(ctx context.Context) string {
	uid, _ := ctx.Value(UIDKey).(string)
	return uid
}

func Role(ctx context.Context) string {
	role, _ := ctx.Value(RoleKey).(string)
	return role
}
