package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/openloom/workspace-chat/internal/api/response"
	"github.com/openloom/workspace-chat/internal/domain"
	"github.com/openloom/workspace-chat/internal/security"
)

type contextKey string

const (
	UserKey      contextKey = "user"
	WorkspaceKey contextKey = "workspace"
	ThreadKey    contextKey = "thread"
)

// AuthMiddleware handles JWT authentication
type AuthMiddleware struct {
	jwtManager *security.JWTManager
	users      domain.UserRepository
	multiUser  bool
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtManager *security.JWTManager, users domain.UserRepository, multiUser bool) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager, users: users, multiUser: multiUser}
}

// Authenticate validates the JWT token and loads the caller into context.
// In single-user deployments there are no accounts and every request
// proceeds without a user attached.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.multiUser {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(w, "invalid authorization header format")
			return
		}

		claims, err := m.jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(w, "invalid or expired token: "+err.Error())
			return
		}

		user, err := m.users.GetByID(r.Context(), claims.UserID)
		if err != nil {
			response.InternalError(w, "failed to load user")
			return
		}
		if user == nil || user.Suspended {
			response.Unauthorized(w, "account is not active")
			return
		}

		ctx := context.WithValue(r.Context(), UserKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole rejects callers below the given role. Only meaningful in
// multi-user mode; single-user requests always pass.
func (m *AuthMiddleware) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !m.multiUser {
				next.ServeHTTP(w, r)
				return
			}

			user, ok := GetUser(r.Context())
			if !ok {
				response.Unauthorized(w, "unauthorized")
				return
			}
			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			response.Forbidden(w, "insufficient permissions")
		})
	}
}

// GetUser gets the authenticated user from context. The bool is false when
// the request carries no user (single-user mode).
func GetUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(UserKey).(*domain.User)
	return user, ok && user != nil
}

// GetWorkspace gets the resolved workspace from context
func GetWorkspace(ctx context.Context) (*domain.Workspace, bool) {
	workspace, ok := ctx.Value(WorkspaceKey).(*domain.Workspace)
	return workspace, ok && workspace != nil
}

// GetThread gets the resolved thread from context
func GetThread(ctx context.Context) (*domain.Thread, bool) {
	thread, ok := ctx.Value(ThreadKey).(*domain.Thread)
	return thread, ok && thread != nil
}
