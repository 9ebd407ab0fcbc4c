package middleware

import (
	"context"
	"net/http"
	"strings"

	"suryaghar-backend/internal/auth"
	"suryaghar-backend/internal/models"
	"suryaghar-backend/pkg/utils"
)

type contextKey string

const (
	UserIDKey     contextKey = "user_id"
	EmailKey      contextKey = "email"
	RoleKey       contextKey = "role"
	userHolderKey contextKey = "user_holder"
)

// UserLookup re-reads the user on every request so deactivation and role
// changes apply immediately instead of at token expiry.
type UserLookup interface {
	Get(ctx context.Context, id int) (*models.User, error)
}

type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	users      UserLookup
}

func NewAuthMiddleware(jwtManager *auth.JWTManager, users UserLookup) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		users:      users,
	}
}

// Authenticate is a middleware that validates JWT tokens
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return m.RequireRole()(next)
}

// RequireRole authenticates the request and, when roles are given, checks
// that the caller has one of them.
func (m *AuthMiddleware) RequireRole(allowedRoles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				utils.Error(w, http.StatusUnauthorized, "Authorization header required")
				return
			}

			user, status, msg := m.resolve(r.Context(), token)
			if user == nil {
				utils.Error(w, status, msg)
				return
			}

			if len(allowedRoles) > 0 && !hasRole(user.Role, allowedRoles) {
				utils.Error(w, http.StatusForbidden, "Forbidden: Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireAdmin is a middleware that ensures the user has admin role
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return m.RequireRole(models.RoleAdmin)(next)
}

// AuthenticateQueryToken accepts the token as ?token=, for websocket
// clients that cannot set headers.
func (m *AuthMiddleware) AuthenticateQueryToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			utils.Error(w, http.StatusUnauthorized, "token query parameter required")
			return
		}

		user, status, msg := m.resolve(r.Context(), token)
		if user == nil {
			utils.Error(w, status, msg)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func (m *AuthMiddleware) resolve(ctx context.Context, token string) (*models.User, int, string) {
	claims, err := m.jwtManager.ValidateToken(token)
	if err != nil {
		return nil, http.StatusUnauthorized, "Invalid or expired token"
	}

	user, err := m.users.Get(ctx, claims.UserID)
	if err != nil {
		return nil, http.StatusUnauthorized, "User not found"
	}

	// A role change invalidates tokens issued for the old role
	if claims.Role != user.Role {
		return nil, http.StatusUnauthorized, "Invalid or expired token"
	}

	if !user.IsActive {
		return nil, http.StatusForbidden, "Account suspended. Please contact administrator."
	}
	return user, 0, ""
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func hasRole(role models.Role, allowed []models.Role) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

// WithUser stores the caller in ctx (using database values).
func WithUser(ctx context.Context, user *models.User) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, user.ID)
	ctx = context.WithValue(ctx, EmailKey, user.Email)
	ctx = context.WithValue(ctx, RoleKey, user.Role)
	if holder, ok := ctx.Value(userHolderKey).(*int); ok {
		*holder = user.ID
	}
	return ctx
}

// GetUserIDFromContext extracts user ID from request context
func GetUserIDFromContext(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(UserIDKey).(int)
	return userID, ok
}

// GetRoleFromContext extracts role from request context
func GetRoleFromContext(ctx context.Context) (models.Role, bool) {
	role, ok := ctx.Value(RoleKey).(models.Role)
	return role, ok
}

// ActorFromContext returns the authenticated caller.
func ActorFromContext(ctx context.Context) (models.Actor, bool) {
	id, ok := GetUserIDFromContext(ctx)
	if !ok {
		return models.Actor{}, false
	}
	role, ok := GetRoleFromContext(ctx)
	if !ok {
		return models.Actor{}, false
	}
	return models.Actor{ID: id, Role: role}, true
}

// withUserHolder installs a holder that WithUser fills in, so outer
// middleware can see who made the request after it completes.
func withUserHolder(r *http.Request) (*http.Request, *int) {
	id := new(int)
	return r.WithContext(context.WithValue(r.Context(), userHolderKey, id)), id
}
