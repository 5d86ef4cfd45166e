package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/ddongsuya/cro-project-tracker-sub000/logging"
	"github.com/ddongsuya/cro-project-tracker-sub000/models"
	"github.com/ddongsuya/cro-project-tracker-sub000/utils"
)

type contextKey string

const (
	userContextKey contextKey = "authenticatedUser"
	roleContextKey contextKey = "role"
)

// JWTAuth validates the bearer token, rejects revoked tokens and injects the
// authenticated user into the request context. isRevoked may be nil.
func JWTAuth(isRevoked func(token string) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logging.Logger.Warnf("Event ID: JWT_AUTH_MISSING_HEADER, Description: Authorization header missing for request to %s %s", r.Method, r.URL.Path)
				http.Error(w, "Authorization header missing", http.StatusUnauthorized)
				return
			}

			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
			if isRevoked != nil && isRevoked(tokenStr) {
				logging.Logger.Warnf("Event ID: JWT_AUTH_REVOKED_TOKEN, Description: Revoked token used for request to %s %s", r.Method, r.URL.Path)
				http.Error(w, "Token has been revoked", http.StatusUnauthorized)
				return
			}

			claims, err := utils.ValidateToken(tokenStr)
			if err != nil {
				logging.Logger.Warnf("Event ID: JWT_AUTH_INVALID_TOKEN, Description: Invalid token for request to %s %s: %v", r.Method, r.URL.Path, err)
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			user := models.AuthenticatedUser{ID: claims.UserID, Email: claims.Email}
			ctx := context.WithValue(r.Context(), userContextKey, user)
			ctx = context.WithValue(ctx, roleContextKey, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the authenticated user injected by JWTAuth.
func UserFromContext(ctx context.Context) (models.AuthenticatedUser, bool) {
	user, ok := ctx.Value(userContextKey).(models.AuthenticatedUser)
	return user, ok
}

// RoleFromContext returns the role claim of the authenticated user.
func RoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(roleContextKey).(string)
	return role
}
