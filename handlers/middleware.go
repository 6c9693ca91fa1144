package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/fengwang001/plant-version-app/auth"
	"github.com/fengwang001/plant-version-app/models"
	"github.com/fengwang001/plant-version-app/services"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const (
	// UserContextKey is the key used to store the user object in the request context.
	UserContextKey ContextKey = "user"
)

// AuthMiddleware verifies the bearer access token, resolves the active user,
// and stores them in the request context. Refresh tokens are rejected here;
// they are only accepted by the refresh endpoint.
func AuthMiddleware(tokens *auth.TokenManager, users *services.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Authorization header required")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Authorization header format must be Bearer {token}")
				return
			}

			claims, err := tokens.Verify(parts[1])
			if err != nil {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
				return
			}
			if claims.IsRefresh() {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "refresh tokens cannot access this endpoint")
				return
			}

			user, err := users.GetActive(claims.Subject)
			if err != nil {
				// deleted or deactivated after the token was issued
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "account is not available")
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// currentUser pulls the authenticated user out of the request context. Returns
// nil after writing a 500 if the middleware did not run.
func currentUser(w http.ResponseWriter, r *http.Request) *models.User {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok || user == nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "could not retrieve user from context")
		return nil
	}
	return user
}
