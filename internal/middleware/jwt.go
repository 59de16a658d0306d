package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/vaughan-dsouza/userdir/internal/utils"
)

// Authenticator resolves a bearer token to a user id.
type Authenticator interface {
	Authenticate(token string) (int64, error)
}

// AuthMiddleware rejects requests without a valid bearer token and puts the
// caller's user id into the request context.
func AuthMiddleware(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				utils.JSONError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			token := strings.TrimSpace(parts[1])
			if token == "" {
				utils.JSONError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			userID, err := auth.Authenticate(token)
			if err != nil {
				utils.JSONError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			// push user ID into context
			ctx := context.WithValue(r.Context(), utils.CtxUserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the id stored by AuthMiddleware.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(utils.CtxUserIDKey).(int64)
	return id, ok
}
