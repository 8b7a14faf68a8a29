package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/financeapi-br/backend/internal/api/response"
	"github.com/financeapi-br/backend/internal/apperrors"
	"github.com/financeapi-br/backend/internal/model"
)

type contextKey string

const userContextKey contextKey = "user"

// Authenticator resolves an API key to a user.
type Authenticator interface {
	Authenticate(apiKey string) (model.User, error)
}

// APIKey authenticates requests via the X-API-Key header and stores the
// resolved user in the request context.
func APIKey(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := auth.Authenticate(r.Header.Get("X-API-Key"))
			if err != nil {
				if errors.Is(err, apperrors.ErrMissingAPIKey) || errors.Is(err, apperrors.ErrInvalidAPIKey) {
					response.RespondError(w, http.StatusUnauthorized, err.Error(), nil)
					return
				}
				response.RespondError(w, http.StatusInternalServerError, "authentication failed", err.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userContextKey, user)))
		})
	}
}

// UserFrom returns the authenticated user stored by the APIKey middleware.
func UserFrom(ctx context.Context) (model.User, bool) {
	user, ok := ctx.Value(userContextKey).(model.User)
	return user, ok
}
