package middleware

import (
	"errors"
	"net/http"

	"github.com/financeapi-br/backend/internal/api/response"
	"github.com/financeapi-br/backend/internal/apperrors"
	"github.com/financeapi-br/backend/internal/model"
)

// QuotaConsumer counts a request against a user's daily quota.
type QuotaConsumer interface {
	ConsumeRequest(user model.User) error
}

// RateLimit enforces the per-plan daily request quota. It must run after
// APIKey; requests without an authenticated user are rejected.
func RateLimit(quota QuotaConsumer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFrom(r.Context())
			if !ok {
				response.RespondError(w, http.StatusUnauthorized, apperrors.ErrMissingAPIKey.Error(), nil)
				return
			}

			if err := quota.ConsumeRequest(user); err != nil {
				if errors.Is(err, apperrors.ErrRateLimitExceeded) {
					response.RespondError(w, http.StatusTooManyRequests, err.Error(), nil)
					return
				}
				response.RespondError(w, http.StatusInternalServerError, "rate limiting failed", err.Error())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
