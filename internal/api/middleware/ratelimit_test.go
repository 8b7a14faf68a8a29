package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/financeapi-br/backend/internal/api/middleware"
	"github.com/financeapi-br/backend/internal/apperrors"
	"github.com/financeapi-br/backend/internal/model"
)

// stubQuota returns a fixed error from ConsumeRequest.
type stubQuota struct {
	err   error
	calls int
}

func (s *stubQuota) ConsumeRequest(_ model.User) error {
	s.calls++
	return s.err
}

// authedRequest builds a request whose context already carries a user,
// the way the key middleware leaves it.
func authedRequest(t *testing.T, user model.User) *http.Request {
	t.Helper()

	var ctx context.Context
	captured := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		ctx = r.Context()
	})
	mw := middleware.APIKey(stubAuthenticator{key: "k", user: user})(captured)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-API-Key", "k")
	mw.ServeHTTP(httptest.NewRecorder(), req)

	return httptest.NewRequest(http.MethodGet, "/test", nil).WithContext(ctx)
}

func TestRateLimitMiddleware(t *testing.T) {
	user := model.User{ID: "user-1", Plan: model.PlanFree}

	t.Run("passes request within quota", func(t *testing.T) {
		quota := &stubQuota{}
		handlerCalled := false
		testHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			handlerCalled = true
			w.WriteHeader(http.StatusOK)
		})

		mw := middleware.RateLimit(quota)(testHandler)
		w := httptest.NewRecorder()
		mw.ServeHTTP(w, authedRequest(t, user))

		if !handlerCalled {
			t.Error("Expected request to reach the handler")
		}
		if quota.calls != 1 {
			t.Errorf("Expected 1 quota consumption, got %d", quota.calls)
		}
	})

	t.Run("rejects request over quota with 429", func(t *testing.T) {
		quota := &stubQuota{err: apperrors.ErrRateLimitExceeded}
		handlerCalled := false
		testHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			handlerCalled = true
			w.WriteHeader(http.StatusOK)
		})

		mw := middleware.RateLimit(quota)(testHandler)
		w := httptest.NewRecorder()
		mw.ServeHTTP(w, authedRequest(t, user))

		if handlerCalled {
			t.Error("Expected request not to complete.")
		}
		if w.Code != http.StatusTooManyRequests {
			t.Errorf("Expected 429, got %d", w.Code)
		}

		var response map[string]string
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response["error"] != "daily request limit exceeded" {
			t.Errorf("Expected quota error message, got '%s'", response["error"])
		}
	})

	t.Run("rejects request without authenticated user", func(t *testing.T) {
		quota := &stubQuota{}
		testHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		mw := middleware.RateLimit(quota)(testHandler)
		w := httptest.NewRecorder()
		mw.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", w.Code)
		}
		if quota.calls != 0 {
			t.Errorf("Expected no quota consumption, got %d", quota.calls)
		}
	})
}
