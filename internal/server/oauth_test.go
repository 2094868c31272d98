package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/oauth2"
)

// fakeExchanger stands in for the spotify authenticator.
type fakeExchanger struct {
	token    *oauth2.Token
	err      error
	gotState string
	calls    int
}

func (f *fakeExchanger) Token(ctx context.Context, state string, r *http.Request, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error) {
	f.calls++
	f.gotState = state
	return f.token, f.err
}

func TestOAuthHandler(t *testing.T) {
	t.Run("successful callback delivers the token", func(t *testing.T) {
		exchanger := &fakeExchanger{token: &oauth2.Token{AccessToken: "at"}}
		handler := NewOAuthHandler(exchanger, "state123")

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/callback?code=abc&state=state123", nil)
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Authorization Successful") {
			t.Error("expected success page")
		}
		if exchanger.gotState != "state123" {
			t.Errorf("expected state to be forwarded, got %q", exchanger.gotState)
		}

		result := <-handler.Result()
		if result.Error() != nil {
			t.Fatalf("unexpected error: %v", result.Error())
		}
		if result.Token == nil || result.Token.AccessToken != "at" {
			t.Errorf("unexpected token: %+v", result.Token)
		}
	})

	t.Run("declined authorization reports an error", func(t *testing.T) {
		exchanger := &fakeExchanger{}
		handler := NewOAuthHandler(exchanger, "state123")

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/callback?error=access_denied&error_description=user+declined", nil)
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		if exchanger.calls != 0 {
			t.Error("expected no exchange attempt")
		}

		result := <-handler.Result()
		if result.Error() == nil || !strings.Contains(result.Error().Error(), "access_denied") {
			t.Errorf("expected declined error, got %v", result.Error())
		}
	})

	t.Run("failed exchange reports an error", func(t *testing.T) {
		exchanger := &fakeExchanger{err: errors.New("state mismatch")}
		handler := NewOAuthHandler(exchanger, "state123")

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/callback?code=abc&state=wrong", nil)
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() == nil || !strings.Contains(result.Error().Error(), "token exchange failed") {
			t.Errorf("expected exchange error, got %v", result.Error())
		}
	})

	t.Run("second callback is rejected", func(t *testing.T) {
		exchanger := &fakeExchanger{token: &oauth2.Token{AccessToken: "at"}}
		handler := NewOAuthHandler(exchanger, "state123")

		first := httptest.NewRecorder()
		handler.ServeHTTP(first, httptest.NewRequest("GET", "/callback?code=abc&state=state123", nil))

		second := httptest.NewRecorder()
		handler.ServeHTTP(second, httptest.NewRequest("GET", "/callback?code=abc&state=state123", nil))

		if second.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for repeated callback, got %d", second.Code)
		}
		if exchanger.calls != 1 {
			t.Errorf("expected a single exchange, got %d", exchanger.calls)
		}
	})
}

func TestBasicRouter(t *testing.T) {
	t.Run("routes a handler and applies middleware", func(t *testing.T) {
		handler := NewOAuthHandler(&fakeExchanger{token: &oauth2.Token{}}, "s")

		var sawMiddleware bool
		router := NewBasicRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				sawMiddleware = true
				next.ServeHTTP(w, r)
			})
		})
		router.Handler(handler)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/callback?code=x&state=s", nil))

		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
		if !sawMiddleware {
			t.Error("expected middleware to run")
		}
	})

	t.Run("unknown path is a 404", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handler(NewOAuthHandler(&fakeExchanger{}, "s"))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/nope", nil))

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})
}
