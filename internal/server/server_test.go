package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/spotx/internal/shared"
	"golang.org/x/oauth2"
)

type mockExchanger struct {
	token *oauth2.Token
	err   error
	codes []string
}

func (m *mockExchanger) Exchange(_ context.Context, code string) (*oauth2.Token, error) {
	m.codes = append(m.codes, code)
	return m.token, m.err
}

func TestOAuthHandler(t *testing.T) {
	t.Run("Successful Callback", func(t *testing.T) {
		ex := &mockExchanger{token: &oauth2.Token{AccessToken: "access", RefreshToken: "refresh"}}
		h := NewOAuthHandler(ex, "state123", "")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=state123&code=abc", nil))

		if rec.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Signed in") {
			t.Errorf("expected success page, got %s", rec.Body.String())
		}

		result := <-h.Result()
		if err := result.Error(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Token.RefreshToken != "refresh" {
			t.Errorf("expected refresh token, got %s", result.Token.RefreshToken)
		}
		if len(ex.codes) != 1 || ex.codes[0] != "abc" {
			t.Errorf("expected code abc to be exchanged, got %v", ex.codes)
		}
	})

	t.Run("Invalid State", func(t *testing.T) {
		ex := &mockExchanger{}
		h := NewOAuthHandler(ex, "expected", "/callback")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=forged&code=abc", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
		result := <-h.Result()
		if !errors.Is(result.Error(), shared.ErrAuthentication) {
			t.Errorf("expected ErrAuthentication, got %v", result.Error())
		}
		if len(ex.codes) != 0 {
			t.Error("expected no exchange on state mismatch")
		}
	})

	t.Run("Access Denied", func(t *testing.T) {
		h := NewOAuthHandler(&mockExchanger{}, "s", "")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=s&error=access_denied", nil))

		result := <-h.Result()
		if result.Error() == nil || !strings.Contains(result.Error().Error(), "access_denied") {
			t.Errorf("expected access_denied error, got %v", result.Error())
		}
	})

	t.Run("Exchange Failure", func(t *testing.T) {
		h := NewOAuthHandler(&mockExchanger{err: shared.ErrAuthentication}, "s", "")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=s&code=abc", nil))

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected status 500, got %d", rec.Code)
		}
		if result := <-h.Result(); !errors.Is(result.Error(), shared.ErrAuthentication) {
			t.Errorf("expected wrapped ErrAuthentication, got %v", result.Error())
		}
	})

	t.Run("Second Callback Rejected", func(t *testing.T) {
		ex := &mockExchanger{token: &oauth2.Token{AccessToken: "a"}}
		h := NewOAuthHandler(ex, "s", "")

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/callback?state=s&code=1", nil))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=s&code=2", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
		if len(ex.codes) != 1 {
			t.Errorf("expected one exchange, got %d", len(ex.codes))
		}
	})
}

func TestBasicRouter(t *testing.T) {
	t.Run("Middleware Order", func(t *testing.T) {
		var order []string
		mw := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		r := NewBasicRouter()
		r.Use(mw("first"), mw("second"))
		r.Handle("get", "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		}))

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

		if strings.Join(order, ",") != "first,second,handler" {
			t.Errorf("unexpected order %v", order)
		}
	})

	t.Run("Method Not Allowed", func(t *testing.T) {
		r := NewBasicRouter()
		r.Handler(NewOAuthHandler(&mockExchanger{}, "s", "/cb"))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cb", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected status 405, got %d", rec.Code)
		}
	})

	t.Run("Request Logger", func(t *testing.T) {
		r := NewBasicRouter()
		r.Use(RequestLogger(shared.NopLogger()))
		r.Handle(http.MethodGet, "/teapot", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/teapot", nil))
		if rec.Code != http.StatusTeapot {
			t.Errorf("expected status 418, got %d", rec.Code)
		}
	})
}

func TestServe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	addrCh := make(chan string, 1)
	errCh := make(chan error, 1)

	r := NewBasicRouter()
	r.Handle(http.MethodGet, "/ok", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	go func() { errCh <- Serve(ctx, "127.0.0.1:0", r, func(addr string) { addrCh <- addr }) }()

	var addr string
	select {
	case addr = <-addrCh:
	case <-time.After(2 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get("http://" + addr + "/ok")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
