package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

var testCreds = Credentials{
	ClientID:     "test_client_id",
	ClientSecret: "test_client_secret",
	RedirectURI:  "http://127.0.0.1:3000/callback",
}

// tokenServer serves a token endpoint and counts the exchanges it sees.
func tokenServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func writeToken(w http.ResponseWriter, access, refresh string) {
	w.Header().Set("Content-Type", "application/json")
	body := fmt.Sprintf(`{"access_token":%q,"token_type":"Bearer","expires_in":3600`, access)
	if refresh != "" {
		body += fmt.Sprintf(`,"refresh_token":%q`, refresh)
	}
	fmt.Fprint(w, body+"}")
}

func TestClientCredentials(t *testing.T) {
	t.Run("Obtains Token", func(t *testing.T) {
		srv, calls := tokenServer(t, func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseForm(); err != nil {
				t.Errorf("failed to parse form: %v", err)
			}
			if got := r.PostForm.Get("grant_type"); got != "client_credentials" {
				t.Errorf("expected grant_type client_credentials, got %s", got)
			}
			if id, _, ok := r.BasicAuth(); !ok || id != testCreds.ClientID {
				t.Errorf("expected basic auth with client id, got %s", id)
			}
			writeToken(w, "app_token", "")
		})

		m, err := NewClientCredentials(testCreds, WithEndpoint("", srv.URL))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tok, err := m.Token(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if tok.AccessToken != "app_token" {
			t.Errorf("expected app_token, got %s", tok.AccessToken)
		}

		if _, err := m.Token(context.Background()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if calls.Load() != 1 {
			t.Errorf("expected cached token to be reused, got %d exchanges", calls.Load())
		}
	})

	t.Run("Concurrent Callers Share One Exchange", func(t *testing.T) {
		srv, calls := tokenServer(t, func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(50 * time.Millisecond)
			writeToken(w, "shared_token", "")
		})

		stale := &oauth2.Token{AccessToken: "old", Expiry: time.Now().Add(-time.Minute)}
		m, err := NewClientCredentials(testCreds, WithEndpoint("", srv.URL), WithToken(stale))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var wg sync.WaitGroup
		tokens := make([]string, 10)
		errs := make([]error, 10)
		for i := range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				tok, err := m.Token(context.Background())
				errs[i] = err
				if tok != nil {
					tokens[i] = tok.AccessToken
				}
			}()
		}
		wg.Wait()

		if calls.Load() != 1 {
			t.Errorf("expected exactly one exchange, got %d", calls.Load())
		}
		for i := range 10 {
			if errs[i] != nil {
				t.Errorf("caller %d: expected no error, got %v", i, errs[i])
			}
			if tokens[i] != "shared_token" {
				t.Errorf("caller %d: expected shared_token, got %s", i, tokens[i])
			}
		}
	})

	t.Run("Concurrent Callers Share One Failure", func(t *testing.T) {
		srv, calls := tokenServer(t, func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(50 * time.Millisecond)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error":"invalid_client","error_description":"Invalid client secret"}`)
		})

		m, err := NewClientCredentials(testCreds, WithEndpoint("", srv.URL))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var wg sync.WaitGroup
		errs := make([]error, 10)
		for i := range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, errs[i] = m.Token(context.Background())
			}()
		}
		wg.Wait()

		if calls.Load() != 1 {
			t.Errorf("expected exactly one exchange, got %d", calls.Load())
		}
		for i := range 10 {
			if !errors.Is(errs[i], ErrAuthentication) {
				t.Errorf("caller %d: expected ErrAuthentication, got %v", i, errs[i])
			}
		}

		if _, err := m.Token(context.Background()); !errors.Is(err, ErrAuthentication) {
			t.Errorf("expected ErrAuthentication on a later call, got %v", err)
		}
		if calls.Load() != 2 {
			t.Errorf("expected a later call to try again, got %d exchanges", calls.Load())
		}
	})

	t.Run("Token Within Skew Is Renewed", func(t *testing.T) {
		srv, calls := tokenServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeToken(w, "fresh", "")
		})

		almost := &oauth2.Token{AccessToken: "almost", Expiry: time.Now().Add(10 * time.Second)}
		m, _ := NewClientCredentials(testCreds, WithEndpoint("", srv.URL), WithToken(almost))

		tok, err := m.Token(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if tok.AccessToken != "fresh" || calls.Load() != 1 {
			t.Errorf("expected one renewal, got token %s after %d exchanges", tok.AccessToken, calls.Load())
		}
	})

	t.Run("Rejected Credentials", func(t *testing.T) {
		srv, calls := tokenServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error":"invalid_client","error_description":"Invalid client secret"}`)
		})

		m, _ := NewClientCredentials(testCreds, WithEndpoint("", srv.URL))
		_, err := m.Token(context.Background())
		if !errors.Is(err, ErrAuthentication) {
			t.Fatalf("expected ErrAuthentication, got %v", err)
		}
		if !strings.Contains(err.Error(), "invalid_client") {
			t.Errorf("expected error code in message, got %v", err)
		}
		if calls.Load() != 1 {
			t.Errorf("expected one exchange, got %d", calls.Load())
		}
	})

	t.Run("Network Failure", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		m, _ := NewClientCredentials(testCreds, WithEndpoint("", url))
		if _, err := m.Token(context.Background()); !errors.Is(err, ErrNetwork) {
			t.Errorf("expected ErrNetwork, got %v", err)
		}
	})

	t.Run("Missing Credentials", func(t *testing.T) {
		_, err := NewClientCredentials(Credentials{ClientID: "id"})
		if !errors.Is(err, ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("Cancelled While Waiting", func(t *testing.T) {
		release := make(chan struct{})
		srv, _ := tokenServer(t, func(w http.ResponseWriter, r *http.Request) {
			<-release
			writeToken(w, "slow", "")
		})
		defer close(release)

		m, _ := NewClientCredentials(testCreds, WithEndpoint("", srv.URL))
		go m.Token(context.Background())
		time.Sleep(20 * time.Millisecond)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		if _, err := m.Token(ctx); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected deadline exceeded, got %v", err)
		}
	})
}

func TestAuthorizationCode(t *testing.T) {
	t.Run("AuthURL", func(t *testing.T) {
		m, err := NewAuthorizationCode(testCreds, DefaultScopes)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		u := m.AuthURL("state123")
		for _, want := range []string{AuthURL, "client_id=test_client_id", "state=state123", "playlist-read-private"} {
			if !strings.Contains(u, want) {
				t.Errorf("expected auth URL to contain %s, got %s", want, u)
			}
		}
	})

	t.Run("Exchange", func(t *testing.T) {
		srv, _ := tokenServer(t, func(w http.ResponseWriter, r *http.Request) {
			_ = r.ParseForm()
			if r.PostForm.Get("grant_type") != "authorization_code" || r.PostForm.Get("code") != "the_code" {
				t.Errorf("unexpected form %v", r.PostForm)
			}
			writeToken(w, "user_token", "user_refresh")
		})

		m, _ := NewAuthorizationCode(testCreds, DefaultScopes, WithEndpoint(AuthURL, srv.URL))

		var saved *oauth2.Token
		m.OnRefresh(func(tok *oauth2.Token) { saved = tok })

		tok, err := m.Exchange(context.Background(), "the_code")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if tok.RefreshToken != "user_refresh" {
			t.Errorf("expected refresh token, got %s", tok.RefreshToken)
		}
		if saved == nil || saved.AccessToken != "user_token" {
			t.Errorf("expected callback with new token, got %+v", saved)
		}

		got, err := m.Token(context.Background())
		if err != nil || got.AccessToken != "user_token" {
			t.Errorf("expected stored token, got %v, %v", got, err)
		}
	})

	t.Run("Refresh", func(t *testing.T) {
		srv, calls := tokenServer(t, func(w http.ResponseWriter, r *http.Request) {
			_ = r.ParseForm()
			if r.PostForm.Get("grant_type") != "refresh_token" {
				t.Errorf("expected refresh_token grant, got %s", r.PostForm.Get("grant_type"))
			}
			if r.PostForm.Get("refresh_token") != "stored_refresh" {
				t.Errorf("expected stored refresh token, got %s", r.PostForm.Get("refresh_token"))
			}
			writeToken(w, "refreshed", "")
		})

		creds := testCreds
		creds.RefreshToken = "stored_refresh"
		m, _ := NewAuthorizationCode(creds, nil, WithEndpoint(AuthURL, srv.URL))

		refreshes := 0
		m.OnRefresh(func(*oauth2.Token) { refreshes++ })

		tok, err := m.Token(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if tok.AccessToken != "refreshed" {
			t.Errorf("expected refreshed token, got %s", tok.AccessToken)
		}
		if tok.RefreshToken != "stored_refresh" {
			t.Errorf("expected refresh token to be kept, got %s", tok.RefreshToken)
		}
		if calls.Load() != 1 || refreshes != 1 {
			t.Errorf("expected one refresh, got %d exchanges and %d callbacks", calls.Load(), refreshes)
		}
	})

	t.Run("Expired Without Refresh Token", func(t *testing.T) {
		expired := &oauth2.Token{AccessToken: "old", Expiry: time.Now().Add(-time.Hour)}
		m, _ := NewAuthorizationCode(testCreds, nil, WithToken(expired))

		_, err := m.Token(context.Background())
		if !errors.Is(err, ErrAuthentication) {
			t.Errorf("expected ErrAuthentication, got %v", err)
		}
		if !errors.Is(err, ErrNoRefreshToken) {
			t.Errorf("expected ErrNoRefreshToken, got %v", err)
		}
	})

	t.Run("Revoked Refresh Token", func(t *testing.T) {
		srv, _ := tokenServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error":"invalid_grant","error_description":"Refresh token revoked"}`)
		})

		creds := testCreds
		creds.RefreshToken = "revoked"
		m, _ := NewAuthorizationCode(creds, nil, WithEndpoint(AuthURL, srv.URL))

		if _, err := m.Token(context.Background()); !errors.Is(err, ErrAuthentication) {
			t.Errorf("expected ErrAuthentication, got %v", err)
		}
	})

	t.Run("TokenSource", func(t *testing.T) {
		m, _ := NewAuthorizationCode(testCreds, nil, WithToken(&oauth2.Token{AccessToken: "static"}))

		tok, err := m.TokenSource(context.Background()).Token()
		if err != nil || tok.AccessToken != "static" {
			t.Errorf("expected static token, got %v, %v", tok, err)
		}
	})
}

func TestCredentialsFromEnv(t *testing.T) {
	t.Run("Complete", func(t *testing.T) {
		t.Setenv("SPOTIFY_CLIENT_ID", "env_id")
		t.Setenv("SPOTIFY_CLIENT_SECRET", "env_secret")
		t.Setenv("SPOTIFY_REFRESH_TOKEN", "env_refresh")

		creds, err := CredentialsFromEnv()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if creds.ClientID != "env_id" || creds.ClientSecret != "env_secret" || creds.RefreshToken != "env_refresh" {
			t.Errorf("unexpected credentials %+v", creds)
		}
	})

	t.Run("Missing Secret", func(t *testing.T) {
		t.Setenv("SPOTIFY_CLIENT_ID", "env_id")
		t.Setenv("SPOTIFY_CLIENT_SECRET", "")

		if _, err := CredentialsFromEnv(); !errors.Is(err, ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})
}
