package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/spotx/auth"
	"github.com/desertthunder/spotx/client"
	"github.com/desertthunder/spotx/internal/shared"
	tu "github.com/desertthunder/spotx/internal/testing"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// testRunner returns a runner whose client talks to a test server with a static token.
func testRunner(t *testing.T, handlers map[string]http.HandlerFunc) (*Runner, *bytes.Buffer, *tu.APIServer) {
	t.Helper()

	srv := tu.NewAPIServer(t, handlers)
	config := shared.DefaultConfig()
	config.Client.BaseURL = srv.URL
	config.Client.RateLimit = 0

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: shared.NopLogger(),
		Output: output,
		Tokens: client.StaticToken("test-token"),
	})
	return runner, output, srv
}

// redirectTransport sends every request to target, keeping the path and query.
func redirectTransport(target string) http.RoundTripper {
	u, _ := url.Parse(target)
	return roundTripFunc(func(r *http.Request) (*http.Response, error) {
		r = r.Clone(r.Context())
		r.URL.Scheme, r.URL.Host, r.Host = u.Scheme, u.Host, u.Host
		return http.DefaultTransport.RoundTrip(r)
	})
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func runCommand(r *Runner, args ...string) error {
	app := &cli.Command{
		Name:      "spotx",
		Commands:  r.register(),
		Writer:    io.Discard,
		ErrWriter: io.Discard,
	}
	return app.Run(context.Background(), append([]string{"spotx"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			tokens := client.StaticToken("t")

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/test/path/config.toml",
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Tokens:     tokens,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.tokens != tokens {
				t.Error("expected token source to be set")
			}
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses configured timeout", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Client.TimeoutSeconds = 7
			runner := NewRunner(RunnerOpts{Config: config})

			if runner.httpClient == nil || runner.httpClient.Timeout != 7*time.Second {
				t.Errorf("expected 7s timeout, got %+v", runner.httpClient)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writeJSON(map[string]string{"key": "value"}, true)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if result := output.String(); result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			// channels cannot be marshaled to JSON
			err := runner.writeJSON(make(chan int), false)
			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: tu.NewLimitedWriter(1, &bytes.Buffer{})})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if result := output.String(); result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Error("expected at least one command to be registered")
		}

		seen := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			if seen[cmd.Name] {
				t.Errorf("command %s registered twice", cmd.Name)
			}
			seen[cmd.Name] = true
		}
	})

	t.Run("saveTokens", func(t *testing.T) {
		t.Run("saves tokens successfully", func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.toml")

			config := shared.DefaultConfig()
			config.Credentials.Spotify.ClientID = "test_id"
			config.Credentials.Spotify.ClientSecret = "test_secret"

			if err := shared.SaveConfig(configPath, config); err != nil {
				t.Fatalf("failed to create test config: %v", err)
			}

			runner := NewRunner(RunnerOpts{Config: config, ConfigPath: configPath})

			token := &oauth2.Token{AccessToken: "new_access_token", RefreshToken: "new_refresh_token"}
			if err := runner.saveTokens(token); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			loadedConfig, err := shared.LoadConfig(configPath)
			if err != nil {
				t.Fatalf("failed to reload config: %v", err)
			}

			if loadedConfig.Credentials.Spotify.AccessToken != "new_access_token" {
				t.Errorf("expected access token to be updated, got %s", loadedConfig.Credentials.Spotify.AccessToken)
			}
			if loadedConfig.Credentials.Spotify.RefreshToken != "new_refresh_token" {
				t.Errorf("expected refresh token to be updated, got %s", loadedConfig.Credentials.Spotify.RefreshToken)
			}
		})

		t.Run("keeps refresh token when none is issued", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Credentials.Spotify.RefreshToken = "kept"
			runner := NewRunner(RunnerOpts{Config: config})

			if err := runner.saveTokens(&oauth2.Token{AccessToken: "a"}); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if config.Credentials.Spotify.RefreshToken != "kept" {
				t.Errorf("expected refresh token to be kept, got %s", config.Credentials.Spotify.RefreshToken)
			}
		})

		t.Run("handles nil config error", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{ConfigPath: "/tmp/test.toml"})
			runner.config = nil

			err := runner.saveTokens(&oauth2.Token{AccessToken: "test"})
			if !errors.Is(err, shared.ErrMissingConfig) {
				t.Errorf("expected ErrMissingConfig, got %v", err)
			}
		})

		t.Run("handles empty configPath", func(t *testing.T) {
			config := shared.DefaultConfig()
			runner := NewRunner(RunnerOpts{Config: config})

			err := runner.saveTokens(&oauth2.Token{AccessToken: "new_token", RefreshToken: "new_refresh"})
			if err != nil {
				t.Fatalf("expected no error with empty path, got %v", err)
			}
			if config.Credentials.Spotify.AccessToken != "new_token" {
				t.Error("expected config to be updated in memory")
			}
		})

		t.Run("handles SaveConfig failure", func(t *testing.T) {
			invalidPath := filepath.Join(t.TempDir(), "missing", "dir", "config.toml")
			runner := NewRunner(RunnerOpts{Config: shared.DefaultConfig(), ConfigPath: invalidPath})

			err := runner.saveTokens(&oauth2.Token{AccessToken: "test"})
			if err == nil {
				t.Fatal("expected error with invalid path")
			}
			if !strings.Contains(err.Error(), "failed to save config") {
				t.Errorf("expected save config error, got %v", err)
			}
		})

		t.Run("handles Update error", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: shared.DefaultConfig()})

			err := runner.saveTokens(nil)
			if err == nil {
				t.Fatal("expected error when Update fails with nil token")
			}
			if !strings.Contains(err.Error(), "failed to update spotify configuration") {
				t.Errorf("expected update error, got %v", err)
			}
			if !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument in chain, got %v", err)
			}
		})
	})

	t.Run("tokenSource", func(t *testing.T) {
		t.Run("client credentials without a stored token", func(t *testing.T) {
			config := shared.DefaultConfig()
			runner := NewRunner(RunnerOpts{Config: config, Logger: shared.NopLogger()})

			ts, err := runner.tokenSource()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if _, ok := ts.(*auth.Manager); !ok {
				t.Errorf("expected *auth.Manager, got %T", ts)
			}
			if got, _ := runner.tokenSource(); got != ts {
				t.Error("expected token source to be reused")
			}
		})

		t.Run("missing credentials", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Credentials.Spotify.ClientID = ""
			runner := NewRunner(RunnerOpts{Config: config, Logger: shared.NopLogger()})

			_, err := runner.tokenSource()
			if !errors.Is(err, auth.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("stored refresh token persists rotated tokens", func(t *testing.T) {
			tokenSrv := tu.NewAPIServer(t, map[string]http.HandlerFunc{
				"POST /api/token": func(w http.ResponseWriter, r *http.Request) {
					tu.WriteJSON(w, http.StatusOK, map[string]any{
						"access_token":  "fresh",
						"token_type":    "Bearer",
						"expires_in":    3600,
						"refresh_token": "rotated",
					})
				},
			})

			configPath := filepath.Join(t.TempDir(), "config.toml")
			config := shared.DefaultConfig()
			config.Credentials.Spotify.RefreshToken = "stored"
			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: configPath,
				Logger:     shared.NopLogger(),
				HTTPClient: &http.Client{Transport: redirectTransport(tokenSrv.URL)},
			})

			ts, err := runner.tokenSource()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			tok, err := ts.Token(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if tok.AccessToken != "fresh" {
				t.Errorf("expected fresh token, got %s", tok.AccessToken)
			}

			loaded, err := shared.LoadConfig(configPath)
			if err != nil {
				t.Fatalf("failed to reload config: %v", err)
			}
			if loaded.Credentials.Spotify.RefreshToken != "rotated" || loaded.Credentials.Spotify.AccessToken != "fresh" {
				t.Errorf("expected rotated tokens on disk, got %+v", loaded.Credentials.Spotify)
			}
		})
	})
}

func TestCatalogCommands(t *testing.T) {
	handlers := map[string]http.HandlerFunc{
		"GET /tracks/t1": func(w http.ResponseWriter, r *http.Request) {
			tu.WriteJSON(w, http.StatusOK, tu.TrackJSON("t1", "Opening", "Band", 201000))
		},
		"GET /tracks": func(w http.ResponseWriter, r *http.Request) {
			tu.WriteJSON(w, http.StatusOK, map[string]any{"tracks": []any{
				tu.TrackJSON("t1", "Opening", "Band", 201000),
				nil,
			}})
		},
		"GET /albums/a1/tracks": func(w http.ResponseWriter, r *http.Request) {
			items := []any{
				tu.SimplifiedTrackJSON("s1", "One", "Band", 60000),
				tu.SimplifiedTrackJSON("s2", "Two", "Band", 60000),
			}
			tu.WriteJSON(w, http.StatusOK, tu.PageJSON("http://api/albums/a1/tracks", items, 0, 2, 5))
		},
		"GET /search": func(w http.ResponseWriter, r *http.Request) {
			page := tu.PageJSON("http://api/search", []any{tu.TrackJSON("t1", "Opening", "Band", 201000)}, 0, 10, 1)
			tu.WriteJSON(w, http.StatusOK, map[string]any{"tracks": page})
		},
	}

	t.Run("track", func(t *testing.T) {
		runner, output, srv := testRunner(t, handlers)

		if err := runCommand(runner, "track", "spotify:track:t1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		result := output.String()
		for _, want := range []string{"Opening", "Artists: Band", "Duration: 3:21", "ISRC: ISRCt1"} {
			if !strings.Contains(result, want) {
				t.Errorf("expected %q in output, got %s", want, result)
			}
		}
		req, _ := srv.Request(0)
		if got := req.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("expected bearer token, got %q", got)
		}
	})

	t.Run("track json", func(t *testing.T) {
		runner, output, _ := testRunner(t, handlers)

		if err := runCommand(runner, "track", "--json", "--pretty=false", "t1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var decoded map[string]any
		if err := json.Unmarshal(output.Bytes(), &decoded); err != nil {
			t.Fatalf("expected JSON output, got %s", output.String())
		}
		if decoded["duration_ms"] != float64(201000) {
			t.Errorf("expected duration_ms 201000, got %v", decoded["duration_ms"])
		}
	})

	t.Run("tracks skips unknown ids", func(t *testing.T) {
		runner, output, srv := testRunner(t, handlers)

		if err := runCommand(runner, "tracks", "--format", "csv", "t1", "missing"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		lines := strings.Split(strings.TrimSpace(output.String()), "\n")
		if len(lines) != 2 {
			t.Errorf("expected header and one row, got %d lines: %s", len(lines), output.String())
		}
		req, _ := srv.Request(0)
		if got := req.URL.Query().Get("ids"); got != "t1,missing" {
			t.Errorf("expected ids t1,missing, got %q", got)
		}
	})

	t.Run("album tracks page", func(t *testing.T) {
		runner, output, srv := testRunner(t, handlers)

		if err := runCommand(runner, "album", "tracks", "--limit", "2", "a1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		result := output.String()
		if !strings.Contains(result, "1. Band - One") || !strings.Contains(result, "2. Band - Two") {
			t.Errorf("expected numbered tracks, got %s", result)
		}
		if !strings.Contains(result, "Showing 1-2 of 5 (next: --offset 2, or --all)") {
			t.Errorf("expected page footer, got %s", result)
		}
		req, _ := srv.Request(0)
		if got := req.URL.Query().Get("limit"); got != "2" {
			t.Errorf("expected limit 2, got %q", got)
		}
	})

	t.Run("search", func(t *testing.T) {
		runner, output, srv := testRunner(t, handlers)

		if err := runCommand(runner, "search", "--type", "track", "opening", "band"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if !strings.Contains(output.String(), "Tracks (1)") || !strings.Contains(output.String(), "1. Band - Opening") {
			t.Errorf("unexpected output %s", output.String())
		}
		req, _ := srv.Request(0)
		if q := req.URL.Query(); q.Get("q") != "opening band" || q.Get("type") != "track" {
			t.Errorf("unexpected query %v", q)
		}
	})

	t.Run("validation happens before any request", func(t *testing.T) {
		tests := []struct {
			name string
			args []string
			want error
		}{
			{"wrong kind", []string{"track", "spotify:album:a1"}, client.ErrInvalidArgument},
			{"missing track", []string{"track"}, shared.ErrMissingArgument},
			{"unknown search type", []string{"search", "--type", "show", "q"}, client.ErrInvalidArgument},
			{"unknown format", []string{"tracks", "--format", "xml", "t1"}, shared.ErrInvalidArgument},
			{"top tracks without market", []string{"artist", "top-tracks", "ar1"}, shared.ErrMissingArgument},
			{"too many features", []string{"features"}, client.ErrInvalidArgument},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				runner, _, srv := testRunner(t, handlers)

				err := runCommand(runner, tt.args...)
				if !errors.Is(err, tt.want) {
					t.Errorf("expected %v, got %v", tt.want, err)
				}
				if tt.name != "unknown format" && srv.Hits() != 0 {
					t.Errorf("expected no requests, got %d", srv.Hits())
				}
			})
		}
	})

	t.Run("not found", func(t *testing.T) {
		runner, _, _ := testRunner(t, handlers)

		err := runCommand(runner, "track", "nope")
		if !errors.Is(err, client.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestPlaylistCommands(t *testing.T) {
	snapshot := func(w http.ResponseWriter, r *http.Request) {
		tu.WriteJSON(w, http.StatusOK, map[string]any{"snapshot_id": "snap-2"})
	}
	handlers := map[string]http.HandlerFunc{
		"POST /playlists/p1/tracks":   snapshot,
		"PUT /playlists/p1/tracks":    snapshot,
		"DELETE /playlists/p1/tracks": snapshot,
	}

	t.Run("add", func(t *testing.T) {
		runner, output, srv := testRunner(t, handlers)

		if err := runCommand(runner, "playlist", "add", "--position", "3", "p1", "t1", "spotify:track:t2"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		_, body := srv.Request(0)
		var decoded struct {
			URIs     []string `json:"uris"`
			Position *int     `json:"position"`
		}
		if err := json.Unmarshal([]byte(body), &decoded); err != nil {
			t.Fatalf("invalid body %s", body)
		}
		if len(decoded.URIs) != 2 || decoded.URIs[1] != "spotify:track:t2" {
			t.Errorf("unexpected uris %v", decoded.URIs)
		}
		if decoded.Position == nil || *decoded.Position != 3 {
			t.Errorf("expected position 3, got %v", decoded.Position)
		}
		if !strings.Contains(output.String(), "Snapshot: snap-2") {
			t.Errorf("expected snapshot in output, got %s", output.String())
		}
	})

	t.Run("add appends without position", func(t *testing.T) {
		runner, _, srv := testRunner(t, handlers)

		if err := runCommand(runner, "playlist", "add", "p1", "t1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, body := srv.Request(0); strings.Contains(body, "position") {
			t.Errorf("expected no position, got %s", body)
		}
	})

	t.Run("remove merges positions per track", func(t *testing.T) {
		runner, _, srv := testRunner(t, handlers)

		err := runCommand(runner, "playlist", "remove",
			"--track", "t1@0", "--track", "t2@4", "--track", "t1@7", "--snapshot", "snap-1", "p1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		req, body := srv.Request(0)
		if req.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", req.Method)
		}
		expected := `{"tracks":[{"uri":"spotify:track:t1","positions":[0,7]},{"uri":"spotify:track:t2","positions":[4]}],"snapshot_id":"snap-1"}`
		if strings.TrimSpace(body) != expected {
			t.Errorf("expected %s, got %s", expected, body)
		}
	})

	t.Run("reorder", func(t *testing.T) {
		runner, output, srv := testRunner(t, handlers)

		if err := runCommand(runner, "playlist", "reorder", "--start", "5", "--before", "0", "p1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		_, body := srv.Request(0)
		if !strings.Contains(body, `"range_start":5`) || !strings.Contains(body, `"range_length":1`) {
			t.Errorf("unexpected body %s", body)
		}
		if !strings.Contains(output.String(), "Moved 1 items from 5 to before 0") {
			t.Errorf("unexpected output %s", output.String())
		}
	})
}

func TestParseTrackPositions(t *testing.T) {
	tests := []struct {
		arg      string
		id        string
		positions []int
		wantErr   bool
	}{
		{arg: "t1@3", id: "t1", positions: []int{3}},
		{arg: "spotify:track:t1@0,4", id: "spotify:track:t1", positions: []int{0, 4}},
		{arg: "t1", wantErr: true},
		{arg: "@3", wantErr: true},
		{arg: "t1@", wantErr: true},
		{arg: "t1@x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			tp, err := parseTrackPositions(tt.arg)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrInvalidArgument) {
					t.Errorf("expected ErrInvalidArgument, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if tp.ID != tt.id || len(tp.Positions) != len(tt.positions) {
				t.Errorf("expected %s %v, got %+v", tt.id, tt.positions, tp)
			}
			for i := range tt.positions {
				if tp.Positions[i] != tt.positions[i] {
					t.Errorf("expected %v, got %v", tt.positions, tp.Positions)
				}
			}
		})
	}
}

func TestExportCommand(t *testing.T) {
	var srv *tu.APIServer
	runner, output, srv := testRunner(t, map[string]http.HandlerFunc{
		"GET /playlists/p1": func(w http.ResponseWriter, r *http.Request) {
			p := tu.PlaylistJSON("p1", "Road Trip", 1)
			p["followers"] = map[string]any{"href": nil, "total": 3}
			p["tracks"] = tu.PageJSON(srv.URL+"/playlists/p1/tracks", []any{
				tu.PlaylistItemJSON(tu.TrackJSON("t1", "Opening", "Band", 201000)),
			}, 0, 100, 1)
			tu.WriteJSON(w, http.StatusOK, p)
		},
	})
	dir := t.TempDir()

	err := runCommand(runner, "export", "--id", "p1", "--id", "gone", "--format", "csv", "--out", dir, "--rate", "100")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	tu.AssertFileExists(t, filepath.Join(dir, "p1.csv"))
	tu.AssertFileExists(t, filepath.Join(dir, "export_manifest.json"))

	result := output.String()
	if !strings.Contains(result, "1 succeeded, 1 failed") {
		t.Errorf("expected summary, got %s", result)
	}
	if !strings.Contains(result, "Unknown (gone)") {
		t.Errorf("expected failed playlist listed, got %s", result)
	}

	t.Run("requires playlists", func(t *testing.T) {
		runner, _, _ := testRunner(t, nil)
		err := runCommand(runner, "export", "--out", t.TempDir())
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}

func TestSetup(t *testing.T) {
	runner, output, _ := testRunner(t, nil)
	configPath := filepath.Join(t.TempDir(), "config.toml")

	if err := runCommand(runner, "setup", "--config", configPath); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	tu.AssertFileExists(t, configPath)
	if !strings.Contains(output.String(), "spotx auth login") {
		t.Errorf("expected next steps, got %s", output.String())
	}

	if err := runCommand(runner, "setup", "--config", configPath); err == nil {
		t.Error("expected error when config already exists")
	}
}

func TestAuthToken(t *testing.T) {
	runner, output, _ := testRunner(t, nil)

	if err := runCommand(runner, "auth", "token", "--show"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	result := output.String()
	if !strings.Contains(result, "Grant: client credentials") || !strings.Contains(result, "Expires: never") {
		t.Errorf("unexpected output %s", result)
	}
	if !strings.Contains(result, "Access token: test-token") {
		t.Errorf("expected token in output, got %s", result)
	}
}

func TestCallbackAddr(t *testing.T) {
	tests := []struct {
		redirect string
		addr     string
		path     string
		wantErr  bool
	}{
		{redirect: "http://127.0.0.1:8888/cb", addr: "127.0.0.1:8888", path: "/cb"},
		{redirect: "", addr: "127.0.0.1:3000", path: "/callback"},
		{redirect: "http://localhost/callback", addr: "localhost:3000", path: "/callback"},
		{redirect: "http://127.0.0.1:abc/cb", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.redirect, func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Credentials.Spotify.RedirectURI = tt.redirect
			runner := NewRunner(RunnerOpts{Config: config})

			addr, path, err := runner.callbackAddr()
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if addr != tt.addr || path != tt.path {
				t.Errorf("expected %s%s, got %s%s", tt.addr, tt.path, addr, path)
			}
		})
	}
}

func TestDoOAuthTimeout(t *testing.T) {
	config := shared.DefaultConfig()
	config.Credentials.Spotify.RedirectURI = "http://127.0.0.1:0/callback"
	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{Config: config, Output: output, Logger: shared.NopLogger()})

	m, err := auth.NewAuthorizationCode(runner.credentials(), auth.DefaultScopes)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	_, err = runner.doOAuth(context.Background(), m, 100*time.Millisecond, false)
	if !errors.Is(err, shared.ErrTimeout) {
		t.Errorf("expected ErrTimeout, got %v", err)
	}
	if !strings.Contains(output.String(), "accounts.spotify.com/authorize") {
		t.Errorf("expected authorization URL in output, got %s", output.String())
	}
}
