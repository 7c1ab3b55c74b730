// package testing contains shared testing utilities
package testing

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/spotx/models"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites int, target io.Writer) *LimitedWriter {
	return &LimitedWriter{maxWrites: maxWrites, target: target}
}

// MockRoundTripper returns a fixed response or error and counts calls
type MockRoundTripper struct {
	response *http.Response
	err      error
	mu       sync.Mutex
	calls    int
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return m.response, m.err
}

func (m *MockRoundTripper) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// APIServer is an httptest server standing in for the Web API.
// Handlers are keyed by "METHOD /path" and every request is recorded.
type APIServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []*http.Request
	bodies   []string
}

// NewAPIServer starts a server with the given handlers, closed when the test ends.
// Unmatched requests get a 404 in the API's error format.
func NewAPIServer(t *testing.T, handlers map[string]http.HandlerFunc) *APIServer {
	t.Helper()

	s := &APIServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		s.mu.Lock()
		s.requests = append(s.requests, r)
		s.bodies = append(s.bodies, string(body))
		s.mu.Unlock()

		if h, ok := handlers[r.Method+" "+r.URL.Path]; ok {
			h(w, r)
			return
		}
		WriteAPIError(w, http.StatusNotFound, "Non existing id")
	}))
	t.Cleanup(s.Close)
	return s
}

// Hits returns the number of requests served.
func (s *APIServer) Hits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// Request returns the i-th request and its body.
func (s *APIServer) Request(i int) (*http.Request, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[i], s.bodies[i]
}

// WriteJSON encodes v as the response body.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteAPIError writes an error object the way the Web API does.
func WriteAPIError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]any{"error": map[string]any{"status": status, "message": message}})
}

// TrackJSON builds the wire form of a full track.
func TrackJSON(id, name, artist string, ms int) map[string]any {
	t := SimplifiedTrackJSON(id, name, artist, ms)
	t["album"] = map[string]any{
		"album_type":    "album",
		"artists":       []any{ArtistJSON(artist)},
		"external_urls": map[string]string{"spotify": "https://open.spotify.com/album/alb" + id},
		"href":          "https://api.spotify.com/v1/albums/alb" + id,
		"id":            "alb" + id,
		"images":        []any{},
		"name":          "Album " + name,
		"type":          "album",
		"uri":           "spotify:album:alb" + id,
	}
	t["external_ids"] = map[string]string{"isrc": "ISRC" + id}
	t["popularity"] = 50
	return t
}

// SimplifiedTrackJSON builds the wire form of a simplified track.
func SimplifiedTrackJSON(id, name, artist string, ms int) map[string]any {
	return map[string]any{
		"artists":           []any{ArtistJSON(artist)},
		"available_markets": []string{"US"},
		"disc_number":       1,
		"duration_ms":       ms,
		"explicit":          false,
		"external_urls":     map[string]string{"spotify": "https://open.spotify.com/track/" + id},
		"href":              "https://api.spotify.com/v1/tracks/" + id,
		"id":                id,
		"is_local":          false,
		"name":              name,
		"preview_url":       nil,
		"track_number":      1,
		"type":              "track",
		"uri":               "spotify:track:" + id,
	}
}

// ArtistJSON builds the wire form of a simplified artist.
func ArtistJSON(name string) map[string]any {
	id := strings.ToLower(strings.ReplaceAll(name, " ", ""))
	return map[string]any{
		"external_urls": map[string]string{"spotify": "https://open.spotify.com/artist/" + id},
		"href":          "https://api.spotify.com/v1/artists/" + id,
		"id":            id,
		"name":          name,
		"type":          "artist",
		"uri":           "spotify:artist:" + id,
	}
}

// PlaylistJSON builds the wire form of a simplified playlist.
func PlaylistJSON(id, name string, total int) map[string]any {
	return map[string]any{
		"collaborative": false,
		"description":   "",
		"external_urls": map[string]string{"spotify": "https://open.spotify.com/playlist/" + id},
		"href":          "https://api.spotify.com/v1/playlists/" + id,
		"id":            id,
		"images":        []any{},
		"name":          name,
		"owner": map[string]any{
			"display_name":  "Owner",
			"external_urls": map[string]string{},
			"href":          "https://api.spotify.com/v1/users/owner",
			"id":            "owner",
			"type":          "user",
			"uri":           "spotify:user:owner",
		},
		"public":      true,
		"snapshot_id": "snap-" + id,
		"tracks":      map[string]any{"href": "https://api.spotify.com/v1/playlists/" + id + "/tracks", "total": total},
		"type":        "playlist",
		"uri":         "spotify:playlist:" + id,
	}
}

// PlaylistItemJSON wraps a track as a playlist item.
func PlaylistItemJSON(track map[string]any) map[string]any {
	return map[string]any{
		"added_at": time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Format(time.RFC3339),
		"added_by": nil,
		"is_local": false,
		"track":    track,
	}
}

// PageJSON builds a paging envelope. base is the absolute URL of the listing;
// next and previous links are derived from offset, limit and total.
func PageJSON(base string, items []any, offset, limit, total int) map[string]any {
	link := func(off int) string {
		return fmt.Sprintf("%s?offset=%d&limit=%d", base, off, limit)
	}

	if items == nil {
		items = []any{}
	}
	page := map[string]any{
		"href":     link(offset),
		"items":    items,
		"limit":    limit,
		"next":     nil,
		"offset":   offset,
		"previous": nil,
		"total":    total,
	}
	if offset+limit < total {
		page["next"] = link(offset + limit)
	}
	if offset > 0 {
		page["previous"] = link(max(offset-limit, 0))
	}
	return page
}

// FullTrack decodes [TrackJSON] into a model.
func FullTrack(t *testing.T, id, name, artist string, ms int) models.FullTrack {
	t.Helper()

	data, err := json.Marshal(TrackJSON(id, name, artist, ms))
	if err != nil {
		t.Fatalf("failed to encode track: %v", err)
	}
	var track models.FullTrack
	if err := json.Unmarshal(data, &track); err != nil {
		t.Fatalf("failed to decode track: %v", err)
	}
	return track
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
