// package formatter renders track listings as JSON, CSV, Markdown or plain text
package formatter

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/spotx/internal/shared"
	"github.com/desertthunder/spotx/models"
)

// Format names an output format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
)

// ParseFormat accepts a format name or a common alias.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	}
	return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
}

// Extension returns the file extension for f.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatText:
		return ".txt"
	}
	return "." + string(f)
}

// Row is one rendered track.
type Row struct {
	Position int           `json:"position"`
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Artists  []string      `json:"artists"`
	Album    string        `json:"album,omitempty"`
	Duration time.Duration `json:"-"`
	ISRC     string        `json:"isrc,omitempty"`
	URI      string        `json:"uri"`
	Explicit bool          `json:"explicit"`
	Playable bool          `json:"playable"`
}

// Listing is a titled list of tracks taken from a playlist, album or library.
type Listing struct {
	ID          string `json:"id,omitempty"`
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Owner       string `json:"owner,omitempty"`
	Public      *bool  `json:"public,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	Total       int    `json:"total"`
	Rows        []Row  `json:"tracks"`
}

func stringOr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// FullTrackRow converts a full track.
func FullTrackRow(pos int, t models.FullTrack) Row {
	return Row{
		Position: pos,
		ID:       stringOr(t.ID),
		Name:     t.Name,
		Artists:  models.ArtistNames(t.Artists),
		Album:    t.Album.Name,
		Duration: t.Duration.Std(),
		ISRC:     t.ExternalIDs["isrc"],
		URI:      t.URI,
		Explicit: t.Explicit,
		Playable: t.Relinking.Playable(),
	}
}

// SimplifiedTrackRow converts an album track, which carries no album of its own.
func SimplifiedTrackRow(pos int, t models.SimplifiedTrack, album string) Row {
	return Row{
		Position: pos,
		ID:       stringOr(t.ID),
		Name:     t.Name,
		Artists:  models.ArtistNames(t.Artists),
		Album:    album,
		Duration: t.Duration.Std(),
		URI:      t.URI,
		Explicit: t.Explicit,
		Playable: t.Relinking.Playable(),
	}
}

// FromPlaylist builds a listing from a playlist and its items. Episodes and removed tracks are skipped.
func FromPlaylist(p *models.FullPlaylist, items []models.PlaylistTrack) *Listing {
	l := &Listing{
		ID:          p.ID,
		Kind:        string(models.TypePlaylist),
		Title:       p.Name,
		Description: stringOr(p.Description),
		Owner:       p.Owner.Name(),
		Public:      p.Public,
		Total:       p.Tracks.Total,
	}
	if len(p.Images) > 0 {
		l.ImageURL = p.Images[0].URL
	}
	for i, item := range items {
		if item.Track == nil {
			continue
		}
		l.Rows = append(l.Rows, FullTrackRow(i+1, *item.Track))
	}
	return l
}

// FromAlbum builds a listing from an album's tracks.
func FromAlbum(id, name string, artists []models.SimplifiedArtist, tracks []models.SimplifiedTrack) *Listing {
	l := &Listing{
		ID:    id,
		Kind:  string(models.TypeAlbum),
		Title: name,
		Owner: strings.Join(models.ArtistNames(artists), ", "),
		Total: len(tracks),
	}
	for i, t := range tracks {
		l.Rows = append(l.Rows, SimplifiedTrackRow(i+1, t, name))
	}
	return l
}

// FromTracks builds an untyped listing of full tracks.
func FromTracks(title string, tracks []models.FullTrack) *Listing {
	l := &Listing{Kind: string(models.TypeTrack), Title: title, Total: len(tracks)}
	for i, t := range tracks {
		l.Rows = append(l.Rows, FullTrackRow(i+1, t))
	}
	return l
}

// Render writes l to w in format f.
func Render(w io.Writer, l *Listing, f Format) error {
	var (
		data []byte
		err  error
	)
	switch f {
	case FormatJSON:
		data, err = ToJSON(l)
	case FormatCSV:
		data, err = ToCSV(l)
	case FormatMarkdown:
		data, err = ToMarkdown(l, "")
	case FormatText:
		data, err = ToText(l)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, f)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

type jsonRow struct {
	Row
	DurationMS int64  `json:"duration_ms"`
	Length     string `json:"length"`
}

// ToJSON renders the listing as indented JSON with durations in milliseconds.
func ToJSON(l *Listing) ([]byte, error) {
	rows := make([]jsonRow, len(l.Rows))
	for i, r := range l.Rows {
		rows[i] = jsonRow{Row: r, DurationMS: r.Duration.Milliseconds(), Length: shared.FormatDuration(r.Duration)}
	}

	out := struct {
		*Listing
		Rows []jsonRow `json:"tracks"`
	}{l, rows}
	return shared.MarshalJSON(out, true)
}

// ToCSV renders one record per track with a header row.
func ToCSV(l *Listing) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "ID", "Name", "Artists", "Album", "Duration", "DurationMS", "ISRC", "URI", "Explicit"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, r := range l.Rows {
		record := []string{
			strconv.Itoa(r.Position),
			r.ID,
			r.Name,
			strings.Join(r.Artists, "; "),
			r.Album,
			shared.FormatDuration(r.Duration),
			strconv.FormatInt(r.Duration.Milliseconds(), 10),
			r.ISRC,
			r.URI,
			strconv.FormatBool(r.Explicit),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// ToMarkdown renders the listing as a Markdown document, with a cover image when coverFile is set.
func ToMarkdown(l *Listing, coverFile string) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", l.Title)
	if coverFile != "" {
		fmt.Fprintf(&buf, "![Cover](%s)\n\n", coverFile)
	}
	if l.Description != "" {
		fmt.Fprintf(&buf, "**Description**: %s\n\n", l.Description)
	}
	if l.Owner != "" {
		fmt.Fprintf(&buf, "**By**: %s\n", l.Owner)
	}
	fmt.Fprintf(&buf, "**Tracks**: %d\n", len(l.Rows))
	if l.Public != nil {
		fmt.Fprintf(&buf, "**Visibility**: %s\n", shared.VisibilityString(*l.Public))
	}
	fmt.Fprintf(&buf, "**Length**: %s\n\n", shared.FormatDuration(l.Length()))

	buf.WriteString("## Tracks\n\n")
	buf.WriteString("| # | Title | Artists | Album | Length |\n")
	buf.WriteString("|---|-------|---------|-------|--------|\n")
	for _, r := range l.Rows {
		fmt.Fprintf(&buf, "| %d | %s | %s | %s | %s |\n",
			r.Position, escapeCell(r.Name), escapeCell(strings.Join(r.Artists, ", ")), escapeCell(r.Album), shared.FormatDuration(r.Duration))
	}
	return buf.Bytes(), nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// ToText renders a numbered plain text list.
func ToText(l *Listing) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%s\n", l.Title)
	if l.Description != "" {
		fmt.Fprintf(&buf, "%s\n", l.Description)
	}
	fmt.Fprintf(&buf, "Tracks: %d (%s)\n\n", len(l.Rows), shared.FormatDuration(l.Length()))

	for _, r := range l.Rows {
		marker := ""
		if r.Explicit {
			marker = " [E]"
		}
		fmt.Fprintf(&buf, "%d. %s - %s%s [%s]\n", r.Position, strings.Join(r.Artists, ", "), r.Name, marker, shared.FormatDuration(r.Duration))
	}
	return buf.Bytes(), nil
}

// Length sums the track durations.
func (l *Listing) Length() time.Duration {
	var total time.Duration
	for _, r := range l.Rows {
		total += r.Duration
	}
	return total
}

// DownloadImage fetches an image with hc, which defaults to a client with a 30 second timeout.
func DownloadImage(ctx context.Context, hc *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty image URL", shared.ErrInvalidArgument)
	}
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	return data, nil
}

// FileName returns a filesystem-safe base name for the listing.
func FileName(l *Listing) string {
	name := l.ID
	if name == "" {
		name = l.Title
	}
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		}
		return -1
	}, name)
	if name == "" {
		return "listing"
	}
	return name
}

// WriteFile renders l into dir and returns the written path.
//
// Markdown exports get their own directory holding README.md and, when cover holds
// image bytes, cover.jpg.
func WriteFile(dir string, l *Listing, f Format, cover []byte) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	if f == FormatMarkdown {
		return writeMarkdown(filepath.Join(dir, FileName(l)), l, cover)
	}

	var buf bytes.Buffer
	if err := Render(&buf, l, f); err != nil {
		return "", err
	}

	path := filepath.Join(dir, FileName(l)+f.Extension())
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

func writeMarkdown(dir string, l *Listing, cover []byte) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	var coverFile string
	if len(cover) > 0 {
		coverFile = "cover.jpg"
		if err := os.WriteFile(filepath.Join(dir, coverFile), cover, 0644); err != nil {
			return "", fmt.Errorf("failed to write cover image: %w", err)
		}
	}

	data, err := ToMarkdown(l, coverFile)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, "README.md")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}
	return path, nil
}
