package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/desertthunder/spotx/internal/formatter"
	"github.com/desertthunder/spotx/internal/shared"
	"golang.org/x/time/rate"
)

// BulkExportOpts contains configuration for bulk playlist exports.
type BulkExportOpts struct {
	Format     formatter.Format // Output format
	OutputDir  string           // Base output directory (default: spotify_export_{epoch})
	NumWorkers int              // Concurrent workers (default: 5, at most 10)
	RateLimit  float64          // Playlist fetches per second (default: 5)
	Covers     bool             // Download cover images for Markdown exports
}

// PlaylistExportResult is the outcome for one playlist.
type PlaylistExportResult struct {
	PlaylistID   string `json:"playlist_id"`
	PlaylistName string `json:"playlist_name"`
	Tracks       int    `json:"tracks"`
	File         string `json:"file,omitempty"`
	Error        string `json:"error,omitempty"`
	Success      bool   `json:"success"`
}

// BulkExportResult summarizes a bulk export.
type BulkExportResult struct {
	TotalPlaylists    int                    `json:"total_playlists"`
	SuccessfulExports int                    `json:"successful_exports"`
	FailedExports     int                    `json:"failed_exports"`
	Format            formatter.Format       `json:"format"`
	OutputDirectory   string                 `json:"output_directory"`
	ExportedAt        time.Time              `json:"exported_at"`
	Results           []PlaylistExportResult `json:"results"`
	ManifestPath      string                 `json:"-"`
}

// BulkExport exports playlists concurrently with paced fetches and progress tracking.
//
// A failed playlist is recorded in the result and does not stop the others.
// The returned error is reserved for setup failures, cancellation and the manifest write.
func (e *Exporter) BulkExport(ctx context.Context, prog chan<- ProgressUpdate, ids []string, opts BulkExportOpts) (*BulkExportResult, error) {
	if e.client == nil {
		return nil, fmt.Errorf("%w: client not initialized", shared.ErrServiceUnavailable)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no playlists to export", shared.ErrMissingArgument)
	}

	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("spotify_export_%d", time.Now().Unix())
	}
	opts.NumWorkers = min(max(opts.NumWorkers, 0), 10)
	if opts.NumWorkers == 0 {
		opts.NumWorkers = 5
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		TotalPlaylists:  len(ids),
		Format:          opts.Format,
		OutputDirectory: opts.OutputDir,
		ExportedAt:      time.Now().UTC(),
		Results:         make([]PlaylistExportResult, 0, len(ids)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan string)
	results := make(chan PlaylistExportResult, len(ids))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for i, id := range ids {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			sendProgress(prog, fetchPlaylistUpdate(i+1, len(ids), id))
			select {
			case jobs <- id:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)
		if res.Success {
			result.SuccessfulExports++
			sendProgress(prog, exportCompletedUpdate(completed, len(ids), res.PlaylistName, res.File))
		} else {
			result.FailedExports++
			sendProgress(prog, exportFailedUpdate(completed, len(ids), res.PlaylistName, fmt.Errorf("%s", res.Error)))
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	data, err := shared.MarshalJSON(result, true)
	if err != nil {
		return result, fmt.Errorf("export completed but failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	sendProgress(prog, manifestUpdate(manifestPath))
	return result, nil
}

func (e *Exporter) exportWorker(ctx context.Context, wg *sync.WaitGroup, jobs <-chan string, results chan<- PlaylistExportResult, opts BulkExportOpts) {
	defer wg.Done()

	for id := range jobs {
		if ctx.Err() != nil {
			return
		}
		results <- e.exportOne(ctx, id, opts)
	}
}

func (e *Exporter) exportOne(ctx context.Context, id string, opts BulkExportOpts) PlaylistExportResult {
	res := PlaylistExportResult{PlaylistID: id, PlaylistName: fmt.Sprintf("Unknown (%s)", id)}

	listing, err := e.FetchPlaylist(ctx, id, nil)
	if err != nil {
		e.logger.Warn("playlist fetch failed", "id", id, "error", err)
		res.Error = err.Error()
		return res
	}
	res.PlaylistName = listing.Title
	res.Tracks = len(listing.Rows)

	var cover []byte
	if opts.Covers && opts.Format == formatter.FormatMarkdown && listing.ImageURL != "" {
		cover, err = formatter.DownloadImage(ctx, e.httpClient, listing.ImageURL)
		if err != nil {
			e.logger.Warn("cover download failed", "id", id, "error", err)
		}
	}

	path, err := formatter.WriteFile(opts.OutputDir, listing, opts.Format, cover)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.File = path
	res.Success = true
	return res
}
