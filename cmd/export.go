package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spotx/client"
	"github.com/desertthunder/spotx/internal/formatter"
	"github.com/desertthunder/spotx/internal/shared"
	"github.com/desertthunder/spotx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Export writes playlists to files with a pool of workers and prints progress as it goes.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	exp, err := r.exporter()
	if err != nil {
		return err
	}

	ids := cmd.StringSlice("id")
	if cmd.Bool("mine") {
		mine, err := r.myPlaylistIDs(ctx)
		if err != nil {
			return err
		}
		ids = append(ids, mine...)
	}
	if len(ids) == 0 {
		return fmt.Errorf("%w: pass --id or --mine", shared.ErrMissingArgument)
	}

	opts := tasks.BulkExportOpts{
		Format:     format,
		OutputDir:  cmd.String("out"),
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
		Covers:     cmd.Bool("covers"),
	}

	r.logger.Info("starting export", "playlists", len(ids), "format", format, "workers", opts.NumWorkers)

	prog := make(chan tasks.ProgressUpdate, 100)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for u := range prog {
			switch u.Phase {
			case tasks.ExportPlaylist, tasks.WriteManifest:
				r.writePlain("%s\n", u.Message)
			default:
				r.logger.Debug(u.Message, "phase", u.Phase, "step", u.Step, "total", u.Total)
			}
		}
	}()

	result, err := exp.BulkExport(ctx, prog, ids, opts)
	close(prog)
	<-done
	if err != nil {
		return err
	}

	r.writePlainln("✓ Export finished: %d succeeded, %d failed", result.SuccessfulExports, result.FailedExports)
	r.writePlain("  Output: %s\n", result.OutputDirectory)
	r.writePlain("  Manifest: %s\n", result.ManifestPath)
	if result.FailedExports > 0 {
		r.writePlain("\nFailed playlists:\n")
		for _, res := range result.Results {
			if !res.Success {
				r.writePlain("  • %s: %s\n", res.PlaylistName, res.Error)
			}
		}
	}
	return nil
}

func (r *Runner) myPlaylistIDs(ctx context.Context) ([]string, error) {
	c, err := r.apiClient()
	if err != nil {
		return nil, err
	}

	first, err := c.CurrentUserPlaylists(ctx, &client.PageOptions{Limit: 50})
	if err != nil {
		return nil, err
	}

	var ids []string
	for p, err := range client.Iterate(c, first).All(ctx) {
		if err != nil {
			return nil, err
		}
		ids = append(ids, p.ID)
	}
	return ids, nil
}
