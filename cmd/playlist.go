package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/spotx/client"
	"github.com/desertthunder/spotx/internal/formatter"
	"github.com/desertthunder/spotx/internal/shared"
	"github.com/desertthunder/spotx/models"
	"github.com/urfave/cli/v3"
)

// PlaylistList lists the current user's playlists, or a user's public playlists with --user.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	c, err := r.apiClient()
	if err != nil {
		return err
	}

	var page *models.Paging[models.SimplifiedPlaylist]
	if user := cmd.String("user"); user != "" {
		page, err = c.UserPlaylists(ctx, user, pageOptions(cmd))
	} else {
		page, err = c.CurrentUserPlaylists(ctx, pageOptions(cmd))
	}
	if err != nil {
		return err
	}

	playlists := page.Items
	if cmd.Bool("all") {
		if playlists, err = client.Collect(ctx, client.Iterate(c, page)); err != nil {
			return err
		}
	}

	r.writePlain("Found %d playlists:\n\n", page.Total)
	for i, p := range playlists {
		r.writePlain("%d. %s\n", page.Offset+i+1, p.Name)
		if p.Description != nil && *p.Description != "" {
			r.writePlain("   Description: %s\n", *p.Description)
		}
		r.writePlain("   ID: %s\n", p.ID)
		r.writePlain("   Owner: %s\n", p.Owner.Name())
		r.writePlain("   Tracks: %d\n", p.Tracks.Total)
		if p.Public != nil {
			r.writePlain("   Visibility: %s\n", shared.VisibilityString(*p.Public))
		}
		r.writePlain("\n")
	}
	if cmd.Bool("all") {
		return nil
	}
	return r.pageFooter(cmd, page.Offset, len(playlists), page.Total, page.HasNext())
}

// PlaylistShow prints a playlist's details.
func (r *Runner) PlaylistShow(ctx context.Context, cmd *cli.Command) error {
	id, err := firstArg(cmd, "playlist")
	if err != nil {
		return err
	}
	c, err := r.apiClient()
	if err != nil {
		return err
	}

	playlist, err := c.Playlist(ctx, id, cmd.String("market"))
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(playlist, cmd.Bool("pretty"))
	}

	r.writePlainHeader(playlist.Name)
	if playlist.Description != nil && *playlist.Description != "" {
		r.writePlain("Description: %s\n", *playlist.Description)
	}
	r.writePlain("Owner: %s\n", playlist.Owner.Name())
	r.writePlain("Tracks: %d\n", playlist.Tracks.Total)
	r.writePlain("Followers: %d\n", playlist.Followers.Total)
	if playlist.Public != nil {
		r.writePlain("Visibility: %s\n", shared.VisibilityString(*playlist.Public))
	}
	if playlist.Collaborative {
		r.writePlain("Collaborative: yes\n")
	}
	r.writePlain("Snapshot: %s\n", playlist.SnapshotID)
	r.writePlain("URI: %s\n", playlist.URI)
	return nil
}

// PlaylistTracks lists one page of a playlist's items, or all of them with --all.
func (r *Runner) PlaylistTracks(ctx context.Context, cmd *cli.Command) error {
	id, err := firstArg(cmd, "playlist")
	if err != nil {
		return err
	}

	if cmd.Bool("all") {
		exp, err := r.exporter()
		if err != nil {
			return err
		}
		listing, err := exp.FetchPlaylist(ctx, id, nil)
		if err != nil {
			return err
		}
		return r.writeListing(listing, cmd.String("format"))
	}

	c, err := r.apiClient()
	if err != nil {
		return err
	}
	page, err := c.PlaylistTracks(ctx, id, pageOptions(cmd))
	if err != nil {
		return err
	}

	listing := &formatter.Listing{Kind: string(models.TypePlaylist), Title: id, Total: page.Total}
	for i, item := range page.Items {
		if item.Track == nil {
			continue
		}
		listing.Rows = append(listing.Rows, formatter.FullTrackRow(page.Offset+i+1, *item.Track))
	}
	if err := r.writeListing(listing, cmd.String("format")); err != nil {
		return err
	}
	return r.pageFooter(cmd, page.Offset, len(page.Items), page.Total, page.HasNext())
}

// PlaylistCreate creates a playlist owned by the current user.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	name, err := firstArg(cmd, "name")
	if err != nil {
		return err
	}
	c, err := r.apiClient()
	if err != nil {
		return err
	}

	me, err := c.CurrentUser(ctx)
	if err != nil {
		return err
	}
	playlist, err := c.CreatePlaylist(ctx, me.ID, name, cmd.Bool("public"), cmd.String("description"))
	if err != nil {
		return err
	}

	r.logger.Info("created playlist", "id", playlist.ID, "owner", me.ID)
	r.writePlain("✓ Created playlist %s\n", playlist.Name)
	r.writePlain("  ID: %s\n", playlist.ID)
	return nil
}

// PlaylistAdd adds tracks to a playlist.
func (r *Runner) PlaylistAdd(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) < 2 {
		return fmt.Errorf("%w: playlist and at least one track", shared.ErrMissingArgument)
	}
	c, err := r.apiClient()
	if err != nil {
		return err
	}

	var position *int
	if p := cmd.Int("position"); p >= 0 {
		position = &p
	}

	snapshot, err := c.AddTracksToPlaylist(ctx, args[0], args[1:], position)
	if err != nil {
		return err
	}
	r.writePlain("✓ Added %d tracks\n", len(args)-1)
	r.writePlain("  Snapshot: %s\n", snapshot)
	return nil
}

// PlaylistRemove removes specific occurrences of tracks from a playlist.
func (r *Runner) PlaylistRemove(ctx context.Context, cmd *cli.Command) error {
	id, err := firstArg(cmd, "playlist")
	if err != nil {
		return err
	}

	// Repeated flags for the same track merge into one entry.
	var tracks []models.TrackPositions
	index := map[string]int{}
	for _, arg := range cmd.StringSlice("track") {
		tp, err := parseTrackPositions(arg)
		if err != nil {
			return err
		}
		if i, ok := index[tp.ID]; ok {
			tracks[i].Positions = append(tracks[i].Positions, tp.Positions...)
			continue
		}
		index[tp.ID] = len(tracks)
		tracks = append(tracks, tp)
	}

	c, err := r.apiClient()
	if err != nil {
		return err
	}
	snapshot, err := c.RemoveTrackOccurrences(ctx, id, tracks, cmd.String("snapshot"))
	if err != nil {
		return err
	}
	r.writePlain("✓ Removed %d tracks\n", len(tracks))
	r.writePlain("  Snapshot: %s\n", snapshot)
	return nil
}

// parseTrackPositions reads <track>@<pos>[,<pos>...]. The last @ splits, so URLs and URIs work.
func parseTrackPositions(arg string) (models.TrackPositions, error) {
	i := strings.LastIndex(arg, "@")
	if i <= 0 || i == len(arg)-1 {
		return models.TrackPositions{}, fmt.Errorf("%w: %q, want <track>@<pos>[,<pos>...]", shared.ErrInvalidArgument, arg)
	}

	var positions []int
	for _, part := range strings.Split(arg[i+1:], ",") {
		p, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return models.TrackPositions{}, fmt.Errorf("%w: position %q in %q", shared.ErrInvalidArgument, part, arg)
		}
		positions = append(positions, p)
	}
	return models.NewTrackPositions(arg[:i], positions...), nil
}

// PlaylistReorder moves a range of items within a playlist.
func (r *Runner) PlaylistReorder(ctx context.Context, cmd *cli.Command) error {
	id, err := firstArg(cmd, "playlist")
	if err != nil {
		return err
	}
	c, err := r.apiClient()
	if err != nil {
		return err
	}

	snapshot, err := c.ReorderPlaylistTracks(ctx, id, client.ReorderOptions{
		RangeStart:   cmd.Int("start"),
		RangeLength:  cmd.Int("length"),
		InsertBefore: cmd.Int("before"),
		SnapshotID:   cmd.String("snapshot"),
	})
	if err != nil {
		return err
	}
	r.writePlain("✓ Moved %d items from %d to before %d\n", max(cmd.Int("length"), 1), cmd.Int("start"), cmd.Int("before"))
	r.writePlain("  Snapshot: %s\n", snapshot)
	return nil
}

// Me prints the current user's profile.
func (r *Runner) Me(ctx context.Context, cmd *cli.Command) error {
	c, err := r.apiClient()
	if err != nil {
		return err
	}

	me, err := c.CurrentUser(ctx)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(me, cmd.Bool("pretty"))
	}

	name := me.ID
	if me.DisplayName != nil && *me.DisplayName != "" {
		name = *me.DisplayName
	}
	r.writePlainHeader(name)
	r.writePlain("ID: %s\n", me.ID)
	if me.Email != "" {
		r.writePlain("Email: %s\n", me.Email)
	}
	if me.Country != "" {
		r.writePlain("Country: %s\n", me.Country)
	}
	if me.Product != "" {
		r.writePlain("Product: %s\n", me.Product)
	}
	if me.Followers != nil {
		r.writePlain("Followers: %d\n", me.Followers.Total)
	}
	r.writePlain("URI: %s\n", me.URI)
	return nil
}

// Saved lists the current user's saved tracks.
func (r *Runner) Saved(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("all") {
		exp, err := r.exporter()
		if err != nil {
			return err
		}
		listing, err := exp.FetchSaved(ctx, nil)
		if err != nil {
			return err
		}
		return r.writeListing(listing, cmd.String("format"))
	}

	c, err := r.apiClient()
	if err != nil {
		return err
	}
	page, err := c.SavedTracks(ctx, pageOptions(cmd))
	if err != nil {
		return err
	}

	listing := &formatter.Listing{Kind: string(models.TypeTrack), Title: "Saved tracks", Total: page.Total}
	for i, s := range page.Items {
		listing.Rows = append(listing.Rows, formatter.FullTrackRow(page.Offset+i+1, s.Track))
	}
	if err := r.writeListing(listing, cmd.String("format")); err != nil {
		return err
	}
	return r.pageFooter(cmd, page.Offset, len(page.Items), page.Total, page.HasNext())
}

// Followed lists followed artists, following cursors with --all.
func (r *Runner) Followed(ctx context.Context, cmd *cli.Command) error {
	c, err := r.apiClient()
	if err != nil {
		return err
	}

	after, n := cmd.String("after"), 0
	for {
		page, err := c.FollowedArtists(ctx, after, cmd.Int("limit"))
		if err != nil {
			return err
		}
		for _, a := range page.Items {
			n++
			r.writePlain("%d. %s (%d followers)\n   %s\n", n, a.Name, a.Followers.Total, a.URI)
		}
		if !cmd.Bool("all") || page.Next == nil || page.Cursors.After == nil || len(page.Items) == 0 {
			if page.Cursors.After != nil && page.Next != nil && !cmd.Bool("all") {
				r.writePlain("\nMore artists: --after %s\n", *page.Cursors.After)
			}
			return nil
		}
		after = *page.Cursors.After
	}
}
