package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/spotx/client"
	"github.com/desertthunder/spotx/internal/formatter"
	"github.com/desertthunder/spotx/internal/shared"
	"github.com/desertthunder/spotx/models"
	"github.com/urfave/cli/v3"
)

// AlbumShow prints an album's details.
func (r *Runner) AlbumShow(ctx context.Context, cmd *cli.Command) error {
	id, err := firstArg(cmd, "album")
	if err != nil {
		return err
	}
	c, err := r.apiClient()
	if err != nil {
		return err
	}

	album, err := c.Album(ctx, id, cmd.String("market"))
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(album, cmd.Bool("pretty"))
	}

	r.writePlainHeader(album.Name)
	r.writePlain("Artists: %s\n", strings.Join(models.ArtistNames(album.Artists), ", "))
	r.writePlain("Type: %s\n", album.AlbumType)
	r.writePlain("Released: %s\n", album.ReleaseDate)
	if album.Label != "" {
		r.writePlain("Label: %s\n", album.Label)
	}
	r.writePlain("Tracks: %d\n", album.Tracks.Total)
	r.writePlain("Popularity: %d\n", album.Popularity)
	r.writePlain("URI: %s\n", album.URI)
	return nil
}

// AlbumTracks lists one page of an album's tracks, or all of them with --all.
func (r *Runner) AlbumTracks(ctx context.Context, cmd *cli.Command) error {
	id, err := firstArg(cmd, "album")
	if err != nil {
		return err
	}

	if cmd.Bool("all") {
		exp, err := r.exporter()
		if err != nil {
			return err
		}
		listing, err := exp.FetchAlbum(ctx, id, nil)
		if err != nil {
			return err
		}
		return r.writeListing(listing, cmd.String("format"))
	}

	c, err := r.apiClient()
	if err != nil {
		return err
	}
	page, err := c.AlbumTracks(ctx, id, pageOptions(cmd))
	if err != nil {
		return err
	}

	listing := &formatter.Listing{Kind: string(models.TypeAlbum), Title: id, Total: page.Total}
	for i, t := range page.Items {
		listing.Rows = append(listing.Rows, formatter.SimplifiedTrackRow(page.Offset+i+1, t, ""))
	}
	if err := r.writeListing(listing, cmd.String("format")); err != nil {
		return err
	}
	return r.pageFooter(cmd, page.Offset, len(page.Items), page.Total, page.HasNext())
}

// Track prints one track.
func (r *Runner) Track(ctx context.Context, cmd *cli.Command) error {
	id, err := firstArg(cmd, "track")
	if err != nil {
		return err
	}
	c, err := r.apiClient()
	if err != nil {
		return err
	}

	track, err := c.Track(ctx, id, cmd.String("market"))
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(track, cmd.Bool("pretty"))
	}

	r.writePlainHeader(track.Name)
	r.writePlain("Artists: %s\n", strings.Join(models.ArtistNames(track.Artists), ", "))
	r.writePlain("Album: %s\n", track.Album.Name)
	r.writePlain("Duration: %s\n", shared.FormatDuration(track.Duration.Std()))
	r.writePlain("Disc/Track: %d/%d\n", track.DiscNumber, track.TrackNumber)
	r.writePlain("Popularity: %d\n", track.Popularity)
	if isrc := track.ExternalIDs["isrc"]; isrc != "" {
		r.writePlain("ISRC: %s\n", isrc)
	}
	if track.Explicit {
		r.writePlain("Explicit: yes\n")
	}
	if !track.Relinking.Playable() {
		r.writePlain("Playable: no\n")
	}
	r.writePlain("URI: %s\n", track.URI)
	return nil
}

// Tracks prints several tracks. Ids the API does not know are reported and skipped.
func (r *Runner) Tracks(ctx context.Context, cmd *cli.Command) error {
	ids := cmd.Args().Slice()
	c, err := r.apiClient()
	if err != nil {
		return err
	}

	tracks, err := c.Tracks(ctx, ids, cmd.String("market"))
	if err != nil {
		return err
	}

	found := make([]models.FullTrack, 0, len(tracks))
	for i, t := range tracks {
		if t == nil {
			r.logger.Warn("track not found", "id", ids[i])
			continue
		}
		found = append(found, *t)
	}
	return r.writeListing(formatter.FromTracks("Tracks", found), cmd.String("format"))
}

// Artist prints an artist's details.
func (r *Runner) Artist(ctx context.Context, cmd *cli.Command) error {
	id, err := firstArg(cmd, "artist")
	if err != nil {
		return err
	}
	c, err := r.apiClient()
	if err != nil {
		return err
	}

	artist, err := c.Artist(ctx, id)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(artist, cmd.Bool("pretty"))
	}

	r.writePlainHeader(artist.Name)
	if len(artist.Genres) > 0 {
		r.writePlain("Genres: %s\n", strings.Join(artist.Genres, ", "))
	}
	r.writePlain("Followers: %d\n", artist.Followers.Total)
	r.writePlain("Popularity: %d\n", artist.Popularity)
	r.writePlain("URI: %s\n", artist.URI)
	return nil
}

// ArtistTopTracks lists an artist's top tracks. The market flag falls back to the configured market.
func (r *Runner) ArtistTopTracks(ctx context.Context, cmd *cli.Command) error {
	id, err := firstArg(cmd, "artist")
	if err != nil {
		return err
	}
	market := cmd.String("market")
	if market == "" {
		market = r.config.Client.Market
	}
	if market == "" {
		return fmt.Errorf("%w: --market (or [client] market in the config)", shared.ErrMissingArgument)
	}

	c, err := r.apiClient()
	if err != nil {
		return err
	}
	tracks, err := c.ArtistTopTracks(ctx, id, market)
	if err != nil {
		return err
	}
	return r.writeListing(formatter.FromTracks("Top tracks ("+market+")", tracks), cmd.String("format"))
}

// ArtistAlbums lists an artist's albums, optionally filtered by group.
func (r *Runner) ArtistAlbums(ctx context.Context, cmd *cli.Command) error {
	id, err := firstArg(cmd, "artist")
	if err != nil {
		return err
	}
	c, err := r.apiClient()
	if err != nil {
		return err
	}

	page, err := c.ArtistAlbums(ctx, id, cmd.StringSlice("group"), pageOptions(cmd))
	if err != nil {
		return err
	}

	albums := page.Items
	if cmd.Bool("all") {
		if albums, err = client.Collect(ctx, client.Iterate(c, page)); err != nil {
			return err
		}
	}

	for i, a := range albums {
		r.writePlain("%d. %s (%s, %s)\n", page.Offset+i+1, a.Name, a.AlbumGroup, a.ReleaseDate)
		r.writePlain("   ID: %s\n", a.ID)
	}
	if cmd.Bool("all") {
		return nil
	}
	return r.pageFooter(cmd, page.Offset, len(albums), page.Total, page.HasNext())
}

// Features prints audio features for one or more tracks.
func (r *Runner) Features(ctx context.Context, cmd *cli.Command) error {
	ids := cmd.Args().Slice()
	c, err := r.apiClient()
	if err != nil {
		return err
	}

	features, err := c.SeveralAudioFeatures(ctx, ids)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(features, cmd.Bool("pretty"))
	}

	for i, f := range features {
		if f == nil {
			r.writePlain("%s: no audio features\n", ids[i])
			continue
		}
		r.writePlain("%s\n", f.ID)
		r.writePlain("   Tempo: %.1f BPM, Key: %d, Mode: %d, Time signature: %d/4\n", f.Tempo, f.Key, f.Mode, f.TimeSignature)
		r.writePlain("   Danceability: %.2f, Energy: %.2f, Valence: %.2f\n", f.Danceability, f.Energy, f.Valence)
		r.writePlain("   Acousticness: %.2f, Instrumentalness: %.2f, Speechiness: %.2f, Liveness: %.2f\n",
			f.Acousticness, f.Instrumentalness, f.Speechiness, f.Liveness)
		r.writePlain("   Loudness: %.1f dB, Duration: %s\n", f.Loudness, shared.FormatDuration(f.Duration.Std()))
	}
	return nil
}

// Search queries the catalog and prints one section per requested type.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := strings.Join(cmd.Args().Slice(), " ")
	types, err := client.ParseTypes(cmd.String("type"))
	if err != nil {
		return err
	}
	c, err := r.apiClient()
	if err != nil {
		return err
	}

	result, err := c.Search(ctx, query, types, pageOptions(cmd))
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(result, true)
	}

	if p := result.Tracks; p != nil {
		r.writePlainHeader(fmt.Sprintf("Tracks (%d)", p.Total))
		for i, t := range p.Items {
			r.writePlain("%d. %s - %s\n   %s\n", p.Offset+i+1, strings.Join(models.ArtistNames(t.Artists), ", "), t.Name, t.URI)
		}
	}
	if p := result.Artists; p != nil {
		r.writePlainHeader(fmt.Sprintf("Artists (%d)", p.Total))
		for i, a := range p.Items {
			r.writePlain("%d. %s\n   %s\n", p.Offset+i+1, a.Name, a.URI)
		}
	}
	if p := result.Albums; p != nil {
		r.writePlainHeader(fmt.Sprintf("Albums (%d)", p.Total))
		for i, a := range p.Items {
			r.writePlain("%d. %s - %s\n   %s\n", p.Offset+i+1, strings.Join(models.ArtistNames(a.Artists), ", "), a.Name, a.URI)
		}
	}
	if p := result.Playlists; p != nil {
		r.writePlainHeader(fmt.Sprintf("Playlists (%d)", p.Total))
		for i, pl := range p.Items {
			r.writePlain("%d. %s (%s)\n   %s\n", p.Offset+i+1, pl.Name, pl.Owner.Name(), pl.URI)
		}
	}
	return nil
}

// pageFooter tells the reader how to continue a paged listing. Structured formats get no footer.
func (r *Runner) pageFooter(cmd *cli.Command, offset, count, total int, more bool) error {
	if f := cmd.String("format"); f != "" && f != "txt" && f != "text" {
		return nil
	}
	if count == 0 {
		return r.writePlain("\nNo items (total %d)\n", total)
	}
	r.writePlain("\nShowing %d-%d of %d", offset+1, offset+count, total)
	if more {
		r.writePlain(" (next: --offset %d, or --all)", offset+count)
	}
	return r.writePlain("\n")
}
