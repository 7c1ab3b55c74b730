// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func pageFlags(defaultLimit int) []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"l"},
			Usage:   "Maximum number of items per page",
			Value:   defaultLimit,
		},
		&cli.IntFlag{
			Name:  "offset",
			Usage: "Index of the first item to return",
		},
		&cli.BoolFlag{
			Name:    "all",
			Aliases: []string{"a"},
			Usage:   "Follow next links until the listing is exhausted",
		},
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format (json, csv, markdown, txt)",
		Value:   "txt",
	}
}

func marketFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "market",
		Aliases: []string{"m"},
		Usage:   "ISO 3166-1 alpha-2 country code (defaults to the configured market)",
	}
}

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
			Value: true,
		},
	}
}

func with(flags []cli.Flag, more ...cli.Flag) []cli.Flag {
	return append(append([]cli.Flag{}, flags...), more...)
}

// setupCommand writes a starter configuration file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config.toml from the bundled template",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Authorize spotx with your Spotify account and store the refresh token",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "How long to wait for the browser callback",
						Value: defaultLoginTimeout,
					},
					&cli.BoolFlag{
						Name:  "no-browser",
						Usage: "Print the authorization URL instead of opening a browser",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "token",
				Usage: "Obtain an access token with the configured grant",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "show",
						Usage: "Print the access token itself",
					},
				},
				Action: r.AuthToken,
			},
		},
	}
}

// albumCommand handles album lookups
func albumCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "album",
		Usage:     "Show an album",
		ArgsUsage: "<album>",
		Flags:     with(jsonFlags(), marketFlag()),
		Action:    r.AlbumShow,
		Commands: []*cli.Command{
			{
				Name:      "tracks",
				Usage:     "List an album's tracks",
				ArgsUsage: "<album>",
				Flags:     with(pageFlags(20), formatFlag(), marketFlag()),
				Action:    r.AlbumTracks,
			},
		},
	}
}

// trackCommand handles a single track lookup
func trackCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "track",
		Usage:     "Show a track",
		ArgsUsage: "<track>",
		Flags:     with(jsonFlags(), marketFlag()),
		Action:    r.Track,
	}
}

// tracksCommand handles batched track lookups
func tracksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "tracks",
		Usage:     "Show up to 50 tracks",
		ArgsUsage: "<track>...",
		Flags:     []cli.Flag{formatFlag(), marketFlag()},
		Action:    r.Tracks,
	}
}

// artistCommand handles artist lookups
func artistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "artist",
		Usage:     "Show an artist",
		ArgsUsage: "<artist>",
		Flags:     jsonFlags(),
		Action:    r.Artist,
		Commands: []*cli.Command{
			{
				Name:      "top-tracks",
				Usage:     "List an artist's top tracks in a market",
				ArgsUsage: "<artist>",
				Flags:     []cli.Flag{formatFlag(), marketFlag()},
				Action:    r.ArtistTopTracks,
			},
			{
				Name:      "albums",
				Usage:     "List an artist's albums",
				ArgsUsage: "<artist>",
				Flags: with(pageFlags(20), marketFlag(), &cli.StringSliceFlag{
					Name:  "group",
					Usage: "Restrict to album, single, appears_on or compilation",
				}),
				Action: r.ArtistAlbums,
			},
		},
	}
}

// featuresCommand handles audio feature lookups
func featuresCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "features",
		Usage:     "Show audio features for up to 100 tracks",
		ArgsUsage: "<track>...",
		Flags:     jsonFlags(),
		Action:    r.Features,
	}
}

// searchCommand handles catalog search
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search the catalog",
		ArgsUsage: "<query>",
		Flags: with(pageFlags(10), marketFlag(), &cli.StringFlag{
			Name:    "type",
			Aliases: []string{"t"},
			Usage:   "Comma separated types (album, artist, playlist, track)",
			Value:   "track",
		}, &cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		}),
		Action: r.Search,
	}
}

// playlistCommand handles playlist reads and edits
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Playlist operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List your playlists, or another user's public playlists",
				Flags: with(pageFlags(50), &cli.StringFlag{
					Name:  "user",
					Usage: "User id whose public playlists to list",
				}),
				Action: r.PlaylistList,
			},
			{
				Name:      "show",
				Usage:     "Show playlist details",
				ArgsUsage: "<playlist>",
				Flags:     with(jsonFlags(), marketFlag()),
				Action:    r.PlaylistShow,
			},
			{
				Name:      "tracks",
				Usage:     "List playlist items",
				ArgsUsage: "<playlist>",
				Flags:     with(pageFlags(100), formatFlag(), marketFlag()),
				Action:    r.PlaylistTracks,
			},
			{
				Name:      "create",
				Usage:     "Create a playlist for the current user",
				ArgsUsage: "<name>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "description", Usage: "Playlist description"},
					&cli.BoolFlag{Name: "public", Usage: "Make the playlist public"},
				},
				Action: r.PlaylistCreate,
			},
			{
				Name:      "add",
				Usage:     "Add tracks to a playlist",
				ArgsUsage: "<playlist> <track>...",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "position", Usage: "Zero-based insert position (appends when unset)", Value: -1},
				},
				Action: r.PlaylistAdd,
			},
			{
				Name:      "remove",
				Usage:     "Remove specific occurrences of tracks from a playlist",
				ArgsUsage: "<playlist>",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:     "track",
						Aliases:  []string{"t"},
						Usage:    "Track and position as <track>@<pos> (repeatable)",
						Required: true,
					},
					&cli.StringFlag{Name: "snapshot", Usage: "Snapshot id the positions refer to"},
				},
				Action: r.PlaylistRemove,
			},
			{
				Name:      "reorder",
				Usage:     "Move a range of items within a playlist",
				ArgsUsage: "<playlist>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "start", Usage: "Position of the first item to move", Required: true},
					&cli.IntFlag{Name: "length", Usage: "Number of items to move", Value: 1},
					&cli.IntFlag{Name: "before", Usage: "Position to insert the items before", Required: true},
					&cli.StringFlag{Name: "snapshot", Usage: "Snapshot id the positions refer to"},
				},
				Action: r.PlaylistReorder,
			},
		},
	}
}

// meCommand shows the current user's profile
func meCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "me",
		Usage:  "Show the current user's profile",
		Flags:  jsonFlags(),
		Action: r.Me,
	}
}

// savedCommand lists the current user's saved tracks
func savedCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "saved",
		Usage:  "List your saved tracks",
		Flags:  with(pageFlags(50), formatFlag(), marketFlag()),
		Action: r.Saved,
	}
}

// followedCommand lists followed artists
func followedCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "followed",
		Usage: "List the artists you follow",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Maximum number of artists per page", Value: 50},
			&cli.StringFlag{Name: "after", Usage: "Artist id to continue after"},
			&cli.BoolFlag{Name: "all", Aliases: []string{"a"}, Usage: "Follow cursors until the listing is exhausted"},
		},
		Action: r.Followed,
	}
}

// exportCommand handles bulk playlist exports
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export playlists to files",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "id",
				Usage: "Playlist id, URI or URL (repeatable)",
			},
			&cli.BoolFlag{
				Name:  "mine",
				Usage: "Export every playlist in your library",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (json, csv, markdown, txt)",
				Value:   "json",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Output directory (default: spotify_export_<epoch>)",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "Concurrent workers (max 10)",
				Value:   5,
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Playlist fetches per second",
				Value: 5,
			},
			&cli.BoolFlag{
				Name:  "covers",
				Usage: "Download cover images for Markdown exports",
			},
		},
		Action: r.Export,
	}
}

// tuiCommand returns the top-level TUI command for interactive playlist browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for browsing and exporting playlists",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format (json, csv, markdown, txt)",
				Value:   "json",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Export directory",
				Value:   "exports",
			},
			&cli.StringFlag{
				Name:  "log",
				Usage: "Log file used while the TUI owns the terminal",
				Value: "./tmp/spotx-tui.log",
			},
		},
		Action: r.TUI,
	}
}
