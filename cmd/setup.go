package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spotx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup writes config.toml from the embedded template.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	r.logger.Info("creating config file from template", "path", configPath)
	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}

	config, err := shared.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("config file created but could not be read back: %w", err)
	}
	r.config = config
	r.configPath = configPath

	r.writePlain("✓ Config file created at %s\n", configPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set client_id and client_secret under [credentials.spotify]\n")
	r.writePlain("   (or export SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET)\n")
	r.writePlain("2. Register %s as a redirect URI for your app\n", config.Credentials.Spotify.RedirectURI)
	r.writePlain("3. Run 'spotx auth login' to authorize user endpoints\n")

	return nil
}
