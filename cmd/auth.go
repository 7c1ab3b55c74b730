package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/desertthunder/spotx/auth"
	"github.com/desertthunder/spotx/internal/server"
	"github.com/desertthunder/spotx/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

const defaultLoginTimeout = 2 * time.Minute

// AuthLogin runs the authorization code flow through a local callback server and stores the
// resulting tokens in the config file.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	creds := r.credentials()
	if err := creds.Validate(); err != nil {
		return fmt.Errorf("%w: set client_id and client_secret in %s", err, r.configPath)
	}

	m, err := auth.NewAuthorizationCode(creds, auth.DefaultScopes, auth.WithHTTPClient(r.httpClient), auth.WithLogger(r.logger))
	if err != nil {
		return err
	}

	token, err := r.doOAuth(ctx, m, cmd.Duration("timeout"), !cmd.Bool("no-browser"))
	if err != nil {
		return err
	}

	if err := r.saveTokens(token); err != nil {
		return err
	}
	// Later commands in this process reuse the fresh token.
	r.tokens, r.client = m, nil

	r.writePlainln("✓ Authorization successful")
	if r.configPath != "" {
		r.writePlain("✓ Tokens saved to %s\n\n", r.configPath)
	}
	r.writePlain("You can now use: spotx playlist list\n")
	return nil
}

// AuthToken obtains a token with the configured grant and reports its expiry.
func (r *Runner) AuthToken(ctx context.Context, cmd *cli.Command) error {
	tokens, err := r.tokenSource()
	if err != nil {
		return err
	}

	token, err := tokens.Token(ctx)
	if err != nil {
		return err
	}

	grant := "client credentials"
	if token.RefreshToken != "" {
		grant = "authorization code"
	}

	r.writePlain("Grant: %s\n", grant)
	r.writePlain("Type: %s\n", token.Type())
	if token.Expiry.IsZero() {
		r.writePlain("Expires: never\n")
	} else {
		r.writePlain("Expires: %s (in %s)\n", token.Expiry.Local().Format(time.RFC3339), time.Until(token.Expiry).Round(time.Second))
	}
	if cmd.Bool("show") {
		r.writePlain("Access token: %s\n", token.AccessToken)
	}
	return nil
}

// callbackAddr derives the listen address and path for the OAuth callback.
// The redirect URI wins over the [server] section so the two cannot disagree.
func (r *Runner) callbackAddr() (addr, path string, err error) {
	host, port := r.config.Server.Host, r.config.Server.Port
	path = "/callback"

	if raw := r.config.Credentials.Spotify.RedirectURI; raw != "" {
		u, err := url.Parse(raw)
		if err != nil {
			return "", "", fmt.Errorf("%w: redirect_uri: %v", shared.ErrInvalidConfig, err)
		}
		if u.Hostname() != "" {
			host = u.Hostname()
		}
		if p := u.Port(); p != "" {
			if port, err = strconv.Atoi(p); err != nil {
				return "", "", fmt.Errorf("%w: redirect_uri port %q", shared.ErrInvalidConfig, p)
			}
		}
		if u.Path != "" {
			path = u.Path
		}
	}
	return net.JoinHostPort(host, strconv.Itoa(port)), path, nil
}

// doOAuth serves the callback, sends the user to the consent page and waits for the result.
func (r *Runner) doOAuth(ctx context.Context, m *auth.Manager, timeout time.Duration, openBrowser bool) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	addr, path, err := r.callbackAddr()
	if err != nil {
		return nil, err
	}

	handler := server.NewOAuthHandler(m, state, path)
	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(r.logger))
	router.Handler(handler)

	if timeout <= 0 {
		timeout = defaultLoginTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	authURL := m.AuthURL(state)
	serverDone := make(chan error, 1)
	go func() {
		serverDone <- server.Serve(ctx, addr, router, func(bound string) {
			r.logger.Info("waiting for OAuth callback", "addr", bound, "path", path)
			opened := false
			if openBrowser {
				r.writePlain("→ Opening browser for Spotify authorization...\n")
				if err := shared.OpenBrowser(ctx, authURL); err != nil {
					r.logger.Warn("failed to open browser automatically", "error", err)
				} else {
					opened = true
				}
			}
			if !opened {
				r.writePlain("Open this URL in your browser:\n%s\n\n", authURL)
			}
			r.writePlain("→ Waiting for authorization (%s timeout)...\n", timeout)
		})
	}()

	var result server.OAuthResult
	select {
	case result = <-handler.Result():
	case err := <-serverDone:
		if err == nil {
			err = ctx.Err()
		}
		return nil, r.loginError(err, timeout)
	case <-ctx.Done():
		<-serverDone
		return nil, r.loginError(ctx.Err(), timeout)
	}

	cancel()
	if err := <-serverDone; err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Error())
	}
	if result.Token == nil {
		return nil, fmt.Errorf("%w: no token received", shared.ErrAuthentication)
	}
	return result.Token, nil
}

func (r *Runner) loginError(err error, timeout time.Duration) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: authorization timed out after %s", shared.ErrTimeout, timeout)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("callback server error: %w", err)
}
