package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotx/auth"
	"github.com/desertthunder/spotx/client"
	"github.com/desertthunder/spotx/internal/formatter"
	"github.com/desertthunder/spotx/internal/shared"
	"github.com/desertthunder/spotx/internal/tasks"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	mu         sync.Mutex
	config     *shared.Config
	configPath string
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	tokens     client.TokenSource
	client     *client.Client
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	// Tokens replaces the token source built from the configured credentials.
	Tokens client.TokenSource
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Config.Client.Timeout()}
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		tokens:     opts.Tokens,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, albumCommand, trackCommand, tracksCommand, artistCommand, featuresCommand,
		searchCommand, playlistCommand, meCommand, savedCommand, followedCommand, exportCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger. It must be called before the API client is first used.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// credentials reads the application credentials from the configuration.
func (r *Runner) credentials() auth.Credentials {
	sc := r.config.Credentials.Spotify
	return auth.Credentials{
		ClientID:     sc.ClientID,
		ClientSecret: sc.ClientSecret,
		RedirectURI:  sc.RedirectURI,
		RefreshToken: sc.RefreshToken,
	}
}

// tokenSource picks the grant: a stored user token means authorization code, anything
// else falls back to client credentials.
func (r *Runner) tokenSource() (client.TokenSource, error) {
	if r.tokens != nil {
		return r.tokens, nil
	}

	opts := []auth.Option{auth.WithHTTPClient(r.httpClient), auth.WithLogger(r.logger)}
	stored := r.config.Credentials.Spotify.Token()

	if stored == nil || stored.RefreshToken == "" {
		m, err := auth.NewClientCredentials(r.credentials(), opts...)
		if err != nil {
			return nil, err
		}
		r.logger.Debug("using client credentials grant")
		r.tokens = m
		return m, nil
	}

	m, err := auth.NewAuthorizationCode(r.credentials(), auth.DefaultScopes, append(opts, auth.WithToken(stored))...)
	if err != nil {
		return nil, err
	}
	m.OnRefresh(func(t *oauth2.Token) {
		if err := r.saveTokens(t); err != nil {
			r.logger.Warn("failed to persist refreshed token", "error", err)
		}
	})
	r.logger.Debug("using authorization code grant")
	r.tokens = m
	return m, nil
}

// apiClient builds the Web API client on first use.
func (r *Runner) apiClient() (*client.Client, error) {
	if r.client != nil {
		return r.client, nil
	}

	tokens, err := r.tokenSource()
	if err != nil {
		return nil, err
	}

	cc := r.config.Client
	opts := []client.Option{client.WithHTTPClient(r.httpClient), client.WithLogger(r.logger)}
	if cc.BaseURL != "" {
		opts = append(opts, client.WithBaseURL(cc.BaseURL))
	}
	if cc.Market != "" {
		opts = append(opts, client.WithMarket(cc.Market))
	}
	if cc.RateLimit > 0 {
		opts = append(opts, client.WithLimiter(rate.NewLimiter(rate.Limit(cc.RateLimit), 1)))
	}

	r.client = client.New(tokens, opts...)
	return r.client, nil
}

func (r *Runner) exporter() (*tasks.Exporter, error) {
	c, err := r.apiClient()
	if err != nil {
		return nil, err
	}
	return tasks.NewExporter(c, r.httpClient, r.logger), nil
}

// saveTokens stores token in the configuration and writes it to disk when a config path is set.
func (r *Runner) saveTokens(token *oauth2.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.config == nil {
		return fmt.Errorf("%w: config is nil", shared.ErrMissingConfig)
	}
	if err := r.config.Credentials.Spotify.Update(token); err != nil {
		return fmt.Errorf("failed to update spotify configuration: %w", err)
	}
	if r.configPath == "" {
		return nil
	}
	if err := shared.SaveConfig(r.configPath, r.config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	r.logger.Debug("saved token", "path", r.configPath)
	return nil
}

// writeListing renders l in the named format.
func (r *Runner) writeListing(l *formatter.Listing, format string) error {
	f, err := formatter.ParseFormat(format)
	if err != nil {
		return err
	}
	return formatter.Render(r.output, l, f)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// pageOptions reads the shared paging flags.
func pageOptions(cmd *cli.Command) *client.PageOptions {
	return &client.PageOptions{
		Limit:  cmd.Int("limit"),
		Offset: cmd.Int("offset"),
		Market: cmd.String("market"),
	}
}

// firstArg returns the first positional argument or a missing argument error naming it.
func firstArg(cmd *cli.Command, name string) (string, error) {
	v := cmd.Args().First()
	if v == "" {
		return "", fmt.Errorf("%w: %s", shared.ErrMissingArgument, name)
	}
	return v, nil
}
