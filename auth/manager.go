package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotx/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	AuthURL  = "https://accounts.spotify.com/authorize"
	TokenURL = "https://accounts.spotify.com/api/token"

	// DefaultExpirySkew is how long before expiry a token is treated as stale.
	DefaultExpirySkew = 30 * time.Second
)

// Option configures a [Manager].
type Option func(*Manager)

// WithHTTPClient sets the client used for token exchanges.
func WithHTTPClient(c *http.Client) Option {
	return func(m *Manager) { m.httpClient = c }
}

// WithEndpoint overrides the accounts service endpoints.
func WithEndpoint(authURL, tokenURL string) Option {
	return func(m *Manager) {
		m.endpoint.AuthURL = authURL
		m.endpoint.TokenURL = tokenURL
	}
}

// WithLogger sets the logger refreshes are reported to.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithExpirySkew sets how long before expiry a token is refreshed.
func WithExpirySkew(d time.Duration) Option {
	return func(m *Manager) { m.skew = d }
}

// WithToken seeds the manager with a previously issued token.
func WithToken(t *oauth2.Token) Option {
	return func(m *Manager) { m.token = t }
}

type exchangeFunc func(ctx context.Context, current *oauth2.Token) (*oauth2.Token, error)

// pendingExchange is the exchange every concurrent caller of [Manager.Token] waits on.
// tok and err are written once, before done is closed.
type pendingExchange struct {
	done chan struct{}
	tok  *oauth2.Token
	err  error
}

// Manager holds the current token for one grant and renews it on demand.
//
// It is safe for concurrent use.
type Manager struct {
	mu         sync.Mutex
	token      *oauth2.Token
	inflight   *pendingExchange
	onRefresh  func(*oauth2.Token)
	exchange   exchangeFunc
	endpoint   oauth2.Endpoint
	config     *oauth2.Config
	httpClient *http.Client
	logger     *log.Logger
	skew       time.Duration
}

func newManager(opts []Option) *Manager {
	m := &Manager{
		endpoint: oauth2.Endpoint{AuthURL: AuthURL, TokenURL: TokenURL, AuthStyle: oauth2.AuthStyleInHeader},
		logger:   shared.NopLogger(),
		skew:     DefaultExpirySkew,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewClientCredentials returns a manager for the client credentials grant.
// Tokens from this grant carry no user context.
func NewClientCredentials(creds Credentials, opts ...Option) (*Manager, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	m := newManager(opts)
	cfg := &clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     m.endpoint.TokenURL,
		AuthStyle:    m.endpoint.AuthStyle,
	}
	m.exchange = func(ctx context.Context, _ *oauth2.Token) (*oauth2.Token, error) {
		return cfg.Token(ctx)
	}
	return m, nil
}

// NewAuthorizationCode returns a manager for the authorization code grant.
//
// If creds carries a refresh token the manager can mint access tokens straight away;
// otherwise the user must complete [Manager.AuthURL] and [Manager.Exchange] first.
func NewAuthorizationCode(creds Credentials, scopes []string, opts ...Option) (*Manager, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	m := newManager(opts)
	m.config = &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  creds.RedirectURI,
		Scopes:       scopes,
		Endpoint:     m.endpoint,
	}
	if m.token == nil && creds.RefreshToken != "" {
		m.token = &oauth2.Token{RefreshToken: creds.RefreshToken}
	}
	m.exchange = m.refresh
	return m, nil
}

func (m *Manager) refresh(ctx context.Context, current *oauth2.Token) (*oauth2.Token, error) {
	if current == nil || current.RefreshToken == "" {
		return nil, fmt.Errorf("%w: %w", ErrAuthentication, ErrNoRefreshToken)
	}
	return m.config.TokenSource(ctx, &oauth2.Token{RefreshToken: current.RefreshToken}).Token()
}

// OnRefresh registers fn to be called with every newly obtained token.
// fn runs while the manager is locked and must not call [Manager.Token].
func (m *Manager) OnRefresh(fn func(*oauth2.Token)) {
	m.mu.Lock()
	m.onRefresh = fn
	m.mu.Unlock()
}

// AuthURL returns the consent page URL for the authorization code grant.
func (m *Manager) AuthURL(state string) string {
	if m.config == nil {
		return ""
	}
	return m.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for a token and stores it.
func (m *Manager) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	if m.config == nil {
		return nil, fmt.Errorf("%w: exchange requires the authorization code grant", ErrAuthentication)
	}
	tok, err := m.config.Exchange(m.context(ctx), code)
	if err != nil {
		return nil, classify(err)
	}

	m.mu.Lock()
	m.store(tok)
	m.mu.Unlock()
	return tok, nil
}

// SetToken replaces the stored token.
func (m *Manager) SetToken(t *oauth2.Token) {
	m.mu.Lock()
	m.token = t
	m.mu.Unlock()
}

// Token returns a token valid for at least the expiry skew.
//
// A stale token is exchanged or refreshed first. Callers arriving while an exchange
// is in flight wait for it and receive its result, token or error.
func (m *Manager) Token(ctx context.Context) (*oauth2.Token, error) {
	m.mu.Lock()
	if m.valid(m.token) {
		tok := m.token
		m.mu.Unlock()
		return tok, nil
	}
	if p := m.inflight; p != nil {
		m.mu.Unlock()
		select {
		case <-p.done:
			return p.tok, p.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	p := &pendingExchange{done: make(chan struct{})}
	m.inflight = p
	current := m.token
	m.mu.Unlock()

	start := time.Now()
	tok, err := m.exchange(m.context(ctx), current)
	if err != nil {
		m.logger.Error("token exchange failed", "error", err)
		tok, err = nil, classify(err)
	} else {
		m.logger.Info("obtained access token", "expires", tok.Expiry.Format(time.RFC3339), "took", time.Since(start))
	}

	m.mu.Lock()
	if err == nil {
		m.store(tok)
	}
	p.tok, p.err = tok, err
	m.inflight = nil
	m.mu.Unlock()
	close(p.done)

	return tok, err
}

// TokenSource adapts the manager to [oauth2.TokenSource], bound to ctx.
func (m *Manager) TokenSource(ctx context.Context) oauth2.TokenSource {
	return tokenSource{ctx: ctx, m: m}
}

type tokenSource struct {
	ctx context.Context
	m   *Manager
}

func (s tokenSource) Token() (*oauth2.Token, error) {
	return s.m.Token(s.ctx)
}

func (m *Manager) valid(t *oauth2.Token) bool {
	if t == nil || t.AccessToken == "" {
		return false
	}
	if t.Expiry.IsZero() {
		return true
	}
	return time.Until(t.Expiry) > m.skew
}

func (m *Manager) store(t *oauth2.Token) {
	m.token = t
	if m.onRefresh != nil {
		m.onRefresh(t)
	}
}

func (m *Manager) context(ctx context.Context) context.Context {
	if m.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, m.httpClient)
}

// classify maps exchange failures onto the package's error values.
func classify(err error) error {
	var retrieveErr *oauth2.RetrieveError
	var urlErr *url.Error
	switch {
	case errors.Is(err, ErrAuthentication):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.As(err, &retrieveErr):
		return fmt.Errorf("%w: %s", ErrAuthentication, describe(retrieveErr))
	case errors.As(err, &urlErr):
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	return fmt.Errorf("%w: %v", ErrAuthentication, err)
}

func describe(e *oauth2.RetrieveError) string {
	if e.ErrorCode != "" {
		if e.ErrorDescription != "" {
			return e.ErrorCode + ": " + e.ErrorDescription
		}
		return e.ErrorCode
	}
	if e.Response != nil {
		return e.Response.Status
	}
	return e.Error()
}
