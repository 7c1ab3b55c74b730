package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotx/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the root of the Web API.
const DefaultBaseURL = "https://api.spotify.com/v1"

// TokenSource supplies access tokens. [*auth.Manager] implements it.
type TokenSource interface {
	Token(ctx context.Context) (*oauth2.Token, error)
}

// StaticToken is a [TokenSource] that always returns the same access token.
type StaticToken string

func (s StaticToken) Token(context.Context) (*oauth2.Token, error) {
	return &oauth2.Token{AccessToken: string(s), TokenType: "Bearer"}, nil
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient sets the HTTP client requests are sent with.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL points the client at a different API root.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithLogger sets the logger requests are reported to at debug level.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithLimiter paces outgoing requests. The client waits on the limiter before each request.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// WithMarket sets the market used when a call does not name one.
func WithMarket(market string) Option {
	return func(c *Client) { c.market = market }
}

// Client calls the Web API. It is safe for concurrent use.
type Client struct {
	tokens     TokenSource
	httpClient *http.Client
	baseURL    string
	market     string
	limiter    *rate.Limiter
	logger     *log.Logger
}

// New creates a client that authenticates with tokens.
func New(tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		tokens:     tokens,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    DefaultBaseURL,
		logger:     shared.NopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// marketQuery adds market, or the client default, to q.
func (c *Client) marketQuery(q url.Values, market string) url.Values {
	if market == "" {
		market = c.market
	}
	if market == "" {
		return q
	}
	if q == nil {
		q = url.Values{}
	}
	q.Set("market", market)
	return q
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values, result any) error {
	return c.doRequest(ctx, http.MethodGet, endpoint, query, nil, result)
}

// doRequest performs an authenticated request and decodes a JSON response into result.
//
// endpoint is either a path below the base URL or an absolute URL taken from a paging envelope.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, query url.Values, body, result any) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return tokenError(err)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	reqURL, err := c.resolve(endpoint, query)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	token.SetAuthHeader(req)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger := c.logger.With("id", shared.GenerateID(), "method", method, "path", req.URL.Path)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		logger.Debug("request failed", "error", err)
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", ErrNetwork, err)
	}
	logger.Debug("request complete", "status", resp.StatusCode, "took", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newError(resp, data)
	}

	if result == nil {
		return nil
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return fmt.Errorf("%w: empty response body", ErrMalformedResponse)
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return nil
}

func (c *Client) resolve(endpoint string, query url.Values) (string, error) {
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = c.baseURL + endpoint
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}
	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			q[k] = vs
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// tokenError keeps classified failures from the token source and treats the rest as authentication failures.
func tokenError(err error) error {
	switch {
	case errors.Is(err, ErrAuthentication), errors.Is(err, ErrNetwork):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	}
	return fmt.Errorf("%w: %v", ErrAuthentication, err)
}
