package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/ewilliams-labs/stride/internal/core/ports"
)

const (
	savedTracksPageSize = 50
	featuresBatchSize   = 100
	playlistBatchSize   = 100
)

// Options tunes a Client. Zero values select the package defaults.
type Options struct {
	MaxRetries         int
	BaseBackoff        time.Duration
	MaxSavedTracks     int
	FeatureConcurrency int
	// OAuth refreshes expired session tokens. Without it the session's access
	// token is used as-is.
	OAuth *oauth2.Config
	// Sessions receives tokens refreshed during an operation. Nil keeps
	// refreshed tokens in memory for that operation only.
	Sessions ports.SessionStore
	// AnalyzePreview estimates energy from a preview clip when Spotify has no
	// audio features for a track. Nil uses the MP3 RMS analyzer.
	AnalyzePreview func(ctx context.Context, url string) (float64, error)
	Logger         *zap.Logger
}

// Client is an HTTP client for the Spotify adapter.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	maxRetries  int
	baseBackoff time.Duration
	maxSaved    int
	concurrency int
	oauth       *oauth2.Config
	sessions    ports.SessionStore
	analyze     func(ctx context.Context, url string) (float64, error)
	log         *zap.Logger
}

// compile-time interface assertion
var _ ports.SpotifyProvider = (*Client)(nil)

// NewClient constructs a new Spotify client.
func NewClient(httpClient *http.Client, baseURL string, opts Options) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(baseURL, "/"),
		maxRetries:  opts.MaxRetries,
		baseBackoff: opts.BaseBackoff,
		maxSaved:    opts.MaxSavedTracks,
		concurrency: opts.FeatureConcurrency,
		oauth:       opts.OAuth,
		sessions:    opts.Sessions,
		analyze:     opts.AnalyzePreview,
		log:         opts.Logger,
	}
	if c.maxSaved <= 0 {
		c.maxSaved = 2000
	}
	if c.concurrency <= 0 {
		c.concurrency = 4
	}
	if c.analyze == nil {
		c.analyze = func(ctx context.Context, url string) (float64, error) {
			return analyzePreview(ctx, httpClient, url)
		}
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	return c
}

// getJSON performs an authorized GET and decodes a 200 response into out.
func (c *Client) getJSON(ctx context.Context, auth *authorizer, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("spotify adapter: failed to create request: %w", err)
	}
	resp, err := c.send(auth, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, http.StatusOK); err != nil {
		return err
	}
	if err := decodeJSON(resp, out); err != nil {
		return fmt.Errorf("spotify adapter: decode error: %w", err)
	}
	return nil
}

func decodeJSON(resp *http.Response, out any) error {
	return json.NewDecoder(resp.Body).Decode(out)
}

// send authorizes req with the operation's token and executes it with retries.
func (c *Client) send(auth *authorizer, req *http.Request) (*http.Response, error) {
	tok, err := auth.token()
	if err != nil {
		return nil, err
	}
	tok.SetAuthHeader(req)

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: request failed: %w", err)
	}
	return resp, nil
}

func checkStatus(resp *http.Response, accepted ...int) error {
	for _, code := range accepted {
		if resp.StatusCode == code {
			return nil
		}
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("spotify adapter: status %d: %w", resp.StatusCode, ports.ErrUnauthorized)
	}
	return fmt.Errorf("spotify adapter: status %d", resp.StatusCode)
}
