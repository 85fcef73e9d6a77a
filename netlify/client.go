package netlify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultBaseURL is the Netlify analytics API root.
	DefaultBaseURL = "https://analytics.services.netlify.com/v2"
	// DefaultUserAgent identifies the dashboard to the API.
	DefaultUserAgent = "netlifystats (+https://github.com/eringen/netlifystats)"

	maxErrorBody = 512
)

var (
	ErrMissingSiteID = errors.New("netlify: site id is required")
	ErrMissingToken  = errors.New("netlify: access token is required")
)

// StatusError is returned when the API answers a metric request with a
// non-2xx status.
type StatusError struct {
	Metric     Metric
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("netlify: %s: unexpected status %d", e.Metric, e.StatusCode)
	}
	return fmt.Sprintf("netlify: %s: unexpected status %d: %s", e.Metric, e.StatusCode, e.Body)
}

// Config holds the credentials and endpoint for a Client.
type Config struct {
	BaseURL   string // API root (default DefaultBaseURL)
	SiteID    string // Required: Netlify site id
	Token     string // Required: personal access token
	UserAgent string // User-Agent header (default DefaultUserAgent)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for API requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger sets the logger that receives per-metric failures.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// WithClock sets the time source used to default unset window bounds.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// Client queries the analytics API for one site.
type Client struct {
	baseURL   string
	siteID    string
	token     string
	userAgent string

	http *http.Client
	log  zerolog.Logger
	now  func() time.Time
}

// NewClient validates cfg and returns a Client.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if cfg.SiteID == "" {
		return nil, ErrMissingSiteID
	}
	if cfg.Token == "" {
		return nil, ErrMissingToken
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	c := &Client{
		baseURL:   strings.TrimSuffix(cfg.BaseURL, "/"),
		siteID:    cfg.SiteID,
		token:     cfg.Token,
		userAgent: cfg.UserAgent,
		http:      http.DefaultClient,
		log:       log.Logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Fetch queries every tracked metric, one after another, for window w.
// A metric that fails is logged and left out of the result; the others are
// still fetched.
func (c *Client) Fetch(ctx context.Context, w TimeWindow) Result {
	w = w.Resolve(c.now())
	result := make(Result, len(TrackedMetrics))
	for _, m := range TrackedMetrics {
		r, err := c.fetch(ctx, m, w)
		if err != nil {
			c.logFailure(m, err)
			continue
		}
		result[m] = r
	}
	return result
}

// FetchMetric queries a single metric. Unlike Fetch it returns the error
// instead of logging it.
func (c *Client) FetchMetric(ctx context.Context, m Metric, w TimeWindow) (MetricResult, error) {
	return c.fetch(ctx, m, w.Resolve(c.now()))
}

func (c *Client) fetch(ctx context.Context, m Metric, w TimeWindow) (MetricResult, error) {
	params, err := query.Values(w)
	if err != nil {
		return MetricResult{}, fmt.Errorf("netlify: %s: encode window: %w", m, err)
	}
	endpoint := c.baseURL + "/" + url.PathEscape(c.siteID) + "/" + string(m) + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return MetricResult{}, fmt.Errorf("netlify: %s: build request: %w", m, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return MetricResult{}, fmt.Errorf("netlify: %s: %w", m, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return MetricResult{}, &StatusError{
			Metric:     m,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	var r MetricResult
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return MetricResult{}, fmt.Errorf("netlify: %s: decode response: %w", m, err)
	}
	if m.dropsTrailingBucket() && len(r.Data) > 0 {
		r.Data = r.Data[:len(r.Data)-1]
	}
	return r, nil
}

func (c *Client) logFailure(m Metric, err error) {
	ev := c.log.Error().Str("metric", string(m)).Err(err)
	var se *StatusError
	if errors.As(err, &se) {
		ev = ev.Int("status", se.StatusCode)
	}
	ev.Msg("fetch metric failed")
}
