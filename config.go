package netlifystats

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/eringen/netlifystats/netlify"
)

// SiteConfig holds all configuration for a dashboard instance.
type SiteConfig struct {
	Name string // Dashboard title (default "Netlify Analytics")
	Addr string // Listen address (default ":5000")

	SiteID     string // Required: Netlify site id
	Token      string // Required: Netlify personal access token
	APIBaseURL string // Analytics API root (default netlify.DefaultBaseURL)

	Timezone   string             // Zone sent to the API (default "America/Los_Angeles")
	Resolution netlify.Resolution // Bucket size sent to the API (default "day")

	RequestTimeout time.Duration // Upstream HTTP timeout (default 30s)

	RefreshLimit  int           // Dashboard/API requests per IP per window (default 30)
	RefreshWindow time.Duration // Refresh limiter window (default 1min)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Netlify Analytics"
	}
	if c.Addr == "" {
		c.Addr = ":5000"
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = netlify.DefaultBaseURL
	}
	if c.Timezone == "" {
		c.Timezone = netlify.DefaultTimezone
	}
	if c.Resolution == "" {
		c.Resolution = netlify.DefaultResolution
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 30 * time.Second
	}
	if c.RefreshLimit == 0 {
		c.RefreshLimit = 30
	}
	if c.RefreshWindow == 0 {
		c.RefreshWindow = time.Minute
	}
}

func (c *SiteConfig) validate() error {
	var errs []error
	if c.SiteID == "" {
		errs = append(errs, netlify.ErrMissingSiteID)
	}
	if c.Token == "" {
		errs = append(errs, netlify.ErrMissingToken)
	}
	if c.RequestTimeout < 0 {
		errs = append(errs, fmt.Errorf("request timeout must not be negative, got %s", c.RequestTimeout))
	}
	if c.RefreshLimit < 0 {
		errs = append(errs, errors.New("refresh limit must not be negative"))
	}
	if c.RefreshWindow < 0 {
		errs = append(errs, fmt.Errorf("refresh window must not be negative, got %s", c.RefreshWindow))
	}
	return errors.Join(errs...)
}

// Option configures additional App behavior.
type Option func(*App)

// WithLogger sets the logger used by the server and the fetcher.
func WithLogger(l zerolog.Logger) Option {
	return func(a *App) {
		a.log = l
	}
}

// WithHTTPClient replaces the client used for upstream API calls.
// RequestTimeout is not applied to it.
func WithHTTPClient(hc *http.Client) Option {
	return func(a *App) {
		a.httpClient = hc
	}
}

// WithLabelLocation sets the zone chart labels are rendered in
// (default: the process's local zone).
func WithLabelLocation(loc *time.Location) Option {
	return func(a *App) {
		a.shaper.Location = loc
	}
}

// WithClock overrides the time source used for default windows.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}
