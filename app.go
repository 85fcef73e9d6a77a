// Package netlifystats serves a Netlify Analytics dashboard built with Go,
// Echo, and templ. It fetches site metrics from the Netlify Analytics API on
// every request, shapes them into totals and chart series, and renders them
// as HTML or JSON.
package netlifystats

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/eringen/netlifystats/dashboard"
	"github.com/eringen/netlifystats/netlify"
)

// App wires together the Netlify client, the shaper, middleware and
// handlers.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Client *netlify.Client

	log        zerolog.Logger
	httpClient *http.Client
	shaper     dashboard.Shaper
	limiter    *RefreshLimiter
	now        func() time.Time
}

// New validates cfg and builds an App ready to Start.
func New(cfg SiteConfig, opts ...Option) (*App, error) {
	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("netlifystats: %w", err)
	}

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		log:    log.Logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.httpClient == nil {
		a.httpClient = &http.Client{Timeout: cfg.RequestTimeout}
	}

	client, err := netlify.NewClient(netlify.Config{
		BaseURL: cfg.APIBaseURL,
		SiteID:  cfg.SiteID,
		Token:   cfg.Token,
	},
		netlify.WithHTTPClient(a.httpClient),
		netlify.WithLogger(a.log),
		netlify.WithClock(a.now),
	)
	if err != nil {
		return nil, fmt.Errorf("netlifystats: init client: %w", err)
	}
	a.Client = client

	a.limiter = NewRefreshLimiter(cfg.RefreshLimit, cfg.RefreshWindow)

	a.Echo.HideBanner = true
	a.Echo.HidePort = true
	a.setupMiddleware()
	a.setupRoutes()
	return a, nil
}

// Start listens on Config.Addr and blocks until the server stops.
// A server closed through Shutdown is not an error.
func (a *App) Start() error {
	a.log.Info().
		Str("addr", a.Config.Addr).
		Str("site_id", a.Config.SiteID).
		Msg("dashboard listening")
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("netlifystats: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones until ctx
// is done.
func (a *App) Shutdown(ctx context.Context) error {
	defer a.limiter.Stop()
	a.log.Info().Msg("shutting down")
	return a.Echo.Shutdown(ctx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/public/dashboard.css", echo.WrapHandler(http.StripPrefix("/public/", assetHandler())))
	e.GET("/healthz", handleHealth)
	e.GET("/", handleRootRedirect)

	e.GET("/analytics/", a.handleDashboard, a.refreshLimit)
	e.GET("/analytics/api/summary", a.handleSummary, a.refreshLimit)
}
