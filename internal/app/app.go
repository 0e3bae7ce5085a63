// Package app provides the core application initialization and lifecycle management.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/law-makers/quotes/internal/config"
	"github.com/law-makers/quotes/internal/extract"
	"github.com/law-makers/quotes/internal/fetcher"
	"github.com/law-makers/quotes/internal/pipeline"
	"github.com/law-makers/quotes/internal/ratelimit"
	"github.com/law-makers/quotes/internal/runctx"
	"github.com/law-makers/quotes/internal/utils/output"
	"github.com/law-makers/quotes/pkg/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Application holds all application dependencies and manages their lifecycle.
//
// It is created once per CLI invocation. Use Close() to release idle connections.
type Application struct {
	Config     *config.Config
	Logger     *zerolog.Logger
	HTTPClient *http.Client
	Pacer      *ratelimit.HostPacer
	Fetcher    *fetcher.HTTPFetcher
	Extractor  *extract.Extractor
	startTime  time.Time
}

// Option configures optional Application settings
type Option func(*options)

type options struct {
	logOutput io.Writer
}

// WithLogOutput sends log lines to w instead of stderr
func WithLogOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.logOutput = w
		}
	}
}

// New creates and initializes a new Application with all dependencies.
//
// It performs the following initialization steps:
//   - Configures logging based on the provided config
//   - Creates the request pacer (unpaced unless rps > 0)
//   - Initializes the HTTP client with the configured timeout
//   - Creates the page fetcher and record extractor
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	o := options{logOutput: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}

	logger := newLogger(cfg, o.logOutput)

	logger.Debug().
		Str("level", cfg.LogLevel).
		Bool("json", cfg.JSONLog).
		Msg("Logger initialized")

	pacer := ratelimit.NewHostPacer(cfg.RequestsPerSecond, cfg.RequestBurst)
	logger.Debug().
		Float64("rps", cfg.RequestsPerSecond).
		Bool("unlimited", pacer.Unlimited()).
		Msg("Request pacer initialized")

	// A zero timeout blocks until the server answers
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     90 * time.Second,
		},
	}
	logger.Debug().
		Dur("timeout", cfg.HTTPTimeout).
		Msg("HTTP client initialized")

	pageFetcher := fetcher.New(httpClient, cfg.BaseURL, pacer, cfg.UserAgent)
	extractor := extract.New(cfg.Selectors)
	logger.Debug().
		Str("base_url", cfg.BaseURL).
		Str("quote_selector", extractor.Selectors().Quote).
		Str("next_selector", extractor.Selectors().Next).
		Msg("Fetcher and extractor initialized")

	app := &Application{
		Config:     cfg,
		Logger:     &logger,
		HTTPClient: httpClient,
		Pacer:      pacer,
		Fetcher:    pageFetcher,
		Extractor:  extractor,
		startTime:  time.Now(),
	}

	logger.Info().Msg("Application initialized successfully")
	return app, nil
}

// newLogger configures the global logger and returns it.
// Components log through log.Ctx, which falls back to the global logger.
func newLogger(cfg *config.Config, out io.Writer) zerolog.Logger {
	switch cfg.LogLevel {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	// Treat "info" as non-verbose (don't display info logs unless -v is used)
	default:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	}

	var w io.Writer = out
	if !cfg.JSONLog {
		w = zerolog.ConsoleWriter{Out: out}
	}

	log.Logger = zerolog.New(w).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log.Logger
	return log.Logger
}

// Export runs the whole pipeline and writes the configured output file.
//
// Pages are visited from 1 until the pagination indicator disappears. A run
// stopped by the page bound still writes what it collected and reports
// Truncated in the summary. Any other failure aborts before the file is touched.
func (a *Application) Export(ctx context.Context, hooks ...func(models.Page)) (*models.RunSummary, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = runctx.WithRunContext(ctx)
	rc := runctx.FromContext(ctx)
	logger := runctx.Logger(ctx, *a.Logger)
	ctx = logger.WithContext(ctx)

	pages := 0
	opts := []pipeline.Option{
		pipeline.WithMaxPages(a.Config.MaxPages),
		pipeline.WithPageHook(func(p models.Page) { pages = p.Number }),
	}
	for _, hook := range hooks {
		opts = append(opts, pipeline.WithPageHook(hook))
	}

	logger.Info().
		Str("base_url", a.Config.BaseURL).
		Str("output", a.Config.OutputPath).
		Msg("Starting export")

	quotes, err := pipeline.New(a.Fetcher, a.Extractor, opts...).Run(ctx)
	truncated := errors.Is(err, pipeline.ErrPageLimit)
	if err != nil && !truncated {
		logger.Debug().Err(err).Int("pages", pages).Msg("Export aborted")
		return nil, runctx.NewRunError(ctx, err)
	}

	if err := output.Save(quotes, a.Config.OutputPath, a.Config.Schema); err != nil {
		return nil, runctx.NewRunError(ctx, fmt.Errorf("failed to write %s: %w", a.Config.OutputPath, err))
	}

	summary := &models.RunSummary{
		RunID:     rc.RunID,
		Pages:     pages,
		Quotes:    len(quotes),
		Output:    a.Config.OutputPath,
		Duration:  time.Since(rc.StartTime),
		Truncated: truncated,
	}

	logger.Info().
		Int("pages", summary.Pages).
		Int("quotes", summary.Quotes).
		Str("output", summary.Output).
		Dur("duration", summary.Duration).
		Bool("truncated", summary.Truncated).
		Msg("Export complete")

	return summary, nil
}

// Close releases idle connections held by the application.
// It returns ctx.Err() if ctx ends before the connections are released.
func (a *Application) Close(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	a.Logger.Info().Msg("Shutting down application")

	done := make(chan struct{})
	go func() {
		defer close(done)
		if a.HTTPClient != nil {
			a.HTTPClient.CloseIdleConnections()
		}
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	a.Logger.Info().Dur("uptime", time.Since(a.startTime)).Msg("Application shutdown complete")
	return nil
}
