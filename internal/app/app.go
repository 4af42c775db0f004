// Package app wires the gateway together: configuration, telemetry, the
// fetch pipeline, and the serving surfaces.
package app

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/tedpecoulas/claude-skills-mcp/internal/domain"
	"github.com/tedpecoulas/claude-skills-mcp/internal/infra/catalog"
	"github.com/tedpecoulas/claude-skills-mcp/internal/infra/fetcher"
	"github.com/tedpecoulas/claude-skills-mcp/internal/infra/gateway"
	"github.com/tedpecoulas/claude-skills-mcp/internal/infra/httpserver"
	"github.com/tedpecoulas/claude-skills-mcp/internal/infra/router"
	"github.com/tedpecoulas/claude-skills-mcp/internal/infra/telemetry"
)

type App struct {
	logger *zap.Logger
}

type ServeConfig struct {
	ConfigPath    string
	ListenAddress string
}

type StdioConfig struct {
	ConfigPath string
}

type ValidateOptions struct {
	ConfigPath string
}

func New(logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		logger: logger.Named("app"),
	}
}

// Serve runs the HTTP gateway plus the observability endpoint until the
// context is cancelled.
func (a *App) Serve(ctx context.Context, cfg ServeConfig) error {
	loader := catalog.NewLoader(a.logger)
	loaded, err := loader.Load(ctx, cfg.ConfigPath)
	if err != nil {
		return err
	}
	if cfg.ListenAddress != "" {
		loaded.ListenAddress = cfg.ListenAddress
	}

	a.logger.Info("configuration loaded",
		zap.String("config", cfg.ConfigPath),
		zap.Int("skills", loaded.Catalog.Len()),
		zap.Duration("cache_ttl", loaded.CacheTTL))

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := telemetry.NewPrometheusMetrics(registry)

	dispatcher, contentFetcher := a.buildPipeline(loaded, metrics)
	server := httpserver.New(dispatcher, loaded.Catalog, contentFetcher, httpserver.Options{
		Addr:   loaded.ListenAddress,
		Logger: a.logger,
	})

	// Both servers share a context that is cancelled as soon as either
	// returns, so a failed listener tears the other one down instead of
	// leaving Serve blocked on it.
	serveCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	obsDone := make(chan error, 1)
	go func() {
		obsDone <- telemetry.StartHTTPServer(serveCtx, telemetry.HTTPServerOptions{
			Addr:          loaded.Observability.ListenAddress,
			EnableMetrics: loaded.Observability.EnableMetrics,
			EnableHealthz: loaded.Observability.EnableHealthz,
			Registry:      registry,
		}, a.logger)
	}()

	err = server.Run(serveCtx)
	cancel()
	if obsErr := <-obsDone; obsErr != nil && err == nil {
		err = obsErr
	}
	return err
}

// ServeStdio runs the gateway over a single stdio MCP session. Metrics are
// disabled here; stdout belongs to the protocol.
func (a *App) ServeStdio(ctx context.Context, cfg StdioConfig) error {
	loader := catalog.NewLoader(a.logger)
	loaded, err := loader.Load(ctx, cfg.ConfigPath)
	if err != nil {
		return err
	}

	cache := domain.NewContentCache(loaded.CacheTTL)
	contentFetcher := fetcher.New(loaded.Catalog, cache, fetcher.Options{
		Timeout: loaded.FetchTimeout,
		Logger:  a.logger,
	})
	return gateway.New(loaded.Catalog, contentFetcher, a.logger).Run(ctx)
}

func (a *App) buildPipeline(loaded catalog.Config, metrics domain.Metrics) (*router.Dispatcher, router.ContentFetcher) {
	cache := domain.NewContentCache(loaded.CacheTTL)
	contentFetcher := fetcher.New(loaded.Catalog, cache, fetcher.Options{
		Timeout: loaded.FetchTimeout,
		Logger:  a.logger,
		Metrics: metrics,
	})
	dispatcher := router.NewDispatcher(loaded.Catalog, contentFetcher, router.Options{
		Logger:  a.logger,
		Metrics: metrics,
	})
	return dispatcher, contentFetcher
}
