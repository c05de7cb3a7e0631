package app

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/bobmcallan/cloudflare-mcp/internal/cloudflare"
	"github.com/bobmcallan/cloudflare-mcp/internal/common"
	"github.com/bobmcallan/cloudflare-mcp/internal/config"
	"github.com/bobmcallan/cloudflare-mcp/internal/mcp"
	"github.com/bobmcallan/cloudflare-mcp/internal/telemetry"
	"github.com/bobmcallan/cloudflare-mcp/internal/tools"
)

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	// Tracing is nil when telemetry is disabled.
	Tracing *sdktrace.TracerProvider

	Cloudflare *cloudflare.Client
	Tools      *tools.Registry
	MCPHandler *mcp.Handler
}

// New initializes the application with all dependencies.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: logger,
	}

	a.Cloudflare = cloudflare.NewClient(cfg.Cloudflare.BaseURL, logger)
	a.Tools = tools.NewRegistry(logger)

	if cfg.Telemetry.Enabled {
		tp, err := telemetry.NewTracerProvider(context.Background(), cfg.Telemetry, common.GetVersion())
		if err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
		a.Tracing = tp
		otel.SetTracerProvider(tp)
		a.Cloudflare.UseTracerProvider(tp)
		a.Tools.UseTracerProvider(tp)
		logger.Info().
			Str("service", cfg.Telemetry.ServiceName).
			Str("endpoint", cfg.Telemetry.Endpoint).
			Msg("tracing enabled")
	}

	if err := a.Tools.RegisterAll(tools.ArithmeticTools()...); err != nil {
		return nil, fmt.Errorf("failed to register arithmetic tools: %w", err)
	}
	if err := a.Tools.RegisterAll(tools.CloudflareTools(a.Cloudflare)...); err != nil {
		return nil, fmt.Errorf("failed to register cloudflare tools: %w", err)
	}

	a.MCPHandler = mcp.NewHandler(cfg, logger, a.Tools)

	logger.Info().Msg("application initialization complete")

	return a, nil
}

// Close flushes and stops the tracer provider.
func (a *App) Close() error {
	if a.Tracing == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.Tracing.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down tracing: %w", err)
	}
	return nil
}
