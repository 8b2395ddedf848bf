package di

import (
	"context"

	"go.uber.org/zap"

	"depconstraints/application/ports"
	appservices "depconstraints/application/services"
	"depconstraints/infrastructure/config"
	"depconstraints/infrastructure/observability"
	pkgconfig "depconstraints/pkg/config"
)

// Container holds every collaborator the process wires up at startup,
// grounded on this codebase's infrastructure/di.Container (wire.go).
type Container struct {
	Config *pkgconfig.Config
	Logger *zap.Logger
	Collector *observability.Collector
	Tracer *observability.TracerProvider
	Watcher *config.CatalogueWatcher
	Catalogues ports.CatalogueRepository
	Parser *appservices.ParserService
}

// InitializeContainer builds a fully wired Container, standing in for the
// output of a `wire build` run over the Provide* functions in this
// package — hand-assembled in the same order wire would resolve.
func InitializeContainer(ctx context.Context, cfg *pkgconfig.Config) (*Container, error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, err
	}

	collector := ProvideCollector(cfg)

	tracer, err := ProvideTracerProvider(cfg)
	if err != nil {
		logger.Warn("tracing unavailable, continuing without spans", zap.Error(err))
		tracer = nil
	}

	watcher := ProvideCatalogueWatcher(cfg, logger)

	catalogues, err := ProvideCatalogueRepository(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	solverCfg := ProvideSolverConfig()
	parser := ProvideParserService(solverCfg, logger, collector)

	return &Container{
		Config: cfg,
		Logger: logger,
		Collector: collector,
		Tracer: tracer,
		Watcher: watcher,
		Catalogues: catalogues,
		Parser: parser,
	}, nil
}

// Shutdown releases the container's background collaborators (tracer
// exporter, catalogue file watcher) on graceful process shutdown.
func (c *Container) Shutdown(ctx context.Context) {
	if c.Watcher != nil {
		c.Watcher.Stop()
	}
	if c.Tracer != nil {
		if err := c.Tracer.Shutdown(ctx); err != nil {
			c.Logger.Warn("tracer shutdown error", zap.Error(err))
		}
	}
}
