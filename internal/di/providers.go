// Package di hand-wires the process's collaborators in the same
// staged-provider style as this codebase's infrastructure/di/providers.go —
// one small Provide* function per collaborator, composed by Container
// rather than generated by running wire.
package di

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"depconstraints/application/ports"
	appservices "depconstraints/application/services"
	domainconfig "depconstraints/domain/config"
	infraconfig "depconstraints/infrastructure/config"
	"depconstraints/infrastructure/observability"
	dynamorepo "depconstraints/infrastructure/persistence/dynamodb"
	memoryrepo "depconstraints/infrastructure/persistence/memory"
	pkgconfig "depconstraints/pkg/config"
)

// ProvideLogger builds the process logger for cfg's environment/level.
func ProvideLogger(cfg *pkgconfig.Config) (*zap.Logger, error) {
	return observability.NewLogger(cfg.Environment, cfg.LogLevel)
}

// ProvideCollector builds the Prometheus metrics collector.
func ProvideCollector(cfg *pkgconfig.Config) *observability.Collector {
	return observability.NewCollector("depconstraints")
}

// ProvideTracerProvider installs the OTLP tracer provider when tracing is
// enabled, returning nil otherwise (a nil provider is a valid no-op —
// callers check before Shutdown).
func ProvideTracerProvider(cfg *pkgconfig.Config) (*observability.TracerProvider, error) {
	if !cfg.EnableTracing {
		return nil, nil
	}
	return observability.InitTracing(observability.TracingConfig{
		ServiceName: "depconstraints",
		Environment: cfg.Environment,
		Endpoint: cfg.OTLPEndpoint,
	})
}

// ProvideSolverConfig builds the beam-search configuration.
func ProvideSolverConfig() domainconfig.SolverConfig {
	return domainconfig.DefaultSolverConfig()
}

// ProvideCatalogueWatcher starts watching cfg.CataloguePath for catalogue
// changes, logging failures rather than aborting startup — a missing
// catalogue file at boot is recoverable once an operator uploads one via
// the catalogue API.
func ProvideCatalogueWatcher(cfg *pkgconfig.Config, logger *zap.Logger) *infraconfig.CatalogueWatcher {
	watcher, err := infraconfig.NewCatalogueWatcher(cfg.CataloguePath, logger)
	if err != nil {
		logger.Warn("catalogue watcher unavailable, continuing without file-based hot-reload",
			zap.String("path", cfg.CataloguePath), zap.Error(err))
		return nil
	}
	watcher.Start()
	return watcher
}

// ProvideAWSConfig loads the AWS SDK config for cfg.AWSRegion, only called
// when the catalogue store is DynamoDB-backed.
func ProvideAWSConfig(ctx context.Context, cfg *pkgconfig.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
}

// ProvideCatalogueRepository selects the memory or DynamoDB-backed
// CatalogueRepository per cfg.CatalogueStore.
func ProvideCatalogueRepository(ctx context.Context, cfg *pkgconfig.Config, logger *zap.Logger) (ports.CatalogueRepository, error) {
	switch cfg.CatalogueStore {
	case "dynamodb":
		awsCfg, err := ProvideAWSConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("loading aws config: %w", err)
		}
		client := awsdynamodb.NewFromConfig(awsCfg)
		return dynamorepo.NewCatalogueRepository(client, cfg.DynamoDBTable, logger), nil
	case "memory", "":
		return memoryrepo.NewCatalogueRepository(), nil
	default:
		return nil, fmt.Errorf("unknown catalogue store %q", cfg.CatalogueStore)
	}
}

// ProvideParserService builds the ParserService with no external
// arc/configuration scorer or morphology percolator wired in — production
// never implements those ports (application.ports.ArcScorer,
// ConfigurationScorer, MorphologyPercolator); the HTTP solve handler plugs
// in per-request static adapters instead, and validate-only requests never
// reach the scorers at all.
func ProvideParserService(cfg domainconfig.SolverConfig, logger *zap.Logger, collector *observability.Collector) *appservices.ParserService {
	return appservices.NewParserService(nil, nil, nil, cfg, logger, collector)
}
