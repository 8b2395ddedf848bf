package di

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depconstraints/application/ports"
	"depconstraints/domain/config"
	pkgconfig "depconstraints/pkg/config"
)

func testConfig() *pkgconfig.Config {
	return &pkgconfig.Config{
		Environment: "development",
		LogLevel: "info",
		CatalogueStore: "memory",
		CataloguePath: "",
		AWSRegion: "us-east-1",
		DynamoDBTable: "depconstraints-catalogues",
	}
}

func TestProvideLogger_BuildsDevelopmentLogger(t *testing.T) {
	logger, err := ProvideLogger(testConfig())
	require.NoError(t, err)
	require.NotNil(t, logger)
}

func TestProvideCollector_ReturnsSharedSingleton(t *testing.T) {
	first := ProvideCollector(testConfig())
	second := ProvideCollector(testConfig())
	assert.Same(t, first, second)
}

func TestProvideTracerProvider_NilWhenTracingDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.EnableTracing = false

	tracer, err := ProvideTracerProvider(cfg)
	require.NoError(t, err)
	assert.Nil(t, tracer)
}

func TestProvideSolverConfig_MatchesDomainDefault(t *testing.T) {
	assert.Equal(t, config.DefaultSolverConfig(), ProvideSolverConfig())
}

func TestProvideCatalogueWatcher_NilWhenPathUnreadable(t *testing.T) {
	logger, err := ProvideLogger(testConfig())
	require.NoError(t, err)

	cfg := testConfig()
	cfg.CataloguePath = "/nonexistent/does-not-exist/catalogue.yaml"

	watcher := ProvideCatalogueWatcher(cfg, logger)
	assert.Nil(t, watcher, "a missing catalogue file must not abort startup")
}

func TestProvideCatalogueRepository_MemoryBackend(t *testing.T) {
	logger, err := ProvideLogger(testConfig())
	require.NoError(t, err)

	cfg := testConfig()
	cfg.CatalogueStore = "memory"

	repo, err := ProvideCatalogueRepository(context.Background(), cfg, logger)
	require.NoError(t, err)
	require.NotNil(t, repo)

	require.NoError(t, repo.Save(context.Background(), "cat-1", []ports.RawConstraintRecord{{Description: "a"}}))
	got, err := repo.Load(context.Background(), "cat-1")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestProvideCatalogueRepository_DefaultsToMemoryWhenUnset(t *testing.T) {
	logger, err := ProvideLogger(testConfig())
	require.NoError(t, err)

	cfg := testConfig()
	cfg.CatalogueStore = ""

	repo, err := ProvideCatalogueRepository(context.Background(), cfg, logger)
	require.NoError(t, err)
	require.NotNil(t, repo)
}

func TestProvideCatalogueRepository_UnknownBackendErrors(t *testing.T) {
	logger, err := ProvideLogger(testConfig())
	require.NoError(t, err)

	cfg := testConfig()
	cfg.CatalogueStore = "redis"

	_, err = ProvideCatalogueRepository(context.Background(), cfg, logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown catalogue store")
}

func TestProvideParserService_BuildsUsableService(t *testing.T) {
	logger, err := ProvideLogger(testConfig())
	require.NoError(t, err)

	parser := ProvideParserService(config.DefaultSolverConfig(), logger, ProvideCollector(testConfig()))
	require.NotNil(t, parser)
}
