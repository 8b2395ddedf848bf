//go:build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	pkgconfig "depconstraints/pkg/config"
)

// SuperSet is the provider set a `wire build` run over this package would
// consume. Container.go's InitializeContainer is the hand-written
// equivalent of what wire would generate from it — this file documents the
// wiring shape without ever actually being compiled.
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideCollector,
	ProvideTracerProvider,
	ProvideSolverConfig,
	ProvideCatalogueWatcher,
	ProvideCatalogueRepository,
	ProvideParserService,
	wire.Struct(new(Container), "*"),
)

func initializeContainerWire(ctx context.Context, cfg *pkgconfig.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil
}
