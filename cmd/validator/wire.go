//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"github.com/cory-johannsen/arena/internal/bootstrap"
	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/server"
	"github.com/cory-johannsen/arena/internal/storage/postgres"
	"github.com/cory-johannsen/arena/internal/validation"
)

func initialize(ctx context.Context, path bootstrap.ConfigPath) (*server.Lifecycle, func(), error) {
	wire.Build(
		bootstrap.ProvideConfig,
		bootstrap.ProvideLogger,
		bootstrap.ProvideCatalog,
		bootstrap.ProvideScripts,
		bootstrap.ProvideSimulator,
		bootstrap.ProvidePool,
		bootstrap.ProvideFightRepository,
		wire.Bind(new(validation.Store), new(*postgres.FightRepository)),
		wire.Bind(new(validation.Replayer), new(*combat.Simulator)),
		validation.NewValidator,
		bootstrap.ProvideWorker,
		bootstrap.ProvideLifecycle,
	)
	return nil, nil, nil
}
