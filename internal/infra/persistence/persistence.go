// Package persistence selects the record store backend named in config.
package persistence

import (
	"log/slog"

	"cafeadmin/config"
	"cafeadmin/internal/domain/repository"
	"cafeadmin/internal/infra/persistence/gormstore"
	"cafeadmin/internal/infra/persistence/memory"

	"go.uber.org/fx"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// Stores are the repositories the cafe service writes through.
type Stores struct {
	fx.Out

	Cafes  repository.CafeRepository
	Images repository.CafeImageRepository
}

// New builds the repositories for config.Store.Driver. The memory driver
// needs no database and keeps nothing across restarts.
func New(params Params) (Stores, error) {
	if params.Config.Store.Driver == config.StoreDriverMemory {
		params.Logger.Warn("Using in-memory record store; records are lost on restart")

		return Stores{
			Cafes:  memory.NewCafeRepository(),
			Images: memory.NewCafeImageRepository(),
		}, nil
	}

	db, err := gormstore.New(gormstore.Params{
		Lifecycle: params.Lifecycle,
		Config:    params.Config,
		Logger:    params.Logger,
	})
	if err != nil {
		return Stores{}, err
	}

	return Stores{
		Cafes:  gormstore.NewCafeRepository(db),
		Images: gormstore.NewCafeImageRepository(db),
	}, nil
}
