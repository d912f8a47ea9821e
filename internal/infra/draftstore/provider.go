package draftstore

import (
	"context"
	"log/slog"

	"cafeadmin/config"
	"cafeadmin/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// Params holds dependencies for New, injected by Fx.
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New selects the draft backend from configuration.
func New(params Params) (service.DraftStore, error) {
	cfg := params.Config.Draft

	switch cfg.Backend {
	case config.DraftBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		params.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				if err := client.Ping(ctx).Err(); err != nil {
					return errors.Wrapf(err, "ping redis %s", cfg.Redis.Addr)
				}
				params.Logger.Info("Draft store ready", slog.String("backend", "redis"), slog.String("addr", cfg.Redis.Addr))

				return nil
			},
			OnStop: func(context.Context) error {
				return client.Close()
			},
		})

		return NewRedisStore(client, cfg.Redis.Prefix, cfg.Redis.TTL), nil
	case config.DraftBackendFile, "":
		store, err := NewFileStore(cfg.Dir)
		if err != nil {
			return nil, err
		}
		params.Logger.Info("Draft store ready", slog.String("backend", "file"), slog.String("dir", cfg.Dir))

		return store, nil
	}

	return nil, errors.Errorf("unknown draft backend: %s", cfg.Backend)
}
