package routestore

import (
	"context"
	"fmt"

	"route-publisher/core/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Pinger reports whether the backing store is reachable.
type Pinger func(ctx context.Context) error

// New builds the Store selected by cfg.Driver together with a health probe.
func New(cfg Config, logger *zap.Logger, observer ReadObserver) (Store, Pinger, error) {
	switch cfg.Driver {
	case DriverMemory:
		return NewMemory(), func(context.Context) error { return nil }, nil
	case DriverRedis, "":
		store, client, err := NewRedis(cfg, logger, observer)
		if err != nil {
			return nil, nil, err
		}
		return store, pingFunc(client), nil
	default:
		return nil, nil, fmt.Errorf("routestore: %w: unknown driver %q", utils.ErrConfiguration, cfg.Driver)
	}
}

func pingFunc(client redis.UniversalClient) Pinger {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
