package cli

import (
	"context"
	"fmt"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/plenum/pkg/adapters/file"
	"github.com/aretw0/plenum/pkg/adapters/loam"
	"github.com/aretw0/plenum/pkg/adapters/memory"
	"github.com/aretw0/plenum/pkg/adapters/redis"
	"github.com/aretw0/plenum/pkg/config"
	"github.com/aretw0/plenum/pkg/persistence/middleware"
	"github.com/aretw0/plenum/pkg/ports"
)

// Backend bundles the store selected by the configuration with the
// resources it holds.
type Backend struct {
	Store ports.ProtocolStore
	// Locker is set for backends shared between processes.
	Locker ports.DistributedLocker
	close  func() error
}

// Close releases connections held by the backend.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// OpenBackend creates the store named by cfg.Backend and wraps it with mws.
// Redis connections are checked with a PING before use.
func OpenBackend(ctx context.Context, cfg config.StoreConfig, mws ...middleware.Middleware) (*Backend, error) {
	b, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	b.Store = middleware.Chain(b.Store, mws...)
	return b, nil
}

func openBackend(ctx context.Context, cfg config.StoreConfig) (*Backend, error) {
	switch cfg.Backend {
	case "", "memory":
		return &Backend{Store: memory.NewStore()}, nil
	case "file":
		return &Backend{Store: file.New(cfg.Path)}, nil
	case "loam":
		store, err := loam.Open(cfg.Path)
		if err != nil {
			return nil, err
		}
		return &Backend{Store: store}, nil
	case "redis":
		client := backend.NewClient(&backend.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("redis at %s unreachable: %w", cfg.RedisAddr, err)
		}
		store := redis.NewFromClient(client, redis.WithPrefix(cfg.RedisPrefix), redis.WithTTL(cfg.RedisTTL))
		return &Backend{
			Store:  store,
			Locker: redis.NewLocker(client, cfg.RedisPrefix),
			close:  store.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
