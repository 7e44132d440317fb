package cmd

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/telhawk-systems/telhawk-relay/internal/config"
	"github.com/telhawk-systems/telhawk-relay/internal/logging"
	"github.com/telhawk-systems/telhawk-relay/internal/messaging"
	natsclient "github.com/telhawk-systems/telhawk-relay/internal/messaging/nats"
	"github.com/telhawk-systems/telhawk-relay/internal/resource"
	"github.com/telhawk-systems/telhawk-relay/internal/route"
	"github.com/telhawk-systems/telhawk-relay/resources"
)

// dependencies holds the broker clients a registry was built with.
type dependencies struct {
	registry *route.Registry
	nats     messaging.Client
	redis    *redis.Client
}

func newResolver(cfg *config.Config) resource.Resolver {
	return resource.NewDirChain(cfg.Resources.Dirs, resources.FS)
}

// newDependencies connects the enabled brokers and builds the component registry.
func newDependencies(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*dependencies, error) {
	d := &dependencies{
		registry: route.DefaultRegistry(logger, newResolver(cfg)),
	}

	if cfg.NATS.Enabled {
		client, err := natsclient.NewClient(natsclient.Config{
			URL:           cfg.NATS.URL,
			Name:          cfg.NATS.Name,
			MaxReconnects: cfg.NATS.MaxReconnects,
			ReconnectWait: cfg.NATS.ReconnectWait,
			Timeout:       cfg.NATS.Timeout,
			Token:         cfg.NATS.Token,
		}, logger)
		if err != nil {
			return nil, err
		}
		d.nats = client
		d.registry.Register(route.NATSComponent(client))
		logger.Info("Connected to NATS", "url", cfg.NATS.URL)
	}

	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			d.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		d.redis = client
		d.registry.Register(route.RedisComponent(client))
		logger.Info("Connected to Redis", "addr", cfg.Redis.Addr)
	}

	return d, nil
}

// Close drains NATS and closes Redis.
func (d *dependencies) Close() {
	if d.nats != nil {
		_ = d.nats.Drain()
	}
	if d.redis != nil {
		_ = d.redis.Close()
	}
}
