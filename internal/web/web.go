// Package web assembles the transpiler API from project configuration.
package web

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sylvre-lang/sylvre/internal/cli/config"
	"github.com/sylvre-lang/sylvre/internal/web/api"
	"github.com/sylvre-lang/sylvre/internal/web/cache"
	"github.com/sylvre-lang/sylvre/internal/web/middleware"
	"github.com/sylvre-lang/sylvre/internal/web/ratelimit"
	"github.com/sylvre-lang/sylvre/internal/web/server"
)

// New builds the API server described by cfg. The Redis backend shares its
// client between the response cache and the rate limiter; both are closed
// when the server shuts down.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*server.Server, error) {
	cacheConfig := cache.Config{DefaultTTL: cfg.Cache.TTL, Prefix: cfg.Cache.Prefix}

	var (
		responses cache.Cache
		limiter   ratelimit.Limiter
		closers   []func() error
	)

	switch cfg.Cache.Backend {
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.Cache.RedisAddr, DB: cfg.Cache.RedisDB})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Cache.RedisAddr, err)
		}

		responses = cache.NewRedisCacheWithClient(client, cacheConfig)
		closers = append(closers, responses.Close)

		if cfg.Server.RateLimit > 0 {
			rl, err := ratelimit.NewRedisLimiter(client, cfg.Server.RateLimit, time.Minute, cfg.Cache.Prefix)
			if err != nil {
				client.Close()
				return nil, err
			}
			limiter = rl
		}
		logger.Info("using redis cache", zap.String("addr", cfg.Cache.RedisAddr))

	default:
		mc := cache.NewMemoryCache(cacheConfig, time.Minute)
		responses = mc
		closers = append(closers, mc.Close)

		if cfg.Server.RateLimit > 0 {
			tb := ratelimit.NewTokenBucket(cfg.Server.RateLimit, time.Minute)
			limiter = tb
			closers = append(closers, tb.Close)
		}
	}

	cors := middleware.DefaultCORSConfig()
	if len(cfg.Server.AllowedOrigins) > 0 {
		cors.AllowedOrigins = cfg.Server.AllowedOrigins
	}

	handler := api.NewHandler(api.Options{
		Cache:        responses,
		CacheTTL:     cfg.Cache.TTL,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		Logger:       logger,
	})

	srvConfig := server.DefaultConfig(api.NewRouter(handler, api.RouterOptions{
		Logger:  logger,
		CORS:    cors,
		Limiter: limiter,
	}))
	srvConfig.Address = cfg.Server.Addr()
	srvConfig.ReadTimeout = cfg.Server.ReadTimeout
	srvConfig.WriteTimeout = cfg.Server.WriteTimeout
	srvConfig.Logger = logger

	srv, err := server.New(srvConfig)
	if err != nil {
		for _, c := range closers {
			c()
		}
		return nil, err
	}

	srv.OnShutdown(func(context.Context) error {
		for _, c := range closers {
			if err := c(); err != nil {
				return err
			}
		}
		return nil
	})

	return srv, nil
}
