// Command server runs the credit line decision service.
//
// main wires config, stores, the decision engine, the rate limiter, and the
// HTTP router, then runs the server until a shutdown signal arrives. Business
// logic lives in the internal packages.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"creditline/internal/creditline/handler"
	"creditline/internal/creditline/metrics"
	"creditline/internal/creditline/service"
	"creditline/internal/creditline/store"
	"creditline/internal/creditline/strategy"
	httpapi "creditline/internal/http"
	"creditline/internal/platform/config"
	"creditline/internal/platform/httpserver"
	"creditline/internal/platform/logger"
	"creditline/internal/platform/postgres"
	platformredis "creditline/internal/platform/redis"
	"creditline/internal/ratelimit"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "creditline: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	recordStore, cleanupStore, err := buildStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanupStore()

	svc, err := service.New(recordStore, service.Config{
		Ratios: strategy.Ratios{
			SMERevenueRatio:  cfg.SMERevenueRatio,
			StartupCashRatio: cfg.StartupCashRatio,
		},
		MaxFailedAttempts: cfg.MaxFailedAttempts,
		EscalationMessage: cfg.EscalationMessage,
	},
		service.WithLogger(log),
		service.WithMetrics(metrics.New()),
	)
	if err != nil {
		return fmt.Errorf("build decision service: %w", err)
	}

	limiter, cleanupLimiter, err := buildLimiter(ctx, cfg, g)
	if err != nil {
		return err
	}
	defer cleanupLimiter()

	limitMW := ratelimit.NewMiddleware(limiter, log,
		ratelimit.WithDisabled(cfg.RateLimitDisabled))

	h := handler.New(svc,
		handler.WithLogger(log),
		handler.WithRateLimit(limitMW.Handler),
	)

	srv := httpserver.New(cfg.Addr, httpapi.NewRouter(h))

	g.Go(func() error {
		log.Info("starting credit line service",
			"addr", cfg.Addr,
			"store_backend", cfg.StoreBackend,
			"rate_limit_backend", cfg.RateLimitBackend,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// buildStore selects the record store backend. The returned cleanup is safe to
// call even when it is a no-op.
func buildStore(ctx context.Context, cfg config.Config) (store.Store, func(), error) {
	switch cfg.StoreBackend {
	case config.StorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("build postgres store: %w", err)
		}
		pg := store.NewPostgres(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("build postgres store: %w", err)
		}
		return pg, pool.Close, nil
	default:
		return store.NewMemory(), func() {}, nil
	}
}

// buildLimiter selects the rate limit backend. The memory checker gets its
// eviction loop scheduled on the errgroup.
func buildLimiter(ctx context.Context, cfg config.Config, g *errgroup.Group) (ratelimit.Checker, func(), error) {
	limitCfg := ratelimit.Config{
		Requests: cfg.RateLimitRequests,
		Window:   cfg.RateLimitWindow,
	}

	switch cfg.RateLimitBackend {
	case config.LimiterRedis:
		client, err := platformredis.New(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("build redis limiter: %w", err)
		}
		checker, err := ratelimit.NewRedis(client.Client, limitCfg)
		if err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("build redis limiter: %w", err)
		}
		return checker, func() { _ = client.Close() }, nil
	default:
		checker, err := ratelimit.NewMemory(limitCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("build memory limiter: %w", err)
		}
		g.Go(func() error {
			checker.Run(ctx, time.Minute)
			return nil
		})
		return checker, func() {}, nil
	}
}
