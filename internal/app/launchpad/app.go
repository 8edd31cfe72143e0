// Package launchpad собирает сервис витрины из конфига и запускает HTTP-сервер.
package launchpad

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/magabrotheeeer/affiliate-launchpad/internal/artifact"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/cache"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/config"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/events"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/leadsync"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/lib/sl"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/mailer"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/metrics"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/migrations"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/plan"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/services/storefront"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/storage"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/storage/memory"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/storage/postgresql"
)

const (
	shutdownTimeout = 15 * time.Second
	brokerRetries   = 5
	brokerDelay     = 2 * time.Second
)

type App struct {
	server  *http.Server
	logger  *slog.Logger
	closers []io.Closer
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.launchpad.New"
	a := &App{logger: logger}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	kv, registry, err := a.backend(ctx, cfg)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	artifacts, err := artifact.New(cfg.Artifacts, logger, m)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	plans, err := plan.New(cfg.ActionPlan, logger, m)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	svc := storefront.New(storefront.Deps{
		Store:          storage.NewAdapter(kv),
		Catalog:        cfg.Catalog,
		Artifacts:      artifacts,
		Guides:         artifact.NewGuideGenerator(m),
		Registry:       registry,
		LeadSync:       leadsync.NewClient(cfg.LeadSync, logger, m),
		Plans:          plans,
		Mailer:         mailer.New(cfg.Sender, logger),
		Publisher:      a.publisher(cfg.RabbitMQ),
		LeadMagnetLink: cfg.LeadMagnetLink,
		Log:            logger,
		Metrics:        m,
	})

	router := chi.NewRouter()
	RegisterRoutes(router, logger, svc, m, reg, cfg.RateLimit)

	a.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return a, nil
}

// backend выбирает хранилище состояния и реестр файлов по драйверу.
func (a *App) backend(ctx context.Context, cfg *config.Config) (storage.KV, storefront.Registry, error) {
	switch cfg.Driver {
	case config.StorageMemory:
		a.logger.Info("using in-memory storage")
		return memory.New(), artifact.NewMemoryRegistry(cfg.Artifacts.TTL), nil

	case config.StorageRedis:
		c, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, c)
		a.logger.Info("using redis storage", slog.String("address", cfg.AddressRedis))
		return c, artifact.NewRedisRegistry(c, cfg.Artifacts.TTL), nil

	case config.StoragePostgres:
		db, err := postgresql.New(ctx, cfg.StorageConnectionString)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, closerFunc(func() error { db.Close(); return nil }))

		sqlDB := stdlib.OpenDBFromPool(db.Pool)
		err = migrations.Run(sqlDB, cfg.MigrationsPath)
		if cerr := sqlDB.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return nil, nil, err
		}
		a.logger.Info("using postgres storage")
		return db, artifact.NewMemoryRegistry(cfg.Artifacts.TTL), nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// publisher подключается к брокеру; без брокера события только логируются.
func (a *App) publisher(cfg config.RabbitMQ) storefront.Publisher {
	if cfg.URL == "" {
		return events.NopPublisher{Log: a.logger}
	}
	p, err := events.Dial(cfg, brokerRetries, brokerDelay)
	if err != nil {
		a.logger.Warn("rabbitmq unavailable, event publishing disabled", sl.Err(err))
		return events.NopPublisher{Log: a.logger}
	}
	a.closers = append(a.closers, p)
	a.logger.Info("publishing events", slog.String("exchange", cfg.Exchange))
	return p
}

func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Warn("failed to close resource", sl.Err(err))
		}
	}
	a.closers = nil
}

// Handler возвращает корневой обработчик сервера.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}
