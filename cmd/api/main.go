package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/baharkarakas/bank-transactions/internal/api"
	"github.com/baharkarakas/bank-transactions/internal/config"
	"github.com/baharkarakas/bank-transactions/internal/db"
	"github.com/baharkarakas/bank-transactions/internal/events"
	"github.com/baharkarakas/bank-transactions/internal/logger"
	"github.com/baharkarakas/bank-transactions/internal/metrics"
	"github.com/baharkarakas/bank-transactions/internal/repository"
	"github.com/baharkarakas/bank-transactions/internal/repository/memory"
	"github.com/baharkarakas/bank-transactions/internal/repository/postgres"
	"github.com/baharkarakas/bank-transactions/internal/services"
	"github.com/baharkarakas/bank-transactions/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env, cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	repos, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	pub, err := openPublisher(cfg, log)
	if err != nil {
		return err
	}
	defer pub.Close()

	wp := worker.NewPool(cfg.Workers)
	// drains pending audit writes before the store and broker close
	defer wp.Stop()

	loc := cfg.Location()
	clock := func() time.Time { return time.Now().In(loc) }

	rec := services.NewRecorder(repos.AuditLogs, pub, wp, log)
	txnSvc := services.NewTransactionService(repos, rec, clock, log)
	accountSvc := services.NewAccountService(repos.Accounts, rec, log)

	metrics.Init()
	r := api.NewRouter(api.RouterDeps{Cfg: cfg, Log: log, TxnSvc: txnSvc, AccountSvc: accountSvc})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server starting", "port", cfg.HTTPPort, "storage", cfg.StorageDriver, "tz", loc.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func openStore(ctx context.Context, cfg config.Config, log *slog.Logger) (repository.Repositories, func(), error) {
	switch cfg.StorageDriver {
	case "memory":
		return memory.NewRepositories(memory.NewStore()), func() {}, nil
	case "postgres":
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return repository.Repositories{}, nil, fmt.Errorf("db connect: %w", err)
		}
		if cfg.Migrate {
			if err := db.RunMigrations(ctx, pool); err != nil {
				pool.Close()
				return repository.Repositories{}, nil, fmt.Errorf("migrations: %w", err)
			}
		}
		log.Info("postgres connected")
		return postgres.NewRepositories(pool), pool.Close, nil
	}
	return repository.Repositories{}, nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
}

func openPublisher(cfg config.Config, log *slog.Logger) (events.Publisher, error) {
	if cfg.RabbitMQ.URL == "" {
		log.Info("RABBITMQ_URL not set, events are dropped")
		return events.NopPublisher{}, nil
	}
	p, err := events.NewRabbitMQPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.RoutingPrefix)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: %w", err)
	}
	log.Info("rabbitmq connected", "exchange", cfg.RabbitMQ.Exchange)
	return p, nil
}
