package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jaminalder/tic-tac-based/internal/app"
	"github.com/jaminalder/tic-tac-based/internal/config"
	"github.com/jaminalder/tic-tac-based/internal/logger"
	"github.com/jaminalder/tic-tac-based/internal/store"
	"github.com/jaminalder/tic-tac-based/internal/telemetry"
	"github.com/jaminalder/tic-tac-based/internal/web"
)

func main() {
	path := flag.String("config", envOr("CONFIG_PATH", "./config.yml"), "path to the config file")
	flag.Parse()

	if err := run(*path); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	log := logger.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Options{
		Endpoint:    cfg.Telemetry.OTLPEndpoint,
		ServiceName: cfg.Telemetry.ServiceName,
		Insecure:    cfg.Telemetry.Insecure,
	})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(sctx); err != nil {
			log.Error("telemetry shutdown", "error", err)
		}
	}()

	st, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	svc := app.NewService(st,
		app.WithLogger(log),
		app.WithOverlayDelay(cfg.Session.OverlayDelay),
	)

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      web.NewServer(svc, log),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		BaseContext:  func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server started", "addr", cfg.HTTP.Addr, "store", cfg.Session.Store)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	sctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info("server exiting")
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (store.Store, func(), error) {
	switch cfg.Session.Store {
	case config.StoreRedis:
		client, err := store.DialRedis(ctx, cfg.Redis.GetRedisAddr(), cfg.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		log.Info("using redis session store", "addr", cfg.Redis.GetRedisAddr())
		return store.NewRedis(client, cfg.Session.TTL), func() { _ = client.Close() }, nil
	default:
		mem := store.NewMemory(cfg.Session.TTL)
		go mem.Janitor(ctx, cfg.Session.SweepInterval)
		return mem, func() {}, nil
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
