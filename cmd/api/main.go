package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/zhouzirui/todo-api/backend/internal/config"
	"github.com/zhouzirui/todo-api/backend/internal/handler"
	"github.com/zhouzirui/todo-api/backend/internal/logging"
	"github.com/zhouzirui/todo-api/backend/internal/model/todo"
	"github.com/zhouzirui/todo-api/backend/internal/observability"
	todoservice "github.com/zhouzirui/todo-api/backend/internal/service/todo"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration", "err", err)
	}

	logger := logging.New(logging.Options{
		Level:           cfg.Log.Level,
		Format:          cfg.Log.Format,
		ReportTimestamp: true,
	})
	log.SetDefault(logger)
	if envErr != nil {
		logger.Debug("no .env file loaded, using system environment only", "err", envErr)
	}

	tracing, err := observability.NewTracing(cfg.Tracing.Enabled, os.Stdout)
	if err != nil {
		logger.Fatal("failed to initialize tracing", "err", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracing.Shutdown(shutdownCtx); err != nil {
			logger.Warn("tracing shutdown", "err", err)
		}
	}()

	metrics := observability.NewMetrics()

	// The dataset is loaded once; a bad file stops startup.
	db, err := todo.Load(cfg.Data.File)
	if err != nil {
		var loadErr *todo.DataLoadError
		if errors.As(err, &loadErr) {
			logger.Fatal("cannot load todo data", "path", loadErr.Path, "err", loadErr.Err)
		}
		logger.Fatal("cannot load todo data", "err", err)
	}
	metrics.RecordDataset(db.SnapshotID(), db.Count(), time.Now())
	logger.Info("todo data loaded", "path", cfg.Data.File, "todos", db.Count(), "snapshot", db.SnapshotID())

	todoService := todoservice.NewService(db, metrics, tracing)
	router := handler.NewRouter(todoService, logger, metrics)

	if cfg.Metrics.Addr != "" {
		admin := &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           handler.NewAdminRouter(todoService, metrics),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("admin listener started", "addr", admin.Addr)
			if err := runServer(ctx, admin); err != nil {
				logger.Error("admin server error", "err", err)
			}
		}()
	} else {
		logger.Info("admin listener disabled")
	}

	startServer(ctx, logger, cfg.Server, router)
}

func startServer(ctx context.Context, logger *log.Logger, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("todo api listening", "addr", addr)
	if err := runServer(ctx, srv); err != nil {
		logger.Fatal("server error", "err", err)
	}
	logger.Info("server stopped")
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
