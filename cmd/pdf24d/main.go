package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"github.com/notepid/pdf24/internal/blob"
	"github.com/notepid/pdf24/internal/catalog"
	"github.com/notepid/pdf24/internal/config"
	"github.com/notepid/pdf24/internal/db"
	"github.com/notepid/pdf24/internal/logging"
	"github.com/notepid/pdf24/internal/server"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, closeLog, err := logging.ForServer(cfg.Log)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", zap.Error(err))
		_ = closeLog()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	if err := os.MkdirAll(cfg.Paths.Data, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	database, err := db.Open(cfg.Paths.Database, log.Named("db"))
	if err != nil {
		return err
	}
	defer database.Close()
	version, err := database.Version()
	if err != nil {
		return err
	}
	log.Info("database opened", zap.String("path", cfg.Paths.Database), zap.Int("schema_version", version))

	blobs, err := blob.Open(cfg.Storage)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	log.Info("storage ready", zap.String("driver", cfg.Storage.Driver))

	srv, err := server.New(cfg.Server, catalog.NewRepo(database.DB), blobs, log, nil)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       5 * time.Minute,
		WriteTimeout:      5 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	log.Info("pdf24d is running",
		zap.String("listen", cfg.Server.Listen),
		zap.Int("daily_quota", cfg.Server.DailyQuota),
		zap.Int64("max_upload_bytes", cfg.Server.MaxUploadBytes),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err == nil {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case sig := <-sigCh:
		log.Info("received signal, shutting down", zap.Stringer("signal", sig))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("shut down complete")
	return nil
}
