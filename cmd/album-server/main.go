package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"album/internal/asset"
	"album/internal/config"
	"album/internal/logging"
	"album/internal/observability"
	serverHTTP "album/internal/server/http"
	"album/internal/storage/blobstore"
	"album/internal/storage/index"
)

func main() {
	logger := logging.NewComponentLogger("Main")
	logger.Info("Starting album server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.Server.Debug {
		logging.SetLevel(logging.DEBUG)
	}

	logger.Info("=== Server Configuration ===")
	logger.Info("Port: %d", cfg.Server.Port)
	logger.Info("Storage provider: %s", cfg.Storage.Provider)
	logger.Info("Storage folder: %s", cfg.Storage.Folder)
	logger.Info("Database: %s", databaseLabel(cfg.Database.URL))
	logger.Info("===========================")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := buildBlobStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize object store: %v", err)
	}

	idx, cleanup, err := buildIndex(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize metadata index: %v", err)
	}
	defer cleanup()

	manager := asset.NewManager(store, idx,
		asset.WithFolder(cfg.Storage.Folder),
		asset.WithURLPrefix(cfg.Storage.URLPrefix),
	)

	metrics := observability.NewMetrics()
	router := serverHTTP.NewRouter(manager, metrics, serverHTTP.RouterOptions{
		Debug:          cfg.Server.Debug,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced shutdown: %v", err)
	}
	logger.Info("Server stopped")
}

func buildBlobStore(ctx context.Context, cfg *config.Config) (blobstore.BlobStore, error) {
	switch cfg.Storage.Provider {
	case config.ProviderS3:
		return blobstore.NewS3Store(ctx, blobstore.S3Config{
			Bucket:          cfg.Storage.Bucket,
			Region:          cfg.Storage.Region,
			Endpoint:        cfg.Storage.Endpoint,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			UsePathStyle:    cfg.Storage.UsePathStyle,
		})
	default:
		return blobstore.NewFilesystemStore(cfg.Storage.Dir)
	}
}

func buildIndex(ctx context.Context, cfg *config.Config, logger logging.Logger) (asset.Index, func(), error) {
	if cfg.Database.URL == "" {
		logger.Warn("No database configured, using the in-memory index; assets will not survive restarts")
		return index.NewMemory(), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	pg := index.NewPostgres(pool)
	if err := pg.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return pg, pool.Close, nil
}

func databaseLabel(url string) string {
	if url == "" {
		return "in-memory"
	}
	return "postgres"
}
