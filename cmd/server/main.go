package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/comments-api/internal/api"
	"github.com/comments-api/internal/config"
	"github.com/comments-api/internal/database"
	"github.com/comments-api/internal/repository"
	"github.com/comments-api/pkg/logger"
	"github.com/rs/zerolog"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New(config.LogConfig{Level: os.Getenv("LOG_LEVEL")})
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(cfg.Log)
	log.Info().Str("store", cfg.Store.Backend).Msg("Starting comments API server...")

	// Initialize comment store
	store, closeStore, err := openStore(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize comment store")
	}
	defer closeStore()

	// Initialize router
	router := api.NewRouter(store, cfg, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("port", cfg.Server.Port).
			Str("base_path", cfg.Server.BasePath).
			Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return
	}

	log.Info().Msg("Server exited gracefully")
}

// openStore connects the configured backend and returns its repository and a close func
func openStore(cfg *config.Config, log zerolog.Logger) (repository.CommentRepository, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendMongo:
		m, err := database.NewMongo(&cfg.Mongo, log)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := m.Close(ctx); err != nil {
				log.Error().Err(err).Msg("Failed to disconnect mongo")
			}
		}
		return repository.NewMongoCommentRepo(m.Collection), closeFn, nil

	case config.BackendPostgres, config.BackendSQLite:
		var (
			db  *database.DB
			err error
		)
		if cfg.Store.Backend == config.BackendSQLite {
			db, err = database.NewSQLite(&cfg.SQLite, log)
		} else {
			db, err = database.New(&cfg.Database, log)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		if cfg.Store.MigrateOnStart {
			if err := db.RunMigrations(); err != nil {
				db.Close()
				return nil, nil, fmt.Errorf("failed to run database migrations: %w", err)
			}
		}

		store, err := repository.New(db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, func() { db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unsupported store backend: %s", cfg.Store.Backend)
	}
}
