package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/recipejar/recipejar/internal/auth"
	"github.com/recipejar/recipejar/internal/config"
	"github.com/recipejar/recipejar/internal/database"
	"github.com/recipejar/recipejar/internal/database/repositories"
	"github.com/recipejar/recipejar/internal/httpserver"
	"github.com/recipejar/recipejar/internal/httpserver/deps"
	"github.com/recipejar/recipejar/internal/logger"
	"github.com/recipejar/recipejar/internal/metadata"
	"github.com/recipejar/recipejar/internal/service"
	"github.com/recipejar/recipejar/internal/version"
)

type App struct {
	cfg    *config.Config
	logger logger.Logger
	server *httpserver.Server
	db     *database.DB
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Connect to Postgres early - fail fast if unavailable
	loggerClient.Infof("Connecting to Postgres at %s:%d/%s", cfg.DBHost, cfg.DBPort, cfg.DBName)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.DBConnTimeout)
	defer cancel()

	db, err := database.New(ctx, database.Config{
		Host:        cfg.DBHost,
		Port:        cfg.DBPort,
		User:        cfg.DBUser,
		Password:    cfg.DBPassword,
		Database:    cfg.DBName,
		PoolSize:    cfg.DBPoolSize,
		ConnTimeout: cfg.DBConnTimeout,
	})
	if err != nil {
		loggerClient.Errorf("Failed to connect to Postgres: %v", err)
		os.Exit(1)
	}
	if err := db.InitSchema(ctx); err != nil {
		loggerClient.Errorf("Failed to initialize schema: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("Postgres initialized successfully")

	gate := auth.NewGate(cfg.AdminID, cfg.AdminPassword, cfg.JWTSecret, cfg.TokenTTL)

	fetcher := metadata.New(cfg.FetchTimeout, loggerClient)

	repo := repositories.NewRecipeRepository(db.Bun())

	recipes := service.New(repo, fetcher, loggerClient, service.Options{
		StrictRating: cfg.StrictRating,
	})

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:          loggerClient,
		StartTime:       time.Now(),
		Version:         version.Version,
		Environment:     cfg.Environment,
		Recipes:         recipes,
		Gate:            gate,
		DB:              db,
		CORSOrigin:      cfg.CORSOrigin,
		AllowedHosts:    cfg.AllowedHosts,
		TrustProxy:      cfg.TrustProxy,
		RateLimitBurst:  cfg.RateLimitBurst,
		RateLimitPerMin: cfg.RateLimitPerMin,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:    cfg,
		logger: loggerClient,
		server: server,
		db:     db,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Recipejar v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Recipejar %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.db != nil {
		a.db.Close()
		a.logger.Info("✅ Postgres closed cleanly")
	}

	a.logger.Info("✅ Recipejar stopped cleanly")
	return nil
}
