package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"users-api/database"
	"users-api/internal/config"
	"users-api/internal/http-api/middleware"
	"users-api/internal/http-api/repository"
	"users-api/internal/http-api/security"
	"users-api/internal/http-api/server"
	"users-api/internal/http-api/service"
	"users-api/internal/logging"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}

	// Setup structured logging
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	db, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("database_connect_failed", "error", err.Error())
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Error("database_close_failed", "error", err.Error())
		}
	}()

	userRepo := repository.NewUserRepository(db, cfg.QueryTimeout)
	userService := service.NewUserService(userRepo, security.NewBcryptHasher(cfg.BcryptCost), logger)

	var limiter *middleware.ClientRateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = middleware.NewClientRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, 10*time.Minute)
	}

	router := server.NewRouter(server.Dependencies{
		UserService: userService,
		Ping: func(ctx context.Context) error {
			return database.Ping(ctx, db, cfg.QueryTimeout)
		},
		RateLimiter:    limiter,
		TrustedProxies: cfg.TrustedProxies,
		Logger:         logger,
	})
	httpServer := server.NewHTTPServer(cfg, router)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		logger.Info("starting_http_server", "addr", httpServer.Addr, "env", cfg.GoEnv, "db_driver", cfg.DBDriver)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-sigChan:
		logger.Info("received_shutdown_signal")
	case err := <-errChan:
		logger.Error("server_error", "error", err.Error())
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", "error", err.Error())
		return
	}
	logger.Info("server_stopped_gracefully")
}
