package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"rideshare-backend/internal/common/config"
	apperrors "rideshare-backend/internal/common/errors"
	"rideshare-backend/internal/common/logger"
	apphttp "rideshare-backend/internal/http"
	redisplatform "rideshare-backend/internal/platform/redis"
	"rideshare-backend/internal/telegramauth"
)

// @title Ride Share API
// @version 1.0
// @description API server for the ride-share Telegram Mini App. Identity is proven with signed Telegram payloads.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey TelegramInitData
// @in header
// @name init_data
// @description Telegram Mini App init_data string for authentication
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		// Logger is not configured yet; fall back to the default console output.
		logger.Init("rideshare-backend", false)
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	log := logger.Init("rideshare-backend", cfg.Debug)
	log.Info().
		Str("app_env", cfg.AppEnv).
		Int("port", cfg.Server.Port).
		Msg("Starting Ride Share Backend")

	verifier, err := telegramauth.New(telegramauth.Config{
		BotToken: cfg.Telegram.BotToken,
		Mode:     cfg.AppEnv,
		MaxAge:   cfg.InitDataMaxAge(),
		Logger:   &log,
	})
	if err != nil {
		appErr := apperrors.AsAppError(err)
		log.Fatal().Err(err).Str("error_code", string(appErr.Code)).Msg(appErr.Message)
	}
	if verifier.BypassEnabled() {
		log.Warn().Msg("Development mode: unsigned and mis-signed identities will be accepted")
	}

	rdb, err := redisplatform.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Str("addr", cfg.RedisAddr()).Msg("Redis connection established")

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := apphttp.NewRouter(apphttp.Deps{
		Config:   cfg,
		Logger:   log,
		Redis:    rdb,
		Verifier: verifier,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	stop()
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
