package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/qrvault/qrvault/internal/api"
	"github.com/qrvault/qrvault/internal/core/service"
	"github.com/qrvault/qrvault/internal/encoder"
	mongodb "github.com/qrvault/qrvault/internal/infrastructure/db/mongo"
	redisdb "github.com/qrvault/qrvault/internal/infrastructure/db/redis"
	"github.com/qrvault/qrvault/internal/pkg/config"
	"github.com/qrvault/qrvault/pkg/logger"
)

// @title           qrvault API
// @version         1.0
// @description     QR code generation service with per-user history, daily login lockout and an admin surface.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Best effort: absent .env is fine, env vars win anyway.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	credRepo := mongodb.NewCredentialRepository(db)
	qrRepo := mongodb.NewQRCodeRepository(db)
	if err := credRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create user indexes")
	}
	if err := qrRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create qr indexes")
	}

	credService := service.NewCredentialService(
		credRepo, cfg.JWTSecret, cfg.PasswordPepper, cfg.TokenTTL, cfg.MaxLoginFailures, log,
	)
	if err := credService.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
		log.Fatal().Err(err).Msg("admin bootstrap failed")
	}

	imageCache := redisdb.NewImageCache(rdb, cfg.QR.CacheTTL)
	qrService := service.NewQRCodeService(
		qrRepo, encoder.NewQRCodeEncoder(), imageCache, cfg.QR.Size, log,
	)

	e := api.NewRouter(credService, qrService, db, rdb, cfg.JWTSecret, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
