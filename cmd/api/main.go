package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/moodtrack/moodtrack-api/internal/config"
	"github.com/moodtrack/moodtrack-api/internal/handler"
	"github.com/moodtrack/moodtrack-api/internal/repository"
	"github.com/moodtrack/moodtrack-api/internal/usecase"
	"github.com/moodtrack/moodtrack-api/shared/auth"
	"github.com/moodtrack/moodtrack-api/shared/mailer"
	"github.com/moodtrack/moodtrack-api/shared/validation"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger = newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			logger.Warn().Err(err).Msg("failed to disconnect from mongodb")
		}
	}()

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		logger.Fatal().Err(err).Msg("failed to ping mongodb")
	}

	db := client.Database(cfg.MongoDatabase)
	userRepo := repository.NewUserMongoRepository(ctx, &logger, db)

	jwtAuth := auth.NewJWTAuthenticator(cfg.Token.Secret, cfg.Token.Issuer, cfg.Token.ExpiresIn)

	var welcomeMailer *mailer.Mailer
	if cfg.SMTP.Enabled() {
		welcomeMailer = mailer.NewMailer(cfg.SMTP)
		logger.Info().Str("host", cfg.SMTP.Host).Msg("welcome emails enabled")
	}

	validator, err := validation.New()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build validator")
	}

	authUsecase := usecase.NewAuthUsecase(userRepo, jwtAuth, welcomeMailer, &logger)
	moodUsecase := usecase.NewMoodUsecase(userRepo)
	userUsecase := usecase.NewUserUsecase(userRepo)

	cookies := handler.SessionCookies{
		Domain: cfg.Cookie.Domain,
		Secure: cfg.IsProduction(),
		MaxAge: cfg.Token.ExpiresIn,
	}

	authHandler := handler.NewAuthHandler(authUsecase, validator, cookies, &logger)
	moodHandler := handler.NewMoodHandler(moodUsecase, validator, &logger)
	userHandler := handler.NewUserHandler(userUsecase, &logger)

	router := handler.NewRouter(
		&logger,
		cfg.CORSAllowedOrigins,
		&jwtAuth,
		userRepo,
		authHandler,
		moodHandler,
		userHandler,
	)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Str("env", cfg.AppEnv).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("http shutdown failed")
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var out = zerolog.New(os.Stdout)
	if !cfg.IsProduction() {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout})
	}

	return out.Level(level).With().Timestamp().Logger()
}
