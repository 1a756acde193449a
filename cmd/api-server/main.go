package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/shredworks/pickup-scheduling/internal/api"
	"github.com/shredworks/pickup-scheduling/internal/auth"
	"github.com/shredworks/pickup-scheduling/internal/config"
	"github.com/shredworks/pickup-scheduling/internal/scheduling"
)

const version = "0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("config load error")
	}

	log := newLogger(cfg)
	log.Info().Str("env", cfg.Env).Str("http_port", cfg.HTTPPort).Msg("api-server starting up")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Stores and services; everything lives in process memory.
	repo := scheduling.NewMemoryRepository()
	schedSvc := scheduling.NewService(repo, scheduling.NewMutexLocker(), log)

	users := auth.NewUserStore()
	sessions := auth.NewSessionStore()
	authSvc := auth.NewService(users, sessions, cfg.SessionTTL, log)

	if err := authSvc.EnsureAdmin(rootCtx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("admin bootstrap error")
	}

	go authSvc.RunSweeper(rootCtx, cfg.SweepInterval)

	router := api.NewRouter(api.RouterConfig{
		Auth:          authSvc,
		Scheduling:    schedSvc,
		LoginLimiter:  api.NewRateLimiter(cfg.LoginRate, cfg.LoginBurst),
		Env:           cfg.Env,
		Version:       version,
		SecureCookies: cfg.Env == "prod",
		Log:           log,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	<-rootCtx.Done()
	log.Info().Msg("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}

func newLogger(cfg config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var log zerolog.Logger
	if cfg.Env == "dev" {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	} else {
		log = zerolog.New(os.Stdout)
	}
	return log.Level(level).With().Timestamp().Logger()
}
