package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/mockdraft/go/internal/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	env, err := config.LoadEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid environment")
	}
	zerolog.SetGlobalLevel(env.Level())

	settings := config.DefaultSettings()
	if env.DraftConfig != "" {
		settings, err = config.LoadSettings(env.DraftConfig)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load draft config")
		}
		log.Info().Str("path", env.DraftConfig).Msg("loaded draft defaults")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	services, err := setupServices(ctx, env, settings)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up services")
	}
	defer services.Close()

	go func() {
		if err := services.Scheduler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("scheduler stopped")
		}
	}()

	go func() {
		if err := services.Gateway.Start(ctx); err != nil {
			log.Error().Err(err).Msg("gateway service failed")
		}
	}()

	server := setupServer(env.Port, services)
	go func() {
		log.Info().
			Str("port", env.Port).
			Str("player_source", env.PlayerSource).
			Bool("nats", env.NATSEnabled).
			Msg("mock draft server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}

	services.Drafts.Close(shutdownCtx)
	cancel()

	log.Info().Msg("mock draft server stopped")
}
