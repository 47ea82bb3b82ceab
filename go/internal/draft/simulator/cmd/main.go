package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/mockdraft/go/internal/config"
	"github.com/mcdev12/mockdraft/go/internal/draft/orchestrator"
	"github.com/mcdev12/mockdraft/go/internal/draft/simulator"
	"github.com/mcdev12/mockdraft/go/internal/player"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("could not load .env file")
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	cfg := simulator.DefaultConfig()
	configPath := flag.String("config", os.Getenv("DRAFT_CONFIG"), "YAML file with draft defaults")
	draftType := flag.String("type", "", "snake or standard")
	numTeams := flag.Int("teams", 0, "number of teams (4-20)")
	position := flag.Int("position", 0, "your draft slot")
	random := flag.Bool("random", false, "draw your draft slot at random")
	flag.DurationVar(&cfg.AutoPickDelay, "delay", cfg.AutoPickDelay, "delay before each AI pick")
	flag.BoolVar(&cfg.Auto, "auto", false, "let the auto-picker draft for you too")
	stall := flag.String("stall", string(orchestrator.StallBlock), "block or force_best")
	verbose := flag.Bool("v", false, "log engine activity")
	flag.Parse()

	if *verbose {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if *configPath != "" {
		settings, err := config.LoadSettings(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load draft config")
		}
		cfg.Settings = settings
	}
	if *draftType != "" {
		cfg.Settings.DraftType = *draftType
	}
	if *numTeams != 0 {
		cfg.Settings.NumTeams = *numTeams
	}
	if *position != 0 {
		cfg.Settings.DraftPosition = *position
	}
	if *random {
		cfg.Settings.RandomPosition = true
	}
	cfg.StallPolicy = orchestrator.StallPolicy(*stall)
	if cfg.Auto && cfg.StallPolicy == orchestrator.StallBlock {
		cfg.StallPolicy = orchestrator.StallForceBest
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog := player.NewApp(player.NewMemoryRepository(player.DefaultPool()))
	sim := simulator.New(catalog, cfg, os.Stdout)

	start := time.Now()
	err := sim.Run(ctx, os.Stdin)
	switch {
	case err == nil:
		log.Info().Dur("elapsed", time.Since(start)).Msg("simulation finished")
	case errors.Is(err, context.Canceled):
		log.Warn().Msg("simulation interrupted")
	default:
		log.Fatal().Err(err).Msg("simulation failed")
	}
}
