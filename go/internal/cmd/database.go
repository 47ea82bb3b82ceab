package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/mockdraft/go/internal/config"
	"github.com/mcdev12/mockdraft/go/internal/dbconfig"
	"github.com/mcdev12/mockdraft/go/internal/player"
)

// setupPlayerRepository opens the player store named by PLAYER_SOURCE. The
// returned closer releases any database handle.
func setupPlayerRepository(ctx context.Context, env config.Env) (player.PlayerRepository, func() error, error) {
	switch env.PlayerSource {
	case "postgres":
		dbConfig, err := dbconfig.NewConfigFromEnv()
		if err != nil {
			return nil, nil, err
		}
		database, err := player.OpenPostgres(ctx, dbConfig.DSN())
		if err != nil {
			return nil, nil, err
		}
		log.Info().
			Str("host", dbConfig.Host).
			Int("port", dbConfig.Port).
			Str("database", dbConfig.Database).
			Msg("connected to postgres")
		return player.NewPostgresRepository(database), database.Close, nil

	case "sqlite":
		repo, err := player.OpenSQLite(env.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		count, err := repo.Count(ctx)
		if err != nil {
			repo.Close()
			return nil, nil, err
		}
		if count == 0 {
			pool := player.DefaultPool()
			if err := repo.Upsert(ctx, pool); err != nil {
				repo.Close()
				return nil, nil, fmt.Errorf("failed to seed sqlite players: %w", err)
			}
			log.Info().Int("players", len(pool)).Str("path", env.SQLitePath).Msg("seeded sqlite player pool")
		}
		return repo, repo.Close, nil

	default:
		return player.NewMemoryRepository(player.DefaultPool()), func() error { return nil }, nil
	}
}
