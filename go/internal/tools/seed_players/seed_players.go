package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcdev12/mockdraft/go/internal/dbconfig"
	"github.com/mcdev12/mockdraft/go/internal/player"
)

// Seeds the Postgres players table. With a path argument the players are read
// from that JSON file, otherwise the built-in pool is used.
func main() {
	ctx := context.Background()

	// 1) Load players
	players := player.DefaultPool()
	if len(os.Args) > 1 {
		data, err := os.ReadFile(os.Args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "read %s: %v\n", os.Args[1], err)
			os.Exit(1)
		}
		players = nil
		if err := json.Unmarshal(data, &players); err != nil {
			fmt.Fprintf(os.Stderr, "unmarshal players: %v\n", err)
			os.Exit(1)
		}
	}

	// 2) Connect using shared dbconfig
	cfg, err := dbconfig.NewConfigFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "db config: %v\n", err)
		os.Exit(1)
	}
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect error: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	// 3) Schema
	if _, err := pool.Exec(ctx, player.PostgresSchema); err != nil {
		fmt.Fprintf(os.Stderr, "create schema: %v\n", err)
		os.Exit(1)
	}

	// 4) Upsert and count
	total, inserted, updated, errs := len(players), 0, 0, 0
	for _, p := range players {
		if !p.Position.Draftable() {
			fmt.Fprintf(os.Stderr, "skip player %d: position %q\n", p.ID, p.Position)
			errs++
			continue
		}
		var wasInserted bool
		err := pool.QueryRow(ctx, `
            INSERT INTO players (
              id, name, team, position, rank_overall, rank_position, projected_points
            ) VALUES ($1,$2,$3,$4,$5,$6,$7)
            ON CONFLICT (id) DO UPDATE SET
              name = EXCLUDED.name,
              team = EXCLUDED.team,
              position = EXCLUDED.position,
              rank_overall = EXCLUDED.rank_overall,
              rank_position = EXCLUDED.rank_position,
              projected_points = EXCLUDED.projected_points
            RETURNING (xmax = 0)
        `, p.ID, p.Name, p.Team, string(p.Position), p.RankOverall, p.RankPosition, p.ProjectedPoints).Scan(&wasInserted)
		if err != nil {
			fmt.Fprintf(os.Stderr, "upsert player %d: %v\n", p.ID, err)
			errs++
			continue
		}
		if wasInserted {
			inserted++
		} else {
			updated++
		}
	}

	// Keep BIGSERIAL ahead of the explicit ids.
	if _, err := pool.Exec(ctx, `SELECT setval(pg_get_serial_sequence('players', 'id'), COALESCE(MAX(id), 1)) FROM players`); err != nil {
		fmt.Fprintf(os.Stderr, "reset sequence: %v\n", err)
	}

	fmt.Printf(
		"Players seed: total=%d inserted=%d updated=%d errors=%d\n",
		total, inserted, updated, errs,
	)
}
