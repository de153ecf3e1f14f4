// Package db provides a pgxpool-based connection pool with prepared statement
// registration and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/streamlist/streamlist-data/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// registerPreparedStatements registers all statements the API layer uses.
// Prepared statements eliminate parse overhead on every request. The
// ingestion upsert is not prepared here — it runs once per movie per sync
// and lives next to the pipeline code.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// API: movie listing, ratings-first with nulls pushed to the end
		"movies_by_country": `
			SELECT id, tmdb_id, imdb_id, title, year, poster_url, backdrop_url,
			       overview, runtime, genres, imdb_rating, imdb_votes,
			       rotten_tomatoes_score, metacritic_score, country,
			       on_netflix, netflix_url, streaming_providers, last_updated
			FROM ` + config.MoviesTable + `
			WHERE country = $1
			ORDER BY imdb_rating DESC NULLS LAST, title ASC`,

		// API: single movie lookup on the sync conflict key
		"movie_by_id": `
			SELECT id, tmdb_id, imdb_id, title, year, poster_url, backdrop_url,
			       overview, runtime, genres, imdb_rating, imdb_votes,
			       rotten_tomatoes_score, metacritic_score, country,
			       on_netflix, netflix_url, streaming_providers, last_updated
			FROM ` + config.MoviesTable + `
			WHERE tmdb_id = $1 AND country = $2`,
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
