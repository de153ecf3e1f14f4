package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/streamlist/streamlist-data/internal/config"
	"github.com/streamlist/streamlist-data/internal/provider/tmdb"
)

// Store persists merged movie rows into Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// UpsertMovie writes one merged row, keyed on (tmdb_id, country). Re-running
// a sync overwrites the existing row in place — one atomic statement per
// movie, no cross-movie transaction.
func (s *Store) UpsertMovie(ctx context.Context, m *MovieRow) error {
	providers := m.Providers
	if providers == nil {
		providers = []tmdb.Offer{}
	}
	providersJSON, err := json.Marshal(providers)
	if err != nil {
		return fmt.Errorf("marshal streaming providers: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO `+config.MoviesTable+` (
			tmdb_id, imdb_id, title, year, poster_url, backdrop_url,
			overview, runtime, genres, imdb_rating, imdb_votes,
			rotten_tomatoes_score, metacritic_score, country,
			on_netflix, netflix_url, streaming_providers, last_updated
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
		ON CONFLICT (tmdb_id, country) DO UPDATE SET
			imdb_id = EXCLUDED.imdb_id,
			title = EXCLUDED.title,
			year = EXCLUDED.year,
			poster_url = EXCLUDED.poster_url,
			backdrop_url = EXCLUDED.backdrop_url,
			overview = EXCLUDED.overview,
			runtime = EXCLUDED.runtime,
			genres = EXCLUDED.genres,
			imdb_rating = EXCLUDED.imdb_rating,
			imdb_votes = EXCLUDED.imdb_votes,
			rotten_tomatoes_score = EXCLUDED.rotten_tomatoes_score,
			metacritic_score = EXCLUDED.metacritic_score,
			on_netflix = EXCLUDED.on_netflix,
			netflix_url = EXCLUDED.netflix_url,
			streaming_providers = EXCLUDED.streaming_providers,
			last_updated = EXCLUDED.last_updated`,
		m.TMDBID, m.IMDBID, m.Title, m.Year, m.PosterURL, m.BackdropURL,
		m.Overview, m.Runtime, m.Genres, m.IMDBRating, m.IMDBVotes,
		m.RottenTomatoesScore, m.MetacriticScore, m.Country,
		m.OnNetflix, m.NetflixURL, providersJSON, m.LastUpdated,
	)
	return err
}
