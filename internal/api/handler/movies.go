package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/streamlist/streamlist-data/internal/api/respond"
	"github.com/streamlist/streamlist-data/internal/cache"
	"github.com/streamlist/streamlist-data/internal/config"
)

// movieJSON mirrors the movies table row in the wire shape clients expect.
type movieJSON struct {
	ID                  string          `json:"id"`
	TMDBID              int             `json:"tmdb_id"`
	IMDBID              *string         `json:"imdb_id"`
	Title               string          `json:"title"`
	Year                *int            `json:"year"`
	PosterURL           *string         `json:"poster_url"`
	BackdropURL         *string         `json:"backdrop_url"`
	Overview            *string         `json:"overview"`
	Runtime             *int            `json:"runtime"`
	Genres              []string        `json:"genres"`
	IMDBRating          *float64        `json:"imdb_rating"`
	IMDBVotes           *int            `json:"imdb_votes"`
	RottenTomatoesScore *int            `json:"rotten_tomatoes_score"`
	MetacriticScore     *int            `json:"metacritic_score"`
	Country             string          `json:"country"`
	OnNetflix           bool            `json:"on_netflix"`
	NetflixURL          *string         `json:"netflix_url"`
	StreamingProviders  json.RawMessage `json:"streaming_providers"`
	LastUpdated         time.Time       `json:"last_updated"`
}

func scanMovie(row pgx.Row) (*movieJSON, error) {
	var m movieJSON
	err := row.Scan(
		&m.ID, &m.TMDBID, &m.IMDBID, &m.Title, &m.Year, &m.PosterURL,
		&m.BackdropURL, &m.Overview, &m.Runtime, &m.Genres, &m.IMDBRating,
		&m.IMDBVotes, &m.RottenTomatoesScore, &m.MetacriticScore, &m.Country,
		&m.OnNetflix, &m.NetflixURL, &m.StreamingProviders, &m.LastUpdated,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMovies serves all synchronized movies for a country, ordered by IMDb
// rating with unrated titles last. An optional provider id narrows the list
// to movies currently carried by that provider.
func (h *Handler) ListMovies(w http.ResponseWriter, r *http.Request) {
	country := strings.ToUpper(r.URL.Query().Get("country"))
	if country == "" {
		respond.WriteError(w, http.StatusBadRequest, "missing_country", "country query parameter is required")
		return
	}
	if !config.IsSupportedCountry(country) {
		respond.WriteError(w, http.StatusBadRequest, "unsupported_country", "country is not in the supported set")
		return
	}

	providerID := 0
	if p := r.URL.Query().Get("provider"); p != "" {
		id, err := strconv.Atoi(p)
		if err != nil {
			respond.WriteError(w, http.StatusBadRequest, "bad_provider", "provider must be a numeric id")
			return
		}
		providerID = id
	}

	cacheKey := fmt.Sprintf("movies:%s:p%d", country, providerID)
	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, cache.TTLMovies, true)
		return
	}

	rows, err := h.pool.Query(r.Context(), "movies_by_country", country)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "query_failed", err.Error())
		return
	}
	defer rows.Close()

	movies := make([]*movieJSON, 0, 64)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			respond.WriteError(w, http.StatusInternalServerError, "scan_failed", err.Error())
			return
		}
		if providerID != 0 && !hasProvider(m.StreamingProviders, providerID) {
			continue
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "query_failed", err.Error())
		return
	}

	data, err := json.Marshal(map[string]interface{}{
		"country": country,
		"count":   len(movies),
		"movies":  movies,
	})
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "encode_failed", err.Error())
		return
	}

	etag := h.cache.Set(cacheKey, data, cache.TTLMovies)
	if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
		respond.WriteNotModified(w, etag)
		return
	}
	respond.WriteJSON(w, data, etag, cache.TTLMovies, false)
}

// GetMovie serves one movie by its sync conflict key (tmdb_id, country).
func (h *Handler) GetMovie(w http.ResponseWriter, r *http.Request) {
	tmdbID, err := strconv.Atoi(chi.URLParam(r, "tmdbID"))
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "bad_id", "tmdbID must be numeric")
		return
	}
	country := strings.ToUpper(r.URL.Query().Get("country"))
	if country == "" {
		respond.WriteError(w, http.StatusBadRequest, "missing_country", "country query parameter is required")
		return
	}

	m, err := scanMovie(h.pool.QueryRow(r.Context(), "movie_by_id", tmdbID, country))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respond.WriteError(w, http.StatusNotFound, "not_found", "movie not found for this country")
			return
		}
		respond.WriteError(w, http.StatusInternalServerError, "query_failed", err.Error())
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, m)
}

// hasProvider reports whether the streaming_providers JSON array contains
// the given provider id. Malformed rows simply do not match.
func hasProvider(raw json.RawMessage, providerID int) bool {
	var offers []struct {
		ProviderID int `json:"provider_id"`
	}
	if err := json.Unmarshal(raw, &offers); err != nil {
		return false
	}
	for _, o := range offers {
		if o.ProviderID == providerID {
			return true
		}
	}
	return false
}
