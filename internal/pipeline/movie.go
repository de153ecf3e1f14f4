package pipeline

import (
	"strings"
	"time"

	"github.com/streamlist/streamlist-data/internal/config"
	"github.com/streamlist/streamlist-data/internal/provider"
	"github.com/streamlist/streamlist-data/internal/provider/omdb"
	"github.com/streamlist/streamlist-data/internal/provider/tmdb"
)

// MovieRow is the merged record persisted per (tmdb_id, country). Nil
// pointer fields map to SQL NULLs.
type MovieRow struct {
	TMDBID              int
	IMDBID              *string
	Title               string
	Year                *int
	PosterURL           *string
	BackdropURL         *string
	Overview            *string
	Runtime             *int
	Genres              []string
	IMDBRating          *float64
	IMDBVotes           *int
	RottenTomatoesScore *int
	MetacriticScore     *int
	Country             string
	OnNetflix           bool
	NetflixURL          *string
	Providers           []tmdb.Offer
	LastUpdated         time.Time
}

// ProviderNames returns a comma-joined list of offer names for log lines.
func (m *MovieRow) ProviderNames() string {
	if len(m.Providers) == 0 {
		return "no providers"
	}
	names := make([]string, len(m.Providers))
	for i, o := range m.Providers {
		names[i] = o.ProviderName
	}
	return strings.Join(names, ", ")
}

// MergeMovie combines detail, offer, and rating data into the persisted row.
// Offer names are normalized through the provider registry, and the legacy
// on_netflix/netflix_url columns are derived from the matching offer.
func MergeMovie(details *tmdb.MovieDetails, offers []tmdb.Offer, ratings omdb.Ratings, country string) *MovieRow {
	row := &MovieRow{
		TMDBID:              details.ID,
		IMDBID:              strOrNil(details.IMDBID),
		Title:               details.Title,
		Year:                provider.YearOrNil(details.ReleaseDate),
		PosterURL:           strOrNil(tmdb.PosterURL(details.PosterPath)),
		BackdropURL:         strOrNil(tmdb.BackdropURL(details.BackdropPath)),
		Overview:            strOrNil(details.Overview),
		Runtime:             positiveOrNil(details.Runtime),
		Genres:              details.GenreNames(),
		IMDBRating:          ratings.IMDBRating,
		IMDBVotes:           ratings.IMDBVotes,
		RottenTomatoesScore: ratings.RottenTomatoes,
		MetacriticScore:     ratings.Metacritic,
		Country:             country,
		LastUpdated:         time.Now().UTC(),
	}

	for _, o := range offers {
		o.ProviderName = config.ProviderName(o.ProviderID, o.ProviderName)
		row.Providers = append(row.Providers, o)
		if o.ProviderID == config.LegacyProviderID {
			row.OnNetflix = true
			row.NetflixURL = strOrNil(o.URL)
		}
	}

	return row
}

func strOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func positiveOrNil(n int) *int {
	if n <= 0 {
		return nil
	}
	return &n
}
