package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/streamlist/streamlist-data/internal/provider/omdb"
	"github.com/streamlist/streamlist-data/internal/provider/tmdb"
)

// CatalogAPI is the subset of the TMDb client the pipeline depends on.
type CatalogAPI interface {
	DiscoverStreaming(ctx context.Context, country string, providerIDs []int) ([]tmdb.DiscoverMovie, error)
	Details(ctx context.Context, movieID int) (*tmdb.MovieDetails, error)
	WatchProviders(ctx context.Context, movieID int, country string, allowed []int) ([]tmdb.Offer, error)
}

// RatingsAPI is the subset of the OMDb client the pipeline depends on.
type RatingsAPI interface {
	Ratings(ctx context.Context, imdbID string) (omdb.Ratings, error)
}

// MovieStore persists merged rows.
type MovieStore interface {
	UpsertMovie(ctx context.Context, m *MovieRow) error
}

// Deps bundles the collaborators a sync run needs.
type Deps struct {
	Catalog CatalogAPI
	Ratings RatingsAPI
	Store   MovieStore
}

// SyncCountry runs the full pipeline for one country. Per-movie failures
// are counted and logged but never abort the run; only a discovery-level
// transport failure before any work is returned as an error. Movie
// sequences are fanned out across a small worker set — upstream ceilings
// are enforced pool-wide by the limiter regardless of the worker count.
func SyncCountry(ctx context.Context, deps *Deps, country string, providerIDs []int, workers int, logger *slog.Logger) (SyncResult, error) {
	start := time.Now()
	var result SyncResult

	logger.Info("Starting sync", "country", country, "providers", providerIDs)

	movies, err := deps.Catalog.DiscoverStreaming(ctx, country, providerIDs)
	if err != nil {
		result.Duration = time.Since(start)
		return result, fmt.Errorf("discover movies: %w", err)
	}

	result.Discovered = len(movies)
	if len(movies) == 0 {
		logger.Info("No movies discovered", "country", country)
		result.Duration = time.Since(start)
		return result, nil
	}
	logger.Info("Discovery complete", "country", country, "movies", len(movies))

	if workers < 1 {
		workers = 1
	}
	if workers > len(movies) {
		workers = len(movies)
	}

	ch := make(chan tmdb.DiscoverMovie, len(movies))
	for _, m := range movies {
		ch <- m
	}
	close(ch)

	total := len(movies)
	var processed int64
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for movie := range ch {
				outcome := processMovie(ctx, deps, country, providerIDs, movie)
				progress := fmt.Sprintf("[%d/%d]", atomic.AddInt64(&processed, 1), total)

				mu.Lock()
				switch {
				case outcome.err != nil:
					result.Failed++
					result.AddErrorf("%s: %v", outcome.title, outcome.err)
					logger.Error(fmt.Sprintf("%s ❌ %s", progress, outcome.title), "error", outcome.err)
				case outcome.row == nil:
					result.Failed++
					logger.Warn(fmt.Sprintf("%s ⚠️  Skipping %q - could not fetch details", progress, outcome.title))
				default:
					result.Successful++
					logger.Info(fmt.Sprintf("%s ✅ %s%s%s [%s]",
						progress, outcome.row.Title,
						yearSuffix(outcome.row), ratingSuffix(outcome.row),
						outcome.row.ProviderNames()))
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	result.Duration = time.Since(start)
	logger.Info("Sync complete", "country", country, "summary", result.Summary())
	return result, nil
}

// movieOutcome is the terminal state of one movie's sequence: a merged and
// persisted row, a skip (row and err both unset), or a failure.
type movieOutcome struct {
	title string
	row   *MovieRow
	err   error
}

// processMovie runs the per-movie sequence: details, offers, ratings (only
// when a cross-reference id exists), merge, upsert. Any error is contained
// here — the caller just tallies it.
func processMovie(ctx context.Context, deps *Deps, country string, providerIDs []int, movie tmdb.DiscoverMovie) movieOutcome {
	details, err := deps.Catalog.Details(ctx, movie.ID)
	if err != nil {
		return movieOutcome{title: movie.Title, err: err}
	}
	if details == nil {
		return movieOutcome{title: movie.Title}
	}

	offers, err := deps.Catalog.WatchProviders(ctx, movie.ID, country, providerIDs)
	if err != nil {
		return movieOutcome{title: details.Title, err: err}
	}

	// Ratings are best-effort and only reachable through the IMDb id.
	var ratings omdb.Ratings
	if details.IMDBID != "" {
		ratings, err = deps.Ratings.Ratings(ctx, details.IMDBID)
		if err != nil {
			return movieOutcome{title: details.Title, err: err}
		}
	}

	row := MergeMovie(details, offers, ratings, country)
	if err := deps.Store.UpsertMovie(ctx, row); err != nil {
		return movieOutcome{title: details.Title, err: fmt.Errorf("save movie: %w", err)}
	}
	return movieOutcome{title: details.Title, row: row}
}

func yearSuffix(m *MovieRow) string {
	if m.Year == nil {
		return ""
	}
	return fmt.Sprintf(" (%d)", *m.Year)
}

func ratingSuffix(m *MovieRow) string {
	var b strings.Builder
	if m.IMDBRating != nil {
		fmt.Fprintf(&b, " ⭐ %.1f", *m.IMDBRating)
	}
	if m.RottenTomatoesScore != nil {
		fmt.Fprintf(&b, " 🍅 %d%%", *m.RottenTomatoesScore)
	}
	if m.MetacriticScore != nil {
		fmt.Fprintf(&b, " Ⓜ️ %d", *m.MetacriticScore)
	}
	return b.String()
}
