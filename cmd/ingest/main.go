// Command ingest is the StreamList catalog synchronization CLI.
//
// Usage:
//
//	streamlist-ingest sync --country=SE
//	streamlist-ingest sync --country=US --providers=8,9,337 --workers=4
//	streamlist-ingest providers
//	streamlist-ingest countries
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/streamlist/streamlist-data/internal/config"
	"github.com/streamlist/streamlist-data/internal/db"
	"github.com/streamlist/streamlist-data/internal/limiter"
	"github.com/streamlist/streamlist-data/internal/pipeline"
	"github.com/streamlist/streamlist-data/internal/provider/omdb"
	"github.com/streamlist/streamlist-data/internal/provider/tmdb"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "streamlist-ingest",
		Short: "StreamList catalog synchronization CLI",
	}

	root.AddCommand(syncCmd())
	root.AddCommand(providersCmd())
	root.AddCommand(countriesCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// sync command
// --------------------------------------------------------------------------

func syncCmd() *cobra.Command {
	var (
		country   string
		providers []int
		workers   int
	)
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync streaming movies for a country from TMDb and OMDb",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				country = strings.ToUpper(strings.TrimSpace(country))
				if !config.IsSupportedCountry(country) {
					logger.Warn("Country is not in the supported registry, syncing anyway", "country", country)
				}

				tmdbPool := limiter.New("tmdb", cfg.TMDBMaxInFlight)
				omdbPool := limiter.New("omdb", cfg.OMDBMaxInFlight).
					WithMinInterval(cfg.OMDBMinInterval)

				deps := &pipeline.Deps{
					Catalog: tmdb.NewClient(cfg.TMDBAPIKey, tmdbPool, logger).
						WithRetries(cfg.HTTPRetryAttempts),
					Ratings: omdb.NewClient(cfg.OMDBAPIKey, omdbPool, logger).
						WithRetries(cfg.HTTPRetryAttempts),
					Store: pipeline.NewStore(pool.Pool),
				}

				start := time.Now()
				result, err := pipeline.SyncCountry(ctx, deps, country, providers, workers, logger)
				if err != nil {
					return err
				}
				logger.Info("Sync finished",
					"country", country,
					"duration", time.Since(start).Round(time.Second),
					"summary", result.Summary())
				for _, e := range result.Errors {
					logger.Error("sync error", "error", e)
				}
				// Per-movie failures are reported, not fatal.
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&country, "country", "", "ISO2 country code (required)")
	cmd.Flags().IntSliceVar(&providers, "providers", config.DefaultProviderIDs, "Streaming provider ids (comma-separated)")
	cmd.Flags().IntVar(&workers, "workers", 4, "Concurrent movie workers")
	_ = cmd.MarkFlagRequired("country")
	return cmd
}

// --------------------------------------------------------------------------
// registry commands
// --------------------------------------------------------------------------

func providersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List known streaming provider ids",
		Run: func(cmd *cobra.Command, args []string) {
			ids := make([]int, 0, len(config.ProviderRegistry))
			for id := range config.ProviderRegistry {
				ids = append(ids, id)
			}
			sort.Ints(ids)
			for _, id := range ids {
				fmt.Printf("  %4d  %s\n", id, config.ProviderRegistry[id].Name)
			}
		},
	}
}

func countriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "countries",
		Short: "List supported countries",
		Run: func(cmd *cobra.Command, args []string) {
			for _, c := range config.Countries {
				fmt.Printf("  %s  %s\n", c.Code, c.Name)
			}
		},
	}
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// runSync handles config loading, DB connection, and context cancellation.
// Missing required configuration aborts with one diagnostic line per
// variable before any network call is made.
func runSync(fn func(ctx context.Context, cfg *config.Config, pool *db.Pool) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		var missing *config.MissingEnvError
		if errors.As(err, &missing) {
			fmt.Fprintln(os.Stderr, "Missing required environment variables:")
			for _, v := range missing.Vars {
				fmt.Fprintf(os.Stderr, "  - %s\n", v)
			}
		}
		return fmt.Errorf("load config: %w", err)
	}

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	return fn(ctx, cfg, pool)
}
