package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// TMDb caps discover results at 500 (20 per page × 25 pages).
	discoverMaxPages = 25
	// Short pause between page requests to avoid hammering the endpoint.
	discoverPageDelay = 50 * time.Millisecond
	// Only movies with a meaningful number of votes.
	discoverMinVotes = 100
)

// DiscoverMovie is one raw entry from the discover endpoint. The discovery
// response carries a subset of the full details; enrichment refines it.
type DiscoverMovie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	PosterPath  string  `json:"poster_path"`
	Overview    string  `json:"overview"`
	GenreIDs    []int   `json:"genre_ids"`
	VoteAverage float64 `json:"vote_average"`
}

type discoverResponse struct {
	Results    []DiscoverMovie `json:"results"`
	TotalPages int             `json:"total_pages"`
}

// DiscoverStreaming pages through the discover endpoint for movies with a
// flatrate offer on any of providerIDs in country, best-rated first. Pages
// are requested strictly in increasing order up to min(total_pages, 25).
// A page answering with a non-success status stops pagination early and
// keeps the pages accumulated so far; a transport failure is returned to
// the caller.
func (c *Client) DiscoverStreaming(ctx context.Context, country string, providerIDs []int) ([]DiscoverMovie, error) {
	ids := make([]string, len(providerIDs))
	for i, id := range providerIDs {
		ids[i] = strconv.Itoa(id)
	}

	var movies []DiscoverMovie
	totalPages := 1

	for page := 1; page <= totalPages && page <= discoverMaxPages; page++ {
		params := url.Values{
			"watch_region":         {country},
			"with_watch_providers": {strings.Join(ids, "|")}, // pipe = OR
			"sort_by":              {"vote_average.desc"},
			"vote_count.gte":       {strconv.Itoa(discoverMinVotes)},
			"page":                 {strconv.Itoa(page)},
		}

		status, body, err := c.get(ctx, "/discover/movie", params)
		if err != nil {
			return movies, fmt.Errorf("discover page %d: %w", page, err)
		}
		if status != http.StatusOK {
			c.logger.Warn("Discover page returned non-OK status, stopping pagination",
				"page", page, "status", status)
			break
		}

		var resp discoverResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			c.logger.Warn("Discover page failed to decode, stopping pagination",
				"page", page, "error", err)
			break
		}

		movies = append(movies, resp.Results...)

		if resp.TotalPages > 0 {
			totalPages = resp.TotalPages
			if totalPages > discoverMaxPages {
				totalPages = discoverMaxPages
			}
		}
		c.logger.Info("Discover page fetched",
			"page", page, "total_pages", totalPages, "results", len(resp.Results))

		if page < totalPages && c.pageDelay > 0 {
			select {
			case <-time.After(c.pageDelay):
			case <-ctx.Done():
				return movies, ctx.Err()
			}
		}
	}

	return movies, nil
}
