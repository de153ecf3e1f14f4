package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// MovieDetails is the full metadata for a single movie.
type MovieDetails struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	ReleaseDate  string  `json:"release_date"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	Overview     string  `json:"overview"`
	Runtime      int     `json:"runtime"`
	Genres       []Genre `json:"genres"`
	IMDBID       string  `json:"imdb_id"`
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GenreNames returns the genre names in upstream order.
func (d *MovieDetails) GenreNames() []string {
	if len(d.Genres) == 0 {
		return nil
	}
	names := make([]string, len(d.Genres))
	for i, g := range d.Genres {
		names[i] = g.Name
	}
	return names
}

// Details fetches full metadata for one movie. A non-success status means
// the movie has no usable details: the method returns nil rather than an
// error and the caller skips the movie.
func (c *Client) Details(ctx context.Context, movieID int) (*MovieDetails, error) {
	status, body, err := c.get(ctx, fmt.Sprintf("/movie/%d", movieID), nil)
	if err != nil {
		return nil, fmt.Errorf("fetch details for movie %d: %w", movieID, err)
	}
	if status != http.StatusOK {
		c.logger.Warn("Details returned non-OK status", "movie_id", movieID, "status", status)
		return nil, nil
	}

	var details MovieDetails
	if err := json.Unmarshal(body, &details); err != nil {
		c.logger.Warn("Details failed to decode", "movie_id", movieID, "error", err)
		return nil, nil
	}
	return &details, nil
}

// Offer is one flatrate availability entry scoped to a country. URL is the
// deep link shared by the country's whole offer block.
type Offer struct {
	ProviderID   int    `json:"provider_id"`
	ProviderName string `json:"name"`
	URL          string `json:"url"`
}

type watchProvidersResponse struct {
	Results map[string]struct {
		Flatrate []struct {
			ProviderID   int    `json:"provider_id"`
			ProviderName string `json:"provider_name"`
		} `json:"flatrate"`
		Link string `json:"link"`
	} `json:"results"`
}

// WatchProviders returns the flatrate offers for movieID in country,
// filtered to the allowed provider ids. A missing country block, an empty
// flatrate list, or a non-success status all yield an empty result — the
// movie simply has no matching subscription offer right now.
func (c *Client) WatchProviders(ctx context.Context, movieID int, country string, allowed []int) ([]Offer, error) {
	status, body, err := c.get(ctx, fmt.Sprintf("/movie/%d/watch/providers", movieID), nil)
	if err != nil {
		return nil, fmt.Errorf("fetch watch providers for movie %d: %w", movieID, err)
	}
	if status != http.StatusOK {
		return nil, nil
	}

	var resp watchProvidersResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, nil
	}

	block, ok := resp.Results[country]
	if !ok || len(block.Flatrate) == 0 {
		return nil, nil
	}

	allowedSet := make(map[int]bool, len(allowed))
	for _, id := range allowed {
		allowedSet[id] = true
	}

	var offers []Offer
	for _, p := range block.Flatrate {
		if !allowedSet[p.ProviderID] {
			continue
		}
		offers = append(offers, Offer{
			ProviderID:   p.ProviderID,
			ProviderName: p.ProviderName,
			URL:          block.Link,
		})
	}
	return offers, nil
}
