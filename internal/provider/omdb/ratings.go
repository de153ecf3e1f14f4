package omdb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/streamlist/streamlist-data/internal/provider"
)

// Rating source names as they appear in OMDb's Ratings array.
const (
	sourceRottenTomatoes = "Rotten Tomatoes"
	sourceMetacritic     = "Metacritic"
)

// Ratings is the aggregated rating data for one title. Every field is
// independently nullable: the upstream may know the IMDb rating but not the
// critic scores, or nothing at all.
type Ratings struct {
	IMDBRating     *float64
	IMDBVotes      *int
	RottenTomatoes *int // critic score, 0-100
	Metacritic     *int // critic score, 0-100
}

type omdbResponse struct {
	Response   string `json:"Response"`
	IMDBRating string `json:"imdbRating"`
	IMDBVotes  string `json:"imdbVotes"`
	Ratings    []struct {
		Source string `json:"Source"`
		Value  string `json:"Value"`
	} `json:"Ratings"`
}

// Ratings fetches rating data for an IMDb id. A non-success status, a
// response-level "not found", or any malformed numeric field degrades to
// nil fields — never to zero and never to an error. Only transport
// failures are reported as errors.
func (c *Client) Ratings(ctx context.Context, imdbID string) (Ratings, error) {
	status, body, err := c.get(ctx, url.Values{"i": {imdbID}})
	if err != nil {
		return Ratings{}, err
	}
	if status != http.StatusOK {
		c.logger.Warn("OMDb returned non-OK status", "imdb_id", imdbID, "status", status)
		return Ratings{}, nil
	}

	var resp omdbResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Warn("OMDb response failed to decode", "imdb_id", imdbID, "error", err)
		return Ratings{}, nil
	}
	if resp.Response != "True" {
		return Ratings{}, nil
	}

	r := Ratings{
		IMDBRating: provider.FloatOrNil(resp.IMDBRating),
		IMDBVotes:  provider.IntOrNil(resp.IMDBVotes),
	}
	for _, rating := range resp.Ratings {
		switch rating.Source {
		case sourceRottenTomatoes:
			r.RottenTomatoes = provider.PercentOrNil(rating.Value) // "85%"
		case sourceMetacritic:
			r.Metacritic = provider.FractionOrNil(rating.Value) // "74/100"
		}
	}
	return r, nil
}
