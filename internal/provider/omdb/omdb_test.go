package omdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/streamlist/streamlist-data/internal/limiter"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewClient("test-key", limiter.New("omdb", 2), nil)
	c.baseURL = server.URL
	return c
}

func TestRatingsFullResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("apikey") != "test-key" {
			t.Errorf("expected apikey query param")
		}
		if r.URL.Query().Get("i") != "tt0133093" {
			t.Errorf("i = %q, want tt0133093", r.URL.Query().Get("i"))
		}
		w.Write([]byte(`{
			"Response": "True",
			"imdbRating": "8.7",
			"imdbVotes": "2,190,510",
			"Ratings": [
				{"Source": "Internet Movie Database", "Value": "8.7/10"},
				{"Source": "Rotten Tomatoes", "Value": "83%"},
				{"Source": "Metacritic", "Value": "73/100"}
			]
		}`))
	})

	r, err := c.Ratings(context.Background(), "tt0133093")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.IMDBRating == nil || *r.IMDBRating != 8.7 {
		t.Errorf("IMDBRating = %v, want 8.7", r.IMDBRating)
	}
	if r.IMDBVotes == nil || *r.IMDBVotes != 2190510 {
		t.Errorf("IMDBVotes = %v, want 2190510", r.IMDBVotes)
	}
	if r.RottenTomatoes == nil || *r.RottenTomatoes != 83 {
		t.Errorf("RottenTomatoes = %v, want 83", r.RottenTomatoes)
	}
	if r.Metacritic == nil || *r.Metacritic != 73 {
		t.Errorf("Metacritic = %v, want 73", r.Metacritic)
	}
}

func TestRatingsSentinelValues(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"Response": "True",
			"imdbRating": "N/A",
			"imdbVotes": "N/A",
			"Ratings": [{"Source": "Rotten Tomatoes", "Value": "not-a-percent"}]
		}`))
	})

	r, err := c.Ratings(context.Background(), "tt0000001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.IMDBRating != nil || r.IMDBVotes != nil || r.RottenTomatoes != nil || r.Metacritic != nil {
		t.Errorf("expected all-nil ratings, got %+v", r)
	}
}

func TestRatingsNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Response": "False", "Error": "Incorrect IMDb ID."}`))
	})

	r, err := c.Ratings(context.Background(), "tt9999999")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.IMDBRating != nil || r.IMDBVotes != nil || r.RottenTomatoes != nil || r.Metacritic != nil {
		t.Errorf("expected all-nil ratings on Response=False, got %+v", r)
	}
}

func TestRatingsNonOKStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	r, err := c.Ratings(context.Background(), "tt0133093")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.IMDBRating != nil || r.IMDBVotes != nil {
		t.Errorf("expected all-nil ratings on non-OK status, got %+v", r)
	}
}

func TestRatingsMinIntervalSpacesCalls(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Response": "True", "imdbRating": "7.0", "imdbVotes": "100"}`))
	})
	c.pool = limiter.New("omdb", 2).WithMinInterval(20 * time.Millisecond)

	start := time.Now()
	for i := 0; i < 3; i++ {
		if _, err := c.Ratings(context.Background(), "tt0133093"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("3 calls finished in %s, want at least 40ms of spacing", elapsed)
	}
}
