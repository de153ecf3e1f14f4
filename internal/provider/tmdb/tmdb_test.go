package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/streamlist/streamlist-data/internal/limiter"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewClient("test-key", limiter.New("tmdb", 4), nil)
	c.baseURL = server.URL
	c.pageDelay = 0
	return c
}

func writeDiscoverPage(w http.ResponseWriter, totalPages, results int) {
	resp := discoverResponse{TotalPages: totalPages}
	for i := 0; i < results; i++ {
		resp.Results = append(resp.Results, DiscoverMovie{
			ID:    1000 + i,
			Title: fmt.Sprintf("Movie %d", i),
		})
	}
	json.NewEncoder(w).Encode(resp)
}

func TestDiscoverStreamingTwoPages(t *testing.T) {
	var pagesRequested []int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/discover/movie" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("api_key") != "test-key" {
			t.Errorf("expected api_key query param")
		}
		if q.Get("watch_region") != "SE" {
			t.Errorf("watch_region = %q, want SE", q.Get("watch_region"))
		}
		if q.Get("with_watch_providers") != "8|9" {
			t.Errorf("with_watch_providers = %q, want 8|9", q.Get("with_watch_providers"))
		}
		if q.Get("sort_by") != "vote_average.desc" {
			t.Errorf("sort_by = %q", q.Get("sort_by"))
		}
		if q.Get("vote_count.gte") != "100" {
			t.Errorf("vote_count.gte = %q", q.Get("vote_count.gte"))
		}

		page, _ := strconv.Atoi(q.Get("page"))
		pagesRequested = append(pagesRequested, page)
		if page == 1 {
			writeDiscoverPage(w, 2, 20)
		} else {
			writeDiscoverPage(w, 2, 5)
		}
	})

	movies, err := c.DiscoverStreaming(context.Background(), "SE", []int{8, 9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(movies) != 25 {
		t.Errorf("got %d movies, want 25", len(movies))
	}
	if len(pagesRequested) != 2 {
		t.Fatalf("issued %d page requests, want 2", len(pagesRequested))
	}
	for i, page := range pagesRequested {
		if page != i+1 {
			t.Errorf("page request %d was for page %d, want %d", i, page, i+1)
		}
	}
}

func TestDiscoverStreamingHonorsPageCeiling(t *testing.T) {
	requests := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		writeDiscoverPage(w, 100, 20)
	})

	movies, err := c.DiscoverStreaming(context.Background(), "US", []int{8})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if requests != 25 {
		t.Errorf("issued %d page requests, want 25", requests)
	}
	if len(movies) != 500 {
		t.Errorf("got %d movies, want 500", len(movies))
	}
}

func TestDiscoverStreamingKeepsEarlierPagesOnFailure(t *testing.T) {
	requests := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Query().Get("page") == "1" {
			writeDiscoverPage(w, 3, 20)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	movies, err := c.DiscoverStreaming(context.Background(), "SE", []int{8})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if requests != 2 {
		t.Errorf("issued %d page requests, want 2", requests)
	}
	if len(movies) != 20 {
		t.Errorf("got %d movies, want the 20 from page 1", len(movies))
	}
}

func TestDetails(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/603" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(MovieDetails{
			ID:          603,
			Title:       "The Matrix",
			ReleaseDate: "1999-03-30",
			Runtime:     136,
			Genres:      []Genre{{ID: 28, Name: "Action"}, {ID: 878, Name: "Science Fiction"}},
			IMDBID:      "tt0133093",
		})
	})

	details, err := c.Details(context.Background(), 603)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if details == nil {
		t.Fatal("expected details, got nil")
	}
	if details.Title != "The Matrix" || details.IMDBID != "tt0133093" {
		t.Errorf("unexpected details: %+v", details)
	}
	names := details.GenreNames()
	if len(names) != 2 || names[0] != "Action" {
		t.Errorf("unexpected genre names: %v", names)
	}
}

func TestDetailsNonOKReturnsNil(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	details, err := c.Details(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if details != nil {
		t.Fatalf("expected nil details for 404, got %+v", details)
	}
}

func TestWatchProvidersFiltersAllowList(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/603/watch/providers" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{
			"results": {
				"SE": {
					"link": "https://www.themoviedb.org/movie/603/watch?locale=SE",
					"flatrate": [
						{"provider_id": 8, "provider_name": "Netflix"},
						{"provider_id": 119, "provider_name": "Amazon Prime Video"}
					]
				}
			}
		}`))
	})

	offers, err := c.WatchProviders(context.Background(), 603, "SE", []int{8, 9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(offers) != 1 {
		t.Fatalf("got %d offers, want 1", len(offers))
	}
	if offers[0].ProviderID != 8 {
		t.Errorf("offer provider = %d, want 8", offers[0].ProviderID)
	}
	if offers[0].URL != "https://www.themoviedb.org/movie/603/watch?locale=SE" {
		t.Errorf("offer did not carry the country block link: %q", offers[0].URL)
	}
}

func TestWatchProvidersMissingCountry(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": {"US": {"flatrate": [{"provider_id": 8, "provider_name": "Netflix"}]}}}`))
	})

	offers, err := c.WatchProviders(context.Background(), 603, "SE", []int{8})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(offers) != 0 {
		t.Errorf("expected no offers for missing country, got %d", len(offers))
	}
}

func TestWatchProvidersNoFlatrate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": {"SE": {"link": "https://example.com"}}}`))
	})

	offers, err := c.WatchProviders(context.Background(), 603, "SE", []int{8})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(offers) != 0 {
		t.Errorf("expected no offers without a flatrate list, got %d", len(offers))
	}
}

func TestWithRetriesRecoversFromServerError(t *testing.T) {
	attempts := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(MovieDetails{ID: 603, Title: "The Matrix"})
	})
	c.WithRetries(3)

	details, err := c.Details(context.Background(), 603)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if details == nil || details.Title != "The Matrix" {
		t.Fatalf("expected details after retry, got %+v", details)
	}
	if attempts != 2 {
		t.Errorf("made %d attempts, want 2", attempts)
	}
}

func TestImageURLs(t *testing.T) {
	if got := PosterURL("/abc.jpg"); got != "https://image.tmdb.org/t/p/w500/abc.jpg" {
		t.Errorf("PosterURL = %q", got)
	}
	if got := PosterURL(""); got != "" {
		t.Errorf("PosterURL(\"\") = %q, want empty", got)
	}
	if got := BackdropURL("/abc.jpg"); got != "https://image.tmdb.org/t/p/w1280/abc.jpg" {
		t.Errorf("BackdropURL = %q", got)
	}
}
