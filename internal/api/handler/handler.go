// Package handler provides HTTP handlers for all API endpoints.
// Handlers query Postgres directly via pgxpool — no service layer.
package handler

import (
	"net/http"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/streamlist/streamlist-data/internal/api/respond"
	"github.com/streamlist/streamlist-data/internal/cache"
	"github.com/streamlist/streamlist-data/internal/config"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	pool  *pgxpool.Pool
	cache *cache.Cache
	cfg   *config.Config
}

// New creates a Handler with shared dependencies.
func New(pool *pgxpool.Pool, c *cache.Cache, cfg *config.Config) *Handler {
	return &Handler{
		pool:  pool,
		cache: c,
		cfg:   cfg,
	}
}

// Root serves API info at /.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "StreamList Data API",
		"version": "1.0.0",
		"status":  "running",
	})
}

// HealthCheck returns basic health status.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	var n int
	if err := h.pool.QueryRow(r.Context(), "health_check").Scan(&n); err != nil {
		respond.WriteError(w, http.StatusServiceUnavailable, "db_unavailable", err.Error())
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{"status": "healthy"})
}

// HealthCheckCache reports cache statistics.
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, h.cache.Stats())
}

// ListProviders serves the streaming provider registry.
func (h *Handler) ListProviders(w http.ResponseWriter, r *http.Request) {
	providers := make([]config.Provider, 0, len(config.ProviderRegistry))
	for _, p := range config.ProviderRegistry {
		providers = append(providers, p)
	}
	sort.Slice(providers, func(i, j int) bool { return providers[i].ID < providers[j].ID })
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{"providers": providers})
}

// ListCountries serves the supported-country registry.
func (h *Handler) ListCountries(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{"countries": config.Countries})
}
