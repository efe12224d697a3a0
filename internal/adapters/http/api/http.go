// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/okian/runelens/internal/app"
	"github.com/okian/runelens/internal/domain/model"
	"github.com/okian/runelens/internal/domain/resolve"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	PlayerStats(ctx context.Context, username string) (service.PlayerResult, error)
	LatestPrices(ctx context.Context) (map[int]model.EnrichedPriceRecord, error)
	ResolveItem(ctx context.Context, query string) (resolve.Result, error)
	SearchItems(ctx context.Context, query string) ([]model.ItemMeta, error)
	ItemTimeseries(ctx context.Context, query, timestep string) (service.SeriesResult, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	playerHandler     *PlayerHandler
	pricesHandler     *PricesHandler
	itemsHandler      *ItemsHandler
	timeseriesHandler *TimeseriesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		playerHandler:     NewPlayerHandler(deps),
		pricesHandler:     NewPricesHandler(deps),
		itemsHandler:      NewItemsHandler(deps),
		timeseriesHandler: NewTimeseriesHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/player/", MetricsMiddleware(s.playerHandler.HandleGetPlayer, "player"))
	mux.HandleFunc("/prices/latest", MetricsMiddleware(s.pricesHandler.HandleLatest, "prices_latest"))
	mux.HandleFunc("/items", MetricsMiddleware(s.itemsHandler.HandleSearch, "items_search"))
	mux.HandleFunc("/items/resolve", MetricsMiddleware(s.itemsHandler.HandleResolve, "items_resolve"))
	mux.HandleFunc("/timeseries", MetricsMiddleware(s.timeseriesHandler.HandleGetTimeseries, "timeseries"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
