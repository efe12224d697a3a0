// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/runelens/internal/adapters/http/wiki"
	"github.com/okian/runelens/internal/adapters/repository"
	service "github.com/okian/runelens/internal/app"
)

// Default bucket width when the request does not name one.
const defaultTimestep = "24h"

// TimeseriesDependencies defines the interface for series collection.
type TimeseriesDependencies interface {
	ItemTimeseries(ctx context.Context, query, timestep string) (service.SeriesResult, error)
}

// TimeseriesHandler handles timeseries collection requests.
type TimeseriesHandler struct {
	deps TimeseriesDependencies
}

// NewTimeseriesHandler creates a new timeseries handler.
func NewTimeseriesHandler(deps TimeseriesDependencies) *TimeseriesHandler {
	return &TimeseriesHandler{deps: deps}
}

type timeseriesResponse struct {
	Item     any    `json:"item"`
	Timestep string `json:"timestep"`
	Points   any    `json:"points"`
	History  any    `json:"history"`
}

// HandleGetTimeseries handles GET /timeseries?item=&timestep= requests.
func (h *TimeseriesHandler) HandleGetTimeseries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	query := r.URL.Query().Get("item")
	if query == "" {
		writeError(w, http.StatusBadRequest, "missing_query", ErrMissingQuery)
		return
	}
	timestep := r.URL.Query().Get("timestep")
	if timestep == "" {
		timestep = defaultTimestep
	}
	if !wiki.ValidTimestep(timestep) {
		writeError(w, http.StatusBadRequest, "bad_timestep", wiki.ErrBadTimestep)
		return
	}

	result, err := h.deps.ItemTimeseries(r.Context(), query, timestep)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrItemNotFound):
			writeError(w, http.StatusNotFound, "item_not_found", err)
		case errors.Is(err, repository.ErrAmbiguousItem):
			writeError(w, http.StatusConflict, "ambiguous_item", err)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, timeseriesResponse{
		Item:     result.Item,
		Timestep: timestep,
		Points:   result.Points,
		History:  result.History,
	})
}
