// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/runelens/internal/adapters/repository"
	"github.com/okian/runelens/internal/domain/model"
)

// PricesDependencies defines the interface for price read operations.
type PricesDependencies interface {
	LatestPrices(ctx context.Context) (map[int]model.EnrichedPriceRecord, error)
}

// PricesHandler handles price read requests.
type PricesHandler struct {
	deps PricesDependencies
}

// NewPricesHandler creates a new prices handler.
func NewPricesHandler(deps PricesDependencies) *PricesHandler {
	return &PricesHandler{deps: deps}
}

// HandleLatest handles GET /prices/latest requests.
func (h *PricesHandler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	records, err := h.deps.LatestPrices(r.Context())
	if err != nil {
		if errors.Is(err, repository.ErrEmptySnapshot) {
			writeError(w, http.StatusServiceUnavailable, "empty_catalog", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}
