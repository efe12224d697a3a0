// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/runelens/internal/domain/model"
	"github.com/okian/runelens/internal/domain/resolve"
)

// ItemsDependencies defines the interface for catalog lookups.
type ItemsDependencies interface {
	ResolveItem(ctx context.Context, query string) (resolve.Result, error)
	SearchItems(ctx context.Context, query string) ([]model.ItemMeta, error)
}

// ItemsHandler handles catalog search and resolution requests.
type ItemsHandler struct {
	deps ItemsDependencies
}

// NewItemsHandler creates a new items handler.
func NewItemsHandler(deps ItemsDependencies) *ItemsHandler {
	return &ItemsHandler{deps: deps}
}

type searchResponse struct {
	Query   string           `json:"query"`
	Count   int              `json:"count"`
	Results []model.ItemMeta `json:"results"`
}

// HandleSearch handles GET /items?q= requests.
func (h *ItemsHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "missing_query", ErrMissingQuery)
		return
	}
	matches, err := h.deps.SearchItems(r.Context(), query)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	if matches == nil {
		matches = []model.ItemMeta{}
	}
	writeJSON(w, http.StatusOK, searchResponse{Query: query, Count: len(matches), Results: matches})
}

type resolveResponse struct {
	Query   string           `json:"query"`
	Outcome string           `json:"outcome"`
	Item    *model.ItemMeta  `json:"item,omitempty"`
	Matches []model.ItemMeta `json:"matches,omitempty"`
}

// HandleResolve handles GET /items/resolve?q= requests.
func (h *ItemsHandler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "missing_query", ErrMissingQuery)
		return
	}
	res, err := h.deps.ResolveItem(r.Context(), query)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	resp := resolveResponse{Query: query, Outcome: res.Outcome.String()}
	switch res.Outcome {
	case resolve.Exact:
		item := res.Item
		resp.Item = &item
		writeJSON(w, http.StatusOK, resp)
	case resolve.Ambiguous:
		resp.Matches = res.Matches
		writeJSON(w, http.StatusOK, resp)
	default:
		writeJSON(w, http.StatusNotFound, resp)
	}
}
