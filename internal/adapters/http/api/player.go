// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/runelens/internal/adapters/http/hiscores"
	service "github.com/okian/runelens/internal/app"
)

// PlayerDependencies defines the interface for player stat operations.
type PlayerDependencies interface {
	PlayerStats(ctx context.Context, username string) (service.PlayerResult, error)
}

// PlayerHandler handles player stat requests.
type PlayerHandler struct {
	deps PlayerDependencies
}

// NewPlayerHandler creates a new player handler.
func NewPlayerHandler(deps PlayerDependencies) *PlayerHandler {
	return &PlayerHandler{deps: deps}
}

// HandleGetPlayer handles GET /player/{username} requests.
func (h *PlayerHandler) HandleGetPlayer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	username := strings.TrimPrefix(r.URL.Path, "/player/")
	if username == "" || strings.Contains(username, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	result, err := h.deps.PlayerStats(r.Context(), username)
	if err != nil {
		switch {
		case errors.Is(err, hiscores.ErrInvalidUsername):
			writeError(w, http.StatusBadRequest, "invalid_username", err)
		case errors.Is(err, hiscores.ErrPlayerNotFound):
			writeError(w, http.StatusNotFound, "player_not_found", err)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, result.Stats)
}
