package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jwebster45206/branch-engine/internal/storage"
	"github.com/jwebster45206/branch-engine/pkg/game"
)

// GameHandler serves game definitions.
// Routes:
// GET  /v1/games       - List stored games
// GET  /v1/games/{id}  - Read one game definition
// POST /v1/games       - Validate and store a game definition (the composer's upload boundary)
type GameHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewGameHandler(logger *slog.Logger, storage storage.Storage) *GameHandler {
	return &GameHandler{
		storage: storage,
		logger:  logger,
	}
}

func (h *GameHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/games"), "/")

	switch {
	case r.Method == http.MethodGet && id == "":
		h.handleList(w, r)
	case r.Method == http.MethodGet:
		h.handleGet(w, r, id)
	case r.Method == http.MethodPost && id == "":
		h.handleCreate(w, r)
	default:
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *GameHandler) handleList(w http.ResponseWriter, r *http.Request) {
	games, err := h.storage.ListGames(r.Context())
	if err != nil {
		h.logger.Error("Failed to list games", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to list games")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, games)
}

func (h *GameHandler) handleGet(w http.ResponseWriter, r *http.Request, id string) {
	if strings.Contains(id, "..") || strings.Contains(id, "/") {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid game id")
		return
	}

	g, err := h.storage.GetGame(r.Context(), id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			writeError(w, h.logger, http.StatusNotFound, "Game not found")
			return
		}
		h.logger.Error("Failed to get game", "error", err, "game_id", id)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to retrieve game")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, g)
}

func (h *GameHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var g game.Game
	if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Eager validation at the ingestion boundary: a malformed graph is
	// rejected here rather than surfacing as a structural error mid-run.
	if err := g.Validate(); err != nil {
		h.logger.Warn("Rejected invalid game", "game_id", g.ID, "error", err)
		writeError(w, h.logger, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := h.storage.SaveGame(r.Context(), &g); err != nil {
		h.logger.Error("Failed to save game", "error", err, "game_id", g.ID)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to save game")
		return
	}

	h.logger.Info("Game stored", "game_id", g.ID, "scenes", len(g.Scenes))
	writeJSON(w, h.logger, http.StatusCreated, &g)
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, msg string) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: msg}); err != nil {
		logger.Error("Failed to encode error response", "error", err)
	}
}
