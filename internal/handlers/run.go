package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jwebster45206/branch-engine/internal/storage"
	"github.com/jwebster45206/branch-engine/pkg/engine"
)

// RunHandler drives runs through the narrative engine.
// Routes:
// POST   /v1/runs              - Start a new run {"game_id": ...}
// GET    /v1/runs              - List runs, optional ?game_id= filter
// GET    /v1/runs/{id}         - Current snapshot, no mutation
// POST   /v1/runs/{id}/choice  - Apply a choice {"choice_id": ...}
// POST   /v1/runs/{id}/reset   - Reset the run to starting defaults
// DELETE /v1/runs/{id}         - Delete the run
type RunHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewRunHandler(logger *slog.Logger, storage storage.Storage) *RunHandler {
	return &RunHandler{
		storage: storage,
		logger:  logger,
	}
}

type CreateRunRequest struct {
	GameID string `json:"game_id"`
}

type ApplyChoiceRequest struct {
	ChoiceID string `json:"choice_id"`
}

// RunResponse pairs a snapshot with the identifiers a client needs to
// keep driving the run.
type RunResponse struct {
	RunID    uuid.UUID        `json:"run_id"`
	GameID   string           `json:"game_id"`
	Snapshot *engine.Snapshot `json:"snapshot"`
}

func (h *RunHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/runs"), "/")
	parts := strings.SplitN(path, "/", 2)

	var runID uuid.UUID
	var action string
	var err error

	if parts[0] != "" {
		runID, err = uuid.Parse(parts[0])
		if err != nil {
			h.logger.Warn("Invalid run ID", "id", parts[0], "error", err)
			writeError(w, h.logger, http.StatusBadRequest, "Invalid run ID format")
			return
		}
	}
	if len(parts) == 2 {
		action = parts[1]
	}

	switch {
	case r.Method == http.MethodPost && runID == uuid.Nil && action == "":
		h.handleCreate(w, r)
	case r.Method == http.MethodGet && runID == uuid.Nil:
		h.handleList(w, r)
	case r.Method == http.MethodGet && action == "":
		h.handleSnapshot(w, r, runID)
	case r.Method == http.MethodPost && action == "choice":
		h.handleChoice(w, r, runID)
	case r.Method == http.MethodPost && action == "reset":
		h.handleReset(w, r, runID)
	case r.Method == http.MethodDelete && runID != uuid.Nil && action == "":
		h.handleDelete(w, r, runID)
	default:
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *RunHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.GameID == "" {
		writeError(w, h.logger, http.StatusBadRequest, "game_id is required")
		return
	}

	g, err := h.storage.GetGame(r.Context(), req.GameID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			writeError(w, h.logger, http.StatusNotFound, "Game not found")
			return
		}
		h.logger.Error("Failed to load game", "error", err, "game_id", req.GameID)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load game")
		return
	}

	eng := engine.New(g, nil)
	ps := eng.State()

	if err := h.storage.SaveRun(r.Context(), ps.ID, ps); err != nil {
		h.logger.Error("Failed to save run", "error", err, "run_id", ps.ID)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to save run")
		return
	}

	h.logger.Info("Run created", "run_id", ps.ID, "game_id", g.ID)
	writeJSON(w, h.logger, http.StatusCreated, RunResponse{
		RunID:    ps.ID,
		GameID:   g.ID,
		Snapshot: eng.Snapshot(),
	})
}

func (h *RunHandler) handleList(w http.ResponseWriter, r *http.Request) {
	runs, err := h.storage.ListRuns(r.Context(), r.URL.Query().Get("game_id"))
	if err != nil {
		h.logger.Error("Failed to list runs", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to list runs")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, runs)
}

func (h *RunHandler) handleSnapshot(w http.ResponseWriter, r *http.Request, runID uuid.UUID) {
	eng, ok := h.loadEngine(w, r, runID)
	if !ok {
		return
	}
	writeJSON(w, h.logger, http.StatusOK, RunResponse{
		RunID:    runID,
		GameID:   eng.Game().ID,
		Snapshot: eng.Snapshot(),
	})
}

func (h *RunHandler) handleChoice(w http.ResponseWriter, r *http.Request, runID uuid.UUID) {
	var req ApplyChoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ChoiceID == "" {
		writeError(w, h.logger, http.StatusBadRequest, "choice_id is required")
		return
	}

	eng, ok := h.loadEngine(w, r, runID)
	if !ok {
		return
	}

	snapshot, err := eng.ApplyChoice(req.ChoiceID)
	if err != nil {
		var invalid *engine.InvalidChoiceError
		if errors.As(err, &invalid) {
			// Stale client: nothing was mutated, re-fetch and re-prompt.
			h.logger.Warn("Invalid choice", "run_id", runID, "choice_id", req.ChoiceID)
			writeError(w, h.logger, http.StatusConflict, invalid.Error())
			return
		}
		var structural *engine.StructuralError
		if errors.As(err, &structural) {
			h.logger.Error("Structural error in game graph", "run_id", runID, "error", err)
			writeError(w, h.logger, http.StatusInternalServerError, "Game definition is inconsistent")
			return
		}
		h.logger.Error("Failed to apply choice", "run_id", runID, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to apply choice")
		return
	}

	if err := h.storage.SaveRun(r.Context(), runID, eng.State()); err != nil {
		h.logger.Error("Failed to save run", "error", err, "run_id", runID)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to save run")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, RunResponse{
		RunID:    runID,
		GameID:   eng.Game().ID,
		Snapshot: snapshot,
	})
}

func (h *RunHandler) handleReset(w http.ResponseWriter, r *http.Request, runID uuid.UUID) {
	eng, ok := h.loadEngine(w, r, runID)
	if !ok {
		return
	}

	eng.Reset()

	if err := h.storage.SaveRun(r.Context(), runID, eng.State()); err != nil {
		h.logger.Error("Failed to save run", "error", err, "run_id", runID)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to save run")
		return
	}

	h.logger.Info("Run reset", "run_id", runID)
	writeJSON(w, h.logger, http.StatusOK, RunResponse{
		RunID:    runID,
		GameID:   eng.Game().ID,
		Snapshot: eng.Snapshot(),
	})
}

func (h *RunHandler) handleDelete(w http.ResponseWriter, r *http.Request, runID uuid.UUID) {
	if err := h.storage.DeleteRun(r.Context(), runID); err != nil {
		h.logger.Error("Failed to delete run", "error", err, "run_id", runID)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to delete run")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// loadEngine restores the engine for a stored run: player state from
// Redis, game definition from the filesystem, paired by the state's
// game_id correlation key. On failure it writes the error response and
// returns ok=false.
func (h *RunHandler) loadEngine(w http.ResponseWriter, r *http.Request, runID uuid.UUID) (*engine.Engine, bool) {
	ps, err := h.storage.LoadRun(r.Context(), runID)
	if err != nil {
		h.logger.Error("Failed to load run", "error", err, "run_id", runID)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load run")
		return nil, false
	}
	if ps == nil {
		writeError(w, h.logger, http.StatusNotFound, "Run not found")
		return nil, false
	}

	g, err := h.storage.GetGame(r.Context(), ps.GameID)
	if err != nil {
		// The run outlived its game definition; nothing can be applied.
		h.logger.Error("Game missing for run", "run_id", runID, "game_id", ps.GameID, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Game definition missing for run")
		return nil, false
	}

	return engine.New(g, ps), true
}
