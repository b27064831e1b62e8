package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/jwebster45206/branch-engine/pkg/game"
	"github.com/jwebster45206/branch-engine/pkg/state"
)

// GameSummary is the listing metadata for a stored game definition.
type GameSummary struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Mode       string `json:"mode"`
	SceneCount int    `json:"scene_count"`
}

// RunSummary is the listing metadata for a stored run.
type RunSummary struct {
	RunID      uuid.UUID `json:"run_id"`
	GameID     string    `json:"game_id"`
	Score      int       `json:"score"`
	IsComplete bool      `json:"is_complete"`
	EndingTag  string    `json:"ending_tag,omitempty"`
}

// Storage defines a unified interface for all storage operations:
// run state persistence (Redis) and game definition storage (filesystem).
// The engine never touches this layer; handlers pair a loaded game with
// a loaded run and hand both to the engine.
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Run operations (Redis-backed)
	SaveRun(ctx context.Context, id uuid.UUID, ps *state.PlayerState) error
	// LoadRun returns nil if the run doesn't exist
	LoadRun(ctx context.Context, id uuid.UUID) (*state.PlayerState, error)
	DeleteRun(ctx context.Context, id uuid.UUID) error
	// ListRuns returns summaries for stored runs, optionally filtered by
	// game id ("" matches all). Corrupt records are skipped, not fatal.
	ListRuns(ctx context.Context, gameID string) ([]RunSummary, error)

	// Game definition operations (filesystem-backed)
	SaveGame(ctx context.Context, g *game.Game) error
	GetGame(ctx context.Context, id string) (*game.Game, error)
	ListGames(ctx context.Context) ([]GameSummary, error)
}
