package state

import (
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/branch-engine/pkg/game"
)

// PlayerState is the mutable record of one run through a game. It is
// created from the game's metadata defaults (or restored from storage)
// and mutated exclusively by the engine.
type PlayerState struct {
	ID             uuid.UUID      `json:"id"`      // unique per run
	GameID         string         `json:"game_id"` // correlation key only, not an ownership edge
	CurrentSceneID string         `json:"current_scene_id"`
	Score          int            `json:"score"`
	Stats          map[string]int `json:"stats"`
	Inventory      []game.Loot    `json:"inventory"`
	History        []HistoryEntry `json:"history"`
	IsComplete     bool           `json:"is_complete"`
	EndingTag      string         `json:"ending_tag,omitempty"` // empty until the run completes
	CreatedAt      time.Time      `json:"created_at,omitempty"`
	UpdatedAt      time.Time      `json:"updated_at,omitempty"`
}

// HistoryEntry records one applied choice. Entries are append-only:
// once written they are never altered, except that the entry which
// completed the run gets its EndingTag stamped in the same call.
type HistoryEntry struct {
	Timestamp   time.Time      `json:"timestamp"`
	SceneID     string         `json:"scene_id"`
	SceneTitle  string         `json:"scene_title"`
	ChoiceID    string         `json:"choice_id"`
	ChoiceLabel string         `json:"choice_label"`
	ResultText  string         `json:"result_text"`
	DeltaScore  int            `json:"delta_score"`
	RiskLevel   game.RiskLevel `json:"risk_level"`
	Loot        game.Loot      `json:"loot,omitempty"`
	StatChanges map[string]int `json:"stat_changes,omitempty"`
	NextSceneID string         `json:"next_scene_id,omitempty"`
	EndingTag   string         `json:"ending_tag,omitempty"`
}

// NewPlayerState builds the default state for a fresh run: positioned
// on the start scene, score and stats seeded from metadata, empty
// inventory and history.
func NewPlayerState(g *game.Game) *PlayerState {
	now := time.Now().UTC()
	return &PlayerState{
		ID:             uuid.New(),
		GameID:         g.ID,
		CurrentSceneID: g.StartSceneID,
		Score:          g.Metadata.StartingScore(),
		Stats:          g.Metadata.StartingStats(),
		Inventory:      make([]game.Loot, 0),
		History:        make([]HistoryEntry, 0),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Reset reinitializes the state in place to the same defaults a fresh
// run would get, clearing inventory and history unconditionally. The
// run id and creation time survive the reset.
func (ps *PlayerState) Reset(g *game.Game) {
	ps.GameID = g.ID
	ps.CurrentSceneID = g.StartSceneID
	ps.Score = g.Metadata.StartingScore()
	ps.Stats = g.Metadata.StartingStats()
	ps.Inventory = make([]game.Loot, 0)
	ps.History = make([]HistoryEntry, 0)
	ps.IsComplete = false
	ps.EndingTag = ""
	ps.UpdatedAt = time.Now().UTC()
}

// Clone returns a deep copy, used for snapshot projections so callers
// cannot reach back into live engine state.
func (ps *PlayerState) Clone() *PlayerState {
	cp := *ps

	cp.Stats = make(map[string]int, len(ps.Stats))
	for k, v := range ps.Stats {
		cp.Stats[k] = v
	}

	cp.Inventory = make([]game.Loot, len(ps.Inventory))
	for i, loot := range ps.Inventory {
		cp.Inventory[i] = cloneLoot(loot)
	}

	cp.History = make([]HistoryEntry, len(ps.History))
	for i, entry := range ps.History {
		cp.History[i] = entry
		cp.History[i].Loot = cloneLoot(entry.Loot)
		if entry.StatChanges != nil {
			changes := make(map[string]int, len(entry.StatChanges))
			for k, v := range entry.StatChanges {
				changes[k] = v
			}
			cp.History[i].StatChanges = changes
		}
	}

	return &cp
}

func cloneLoot(loot game.Loot) game.Loot {
	if loot == nil {
		return nil
	}
	cp := make(game.Loot, len(loot))
	for k, v := range loot {
		cp[k] = v
	}
	return cp
}
