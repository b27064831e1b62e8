// Package engine provides deterministic state transitions for a
// branching narrative game: it applies choices from an immutable game
// definition to a single PlayerState and emits render-ready snapshots.
// The engine is a pure synchronous state machine; it performs no I/O,
// no logging, and assumes one sequential caller per instance.
package engine

import (
	"time"

	"github.com/jwebster45206/branch-engine/pkg/game"
	"github.com/jwebster45206/branch-engine/pkg/state"
)

// Engine drives one run through one game. It holds a read-only
// reference to the game definition and owns mutation of the player
// state for the lifetime of the run.
type Engine struct {
	game  *game.Game
	state *state.PlayerState
}

// New constructs an engine for the given game. A nil PlayerState
// starts a fresh run with defaults derived from the game's metadata;
// a non-nil one resumes it (e.g. restored from storage).
func New(g *game.Game, ps *state.PlayerState) *Engine {
	if ps == nil {
		ps = state.NewPlayerState(g)
	}
	return &Engine{game: g, state: ps}
}

// Game returns the game definition the engine was constructed with.
func (e *Engine) Game() *game.Game {
	return e.game
}

// State returns the live player state. Callers that want a stable view
// should use Snapshot instead.
func (e *Engine) State() *state.PlayerState {
	return e.state
}

// Reset reinitializes the player state to the game's starting defaults
// in place, on the same state object the caller holds.
func (e *Engine) Reset() {
	e.state.Reset(e.game)
}

// CurrentScene resolves the scene the player is on. A *StructuralError
// means the graph is malformed or stale; the operation is fatal and
// should not be retried.
func (e *Engine) CurrentScene() (*game.Scene, error) {
	scene, ok := e.game.Scene(e.state.CurrentSceneID)
	if !ok {
		return nil, &StructuralError{SceneID: e.state.CurrentSceneID}
	}
	return scene, nil
}

// Choice resolves a choice by id within the current scene. A
// *InvalidChoiceError means the caller is out of sync with the current
// snapshot; re-render and prompt again.
func (e *Engine) Choice(choiceID string) (*game.Choice, error) {
	scene, err := e.CurrentScene()
	if err != nil {
		return nil, err
	}
	choice, ok := scene.Choice(choiceID)
	if !ok {
		return nil, &InvalidChoiceError{ChoiceID: choiceID, SceneID: scene.ID}
	}
	return choice, nil
}

// ApplyChoice applies the identified choice from the current scene:
// score, stats and loot are accumulated, a history entry is appended,
// and the player advances along the choice's edge. A choice without a
// destination ends the run on the scene it was taken from. The updated
// snapshot is returned.
//
// ApplyChoice does not guard against an already-complete run; it
// applies mutations regardless. Callers are expected to stop calling
// once a snapshot reports GameOver.
func (e *Engine) ApplyChoice(choiceID string) (*Snapshot, error) {
	scene, err := e.CurrentScene()
	if err != nil {
		return nil, err
	}
	choice, ok := scene.Choice(choiceID)
	if !ok {
		return nil, &InvalidChoiceError{ChoiceID: choiceID, SceneID: scene.ID}
	}

	e.state.Score += choice.DeltaScore

	// Stats are created implicitly on first delta; there is no fixed
	// stat list to validate against.
	for stat, delta := range choice.StatChanges {
		if e.state.Stats == nil {
			e.state.Stats = make(map[string]int)
		}
		e.state.Stats[stat] += delta
	}

	if choice.Loot != nil {
		e.state.Inventory = append(e.state.Inventory, choice.Loot)
	}

	e.state.History = append(e.state.History, state.HistoryEntry{
		Timestamp:   time.Now().UTC(),
		SceneID:     scene.ID,
		SceneTitle:  scene.Title,
		ChoiceID:    choice.ID,
		ChoiceLabel: choice.Label,
		ResultText:  choice.ResultText,
		DeltaScore:  choice.DeltaScore,
		RiskLevel:   choice.RiskLevel,
		Loot:        choice.Loot,
		StatChanges: choice.StatChanges,
		NextSceneID: choice.NextSceneID,
	})

	if choice.NextSceneID != "" {
		next, ok := e.game.Scene(choice.NextSceneID)
		if !ok {
			return nil, &StructuralError{SceneID: choice.NextSceneID, ChoiceID: choice.ID}
		}
		e.state.CurrentSceneID = choice.NextSceneID
		e.state.IsComplete = next.IsTerminal
		if next.IsTerminal {
			e.state.EndingTag = next.EndingTag
		} else {
			e.state.EndingTag = ""
		}
	} else {
		// Dead end: remain on the current scene but mark completion.
		e.state.IsComplete = true
		e.state.EndingTag = scene.EndingTag
	}

	// Stamp the ending tag onto the entry that completed the run. This
	// is the only mutation a history entry ever sees after append.
	if e.state.IsComplete {
		e.state.History[len(e.state.History)-1].EndingTag = e.state.EndingTag
	}

	e.state.UpdatedAt = time.Now().UTC()

	return e.buildSnapshot(choice), nil
}

// Snapshot returns the current projection without applying a choice,
// for initial render and for reloading a saved run.
func (e *Engine) Snapshot() *Snapshot {
	return e.buildSnapshot(nil)
}
