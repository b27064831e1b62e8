package engine

import (
	"github.com/jwebster45206/branch-engine/pkg/game"
	"github.com/jwebster45206/branch-engine/pkg/state"
)

// ScenePayload is the display portion of a snapshot. Choices are
// forced empty once the run is over, so a renderer can never solicit
// another choice after game-over regardless of what the graph stores.
type ScenePayload struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	Body       string        `json:"body"`
	Choices    []game.Choice `json:"choices"`
	IsTerminal bool          `json:"is_terminal,omitempty"`
	EndingTag  string        `json:"ending_tag,omitempty"`
}

// Snapshot is a read-only projection of the current scene and player
// state, built fresh on every call. Renderers consume snapshots
// exclusively and never touch the engine's live state.
type Snapshot struct {
	Scene      *ScenePayload      `json:"scene"` // nil when the current scene id cannot be resolved
	GameOver   bool               `json:"game_over"`
	EndingTag  string             `json:"ending_tag,omitempty"`
	LastChoice *game.Choice       `json:"last_choice,omitempty"`
	State      *state.PlayerState `json:"state"`
	Metadata   game.Metadata      `json:"metadata,omitempty"`
}

func (e *Engine) buildSnapshot(lastChoice *game.Choice) *Snapshot {
	scene, _ := e.game.Scene(e.state.CurrentSceneID)

	// State and scene can disagree if the graph was edited upstream
	// after the run started; any of the three conditions ends the run.
	gameOver := e.state.IsComplete || scene == nil || scene.IsTerminal

	endingTag := e.state.EndingTag
	if endingTag == "" && scene != nil && scene.IsTerminal {
		endingTag = scene.EndingTag
	}

	var payload *ScenePayload
	if scene != nil {
		payload = &ScenePayload{
			ID:         scene.ID,
			Title:      scene.Title,
			Body:       scene.Body,
			Choices:    scene.Choices,
			IsTerminal: scene.IsTerminal,
			EndingTag:  scene.EndingTag,
		}
		if gameOver {
			payload.Choices = []game.Choice{}
		}
	}

	return &Snapshot{
		Scene:      payload,
		GameOver:   gameOver,
		EndingTag:  endingTag,
		LastChoice: lastChoice,
		State:      e.state.Clone(),
		Metadata:   e.game.Metadata,
	}
}
