package engine

import (
	"fmt"

	"github.com/jwebster45206/branch-engine/pkg/game"
	"github.com/jwebster45206/branch-engine/pkg/state"
)

// Record is the plain nested representation of an engine's contents,
// suitable for handing to a persistence adapter. The engine does not
// depend on field order or on the physical storage format.
type Record struct {
	Game  *game.Game         `json:"game"`
	State *state.PlayerState `json:"state"`
}

// ToRecord serializes the engine's game definition and player state.
// Reconstructing via FromRecord and calling Snapshot reproduces the
// snapshot captured at serialization time.
func (e *Engine) ToRecord() *Record {
	return &Record{
		Game:  e.game,
		State: e.state.Clone(),
	}
}

// FromRecord restores an engine from a previously serialized record.
func FromRecord(rec *Record) (*Engine, error) {
	if rec == nil || rec.Game == nil {
		return nil, fmt.Errorf("record missing game definition")
	}
	if rec.State == nil {
		return nil, fmt.Errorf("record missing player state")
	}
	return New(rec.Game, rec.State), nil
}
