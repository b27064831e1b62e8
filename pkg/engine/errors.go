package engine

import "fmt"

// StructuralError indicates the game definition itself is inconsistent:
// the current scene id is missing from the graph, or a choice references
// a scene that does not exist. It points at a bug in the upstream
// composer/validator and is fatal to the run; callers should abort and
// surface a generation failure rather than retry the same choice.
type StructuralError struct {
	SceneID  string // the scene id that failed to resolve
	ChoiceID string // the referencing choice, if the failure came from an edge
}

func (e *StructuralError) Error() string {
	if e.ChoiceID != "" {
		return fmt.Sprintf("scene %q referenced by choice %q is missing from game", e.SceneID, e.ChoiceID)
	}
	return fmt.Sprintf("scene %q missing from game", e.SceneID)
}

// InvalidChoiceError indicates the caller asked for a choice id that is
// not present in the current scene, typically a stale UI replaying an
// old snapshot. It is recoverable: no state is mutated, and the caller
// should re-fetch the current snapshot and prompt again.
type InvalidChoiceError struct {
	ChoiceID string
	SceneID  string
}

func (e *InvalidChoiceError) Error() string {
	return fmt.Sprintf("choice %q not found in scene %q", e.ChoiceID, e.SceneID)
}
