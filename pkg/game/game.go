package game

// Game is the immutable definition of a branching narrative: a graph of
// scenes keyed by id, a starting scene, and a metadata bag. It is
// produced once by the upstream composer (or loaded from storage) and
// never mutated by the engine.
type Game struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Mode         string           `json:"mode"` // free-form theme label, e.g. "Funny"
	StartSceneID string           `json:"start_scene_id"`
	Scenes       map[string]Scene `json:"scenes"`
	Metadata     Metadata         `json:"metadata,omitempty"`
}

// Scene returns the scene with the given id.
func (g *Game) Scene(id string) (*Scene, bool) {
	s, ok := g.Scenes[id]
	if !ok {
		return nil, false
	}
	return &s, true
}
