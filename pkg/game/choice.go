package game

// RiskLevel describes how volatile a choice's outcome is.
// It has no mechanical effect on transitions; renderers use it
// to color choices against the game's risk legend.
type RiskLevel string

const (
	RiskSafe    RiskLevel = "safe"
	RiskRisky   RiskLevel = "risky"
	RiskChaotic RiskLevel = "chaotic"
)

// IsValid reports whether the risk level is one of the known values.
func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskSafe, RiskRisky, RiskChaotic:
		return true
	}
	return false
}

// Loot is a free-form record attached to a choice and copied into the
// player's inventory verbatim. Shape is composer-defined; typically
// {"name": ..., "description": ...}.
type Loot map[string]any

// Choice is an edge in the scene graph. An empty NextSceneID means the
// game ends on the scene the choice was taken from.
type Choice struct {
	ID          string         `json:"id"` // unique within the owning scene
	Label       string         `json:"label"`
	ResultText  string         `json:"result_text"`
	NextSceneID string         `json:"next_scene_id,omitempty"`
	DeltaScore  int            `json:"delta_score"`
	RiskLevel   RiskLevel      `json:"risk_level"`
	StatChanges map[string]int `json:"stat_changes,omitempty"`
	Loot        Loot           `json:"loot,omitempty"`
}
