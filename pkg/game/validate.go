package game

import (
	"fmt"
	"regexp"
	"strings"
)

var idPattern = regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)*$`)

// Validate eagerly checks the structural invariants the composer is
// expected to uphold: the start scene resolves, every choice edge
// resolves within the same game, terminal scenes carry no choices, and
// risk levels are known values. The engine itself validates lazily at
// transition time; Validate is for ingestion boundaries that want to
// reject a malformed graph before a run ever starts.
func (g *Game) Validate() error {
	var errs []string

	if g.ID == "" {
		errs = append(errs, "game id is required")
	}
	if g.StartSceneID == "" {
		errs = append(errs, "start_scene_id is required")
	} else if _, ok := g.Scenes[g.StartSceneID]; !ok {
		errs = append(errs, fmt.Sprintf("start_scene_id %q does not match any scene", g.StartSceneID))
	}
	if len(g.Scenes) == 0 {
		errs = append(errs, "game must contain at least one scene")
	}

	for key, scene := range g.Scenes {
		if scene.ID != "" && scene.ID != key {
			errs = append(errs, fmt.Sprintf("scene %q: id field %q does not match map key", key, scene.ID))
		}
		if !idPattern.MatchString(key) {
			errs = append(errs, fmt.Sprintf("scene id %q must be lowercase snake_case", key))
		}
		if scene.IsTerminal && len(scene.Choices) > 0 {
			errs = append(errs, fmt.Sprintf("scene %q: terminal scenes must not have choices", key))
		}

		seen := make(map[string]bool)
		for _, choice := range scene.Choices {
			if choice.ID == "" {
				errs = append(errs, fmt.Sprintf("scene %q: choice with empty id", key))
				continue
			}
			if seen[choice.ID] {
				errs = append(errs, fmt.Sprintf("scene %q: duplicate choice id %q", key, choice.ID))
			}
			seen[choice.ID] = true

			if !choice.RiskLevel.IsValid() {
				errs = append(errs, fmt.Sprintf("scene %q choice %q: unknown risk_level %q", key, choice.ID, choice.RiskLevel))
			}
			if choice.NextSceneID != "" {
				if _, ok := g.Scenes[choice.NextSceneID]; !ok {
					errs = append(errs, fmt.Sprintf("scene %q choice %q: next_scene_id %q does not match any scene", key, choice.ID, choice.NextSceneID))
				}
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid game %q:\n%s", g.ID, strings.Join(errs, "\n"))
	}
	return nil
}
