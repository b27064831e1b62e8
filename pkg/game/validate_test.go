package game

import (
	"strings"
	"testing"
)

func validGame() *Game {
	return &Game{
		ID:           "haunted_pier",
		Title:        "Haunted Pier",
		Mode:         "Chaotic",
		StartSceneID: "boardwalk",
		Scenes: map[string]Scene{
			"boardwalk": {
				ID:    "boardwalk",
				Title: "The Boardwalk",
				Body:  "Fog rolls in off the water.",
				Choices: []Choice{
					{ID: "enter", Label: "Enter the arcade", ResultText: "Lights flicker on.", NextSceneID: "arcade", RiskLevel: RiskSafe},
					{ID: "jump", Label: "Jump off the pier", ResultText: "Cold. Very cold.", DeltaScore: -5, RiskLevel: RiskChaotic},
				},
			},
			"arcade": {
				ID:         "arcade",
				Title:      "The Arcade",
				Body:       "Every machine plays itself.",
				IsTerminal: true,
				EndingTag:  "weird",
			},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(g *Game)
		wantErr string // substring, empty means valid
	}{
		{
			name:   "valid game",
			mutate: func(g *Game) {},
		},
		{
			name:    "missing game id",
			mutate:  func(g *Game) { g.ID = "" },
			wantErr: "game id is required",
		},
		{
			name:    "missing start scene",
			mutate:  func(g *Game) { g.StartSceneID = "nope" },
			wantErr: "does not match any scene",
		},
		{
			name:    "empty start scene id",
			mutate:  func(g *Game) { g.StartSceneID = "" },
			wantErr: "start_scene_id is required",
		},
		{
			name:    "no scenes",
			mutate:  func(g *Game) { g.Scenes = nil },
			wantErr: "at least one scene",
		},
		{
			name: "dangling edge",
			mutate: func(g *Game) {
				s := g.Scenes["boardwalk"]
				s.Choices[0].NextSceneID = "ghost_scene"
				g.Scenes["boardwalk"] = s
			},
			wantErr: `next_scene_id "ghost_scene"`,
		},
		{
			name: "terminal scene with choices",
			mutate: func(g *Game) {
				s := g.Scenes["arcade"]
				s.Choices = []Choice{{ID: "stay", Label: "Stay", RiskLevel: RiskSafe}}
				g.Scenes["arcade"] = s
			},
			wantErr: "terminal scenes must not have choices",
		},
		{
			name: "unknown risk level",
			mutate: func(g *Game) {
				s := g.Scenes["boardwalk"]
				s.Choices[0].RiskLevel = "spicy"
				g.Scenes["boardwalk"] = s
			},
			wantErr: `unknown risk_level "spicy"`,
		},
		{
			name: "duplicate choice id",
			mutate: func(g *Game) {
				s := g.Scenes["boardwalk"]
				s.Choices[1].ID = "enter"
				g.Scenes["boardwalk"] = s
			},
			wantErr: "duplicate choice id",
		},
		{
			name: "scene id not snake_case",
			mutate: func(g *Game) {
				g.Scenes["BoardWalk"] = Scene{ID: "BoardWalk", Title: "x"}
			},
			wantErr: "lowercase snake_case",
		},
		{
			name: "scene id mismatch with map key",
			mutate: func(g *Game) {
				s := g.Scenes["arcade"]
				s.ID = "arc"
				g.Scenes["arcade"] = s
			},
			wantErr: "does not match map key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := validGame()
			tt.mutate(g)
			err := g.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestSceneChoice(t *testing.T) {
	g := validGame()
	scene, ok := g.Scene("boardwalk")
	if !ok {
		t.Fatal("expected boardwalk scene")
	}

	if c, ok := scene.Choice("jump"); !ok || c.Label != "Jump off the pier" {
		t.Errorf("Choice(jump) = %v, %v", c, ok)
	}
	if _, ok := scene.Choice("missing"); ok {
		t.Error("Choice(missing) should not be found")
	}
}
