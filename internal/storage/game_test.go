package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jwebster45206/branch-engine/pkg/game"
)

func testGame(id string) *game.Game {
	return &game.Game{
		ID:           id,
		Title:        "Test " + id,
		Mode:         "Funny",
		StartSceneID: "start",
		Metadata:     game.Metadata{"starting_score": 0},
		Scenes: map[string]game.Scene{
			"start": {
				ID:    "start",
				Title: "Start",
				Choices: []game.Choice{
					{ID: "end_it", Label: "End it", RiskLevel: game.RiskSafe},
				},
			},
		},
	}
}

func TestGameSaveLoadList(t *testing.T) {
	s, mr := setupTestStorage(t)
	defer mr.Close()
	defer s.Close()

	ctx := context.Background()

	if err := s.SaveGame(ctx, testGame("first_game")); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}
	if err := s.SaveGame(ctx, testGame("second_game")); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}

	g, err := s.GetGame(ctx, "first_game")
	if err != nil {
		t.Fatalf("GetGame: %v", err)
	}
	if g.Title != "Test first_game" || len(g.Scenes) != 1 {
		t.Errorf("loaded game mismatch: %+v", g)
	}
	if g.StartSceneID != "start" {
		t.Errorf("StartSceneID = %q", g.StartSceneID)
	}

	games, err := s.ListGames(ctx)
	if err != nil {
		t.Fatalf("ListGames: %v", err)
	}
	if len(games) != 2 {
		t.Errorf("ListGames = %d games, want 2", len(games))
	}
}

func TestGetGame_NotFound(t *testing.T) {
	s, mr := setupTestStorage(t)
	defer mr.Close()
	defer s.Close()

	if _, err := s.GetGame(context.Background(), "missing_game"); err == nil {
		t.Error("expected error for missing game")
	}
}

func TestSaveGame_RequiresID(t *testing.T) {
	s, mr := setupTestStorage(t)
	defer mr.Close()
	defer s.Close()

	if err := s.SaveGame(context.Background(), &game.Game{}); err == nil {
		t.Error("expected error for game without id")
	}
}

func TestListGames_SkipsCorruptFiles(t *testing.T) {
	s, mr := setupTestStorage(t)
	defer mr.Close()
	defer s.Close()

	ctx := context.Background()
	if err := s.SaveGame(ctx, testGame("good_game")); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}

	bad := filepath.Join(s.gamesDir(), "bad_game.json")
	if err := os.WriteFile(bad, []byte("{broken"), 0644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	games, err := s.ListGames(ctx)
	if err != nil {
		t.Fatalf("ListGames: %v", err)
	}
	if len(games) != 1 || games[0].ID != "good_game" {
		t.Errorf("ListGames = %+v, want only good_game", games)
	}
}

func TestListGames_EmptyDir(t *testing.T) {
	s, mr := setupTestStorage(t)
	defer mr.Close()
	defer s.Close()

	games, err := s.ListGames(context.Background())
	if err != nil {
		t.Fatalf("ListGames: %v", err)
	}
	if len(games) != 0 {
		t.Errorf("ListGames = %+v, want empty", games)
	}
}
