package storage

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"

	"github.com/jwebster45206/branch-engine/pkg/game"
	"github.com/jwebster45206/branch-engine/pkg/state"
)

func setupTestStorage(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s := NewRedisStorage(mr.Addr(), t.TempDir(), time.Hour, logger)

	return s, mr
}

func testRun(gameID string) *state.PlayerState {
	return state.NewPlayerState(&game.Game{
		ID:           gameID,
		StartSceneID: "start",
		Metadata:     game.Metadata{"starting_score": 5},
		Scenes:       map[string]game.Scene{"start": {ID: "start"}},
	})
}

func TestRunSaveLoadDelete(t *testing.T) {
	s, mr := setupTestStorage(t)
	defer mr.Close()
	defer func() {
		if err := s.Close(); err != nil {
			t.Errorf("Failed to close storage: %v", err)
		}
	}()

	ctx := context.Background()
	ps := testRun("pier_game")
	ps.History = append(ps.History, state.HistoryEntry{
		Timestamp:  time.Now().UTC(),
		SceneID:    "start",
		ChoiceID:   "a",
		DeltaScore: 2,
		RiskLevel:  game.RiskSafe,
	})

	if err := s.SaveRun(ctx, ps.ID, ps); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	loaded, err := s.LoadRun(ctx, ps.ID)
	if err != nil {
		t.Fatalf("LoadRun: %v", err)
	}
	if loaded == nil {
		t.Fatal("LoadRun returned nil for an existing run")
	}
	if loaded.ID != ps.ID || loaded.GameID != "pier_game" || loaded.Score != 5 {
		t.Errorf("loaded run mismatch: %+v", loaded)
	}
	if len(loaded.History) != 1 || loaded.History[0].ChoiceID != "a" {
		t.Errorf("loaded history mismatch: %+v", loaded.History)
	}

	if err := s.DeleteRun(ctx, ps.ID); err != nil {
		t.Fatalf("DeleteRun: %v", err)
	}

	loaded, err = s.LoadRun(ctx, ps.ID)
	if err != nil {
		t.Fatalf("LoadRun after delete: %v", err)
	}
	if loaded != nil {
		t.Error("LoadRun should return nil after delete")
	}
}

func TestLoadRun_NotFound(t *testing.T) {
	s, mr := setupTestStorage(t)
	defer mr.Close()
	defer s.Close()

	loaded, err := s.LoadRun(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("LoadRun: %v", err)
	}
	if loaded != nil {
		t.Error("expected nil for missing run")
	}
}

func TestSaveRun_TTL(t *testing.T) {
	s, mr := setupTestStorage(t)
	defer mr.Close()
	defer s.Close()

	ps := testRun("pier_game")
	if err := s.SaveRun(context.Background(), ps.ID, ps); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	ttl := mr.TTL(runKeyPrefix + ps.ID.String())
	if ttl != time.Hour {
		t.Errorf("run TTL = %v, want %v", ttl, time.Hour)
	}
}

func TestListRuns(t *testing.T) {
	s, mr := setupTestStorage(t)
	defer mr.Close()
	defer s.Close()

	ctx := context.Background()

	a := testRun("game_a")
	b := testRun("game_a")
	b.IsComplete = true
	b.EndingTag = "win"
	c := testRun("game_b")

	for _, ps := range []*state.PlayerState{a, b, c} {
		if err := s.SaveRun(ctx, ps.ID, ps); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
	}

	// Corrupt record should be skipped, not fail the listing.
	mr.Set(runKeyPrefix+uuid.New().String(), "{not json")

	all, err := s.ListRuns(ctx, "")
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("ListRuns(all) = %d runs, want 3", len(all))
	}

	filtered, err := s.ListRuns(ctx, "game_a")
	if err != nil {
		t.Fatalf("ListRuns filtered: %v", err)
	}
	if len(filtered) != 2 {
		t.Errorf("ListRuns(game_a) = %d runs, want 2", len(filtered))
	}
	for _, summary := range filtered {
		if summary.GameID != "game_a" {
			t.Errorf("unexpected game id %q in filtered listing", summary.GameID)
		}
	}
}

func TestPing(t *testing.T) {
	s, mr := setupTestStorage(t)
	defer s.Close()

	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}

	mr.Close()
	if err := s.Ping(context.Background()); err == nil {
		t.Error("Ping should fail after Redis is gone")
	}
}
