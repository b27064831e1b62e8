package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jwebster45206/branch-engine/pkg/game"
)

// Game definition operations (filesystem-backed)

func (r *RedisStorage) gamesDir() string {
	return filepath.Join(r.dataDir, "games")
}

func (r *RedisStorage) SaveGame(ctx context.Context, g *game.Game) error {
	if g.ID == "" {
		return fmt.Errorf("game id is required")
	}

	if err := os.MkdirAll(r.gamesDir(), 0755); err != nil {
		return fmt.Errorf("failed to create games directory: %w", err)
	}

	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		r.logger.Error("Failed to marshal game", "game_id", g.ID, "error", err)
		return fmt.Errorf("failed to marshal game: %w", err)
	}

	path := filepath.Join(r.gamesDir(), g.ID+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		r.logger.Error("Failed to write game file", "path", path, "error", err)
		return fmt.Errorf("failed to write game file: %w", err)
	}

	return nil
}

func (r *RedisStorage) GetGame(ctx context.Context, id string) (*game.Game, error) {
	path := filepath.Join(r.gamesDir(), id+".json")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("game not found: %s", id)
		}
		return nil, fmt.Errorf("failed to read game file: %w", err)
	}

	var g game.Game
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &g, nil
}

func (r *RedisStorage) ListGames(ctx context.Context) ([]GameSummary, error) {
	games := make([]GameSummary, 0)

	err := filepath.WalkDir(r.gamesDir(), func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			r.logger.Warn("Failed to read game file", "path", path, "error", err)
			return nil
		}

		var g game.Game
		if err := json.Unmarshal(data, &g); err != nil {
			r.logger.Warn("Skipping corrupt game file", "path", path, "error", err)
			return nil
		}

		games = append(games, GameSummary{
			ID:         g.ID,
			Title:      g.Title,
			Mode:       g.Mode,
			SceneCount: len(g.Scenes),
		})
		return nil
	})

	if err != nil {
		if os.IsNotExist(err) {
			return games, nil
		}
		r.logger.Error("Failed to walk games directory", "error", err)
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	return games, nil
}
