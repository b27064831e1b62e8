package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/branch-engine/pkg/state"
)

const runKeyPrefix = "run:"

// Run operations (Redis-backed)

func (r *RedisStorage) SaveRun(ctx context.Context, id uuid.UUID, ps *state.PlayerState) error {
	ps.UpdatedAt = time.Now()

	data, err := json.Marshal(ps)
	if err != nil {
		r.logger.Error("Failed to marshal run state", "run_id", id, "error", err)
		return fmt.Errorf("failed to marshal run state: %w", err)
	}

	key := runKeyPrefix + id.String()
	cmd := r.client.Set(ctx, key, string(data), r.runTTL)
	if err := cmd.Err(); err != nil {
		r.logger.Error("Failed to save run state", "run_id", id, "error", err)
		return fmt.Errorf("failed to save run state: %w", err)
	}

	return nil
}

func (r *RedisStorage) LoadRun(ctx context.Context, id uuid.UUID) (*state.PlayerState, error) {
	key := runKeyPrefix + id.String()
	cmd := r.client.Get(ctx, key)
	if err := cmd.Err(); err != nil {
		if err == redis.Nil {
			r.logger.Warn("Run not found", "run_id", id)
			return nil, nil // Return nil for not found
		}
		r.logger.Error("Failed to load run state", "run_id", id, "error", err)
		return nil, fmt.Errorf("failed to load run state: %w", err)
	}

	data := cmd.Val()
	if data == "" {
		r.logger.Warn("Run not found", "run_id", id)
		return nil, nil
	}

	var ps state.PlayerState
	if err := json.Unmarshal([]byte(data), &ps); err != nil {
		r.logger.Error("Failed to unmarshal run state", "run_id", id, "error", err)
		return nil, fmt.Errorf("failed to unmarshal run state: %w", err)
	}

	return &ps, nil
}

func (r *RedisStorage) DeleteRun(ctx context.Context, id uuid.UUID) error {
	key := runKeyPrefix + id.String()
	cmd := r.client.Del(ctx, key)
	if err := cmd.Err(); err != nil {
		r.logger.Error("Failed to delete run state", "run_id", id, "error", err)
		return fmt.Errorf("failed to delete run state: %w", err)
	}
	return nil
}

func (r *RedisStorage) ListRuns(ctx context.Context, gameID string) ([]RunSummary, error) {
	runs := make([]RunSummary, 0)

	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, runKeyPrefix+"*", 100).Result()
		if err != nil {
			r.logger.Error("Failed to scan run keys", "error", err)
			return nil, fmt.Errorf("failed to list runs: %w", err)
		}

		for _, key := range keys {
			data, err := r.client.Get(ctx, key).Result()
			if err != nil {
				// Key may have expired between SCAN and GET
				continue
			}

			var ps state.PlayerState
			if err := json.Unmarshal([]byte(data), &ps); err != nil {
				r.logger.Warn("Skipping corrupt run record", "key", key, "error", err)
				continue
			}

			if gameID != "" && ps.GameID != gameID {
				continue
			}

			runs = append(runs, RunSummary{
				RunID:      ps.ID,
				GameID:     ps.GameID,
				Score:      ps.Score,
				IsComplete: ps.IsComplete,
				EndingTag:  ps.EndingTag,
			})
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	return runs, nil
}
