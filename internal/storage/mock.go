package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jwebster45206/branch-engine/pkg/game"
	"github.com/jwebster45206/branch-engine/pkg/state"
)

// MockStorage is a mock implementation of Storage for testing
type MockStorage struct {
	mu        sync.RWMutex
	runs      map[uuid.UUID]*state.PlayerState
	games     map[string]*game.Game
	pingError error

	// Optional error injection
	SaveRunError error
	LoadRunError error
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		runs:  make(map[uuid.UUID]*state.PlayerState),
		games: make(map[string]*game.Game),
	}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) SaveRun(ctx context.Context, id uuid.UUID, ps *state.PlayerState) error {
	if m.SaveRunError != nil {
		return m.SaveRunError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[id] = ps.Clone()
	return nil
}

func (m *MockStorage) LoadRun(ctx context.Context, id uuid.UUID) (*state.PlayerState, error) {
	if m.LoadRunError != nil {
		return nil, m.LoadRunError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	ps, ok := m.runs[id]
	if !ok {
		return nil, nil
	}
	return ps.Clone(), nil
}

func (m *MockStorage) DeleteRun(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.runs, id)
	return nil
}

func (m *MockStorage) ListRuns(ctx context.Context, gameID string) ([]RunSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	runs := make([]RunSummary, 0, len(m.runs))
	for _, ps := range m.runs {
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
	return runs, nil
}

func (m *MockStorage) SaveGame(ctx context.Context, g *game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID] = g
	return nil
}

func (m *MockStorage) GetGame(ctx context.Context, id string) (*game.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.games[id]
	if !ok {
		return nil, fmt.Errorf("game not found: %s", id)
	}
	return g, nil
}

func (m *MockStorage) ListGames(ctx context.Context) ([]GameSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	games := make([]GameSummary, 0, len(m.games))
	for _, g := range m.games {
		games = append(games, GameSummary{
			ID:         g.ID,
			Title:      g.Title,
			Mode:       g.Mode,
			SceneCount: len(g.Scenes),
		})
	}
	return games, nil
}
