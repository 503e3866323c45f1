// Package memory keeps the repository contracts in process memory. Used when
// storage-driver is "memory" and by the orchestration tests.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/rocketscienceinc/boardgames-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgames-backend/internal/entity"
)

// GameStore stores games as JSON so callers never share pointers with the store.
type GameStore struct {
	mu    sync.RWMutex
	games map[string][]byte
}

func NewGameStore() *GameStore {
	return &GameStore{games: make(map[string][]byte)}
}

func (that *GameStore) CreateOrUpdate(_ context.Context, game *entity.Game) error {
	raw, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	that.games[game.ID] = raw

	return nil
}

func (that *GameStore) GetByID(_ context.Context, id string) (*entity.Game, error) {
	that.mu.RLock()
	raw, ok := that.games[id]
	that.mu.RUnlock()

	if !ok {
		return &entity.Game{}, apperror.ErrGameNotFound
	}

	return decode(raw)
}

func (that *GameStore) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.games[id]; !ok {
		return apperror.ErrGameNotFound
	}

	delete(that.games, id)

	return nil
}

func (that *GameStore) ListByPlayer(_ context.Context, username string) ([]*entity.Game, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	games := []*entity.Game{}
	for _, raw := range that.games {
		game, err := decode(raw)
		if err != nil {
			return nil, err
		}

		if game.SymbolOf(username) != "" {
			games = append(games, game)
		}
	}

	sort.Slice(games, func(i, j int) bool {
		return games[i].CreatedAt.After(games[j].CreatedAt)
	})

	return games, nil
}

func decode(raw []byte) (*entity.Game, error) {
	var game entity.Game
	if err := json.Unmarshal(raw, &game); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &game, nil
}
