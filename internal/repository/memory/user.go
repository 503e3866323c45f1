package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rocketscienceinc/boardgames-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgames-backend/internal/entity"
)

type UserStore struct {
	now func() time.Time

	mu    sync.RWMutex
	users map[string]entity.User
}

func NewUserStore(now func() time.Time) *UserStore {
	return &UserStore{
		now:   now,
		users: make(map[string]entity.User),
	}
}

func (that *UserStore) Create(_ context.Context, username string) (*entity.User, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	user, ok := that.users[username]
	if !ok {
		user = entity.User{Username: username, CreatedAt: that.now()}
		that.users[username] = user
	}

	return &user, nil
}

func (that *UserStore) Get(_ context.Context, username string) (*entity.User, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	user, ok := that.users[username]
	if !ok {
		return nil, apperror.ErrUserNotFound
	}

	return &user, nil
}

func (that *UserStore) UpdateStats(_ context.Context, username, outcome string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	user, ok := that.users[username]
	if !ok {
		return apperror.ErrUserNotFound
	}

	switch outcome {
	case entity.OutcomeWin:
		user.Wins++
	case entity.OutcomeLoss:
		user.Losses++
	case entity.OutcomeDraw:
		user.Draws++
	default:
		return fmt.Errorf("unknown outcome %q", outcome)
	}

	that.users[username] = user

	return nil
}
