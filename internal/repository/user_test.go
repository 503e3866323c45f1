package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/boardgames-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgames-backend/internal/entity"
	"github.com/rocketscienceinc/boardgames-backend/testing/suite"
)

func newUserRepo(t *testing.T) (context.Context, UserRepository) {
	t.Helper()

	ctx, st := suite.NewSQLite(t)

	return ctx, NewUserRepository(st.SQL, func() time.Time { return created })
}

func TestUserRepository_Create(t *testing.T) {
	t.Run("New user starts with empty stats", func(t *testing.T) {
		ctx, users := newUserRepo(t)

		user, err := users.Create(ctx, "alice")

		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.Zero(t, user.Wins+user.Losses+user.Draws)
		assert.True(t, created.Equal(user.CreatedAt))
	})

	t.Run("Creating twice keeps the first record", func(t *testing.T) {
		ctx, users := newUserRepo(t)
		_, err := users.Create(ctx, "alice")
		require.NoError(t, err)
		require.NoError(t, users.UpdateStats(ctx, "alice", entity.OutcomeWin))

		user, err := users.Create(ctx, "alice")

		require.NoError(t, err)
		assert.Equal(t, 1, user.Wins)
	})
}

func TestUserRepository_Get_NotFound(t *testing.T) {
	ctx, users := newUserRepo(t)

	_, err := users.Get(ctx, "ghost")

	require.ErrorIs(t, err, apperror.ErrUserNotFound)
}

func TestUserRepository_UpdateStats(t *testing.T) {
	t.Run("Each outcome increments its own counter", func(t *testing.T) {
		// Given: a registered user
		ctx, users := newUserRepo(t)
		_, err := users.Create(ctx, "alice")
		require.NoError(t, err)

		// When: results are reported
		require.NoError(t, users.UpdateStats(ctx, "alice", entity.OutcomeWin))
		require.NoError(t, users.UpdateStats(ctx, "alice", entity.OutcomeWin))
		require.NoError(t, users.UpdateStats(ctx, "alice", entity.OutcomeLoss))
		require.NoError(t, users.UpdateStats(ctx, "alice", entity.OutcomeDraw))

		// Then: the counters add up
		user, err := users.Get(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, 2, user.Wins)
		assert.Equal(t, 1, user.Losses)
		assert.Equal(t, 1, user.Draws)
	})

	t.Run("Unknown user", func(t *testing.T) {
		ctx, users := newUserRepo(t)

		err := users.UpdateStats(ctx, "ghost", entity.OutcomeWin)

		require.ErrorIs(t, err, apperror.ErrUserNotFound)
	})

	t.Run("Unknown outcome", func(t *testing.T) {
		ctx, users := newUserRepo(t)
		_, err := users.Create(ctx, "alice")
		require.NoError(t, err)

		err = users.UpdateStats(ctx, "alice", "resign")

		require.Error(t, err)
	})
}
