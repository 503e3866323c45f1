package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/boardgames-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgames-backend/internal/entity"
	mockedUseCase "github.com/rocketscienceinc/boardgames-backend/mocks/usecase"
)

func TestUserUseCase_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates the user on first sight", func(t *testing.T) {
		// Given: a user repository that accepts the new user
		repo := mockedUseCase.NewMockuserRepo(t)
		useCaseInstance := NewUserUseCase(repo)

		repo.EXPECT().
			Create(mock.Anything, "alice_1").
			Return(&entity.User{Username: "alice_1", CreatedAt: start}, nil).
			Once()

		// When: registering
		user, err := useCaseInstance.Register(ctx, "alice_1")

		// Then: the stored user is returned
		require.NoError(t, err)
		assert.Equal(t, "alice_1", user.Username)
	})

	t.Run("Rejects malformed usernames without touching storage", func(t *testing.T) {
		repo := mockedUseCase.NewMockuserRepo(t)
		useCaseInstance := NewUserUseCase(repo)

		for _, username := range []string{"", "ab", "has space", "emoji🙂", "waytoolong_waytoolong_waytoolong_"} {
			_, err := useCaseInstance.Register(ctx, username)
			require.ErrorIs(t, err, apperror.ErrInvalidUsername, username)
		}
	})

	t.Run("Returns error if storage fails", func(t *testing.T) {
		repo := mockedUseCase.NewMockuserRepo(t)
		useCaseInstance := NewUserUseCase(repo)

		repo.EXPECT().
			Create(mock.Anything, "alice").
			Return((*entity.User)(nil), errSqlite).
			Once()

		user, err := useCaseInstance.Register(ctx, "alice")

		require.ErrorIs(t, err, errSqlite)
		assert.Nil(t, user)
	})
}

func TestUserUseCase_Get(t *testing.T) {
	ctx := context.Background()

	repo := mockedUseCase.NewMockuserRepo(t)
	useCaseInstance := NewUserUseCase(repo)

	repo.EXPECT().
		Get(mock.Anything, "bob").
		Return((*entity.User)(nil), apperror.ErrUserNotFound).
		Once()
	repo.EXPECT().
		Get(mock.Anything, "alice").
		Return(&entity.User{Username: "alice", Wins: 3, CreatedAt: start.Add(-time.Hour)}, nil).
		Once()

	_, err := useCaseInstance.Get(ctx, "bob")
	require.ErrorIs(t, err, apperror.ErrUserNotFound)

	user, err := useCaseInstance.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 3, user.Wins)
}
