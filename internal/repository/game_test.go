package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/boardgames-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgames-backend/internal/entity"
	"github.com/rocketscienceinc/boardgames-backend/internal/rules"
	"github.com/rocketscienceinc/boardgames-backend/internal/rules/nested"
	"github.com/rocketscienceinc/boardgames-backend/testing/suite"
)

var created = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newNestedGame(id, creator string, at time.Time) *entity.Game {
	board := nested.New()

	return entity.NewGame(id, entity.GameNested, entity.BoardState{Nested: &board}, creator, false, "rapid-10",
		10*time.Minute, 7, at)
}

func TestGameRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	gameRepo := NewGameRepository(st.Storage)

	// Given: a started nested game with one move
	game := newNestedGame("123", "alice", created)
	require.NoError(t, game.Join("bob", 10*time.Minute, created))
	board := *game.State.Nested
	board.Cells[4][4] = rules.X
	board.Active = 4
	game.State.Nested = &board
	game.Record(rules.X, entity.NestedMove(4, 4), created)

	// When: CreateOrUpdate is called
	err := gameRepo.CreateOrUpdate(ctx, game)

	// Then: the game round-trips with its board and move log
	require.NoError(t, err)

	stored, err := gameRepo.GetByID(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, rules.X, stored.State.Nested.Cells[4][4])
	assert.Equal(t, 4, stored.State.Nested.Active)
	assert.Len(t, stored.Moves, 1)
	assert.Equal(t, "bob", stored.PlayerO.Username)
	assert.Equal(t, rules.O, stored.Turn)
}

func TestGameRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage)

		// Given: a stored waiting game
		game := newNestedGame("123", "alice", created)
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))

		// When: GetByID is called with existing ID
		retrievedGame, err := gameRepo.GetByID(ctx, game.ID)

		// Then: the retrieved game should match the saved game
		require.NoError(t, err)
		require.Equal(t, game.ID, retrievedGame.ID)
		require.Equal(t, game.Status, retrievedGame.Status)
		require.Equal(t, nested.NoMandate, retrievedGame.State.Nested.Active)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage)

		// When: GetByID is called with non-existent ID
		retrievedGame, err := gameRepo.GetByID(ctx, "9999999")

		// Then: an ErrGameNotFound error should be returned
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
		assert.Empty(t, retrievedGame.ID)
	})
}

func TestGameRepository_DeleteByID(t *testing.T) {
	t.Run("DeleteByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage)

		// Given: a stored game
		game := newNestedGame("123", "alice", created)
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))

		// When: DeleteByID is called with existing ID
		err := gameRepo.DeleteByID(ctx, game.ID)

		// Then: the game and its index entry are gone
		require.NoError(t, err)

		_, err = gameRepo.GetByID(ctx, game.ID)
		require.ErrorIs(t, err, apperror.ErrGameNotFound)

		games, err := gameRepo.ListByPlayer(ctx, "alice")
		require.NoError(t, err)
		assert.Empty(t, games)
	})

	t.Run("DeleteByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage)

		// When: DeleteByID is called with non-existent ID
		err := gameRepo.DeleteByID(ctx, "9999999")

		// Then: an ErrGameNotFound error should be returned
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})
}

func TestGameRepository_ListByPlayer(t *testing.T) {
	ctx, st := suite.New(t)

	gameRepo := NewGameRepository(st.Storage)

	// Given: alice created two games, bob joined the older one
	older := newNestedGame("older", "alice", created)
	require.NoError(t, gameRepo.CreateOrUpdate(ctx, older))
	require.NoError(t, older.Join("bob", time.Minute, created))
	require.NoError(t, gameRepo.CreateOrUpdate(ctx, older))

	newer := newNestedGame("newer", "alice", created.Add(time.Hour))
	require.NoError(t, gameRepo.CreateOrUpdate(ctx, newer))

	// When: listing per player
	aliceGames, err := gameRepo.ListByPlayer(ctx, "alice")
	require.NoError(t, err)
	bobGames, err := gameRepo.ListByPlayer(ctx, "bob")
	require.NoError(t, err)

	// Then: games come newest first and only for participants
	require.Len(t, aliceGames, 2)
	assert.Equal(t, "newer", aliceGames[0].ID)
	assert.Equal(t, "older", aliceGames[1].ID)
	require.Len(t, bobGames, 1)
	assert.Equal(t, "older", bobGames[0].ID)

	// And: index entries whose game vanished are skipped
	require.NoError(t, st.Storage.Del(ctx, gameKey("newer")).Err())
	aliceGames, err = gameRepo.ListByPlayer(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, aliceGames, 1)
}
