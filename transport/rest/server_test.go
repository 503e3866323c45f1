package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/boardgames-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgames-backend/internal/challenge"
	"github.com/rocketscienceinc/boardgames-backend/internal/entity"
	"github.com/rocketscienceinc/boardgames-backend/internal/gamestate"
	"github.com/rocketscienceinc/boardgames-backend/internal/matchmaking"
	"github.com/rocketscienceinc/boardgames-backend/internal/repository/memory"
	"github.com/rocketscienceinc/boardgames-backend/internal/service"
	"github.com/rocketscienceinc/boardgames-backend/internal/usecase"
)

var start = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	server  *Server
	manager *usecase.GameManager
	users   usecase.UserUseCase
	auth    service.AuthService
}

func newFixture(t *testing.T, checks ...HealthCheck) *fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := func() time.Time { return start }

	userStore := memory.NewUserStore(now)
	manager := usecase.NewGameManager(
		logger,
		memory.NewGameStore(),
		userStore,
		memory.NewPresenceStore(now),
		gamestate.NewRegistry(gamestate.Options{}),
		matchmaking.NewQueue(logger, matchmaking.Options{LiveTimeout: time.Hour, AsyncTimeout: time.Hour}, now),
		challenge.NewRegistry(logger, challenge.Options{LiveTTL: time.Hour, AsyncTTL: time.Hour}, now),
		usecase.Options{RecentGamesLimit: 10, Now: now},
	)
	users := usecase.NewUserUseCase(userStore)
	auth := service.NewAuthService("secret", time.Hour, now)

	return &fixture{
		server:  New(logger, manager, users, auth, checks...),
		manager: manager,
		users:   users,
		auth:    auth,
	}
}

func (that *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	that.server.Handler().ServeHTTP(rec, req)

	return rec
}

func TestPing(t *testing.T) {
	t.Run("Pong when storage is healthy", func(t *testing.T) {
		f := newFixture(t, func(context.Context) error { return nil })

		rec := f.do(t, http.MethodGet, "/ping", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "pong", rec.Body.String())
	})

	t.Run("Unavailable when a check fails", func(t *testing.T) {
		f := newFixture(t, func(context.Context) error { return errors.New("redis down") })

		rec := f.do(t, http.MethodGet, "/ping", "")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestSession(t *testing.T) {
	t.Run("Registers the user and issues a token", func(t *testing.T) {
		// Given: a fresh server
		f := newFixture(t)

		// When: requesting a session
		rec := f.do(t, http.MethodPost, "/session", `{"username":"alice"}`)

		// Then: the token parses back to the username
		require.Equal(t, http.StatusCreated, rec.Code)

		var body sessionResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "alice", body.User.Username)

		username, err := f.auth.ParseToken(body.Token)
		require.NoError(t, err)
		assert.Equal(t, "alice", username)
	})

	t.Run("Rejects invalid usernames", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(t, http.MethodPost, "/session", `{"username":"a b"}`)

		assert.Equal(t, http.StatusConflict, rec.Code)

		var body errorBody
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, apperror.KindInvalidState, body.Kind)
	})

	t.Run("Rejects malformed bodies", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(t, http.MethodPost, "/session", `{`)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestQueries(t *testing.T) {
	ctx := context.Background()

	t.Run("Game by id", func(t *testing.T) {
		// Given: a stored game
		f := newFixture(t)
		_, err := f.users.Register(ctx, "alice")
		require.NoError(t, err)
		game, err := f.manager.CreateGame(ctx, "alice", entity.GameNested, false, "rapid-10")
		require.NoError(t, err)

		// When: fetching it
		rec := f.do(t, http.MethodGet, "/games/"+game.ID, "")

		// Then: the game is returned
		require.Equal(t, http.StatusOK, rec.Code)

		var body entity.Game
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, game.ID, body.ID)
		assert.Equal(t, entity.GameNested, body.Type)
	})

	t.Run("Missing game is 404 with a kind", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(t, http.MethodGet, "/games/nope", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)

		var body errorBody
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, apperror.KindNotFound, body.Kind)
	})

	t.Run("Player stats and game lists", func(t *testing.T) {
		f := newFixture(t)
		for _, username := range []string{"alice", "bob"} {
			_, err := f.users.Register(ctx, username)
			require.NoError(t, err)
		}

		game, err := f.manager.CreateGame(ctx, "alice", entity.GameClassic, false, "rapid-10")
		require.NoError(t, err)
		_, err = f.manager.JoinGame(ctx, game.ID, "bob")
		require.NoError(t, err)
		_, err = f.manager.ForfeitGame(ctx, game.ID, "bob")
		require.NoError(t, err)

		rec := f.do(t, http.MethodGet, "/players/alice", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var user entity.User
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&user))
		assert.Equal(t, 1, user.Wins)

		rec = f.do(t, http.MethodGet, "/players/alice/games/recent", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var recent []entity.Game
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&recent))
		require.Len(t, recent, 1)
		assert.Equal(t, game.ID, recent[0].ID)

		rec = f.do(t, http.MethodGet, "/players/alice/games/active", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var active []entity.Game
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&active))
		assert.Empty(t, active)
	})

	t.Run("Time controls are listed shortest first", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(t, http.MethodGet, "/time-controls", "")

		require.Equal(t, http.StatusOK, rec.Code)

		var list []timeControl
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
		require.Len(t, list, 5)
		assert.Equal(t, "bullet-1", list[0].Name)
		assert.Equal(t, "daily", list[4].Name)
		assert.True(t, list[4].Async)
		assert.InDelta(t, 2.0, list[1].Increment, 1e-9)
	})
}
