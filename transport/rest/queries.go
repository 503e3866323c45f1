package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/boardgames-backend/internal/clock"
	"github.com/rocketscienceinc/boardgames-backend/internal/entity"
)

type gameManager interface {
	GetGame(ctx context.Context, gameID string) (*entity.Game, error)
	GetActiveGames(ctx context.Context, username string) ([]*entity.Game, error)
	GetRecentGames(ctx context.Context, username string) ([]*entity.Game, error)
}

type timeControl struct {
	Name      string  `json:"name"`
	Initial   float64 `json:"initial_seconds"`
	Increment float64 `json:"increment_seconds"`
	Async     bool    `json:"async"`
}

type queryHandler struct {
	logger *slog.Logger

	games gameManager
	users userUseCase
}

func newQueryHandler(logger *slog.Logger, games gameManager, users userUseCase) *queryHandler {
	return &queryHandler{
		logger: logger.With("handler", "queries"),
		games:  games,
		users:  users,
	}
}

func (that *queryHandler) Game(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.GetGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(that.logger, w, err)
		return
	}

	writeJSON(that.logger, w, http.StatusOK, game)
}

func (that *queryHandler) Player(w http.ResponseWriter, r *http.Request) {
	user, err := that.users.Get(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		writeError(that.logger, w, err)
		return
	}

	writeJSON(that.logger, w, http.StatusOK, user)
}

func (that *queryHandler) ActiveGames(w http.ResponseWriter, r *http.Request) {
	that.list(w, r, that.games.GetActiveGames)
}

func (that *queryHandler) RecentGames(w http.ResponseWriter, r *http.Request) {
	that.list(w, r, that.games.GetRecentGames)
}

func (that *queryHandler) list(w http.ResponseWriter, r *http.Request, lister func(context.Context, string) ([]*entity.Game, error)) {
	games, err := lister(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		writeError(that.logger, w, err)
		return
	}

	writeJSON(that.logger, w, http.StatusOK, games)
}

func (that *queryHandler) TimeControls(w http.ResponseWriter, _ *http.Request) {
	presets := clock.Presets()

	list := make([]timeControl, 0, len(presets))
	for _, tc := range presets {
		list = append(list, timeControl{
			Name:      tc.Name,
			Initial:   tc.Initial.Seconds(),
			Increment: tc.Increment.Seconds(),
			Async:     tc.Async,
		})
	}

	writeJSON(that.logger, w, http.StatusOK, list)
}
