package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/boardgames-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgames-backend/internal/entity"
)

type userUseCase interface {
	Register(ctx context.Context, username string) (*entity.User, error)
	Get(ctx context.Context, username string) (*entity.User, error)
}

type authService interface {
	GenerateToken(username string) (string, error)
}

type sessionRequest struct {
	Username string `json:"username"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}

type sessionHandler struct {
	logger *slog.Logger

	users userUseCase
	auth  authService
}

func newSessionHandler(logger *slog.Logger, users userUseCase, auth authService) *sessionHandler {
	return &sessionHandler{
		logger: logger.With("handler", "session"),
		users:  users,
		auth:   auth,
	}
}

// Issue registers the user if needed and returns a session token for the WebSocket handshake.
func (that *sessionHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(that.logger, w, fmt.Errorf("%w: malformed body", apperror.ErrInvalidState))
		return
	}

	user, err := that.users.Register(r.Context(), req.Username)
	if err != nil {
		writeError(that.logger, w, err)
		return
	}

	token, err := that.auth.GenerateToken(user.Username)
	if err != nil {
		writeError(that.logger, w, err)
		return
	}

	writeJSON(that.logger, w, http.StatusCreated, sessionResponse{Token: token, User: user})
}
