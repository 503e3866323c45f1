package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/boardgames-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgames-backend/internal/entity"
	"github.com/rocketscienceinc/boardgames-backend/internal/matchmaking"
	"github.com/rocketscienceinc/boardgames-backend/internal/usecase"
)

const shutdownTimeout = 5 * time.Second

type gameManager interface {
	CreateGame(ctx context.Context, creator string, gameType entity.GameType, private bool, timeControl string) (*entity.Game, error)
	JoinGame(ctx context.Context, gameID, username string) (*entity.Game, error)
	MakeMove(ctx context.Context, gameID, username string, payload entity.MovePayload) (*entity.Game, entity.MoveOutcome, error)
	CheckTimeout(ctx context.Context, gameID string) (*entity.Game, error)
	ForfeitGame(ctx context.Context, gameID, username string) (*entity.Game, error)
	LeaveGame(ctx context.Context, gameID, username string) error

	FindMatch(ctx context.Context, username string, gameType entity.GameType, timeControl string) (usecase.MatchOutcome, error)
	CancelMatchmaking(username string) error
	Queued(username string) bool

	ChallengePlayer(ctx context.Context, challenger, target string, gameType entity.GameType, timeControl string) (entity.Challenge, error)
	AcceptChallenge(ctx context.Context, challengeID, username string) (*entity.Game, error)
	DeclineChallenge(challengeID, username string) (entity.Challenge, error)
	CancelChallenge(challengeID, username string) (entity.Challenge, error)
	PendingChallenges(username string) []entity.Challenge
	ChallengeExpirations() <-chan entity.Challenge

	SetConnected(ctx context.Context, username string, connected bool) ([]*entity.Game, error)
}

type tokenParser interface {
	ParseToken(token string) (string, error)
}

type presenceRepo interface {
	MarkOnline(ctx context.Context, username string, ttl time.Duration) error
	MarkOffline(ctx context.Context, username string) error
}

type handlerFunc func(ctx context.Context, sender *client, message *Message) error

type Server struct {
	logger *slog.Logger

	manager     gameManager
	auth        tokenParser
	presence    presenceRepo
	presenceTTL time.Duration

	upgrader    websocket.Upgrader
	connections *connections
	handlers    map[string]handlerFunc

	// lifetime bounds background watchers; Start cancels it on shutdown.
	lifetime context.Context
	stop     context.CancelFunc
}

func New(logger *slog.Logger, manager gameManager, auth tokenParser, presence presenceRepo, presenceTTL time.Duration) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),

		manager:     manager,
		auth:        auth,
		presence:    presence,
		presenceTTL: presenceTTL,

		upgrader: websocket.Upgrader{
			ReadBufferSize:   1024,
			WriteBufferSize:  1024,
			HandshakeTimeout: 5 * time.Second,
			CheckOrigin:      func(*http.Request) bool { return true },
		},
		connections: newConnections(),
	}

	server.lifetime, server.stop = context.WithCancel(context.Background())

	server.handlers = map[string]handlerFunc{
		actionGameCreate:       server.handleCreateGame,
		actionGameJoin:         server.handleJoinGame,
		actionGameMove:         server.handleMove,
		actionGameForfeit:      server.handleForfeit,
		actionGameLeave:        server.handleLeave,
		actionGameTimeout:      server.handleTimeout,
		actionMatchFind:        server.handleFindMatch,
		actionMatchCancel:      server.handleCancelMatch,
		actionChallengeSend:    server.handleSendChallenge,
		actionChallengeAccept:  server.handleAcceptChallenge,
		actionChallengeDecline: server.handleDeclineChallenge,
		actionChallengeCancel:  server.handleCancelChallenge,
	}

	return server
}

func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.serveWS)

	return mux
}

// Start serves WebSocket connections and forwards challenge expirations until ctx is cancelled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go that.forwardExpirations(ctx)

	go func() {
		<-ctx.Done()
		that.stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down WebSocket server", "error", err)
		}
	}()

	that.logger.Info("Starting WebSocket server", "port", port)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveWS authenticates the session token, upgrades and runs the connection until it closes.
func (that *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveWS")

	username, err := that.auth.ParseToken(sessionToken(r))
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	ctx := r.Context()
	c := newClient(that.logger, username, conn)

	if previous := that.connections.add(c); previous != nil {
		previous.close()
	}

	go c.writePump()

	that.connected(ctx, c)
	log.Info("WebSocket connection established", "username", username)

	err = c.readPump(ctx, func(ctx context.Context, message *Message) {
		that.dispatch(ctx, c, message)
	}, func() {
		that.markOnline(ctx, username)
	})
	if err != nil {
		log.Error("error handling messages", "username", username, "error", err)
	}

	if that.connections.remove(c) {
		that.disconnected(context.WithoutCancel(ctx), username)
	}
}

func sessionToken(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}

	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}

	return ""
}

func (that *Server) dispatch(ctx context.Context, sender *client, message *Message) {
	handler, ok := that.handlers[message.Action]
	if !ok {
		sender.push(pushError, errorPayload{
			Action:  message.Action,
			Kind:    apperror.KindInvalidState,
			Message: "unknown action",
		})

		return
	}

	that.markOnline(ctx, sender.username)

	if err := handler(ctx, sender, message); err != nil {
		that.sendError(sender, message.Action, err)
	}
}

func (that *Server) sendError(sender *client, action string, err error) {
	kind := apperror.Kind(err)
	message := err.Error()

	if kind == apperror.KindInternal {
		that.logger.Error("error processing message", "action", action, "username", sender.username, "error", err)
		message = "internal error"
	}

	sender.push(pushError, errorPayload{Action: action, Kind: kind, Message: message})
}

// connected marks presence, reclaims seats and replays pending challenges.
func (that *Server) connected(ctx context.Context, c *client) {
	that.markOnline(ctx, c.username)

	games, err := that.manager.SetConnected(ctx, c.username, true)
	if err != nil {
		that.logger.Error("failed to mark seats connected", "username", c.username, "error", err)
	}

	for _, game := range games {
		that.broadcast(game, gameUpdate{Game: game})
	}

	for _, pending := range that.manager.PendingChallenges(c.username) {
		if pending.Target == c.username {
			c.push(pushChallengeIncoming, challengeResponse{Challenge: pending})
		}
	}
}

// disconnected leaves the queue, clears presence and tells opponents the seat is empty.
func (that *Server) disconnected(ctx context.Context, username string) {
	log := that.logger.With("method", "disconnected", "username", username)

	if that.manager.Queued(username) {
		if err := that.manager.CancelMatchmaking(username); err != nil && !errors.Is(err, apperror.ErrNotQueued) {
			log.Error("failed to leave matchmaking", "error", err)
		}
	}

	if err := that.presence.MarkOffline(ctx, username); err != nil {
		log.Error("failed to clear presence", "error", err)
	}

	games, err := that.manager.SetConnected(ctx, username, false)
	if err != nil {
		log.Error("failed to mark seats disconnected", "error", err)
		return
	}

	for _, game := range games {
		that.broadcast(game, gameUpdate{Game: game})
	}
}

func (that *Server) markOnline(ctx context.Context, username string) {
	if err := that.presence.MarkOnline(ctx, username, that.presenceTTL); err != nil {
		that.logger.Error("failed to refresh presence", "username", username, "error", err)
	}
}

// broadcast pushes a game update to every seated player that is connected.
func (that *Server) broadcast(game *entity.Game, update gameUpdate) {
	for _, username := range game.Usernames() {
		that.connections.push(username, pushGameUpdate, update)
	}
}

// watchTicket delivers the queue result to a waiting player. Every ticket resolves exactly once.
func (that *Server) watchTicket(ctx context.Context, ticket *matchmaking.Ticket) {
	game, err := ticket.Wait(ctx)

	switch {
	case err == nil:
		that.connections.push(ticket.Username, pushMatchFound, matchResponse{Game: game})
	case errors.Is(err, matchmaking.ErrQueueExpired):
		that.connections.push(ticket.Username, pushMatchExpired, matchResponse{})
	case errors.Is(err, matchmaking.ErrCancelled), ctx.Err() != nil:
	default:
		if c, ok := that.connections.get(ticket.Username); ok {
			that.sendError(c, actionMatchFind, err)
		}
	}
}

func (that *Server) forwardExpirations(ctx context.Context) {
	expirations := that.manager.ChallengeExpirations()

	for {
		select {
		case <-ctx.Done():
			return
		case expired := <-expirations:
			payload := challengeResponse{Challenge: expired}
			that.connections.push(expired.Challenger, pushChallengeExpired, payload)
			that.connections.push(expired.Target, pushChallengeExpired, payload)
		}
	}
}
