package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/boardgames-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgames-backend/internal/challenge"
	"github.com/rocketscienceinc/boardgames-backend/internal/clock"
	"github.com/rocketscienceinc/boardgames-backend/internal/entity"
	"github.com/rocketscienceinc/boardgames-backend/internal/gamestate"
	"github.com/rocketscienceinc/boardgames-backend/internal/matchmaking"
	"github.com/rocketscienceinc/boardgames-backend/internal/rules"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
	ListByPlayer(ctx context.Context, username string) ([]*entity.Game, error)
}

type userRepo interface {
	Create(ctx context.Context, username string) (*entity.User, error)
	Get(ctx context.Context, username string) (*entity.User, error)
	UpdateStats(ctx context.Context, username, outcome string) error
}

type presenceRepo interface {
	IsOnline(ctx context.Context, username string) (bool, error)
}

// MatchOutcome holds either the started game or the ticket of a queued player.
type MatchOutcome struct {
	Game   *entity.Game
	Ticket *matchmaking.Ticket
}

type Options struct {
	RecentGamesLimit int
	Now              func() time.Time
}

// GameManager is the only entry point transports use to change games.
type GameManager struct {
	logger *slog.Logger

	games    gameRepo
	users    userRepo
	presence presenceRepo

	engines    *gamestate.Registry
	queue      *matchmaking.Queue
	challenges *challenge.Registry

	locks       *keyedMutex
	now         func() time.Time
	recentLimit int
}

func NewGameManager(
	logger *slog.Logger,
	games gameRepo,
	users userRepo,
	presence presenceRepo,
	engines *gamestate.Registry,
	queue *matchmaking.Queue,
	challenges *challenge.Registry,
	opts Options,
) *GameManager {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &GameManager{
		logger: logger.With("component", "game_manager"),

		games:    games,
		users:    users,
		presence: presence,

		engines:    engines,
		queue:      queue,
		challenges: challenges,

		locks:       newKeyedMutex(),
		now:         now,
		recentLimit: opts.RecentGamesLimit,
	}
}

func (that *GameManager) CreateGame(ctx context.Context, creator string, gameType entity.GameType, private bool, timeControl string) (*entity.Game, error) {
	tc, engine, err := that.resolve(gameType, timeControl)
	if err != nil {
		return nil, err
	}

	if _, err = that.users.Get(ctx, creator); err != nil {
		return nil, fmt.Errorf("failed to get creator: %w", err)
	}

	game := that.newGame(creator, gameType, engine, private, tc)
	if err = that.games.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	return game, nil
}

func (that *GameManager) JoinGame(ctx context.Context, gameID, username string) (*entity.Game, error) {
	if _, err := that.users.Get(ctx, username); err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	unlock := that.locks.Lock(gameID)
	defer unlock()

	game, err := that.getGameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}

	tc, err := clock.Lookup(game.TimeControl)
	if err != nil {
		return nil, err
	}

	if err = game.Join(username, tc.Initial, that.now()); err != nil {
		return nil, fmt.Errorf("failed to join game: %w", err)
	}

	if err = that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	return game, nil
}

// MakeMove validates and applies a move. A move that arrives after the mover's clock ran out
// is not applied: the game is returned finished by timeout and no error is reported.
func (that *GameManager) MakeMove(ctx context.Context, gameID, username string, payload entity.MovePayload) (*entity.Game, entity.MoveOutcome, error) {
	log := that.logger.With("method", "MakeMove", "game_id", gameID)

	unlock := that.locks.Lock(gameID)
	defer unlock()

	game, err := that.getGameByID(ctx, gameID)
	if err != nil {
		return nil, entity.MoveOutcome{}, err
	}

	symbol, err := that.confirmTurn(game, username)
	if err != nil {
		return nil, entity.MoveOutcome{}, err
	}

	tc, engine, err := that.resolve(game.Type, game.TimeControl)
	if err != nil {
		return nil, entity.MoveOutcome{}, err
	}

	now := that.now()

	if clock.Charge(game, tc, now) {
		log.Info("move arrived after flag fall", "username", username)

		if err = that.updateGame(ctx, game); err != nil {
			return nil, entity.MoveOutcome{}, err
		}

		that.settle(ctx, game)

		return game, entity.MoveOutcome{GameOver: true}, nil
	}

	step, err := engine.Apply(game.State, symbol, payload, game.Seed)
	if err != nil {
		return nil, entity.MoveOutcome{}, fmt.Errorf("failed to apply move: %w", err)
	}

	game.State = step.State
	game.Record(symbol, payload, now)

	if step.Outcome.Decided() {
		game.Finish(step.Outcome.Winner, step.Outcome.Reason, now)
	} else {
		clock.Credit(game, tc, game.Slot(symbol), now)
	}

	if err = that.updateGame(ctx, game); err != nil {
		return nil, entity.MoveOutcome{}, err
	}

	if game.IsFinished() {
		log.Info("game finished", "winner", game.Winner, "reason", game.EndReason)
		that.settle(ctx, game)
	}

	return game, step.Move, nil
}

// CheckTimeout finishes the game if the player to move has run out of time.
func (that *GameManager) CheckTimeout(ctx context.Context, gameID string) (*entity.Game, error) {
	unlock := that.locks.Lock(gameID)
	defer unlock()

	game, err := that.getGameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if err = game.ConfirmPlaying(); err != nil {
		return nil, err
	}

	tc, err := clock.Lookup(game.TimeControl)
	if err != nil {
		return nil, err
	}

	now := that.now()
	if !clock.Flagged(game, tc, now) {
		return game, nil
	}

	clock.Charge(game, tc, now)

	if err = that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	that.settle(ctx, game)

	return game, nil
}

// ForfeitGame ends a running game in the opponent's favour without consulting the rules.
func (that *GameManager) ForfeitGame(ctx context.Context, gameID, username string) (*entity.Game, error) {
	unlock := that.locks.Lock(gameID)
	defer unlock()

	game, err := that.getGameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}

	symbol := game.SymbolOf(username)
	if symbol == rules.Empty {
		return nil, fmt.Errorf("%w: %s", apperror.ErrNotParticipant, username)
	}

	if err = game.ConfirmPlaying(); err != nil {
		return nil, err
	}

	game.Finish(symbol.Opponent(), entity.EndReasonForfeit, that.now())

	if err = that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	that.settle(ctx, game)

	return game, nil
}

// LeaveGame lets the creator abandon a game nobody joined yet. The game is deleted.
func (that *GameManager) LeaveGame(ctx context.Context, gameID, username string) error {
	unlock := that.locks.Lock(gameID)
	defer unlock()

	game, err := that.getGameByID(ctx, gameID)
	if err != nil {
		return err
	}

	if game.SymbolOf(username) != rules.X {
		return fmt.Errorf("%w: %s", apperror.ErrNotParticipant, username)
	}

	if !game.IsWaiting() {
		return fmt.Errorf("%w: only a waiting game can be left", apperror.ErrInvalidState)
	}

	if err = that.games.DeleteByID(ctx, gameID); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	return nil
}

// FindMatch pairs username with the first compatible waiting player or queues it.
func (that *GameManager) FindMatch(ctx context.Context, username string, gameType entity.GameType, timeControl string) (MatchOutcome, error) {
	tc, engine, err := that.resolve(gameType, timeControl)
	if err != nil {
		return MatchOutcome{}, err
	}

	if _, err = that.users.Get(ctx, username); err != nil {
		return MatchOutcome{}, fmt.Errorf("failed to get player: %w", err)
	}

	waiting, ticket, err := that.queue.Find(username, gameType, tc)
	if err != nil {
		return MatchOutcome{}, fmt.Errorf("failed to find match: %w", err)
	}

	if waiting == nil {
		that.logger.Debug("player queued", "username", username, "time_control", tc.Name, "waiting", that.queue.Len())

		return MatchOutcome{Ticket: ticket}, nil
	}

	game, err := that.startGame(ctx, waiting.Username, username, gameType, engine, false, tc)
	if err != nil {
		waiting.Ticket.Fail(err)

		return MatchOutcome{}, err
	}

	waiting.Ticket.Resolve(game)

	return MatchOutcome{Game: game}, nil
}

// Queued reports whether username holds a pending matchmaking ticket.
func (that *GameManager) Queued(username string) bool {
	return that.queue.Queued(username)
}

func (that *GameManager) CancelMatchmaking(username string) error {
	if err := that.queue.Cancel(username); err != nil {
		return fmt.Errorf("failed to cancel matchmaking: %w", err)
	}

	return nil
}

// ChallengePlayer invites target. Live time controls require target to be online.
func (that *GameManager) ChallengePlayer(ctx context.Context, challenger, target string, gameType entity.GameType, timeControl string) (entity.Challenge, error) {
	if challenger == target {
		return entity.Challenge{}, fmt.Errorf("%w: %s", apperror.ErrSelfTarget, challenger)
	}

	tc, _, err := that.resolve(gameType, timeControl)
	if err != nil {
		return entity.Challenge{}, err
	}

	if _, err = that.users.Get(ctx, target); err != nil {
		return entity.Challenge{}, fmt.Errorf("failed to get target: %w", err)
	}

	if !tc.Async {
		online, err := that.presence.IsOnline(ctx, target)
		if err != nil {
			return entity.Challenge{}, fmt.Errorf("failed to check presence: %w", err)
		}

		if !online {
			return entity.Challenge{}, fmt.Errorf("%w: %s", apperror.ErrTargetOffline, target)
		}
	}

	created, err := that.challenges.Create(challenger, target, gameType, tc)
	if err != nil {
		return entity.Challenge{}, fmt.Errorf("failed to create challenge: %w", err)
	}

	return created, nil
}

// AcceptChallenge starts a private game with the challenger as X. If the game cannot be saved the challenge stays pending.
func (that *GameManager) AcceptChallenge(ctx context.Context, challengeID, username string) (*entity.Game, error) {
	accepted, err := that.challenges.Accept(challengeID, username)
	if err != nil {
		return nil, fmt.Errorf("failed to accept challenge: %w", err)
	}

	tc, engine, err := that.resolve(accepted.GameType, accepted.TimeControl)
	if err != nil {
		return nil, err
	}

	game, err := that.startGame(ctx, accepted.Challenger, accepted.Target, accepted.GameType, engine, true, tc)
	if err != nil {
		that.challenges.Restore(accepted)

		return nil, err
	}

	return game, nil
}

func (that *GameManager) DeclineChallenge(challengeID, username string) (entity.Challenge, error) {
	declined, err := that.challenges.Decline(challengeID, username)
	if err != nil {
		return entity.Challenge{}, fmt.Errorf("failed to decline challenge: %w", err)
	}

	return declined, nil
}

func (that *GameManager) CancelChallenge(challengeID, username string) (entity.Challenge, error) {
	cancelled, err := that.challenges.Cancel(challengeID, username)
	if err != nil {
		return entity.Challenge{}, fmt.Errorf("failed to cancel challenge: %w", err)
	}

	return cancelled, nil
}

func (that *GameManager) PendingChallenges(username string) []entity.Challenge {
	return that.challenges.Pending(username)
}

// ChallengeExpirations yields challenges that lapsed without an answer.
func (that *GameManager) ChallengeExpirations() <-chan entity.Challenge {
	return that.challenges.Expirations()
}

func (that *GameManager) GetGame(ctx context.Context, gameID string) (*entity.Game, error) {
	return that.getGameByID(ctx, gameID)
}

// GetActiveGames returns username's waiting and running games, newest first.
func (that *GameManager) GetActiveGames(ctx context.Context, username string) ([]*entity.Game, error) {
	games, err := that.games.ListByPlayer(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	active := []*entity.Game{}
	for _, game := range games {
		if !game.IsFinished() {
			active = append(active, game)
		}
	}

	return active, nil
}

// GetRecentGames returns username's finished games, newest first, capped by the configured limit.
func (that *GameManager) GetRecentGames(ctx context.Context, username string) ([]*entity.Game, error) {
	games, err := that.games.ListByPlayer(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	recent := []*entity.Game{}
	for _, game := range games {
		if that.recentLimit > 0 && len(recent) == that.recentLimit {
			break
		}

		if game.IsFinished() {
			recent = append(recent, game)
		}
	}

	return recent, nil
}

// SetConnected flags username's seat in every unfinished game.
func (that *GameManager) SetConnected(ctx context.Context, username string, connected bool) ([]*entity.Game, error) {
	active, err := that.GetActiveGames(ctx, username)
	if err != nil {
		return nil, err
	}

	updated := make([]*entity.Game, 0, len(active))
	for _, stale := range active {
		game, err := that.markSeat(ctx, stale.ID, username, connected)
		if err != nil {
			return nil, err
		}

		updated = append(updated, game)
	}

	return updated, nil
}

func (that *GameManager) markSeat(ctx context.Context, gameID, username string, connected bool) (*entity.Game, error) {
	unlock := that.locks.Lock(gameID)
	defer unlock()

	game, err := that.getGameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if slot := game.Slot(game.SymbolOf(username)); slot != nil && slot.Connected != connected {
		slot.Connected = connected
		if err = that.updateGame(ctx, game); err != nil {
			return nil, err
		}
	}

	return game, nil
}

func (that *GameManager) resolve(gameType entity.GameType, timeControl string) (clock.TimeControl, gamestate.Engine, error) {
	tc, err := clock.Lookup(timeControl)
	if err != nil {
		return clock.TimeControl{}, nil, err
	}

	engine, err := that.engines.For(gameType)
	if err != nil {
		return clock.TimeControl{}, nil, err
	}

	return tc, engine, nil
}

func (that *GameManager) confirmTurn(game *entity.Game, username string) (rules.Mark, error) {
	symbol := game.SymbolOf(username)
	if symbol == rules.Empty {
		return rules.Empty, fmt.Errorf("%w: %s", apperror.ErrNotParticipant, username)
	}

	if err := game.ConfirmPlaying(); err != nil {
		return rules.Empty, err
	}

	if game.Turn != symbol {
		return rules.Empty, apperror.ErrOutOfTurn
	}

	return symbol, nil
}

func (that *GameManager) newGame(creator string, gameType entity.GameType, engine gamestate.Engine, private bool, tc clock.TimeControl) *entity.Game {
	return entity.NewGame(uuid.NewString(), gameType, engine.New(), creator, private, tc.Name, tc.Initial,
		rand.Int64(), that.now()) //nolint: gosec // ghost seed, not a secret
}

// startGame creates a game for x and immediately seats o.
func (that *GameManager) startGame(ctx context.Context, x, o string, gameType entity.GameType, engine gamestate.Engine, private bool, tc clock.TimeControl) (*entity.Game, error) {
	game := that.newGame(x, gameType, engine, private, tc)

	if err := game.Join(o, tc.Initial, that.now()); err != nil {
		return nil, fmt.Errorf("failed to seat %s: %w", o, err)
	}

	if err := that.games.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Info("game started", "game_id", game.ID, "x", x, "o", o, "type", gameType, "time_control", tc.Name)

	return game, nil
}

// settle reports the result of a finished game. Failures are logged, never returned.
func (that *GameManager) settle(ctx context.Context, game *entity.Game) {
	log := that.logger.With("method", "settle", "game_id", game.ID)

	outcomes := map[rules.Mark]string{}
	switch {
	case game.Winner.IsPlayer():
		outcomes[game.Winner] = entity.OutcomeWin
		outcomes[game.Winner.Opponent()] = entity.OutcomeLoss
	case game.Winner == rules.Draw:
		outcomes[rules.X] = entity.OutcomeDraw
		outcomes[rules.O] = entity.OutcomeDraw
	}

	for mark, outcome := range outcomes {
		slot := game.Slot(mark)
		if slot == nil {
			continue
		}

		if err := that.users.UpdateStats(ctx, slot.Username, outcome); err != nil {
			log.Error("failed to update stats", "username", slot.Username, "error", err)
		}
	}
}

func (that *GameManager) getGameByID(ctx context.Context, id string) (*entity.Game, error) {
	existingGame, err := that.games.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}

		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return existingGame, nil
}

func (that *GameManager) updateGame(ctx context.Context, game *entity.Game) error {
	if err := that.games.CreateOrUpdate(ctx, game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}
