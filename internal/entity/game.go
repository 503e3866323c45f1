package entity

import (
	"fmt"
	"time"

	"github.com/rocketscienceinc/boardgames-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgames-backend/internal/rules"
	"github.com/rocketscienceinc/boardgames-backend/internal/rules/classic"
	"github.com/rocketscienceinc/boardgames-backend/internal/rules/nested"
	"github.com/rocketscienceinc/boardgames-backend/internal/rules/timelines"
)

const (
	StatusWaiting  = "waiting"
	StatusPlaying  = "playing"
	StatusFinished = "finished"
)

// End reasons that do not come from the board itself.
const (
	EndReasonTimeout = "timeout"
	EndReasonForfeit = "forfeit"
)

type GameType string

const (
	GameClassic   GameType = "classic"
	GameNested    GameType = "nested"
	GameTimelines GameType = "timelines"
)

func (t GameType) Valid() bool {
	switch t {
	case GameClassic, GameNested, GameTimelines:
		return true
	default:
		return false
	}
}

// BoardState carries exactly one board, matching the game type.
type BoardState struct {
	Classic   *classic.Board   `json:"classic,omitempty"`
	Nested    *nested.Board    `json:"nested,omitempty"`
	Timelines *timelines.Board `json:"timelines,omitempty"`
}

// MovePayload is the union of every game type's move shape. Index fields are pointers so a
// missing key is told apart from index 0.
type MovePayload struct {
	Board     *int   `json:"board,omitempty"`
	Cell      *int   `json:"cell,omitempty"`
	Timeline  *int   `json:"timeline,omitempty"`
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
	Promotion string `json:"promotion,omitempty"`
}

func PlaceMove(cell int) MovePayload {
	return MovePayload{Cell: &cell}
}

func NestedMove(board, cell int) MovePayload {
	return MovePayload{Board: &board, Cell: &cell}
}

func TimelineMove(timeline int, from, to string) MovePayload {
	return MovePayload{Timeline: &timeline, From: from, To: to}
}

// Move is an accepted move. Moves are only ever appended.
type Move struct {
	Symbol  rules.Mark  `json:"symbol"`
	Payload MovePayload `json:"payload"`
	At      time.Time   `json:"at"`
}

// MoveOutcome tells clients what a move did without diffing boards.
type MoveOutcome struct {
	SubBoard       *int             `json:"sub_board,omitempty"`
	SubBoardWinner rules.Mark       `json:"sub_board_winner,omitempty"`
	Points         int              `json:"points,omitempty"`
	Captured       *timelines.Piece `json:"captured,omitempty"`
	Ghost          *timelines.Ghost `json:"ghost,omitempty"`
	GameOver       bool             `json:"game_over"`
}

type Game struct {
	ID          string      `json:"id"`
	Type        GameType    `json:"type"`
	Private     bool        `json:"private"`
	TimeControl string      `json:"time_control"`
	Status      string      `json:"status"`
	PlayerX     *PlayerSlot `json:"player_x,omitempty"`
	PlayerO     *PlayerSlot `json:"player_o,omitempty"`
	Turn        rules.Mark  `json:"turn,omitempty"`
	State       BoardState  `json:"state"`
	Moves       []Move      `json:"moves"`
	// Winner is X, O or rules.Draw once the game is finished.
	Winner     rules.Mark `json:"winner,omitempty"`
	EndReason  string     `json:"end_reason,omitempty"`
	Seed       int64      `json:"seed"`
	CreatedAt  time.Time  `json:"created_at"`
	StartedAt  time.Time  `json:"started_at,omitempty"`
	LastMoveAt time.Time  `json:"last_move_at,omitempty"`
	EndedAt    time.Time  `json:"ended_at,omitempty"`
}

// NewGame seats the creator as X and leaves the game waiting for an opponent.
func NewGame(id string, gameType GameType, state BoardState, creator string, private bool,
	timeControl string, budget time.Duration, seed int64, now time.Time,
) *Game {
	return &Game{
		ID:          id,
		Type:        gameType,
		Private:     private,
		TimeControl: timeControl,
		Status:      StatusWaiting,
		PlayerX:     NewPlayerSlot(creator, budget),
		Turn:        rules.X,
		State:       state,
		Moves:       []Move{},
		Seed:        seed,
		CreatedAt:   now,
	}
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Game) IsPlaying() bool {
	return that.Status == StatusPlaying
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) ConfirmPlaying() error {
	switch that.Status {
	case StatusPlaying:
		return nil
	case StatusWaiting:
		return apperror.ErrGameIsNotStarted
	case StatusFinished:
		return apperror.ErrGameFinished
	default:
		return fmt.Errorf("%w: unknown game status %q", apperror.ErrInvalidState, that.Status)
	}
}

// Slot returns the seat for mark, or nil.
func (that *Game) Slot(mark rules.Mark) *PlayerSlot {
	switch mark {
	case rules.X:
		return that.PlayerX
	case rules.O:
		return that.PlayerO
	default:
		return nil
	}
}

// SymbolOf returns the mark username plays, or rules.Empty for outsiders.
func (that *Game) SymbolOf(username string) rules.Mark {
	switch {
	case that.PlayerX != nil && that.PlayerX.Username == username:
		return rules.X
	case that.PlayerO != nil && that.PlayerO.Username == username:
		return rules.O
	default:
		return rules.Empty
	}
}

func (that *Game) Usernames() []string {
	var names []string
	for _, slot := range []*PlayerSlot{that.PlayerX, that.PlayerO} {
		if slot != nil {
			names = append(names, slot.Username)
		}
	}

	return names
}

// Join seats username as O and starts the clocks.
func (that *Game) Join(username string, budget time.Duration, now time.Time) error {
	switch {
	case that.IsFinished():
		return apperror.ErrGameFinished
	case !that.IsWaiting() || that.PlayerO != nil:
		return apperror.ErrGameFull
	case that.SymbolOf(username) != rules.Empty:
		return fmt.Errorf("%w: cannot join your own game", apperror.ErrInvalidState)
	}

	that.PlayerO = NewPlayerSlot(username, budget)
	that.Status = StatusPlaying
	that.Turn = rules.X
	that.StartedAt = now
	that.LastMoveAt = now

	return nil
}

// Record appends an accepted move and passes the turn.
func (that *Game) Record(symbol rules.Mark, payload MovePayload, now time.Time) {
	that.Moves = append(that.Moves, Move{Symbol: symbol, Payload: payload, At: now})
	that.Turn = symbol.Opponent()
}

func (that *Game) Finish(winner rules.Mark, reason string, now time.Time) {
	that.Status = StatusFinished
	that.Winner = winner
	that.EndReason = reason
	that.Turn = rules.Empty
	that.EndedAt = now
}
