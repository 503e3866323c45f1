package apperror

import (
	"errors"
	"fmt"
)

// Base kinds. Every error surfaced to a transport wraps exactly one of these.
var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidState   = errors.New("invalid state")
	ErrNotParticipant = errors.New("not a participant")
	ErrOutOfTurn      = errors.New("it's not your turn")
	ErrIllegalMove    = errors.New("illegal move")
	ErrAlreadyQueued  = errors.New("already queued")
	ErrSelfTarget     = errors.New("cannot target yourself")
	ErrExpired        = errors.New("expired")
	ErrTargetOffline  = errors.New("target is offline")
)

var (
	ErrGameNotFound      = fmt.Errorf("game %w", ErrNotFound)
	ErrUserNotFound      = fmt.Errorf("user %w", ErrNotFound)
	ErrChallengeNotFound = fmt.Errorf("challenge %w", ErrNotFound)
	ErrNotQueued         = fmt.Errorf("queue entry %w", ErrNotFound)

	ErrGameFinished     = fmt.Errorf("%w: game is already finished", ErrInvalidState)
	ErrGameIsNotStarted = fmt.Errorf("%w: game is not started", ErrInvalidState)
	ErrGameFull         = fmt.Errorf("%w: game already has two players", ErrInvalidState)
	ErrUnknownGameType  = fmt.Errorf("%w: unknown game type", ErrInvalidState)
	ErrUnknownTimeCtl   = fmt.Errorf("%w: unknown time control", ErrInvalidState)
	ErrInvalidUsername  = fmt.Errorf("%w: invalid username", ErrInvalidState)

	ErrCellOccupied    = fmt.Errorf("%w: cell is already occupied", ErrIllegalMove)
	ErrInvalidCell     = fmt.Errorf("%w: invalid cell index", ErrIllegalMove)
	ErrWrongSubBoard   = fmt.Errorf("%w: sub-board is not the mandated one", ErrIllegalMove)
	ErrSubBoardDecided = fmt.Errorf("%w: sub-board is already decided", ErrIllegalMove)
	ErrIncompleteMove  = fmt.Errorf("%w: move is missing a field", ErrIllegalMove)
)

// Kind tags used on the wire.
const (
	KindNotFound       = "not-found"
	KindInvalidState   = "invalid-state"
	KindNotParticipant = "not-a-participant"
	KindOutOfTurn      = "out-of-turn"
	KindIllegalMove    = "illegal-move"
	KindAlreadyQueued  = "already-queued"
	KindSelfTarget     = "self-target"
	KindExpired        = "expired"
	KindOffline        = "offline"
	KindInternal       = "internal"
)

var kinds = []struct {
	err  error
	kind string
}{
	{ErrNotFound, KindNotFound},
	{ErrInvalidState, KindInvalidState},
	{ErrNotParticipant, KindNotParticipant},
	{ErrOutOfTurn, KindOutOfTurn},
	{ErrIllegalMove, KindIllegalMove},
	{ErrAlreadyQueued, KindAlreadyQueued},
	{ErrSelfTarget, KindSelfTarget},
	{ErrExpired, KindExpired},
	{ErrTargetOffline, KindOffline},
}

// Kind maps an error onto its taxonomy tag. Errors outside the taxonomy are internal.
func Kind(err error) string {
	if err == nil {
		return ""
	}

	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}

	return KindInternal
}
