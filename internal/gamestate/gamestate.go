// Package gamestate puts the three rule sets behind one interface so the orchestrator
// never switches on game types itself.
package gamestate

import (
	"fmt"

	"github.com/rocketscienceinc/boardgames-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgames-backend/internal/entity"
	"github.com/rocketscienceinc/boardgames-backend/internal/rules"
	"github.com/rocketscienceinc/boardgames-backend/internal/rules/classic"
	"github.com/rocketscienceinc/boardgames-backend/internal/rules/nested"
	"github.com/rocketscienceinc/boardgames-backend/internal/rules/timelines"
)

// Step is the result of applying one move.
type Step struct {
	State   entity.BoardState
	Outcome rules.Outcome
	Move    entity.MoveOutcome
}

// Engine applies moves for one game type. Apply must not modify its input.
type Engine interface {
	New() entity.BoardState
	Apply(state entity.BoardState, symbol rules.Mark, payload entity.MovePayload, seed int64) (Step, error)
}

type Options struct {
	GhostChance float64
}

type Registry struct {
	engines map[entity.GameType]Engine
}

func NewRegistry(opts Options) *Registry {
	return &Registry{
		engines: map[entity.GameType]Engine{
			entity.GameClassic:   classicEngine{},
			entity.GameNested:    nestedEngine{},
			entity.GameTimelines: timelinesEngine{ghostChance: opts.GhostChance},
		},
	}
}

func (that *Registry) For(gameType entity.GameType) (Engine, error) {
	engine, ok := that.engines[gameType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperror.ErrUnknownGameType, gameType)
	}

	return engine, nil
}

var errMissingBoard = fmt.Errorf("%w: board state does not match game type", apperror.ErrInvalidState)

func required(field *int, name string) (int, error) {
	if field == nil {
		return 0, fmt.Errorf("%w: %s", apperror.ErrIncompleteMove, name)
	}

	return *field, nil
}

type classicEngine struct{}

func (classicEngine) New() entity.BoardState {
	return entity.BoardState{Classic: &classic.Board{}}
}

func (classicEngine) Apply(state entity.BoardState, symbol rules.Mark, payload entity.MovePayload, _ int64) (Step, error) {
	if state.Classic == nil {
		return Step{}, errMissingBoard
	}

	cell, err := required(payload.Cell, "cell")
	if err != nil {
		return Step{}, err
	}

	board, outcome, err := classic.Apply(*state.Classic, symbol, cell)
	if err != nil {
		return Step{}, err
	}

	return Step{
		State:   entity.BoardState{Classic: &board},
		Outcome: outcome,
		Move:    entity.MoveOutcome{GameOver: outcome.Decided()},
	}, nil
}

type nestedEngine struct{}

func (nestedEngine) New() entity.BoardState {
	board := nested.New()

	return entity.BoardState{Nested: &board}
}

func (nestedEngine) Apply(state entity.BoardState, symbol rules.Mark, payload entity.MovePayload, _ int64) (Step, error) {
	if state.Nested == nil {
		return Step{}, errMissingBoard
	}

	subBoard, err := required(payload.Board, "board")
	if err != nil {
		return Step{}, err
	}

	cell, err := required(payload.Cell, "cell")
	if err != nil {
		return Step{}, err
	}

	board, result, err := nested.Apply(*state.Nested, symbol, subBoard, cell)
	if err != nil {
		return Step{}, err
	}

	played := result.SubBoard

	return Step{
		State:   entity.BoardState{Nested: &board},
		Outcome: result.Outcome,
		Move: entity.MoveOutcome{
			SubBoard:       &played,
			SubBoardWinner: result.SubBoardWinner,
			Points:         result.Points,
			GameOver:       result.Outcome.Decided(),
		},
	}, nil
}

type timelinesEngine struct {
	ghostChance float64
}

func (timelinesEngine) New() entity.BoardState {
	board := timelines.New()

	return entity.BoardState{Timelines: &board}
}

func (that timelinesEngine) Apply(state entity.BoardState, symbol rules.Mark, payload entity.MovePayload, seed int64) (Step, error) {
	if state.Timelines == nil {
		return Step{}, errMissingBoard
	}

	timeline, err := required(payload.Timeline, "timeline")
	if err != nil {
		return Step{}, err
	}

	move := timelines.Move{
		Timeline:  timeline,
		From:      payload.From,
		To:        payload.To,
		Promotion: timelines.Kind(payload.Promotion),
	}

	board, result, err := timelines.Apply(*state.Timelines, symbol, move, timelines.Options{
		Seed:        seed,
		GhostChance: that.ghostChance,
	})
	if err != nil {
		return Step{}, err
	}

	return Step{
		State:   entity.BoardState{Timelines: &board},
		Outcome: result.Outcome,
		Move: entity.MoveOutcome{
			Captured: result.Captured,
			Ghost:    result.Ghost,
			GameOver: result.Outcome.Decided(),
		},
	}, nil
}
