package timelines

import (
	"fmt"
	"math/rand/v2"

	"github.com/rocketscienceinc/boardgames-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgames-backend/internal/rules"
)

// Move is a single move on one timeline in algebraic squares. Promotion defaults to a queen.
type Move struct {
	Timeline  int    `json:"timeline"`
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion Kind   `json:"promotion,omitempty"`
}

// Options configures ghost insertion. The same Seed and board always give the same result.
type Options struct {
	Seed        int64
	GhostChance float64
}

// Ghost is a captured piece copied onto the other timeline.
type Ghost struct {
	Timeline int    `json:"timeline"`
	Square   string `json:"square"`
	Piece    Piece  `json:"piece"`
}

type Result struct {
	Outcome  rules.Outcome `json:"outcome"`
	Captured *Piece        `json:"captured,omitempty"`
	Ghost    *Ghost        `json:"ghost,omitempty"`
}

// Apply plays move for side. The input board is never modified.
func Apply(board Board, side rules.Mark, move Move, opts Options) (Board, Result, error) {
	chosen, promotion, err := resolve(board, side, move)
	if err != nil {
		return board, Result{}, err
	}

	next, captured, capturedAt := board.Timelines[move.Timeline].play(chosen, promotion)
	board.Timelines[move.Timeline] = next

	for i := range board.Timelines {
		if i != move.Timeline {
			board.Timelines[i].EnPassant = NoSquare
		}
	}

	board.Ply++

	var result Result
	if !captured.Empty() {
		result.Captured = &captured
		result.Ghost = insertGhost(&board, move.Timeline, captured, capturedAt, side, opts)
	}

	result.Outcome = evaluate(board, side.Opponent())

	return board, result, nil
}

func resolve(board Board, side rules.Mark, move Move) (step, Kind, error) {
	if move.Timeline < 0 || move.Timeline >= len(board.Timelines) {
		return step{}, "", fmt.Errorf("%w: unknown timeline %d", apperror.ErrIllegalMove, move.Timeline)
	}

	from, err := ParseSquare(move.From)
	if err != nil {
		return step{}, "", fmt.Errorf("%w: %w", apperror.ErrIllegalMove, err)
	}

	to, err := ParseSquare(move.To)
	if err != nil {
		return step{}, "", fmt.Errorf("%w: %w", apperror.ErrIllegalMove, err)
	}

	promotion := Queen
	switch move.Promotion {
	case "":
	case Knight, Bishop, Rook, Queen:
		promotion = move.Promotion
	default:
		return step{}, "", fmt.Errorf("%w: cannot promote to %q", apperror.ErrIllegalMove, move.Promotion)
	}

	tl := board.Timelines[move.Timeline]
	if piece := tl.Squares[from]; piece.Empty() || piece.Side != side {
		return step{}, "", fmt.Errorf("%w: no piece of yours on %s", apperror.ErrIllegalMove, move.From)
	}

	for _, s := range tl.legalFrom(from) {
		if s.to == to {
			return s, promotion, nil
		}
	}

	return step{}, "", fmt.Errorf("%w: %s-%s", apperror.ErrIllegalMove, move.From, move.To)
}

// insertGhost copies captured onto the other timeline next to where it was taken.
func insertGhost(board *Board, timeline int, captured Piece, capturedAt int, capturer rules.Mark, opts Options) *Ghost {
	if captured.Kind == King || opts.GhostChance <= 0 {
		return nil
	}

	if opts.GhostChance < 1 {
		rnd := rand.New(rand.NewPCG(uint64(opts.Seed), uint64(board.Ply))) //nolint: gosec // must replay identically
		if rnd.Float64() >= opts.GhostChance {
			return nil
		}
	}

	other := 1 - timeline

	square, ok := board.Timelines[other].ghostSquare(capturedAt, captured.Kind, capturer)
	if !ok {
		return nil
	}

	ghost := captured
	ghost.Ghost = true
	board.Timelines[other].Squares[square] = ghost

	return &Ghost{Timeline: other, Square: SquareName(square), Piece: ghost}
}

// ghostSquare scans the 3x3 neighbourhood of center rank by rank, starting from the
// capturer's forward rank and its left-hand file. Pawns never land on a back rank.
func (that Timeline) ghostSquare(center int, kind Kind, capturer rules.Mark) (int, bool) {
	dir := forward(capturer)

	for _, dr := range [3]int{dir, 0, -dir} {
		for _, df := range [3]int{-dir, 0, dir} {
			square, ok := at(fileOf(center)+df, rankOf(center)+dr)
			if !ok || !that.Squares[square].Empty() {
				continue
			}

			if kind == Pawn && (rankOf(square) == 0 || rankOf(square) == 7) {
				continue
			}

			return square, true
		}
	}

	return NoSquare, false
}

// evaluate decides the game from the point of view of the side about to move.
func evaluate(board Board, toMove rules.Mark) rules.Outcome {
	for _, side := range [2]rules.Mark{toMove, toMove.Opponent()} {
		for _, tl := range board.Timelines {
			if tl.king(side) == NoSquare {
				return rules.Outcome{Winner: side.Opponent(), Reason: rules.ReasonKingMissing}
			}
		}
	}

	stalemate := false
	for _, tl := range board.Timelines {
		if tl.hasLegal(toMove) {
			continue
		}

		if tl.inCheck(toMove) {
			return rules.Outcome{Winner: toMove.Opponent(), Reason: rules.ReasonCheckmate}
		}

		stalemate = true
	}

	if stalemate {
		return rules.Outcome{Winner: rules.Draw, Reason: rules.ReasonStalemate}
	}

	return rules.Outcome{}
}
