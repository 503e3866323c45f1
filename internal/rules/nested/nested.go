// Package nested implements the nine-board variant: a 3x3 grid of 3x3 sub-boards where each
// move sends the opponent to the sub-board matching the cell just played.
//
// A sub-board is won by a line. Its winner scores one point per occupied cell at the moment
// of decision, winning move included, so a sub-board won quickly is worth less than one won
// after a long fight. The game is won by a line of won sub-boards; when every sub-board is
// decided without such a line, the higher score wins.
package nested

import (
	"fmt"

	"github.com/rocketscienceinc/boardgames-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgames-backend/internal/rules"
)

// NoMandate means the next move may target any undecided sub-board.
const NoMandate = -1

type Scores struct {
	X int `json:"X"`
	O int `json:"O"`
}

func (that *Scores) add(mark rules.Mark, points int) {
	switch mark {
	case rules.X:
		that.X += points
	case rules.O:
		that.O += points
	}
}

type Board struct {
	Cells    [9][9]rules.Mark `json:"cells"`
	Outcomes [9]rules.Mark    `json:"outcomes"`
	Scores   Scores           `json:"scores"`
	Active   int              `json:"active"`
}

// Result describes what a single move did to the board.
type Result struct {
	Outcome        rules.Outcome `json:"outcome"`
	SubBoard       int           `json:"sub_board"`
	SubBoardWinner rules.Mark    `json:"sub_board_winner,omitempty"`
	Points         int           `json:"points,omitempty"`
}

func New() Board {
	return Board{Active: NoMandate}
}

// Decided counts sub-boards that have an outcome, draws included.
func (that Board) Decided() int {
	count := 0
	for _, outcome := range that.Outcomes {
		if outcome != rules.Empty {
			count++
		}
	}

	return count
}

// Mandate returns the sub-board the next move must target, or NoMandate.
func (that Board) Mandate() int {
	if that.Active < 0 || that.Active >= len(that.Outcomes) || that.Outcomes[that.Active] != rules.Empty {
		return NoMandate
	}

	return that.Active
}

// Apply plays mark at (subBoard, cell). The input board is never modified.
func Apply(board Board, mark rules.Mark, subBoard, cell int) (Board, Result, error) {
	if err := validate(board, subBoard, cell); err != nil {
		return board, Result{}, err
	}

	board.Cells[subBoard][cell] = mark
	result := Result{SubBoard: subBoard}

	switch local := rules.Evaluate(board.Cells[subBoard]); {
	case local.Winner.IsPlayer():
		points := rules.Occupied(board.Cells[subBoard])
		board.Outcomes[subBoard] = local.Winner
		board.Scores.add(local.Winner, points)

		result.SubBoardWinner = local.Winner
		result.Points = points
	case local.Winner == rules.Draw:
		board.Outcomes[subBoard] = rules.Draw
		result.SubBoardWinner = rules.Draw
	}

	board.Active = cell
	if board.Outcomes[cell] != rules.Empty {
		board.Active = NoMandate
	}

	result.Outcome = evaluate(board)

	return board, result, nil
}

func validate(board Board, subBoard, cell int) error {
	if subBoard < 0 || subBoard >= len(board.Cells) {
		return fmt.Errorf("%w: sub-board %d", apperror.ErrInvalidCell, subBoard)
	}

	if cell < 0 || cell >= len(board.Cells[subBoard]) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if mandate := board.Mandate(); mandate != NoMandate && mandate != subBoard {
		return fmt.Errorf("%w: must play in %d", apperror.ErrWrongSubBoard, mandate)
	}

	if board.Outcomes[subBoard] != rules.Empty {
		return apperror.ErrSubBoardDecided
	}

	if board.Cells[subBoard][cell] != rules.Empty {
		return apperror.ErrCellOccupied
	}

	return nil
}

// evaluate runs the same line check over sub-board outcomes; draws never count toward a line.
func evaluate(board Board) rules.Outcome {
	if winner := rules.LineWinner(board.Outcomes); winner != rules.Empty {
		return rules.Outcome{Winner: winner, Reason: rules.ReasonLine}
	}

	if !rules.Full(board.Outcomes) {
		return rules.Outcome{}
	}

	switch {
	case board.Scores.X > board.Scores.O:
		return rules.Outcome{Winner: rules.X, Reason: rules.ReasonScore}
	case board.Scores.O > board.Scores.X:
		return rules.Outcome{Winner: rules.O, Reason: rules.ReasonScore}
	default:
		return rules.Outcome{Winner: rules.Draw, Reason: rules.ReasonScore}
	}
}
