package classic

import (
	"fmt"

	"github.com/rocketscienceinc/boardgames-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgames-backend/internal/rules"
)

// Board is a single 3x3 tic-tac-toe board.
type Board struct {
	Cells [9]rules.Mark `json:"cells"`
}

// Apply places mark on cell and returns the resulting board with its verdict.
// The input board is never modified.
func Apply(board Board, mark rules.Mark, cell int) (Board, rules.Outcome, error) {
	if cell < 0 || cell >= len(board.Cells) {
		return board, rules.Outcome{}, fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if board.Cells[cell] != rules.Empty {
		return board, rules.Outcome{}, apperror.ErrCellOccupied
	}

	board.Cells[cell] = mark

	return board, rules.Evaluate(board.Cells), nil
}
