// Package rules holds what every game type shares: player marks, board outcomes
// and the 3x3 line check that both the classic board and the nested boards use.
package rules

type Mark string

const (
	Empty Mark = ""
	X     Mark = "X"
	O     Mark = "O"
	// Draw marks a decided board that nobody won.
	Draw Mark = "-"
)

// Opponent returns the other player's mark. Anything that is not X or O has no opponent.
func (m Mark) Opponent() Mark {
	switch m {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

func (m Mark) IsPlayer() bool {
	return m == X || m == O
}

// Reasons a board or game was decided.
const (
	ReasonLine        = "line"
	ReasonFull        = "full"
	ReasonScore       = "score"
	ReasonCheckmate   = "checkmate"
	ReasonStalemate   = "stalemate"
	ReasonKingMissing = "king-missing"
)

// Outcome is the result of a board after a move. A zero Outcome means play continues.
type Outcome struct {
	Winner Mark   `json:"winner,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func (o Outcome) Decided() bool {
	return o.Winner != Empty
}

var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// LineWinner returns the mark owning a full line, or Empty. Draw cells never form a line.
func LineWinner(cells [9]Mark) Mark {
	for _, combo := range WinCombos {
		a, b, c := cells[combo[0]], cells[combo[1]], cells[combo[2]]
		if a.IsPlayer() && a == b && b == c {
			return a
		}
	}

	return Empty
}

// Full reports whether no cell is Empty.
func Full(cells [9]Mark) bool {
	for _, cell := range cells {
		if cell == Empty {
			return false
		}
	}

	return true
}

// Occupied counts the cells that are not Empty.
func Occupied(cells [9]Mark) int {
	count := 0
	for _, cell := range cells {
		if cell != Empty {
			count++
		}
	}

	return count
}

// Evaluate is the classic 3x3 verdict: a line wins, a full board without a line is a draw.
func Evaluate(cells [9]Mark) Outcome {
	if winner := LineWinner(cells); winner != Empty {
		return Outcome{Winner: winner, Reason: ReasonLine}
	}

	if Full(cells) {
		return Outcome{Winner: Draw, Reason: ReasonFull}
	}

	return Outcome{}
}
