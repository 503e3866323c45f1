package timelines

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/boardgames-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgames-backend/internal/rules"
)

var noGhosts = Options{Seed: 1, GhostChance: 0}

// legal lists every legal step for side.
func (that Timeline) legal(side rules.Mark) []step {
	var steps []step

	for square, piece := range that.Squares {
		if piece.Side == side {
			steps = append(steps, that.legalFrom(square)...)
		}
	}

	return steps
}

func play(t *testing.T, board Board, opts Options, moves ...Move) (Board, Result) {
	t.Helper()

	var result Result
	side := rules.X
	if board.Ply%2 == 1 {
		side = rules.O
	}

	for _, move := range moves {
		var err error
		board, result, err = Apply(board, side, move, opts)
		require.NoError(t, err, "%s %s-%s", side, move.From, move.To)

		side = side.Opponent()
	}

	return board, result
}

func m(timeline int, from, to string) Move {
	return Move{Timeline: timeline, From: from, To: to}
}

// bare returns a board with only both kings on their home squares on each timeline.
func bare() Board {
	var board Board
	for i := range board.Timelines {
		board.Timelines[i].EnPassant = NoSquare
		board.Timelines[i].Squares[sq(4, 0)] = Piece{Kind: King, Side: rules.X}
		board.Timelines[i].Squares[sq(4, 7)] = Piece{Kind: King, Side: rules.O}
	}

	return board
}

func put(board *Board, timeline int, square string, piece Piece) {
	index, err := ParseSquare(square)
	if err != nil {
		panic(err)
	}

	board.Timelines[timeline].Squares[index] = piece
}

func piece(t *testing.T, board Board, timeline int, square string) Piece {
	t.Helper()

	index, err := ParseSquare(square)
	require.NoError(t, err)

	return board.Timelines[timeline].Squares[index]
}

func TestNewTimeline_HasTwentyMovesPerSide(t *testing.T) {
	tl := NewTimeline()

	assert.Len(t, tl.legal(rules.X), 20)
	assert.Len(t, tl.legal(rules.O), 20)
}

func TestApply_BasicMoves(t *testing.T) {
	t.Run("Pawn move leaves the other timeline untouched", func(t *testing.T) {
		// Given: the starting position
		board := New()

		// When: X plays e2-e4 on timeline 0
		next, result, err := Apply(board, rules.X, m(0, "e2", "e4"), noGhosts)

		// Then: only timeline 0 changes and the en passant square is recorded
		require.NoError(t, err)
		assert.Equal(t, Piece{Kind: Pawn, Side: rules.X}, piece(t, next, 0, "e4"))
		assert.True(t, piece(t, next, 0, "e2").Empty())
		assert.Equal(t, NewTimeline(), next.Timelines[1])
		assert.Equal(t, sq(4, 2), next.Timelines[0].EnPassant)
		assert.Equal(t, 1, next.Ply)
		assert.False(t, result.Outcome.Decided())
		assert.Equal(t, New(), board, "input board must not change")
	})

	t.Run("Moving an opponent piece is illegal", func(t *testing.T) {
		_, _, err := Apply(New(), rules.X, m(0, "e7", "e5"), noGhosts)

		require.ErrorIs(t, err, apperror.ErrIllegalMove)
	})

	t.Run("Geometrically impossible move is illegal", func(t *testing.T) {
		_, _, err := Apply(New(), rules.X, m(1, "b1", "b3"), noGhosts)

		require.ErrorIs(t, err, apperror.ErrIllegalMove)
	})

	t.Run("Malformed input is illegal", func(t *testing.T) {
		_, _, err := Apply(New(), rules.X, m(2, "e2", "e4"), noGhosts)
		require.ErrorIs(t, err, apperror.ErrIllegalMove)

		_, _, err = Apply(New(), rules.X, m(0, "z9", "e4"), noGhosts)
		require.ErrorIs(t, err, apperror.ErrIllegalMove)

		_, _, err = Apply(New(), rules.X, Move{Timeline: 0, From: "e2", To: "e4", Promotion: King}, noGhosts)
		require.ErrorIs(t, err, apperror.ErrIllegalMove)
	})

	t.Run("Pinned piece cannot expose its king", func(t *testing.T) {
		// Given: a white bishop on e2 pinned by a black rook on e8's file
		board := bare()
		put(&board, 0, "e8", Piece{})
		put(&board, 0, "a8", Piece{Kind: King, Side: rules.O})
		put(&board, 0, "e2", Piece{Kind: Bishop, Side: rules.X})
		put(&board, 0, "e7", Piece{Kind: Rook, Side: rules.O})

		// When: the bishop steps off the file
		_, _, err := Apply(board, rules.X, m(0, "e2", "d3"), noGhosts)

		// Then: the move is rejected
		require.ErrorIs(t, err, apperror.ErrIllegalMove)
	})
}

func TestApply_SpecialMoves(t *testing.T) {
	t.Run("En passant removes the passed pawn", func(t *testing.T) {
		board, _ := play(t, New(), noGhosts,
			m(0, "e2", "e4"), m(0, "a7", "a6"),
			m(0, "e4", "e5"), m(0, "d7", "d5"),
		)

		next, result, err := Apply(board, rules.X, m(0, "e5", "d6"), noGhosts)

		require.NoError(t, err)
		assert.True(t, piece(t, next, 0, "d5").Empty())
		assert.Equal(t, Piece{Kind: Pawn, Side: rules.X}, piece(t, next, 0, "d6"))
		require.NotNil(t, result.Captured)
		assert.Equal(t, Piece{Kind: Pawn, Side: rules.O}, *result.Captured)
	})

	t.Run("En passant expires after a move on the other timeline", func(t *testing.T) {
		board, _ := play(t, New(), noGhosts,
			m(0, "e2", "e4"), m(0, "a7", "a6"),
			m(0, "e4", "e5"), m(0, "d7", "d5"),
			m(1, "a2", "a3"), m(1, "a7", "a6"),
		)

		_, _, err := Apply(board, rules.X, m(0, "e5", "d6"), noGhosts)

		require.ErrorIs(t, err, apperror.ErrIllegalMove)
	})

	t.Run("Short castling moves king and rook", func(t *testing.T) {
		board := bare()
		put(&board, 0, "h1", Piece{Kind: Rook, Side: rules.X})
		board.Timelines[0].Castling.WhiteShort = true

		next, _, err := Apply(board, rules.X, m(0, "e1", "g1"), noGhosts)

		require.NoError(t, err)
		assert.Equal(t, Piece{Kind: King, Side: rules.X}, piece(t, next, 0, "g1"))
		assert.Equal(t, Piece{Kind: Rook, Side: rules.X}, piece(t, next, 0, "f1"))
		assert.True(t, piece(t, next, 0, "h1").Empty())
		assert.False(t, next.Timelines[0].Castling.WhiteShort)
	})

	t.Run("Castling through an attacked square is illegal", func(t *testing.T) {
		board := bare()
		put(&board, 0, "h1", Piece{Kind: Rook, Side: rules.X})
		put(&board, 0, "f8", Piece{Kind: Rook, Side: rules.O})
		board.Timelines[0].Castling.WhiteShort = true

		_, _, err := Apply(board, rules.X, m(0, "e1", "g1"), noGhosts)

		require.ErrorIs(t, err, apperror.ErrIllegalMove)
	})

	t.Run("Castling without the right is illegal", func(t *testing.T) {
		board := bare()
		put(&board, 0, "a1", Piece{Kind: Rook, Side: rules.X})

		_, _, err := Apply(board, rules.X, m(0, "e1", "c1"), noGhosts)

		require.ErrorIs(t, err, apperror.ErrIllegalMove)
	})

	t.Run("Promotion defaults to a queen", func(t *testing.T) {
		board := bare()
		put(&board, 0, "e8", Piece{})
		put(&board, 0, "h6", Piece{Kind: King, Side: rules.O})
		put(&board, 0, "a7", Piece{Kind: Pawn, Side: rules.X})

		next, _, err := Apply(board, rules.X, m(0, "a7", "a8"), noGhosts)

		require.NoError(t, err)
		assert.Equal(t, Piece{Kind: Queen, Side: rules.X}, piece(t, next, 0, "a8"))
	})

	t.Run("Promotion to a chosen piece", func(t *testing.T) {
		board := bare()
		put(&board, 0, "e8", Piece{})
		put(&board, 0, "h6", Piece{Kind: King, Side: rules.O})
		put(&board, 0, "a7", Piece{Kind: Pawn, Side: rules.X})

		next, _, err := Apply(board, rules.X, Move{Timeline: 0, From: "a7", To: "a8", Promotion: Knight}, noGhosts)

		require.NoError(t, err)
		assert.Equal(t, Piece{Kind: Knight, Side: rules.X}, piece(t, next, 0, "a8"))
	})
}

func TestApply_Ghosts(t *testing.T) {
	opening := []Move{m(0, "e2", "e4"), m(0, "d7", "d5")}

	t.Run("Capture copies the captured piece onto the other timeline", func(t *testing.T) {
		// Given: 1.e4 d5 on timeline 0 and ghosts always inserted
		always := Options{Seed: 7, GhostChance: 1}
		board, _ := play(t, New(), always, opening...)

		// When: X captures on d5
		next, result, err := Apply(board, rules.X, m(0, "e4", "d5"), always)

		// Then: a black ghost pawn appears on c6 of timeline 1, the first free square in front-left of d5
		require.NoError(t, err)
		require.NotNil(t, result.Ghost)
		assert.Equal(t, Ghost{Timeline: 1, Square: "c6", Piece: Piece{Kind: Pawn, Side: rules.O, Ghost: true}}, *result.Ghost)
		assert.Equal(t, Piece{Kind: Pawn, Side: rules.O, Ghost: true}, piece(t, next, 1, "c6"))
	})

	t.Run("Black capture scans from black's side of the board", func(t *testing.T) {
		always := Options{Seed: 7, GhostChance: 1}
		board, _ := play(t, New(), always, m(0, "e2", "e4"), m(0, "d7", "d5"), m(1, "a2", "a3"))

		_, result, err := Apply(board, rules.O, m(0, "d5", "e4"), always)

		require.NoError(t, err)
		require.NotNil(t, result.Ghost)
		assert.Equal(t, "f3", result.Ghost.Square)
		assert.Equal(t, rules.X, result.Ghost.Piece.Side)
	})

	t.Run("Zero chance never inserts", func(t *testing.T) {
		board, _ := play(t, New(), noGhosts, opening...)

		next, result, err := Apply(board, rules.X, m(0, "e4", "d5"), noGhosts)

		require.NoError(t, err)
		assert.NotNil(t, result.Captured)
		assert.Nil(t, result.Ghost)
		assert.Equal(t, NewTimeline(), next.Timelines[1])
	})

	t.Run("Same seed and board give the same ghost", func(t *testing.T) {
		half := Options{Seed: 42, GhostChance: 0.5}
		board, _ := play(t, New(), half, opening...)

		first, firstResult, err := Apply(board, rules.X, m(0, "e4", "d5"), half)
		require.NoError(t, err)

		second, secondResult, err := Apply(board, rules.X, m(0, "e4", "d5"), half)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, firstResult, secondResult)
	})

	t.Run("Pawn ghost skips the back rank", func(t *testing.T) {
		var tl Timeline
		center, err := ParseSquare("d7")
		require.NoError(t, err)

		square, ok := tl.ghostSquare(center, Pawn, rules.X)

		require.True(t, ok)
		assert.Equal(t, "c7", SquareName(square))
	})
}

func TestApply_EndConditions(t *testing.T) {
	t.Run("Checkmate on one timeline loses", func(t *testing.T) {
		_, result := play(t, New(), noGhosts,
			m(0, "f2", "f3"), m(0, "e7", "e5"),
			m(0, "g2", "g4"), m(0, "d8", "h4"),
		)

		assert.Equal(t, rules.Outcome{Winner: rules.O, Reason: rules.ReasonCheckmate}, result.Outcome)
	})

	t.Run("Stalemate on one timeline draws", func(t *testing.T) {
		// Given: black king cornered on a8 and a white queen able to reach b6
		board := bare()
		put(&board, 0, "e8", Piece{})
		put(&board, 0, "a8", Piece{Kind: King, Side: rules.O})
		put(&board, 0, "b1", Piece{Kind: Queen, Side: rules.X})

		// When: the queen takes away every square without giving check
		_, result, err := Apply(board, rules.X, m(0, "b1", "b6"), noGhosts)

		// Then: the game is drawn
		require.NoError(t, err)
		assert.Equal(t, rules.Outcome{Winner: rules.Draw, Reason: rules.ReasonStalemate}, result.Outcome)
	})

	t.Run("King missing from a timeline loses", func(t *testing.T) {
		// Given: a black king left en prise on timeline 0
		board := bare()
		put(&board, 0, "e8", Piece{})
		put(&board, 0, "a8", Piece{Kind: King, Side: rules.O})
		put(&board, 0, "a1", Piece{Kind: Rook, Side: rules.X})

		// When: the rook takes the king
		_, result, err := Apply(board, rules.X, m(0, "a1", "a8"), Options{Seed: 1, GhostChance: 1})

		// Then: X wins and kings are never duplicated
		require.NoError(t, err)
		assert.Equal(t, rules.Outcome{Winner: rules.X, Reason: rules.ReasonKingMissing}, result.Outcome)
		assert.Nil(t, result.Ghost)
	})
}

func TestBoard_JSON(t *testing.T) {
	// Given: a position containing a ghost
	board := New()
	put(&board, 1, "c6", Piece{Kind: Pawn, Side: rules.O, Ghost: true})

	// When: the board goes through JSON
	raw, err := json.Marshal(board)
	require.NoError(t, err)

	var decoded Board
	require.NoError(t, json.Unmarshal(raw, &decoded))

	// Then: pieces keep their side and ghost flag
	assert.Equal(t, board, decoded)
	assert.Contains(t, string(raw), `"p*"`)
	assert.Contains(t, string(raw), `"K"`)
}
