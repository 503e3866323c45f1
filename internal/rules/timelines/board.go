// Package timelines implements chess played on two boards at once. Each side moves on one
// timeline per turn. A capture may leave a ghost copy of the captured piece on the other
// timeline, so positions that plain chess cannot reach (extra queens, missing kings) are normal.
package timelines

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/boardgames-backend/internal/rules"
)

// NoSquare marks an absent en passant target or king.
const NoSquare = -1

type Kind string

const (
	Pawn   Kind = "p"
	Knight Kind = "n"
	Bishop Kind = "b"
	Rook   Kind = "r"
	Queen  Kind = "q"
	King   Kind = "k"
)

// Piece is owned by X (white) or O (black). Ghosts move and capture like any other piece.
type Piece struct {
	Kind  Kind
	Side  rules.Mark
	Ghost bool
}

func (p Piece) Empty() bool {
	return p.Kind == ""
}

func (p Piece) is(side rules.Mark, kinds ...Kind) bool {
	if p.Side != side {
		return false
	}

	for _, kind := range kinds {
		if p.Kind == kind {
			return true
		}
	}

	return false
}

// MarshalText writes the piece as a FEN letter, uppercase for X, with a "*" suffix for ghosts.
func (p Piece) MarshalText() ([]byte, error) {
	if p.Empty() {
		return []byte{}, nil
	}

	text := string(p.Kind)
	if p.Side == rules.X {
		text = strings.ToUpper(text)
	}

	if p.Ghost {
		text += "*"
	}

	return []byte(text), nil
}

func (p *Piece) UnmarshalText(text []byte) error {
	*p = Piece{}

	raw := string(text)
	if raw == "" {
		return nil
	}

	if strings.HasSuffix(raw, "*") {
		p.Ghost = true
		raw = strings.TrimSuffix(raw, "*")
	}

	lower := strings.ToLower(raw)
	if len(raw) != 1 || !strings.Contains("pnbrqk", lower) {
		return fmt.Errorf("invalid piece %q", text)
	}

	p.Kind = Kind(lower)
	p.Side = rules.O
	if raw != lower {
		p.Side = rules.X
	}

	return nil
}

type Castling struct {
	WhiteShort bool `json:"K"`
	WhiteLong  bool `json:"Q"`
	BlackShort bool `json:"k"`
	BlackLong  bool `json:"q"`
}

func (that Castling) rights(side rules.Mark) (short, long bool) {
	if side == rules.X {
		return that.WhiteShort, that.WhiteLong
	}

	return that.BlackShort, that.BlackLong
}

// revoke drops any right tied to a king or rook home square that a piece left or landed on.
func (that *Castling) revoke(square int) {
	switch square {
	case sq(4, 0):
		that.WhiteShort, that.WhiteLong = false, false
	case sq(7, 0):
		that.WhiteShort = false
	case sq(0, 0):
		that.WhiteLong = false
	case sq(4, 7):
		that.BlackShort, that.BlackLong = false, false
	case sq(7, 7):
		that.BlackShort = false
	case sq(0, 7):
		that.BlackLong = false
	}
}

// Timeline is one 8x8 board. Squares are indexed a1=0 .. h8=63.
type Timeline struct {
	Squares   [64]Piece `json:"squares"`
	Castling  Castling  `json:"castling"`
	EnPassant int       `json:"en_passant"`
}

var backRank = [8]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewTimeline returns the standard starting position.
func NewTimeline() Timeline {
	tl := Timeline{
		Castling:  Castling{WhiteShort: true, WhiteLong: true, BlackShort: true, BlackLong: true},
		EnPassant: NoSquare,
	}

	for f, kind := range backRank {
		tl.Squares[sq(f, 0)] = Piece{Kind: kind, Side: rules.X}
		tl.Squares[sq(f, 1)] = Piece{Kind: Pawn, Side: rules.X}
		tl.Squares[sq(f, 6)] = Piece{Kind: Pawn, Side: rules.O}
		tl.Squares[sq(f, 7)] = Piece{Kind: kind, Side: rules.O}
	}

	return tl
}

func (that Timeline) king(side rules.Mark) int {
	for square, piece := range that.Squares {
		if piece.is(side, King) {
			return square
		}
	}

	return NoSquare
}

func (that Timeline) inCheck(side rules.Mark) bool {
	king := that.king(side)

	return king != NoSquare && that.attacked(king, side.Opponent())
}

// Board holds both timelines and the number of moves played so far.
type Board struct {
	Timelines [2]Timeline `json:"timelines"`
	Ply       int         `json:"ply"`
}

func New() Board {
	return Board{Timelines: [2]Timeline{NewTimeline(), NewTimeline()}}
}

func sq(file, rank int) int {
	return rank*8 + file
}

func fileOf(square int) int {
	return square % 8
}

func rankOf(square int) int {
	return square / 8
}

func at(file, rank int) (int, bool) {
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return 0, false
	}

	return sq(file, rank), true
}

// ParseSquare converts algebraic notation ("e4") into a square index.
func ParseSquare(name string) (int, error) {
	if len(name) != 2 {
		return NoSquare, fmt.Errorf("invalid square %q", name)
	}

	square, ok := at(int(name[0])-'a', int(name[1])-'1')
	if !ok {
		return NoSquare, fmt.Errorf("invalid square %q", name)
	}

	return square, nil
}

func SquareName(square int) string {
	return string([]byte{byte('a' + fileOf(square)), byte('1' + rankOf(square))})
}

func forward(side rules.Mark) int {
	if side == rules.X {
		return 1
	}

	return -1
}

func homeRank(side rules.Mark) int {
	if side == rules.X {
		return 0
	}

	return 7
}
