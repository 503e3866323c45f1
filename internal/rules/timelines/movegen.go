package timelines

import "github.com/rocketscienceinc/boardgames-backend/internal/rules"

type stepFlag uint8

const (
	plain stepFlag = iota
	doublePush
	enPassant
	castleShort
	castleLong
)

type step struct {
	from, to int
	flag     stepFlag
}

var (
	knightOffsets = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingOffsets   = [8][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	rookDirs      = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs    = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

// pseudo lists moves of the piece on from, ignoring whether they expose its own king.
func (that Timeline) pseudo(from int) []step {
	piece := that.Squares[from]

	switch piece.Kind {
	case Pawn:
		return that.pawnSteps(from, piece.Side)
	case Knight:
		return that.jumps(from, piece.Side, knightOffsets)
	case Bishop:
		return that.slides(from, piece.Side, bishopDirs[:])
	case Rook:
		return that.slides(from, piece.Side, rookDirs[:])
	case Queen:
		return append(that.slides(from, piece.Side, rookDirs[:]), that.slides(from, piece.Side, bishopDirs[:])...)
	case King:
		return append(that.jumps(from, piece.Side, kingOffsets), that.castles(from, piece.Side)...)
	default:
		return nil
	}
}

func (that Timeline) pawnSteps(from int, side rules.Mark) []step {
	var steps []step

	dir := forward(side)
	f, r := fileOf(from), rankOf(from)

	if to, ok := at(f, r+dir); ok && that.Squares[to].Empty() {
		steps = append(steps, step{from: from, to: to})

		if r == homeRank(side)+dir {
			if twice, ok := at(f, r+2*dir); ok && that.Squares[twice].Empty() {
				steps = append(steps, step{from: from, to: twice, flag: doublePush})
			}
		}
	}

	for _, df := range [2]int{-1, 1} {
		to, ok := at(f+df, r+dir)
		if !ok {
			continue
		}

		target := that.Squares[to]
		switch {
		case !target.Empty() && target.Side != side:
			steps = append(steps, step{from: from, to: to})
		case target.Empty() && to == that.EnPassant:
			if victim := that.Squares[sq(f+df, r)]; victim.is(side.Opponent(), Pawn) {
				steps = append(steps, step{from: from, to: to, flag: enPassant})
			}
		}
	}

	return steps
}

func (that Timeline) jumps(from int, side rules.Mark, offsets [8][2]int) []step {
	var steps []step

	for _, offset := range offsets {
		to, ok := at(fileOf(from)+offset[0], rankOf(from)+offset[1])
		if !ok {
			continue
		}

		if target := that.Squares[to]; target.Empty() || target.Side != side {
			steps = append(steps, step{from: from, to: to})
		}
	}

	return steps
}

func (that Timeline) slides(from int, side rules.Mark, dirs [][2]int) []step {
	var steps []step

	for _, dir := range dirs {
		f, r := fileOf(from), rankOf(from)
		for {
			f, r = f+dir[0], r+dir[1]

			to, ok := at(f, r)
			if !ok {
				break
			}

			target := that.Squares[to]
			if target.Empty() {
				steps = append(steps, step{from: from, to: to})
				continue
			}

			if target.Side != side {
				steps = append(steps, step{from: from, to: to})
			}

			break
		}
	}

	return steps
}

func (that Timeline) castles(from int, side rules.Mark) []step {
	home := homeRank(side)
	if from != sq(4, home) {
		return nil
	}

	short, long := that.Castling.rights(side)
	if !short && !long {
		return nil
	}

	enemy := side.Opponent()
	if that.attacked(from, enemy) {
		return nil
	}

	var steps []step

	if short && that.Squares[sq(7, home)].is(side, Rook) &&
		that.emptyAndSafe(enemy, sq(5, home), sq(6, home)) {
		steps = append(steps, step{from: from, to: sq(6, home), flag: castleShort})
	}

	if long && that.Squares[sq(0, home)].is(side, Rook) && that.Squares[sq(1, home)].Empty() &&
		that.emptyAndSafe(enemy, sq(3, home), sq(2, home)) {
		steps = append(steps, step{from: from, to: sq(2, home), flag: castleLong})
	}

	return steps
}

func (that Timeline) emptyAndSafe(enemy rules.Mark, squares ...int) bool {
	for _, square := range squares {
		if !that.Squares[square].Empty() || that.attacked(square, enemy) {
			return false
		}
	}

	return true
}

// attacked reports whether any piece of side by hits square.
func (that Timeline) attacked(square int, by rules.Mark) bool {
	f, r := fileOf(square), rankOf(square)

	for _, df := range [2]int{-1, 1} {
		if from, ok := at(f+df, r-forward(by)); ok && that.Squares[from].is(by, Pawn) {
			return true
		}
	}

	for _, offset := range knightOffsets {
		if from, ok := at(f+offset[0], r+offset[1]); ok && that.Squares[from].is(by, Knight) {
			return true
		}
	}

	for _, offset := range kingOffsets {
		if from, ok := at(f+offset[0], r+offset[1]); ok && that.Squares[from].is(by, King) {
			return true
		}
	}

	return that.rayHits(f, r, by, rookDirs[:], Rook, Queen) || that.rayHits(f, r, by, bishopDirs[:], Bishop, Queen)
}

func (that Timeline) rayHits(f, r int, by rules.Mark, dirs [][2]int, kinds ...Kind) bool {
	for _, dir := range dirs {
		cf, cr := f, r
		for {
			cf, cr = cf+dir[0], cr+dir[1]

			square, ok := at(cf, cr)
			if !ok {
				break
			}

			piece := that.Squares[square]
			if piece.Empty() {
				continue
			}

			if piece.is(by, kinds...) {
				return true
			}

			break
		}
	}

	return false
}

// play performs s and returns the new timeline with the captured piece and where it stood.
func (that Timeline) play(s step, promotion Kind) (Timeline, Piece, int) {
	piece := that.Squares[s.from]
	captured, capturedAt := that.Squares[s.to], s.to

	if s.flag == enPassant {
		capturedAt = sq(fileOf(s.to), rankOf(s.from))
		captured = that.Squares[capturedAt]
		that.Squares[capturedAt] = Piece{}
	}

	that.Squares[s.to] = piece
	that.Squares[s.from] = Piece{}

	if piece.Kind == Pawn && rankOf(s.to) == homeRank(piece.Side.Opponent()) {
		that.Squares[s.to].Kind = promotion
	}

	home := rankOf(s.from)
	switch s.flag {
	case castleShort:
		that.Squares[sq(5, home)], that.Squares[sq(7, home)] = that.Squares[sq(7, home)], Piece{}
	case castleLong:
		that.Squares[sq(3, home)], that.Squares[sq(0, home)] = that.Squares[sq(0, home)], Piece{}
	}

	that.EnPassant = NoSquare
	if s.flag == doublePush {
		that.EnPassant = (s.from + s.to) / 2
	}

	that.Castling.revoke(s.from)
	that.Castling.revoke(s.to)

	return that, captured, capturedAt
}

// safe reports whether s keeps the mover's king out of attack on this timeline.
func (that Timeline) safe(s step) bool {
	side := that.Squares[s.from].Side
	next, _, _ := that.play(s, Queen)

	return !next.inCheck(side)
}

func (that Timeline) legalFrom(from int) []step {
	var steps []step

	for _, s := range that.pseudo(from) {
		if that.safe(s) {
			steps = append(steps, s)
		}
	}

	return steps
}

func (that Timeline) hasLegal(side rules.Mark) bool {
	for square, piece := range that.Squares {
		if piece.Side != side {
			continue
		}

		for _, s := range that.pseudo(square) {
			if that.safe(s) {
				return true
			}
		}
	}

	return false
}
