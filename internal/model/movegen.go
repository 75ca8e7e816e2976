package model

// MoveSet holds the destinations available to one piece. The three slices
// are disjoint and never contain the piece's own square.
type MoveSet struct {
	Plain    []Square `json:"plain"`
	Captures []Square `json:"captures"`
	Special  []Square `json:"special"`
}

type moveClass int

const (
	classNone moveClass = iota
	classPlain
	classCapture
	classSpecial
)

func (m MoveSet) classify(to Square) moveClass {
	switch {
	case containsSquare(m.Plain, to):
		return classPlain
	case containsSquare(m.Captures, to):
		return classCapture
	case containsSquare(m.Special, to):
		return classSpecial
	}
	return classNone
}

// Contains reports whether to is any kind of destination in the set.
func (m MoveSet) Contains(to Square) bool {
	return m.classify(to) != classNone
}

func (m MoveSet) Len() int {
	return len(m.Plain) + len(m.Captures) + len(m.Special)
}

func containsSquare(squares []Square, sq Square) bool {
	for _, s := range squares {
		if s == sq {
			return true
		}
	}
	return false
}

type direction struct{ df, dr int }

var (
	rookDirs   = []direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs = []direction{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	queenDirs  = append(append([]direction{}, rookDirs...), bishopDirs...)
	kingDirs   = queenDirs
	knightDirs = []direction{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}}
)

const maxRayLength = boardSize - 1

// GenerateMoves lists the destinations of p on b. lastDoubleStep is the
// square a pawn landed on if the previous move was a two-square advance,
// nil otherwise. The board is only read.
func GenerateMoves(b *Board, p *Piece, lastDoubleStep *Square) MoveSet {
	var moves MoveSet
	switch p.Kind {
	case Pawn:
		pawnMoves(b, p, lastDoubleStep, &moves)
	case Knight:
		stepMoves(b, p, knightDirs, &moves)
	case Bishop:
		rayMoves(b, p, bishopDirs, &moves)
	case Rook:
		rayMoves(b, p, rookDirs, &moves)
	case Queen:
		rayMoves(b, p, queenDirs, &moves)
	case King:
		stepMoves(b, p, kingDirs, &moves)
		castleMoves(b, p, &moves)
	}
	return moves
}

// Attacks reports whether any piece of color attacker could capture on target.
func Attacks(b *Board, attacker Color, target Square) bool {
	for _, p := range b.pieces(attacker) {
		if containsSquare(GenerateMoves(b, p, nil).Captures, target) {
			return true
		}
	}
	return false
}

func pawnMoves(b *Board, p *Piece, lastDoubleStep *Square, moves *MoveSet) {
	dir := p.Color.forward()
	if one, ok := p.Square.Offset(0, dir); ok && b.At(one) == nil {
		moves.Plain = append(moves.Plain, one)
		if !p.HasMoved && p.Square.Rank == p.Color.pawnRank() {
			if two, ok := p.Square.Offset(0, 2*dir); ok && b.At(two) == nil {
				moves.Plain = append(moves.Plain, two)
			}
		}
	}
	for _, df := range []int{-1, 1} {
		target, ok := p.Square.Offset(df, dir)
		if !ok {
			continue
		}
		if occupant := b.At(target); occupant != nil && occupant.Color != p.Color {
			moves.Captures = append(moves.Captures, target)
		}
	}
	if target, ok := enPassantTarget(b, p, lastDoubleStep); ok {
		moves.Special = append(moves.Special, target)
	}
}

// enPassantTarget returns the square behind a pawn that has just jumped
// alongside p, when p is on the rank it may capture en passant from.
func enPassantTarget(b *Board, p *Piece, lastDoubleStep *Square) (Square, bool) {
	if lastDoubleStep == nil || p.Square.Rank != p.Color.enPassantRank() {
		return Square{}, false
	}
	jumped := b.At(*lastDoubleStep)
	if jumped == nil || jumped.Kind != Pawn || jumped.Color == p.Color {
		return Square{}, false
	}
	if lastDoubleStep.Rank != p.Square.Rank || abs(lastDoubleStep.File-p.Square.File) != 1 {
		return Square{}, false
	}
	target, ok := lastDoubleStep.Offset(0, p.Color.forward())
	if !ok || b.At(target) != nil {
		return Square{}, false
	}
	return target, true
}

func (c Color) enPassantRank() int {
	if c == White {
		return 4
	}
	return 3
}

func stepMoves(b *Board, p *Piece, dirs []direction, moves *MoveSet) {
	for _, d := range dirs {
		target, ok := p.Square.Offset(d.df, d.dr)
		if !ok {
			continue
		}
		switch occupant := b.At(target); {
		case occupant == nil:
			moves.Plain = append(moves.Plain, target)
		case occupant.Color != p.Color:
			moves.Captures = append(moves.Captures, target)
		}
	}
}

func rayMoves(b *Board, p *Piece, dirs []direction, moves *MoveSet) {
	for _, d := range dirs {
		for step := 1; step <= maxRayLength; step++ {
			target, ok := p.Square.Offset(d.df*step, d.dr*step)
			if !ok {
				break
			}
			occupant := b.At(target)
			if occupant == nil {
				moves.Plain = append(moves.Plain, target)
				continue
			}
			if occupant.Color != p.Color {
				moves.Captures = append(moves.Captures, target)
			}
			break
		}
	}
}

// castleMoves adds the king's two-file castling destinations. King and rook
// must be unmoved on their home rank with nothing between them; squares the
// king crosses are not tested for attacks.
func castleMoves(b *Board, king *Piece, moves *MoveSet) {
	if king.HasMoved || king.Square.Rank != king.Color.backRank() {
		return
	}
	for _, rookFile := range []int{boardSize - 1, 0} {
		if _, ok := castleRook(b, king, rookFile); !ok {
			continue
		}
		step := sign(rookFile - king.Square.File)
		if target, ok := king.Square.Offset(2*step, 0); ok {
			moves.Special = append(moves.Special, target)
		}
	}
}

// castleRook returns the rook king may castle with on rookFile.
func castleRook(b *Board, king *Piece, rookFile int) (*Piece, bool) {
	rook := b.At(Square{File: rookFile, Rank: king.Color.backRank()})
	if rook == nil || rook.Kind != Rook || rook.Color != king.Color || rook.HasMoved {
		return nil, false
	}
	step := sign(rookFile - king.Square.File)
	if step == 0 || abs(rookFile-king.Square.File) < 3 {
		return nil, false
	}
	for file := king.Square.File + step; file != rookFile; file += step {
		if b.At(Square{File: file, Rank: king.Square.Rank}) != nil {
			return nil, false
		}
	}
	return rook, true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
