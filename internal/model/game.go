package model

import "fmt"

// Game owns one board and the turn, check and promotion state around it.
// A Game is not safe for concurrent use.
type Game struct {
	board            *Board
	turn             Color
	inCheck          bool
	winner           *Color
	lastDoubleStep   *Square
	lastMovedTo      *Square
	pendingPromotion *Square
	history          []MoveRecord
}

// NewGame starts a game from the standard position with white to move.
func NewGame() *Game {
	g, err := NewGameFromBoard(NewBoard(), White)
	if err != nil {
		panic(err)
	}
	return g
}

// NewGameFromBoard starts a game from an arbitrary position. The board must
// hold exactly one king of each color and is owned by the game from then on.
func NewGameFromBoard(b *Board, turn Color) (*Game, error) {
	if turn != White && turn != Black {
		return nil, fmt.Errorf("%w: unknown color %q to move", ErrInvalidPosition, turn)
	}
	for _, c := range []Color{White, Black} {
		if n := b.count(King, c); n != 1 {
			return nil, fmt.Errorf("%w: %d %s kings", ErrInvalidPosition, n, c)
		}
	}
	g := &Game{board: b, turn: turn}
	g.inCheck = g.kingAttacked(turn)
	return g, nil
}

func (g *Game) BoardSnapshot() Snapshot {
	return g.board.Snapshot()
}

// PieceAt returns a copy of the piece on sq.
func (g *Game) PieceAt(sq Square) (Piece, bool) {
	p := g.board.At(sq)
	if p == nil {
		return Piece{}, false
	}
	return *p, true
}

func (g *Game) CurrentTurn() Color {
	return g.turn
}

// IsInCheck reports whether the side to move was left in check by the last
// completed move.
func (g *Game) IsInCheck() bool {
	return g.inCheck
}

// Winner returns the color that captured the opposing king.
func (g *Game) Winner() (Color, bool) {
	if g.winner == nil {
		return "", false
	}
	return *g.winner, true
}

func (g *Game) IsGameOver() bool {
	return g.winner != nil
}

func (g *Game) PendingPromotion() (Square, bool) {
	if g.pendingPromotion == nil {
		return Square{}, false
	}
	return *g.pendingPromotion, true
}

// LastDoubleStep returns where a pawn landed if the previous move was a
// two-square pawn advance.
func (g *Game) LastDoubleStep() (Square, bool) {
	if g.lastDoubleStep == nil {
		return Square{}, false
	}
	return *g.lastDoubleStep, true
}

func (g *Game) LastMovedTo() (Square, bool) {
	if g.lastMovedTo == nil {
		return Square{}, false
	}
	return *g.lastMovedTo, true
}

func (g *Game) LastMove() (MoveRecord, bool) {
	if len(g.history) == 0 {
		return MoveRecord{}, false
	}
	return g.history[len(g.history)-1], true
}

func (g *Game) History() []MoveRecord {
	return append([]MoveRecord(nil), g.history...)
}

// LegalMoves returns the destinations of the piece on sq. It is available
// in every state, including while a promotion is pending and after the game
// has ended.
func (g *Game) LegalMoves(sq Square) (MoveSet, error) {
	p := g.board.At(sq)
	if p == nil {
		return MoveSet{}, fmt.Errorf("%w: %s", ErrEmptySquare, sq)
	}
	return GenerateMoves(g.board, p, g.lastDoubleStep), nil
}

// ProposeMove moves the piece on from to to when that is a legal
// destination for the side to move.
func (g *Game) ProposeMove(from, to Square) (MoveResult, error) {
	if g.winner != nil {
		return MoveResult{}, ErrGameOver
	}
	if g.pendingPromotion != nil {
		return MoveResult{}, fmt.Errorf("%w on %s", ErrPromotionPending, *g.pendingPromotion)
	}
	piece := g.board.At(from)
	if piece == nil {
		return MoveResult{}, fmt.Errorf("%w: %s", ErrEmptySquare, from)
	}
	if piece.Color != g.turn {
		return MoveResult{}, fmt.Errorf("%w: %s piece on %s, %s to move", ErrNotYourTurn, piece.Color, from, g.turn)
	}
	legal := GenerateMoves(g.board, piece, g.lastDoubleStep)
	class := legal.classify(to)
	if class == classNone {
		return MoveResult{}, fmt.Errorf("%w: %s %s cannot move from %s to %s", ErrIllegalDestination, piece.Color, piece.Kind, from, to)
	}

	record := MoveRecord{From: from, To: to, Kind: piece.Kind, Color: piece.Color, Flag: FlagPlain}

	if class == classCapture {
		captured := g.board.remove(to)
		record.Flag = FlagCapture
		record.Captured = captured.View()
		if captured.Kind == King {
			// The capturing piece still lands; nothing else is updated.
			g.mustRelocate(piece, to)
			winner := piece.Color
			g.winner = &winner
			g.inCheck = false
			g.history = append(g.history, record)
			return MoveResult{Status: StatusGameOver, Move: record, Turn: g.turn, Winner: &winner}, nil
		}
	}

	g.mustRelocate(piece, to)

	if piece.Kind == Pawn && to.Rank == piece.Color.promotionRank() {
		record.Flag = FlagPromotion
		pending := to
		g.pendingPromotion = &pending
	}

	if class == classSpecial {
		switch piece.Kind {
		case Pawn:
			jumped := Square{File: to.File, Rank: from.Rank}
			record.Flag = FlagEnPassant
			if captured := g.board.remove(jumped); captured != nil {
				record.Captured = captured.View()
			}
		case King:
			record.Flag = g.castleRook(from, to)
		}
	}

	movedTo := to
	g.lastMovedTo = &movedTo
	g.lastDoubleStep = nil
	if piece.Kind == Pawn && abs(to.Rank-from.Rank) == 2 {
		g.lastDoubleStep = &movedTo
	}
	piece.HasMoved = true
	g.history = append(g.history, record)

	if g.pendingPromotion != nil {
		promotion := *g.pendingPromotion
		return MoveResult{Status: StatusPendingPromotion, Move: record, Turn: g.turn, PromotionSquare: &promotion}, nil
	}
	g.endTurn()
	return MoveResult{Status: StatusMoved, Move: record, Turn: g.turn, InCheck: g.inCheck}, nil
}

// ApplyPromotion replaces the pawn waiting on sq with a piece of kind and
// passes the turn. Until it is called the game stays suspended.
func (g *Game) ApplyPromotion(sq Square, kind PieceKind) (MoveResult, error) {
	if g.pendingPromotion == nil || *g.pendingPromotion != sq {
		return MoveResult{}, fmt.Errorf("%w on %s", ErrNoPendingPromotion, sq)
	}
	switch kind {
	case Queen, Rook, Bishop, Knight:
	default:
		return MoveResult{}, fmt.Errorf("%w: %q", ErrInvalidPromotion, kind)
	}
	pawn := g.board.remove(sq)
	promoted, err := g.board.Place(kind, pawn.Color, sq)
	if err != nil {
		panic(fmt.Sprintf("promotion square %s not cleared: %v", sq, err))
	}
	promoted.HasMoved = true
	g.pendingPromotion = nil

	record := g.history[len(g.history)-1]
	record.Promotion = kind
	g.history[len(g.history)-1] = record

	g.endTurn()
	return MoveResult{Status: StatusMoved, Move: record, Turn: g.turn, InCheck: g.inCheck}, nil
}

// castleRook moves the rook that belongs to the king's castling move from
// from to to, returning which side was castled.
func (g *Game) castleRook(from, to Square) MoveFlag {
	flag := FlagCastleKingside
	rookFile := boardSize - 1
	if to.File < from.File {
		flag = FlagCastleQueenside
		rookFile = 0
	}
	rook := g.board.At(Square{File: rookFile, Rank: from.Rank})
	g.mustRelocate(rook, Square{File: (from.File + to.File) / 2, Rank: from.Rank})
	rook.HasMoved = true
	return flag
}

func (g *Game) endTurn() {
	g.turn = g.turn.Opponent()
	g.inCheck = g.kingAttacked(g.turn)
}

func (g *Game) kingAttacked(c Color) bool {
	king := g.board.king(c)
	return king != nil && Attacks(g.board, c.Opponent(), king.Square)
}

// mustRelocate moves p to a square the move generator reported reachable.
// A clash there means the board and generator disagree.
func (g *Game) mustRelocate(p *Piece, to Square) {
	if err := g.board.relocate(p, to); err != nil {
		panic(err)
	}
}
