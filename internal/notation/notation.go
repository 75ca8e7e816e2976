// Package notation renders engine moves and pieces the way the
// presentation shows them: long algebraic move text and unicode glyphs.
package notation

import (
	"fmt"
	"strings"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/notnil/chess"
)

var pieceTypes = map[model.PieceKind]chess.PieceType{
	model.King:   chess.King,
	model.Queen:  chess.Queen,
	model.Rook:   chess.Rook,
	model.Bishop: chess.Bishop,
	model.Knight: chess.Knight,
	model.Pawn:   chess.Pawn,
}

func pieceColor(c model.Color) chess.Color {
	if c == model.White {
		return chess.White
	}
	return chess.Black
}

// Algebraic converts a square to file-then-rank form, "2a" becoming "a2".
func Algebraic(sq model.Square) string {
	return chess.NewSquare(chess.File(sq.File), chess.Rank(sq.Rank)).String()
}

// Symbol is the unicode glyph of a piece, e.g. "♔" for the white king.
func Symbol(v model.PieceView) string {
	return chess.NewPiece(pieceTypes[v.Kind], pieceColor(v.Color)).String()
}

// Letter is the upper-case piece letter used in move text. Pawns have none.
func Letter(kind model.PieceKind) string {
	if kind == model.Pawn {
		return ""
	}
	return strings.ToUpper(pieceTypes[kind].String())
}

// Move renders a record such as "Ng1-f3", "e5xd6 e.p.", "O-O" or "e7-e8=Q".
func Move(m model.MoveRecord) string {
	switch m.Flag {
	case model.FlagCastleKingside:
		return "O-O"
	case model.FlagCastleQueenside:
		return "O-O-O"
	}
	sep := "-"
	if m.Captured != nil {
		sep = "x"
	}
	text := fmt.Sprintf("%s%s%s%s", Letter(m.Kind), Algebraic(m.From), sep, Algebraic(m.To))
	switch {
	case m.Flag == model.FlagEnPassant:
		text += " e.p."
	case m.Promotion != "":
		text += "=" + Letter(m.Promotion)
	}
	return text
}

// MoveList renders a whole history, one entry per move.
func MoveList(history []model.MoveRecord) []string {
	out := make([]string, 0, len(history))
	for _, m := range history {
		out = append(out, Move(m))
	}
	return out
}
