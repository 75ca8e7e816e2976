package model

import (
	"errors"
	"fmt"
)

var ErrSquareOccupied = errors.New("square already occupied")

type PieceKind string

const (
	King   PieceKind = "king"
	Queen  PieceKind = "queen"
	Rook   PieceKind = "rook"
	Bishop PieceKind = "bishop"
	Knight PieceKind = "knight"
	Pawn   PieceKind = "pawn"
)

func (k PieceKind) Valid() bool {
	switch k {
	case King, Queen, Rook, Bishop, Knight, Pawn:
		return true
	}
	return false
}

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// forward is the rank direction pawns of this color advance in.
func (c Color) forward() int {
	if c == White {
		return 1
	}
	return -1
}

func (c Color) backRank() int {
	if c == White {
		return 0
	}
	return boardSize - 1
}

func (c Color) pawnRank() int {
	return c.backRank() + c.forward()
}

// promotionRank is the far rank a pawn of this color promotes on.
func (c Color) promotionRank() int {
	return c.Opponent().backRank()
}

type Piece struct {
	Kind     PieceKind
	Color    Color
	Square   Square
	HasMoved bool
}

func (p *Piece) View() *PieceView {
	return &PieceView{Kind: p.Kind, Color: p.Color}
}

// PieceView is the read-only face of a piece handed to callers.
type PieceView struct {
	Kind  PieceKind `json:"kind"`
	Color Color     `json:"color"`
}

// Snapshot maps every one of the 64 squares to its occupant, nil if empty.
type Snapshot map[Square]*PieceView

type Board struct {
	squares [boardSize][boardSize]*Piece
}

func NewEmptyBoard() *Board {
	return &Board{}
}

var backRankOrder = [boardSize]PieceKind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewBoard returns the standard starting position.
func NewBoard() *Board {
	b := NewEmptyBoard()
	for _, c := range []Color{White, Black} {
		for file, kind := range backRankOrder {
			b.squares[c.backRank()][file] = &Piece{Kind: kind, Color: c, Square: Square{File: file, Rank: c.backRank()}}
			b.squares[c.pawnRank()][file] = &Piece{Kind: Pawn, Color: c, Square: Square{File: file, Rank: c.pawnRank()}}
		}
	}
	return b
}

// At returns the piece on sq, or nil. Off-board squares are always empty.
func (b *Board) At(sq Square) *Piece {
	if !sq.Valid() {
		return nil
	}
	return b.squares[sq.Rank][sq.File]
}

// Place puts a new piece on sq. It is meant for setting up positions.
func (b *Board) Place(kind PieceKind, color Color, sq Square) (*Piece, error) {
	if !sq.Valid() {
		return nil, fmt.Errorf("%w: %d,%d", ErrInvalidSquare, sq.File, sq.Rank)
	}
	if b.At(sq) != nil {
		return nil, fmt.Errorf("%w: %s", ErrSquareOccupied, sq)
	}
	p := &Piece{Kind: kind, Color: color, Square: sq}
	b.squares[sq.Rank][sq.File] = p
	return p, nil
}

func (b *Board) remove(sq Square) *Piece {
	p := b.At(sq)
	if p != nil {
		b.squares[sq.Rank][sq.File] = nil
	}
	return p
}

// relocate moves p to an empty square.
func (b *Board) relocate(p *Piece, to Square) error {
	if occupant := b.At(to); occupant != nil && occupant != p {
		return fmt.Errorf("%w: %s", ErrSquareOccupied, to)
	}
	b.squares[p.Square.Rank][p.Square.File] = nil
	b.squares[to.Rank][to.File] = p
	p.Square = to
	return nil
}

func (b *Board) pieces(c Color) []*Piece {
	var out []*Piece
	for rank := 0; rank < boardSize; rank++ {
		for file := 0; file < boardSize; file++ {
			if p := b.squares[rank][file]; p != nil && p.Color == c {
				out = append(out, p)
			}
		}
	}
	return out
}

func (b *Board) king(c Color) *Piece {
	for _, p := range b.pieces(c) {
		if p.Kind == King {
			return p
		}
	}
	return nil
}

func (b *Board) count(kind PieceKind, c Color) int {
	n := 0
	for _, p := range b.pieces(c) {
		if p.Kind == kind {
			n++
		}
	}
	return n
}

func (b *Board) Snapshot() Snapshot {
	snap := make(Snapshot, boardSize*boardSize)
	for rank := 0; rank < boardSize; rank++ {
		for file := 0; file < boardSize; file++ {
			var view *PieceView
			if p := b.squares[rank][file]; p != nil {
				view = p.View()
			}
			snap[Square{File: file, Rank: rank}] = view
		}
	}
	return snap
}
