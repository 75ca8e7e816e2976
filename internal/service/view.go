package service

import (
	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/notation"
)

// SquareView is an occupied square as the presentation draws it.
type SquareView struct {
	Kind   model.PieceKind `json:"kind"`
	Color  model.Color     `json:"color"`
	Symbol string          `json:"symbol"`
}

type GameView struct {
	ID               string                       `json:"id"`
	Board            map[model.Square]*SquareView `json:"board"`
	Turn             model.Color                  `json:"turn"`
	InCheck          bool                         `json:"inCheck"`
	Winner           *model.Color                 `json:"winner"`
	PendingPromotion *model.Square                `json:"pendingPromotion"`
	LastMove         *model.MoveRecord            `json:"lastMove"`
	History          []string                     `json:"history"`
}

func newGameView(id string, g *model.Game) GameView {
	snap := g.BoardSnapshot()
	board := make(map[model.Square]*SquareView, len(snap))
	for sq, piece := range snap {
		if piece == nil {
			board[sq] = nil
			continue
		}
		board[sq] = &SquareView{Kind: piece.Kind, Color: piece.Color, Symbol: notation.Symbol(*piece)}
	}

	view := GameView{
		ID:      id,
		Board:   board,
		Turn:    g.CurrentTurn(),
		InCheck: g.IsInCheck(),
		History: notation.MoveList(g.History()),
	}
	if winner, ok := g.Winner(); ok {
		view.Winner = &winner
	}
	if sq, ok := g.PendingPromotion(); ok {
		view.PendingPromotion = &sq
	}
	if last, ok := g.LastMove(); ok {
		view.LastMove = &last
	}
	return view
}
