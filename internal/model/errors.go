package model

import "errors"

// Rejections from the game. A rejected call never changes the game.
var (
	ErrEmptySquare        = errors.New("no piece on square")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrIllegalDestination = errors.New("illegal destination")
	ErrNoPendingPromotion = errors.New("no pending promotion")
	ErrInvalidPromotion   = errors.New("invalid promotion piece")
	ErrPromotionPending   = errors.New("promotion pending")
	ErrGameOver           = errors.New("game is over")
	ErrInvalidPosition    = errors.New("invalid starting position")
)
