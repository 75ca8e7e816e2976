package service

import (
	"errors"
	"fmt"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
)

var ErrMissingPlayerID = errors.New("player ID is required")

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

func (gs *GameService) CreateGame(playerID string) (string, error) {
	if playerID == "" {
		return "", fmt.Errorf("failed to create game: %w", ErrMissingPlayerID)
	}
	return gs.gameManager.CreateGame(playerID).ID, nil
}

func (gs *GameService) DeleteGame(gameID, playerID string) error {
	return gs.gameManager.RemoveGame(gameID, playerID)
}

func (gs *GameService) GetGameState(gameID string) (GameView, error) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return GameView{}, err
	}
	return session.State(), nil
}

func (gs *GameService) LegalMoves(gameID string, sq model.Square) (model.MoveSet, error) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.MoveSet{}, err
	}
	return session.LegalMoves(sq)
}

// HandleMove proposes a move and returns the verdict with the state it left.
func (gs *GameService) HandleMove(gameID, playerID string, from, to model.Square) (model.MoveResult, GameView, error) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.MoveResult{}, GameView{}, err
	}
	return session.Move(playerID, from, to)
}

func (gs *GameService) HandlePromotion(gameID, playerID string, sq model.Square, kind model.PieceKind) (model.MoveResult, GameView, error) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.MoveResult{}, GameView{}, err
	}
	return session.Promote(playerID, sq, kind)
}

func (gs *GameService) RegisterConnection(gameID, playerID string, conn Conn) error {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return session.RegisterConnection(playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID, playerID string, conn Conn) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return
	}
	session.UnregisterConnection(playerID, conn)
}

func (gs *GameService) Send(gameID, playerID string, msg ws.Message) error {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return session.Send(playerID, msg)
}
