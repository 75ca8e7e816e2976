package controller

import (
	"errors"
	"fmt"

	"github.com/benbeisheim/chessrules-backend/internal/middleware"
	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/gofiber/fiber/v2"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

// MoveResponse pairs the engine's verdict with the state it produced.
type MoveResponse struct {
	Result model.MoveResult `json:"result"`
	State  service.GameView `json:"state"`
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	gameID, err := gc.gameService.CreateGame(middleware.PlayerID(c))
	if err != nil {
		return sendError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) DeleteGame(c *fiber.Ctx) error {
	if err := gc.gameService.DeleteGame(c.Params("gameId"), middleware.PlayerID(c)); err != nil {
		return sendError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) GetLegalMoves(c *fiber.Ctx) error {
	sq, err := model.ParseSquare(c.Params("square"))
	if err != nil {
		return sendError(c, err)
	}
	moves, err := gc.gameService.LegalMoves(c.Params("gameId"), sq)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(ws.LegalMovesPayload{Square: sq, Moves: &moves})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var req ws.MovePayload
	if err := parseBody(c, &req); err != nil {
		return sendError(c, err)
	}
	res, state, err := gc.gameService.HandleMove(c.Params("gameId"), middleware.PlayerID(c), req.From, req.To)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(MoveResponse{Result: res, State: state})
}

func (gc *GameController) Promote(c *fiber.Ctx) error {
	var req ws.PromotePayload
	if err := parseBody(c, &req); err != nil {
		return sendError(c, err)
	}
	res, state, err := gc.gameService.HandlePromotion(c.Params("gameId"), middleware.PlayerID(c), req.Square, req.Kind)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(MoveResponse{Result: res, State: state})
}

// parseBody decodes a JSON body. Malformed squares keep their own error so
// callers can tell them apart from broken JSON.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		if errors.Is(err, model.ErrInvalidSquare) {
			return err
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}
