package controller

import (
	"errors"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

var errBadRequest = errors.New("invalid request body")

type errorKind struct {
	err    error
	status int
	code   string
}

var errorKinds = []errorKind{
	{model.ErrInvalidSquare, fiber.StatusBadRequest, "invalidSquare"},
	{model.ErrInvalidPromotion, fiber.StatusBadRequest, "invalidPromotion"},
	{errBadRequest, fiber.StatusBadRequest, "badRequest"},
	{service.ErrMissingPlayerID, fiber.StatusUnauthorized, "missingPlayerId"},
	{service.ErrNotGameOwner, fiber.StatusForbidden, "notGameOwner"},
	{service.ErrGameNotFound, fiber.StatusNotFound, "gameNotFound"},
	{model.ErrEmptySquare, fiber.StatusUnprocessableEntity, "emptySquare"},
	{model.ErrIllegalDestination, fiber.StatusUnprocessableEntity, "illegalDestination"},
	{model.ErrNotYourTurn, fiber.StatusConflict, "notYourTurn"},
	{model.ErrPromotionPending, fiber.StatusConflict, "promotionPending"},
	{model.ErrNoPendingPromotion, fiber.StatusConflict, "noPendingPromotion"},
	{model.ErrGameOver, fiber.StatusConflict, "gameOver"},
}

func classify(err error) (int, string) {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.status, k.code
		}
	}
	return fiber.StatusInternalServerError, "internal"
}

func sendError(c *fiber.Ctx, err error) error {
	status, code := classify(err)
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
