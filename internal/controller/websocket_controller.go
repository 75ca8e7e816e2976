package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/benbeisheim/chessrules-backend/internal/middleware"
	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
)

type WebSocketController struct {
	gameService *service.GameService
	logger      *log.Logger
}

func NewWebSocketController(gameService *service.GameService, logger *log.Logger) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
		logger:      logger,
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID, _ := c.Locals(middleware.PlayerIDKey).(string)

	// Register this connection with the game
	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		wsc.logger.Printf("game %s: failed to register connection: %v", gameID, err)
		c.WriteJSON(ws.ErrorMessage(err))
		c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, c)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			wsc.logger.Printf("game %s: read error for player %s: %v", gameID, playerID, err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			wsc.reply(gameID, playerID, ws.ErrorMessage(fmt.Errorf("%w: %v", errBadRequest, err)))
			continue
		}
		reply, err := wsc.handleMessage(gameID, playerID, msg)
		if err != nil {
			wsc.logger.Printf("game %s: %s from player %s rejected: %v", gameID, msg.Type, playerID, err)
			reply = ws.ErrorMessage(err)
		}
		if reply.Type != "" {
			wsc.reply(gameID, playerID, reply)
		}
	}
}

// handleMessage applies one incoming message. State changes reach every
// watcher through the session broadcast; the returned message, if any, is
// for the sender only.
func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) (ws.Message, error) {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move ws.MovePayload
		if err := decodePayload(msg.Payload, &move); err != nil {
			return ws.Message{}, err
		}
		res, _, err := wsc.gameService.HandleMove(gameID, playerID, move.From, move.To)
		if err != nil {
			return ws.Message{}, err
		}
		return ws.NewMessage(ws.MessageTypeMoveResult, res)

	case ws.MessageTypePromote:
		var promote ws.PromotePayload
		if err := decodePayload(msg.Payload, &promote); err != nil {
			return ws.Message{}, err
		}
		res, _, err := wsc.gameService.HandlePromotion(gameID, playerID, promote.Square, promote.Kind)
		if err != nil {
			return ws.Message{}, err
		}
		return ws.NewMessage(ws.MessageTypeMoveResult, res)

	case ws.MessageTypeLegalMoves:
		var query ws.LegalMovesPayload
		if err := decodePayload(msg.Payload, &query); err != nil {
			return ws.Message{}, err
		}
		moves, err := wsc.gameService.LegalMoves(gameID, query.Square)
		if err != nil {
			return ws.Message{}, err
		}
		query.Moves = &moves
		return ws.NewMessage(ws.MessageTypeLegalMoves, query)

	default:
		return ws.Message{}, fmt.Errorf("%w: unknown message type %q", errBadRequest, msg.Type)
	}
}

func (wsc *WebSocketController) reply(gameID, playerID string, msg ws.Message) {
	if err := wsc.gameService.Send(gameID, playerID, msg); err != nil {
		wsc.logger.Printf("game %s: failed to reply to player %s: %v", gameID, playerID, err)
	}
}

func decodePayload(payload json.RawMessage, out interface{}) error {
	if err := json.Unmarshal(payload, out); err != nil {
		if errors.Is(err, model.ErrInvalidSquare) {
			return err
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}
