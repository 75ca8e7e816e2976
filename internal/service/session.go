package service

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/notation"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
)

var ErrNotGameOwner = errors.New("only the player who created the game may move")

// Conn is the part of a websocket connection a session writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// The connections watching a specific game
type GameConnections struct {
	connections map[string]Conn // playerID -> connection
	mu          sync.Mutex
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]Conn),
	}
}

// Session is one game plus the clients watching it. The engine is
// single-threaded, so every call into it goes through mu. State messages are
// written while mu is held so watchers see them in move order; mu is always
// taken before connections.mu.
type Session struct {
	ID          string
	OwnerID     string
	CreatedAt   time.Time
	mu          sync.Mutex
	game        *model.Game
	connections *GameConnections
	logger      *log.Logger
}

func NewSession(id, ownerID string, game *model.Game, logger *log.Logger) *Session {
	return &Session{
		ID:          id,
		OwnerID:     ownerID,
		CreatedAt:   time.Now(),
		game:        game,
		connections: NewGameConnections(),
		logger:      logger,
	}
}

func (s *Session) State() GameView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return newGameView(s.ID, s.game)
}

func (s *Session) LegalMoves(sq model.Square) (model.MoveSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.LegalMoves(sq)
}

func (s *Session) Move(playerID string, from, to model.Square) (model.MoveResult, GameView, error) {
	if playerID != s.OwnerID {
		return model.MoveResult{}, GameView{}, ErrNotGameOwner
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.game.ProposeMove(from, to)
	if err != nil {
		return res, GameView{}, err
	}
	s.logResult(res)
	view := newGameView(s.ID, s.game)
	s.broadcastState(view)
	return res, view, nil
}

func (s *Session) Promote(playerID string, sq model.Square, kind model.PieceKind) (model.MoveResult, GameView, error) {
	if playerID != s.OwnerID {
		return model.MoveResult{}, GameView{}, ErrNotGameOwner
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.game.ApplyPromotion(sq, kind)
	if err != nil {
		return res, GameView{}, err
	}
	s.logResult(res)
	view := newGameView(s.ID, s.game)
	s.broadcastState(view)
	return res, view, nil
}

func (s *Session) logResult(res model.MoveResult) {
	s.logger.Printf("game %s: %s %s", s.ID, res.Move.Color, notation.Move(res.Move))
	if res.Move.Captured != nil {
		s.logger.Printf("game %s: %s %s captured on %s", s.ID, res.Move.Captured.Color, res.Move.Captured.Kind, res.Move.To)
	}
	switch res.Status {
	case model.StatusPendingPromotion:
		s.logger.Printf("game %s: %s pawn on %s is up for promotion", s.ID, res.Move.Color, res.PromotionSquare)
	case model.StatusGameOver:
		s.logger.Printf("game %s: %s king captured, %s wins", s.ID, res.Move.Captured.Color, *res.Winner)
	default:
		if res.InCheck {
			s.logger.Printf("game %s: %s is in check", s.ID, res.Turn)
		}
	}
}

// RegisterConnection adds a watcher and sends it the current state. A
// second connection for the same player is closed and the first is kept.
func (s *Session) RegisterConnection(playerID string, conn Conn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.connections.mu.Lock()
	if _, exists := s.connections.connections[playerID]; exists {
		s.connections.mu.Unlock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(
				websocket.CloseNormalClosure,
				"Connection already exists",
			),
		)
		conn.Close()
		return nil
	}
	s.connections.connections[playerID] = conn
	s.connections.mu.Unlock()
	s.logger.Printf("game %s: registered connection for player %s", s.ID, playerID)

	return s.Send(playerID, s.stateMessage(newGameView(s.ID, s.game)))
}

func (s *Session) UnregisterConnection(playerID string, conn Conn) {
	s.connections.mu.Lock()
	defer s.connections.mu.Unlock()

	// Only unregister if this is still the current connection
	if current, exists := s.connections.connections[playerID]; exists && current == conn {
		delete(s.connections.connections, playerID)
		s.logger.Printf("game %s: unregistered connection for player %s", s.ID, playerID)
	}
}

// Send writes msg to one watcher. Writes to a connection are serialised
// with broadcasts.
func (s *Session) Send(playerID string, msg ws.Message) error {
	s.connections.mu.Lock()
	defer s.connections.mu.Unlock()

	conn, exists := s.connections.connections[playerID]
	if !exists {
		return fmt.Errorf("player %s is not connected to game %s", playerID, s.ID)
	}
	return conn.WriteJSON(msg)
}

func (s *Session) ConnectionCount() int {
	s.connections.mu.Lock()
	defer s.connections.mu.Unlock()
	return len(s.connections.connections)
}

func (s *Session) stateMessage(view GameView) ws.Message {
	msg, err := ws.NewMessage(ws.MessageTypeGameState, view)
	if err != nil {
		s.logger.Printf("game %s: failed to marshal state: %v", s.ID, err)
		return ws.ErrorMessage(err)
	}
	return msg
}

func (s *Session) broadcastState(view GameView) {
	msg := s.stateMessage(view)

	s.connections.mu.Lock()
	defer s.connections.mu.Unlock()
	for playerID, conn := range s.connections.connections {
		if err := conn.WriteJSON(msg); err != nil {
			s.logger.Printf("game %s: failed to send state to player %s: %v", s.ID, playerID, err)
			delete(s.connections.connections, playerID)
		}
	}
}
