// service/game_manager.go
package service

import (
	"errors"
	"log"
	"sync"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/google/uuid"
)

var ErrGameNotFound = errors.New("game not found")

type GameManager struct {
	games  map[string]*Session
	mu     sync.RWMutex
	logger *log.Logger
}

func NewGameManager(logger *log.Logger) *GameManager {
	return &GameManager{
		games:  make(map[string]*Session),
		logger: logger,
	}
}

// CreateGame starts a game from the standard position owned by ownerID.
func (gm *GameManager) CreateGame(ownerID string) *Session {
	return gm.addSession(ownerID, model.NewGame())
}

func (gm *GameManager) addSession(ownerID string, game *model.Game) *Session {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	gameID := uuid.New().String()
	for gm.games[gameID] != nil {
		gameID = uuid.New().String()
	}
	session := NewSession(gameID, ownerID, game, gm.logger)
	gm.games[gameID] = session
	gm.logger.Printf("game %s: created for player %s", gameID, ownerID)
	return session
}

func (gm *GameManager) GetGame(gameID string) (*Session, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	session, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}
	return session, nil
}

// RemoveGame forgets a game. Only its owner may remove it.
func (gm *GameManager) RemoveGame(gameID, playerID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	session, exists := gm.games[gameID]
	if !exists {
		return ErrGameNotFound
	}
	if session.OwnerID != playerID {
		return ErrNotGameOwner
	}
	delete(gm.games, gameID)
	gm.logger.Printf("game %s: removed", gameID)
	return nil
}

func (gm *GameManager) Count() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.games)
}
