package service

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"sync"
	"testing"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
)

type fakeConn struct {
	mu       sync.Mutex
	messages []ws.Message
	closed   bool
	failing  bool
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing {
		return errors.New("broken pipe")
	}
	c.messages = append(c.messages, v.(ws.Message))
	return nil
}

func (c *fakeConn) WriteMessage(int, []byte) error { return nil }

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) last(t *testing.T) ws.Message {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.messages) == 0 {
		t.Fatalf("no messages written")
	}
	return c.messages[len(c.messages)-1]
}

func newTestService() (*GameService, *GameManager) {
	gm := NewGameManager(log.New(io.Discard, "", 0))
	return NewGameService(gm), gm
}

func sq(s string) model.Square { return model.MustSquare(s) }

func TestCreateAndFetchGame(t *testing.T) {
	gs, gm := newTestService()
	id, err := gs.CreateGame("alice")
	if err != nil {
		t.Fatal(err)
	}
	if gm.Count() != 1 {
		t.Fatalf("count = %d", gm.Count())
	}
	view, err := gs.GetGameState(id)
	if err != nil {
		t.Fatal(err)
	}
	if view.ID != id || view.Turn != model.White || len(view.Board) != 64 {
		t.Fatalf("view = %+v", view)
	}
	if v := view.Board[sq("1e")]; v == nil || v.Kind != model.King || v.Symbol != "♔" {
		t.Fatalf("1e = %+v", v)
	}
	if view.Board[sq("4d")] != nil {
		t.Fatalf("4d should be empty")
	}

	if _, err := gs.CreateGame(""); !errors.Is(err, ErrMissingPlayerID) {
		t.Fatalf("anonymous create error = %v", err)
	}
}

func TestUnknownGame(t *testing.T) {
	gs, _ := newTestService()
	if _, err := gs.GetGameState("nope"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("error = %v", err)
	}
	if _, _, err := gs.HandleMove("nope", "alice", sq("2e"), sq("4e")); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("error = %v", err)
	}
}

func TestOnlyOwnerMoves(t *testing.T) {
	gs, _ := newTestService()
	id, _ := gs.CreateGame("alice")
	if _, _, err := gs.HandleMove(id, "bob", sq("2e"), sq("4e")); !errors.Is(err, ErrNotGameOwner) {
		t.Fatalf("error = %v", err)
	}
	if _, _, err := gs.HandlePromotion(id, "bob", sq("8a"), model.Queen); !errors.Is(err, ErrNotGameOwner) {
		t.Fatalf("error = %v", err)
	}
	res, _, err := gs.HandleMove(id, "alice", sq("2e"), sq("4e"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Turn != model.Black {
		t.Fatalf("turn = %s", res.Turn)
	}
	// Hot seat: the owner also plays black.
	if _, _, err := gs.HandleMove(id, "alice", sq("7e"), sq("5e")); err != nil {
		t.Fatal(err)
	}
	view, _ := gs.GetGameState(id)
	if len(view.History) != 2 || view.History[0] != "e2-e4" || view.History[1] != "e7-e5" {
		t.Fatalf("history = %v", view.History)
	}
	if view.LastMove == nil || view.LastMove.To != sq("5e") {
		t.Fatalf("last move = %+v", view.LastMove)
	}
}

func TestEngineErrorsPassThrough(t *testing.T) {
	gs, _ := newTestService()
	id, _ := gs.CreateGame("alice")
	if _, _, err := gs.HandleMove(id, "alice", sq("7e"), sq("5e")); !errors.Is(err, model.ErrNotYourTurn) {
		t.Fatalf("error = %v", err)
	}
	if _, err := gs.LegalMoves(id, sq("5e")); !errors.Is(err, model.ErrEmptySquare) {
		t.Fatalf("error = %v", err)
	}
	moves, err := gs.LegalMoves(id, sq("1b"))
	if err != nil {
		t.Fatal(err)
	}
	if moves.Len() != 2 {
		t.Fatalf("knight has %d moves, want 2", moves.Len())
	}
}

func TestBroadcastAfterMove(t *testing.T) {
	gs, gm := newTestService()
	id, _ := gs.CreateGame("alice")
	owner, watcher := &fakeConn{}, &fakeConn{}
	if err := gs.RegisterConnection(id, "alice", owner); err != nil {
		t.Fatal(err)
	}
	if err := gs.RegisterConnection(id, "bob", watcher); err != nil {
		t.Fatal(err)
	}
	if msg := watcher.last(t); msg.Type != ws.MessageTypeGameState {
		t.Fatalf("initial message type = %s", msg.Type)
	}

	if _, _, err := gs.HandleMove(id, "alice", sq("2d"), sq("4d")); err != nil {
		t.Fatal(err)
	}
	for _, c := range []*fakeConn{owner, watcher} {
		msg := c.last(t)
		if msg.Type != ws.MessageTypeGameState {
			t.Fatalf("message type = %s", msg.Type)
		}
		var view GameView
		if err := json.Unmarshal(msg.Payload, &view); err != nil {
			t.Fatal(err)
		}
		if view.Turn != model.Black || view.Board[sq("4d")] == nil {
			t.Fatalf("broadcast view = %+v", view)
		}
	}

	session, _ := gm.GetGame(id)
	watcher.failing = true
	if _, _, err := gs.HandleMove(id, "alice", sq("7d"), sq("5d")); err != nil {
		t.Fatal(err)
	}
	if session.ConnectionCount() != 1 {
		t.Fatalf("failed connection not dropped, count = %d", session.ConnectionCount())
	}
}

func TestBroadcastsFollowMoveOrder(t *testing.T) {
	gs, _ := newTestService()
	id, _ := gs.CreateGame("alice")
	watcher := &fakeConn{}
	if err := gs.RegisterConnection(id, "bob", watcher); err != nil {
		t.Fatal(err)
	}

	// Knights shuffle back and forth; attempts that lose the race are
	// rejected by the engine and broadcast nothing.
	shuffle := [][2]string{{"1g", "3f"}, {"8g", "6f"}, {"3f", "1g"}, {"6f", "8g"}}
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				for _, m := range shuffle {
					gs.HandleMove(id, "alice", sq(m[0]), sq(m[1]))
				}
			}
		}()
	}
	wg.Wait()

	watcher.mu.Lock()
	messages := append([]ws.Message(nil), watcher.messages...)
	watcher.mu.Unlock()

	prev := -1
	for i, msg := range messages {
		var view GameView
		if err := json.Unmarshal(msg.Payload, &view); err != nil {
			t.Fatal(err)
		}
		if len(view.History) <= prev {
			t.Fatalf("message %d carries %d moves after one with %d", i, len(view.History), prev)
		}
		prev = len(view.History)
	}
	final, _ := gs.GetGameState(id)
	if prev != len(final.History) {
		t.Fatalf("last broadcast has %d moves, game has %d", prev, len(final.History))
	}
}

func TestDuplicateConnectionRejected(t *testing.T) {
	gs, gm := newTestService()
	id, _ := gs.CreateGame("alice")
	first, second := &fakeConn{}, &fakeConn{}
	gs.RegisterConnection(id, "alice", first)
	gs.RegisterConnection(id, "alice", second)
	if !second.closed || first.closed {
		t.Fatalf("want second closed, first open: first=%v second=%v", first.closed, second.closed)
	}

	gs.UnregisterConnection(id, "alice", second)
	session, _ := gm.GetGame(id)
	if session.ConnectionCount() != 1 {
		t.Fatalf("stale unregister removed the live connection")
	}
	gs.UnregisterConnection(id, "alice", first)
	if session.ConnectionCount() != 0 {
		t.Fatalf("connection not removed")
	}
}

func TestPromotionThroughService(t *testing.T) {
	_, gm := newTestService()
	b := model.NewEmptyBoard()
	b.Place(model.King, model.White, sq("1a"))
	b.Place(model.King, model.Black, sq("8h"))
	b.Place(model.Pawn, model.White, sq("7b"))
	game, err := model.NewGameFromBoard(b, model.White)
	if err != nil {
		t.Fatal(err)
	}
	session := gm.addSession("alice", game)
	gs := NewGameService(gm)

	res, _, err := gs.HandleMove(session.ID, "alice", sq("7b"), sq("8b"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != model.StatusPendingPromotion {
		t.Fatalf("status = %s", res.Status)
	}
	view, _ := gs.GetGameState(session.ID)
	if view.PendingPromotion == nil || *view.PendingPromotion != sq("8b") {
		t.Fatalf("pending = %v", view.PendingPromotion)
	}
	res, _, err = gs.HandlePromotion(session.ID, "alice", sq("8b"), model.Rook)
	if err != nil {
		t.Fatal(err)
	}
	if !res.InCheck {
		t.Fatalf("rook on 8b should check the king on 8h")
	}
	view, _ = gs.GetGameState(session.ID)
	if view.History[0] != "b7-b8=R" || view.PendingPromotion != nil {
		t.Fatalf("view = %+v", view)
	}
}

func TestRemoveGame(t *testing.T) {
	gs, gm := newTestService()
	id, _ := gs.CreateGame("alice")
	if err := gs.DeleteGame(id, "bob"); !errors.Is(err, ErrNotGameOwner) {
		t.Fatalf("error = %v", err)
	}
	if err := gs.DeleteGame(id, "alice"); err != nil {
		t.Fatal(err)
	}
	if gm.Count() != 0 {
		t.Fatalf("game not removed")
	}
	if err := gs.DeleteGame(id, "alice"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("error = %v", err)
	}
}
