package notation

import (
	"reflect"
	"testing"

	"github.com/benbeisheim/chessrules-backend/internal/model"
)

func TestAlgebraic(t *testing.T) {
	cases := map[string]string{"2a": "a2", "4e": "e4", "8h": "h8", "1g": "g1"}
	for in, want := range cases {
		if got := Algebraic(model.MustSquare(in)); got != want {
			t.Errorf("Algebraic(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestSymbol(t *testing.T) {
	if got := Symbol(model.PieceView{Kind: model.King, Color: model.White}); got != "♔" {
		t.Errorf("white king = %q", got)
	}
	if got := Symbol(model.PieceView{Kind: model.Pawn, Color: model.Black}); got != "♟" {
		t.Errorf("black pawn = %q", got)
	}
}

func TestMoveText(t *testing.T) {
	pawn := &model.PieceView{Kind: model.Pawn, Color: model.Black}
	cases := []struct {
		rec  model.MoveRecord
		want string
	}{
		{model.MoveRecord{From: model.MustSquare("2e"), To: model.MustSquare("4e"), Kind: model.Pawn, Flag: model.FlagPlain}, "e2-e4"},
		{model.MoveRecord{From: model.MustSquare("1g"), To: model.MustSquare("3f"), Kind: model.Knight, Flag: model.FlagPlain}, "Ng1-f3"},
		{model.MoveRecord{From: model.MustSquare("1d"), To: model.MustSquare("5h"), Kind: model.Queen, Flag: model.FlagCapture, Captured: pawn}, "Qd1xh5"},
		{model.MoveRecord{From: model.MustSquare("5e"), To: model.MustSquare("6d"), Kind: model.Pawn, Flag: model.FlagEnPassant, Captured: pawn}, "e5xd6 e.p."},
		{model.MoveRecord{From: model.MustSquare("1e"), To: model.MustSquare("1g"), Kind: model.King, Flag: model.FlagCastleKingside}, "O-O"},
		{model.MoveRecord{From: model.MustSquare("8e"), To: model.MustSquare("8c"), Kind: model.King, Flag: model.FlagCastleQueenside}, "O-O-O"},
		{model.MoveRecord{From: model.MustSquare("7e"), To: model.MustSquare("8e"), Kind: model.Pawn, Flag: model.FlagPromotion, Promotion: model.Queen}, "e7-e8=Q"},
		{model.MoveRecord{From: model.MustSquare("7e"), To: model.MustSquare("8e"), Kind: model.Pawn, Flag: model.FlagPromotion}, "e7-e8"},
	}
	for _, c := range cases {
		if got := Move(c.rec); got != c.want {
			t.Errorf("Move(%+v) = %q, want %q", c.rec, got, c.want)
		}
	}
}

func TestMoveListFromGame(t *testing.T) {
	g := model.NewGame()
	for _, mv := range [][2]string{{"2e", "4e"}, {"7d", "5d"}, {"4e", "5d"}} {
		if _, err := g.ProposeMove(model.MustSquare(mv[0]), model.MustSquare(mv[1])); err != nil {
			t.Fatal(err)
		}
	}
	want := []string{"e2-e4", "d7-d5", "e4xd5"}
	if got := MoveList(g.History()); !reflect.DeepEqual(got, want) {
		t.Fatalf("MoveList = %v, want %v", got, want)
	}
}
