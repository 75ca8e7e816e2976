package model

type MoveFlag string

const (
	FlagPlain           MoveFlag = "plain"
	FlagCapture         MoveFlag = "capture"
	FlagEnPassant       MoveFlag = "enPassant"
	FlagCastleKingside  MoveFlag = "castleKingside"
	FlagCastleQueenside MoveFlag = "castleQueenside"
	FlagPromotion       MoveFlag = "promotion"
)

type MoveRecord struct {
	From     Square     `json:"from"`
	To       Square     `json:"to"`
	Kind     PieceKind  `json:"kind"`
	Color    Color      `json:"color"`
	Flag     MoveFlag   `json:"flag"`
	Captured *PieceView `json:"captured,omitempty"`
	// Promotion is the chosen piece once a promotion has been applied.
	Promotion PieceKind `json:"promotion,omitempty"`
}

type MoveStatus string

const (
	StatusMoved            MoveStatus = "moved"
	StatusPendingPromotion MoveStatus = "pendingPromotion"
	StatusGameOver         MoveStatus = "gameOver"
)

// MoveResult is what a successful ProposeMove or ApplyPromotion reports.
type MoveResult struct {
	Status          MoveStatus `json:"status"`
	Move            MoveRecord `json:"move"`
	Turn            Color      `json:"turn"`
	// InCheck is evaluated once the turn passes. It is false while a
	// promotion is pending.
	InCheck         bool       `json:"inCheck"`
	PromotionSquare *Square    `json:"promotionSquare,omitempty"`
	Winner          *Color     `json:"winner,omitempty"`
}
