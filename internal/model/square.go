package model

import (
	"errors"
	"fmt"
)

var ErrInvalidSquare = errors.New("invalid square")

const boardSize = 8

// Square is a board coordinate. File and Rank are zero-based, so "1a" is
// Square{File: 0, Rank: 0} and "8h" is Square{File: 7, Rank: 7}.
type Square struct {
	File int
	Rank int
}

// ParseSquare reads the canonical rank-then-file form, e.g. "2a".
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	sq := Square{File: int(s[1] - 'a'), Rank: int(s[0] - '1')}
	if s[1] < 'a' || s[0] < '1' || !sq.Valid() {
		return Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	return sq, nil
}

// MustSquare is ParseSquare for literals known to be valid.
func MustSquare(s string) Square {
	sq, err := ParseSquare(s)
	if err != nil {
		panic(err)
	}
	return sq
}

func (s Square) Valid() bool {
	return s.File >= 0 && s.File < boardSize && s.Rank >= 0 && s.Rank < boardSize
}

// Offset returns the square df files and dr ranks away. The second result
// is false when that square is off the board.
func (s Square) Offset(df, dr int) (Square, bool) {
	to := Square{File: s.File + df, Rank: s.Rank + dr}
	return to, to.Valid()
}

func (s Square) String() string {
	return fmt.Sprintf("%c%c", '1'+s.Rank, 'a'+s.File)
}

func (s Square) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d,%d", ErrInvalidSquare, s.File, s.Rank)
	}
	return []byte(s.String()), nil
}

func (s *Square) UnmarshalText(text []byte) error {
	sq, err := ParseSquare(string(text))
	if err != nil {
		return err
	}
	*s = sq
	return nil
}
