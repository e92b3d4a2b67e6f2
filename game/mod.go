package game

import (
	"math"
	"strconv"
)

// Piece is the content of a single cell: Empty or one of the two players.
type Piece int8

const (
	Empty Piece = iota
	Player1
	Player2
)

// Sentinel scores for decided positions, from the evaluating player's perspective.
var (
	Win  = math.Inf(1)
	Loss = math.Inf(-1)
)

// Evaluates the board to a heuristic utility for player. Win and Loss are reserved for
// boards where player or its opponent already has a line.
type Evaluate func(board Board, player Piece) float64

// Opponent returns the other player. Empty has no opponent.
func (p Piece) Opponent() Piece {
	switch p {
	case Player1:
		return Player2
	case Player2:
		return Player1
	}
	return Empty
}

func (p Piece) Valid() bool {
	return p == Player1 || p == Player2
}

func (p Piece) String() string {
	if p == Empty {
		return "."
	}
	return strconv.Itoa(int(p))
}

// ParsePiece parses "1" or "2".
func ParsePiece(s string) (Piece, error) {
	n, err := strconv.Atoi(s)
	if err != nil || !Piece(n).Valid() {
		return Empty, ErrInvalidPiece
	}
	return Piece(n), nil
}
