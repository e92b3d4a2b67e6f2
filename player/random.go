package player

import (
	"context"

	"connect4/game"

	"golang.org/x/exp/rand"
)

// Random plays a uniformly random legal column.
type Random struct {
	piece game.Piece
	rng   *rand.Rand
}

// NewRandom returns a random player; equal seeds replay equal games.
func NewRandom(piece game.Piece, seed uint64) *Random {
	return &Random{piece: piece, rng: rand.New(rand.NewSource(seed))}
}

func (p *Random) Piece() game.Piece {
	return p.piece
}

func (p *Random) String() string {
	return "random"
}

func (p *Random) GetMove(_ context.Context, board game.Board) (int, error) {
	columns := board.LegalColumns()
	if len(columns) == 0 {
		return -1, game.ErrNoLegalMoves
	}
	return columns[p.rng.Intn(len(columns))], nil
}
