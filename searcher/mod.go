package searcher

import (
	"context"
	"fmt"

	"connect4/experiments/metrics"
	"connect4/game"
)

// Mode selects the tree walk used for a search.
type Mode int

const (
	AlphaBeta  Mode = iota // Minimax with alpha-beta pruning, deterministic opponent
	Minimax                // Unpruned minimax, same values as AlphaBeta
	Expectimax             // Uniformly random opponent
)

// noColumn is returned by nodes that did not choose a move (leaves and chance nodes).
const noColumn = -1

func (m Mode) String() string {
	switch m {
	case AlphaBeta:
		return "alphabeta"
	case Minimax:
		return "minimax"
	case Expectimax:
		return "expectimax"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

func ParseMode(s string) (Mode, error) {
	switch s {
	case "alphabeta", "alpha_beta", "":
		return AlphaBeta, nil
	case "minimax":
		return Minimax, nil
	case "expectimax":
		return Expectimax, nil
	}
	return AlphaBeta, fmt.Errorf("unknown search mode %q", s)
}

// Result is the move chosen by a root search and its score from the searching player's
// perspective.
type Result struct {
	Column  int
	Score   float64
	Metrics metrics.SearchMetric
}

// MoveFinder chooses a column for player on a board snapshot.
type MoveFinder interface {
	FindMove(ctx context.Context, board game.Board, player game.Piece) (Result, error)
}
