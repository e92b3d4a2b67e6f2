package engine

import (
	"context"

	"connect4/experiments/metrics"
	"connect4/game"
)

type Engine interface {
	// Run plays a game until there's a winner, the board is full or the turn limit is
	// reached. The winner is game.Empty for a draw.
	Run(ctx context.Context) (winner game.Piece, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}
