package searcher

import (
	"math"

	"connect4/game"

	"gonum.org/v1/gonum/floats"
)

// chance averages the decision nodes reached by each legal opponent column, each with
// weight 1/len(columns). A possible loss ends the loop early since no other outcome can
// lift the expectation above it.
func (w *walker) chance(board game.Board, columns []int, toMove game.Piece, depth int) float64 {
	values := make([]float64, 0, len(columns))
	for _, column := range columns {
		_, score := w.expectimax(board.MustApply(column, toMove), toMove.Opponent(), depth-1, true)
		if math.IsInf(score, -1) {
			return game.Loss
		}
		values = append(values, score)
	}
	return expectation(values)
}

// expectation is the uniform mean of values. Sentinels are resolved before any
// arithmetic: Loss dominates, then Win, so the result is never NaN.
func expectation(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	won := false
	for _, v := range values {
		switch {
		case math.IsInf(v, -1):
			return game.Loss
		case math.IsInf(v, 1):
			won = true
		}
	}
	if won {
		return game.Win
	}
	return floats.Sum(values) / float64(len(values))
}
