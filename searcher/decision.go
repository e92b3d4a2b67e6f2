package searcher

import (
	"math"

	"connect4/experiments/metrics"
	"connect4/game"
)

// walker carries what every node of one root search needs. A new walker is made per root
// search, so nothing survives between searches.
type walker struct {
	root     game.Piece
	evaluate game.Evaluate
	metrics  metrics.Collector
	done     <-chan struct{} // Closed when the search is abandoned; nil never closes
}

// expand returns the columns to explore below board, or false when board is a leaf: the
// depth is spent, someone has won, the board is full or the search was abandoned.
func (w *walker) expand(board game.Board, depth int) ([]int, bool) {
	w.metrics.AddNode()
	if depth <= 0 || w.abandoned() || board.IsTerminal() {
		return nil, false
	}
	columns := board.LegalColumns()
	return columns, len(columns) > 0
}

// leaf scores board for the root player. Once abandoned the result is discarded, so
// nothing is evaluated.
func (w *walker) leaf(board game.Board) float64 {
	if w.abandoned() {
		return 0
	}
	w.metrics.AddLeaf()
	return w.evaluate(board, w.root)
}

func (w *walker) abandoned() bool {
	select {
	case <-w.done:
		return true
	default:
		return false
	}
}

// alphaBeta returns the best column for toMove and its value for the root player. Columns
// are visited center-out and only a strictly better value replaces the current best, so
// ties go to the first column visited.
func (w *walker) alphaBeta(board game.Board, toMove game.Piece, depth int, alpha, beta float64, maximizing bool) (int, float64) {
	columns, ok := w.expand(board, depth)
	if !ok {
		return noColumn, w.leaf(board)
	}

	best := noColumn
	value := math.Inf(1)
	if maximizing {
		value = math.Inf(-1)
	}
	for _, column := range columns {
		_, score := w.alphaBeta(board.MustApply(column, toMove), toMove.Opponent(), depth-1, alpha, beta, !maximizing)
		if maximizing {
			if best == noColumn || score > value {
				best, value = column, score
			}
			alpha = math.Max(alpha, value)
		} else {
			if best == noColumn || score < value {
				best, value = column, score
			}
			beta = math.Min(beta, value)
		}
		if alpha >= beta {
			w.metrics.AddCutoff()
			break
		}
	}
	return best, value
}

// minimax is alphaBeta without pruning: every column is searched at every node.
func (w *walker) minimax(board game.Board, toMove game.Piece, depth int, maximizing bool) (int, float64) {
	columns, ok := w.expand(board, depth)
	if !ok {
		return noColumn, w.leaf(board)
	}

	best := noColumn
	var value float64
	for _, column := range columns {
		_, score := w.minimax(board.MustApply(column, toMove), toMove.Opponent(), depth-1, !maximizing)
		better := score < value
		if maximizing {
			better = score > value
		}
		if best == noColumn || better {
			best, value = column, score
		}
	}
	return best, value
}

// expectimax alternates decision nodes for the root player with chance nodes where the
// opponent picks any legal column with equal probability. Decision nodes search every
// column: bounds from chance nodes below cannot prune safely.
func (w *walker) expectimax(board game.Board, toMove game.Piece, depth int, decision bool) (int, float64) {
	columns, ok := w.expand(board, depth)
	if !ok {
		return noColumn, w.leaf(board)
	}
	if !decision {
		return noColumn, w.chance(board, columns, toMove, depth)
	}

	best := noColumn
	value := math.Inf(-1)
	for _, column := range columns {
		_, score := w.expectimax(board.MustApply(column, toMove), toMove.Opponent(), depth-1, false)
		if best == noColumn || score > value {
			best, value = column, score
		}
	}
	return best, value
}
