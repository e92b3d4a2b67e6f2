package player

import (
	"context"

	"connect4/game"
	"connect4/searcher"
)

// Player chooses moves for one seat of a game.
type Player interface {
	// GetMove returns a column that is legal on board, or game.ErrNoLegalMoves when the
	// board is full.
	GetMove(ctx context.Context, board game.Board) (int, error)
	Piece() game.Piece
	String() string
}

// Analyzer is a Player backed by a search, which can also report the score and search
// metrics behind its move.
type Analyzer interface {
	Player
	Analyze(ctx context.Context, board game.Board) (searcher.Result, error)
}

// Choose asks p for a move, using Analyze when p supports it.
func Choose(ctx context.Context, p Player, board game.Board) (searcher.Result, error) {
	if a, ok := p.(Analyzer); ok {
		return a.Analyze(ctx, board)
	}
	column, err := p.GetMove(ctx, board)
	if err != nil {
		return searcher.Result{}, err
	}
	return searcher.Result{Column: column}, nil
}
