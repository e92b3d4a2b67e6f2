package player

import (
	"context"
	"fmt"

	"connect4/game"
	"connect4/searcher"
)

type AI struct {
	piece  game.Piece
	finder searcher.MoveFinder
	name   string
}

// NewAI returns a player delegating to finder, typically a *searcher.Search.
func NewAI(piece game.Piece, finder searcher.MoveFinder) *AI {
	name := "ai"
	if s, ok := finder.(*searcher.Search); ok {
		name = fmt.Sprintf("%s(depth=%d)", s.Mode(), s.Depth())
	}
	return &AI{piece: piece, finder: finder, name: name}
}

func (p *AI) Piece() game.Piece {
	return p.piece
}

func (p *AI) String() string {
	return p.name
}

func (p *AI) GetMove(ctx context.Context, board game.Board) (int, error) {
	result, err := p.Analyze(ctx, board)
	if err != nil {
		return -1, err
	}
	return result.Column, nil
}

func (p *AI) Analyze(ctx context.Context, board game.Board) (searcher.Result, error) {
	result, err := p.finder.FindMove(ctx, board, p.piece)
	if err != nil {
		return searcher.Result{}, fmt.Errorf("%s failed to find a move: %w", p.name, err)
	}
	if !board.IsOpen(result.Column) {
		return searcher.Result{}, fmt.Errorf("%s chose column %d: %w", p.name, result.Column, game.ErrColumnFull)
	}
	return result, nil
}
