package searcher

import (
	"context"
	"fmt"
	"math"
	"time"

	"connect4/experiments/metrics"
	"connect4/game"
	"connect4/meta"

	"github.com/rs/zerolog/log"
)

type Option func(s *Search)

// Search is a fixed-depth game-tree search. It keeps configuration only; every call
// builds its tree from scratch on private board copies.
type Search struct {
	mode       Mode
	depth      int
	evaluate   game.Evaluate
	timeout    time.Duration
	newMetrics func() metrics.Collector
}

func WithMode(mode Mode) Option {
	return func(s *Search) {
		s.mode = mode
	}
}

// WithDepth sets the number of plies searched. Non-positive depths are reported by
// Search as game.ErrInvalidDepth.
func WithDepth(depth int) Option {
	return func(s *Search) {
		s.depth = depth
	}
}

func WithEvaluationFn(evaluate game.Evaluate) Option {
	return func(s *Search) {
		if evaluate != nil {
			s.evaluate = evaluate
		}
	}
}

// WithTimeout bounds FindMove. Zero disables the bound.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Search) {
		if timeout >= 0 {
			s.timeout = timeout
		}
	}
}

func WithMetrics() Option {
	return func(s *Search) {
		s.newMetrics = metrics.NewCollector
	}
}

func NewSearch(options ...Option) *Search {
	s := &Search{ // Default values
		mode:       AlphaBeta,
		depth:      meta.ALPHA_BETA_DEPTH,
		evaluate:   game.EvaluateWindows,
		timeout:    meta.SEARCH_TIMEOUT,
		newMetrics: metrics.NewDummyCollector,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *Search) Mode() Mode {
	return s.mode
}

func (s *Search) Depth() int {
	return s.depth
}

// Search explores the tree below board for player and returns the chosen column.
func (s *Search) Search(board game.Board, player game.Piece) (Result, error) {
	columns, err := s.validate(board, player)
	if err != nil {
		return Result{}, err
	}
	return s.run(nil, board, player, columns), nil
}

// FindMove is Search under the configured timeout and ctx. When either ends first, the
// unfinished search is abandoned and the center-most legal column is returned. The
// abandoned walk unwinds without visiting further nodes.
func (s *Search) FindMove(ctx context.Context, board game.Board, player game.Piece) (Result, error) {
	columns, err := s.validate(board, player)
	if err != nil {
		return Result{}, err
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	if ctx.Err() != nil {
		return s.fallback(board, player, columns, ctx.Err()), nil
	}

	done := make(chan Result, 1) // Buffered so an abandoned search can still finish
	go func() {
		done <- s.run(ctx.Done(), board, player, columns)
	}()

	select {
	case result := <-done:
		if ctx.Err() != nil { // Finished on an abandoned walk, the result is partial
			return s.fallback(board, player, columns, ctx.Err()), nil
		}
		return result, nil
	case <-ctx.Done():
		return s.fallback(board, player, columns, ctx.Err()), nil
	}
}

func (s *Search) validate(board game.Board, player game.Piece) ([]int, error) {
	if s.depth <= 0 {
		return nil, fmt.Errorf("%w: got %d", game.ErrInvalidDepth, s.depth)
	}
	if !player.Valid() {
		return nil, fmt.Errorf("%w: cannot search for %d", game.ErrInvalidPiece, player)
	}
	columns := board.LegalColumns()
	if len(columns) == 0 {
		return nil, game.ErrNoLegalMoves
	}
	return columns, nil
}

func (s *Search) run(done <-chan struct{}, board game.Board, player game.Piece, columns []int) Result {
	collector := s.newMetrics()
	collector.Start(s.mode.String(), s.depth)
	w := &walker{root: player, evaluate: s.evaluate, metrics: collector, done: done}

	var column int
	var score float64
	switch s.mode {
	case Minimax:
		column, score = w.minimax(board, player, s.depth, true)
	case Expectimax:
		column, score = w.expectimax(board, player, s.depth, true)
	default:
		column, score = w.alphaBeta(board, player, s.depth, math.Inf(-1), math.Inf(1), true)
	}
	if column == noColumn { // Board already decided, nothing was expanded
		column = columns[0]
	}

	metric := collector.Complete()
	if w.abandoned() {
		log.Debug().Str("mode", s.mode.String()).Int("nodes", metric.Nodes).Msg("search abandoned")
		return Result{Column: column, Score: score, Metrics: metric}
	}
	log.Debug().
		Str("mode", s.mode.String()).
		Int("depth", s.depth).
		Int("player", int(player)).
		Int("column", column).
		Float64("score", score).
		Int("nodes", metric.Nodes).
		Int("cutoffs", metric.Cutoffs).
		Dur("duration", metric.Duration).
		Msg("search complete")

	return Result{Column: column, Score: score, Metrics: metric}
}

func (s *Search) fallback(board game.Board, player game.Piece, columns []int, cause error) Result {
	column := columns[0]
	log.Warn().Err(cause).Msgf("search for player %d abandoned, playing column %d", player, column)
	return Result{
		Column: column,
		Score:  s.evaluate(board.MustApply(column, player), player),
		Metrics: metrics.SearchMetric{
			Mode:     s.mode.String(),
			Depth:    s.depth,
			TimedOut: true,
		},
	}
}
