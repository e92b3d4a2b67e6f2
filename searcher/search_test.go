package searcher

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"connect4/game"
	"connect4/meta"

	"github.com/stretchr/testify/require"
)

var modes = []Mode{AlphaBeta, Minimax, Expectimax}

func TestSearchWinInOne(t *testing.T) {
	b := mustRows(t,
		".......",
		".......",
		".......",
		".......",
		"222....",
		"111....",
	)

	for _, mode := range modes {
		for depth := 1; depth <= 4; depth++ {
			s := NewSearch(WithMode(mode), WithDepth(depth))

			got, err := s.Search(b, game.Player1)

			require.NoError(t, err)
			require.Equal(t, 3, got.Column, "%s at depth %d should complete the line", mode, depth)
			require.Equal(t, game.Win, got.Score, "%s at depth %d should see the win", mode, depth)
		}
	}
}

func TestSearchBlocksLoss(t *testing.T) {
	// Player 2 threatens column 6; every other move loses at depth 2.
	b := mustRows(t,
		".......",
		".......",
		".......",
		"......2",
		"1.....2",
		"11....2",
	)

	for _, mode := range []Mode{AlphaBeta, Minimax} {
		got, err := NewSearch(WithMode(mode), WithDepth(2)).Search(b, game.Player1)

		require.NoError(t, err)
		require.Equal(t, 6, got.Column, "%s should block", mode)
		require.Equal(t, -5.0, got.Score)
	}

	got, err := NewSearch(WithMode(Expectimax), WithDepth(2)).Search(b, game.Player1)
	require.NoError(t, err)
	require.Equal(t, 6, got.Column, "Expectimax should block a possible loss")
}

func TestSearchOpening(t *testing.T) {
	s := NewSearch(WithDepth(4), WithEvaluationFn(game.EvaluateWindows))

	got, err := s.Search(game.NewStandardBoard(), game.Player1)

	require.NoError(t, err)
	require.Equal(t, 3, got.Column, "Should open in the center")
	require.Equal(t, 45.0, got.Score)
}

func TestSearchErrors(t *testing.T) {
	full := mustRows(t,
		"1122112",
		"1122112",
		"2211221",
		"1122112",
		"2211221",
		"2211221",
	)

	t.Run("full board", func(t *testing.T) {
		_, err := NewSearch().Search(full, game.Player1)
		require.ErrorIs(t, err, game.ErrNoLegalMoves)

		_, err = NewSearch().FindMove(context.Background(), full, game.Player1)
		require.ErrorIs(t, err, game.ErrNoLegalMoves)
	})

	t.Run("invalid depth", func(t *testing.T) {
		for _, depth := range []int{0, -1} {
			_, err := NewSearch(WithDepth(depth)).Search(game.NewStandardBoard(), game.Player1)
			require.ErrorIs(t, err, game.ErrInvalidDepth)
		}
	})

	t.Run("invalid player", func(t *testing.T) {
		_, err := NewSearch().Search(game.NewStandardBoard(), game.Empty)
		require.ErrorIs(t, err, game.ErrInvalidPiece)
	})
}

func TestSearchAlreadyWon(t *testing.T) {
	won := mustRows(t,
		".......",
		".......",
		".......",
		".......",
		"222....",
		"1111...",
	)

	got, err := NewSearch().Search(won, game.Player2)

	require.NoError(t, err)
	require.Equal(t, 3, got.Column, "Decided boards should still return a legal column")
	require.Equal(t, game.Loss, got.Score)
}

func TestSearchDoesNotMutate(t *testing.T) {
	b := game.NewStandardBoard().MustApply(3, game.Player1).MustApply(2, game.Player2)
	before := b.Grid()

	for _, mode := range modes {
		_, err := NewSearch(WithMode(mode), WithDepth(3)).Search(b, game.Player1)
		require.NoError(t, err)
	}

	require.Equal(t, before, b.Grid(), "Search should not modify the caller's board")
}

func TestSearchMetrics(t *testing.T) {
	got, err := NewSearch(WithDepth(3), WithMetrics()).Search(game.NewStandardBoard(), game.Player1)

	require.NoError(t, err)
	require.Equal(t, "alphabeta", got.Metrics.Mode)
	require.Equal(t, 3, got.Metrics.Depth)
	require.Greater(t, got.Metrics.Nodes, 0)
	require.Greater(t, got.Metrics.Leaves, 0)
	require.False(t, got.Metrics.TimedOut)

	got, err = NewSearch(WithDepth(3)).Search(game.NewStandardBoard(), game.Player1)
	require.NoError(t, err)
	require.Zero(t, got.Metrics.Nodes, "Metrics are off by default")
}

func TestFindMove(t *testing.T) {
	b := game.NewStandardBoard().MustApply(3, game.Player1)

	t.Run("without deadline matches search", func(t *testing.T) {
		for _, mode := range modes {
			s := NewSearch(WithMode(mode), WithDepth(3))

			want, err := s.Search(b, game.Player2)
			require.NoError(t, err)
			got, err := s.FindMove(context.Background(), b, game.Player2)
			require.NoError(t, err)

			require.Equal(t, want.Column, got.Column)
			require.Equal(t, want.Score, got.Score)
			require.False(t, got.Metrics.TimedOut)
		}
	})

	t.Run("cancelled context falls back to the center", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		got, err := NewSearch(WithDepth(6)).FindMove(ctx, b, game.Player2)

		require.NoError(t, err)
		require.Equal(t, 3, got.Column)
		require.True(t, got.Metrics.TimedOut)
		require.Equal(t, game.EvaluateWindows(b.MustApply(3, game.Player2), game.Player2), got.Score)
	})

	t.Run("abandoned search stops evaluating", func(t *testing.T) {
		var evaluations atomic.Int64
		counting := func(board game.Board, player game.Piece) float64 {
			evaluations.Add(1)
			return game.EvaluateWindows(board, player)
		}
		s := NewSearch(WithMode(Minimax), WithDepth(9), WithEvaluationFn(counting), WithTimeout(20*time.Millisecond))

		got, err := s.FindMove(context.Background(), b, game.Player2)

		require.NoError(t, err)
		require.True(t, got.Metrics.TimedOut)
		require.Equal(t, 3, got.Column)
		require.Eventually(t, func() bool {
			before := evaluations.Load()
			time.Sleep(20 * time.Millisecond)
			return evaluations.Load() == before
		}, 2*time.Second, 10*time.Millisecond, "The background walk should stop once the deadline passes")
	})

	t.Run("generous timeout completes", func(t *testing.T) {
		got, err := NewSearch(WithDepth(2), WithTimeout(time.Minute)).FindMove(context.Background(), b, game.Player2)

		require.NoError(t, err)
		require.False(t, got.Metrics.TimedOut)
	})
}

func TestParseMode(t *testing.T) {
	for _, mode := range modes {
		got, err := ParseMode(mode.String())
		require.NoError(t, err)
		require.Equal(t, mode, got)
	}

	got, err := ParseMode("")
	require.NoError(t, err)
	require.Equal(t, AlphaBeta, got)

	_, err = ParseMode("mcts")
	require.Error(t, err)
}

func TestFromConfig(t *testing.T) {
	t.Run("expectimax defaults", func(t *testing.T) {
		s, err := FromConfig(meta.AgentConfig{Kind: meta.KIND_EXPECTIMAX})
		require.NoError(t, err)
		require.Equal(t, Expectimax, s.Mode())
		require.Equal(t, meta.EXPECTIMAX_DEPTH, s.Depth())
	})

	t.Run("explicit depth and evaluator", func(t *testing.T) {
		s, err := FromConfig(meta.AgentConfig{Kind: meta.KIND_MINIMAX, Depth: 2, Evaluator: "threats"})
		require.NoError(t, err)
		require.Equal(t, Minimax, s.Mode())
		require.Equal(t, 2, s.Depth())
	})

	t.Run("invalid configs", func(t *testing.T) {
		_, err := FromConfig(meta.AgentConfig{Kind: meta.KIND_RANDOM})
		require.Error(t, err)
		_, err = FromConfig(meta.AgentConfig{Kind: meta.KIND_ALPHA_BETA, Evaluator: "material"})
		require.Error(t, err)
		_, err = FromConfig(meta.AgentConfig{Kind: meta.KIND_ALPHA_BETA, Depth: -2})
		require.ErrorIs(t, err, game.ErrInvalidDepth)
	})
}
