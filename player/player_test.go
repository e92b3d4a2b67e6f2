package player

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"connect4/game"
	"connect4/searcher"

	"github.com/stretchr/testify/require"
)

var fullRows = []string{
	"1122112",
	"1122112",
	"2211221",
	"1122112",
	"2211221",
	"2211221",
}

func fullBoard(t *testing.T) game.Board {
	t.Helper()
	b, err := game.FromRows(fullRows, game.StandardRunLength)
	require.NoError(t, err)
	return b
}

// Fills every column except 5.
func oneOpenColumn(t *testing.T) game.Board {
	t.Helper()
	rows := make([]string, len(fullRows))
	copy(rows, fullRows)
	rows[0] = "11221.2"
	b, err := game.FromRows(rows, game.StandardRunLength)
	require.NoError(t, err)
	return b
}

func TestHuman(t *testing.T) {
	ctx := context.Background()

	t.Run("reprompts until a legal column", func(t *testing.T) {
		var out bytes.Buffer
		p := NewHuman(game.Player1, strings.NewReader("x\n9\n5\n"), &out)

		column, err := p.GetMove(ctx, oneOpenColumn(t))

		require.NoError(t, err)
		require.Equal(t, 5, column)
		require.Equal(t, "Enter your move: Invalid move, choose one of [5]: Invalid move, choose one of [5]: ", out.String())
	})

	t.Run("full column is rejected", func(t *testing.T) {
		var out bytes.Buffer
		p := NewHuman(game.Player1, strings.NewReader("3\n"), &out)

		_, err := p.GetMove(ctx, oneOpenColumn(t))

		require.ErrorIs(t, err, ErrNoInput)
		require.Contains(t, out.String(), "Invalid move")
	})

	t.Run("legal columns are listed in index order", func(t *testing.T) {
		var out bytes.Buffer
		p := NewHuman(game.Player2, strings.NewReader("7\n 0 \n"), &out)

		column, err := p.GetMove(ctx, game.NewStandardBoard())

		require.NoError(t, err)
		require.Equal(t, 0, column)
		require.Contains(t, out.String(), "[0 1 2 3 4 5 6]")
	})

	t.Run("full board", func(t *testing.T) {
		p := NewHuman(game.Player1, strings.NewReader("3\n"), &bytes.Buffer{})
		_, err := p.GetMove(ctx, fullBoard(t))
		require.ErrorIs(t, err, game.ErrNoLegalMoves)
	})
}

func TestRandom(t *testing.T) {
	ctx := context.Background()

	t.Run("only legal columns", func(t *testing.T) {
		p := NewRandom(game.Player2, 3)
		b := oneOpenColumn(t)
		for i := 0; i < 20; i++ {
			column, err := p.GetMove(ctx, b)
			require.NoError(t, err)
			require.Equal(t, 5, column)
		}
	})

	t.Run("same seed same moves", func(t *testing.T) {
		a, b := NewRandom(game.Player1, 11), NewRandom(game.Player1, 11)
		board := game.NewStandardBoard()
		seen := map[int]bool{}
		for i := 0; i < 50; i++ {
			x, err := a.GetMove(ctx, board)
			require.NoError(t, err)
			y, err := b.GetMove(ctx, board)
			require.NoError(t, err)
			require.Equal(t, x, y)
			seen[x] = true
		}
		require.Greater(t, len(seen), 1, "Should not always pick the same column")
	})

	t.Run("full board", func(t *testing.T) {
		_, err := NewRandom(game.Player1, 1).GetMove(ctx, fullBoard(t))
		require.ErrorIs(t, err, game.ErrNoLegalMoves)
	})
}

func TestAI(t *testing.T) {
	ctx := context.Background()
	winning, err := game.FromRows([]string{
		".......",
		".......",
		".......",
		".......",
		"222....",
		"111....",
	}, game.StandardRunLength)
	require.NoError(t, err)

	t.Run("takes the win", func(t *testing.T) {
		for _, mode := range []searcher.Mode{searcher.AlphaBeta, searcher.Expectimax} {
			p := NewAI(game.Player1, searcher.NewSearch(searcher.WithMode(mode), searcher.WithDepth(2)))

			column, err := p.GetMove(ctx, winning)
			require.NoError(t, err)
			require.Equal(t, 3, column)

			result, err := p.Analyze(ctx, winning)
			require.NoError(t, err)
			require.Equal(t, game.Win, result.Score)
		}
	})

	t.Run("name", func(t *testing.T) {
		p := NewAI(game.Player2, searcher.NewSearch(searcher.WithMode(searcher.Expectimax), searcher.WithDepth(2)))
		require.Equal(t, "expectimax(depth=2)", p.String())
		require.Equal(t, game.Player2, p.Piece())
	})

	t.Run("full board", func(t *testing.T) {
		_, err := NewAI(game.Player1, searcher.NewSearch()).GetMove(ctx, fullBoard(t))
		require.ErrorIs(t, err, game.ErrNoLegalMoves)
	})
}

func TestChoose(t *testing.T) {
	ctx := context.Background()
	b := game.NewStandardBoard()

	result, err := Choose(ctx, NewAI(game.Player1, searcher.NewSearch(searcher.WithDepth(1), searcher.WithMetrics())), b)
	require.NoError(t, err)
	require.Equal(t, 3, result.Column)
	require.Greater(t, result.Metrics.Nodes, 0, "Search players should report metrics")

	result, err = Choose(ctx, NewRandom(game.Player1, 5), b)
	require.NoError(t, err)
	require.True(t, b.IsOpen(result.Column))
	require.Zero(t, result.Metrics.Nodes)
}
