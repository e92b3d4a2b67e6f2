package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// A full 6x7 board with 21 pieces each and no line for either player.
var drawnRows = []string{
	"1122112",
	"1122112",
	"2211221",
	"1122112",
	"2211221",
	"2211221",
}

func mustRows(t *testing.T, rows ...string) Board {
	t.Helper()
	b, err := FromRows(rows, StandardRunLength)
	require.NoError(t, err)
	return b
}

// requireGravity checks that every column is a contiguous run of pieces from the bottom.
func requireGravity(t *testing.T, b Board) {
	t.Helper()
	for c := 0; c < b.Columns(); c++ {
		seenEmpty := false
		for r := b.Rows() - 1; r >= 0; r-- {
			if b.At(r, c) == Empty {
				seenEmpty = true
				continue
			}
			require.False(t, seenEmpty, "Column %d has a piece floating at row %d", c, r)
		}
	}
}

func TestLegalColumns(t *testing.T) {
	t.Run("center-out order on an empty standard board", func(t *testing.T) {
		b := NewStandardBoard()

		require.Equal(t, []int{3, 2, 4, 1, 5, 0, 6}, b.LegalColumns(), "Columns should be sorted by distance from the center")
	})

	t.Run("center-out order on an even width", func(t *testing.T) {
		b, err := NewBoard(Rules{Rows: 4, Columns: 6, RunLength: 4})
		require.NoError(t, err)

		require.Equal(t, []int{3, 2, 4, 1, 5, 0}, b.LegalColumns(), "Ties should break toward the lower index")
	})

	t.Run("skipping full columns", func(t *testing.T) {
		b := mustRows(t,
			"...1...",
			"...2...",
			"...1...",
			"...2...",
			"...1..2",
			"...2..1",
		)

		require.Equal(t, []int{2, 4, 1, 5, 0, 6}, b.LegalColumns(), "Full column 3 should not be legal")
	})

	t.Run("no columns on a full board", func(t *testing.T) {
		b := mustRows(t, drawnRows...)

		require.Empty(t, b.LegalColumns(), "Full board should have no legal columns")
	})
}

func TestApply(t *testing.T) {
	t.Run("dropping into an empty column", func(t *testing.T) {
		b := NewStandardBoard()

		row, err := b.DropRow(3)
		require.NoError(t, err)
		require.Equal(t, 5, row, "First piece should land on the bottom row")

		child, err := b.Apply(3, Player1)
		require.NoError(t, err)
		require.Equal(t, Player1, child.At(5, 3), "Piece should be placed at the drop row")
		require.Equal(t, Empty, b.At(5, 3), "Parent board should not change")

		row, err = child.DropRow(3)
		require.NoError(t, err)
		require.Equal(t, 4, row, "Next piece should stack on top")
	})

	t.Run("sibling boards do not share cells", func(t *testing.T) {
		b := NewStandardBoard()
		left := b.MustApply(2, Player1)
		right := b.MustApply(4, Player2)

		require.Equal(t, Empty, left.At(5, 4), "Left branch should not see the right branch's piece")
		require.Equal(t, Empty, right.At(5, 2), "Right branch should not see the left branch's piece")
	})

	t.Run("dropping into a full column", func(t *testing.T) {
		b := NewStandardBoard()
		piece := Player1
		for i := 0; i < b.Rows(); i++ {
			b = b.MustApply(0, piece)
			piece = piece.Opponent()
		}

		_, err := b.DropRow(0)
		require.ErrorIs(t, err, ErrColumnFull)
		_, err = b.Apply(0, piece)
		require.ErrorIs(t, err, ErrColumnFull)
		require.Panics(t, func() { b.MustApply(0, piece) }, "MustApply should panic on a full column")
	})

	t.Run("rejecting out of range columns and empty pieces", func(t *testing.T) {
		b := NewStandardBoard()

		_, err := b.Apply(-1, Player1)
		require.ErrorIs(t, err, ErrInvalidColumn)
		_, err = b.Apply(7, Player1)
		require.ErrorIs(t, err, ErrInvalidColumn)
		_, err = b.Apply(0, Empty)
		require.ErrorIs(t, err, ErrInvalidPiece)
	})

	t.Run("keeping gravity over random move sequences", func(t *testing.T) {
		rng := rand.New(rand.NewSource(7))
		for game := 0; game < 50; game++ {
			b := NewStandardBoard()
			piece := Player1
			for {
				columns := b.LegalColumns()
				if len(columns) == 0 {
					break
				}
				b = b.MustApply(columns[rng.Intn(len(columns))], piece)
				piece = piece.Opponent()
				requireGravity(t, b)
			}
			require.True(t, b.IsFull(), "Random game should fill the board")
		}
	})
}

func TestFromRows(t *testing.T) {
	t.Run("rejecting a floating piece", func(t *testing.T) {
		_, err := FromRows([]string{
			".......",
			".......",
			".......",
			"...1...",
			".......",
			"...2...",
		}, StandardRunLength)

		require.ErrorIs(t, err, ErrInvalidBoard)
	})

	t.Run("rejecting ragged rows", func(t *testing.T) {
		_, err := FromRows([]string{"....", "..."}, 3)

		require.ErrorIs(t, err, ErrInvalidBoard)
	})

	t.Run("rejecting unknown cells", func(t *testing.T) {
		_, err := FromRows([]string{"..x."}, 3)

		require.ErrorIs(t, err, ErrInvalidPiece)
	})
}

func TestHasLine(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		want Piece
	}{
		{
			name: "horizontal",
			rows: []string{
				".......",
				".......",
				".......",
				".......",
				"...222.",
				"...1111",
			},
			want: Player1,
		},
		{
			name: "vertical",
			rows: []string{
				".......",
				".......",
				"2......",
				"2...1..",
				"2...1..",
				"2...11.",
			},
			want: Player2,
		},
		{
			name: "rising diagonal off the main diagonal",
			rows: []string{
				".......",
				".......",
				"......1",
				".....12",
				"....122",
				"...1222",
			},
			want: Player1,
		},
		{
			name: "falling diagonal off the main diagonal",
			rows: []string{
				".......",
				".......",
				"1......",
				"21.....",
				"221....",
				"2221...",
			},
			want: Player1,
		},
		{
			name: "three in a row is not a line",
			rows: []string{
				".......",
				".......",
				".......",
				".......",
				"...22..",
				"..111.2",
			},
			want: Empty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustRows(t, tt.rows...)

			require.Equal(t, tt.want == Player1, b.HasLine(Player1, 4), "Unexpected line for player 1")
			require.Equal(t, tt.want == Player2, b.HasLine(Player2, 4), "Unexpected line for player 2")
			require.Equal(t, tt.want, b.Winner())
			require.Equal(t, tt.want != Empty, b.IsTerminal())
		})
	}
}

func TestCountLines(t *testing.T) {
	b := mustRows(t,
		".......",
		".......",
		".......",
		".......",
		".......",
		"11111..",
	)

	require.Equal(t, 2, b.CountLines(Player1, 4), "Five in a row holds two windows of four")
	require.Equal(t, 3, b.CountLines(Player1, 3), "Five in a row holds three windows of three")
	require.Equal(t, 4, b.CountLines(Player1, 2), "Five in a row holds four windows of two")
	require.Equal(t, 0, b.CountLines(Player2, 2), "Player 2 has no pieces")
	require.Equal(t, 0, b.CountLines(Player1, 8), "Windows longer than the board do not exist")
}

func TestTerminal(t *testing.T) {
	t.Run("full board without a winner", func(t *testing.T) {
		b := mustRows(t, drawnRows...)

		require.True(t, b.IsFull())
		require.True(t, b.IsTerminal(), "Full board should be terminal")
		require.Equal(t, Empty, b.Winner(), "Drawn board should have no winner")
	})

	t.Run("empty board", func(t *testing.T) {
		b := NewStandardBoard()

		require.False(t, b.IsFull())
		require.False(t, b.IsTerminal())
	})
}

func TestNextPlayer(t *testing.T) {
	b := NewStandardBoard()
	next, err := b.NextPlayer()
	require.NoError(t, err)
	require.Equal(t, Player1, next)

	b = b.MustApply(3, Player1)
	next, err = b.NextPlayer()
	require.NoError(t, err)
	require.Equal(t, Player2, next)

	b = b.MustApply(3, Player1)
	_, err = b.NextPlayer()
	require.ErrorIs(t, err, ErrInvalidBoard, "Player 1 cannot be two pieces ahead")
}

func TestBoardJSON(t *testing.T) {
	t.Run("decoding an encoded board", func(t *testing.T) {
		b := NewStandardBoard().MustApply(3, Player1).MustApply(3, Player2)

		data, err := json.Marshal(b)
		require.NoError(t, err)
		var decoded Board
		require.NoError(t, json.Unmarshal(data, &decoded))

		require.Equal(t, b.Grid(), decoded.Grid())
		require.Equal(t, b.Rules(), decoded.Rules())
		require.Equal(t, b.LegalColumns(), decoded.LegalColumns(), "Decoded board should keep the column order")
	})

	t.Run("rejecting a board with a gap", func(t *testing.T) {
		data := []byte(`{"rows":2,"columns":2,"runLength":2,"cells":[[1,0],[0,0]]}`)

		var decoded Board
		require.ErrorIs(t, json.Unmarshal(data, &decoded), ErrInvalidBoard)
	})
}
