package game

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// Board is an immutable snapshot of the grid. Row 0 is the top row, pieces stack up from
// row Rows-1. Operations that place a piece return a new Board and leave the receiver
// untouched, so a Board can be shared freely between search branches.
type Board struct {
	rules Rules
	cells []Piece // Row-major, len Rows*Columns
	order []int   // Center-out column order, shared and never written
}

// NewBoard returns an empty board with the given geometry.
func NewBoard(rules Rules) (Board, error) {
	if err := rules.Validate(); err != nil {
		return Board{}, err
	}
	return Board{
		rules: rules,
		cells: make([]Piece, rules.Rows*rules.Columns),
		order: rules.CenterOut(),
	}, nil
}

// NewStandardBoard returns an empty 6x7 board with a run length of 4.
func NewStandardBoard() Board {
	b, err := NewBoard(NewStandardRules())
	if err != nil {
		panic(err)
	}
	return b
}

// FromGrid builds a board from rows of pieces (row 0 on top) and checks that no piece
// floats above an empty cell.
func FromGrid(grid [][]Piece, runLength int) (Board, error) {
	if len(grid) == 0 {
		return Board{}, fmt.Errorf("%w: empty grid", ErrInvalidBoard)
	}
	b, err := NewBoard(Rules{Rows: len(grid), Columns: len(grid[0]), RunLength: runLength})
	if err != nil {
		return Board{}, err
	}
	for r, row := range grid {
		if len(row) != b.rules.Columns {
			return Board{}, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidBoard, r, len(row), b.rules.Columns)
		}
		for c, p := range row {
			if p != Empty && !p.Valid() {
				return Board{}, fmt.Errorf("%w: cell (%d,%d) holds %d", ErrInvalidPiece, r, c, p)
			}
			b.cells[b.index(r, c)] = p
		}
	}
	if err := b.checkGravity(); err != nil {
		return Board{}, err
	}
	return b, nil
}

// FromRows parses rows such as "...12.." where '.' or '0' is empty.
func FromRows(rows []string, runLength int) (Board, error) {
	grid := make([][]Piece, len(rows))
	for r, row := range rows {
		grid[r] = make([]Piece, 0, len(row))
		for _, ch := range row {
			switch ch {
			case '.', '0':
				grid[r] = append(grid[r], Empty)
			case '1':
				grid[r] = append(grid[r], Player1)
			case '2':
				grid[r] = append(grid[r], Player2)
			default:
				return Board{}, fmt.Errorf("%w: unexpected %q in row %d", ErrInvalidPiece, ch, r)
			}
		}
	}
	return FromGrid(grid, runLength)
}

func (b Board) checkGravity() error {
	for c := 0; c < b.rules.Columns; c++ {
		occupied := false
		for r := 0; r < b.rules.Rows; r++ {
			if b.At(r, c) != Empty {
				occupied = true
			} else if occupied {
				return fmt.Errorf("%w: gap under a piece in column %d", ErrInvalidBoard, c)
			}
		}
	}
	return nil
}

func (b Board) index(row, column int) int {
	return row*b.rules.Columns + column
}

func (b Board) Rules() Rules {
	return b.rules
}

func (b Board) Rows() int {
	return b.rules.Rows
}

func (b Board) Columns() int {
	return b.rules.Columns
}

func (b Board) RunLength() int {
	return b.rules.RunLength
}

func (b Board) At(row, column int) Piece {
	return b.cells[b.index(row, column)]
}

// Grid returns a copy of the cells as rows.
func (b Board) Grid() [][]Piece {
	grid := make([][]Piece, b.rules.Rows)
	for r := range grid {
		grid[r] = slices.Clone(b.cells[r*b.rules.Columns : (r+1)*b.rules.Columns])
	}
	return grid
}

// IsOpen reports whether column can still take a piece.
func (b Board) IsOpen(column int) bool {
	return column >= 0 && column < b.rules.Columns && b.At(0, column) == Empty
}

// LegalColumns returns the open columns in center-out order.
func (b Board) LegalColumns() []int {
	columns := make([]int, 0, len(b.order))
	for _, c := range b.order {
		if b.At(0, c) == Empty {
			columns = append(columns, c)
		}
	}
	return columns
}

// DropRow returns the lowest empty row of column.
func (b Board) DropRow(column int) (int, error) {
	if column < 0 || column >= b.rules.Columns {
		return -1, fmt.Errorf("%w: %d", ErrInvalidColumn, column)
	}
	for r := b.rules.Rows - 1; r >= 0; r-- {
		if b.At(r, column) == Empty {
			return r, nil
		}
	}
	return -1, fmt.Errorf("%w: %d", ErrColumnFull, column)
}

// Apply returns a copy of the board with piece dropped into column.
func (b Board) Apply(column int, piece Piece) (Board, error) {
	if !piece.Valid() {
		return Board{}, fmt.Errorf("%w: %d", ErrInvalidPiece, piece)
	}
	row, err := b.DropRow(column)
	if err != nil {
		return Board{}, err
	}
	child := Board{
		rules: b.rules,
		cells: slices.Clone(b.cells),
		order: b.order,
	}
	child.cells[child.index(row, column)] = piece
	return child, nil
}

// MustApply is Apply for callers that already filtered to legal columns.
func (b Board) MustApply(column int, piece Piece) Board {
	child, err := b.Apply(column, piece)
	if err != nil {
		panic(err)
	}
	return child
}

// HasLine reports whether piece occupies every cell of some window of runLength cells
// along a row, a column or either diagonal.
func (b Board) HasLine(piece Piece, runLength int) bool {
	found := false
	b.windows(runLength, func(cells []Piece) bool {
		found = all(cells, piece)
		return !found
	})
	return found
}

// CountLines counts the windows of runLength cells fully occupied by piece. Overlapping
// windows on the same line each count.
func (b Board) CountLines(piece Piece, runLength int) int {
	count := 0
	b.windows(runLength, func(cells []Piece) bool {
		if all(cells, piece) {
			count++
		}
		return true
	})
	return count
}

func (b Board) IsFull() bool {
	for c := 0; c < b.rules.Columns; c++ {
		if b.At(0, c) == Empty {
			return false
		}
	}
	return true
}

// Winner returns the player holding a winning line, or Empty.
func (b Board) Winner() Piece {
	for _, p := range []Piece{Player1, Player2} {
		if b.HasLine(p, b.rules.RunLength) {
			return p
		}
	}
	return Empty
}

func (b Board) IsTerminal() bool {
	return b.Winner() != Empty || b.IsFull()
}

// NextPlayer infers whose turn it is from the piece counts; Player1 moves first.
func (b Board) NextPlayer() (Piece, error) {
	var ones, twos int
	for _, p := range b.cells {
		switch p {
		case Player1:
			ones++
		case Player2:
			twos++
		}
	}
	switch ones - twos {
	case 0:
		return Player1, nil
	case 1:
		return Player2, nil
	}
	return Empty, fmt.Errorf("%w: %d pieces for player 1, %d for player 2", ErrInvalidBoard, ones, twos)
}

func (b Board) String() string {
	var sb strings.Builder
	for r := 0; r < b.rules.Rows; r++ {
		for c := 0; c < b.rules.Columns; c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(b.At(r, c).String())
		}
		sb.WriteByte('\n')
	}
	for c := 0; c < b.rules.Columns; c++ {
		if c > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(fmt.Sprint(c % 10))
	}
	sb.WriteByte('\n')
	return sb.String()
}

type boardJSON struct {
	Rules
	Cells [][]Piece `json:"cells"`
}

func (b Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(boardJSON{Rules: b.rules, Cells: b.Grid()})
}

func (b *Board) UnmarshalJSON(data []byte) error {
	var raw boardJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.Cells) != raw.Rows {
		return fmt.Errorf("%w: %d rows of cells, want %d", ErrInvalidBoard, len(raw.Cells), raw.Rows)
	}
	decoded, err := FromGrid(raw.Cells, raw.RunLength)
	if err != nil {
		return err
	}
	if decoded.rules != raw.Rules {
		return fmt.Errorf("%w: cells do not match %dx%d", ErrInvalidBoard, raw.Rows, raw.Columns)
	}
	*b = decoded
	return nil
}

func all(cells []Piece, piece Piece) bool {
	for _, p := range cells {
		if p != piece {
			return false
		}
	}
	return true
}
