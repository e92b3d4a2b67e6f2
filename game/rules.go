package game

import "fmt"

const (
	StandardRows      = 6
	StandardColumns   = 7
	StandardRunLength = 4
)

// Rules is the board geometry and the number of pieces in a row needed to win.
type Rules struct {
	Rows      int `json:"rows" yaml:"rows"`
	Columns   int `json:"columns" yaml:"columns"`
	RunLength int `json:"runLength" yaml:"runLength"`
}

func NewStandardRules() Rules {
	return Rules{
		Rows:      StandardRows,
		Columns:   StandardColumns,
		RunLength: StandardRunLength,
	}
}

func (r Rules) Validate() error {
	if r.Rows <= 0 || r.Columns <= 0 {
		return fmt.Errorf("%w: %dx%d grid", ErrInvalidBoard, r.Rows, r.Columns)
	}
	if r.RunLength <= 0 || (r.RunLength > r.Rows && r.RunLength > r.Columns) {
		return fmt.Errorf("%w: run length %d does not fit a %dx%d grid", ErrInvalidBoard, r.RunLength, r.Rows, r.Columns)
	}
	return nil
}

// Center is the column that earns the center bonus and heads the traversal order.
func (r Rules) Center() int {
	return r.Columns / 2
}

// CenterOut orders columns by distance from the center column, lower index first on ties.
func (r Rules) CenterOut() []int {
	center := r.Center()
	order := make([]int, 0, r.Columns)
	order = append(order, center)
	for d := 1; len(order) < r.Columns; d++ {
		if c := center - d; c >= 0 {
			order = append(order, c)
		}
		if c := center + d; c < r.Columns {
			order = append(order, c)
		}
	}
	return order
}
