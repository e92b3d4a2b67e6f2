package game

// Directions scanned for windows: right, down, down-right and down-left.
var directions = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// windows calls visit with every window of k consecutive cells along all four directions,
// covering every diagonal offset long enough to hold k cells. The slice is reused between
// calls. Returning false from visit stops the scan.
func (b Board) windows(k int, visit func(cells []Piece) bool) {
	if k <= 0 {
		return
	}
	rows, cols := b.rules.Rows, b.rules.Columns
	cells := make([]Piece, k)
	for _, d := range directions {
		dr, dc := d[0], d[1]
		for r := 0; r < rows; r++ {
			endRow := r + dr*(k-1)
			if endRow >= rows {
				continue
			}
			for c := 0; c < cols; c++ {
				endCol := c + dc*(k-1)
				if endCol < 0 || endCol >= cols {
					continue
				}
				for i := 0; i < k; i++ {
					cells[i] = b.At(r+dr*i, c+dc*i)
				}
				if !visit(cells) {
					return
				}
			}
		}
	}
}

// tally counts the cells of a window held by player, by its opponent, and empty.
func tally(cells []Piece, player Piece) (own, opp, empty int) {
	for _, p := range cells {
		switch p {
		case player:
			own++
		case Empty:
			empty++
		default:
			opp++
		}
	}
	return own, opp, empty
}
