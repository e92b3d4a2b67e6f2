package game

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Window weights for EvaluateWindows, indexed by the number of empty cells in a window
// that only one player occupies. A full window is a win and never reaches the sum in
// practice because terminal boards short-circuit first.
var windowWeights = []float64{10_000_000, 50, 20, 5}

// CenterBonus is awarded per piece of the evaluating player in the center column.
const CenterBonus = 30

// evaluators maps configuration names to evaluation policies.
var evaluators = map[string]Evaluate{
	"threats": EvaluateThreats,
	"windows": EvaluateWindows,
}

const DefaultEvaluator = "windows"

// ParseEvaluate looks up an evaluation policy by name; "" selects the default.
func ParseEvaluate(name string) (Evaluate, error) {
	if name == "" {
		name = DefaultEvaluator
	}
	evaluate, ok := evaluators[name]
	if !ok {
		return nil, fmt.Errorf("unknown evaluator %q, want one of %v", name, EvaluatorNames())
	}
	return evaluate, nil
}

// EvaluatorNames lists the names accepted by ParseEvaluate in sorted order.
func EvaluatorNames() []string {
	names := maps.Keys(evaluators)
	slices.Sort(names)
	return names
}

// EvaluateThreats counts open windows for each side: a window holding n of a player's
// pieces and nothing of the opponent's is worth n (3 for a three with one gap, 2 for a
// two with two gaps, 1 for a lone piece). The score is own total minus opponent total.
func EvaluateThreats(b Board, player Piece) float64 {
	if score, ok := terminalScore(b, player); ok {
		return score
	}
	k := b.rules.RunLength
	score := 0
	b.windows(k, func(cells []Piece) bool {
		own, opp, _ := tally(cells, player)
		switch {
		case opp == 0 && own > 0 && own < k:
			score += own
		case own == 0 && opp > 0 && opp < k:
			score -= opp
		}
		return true
	})
	return float64(score)
}

// EvaluateWindows weighs every window by how close it is to completion for the side that
// owns it (mirrored negative for the opponent) and adds a bonus for the evaluating
// player's pieces in the center column.
func EvaluateWindows(b Board, player Piece) float64 {
	if score, ok := terminalScore(b, player); ok {
		return score
	}
	score := 0.0
	b.windows(b.rules.RunLength, func(cells []Piece) bool {
		score += windowScore(cells, player)
		return true
	})

	center := b.rules.Center()
	for r := 0; r < b.rules.Rows; r++ {
		if b.At(r, center) == player {
			score += CenterBonus
		}
	}
	return score
}

func windowScore(cells []Piece, player Piece) float64 {
	own, opp, empty := tally(cells, player)
	if empty >= len(windowWeights) {
		return 0
	}
	switch {
	case opp == 0 && own > 0:
		return windowWeights[empty]
	case own == 0 && opp > 0:
		return -windowWeights[empty]
	}
	return 0
}

// terminalScore short-circuits decided boards: Win if player has a line, Loss if the
// opponent does, 0 for a full board without a winner.
func terminalScore(b Board, player Piece) (float64, bool) {
	k := b.rules.RunLength
	if b.HasLine(player, k) {
		return Win, true
	}
	if b.HasLine(player.Opponent(), k) {
		return Loss, true
	}
	if b.IsFull() {
		return 0, true
	}
	return 0, false
}
