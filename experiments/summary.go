package experiments

import (
	"connect4/experiments/metrics"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/stat"
)

// AgentSummary aggregates the games of one agent across all matchups.
type AgentSummary struct {
	Agent  int
	Games  int
	Wins   int
	Losses int
	Draws  int
	// Per-move search effort, over moves chosen by a search
	SearchedMoves int
	MeanNodes     float64
	StdNodes      float64
	MeanDuration  float64 // Milliseconds
}

// Summarize computes per-agent results, ordered by agent id.
func Summarize(games []metrics.GameRecord, moves []metrics.MoveRecord) []AgentSummary {
	byAgent := map[int]*AgentSummary{}
	get := func(id int) *AgentSummary {
		s, ok := byAgent[id]
		if !ok {
			s = &AgentSummary{Agent: id}
			byAgent[id] = s
		}
		return s
	}

	// Agent holding each seat of each game
	seats := make(map[int][3]int, len(games))
	for _, g := range games {
		seats[g.ID] = [3]int{0, g.Agent1, g.Agent2}
		for piece, id := range []int{g.Agent1, g.Agent2} {
			s := get(id)
			s.Games++
			switch g.Winner {
			case 0:
				s.Draws++
			case piece + 1:
				s.Wins++
			default:
				s.Losses++
			}
		}
	}

	nodes := map[int][]float64{}
	durations := map[int][]float64{}
	for _, m := range moves {
		if m.Mode == "" {
			continue
		}
		seat, ok := seats[m.Game]
		if !ok || m.Player < 1 || m.Player > 2 {
			continue
		}
		id := seat[m.Player]
		nodes[id] = append(nodes[id], float64(m.Nodes))
		durations[id] = append(durations[id], float64(m.Duration.Microseconds())/1000)
	}
	for id, values := range nodes {
		s := get(id)
		s.SearchedMoves = len(values)
		s.MeanNodes, s.StdNodes = stat.MeanStdDev(values, nil)
		s.MeanDuration = stat.Mean(durations[id], nil)
	}

	summaries := make([]AgentSummary, 0, len(byAgent))
	for _, s := range byAgent {
		summaries = append(summaries, *s)
	}
	slices.SortFunc(summaries, func(a, b AgentSummary) int {
		return a.Agent - b.Agent
	})
	return summaries
}
