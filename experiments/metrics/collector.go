package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Mode     string
	Depth    int
	Duration time.Duration
	Nodes    int
	Leaves   int
	Cutoffs  int
	TimedOut bool
}

type MoveMetric struct {
	Step   int
	Player int // Piece of the mover
	Column int
	Score  float64
	SearchMetric
}

type GameMetric struct {
	StartingAgent int // AgentConfig.ID
	Winner        int // Piece of the winner, 0 for a draw
	StartTime     time.Time
	EndTime       time.Time
	Duration      time.Duration
	TotalMoves    int
}

// Collector counts the work done by one root search. Searches may run on a background
// goroutine while the caller waits on a deadline, so counters are atomic.
type Collector interface {
	Start(mode string, depth int)
	AddNode()
	AddLeaf()
	AddCutoff()
	Complete() SearchMetric
}

type collector struct {
	mode      string
	depth     int
	startTime time.Time
	nodes     atomic.Int64
	leaves    atomic.Int64
	cutoffs   atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(mode string, depth int) {
	m.startTime = time.Now()
	m.mode = mode
	m.depth = depth
}

func (m *collector) AddNode() {
	m.nodes.Add(1)
}

func (m *collector) AddLeaf() {
	m.leaves.Add(1)
}

func (m *collector) AddCutoff() {
	m.cutoffs.Add(1)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Mode:     m.mode,
		Depth:    m.depth,
		Duration: time.Since(m.startTime),
		Nodes:    int(m.nodes.Load()),
		Leaves:   int(m.leaves.Load()),
		Cutoffs:  int(m.cutoffs.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(mode string, depth int) {}
func (m *dummyCollector) AddNode()                     {}
func (m *dummyCollector) AddLeaf()                     {}
func (m *dummyCollector) AddCutoff()                   {}
func (m *dummyCollector) Complete() SearchMetric       { return SearchMetric{} }
