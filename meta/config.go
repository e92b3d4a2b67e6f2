package meta

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"connect4/game"

	"gopkg.in/yaml.v3"
)

// AgentConfig describes one player seat.
type AgentConfig struct {
	ID        int           `yaml:"id"`
	Kind      string        `yaml:"kind"`
	Depth     int           `yaml:"depth"`
	Evaluator string        `yaml:"evaluator"`
	Timeout   time.Duration `yaml:"timeout"`
	URL       string        `yaml:"url"`
	Mode      string        `yaml:"mode"` // Search mode asked of a remote agent, empty for the server's own
	Seed      uint64        `yaml:"seed"`
}

// SearchDepth returns the configured depth or the default for the agent kind.
func (a AgentConfig) SearchDepth() int {
	if a.Depth != 0 {
		return a.Depth
	}
	if a.Kind == KIND_EXPECTIMAX {
		return EXPECTIMAX_DEPTH
	}
	return ALPHA_BETA_DEPTH
}

type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	Agent        AgentConfig   `yaml:"agent"`    // Search used when a request leaves fields unset
	MaxDepth     int           `yaml:"maxDepth"` // Deepest search a request may ask for
}

type ExperimentConfig struct {
	Name      string        `yaml:"name"`
	Games     int           `yaml:"games"` // Per matchup
	OutputDir string        `yaml:"outputDir"`
	Agents    []AgentConfig `yaml:"agents"`
	Matchups  [][2]int      `yaml:"matchups"` // Pairs of AgentConfig.ID
}

type Config struct {
	Board      game.Rules       `yaml:"board"`
	LogLevel   string           `yaml:"logLevel"`
	Server     ServerConfig     `yaml:"server"`
	Experiment ExperimentConfig `yaml:"experiment"`
}

func DefaultConfig() Config {
	return Config{
		Board:    game.NewStandardRules(),
		LogLevel: "info",
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			Agent:        AgentConfig{Kind: KIND_ALPHA_BETA, Depth: ALPHA_BETA_DEPTH, Evaluator: game.DefaultEvaluator, Timeout: SERVER_SEARCH_TIMEOUT},
			MaxDepth:     MAX_SERVER_DEPTH,
		},
		Experiment: ExperimentConfig{
			Name:      "baseline",
			Games:     10,
			OutputDir: "experiments/results",
			Agents: []AgentConfig{
				{ID: 1, Kind: KIND_ALPHA_BETA, Depth: ALPHA_BETA_DEPTH, Evaluator: game.DefaultEvaluator},
				{ID: 2, Kind: KIND_EXPECTIMAX, Depth: EXPECTIMAX_DEPTH, Evaluator: game.DefaultEvaluator},
				{ID: 3, Kind: KIND_RANDOM, Seed: 1},
			},
			Matchups: [][2]int{{1, 3}, {2, 3}, {1, 2}},
		},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (Config, error) {
	config := DefaultConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c Config) Validate() error {
	if err := c.Board.Validate(); err != nil {
		return err
	}
	if c.Server.MaxDepth <= 0 {
		return fmt.Errorf("server max depth must be positive, got %d", c.Server.MaxDepth)
	}
	if depth := c.Server.Agent.SearchDepth(); depth > c.Server.MaxDepth {
		return fmt.Errorf("server agent depth %d exceeds max depth %d", depth, c.Server.MaxDepth)
	}
	ids := make(map[int]bool, len(c.Experiment.Agents))
	for _, agent := range c.Experiment.Agents {
		if ids[agent.ID] {
			return fmt.Errorf("duplicate agent id %d", agent.ID)
		}
		ids[agent.ID] = true
	}
	for _, matchup := range c.Experiment.Matchups {
		for _, id := range matchup {
			if !ids[id] {
				return fmt.Errorf("matchup references unknown agent id %d", id)
			}
		}
	}
	return nil
}

// Agent finds an experiment agent by ID.
func (c Config) Agent(id int) (AgentConfig, bool) {
	for _, agent := range c.Experiment.Agents {
		if agent.ID == id {
			return agent, true
		}
	}
	return AgentConfig{}, false
}
