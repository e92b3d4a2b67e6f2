package experiments

import (
	"context"
	"fmt"

	"connect4/engine"
	"connect4/experiments/metrics"
	"connect4/game"
	"connect4/meta"

	"github.com/rs/zerolog/log"
)

// Report is the outcome of one experiment run.
type Report struct {
	Dir     string // Directory holding the CSV files
	Games   []metrics.GameRecord
	Moves   []metrics.MoveRecord
	Summary []AgentSummary
}

// Run plays config.Experiment.Games games for every matchup, alternating which agent
// moves first, and stores the records under the experiment output directory.
func Run(ctx context.Context, config meta.Config) (Report, error) {
	exp := config.Experiment
	var report Report

	log.Info().Msgf("starting %s experiment...", exp.Name)

	count := 0
	for mi, matchup := range exp.Matchups {
		config1, ok1 := config.Agent(matchup[0])
		config2, ok2 := config.Agent(matchup[1])
		if !ok1 || !ok2 {
			return report, fmt.Errorf("matchup %d references unknown agents %v", mi+1, matchup)
		}
		if config1.Kind == meta.KIND_HUMAN || config2.Kind == meta.KIND_HUMAN {
			return report, fmt.Errorf("matchup %d: human agents cannot play experiments", mi+1)
		}

		log.Info().Msgf("starting matchup %d of %d between agent1=%+v and agent2=%+v...", mi+1, len(exp.Matchups), config1, config2)

		for i := 0; i < exp.Games; i++ {
			first, second := config1, config2
			if i%2 == 1 {
				first, second = config2, config1
			}
			count++

			winner, gameMetric, moveMetrics, err := runGame(ctx, config.Board, first, second, uint64(count))
			if err != nil {
				return report, fmt.Errorf("matchup %d game %d: %w", mi+1, i+1, err)
			}
			report.Games = append(report.Games, metrics.GameRecord{
				ID:         count,
				Agent1:     first.ID,
				Agent2:     second.ID,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				report.Moves = append(report.Moves, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}

			log.Info().Msgf("completed matchup %d of %d game %d with winner: %s", mi+1, len(exp.Matchups), i+1, winner)
		}
		log.Info().Msgf("completed matchup %d of %d", mi+1, len(exp.Matchups))
	}

	log.Info().Msgf("completed %s experiment", exp.Name)

	report.Summary = Summarize(report.Games, report.Moves)
	for _, s := range report.Summary {
		log.Info().Msgf("agent %d: %d wins, %d losses, %d draws in %d games, %.1f mean nodes per move (sd %.1f)",
			s.Agent, s.Wins, s.Losses, s.Draws, s.Games, s.MeanNodes, s.StdNodes)
	}

	dir, err := store(exp, report)
	if err != nil {
		return report, err
	}
	report.Dir = dir
	return report, nil
}

// runGame plays first as player 1 against second. Seeds are offset by the game number
// so random agents do not replay the same game.
func runGame(ctx context.Context, rules game.Rules, first, second meta.AgentConfig, gameNumber uint64) (game.Piece, metrics.GameMetric, []metrics.MoveMetric, error) {
	first.Seed += gameNumber
	second.Seed += gameNumber
	p1, err := engine.NewPlayer(first, game.Player1, nil, nil)
	if err != nil {
		return game.Empty, metrics.GameMetric{}, nil, err
	}
	p2, err := engine.NewPlayer(second, game.Player2, nil, nil)
	if err != nil {
		return game.Empty, metrics.GameMetric{}, nil, err
	}

	e, err := engine.LocalEngine(p1, p2, rules, engine.WithStartingAgent(first.ID))
	if err != nil {
		return game.Empty, metrics.GameMetric{}, nil, err
	}
	return e.Run(ctx)
}

func store(exp meta.ExperimentConfig, report Report) (string, error) {
	writer, err := metrics.NewWriter(exp.OutputDir, exp.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	if err := writer.WriteAgentConfigs(exp.Agents); err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	if err := writer.WriteGameRecords(report.Games); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	if err := writer.WriteMoveRecords(report.Moves); err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msgf("stored move records in %s", writer.Dir())
	return writer.Dir(), nil
}
