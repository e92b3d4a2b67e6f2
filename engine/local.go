package engine

import (
	"context"
	"fmt"
	"io"
	"time"

	"connect4/experiments/metrics"
	"connect4/game"
	"connect4/gamemaster"
	"connect4/meta"
	"connect4/player"

	"github.com/rs/zerolog/log"
)

type Option func(e *Local)

// WithRenderer prints the board to w after every move.
func WithRenderer(w io.Writer) Option {
	return func(e *Local) {
		e.render = w
	}
}

func WithMaxTurns(turns int) Option {
	return func(e *Local) {
		if turns > 0 {
			e.maxTurns = turns
		}
	}
}

// WithStartingAgent records which agent holds the player 1 seat in the game metric.
func WithStartingAgent(id int) Option {
	return func(e *Local) {
		e.startingAgent = id
	}
}

// pinger is a player backed by a service that can be checked before the game starts.
type pinger interface {
	Ping(ctx context.Context) error
}

// Local drives two in-process players through one match.
type Local struct {
	players       map[game.Piece]player.Player
	match         *gamemaster.Match
	render        io.Writer
	maxTurns      int
	startingAgent int
}

// LocalEngine seats first as player 1 and second as player 2.
func LocalEngine(first, second player.Player, rules game.Rules, options ...Option) (*Local, error) {
	if first.Piece() != game.Player1 || second.Piece() != game.Player2 {
		return nil, fmt.Errorf("%w: players hold pieces %s and %s, want 1 and 2", game.ErrInvalidPiece, first.Piece(), second.Piece())
	}
	match, err := gamemaster.NewMatch(rules)
	if err != nil {
		return nil, err
	}

	e := &Local{
		players: map[game.Piece]player.Player{
			game.Player1: first,
			game.Player2: second,
		},
		match:    match,
		maxTurns: meta.MAX_TURNS,
	}
	for _, option := range options {
		option(e)
	}
	return e, nil
}

func (e *Local) Match() *gamemaster.Match {
	return e.match
}

func (e *Local) Run(ctx context.Context) (game.Piece, metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{
		StartingAgent: e.startingAgent,
		StartTime:     time.Now(),
	}
	var moveMetrics []metrics.MoveMetric

	log.Info().Msgf("%s (player 1) against %s (player 2)", e.players[game.Player1], e.players[game.Player2])
	for _, piece := range []game.Piece{game.Player1, game.Player2} {
		if p, ok := e.players[piece].(pinger); ok {
			if err := p.Ping(ctx); err != nil {
				return game.Empty, gameMetric, moveMetrics, fmt.Errorf("player %s: %w", piece, err)
			}
		}
	}
	e.draw()

	for turn := 1; !e.match.Over() && turn <= e.maxTurns; turn++ {
		if err := ctx.Err(); err != nil {
			return game.Empty, gameMetric, moveMetrics, err
		}
		mover := e.players[e.match.Next()]

		result, err := player.Choose(ctx, mover, e.match.Board())
		if err != nil {
			return game.Empty, gameMetric, moveMetrics, fmt.Errorf("player %s: %w", mover.Piece(), err)
		}
		if _, err := e.match.Play(result.Column); err != nil {
			return game.Empty, gameMetric, moveMetrics, fmt.Errorf("player %s: %w", mover.Piece(), err)
		}

		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         turn,
			Player:       int(mover.Piece()),
			Column:       result.Column,
			Score:        result.Score,
			SearchMetric: result.Metrics,
		})
		log.Info().Msgf("turn %d: player %s (%s) plays column %d", turn, mover.Piece(), mover, result.Column)
		e.draw()
	}

	winner := e.match.Winner()
	gameMetric.Winner = int(winner)
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = len(moveMetrics)

	switch {
	case winner != game.Empty:
		log.Info().Msgf("player %s (%s) wins after %d moves", winner, e.players[winner], len(moveMetrics))
	case e.match.Over():
		log.Info().Msgf("draw after %d moves", len(moveMetrics))
	default:
		log.Info().Msgf("stopped after %d turns (no winner yet)", e.maxTurns)
	}
	return winner, gameMetric, moveMetrics, nil
}

func (e *Local) draw() {
	if e.render != nil {
		fmt.Fprintln(e.render, e.match.Board())
	}
}
