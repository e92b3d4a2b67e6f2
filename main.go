package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connect4/communication/server"
	"connect4/engine"
	"connect4/experiments"
	"connect4/game"
	"connect4/meta"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const usage = `usage: connect4 <command> [flags]

commands:
  play        play one game between two agents
  serve       run the agent server
  experiment  run the configured matchups and store the results
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "play":
		err = runPlay(ctx, os.Args[2:])
	case "serve":
		err = runServe(ctx, os.Args[2:])
	case "experiment":
		err = runExperiment(ctx, os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Msgf("%s failed", os.Args[1])
	}
}

// setup parses the common flags and loads the configuration.
func setup(fs *flag.FlagSet, args []string) (meta.Config, error) {
	configPath := fs.String("config", "", "YAML configuration file")
	level := fs.String("log-level", "", "Log level: debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return meta.Config{}, err
	}

	config, err := meta.Load(*configPath)
	if err != nil {
		return meta.Config{}, err
	}
	if *level != "" {
		config.LogLevel = *level
	}

	logLevel, err := zerolog.ParseLevel(config.LogLevel)
	if err != nil {
		return meta.Config{}, fmt.Errorf("invalid log level %q: %w", config.LogLevel, err)
	}
	zerolog.SetGlobalLevel(logLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	return config, nil
}

func runPlay(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	first := meta.AgentConfig{ID: 1}
	second := meta.AgentConfig{ID: 2}
	fs.StringVar(&first.Kind, "p1", meta.KIND_HUMAN, "Player 1 kind: human, random, alphabeta, minimax, expectimax or remote")
	fs.StringVar(&second.Kind, "p2", meta.KIND_ALPHA_BETA, "Player 2 kind")
	fs.IntVar(&first.Depth, "depth1", 0, "Player 1 search depth, 0 for the default of its kind")
	fs.IntVar(&second.Depth, "depth2", 0, "Player 2 search depth")
	fs.StringVar(&first.Evaluator, "eval1", game.DefaultEvaluator, "Player 1 evaluator: windows or threats")
	fs.StringVar(&second.Evaluator, "eval2", game.DefaultEvaluator, "Player 2 evaluator")
	fs.StringVar(&first.URL, "url1", "", "Agent server of a remote player 1")
	fs.StringVar(&second.URL, "url2", "", "Agent server of a remote player 2")
	timeout := fs.Duration("timeout", meta.SEARCH_TIMEOUT, "Time budget per search move, 0 for none")
	seed := fs.Uint64("seed", uint64(time.Now().UnixNano()), "Seed of random players")

	config, err := setup(fs, args)
	if err != nil {
		return err
	}
	first.Timeout, second.Timeout = *timeout, *timeout
	first.Seed, second.Seed = *seed, *seed+1

	p1, err := engine.NewPlayer(first, game.Player1, os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	p2, err := engine.NewPlayer(second, game.Player2, os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	e, err := engine.LocalEngine(p1, p2, config.Board, engine.WithRenderer(os.Stdout))
	if err != nil {
		return err
	}

	winner, _, _, err := e.Run(ctx)
	if err != nil {
		return err
	}
	if winner == game.Empty {
		fmt.Println("It's a draw!")
	} else {
		fmt.Printf("Player %s wins!\n", winner)
	}
	return nil
}

func runServe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", "", "Listen address, overrides the configuration")

	config, err := setup(fs, args)
	if err != nil {
		return err
	}
	if *addr != "" {
		config.Server.Addr = *addr
	}

	s, err := server.NewServer(config.Server, config.Board)
	if err != nil {
		return err
	}
	return s.Start(ctx)
}

func runExperiment(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("experiment", flag.ExitOnError)
	games := fs.Int("games", 0, "Games per matchup, overrides the configuration")

	config, err := setup(fs, args)
	if err != nil {
		return err
	}
	if *games > 0 {
		config.Experiment.Games = *games
	}

	report, err := experiments.Run(ctx, config)
	if err != nil {
		return err
	}
	fmt.Printf("Results stored in %s\n", report.Dir)
	return nil
}
