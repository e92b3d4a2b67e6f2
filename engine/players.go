package engine

import (
	"fmt"
	"io"

	"connect4/communication/client"
	"connect4/game"
	"connect4/meta"
	"connect4/player"
	"connect4/searcher"
)

// NewPlayer builds the player described by config for the given seat. Human players
// read moves from in and prompt on out.
func NewPlayer(config meta.AgentConfig, piece game.Piece, in io.Reader, out io.Writer) (player.Player, error) {
	switch config.Kind {
	case meta.KIND_HUMAN:
		return player.NewHuman(piece, in, out), nil
	case meta.KIND_RANDOM:
		return player.NewRandom(piece, config.Seed), nil
	case meta.KIND_REMOTE:
		remote, err := client.NewRemote(piece, config)
		if err != nil {
			return nil, err
		}
		return remote, nil
	case meta.KIND_ALPHA_BETA, meta.KIND_MINIMAX, meta.KIND_EXPECTIMAX:
		search, err := searcher.FromConfig(config, searcher.WithMetrics())
		if err != nil {
			return nil, err
		}
		return player.NewAI(piece, search), nil
	}
	return nil, fmt.Errorf("unknown agent kind %q", config.Kind)
}
