// meta/meta.go
package meta

import (
	"time"

	"connect4/game"
)

// Board geometry of the reference game.
const (
	ROWS       = game.StandardRows
	COLUMNS    = game.StandardColumns
	RUN_LENGTH = game.StandardRunLength
)

// ALPHA_BETA_DEPTH is the default lookahead for the adversarial searches.
const ALPHA_BETA_DEPTH = 3

// EXPECTIMAX_DEPTH is the default lookahead against a random opponent.
const EXPECTIMAX_DEPTH = 2

// MAX_TURNS bounds a driven game; a full standard board takes 42.
const MAX_TURNS = ROWS * COLUMNS

// SEARCH_TIMEOUT is the default time budget per move, 0 for none.
const SEARCH_TIMEOUT = 0 * time.Second

// SERVER_SEARCH_TIMEOUT bounds every search run by the agent server.
const SERVER_SEARCH_TIMEOUT = 5 * time.Second

// MAX_SERVER_DEPTH is the deepest search a client may request from the agent server.
const MAX_SERVER_DEPTH = 8

// MAX_REQUEST_BYTES limits the body of an agent server request.
const MAX_REQUEST_BYTES = 1 << 20

// Agent kinds accepted in configuration.
const (
	KIND_HUMAN      = "human"
	KIND_RANDOM     = "random"
	KIND_ALPHA_BETA = "alphabeta"
	KIND_MINIMAX    = "minimax"
	KIND_EXPECTIMAX = "expectimax"
	KIND_REMOTE     = "remote"
)
