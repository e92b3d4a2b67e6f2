package communication

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"connect4/game"
)

// Score is a search value on the wire. JSON has no infinities, so decided positions
// travel as the strings "+inf" and "-inf".
type Score float64

func (s Score) MarshalJSON() ([]byte, error) {
	switch {
	case math.IsInf(float64(s), 1):
		return []byte(`"+inf"`), nil
	case math.IsInf(float64(s), -1):
		return []byte(`"-inf"`), nil
	case math.IsNaN(float64(s)):
		return nil, fmt.Errorf("score is not a number")
	}
	return strconv.AppendFloat(nil, float64(s), 'g', -1, 64), nil
}

func (s *Score) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		switch text {
		case "+inf", "inf":
			*s = Score(math.Inf(1))
		case "-inf":
			*s = Score(math.Inf(-1))
		default:
			return fmt.Errorf("invalid score %q", text)
		}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("invalid score: %w", err)
	}
	*s = Score(f)
	return nil
}

// MoveRequest asks an agent server for a move. Zero fields fall back to the server's
// agent configuration; a zero player is inferred from the board.
type MoveRequest struct {
	Board     game.Board `json:"board"`
	Player    game.Piece `json:"player,omitempty"`
	Mode      string     `json:"mode,omitempty"`
	Depth     int        `json:"depth,omitempty"`
	Evaluator string     `json:"evaluator,omitempty"`
}

type MoveResponse struct {
	Column   int    `json:"column"`
	Score    Score  `json:"score"`
	Mode     string `json:"mode"`
	Depth    int    `json:"depth"`
	TimedOut bool   `json:"timedOut"`
	Nodes    int    `json:"nodes"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// Websocket message types.
const (
	TypeNew   = "new"
	TypeMove  = "move"
	TypePing  = "ping"
	TypeState = "state"
	TypeError = "error"
	TypePong  = "pong"
)

// Message is a websocket message from a client.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewGame starts a session game; Human is the piece the client plays.
type NewGame struct {
	Human game.Piece `json:"human"`
}

type PlayMove struct {
	Column int `json:"column"`
}

// Response is a websocket message to a client.
type Response struct {
	Type    string `json:"type"`
	Payload *State `json:"payload,omitempty"`
	Error   string `json:"error,omitempty"`
}

// State is the session game after the last applied moves. AIColumn is set when the
// server replied with a move of its own.
type State struct {
	Board    game.Board `json:"board"`
	Next     game.Piece `json:"next"`
	Winner   game.Piece `json:"winner"`
	Over     bool       `json:"over"`
	AIColumn *int       `json:"aiColumn,omitempty"`
}
