package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"connect4/communication"
	"connect4/game"
	"connect4/gamemaster"
	"connect4/player"
	"connect4/searcher"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// session is one websocket client playing against the server's agent. Messages are
// handled in order on the read goroutine; replies go through send.
type session struct {
	server *Server
	conn   *websocket.Conn
	send   chan communication.Response
	match  *gamemaster.Match
	human  game.Piece
	ai     *player.AI
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	sess := &session{
		server: s,
		conn:   conn,
		send:   make(chan communication.Response, 16),
	}
	go sess.writePump()
	sess.readPump(r.Context())
}

func (c *session) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			log.Debug().Err(err).Msg("websocket write failed")
			return
		}
	}
}

func (c *session) readPump(ctx context.Context) {
	defer func() {
		close(c.send)
		c.conn.Close()
	}()
	for {
		var msg communication.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Msg("websocket read failed")
			}
			return
		}
		c.handleMessage(ctx, msg)
	}
}

func (c *session) handleMessage(ctx context.Context, msg communication.Message) {
	var err error
	switch msg.Type {
	case communication.TypeNew:
		err = c.handleNew(ctx, msg.Payload)
	case communication.TypeMove:
		err = c.handleMove(ctx, msg.Payload)
	case communication.TypePing:
		c.send <- communication.Response{Type: communication.TypePong}
		return
	default:
		err = fmt.Errorf("unknown message type %q", msg.Type)
	}
	if err != nil {
		c.send <- communication.Response{Type: communication.TypeError, Error: err.Error()}
	}
}

func (c *session) handleNew(ctx context.Context, payload json.RawMessage) error {
	req := communication.NewGame{Human: game.Player1}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &req); err != nil {
			return fmt.Errorf("invalid payload: %w", err)
		}
	}
	if !req.Human.Valid() {
		return fmt.Errorf("%w: human must play 1 or 2", game.ErrInvalidPiece)
	}

	match, err := gamemaster.NewMatch(c.server.rules)
	if err != nil {
		return err
	}
	search, err := searcher.FromConfig(c.server.config.Agent)
	if err != nil {
		return err
	}
	c.match = match
	c.human = req.Human
	c.ai = player.NewAI(req.Human.Opponent(), search)
	log.Info().Msgf("websocket game started, human plays %s against %s", c.human, c.ai)

	return c.reply(ctx)
}

func (c *session) handleMove(ctx context.Context, payload json.RawMessage) error {
	if c.match == nil {
		return errors.New("no game in progress")
	}
	if c.match.Next() != c.human {
		if c.match.Over() {
			return gamemaster.ErrGameOver
		}
		return errors.New("not your turn")
	}
	var req communication.PlayMove
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	if _, err := c.match.Play(req.Column); err != nil {
		return err
	}
	return c.reply(ctx)
}

// reply lets the agent move when it is its turn, then sends the resulting state.
func (c *session) reply(ctx context.Context) error {
	state := communication.State{}
	if c.match.Next() == c.ai.Piece() {
		column, err := c.ai.GetMove(ctx, c.match.Board())
		if err != nil {
			return err
		}
		if _, err := c.match.Play(column); err != nil {
			return err
		}
		state.AIColumn = &column
	}

	state.Board = c.match.Board()
	state.Next = c.match.Next()
	state.Winner = c.match.Winner()
	state.Over = c.match.Over()
	c.send <- communication.Response{Type: communication.TypeState, Payload: &state}
	return nil
}
