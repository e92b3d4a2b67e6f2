package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"connect4/communication"
	"connect4/experiments/metrics"
	"connect4/game"
	"connect4/meta"
	"connect4/searcher"
)

// Remote is a player whose moves are chosen by an agent server.
type Remote struct {
	piece     game.Piece
	baseURL   string
	client    *http.Client
	mode      string
	depth     int
	evaluator string
}

// NewRemote returns a player asking the server at config.URL. Mode, depth and evaluator
// are forwarded when set; otherwise the server's own agent settings apply.
func NewRemote(piece game.Piece, config meta.AgentConfig) (*Remote, error) {
	if config.URL == "" {
		return nil, errors.New("remote agent needs a url")
	}
	if config.Mode != "" {
		if _, err := searcher.ParseMode(config.Mode); err != nil {
			return nil, err
		}
	}
	r := &Remote{
		piece:     piece,
		baseURL:   strings.TrimRight(config.URL, "/"),
		client:    &http.Client{Timeout: config.Timeout},
		mode:      config.Mode,
		depth:     config.Depth,
		evaluator: config.Evaluator,
	}
	return r, nil
}

func (r *Remote) Piece() game.Piece {
	return r.piece
}

func (r *Remote) String() string {
	return "remote(" + r.baseURL + ")"
}

// Ping checks that the server is reachable.
func (r *Remote) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/ping", nil)
	if err != nil {
		return err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach agent server: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("agent server returned status %d", resp.StatusCode)
	}
	return nil
}

func (r *Remote) GetMove(ctx context.Context, board game.Board) (int, error) {
	result, err := r.Analyze(ctx, board)
	if err != nil {
		return -1, err
	}
	return result.Column, nil
}

func (r *Remote) Analyze(ctx context.Context, board game.Board) (searcher.Result, error) {
	if len(board.LegalColumns()) == 0 {
		return searcher.Result{}, game.ErrNoLegalMoves
	}
	body, err := json.Marshal(communication.MoveRequest{
		Board:     board,
		Player:    r.piece,
		Mode:      r.mode,
		Depth:     r.depth,
		Evaluator: r.evaluator,
	})
	if err != nil {
		return searcher.Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/move", bytes.NewReader(body))
	if err != nil {
		return searcher.Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.client.Do(req)
	if err != nil {
		return searcher.Result{}, fmt.Errorf("failed to request move: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		out, _ := io.ReadAll(resp.Body)
		var e communication.ErrorResponse
		if json.Unmarshal(out, &e) == nil && e.Error != "" {
			return searcher.Result{}, fmt.Errorf("agent server returned status %d: %s", resp.StatusCode, e.Error)
		}
		return searcher.Result{}, fmt.Errorf("agent server returned status %d: %s", resp.StatusCode, out)
	}

	var move communication.MoveResponse
	if err := json.NewDecoder(resp.Body).Decode(&move); err != nil {
		return searcher.Result{}, fmt.Errorf("failed to decode move: %w", err)
	}
	if !board.IsOpen(move.Column) {
		return searcher.Result{}, fmt.Errorf("agent server chose column %d: %w", move.Column, game.ErrColumnFull)
	}
	mode, depth := move.Mode, move.Depth
	if mode == "" {
		mode, depth = r.mode, r.depth
	}
	return searcher.Result{
		Column: move.Column,
		Score:  float64(move.Score),
		Metrics: metrics.SearchMetric{
			Mode:     mode,
			Depth:    depth,
			Nodes:    move.Nodes,
			TimedOut: move.TimedOut,
		},
	}, nil
}
