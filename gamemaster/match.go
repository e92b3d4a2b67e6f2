package gamemaster

import (
	"errors"
	"fmt"

	"connect4/game"

	"golang.org/x/exp/slices"
)

var ErrGameOver = errors.New("game is over - no moves allowed")

// Move is one applied drop.
type Move struct {
	Player game.Piece `json:"player"`
	Column int        `json:"column"`
	Row    int        `json:"row"`
}

// Match is the authoritative state of a single game: the board, whose turn it is and
// everything played so far. It is not safe for concurrent use.
type Match struct {
	board   game.Board
	next    game.Piece
	winner  game.Piece
	over    bool
	history []Move
}

// NewMatch starts an empty board with player 1 to move.
func NewMatch(rules game.Rules) (*Match, error) {
	board, err := game.NewBoard(rules)
	if err != nil {
		return nil, err
	}
	return &Match{board: board, next: game.Player1}, nil
}

// Resume continues from a position, inferring the player to move from the piece counts.
func Resume(board game.Board) (*Match, error) {
	next, err := board.NextPlayer()
	if err != nil {
		return nil, err
	}
	m := &Match{board: board, next: next}
	m.settle()
	return m, nil
}

func (m *Match) Board() game.Board {
	return m.board
}

// Next is the player to move, game.Empty once the game is over.
func (m *Match) Next() game.Piece {
	if m.over {
		return game.Empty
	}
	return m.next
}

// Winner is game.Empty while the game runs and after a draw.
func (m *Match) Winner() game.Piece {
	return m.winner
}

func (m *Match) Over() bool {
	return m.over
}

func (m *Match) History() []Move {
	return slices.Clone(m.history)
}

// Play drops a piece for the player to move.
func (m *Match) Play(column int) (Move, error) {
	if m.over {
		return Move{}, ErrGameOver
	}
	row, err := m.board.DropRow(column)
	if err != nil {
		return Move{}, fmt.Errorf("illegal move: %w", err)
	}
	board, err := m.board.Apply(column, m.next)
	if err != nil {
		return Move{}, err
	}

	move := Move{Player: m.next, Column: column, Row: row}
	m.board = board
	m.history = append(m.history, move)
	m.next = m.next.Opponent()
	m.settle()
	return move, nil
}

func (m *Match) settle() {
	m.winner = m.board.Winner()
	m.over = m.winner != game.Empty || m.board.IsFull()
}
