package player

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"connect4/game"

	"golang.org/x/exp/slices"
)

var ErrNoInput = errors.New("no more input")

// Human reads columns from a line-oriented input until a legal one is entered.
type Human struct {
	piece   game.Piece
	scanner *bufio.Scanner
	out     io.Writer
}

func NewHuman(piece game.Piece, in io.Reader, out io.Writer) *Human {
	return &Human{piece: piece, scanner: bufio.NewScanner(in), out: out}
}

func (p *Human) Piece() game.Piece {
	return p.piece
}

func (p *Human) String() string {
	return "human"
}

func (p *Human) GetMove(ctx context.Context, board game.Board) (int, error) {
	columns := board.LegalColumns()
	if len(columns) == 0 {
		return -1, game.ErrNoLegalMoves
	}
	legal := slices.Clone(columns)
	slices.Sort(legal)

	fmt.Fprint(p.out, "Enter your move: ")
	for p.scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return -1, err
		}
		column, err := strconv.Atoi(strings.TrimSpace(p.scanner.Text()))
		if err == nil && slices.Contains(legal, column) {
			return column, nil
		}
		fmt.Fprintf(p.out, "Invalid move, choose one of %v: ", legal)
	}
	if err := p.scanner.Err(); err != nil {
		return -1, fmt.Errorf("failed to read move: %w", err)
	}
	return -1, ErrNoInput
}
