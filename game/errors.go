package game

import "errors"

var (
	ErrColumnFull    = errors.New("column is full")
	ErrInvalidColumn = errors.New("invalid column")
	ErrNoLegalMoves  = errors.New("no legal moves")
	ErrInvalidDepth  = errors.New("search depth must be positive")
	ErrInvalidBoard  = errors.New("invalid board")
	ErrInvalidPiece  = errors.New("invalid piece")
)
