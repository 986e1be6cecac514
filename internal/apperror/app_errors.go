package apperror

import (
	"errors"
	"fmt"
)

// ErrIllegalMove is the parent of every rejected move. A rejected move never changes the board.
var ErrIllegalMove = errors.New("illegal move")

var (
	ErrCellOccupied = fmt.Errorf("%w: cell is already occupied", ErrIllegalMove)
	ErrInvalidCell  = fmt.Errorf("%w: invalid cell index", ErrIllegalMove)
	ErrGameFinished = fmt.Errorf("%w: game is already finished", ErrIllegalMove)
	ErrNotYourTurn  = fmt.Errorf("%w: it's not your turn", ErrIllegalMove)
)

var (
	ErrInvalidSearch   = errors.New("search invoked on a finished board")
	ErrSessionNotFound = errors.New("game session not found")
	ErrInvalidBoard    = errors.New("invalid board")
)
