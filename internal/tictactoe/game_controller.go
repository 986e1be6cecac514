package tictactoe

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// EngineMark is the mark the engine plays. The human always plays its opponent.
const EngineMark = entity.SecondMark

// ApplyMove puts the current turn's mark on cell and passes the turn.
// A rejected move leaves the board exactly as it was.
func ApplyMove(board *entity.Board, cell int) error {
	if err := validateMove(board, cell); err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	board.Cells[cell] = board.Turn
	board.Turn = board.Turn.Opponent()

	return nil
}

// validateMove - checks if the move is valid.
func validateMove(board *entity.Board, cell int) error {
	if !entity.IsValidCell(cell) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if Evaluate(board).IsFinished() {
		return apperror.ErrGameFinished
	}

	if board.IsOccupied(cell) {
		return fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, cell)
	}

	return nil
}

// Reset returns an empty board. The winner of the prior game opens the next one,
// and after a draw O opens. With no finished prior game X opens.
func Reset(prior entity.Outcome) *entity.Board {
	switch {
	case prior.IsWonBy(entity.PlayerX):
		return entity.NewBoardWithTurn(entity.PlayerX)
	case prior.IsFinished():
		return entity.NewBoardWithTurn(entity.PlayerO)
	default:
		return entity.NewBoard()
	}
}

type GameController struct {
	logger    *slog.Logger
	moveDelay time.Duration
}

func NewGameController(logger *slog.Logger, moveDelay time.Duration) *GameController {
	return &GameController{
		logger:    logger.With("component", "game_controller"),
		moveDelay: moveDelay,
	}
}

// Play applies the human move on cell and then lets the engine reply once.
func (that *GameController) Play(ctx context.Context, board *entity.Board, cell int) (entity.Outcome, error) {
	outcome := Evaluate(board)
	if outcome.IsOpen() && board.Turn == EngineMark {
		return outcome, fmt.Errorf("invalid turn: %w", apperror.ErrNotYourTurn)
	}

	if err := ApplyMove(board, cell); err != nil {
		return outcome, err
	}

	return that.Advance(ctx, board)
}

// Advance is the post-move hook: it re-evaluates the board and, if the game is still
// open and the engine is to move, waits the configured delay and plays one engine move.
func (that *GameController) Advance(ctx context.Context, board *entity.Board) (entity.Outcome, error) {
	outcome := Evaluate(board)
	if !outcome.IsOpen() || board.Turn != EngineMark {
		return outcome, nil
	}

	if err := that.wait(ctx); err != nil {
		return outcome, fmt.Errorf("engine move canceled: %w", err)
	}

	cell := that.EngineMove(board)
	if err := ApplyMove(board, cell); err != nil {
		return outcome, fmt.Errorf("failed to apply engine move: %w", err)
	}

	return Evaluate(board), nil
}

// EngineMove returns the engine's best cell. It panics when the board has no move to
// search, since the controller only calls it on open boards where the engine is to move.
func (that *GameController) EngineMove(board *entity.Board) int {
	if board.Turn != EngineMark {
		panic(fmt.Errorf("%w: engine called on %s's turn", apperror.ErrInvalidSearch, board.Turn))
	}

	result, err := BestMove(board, EngineMark)
	if err != nil {
		panic(err)
	}

	that.logger.Debug("engine move", "cell", result.Cell, "score", result.Score, "nodes", result.Nodes)

	return result.Cell
}

func (that *GameController) wait(ctx context.Context) error {
	if that.moveDelay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(that.moveDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
