package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

type gameController interface {
	Play(ctx context.Context, board *entity.Board, cell int) (entity.Outcome, error)
	Advance(ctx context.Context, board *entity.Board) (entity.Outcome, error)
}

type GameManager struct {
	logger *slog.Logger

	sessionRepo    sessionRepo
	gameController gameController

	// locks serializes moves within one session
	locks sync.Map
}

func NewGameManager(logger *slog.Logger, sessionRepo sessionRepo, gameController gameController) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		sessionRepo:    sessionRepo,
		gameController: gameController,
	}
}

// NewGame starts a session with an empty board and X to move.
func (that *GameManager) NewGame(ctx context.Context) (*entity.GameView, error) {
	session := entity.NewSession(uuid.NewString())

	if err := that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Info("game created", "gameID", session.ID)

	return entity.NewGameView(session, tictactoe.Evaluate(session.Board)), nil
}

func (that *GameManager) GetGame(ctx context.Context, id string) (*entity.GameView, error) {
	session, err := that.getSessionByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return entity.NewGameView(session, tictactoe.Evaluate(session.Board)), nil
}

// MakeTurn plays the human move and the engine's reply. An illegal move returns
// the unchanged game together with the error.
func (that *GameManager) MakeTurn(ctx context.Context, id string, cell int) (*entity.GameView, error) {
	unlock := that.lock(id)
	defer unlock()

	session, err := that.getSessionByID(ctx, id)
	if err != nil {
		return nil, err
	}

	outcome, err := that.gameController.Play(ctx, session.Board, cell)
	if errors.Is(err, apperror.ErrIllegalMove) {
		return entity.NewGameView(session, outcome), fmt.Errorf("failed make turn: %w", err)
	}

	if err != nil {
		return nil, fmt.Errorf("failed make turn: %w", err)
	}

	if err = that.updateSession(ctx, session); err != nil {
		return nil, err
	}

	if outcome.IsFinished() {
		that.logger.Info("game finished", "gameID", id, "status", outcome.Status, "winner", outcome.Winner)
	}

	return entity.NewGameView(session, outcome), nil
}

// Reset clears the board for a new round; when O opens the round the engine moves right away.
func (that *GameManager) Reset(ctx context.Context, id string) (*entity.GameView, error) {
	unlock := that.lock(id)
	defer unlock()

	session, err := that.getSessionByID(ctx, id)
	if err != nil {
		return nil, err
	}

	session.Board = tictactoe.Reset(tictactoe.Evaluate(session.Board))

	outcome, err := that.gameController.Advance(ctx, session.Board)
	if err != nil {
		return nil, fmt.Errorf("failed to open new round: %w", err)
	}

	if err = that.updateSession(ctx, session); err != nil {
		return nil, err
	}

	that.logger.Debug("game reset", "gameID", id, "turn", session.Board.Turn)

	return entity.NewGameView(session, outcome), nil
}

func (that *GameManager) EndGame(ctx context.Context, id string) error {
	unlock := that.lock(id)
	defer unlock()

	if err := that.sessionRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	that.locks.Delete(id)

	return nil
}

func (that *GameManager) lock(id string) func() {
	value, _ := that.locks.LoadOrStore(id, &sync.Mutex{})
	mu := value.(*sync.Mutex) //nolint: forcetypeassert // only mutexes are stored

	mu.Lock()

	return mu.Unlock
}

func (that *GameManager) getSessionByID(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return session, nil
}

func (that *GameManager) updateSession(ctx context.Context, session *entity.Session) error {
	if err := that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}
