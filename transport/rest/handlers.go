package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type Handlers interface {
	PingHandler(w http.ResponseWriter, _ *http.Request)

	CreateGame(w http.ResponseWriter, r *http.Request)
	GetGame(w http.ResponseWriter, r *http.Request)
	MakeTurn(w http.ResponseWriter, r *http.Request)
	ResetGame(w http.ResponseWriter, r *http.Request)
	DeleteGame(w http.ResponseWriter, r *http.Request)
}

type gameUseCase interface {
	NewGame(ctx context.Context) (*entity.GameView, error)
	GetGame(ctx context.Context, id string) (*entity.GameView, error)
	MakeTurn(ctx context.Context, id string, cell int) (*entity.GameView, error)
	Reset(ctx context.Context, id string) (*entity.GameView, error)
	EndGame(ctx context.Context, id string) error
}

type turnRequest struct {
	Cell *int `json:"cell"`
}

type errorResponse struct {
	Error string           `json:"error"`
	Game  *entity.GameView `json:"game,omitempty"`
}

var errCellRequired = errors.New("cell is required")

type handlers struct {
	logger      *slog.Logger
	gameUseCase gameUseCase
}

func NewHandlers(logger *slog.Logger, gameUseCase gameUseCase) Handlers {
	return &handlers{
		logger:      logger.With("component", "rest"),
		gameUseCase: gameUseCase,
	}
}

func (that *handlers) CreateGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.gameUseCase.NewGame(r.Context())
	if err != nil {
		that.writeError(w, "CreateGame", err, nil)
		return
	}

	that.writeJSON(w, http.StatusCreated, game)
}

func (that *handlers) GetGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.gameUseCase.GetGame(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, "GetGame", err, nil)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *handlers) MakeTurn(w http.ResponseWriter, r *http.Request) {
	var request turnRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if request.Cell == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: errCellRequired.Error()})
		return
	}

	game, err := that.gameUseCase.MakeTurn(r.Context(), r.PathValue("id"), *request.Cell)
	if err != nil {
		that.writeError(w, "MakeTurn", err, game)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *handlers) ResetGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.gameUseCase.Reset(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, "ResetGame", err, nil)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *handlers) DeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := that.gameUseCase.EndGame(r.Context(), r.PathValue("id")); err != nil {
		that.writeError(w, "DeleteGame", err, nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeError maps domain errors to status codes. Illegal moves are routine input
// and come back with the unchanged game.
func (that *handlers) writeError(w http.ResponseWriter, method string, err error, game *entity.GameView) {
	switch {
	case errors.Is(err, apperror.ErrIllegalMove):
		that.writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Game: game})
	case errors.Is(err, apperror.ErrSessionNotFound):
		that.writeJSON(w, http.StatusNotFound, errorResponse{Error: apperror.ErrSessionNotFound.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// the client went away before the engine replied; nothing was stored
		that.logger.Info("request canceled", "method", method, "error", err)
		that.writeJSON(w, http.StatusRequestTimeout, errorResponse{Error: "request canceled"})
	default:
		that.logger.Error("request failed", "method", method, "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
