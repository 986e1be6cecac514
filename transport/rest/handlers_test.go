package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager := usecase.NewGameManager(logger, repository.NewMemorySessionRepository(), tictactoe.NewGameController(logger, 0))

	server := httptest.NewServer(NewRouter(NewHandlers(logger, manager)))
	t.Cleanup(server.Close)

	return server
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), method, url, strings.NewReader(body))
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, payload
}

func createGame(t *testing.T, server *httptest.Server) entity.GameView {
	t.Helper()

	resp, payload := do(t, http.MethodPost, server.URL+"/games", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var game entity.GameView
	require.NoError(t, json.Unmarshal(payload, &game))

	return game
}

func TestPingHandler(t *testing.T) {
	server := newTestServer(t)

	resp, payload := do(t, http.MethodGet, server.URL+"/ping", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pong", string(payload))
}

func TestHandlers_Game(t *testing.T) {
	t.Run("Create and fetch a game", func(t *testing.T) {
		// Given: a new game
		server := newTestServer(t)
		game := createGame(t, server)

		// When: it is fetched by id
		resp, payload := do(t, http.MethodGet, server.URL+"/games/"+game.ID, "")

		// Then: it is empty, open and X is to move
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var fetched entity.GameView
		require.NoError(t, json.Unmarshal(payload, &fetched))
		assert.Equal(t, game.ID, fetched.ID)
		assert.Empty(t, fetched.Cells)
		assert.Equal(t, entity.PlayerX, fetched.Turn)
		assert.Equal(t, entity.StatusOpen, fetched.Outcome.Status)
	})

	t.Run("Move gets an engine reply", func(t *testing.T) {
		// Given: a new game
		server := newTestServer(t)
		game := createGame(t, server)

		// When: X plays cell 4
		resp, payload := do(t, http.MethodPost, server.URL+"/games/"+game.ID+"/moves", `{"cell": 4}`)

		// Then: the board holds X's move and O's reply
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var played entity.GameView
		require.NoError(t, json.Unmarshal(payload, &played))
		assert.Equal(t, entity.PlayerX, played.Cells[4])
		assert.Len(t, played.Cells, 2)
		assert.Equal(t, entity.PlayerX, played.Turn)
	})

	t.Run("Occupied cell is a conflict with the unchanged game", func(t *testing.T) {
		// Given: a game after one exchange
		server := newTestServer(t)
		game := createGame(t, server)
		resp, _ := do(t, http.MethodPost, server.URL+"/games/"+game.ID+"/moves", `{"cell": 0}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		// When: X plays cell 0 again
		resp, payload := do(t, http.MethodPost, server.URL+"/games/"+game.ID+"/moves", `{"cell": 0}`)

		// Then: 409 with the prior board
		require.Equal(t, http.StatusConflict, resp.StatusCode)

		var body errorResponse
		require.NoError(t, json.Unmarshal(payload, &body))
		assert.Contains(t, body.Error, "cell is already occupied")
		require.NotNil(t, body.Game)
		assert.Len(t, body.Game.Cells, 2)
	})

	t.Run("Bad request bodies", func(t *testing.T) {
		server := newTestServer(t)
		game := createGame(t, server)

		resp, _ := do(t, http.MethodPost, server.URL+"/games/"+game.ID+"/moves", `not json`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		resp, _ = do(t, http.MethodPost, server.URL+"/games/"+game.ID+"/moves", `{}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Invalid cell is a conflict", func(t *testing.T) {
		server := newTestServer(t)
		game := createGame(t, server)

		resp, _ := do(t, http.MethodPost, server.URL+"/games/"+game.ID+"/moves", `{"cell": 9}`)

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("Unknown game", func(t *testing.T) {
		server := newTestServer(t)

		resp, _ := do(t, http.MethodGet, server.URL+"/games/nope", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		resp, _ = do(t, http.MethodPost, server.URL+"/games/nope/moves", `{"cell": 1}`)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Reset and delete", func(t *testing.T) {
		// Given: a game in progress
		server := newTestServer(t)
		game := createGame(t, server)
		resp, _ := do(t, http.MethodPost, server.URL+"/games/"+game.ID+"/moves", `{"cell": 0}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		// When: the game is reset mid-round
		resp, payload := do(t, http.MethodPost, server.URL+"/games/"+game.ID+"/reset", "")

		// Then: the board is empty and X opens
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var reset entity.GameView
		require.NoError(t, json.Unmarshal(payload, &reset))
		assert.Empty(t, reset.Cells)
		assert.Equal(t, entity.PlayerX, reset.Turn)

		// When: the game is deleted
		resp, _ = do(t, http.MethodDelete, server.URL+"/games/"+game.ID, "")
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		// Then: it cannot be fetched any more
		resp, _ = do(t, http.MethodGet, server.URL+"/games/"+game.ID, "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestStart(t *testing.T) {
	// Given: a server started on a random port
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)

	go func() {
		errCh <- Start(ctx, "0", http.NotFoundHandler())
	}()

	// When: the context is canceled
	time.Sleep(50 * time.Millisecond)
	cancel()

	// Then: the server shuts down cleanly
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("server did not shut down")
	}
}

type canceledUseCase struct {
	gameUseCase
	err error
}

func (that *canceledUseCase) MakeTurn(_ context.Context, _ string, _ int) (*entity.GameView, error) {
	return nil, that.err
}

func TestHandlers_MakeTurnCanceled(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	for _, cause := range []error{context.Canceled, context.DeadlineExceeded} {
		t.Run(cause.Error(), func(t *testing.T) {
			// Given: a use case whose engine reply was cut short by the request context
			useCase := &canceledUseCase{err: fmt.Errorf("failed make turn: engine move canceled: %w", cause)}
			router := NewRouter(NewHandlers(logger, useCase))

			// When: a move is posted
			req := httptest.NewRequest(http.MethodPost, "/games/g1/moves", strings.NewReader(`{"cell": 0}`))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			// Then: it is reported as a timeout, not an internal error
			require.Equal(t, http.StatusRequestTimeout, rec.Code)

			var body errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "request canceled", body.Error)
		})
	}
}
