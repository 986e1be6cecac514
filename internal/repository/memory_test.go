package repository

import (
	"context"
	"testing"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Stores and returns a copy", func(t *testing.T) {
		// Given: a stored session
		sessionRepo := NewMemorySessionRepository()
		session := entity.NewSession("abc")
		session.Board.Cells[0] = entity.PlayerX
		require.NoError(t, sessionRepo.CreateOrUpdate(ctx, session))

		// When: the caller keeps mutating its own board
		session.Board.Cells[1] = entity.PlayerO

		// Then: the stored board is not affected
		retrievedSession, err := sessionRepo.GetByID(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, map[int]entity.Mark{0: entity.PlayerX}, retrievedSession.Board.Cells)

		// And: mutating the returned board does not affect the store either
		retrievedSession.Board.Cells[8] = entity.PlayerO
		again, err := sessionRepo.GetByID(ctx, "abc")
		require.NoError(t, err)
		assert.Len(t, again.Board.Cells, 1)
	})

	t.Run("Missing session", func(t *testing.T) {
		sessionRepo := NewMemorySessionRepository()

		_, err := sessionRepo.GetByID(ctx, "missing")
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)

		err = sessionRepo.DeleteByID(ctx, "missing")
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})

	t.Run("Delete removes the session", func(t *testing.T) {
		sessionRepo := NewMemorySessionRepository()
		require.NoError(t, sessionRepo.CreateOrUpdate(ctx, entity.NewSession("gone")))

		require.NoError(t, sessionRepo.DeleteByID(ctx, "gone"))

		_, err := sessionRepo.GetByID(ctx, "gone")
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})
}
