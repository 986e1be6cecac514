package tictactoe

import (
	"fmt"
	"math"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// winScore is reduced by the ply depth, so faster wins and slower losses score higher.
const winScore = 10

type Result struct {
	Cell  int `json:"cell"`
	Score int `json:"score"`
	Nodes int `json:"nodes"`
}

type search struct {
	mover entity.Mark
	nodes int
}

// BestMove runs an exhaustive minimax search for mover and returns the best cell.
// Ties are broken towards the lowest cell index. The board is only read.
func BestMove(board *entity.Board, mover entity.Mark) (Result, error) {
	if !mover.IsValid() {
		return Result{}, fmt.Errorf("%w: unknown mark %q", apperror.ErrInvalidSearch, mover)
	}

	grid := board.Grid()
	if outcome := evaluateGrid(grid); !outcome.IsOpen() {
		return Result{}, fmt.Errorf("%w: outcome is %s", apperror.ErrInvalidSearch, outcome.Status)
	}

	s := &search{mover: mover}
	best := Result{Cell: -1, Score: math.MinInt}

	for cell, mark := range grid {
		if mark != entity.EmptyCell {
			continue
		}

		child := grid
		child[cell] = mover

		if score := s.minimax(child, mover.Opponent(), 1); score > best.Score {
			best.Cell = cell
			best.Score = score
		}
	}

	best.Nodes = s.nodes

	return best, nil
}

func (that *search) minimax(grid entity.Grid, toMove entity.Mark, depth int) int {
	that.nodes++

	switch outcome := evaluateGrid(grid); outcome.Status {
	case entity.StatusWon:
		if outcome.Winner == that.mover {
			return winScore - depth
		}
		return depth - winScore
	case entity.StatusDrawn:
		return 0
	case entity.StatusOpen:
	}

	maximizing := toMove == that.mover

	best := math.MaxInt
	if maximizing {
		best = math.MinInt
	}

	for cell, mark := range grid {
		if mark != entity.EmptyCell {
			continue
		}

		child := grid
		child[cell] = toMove

		score := that.minimax(child, toMove.Opponent(), depth+1)
		if (maximizing && score > best) || (!maximizing && score < best) {
			best = score
		}
	}

	return best
}
