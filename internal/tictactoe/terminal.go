package tictactoe

import "github.com/rocketscienceinc/tictactoe-engine/internal/entity"

// Evaluate reports whether the board is won, drawn or still open.
// It has no side effects and is safe to call on boards that were never played.
func Evaluate(board *entity.Board) entity.Outcome {
	return evaluateGrid(board.Grid())
}

func evaluateGrid(grid entity.Grid) entity.Outcome {
	for _, line := range entity.VictoryLines {
		a, b, c := grid[line[0]], grid[line[1]], grid[line[2]]
		if a != entity.EmptyCell && a == b && b == c {
			return entity.Won(a)
		}
	}

	// no line is complete, so a full board is a draw
	if grid.Occupied() == entity.BoardSize {
		return entity.Drawn()
	}

	return entity.Open()
}
