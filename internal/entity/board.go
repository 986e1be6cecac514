package entity

import (
	"fmt"
	"sort"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

const BoardSize = 9

// VictoryLines are the rows, diagonals and columns, in the order they are checked.
var VictoryLines = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 4, 8},
	{2, 4, 6},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
}

// Grid is a fixed size view of a board, indexed by cell.
type Grid [BoardSize]Mark

// Board holds marks for occupied cells only and the mark to move next.
// Cells are appended one at a time and only cleared by a reset.
type Board struct {
	Cells map[int]Mark `json:"cells"`
	Turn  Mark         `json:"turn"`
}

func NewBoard() *Board {
	return NewBoardWithTurn(FirstMark)
}

func NewBoardWithTurn(turn Mark) *Board {
	return &Board{
		Cells: make(map[int]Mark, BoardSize),
		Turn:  turn,
	}
}

func IsValidCell(cell int) bool {
	return cell >= 0 && cell < BoardSize
}

// Clone returns a deep copy that can be mutated without touching the original.
func (that *Board) Clone() *Board {
	clone := NewBoardWithTurn(that.Turn)
	for cell, mark := range that.Cells {
		clone.Cells[cell] = mark
	}
	return clone
}

func (that *Board) IsOccupied(cell int) bool {
	_, ok := that.Cells[cell]
	return ok
}

func (that *Board) Occupied() int {
	return len(that.Cells)
}

// EmptyCells returns unoccupied cells in ascending order.
func (that *Board) EmptyCells() []int {
	cells := make([]int, 0, BoardSize-len(that.Cells))
	for cell := 0; cell < BoardSize; cell++ {
		if !that.IsOccupied(cell) {
			cells = append(cells, cell)
		}
	}
	return cells
}

// OccupiedCells returns occupied cells in ascending order.
func (that *Board) OccupiedCells() []int {
	cells := make([]int, 0, len(that.Cells))
	for cell := range that.Cells {
		cells = append(cells, cell)
	}
	sort.Ints(cells)
	return cells
}

func (that *Board) Grid() Grid {
	var grid Grid
	for cell, mark := range that.Cells {
		if IsValidCell(cell) {
			grid[cell] = mark
		}
	}
	return grid
}

func (that Grid) Occupied() int {
	count := 0
	for _, mark := range that {
		if mark != EmptyCell {
			count++
		}
	}
	return count
}

// Validate rejects boards that could not come from play: cells outside the grid,
// unknown marks or an unknown turn.
func (that *Board) Validate() error {
	if !that.Turn.IsValid() {
		return fmt.Errorf("%w: unknown turn %q", apperror.ErrInvalidBoard, that.Turn)
	}

	for cell, mark := range that.Cells {
		if !IsValidCell(cell) {
			return fmt.Errorf("%w: cell %d is off the grid", apperror.ErrInvalidBoard, cell)
		}

		if !mark.IsValid() {
			return fmt.Errorf("%w: cell %d holds %q", apperror.ErrInvalidBoard, cell, mark)
		}
	}

	return nil
}
