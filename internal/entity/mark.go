package entity

// Mark is the symbol a player puts on a cell.
type Mark string

const (
	PlayerX Mark = "X"
	PlayerO Mark = "O"

	EmptyCell Mark = ""
)

// PlayerX always opens a fresh game and is played by the human; the engine plays PlayerO.
const (
	FirstMark  = PlayerX
	SecondMark = PlayerO
)

// Opponent returns the other mark.
func (that Mark) Opponent() Mark {
	if that == PlayerX {
		return PlayerO
	}
	return PlayerX
}

func (that Mark) IsValid() bool {
	return that == PlayerX || that == PlayerO
}
