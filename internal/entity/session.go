package entity

// Session is a single running game addressed by ID.
type Session struct {
	ID    string `json:"id"`
	Board *Board `json:"board"`
}

func NewSession(id string) *Session {
	return &Session{
		ID:    id,
		Board: NewBoard(),
	}
}

// GameView is what the presentation layer renders: the board plus its freshly evaluated outcome.
type GameView struct {
	ID      string       `json:"id"`
	Cells   map[int]Mark `json:"cells"`
	Turn    Mark         `json:"turn,omitempty"`
	Outcome Outcome      `json:"outcome"`
}

func NewGameView(session *Session, outcome Outcome) *GameView {
	view := &GameView{
		ID:      session.ID,
		Cells:   session.Board.Clone().Cells,
		Turn:    session.Board.Turn,
		Outcome: outcome,
	}

	// nobody is to move on a finished board
	if outcome.IsFinished() {
		view.Turn = EmptyCell
	}

	return view
}
