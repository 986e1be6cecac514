package entity

type Status string

const (
	StatusOpen  Status = "open"
	StatusWon   Status = "won"
	StatusDrawn Status = "drawn"
)

// Outcome is derived from a Board and is never stored next to it.
type Outcome struct {
	Status Status `json:"status"`
	Winner Mark   `json:"winner,omitempty"`
}

func Open() Outcome {
	return Outcome{Status: StatusOpen}
}

func Won(mark Mark) Outcome {
	return Outcome{Status: StatusWon, Winner: mark}
}

func Drawn() Outcome {
	return Outcome{Status: StatusDrawn}
}

func (that Outcome) IsOpen() bool {
	return that.Status == StatusOpen
}

func (that Outcome) IsFinished() bool {
	return that.Status == StatusWon || that.Status == StatusDrawn
}

func (that Outcome) IsWonBy(mark Mark) bool {
	return that.Status == StatusWon && that.Winner == mark
}
