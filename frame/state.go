package frame

import (
	"github.com/pkg/errors"
)

// State is a step of the frame loop.
type State int

// Frame loop states. A frame walks Idle, Acquiring, Recording, Submitted,
// Presenting and back to Idle. Quitting is terminal.
const (
	Idle State = iota
	Acquiring
	Recording
	Submitted
	Presenting
	Quitting
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Acquiring:
		return "Acquiring"
	case Recording:
		return "Recording"
	case Submitted:
		return "Submitted"
	case Presenting:
		return "Presenting"
	case Quitting:
		return "Quitting"
	default:
		return "Unknown"
	}
}

// ErrInvalidTransition is returned when the loop tries to skip or reorder a
// state.
var ErrInvalidTransition = errors.New("invalid frame state transition")

var transitions = map[State][]State{
	Idle:       {Acquiring, Quitting},
	Acquiring:  {Recording},
	Recording:  {Submitted},
	Submitted:  {Presenting},
	Presenting: {Idle},
}

// CanTransition returns true if the loop may move from one state to the other.
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition is one observed state change.
type Transition struct {
	From State
	To   State
}
