package frame

// Event is something the window reported since the last poll.
type Event interface {
	isEvent()
}

// CloseRequested is sent when the user asks the window to close.
type CloseRequested struct{}

// Key identifies a keyboard key.
type Key int

// Keys the renderer cares about. Everything else arrives as KeyUnknown.
const (
	KeyUnknown Key = iota
	KeyEscape
)

// ElementState is the state of a key after an input event.
type ElementState int

// Key states.
const (
	Released ElementState = iota
	Pressed
)

// KeyboardInput is sent when a key changes state.
type KeyboardInput struct {
	Key   Key
	State ElementState
}

func (CloseRequested) isEvent() {}
func (KeyboardInput) isEvent()  {}

// EventSource is the window side of the frame loop. PollEvents processes the
// pending window system events and returns zero or more of them without
// blocking.
type EventSource interface {
	PollEvents() []Event
}

// quitRequested returns true if any of the events asks the loop to stop.
// Events it does not understand are ignored.
func quitRequested(events []Event) bool {
	quitting := false

	for _, event := range events {
		switch ev := event.(type) {
		case CloseRequested:
			quitting = true
		case KeyboardInput:
			if ev.Key == KeyEscape && ev.State == Pressed {
				quitting = true
			}
		default:
		}
	}

	return quitting
}
