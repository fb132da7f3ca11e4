package camera

import (
	"fmt"

	"github.com/rotisserie/eris"
)

// ErrIllegalTransition is returned when an event is not valid in the current state
var ErrIllegalTransition = eris.New("illegal rotation transition")

// State is the rotation controller state
type State int

const (
	// Rotating spins the globe on every animation tick
	Rotating State = iota
	// Paused keeps ticking without moving the camera
	Paused
	// Flying means a fly-to transition owns the camera
	Flying
)

func (s State) String() string {
	switch s {
	case Rotating:
		return "rotating"
	case Paused:
		return "paused"
	case Flying:
		return "flying"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Event drives state transitions
type Event int

const (
	// Interact is a pointer or touch press on the map
	Interact Event = iota
	// Pause is an explicit pause request
	Pause
	// Resume is an explicit resume request
	Resume
	// FlyStart begins a fly-to transition
	FlyStart
	// FlyEnd is the move-end of the current fly-to transition
	FlyEnd
)

func (e Event) String() string {
	switch e {
	case Interact:
		return "interact"
	case Pause:
		return "pause"
	case Resume:
		return "resume"
	case FlyStart:
		return "fly-start"
	case FlyEnd:
		return "fly-end"
	default:
		return fmt.Sprintf("Event(%d)", int(e))
	}
}

// Interaction and pauses during a flight leave the flight in charge; it lands
// in Paused anyway. Resume during a flight is rejected so rotation can never
// fight the flight for the camera.
var transitions = map[State]map[Event]State{
	Rotating: {
		Interact: Paused,
		Pause:    Paused,
		Resume:   Rotating,
		FlyStart: Flying,
	},
	Paused: {
		Interact: Paused,
		Pause:    Paused,
		Resume:   Rotating,
		FlyStart: Flying,
	},
	Flying: {
		Interact: Flying,
		Pause:    Flying,
		FlyStart: Flying,
		FlyEnd:   Paused,
	},
}

// Next returns the state reached from s on e
func Next(s State, e Event) (State, error) {
	next, ok := transitions[s][e]
	if !ok {
		return s, eris.Wrapf(ErrIllegalTransition, "%s while %s", e, s)
	}
	return next, nil
}
