package kernel

// EventKind discriminates the scheduled event union.
type EventKind uint8

const (
	// EventParameter sets a parameter, gliding over the kernel's own ramp
	// window.
	EventParameter EventKind = iota + 1
	// EventParameterRamp sets a parameter with a ramp duration carried by
	// the event itself.
	EventParameterRamp
	// EventMIDI carries up to three bytes of MIDI data.
	EventMIDI
)

// Event is one node of a time-ordered, singly linked list of scheduled
// events handed to Process. Time is an absolute sample position on the
// same clock as the render call's now argument; events are applied once
// rendering reaches it.
type Event struct {
	Next       *Event
	Time       int64
	Kind       EventKind
	Address    uint64
	Value      float64
	RampFrames int
	Data       [3]byte
}
