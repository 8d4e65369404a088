// Package sim provides an in-memory micro:bit that records every hardware call.
package sim

import (
	"fmt"
	"sync"

	"github.com/gwillem/microbot/pkg/hal"
)

// Kind is the type of a recorded hardware call.
type Kind string

const (
	SetPull     Kind = "set_pull"
	ReadDigital Kind = "read_digital"
	Run         Kind = "run"
	WritePulse  Kind = "write_pulse"
	StopPulse   Kind = "stop_pulse"
	Wait        Kind = "wait"
)

// Event is a single recorded hardware call. Only the fields relevant to the
// kind are set.
type Event struct {
	Kind   Kind
	Pin    hal.Pin
	Pull   hal.Pull
	Speed  float64
	Value  int
	Micros int64
}

func (e Event) String() string {
	switch e.Kind {
	case SetPull:
		return fmt.Sprintf("%s %s %d", e.Kind, e.Pin, e.Pull)
	case ReadDigital:
		return fmt.Sprintf("%s %s", e.Kind, e.Pin)
	case Run:
		return fmt.Sprintf("%s %s %g", e.Kind, e.Pin, e.Speed)
	case WritePulse:
		return fmt.Sprintf("%s %s %d", e.Kind, e.Pin, e.Value)
	case StopPulse:
		return fmt.Sprintf("%s %s", e.Kind, e.Pin)
	case Wait:
		return fmt.Sprintf("%s %dus", e.Kind, e.Micros)
	}
	return string(e.Kind)
}

// Board implements every hal capability in memory. Waits are recorded but
// do not block. The zero value is ready to use.
type Board struct {
	mu     sync.Mutex
	events []Event
	inputs map[hal.Pin]bool

	// OnEvent, if set, is called for each recorded event.
	OnEvent func(Event)
}

var (
	_ hal.DigitalReader = (*Board)(nil)
	_ hal.Runner        = (*Board)(nil)
	_ hal.PulseWriter   = (*Board)(nil)
	_ hal.Waiter        = (*Board)(nil)
)

// NewBoard creates an empty board.
func NewBoard() *Board {
	return &Board{}
}

// SetInput sets the level returned by ReadDigital for a pin.
func (b *Board) SetInput(pin hal.Pin, level bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.inputs == nil {
		b.inputs = make(map[hal.Pin]bool)
	}
	b.inputs[pin] = level
}

func (b *Board) record(e Event) {
	b.mu.Lock()
	b.events = append(b.events, e)
	fn := b.OnEvent
	b.mu.Unlock()
	if fn != nil {
		fn(e)
	}
}

func (b *Board) SetPull(pin hal.Pin, mode hal.Pull) {
	b.record(Event{Kind: SetPull, Pin: pin, Pull: mode})
}

func (b *Board) ReadDigital(pin hal.Pin) bool {
	b.record(Event{Kind: ReadDigital, Pin: pin})
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.inputs[pin]
}

func (b *Board) Run(channel hal.Pin, speed float64) {
	b.record(Event{Kind: Run, Pin: channel, Speed: speed})
}

func (b *Board) WritePulse(channel hal.Pin, value int) {
	b.record(Event{Kind: WritePulse, Pin: channel, Value: value})
}

func (b *Board) StopPulse(channel hal.Pin) {
	b.record(Event{Kind: StopPulse, Pin: channel})
}

func (b *Board) WaitMicroseconds(us int64) {
	b.record(Event{Kind: Wait, Micros: us})
}

// Events returns a copy of all recorded events.
func (b *Board) Events() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Event, len(b.events))
	copy(out, b.events)
	return out
}

// Reset clears recorded events. Inputs are kept.
func (b *Board) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = nil
}

// Filter returns the recorded events of the given kinds, in order.
func (b *Board) Filter(kinds ...Kind) []Event {
	var out []Event
	for _, e := range b.Events() {
		for _, k := range kinds {
			if e.Kind == k {
				out = append(out, e)
				break
			}
		}
	}
	return out
}
