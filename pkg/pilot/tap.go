package pilot

import (
	"sync"

	"github.com/gwillem/microbot/pkg/hal"
	"github.com/gwillem/microbot/pkg/robot"
)

// Output is the last command sent to a channel.
type Output struct {
	Value   float64
	Stopped bool
}

// Tap sits between a drive and its hardware and remembers the last value
// written to each channel.
type Tap struct {
	mu      sync.RWMutex
	outputs map[hal.Pin]Output
}

// NewTap wraps the motors and servos of hw. Capabilities that are nil in hw
// stay nil in the returned Hardware.
func NewTap(hw robot.Hardware) (*Tap, robot.Hardware) {
	t := &Tap{outputs: make(map[hal.Pin]Output)}
	if hw.Motors != nil {
		hw.Motors = tapRunner{tap: t, next: hw.Motors}
	}
	if hw.Servos != nil {
		hw.Servos = tapPulses{tap: t, next: hw.Servos}
	}
	return t, hw
}

func (t *Tap) set(ch hal.Pin, out Output) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.outputs[ch] = out
}

// Outputs returns a copy of the last output per channel.
func (t *Tap) Outputs() map[hal.Pin]Output {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[hal.Pin]Output, len(t.outputs))
	for ch, o := range t.outputs {
		out[ch] = o
	}
	return out
}

type tapRunner struct {
	tap  *Tap
	next hal.Runner
}

func (r tapRunner) Run(channel hal.Pin, speed float64) {
	r.tap.set(channel, Output{Value: speed})
	r.next.Run(channel, speed)
}

type tapPulses struct {
	tap  *Tap
	next hal.PulseWriter
}

func (p tapPulses) WritePulse(channel hal.Pin, value int) {
	p.tap.set(channel, Output{Value: float64(value)})
	p.next.WritePulse(channel, value)
}

func (p tapPulses) StopPulse(channel hal.Pin) {
	p.tap.set(channel, Output{Stopped: true})
	p.next.StopPulse(channel)
}
