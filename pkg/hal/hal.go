package hal

// Pull selects the pull resistor mode of a digital input.
type Pull int

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

// DigitalReader samples digital input pins.
type DigitalReader interface {
	SetPull(pin Pin, mode Pull)
	ReadDigital(pin Pin) bool
}

// Runner drives a continuous-rotation servo. Speed is signed, roughly [-100, 100].
type Runner interface {
	Run(channel Pin, speed float64)
}

// PulseWriter emits servo pulses. WritePulse takes an angle-style value in
// [0, 180] but out-of-range values are passed through as is. StopPulse stops
// emitting pulses on the channel altogether, which is not the same as
// writing the neutral value.
type PulseWriter interface {
	WritePulse(channel Pin, value int)
	StopPulse(channel Pin)
}

// Waiter blocks the caller for the given number of microseconds.
// Zero or negative durations return immediately.
type Waiter interface {
	WaitMicroseconds(us int64)
}
