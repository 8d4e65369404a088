package robot

import (
	"sync"

	"github.com/gwillem/microbot/pkg/hal"
)

// Timed drives two 360 servos with calibrated pulses, e.g. a :MOVE mini on a
// Servo:Lite board. Distances and angles are covered by driving for a time
// derived from the calibration and then stopping.
type Timed struct {
	mu     sync.Mutex
	servos hal.PulseWriter
	wait   hal.Waiter
	pins   [2]hal.Pin
	speed  int
	cal    Calibration
}

var (
	_ Drive    = (*Timed)(nil)
	_ Reverser = (*Timed)(nil)
	_ Measured = (*Timed)(nil)
)

// NewTimed creates a timed pulse drive.
func NewTimed(servos hal.PulseWriter, wait hal.Waiter, cfg TimedConfig) *Timed {
	return &Timed{
		servos: servos,
		wait:   wait,
		pins:   cfg.Pins,
		speed:  cfg.Speed,
		cal:    cfg.Calibration,
	}
}

func (t *Timed) Kind() DriveKind {
	return TimedDrive
}

func (t *Timed) write(p1, p2 int) {
	t.servos.WritePulse(t.pins[0], p1)
	t.servos.WritePulse(t.pins[1], p2)
}

func (t *Timed) forward() {
	off := PulseOffset(t.speed)
	t.write(NeutralPulse-off, NeutralPulse+off)
}

func (t *Timed) backward() {
	off := PulseOffset(t.speed)
	t.write(NeutralPulse+off, NeutralPulse-off)
}

// stop ends the pulse train instead of writing neutral. A servo out of trim
// may creep at neutral but halts once pulses stop. A positional servo stops
// where it is and holds no torque.
func (t *Timed) stop() {
	t.servos.StopPulse(t.pins[0])
	t.servos.StopPulse(t.pins[1])
}

// Forward drives forwards until Stop is called.
func (t *Timed) Forward() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.forward()
}

// Backward drives backwards until Stop is called.
func (t *Timed) Backward() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.backward()
}

// Left spins left until Stop is called.
func (t *Timed) Left() {
	t.mu.Lock()
	defer t.mu.Unlock()
	off := PulseOffset(t.speed)
	t.write(NeutralPulse-off, NeutralPulse-off)
}

// Right spins right until Stop is called.
func (t *Timed) Right() {
	t.mu.Lock()
	defer t.mu.Unlock()
	off := PulseOffset(t.speed)
	t.write(NeutralPulse+off, NeutralPulse+off)
}

// Stop stops sending servo pulses on both channels.
func (t *Timed) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stop()
}

// Neutral writes the neutral pulse to both channels. A trimmed 360 servo
// stands still; a positional servo goes to 90 degrees.
func (t *Timed) Neutral() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.write(NeutralPulse, NeutralPulse)
}

// DriveForwards drives forwards howFar distance units and stops.
func (t *Timed) DriveForwards(howFar int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.forward()
	t.wait.WaitMicroseconds(t.cal.DriveMicros(howFar))
	t.stop()
}

// DriveBackwards drives backwards howFar distance units and stops.
func (t *Timed) DriveBackwards(howFar int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.backward()
	t.wait.WaitMicroseconds(t.cal.DriveMicros(howFar))
	t.stop()
}

// TurnRight turns right through deg degrees and stops. Accuracy depends on
// DegreesPerSecond being tuned for the robot.
func (t *Timed) TurnRight(deg int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.write(turnRightPulse, turnRightPulse)
	t.wait.WaitMicroseconds(t.cal.TurnMicros(deg))
	t.stop()
}

// TurnLeft turns left through deg degrees and stops.
func (t *Timed) TurnLeft(deg int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.write(turnLeftPulse, turnLeftPulse)
	t.wait.WaitMicroseconds(t.cal.TurnMicros(deg))
	t.stop()
}

// SetMotorSpeed sets the speed percentage used by the next primitive.
func (t *Timed) SetMotorSpeed(speed int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.speed = speed
}

// Speed returns the speed percentage.
func (t *Timed) Speed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.speed
}

// SetDistancePerSecond tunes DriveForwards and DriveBackwards.
func (t *Timed) SetDistancePerSecond(distPerSec int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cal.DistancePerSecond = distPerSec
}

// SetDegreesPerSecond tunes TurnRight and TurnLeft.
func (t *Timed) SetDegreesPerSecond(degPerSec int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cal.DegreesPerSecond = degPerSec
}

// Calibration returns the current calibration.
func (t *Timed) Calibration() Calibration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cal
}

// SetPins moves the servos to other pins. Later calls target the new pins.
func (t *Timed) SetPins(pin1, pin2 hal.Pin) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pins = [2]hal.Pin{pin1, pin2}
}

// Pins returns the two servo pins.
func (t *Timed) Pins() [2]hal.Pin {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pins
}
