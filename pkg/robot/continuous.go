package robot

import (
	"sync"

	"github.com/gwillem/microbot/pkg/hal"
)

// turnRatio is the share of speed the inner wheel keeps while turning.
const turnRatio = 0.333333

// Detectors holds the line detector levels sampled at startup.
type Detectors struct {
	Right bool
	Left  bool
}

// SampleDetectors enables the pull-ups on both detector pins and reads them once.
func SampleDetectors(in hal.DigitalReader, right, left hal.Pin) Detectors {
	in.SetPull(right, hal.PullUp)
	in.SetPull(left, hal.PullUp)
	return Detectors{
		Right: in.ReadDigital(right),
		Left:  in.ReadDigital(left),
	}
}

// Continuous drives two continuous-rotation servos by signed speed.
// The servos are mounted mirrored, so driving straight runs channel 2
// at the negated speed.
type Continuous struct {
	mu        sync.Mutex
	motors    hal.Runner
	channels  [2]hal.Pin
	speed     int
	detectors Detectors
}

var _ Drive = (*Continuous)(nil)

// NewContinuous creates a continuous-rotation drive. If in is not nil the
// detectors are sampled once here and never again.
func NewContinuous(motors hal.Runner, in hal.DigitalReader, cfg ContinuousConfig) *Continuous {
	c := &Continuous{
		motors:   motors,
		channels: cfg.Channels,
		speed:    cfg.Speed,
	}
	if in != nil {
		c.detectors = SampleDetectors(in, cfg.RightDetector, cfg.LeftDetector)
	}
	return c
}

func (c *Continuous) Kind() DriveKind {
	return ContinuousDrive
}

func (c *Continuous) run(speed1, speed2 float64) {
	c.motors.Run(c.channels[0], speed1)
	c.motors.Run(c.channels[1], speed2)
}

// Forward drives straight ahead at the configured speed.
func (c *Continuous) Forward() {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := float64(c.speed)
	c.run(s, -s)
}

// Left turns left with the inner wheel at a third of the speed.
func (c *Continuous) Left() {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := float64(c.speed)
	c.run(s, s*-turnRatio)
}

// Right turns right with the inner wheel at a third of the speed.
func (c *Continuous) Right() {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := float64(c.speed)
	c.run(s*turnRatio, -s)
}

// Stop runs both servos at zero.
func (c *Continuous) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.run(0, 0)
}

// SetMotorSpeed is meant to set the speed percentage, but the argument is
// ignored and the current speed is kept. This is a known defect, preserved
// so programs written against this drive keep their behavior. Use
// ContinuousConfig.Speed to pick the speed of this drive.
func (c *Continuous) SetMotorSpeed(_ int) {}

// Speed returns the configured speed percentage.
func (c *Continuous) Speed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.speed
}

// Detectors returns the detector levels sampled at construction.
func (c *Continuous) Detectors() Detectors {
	return c.detectors
}
