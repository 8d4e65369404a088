// Package servobus drives Feetech STS serial bus servos as robot wheels.
//
// Each servo is switched to wheel (velocity) mode on first use. Pulse values
// are read the way a continuous-rotation servo reads them: 90 is still, and
// the distance from 90 sets the signed velocity. Run speeds -100..100 map
// onto the same velocity span. Stopping a channel sets velocity 0 and
// disables torque, so the wheel coasts like a servo without a pulse train.
package servobus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hipsterbrown/feetech-servo/feetech"

	"github.com/gwillem/microbot/pkg/hal"
)

const (
	DefaultBaudRate = 1_000_000
	// DefaultMaxVelocity is the goal velocity, in steps/s, for a full pulse
	// offset or speed 100.
	DefaultMaxVelocity = 1000
	defaultTimeout     = 100 * time.Millisecond

	neutralPulse = 90
)

// PulseVelocity converts a pulse value to a signed goal velocity. Values
// outside 0..180 extrapolate past maxVelocity.
func PulseVelocity(value, maxVelocity int) int {
	return (value - neutralPulse) * maxVelocity / neutralPulse
}

// SpeedVelocity converts a run speed in percent to a signed goal velocity.
func SpeedVelocity(speed float64, maxVelocity int) int {
	return int(speed * float64(maxVelocity) / 100)
}

// Config configures a servo bus.
type Config struct {
	Port     string
	BaudRate int
	// ServoIDs maps each channel to a servo ID on the bus.
	ServoIDs    map[hal.Pin]int
	MaxVelocity int
	// Timeout bounds each bus transaction.
	Timeout time.Duration
	// Transport replaces the serial port when set.
	Transport feetech.Transport
}

// Bus implements hal.PulseWriter and hal.Runner on a Feetech bus. The first
// error is kept and reported by Err; later writes are still attempted.
type Bus struct {
	mu      sync.Mutex
	bus     *feetech.Bus
	servos  map[hal.Pin]*feetech.Servo
	wheel   map[hal.Pin]bool
	enabled map[hal.Pin]bool
	max     int
	timeout time.Duration
	err     error
}

var (
	_ hal.PulseWriter = (*Bus)(nil)
	_ hal.Runner      = (*Bus)(nil)
)

// Open opens the serial bus. No servo is touched until its channel is first
// written.
func Open(cfg Config) (*Bus, error) {
	if len(cfg.ServoIDs) == 0 {
		return nil, fmt.Errorf("no servo IDs configured")
	}
	if cfg.BaudRate == 0 {
		cfg.BaudRate = DefaultBaudRate
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxVelocity == 0 {
		cfg.MaxVelocity = DefaultMaxVelocity
	}

	bus, err := feetech.NewBus(feetech.BusConfig{
		Transport: cfg.Transport,
		Port:      cfg.Port,
		BaudRate:  cfg.BaudRate,
		Protocol:  feetech.ProtocolSTS,
		Timeout:   cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("open bus: %w", err)
	}

	servos := make(map[hal.Pin]*feetech.Servo, len(cfg.ServoIDs))
	for ch, id := range cfg.ServoIDs {
		servos[ch] = feetech.NewServo(bus, id, nil)
	}

	return &Bus{
		bus:     bus,
		servos:  servos,
		wheel:   make(map[hal.Pin]bool),
		enabled: make(map[hal.Pin]bool),
		max:     cfg.MaxVelocity,
		timeout: cfg.Timeout,
	}, nil
}

// Close closes the bus connection.
func (b *Bus) Close() error {
	return b.bus.Close()
}

// Err returns the first error seen on the bus.
func (b *Bus) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

func (b *Bus) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// WritePulse spins the wheel on channel at the velocity for value.
func (b *Bus) WritePulse(channel hal.Pin, value int) {
	b.setVelocity(channel, PulseVelocity(value, b.max))
}

// Run spins the wheel on channel at speed percent. Speed 0 holds the wheel
// still with torque on.
func (b *Bus) Run(channel hal.Pin, speed float64) {
	b.setVelocity(channel, SpeedVelocity(speed, b.max))
}

func (b *Bus) setVelocity(channel hal.Pin, velocity int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	servo, ok := b.servos[channel]
	if !ok {
		b.fail(fmt.Errorf("no servo mapped to %s", channel))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	// The operating mode can only change with torque off.
	if !b.wheel[channel] {
		if err := servo.Disable(ctx); err != nil {
			b.fail(fmt.Errorf("disable %s: %w", channel, err))
			return
		}
		if err := servo.SetOperatingMode(ctx, feetech.ModeVelocity); err != nil {
			b.fail(fmt.Errorf("wheel mode %s: %w", channel, err))
			return
		}
		b.wheel[channel] = true
		b.enabled[channel] = false
	}

	if !b.enabled[channel] {
		if err := servo.Enable(ctx); err != nil {
			b.fail(fmt.Errorf("enable %s: %w", channel, err))
			return
		}
		b.enabled[channel] = true
	}

	if err := servo.SetVelocity(ctx, velocity); err != nil {
		b.fail(fmt.Errorf("velocity %s: %w", channel, err))
	}
}

// StopPulse sets velocity 0 on channel and disables torque.
func (b *Bus) StopPulse(channel hal.Pin) {
	b.mu.Lock()
	defer b.mu.Unlock()

	servo, ok := b.servos[channel]
	if !ok {
		b.fail(fmt.Errorf("no servo mapped to %s", channel))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	if b.wheel[channel] {
		if err := servo.SetVelocity(ctx, 0); err != nil {
			b.fail(fmt.Errorf("velocity %s: %w", channel, err))
		}
	}
	if err := servo.Disable(ctx); err != nil {
		b.fail(fmt.Errorf("disable %s: %w", channel, err))
		return
	}
	b.enabled[channel] = false
}
