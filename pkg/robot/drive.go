// Package robot provides the two micro:bot drive implementations.
package robot

import (
	"fmt"

	"github.com/gwillem/microbot/pkg/hal"
)

// Drive is the set of operations both drive implementations support.
// Every call runs to completion before it returns.
type Drive interface {
	Kind() DriveKind
	Forward()
	Left()
	Right()
	Stop()
	SetMotorSpeed(speed int)
	Speed() int
}

// Reverser is implemented by drives that can reverse and hold neutral.
type Reverser interface {
	Backward()
	Neutral()
}

// Measured is implemented by drives that move a calibrated distance or
// angle and then stop.
type Measured interface {
	DriveForwards(howFar int)
	DriveBackwards(howFar int)
	TurnRight(deg int)
	TurnLeft(deg int)
}

// Hardware bundles the capabilities a drive may need. Unused ones may be nil.
type Hardware struct {
	Inputs hal.DigitalReader
	Motors hal.Runner
	Servos hal.PulseWriter
	Waiter hal.Waiter
}

// New builds the drive selected by cfg.Drive.
func New(cfg Config, hw Hardware) (Drive, error) {
	switch cfg.Drive {
	case ContinuousDrive:
		if hw.Motors == nil {
			return nil, fmt.Errorf("%s drive needs a motor runner", cfg.Drive)
		}
		return NewContinuous(hw.Motors, hw.Inputs, cfg.Continuous), nil
	case TimedDrive:
		if hw.Servos == nil || hw.Waiter == nil {
			return nil, fmt.Errorf("%s drive needs a pulse writer and a waiter", cfg.Drive)
		}
		return NewTimed(hw.Servos, hw.Waiter, cfg.Timed), nil
	default:
		return nil, fmt.Errorf("unknown drive %q", cfg.Drive)
	}
}
