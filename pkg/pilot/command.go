package pilot

import (
	"errors"
	"fmt"

	"github.com/gwillem/microbot/pkg/robot"
)

var (
	// ErrUnsupported is returned for commands the drive cannot perform.
	ErrUnsupported = errors.New("not supported")
	// ErrSpeedIgnored is returned when a drive keeps its speed after a change.
	ErrSpeedIgnored = errors.New("drive ignores speed changes")
)

var allOps = []Op{
	OpForward, OpBackward, OpLeft, OpRight, OpStop, OpNeutral,
	OpFaster, OpSlower,
	OpDriveForwards, OpDriveBackwards, OpTurnRight, OpTurnLeft,
}

// Ops returns all command names.
func Ops() []Op {
	return append([]Op(nil), allOps...)
}

// ParseOp parses a command name.
func ParseOp(s string) (Op, error) {
	for _, op := range allOps {
		if string(op) == s {
			return op, nil
		}
	}
	return "", fmt.Errorf("unknown command %q", s)
}

// Measured reports whether op moves a distance or angle and then stops.
func (op Op) Measured() bool {
	switch op {
	case OpDriveForwards, OpDriveBackwards, OpTurnRight, OpTurnLeft:
		return true
	}
	return false
}

// amount returns the distance or angle for a measured command.
func (cmd Command) amount(cfg Config) int {
	if cmd.Amount != 0 {
		return cmd.Amount
	}
	switch cmd.Op {
	case OpDriveForwards, OpDriveBackwards:
		return cfg.Distance
	case OpTurnRight, OpTurnLeft:
		return cfg.Degrees
	}
	return 0
}

// SetSpeed sets the motor speed of d. The continuous drive keeps its speed,
// which is reported as ErrSpeedIgnored.
func SetSpeed(d robot.Drive, speed int) error {
	d.SetMotorSpeed(speed)
	if got := d.Speed(); got != speed {
		return fmt.Errorf("speed stays at %d on %s drive: %w", got, d.Kind(), ErrSpeedIgnored)
	}
	return nil
}

// Execute runs cmd on d and returns when the drive call returns. cfg
// supplies the speed step and the default amounts.
func Execute(d robot.Drive, cmd Command, cfg Config) error {
	switch cmd.Op {
	case OpForward:
		d.Forward()
	case OpLeft:
		d.Left()
	case OpRight:
		d.Right()
	case OpStop:
		d.Stop()
	case OpFaster:
		return SetSpeed(d, d.Speed()+cfg.SpeedStep)
	case OpSlower:
		return SetSpeed(d, d.Speed()-cfg.SpeedStep)
	case OpBackward, OpNeutral:
		r, ok := d.(robot.Reverser)
		if !ok {
			return fmt.Errorf("%s on %s drive: %w", cmd.Op, d.Kind(), ErrUnsupported)
		}
		if cmd.Op == OpBackward {
			r.Backward()
		} else {
			r.Neutral()
		}
	case OpDriveForwards, OpDriveBackwards, OpTurnRight, OpTurnLeft:
		m, ok := d.(robot.Measured)
		if !ok {
			return fmt.Errorf("%s on %s drive: %w", cmd.Op, d.Kind(), ErrUnsupported)
		}
		amount := cmd.amount(cfg)
		switch cmd.Op {
		case OpDriveForwards:
			m.DriveForwards(amount)
		case OpDriveBackwards:
			m.DriveBackwards(amount)
		case OpTurnRight:
			m.TurnRight(amount)
		case OpTurnLeft:
			m.TurnLeft(amount)
		}
	default:
		return fmt.Errorf("unknown command %q", cmd.Op)
	}
	return nil
}
