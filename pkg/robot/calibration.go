package robot

const (
	microsPerSecond = 1_000_000

	// NeutralPulse is the pulse value at which a trimmed 360 servo stands still.
	NeutralPulse = 90

	// Fixed pulses for the timed turns. These run slower than Left/Right at
	// full speed to reduce wheel slip.
	turnRightPulse = 130
	turnLeftPulse  = 50
)

// Calibration holds the rates used to convert a distance or an angle into
// drive time.
type Calibration struct {
	DistancePerSecond int `json:"distance_per_second"`
	DegreesPerSecond  int `json:"degrees_per_second"`
}

// DefaultCalibration returns the rates of an untuned :MOVE mini.
func DefaultCalibration() Calibration {
	return Calibration{
		DistancePerSecond: 100,
		DegreesPerSecond:  200,
	}
}

// DriveMicros returns how long to drive to cover distance.
func (c Calibration) DriveMicros(distance int) int64 {
	return waitMicros(distance, c.DistancePerSecond)
}

// TurnMicros returns how long to turn to rotate through deg degrees.
func (c Calibration) TurnMicros(deg int) int64 {
	return waitMicros(deg, c.DegreesPerSecond)
}

// waitMicros multiplies before dividing so small amounts don't truncate to zero.
// A zero rate gives a zero wait.
func waitMicros(amount, ratePerSecond int) int64 {
	if ratePerSecond == 0 {
		return 0
	}
	return int64(amount) * microsPerSecond / int64(ratePerSecond)
}

// PulseOffset returns the distance from NeutralPulse for a speed percentage:
// 0 maps to 0, 100 maps to 90. Speeds outside [0, 100] are not clamped.
func PulseOffset(speed int) int {
	return (speed * 90) / 100
}
