package robot

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gwillem/microbot/pkg/hal"
)

// DefaultConfigFile is the config file used when --config is not given.
const DefaultConfigFile = "microbot.json"

// DriveKind selects one of the two drive implementations.
type DriveKind string

const (
	// ContinuousDrive runs continuous-rotation servos by signed speed.
	ContinuousDrive DriveKind = "continuous"
	// TimedDrive writes calibrated pulses and times distances and turns.
	TimedDrive DriveKind = "timed"
)

// Backend kinds.
const (
	BackendSim     = "sim"
	BackendBridge  = "bridge"
	BackendFeetech = "feetech"
)

// Config holds the robot configuration
type Config struct {
	Drive      DriveKind        `json:"drive"`
	Backend    BackendConfig    `json:"backend"`
	Continuous ContinuousConfig `json:"continuous"`
	Timed      TimedConfig      `json:"timed"`
}

// BackendConfig describes how to reach the hardware.
type BackendConfig struct {
	Kind     string `json:"kind"`
	Port     string `json:"port,omitempty"`
	BaudRate int    `json:"baud_rate,omitempty"`
	// ServoIDs maps a channel to a Feetech servo ID.
	ServoIDs map[hal.Pin]int `json:"servo_ids,omitempty"`
}

// ContinuousConfig configures the continuous-rotation drive.
type ContinuousConfig struct {
	Speed         int        `json:"speed"`
	Channels      [2]hal.Pin `json:"channels"`
	RightDetector hal.Pin    `json:"right_detector"`
	LeftDetector  hal.Pin    `json:"left_detector"`
}

// TimedConfig configures the calibrated pulse drive.
type TimedConfig struct {
	Speed int        `json:"speed"`
	Pins  [2]hal.Pin `json:"pins"`
	Calibration
}

// DefaultConfig returns the configuration of a stock micro:bot on the
// Servo:Lite board, driven through the simulator.
func DefaultConfig() Config {
	return Config{
		Drive: TimedDrive,
		Backend: BackendConfig{
			Kind: BackendSim,
		},
		Continuous: ContinuousConfig{
			Speed:         30,
			Channels:      [2]hal.Pin{hal.P1, hal.P2},
			RightDetector: hal.P15,
			LeftDetector:  hal.P16,
		},
		Timed: TimedConfig{
			Speed:       100,
			Pins:        [2]hal.Pin{hal.P1, hal.P8},
			Calibration: DefaultCalibration(),
		},
	}
}

// Validate checks that the drive and backend kinds are known.
func (c *Config) Validate() error {
	switch c.Drive {
	case ContinuousDrive, TimedDrive:
	default:
		return fmt.Errorf("unknown drive %q", c.Drive)
	}
	switch c.Backend.Kind {
	case BackendSim:
	case BackendBridge, BackendFeetech:
		if c.Backend.Port == "" {
			return fmt.Errorf("%s backend needs a port", c.Backend.Kind)
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend.Kind)
	}
	return nil
}

// DriveChannels returns the two channels of the selected drive.
func (c *Config) DriveChannels() [2]hal.Pin {
	if c.Drive == ContinuousDrive {
		return c.Continuous.Channels
	}
	return c.Timed.Pins
}

// ServoIDs returns the configured servo IDs, or IDs 1 and 2 on the drive
// channels when none are set.
func (c *Config) ServoIDs() map[hal.Pin]int {
	if len(c.Backend.ServoIDs) > 0 {
		return c.Backend.ServoIDs
	}
	ch := c.DriveChannels()
	return map[hal.Pin]int{ch[0]: 1, ch[1]: 2}
}

// LoadConfigFrom loads configuration from a specific file. Fields missing
// from the file keep their defaults.
func LoadConfigFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// SaveTo saves configuration to a specific file
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ConfigExists returns true if the config file at path exists
func ConfigExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
