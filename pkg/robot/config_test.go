package robot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gwillem/microbot/pkg/hal"
	"github.com/gwillem/microbot/pkg/sim"
)

func TestLoadConfigFrom_KeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "microbot.json")
	data := `{"drive": "timed", "timed": {"speed": 40, "degrees_per_second": 180}}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}
	if cfg.Timed.Speed != 40 {
		t.Errorf("Timed.Speed = %d, want 40", cfg.Timed.Speed)
	}
	if cfg.Timed.DegreesPerSecond != 180 {
		t.Errorf("DegreesPerSecond = %d, want 180", cfg.Timed.DegreesPerSecond)
	}
	if cfg.Timed.DistancePerSecond != 100 {
		t.Errorf("DistancePerSecond = %d, want default 100", cfg.Timed.DistancePerSecond)
	}
	if cfg.Timed.Pins != [2]hal.Pin{hal.P1, hal.P8} {
		t.Errorf("Pins = %v, want default P1/P8", cfg.Timed.Pins)
	}
	if cfg.Continuous.Speed != 30 {
		t.Errorf("Continuous.Speed = %d, want default 30", cfg.Continuous.Speed)
	}
}

func TestConfig_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "microbot.json")
	cfg := DefaultConfig()
	cfg.Drive = ContinuousDrive
	cfg.Backend = BackendConfig{Kind: BackendBridge, Port: "/dev/ttyACM0", BaudRate: 115200}
	cfg.Continuous.Channels = [2]hal.Pin{hal.P2, hal.P1}

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	got, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}
	if got.Drive != ContinuousDrive || got.Backend.Port != "/dev/ttyACM0" {
		t.Errorf("loaded %+v", got)
	}
	if got.Continuous.Channels != [2]hal.Pin{hal.P2, hal.P1} {
		t.Errorf("Channels = %v", got.Continuous.Channels)
	}
}

func TestConfig_ServoIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "microbot.json")
	data := `{"backend": {"kind": "feetech", "port": "/dev/ttyUSB0", "servo_ids": {"P1": 1, "P8": 2}}}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}
	if cfg.Backend.ServoIDs[hal.P1] != 1 || cfg.Backend.ServoIDs[hal.P8] != 2 {
		t.Errorf("ServoIDs = %v", cfg.Backend.ServoIDs)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"unknown drive", func(c *Config) { c.Drive = "tank" }, true},
		{"unknown backend", func(c *Config) { c.Backend.Kind = "gpio" }, true},
		{"bridge without port", func(c *Config) { c.Backend.Kind = BackendBridge }, true},
		{"feetech continuous", func(c *Config) {
			c.Drive = ContinuousDrive
			c.Backend = BackendConfig{Kind: BackendFeetech, Port: "/dev/ttyUSB0"}
		}, false},
		{"feetech without port", func(c *Config) { c.Backend.Kind = BackendFeetech }, true},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(&cfg)
		err := cfg.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestLoadConfigFrom_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.json")
	if ConfigExists(path) {
		t.Errorf("ConfigExists(%s) = true before saving", path)
	}
	if _, err := LoadConfigFrom(path); err == nil {
		t.Error("expected error for missing file")
	}

	cfg := DefaultConfig()
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	if !ConfigExists(path) {
		t.Errorf("ConfigExists(%s) = false after saving", path)
	}
}

func TestConfig_DefaultServoIDs(t *testing.T) {
	cfg := DefaultConfig()
	ids := cfg.ServoIDs()
	if len(ids) != 2 || ids[hal.P1] != 1 || ids[hal.P8] != 2 {
		t.Errorf("timed ServoIDs() = %v, want P1:1 P8:2", ids)
	}

	cfg.Drive = ContinuousDrive
	if cfg.DriveChannels() != [2]hal.Pin{hal.P1, hal.P2} {
		t.Errorf("continuous DriveChannels() = %v", cfg.DriveChannels())
	}
	ids = cfg.ServoIDs()
	if len(ids) != 2 || ids[hal.P1] != 1 || ids[hal.P2] != 2 {
		t.Errorf("continuous ServoIDs() = %v, want P1:1 P2:2", ids)
	}

	cfg.Backend.ServoIDs = map[hal.Pin]int{hal.P1: 7, hal.P2: 9}
	if cfg.ServoIDs()[hal.P2] != 9 {
		t.Errorf("configured ServoIDs() = %v", cfg.ServoIDs())
	}
}

func TestNew(t *testing.T) {
	board := sim.NewBoard()
	hw := Hardware{Inputs: board, Motors: board, Servos: board, Waiter: board}

	cfg := DefaultConfig()
	drv, err := New(cfg, hw)
	if err != nil {
		t.Fatalf("New(timed): %v", err)
	}
	if drv.Kind() != TimedDrive || drv.Speed() != 100 {
		t.Errorf("timed drive: kind %s speed %d", drv.Kind(), drv.Speed())
	}

	cfg.Drive = ContinuousDrive
	drv, err = New(cfg, hw)
	if err != nil {
		t.Fatalf("New(continuous): %v", err)
	}
	if drv.Kind() != ContinuousDrive || drv.Speed() != 30 {
		t.Errorf("continuous drive: kind %s speed %d", drv.Kind(), drv.Speed())
	}

	if _, err := New(cfg, Hardware{Servos: board}); err == nil {
		t.Error("expected error for continuous drive without motors")
	}
	cfg.Drive = TimedDrive
	if _, err := New(cfg, Hardware{Servos: board}); err == nil {
		t.Error("expected error for timed drive without waiter")
	}
}
