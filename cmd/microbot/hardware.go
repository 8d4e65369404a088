package main

import (
	"errors"
	"fmt"

	"github.com/gwillem/microbot/pkg/bridge"
	"github.com/gwillem/microbot/pkg/hal"
	"github.com/gwillem/microbot/pkg/robot"
	"github.com/gwillem/microbot/pkg/servobus"
	"github.com/gwillem/microbot/pkg/sim"
)

// loadConfig reads the configured file, falling back to the defaults when
// it does not exist yet.
func loadConfig() (*robot.Config, error) {
	var cfg *robot.Config
	if robot.ConfigExists(opts.Config) {
		var err error
		if cfg, err = robot.LoadConfigFrom(opts.Config); err != nil {
			return nil, err
		}
	} else {
		def := robot.DefaultConfig()
		fmt.Println(dimStyle.Render(fmt.Sprintf("No %s, using defaults. Run 'microbot setup' to create one.", opts.Config)))
		cfg = &def
	}
	if opts.Sim {
		cfg.Backend = robot.BackendConfig{Kind: robot.BackendSim}
	}
	return cfg, nil
}

// openHardware connects to the configured backend. The returned close
// function reports the first hardware error seen during the session.
func openHardware(cfg *robot.Config, onEvent func(sim.Event)) (robot.Hardware, func() error, error) {
	clock := hal.NewClock()

	switch cfg.Backend.Kind {
	case robot.BackendSim:
		board := sim.NewBoard()
		board.OnEvent = onEvent
		hw := robot.Hardware{Inputs: board, Motors: board, Servos: board, Waiter: clock}
		return hw, func() error { return nil }, nil

	case robot.BackendBridge:
		b, err := bridge.Open(cfg.Backend.Port, cfg.Backend.BaudRate)
		if err != nil {
			return robot.Hardware{}, nil, err
		}
		hw := robot.Hardware{Inputs: b, Motors: b, Servos: b, Waiter: clock}
		return hw, func() error {
			return errors.Join(b.Err(), b.Close())
		}, nil

	case robot.BackendFeetech:
		bus, err := servobus.Open(servobus.Config{
			Port:     cfg.Backend.Port,
			BaudRate: cfg.Backend.BaudRate,
			ServoIDs: cfg.ServoIDs(),
		})
		if err != nil {
			return robot.Hardware{}, nil, err
		}
		// Bus servos have no detector inputs.
		hw := robot.Hardware{Motors: bus, Servos: bus, Waiter: clock}
		return hw, func() error {
			return errors.Join(bus.Err(), bus.Close())
		}, nil
	}

	return robot.Hardware{}, nil, fmt.Errorf("unknown backend %q", cfg.Backend.Kind)
}
