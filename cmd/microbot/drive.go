package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gwillem/microbot/pkg/pilot"
	"github.com/gwillem/microbot/pkg/robot"
	"github.com/gwillem/microbot/pkg/sim"
)

type DriveCommand struct {
	Speed *int          `long:"speed" description:"Speed percentage for this command"`
	Hold  time.Duration `long:"hold" description:"Stop again after this long (for forward, backward, left, right)"`

	Args struct {
		Op     string `positional-arg-name:"command" required:"yes" description:"forward, backward, left, right, stop, neutral, drive-forwards, drive-backwards, turn-right, turn-left"`
		Amount int    `positional-arg-name:"amount" description:"Distance or degrees for drive-*/turn-* commands"`
	} `positional-args:"yes"`
}

func (c *DriveCommand) Execute(args []string) error {
	op, err := pilot.ParseOp(c.Args.Op)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	hw, closeHW, err := openHardware(cfg, func(e sim.Event) {
		fmt.Println(dimStyle.Render("  sim: " + e.String()))
	})
	if err != nil {
		return err
	}

	drv, err := robot.New(*cfg, hw)
	if err != nil {
		closeHW()
		return err
	}

	if c.Speed != nil {
		if err := pilot.SetSpeed(drv, *c.Speed); err != nil {
			fmt.Fprintf(os.Stderr, "Ignoring --speed: %v\n", err)
		}
	}

	start := time.Now()
	err = pilot.Execute(drv, pilot.Command{Op: op, Amount: c.Args.Amount}, pilot.Config{SpeedStep: 10})
	if err == nil && c.Hold > 0 && !op.Measured() && op != pilot.OpStop {
		time.Sleep(c.Hold)
		drv.Stop()
	}
	if herr := closeHW(); herr != nil {
		fmt.Fprintf(os.Stderr, "Hardware error: %v\n", herr)
	}
	if err != nil {
		return err
	}

	fmt.Printf("%s %s (%s drive, speed %d) in %s\n",
		successStyle.Render("✓"), op, drv.Kind(), drv.Speed(), time.Since(start).Round(time.Millisecond))
	return nil
}
