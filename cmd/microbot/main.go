package main

import (
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/gwillem/microbot/pkg/robot"
)

type Options struct {
	Config string `short:"c" long:"config" description:"Configuration file"`
	Sim    bool   `long:"sim" description:"Use the simulator instead of the configured backend"`

	Setup SetupCommand `command:"setup" description:"Pick a backend and drive, and calibrate them"`
	Drive DriveCommand `command:"drive" description:"Run a single drive command"`
	Pilot PilotCommand `command:"pilot" description:"Drive the robot from the keyboard"`
	Info  InfoCommand  `command:"info" description:"Show configuration and detector readings"`
}

var opts = Options{Config: robot.DefaultConfigFile}
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "micro:bot - drive a two-wheeled micro:bit robot"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}
