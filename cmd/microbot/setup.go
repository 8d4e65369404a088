package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/gwillem/microbot/pkg/bridge"
	"github.com/gwillem/microbot/pkg/robot"
	"github.com/gwillem/microbot/pkg/servobus"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	subHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type SetupCommand struct{}

func (c *SetupCommand) Execute(args []string) error {
	fmt.Println(headerStyle.Render("micro:bot Setup"))
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━━"))
	fmt.Println()

	cfg := robot.DefaultConfig()
	if robot.ConfigExists(opts.Config) {
		existing, err := robot.LoadConfigFrom(opts.Config)
		if err != nil {
			fmt.Println(dimStyle.Render(fmt.Sprintf("Ignoring %s: %v", opts.Config, err)))
		} else {
			cfg = *existing
			fmt.Printf("Editing %s\n\n", opts.Config)
		}
	}

	// Step 1: Backend
	if err := chooseBackend(&cfg); err != nil {
		return err
	}

	// Step 2: Drive
	fmt.Println()
	fmt.Println(subHeaderStyle.Render("━━━ Drive ━━━"))
	fmt.Println()
	if err := chooseDrive(&cfg); err != nil {
		return err
	}

	// Step 3: Calibrate
	if cfg.Drive == robot.TimedDrive {
		fmt.Println()
		fmt.Println(subHeaderStyle.Render("━━━ Calibration ━━━"))
		fmt.Println("Time a straight run and a spin, then enter the rates.")
		fmt.Println(dimStyle.Render("Try: microbot drive drive-forwards 100, and measure how far it went."))
		fmt.Println()
		if err := calibrate(&cfg); err != nil {
			return err
		}
	}

	if cfg.Backend.Kind == robot.BackendFeetech && len(cfg.Backend.ServoIDs) == 0 {
		cfg.Backend.ServoIDs = cfg.ServoIDs()
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.SaveTo(opts.Config); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"))
	fmt.Println(successStyle.Render("Setup complete!"))
	fmt.Printf("Configuration saved to %s\n", opts.Config)
	fmt.Println()
	fmt.Println("Drive the robot with: " + headerStyle.Render("microbot pilot"))
	return nil
}

func chooseBackend(cfg *robot.Config) error {
	fmt.Println("Scanning for serial ports...")
	ports, err := bridge.Ports()
	if err != nil {
		fmt.Printf("  %v\n", err)
	}
	for _, p := range ports {
		fmt.Printf("  Found %s\n", p)
	}
	fmt.Println()

	kind := cfg.Backend.Kind
	options := []huh.Option[string]{
		huh.NewOption("Simulator (no hardware)", robot.BackendSim),
	}
	if len(ports) > 0 {
		options = append(options,
			huh.NewOption("micro:bit running the serial bridge", robot.BackendBridge),
			huh.NewOption("Feetech STS servos on a serial bus", robot.BackendFeetech),
		)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("How is the robot connected?").
				Options(options...).
				Value(&kind),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	cfg.Backend.Kind = kind
	if kind == robot.BackendSim {
		cfg.Backend.Port = ""
		return nil
	}

	port := cfg.Backend.Port
	portOptions := make([]huh.Option[string], 0, len(ports))
	for _, p := range ports {
		portOptions = append(portOptions, huh.NewOption(p, p))
	}
	form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which port?").
				Options(portOptions...).
				Value(&port),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}
	cfg.Backend.Port = port

	switch kind {
	case robot.BackendBridge:
		cfg.Backend.BaudRate = bridge.DefaultBaudRate
	case robot.BackendFeetech:
		cfg.Backend.BaudRate = servobus.DefaultBaudRate
	}
	return nil
}

func chooseDrive(cfg *robot.Config) error {
	drive := string(cfg.Drive)
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which drive?").
				Description("The continuous drive runs 360 servos by speed; the timed drive writes calibrated pulses").
				Options(
					huh.NewOption("Timed pulses (Servo:Lite / :MOVE mini)", string(robot.TimedDrive)),
					huh.NewOption("Continuous rotation", string(robot.ContinuousDrive)),
				).
				Value(&drive),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}
	cfg.Drive = robot.DriveKind(drive)
	return nil
}

func calibrate(cfg *robot.Config) error {
	speed := strconv.Itoa(cfg.Timed.Speed)
	dist := strconv.Itoa(cfg.Timed.DistancePerSecond)
	deg := strconv.Itoa(cfg.Timed.DegreesPerSecond)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Motor speed (0-100)").
				Value(&speed).
				Validate(validateInt),
			huh.NewInput().
				Title("Distance per second (mm)").
				Value(&dist).
				Validate(validateInt),
			huh.NewInput().
				Title("Degrees per second").
				Value(&deg).
				Validate(validateInt),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	// Validated above.
	cfg.Timed.Speed, _ = strconv.Atoi(speed)
	cfg.Timed.DistancePerSecond, _ = strconv.Atoi(dist)
	cfg.Timed.DegreesPerSecond, _ = strconv.Atoi(deg)
	return nil
}

func validateInt(s string) error {
	if _, err := strconv.Atoi(s); err != nil {
		return fmt.Errorf("enter a whole number")
	}
	return nil
}
