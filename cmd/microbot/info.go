package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/gwillem/microbot/pkg/robot"
)

type InfoCommand struct{}

func (c *InfoCommand) Execute(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	rows := [][]string{
		{"drive", string(cfg.Drive)},
		{"backend", cfg.Backend.Kind},
	}
	if cfg.Backend.Port != "" {
		rows = append(rows, []string{"port", cfg.Backend.Port})
	}
	if cfg.Backend.Kind == robot.BackendFeetech {
		ids := cfg.ServoIDs()
		ch := cfg.DriveChannels()
		rows = append(rows, []string{"servo ids", fmt.Sprintf("%s=%d, %s=%d", ch[0], ids[ch[0]], ch[1], ids[ch[1]])})
	}

	switch cfg.Drive {
	case robot.ContinuousDrive:
		rows = append(rows,
			[]string{"speed", strconv.Itoa(cfg.Continuous.Speed)},
			[]string{"channels", fmt.Sprintf("%s, %s", cfg.Continuous.Channels[0], cfg.Continuous.Channels[1])},
		)
	case robot.TimedDrive:
		rows = append(rows,
			[]string{"speed", strconv.Itoa(cfg.Timed.Speed)},
			[]string{"pins", fmt.Sprintf("%s, %s", cfg.Timed.Pins[0], cfg.Timed.Pins[1])},
			[]string{"distance/s", strconv.Itoa(cfg.Timed.DistancePerSecond)},
			[]string{"degrees/s", strconv.Itoa(cfg.Timed.DegreesPerSecond)},
		)
	}

	// Detectors are only sampled by the continuous drive.
	if cfg.Drive == robot.ContinuousDrive {
		hw, closeHW, err := openHardware(cfg, nil)
		if err != nil {
			return err
		}
		if hw.Inputs != nil {
			drv := robot.NewContinuous(hw.Motors, hw.Inputs, cfg.Continuous)
			d := drv.Detectors()
			rows = append(rows,
				[]string{"right detector " + cfg.Continuous.RightDetector.String(), level(d.Right)},
				[]string{"left detector " + cfg.Continuous.LeftDetector.String(), level(d.Left)},
			)
		}
		if err := closeHW(); err != nil {
			fmt.Fprintf(os.Stderr, "Hardware error: %v\n", err)
		}
	}

	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return keyStyle
			}
			return cellStyle
		})

	fmt.Println(headerStyle.Render("micro:bot"))
	fmt.Println(t.Render())
	return nil
}

func level(high bool) string {
	if high {
		return "high"
	}
	return "low"
}
