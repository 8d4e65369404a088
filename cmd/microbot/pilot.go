package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"

	"github.com/gwillem/microbot/pkg/hal"
	"github.com/gwillem/microbot/pkg/pilot"
	"github.com/gwillem/microbot/pkg/robot"
)

type PilotCommand struct {
	Hz       int `long:"hz" default:"20" description:"Chart update frequency"`
	Step     int `long:"step" default:"10" description:"Speed change per +/- key"`
	Distance int `long:"distance" default:"10" description:"Distance for w/s"`
	Degrees  int `long:"degrees" default:"90" description:"Degrees for a/d"`
}

const (
	headerHeight = 2 // title + blank line
	legendHeight = 2 // legend row + blank
	footerHeight = 7 // log box height
	helpHeight   = 2 // key help
	maxLogs      = 5 // number of log messages to show
	borderSize   = 2 // chart border
)

// Channel colors, in pin order
var channelColors = []string{"196", "46", "51", "201"}

var keyCommands = map[string]pilot.Op{
	"up":    pilot.OpForward,
	"down":  pilot.OpBackward,
	"left":  pilot.OpLeft,
	"right": pilot.OpRight,
	" ":     pilot.OpStop,
	"n":     pilot.OpNeutral,
	"+":     pilot.OpFaster,
	"=":     pilot.OpFaster,
	"-":     pilot.OpSlower,
	"w":     pilot.OpDriveForwards,
	"s":     pilot.OpDriveBackwards,
	"a":     pilot.OpTurnLeft,
	"d":     pilot.OpTurnRight,
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	busyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

type pilotModel struct {
	ctrl     *pilot.Controller
	chart    *streamlinechart.Model
	channels []hal.Pin
	rest     float64 // plotted for a stopped channel
	width    int
	height   int
	logs     []string
	state    pilot.State
	quitting bool
}

func (m *pilotModel) addLog(msg string) {
	m.logs = append(m.logs, msg)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// Messages from the controller
type stateMsg pilot.State
type logMsg string

func waitForState(ctrl *pilot.Controller) tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-ctrl.States())
	}
}

func waitForLog(ctrl *pilot.Controller) tea.Cmd {
	return func() tea.Msg {
		return logMsg(<-ctrl.Logs())
	}
}

// chartSize calculates the size of the chart based on terminal dimensions
func (m *pilotModel) chartSize() (width, height int) {
	if m.width == 0 || m.height == 0 {
		return 80, 16 // default size before we know terminal size
	}
	width = m.width - borderSize - 2
	if width < 40 {
		width = 40
	}
	height = m.height - headerHeight - legendHeight - helpHeight - footerHeight - borderSize
	if height < 8 {
		height = 8
	}
	return width, height
}

func initialPilotModel(ctrl *pilot.Controller, channels []hal.Pin) pilotModel {
	minY, maxY, rest := 0.0, 180.0, float64(robot.NeutralPulse)
	if ctrl.Drive().Kind() == robot.ContinuousDrive {
		minY, maxY, rest = -100, 100, 0
	}

	chart := streamlinechart.New(80, 16,
		streamlinechart.WithYRange(minY, maxY),
	)
	for i, ch := range channels {
		color := channelColors[i%len(channelColors)]
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
		chart.SetDataSetStyles(ch.String(), runes.ThinLineStyle, style)
	}

	return pilotModel{
		ctrl:     ctrl,
		chart:    &chart,
		channels: channels,
		rest:     rest,
	}
}

func (m pilotModel) Init() tea.Cmd {
	return tea.Batch(
		waitForState(m.ctrl),
		waitForLog(m.ctrl),
	)
}

func (m pilotModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w, h := m.chartSize()
		m.chart.Resize(w, h)
		return m, nil

	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
		if op, ok := keyCommands[key]; ok {
			m.ctrl.Do(pilot.Command{Op: op})
		}

	case stateMsg:
		m.state = pilot.State(msg)
		for _, ch := range m.channels {
			v := m.rest
			if out, ok := m.state.Outputs[ch]; ok && !out.Stopped {
				v = out.Value
			}
			m.chart.PushDataSet(ch.String(), v)
		}
		m.chart.DrawAll()
		return m, waitForState(m.ctrl)

	case logMsg:
		m.addLog(string(msg))
		return m, waitForLog(m.ctrl)
	}

	return m, nil
}

func (m pilotModel) View() string {
	if m.quitting {
		return "Pilot stopped.\n"
	}

	var sb strings.Builder

	// Header
	sb.WriteString(titleStyle.Render("micro:bot Pilot"))
	sb.WriteString(fmt.Sprintf(" - %s drive, speed %d - %d Hz", m.ctrl.Drive().Kind(), m.state.Speed, m.ctrl.Hz()))
	if m.state.Busy {
		sb.WriteString(busyStyle.Render(fmt.Sprintf("  [%s]", m.state.Last)))
	}
	sb.WriteString("\n\n")

	// Chart
	sb.WriteString(chartStyle.Render(m.chart.View()))
	sb.WriteString("\n")

	// Legend
	sb.WriteString(m.renderLegend())
	sb.WriteString("\n")
	sb.WriteString(statusStyle.Render("↑↓←→ drive  space stop  n neutral  +/- speed  w/s distance  a/d turn  q quit"))
	sb.WriteString("\n")

	// Log box
	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(m.width - 4)

	var logLines string
	if len(m.logs) == 0 {
		logLines = statusStyle.Render("Press 'q' to quit")
	} else {
		logLines = strings.Join(m.logs, "\n")
	}
	sb.WriteString(logStyle.Render(logLines))
	sb.WriteString("\n")

	return sb.String()
}

func (m pilotModel) renderLegend() string {
	var items []string
	for i, ch := range m.channels {
		color := channelColors[i%len(channelColors)]
		colorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
		label := ch.String()
		if out, ok := m.state.Outputs[ch]; ok {
			if out.Stopped {
				label += " stopped"
			} else {
				label += fmt.Sprintf(" %g", out.Value)
			}
		}
		items = append(items, colorStyle.Render("━━")+" "+label)
	}
	return strings.Join(items, "  ")
}

func (c *PilotCommand) Execute(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Invalid configuration. Run 'microbot setup' to fix it.")
		return err
	}

	hw, closeHW, err := openHardware(cfg, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeHW(); err != nil {
			log.Printf("Hardware error: %v", err)
		}
	}()

	tap, hw := pilot.NewTap(hw)
	drv, err := robot.New(*cfg, hw)
	if err != nil {
		return err
	}

	ctrl := pilot.NewController(drv, tap, pilot.Config{
		Hz:        c.Hz,
		SpeedStep: c.Step,
		Distance:  c.Distance,
		Degrees:   c.Degrees,
	})

	// Start controller in background
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := ctrl.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("Controller error: %v", err)
		}
	}()

	// Run TUI
	channels := cfg.DriveChannels()
	p := tea.NewProgram(initialPilotModel(ctrl, channels[:]), tea.WithAltScreen())
	_, err = p.Run()

	// Let a running timed command finish and the motors stop.
	cancel()
	<-done

	if err != nil {
		return fmt.Errorf("run pilot: %w", err)
	}
	return nil
}
