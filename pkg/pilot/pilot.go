// Package pilot runs drive commands for an interactive session.
package pilot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gwillem/microbot/pkg/hal"
	"github.com/gwillem/microbot/pkg/robot"
)

// Op names a drive command.
type Op string

const (
	OpForward        Op = "forward"
	OpBackward       Op = "backward"
	OpLeft           Op = "left"
	OpRight          Op = "right"
	OpStop           Op = "stop"
	OpNeutral        Op = "neutral"
	OpFaster         Op = "faster"
	OpSlower         Op = "slower"
	OpDriveForwards  Op = "drive-forwards"
	OpDriveBackwards Op = "drive-backwards"
	OpTurnRight      Op = "turn-right"
	OpTurnLeft       Op = "turn-left"
)

// Command is a single drive command. Amount is the distance or angle for
// the measured ops; zero picks the configured default.
type Command struct {
	Op     Op
	Amount int
}

// State is a snapshot of the drive.
type State struct {
	Outputs   map[hal.Pin]Output
	Speed     int
	Busy      bool
	Last      Op
	Timestamp time.Time
}

// Controller executes commands on a drive one at a time.
type Controller struct {
	drive robot.Drive
	tap   *Tap
	cfg   Config

	mu      sync.RWMutex
	running bool
	busy    bool
	last    Op
	speed   int
	cmdCh   chan Command
	stateCh chan State
	logCh   chan string
}

// Config holds configuration for the controller.
type Config struct {
	Hz        int // state update rate
	SpeedStep int // change per faster/slower
	Distance  int // default for drive-forwards/backwards
	Degrees   int // default for turn-right/left
}

// NewController creates a controller for drive. tap may be nil, in which
// case states carry no outputs.
func NewController(drive robot.Drive, tap *Tap, cfg Config) *Controller {
	if cfg.Hz <= 0 {
		cfg.Hz = 20
	}
	if cfg.SpeedStep <= 0 {
		cfg.SpeedStep = 10
	}
	if cfg.Distance <= 0 {
		cfg.Distance = 10
	}
	if cfg.Degrees <= 0 {
		cfg.Degrees = 90
	}
	return &Controller{
		drive:   drive,
		speed:   drive.Speed(),
		tap:     tap,
		cfg:     cfg,
		cmdCh:   make(chan Command, 8),
		stateCh: make(chan State, 1),
		logCh:   make(chan string, 10),
	}
}

// States returns a channel that receives state updates.
func (c *Controller) States() <-chan State {
	return c.stateCh
}

// Logs returns a channel that receives log messages.
func (c *Controller) Logs() <-chan string {
	return c.logCh
}

// Hz returns the state update rate.
func (c *Controller) Hz() int {
	return c.cfg.Hz
}

// Drive returns the controlled drive.
func (c *Controller) Drive() robot.Drive {
	return c.drive
}

func (c *Controller) log(format string, args ...any) {
	msg := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	select {
	case c.logCh <- msg:
	default:
		// Drop if channel full
	}
}

// Do queues a command. It never blocks; commands are dropped while the
// queue is full.
func (c *Controller) Do(cmd Command) {
	select {
	case c.cmdCh <- cmd:
	default:
		c.log("Busy, dropped %s", cmd.Op)
	}
}

// Start runs queued commands until ctx is done, then stops the drive.
// A command in progress, including its wait, always completes.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("already running")
	}
	c.running = true
	c.mu.Unlock()

	c.log("Pilot started: %s drive, speed %d", c.drive.Kind(), c.drive.Speed())

	done := make(chan struct{})
	go c.work(ctx, done)

	ticker := time.NewTicker(time.Second / time.Duration(c.cfg.Hz))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			<-done
			c.shutdown()
			return ctx.Err()
		case <-ticker.C:
			c.sendState(c.Snapshot())
		}
	}
}

func (c *Controller) work(ctx context.Context, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-c.cmdCh:
			c.execute(cmd)
		}
	}
}

func (c *Controller) execute(cmd Command) {
	c.mu.Lock()
	c.busy = true
	c.last = cmd.Op
	c.mu.Unlock()

	defer func() {
		speed := c.drive.Speed()
		c.mu.Lock()
		c.busy = false
		c.speed = speed
		c.mu.Unlock()
	}()

	start := time.Now()
	if err := Execute(c.drive, cmd, c.cfg); err != nil {
		c.log("%v", err)
		return
	}

	switch cmd.Op {
	case OpFaster, OpSlower:
		c.log("Speed %d", c.drive.Speed())
	case OpDriveForwards, OpDriveBackwards, OpTurnRight, OpTurnLeft:
		c.log("%s %d took %s", cmd.Op, cmd.amount(c.cfg), time.Since(start).Round(time.Millisecond))
	}
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() State {
	c.mu.RLock()
	s := State{
		Speed:     c.speed,
		Busy:      c.busy,
		Last:      c.last,
		Timestamp: time.Now(),
	}
	c.mu.RUnlock()

	if c.tap != nil {
		s.Outputs = c.tap.Outputs()
	}
	return s
}

func (c *Controller) sendState(s State) {
	select {
	case c.stateCh <- s:
	default:
		// Drop old state if channel full, replace with new
		select {
		case <-c.stateCh:
		default:
		}
		c.stateCh <- s
	}
}

func (c *Controller) shutdown() {
	c.mu.Lock()
	c.running = false
	c.mu.Unlock()

	c.drive.Stop()
	c.log("Pilot stopped, motors stopped")
}
