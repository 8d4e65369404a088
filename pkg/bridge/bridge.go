// Package bridge talks to a micro:bit running the serial bridge program.
//
// The bridge accepts one command per line over USB serial:
//
//	S <pin> <value>   servo write (pulse value 0..180)
//	A <pin> 0         analog write 0, ends the servo pulse train
//	R <pin> <speed>   run a continuous-rotation servo, speed -100..100
//	U|L|N <pin>       pull-up, pull-down or no pull on a digital input
//	D <pin>           digital read, answered with a line "0" or "1"
//
// Only D is answered. Pins are written as P0..P20.
package bridge

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"

	"github.com/gwillem/microbot/pkg/hal"
)

const (
	DefaultBaudRate = 115200
	readTimeout     = 500 * time.Millisecond
)

// ErrTimeout is reported when the micro:bit does not answer a read within
// the read timeout.
var ErrTimeout = errors.New("bridge: read timeout")

// port is the part of serial.Port the bridge uses.
type port interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
}

// timeoutReader turns the empty read serial.Port returns on a timeout into
// ErrTimeout, so a missing reply fails after one read timeout.
type timeoutReader struct {
	r io.Reader
}

func (t timeoutReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if n == 0 && err == nil && len(p) > 0 {
		return 0, ErrTimeout
	}
	return n, err
}

// Bridge implements the hal capabilities over a serial link. Calls never
// return errors; the first failure is kept and reported by Err.
type Bridge struct {
	mu     sync.Mutex
	port   port
	reader *bufio.Reader
	err    error
}

var (
	_ hal.DigitalReader = (*Bridge)(nil)
	_ hal.Runner        = (*Bridge)(nil)
	_ hal.PulseWriter   = (*Bridge)(nil)
)

// Open opens the serial port of a micro:bit running the bridge.
func Open(name string, baudRate int) (*Bridge, error) {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	p, err := serial.Open(name, &serial.Mode{BaudRate: baudRate})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	if err := p.SetReadTimeout(readTimeout); err != nil {
		p.Close()
		return nil, fmt.Errorf("set read timeout: %w", err)
	}
	return newBridge(p), nil
}

func newBridge(p port) *Bridge {
	return &Bridge{
		port:   p,
		reader: bufio.NewReader(timeoutReader{p}),
	}
}

// Close closes the serial port.
func (b *Bridge) Close() error {
	return b.port.Close()
}

// Err returns the first error seen on the link.
func (b *Bridge) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

func (b *Bridge) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *Bridge) send(fields ...string) bool {
	line := strings.Join(fields, " ") + "\n"
	if _, err := io.WriteString(b.port, line); err != nil {
		b.fail(fmt.Errorf("send %q: %w", strings.TrimSpace(line), err))
		return false
	}
	return true
}

func (b *Bridge) SetPull(pin hal.Pin, mode hal.Pull) {
	cmd := "N"
	switch mode {
	case hal.PullUp:
		cmd = "U"
	case hal.PullDown:
		cmd = "L"
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.send(cmd, pin.String())
}

// ReadDigital reads a pin. A failed read reports low.
func (b *Bridge) ReadDigital(pin hal.Pin) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.send("D", pin.String()) {
		return false
	}
	line, err := b.reader.ReadString('\n')
	if err != nil {
		// Drop a partial line so a late reply cannot answer the next read.
		b.reader.Reset(timeoutReader{b.port})
		b.fail(fmt.Errorf("read %s: %w", pin, err))
		return false
	}
	switch strings.TrimSpace(line) {
	case "1":
		return true
	case "0":
		return false
	default:
		b.fail(fmt.Errorf("read %s: unexpected reply %q", pin, strings.TrimSpace(line)))
		return false
	}
}

func (b *Bridge) Run(channel hal.Pin, speed float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.send("R", channel.String(), strconv.FormatFloat(speed, 'f', -1, 64))
}

func (b *Bridge) WritePulse(channel hal.Pin, value int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.send("S", channel.String(), strconv.Itoa(value))
}

func (b *Bridge) StopPulse(channel hal.Pin) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.send("A", channel.String(), "0")
}

// Ports lists serial ports that may have a micro:bit attached.
func Ports() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list ports: %w", err)
	}
	var out []string
	for _, p := range ports {
		// Skip Bluetooth ports on macOS
		if strings.Contains(p, "Bluetooth") {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
