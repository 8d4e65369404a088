package bridge

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gwillem/microbot/pkg/hal"
)

type fakePort struct {
	in       *strings.Reader
	out      bytes.Buffer
	writeErr error
	closed   bool
}

func newFakePort(replies string) *fakePort {
	return &fakePort{in: strings.NewReader(replies)}
}

func (p *fakePort) Read(b []byte) (int, error) { return p.in.Read(b) }

func (p *fakePort) Write(b []byte) (int, error) {
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	return p.out.Write(b)
}

func (p *fakePort) SetReadTimeout(time.Duration) error { return nil }

func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

func TestBridge_Commands(t *testing.T) {
	p := newFakePort("")
	b := newBridge(p)

	b.WritePulse(hal.P1, 63)
	b.WritePulse(hal.P8, 117)
	b.StopPulse(hal.P1)
	b.Run(hal.P2, -9.99999)
	b.Run(hal.P1, 30)
	b.SetPull(hal.P15, hal.PullUp)
	b.SetPull(hal.P16, hal.PullNone)
	b.SetPull(hal.P0, hal.PullDown)

	want := strings.Join([]string{
		"S P1 63",
		"S P8 117",
		"A P1 0",
		"R P2 -9.99999",
		"R P1 30",
		"U P15",
		"N P16",
		"L P0",
	}, "\n") + "\n"

	if got := p.out.String(); got != want {
		t.Errorf("sent:\n%s\nwant:\n%s", got, want)
	}
	if err := b.Err(); err != nil {
		t.Errorf("Err() = %v", err)
	}
}

func TestBridge_ReadDigital(t *testing.T) {
	p := newFakePort("1\r\n0\n")
	b := newBridge(p)

	if !b.ReadDigital(hal.P15) {
		t.Error("P15 should read high")
	}
	if b.ReadDigital(hal.P16) {
		t.Error("P16 should read low")
	}
	if got := p.out.String(); got != "D P15\nD P16\n" {
		t.Errorf("sent %q", got)
	}
	if err := b.Err(); err != nil {
		t.Errorf("Err() = %v", err)
	}
}

func TestBridge_ReadDigitalBadReply(t *testing.T) {
	b := newBridge(newFakePort("what\n"))

	if b.ReadDigital(hal.P15) {
		t.Error("bad reply should read low")
	}
	if b.Err() == nil {
		t.Error("expected error for bad reply")
	}
}

func TestBridge_ReadDigitalNoReply(t *testing.T) {
	b := newBridge(newFakePort(""))

	if b.ReadDigital(hal.P15) {
		t.Error("missing reply should read low")
	}
	if b.Err() == nil {
		t.Error("expected error for missing reply")
	}
}

func TestBridge_StickyError(t *testing.T) {
	p := newFakePort("")
	p.writeErr = errors.New("unplugged")
	b := newBridge(p)

	b.WritePulse(hal.P1, 90)
	p.writeErr = errors.New("second")
	b.StopPulse(hal.P1)

	err := b.Err()
	if err == nil || !strings.Contains(err.Error(), "unplugged") {
		t.Errorf("Err() = %v, want the first failure", err)
	}
}

func TestBridge_Close(t *testing.T) {
	p := newFakePort("")
	b := newBridge(p)
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}
	if !p.closed {
		t.Error("port not closed")
	}
}

// slowPort times out the way serial.Port does, returning no data and no
// error, for the first timeouts reads.
type slowPort struct {
	fakePort
	timeouts int
	reads    int
}

func (p *slowPort) Read(b []byte) (int, error) {
	p.reads++
	if p.timeouts > 0 {
		p.timeouts--
		return 0, nil
	}
	return p.fakePort.Read(b)
}

func TestBridge_ReadDigitalTimeout(t *testing.T) {
	p := &slowPort{fakePort: *newFakePort("1\n"), timeouts: 1}
	b := newBridge(p)

	if b.ReadDigital(hal.P15) {
		t.Error("timed out read should read low")
	}
	if p.reads != 1 {
		t.Errorf("port read %d times, want a single timeout", p.reads)
	}
	if err := b.Err(); !errors.Is(err, ErrTimeout) {
		t.Errorf("Err() = %v, want ErrTimeout", err)
	}

	// The bridge answers the next command.
	if !b.ReadDigital(hal.P16) {
		t.Error("P16 should read high after the timeout")
	}
}
