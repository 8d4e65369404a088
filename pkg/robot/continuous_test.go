package robot

import (
	"math"
	"testing"

	"github.com/gwillem/microbot/pkg/hal"
	"github.com/gwillem/microbot/pkg/sim"
)

func newTestContinuous() (*Continuous, *sim.Board) {
	board := sim.NewBoard()
	return NewContinuous(board, board, DefaultConfig().Continuous), board
}

func runs(board *sim.Board) map[hal.Pin]float64 {
	out := make(map[hal.Pin]float64)
	for _, e := range board.Filter(sim.Run) {
		out[e.Pin] = e.Speed
	}
	return out
}

func TestContinuous_Directions(t *testing.T) {
	tests := []struct {
		name   string
		op     func(*Continuous)
		p1, p2 float64
	}{
		{"forward", (*Continuous).Forward, 30, -30},
		{"left", (*Continuous).Left, 30, -9.99999},
		{"right", (*Continuous).Right, 9.99999, -30},
		{"stop", (*Continuous).Stop, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drv, board := newTestContinuous()
			board.Reset()
			tt.op(drv)

			got := runs(board)
			if math.Abs(got[hal.P1]-tt.p1) > 1e-9 || math.Abs(got[hal.P2]-tt.p2) > 1e-9 {
				t.Errorf("runs = P1:%g P2:%g, want P1:%g P2:%g", got[hal.P1], got[hal.P2], tt.p1, tt.p2)
			}
			if n := len(board.Events()); n != 2 {
				t.Errorf("got %d events, want 2", n)
			}
		})
	}
}

func TestContinuous_SamplesDetectorsOnce(t *testing.T) {
	board := sim.NewBoard()
	board.SetInput(hal.P15, true)
	drv := NewContinuous(board, board, DefaultConfig().Continuous)

	want := []sim.Event{
		{Kind: sim.SetPull, Pin: hal.P15, Pull: hal.PullUp},
		{Kind: sim.SetPull, Pin: hal.P16, Pull: hal.PullUp},
		{Kind: sim.ReadDigital, Pin: hal.P15},
		{Kind: sim.ReadDigital, Pin: hal.P16},
	}
	assertEvents(t, board.Events(), want)

	if d := drv.Detectors(); !d.Right || d.Left {
		t.Errorf("Detectors() = %+v, want right high, left low", d)
	}

	board.SetInput(hal.P16, true)
	drv.Forward()
	if d := drv.Detectors(); d.Left {
		t.Error("detectors were re-sampled")
	}
	if n := len(board.Filter(sim.ReadDigital)); n != 2 {
		t.Errorf("got %d reads, want 2", n)
	}
}

func TestContinuous_NilInputsSkipsDetectors(t *testing.T) {
	board := sim.NewBoard()
	drv := NewContinuous(board, nil, DefaultConfig().Continuous)

	if n := len(board.Events()); n != 0 {
		t.Errorf("got %d events, want none", n)
	}
	if drv.Detectors() != (Detectors{}) {
		t.Errorf("Detectors() = %+v, want zero", drv.Detectors())
	}
}

// SetMotorSpeed on the continuous drive is a known defect: the argument is
// dropped and the drive keeps its configured speed.
func TestContinuous_SetMotorSpeedIsNoOp(t *testing.T) {
	drv, board := newTestContinuous()
	drv.SetMotorSpeed(80)

	if drv.Speed() != 30 {
		t.Errorf("Speed() = %d, want 30", drv.Speed())
	}

	board.Reset()
	drv.Forward()
	got := runs(board)
	if got[hal.P1] != 30 || got[hal.P2] != -30 {
		t.Errorf("runs after SetMotorSpeed(80) = %v, want 30/-30", got)
	}
}

func TestContinuous_Channels(t *testing.T) {
	board := sim.NewBoard()
	cfg := DefaultConfig().Continuous
	cfg.Channels = [2]hal.Pin{hal.P8, hal.P0}
	cfg.Speed = 50
	drv := NewContinuous(board, nil, cfg)

	drv.Forward()
	got := runs(board)
	if got[hal.P8] != 50 || got[hal.P0] != -50 {
		t.Errorf("runs = %v, want P8:50 P0:-50", got)
	}
}
