package sim

import (
	"testing"

	"github.com/gwillem/microbot/pkg/hal"
)

func TestBoard_RecordsInOrder(t *testing.T) {
	b := NewBoard()
	b.WritePulse(hal.P1, 63)
	b.WaitMicroseconds(1000)
	b.StopPulse(hal.P1)
	b.Run(hal.P2, -30)

	got := b.Events()
	want := []Event{
		{Kind: WritePulse, Pin: hal.P1, Value: 63},
		{Kind: Wait, Micros: 1000},
		{Kind: StopPulse, Pin: hal.P1},
		{Kind: Run, Pin: hal.P2, Speed: -30},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d events, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestBoard_Inputs(t *testing.T) {
	b := NewBoard()
	if b.ReadDigital(hal.P15) {
		t.Error("unset input should read low")
	}
	b.SetInput(hal.P15, true)
	if !b.ReadDigital(hal.P15) {
		t.Error("P15 should read high")
	}
}

func TestBoard_FilterAndReset(t *testing.T) {
	b := NewBoard()
	var seen int
	b.OnEvent = func(Event) { seen++ }

	b.WritePulse(hal.P1, 90)
	b.WaitMicroseconds(5)
	b.StopPulse(hal.P8)

	if n := len(b.Filter(WritePulse, StopPulse)); n != 2 {
		t.Errorf("Filter returned %d events, want 2", n)
	}
	if seen != 3 {
		t.Errorf("OnEvent called %d times, want 3", seen)
	}

	b.Reset()
	if n := len(b.Events()); n != 0 {
		t.Errorf("Reset left %d events", n)
	}
}

func TestEvent_String(t *testing.T) {
	tests := []struct {
		e    Event
		want string
	}{
		{Event{Kind: WritePulse, Pin: hal.P8, Value: 130}, "write_pulse P8 130"},
		{Event{Kind: Run, Pin: hal.P1, Speed: -10}, "run P1 -10"},
		{Event{Kind: Wait, Micros: 450000}, "wait 450000us"},
		{Event{Kind: StopPulse, Pin: hal.P1}, "stop_pulse P1"},
	}
	for _, tt := range tests {
		if got := tt.e.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
