// Package hal defines the hardware capabilities the drives are written against.
package hal

import (
	"fmt"
	"strconv"
	"strings"
)

// Pin identifies a micro:bit edge connector pin (P0-P20).
type Pin int

// Pins used by the micro:bot.
const (
	P0  Pin = 0
	P1  Pin = 1
	P2  Pin = 2
	P8  Pin = 8
	P15 Pin = 15
	P16 Pin = 16
)

// MaxPin is the highest pin number on the edge connector.
const MaxPin = 20

// String returns the pin name, e.g. "P1".
func (p Pin) String() string {
	return "P" + strconv.Itoa(int(p))
}

// ParsePin parses a pin name like "P8" or "8".
func ParsePin(s string) (Pin, error) {
	s = strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "P")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parse pin %q: %w", s, err)
	}
	if n < 0 || n > MaxPin {
		return 0, fmt.Errorf("pin P%d out of range P0-P%d", n, MaxPin)
	}
	return Pin(n), nil
}

// MarshalText encodes the pin as its name.
func (p Pin) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a pin name.
func (p *Pin) UnmarshalText(text []byte) error {
	pin, err := ParsePin(string(text))
	if err != nil {
		return err
	}
	*p = pin
	return nil
}

// UnmarshalFlag lets pins be used directly as go-flags option values.
func (p *Pin) UnmarshalFlag(value string) error {
	return p.UnmarshalText([]byte(value))
}
