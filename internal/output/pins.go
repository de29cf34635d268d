// SPDX-License-Identifier: MIT
package output

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Pin encodes a physical output as port<<4 | bit. Port 0 is A, 1 is B and
// so on, so 0x11 is PB1 and 0x07 is PA7.
type Pin uint8

// NewPin builds a pin from a port index and bit number.
func NewPin(port int, bit uint8) Pin {
	return Pin(uint8(port)<<4 | bit&0x7)
}

// Port returns the port index.
func (p Pin) Port() int { return int(p >> 4) }

// Bit returns the bit number within the port.
func (p Pin) Bit() uint8 { return uint8(p) & 0x7 }

// Mask returns the single-bit mask for the pin.
func (p Pin) Mask() uint8 { return 1 << p.Bit() }

// String formats the pin as "PB1".
func (p Pin) String() string {
	return fmt.Sprintf("P%c%d", 'A'+rune(p.Port()), p.Bit())
}

// ParsePin accepts "PB1", "B1" or a numeric encoding such as "0x11".
func ParsePin(s string) (Pin, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if strings.HasPrefix(s, "0X") {
		v, err := strconv.ParseUint(s[2:], 16, 8)
		if err != nil {
			return 0, fmt.Errorf("invalid pin %q: %w", s, err)
		}
		if v&0x0f > 7 {
			return 0, fmt.Errorf("invalid pin %q: bit nibble above 7", s)
		}
		return Pin(v), nil
	}
	s = strings.TrimPrefix(s, "P")
	if len(s) != 2 || s[0] < 'A' || s[0] > 'P' || s[1] < '0' || s[1] > '7' {
		return 0, fmt.Errorf("invalid pin %q: want port letter and bit 0-7", s)
	}
	return NewPin(int(s[0]-'A'), s[1]-'0'), nil
}

// DefaultPins is the channel-to-pin table of the eight-channel board.
var DefaultPins = []Pin{0x11, 0x12, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02}

// Ports is a bank of 8-bit output port registers. Channels are mapped to
// pins through a static table; Set performs a read-modify-write of the
// owning port. Ports also hands out raw pin lines for other drivers, such
// as the debug serial transmitter.
type Ports struct {
	mu    sync.Mutex
	regs  [16]uint8
	table []Pin
}

// NewPorts creates zeroed registers with the given channel-to-pin table.
func NewPorts(table []Pin) *Ports {
	t := make([]Pin, len(table))
	copy(t, table)
	return &Ports{table: t}
}

// Set drives the pin mapped to channel. Channels outside the table are
// ignored.
func (p *Ports) Set(channel int, on bool) {
	if channel < 0 || channel >= len(p.table) {
		return
	}
	p.write(p.table[channel], on)
}

func (p *Ports) write(pin Pin, high bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if high {
		p.regs[pin.Port()] |= pin.Mask()
	} else {
		p.regs[pin.Port()] &^= pin.Mask()
	}
}

// Port returns the value of port register i.
func (p *Ports) Port(i int) uint8 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.regs[i]
}

// Level returns the level of a single pin.
func (p *Ports) Level(pin Pin) bool {
	return p.Port(pin.Port())&pin.Mask() != 0
}

// Line returns a settable line bound to one pin.
func (p *Ports) Line(pin Pin) *PinLine {
	return &PinLine{ports: p, pin: pin}
}

// PinLine drives one pin of a Ports bank.
type PinLine struct {
	ports *Ports
	pin   Pin
}

// Set drives the pin high or low.
func (l *PinLine) Set(high bool) {
	l.ports.write(l.pin, high)
}
