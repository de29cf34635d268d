// SPDX-License-Identifier: MIT
/*
Package uart is the debug serial path: a bit-clocked asynchronous
transmitter (1 start bit, 8 data bits LSB first, 1 stop bit), a matching
line decoder, and decimal dumps of samples and power values.

The transmitter holds one frame in a shift register. A timer tick shifts
out one bit per baud interval; when the register empties the timer is
stopped. Writing while a byte is still shifting out busy-waits for the
line, which is the only backpressure in the system.
*/
package uart

import (
	"runtime"
	"sync/atomic"
)

// DefaultBaud is the debug line speed.
const DefaultBaud = 9600

// Line is one output level, typically a pin.
type Line interface {
	Set(high bool)
}

// Clock drives Tick at the baud interval between Start and Stop.
type Clock interface {
	Start()
	Stop()
}

// Transmitter shifts bytes out on a Line.
type Transmitter struct {
	shift atomic.Uint32 // remaining frame bits, LSB goes out next; 0 = idle
	line  Line
	clock Clock
}

// NewTransmitter idles the line high. The clock may be nil until
// SetClock is called, which lets a clock be built around Tick.
func NewTransmitter(line Line, clock Clock) *Transmitter {
	line.Set(true)
	return &Transmitter{line: line, clock: clock}
}

// SetClock replaces the bit clock. Call before the first write.
func (t *Transmitter) SetClock(clock Clock) {
	t.clock = clock
}

// frame builds the shift register contents for c: a low start bit at bit
// 0, the data in bits 1..8 and a high stop bit at bit 9.
func frame(c byte) uint32 {
	return uint32(c)<<1 | 1<<9
}

// WriteByte waits for the line to go idle and starts shifting out c.
func (t *Transmitter) WriteByte(c byte) error {
	for t.shift.Load() != 0 {
		runtime.Gosched()
	}
	t.shift.Store(frame(c))
	t.clock.Start()
	return nil
}

// Write sends p byte by byte. It never fails.
func (t *Transmitter) Write(p []byte) (int, error) {
	for _, c := range p {
		_ = t.WriteByte(c)
	}
	return len(p), nil
}

// Busy reports whether a frame is still shifting out.
func (t *Transmitter) Busy() bool {
	return t.shift.Load() != 0
}

// Flush waits for the last frame to leave the shift register.
func (t *Transmitter) Flush() {
	for t.Busy() {
		runtime.Gosched()
	}
}

// Tick shifts one bit onto the line. It runs in timer context.
func (t *Transmitter) Tick() {
	v := t.shift.Load()
	if v == 0 {
		return
	}
	t.line.Set(v&1 != 0)
	v >>= 1
	// Stop the clock before the register reads idle, or a writer could
	// restart it just before this Stop lands.
	if v == 0 {
		t.clock.Stop()
	}
	t.shift.Store(v)
}
