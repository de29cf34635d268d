// SPDX-License-Identifier: MIT
package uart

import (
	"io"
	"sync"
)

// Receiver is a Line that decodes the bit stream of a Transmitter,
// sampling one level per Set call, and writes every byte with a valid
// stop bit to an io.Writer. Framing errors are counted and the byte is
// discarded.
type Receiver struct {
	mu      sync.Mutex
	w       io.Writer
	bit     int // 0 = waiting for start bit, 1..8 = data bits, 9 = stop bit
	data    byte
	framing int
}

// NewReceiver decodes into w.
func NewReceiver(w io.Writer) *Receiver {
	return &Receiver{w: w}
}

// Set samples one bit period.
func (r *Receiver) Set(high bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case r.bit == 0:
		if !high {
			r.bit = 1
			r.data = 0
		}
	case r.bit <= 8:
		if high {
			r.data |= 1 << (r.bit - 1)
		}
		r.bit++
	default:
		if high {
			_, _ = r.w.Write([]byte{r.data})
		} else {
			r.framing++
		}
		r.bit = 0
	}
}

// FramingErrors returns the number of bytes dropped for a missing stop bit.
func (r *Receiver) FramingErrors() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.framing
}

// Tee is a Line that drives several lines at once.
type Tee []Line

// Set forwards the level to every line.
func (t Tee) Set(high bool) {
	for _, l := range t {
		l.Set(high)
	}
}
