// SPDX-License-Identifier: MIT
package dft

import (
	"discolight/pkg/bitint"
	"errors"
	"fmt"
	"math"
)

// Supported frame lengths.
const (
	MinSize = 8
	MaxSize = 128
)

var (
	// ErrInvalidSize indicates the frame length is not a supported power of two.
	ErrInvalidSize = errors.New("frame size must be a power of two")
	// ErrInvalidShift indicates the fixed-point shift is out of range.
	ErrInvalidShift = errors.New("twiddle shift out of range")
)

// Table holds N fixed-point cosine samples over one full cycle:
// W[n] = trunc(2^shift * cos(2*pi*n/N)). It is immutable after NewTable and
// may be shared by any number of engines.
type Table struct {
	w     []Fixed
	shift uint
	mask  int
}

// NewTable computes the twiddle factors for an n-point frame.
func NewTable(n int, shift uint) (*Table, error) {
	if !bitint.IsPowerOfTwo(n) || n < MinSize || n > MaxSize {
		return nil, fmt.Errorf("%w: got %d (want %d..%d)", ErrInvalidSize, n, MinSize, MaxSize)
	}
	if shift == 0 || shift > MaxShift {
		return nil, fmt.Errorf("%w: got %d (want 1..%d)", ErrInvalidShift, shift, MaxShift)
	}

	w := make([]Fixed, n)
	for i := range w {
		w[i] = FromFloat(math.Cos(2*math.Pi*float64(i)/float64(n)), shift)
	}

	return &Table{w: w, shift: shift, mask: bitint.WrapMask(n)}, nil
}

// At returns the coefficient at phase, taken modulo N.
func (t *Table) At(phase int) Fixed {
	return t.w[phase&t.mask]
}

// Len returns N.
func (t *Table) Len() int { return len(t.w) }

// Shift returns the number of fractional bits.
func (t *Table) Shift() uint { return t.shift }

// Values returns a copy of the coefficients.
func (t *Table) Values() []Fixed {
	out := make([]Fixed, len(t.w))
	copy(out, t.w)
	return out
}
