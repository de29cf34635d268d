// SPDX-License-Identifier: MIT
/*
Package dft implements the fixed-point partial DFT that turns one frame of
8-bit samples into a coarse power spectrum.

Only bins 0..N/2 are computed. Each bin correlates the frame against the
twiddle table twice: once at the cosine phase and once a quarter cycle
behind it (phase offset 3N/4), which yields the sine term without a second
table. All arithmetic is integer:

	re += (s[n] * W[(k*n) mod N]) >> shift
	im -= (s[n] * W[(3N/4 + k*n) mod N]) >> shift
	P[k] = (re*re + im*im) / (N*N)

The shifts truncate toward minus infinity and the division truncates toward
zero. Threshold crossings downstream depend on these exact truncations, so
they must not be replaced by floating point or rounded arithmetic.
*/
package dft

import (
	"discolight/pkg/bitint"
	"fmt"
	"math"
)

// Engine computes power spectra for frames of a fixed length.
// Compute is a pure function of the frame and the table.
type Engine struct {
	table *Table
	n     int
	norm  uint // log2(N*N); the power sum is never negative
}

// NewEngine creates an engine bound to the given twiddle table.
func NewEngine(table *Table) *Engine {
	n := table.Len()
	return &Engine{
		table: table,
		n:     n,
		norm:  uint(2 * bitint.Log2(n)),
	}
}

// FrameSize returns N.
func (e *Engine) FrameSize() int { return e.n }

// Bins returns the number of power values produced per frame (N/2 + 1).
func (e *Engine) Bins() int { return e.n/2 + 1 }

// Compute writes the power of bins 0..N/2 into power.
// Performance Critical (Hot Path):
//   - No allocations
//   - samples must hold at least N values, power at least N/2+1
func (e *Engine) Compute(samples []int8, power []uint32) {
	n := e.n
	shift := e.table.Shift()
	frame := samples[:n]
	power = power[:n/2+1]

	for k := range power {
		var re, im int32
		cosPhase := 0
		sinPhase := 3 * n / 4
		for _, s := range frame {
			re += e.table.At(cosPhase).Mul(s, shift)
			im -= e.table.At(sinPhase).Mul(s, shift)
			cosPhase += k
			sinPhase += k
		}
		power[k] = uint32((int64(re)*int64(re) + int64(im)*int64(im)) >> e.norm)
	}
}

// Spectrum allocates and returns the power of bins 0..N/2.
func (e *Engine) Spectrum(samples []int8) ([]uint32, error) {
	if len(samples) < e.n {
		return nil, fmt.Errorf("frame holds %d samples, need %d", len(samples), e.n)
	}
	power := make([]uint32, e.Bins())
	e.Compute(samples, power)
	return power, nil
}

// Fold reduces a spectrum to len(buckets) values. Bucket i < R takes bin i
// directly, where R = len(buckets)-1; the last bucket is the residual and
// holds the saturating sum of every bin >= R, so energy above the reported
// range is kept rather than discarded. A residual index past the last bin
// leaves the residual at zero.
func Fold(buckets, bins []uint32) {
	if len(buckets) == 0 {
		return
	}
	r := len(buckets) - 1
	for i := 0; i < r; i++ {
		if i < len(bins) {
			buckets[i] = bins[i]
		} else {
			buckets[i] = 0
		}
	}

	var residual uint64
	for i := r; i < len(bins); i++ {
		residual += uint64(bins[i])
	}
	if residual > math.MaxUint32 {
		residual = math.MaxUint32
	}
	buckets[r] = uint32(residual)
}
