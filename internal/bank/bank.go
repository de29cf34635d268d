// SPDX-License-Identifier: MIT
/*
Package bank smooths per-frame threshold decisions into stable indicator
states.

Each channel owns a counter in [0, Max]:

	active frame:   counter = min(counter+Attack, Max); output ON
	inactive frame: counter > 0  -> counter-1, output unchanged
	                counter == 0 -> output OFF

A channel therefore lights on the first active frame and stays lit until
its counter has decayed to zero and one more inactive frame arrives. The
output never turns off on an active frame.
*/
package bank

import (
	"errors"
	"fmt"
)

// DefaultMax is the counter ceiling used when none is configured.
const DefaultMax = 16

var (
	// ErrInvalidMax indicates a zero counter ceiling.
	ErrInvalidMax = errors.New("bank max must be positive")
	// ErrInvalidAttack indicates an attack step of zero or above the ceiling.
	ErrInvalidAttack = errors.New("bank attack must be in 1..max")
)

// Bank holds the hysteresis state of every channel. Counters persist across
// frames and are mutated only through Update and Step.
type Bank struct {
	counters []uint8
	on       []bool
	max      uint8
	attack   uint8
}

// New creates a bank with every counter at zero and every output OFF.
func New(channels int, max, attack uint8) (*Bank, error) {
	if max == 0 {
		return nil, ErrInvalidMax
	}
	if attack == 0 || attack > max {
		return nil, fmt.Errorf("%w: got %d with max %d", ErrInvalidAttack, attack, max)
	}
	return &Bank{
		counters: make([]uint8, channels),
		on:       make([]bool, channels),
		max:      max,
		attack:   attack,
	}, nil
}

// Update applies one frame's decision to channel i and returns its output.
func (b *Bank) Update(i int, active bool) bool {
	if active {
		// Compare before adding so the uint8 sum cannot wrap.
		if b.counters[i] > b.max-b.attack {
			b.counters[i] = b.max
		} else {
			b.counters[i] += b.attack
		}
		b.on[i] = true
		return true
	}

	if b.counters[i] > 0 {
		b.counters[i]--
	} else {
		b.on[i] = false
	}
	return b.on[i]
}

// Step updates every channel and writes the resulting outputs.
func (b *Bank) Step(active, out []bool) {
	for i := range b.counters {
		out[i] = b.Update(i, active[i])
	}
}

// Len returns the number of channels.
func (b *Bank) Len() int { return len(b.counters) }

// Max returns the counter ceiling.
func (b *Bank) Max() uint8 { return b.max }

// Counter returns channel i's counter.
func (b *Bank) Counter(i int) uint8 { return b.counters[i] }

// On returns channel i's output.
func (b *Bank) On(i int) bool { return b.on[i] }

// Counters copies every counter into dst.
func (b *Bank) Counters(dst []uint8) {
	copy(dst, b.counters)
}

// Reset returns every channel to counter 0, output OFF.
func (b *Bank) Reset() {
	for i := range b.counters {
		b.counters[i] = 0
		b.on[i] = false
	}
}
