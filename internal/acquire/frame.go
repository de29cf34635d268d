// SPDX-License-Identifier: MIT
/*
Package acquire implements interrupt-style sample capture into a single
fixed-length frame and the handoff of that frame to the control loop.

Ownership protocol (single producer, single consumer):
  - The producer (conversion callback) is the only writer of samples and
    of the fill counter while fill < N. Each store publishes one sample.
  - When fill reaches N the frame belongs to the consumer. The producer
    refuses further stores until the consumer calls Release.
  - The consumer reads only after Ready reports true and calls Release
    only after it has finished reading.

The fill counter is an atomic, so the happens-before edges of the Go
memory model carry the sample writes across goroutines without locks.
*/
package acquire

import "sync/atomic"

// Frame is a fixed-length buffer of signed 8-bit samples plus its fill
// counter. The counter is always in [0, N].
type Frame struct {
	samples []int8
	fill    atomic.Int32
}

// NewFrame allocates an empty frame of n samples.
func NewFrame(n int) *Frame {
	return &Frame{samples: make([]int8, n)}
}

// Len returns N.
func (f *Frame) Len() int { return len(f.samples) }

// Fill returns the number of samples currently held.
func (f *Frame) Fill() int { return int(f.fill.Load()) }

// Ready reports whether the frame is full and owned by the consumer.
func (f *Frame) Ready() bool { return f.Fill() == len(f.samples) }

// Samples returns the frame contents. Only valid for the consumer between
// observing Ready and calling Release.
func (f *Frame) Samples() []int8 { return f.samples }

// Release hands an exhausted frame back to the producer.
func (f *Frame) Release() { f.fill.Store(0) }

// store appends one sample and returns the new fill count. Producer only.
// On a full frame the sample is dropped and ok is false.
func (f *Frame) store(s int8) (fill int, ok bool) {
	n := f.fill.Load()
	if int(n) >= len(f.samples) {
		return int(n), false
	}
	f.samples[n] = s
	f.fill.Store(n + 1)
	return int(n) + 1, true
}

// full is the producer-side bounds guard.
func (f *Frame) full() bool {
	return int(f.fill.Load()) >= len(f.samples)
}
