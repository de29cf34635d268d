// SPDX-License-Identifier: MIT
/*
Package output turns channel states into pin levels.

The pipeline only knows the Output capability: "set channel i to on/off".
Adapters decide what a channel is physically: a bit in a port register, a
recorded call for tests, or several of these at once.
*/
package output

import "sync"

// Output is the digital output capability consumed by the control loop.
type Output interface {
	Set(channel int, on bool)
}

// Multi fans one Set call out to several outputs, in order.
type Multi []Output

// Set forwards to every output.
func (m Multi) Set(channel int, on bool) {
	for _, o := range m {
		o.Set(channel, on)
	}
}

// Recorder is an in-memory Output that keeps the latest state of every
// channel and counts level changes. It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	states  []bool
	toggles []int
	calls   int
}

// NewRecorder creates a recorder for n channels, all OFF.
func NewRecorder(n int) *Recorder {
	return &Recorder{
		states:  make([]bool, n),
		toggles: make([]int, n),
	}
}

// Set records the state of channel.
func (r *Recorder) Set(channel int, on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.states[channel] != on {
		r.toggles[channel]++
	}
	r.states[channel] = on
}

// State returns the last state written to channel.
func (r *Recorder) State(channel int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.states[channel]
}

// States returns a copy of every channel state.
func (r *Recorder) States() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]bool, len(r.states))
	copy(out, r.states)
	return out
}

// Toggles returns how many times channel changed level.
func (r *Recorder) Toggles(channel int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.toggles[channel]
}

// Calls returns the total number of Set calls.
func (r *Recorder) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}
