// SPDX-License-Identifier: MIT

// Package transport publishes channel states to observers outside the
// control loop: websocket clients, UDP listeners, the terminal panel and
// the log.
package transport

import (
	"errors"
	"sync"
	"time"
)

// Transport defines a generic interface for sending processed data or events.
// Implementations should be thread-safe.
type Transport interface {
	Send(data any) error
	Close() error
}

// Snapshot is the state of the pipeline after one frame.
type Snapshot struct {
	Seq      uint64    `json:"seq"`      // Frames processed so far.
	Time     time.Time `json:"time"`     // When the frame was processed.
	Buckets  []uint32  `json:"buckets"`  // Folded power spectrum.
	Counters []int     `json:"counters"` // Hysteresis counters per channel.
	States   []bool    `json:"states"`   // Output state per channel.
	Overruns uint64    `json:"overruns"` // Conversions dropped while the frame was full.
}

// State holds the latest snapshot. The control loop updates it once per
// frame without allocating; publishers copy it out at their own pace.
type State struct {
	mu   sync.Mutex
	snap Snapshot
}

// NewState returns a State sized for the given bucket and channel counts.
func NewState(buckets, channels int) *State {
	return &State{
		snap: Snapshot{
			Buckets:  make([]uint32, buckets),
			Counters: make([]int, channels),
			States:   make([]bool, channels),
		},
	}
}

// Update records the result of one frame.
func (s *State) Update(buckets []uint32, counters []uint8, states []bool, overruns uint64) {
	s.mu.Lock()
	s.snap.Seq++
	s.snap.Time = time.Now()
	copy(s.snap.Buckets, buckets)
	for i := range s.snap.Counters {
		if i < len(counters) {
			s.snap.Counters[i] = int(counters[i])
		}
	}
	copy(s.snap.States, states)
	s.snap.Overruns = overruns
	s.mu.Unlock()
}

// Seq returns the sequence number of the latest update.
func (s *State) Seq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Seq
}

// Snapshot returns a copy of the latest snapshot.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.snap
	out.Buckets = append([]uint32(nil), s.snap.Buckets...)
	out.Counters = append([]int(nil), s.snap.Counters...)
	out.States = append([]bool(nil), s.snap.States...)
	return out
}

// Multi sends to every transport and joins their errors.
type Multi []Transport

// Send forwards data to every transport.
func (m Multi) Send(data any) error {
	var errs []error
	for _, t := range m {
		if err := t.Send(data); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every transport.
func (m Multi) Close() error {
	var errs []error
	for _, t := range m {
		if err := t.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ Transport = Multi(nil)
