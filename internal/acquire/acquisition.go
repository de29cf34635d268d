// SPDX-License-Identifier: MIT
package acquire

import (
	"context"
	"runtime"
	"sync/atomic"
)

// Source yields the result of the most recent conversion.
type Source interface {
	Read() int8
}

// Trigger arms the next conversion.
type Trigger interface {
	Start()
}

// Acquisition is the conversion-complete handler. It fills one Frame,
// re-arming the converter after every stored sample until the frame is
// full, and drops conversions that arrive while the frame is full.
type Acquisition struct {
	frame   *Frame
	source  Source
	trigger Trigger

	overruns atomic.Uint64 // conversions dropped on a full frame
	frames   atomic.Uint64 // frames completed
}

// New wires an acquisition handler to its frame and analog front end.
func New(frame *Frame, source Source, trigger Trigger) *Acquisition {
	return &Acquisition{
		frame:   frame,
		source:  source,
		trigger: trigger,
	}
}

// Frame returns the frame this acquisition fills.
func (a *Acquisition) Frame() *Frame { return a.frame }

// HandleConversion runs in interrupt context, once per completed
// conversion. It never blocks and never signals an error.
func (a *Acquisition) HandleConversion() {
	if a.frame.full() {
		a.overruns.Add(1)
		return
	}

	fill, ok := a.frame.store(a.source.Read())
	if !ok {
		a.overruns.Add(1)
		return
	}

	// The consumer may already own the frame once the last store lands,
	// so the decision uses the returned count, not a second load.
	if fill == a.frame.Len() {
		a.frames.Add(1)
		return
	}
	a.trigger.Start()
}

// Start arms the first conversion.
func (a *Acquisition) Start() {
	a.trigger.Start()
}

// Wait busy-polls until the frame is ready or ctx is done.
func (a *Acquisition) Wait(ctx context.Context) error {
	for !a.frame.Ready() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		runtime.Gosched()
	}
	return nil
}

// Release hands the frame back to the producer and re-arms the converter.
// Call only after every read of the frame has completed.
func (a *Acquisition) Release() {
	a.frame.Release()
	a.trigger.Start()
}

// Overruns returns the number of conversions dropped on a full frame.
func (a *Acquisition) Overruns() uint64 { return a.overruns.Load() }

// Frames returns the number of frames filled so far.
func (a *Acquisition) Frames() uint64 { return a.frames.Load() }
