// SPDX-License-Identifier: MIT
package acquire

import (
	"context"
	"runtime"
	"sync/atomic"
)

// Converter is a software model of a single-shot analog converter. A
// sample offered while the converter is armed completes a conversion and
// invokes the handler; samples offered while it is idle are missed, as a
// hardware converter that was never started would miss them.
//
// Converter satisfies both Source and Trigger.
type Converter struct {
	armed   atomic.Bool
	latest  int8 // written and read on the feeding goroutine only
	handler func()
	missed  atomic.Uint64
}

// NewConverter returns an idle converter.
func NewConverter() *Converter {
	return &Converter{}
}

// OnComplete sets the conversion-complete handler. Must be called before
// the first Feed.
func (c *Converter) OnComplete(handler func()) {
	c.handler = handler
}

// Start arms the converter. Safe to call from any goroutine.
func (c *Converter) Start() {
	c.armed.Store(true)
}

// Read returns the result of the conversion being completed.
func (c *Converter) Read() int8 {
	return c.latest
}

// Armed reports whether a conversion is pending.
func (c *Converter) Armed() bool {
	return c.armed.Load()
}

// Feed offers one sample from a free-running signal. It reports whether
// the sample completed a conversion.
func (c *Converter) Feed(s int8) bool {
	if !c.armed.CompareAndSwap(true, false) {
		c.missed.Add(1)
		return false
	}
	c.latest = s
	if c.handler != nil {
		c.handler()
	}
	return true
}

// FeedPaced waits for the converter to be armed and then feeds s. Use it
// for sources that can be paused, such as file replay, so no sample is
// missed.
func (c *Converter) FeedPaced(ctx context.Context, s int8) error {
	for !c.armed.Load() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		runtime.Gosched()
	}
	c.Feed(s)
	return nil
}

// Missed returns the number of samples offered while idle.
func (c *Converter) Missed() uint64 {
	return c.missed.Load()
}
