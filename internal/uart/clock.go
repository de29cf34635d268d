// SPDX-License-Identifier: MIT
package uart

import (
	"sync"
	"time"
)

// TickerClock calls a tick function at a fixed interval on its own
// goroutine. Stop may be called from inside the tick function.
type TickerClock struct {
	interval time.Duration
	tick     func()

	mu   sync.Mutex
	done chan struct{}
}

// NewTickerClock creates a stopped clock.
func NewTickerClock(interval time.Duration, tick func()) *TickerClock {
	return &TickerClock{interval: interval, tick: tick}
}

// BaudInterval returns the bit period for a baud rate.
func BaudInterval(baud int) time.Duration {
	if baud <= 0 {
		baud = DefaultBaud
	}
	return time.Second / time.Duration(baud)
}

// Start launches the ticking goroutine unless it is already running.
func (c *TickerClock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done != nil {
		return
	}
	done := make(chan struct{})
	c.done = done

	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.tick()
				// A Stop from inside tick must end this goroutine before
				// another tick can fire, even if Start already replaced done.
				select {
				case <-done:
					return
				default:
				}
			case <-done:
				return
			}
		}
	}()
}

// Stop ends the ticking goroutine. Safe to call when stopped.
func (c *TickerClock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done != nil {
		close(c.done)
		c.done = nil
	}
}

// Running reports whether the clock is ticking.
func (c *TickerClock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done != nil
}
