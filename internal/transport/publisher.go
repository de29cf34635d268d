// SPDX-License-Identifier: MIT
package transport

import (
	"fmt"
	"sync"
	"time"
)

// DefaultInterval is used when a publisher is created with a non-positive
// interval (~30Hz).
const DefaultInterval = 33 * time.Millisecond

// Publisher periodically copies the latest State and sends it to a
// Transport. Snapshots are only sent when the state has changed since the
// previous tick. It runs in a separate goroutine managed by Start and Stop.
type Publisher struct {
	state    *State
	out      Transport
	interval time.Duration

	ticker   *time.Ticker   // Ticker that triggers publishing.
	doneChan chan struct{}  // Channel used to signal the publisher goroutine to stop.
	stopOnce sync.Once      // Ensures the stop logic runs only once per Start/Stop cycle.
	wg       sync.WaitGroup // Waits for the publisher goroutine to finish during Stop.
	mu       sync.Mutex     // Protects access to ticker and doneChan during Start/Stop.

	lastSeq uint64 // Owned by the publisher goroutine.
}

// NewPublisher creates a publisher of state to out.
func NewPublisher(interval time.Duration, state *State, out Transport) (*Publisher, error) {
	if state == nil {
		return nil, fmt.Errorf("publisher: state cannot be nil")
	}
	if out == nil {
		return nil, fmt.Errorf("publisher: transport cannot be nil")
	}
	if interval <= 0 {
		interval = DefaultInterval
		transportLog.Warnf("publisher: invalid interval provided, defaulting to %s", interval)
	}
	return &Publisher{state: state, out: out, interval: interval}, nil
}

// Start begins the periodic publishing process. It is safe to call Start
// multiple times; subsequent calls are no-ops if already started.
func (p *Publisher) Start() {
	p.mu.Lock()
	if p.ticker != nil {
		p.mu.Unlock()
		transportLog.Warnf("publisher: Start called but already running")
		return
	}

	p.ticker = time.NewTicker(p.interval)
	p.doneChan = make(chan struct{})
	p.stopOnce = sync.Once{}

	// Capture local variables for the goroutine to avoid data races on p.ticker/p.doneChan
	ticker := p.ticker
	doneChan := p.doneChan
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		transportLog.Debugf("publisher: started (interval %s)", p.interval)
		for {
			select {
			case <-ticker.C:
				p.publish()
			case <-doneChan:
				return
			}
		}
	}()
}

// Stop signals the publisher goroutine to terminate and waits for it to
// exit. It is safe to call Stop multiple times.
func (p *Publisher) Stop() error {
	p.mu.Lock()
	if p.ticker == nil {
		p.mu.Unlock()
		return nil
	}
	p.stopOnce.Do(func() {
		close(p.doneChan)
		p.ticker.Stop()
		p.ticker = nil
	})
	p.mu.Unlock()

	p.wg.Wait()
	transportLog.Debugf("publisher: stopped")
	return nil
}

func (p *Publisher) publish() {
	if p.state.Seq() == p.lastSeq {
		return
	}
	snap := p.state.Snapshot()
	p.lastSeq = snap.Seq
	if err := p.out.Send(snap); err != nil {
		transportLog.Warnf("publisher: send frame %d: %v", snap.Seq, err)
	}
}

// Close stops the publisher and closes its transport.
func (p *Publisher) Close() error {
	if err := p.Stop(); err != nil {
		return err
	}
	return p.out.Close()
}

var _ interface{ Close() error } = (*Publisher)(nil)
