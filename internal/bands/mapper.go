// SPDX-License-Identifier: MIT
/*
Package bands maps folded spectrum buckets onto indicator channels.

The channel table is static: it is fixed when the Mapper is built and every
frame is evaluated against the same bucket assignments and thresholds. The
Mapper has no state and no side effects.
*/
package bands

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNoChannels indicates an empty channel table.
	ErrNoChannels = errors.New("at least one channel is required")
	// ErrBucketRange indicates a channel refers to a bucket that does not exist.
	ErrBucketRange = errors.New("channel bucket out of range")
)

// Channel is one row of the channel table.
type Channel struct {
	Name      string
	Bucket    int    // index into the folded spectrum; the last bucket is the residual
	Threshold uint32 // active when power > Threshold
	// Invert tests the 16-bit complement of the power instead, so the
	// channel is active while its band is quiet.
	Invert bool
}

// Active reports whether power crosses the channel threshold.
func (c Channel) Active(power uint32) bool {
	if c.Invert {
		if power > math.MaxUint16 {
			power = math.MaxUint16
		}
		return uint32(^uint16(power)) > c.Threshold
	}
	return power > c.Threshold
}

// Mapper evaluates every channel against one folded spectrum.
type Mapper struct {
	channels []Channel
	buckets  int
}

// NewMapper validates the table against the number of folded buckets.
func NewMapper(channels []Channel, buckets int) (*Mapper, error) {
	if len(channels) == 0 {
		return nil, ErrNoChannels
	}
	for i, ch := range channels {
		if ch.Bucket < 0 || ch.Bucket >= buckets {
			return nil, fmt.Errorf("%w: channel %d (%s) uses bucket %d, have %d",
				ErrBucketRange, i, ch.Name, ch.Bucket, buckets)
		}
	}

	table := make([]Channel, len(channels))
	copy(table, channels)
	return &Mapper{channels: table, buckets: buckets}, nil
}

// Len returns the number of channels.
func (m *Mapper) Len() int { return len(m.channels) }

// Buckets returns the folded spectrum length the table was built for.
func (m *Mapper) Buckets() int { return m.buckets }

// Channel returns row i of the table.
func (m *Mapper) Channel(i int) Channel { return m.channels[i] }

// Evaluate writes one active-this-frame flag per channel.
func (m *Mapper) Evaluate(buckets []uint32, active []bool) {
	for i, ch := range m.channels {
		active[i] = ch.Active(buckets[ch.Bucket])
	}
}
