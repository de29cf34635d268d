// SPDX-License-Identifier: MIT
/*
Package audio connects host audio to the sample acquisition stage:
- Live capture of an analog input using PortAudio
- Replay of WAV files at the pace the consumer accepts samples
- Recording of acquired frames to WAV for later replay

Every source reduces the signal to signed 8-bit samples, the value a left
adjusted converter leaves in its high result register.

Thread Safety:
- The capture callback runs on a PortAudio thread and only calls Feed
- Buffers are pre-allocated to avoid GC in the hot path
*/
package audio

import (
	"discolight/internal/config"
	"fmt"
	"runtime"
	"time"

	"github.com/gordonklaus/portaudio"
)

// Sink accepts free-running samples. acquire.Converter implements it.
type Sink interface {
	Feed(s int8) bool
}

// Sample16 reduces a 16-bit sample to its signed high byte.
func Sample16(s int16) int8 {
	return int8(s >> 8)
}

// Capture streams the first channel of an input device into a Sink.
type Capture struct {
	config config.AudioConfig
	sink   Sink

	inputDevice  *portaudio.DeviceInfo
	inputLatency time.Duration
	inputStream  *portaudio.Stream
}

// NewCapture resolves the configured input device. PortAudio must be
// initialized.
func NewCapture(cfg config.AudioConfig, sink Sink) (*Capture, error) {
	inputDevice, err := InputDevice(cfg.InputDevice)
	if err != nil {
		return nil, err
	}

	c := &Capture{
		config:      cfg,
		sink:        sink,
		inputDevice: inputDevice,
	}
	if cfg.LowLatency {
		c.inputLatency = inputDevice.DefaultLowInputLatency
	} else {
		c.inputLatency = inputDevice.DefaultHighInputLatency
	}
	return c, nil
}

// Device returns the resolved input device.
func (c *Capture) Device() *portaudio.DeviceInfo { return c.inputDevice }

// Start opens and starts the input stream.
func (c *Capture) Start() error {
	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Channels: c.config.InputChannels,
			Device:   c.inputDevice,
			Latency:  c.inputLatency,
		},
		Output: portaudio.StreamDeviceParameters{
			Channels: 0, // No output device
			Device:   nil,
		},
		FramesPerBuffer: c.config.FramesPerBuffer,
		SampleRate:      c.config.SampleRate,
	}

	stream, err := portaudio.OpenStream(params, c.processInputStream)
	if err != nil {
		return fmt.Errorf("failed to open input stream: %w", err)
	}
	c.inputStream = stream

	if err := c.inputStream.Start(); err != nil {
		c.inputStream.Close()
		c.inputStream = nil
		return fmt.Errorf("failed to start input stream: %w", err)
	}

	return nil
}

// Stop stops and closes the input stream. Calling Stop on a stopped
// capture is a no-op.
func (c *Capture) Stop() error {
	if c.inputStream == nil {
		return nil
	}
	if err := c.inputStream.Stop(); err != nil {
		return err
	}
	if err := c.inputStream.Close(); err != nil {
		return err
	}
	c.inputStream = nil
	return nil
}

// processInputStream is the capture callback. It must not allocate.
func (c *Capture) processInputStream(in []int16) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	step := c.config.InputChannels
	if step < 1 {
		step = 1
	}
	for i := 0; i < len(in); i += step {
		c.sink.Feed(Sample16(in[i]))
	}
}
