// SPDX-License-Identifier: MIT
package audio

import (
	"discolight/internal/config"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/gen2brain/malgo"
)

// MiniaudioCapture streams the first channel of a miniaudio capture
// device into a Sink. It needs no PortAudio installation.
type MiniaudioCapture struct {
	ctx      *malgo.AllocatedContext
	device   *malgo.Device
	sink     Sink
	channels int
	name     string
}

// NewMiniaudioCapture opens the capture device whose name contains
// cfg.DeviceName, or the default device when the name is empty.
func NewMiniaudioCapture(cfg config.AudioConfig, sink Sink) (*MiniaudioCapture, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to init miniaudio context: %w", err)
	}

	channels := cfg.InputChannels
	if channels < 1 {
		channels = 1
	}
	c := &MiniaudioCapture{ctx: ctx, sink: sink, channels: channels, name: "default"}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = uint32(channels)
	deviceConfig.SampleRate = uint32(cfg.SampleRate)
	deviceConfig.PeriodSizeInFrames = uint32(cfg.FramesPerBuffer)
	deviceConfig.Alsa.NoMMap = 1

	if cfg.DeviceName != "" {
		infos, err := ctx.Devices(malgo.Capture)
		if err != nil {
			c.free()
			return nil, fmt.Errorf("failed to list capture devices: %w", err)
		}
		found := false
		for _, info := range infos {
			if strings.Contains(strings.ToLower(info.Name()), strings.ToLower(cfg.DeviceName)) {
				deviceConfig.Capture.DeviceID = info.ID.Pointer()
				c.name = info.Name()
				found = true
				break
			}
		}
		if !found {
			c.free()
			return nil, fmt.Errorf("no capture device matches %q", cfg.DeviceName)
		}
	}

	device, err := malgo.InitDevice(ctx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: func(_, input []byte, frameCount uint32) {
			c.processFrames(input, frameCount)
		},
	})
	if err != nil {
		c.free()
		return nil, fmt.Errorf("failed to init capture device: %w", err)
	}
	c.device = device
	return c, nil
}

// Name returns the name of the capture device.
func (c *MiniaudioCapture) Name() string { return c.name }

// Start starts the device.
func (c *MiniaudioCapture) Start() error {
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	}
	return c.device.Start()
}

// Stop stops the device and releases the context.
func (c *MiniaudioCapture) Stop() error {
	if c.device != nil {
		c.device.Uninit()
		c.device = nil
	}
	c.free()
	return nil
}

func (c *MiniaudioCapture) free() {
	if c.ctx != nil {
		_ = c.ctx.Uninit()
		c.ctx.Free()
		c.ctx = nil
	}
}

// processFrames feeds the first channel of interleaved little-endian
// 16-bit frames. It must not allocate.
func (c *MiniaudioCapture) processFrames(input []byte, frameCount uint32) {
	stride := 2 * c.channels
	for i := 0; i < int(frameCount); i++ {
		off := i * stride
		if off+2 > len(input) {
			return
		}
		c.sink.Feed(Sample16(int16(binary.LittleEndian.Uint16(input[off:]))))
	}
}
