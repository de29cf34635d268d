// SPDX-License-Identifier: MIT
package driver

import (
	"discolight/internal/bands"
	"discolight/internal/bank"
	"discolight/internal/config"
	"discolight/internal/dft"
	"discolight/internal/output"
	"fmt"
)

// Channels returns the channel table of cfg: the explicit list when one is
// given, otherwise the named preset.
func Channels(cfg *config.Config) ([]bands.Channel, error) {
	if len(cfg.Bands.Channels) == 0 {
		return bands.Preset(cfg.Bands.Preset, cfg.Bands.ResidualFrom)
	}
	channels := make([]bands.Channel, len(cfg.Bands.Channels))
	for i, c := range cfg.Bands.Channels {
		name := c.Name
		if name == "" {
			name = fmt.Sprintf("ch%d", i)
		}
		channels[i] = bands.Channel{
			Name:      name,
			Bucket:    c.Bucket,
			Threshold: c.Threshold,
			Invert:    c.Invert,
		}
	}
	return channels, nil
}

// Pins returns the channel-to-pin table for n channels. Channels without
// an explicit pin take the board default for their position.
func Pins(cfg *config.Config, n int) ([]output.Pin, error) {
	pins := make([]output.Pin, n)
	for i := range pins {
		var name string
		if i < len(cfg.Bands.Channels) {
			name = cfg.Bands.Channels[i].Pin
		}
		switch {
		case name != "":
			pin, err := output.ParsePin(name)
			if err != nil {
				return nil, fmt.Errorf("channel %d: %w", i, err)
			}
			pins[i] = pin
		case i < len(output.DefaultPins):
			pins[i] = output.DefaultPins[i]
		default:
			return nil, fmt.Errorf("channel %d has no pin and the board table has %d", i, len(output.DefaultPins))
		}
	}
	return pins, nil
}

// Build creates the pipeline described by cfg, driving out.
func Build(cfg *config.Config, out output.Output) (*Pipeline, error) {
	table, err := dft.NewTable(cfg.DFT.FrameSize, cfg.DFT.TwiddleShift)
	if err != nil {
		return nil, err
	}
	engine := dft.NewEngine(table)

	channels, err := Channels(cfg)
	if err != nil {
		return nil, err
	}
	mapper, err := bands.NewMapper(channels, cfg.Bands.ResidualFrom+1)
	if err != nil {
		return nil, err
	}
	b, err := bank.New(len(channels), uint8(cfg.Bank.Max), uint8(cfg.Bank.Attack))
	if err != nil {
		return nil, err
	}

	driverLog.Debugf("built pipeline: N=%d shift=%d buckets=%d channels=%d max=%d attack=%d",
		cfg.DFT.FrameSize, cfg.DFT.TwiddleShift, mapper.Buckets(), len(channels), cfg.Bank.Max, cfg.Bank.Attack)
	return NewPipeline(engine, mapper, b, out)
}

// ChannelNames returns the names of the channels cfg describes.
func ChannelNames(cfg *config.Config) ([]string, error) {
	channels, err := Channels(cfg)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(channels))
	for i, c := range channels {
		names[i] = c.Name
	}
	return names, nil
}
