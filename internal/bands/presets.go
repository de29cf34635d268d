// SPDX-License-Identifier: MIT
package bands

import "fmt"

// Preset names accepted by Preset.
const (
	PresetOctave    = "octave"
	PresetThreeBand = "three-band"
)

// Octave returns the default eight-channel table: channel i watches bucket
// i+1, skipping DC, and the last channel watches the residual bucket at
// residualFrom. All thresholds are zero, so any energy lights a channel.
func Octave(residualFrom int) []Channel {
	channels := make([]Channel, 0, residualFrom)
	for i := 1; i <= residualFrom; i++ {
		channels = append(channels, Channel{
			Name:   fmt.Sprintf("band%d", i),
			Bucket: i,
		})
	}
	return channels
}

// ThreeBand returns the low/mid/high table. The low channel uses the
// inverted test, so it lights while the DC bucket is quiet.
func ThreeBand() []Channel {
	return []Channel{
		{Name: "low", Bucket: 0, Threshold: 65500, Invert: true},
		{Name: "mid", Bucket: 1, Threshold: 500},
		{Name: "high", Bucket: 2, Threshold: 5000},
	}
}

// Preset returns a named channel table.
func Preset(name string, residualFrom int) ([]Channel, error) {
	switch name {
	case PresetOctave, "":
		return Octave(residualFrom), nil
	case PresetThreeBand:
		return ThreeBand(), nil
	default:
		return nil, fmt.Errorf("unknown band preset %q", name)
	}
}
