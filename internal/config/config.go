// SPDX-License-Identifier: MIT
package config

import "time"

// Core configuration constants that define the boundaries and defaults of
// the indicator driver.
const (
	// Audio input
	DefaultSource          = SourcePortAudio
	DefaultDeviceID        = MinDeviceID // System default input device
	DefaultSampleRate      = 9600        // Close to the 125 kHz / 13 cycle converter rate
	DefaultFramesPerBuffer = 256         // Samples per PortAudio callback
	DefaultChannels        = 1           // Mono; only the first channel is sampled

	// Spectral analysis
	DefaultFrameSize    = 32 // Samples per frame (N)
	DefaultTwiddleShift = 6  // Fractional bits of the twiddle factors

	// Hysteresis
	DefaultBankMax    = 16 // Counter ceiling (frames of release)
	DefaultBankAttack = 1  // Counter increment per active frame

	// Band mapping
	DefaultPreset       = "octave"
	DefaultResidualFrom = 8 // First bin folded into the residual bucket

	// Debug serial
	DefaultDump  = "none"
	DefaultBaud  = 9600
	DefaultTxPin = "PB0"

	// Transport
	DefaultUDPTargetAddress = "127.0.0.1:9090"
	DefaultUDPSendInterval  = 33 * time.Millisecond // ~30Hz
	DefaultWebSocketAddress = ":8080"

	// Hardware and processing limits
	MinDeviceID   = -1     // -1 represents system default device
	MinSampleRate = 1000   // Minimum usable sample rate (Hz)
	MaxSampleRate = 192000 // Maximum supported sample rate (Hz)
	MaxBankMax    = 255    // Counters are 8 bit
)

// Audio sources.
const (
	SourcePortAudio = "portaudio"
	SourceWAV       = "wav"
	SourceMiniaudio = "miniaudio"
)

// Config represents the main application configuration, loaded from YAML.
type Config struct {
	Debug     bool            `yaml:"debug"`     // Enable debug mode (verbose logging).
	LogLevel  string          `yaml:"log_level"` // Logging level (e.g., "debug", "info", "warn", "error").
	TUI       bool            `yaml:"tui"`       // Show the terminal indicator panel.
	Audio     AudioConfig     `yaml:"audio"`     // Analog input settings.
	DFT       DFTConfig       `yaml:"dft"`       // Spectral engine settings.
	Bank      BankConfig      `yaml:"bank"`      // Hysteresis settings.
	Bands     BandsConfig     `yaml:"bands"`     // Channel table.
	Serial    SerialConfig    `yaml:"serial"`    // Debug serial dumps.
	Recording RecordingConfig `yaml:"recording"` // Raw frame recording.
	Transport TransportConfig `yaml:"transport"` // Network publishing of channel states.
}

// AudioConfig holds settings of the analog input.
type AudioConfig struct {
	Source          string  `yaml:"source"`            // "portaudio", "miniaudio" or "wav".
	InputDevice     int     `yaml:"input_device"`      // PortAudio device index for audio input (-1 for default).
	DeviceName      string  `yaml:"device_name"`       // Miniaudio capture device name substring (empty for default).
	SampleRate      float64 `yaml:"sample_rate"`       // Sample rate in Hz.
	FramesPerBuffer int     `yaml:"frames_per_buffer"` // Samples per PortAudio callback.
	InputChannels   int     `yaml:"input_channels"`    // Channels to open; only the first is sampled.
	LowLatency      bool    `yaml:"low_latency"`       // Request low latency settings from PortAudio device.
	WAVFile         string  `yaml:"wav_file"`          // File replayed when source is "wav".
	Loop            bool    `yaml:"loop"`              // Replay the WAV file forever.
}

// DFTConfig holds settings of the spectral engine.
type DFTConfig struct {
	FrameSize    int  `yaml:"frame_size"`    // Samples per frame, a power of two in 8..128.
	TwiddleShift uint `yaml:"twiddle_shift"` // Fractional bits of the fixed-point twiddle factors.
}

// BankConfig holds settings of the hysteresis bank.
type BankConfig struct {
	Max    int `yaml:"max"`    // Counter ceiling.
	Attack int `yaml:"attack"` // Counter increment per active frame.
}

// BandsConfig holds the channel table.
type BandsConfig struct {
	Preset       string          `yaml:"preset"`        // "octave" or "three-band"; ignored when channels are listed.
	ResidualFrom int             `yaml:"residual_from"` // Bins at or above this index fold into the residual bucket.
	Channels     []ChannelConfig `yaml:"channels"`      // Explicit channel table.
}

// ChannelConfig is one indicator channel.
type ChannelConfig struct {
	Name      string `yaml:"name"`
	Bucket    int    `yaml:"bucket"`    // Folded spectrum index; residual_from is the residual bucket.
	Threshold uint32 `yaml:"threshold"` // Active when power exceeds this value.
	Invert    bool   `yaml:"invert"`    // Test the 16-bit complement of the power.
	Pin       string `yaml:"pin"`       // Output pin, e.g. "PB1". Defaults to the board table.
}

// SerialConfig holds the debug serial settings.
type SerialConfig struct {
	Dump  string `yaml:"dump"`   // "none", "samples" or "power".
	Port  string `yaml:"port"`   // Hardware serial port; empty uses the bit-banged TX pin.
	Baud  int    `yaml:"baud"`   // Line speed.
	TxPin string `yaml:"tx_pin"` // Pin driven by the bit-banged transmitter.
}

// RecordingConfig holds settings of the raw frame recorder.
type RecordingConfig struct {
	Enabled   bool   `yaml:"enabled"`    // Record every acquired frame to WAV.
	OutputDir string `yaml:"output_dir"` // Directory to save recordings.
}

// TransportConfig holds settings related to publishing channel states.
type TransportConfig struct {
	UDPEnabled       bool          `yaml:"udp_enabled"`        // Enable sending channel states over UDP.
	UDPTargetAddress string        `yaml:"udp_target_address"` // Target address and port for UDP packets.
	UDPSendInterval  time.Duration `yaml:"udp_send_interval"`  // Interval between UDP packets.
	WebSocketEnabled bool          `yaml:"websocket_enabled"`  // Serve channel states on /ws.
	WebSocketAddress string        `yaml:"websocket_address"`  // Listen address of the websocket server.
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Audio: AudioConfig{
			Source:          DefaultSource,
			InputDevice:     DefaultDeviceID,
			SampleRate:      DefaultSampleRate,
			FramesPerBuffer: DefaultFramesPerBuffer,
			InputChannels:   DefaultChannels,
		},
		DFT: DFTConfig{
			FrameSize:    DefaultFrameSize,
			TwiddleShift: DefaultTwiddleShift,
		},
		Bank: BankConfig{
			Max:    DefaultBankMax,
			Attack: DefaultBankAttack,
		},
		Bands: BandsConfig{
			Preset:       DefaultPreset,
			ResidualFrom: DefaultResidualFrom,
		},
		Serial: SerialConfig{
			Dump:  DefaultDump,
			Baud:  DefaultBaud,
			TxPin: DefaultTxPin,
		},
		Recording: RecordingConfig{
			OutputDir: "./recordings",
		},
		Transport: TransportConfig{
			UDPTargetAddress: DefaultUDPTargetAddress,
			UDPSendInterval:  DefaultUDPSendInterval,
			WebSocketAddress: DefaultWebSocketAddress,
		},
	}
}
