// SPDX-License-Identifier: MIT
package config

import (
	"discolight/internal/output"
	"discolight/pkg/bitint"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	applog "discolight/internal/log"

	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// LoadConfig loads configuration from a YAML file specified by path. If path
// is empty, it searches the default location ("discolight.yaml"). If no file
// is found, it uses built-in defaults. After loading defaults or from file,
// it applies environment variable overrides and validates the result.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		candidates := []string{"discolight.yaml", "config.yaml"}
		for _, candidate := range candidates {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Apply environment variable overrides AFTER loading from file.
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if _, ok := applog.ParseLevel(c.LogLevel); !ok && c.LogLevel != "" {
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalid, c.LogLevel)
	}

	// Audio
	switch c.Audio.Source {
	case SourcePortAudio, SourceMiniaudio:
	case SourceWAV:
		if c.Audio.WAVFile == "" {
			return fmt.Errorf("%w: audio.wav_file must be set when source is %q", ErrInvalid, SourceWAV)
		}
	default:
		return fmt.Errorf("%w: unknown audio.source %q", ErrInvalid, c.Audio.Source)
	}
	if c.Audio.SampleRate < MinSampleRate || c.Audio.SampleRate > MaxSampleRate {
		return fmt.Errorf("%w: audio.sample_rate %.0f outside %d..%d", ErrInvalid, c.Audio.SampleRate, MinSampleRate, MaxSampleRate)
	}
	if c.Audio.FramesPerBuffer <= 0 {
		return fmt.Errorf("%w: audio.frames_per_buffer must be positive", ErrInvalid)
	}
	if c.Audio.InputChannels <= 0 {
		return fmt.Errorf("%w: audio.input_channels must be positive", ErrInvalid)
	}
	if c.Audio.InputDevice < MinDeviceID {
		return fmt.Errorf("%w: audio.input_device %d", ErrInvalid, c.Audio.InputDevice)
	}

	// Spectral engine
	if !bitint.IsPowerOfTwo(c.DFT.FrameSize) && c.DFT.FrameSize > 8 && c.DFT.FrameSize < 128 {
		return fmt.Errorf("%w: dft.frame_size %d must be a power of two (try %d)",
			ErrInvalid, c.DFT.FrameSize, bitint.NextPowerOfTwo(c.DFT.FrameSize))
	}
	if !bitint.IsPowerOfTwo(c.DFT.FrameSize) || c.DFT.FrameSize < 8 || c.DFT.FrameSize > 128 {
		return fmt.Errorf("%w: dft.frame_size %d must be a power of two in 8..128", ErrInvalid, c.DFT.FrameSize)
	}
	if c.DFT.TwiddleShift == 0 || c.DFT.TwiddleShift > 14 {
		return fmt.Errorf("%w: dft.twiddle_shift %d outside 1..14", ErrInvalid, c.DFT.TwiddleShift)
	}

	// Hysteresis
	if c.Bank.Max <= 0 || c.Bank.Max > MaxBankMax {
		return fmt.Errorf("%w: bank.max %d outside 1..%d", ErrInvalid, c.Bank.Max, MaxBankMax)
	}
	if c.Bank.Attack <= 0 || c.Bank.Attack > c.Bank.Max {
		return fmt.Errorf("%w: bank.attack %d outside 1..%d", ErrInvalid, c.Bank.Attack, c.Bank.Max)
	}

	// Channel table
	if c.Bands.ResidualFrom < 1 || c.Bands.ResidualFrom > c.DFT.FrameSize/2+1 {
		return fmt.Errorf("%w: bands.residual_from %d outside 1..%d", ErrInvalid, c.Bands.ResidualFrom, c.DFT.FrameSize/2+1)
	}
	if len(c.Bands.Channels) == 0 {
		switch c.Bands.Preset {
		case "", "octave", "three-band":
		default:
			return fmt.Errorf("%w: unknown bands.preset %q", ErrInvalid, c.Bands.Preset)
		}
	}
	for i, ch := range c.Bands.Channels {
		if ch.Bucket < 0 || ch.Bucket > c.Bands.ResidualFrom {
			return fmt.Errorf("%w: bands.channels[%d].bucket %d outside 0..%d", ErrInvalid, i, ch.Bucket, c.Bands.ResidualFrom)
		}
		if ch.Pin != "" {
			if _, err := output.ParsePin(ch.Pin); err != nil {
				return fmt.Errorf("%w: bands.channels[%d]: %v", ErrInvalid, i, err)
			}
		}
	}

	// Debug serial
	if c.Serial.Dump == "" {
		c.Serial.Dump = DefaultDump
	}
	switch c.Serial.Dump {
	case "none", "samples", "power":
	default:
		return fmt.Errorf("%w: unknown serial.dump %q", ErrInvalid, c.Serial.Dump)
	}
	if c.Serial.Baud <= 0 {
		return fmt.Errorf("%w: serial.baud must be positive", ErrInvalid)
	}
	if _, err := output.ParsePin(c.Serial.TxPin); err != nil {
		return fmt.Errorf("%w: serial.tx_pin: %v", ErrInvalid, err)
	}

	// Transport
	if c.Transport.UDPEnabled {
		if c.Transport.UDPTargetAddress == "" {
			return fmt.Errorf("%w: transport.udp_target_address must be set when UDP is enabled", ErrInvalid)
		}
		if c.Transport.UDPSendInterval <= 0 {
			return fmt.Errorf("%w: transport.udp_send_interval must be positive when UDP is enabled", ErrInvalid)
		}
	}
	if c.Transport.WebSocketEnabled && c.Transport.WebSocketAddress == "" {
		return fmt.Errorf("%w: transport.websocket_address must be set when websocket is enabled", ErrInvalid)
	}

	return nil
}

// applyEnvOverrides applies ENV_* variables on top of the loaded values.
func (c *Config) applyEnvOverrides() {
	// ENV_DEBUG
	if val, ok := os.LookupEnv("ENV_DEBUG"); ok {
		if bVal, err := strconv.ParseBool(val); err == nil {
			c.Debug = bVal
			applog.Infof("configuration: Overriding debug from env: %v", bVal)
		}
	}
	// ENV_LOG_LEVEL
	if val, ok := os.LookupEnv("ENV_LOG_LEVEL"); ok {
		c.LogLevel = val
		applog.Infof("configuration: Overriding log_level from env: %s", val)
	}
	// ENV_WAV_FILE
	if val, ok := os.LookupEnv("ENV_WAV_FILE"); ok {
		c.Audio.Source = SourceWAV
		c.Audio.WAVFile = val
		applog.Infof("configuration: Overriding audio.wav_file from env: %s", val)
	}
	// ENV_SERIAL_PORT
	if val, ok := os.LookupEnv("ENV_SERIAL_PORT"); ok {
		c.Serial.Port = val
		applog.Infof("configuration: Overriding serial.port from env: %s", val)
	}

	// ENV_UDP_{...}
	// These are specific to the transport layer.

	// ENV_UDP_ENABLED
	if val, ok := os.LookupEnv("ENV_UDP_ENABLED"); ok {
		if bVal, err := strconv.ParseBool(val); err == nil {
			c.Transport.UDPEnabled = bVal
			applog.Infof("configuration: Overriding transport.udp_enabled from env: %v", bVal)
		}
	}
	// ENV_UDP_TARGET_ADDRESS
	if val, ok := os.LookupEnv("ENV_UDP_TARGET_ADDRESS"); ok {
		c.Transport.UDPTargetAddress = val
		applog.Infof("configuration: Overriding transport.udp_target_address from env: %s", val)
	}
	// ENV_UDP_SEND_INTERVAL
	if val, ok := os.LookupEnv("ENV_UDP_SEND_INTERVAL"); ok {
		if dur, err := time.ParseDuration(val); err == nil {
			c.Transport.UDPSendInterval = dur
			applog.Infof("configuration: Overriding transport.udp_send_interval from env: %s", dur)
		}
	}
}
