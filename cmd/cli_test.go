// SPDX-License-Identifier: MIT
package cmd

import (
	"bytes"
	"discolight/internal/config"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseArgs_Run(t *testing.T) {
	var out bytes.Buffer
	opts, err := ParseArgs([]string{"--dump", "power", "--tui", "-d", "2", "--record", "-s", "miniaudio"}, &out)
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if opts.Command != CommandRun {
		t.Errorf("Command = %q, want %q", opts.Command, CommandRun)
	}
	cfg := opts.Config
	if cfg.Serial.Dump != "power" || !cfg.TUI || cfg.Audio.InputDevice != 2 || !cfg.Recording.Enabled ||
		cfg.Audio.Source != config.SourceMiniaudio {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if cfg.DFT.FrameSize != config.DefaultFrameSize {
		t.Errorf("FrameSize = %d, want default", cfg.DFT.FrameSize)
	}
}

func TestParseArgs_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.yaml")
	if err := os.WriteFile(path, []byte("serial:\n  dump: samples\nbank:\n  max: 8\n  attack: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	opts, err := ParseArgs([]string{"--config", path}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if opts.Config.Serial.Dump != "samples" || opts.Config.Bank.Max != 8 {
		t.Errorf("file values not loaded: %+v", opts.Config)
	}

	// Flags win over the file.
	opts, err = ParseArgs([]string{"--config", path, "--dump", "none"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if opts.Config.Serial.Dump != "none" {
		t.Errorf("Dump = %q, want none", opts.Config.Serial.Dump)
	}
}

func TestParseArgs_Commands(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"list"}, CommandList},
		{[]string{"list", "-i"}, CommandPick},
		{[]string{"replay", "tone.wav"}, CommandReplay},
	}
	for _, tt := range tests {
		opts, err := ParseArgs(tt.args, &bytes.Buffer{})
		if err != nil {
			t.Fatalf("ParseArgs(%v): %v", tt.args, err)
		}
		if opts.Command != tt.want {
			t.Errorf("ParseArgs(%v).Command = %q, want %q", tt.args, opts.Command, tt.want)
		}
	}
}

func TestParseArgs_Replay(t *testing.T) {
	opts, err := ParseArgs([]string{"replay", "tone.wav", "--loop"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	audio := opts.Config.Audio
	if audio.Source != config.SourceWAV || audio.WAVFile != "tone.wav" || !audio.Loop {
		t.Errorf("audio = %+v", audio)
	}
}

func TestParseArgs_EmptyDump(t *testing.T) {
	opts, err := ParseArgs([]string{"--dump", ""}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if opts.Config.Serial.Dump != "none" {
		t.Errorf("Dump = %q, want none", opts.Config.Serial.Dump)
	}
}

func TestParseArgs_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"Invalid dump", []string{"--dump", "spectrum"}},
		{"Unknown source", []string{"--source", "alsa"}},
		{"Replay without file", []string{"replay"}},
		{"Unexpected argument", []string{"extra"}},
		{"Missing config", []string{"--config", "/nonexistent/discolight.yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseArgs(tt.args, &bytes.Buffer{}); err == nil {
				t.Error("expected error")
			}
		})
	}

	_, err := ParseArgs([]string{"--log-level", "loud"}, &bytes.Buffer{})
	if !errors.Is(err, config.ErrInvalid) {
		t.Errorf("expected ErrInvalid for bad log level, got %v", err)
	}
}

func TestParseArgs_Version(t *testing.T) {
	var out bytes.Buffer
	opts, err := ParseArgs([]string{"--version"}, &out)
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if opts != nil {
		t.Errorf("expected no command for --version, got %+v", opts)
	}
	if !strings.Contains(out.String(), "dev") {
		t.Errorf("version output = %q", out.String())
	}
}

func TestDescribe(t *testing.T) {
	cfg := config.Default()
	got := Describe(cfg)
	for _, want := range []string{"source=portaudio", "N=32", "max=16", "dump=none"} {
		if !strings.Contains(got, want) {
			t.Errorf("Describe() = %q, missing %q", got, want)
		}
	}
	cfg.Audio.Source, cfg.Audio.WAVFile = config.SourceWAV, "a.wav"
	if !strings.Contains(Describe(cfg), "source=wav:a.wav") {
		t.Errorf("Describe() = %q", Describe(cfg))
	}
}
