// SPDX-License-Identifier: MIT
package cmd

import (
	"discolight/internal/config"
	"discolight/pkg/build"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// Commands selected on the command line.
const (
	CommandRun    = "run"
	CommandList   = "list"
	CommandPick   = "pick"
	CommandReplay = "replay"
)

// Options is the parsed command line: the command to execute and the
// configuration it runs with.
type Options struct {
	Command string
	Config  *config.Config
}

// flagValues holds flags that override the configuration file.
type flagValues struct {
	configPath  string
	logLevel    string
	tui         bool
	dump        string
	device      int
	source      string
	record      bool
	serialPort  string
	interactive bool
	loop        bool
}

// ParseArgs parses args (without the program name), loads the
// configuration and applies flag overrides.
func ParseArgs(args []string, stdout io.Writer) (*Options, error) {
	buildInfo := build.GetBuildFlags()
	opts := &Options{}
	var flags flagValues

	load := func(cmd *cobra.Command) error {
		cfg, err := config.LoadConfig(flags.configPath)
		if err != nil {
			return err
		}
		applyFlags(cmd, cfg, &flags)
		if err := cfg.Validate(); err != nil {
			return err
		}
		opts.Config = cfg
		return nil
	}

	rootCmd := &cobra.Command{
		Use:           buildInfo.Name,
		Short:         buildInfo.Description,
		Version:       buildInfo.String(),
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Command = CommandRun
			return load(cmd)
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	// List command
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List available audio devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Command = CommandList
			if flags.interactive {
				opts.Command = CommandPick
			}
			return load(cmd)
		},
	}
	listCmd.Flags().BoolVarP(&flags.interactive, "interactive", "i", false,
		"Pick an input device interactively and print its ID")
	rootCmd.AddCommand(listCmd)

	// Replay command
	replayCmd := &cobra.Command{
		Use:   "replay <file.wav>",
		Short: "Drive the indicators from a WAV file instead of a live input",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Command = CommandReplay
			if err := load(cmd); err != nil {
				return err
			}
			opts.Config.Audio.Source = config.SourceWAV
			opts.Config.Audio.WAVFile = args[0]
			if cmd.Flags().Changed("loop") {
				opts.Config.Audio.Loop = flags.loop
			}
			return nil
		},
	}
	replayCmd.Flags().BoolVar(&flags.loop, "loop", false, "Replay the file forever")
	rootCmd.AddCommand(replayCmd)

	// Configuration
	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "f", "",
		"Path to the YAML configuration file (default: ./discolight.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "",
		"Log level: debug, info, warn, error")

	// Audio Device Configuration
	rootCmd.PersistentFlags().IntVarP(&flags.device, "device", "d", config.DefaultDeviceID,
		"Specify input device ID. Use 'list' command to see available devices.")
	rootCmd.PersistentFlags().StringVarP(&flags.source, "source", "s", "",
		"Live input backend: portaudio or miniaudio")

	// Observers
	rootCmd.PersistentFlags().BoolVarP(&flags.tui, "tui", "t", false,
		"Show the indicator panel in the terminal")
	rootCmd.PersistentFlags().StringVar(&flags.dump, "dump", "",
		"Debug serial dump: none, samples or power")
	rootCmd.PersistentFlags().StringVar(&flags.serialPort, "serial-port", "",
		"Write debug dumps to a hardware serial port instead of the bit-banged TX pin")

	// Recording Configuration
	rootCmd.PersistentFlags().BoolVarP(&flags.record, "record", "r", false,
		"Record every acquired frame to a WAV file")

	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		return nil, err
	}
	if opts.Command == "" {
		// --help or --version was handled by cobra.
		return nil, nil
	}
	return opts, nil
}

// applyFlags copies explicitly set flags over the loaded configuration.
func applyFlags(cmd *cobra.Command, cfg *config.Config, flags *flagValues) {
	changed := cmd.Flags().Changed
	if changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if changed("device") {
		cfg.Audio.InputDevice = flags.device
	}
	if changed("source") {
		cfg.Audio.Source = flags.source
	}
	if changed("tui") {
		cfg.TUI = flags.tui
	}
	if changed("dump") {
		cfg.Serial.Dump = flags.dump
	}
	if changed("serial-port") {
		cfg.Serial.Port = flags.serialPort
	}
	if changed("record") {
		cfg.Recording.Enabled = flags.record
	}
}

// Describe summarises the configuration for the startup log.
func Describe(cfg *config.Config) string {
	source := cfg.Audio.Source
	if source == config.SourceWAV {
		source = fmt.Sprintf("wav:%s", cfg.Audio.WAVFile)
	}
	return fmt.Sprintf("source=%s rate=%.0fHz N=%d shift=%d max=%d attack=%d residual_from=%d dump=%s",
		source, cfg.Audio.SampleRate, cfg.DFT.FrameSize, cfg.DFT.TwiddleShift,
		cfg.Bank.Max, cfg.Bank.Attack, cfg.Bands.ResidualFrom, cfg.Serial.Dump)
}
