// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"discolight/cmd"
	"discolight/internal/acquire"
	"discolight/internal/audio"
	"discolight/internal/config"
	"discolight/internal/driver"
	"discolight/internal/output"
	"discolight/internal/transport"
	"discolight/internal/transport/udp"
	"discolight/internal/tui"
	"discolight/internal/uart"
	"discolight/pkg/build"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	applog "discolight/internal/log"
)

// main is the entry point of the indicator driver.
// The program flow is divided into three distinct phases:
//
// 1. Startup Phase (Cold Path):
//   - Initialize build information
//   - Parse command line arguments and load configuration
//   - Execute one-off commands if requested
//   - Build the pipeline, outputs and observers
//
// 2. Concurrent Phase (Hot Path):
//   - Start the analog source (PortAudio callback or WAV replay)
//   - Run the control loop on the acquired frames
//   - Publish channel states to observers
//
// 3. Shutdown Phase (Cold Path):
//   - Handle termination signals
//   - Stop the source, observers and recording
//   - Clean up resources
func main() {
	if err := build.Initialize(); err != nil {
		applog.Fatalf("%v", err)
	}

	opts, err := cmd.ParseArgs(os.Args[1:], os.Stdout)
	if err != nil {
		applog.Fatalf("%v", err)
	}
	if opts == nil {
		return
	}

	if level, ok := applog.ParseLevel(opts.Config.LogLevel); ok {
		applog.SetLevel(level)
	}
	if opts.Config.Debug {
		applog.SetLevel(applog.LevelDebug)
	}

	switch opts.Command {
	case cmd.CommandList, cmd.CommandPick:
		err = executeCommand(opts.Command)
	default:
		err = run(opts.Config)
	}
	if err != nil {
		applog.Fatalf("%v", err)
	}
}

// executeCommand handles one-off commands that don't require the pipeline
// to be running, such as listing available audio devices.
func executeCommand(command string) error {
	if err := audio.Initialize(); err != nil {
		return err
	}
	defer audio.Terminate()

	if command == cmd.CommandPick {
		id, err := tui.PickDevice()
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil
	}
	return audio.ListDevices(os.Stdout)
}

// closer is a cleanup step run in reverse order at shutdown.
type closer struct {
	name string
	fn   func() error
}

func run(cfg *config.Config) error {
	// ==================== STARTUP PHASE (Cold Path) ====================

	applog.Infof("starting %s %s: %s", build.GetBuildFlags().Name, build.GetBuildFlags().Version, cmd.Describe(cfg))

	var closers []closer
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i].fn(); err != nil {
				applog.Errorf("closing %s: %v", closers[i].name, err)
			}
		}
	}()

	// The panel owns the terminal; keep log lines and decoded dumps off it.
	var console io.Writer = os.Stderr
	if cfg.TUI {
		applog.Infof("terminal panel enabled, further logging is suppressed")
		applog.SetOutput(io.Discard)
		console = io.Discard
	}

	names, err := driver.ChannelNames(cfg)
	if err != nil {
		return err
	}
	pins, err := driver.Pins(cfg, len(names))
	if err != nil {
		return err
	}
	ports := output.NewPorts(pins)

	pipeline, err := driver.Build(cfg, ports)
	if err != nil {
		return err
	}

	// Debug serial
	if cfg.Serial.Dump != uart.DumpNone {
		w, closeFn, err := openDumpWriter(cfg, ports, console)
		if err != nil {
			return err
		}
		closers = append(closers, closer{"serial", closeFn})
		if err := pipeline.SetDump(cfg.Serial.Dump, w); err != nil {
			return err
		}
	}

	// Recording
	if cfg.Recording.Enabled {
		rec := audio.NewRecorder(int(cfg.Audio.SampleRate), cfg.DFT.FrameSize)
		name := audio.RecordingName(cfg.Recording.OutputDir, time.Now().UTC())
		if err := rec.StartRecording(name); err != nil {
			return err
		}
		closers = append(closers, closer{"recording", func() error {
			applog.Infof("recording saved to %s", name)
			return rec.StopRecording()
		}})
		pipeline.SetRecorder(rec)
	}

	// Acquisition
	conv := acquire.NewConverter()
	acq := acquire.New(acquire.NewFrame(cfg.DFT.FrameSize), conv, conv)
	conv.OnComplete(acq.HandleConversion)

	// Observers
	state := transport.NewState(cfg.Bands.ResidualFrom+1, len(names))
	pipeline.SetState(state, acq.Overruns)

	var panel *tui.Panel
	if cfg.TUI {
		panel = tui.NewPanel(names, cfg.Bank.Max)
	}
	publishers, err := startPublishers(cfg, state, panel)
	if err != nil {
		return err
	}
	for _, p := range publishers {
		closers = append(closers, closer{"publisher", p.Close})
	}

	loop, err := driver.NewLoop(acq, pipeline)
	if err != nil {
		return err
	}

	// ==================== CONCURRENT PHASE (Hot Path) ====================

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sourceDone, err := startSource(ctx, cfg, conv, &closers)
	if err != nil {
		return err
	}

	loopDone := make(chan error, 1)
	go func() { loopDone <- loop.Run(ctx) }()

	if panel != nil {
		go func() {
			<-ctx.Done()
			panel.Close()
		}()
		if err := panel.Run(); err != nil {
			applog.Errorf("panel: %v", err)
		}
		stop()
	}

	select {
	case err = <-loopDone:
	case err = <-sourceDone:
		stop()
		if loopErr := <-loopDone; err == nil {
			err = loopErr
		}
	}

	// ==================== SHUTDOWN PHASE (Cold Path) ====================

	applog.Infof("shutting down: %d frames, %d overruns, %d missed samples", acq.Frames(), acq.Overruns(), conv.Missed())
	return err
}

// openDumpWriter returns the writer for debug dumps: a hardware serial port
// when one is configured, otherwise the bit-banged transmitter on the TX
// pin, decoded back to text on console.
func openDumpWriter(cfg *config.Config, ports *output.Ports, console io.Writer) (io.Writer, func() error, error) {
	if cfg.Serial.Port != "" {
		port, err := uart.OpenPort(cfg.Serial.Port, cfg.Serial.Baud)
		if err != nil {
			return nil, nil, err
		}
		applog.Infof("debug dumps on %s at %d baud", cfg.Serial.Port, cfg.Serial.Baud)
		return port, port.Close, nil
	}

	pin, err := output.ParsePin(cfg.Serial.TxPin)
	if err != nil {
		return nil, nil, err
	}
	tx := uart.NewTransmitter(uart.Tee{ports.Line(pin), uart.NewReceiver(console)}, nil)
	clock := uart.NewTickerClock(uart.BaudInterval(cfg.Serial.Baud), tx.Tick)
	tx.SetClock(clock)
	applog.Infof("debug dumps on %s at %d baud", pin, cfg.Serial.Baud)
	return tx, func() error {
		tx.Flush()
		clock.Stop()
		return nil
	}, nil
}

// startPublishers creates one publisher per enabled observer.
func startPublishers(cfg *config.Config, state *transport.State, panel *tui.Panel) ([]*transport.Publisher, error) {
	var outs []transport.Transport
	interval := cfg.Transport.UDPSendInterval

	if cfg.Transport.WebSocketEnabled {
		ws, err := transport.NewWebSocketTransport(cfg.Transport.WebSocketAddress)
		if err != nil {
			return nil, err
		}
		outs = append(outs, ws)
	}
	if cfg.Debug {
		outs = append(outs, transport.NewLoggingTransport())
	}
	if panel != nil {
		outs = append(outs, panel)
	}

	var publishers []*transport.Publisher
	if len(outs) > 0 {
		p, err := transport.NewPublisher(interval, state, transport.Multi(outs))
		if err != nil {
			return nil, err
		}
		publishers = append(publishers, p)
	}

	// UDP gets its own publisher so its rate is independent of the others.
	if cfg.Transport.UDPEnabled {
		sender, err := udp.NewUDPSender(cfg.Transport.UDPTargetAddress)
		if err != nil {
			return nil, err
		}
		u, err := udp.NewUDPTransport(sender)
		if err != nil {
			return nil, err
		}
		p, err := transport.NewPublisher(cfg.Transport.UDPSendInterval, state, u)
		if err != nil {
			return nil, err
		}
		publishers = append(publishers, p)
	}

	for _, p := range publishers {
		p.Start()
	}
	return publishers, nil
}

// startSource starts feeding the converter. The returned channel reports
// when a finite source (a WAV file without loop) has ended.
func startSource(ctx context.Context, cfg *config.Config, conv *acquire.Converter, closers *[]closer) (<-chan error, error) {
	done := make(chan error, 1)

	switch cfg.Audio.Source {
	case config.SourceWAV:
		src, err := audio.OpenWAV(cfg.Audio.WAVFile, cfg.Audio.Loop)
		if err != nil {
			return nil, err
		}
		applog.Infof("replaying %s (%d Hz, %d bit, %d channels)", cfg.Audio.WAVFile, src.SampleRate(), src.BitDepth(), src.Channels())
		go func() {
			err := src.Play(ctx, conv)
			if errors.Is(err, context.Canceled) {
				err = nil
			}
			done <- err
		}()

	case config.SourceMiniaudio:
		capture, err := audio.NewMiniaudioCapture(cfg.Audio, conv)
		if err != nil {
			return nil, err
		}
		if err := capture.Start(); err != nil {
			_ = capture.Stop()
			return nil, err
		}
		*closers = append(*closers, closer{"miniaudio", capture.Stop})
		applog.Infof("capturing from %s", capture.Name())

	default:
		if err := audio.Initialize(); err != nil {
			return nil, err
		}
		*closers = append(*closers, closer{"portaudio", audio.Terminate})

		capture, err := audio.NewCapture(cfg.Audio, conv)
		if err != nil {
			return nil, err
		}
		// CRITICAL: the first callback marks the start of the hot path.
		if err := capture.Start(); err != nil {
			return nil, err
		}
		*closers = append(*closers, closer{"capture", capture.Stop})
		applog.Infof("capturing from %s", capture.Device().Name)
	}

	return done, nil
}
