// SPDX-License-Identifier: MIT
/*
Package driver runs the indicator pipeline once per acquired frame:

	samples -> power spectrum -> folded buckets -> active flags
	        -> hysteresis -> outputs

Every buffer is allocated when the Pipeline is built, so Step does not
allocate. Optional taps (serial dump, frame recording, state publishing)
observe the frame without changing what the outputs do.
*/
package driver

import (
	"discolight/internal/bands"
	"discolight/internal/bank"
	"discolight/internal/dft"
	"discolight/internal/output"
	"discolight/internal/transport"
	"discolight/internal/uart"
	"fmt"
	"io"

	applog "discolight/internal/log"
)

var driverLog = applog.New("driver")

// FrameRecorder stores raw frames. audio.Recorder implements it.
type FrameRecorder interface {
	WriteFrame(samples []int8) error
}

// Pipeline turns frames into output states.
type Pipeline struct {
	engine *dft.Engine
	mapper *bands.Mapper
	bank   *bank.Bank
	out    output.Output

	power    []uint32 // bins 0..N/2
	buckets  []uint32 // folded view, residual last
	active   []bool
	states   []bool
	counters []uint8

	dump     string
	dumper   *uart.Dumper
	recorder FrameRecorder
	state    *transport.State
	overruns func() uint64
}

// NewPipeline wires the stages together. The mapper must have been built
// for exactly the number of buckets the spectrum is folded into, and the
// bank must have one counter per channel.
func NewPipeline(engine *dft.Engine, mapper *bands.Mapper, b *bank.Bank, out output.Output) (*Pipeline, error) {
	if mapper.Len() != b.Len() {
		return nil, fmt.Errorf("driver: %d channels but %d hysteresis counters", mapper.Len(), b.Len())
	}
	if mapper.Buckets() < 1 || mapper.Buckets() > engine.Bins()+1 {
		return nil, fmt.Errorf("driver: %d buckets cannot be folded from %d bins", mapper.Buckets(), engine.Bins())
	}
	n := mapper.Len()
	return &Pipeline{
		engine:   engine,
		mapper:   mapper,
		bank:     b,
		out:      out,
		power:    make([]uint32, engine.Bins()),
		buckets:  make([]uint32, mapper.Buckets()),
		active:   make([]bool, n),
		states:   make([]bool, n),
		counters: make([]uint8, n),
		dump:     uart.DumpNone,
	}, nil
}

// SetDump writes samples or power values of every frame to w. mode is one
// of the uart.Dump* constants.
func (p *Pipeline) SetDump(mode string, w io.Writer) error {
	switch mode {
	case uart.DumpNone, "":
		p.dump, p.dumper = uart.DumpNone, nil
		return nil
	case uart.DumpSamples, uart.DumpPower:
		if w == nil {
			return fmt.Errorf("driver: dump %q needs a writer", mode)
		}
		p.dump, p.dumper = mode, uart.NewDumper(w)
		return nil
	default:
		return fmt.Errorf("driver: unknown dump mode %q", mode)
	}
}

// SetRecorder records every frame before it is analysed.
func (p *Pipeline) SetRecorder(r FrameRecorder) { p.recorder = r }

// SetState publishes the result of every frame. overruns, if not nil, is
// sampled into each update.
func (p *Pipeline) SetState(s *transport.State, overruns func() uint64) {
	p.state = s
	p.overruns = overruns
}

// Channels returns the number of output channels.
func (p *Pipeline) Channels() int { return p.mapper.Len() }

// Buckets returns the folded spectrum of the last frame. The slice is
// reused by the next Step.
func (p *Pipeline) Buckets() []uint32 { return p.buckets }

// States returns the output states after the last frame. The slice is
// reused by the next Step.
func (p *Pipeline) States() []bool { return p.states }

// Bank returns the hysteresis bank.
func (p *Pipeline) Bank() *bank.Bank { return p.bank }

// Step runs every stage on one complete frame and drives the outputs. It
// must not be called concurrently.
func (p *Pipeline) Step(samples []int8) {
	if p.recorder != nil {
		if err := p.recorder.WriteFrame(samples); err != nil {
			driverLog.Warnf("recording: %v", err)
		}
	}
	if p.dump == uart.DumpSamples {
		p.writeDump(p.dumper.Samples(samples))
	}

	p.engine.Compute(samples, p.power)
	dft.Fold(p.buckets, p.power)
	if p.dump == uart.DumpPower {
		p.writeDump(p.dumper.Power(p.power))
	}

	p.mapper.Evaluate(p.buckets, p.active)
	p.bank.Step(p.active, p.states)
	for i, on := range p.states {
		p.out.Set(i, on)
	}

	if p.state != nil {
		p.bank.Counters(p.counters)
		var overruns uint64
		if p.overruns != nil {
			overruns = p.overruns()
		}
		p.state.Update(p.buckets, p.counters, p.states, overruns)
	}
}

func (p *Pipeline) writeDump(err error) {
	if err != nil {
		driverLog.Warnf("dump: %v", err)
	}
}
