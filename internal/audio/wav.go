// SPDX-License-Identifier: MIT
package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	applog "discolight/internal/log"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

var wavLog = applog.New("wav")

// ErrNotWAV is returned for files the decoder does not recognise.
var ErrNotWAV = errors.New("not a valid WAV file")

// PacedSink accepts samples at the pace of the consumer.
// acquire.Converter implements it.
type PacedSink interface {
	FeedPaced(ctx context.Context, s int8) error
}

// FromPCM reduces a decoded PCM value of the given bit depth to a signed
// 8-bit sample. 8-bit WAV data is unsigned and is re-centred.
func FromPCM(v int, bitDepth int) int8 {
	switch bitDepth {
	case 8:
		return int8(v - 128)
	case 16:
		return int8(v >> 8)
	case 24:
		return int8(v >> 16)
	case 32:
		return int8(v >> 24)
	default:
		return 0
	}
}

// WAVSource replays the first channel of a PCM WAV file.
type WAVSource struct {
	path       string
	loop       bool
	sampleRate int
	bitDepth   int
	channels   int
}

// OpenWAV validates the file at path and reads its format.
func OpenWAV(path string, loop bool) (*WAVSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open WAV file: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%s: %w", path, ErrNotWAV)
	}

	src := &WAVSource{
		path:       path,
		loop:       loop,
		sampleRate: int(dec.SampleRate),
		bitDepth:   int(dec.BitDepth),
		channels:   int(dec.NumChans),
	}
	switch src.bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%s: unsupported bit depth %d", path, src.bitDepth)
	}
	return src, nil
}

// SampleRate returns the rate the file was recorded at.
func (s *WAVSource) SampleRate() int { return s.sampleRate }

// BitDepth returns the bits per sample of the file.
func (s *WAVSource) BitDepth() int { return s.bitDepth }

// Channels returns the channel count of the file.
func (s *WAVSource) Channels() int { return s.channels }

// Play feeds the file into sink until the end of the file, or forever when
// looping. It returns ctx.Err() if cancelled.
func (s *WAVSource) Play(ctx context.Context, sink PacedSink) error {
	for {
		n, err := s.playOnce(ctx, sink)
		if err != nil {
			return err
		}
		if !s.loop || n == 0 {
			wavLog.Debugf("finished %s after %d samples", s.path, n)
			return nil
		}
	}
}

func (s *WAVSource) playOnce(ctx context.Context, sink PacedSink) (int, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return 0, fmt.Errorf("failed to open WAV file: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if err := dec.FwdToPCM(); err != nil {
		return 0, fmt.Errorf("failed to find PCM data: %w", err)
	}

	buf := &audio.IntBuffer{
		Format: &audio.Format{NumChannels: s.channels, SampleRate: s.sampleRate},
		Data:   make([]int, 1024*s.channels),
	}

	played := 0
	for {
		n, err := dec.PCMBuffer(buf)
		for i := 0; i < n; i += s.channels {
			if err := sink.FeedPaced(ctx, FromPCM(buf.Data[i], s.bitDepth)); err != nil {
				return played, err
			}
			played++
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || (err == nil && n == 0) {
			return played, nil
		}
		if err != nil {
			return played, fmt.Errorf("failed to decode PCM data: %w", err)
		}
	}
}
