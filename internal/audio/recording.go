// SPDX-License-Identifier: MIT
package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// recordBitDepth keeps the 8-bit sample exactly in the high byte, so a
// replay through FromPCM returns the recorded value.
const recordBitDepth = 16

// Recorder writes acquired frames to a mono WAV file.
type Recorder struct {
	sampleRate int

	isRecording atomic.Bool
	outputFile  *os.File
	wavEncoder  *wav.Encoder
	sampleBuf   *audio.IntBuffer // Reusable buffer for format conversion
}

// NewRecorder returns an idle recorder for frames of frameSize samples.
func NewRecorder(sampleRate, frameSize int) *Recorder {
	return &Recorder{
		sampleRate: sampleRate,
		sampleBuf: &audio.IntBuffer{
			Format: &audio.Format{NumChannels: 1, SampleRate: sampleRate},
			Data:   make([]int, frameSize),
		},
	}
}

// RecordingName returns a timestamped file name inside dir.
func RecordingName(dir string, now time.Time) string {
	return filepath.Join(dir, "frames-"+now.Format("20060102-150405")+".wav")
}

// StartRecording creates filename and begins accepting frames.
func (r *Recorder) StartRecording(filename string) error {
	if r.isRecording.Load() {
		return fmt.Errorf("already recording")
	}

	if dir := filepath.Dir(filename); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create recording directory: %w", err)
		}
	}
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create recording: %w", err)
	}
	r.outputFile = file
	r.wavEncoder = wav.NewEncoder(file, r.sampleRate, recordBitDepth, 1, 1)

	r.isRecording.Store(true)
	return nil
}

// Recording reports whether frames are being written.
func (r *Recorder) Recording() bool { return r.isRecording.Load() }

// WriteFrame appends one frame. It is a no-op when not recording.
func (r *Recorder) WriteFrame(samples []int8) error {
	if !r.isRecording.Load() {
		return nil
	}
	if cap(r.sampleBuf.Data) < len(samples) {
		r.sampleBuf.Data = make([]int, len(samples))
	}
	r.sampleBuf.Data = r.sampleBuf.Data[:len(samples)]
	for i, s := range samples {
		r.sampleBuf.Data[i] = int(s) << 8
	}
	if err := r.wavEncoder.Write(r.sampleBuf); err != nil {
		return fmt.Errorf("error writing to WAV file: %w", err)
	}
	return nil
}

// StopRecording finalises the WAV header and closes the file.
func (r *Recorder) StopRecording() error {
	if !r.isRecording.Load() {
		return nil
	}
	r.isRecording.Store(false)

	if r.wavEncoder != nil {
		if err := r.wavEncoder.Close(); err != nil {
			return err
		}
		r.wavEncoder = nil
	}

	if r.outputFile != nil {
		if err := r.outputFile.Close(); err != nil {
			return err
		}
		r.outputFile = nil
	}

	return nil
}
