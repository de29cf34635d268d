// SPDX-License-Identifier: MIT
package audio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type pacedSink struct {
	got   []int8
	limit int
}

func (p *pacedSink) FeedPaced(ctx context.Context, s int8) error {
	if p.limit > 0 && len(p.got) >= p.limit {
		return context.Canceled
	}
	p.got = append(p.got, s)
	return nil
}

func TestFromPCM(t *testing.T) {
	tests := []struct {
		v        int
		bitDepth int
		want     int8
	}{
		{128, 8, 0},
		{0, 8, -128},
		{255, 8, 127},
		{0x7f00, 16, 127},
		{-0x8000, 16, -128},
		{0x0100, 16, 1},
		{-0x10000, 24, -1},
		{0x400000, 24, 64},
		{-0x80000000, 32, -128},
		{12345, 12, 0},
	}
	for _, tt := range tests {
		if got := FromPCM(tt.v, tt.bitDepth); got != tt.want {
			t.Errorf("FromPCM(%d, %d) = %d, want %d", tt.v, tt.bitDepth, got, tt.want)
		}
	}
}

func recordFrames(t *testing.T, frames ...[]int8) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rec", "frames.wav")
	rec := NewRecorder(9600, 4)
	if err := rec.StartRecording(path); err != nil {
		t.Fatalf("StartRecording: %v", err)
	}
	if !rec.Recording() {
		t.Fatal("recorder should be recording")
	}
	for _, f := range frames {
		if err := rec.WriteFrame(f); err != nil {
			t.Fatalf("WriteFrame: %v", err)
		}
	}
	if err := rec.StopRecording(); err != nil {
		t.Fatalf("StopRecording: %v", err)
	}
	return path
}

func TestRecorder_RoundTrip(t *testing.T) {
	frames := [][]int8{{-128, -1, 0, 1}, {127, 64, -64, 3}}
	path := recordFrames(t, frames...)

	src, err := OpenWAV(path, false)
	if err != nil {
		t.Fatalf("OpenWAV: %v", err)
	}
	if src.SampleRate() != 9600 || src.BitDepth() != 16 || src.Channels() != 1 {
		t.Errorf("format = %d Hz, %d bit, %d ch", src.SampleRate(), src.BitDepth(), src.Channels())
	}

	sink := &pacedSink{}
	if err := src.Play(context.Background(), sink); err != nil {
		t.Fatalf("Play: %v", err)
	}

	var want []int8
	for _, f := range frames {
		want = append(want, f...)
	}
	if len(sink.got) != len(want) {
		t.Fatalf("replayed %d samples, want %d", len(sink.got), len(want))
	}
	for i := range want {
		if sink.got[i] != want[i] {
			t.Errorf("sample %d = %d, want %d", i, sink.got[i], want[i])
		}
	}
}

func TestPlay_LoopStopsOnSinkError(t *testing.T) {
	path := recordFrames(t, []int8{1, 2, 3, 4})
	src, err := OpenWAV(path, true)
	if err != nil {
		t.Fatalf("OpenWAV: %v", err)
	}

	sink := &pacedSink{limit: 10}
	err = src.Play(context.Background(), sink)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Play error = %v, want context.Canceled", err)
	}
	want := []int8{1, 2, 3, 4, 1, 2, 3, 4, 1, 2}
	for i := range want {
		if sink.got[i] != want[i] {
			t.Errorf("sample %d = %d, want %d", i, sink.got[i], want[i])
		}
	}
}

func TestOpenWAV_Errors(t *testing.T) {
	if _, err := OpenWAV(filepath.Join(t.TempDir(), "missing.wav"), false); err == nil {
		t.Error("expected error for missing file")
	}

	junk := filepath.Join(t.TempDir(), "junk.wav")
	if err := os.WriteFile(junk, []byte("definitely not RIFF"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenWAV(junk, false); !errors.Is(err, ErrNotWAV) {
		t.Errorf("expected ErrNotWAV, got %v", err)
	}
}

func TestRecorder_ErrorCases(t *testing.T) {
	rec := NewRecorder(9600, 4)

	if err := rec.WriteFrame([]int8{1}); err != nil {
		t.Errorf("WriteFrame while idle should be a no-op, got %v", err)
	}
	if err := rec.StopRecording(); err != nil {
		t.Errorf("StopRecording while idle: %v", err)
	}

	path := filepath.Join(t.TempDir(), "a.wav")
	if err := rec.StartRecording(path); err != nil {
		t.Fatalf("StartRecording: %v", err)
	}
	if err := rec.StartRecording(path); err == nil {
		t.Error("expected already recording error")
	}
	if err := rec.StopRecording(); err != nil {
		t.Fatalf("StopRecording: %v", err)
	}
}

func TestRecordingName(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	got := RecordingName("out", now)
	want := filepath.Join("out", "frames-20240309-140507.wav")
	if got != want {
		t.Errorf("RecordingName = %q, want %q", got, want)
	}
}
