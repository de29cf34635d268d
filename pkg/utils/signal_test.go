// SPDX-License-Identifier: MIT
package utils

import (
	"math"
	"testing"
)

func TestToneFrame(t *testing.T) {
	frame := ToneFrame(32, 4, 100)
	if len(frame) != 32 {
		t.Fatalf("len = %d, want 32", len(frame))
	}
	if frame[0] != 100 || frame[8] != 100 {
		t.Errorf("peaks = %d, %d; want 100", frame[0], frame[8])
	}
	if frame[4] != -100 {
		t.Errorf("trough = %d, want -100", frame[4])
	}
	if frame[2] != 0 {
		t.Errorf("zero crossing = %d, want 0", frame[2])
	}
}

func TestClamp(t *testing.T) {
	frame := ToneFrame(8, 0, 1000)
	for i, s := range frame {
		if s != math.MaxInt8 {
			t.Errorf("sample %d = %d, want clamped to 127", i, s)
		}
	}
	frame = ToneFrame(8, 0, -1000)
	for i, s := range frame {
		if s != math.MinInt8 {
			t.Errorf("sample %d = %d, want clamped to -128", i, s)
		}
	}
}

func TestGenerateSineWave(t *testing.T) {
	tests := []struct {
		name       string
		size       int
		sampleRate float64
		frequency  float64
	}{
		{"Converter rate", 1024, 9600, 600},
		{"A4 Note", 1024, 44100, 440.0},
		{"Low Sample Rate", 1024, 8000, 440.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GenerateSineWave(tt.size, tt.sampleRate, tt.frequency, 100)
			if len(result) != tt.size {
				t.Fatalf("buffer size = %d, want %d", len(result), tt.size)
			}

			samplesPerCycle := tt.sampleRate / tt.frequency
			crossCount := 0
			for i := 1; i < tt.size; i++ {
				if (result[i-1] < 0 && result[i] >= 0) || (result[i-1] >= 0 && result[i] < 0) {
					crossCount++
				}
			}
			expectedCrossings := float64(tt.size) / (samplesPerCycle / 2)
			tolerance := 0.2 * expectedCrossings
			if math.Abs(float64(crossCount)-expectedCrossings) > tolerance {
				t.Errorf("zero crossings = %d, expected approximately %.1f±%.1f",
					crossCount, expectedCrossings, tolerance)
			}
		})
	}
}

func TestGenerateComplexWave(t *testing.T) {
	result := GenerateComplexWave(256, 9600, 300, 120)
	hasNonZero := false
	for _, v := range result {
		if v != 0 {
			hasNonZero = true
			break
		}
	}
	if !hasNonZero {
		t.Error("GenerateComplexWave() produced all zeros")
	}
}

func TestFindPeakBin(t *testing.T) {
	power := []uint32{5, 1, 9, 40, 7, 3}
	tests := []struct {
		name     string
		power    []uint32
		start    int
		end      int
		expected int
	}{
		{"Full Range", power, 0, 5, 3},
		{"Partial Range", power, 4, 5, 4},
		{"Negative Start", power, -10, 5, 3},
		{"Out of Range End", power, 0, 50, 3},
		{"Empty Slice", nil, 0, 10, 0},
		{"Single Value", []uint32{1}, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindPeakBin(tt.power, tt.start, tt.end); got != tt.expected {
				t.Errorf("FindPeakBin() = %d, want %d", got, tt.expected)
			}
		})
	}
}
