// SPDX-License-Identifier: MIT

// Package utils generates 8-bit test signals and inspects power spectra.
package utils

import "math"

func clamp8(v float64) int8 {
	switch {
	case v >= math.MaxInt8:
		return math.MaxInt8
	case v <= math.MinInt8:
		return math.MinInt8
	default:
		return int8(math.Round(v))
	}
}

// ToneFrame returns n samples of a cosine that completes exactly bin
// cycles in the frame, so its energy lands in a single DFT bin.
func ToneFrame(n, bin int, amplitude float64) []int8 {
	frame := make([]int8, n)
	for i := range frame {
		frame[i] = clamp8(amplitude * math.Cos(2*math.Pi*float64(bin*i)/float64(n)))
	}
	return frame
}

// GenerateSineWave returns size samples of a sine at frequency Hz.
func GenerateSineWave(size int, sampleRate, frequency, amplitude float64) []int8 {
	buffer := make([]int8, size)
	for i := range buffer {
		t := float64(i) / sampleRate
		buffer[i] = clamp8(amplitude * math.Sin(2*math.Pi*frequency*t))
	}
	return buffer
}

// GenerateComplexWave returns a fundamental plus two harmonics, peaking
// near amplitude.
func GenerateComplexWave(size int, sampleRate, fundamental, amplitude float64) []int8 {
	buffer := make([]int8, size)
	for i := range buffer {
		t := float64(i) / sampleRate
		signal := math.Sin(2*math.Pi*fundamental*t)*0.5 +
			math.Sin(2*math.Pi*2*fundamental*t)*0.3 +
			math.Sin(2*math.Pi*3*fundamental*t)*0.2
		buffer[i] = clamp8(signal * amplitude)
	}
	return buffer
}

// FindPeakBin returns the index of the largest value in power[startBin:endBin+1].
func FindPeakBin(power []uint32, startBin, endBin int) int {
	if len(power) == 0 {
		return 0
	}
	if startBin < 0 {
		startBin = 0
	}
	if endBin >= len(power) {
		endBin = len(power) - 1
	}

	peakBin := startBin
	peakValue := power[startBin]
	for bin := startBin + 1; bin <= endBin; bin++ {
		if power[bin] > peakValue {
			peakValue = power[bin]
			peakBin = bin
		}
	}
	return peakBin
}
