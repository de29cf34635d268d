// SPDX-License-Identifier: MIT
package dft

import (
	"errors"
	"testing"
)

func TestNewTable_KnownValues(t *testing.T) {
	table, err := NewTable(32, DefaultShift)
	if err != nil {
		t.Fatalf("NewTable error: %v", err)
	}

	// trunc(64 * cos(2*pi*n/32)) for the first quarter cycle plus the half.
	expected := map[int]Fixed{
		0: 64, 1: 62, 2: 59, 3: 53, 4: 45, 5: 35, 6: 24, 7: 12,
		8: 0, 9: -12, 12: -45, 16: -64, 24: 0, 31: 62,
	}
	for n, want := range expected {
		if got := table.At(n); got != want {
			t.Errorf("W[%d] = %d, want %d", n, got, want)
		}
	}
}

func TestNewTable_Symmetry(t *testing.T) {
	table, err := NewTable(64, DefaultShift)
	if err != nil {
		t.Fatalf("NewTable error: %v", err)
	}
	n := table.Len()
	for i := 1; i < n; i++ {
		if table.At(i) != table.At(n-i) {
			t.Errorf("W[%d] = %d but W[%d] = %d", i, table.At(i), n-i, table.At(n-i))
		}
	}
}

func TestTable_AtWraps(t *testing.T) {
	table, _ := NewTable(16, DefaultShift)
	for phase := 0; phase < 16*20; phase++ {
		if table.At(phase) != table.At(phase%16) {
			t.Fatalf("At(%d) != At(%d)", phase, phase%16)
		}
	}
}

func TestNewTable_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		shift uint
		want  error
	}{
		{"Not power of two", 24, DefaultShift, ErrInvalidSize},
		{"Too small", 4, DefaultShift, ErrInvalidSize},
		{"Too large", 256, DefaultShift, ErrInvalidSize},
		{"Zero shift", 32, 0, ErrInvalidShift},
		{"Shift overflows int16", 32, 15, ErrInvalidShift},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable(tt.n, tt.shift)
			if !errors.Is(err, tt.want) {
				t.Errorf("NewTable(%d, %d) error = %v, want %v", tt.n, tt.shift, err, tt.want)
			}
		})
	}
}

func TestTable_ValuesIsCopy(t *testing.T) {
	table, _ := NewTable(8, DefaultShift)
	values := table.Values()
	values[0] = 0
	if table.At(0) != 64 {
		t.Error("mutating Values() changed the table")
	}
}

func TestFixed_MulTruncates(t *testing.T) {
	tests := []struct {
		coeff  Fixed
		sample int8
		want   int32
	}{
		{64, 100, 100},
		{62, 1, 0},   // 62/64 truncated
		{62, -1, -1}, // arithmetic shift rounds toward minus infinity
		{-64, -128, 128},
		{45, 127, 89},   // 5715 >> 6
		{-45, 127, -90}, // -5715 >> 6
	}
	for _, tt := range tests {
		if got := tt.coeff.Mul(tt.sample, DefaultShift); got != tt.want {
			t.Errorf("Fixed(%d).Mul(%d) = %d, want %d", tt.coeff, tt.sample, got, tt.want)
		}
	}
}
