// SPDX-License-Identifier: MIT
package dft

// Fixed is a signed fixed-point coefficient with a table-wide number of
// fractional bits (the shift). With the default shift of 6 one unit is
// 1/64, so 1.0 is stored as 64 and -1.0 as -64.
type Fixed int16

// DefaultShift is the number of fractional bits used for twiddle factors.
const DefaultShift = 6

// MaxShift keeps 1.0 representable in an int16 coefficient.
const MaxShift = 14

// Mul multiplies a sample by the coefficient and drops the fractional
// bits with an arithmetic right shift. The result truncates toward minus
// infinity; there is no rounding correction.
func (f Fixed) Mul(sample int8, shift uint) int32 {
	return (int32(sample) * int32(f)) >> shift
}

// FromFloat converts v to fixed point, truncating toward zero.
func FromFloat(v float64, shift uint) Fixed {
	return Fixed(v * float64(int32(1)<<shift))
}

// Float returns the real value represented by f.
func (f Fixed) Float(shift uint) float64 {
	return float64(f) / float64(int32(1)<<shift)
}
