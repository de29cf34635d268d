/*
Package bitint provides the small power-of-two helpers used to size and
index the fixed-length sample frame and twiddle table.

Frame lengths are always powers of two, so a phase index can be wrapped
into the table with a mask instead of a division:

	mask := bitint.WrapMask(32) // 31
	idx := phase & mask         // same as phase % 32 for phase >= 0

All functions are allocation free and safe to call from the
acquisition callback.
*/
package bitint

import "math/bits"

// NextPowerOfTwo returns the next power of 2 >= size.
//
//	Input  Output
//	4      4
//	5      8
//	0      1
//	-1     1
func NextPowerOfTwo(size int) int {
	if size <= 0 {
		return 1
	}
	return 1 << bits.Len(uint(size-1))
}

// IsPowerOfTwo checks if n is a power of 2. Powers of two have exactly one
// bit set, so n&(n-1) clears it and leaves zero.
func IsPowerOfTwo(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}

// WrapMask returns the mask that reduces a non-negative index modulo n.
// n must be a power of two; for any other n the result is 0.
func WrapMask(n int) int {
	if !IsPowerOfTwo(n) {
		return 0
	}
	return n - 1
}

// Log2 returns the exponent of a power of two, or -1 if n is not one.
func Log2(n int) int {
	if !IsPowerOfTwo(n) {
		return -1
	}
	return bits.TrailingZeros(uint(n))
}
