package pixhuff

import (
	mathbits "math/bits"
)

func log2uint32(x uint32) uint32 {
	if x == 0 {
		x = 1
	}
	return uint32(32 - mathbits.LeadingZeros32(x))
}

// ceilDiv8 converts a bit count to a whole number of bytes.
func ceilDiv8(bits uint64) int64 {
	return int64(bits/8) + int64((bits%8+7)/8)
}

// saturatingAdd adds two frequencies, clamping at math.MaxUint64.
func saturatingAdd(a, b uint64) uint64 {
	sum, carry := mathbits.Add64(a, b, 0)
	if carry != 0 {
		return ^uint64(0)
	}
	return sum
}
