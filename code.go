package pixhuff

import (
	"fmt"
	"strconv"
)

// MaxCodeSize is the longest codeword, in bits, that a Code can hold.
const MaxCodeSize = 64

// Code represents a sequence of bits.
type Code struct {
	// Size holds the number of valid bits.
	Size byte

	// Bits holds the actual values of the bits.  The most significant of
	// the Size valid bits is the first bit, i.e. the branch taken at the
	// root of the tree.
	Bits uint64
}

// MakeCode is a convenience function that constructs a Code.
func MakeCode(size byte, bits uint64) Code {
	return Code{Size: size, Bits: bits}
}

// Append returns the Code extended by one bit, which must be 0 or 1.
func (hc Code) Append(bit uint64) Code {
	return Code{Size: hc.Size + 1, Bits: hc.Bits<<1 | (bit & 1)}
}

// HasPrefix returns true iff prefix matches the first prefix.Size bits of
// this Code.  Every Code has the empty Code as a prefix.
func (hc Code) HasPrefix(prefix Code) bool {
	if prefix.Size > hc.Size {
		return false
	}
	return hc.Bits>>(hc.Size-prefix.Size) == prefix.Bits
}

// String returns the string representation of this Code.
func (hc Code) String() string {
	if hc.Size == 0 {
		return "\"\""
	}
	format := "%0" + strconv.FormatUint(uint64(hc.Size), 10) + "b"
	return strconv.Quote(fmt.Sprintf(format, hc.Bits))
}

var _ fmt.Stringer = Code{}
