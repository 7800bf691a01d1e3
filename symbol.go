package pixhuff

import (
	"fmt"
)

// Symbol identifies a pixel color.  It packs the red, green and blue channels
// as 0x00RRGGBB; the top byte is always zero for valid symbols.
type Symbol uint32

// MaxSymbol is the maximum valid symbol (white).
const MaxSymbol = Symbol(0xffffff)

// InvalidSymbol is returned by some functions to clearly indicate that no
// symbol is being returned.
const InvalidSymbol = Symbol(0xffffffff)

// MakeSymbol packs three 8-bit channel values into a Symbol.
func MakeSymbol(r, g, b uint8) Symbol {
	return Symbol(uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// RGB unpacks the channel values.
func (s Symbol) RGB() (r, g, b uint8) {
	return uint8(s >> 16), uint8(s >> 8), uint8(s)
}

// String returns the "#rrggbb" form of this Symbol.
func (s Symbol) String() string {
	if s > MaxSymbol {
		return "#invalid"
	}
	return fmt.Sprintf("#%06x", uint32(s))
}

var _ fmt.Stringer = Symbol(0)
