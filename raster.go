package pixhuff

import (
	"fmt"
	"math"
)

// BytesPerPixel is the number of channel bytes per pixel: R, G, B, A.
const BytesPerPixel = 4

// Raster is a decoded image: Width*Height pixels of interleaved,
// non-premultiplied RGBA bytes in row-major order.
type Raster struct {
	Width  int
	Height int
	Pix    []byte
}

// NewRaster constructs a Raster and validates its shape.
func NewRaster(width, height int, pix []byte) (Raster, error) {
	r := Raster{Width: width, Height: height, Pix: pix}
	if err := r.Validate(); err != nil {
		return Raster{}, err
	}
	return r, nil
}

// Validate checks that the buffer length matches the dimensions.  A
// zero-pixel raster is well-formed; Estimator rejects it separately with
// ErrEmptyInput.
func (r Raster) Validate() error {
	if r.Width < 0 || r.Height < 0 {
		return fmt.Errorf("%w: negative dimensions %dx%d", ErrBadRaster, r.Width, r.Height)
	}
	if r.Height != 0 && int64(r.Width) > math.MaxInt64/BytesPerPixel/int64(r.Height) {
		return fmt.Errorf("%w: %dx%d is too large", ErrBadRaster, r.Width, r.Height)
	}
	if want := r.ByteLen(); int64(len(r.Pix)) != want {
		return fmt.Errorf("%w: %dx%d needs %d bytes, got %d", ErrBadRaster, r.Width, r.Height, want, len(r.Pix))
	}
	return nil
}

// NumPixels returns Width*Height.
func (r Raster) NumPixels() int64 {
	return int64(r.Width) * int64(r.Height)
}

// ByteLen returns Width*Height*4, the exact size of the raw raster.
func (r Raster) ByteLen() int64 {
	return r.NumPixels() * BytesPerPixel
}

// IsEmpty returns true iff the raster has no pixels.
func (r Raster) IsEmpty() bool {
	return len(r.Pix) == 0 || r.NumPixels() == 0
}

// SymbolAt returns the color of the i'th pixel.
func (r Raster) SymbolAt(i int) Symbol {
	p := r.Pix[i*BytesPerPixel : i*BytesPerPixel+3 : i*BytesPerPixel+3]
	return MakeSymbol(p[0], p[1], p[2])
}

// String returns a short description of this Raster.
func (r Raster) String() string {
	return fmt.Sprintf("(%dx%d RGBA raster, %d bytes)", r.Width, r.Height, len(r.Pix))
}
