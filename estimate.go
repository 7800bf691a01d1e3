package pixhuff

import (
	"fmt"
)

// Result is the outcome of one estimation run.
type Result struct {
	// OriginalBytes is the size of the raw raster, Width*Height*4.  It is
	// not the size of whatever encoded file the raster was decoded from.
	OriginalBytes int64

	// CompressedBytes is ceil(TotalBits / 8).
	CompressedBytes int64

	// TotalBits is the sum of the codeword lengths of every pixel.
	TotalBits uint64

	// Symbols is the number of distinct colors.
	Symbols int
}

// Ratio returns CompressedBytes / OriginalBytes, or 0 for an empty raster.
func (res Result) Ratio() float64 {
	if res.OriginalBytes == 0 {
		return 0
	}
	return float64(res.CompressedBytes) / float64(res.OriginalBytes)
}

// String returns a short description of this Result.
func (res Result) String() string {
	return fmt.Sprintf("(%d colors: %d bytes → %d bytes, %d bits)", res.Symbols, res.OriginalBytes, res.CompressedBytes, res.TotalBits)
}

// EstimateSize re-scans the raster and adds up the codeword length of every
// pixel.  The raster is only read, never written.
func EstimateSize(r Raster, ct CodeTable) (Result, error) {
	var totalBits uint64
	numPixels := len(r.Pix) / BytesPerPixel
	for i := 0; i < numPixels; i++ {
		symbol := r.SymbolAt(i)
		hc, found := ct.codes[symbol]
		if !found {
			return Result{}, fmt.Errorf("%w: pixel %d has color %s", ErrUnknownSymbol, i, symbol)
		}
		totalBits += uint64(hc.Size)
	}

	return Result{
		OriginalBytes:   r.ByteLen(),
		CompressedBytes: ceilDiv8(totalBits),
		TotalBits:       totalBits,
		Symbols:         ct.Len(),
	}, nil
}
