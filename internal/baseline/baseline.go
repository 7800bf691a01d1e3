// Package baseline measures how real entropy coders do on a raster, as a
// point of comparison for the Huffman estimate.  Nothing it produces is
// kept; only sizes are reported.
package baseline

import (
	"context"
	"errors"
	"fmt"

	"github.com/chronos-tachyon/pixhuff"
	"github.com/klauspost/compress/huff0"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/sync/errgroup"
)

// Sizes holds the compressed size, in bytes, produced by each coder.
type Sizes struct {
	// Zstd is the size of the whole RGBA buffer after zstd.
	Zstd int64 `json:"zstd"`

	// Planes holds the huff0 size of the R, G and B channels, each
	// coded separately in blocks of at most huff0.BlockSizeMax bytes.
	Planes [3]int64 `json:"planes"`

	// Huff0 is the sum of Planes.
	Huff0 int64 `json:"huff0"`
}

// Measure compresses the raster with each coder concurrently.  The raster is
// only read.
func Measure(ctx context.Context, r pixhuff.Raster) (Sizes, error) {
	if err := r.Validate(); err != nil {
		return Sizes{}, err
	}
	if r.IsEmpty() {
		return Sizes{}, pixhuff.ErrEmptyInput
	}

	var out Sizes
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := zstdSize(ctx, r.Pix)
		out.Zstd = n
		return err
	})

	for channel := 0; channel < 3; channel++ {
		channel := channel
		g.Go(func() error {
			n, err := planeSize(ctx, r, channel)
			out.Planes[channel] = n
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return Sizes{}, err
	}
	out.Huff0 = out.Planes[0] + out.Planes[1] + out.Planes[2]
	return out, nil
}

func zstdSize(ctx context.Context, pix []byte) (int64, error) {
	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
		zstd.WithLowerEncoderMem(true),
	)
	if err != nil {
		return 0, fmt.Errorf("zstd: %w", err)
	}
	defer enc.Close()

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	out := enc.EncodeAll(pix, make([]byte, 0, len(pix)/4))
	return int64(len(out)), nil
}

// planeSize extracts one color channel and huff0-codes it block by block.
func planeSize(ctx context.Context, r pixhuff.Raster, channel int) (int64, error) {
	numPixels := len(r.Pix) / pixhuff.BytesPerPixel
	plane := make([]byte, numPixels)
	for i := range plane {
		plane[i] = r.Pix[i*pixhuff.BytesPerPixel+channel]
	}

	s := &huff0.Scratch{Reuse: huff0.ReusePolicyNone}
	var total int64
	for start := 0; start < len(plane); start += huff0.BlockSizeMax {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		end := start + huff0.BlockSizeMax
		if end > len(plane) {
			end = len(plane)
		}
		block := plane[start:end]

		out, _, err := huff0.Compress1X(block, s)
		switch {
		case err == nil:
			total += int64(len(out))
		case errors.Is(err, huff0.ErrUseRLE):
			// A single repeated value: one byte plus the run length.
			total++
		case errors.Is(err, huff0.ErrIncompressible):
			total += int64(len(block))
		default:
			return 0, fmt.Errorf("huff0: channel %d: %w", channel, err)
		}
	}
	return total, nil
}
