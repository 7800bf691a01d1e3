// Package imageio loads image files and turns them into rasters for the
// estimator, with optional downscaling and the classic per-pixel filters.
package imageio

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/chronos-tachyon/pixhuff"
	"github.com/nfnt/resize"
	_ "github.com/xfmoulet/qoi"
	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Source describes a decoded image file.
type Source struct {
	Image image.Image

	// Format is the name under which the decoder registered, e.g. "png".
	Format string

	// FileBytes is the size of the encoded file.  It is unrelated to
	// the size of the decoded raster.
	FileBytes int64
}

// Load opens and decodes the file at path.  "-" reads standard input.
func Load(path string) (Source, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return Source{}, err
		}
		defer f.Close()
		r = f
	}
	return Decode(r)
}

// Decode decodes an image in any registered format: png, jpeg, gif, webp,
// bmp, tiff or qoi.
func Decode(r io.Reader) (Source, error) {
	cr := &countingReader{r: r}
	img, format, err := image.Decode(cr)
	if err != nil {
		return Source{}, fmt.Errorf("decode image: %w", err)
	}
	// Some decoders stop before EOF; count the trailing bytes too.
	if _, err := io.Copy(io.Discard, cr); err != nil {
		return Source{}, fmt.Errorf("read image: %w", err)
	}
	return Source{Image: img, Format: format, FileBytes: cr.n}, nil
}

// Fit scales img down, preserving its aspect ratio, so that neither side
// exceeds maxDim.  Images that already fit, or maxDim <= 0, are returned
// unchanged.
func Fit(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	if maxDim <= 0 || (b.Dx() <= maxDim && b.Dy() <= maxDim) {
		return img
	}
	return resize.Thumbnail(uint(maxDim), uint(maxDim), img, resize.Lanczos3)
}

// ToNRGBA returns img as a non-premultiplied RGBA image whose bounds start
// at the origin.  It returns img itself when no conversion is needed.
func ToNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) && n.Stride == 4*b.Dx() {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
	return dst
}

// ToRaster converts img into the estimator's raster layout.  The pixel
// buffer is shared with img when img is already a compact *image.NRGBA.
func ToRaster(img image.Image) pixhuff.Raster {
	n := ToNRGBA(img)
	b := n.Bounds()
	return pixhuff.Raster{Width: b.Dx(), Height: b.Dy(), Pix: n.Pix[:4*b.Dx()*b.Dy()]}
}

type countingReader struct {
	r io.Reader
	n int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	return n, err
}

var _ io.Reader = (*countingReader)(nil)
