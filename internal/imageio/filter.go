package imageio

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/gift"
)

// Op names a per-pixel filter.
type Op string

const (
	OpNone     Op = "none"
	OpNegative Op = "negative"
	OpGamma    Op = "gamma"
	OpEqualize Op = "equalize"
)

// DefaultGamma is the gamma used when none is given.
const DefaultGamma = 2.2

// Ops lists the accepted filter names.
var Ops = []Op{OpNone, OpNegative, OpGamma, OpEqualize}

// ParseOp validates a filter name.
func ParseOp(str string) (Op, error) {
	for _, op := range Ops {
		if string(op) == str {
			return op, nil
		}
	}
	return "", fmt.Errorf("unknown filter %q", str)
}

// Apply runs the filter over img and returns a new image.  Alpha is left
// alone by every filter.  gamma is only used by OpGamma; values > 1 lighten
// the image.
func Apply(img image.Image, op Op, gamma float64) (image.Image, error) {
	var g *gift.GIFT
	switch op {
	case OpNone, "":
		return img, nil
	case OpNegative:
		g = gift.New(gift.Invert())
	case OpGamma:
		if !(gamma > 0) {
			return nil, fmt.Errorf("gamma must be positive, got %v", gamma)
		}
		g = gift.New(gift.Gamma(float32(gamma)))
	case OpEqualize:
		g = gift.New(equalizeFilter(ToNRGBA(img)))
	default:
		return nil, fmt.Errorf("unknown filter %q", string(op))
	}

	dst := image.NewNRGBA(g.Bounds(img.Bounds()))
	g.Draw(dst, img)
	return dst, nil
}

// luma is the Rec. 601 intensity of an 8-bit color, rounded.
func luma(r, g, b float64) int {
	y := int(math.Round(0.299*r + 0.587*g + 0.114*b))
	if y > 255 {
		y = 255
	}
	return y
}

// equalizeFilter builds a grayscale histogram-equalization filter from the
// intensity distribution of img.  Every output pixel is gray.
func equalizeFilter(img *image.NRGBA) gift.Filter {
	var hist [256]int
	for i := 0; i+3 < len(img.Pix); i += 4 {
		p := img.Pix[i : i+3 : i+3]
		hist[luma(float64(p[0]), float64(p[1]), float64(p[2]))]++
	}

	var cdf [256]int
	cdf[0] = hist[0]
	for i := 1; i < 256; i++ {
		cdf[i] = cdf[i-1] + hist[i]
	}

	var lut [256]float32
	total := cdf[255]
	for i := range lut {
		if total == cdf[0] {
			// A single intensity (or an empty image): nothing to spread.
			lut[i] = float32(i) / 255
			continue
		}
		v := math.Round(float64(cdf[i]-cdf[0]) / float64(total-cdf[0]) * 255)
		lut[i] = float32(v / 255)
	}

	return gift.ColorFunc(func(r0, g0, b0, a0 float32) (r, g, b, a float32) {
		y := lut[luma(float64(r0)*255, float64(g0)*255, float64(b0)*255)]
		return y, y, y, a0
	})
}
