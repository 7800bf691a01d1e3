package main

import (
	"fmt"
	"image"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"

	"github.com/chronos-tachyon/pixhuff/internal/imageio"
)

// imageOptions are the preprocessing flags shared by every command.
type imageOptions struct {
	maxDim int
	filter string
	gamma  float64
}

func (o *imageOptions) register(flags *pflag.FlagSet, withFilter bool) {
	flags.IntVar(&o.maxDim, "max-dim", 0, "downscale so neither side exceeds this many pixels (0 = no limit)")
	if withFilter {
		names := make([]string, len(imageio.Ops))
		for i, op := range imageio.Ops {
			names[i] = string(op)
		}
		flags.StringVar(&o.filter, "filter", string(imageio.OpNone), "filter to apply first: "+strings.Join(names, ", "))
	}
	flags.Float64Var(&o.gamma, "gamma", imageio.DefaultGamma, "gamma for the gamma filter")
}

// load decodes path, then downscales and filters it.
func (o *imageOptions) load(path string, logger *slog.Logger) (imageio.Source, image.Image, error) {
	op, err := imageio.ParseOp(o.filterName())
	if err != nil {
		return imageio.Source{}, nil, err
	}

	src, err := imageio.Load(path)
	if err != nil {
		return imageio.Source{}, nil, err
	}
	logger.Debug("decoded image", "path", path, "format", src.Format, "bounds", src.Image.Bounds().String(), "fileBytes", src.FileBytes)

	img := imageio.Fit(src.Image, o.maxDim)
	if img != src.Image {
		logger.Debug("downscaled image", "bounds", img.Bounds().String())
	}

	img, err = imageio.Apply(img, op, o.gamma)
	if err != nil {
		return imageio.Source{}, nil, fmt.Errorf("filter %s: %w", op, err)
	}
	return src, img, nil
}

func (o *imageOptions) filterName() string {
	if o.filter == "" {
		return string(imageio.OpNone)
	}
	return o.filter
}
