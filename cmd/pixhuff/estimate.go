package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/chronos-tachyon/pixhuff"
	"github.com/chronos-tachyon/pixhuff/internal/baseline"
	"github.com/chronos-tachyon/pixhuff/internal/imageio"
)

type estimateOptions struct {
	image    imageOptions
	json     bool
	quiet    bool
	timeout  time.Duration
	interval int
	baseline bool
}

func newEstimateCommand(global *globalOptions) *cobra.Command {
	var opts estimateOptions
	cmd := &cobra.Command{
		Use:   "estimate [options] <input>",
		Short: "Estimate the Huffman-coded size of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEstimate(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), global, &opts, args[0])
		},
	}
	flags := cmd.Flags()
	opts.image.register(flags, true)
	flags.BoolVar(&opts.json, "json", false, "write progress and result messages to stdout as JSON lines")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "do not print progress")
	flags.DurationVar(&opts.timeout, "timeout", 0, "cancel the estimate after this long (0 = never)")
	flags.IntVar(&opts.interval, "interval", pixhuff.DefaultProgressInterval, "merge steps between progress reports")
	flags.BoolVar(&opts.baseline, "baseline", false, "also report zstd and huff0 sizes for comparison")
	return cmd
}

func runEstimate(ctx context.Context, stdout, stderr io.Writer, global *globalOptions, opts *estimateOptions, path string) error {
	logger := global.logger(stderr)

	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	src, img, err := opts.image.load(path, logger)
	if err != nil {
		return err
	}
	raster := imageio.ToRaster(img)

	sup := &pixhuff.Supervisor{
		Estimator: pixhuff.Estimator{ProgressInterval: opts.interval},
		Logger:    logger,
	}
	task := sup.Start(ctx, raster)

	enc := json.NewEncoder(stdout)
	for m := range task.Messages() {
		switch {
		case opts.json:
			if err := enc.Encode(m); err != nil {
				task.Cancel()
				return err
			}
		case m.Kind == pixhuff.KindProgress && !opts.quiet:
			fmt.Fprintf(stderr, "%s\n", m)
		}
	}

	res, err := task.Wait(context.Background())
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("gave up after %v: %w", opts.timeout, err)
		}
		return err
	}

	var sizes *baseline.Sizes
	if opts.baseline {
		s, err := baseline.Measure(ctx, raster)
		if err != nil {
			return fmt.Errorf("baseline: %w", err)
		}
		sizes = &s
	}

	if opts.json {
		if sizes != nil {
			return enc.Encode(struct {
				Baseline *baseline.Sizes `json:"baseline"`
			}{sizes})
		}
		return nil
	}
	return writeReport(stdout, path, src, raster, res, sizes)
}

func writeReport(w io.Writer, path string, src imageio.Source, raster pixhuff.Raster, res pixhuff.Result, sizes *baseline.Sizes) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintf(tw, "file:\t%s (%s, %d bytes)\n", path, src.Format, src.FileBytes)
	fmt.Fprintf(tw, "raster:\t%dx%d, %d bytes\n", raster.Width, raster.Height, res.OriginalBytes)
	fmt.Fprintf(tw, "colors:\t%d\n", res.Symbols)
	fmt.Fprintf(tw, "huffman:\t%d bytes (%d bits, %.2f%% of raster)\n", res.CompressedBytes, res.TotalBits, 100*res.Ratio())
	if sizes != nil {
		fmt.Fprintf(tw, "zstd:\t%d bytes\n", sizes.Zstd)
		fmt.Fprintf(tw, "huff0:\t%d bytes (R %d, G %d, B %d)\n", sizes.Huff0, sizes.Planes[0], sizes.Planes[1], sizes.Planes[2])
	}
	return tw.Flush()
}
