package main

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/chronos-tachyon/pixhuff/internal/imageio"
)

type filterOptions struct {
	image  imageOptions
	op     string
	output string
}

func newFilterCommand(global *globalOptions) *cobra.Command {
	var opts filterOptions
	cmd := &cobra.Command{
		Use:   "filter [options] <input>",
		Short: "Apply a negative, gamma or equalization filter and write a PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(cmd.OutOrStdout(), cmd.ErrOrStderr(), global, &opts, args[0])
		},
	}
	flags := cmd.Flags()
	opts.image.register(flags, false)
	flags.StringVar(&opts.op, "op", string(imageio.OpNegative), "filter to apply: negative, gamma, equalize")
	flags.StringVarP(&opts.output, "output", "o", "", "output PNG file (\"-\" for stdout)")
	return cmd
}

func runFilter(stdout, stderr io.Writer, global *globalOptions, opts *filterOptions, path string) error {
	if opts.output == "" {
		return errors.New("missing -o output file")
	}
	opts.image.filter = opts.op

	_, img, err := opts.image.load(path, global.logger(stderr))
	if err != nil {
		return err
	}

	if opts.output == "-" {
		return writePNG(stdout, img)
	}

	out, err := os.Create(opts.output)
	if err != nil {
		return err
	}
	if err := writePNG(out, img); err != nil {
		out.Close()
		os.Remove(opts.output)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(opts.output)
		return err
	}
	return nil
}

func writePNG(w io.Writer, img image.Image) error {
	bw := bufio.NewWriter(w)
	if err := png.Encode(bw, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return bw.Flush()
}
