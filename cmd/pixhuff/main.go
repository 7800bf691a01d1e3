// Command pixhuff estimates how small an image would be if each pixel color
// were Huffman-coded.
//
// Usage:
//
//	pixhuff estimate [options] <input>   estimate the Huffman-coded size
//	pixhuff codes [options] <input>      dump the color → codeword table
//	pixhuff filter [options] <input>     apply a filter and write a PNG
//
// Use "-" as input to read from stdin.  Inputs may be PNG, JPEG, GIF, WebP,
// BMP, TIFF or QOI.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pixhuff: %v\n", err)
		os.Exit(1)
	}
}

type globalOptions struct {
	verbose bool
}

func newRootCommand() *cobra.Command {
	var opts globalOptions
	root := &cobra.Command{
		Use:           "pixhuff",
		Short:         "Estimate the Huffman-coded size of an image",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log task lifecycle events to stderr")
	root.AddCommand(
		newEstimateCommand(&opts),
		newCodesCommand(&opts),
		newFilterCommand(&opts),
	)
	return root
}

// logger returns a text logger on w.  Without --verbose only warnings and
// errors get through.
func (opts *globalOptions) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
