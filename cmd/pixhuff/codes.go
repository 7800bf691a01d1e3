package main

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/chronos-tachyon/pixhuff"
	"github.com/chronos-tachyon/pixhuff/internal/imageio"
)

type codesOptions struct {
	image     imageOptions
	canonical bool
	limit     int
}

func newCodesCommand(global *globalOptions) *cobra.Command {
	var opts codesOptions
	cmd := &cobra.Command{
		Use:   "codes [options] <input>",
		Short: "Print the codeword assigned to each color, most frequent first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCodes(cmd.OutOrStdout(), cmd.ErrOrStderr(), global, &opts, args[0])
		},
	}
	flags := cmd.Flags()
	opts.image.register(flags, true)
	flags.BoolVar(&opts.canonical, "canonical", false, "print the canonical code with the same lengths")
	flags.IntVar(&opts.limit, "limit", 20, "print at most this many colors (0 = all)")
	return cmd
}

func runCodes(stdout, stderr io.Writer, global *globalOptions, opts *codesOptions, path string) error {
	logger := global.logger(stderr)

	_, img, err := opts.image.load(path, logger)
	if err != nil {
		return err
	}
	raster := imageio.ToRaster(img)
	if raster.IsEmpty() {
		return pixhuff.ErrEmptyInput
	}

	ft := pixhuff.CountFrequencies(raster)
	tree, err := pixhuff.BuildTree(ft)
	if err != nil {
		return err
	}
	ct, err := pixhuff.GenerateCodes(tree)
	if err != nil {
		return err
	}
	if opts.canonical {
		ct = ct.Canonical()
	}
	if err := ct.Validate(); err != nil {
		return fmt.Errorf("internal error: %w", err)
	}
	logger.Debug("built code table", "table", ct.String())

	entries := append([]pixhuff.SymbolCount(nil), ft.Entries()...)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	if opts.limit > 0 {
		entries = lo.Slice(entries, 0, opts.limit)
	}

	tw := tabwriter.NewWriter(stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintf(tw, "COLOR\tCOUNT\tBITS\tCODE\n")
	for _, entry := range entries {
		hc, _ := ct.Lookup(entry.Symbol)
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", entry.Symbol, entry.Count, hc.Size, hc)
	}
	if hidden := ft.Len() - len(entries); hidden > 0 {
		fmt.Fprintf(tw, "...\t%d more\t\t\n", hidden)
	}
	fmt.Fprintf(tw, "TOTAL\t%d\t%d\t\n", ft.Total(), ct.WeightedSize(ft))
	return tw.Flush()
}
