package pixhuff

import (
	"context"
	"fmt"
)

// Reporter receives progress messages.  It is called synchronously from the
// estimating goroutine and must not block for long.
type Reporter func(Message)

// Estimator runs the full pipeline on one raster at a time.
//
// The zero value is ready for use.
type Estimator struct {
	// ProgressInterval is the number of merge steps between PhaseMerge
	// reports.  Zero means DefaultProgressInterval; negative disables
	// merge reports, and with them all cancellation checks inside the
	// merge loop.
	ProgressInterval int
}

// Estimate is shorthand for (&Estimator{}).Run(ctx, r, report).
func Estimate(ctx context.Context, r Raster, report Reporter) (Result, error) {
	var e Estimator
	return e.Run(ctx, r, report)
}

// Run counts colors, builds the tree, assigns codewords and sizes the result,
// reporting progress between phases and every ProgressInterval merges.
//
// Cancellation is checked at those same points.  A cancelled run returns an
// error wrapping both ErrCancelled and the context's cause, and never a
// partial Result.
//
func (e *Estimator) Run(ctx context.Context, r Raster, report Reporter) (Result, error) {
	if report == nil {
		report = func(Message) {}
	}

	checkpoint := func() error {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %w", ErrCancelled, context.Cause(ctx))
		}
		return nil
	}

	if err := checkpoint(); err != nil {
		return Result{}, err
	}
	if len(r.Pix) == 0 {
		return Result{}, ErrEmptyInput
	}
	if err := r.Validate(); err != nil {
		return Result{}, err
	}
	if r.IsEmpty() {
		return Result{}, ErrEmptyInput
	}

	report(ProgressMessage(PhaseReceived, fmt.Sprintf("%dx%d pixels", r.Width, r.Height)))

	ft := CountFrequencies(r)
	if err := checkpoint(); err != nil {
		return Result{}, err
	}
	report(ProgressMessage(PhaseFrequencies, fmt.Sprintf("unique colors: %d", ft.Len())))
	report(ProgressMessage(PhaseTree, fmt.Sprintf("nodes to process: %d", ft.Len())))

	interval := e.ProgressInterval
	if interval == 0 {
		interval = DefaultProgressInterval
	}
	tree, err := buildTree(ft, interval, func(merged int, remaining int) error {
		if err := checkpoint(); err != nil {
			return err
		}
		report(ProgressMessage(PhaseMerge, fmt.Sprintf("merged %d, %d remaining", merged, remaining)))
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	report(ProgressMessage(PhaseTreeDone, fmt.Sprintf("%d leaves, %d internal nodes", tree.NumLeaves(), tree.NumInternal())))

	if err := checkpoint(); err != nil {
		return Result{}, err
	}
	report(ProgressMessage(PhaseCodes, ""))
	ct, err := GenerateCodes(tree)
	if err != nil {
		return Result{}, err
	}

	if err := checkpoint(); err != nil {
		return Result{}, err
	}
	report(ProgressMessage(PhaseSizing, fmt.Sprintf("codeword lengths %d .. %d bits", ct.MinSize(), ct.MaxSize())))
	res, err := EstimateSize(r, ct)
	if err != nil {
		return Result{}, err
	}

	if err := checkpoint(); err != nil {
		return Result{}, err
	}
	return res, nil
}
