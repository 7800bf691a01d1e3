package pixhuff

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func makeGradientRaster(width, height int) Raster {
	colors := make([]Symbol, 0, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			colors = append(colors, MakeSymbol(uint8(x), uint8(y), uint8(x^y)))
		}
	}
	return makeRaster(width, height, colors...)
}

func TestEstimator_Run(t *testing.T) {
	red := MakeSymbol(255, 0, 0)
	green := MakeSymbol(0, 255, 0)
	blue := MakeSymbol(0, 0, 255)
	r := makeRaster(2, 2, red, green, red, blue)

	var actual []string
	e := Estimator{ProgressInterval: 1}
	res, err := e.Run(context.Background(), r, func(m Message) {
		if m.IsTerminal() {
			t.Errorf("reporter received terminal message %v", m)
		}
		actual = append(actual, m.String())
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	expect := []string{
		"received: 2x2 pixels",
		"frequencies: unique colors: 3",
		"tree: nodes to process: 3",
		"merge: merged 1, 2 remaining",
		"merge: merged 2, 1 remaining",
		"tree-done: 3 leaves, 2 internal nodes",
		"codes",
		"sizing: codeword lengths 1 .. 2 bits",
	}
	if diff := cmp.Diff(expect, actual); diff != "" {
		t.Errorf("wrong progress (-expect +actual):\n%s", diff)
	}

	// red: 1 bit × 2, green and blue: 2 bits × 1 each.
	expectResult := Result{OriginalBytes: 16, CompressedBytes: 1, TotalBits: 6, Symbols: 3}
	if res != expectResult {
		t.Errorf("expected %v, got %v", expectResult, res)
	}
}

func TestEstimator_MergeInterval(t *testing.T) {
	r := makeGradientRaster(64, 32)

	var merges int
	e := Estimator{ProgressInterval: 100}
	_, err := e.Run(context.Background(), r, func(m Message) {
		if m.Phase == PhaseMerge {
			merges++
		}
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// 2048 distinct colors need 2047 merges.
	if merges != 20 {
		t.Errorf("expected 20 merge reports, got %d", merges)
	}

	merges = 0
	e.ProgressInterval = -1
	_, _ = e.Run(context.Background(), r, func(m Message) {
		if m.Phase == PhaseMerge {
			merges++
		}
	})
	if merges != 0 {
		t.Errorf("expected no merge reports, got %d", merges)
	}
}

func TestEstimator_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var reports int
	res, err := Estimate(ctx, makeGradientRaster(4, 4), func(Message) { reports++ })
	if !errors.Is(err, ErrCancelled) || !errors.Is(err, context.Canceled) {
		t.Errorf("expected ErrCancelled wrapping context.Canceled, got %v", err)
	}
	if res != (Result{}) {
		t.Errorf("expected zero Result, got %v", res)
	}
	if reports != 0 {
		t.Errorf("expected no progress, got %d messages", reports)
	}
}

func TestEstimator_CancelledDuringMerge(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var afterCancel int
	cancelled := false
	e := Estimator{ProgressInterval: 10}
	res, err := e.Run(ctx, makeGradientRaster(32, 32), func(m Message) {
		if cancelled {
			afterCancel++
		}
		if m.Phase == PhaseMerge && !cancelled {
			cancelled = true
			cancel()
		}
	})
	if !errors.Is(err, ErrCancelled) {
		t.Errorf("expected ErrCancelled, got %v", err)
	}
	if res != (Result{}) {
		t.Errorf("expected zero Result, got %v", res)
	}
	if afterCancel != 0 {
		t.Errorf("expected no progress after cancellation, got %d messages", afterCancel)
	}
}

func TestEstimator_BadRaster(t *testing.T) {
	_, err := Estimate(context.Background(), Raster{Width: 2, Height: 2, Pix: make([]byte, 12)}, nil)
	if !errors.Is(err, ErrBadRaster) {
		t.Errorf("expected ErrBadRaster, got %v", err)
	}
}
