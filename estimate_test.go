package pixhuff

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/samber/lo"
)

func TestEstimate_IdenticalPixels(t *testing.T) {
	gray := MakeSymbol(10, 10, 10)
	r := makeRaster(2, 1, gray, gray)

	res, err := Estimate(context.Background(), r, nil)
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}
	expect := Result{OriginalBytes: 8, CompressedBytes: 0, TotalBits: 0, Symbols: 1}
	if res != expect {
		t.Errorf("expected %v, got %v", expect, res)
	}
}

func TestEstimate_FourDistinctColors(t *testing.T) {
	r := makeRaster(4, 1, MakeSymbol(1, 0, 0), MakeSymbol(2, 0, 0), MakeSymbol(3, 0, 0), MakeSymbol(4, 0, 0))

	ft := CountFrequencies(r)
	ct := makeTestCodeTable(t, ft)
	for _, sym := range ct.Symbols() {
		if hc, _ := ct.Lookup(sym); hc.Size != 2 {
			t.Errorf("%s: expected a 2-bit codeword, got %s", sym, hc)
		}
	}

	res, err := EstimateSize(r, ct)
	if err != nil {
		t.Fatalf("EstimateSize failed: %v", err)
	}
	// Four equally likely symbols need exactly 2 bits each.
	expect := Result{OriginalBytes: 16, CompressedBytes: 1, TotalBits: 8, Symbols: 4}
	if res != expect {
		t.Errorf("expected %v, got %v", expect, res)
	}
}

func TestEstimate_Empty(t *testing.T) {
	rasters := []Raster{
		{},
		{Width: 0, Height: 5, Pix: []byte{}},
		{Width: 2, Height: 1, Pix: nil},
		{Width: 3, Height: 3, Pix: []byte{}},
	}
	for _, r := range rasters {
		res, err := Estimate(context.Background(), r, nil)
		if !errors.Is(err, ErrEmptyInput) {
			t.Errorf("%v: expected ErrEmptyInput, got %v", r, err)
		}
		if res != (Result{}) {
			t.Errorf("%v: expected zero Result, got %v", r, res)
		}
	}
}

func TestEstimate_OversizedDimensions(t *testing.T) {
	// Width*Height*4 wraps around to 4 in 64-bit arithmetic.
	r := Raster{Width: 5, Height: (1<<62 + 1) / 5, Pix: []byte{1, 2, 3, 255}}
	res, err := Estimate(context.Background(), r, nil)
	if !errors.Is(err, ErrBadRaster) {
		t.Errorf("expected ErrBadRaster, got %v", err)
	}
	if res != (Result{}) {
		t.Errorf("expected zero Result, got %v", res)
	}
}

func TestEstimateSize_BitSumIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	const width, height = 61, 37

	// A skewed palette gives codewords of many different lengths.
	palette := make([]Symbol, 300)
	for index := range palette {
		palette[index] = Symbol(rng.Uint32()) & MaxSymbol
	}
	colors := make([]Symbol, width*height)
	for index := range colors {
		colors[index] = palette[int(rng.ExpFloat64()*20)%len(palette)]
	}
	r := makeRaster(width, height, colors...)
	before := append([]byte(nil), r.Pix...)

	ft := CountFrequencies(r)
	ct := makeTestCodeTable(t, ft)
	res, err := EstimateSize(r, ct)
	if err != nil {
		t.Fatalf("EstimateSize failed: %v", err)
	}

	expectBits := lo.SumBy(ft.Entries(), func(entry SymbolCount) uint64 {
		hc, _ := ct.Lookup(entry.Symbol)
		return entry.Count * uint64(hc.Size)
	})
	if res.TotalBits != expectBits {
		t.Errorf("expected %d bits, got %d", expectBits, res.TotalBits)
	}
	if expect := int64((expectBits + 7) / 8); res.CompressedBytes != expect {
		t.Errorf("expected %d compressed bytes, got %d", expect, res.CompressedBytes)
	}
	if res.OriginalBytes != width*height*4 {
		t.Errorf("expected %d original bytes, got %d", width*height*4, res.OriginalBytes)
	}
	if !bytes.Equal(before, r.Pix) {
		t.Errorf("EstimateSize modified the pixel buffer")
	}
}

func TestEstimateSize_UnknownSymbol(t *testing.T) {
	var ft FrequencyTable
	ft.Add(MakeSymbol(1, 1, 1), 1)
	ft.Add(MakeSymbol(2, 2, 2), 1)
	ct := makeTestCodeTable(t, ft)

	r := makeRaster(2, 1, MakeSymbol(1, 1, 1), MakeSymbol(3, 3, 3))
	_, err := EstimateSize(r, ct)
	if !errors.Is(err, ErrUnknownSymbol) {
		t.Errorf("expected ErrUnknownSymbol, got %v", err)
	}
}

func TestResult_Ratio(t *testing.T) {
	if ratio := (Result{OriginalBytes: 8, CompressedBytes: 2}).Ratio(); ratio != 0.25 {
		t.Errorf("expected 0.25, got %v", ratio)
	}
	if ratio := (Result{}).Ratio(); ratio != 0 {
		t.Errorf("expected 0, got %v", ratio)
	}
}
