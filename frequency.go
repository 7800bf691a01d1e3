package pixhuff

import (
	"bytes"
	"fmt"
	"io"
)

// SymbolCount pairs a Symbol with its number of occurrences.
type SymbolCount struct {
	Symbol Symbol
	Count  uint64
}

// FrequencyTable maps each Symbol to its number of occurrences.  It remembers
// the order in which symbols were first added; BuildTree uses that order to
// break ties between equal frequencies.
//
// The zero value is an empty table ready for use.
type FrequencyTable struct {
	index   map[Symbol]int
	entries []SymbolCount
	total   uint64
}

// CountFrequencies scans every pixel of the raster and counts its color.
// Symbols appear in the table in order of first occurrence.  An empty raster
// yields an empty table.
func CountFrequencies(r Raster) FrequencyTable {
	var ft FrequencyTable
	numPixels := len(r.Pix) / BytesPerPixel
	for i := 0; i < numPixels; i++ {
		ft.Add(r.SymbolAt(i), 1)
	}
	return ft
}

// Add increments the count for symbol by n.  A symbol added with n == 0 is
// still recorded, in its insertion position.
func (ft *FrequencyTable) Add(symbol Symbol, n uint64) {
	if ft.index == nil {
		ft.index = make(map[Symbol]int)
	}
	i, found := ft.index[symbol]
	if !found {
		i = len(ft.entries)
		ft.index[symbol] = i
		ft.entries = append(ft.entries, SymbolCount{Symbol: symbol})
	}
	ft.entries[i].Count = saturatingAdd(ft.entries[i].Count, n)
	ft.total = saturatingAdd(ft.total, n)
}

// Len returns the number of distinct symbols.
func (ft FrequencyTable) Len() int {
	return len(ft.entries)
}

// Count returns the number of occurrences of symbol, or 0 if absent.
func (ft FrequencyTable) Count(symbol Symbol) uint64 {
	if i, found := ft.index[symbol]; found {
		return ft.entries[i].Count
	}
	return 0
}

// Total returns the sum of all counts.
func (ft FrequencyTable) Total() uint64 {
	return ft.total
}

// Entries returns the (Symbol, Count) pairs in insertion order.  The caller
// must not modify the returned slice.
func (ft FrequencyTable) Entries() []SymbolCount {
	return ft.entries
}

// Dump writes a programmer-readable debugging dump of the table to the given
// writer.
func (ft FrequencyTable) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("FrequencyTable{\n")
	fmt.Fprintf(&buf, "\tLen() = %d\n", len(ft.entries))
	fmt.Fprintf(&buf, "\tTotal() = %d\n", ft.total)
	for _, entry := range ft.entries {
		fmt.Fprintf(&buf, "\tCount(%s) = %d\n", entry.Symbol, entry.Count)
	}
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}
