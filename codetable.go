package pixhuff

import (
	"bytes"
	"fmt"
	"io"
	"sort"
)

// CodeTable maps each Symbol to its codeword.
type CodeTable struct {
	codes   map[Symbol]Code
	order   []Symbol
	minSize byte
	maxSize byte
}

// GenerateCodes walks the tree and assigns each leaf the path from the root,
// with 0 for every left branch and 1 for every right branch.  If the root is
// itself a leaf, its symbol receives the empty codeword.
//
// The walk uses an explicit stack, so deep trees cannot exhaust the goroutine
// stack.  ErrCodeTooLong is returned if any path exceeds MaxCodeSize bits.
// Only Fibonacci-like weights produce such a path: a FrequencyTable built by
// hand with 66 or more of them can hit it, but a raster would need more than
// about 4.5e13 pixels.
//
func GenerateCodes(t *Tree) (CodeTable, error) {
	numLeaves := t.NumLeaves()
	ct := CodeTable{
		codes: make(map[Symbol]Code, numLeaves),
		order: make([]Symbol, numLeaves),
	}

	// Leaves occupy the first numLeaves IDs, in FrequencyTable order.
	for id := 0; id < numLeaves; id++ {
		ct.order[id] = t.Node(NodeID(id)).Symbol
	}

	type stackItem struct {
		id   NodeID
		code Code
	}

	stack := make([]stackItem, 0, 2*log2uint32(uint32(numLeaves))+2)
	stack = append(stack, stackItem{id: t.Root()})

	var hasMinMax bool
	for len(stack) != 0 {
		last := len(stack) - 1
		top := stack[last]
		stack = stack[:last]

		node := t.Node(top.id)
		if node.IsLeaf() {
			ct.codes[node.Symbol] = top.code
			size := top.code.Size
			if !hasMinMax {
				hasMinMax = true
				ct.minSize = size
				ct.maxSize = size
			} else if ct.minSize > size {
				ct.minSize = size
			} else if ct.maxSize < size {
				ct.maxSize = size
			}
			continue
		}

		if top.code.Size >= MaxCodeSize {
			return CodeTable{}, fmt.Errorf("%w: path deeper than %d bits", ErrCodeTooLong, MaxCodeSize)
		}

		// Push right before left, so that left is visited first.
		stack = append(stack,
			stackItem{id: node.Right, code: top.code.Append(1)},
			stackItem{id: node.Left, code: top.code.Append(0)})
	}

	return ct, nil
}

// Lookup returns the codeword for symbol.
func (ct CodeTable) Lookup(symbol Symbol) (Code, bool) {
	hc, found := ct.codes[symbol]
	return hc, found
}

// Len returns the number of symbols in the table.
func (ct CodeTable) Len() int {
	return len(ct.order)
}

// Symbols returns the symbols in FrequencyTable order.  The caller must not
// modify the returned slice.
func (ct CodeTable) Symbols() []Symbol {
	return ct.order
}

// MinSize is the bit length of the shortest codeword.
func (ct CodeTable) MinSize() byte {
	return ct.minSize
}

// MaxSize is the bit length of the longest codeword.
func (ct CodeTable) MaxSize() byte {
	return ct.maxSize
}

// SizeBySymbol returns the bit length of each symbol's codeword.
func (ct CodeTable) SizeBySymbol() map[Symbol]byte {
	out := make(map[Symbol]byte, len(ct.codes))
	for symbol, hc := range ct.codes {
		out[symbol] = hc.Size
	}
	return out
}

// WeightedSize returns Σ ft.Count(s) × len(code(s)), the total number of bits
// needed to encode every occurrence counted in ft.
func (ct CodeTable) WeightedSize(ft FrequencyTable) uint64 {
	var total uint64
	for _, entry := range ft.Entries() {
		hc := ct.codes[entry.Symbol]
		total = saturatingAdd(total, entry.Count*uint64(hc.Size))
	}
	return total
}

// Validate checks that no codeword is a prefix of another, and that the code
// is complete: every bit string is either a codeword, a prefix of one, or has
// one as a prefix.  A table with a single empty codeword is valid.
//
func (ct CodeTable) Validate() error {
	numCodes := len(ct.order)
	if numCodes == 0 {
		return nil
	}

	sorted := make(byBits, 0, numCodes)
	var countArray [MaxCodeSize + 1]uint64
	for _, symbol := range ct.order {
		hc, found := ct.codes[symbol]
		if !found {
			return fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
		}
		if hc.Size == 0 && numCodes > 1 {
			return fmt.Errorf("empty codeword for %s in a table of %d symbols", symbol, numCodes)
		}
		countArray[hc.Size]++
		sorted = append(sorted, symbolAndCode{symbol, hc})
	}

	// In lexicographic order, a codeword is immediately followed by any
	// codeword it is a prefix of.
	sorted.Sort()
	for index := 1; index < numCodes; index++ {
		a, b := sorted[index-1], sorted[index]
		if b.code.HasPrefix(a.code) {
			return fmt.Errorf("codeword %s for %s is a prefix of %s for %s", a.code, a.symbol, b.code, b.symbol)
		}
	}

	// Fold the per-length counts up towards the root.  Each level must
	// pair off exactly; the root must end up with exactly one node.
	carry := countArray[ct.maxSize]
	for bits := ct.maxSize; bits > 0; bits-- {
		if carry%2 != 0 {
			return fmt.Errorf("incomplete prefix code: odd number of nodes (%d) at depth %d", carry, bits)
		}
		carry = carry/2 + countArray[bits-1]
	}
	if carry != 1 {
		return fmt.Errorf("degenerate prefix code: expected 1 root, got %d", carry)
	}
	return nil
}

// Canonical returns the canonical prefix code with the same codeword length
// for every symbol.  Codewords are assigned in order of (length, symbol).
func (ct CodeTable) Canonical() CodeTable {
	numCodes := len(ct.order)
	out := CodeTable{
		codes:   make(map[Symbol]Code, numCodes),
		order:   ct.order,
		minSize: ct.minSize,
		maxSize: ct.maxSize,
	}
	if numCodes == 0 {
		return out
	}

	// Step 1: sort the symbols by (size, symbol) ascending.

	sorted := make(bySize, 0, numCodes)
	for _, symbol := range ct.order {
		sorted = append(sorted, symbolAndSize{symbol, ct.codes[symbol].Size})
	}
	sorted.Sort()

	// Step 2: assign the codes sequentially, per the algorithm detailed at
	// <https://en.wikipedia.org/w/index.php?title=Canonical_Huffman_code&oldid=999983137>.

	lastSize := sorted[0].size
	nextCode := uint64(0)
	for _, item := range sorted {
		if item.size > lastSize {
			nextCode <<= (item.size - lastSize)
			lastSize = item.size
		}
		out.codes[item.symbol] = MakeCode(item.size, nextCode)
		nextCode++
	}
	return out
}

// Dump writes a programmer-readable debugging dump of the table to the given
// writer.
func (ct CodeTable) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("CodeTable{\n")
	fmt.Fprintf(&buf, "\tMinSize() = %d\n", ct.minSize)
	fmt.Fprintf(&buf, "\tMaxSize() = %d\n", ct.maxSize)
	for _, symbol := range ct.order {
		fmt.Fprintf(&buf, "\tLookup(%s) = %s\n", symbol, ct.codes[symbol])
	}
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}

// String returns a short description of this CodeTable.
func (ct CodeTable) String() string {
	return fmt.Sprintf("(Huffman code with %d symbols, with coded lengths of %d .. %d bits)", len(ct.order), ct.minSize, ct.maxSize)
}

// type symbolAndSize + type bySize {{{

type symbolAndSize struct {
	symbol Symbol
	size   byte
}

type bySize []symbolAndSize

func (list bySize) Len() int {
	return len(list)
}

func (list bySize) Swap(i, j int) {
	list[i], list[j] = list[j], list[i]
}

func (list bySize) Less(i, j int) bool {
	a, b := list[i], list[j]
	if a.size != b.size {
		return a.size < b.size
	}
	return a.symbol < b.symbol
}

func (list bySize) Sort() {
	sort.Sort(list)
}

var _ sort.Interface = bySize(nil)

// }}}

// type symbolAndCode + type byBits {{{

type symbolAndCode struct {
	symbol Symbol
	code   Code
}

type byBits []symbolAndCode

func (list byBits) Len() int {
	return len(list)
}

func (list byBits) Swap(i, j int) {
	list[i], list[j] = list[j], list[i]
}

func (list byBits) Less(i, j int) bool {
	a, b := list[i].code, list[j].code
	ab := a.Bits << (MaxCodeSize - a.Size)
	bb := b.Bits << (MaxCodeSize - b.Size)
	if ab != bb {
		return ab < bb
	}
	return a.Size < b.Size
}

func (list byBits) Sort() {
	sort.Sort(list)
}

var _ sort.Interface = byBits(nil)

// }}}
