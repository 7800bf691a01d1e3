package pixhuff

import (
	"container/heap"
	"fmt"

	"github.com/chronos-tachyon/assert"
)

// DefaultProgressInterval is the number of merge steps between progress
// reports while building a Tree.
const DefaultProgressInterval = 500

// NodeID identifies a Node within its Tree.
type NodeID int32

// NoNode is the child ID of a leaf.
const NoNode = NodeID(-1)

// Node is either a leaf, holding a Symbol and its frequency, or an internal
// node, whose frequency is the sum of its two children's.
type Node struct {
	// Symbol is the leaf's color, or InvalidSymbol for internal nodes.
	Symbol Symbol

	// Freq is the number of pixels covered by this subtree.
	Freq uint64

	// Left and Right are the children of an internal node, or NoNode for
	// a leaf.  Left is taken with bit 0, Right with bit 1.
	Left  NodeID
	Right NodeID
}

// IsLeaf returns true iff this Node has no children.
func (n Node) IsLeaf() bool {
	return n.Left == NoNode
}

// Tree is a strictly binary prefix-code tree.  Nodes live in a single arena:
// leaves occupy IDs 0..NumLeaves()-1 in FrequencyTable order, and internal
// nodes follow in the order they were created.
type Tree struct {
	nodes     []Node
	root      NodeID
	numLeaves int
}

// BuildTree constructs the Huffman tree for the given table by repeatedly
// merging the two least frequent nodes.  Ties are broken in favor of the node
// that was inserted first, so the result is fully determined by the table's
// contents and insertion order.
//
// An empty table yields ErrEmptyInput.  A table with a single symbol yields a
// Tree whose root is that symbol's leaf.
//
func BuildTree(ft FrequencyTable) (*Tree, error) {
	return buildTree(ft, 0, nil)
}

// mergeHook is called every interval merges with the number of merges done
// so far and the number of nodes still waiting in the heap.  A non-nil
// return aborts the build.
type mergeHook func(merged int, remaining int) error

func buildTree(ft FrequencyTable, interval int, hook mergeHook) (*Tree, error) {
	entries := ft.Entries()
	numLeaves := len(entries)
	if numLeaves == 0 {
		return nil, ErrEmptyInput
	}
	assert.Assertf(int64(numLeaves) <= int64(MaxSymbol)+1, "numLeaves %d > %d", numLeaves, int64(MaxSymbol)+1)

	// Step 1: one leaf per symbol, and a minheap over all of them.
	//
	// The heap orders by (freq, id).  Because IDs are handed out in
	// insertion order (leaves first, then each internal node as it is
	// created), the ID doubles as the insertion sequence number and
	// equal frequencies resolve to the earliest-inserted node.

	nodes := make([]Node, numLeaves, 2*numLeaves-1)
	items := make([]heapItem, numLeaves)
	for index, entry := range entries {
		id := NodeID(index)
		nodes[index] = Node{Symbol: entry.Symbol, Freq: entry.Count, Left: NoNode, Right: NoNode}
		items[index] = heapItem{id: id, freq: entry.Count}
	}

	h := freqHeap{items}
	h.Init()

	// Step 2: pop two, push their parent, until one node remains.  The
	// first node popped becomes the left child.

	merged := 0
	for h.Len() > 1 {
		a := heap.Pop(&h).(heapItem)
		b := heap.Pop(&h).(heapItem)

		id := NodeID(len(nodes))
		freq := saturatingAdd(a.freq, b.freq)
		nodes = append(nodes, Node{Symbol: InvalidSymbol, Freq: freq, Left: a.id, Right: b.id})
		heap.Push(&h, heapItem{id: id, freq: freq})

		merged++
		if hook != nil && interval > 0 && merged%interval == 0 {
			if err := hook(merged, h.Len()); err != nil {
				return nil, err
			}
		}
	}

	root := heap.Pop(&h).(heapItem)
	assert.Assertf(len(nodes) == 2*numLeaves-1, "tree has %d nodes, expected %d", len(nodes), 2*numLeaves-1)
	assert.Assertf(int(root.id) == len(nodes)-1, "root is node %d, expected %d", root.id, len(nodes)-1)

	return &Tree{nodes: nodes, root: root.id, numLeaves: numLeaves}, nil
}

// Root returns the ID of the root node.
func (t *Tree) Root() NodeID {
	return t.root
}

// Node returns the node with the given ID.
func (t *Tree) Node(id NodeID) Node {
	return t.nodes[id]
}

// Len returns the total number of nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// NumLeaves returns the number of leaves, i.e. distinct symbols.
func (t *Tree) NumLeaves() int {
	return t.numLeaves
}

// NumInternal returns the number of internal nodes, which is always
// NumLeaves()-1.
func (t *Tree) NumInternal() int {
	return len(t.nodes) - t.numLeaves
}

// String returns a short description of this Tree.
func (t *Tree) String() string {
	return fmt.Sprintf("(Huffman tree with %d leaves and %d internal nodes, weight %d)", t.numLeaves, t.NumInternal(), t.nodes[t.root].Freq)
}

// type heapItem + type freqHeap {{{

type heapItem struct {
	id   NodeID
	freq uint64
}

type freqHeap struct {
	list []heapItem
}

func (h *freqHeap) Init() {
	heap.Init(h)
}

func (h *freqHeap) Len() int {
	return len(h.list)
}

func (h *freqHeap) Swap(i, j int) {
	h.list[i], h.list[j] = h.list[j], h.list[i]
}

func (h *freqHeap) Less(i, j int) bool {
	a, b := h.list[i], h.list[j]
	if a.freq != b.freq {
		return a.freq < b.freq
	}
	return a.id < b.id
}

func (h *freqHeap) Push(x interface{}) {
	h.list = append(h.list, x.(heapItem))
}

func (h *freqHeap) Pop() interface{} {
	last := uint(len(h.list)) - 1
	x := h.list[last]
	h.list = h.list[:last]
	return x
}

var _ heap.Interface = (*freqHeap)(nil)

// }}}
