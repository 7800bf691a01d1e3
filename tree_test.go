package pixhuff

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// makeTestTable returns the classic six-symbol example, with symbols
// #000000 .. #000005 inserted in order.
func makeTestTable() FrequencyTable {
	var ft FrequencyTable
	for index, freq := range []uint64{5, 9, 12, 13, 16, 45} {
		ft.Add(MakeSymbol(0, 0, uint8(index)), freq)
	}
	return ft
}

func makeRandomTable(rng *rand.Rand, numSymbols int) FrequencyTable {
	var ft FrequencyTable
	for ft.Len() < numSymbols {
		sym := Symbol(rng.Uint32()) & MaxSymbol
		ft.Add(sym, uint64(1+rng.Intn(1000)))
	}
	return ft
}

// checkStrictlyBinary walks the tree and verifies its shape.
func checkStrictlyBinary(t *testing.T, tree *Tree, ft FrequencyTable) {
	t.Helper()

	n := ft.Len()
	if tree.NumLeaves() != n {
		t.Errorf("expected %d leaves, got %d", n, tree.NumLeaves())
	}
	if tree.NumInternal() != n-1 {
		t.Errorf("expected %d internal nodes, got %d", n-1, tree.NumInternal())
	}

	parents := make([]int, tree.Len())
	var leaves, internal int
	for id := 0; id < tree.Len(); id++ {
		node := tree.Node(NodeID(id))
		if node.IsLeaf() {
			leaves++
			if node.Right != NoNode {
				t.Errorf("leaf %d has a right child", id)
			}
			if node.Freq != ft.Count(node.Symbol) {
				t.Errorf("leaf %d: expected freq %d, got %d", id, ft.Count(node.Symbol), node.Freq)
			}
			continue
		}
		internal++
		if node.Right == NoNode {
			t.Errorf("internal node %d has only one child", id)
			continue
		}
		parents[node.Left]++
		parents[node.Right]++
		if sum := tree.Node(node.Left).Freq + tree.Node(node.Right).Freq; sum != node.Freq {
			t.Errorf("internal node %d: expected freq %d, got %d", id, sum, node.Freq)
		}
	}
	for id, count := range parents {
		expect := 1
		if NodeID(id) == tree.Root() {
			expect = 0
		}
		if count != expect {
			t.Errorf("node %d has %d parents, expected %d", id, count, expect)
		}
	}
	if leaves != n || internal != n-1 {
		t.Errorf("walk found %d leaves and %d internal nodes", leaves, internal)
	}
	if tree.Node(tree.Root()).Freq != ft.Total() {
		t.Errorf("root weight %d != total %d", tree.Node(tree.Root()).Freq, ft.Total())
	}
}

func TestBuildTree(t *testing.T) {
	ft := makeTestTable()
	tree, err := BuildTree(ft)
	if err != nil {
		t.Fatalf("BuildTree failed: %v", err)
	}
	checkStrictlyBinary(t, tree, ft)

	expectString := "(Huffman tree with 6 leaves and 5 internal nodes, weight 100)"
	if actual := tree.String(); actual != expectString {
		t.Errorf("wrong output:\n\texpect: %s\n\tactual: %s", expectString, actual)
	}

	// Ties aside, the first node popped always goes left.
	root := tree.Node(tree.Root())
	if left := tree.Node(root.Left); !left.IsLeaf() || left.Freq != 45 {
		t.Errorf("expected left child of root to be the leaf with freq 45, got %+v", left)
	}
}

func TestBuildTree_Empty(t *testing.T) {
	tree, err := BuildTree(FrequencyTable{})
	if !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
	if tree != nil {
		t.Errorf("expected nil tree, got %v", tree)
	}
}

func TestBuildTree_SingleSymbol(t *testing.T) {
	var ft FrequencyTable
	ft.Add(MakeSymbol(10, 10, 10), 2)

	tree, err := BuildTree(ft)
	if err != nil {
		t.Fatalf("BuildTree failed: %v", err)
	}
	root := tree.Node(tree.Root())
	if !root.IsLeaf() {
		t.Errorf("expected root to be a leaf, got %+v", root)
	}
	if root.Symbol != MakeSymbol(10, 10, 10) || root.Freq != 2 {
		t.Errorf("wrong root: %+v", root)
	}
	if tree.NumInternal() != 0 {
		t.Errorf("expected 0 internal nodes, got %d", tree.NumInternal())
	}
}

func TestBuildTree_TiesFavorEarlierInsertion(t *testing.T) {
	var ft FrequencyTable
	for index := 0; index < 4; index++ {
		ft.Add(MakeSymbol(uint8(index), 0, 0), 1)
	}

	tree, err := BuildTree(ft)
	if err != nil {
		t.Fatalf("BuildTree failed: %v", err)
	}

	type shape struct {
		Left, Right NodeID
	}
	var actual []shape
	for id := tree.NumLeaves(); id < tree.Len(); id++ {
		node := tree.Node(NodeID(id))
		actual = append(actual, shape{node.Left, node.Right})
	}
	expect := []shape{{0, 1}, {2, 3}, {4, 5}}
	if diff := cmp.Diff(expect, actual); diff != "" {
		t.Errorf("wrong merge order (-expect +actual):\n%s", diff)
	}
}

func TestBuildTree_Random(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, numSymbols := range []int{2, 3, 17, 256, 5000} {
		ft := makeRandomTable(rng, numSymbols)
		tree, err := BuildTree(ft)
		if err != nil {
			t.Fatalf("%d symbols: BuildTree failed: %v", numSymbols, err)
		}
		checkStrictlyBinary(t, tree, ft)
	}
}

func TestBuildTree_Hook(t *testing.T) {
	var ft FrequencyTable
	for index := 0; index < 10; index++ {
		ft.Add(MakeSymbol(0, uint8(index), 0), uint64(index+1))
	}

	var calls [][2]int
	_, err := buildTree(ft, 3, func(merged int, remaining int) error {
		calls = append(calls, [2]int{merged, remaining})
		return nil
	})
	if err != nil {
		t.Fatalf("buildTree failed: %v", err)
	}
	expect := [][2]int{{3, 7}, {6, 4}, {9, 1}}
	if diff := cmp.Diff(expect, calls); diff != "" {
		t.Errorf("wrong hook calls (-expect +actual):\n%s", diff)
	}

	stop := errors.New("stop")
	tree, err := buildTree(ft, 2, func(int, int) error { return stop })
	if !errors.Is(err, stop) {
		t.Errorf("expected hook error, got %v", err)
	}
	if tree != nil {
		t.Errorf("expected nil tree after abort")
	}
}
