package symcode

import (
	"container/heap"
	"math/big"

	"github.com/chronos-tachyon/assert"
	"github.com/pkg/errors"
)

// TreeNode is one node of a Huffman code tree.  Nodes live in an arena and
// refer to their children by index; leaves have Left == Right == -1.
type TreeNode struct {
	Symbol Symbol
	Weight *big.Rat
	Left   int32
	Right  int32
}

// IsLeaf returns true iff this node carries a symbol.
func (node TreeNode) IsLeaf() bool {
	return node.Left < 0
}

// HuffmanCoder implements Huffman coding.
//
// The tree is built by repeatedly merging the two lightest nodes of a
// min-heap.  Ties in weight go to the node with the lower arena index:
// leaves occupy indices 0 .. n-1 in canonical symbol order, and merged nodes
// take n, n+1, ... in the order they are created.  The first node popped
// becomes the 0 child and the second becomes the 1 child.  A 1-symbol
// alphabet gets a single leaf with the empty code.
//
type HuffmanCoder struct {
	PrefixCoder
	nodes []TreeNode
	root  int32
}

// NewHuffmanCoder builds the Huffman tree and code table for the given
// Model.
func NewHuffmanCoder(m Model) (*HuffmanCoder, error) {
	numSymbols := len(m.symbols)
	c := &HuffmanCoder{root: -1}
	if numSymbols == 0 {
		c.PrefixCoder = PrefixCoder{kind: Huffman, table: CodeTable{}}
		return c, nil
	}

	// Step 1: fill the arena with leaves and build a minheap over them.

	nodes := make([]TreeNode, 0, 2*numSymbols-1)
	for i, sym := range m.symbols {
		nodes = append(nodes, TreeNode{
			Symbol: sym,
			Weight: m.weights[i],
			Left:   -1,
			Right:  -1,
		})
	}

	h := nodeHeap{arena: &nodes, list: make([]int32, numSymbols)}
	for i := range h.list {
		h.list[i] = int32(i)
	}
	heap.Init(&h)

	// Step 2: pop two nodes, merge them into a new synthetic node, and
	// push the synthetic node back onto the minheap.

	for h.Len() > 1 {
		a := heap.Pop(&h).(int32)
		b := heap.Pop(&h).(int32)
		nodes = append(nodes, TreeNode{
			Symbol: InvalidSymbol,
			Weight: new(big.Rat).Add(nodes[a].Weight, nodes[b].Weight),
			Left:   a,
			Right:  b,
		})
		heap.Push(&h, int32(len(nodes)-1))
	}
	root := heap.Pop(&h).(int32)
	assert.Assertf(len(nodes) == 2*numSymbols-1, "arena has %d nodes, expected %d", len(nodes), 2*numSymbols-1)

	// Step 3: walk the tree with an explicit stack, accumulating edge
	// labels.  Each leaf's label sequence is its code.

	table, err := extractCodes(nodes, root)
	if err != nil {
		return nil, err
	}

	pc, err := NewPrefixCoder(Huffman, table)
	if err != nil {
		return nil, err
	}

	c.PrefixCoder = pc
	c.nodes = nodes
	c.root = root
	return c, nil
}

// Root returns the arena index of the tree's root, or -1 for an empty tree.
func (c *HuffmanCoder) Root() int32 {
	return c.root
}

// Tree returns a copy of the node arena.
func (c *HuffmanCoder) Tree() []TreeNode {
	out := make([]TreeNode, len(c.nodes))
	for i, node := range c.nodes {
		node.Weight = new(big.Rat).Set(node.Weight)
		out[i] = node
	}
	return out
}

func extractCodes(nodes []TreeNode, root int32) (CodeTable, error) {
	type stackItem struct {
		node int32
		hc   Code
	}

	table := make(CodeTable, (len(nodes)+1)/2)
	stack := make([]stackItem, 0, 16)
	stack = append(stack, stackItem{node: root})
	for len(stack) != 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := nodes[top.node]
		if node.IsLeaf() {
			table[node.Symbol] = top.hc
			continue
		}

		if top.hc.Size >= MaxCodeSize {
			return nil, errors.Wrapf(ErrCodeTooLong, "tree is deeper than %d", MaxCodeSize)
		}

		// Push right first so the 0 branch is walked first.
		stack = append(stack, stackItem{node.Right, top.hc.append(1)})
		stack = append(stack, stackItem{node.Left, top.hc.append(0)})
	}
	return table, nil
}

// type nodeHeap {{{

type nodeHeap struct {
	arena *[]TreeNode
	list  []int32
}

func (h *nodeHeap) Len() int {
	return len(h.list)
}

func (h *nodeHeap) Swap(i, j int) {
	h.list[i], h.list[j] = h.list[j], h.list[i]
}

func (h *nodeHeap) Less(i, j int) bool {
	a, b := h.list[i], h.list[j]
	nodes := *h.arena
	if cmp := nodes[a].Weight.Cmp(nodes[b].Weight); cmp != 0 {
		return cmp < 0
	}
	return a < b
}

func (h *nodeHeap) Push(x interface{}) {
	h.list = append(h.list, x.(int32))
}

func (h *nodeHeap) Pop() interface{} {
	last := len(h.list) - 1
	x := h.list[last]
	h.list = h.list[:last]
	return x
}

var _ heap.Interface = (*nodeHeap)(nil)

// }}}
