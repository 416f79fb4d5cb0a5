package huffman

import (
	"container/heap"
	"fmt"
)

type nodeKind uint8

const (
	leafNode nodeKind = iota
	innerNode
)

const nilNode = -1

type node struct {
	kind        nodeKind
	symbol      int
	freq        int
	left, right int
}

// Tree is a binary Huffman tree stored in an arena. Nodes refer to their children by index.
// A Tree built by RebuildTree carries no frequencies.
type Tree struct {
	nodes []node
	root  int
}

func (t *Tree) addLeaf(symbol, freq int) int {
	t.nodes = append(t.nodes, node{kind: leafNode, symbol: symbol, freq: freq, left: nilNode, right: nilNode})
	return len(t.nodes) - 1
}

func (t *Tree) addInner(freq, left, right int) int {
	t.nodes = append(t.nodes, node{kind: innerNode, freq: freq, left: left, right: right})
	return len(t.nodes) - 1
}

// Empty reports whether the tree holds no symbols.
func (t *Tree) Empty() bool {
	return t == nil || t.root == nilNode
}

// heapItem orders nodes by frequency, then by the order they entered the queue.
type heapItem struct {
	freq, id, handle int
}

type huffmanHeap []heapItem

func (hub *huffmanHeap) Push(item any) {
	*hub = append(*hub, item.(heapItem))
}

func (hub *huffmanHeap) Pop() any {
	popped := (*hub)[len(*hub)-1]
	(*hub) = (*hub)[:len(*hub)-1]
	return popped
}

func (hub huffmanHeap) Len() int {
	return len(hub)
}

func (hub huffmanHeap) Less(i, j int) bool {
	if hub[i].freq != hub[j].freq {
		return hub[i].freq < hub[j].freq
	}
	return hub[i].id < hub[j].id
}

func (hub huffmanHeap) Swap(i, j int) {
	hub[i], hub[j] = hub[j], hub[i]
}

// BuildTree merges the two least frequent nodes until one root remains. Leaves enter the queue in
// ascending symbol order, so equal frequencies always pop in the same order.
func BuildTree(h Histogram) *Tree {
	t := &Tree{root: nilNode}
	symbols := h.Symbols()
	if len(symbols) == 0 {
		return t
	}
	treehub := make(huffmanHeap, 0, len(symbols))
	monoId := 0
	for _, s := range symbols {
		treehub = append(treehub, heapItem{
			freq:   h[s],
			id:     monoId,
			handle: t.addLeaf(s, h[s]),
		})
		monoId++
	}
	heap.Init(&treehub)
	for treehub.Len() > 1 {
		x := heap.Pop(&treehub).(heapItem)
		y := heap.Pop(&treehub).(heapItem)
		heap.Push(&treehub, heapItem{
			freq:   x.freq + y.freq,
			id:     monoId,
			handle: t.addInner(x.freq+y.freq, x.handle, y.handle),
		})
		monoId++
	}
	t.root = heap.Pop(&treehub).(heapItem).handle
	return t
}

// walk visits every leaf with the path from the root, 0 for left and 1 for right.
func (t *Tree) walk(fn func(symbol int, code Code)) {
	if t.Empty() {
		return
	}
	var visit func(n int, code Code)
	visit = func(n int, code Code) {
		nd := t.nodes[n]
		if nd.kind == leafNode {
			fn(nd.symbol, code)
			return
		}
		if nd.left != nilNode {
			visit(nd.left, Code{Bits: code.Bits << 1, Length: code.Length + 1})
		}
		if nd.right != nilNode {
			visit(nd.right, Code{Bits: code.Bits<<1 | 1, Length: code.Length + 1})
		}
	}
	visit(t.root, Code{})
}

// Codes returns the bit path of every leaf.
func (t *Tree) Codes() map[int]Code {
	codes := make(map[int]Code)
	t.walk(func(symbol int, code Code) {
		codes[symbol] = code
	})
	return codes
}

// BitReader is the input side of Tree.Decode.
type BitReader interface {
	ReadBit() (bool, error)
}

// Decode walks the tree one bit at a time until it reaches a leaf and returns its symbol.
func (t *Tree) Decode(r BitReader) (int, error) {
	if t.Empty() {
		return 0, fmt.Errorf("%w: decoding with an empty codebook", ErrMalformedCodebook)
	}
	n := t.root
	for t.nodes[n].kind == innerNode {
		b, err := r.ReadBit()
		if err != nil {
			return 0, err
		}
		next := t.nodes[n].left
		if b {
			next = t.nodes[n].right
		}
		if next == nilNode {
			return 0, fmt.Errorf("%w: bit path leaves the code tree", ErrMalformedCodebook)
		}
		n = next
	}
	return t.nodes[n].symbol, nil
}
