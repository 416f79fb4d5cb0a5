package huffman

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

// MaxCodeLength bounds the length of a single code so that it fits a uint64 with room for shifting.
const MaxCodeLength = 63

var (
	ErrInvalidCodebookSize = errors.New("codebook size out of range")
	ErrMalformedCodebook   = errors.New("code lengths do not form a prefix code")
)

// Code is a prefix code: the low Length bits of Bits, most significant first.
type Code struct {
	Bits   uint64
	Length uint8
}

// Lengths holds the code length of every symbol, indexed by symbol. Zero means the symbol is unused.
type Lengths []uint8

// Canonicalize reduces a tree to the depth of each leaf. A lone leaf gets length 1 so it can still be
// written out.
func Canonicalize(t *Tree) Lengths {
	if t.Empty() {
		return Lengths{}
	}
	maxSymbol := 0
	depths := make(map[int]uint8)
	t.walk(func(symbol int, code Code) {
		depths[symbol] = max(code.Length, 1)
		maxSymbol = max(maxSymbol, symbol)
	})
	lengths := make(Lengths, maxSymbol+1)
	for s, d := range depths {
		lengths[s] = d
	}
	return lengths
}

type symbolLength struct {
	symbol int
	length uint8
}

func (lengths Lengths) sorted() []symbolLength {
	var order []symbolLength
	for s, l := range lengths {
		if l > 0 {
			order = append(order, symbolLength{symbol: s, length: l})
		}
	}
	slices.SortFunc(order, func(a, b symbolLength) int {
		if c := cmp.Compare(a.length, b.length); c != 0 {
			return c
		}
		return cmp.Compare(a.symbol, b.symbol)
	})
	return order
}

// AssignCanonicalCodes turns code lengths into codes. Symbols are ordered by (length, symbol) and
// receive consecutive values, shifted left whenever the length grows. The result is indexed by symbol
// and has a zero Code for unused symbols.
func AssignCanonicalCodes(lengths Lengths) ([]Code, error) {
	codes := make([]Code, len(lengths))
	var code uint64
	var prev uint8
	for _, sl := range lengths.sorted() {
		if sl.length > MaxCodeLength {
			return nil, fmt.Errorf("%w: symbol %d has length %d", ErrMalformedCodebook, sl.symbol, sl.length)
		}
		code <<= sl.length - prev
		prev = sl.length
		if code>>sl.length != 0 {
			return nil, fmt.Errorf("%w: lengths are over-subscribed at symbol %d", ErrMalformedCodebook, sl.symbol)
		}
		codes[sl.symbol] = Code{Bits: code, Length: sl.length}
		code++
	}
	return codes, nil
}

// RebuildTree places every symbol at the end of its canonical code path. The lengths must describe a
// complete prefix code, except that a single symbol of length 1 is accepted on its own.
func RebuildTree(lengths Lengths) (*Tree, error) {
	codes, err := AssignCanonicalCodes(lengths)
	if err != nil {
		return nil, err
	}
	t := &Tree{root: nilNode}
	used := 0
	for _, c := range codes {
		if c.Length > 0 {
			used++
		}
	}
	if used == 0 {
		return t, nil
	}
	t.root = t.addInner(0, nilNode, nilNode)
	for symbol, c := range codes {
		if c.Length == 0 {
			continue
		}
		n := t.root
		for i := int(c.Length) - 1; i >= 0; i-- {
			right := c.Bits>>uint(i)&1 == 1
			child := t.nodes[n].left
			if right {
				child = t.nodes[n].right
			}
			if i == 0 {
				if child != nilNode {
					return nil, fmt.Errorf("%w: symbol %d collides with another code", ErrMalformedCodebook, symbol)
				}
				child = t.addLeaf(symbol, 0)
			} else if child == nilNode {
				child = t.addInner(0, nilNode, nilNode)
			} else if t.nodes[child].kind == leafNode {
				return nil, fmt.Errorf("%w: code of symbol %d has a prefix", ErrMalformedCodebook, symbol)
			}
			if right {
				t.nodes[n].right = child
			} else {
				t.nodes[n].left = child
			}
			n = child
		}
	}
	if err := t.validate(used); err != nil {
		return nil, err
	}
	return t, nil
}

// validate checks that every inner node has two children. The only exception is the single-symbol
// code, where the root holds one leaf on its left.
func (t *Tree) validate(used int) error {
	for i, nd := range t.nodes {
		if nd.kind != innerNode {
			continue
		}
		if nd.left != nilNode && nd.right != nilNode {
			continue
		}
		lone := used == 1 && i == t.root && nd.left != nilNode && t.nodes[nd.left].kind == leafNode
		if !lone {
			return fmt.Errorf("%w: code lengths leave unused code space", ErrMalformedCodebook)
		}
	}
	return nil
}
