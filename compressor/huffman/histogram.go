package huffman

import "slices"

// Symbol is any integer alphabet the coder can count: raw bytes, token codes or distance codes.
type Symbol interface {
	~uint8 | ~uint16 | ~uint32 | ~int
}

// Histogram maps a symbol to its number of occurrences.
type Histogram map[int]int

// BuildHistogram counts the occurrences of every symbol and returns the total number of symbols seen.
func BuildHistogram[S Symbol](symbols []S) (Histogram, int) {
	h := make(Histogram)
	for _, s := range symbols {
		h[int(s)]++
	}
	return h, len(symbols)
}

func (h Histogram) Add(symbol int) {
	h[symbol]++
}

// Symbols returns the symbols present in ascending order.
func (h Histogram) Symbols() []int {
	keys := make([]int, 0, len(h))
	for s, n := range h {
		if n > 0 {
			keys = append(keys, s)
		}
	}
	slices.Sort(keys)
	return keys
}
