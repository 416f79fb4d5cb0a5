// Package huffman builds canonical Huffman codes.
//
// A code is built from a Histogram by BuildTree, reduced to per-symbol lengths by Canonicalize and
// turned back into bits by AssignCanonicalCodes. Only the lengths travel in a stream; the decoder
// regenerates the same codes and a decoding tree with RebuildTree.
//
// Encode and Decode apply the code directly to bytes, without any dictionary stage.
package huffman

import (
	"errors"
	"fmt"
	"math"

	"github.com/FitrahHaque/lzhuff/compressor/bitstream"
)

var ErrInputTooLarge = errors.New("input longer than 4 GiB")

const totalBits = 32

// Encode writes the symbol total, the byte codebook and one code per input byte.
// Empty input encodes to an empty stream.
func Encode(src []byte) ([]byte, error) {
	if len(src) == 0 {
		return []byte{}, nil
	}
	if uint64(len(src)) > math.MaxUint32 {
		return nil, ErrInputTooLarge
	}
	symbolFreq, total := BuildHistogram(src)
	lengths := Canonicalize(BuildTree(symbolFreq))
	codes, err := AssignCanonicalCodes(lengths)
	if err != nil {
		return nil, err
	}
	w := bitstream.NewWriter()
	w.WriteUint(uint64(total), totalBits)
	if err := WriteCodebook(w, ByteCodebook, lengths); err != nil {
		return nil, err
	}
	for _, b := range src {
		w.WriteCode(codes[b].Bits, codes[b].Length)
	}
	return w.Bytes()
}

// Decode reverses Encode.
func Decode(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}
	r := bitstream.NewReader(data)
	total, err := r.ReadUint(totalBits)
	if err != nil {
		return nil, err
	}
	lengths, err := ReadCodebook(r, ByteCodebook)
	if err != nil {
		return nil, err
	}
	tree, err := RebuildTree(lengths)
	if err != nil {
		return nil, err
	}
	// Every symbol costs at least one bit, which keeps a forged total from forcing a huge allocation.
	if remaining := uint64(len(data)*8 - r.Offset()); total > remaining {
		return nil, fmt.Errorf("%w: %d symbols declared, %d bits left", bitstream.ErrUnexpectedEndOfStream, total, remaining)
	}
	out := make([]byte, 0, total)
	for range total {
		symbol, err := tree.Decode(r)
		if err != nil {
			return nil, err
		}
		out = append(out, byte(symbol))
	}
	return out, nil
}
