package huffman

import (
	"fmt"
	"math/bits"

	"github.com/FitrahHaque/lzhuff/compressor/bitstream"
)

// CodebookFormat describes how a codebook declares its size. The stored count is the number of
// entries minus Bias, written in CountBits bits.
type CodebookFormat struct {
	CountBits uint8
	Bias      int
	MaxCount  int
}

var (
	// TokenCodebook covers literals, the end-of-block code and the 29 length codes.
	TokenCodebook = CodebookFormat{CountBits: 5, Bias: 257, MaxCount: 286}
	// DistanceCodebook covers the 30 distance codes.
	DistanceCodebook = CodebookFormat{CountBits: 5, Bias: 1, MaxCount: 30}
	// ByteCodebook covers plain bytes.
	ByteCodebook = CodebookFormat{CountBits: 8, Bias: 1, MaxCount: 256}
)

// maxLengthWidth is the widest length field a reader accepts; every length up to MaxCodeLength fits.
const maxLengthWidth = 6

// WriteCodebook writes the count, the bit width of the largest length and one length per symbol.
// Trailing unused symbols are dropped, but the table never shrinks below Bias entries.
func WriteCodebook(w *bitstream.Writer, f CodebookFormat, lengths Lengths) error {
	count := len(lengths)
	for count > 0 && lengths[count-1] == 0 {
		count--
	}
	count = max(count, f.Bias)
	if count > f.MaxCount {
		return fmt.Errorf("%w: %d entries, at most %d allowed", ErrInvalidCodebookSize, count, f.MaxCount)
	}
	var longest uint8
	for _, l := range lengths {
		longest = max(longest, l)
	}
	if longest > MaxCodeLength {
		return fmt.Errorf("%w: length %d", ErrMalformedCodebook, longest)
	}
	width := uint8(bits.Len8(longest))
	w.WriteUint(uint64(count-f.Bias), f.CountBits)
	w.WriteUint(uint64(width), 8)
	for i := range count {
		var l uint8
		if i < len(lengths) {
			l = lengths[i]
		}
		w.WriteUint(uint64(l), width)
	}
	return nil
}

// ReadCodebook reads a codebook written by WriteCodebook and returns the dense length array.
func ReadCodebook(r *bitstream.Reader, f CodebookFormat) (Lengths, error) {
	stored, err := r.ReadUint(f.CountBits)
	if err != nil {
		return nil, err
	}
	count := int(stored) + f.Bias
	if count > f.MaxCount {
		return nil, fmt.Errorf("%w: %d entries, at most %d allowed", ErrInvalidCodebookSize, count, f.MaxCount)
	}
	width, err := r.ReadUint(8)
	if err != nil {
		return nil, err
	}
	if width > maxLengthWidth {
		return nil, fmt.Errorf("%w: length fields of %d bits", ErrMalformedCodebook, width)
	}
	lengths := make(Lengths, count)
	for i := range lengths {
		l, err := r.ReadUint(uint8(width))
		if err != nil {
			return nil, err
		}
		lengths[i] = uint8(l)
	}
	return lengths, nil
}
