package huffman

import (
	"bytes"
	"errors"
	"io"
	"math/rand"
	"strings"
	"testing"

	"github.com/FitrahHaque/lzhuff/compressor/bitstream"
)

func TestBuildHistogram(t *testing.T) {
	h, total := BuildHistogram([]byte("abracadabra"))
	if total != 11 {
		t.Fatalf("total = %d", total)
	}
	want := map[int]int{'a': 5, 'b': 2, 'r': 2, 'c': 1, 'd': 1}
	for s, n := range want {
		if h[s] != n {
			t.Fatalf("h[%q] = %d, want %d", rune(s), h[s], n)
		}
	}
	if got := h.Symbols(); len(got) != 5 || got[0] != 'a' || got[4] != 'r' {
		t.Fatalf("Symbols() = %v", got)
	}
}

func TestCanonicalizeLengths(t *testing.T) {
	h := Histogram{0: 10, 1: 1, 2: 1, 3: 2}
	lengths := Canonicalize(BuildTree(h))
	want := Lengths{1, 3, 3, 2}
	if !bytes.Equal(lengths, want) {
		t.Fatalf("lengths = %v, want %v", lengths, want)
	}
}

func TestCanonicalizeSingleSymbol(t *testing.T) {
	lengths := Canonicalize(BuildTree(Histogram{256: 1}))
	if len(lengths) != 257 || lengths[256] != 1 {
		t.Fatalf("lengths[256] = %d", lengths[len(lengths)-1])
	}
	tree, err := RebuildTree(lengths)
	if err != nil {
		t.Fatal(err)
	}
	symbol, err := tree.Decode(bitstream.NewReader([]byte{0x00}))
	if err != nil || symbol != 256 {
		t.Fatalf("Decode = %d, %v", symbol, err)
	}
	if _, err := tree.Decode(bitstream.NewReader([]byte{0x80})); !errors.Is(err, ErrMalformedCodebook) {
		t.Fatalf("want ErrMalformedCodebook, got %v", err)
	}
}

func TestAssignCanonicalCodes(t *testing.T) {
	// Example from RFC 1951 section 3.2.2.
	lengths := Lengths{3, 3, 3, 3, 3, 2, 4, 4}
	codes, err := AssignCanonicalCodes(lengths)
	if err != nil {
		t.Fatal(err)
	}
	want := []uint64{0b010, 0b011, 0b100, 0b101, 0b110, 0b00, 0b1110, 0b1111}
	for s, c := range codes {
		if c.Bits != want[s] || c.Length != lengths[s] {
			t.Fatalf("symbol %d: got %b/%d, want %b/%d", s, c.Bits, c.Length, want[s], lengths[s])
		}
	}
}

func TestCanonicalCodesIgnoreInsertionOrder(t *testing.T) {
	text := []byte("the quick brown fox jumps over the lazy dog, again and again")
	h1, _ := BuildHistogram(text)
	h2 := make(Histogram)
	for i := len(text) - 1; i >= 0; i-- {
		h2.Add(int(text[i]))
	}
	c1, err := AssignCanonicalCodes(Canonicalize(BuildTree(h1)))
	if err != nil {
		t.Fatal(err)
	}
	c2, err := AssignCanonicalCodes(Canonicalize(BuildTree(h2)))
	if err != nil {
		t.Fatal(err)
	}
	if len(c1) != len(c2) {
		t.Fatalf("len %d != %d", len(c1), len(c2))
	}
	for i := range c1 {
		if c1[i] != c2[i] {
			t.Fatalf("symbol %d: %v != %v", i, c1[i], c2[i])
		}
	}
}

func isPrefix(a, b Code) bool {
	return a.Length < b.Length && b.Bits>>(b.Length-a.Length) == a.Bits
}

func TestRebuildTreePrefixFree(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := range 50 {
		h := make(Histogram)
		for range 1 + rng.Intn(2000) {
			h.Add(rng.Intn(1 + rng.Intn(286)))
		}
		lengths := Canonicalize(BuildTree(h))
		tree, err := RebuildTree(lengths)
		if err != nil {
			t.Fatalf("round %d: %v", round, err)
		}
		codes := tree.Codes()
		assigned, err := AssignCanonicalCodes(lengths)
		if err != nil {
			t.Fatal(err)
		}
		for s, c := range codes {
			if assigned[s] != c {
				t.Fatalf("round %d: symbol %d path %v, canonical %v", round, s, c, assigned[s])
			}
			for o, d := range codes {
				if s != o && isPrefix(c, d) {
					t.Fatalf("round %d: code of %d is a prefix of %d", round, s, o)
				}
			}
		}
	}
}

func TestRebuildTreeRejectsMalformed(t *testing.T) {
	tests := []struct {
		name    string
		lengths Lengths
	}{
		{"over-subscribed", Lengths{1, 1, 1}},
		{"incomplete", Lengths{1, 2}},
		{"lone long code", Lengths{0, 2}},
		{"too long", Lengths{MaxCodeLength + 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := RebuildTree(tt.lengths); !errors.Is(err, ErrMalformedCodebook) {
				t.Fatalf("want ErrMalformedCodebook, got %v", err)
			}
		})
	}
}

func TestRebuildTreeEmpty(t *testing.T) {
	tree, err := RebuildTree(Lengths{0, 0, 0})
	if err != nil {
		t.Fatal(err)
	}
	if !tree.Empty() {
		t.Fatal("expected empty tree")
	}
	if _, err := tree.Decode(bitstream.NewReader([]byte{0})); !errors.Is(err, ErrMalformedCodebook) {
		t.Fatalf("got %v", err)
	}
}

func TestCodebookRoundTrip(t *testing.T) {
	lengths := make(Lengths, 260)
	lengths['a'], lengths['b'], lengths[256], lengths[259] = 2, 2, 2, 2
	w := bitstream.NewWriter()
	if err := WriteCodebook(w, TokenCodebook, lengths); err != nil {
		t.Fatal(err)
	}
	if err := WriteCodebook(w, DistanceCodebook, Lengths{}); err != nil {
		t.Fatal(err)
	}
	out, err := w.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	r := bitstream.NewReader(out)
	got, err := ReadCodebook(r, TokenCodebook)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, lengths) {
		t.Fatalf("token lengths differ")
	}
	dist, err := ReadCodebook(r, DistanceCodebook)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(dist, Lengths{0}) {
		t.Fatalf("dist = %v", dist)
	}
}

func TestWriteCodebookTooLarge(t *testing.T) {
	lengths := make(Lengths, 31)
	lengths[30] = 1
	if err := WriteCodebook(bitstream.NewWriter(), DistanceCodebook, lengths); !errors.Is(err, ErrInvalidCodebookSize) {
		t.Fatalf("got %v", err)
	}
}

func TestReadCodebookInvalidSize(t *testing.T) {
	w := bitstream.NewWriter()
	w.WriteUint(31, 5) // 31+257 entries
	w.WriteUint(0, 8)
	out, _ := w.Bytes()
	if _, err := ReadCodebook(bitstream.NewReader(out), TokenCodebook); !errors.Is(err, ErrInvalidCodebookSize) {
		t.Fatalf("got %v", err)
	}
}

func TestEncodeDecode(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	random := make([]byte, 4096)
	rng.Read(random)
	inputs := map[string][]byte{
		"empty":    {},
		"single":   []byte("x"),
		"one-byte": bytes.Repeat([]byte{0}, 1000),
		"text":     []byte(strings.Repeat("huffman coding works on skewed text. ", 40)),
		"random":   random,
	}
	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			enc, err := Encode(input)
			if err != nil {
				t.Fatal(err)
			}
			dec, err := Decode(enc)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(dec, input) {
				t.Fatalf("round trip mismatch: %d bytes in, %d out", len(input), len(dec))
			}
		})
	}
}

func TestDecodeTruncated(t *testing.T) {
	enc, err := Encode([]byte(strings.Repeat("truncate me ", 20)))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(enc[:len(enc)/2]); !errors.Is(err, bitstream.ErrUnexpectedEndOfStream) {
		t.Fatalf("got %v", err)
	}
}

func TestWriterReader(t *testing.T) {
	input := []byte(strings.Repeat("stream adapters ", 64))
	var b bytes.Buffer
	w := NewWriter(&b)
	w.Write(input[:100])
	w.Write(input[100:])
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("late")); !errors.Is(err, ErrWriterClosed) {
		t.Fatalf("got %v", err)
	}
	out, err := io.ReadAll(NewReader(&b))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, input) {
		t.Fatal("round trip mismatch")
	}
}

func BenchmarkEncode(b *testing.B) {
	input := []byte(strings.Repeat("benchmark huffman payload with some variety 0123456789 ", 1024))
	b.ReportAllocs()
	b.SetBytes(int64(len(input)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Encode(input); err != nil {
			b.Fatal(err)
		}
	}
}
