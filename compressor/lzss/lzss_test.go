package lzss

import (
	"bytes"
	"math/rand"
	"testing"
)

func checkTokens(t *testing.T, input []byte, tokens []Token) {
	t.Helper()
	for i, tok := range tokens {
		if tok.Kind != MatchToken {
			continue
		}
		if tok.Distance < 1 || tok.Distance > WindowSize {
			t.Fatalf("token %d: distance %d out of window", i, tok.Distance)
		}
		if tok.Length < MinMatch || tok.Length > MaxMatch {
			t.Fatalf("token %d: length %d out of range", i, tok.Length)
		}
	}
	out, err := Expand(tokens)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, input) {
		t.Fatalf("expanded %d bytes, want %d", len(out), len(input))
	}
}

func TestTokenizeRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	random := make([]byte, 10000)
	rng.Read(random)
	lowEntropy := make([]byte, 20000)
	for i := range lowEntropy {
		lowEntropy[i] = "ab"[rng.Intn(2)]
	}
	farRepeat := append(append(bytes.Clone(random), make([]byte, WindowSize)...), random...)
	inputs := map[string][]byte{
		"empty":       {},
		"one":         {'z'},
		"two":         []byte("zz"),
		"zeros":       make([]byte, 5000),
		"distinct":    []byte("abcdefghijklmnopqrstuvwxyz0123456789"),
		"random":      random,
		"low-entropy": lowEntropy,
		"far-repeat":  farRepeat,
		"text":        bytes.Repeat([]byte("it was the best of times, it was the worst of times. "), 200),
	}
	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			checkTokens(t, input, Tokenize(input, nil))
		})
	}
}

func TestRepeatedTriple(t *testing.T) {
	input := bytes.Repeat([]byte("abc"), 1000)
	tokens := Tokenize(input, nil)
	checkTokens(t, input, tokens)
	if len(tokens) != 3+12 {
		t.Fatalf("got %d tokens: %v", len(tokens), tokens)
	}
	for i := range 3 {
		if tokens[i] != Literal(input[i]) {
			t.Fatalf("token %d = %v", i, tokens[i])
		}
	}
	for i, tok := range tokens[3:] {
		want := MaxMatch
		if i == len(tokens)-4 {
			want = 2997 - 11*MaxMatch
		}
		if tok != Match(3, want) {
			t.Fatalf("token %d = %v, want match(3,%d)", i+3, tok, want)
		}
	}
}

func TestSelfOverlap(t *testing.T) {
	input := bytes.Repeat([]byte("AB"), 50)
	tokens := Tokenize(input, nil)
	checkTokens(t, input, tokens)
	want := []Token{Literal('A'), Literal('B'), Match(2, 98)}
	if len(tokens) != len(want) {
		t.Fatalf("tokens = %v", tokens)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Fatalf("tokens = %v", tokens)
		}
	}
}

func TestPreferCloserMatch(t *testing.T) {
	input := []byte("abcXabcYabc")
	tokens := Tokenize(input, nil)
	checkTokens(t, input, tokens)
	if last := tokens[len(tokens)-1]; last != Match(4, 3) {
		t.Fatalf("tokens = %v", tokens)
	}
}

func TestWindowBound(t *testing.T) {
	// The only earlier copy of the block lies just beyond the window.
	rng := rand.New(rand.NewSource(11))
	block := make([]byte, 64)
	rng.Read(block)
	filler := make([]byte, WindowSize)
	for i := range filler {
		filler[i] = byte(i%251) | 0x80
	}
	input := append(append(bytes.Clone(block), filler...), block...)
	tokens := Tokenize(input, nil)
	checkTokens(t, input, tokens)
	for _, tok := range tokens {
		if tok.Kind == MatchToken && tok.Distance >= WindowSize {
			t.Fatalf("match %v reaches outside the window", tok)
		}
	}
}

func TestMaxChainStillRoundTrips(t *testing.T) {
	input := bytes.Repeat([]byte("chain limit chain limit, chained limits "), 300)
	consumed := 0
	tokens := Tokenize(input, &Options{MaxChain: 1, Progress: func(n int) { consumed += n }})
	checkTokens(t, input, tokens)
	if consumed != len(input) {
		t.Fatalf("progress reported %d bytes, want %d", consumed, len(input))
	}
}

func TestExpandRejectsBadDistance(t *testing.T) {
	if _, err := Expand([]Token{Literal('a'), Match(2, 3)}); err == nil {
		t.Fatal("expected error")
	}
}

func BenchmarkTokenize(b *testing.B) {
	input := bytes.Repeat([]byte("lzss benchmark text payload with repeats "), 4096)
	b.ReportAllocs()
	b.SetBytes(int64(len(input)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Tokenize(input, nil)
	}
}
