package lzss

import "fmt"

type TokenKind int

const (
	LiteralToken TokenKind = iota
	MatchToken
)

// Token is either a literal byte or a back-reference of Length bytes starting Distance bytes back.
type Token struct {
	Kind     TokenKind
	Value    byte
	Length   int
	Distance int
}

func Literal(b byte) Token {
	return Token{Kind: LiteralToken, Value: b}
}

func Match(distance, length int) Token {
	return Token{Kind: MatchToken, Distance: distance, Length: length}
}

func (t Token) String() string {
	if t.Kind == LiteralToken {
		return fmt.Sprintf("lit(%q)", t.Value)
	}
	return fmt.Sprintf("match(%d,%d)", t.Distance, t.Length)
}

// Expand resolves a token stream into the bytes it describes. Back-references that overlap the bytes
// being produced are copied one byte at a time, as from a circular buffer of Distance bytes.
func Expand(tokens []Token) ([]byte, error) {
	var out []byte
	for i, t := range tokens {
		if t.Kind == LiteralToken {
			out = append(out, t.Value)
			continue
		}
		if t.Distance < 1 || t.Distance > len(out) {
			return nil, fmt.Errorf("token %d: distance %d with %d bytes of history", i, t.Distance, len(out))
		}
		out = CopyBack(out, t.Distance, t.Length)
	}
	return out, nil
}

// CopyBack appends length bytes taken from distance bytes before the end of out.
// The caller guarantees 1 <= distance <= len(out).
func CopyBack(out []byte, distance, length int) []byte {
	start := len(out) - distance
	for i := range length {
		out = append(out, out[start+i%distance])
	}
	return out
}
