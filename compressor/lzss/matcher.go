// Package lzss finds LZ77 back-references with a hash-chained sliding window and emits them as a
// sequence of literal and match tokens.
package lzss

const (
	WindowSize    = 1 << 15
	MinMatch      = 3
	LookAheadSize = 256
	MaxMatch      = MinMatch + LookAheadSize - 1
)

// Options tunes the matcher.
type Options struct {
	// MaxChain caps the hash-chain candidates probed per position. Zero probes the whole window.
	MaxChain int
	// Progress, when set, receives the number of input bytes consumed by each emitted token.
	Progress func(n int)
}

// Matcher holds the hash chains for one input. It is not safe for concurrent use.
type Matcher struct {
	src    []byte
	chains map[uint32][]int
	opts   Options
}

func NewMatcher(src []byte, opts *Options) *Matcher {
	m := &Matcher{
		src:    src,
		chains: make(map[uint32][]int),
	}
	if opts != nil {
		m.opts = *opts
	}
	return m
}

// Tokenize runs the matcher over src with the given options.
func Tokenize(src []byte, opts *Options) []Token {
	return NewMatcher(src, opts).Tokens()
}

func (m *Matcher) prefix(pos int) uint32 {
	return uint32(m.src[pos])<<16 | uint32(m.src[pos+1])<<8 | uint32(m.src[pos+2])
}

// matchLength counts the bytes at pos that repeat those at cand, up to limit. cand+n may run past pos,
// which is how overlapping matches are found.
func (m *Matcher) matchLength(cand, pos, limit int) int {
	n := 0
	for n < limit && m.src[cand+n] == m.src[pos+n] {
		n++
	}
	return n
}

// longest returns the best match at pos. Shorter distances win ties.
func (m *Matcher) longest(pos int) (distance, length int) {
	limit := min(MaxMatch, len(m.src)-pos)
	if limit < MinMatch {
		return 0, 0
	}
	// Distances 1 and 2 are always tried, hash hit or not.
	for d := 1; d <= 2 && d <= pos; d++ {
		if n := m.matchLength(pos-d, pos, limit); n > length {
			distance, length = d, n
		}
	}
	if length == limit {
		return distance, length
	}

	key := m.prefix(pos)
	chain := m.chains[key]
	lowest := max(0, pos-WindowSize+1)
	cut := -1
	probes := 0
	for i := len(chain) - 1; i >= 0; i-- {
		cand := chain[i]
		if cand < lowest {
			cut = i
			break
		}
		if m.opts.MaxChain > 0 && probes == m.opts.MaxChain {
			break
		}
		probes++
		if n := m.matchLength(cand, pos, limit); n > length {
			distance, length = pos-cand, n
			if length == limit {
				break
			}
		}
	}
	if cut >= 0 {
		m.chains[key] = chain[cut+1:]
	}
	return distance, length
}

func (m *Matcher) insert(from, to int) {
	for p := from; p < to && p+MinMatch <= len(m.src); p++ {
		key := m.prefix(p)
		m.chains[key] = append(m.chains[key], p)
	}
}

// Tokens emits the token stream for the whole input.
func (m *Matcher) Tokens() []Token {
	var tokens []Token
	for pos := 0; pos < len(m.src); {
		distance, length := m.longest(pos)
		step := 1
		if length >= MinMatch {
			tokens = append(tokens, Match(distance, length))
			step = length
		} else {
			tokens = append(tokens, Literal(m.src[pos]))
		}
		m.insert(pos, pos+step)
		pos += step
		if m.opts.Progress != nil {
			m.opts.Progress(step)
		}
	}
	return tokens
}
