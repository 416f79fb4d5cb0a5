/*
Package flate implements a single-block LZSS + canonical Huffman stream in the spirit of DEFLATE.

The stream holds two codebooks, one for literal/length/end-of-block codes and one for distance codes,
followed by the coded tokens and a final end-of-block code:

	count-257 (5 bits) | width (8 bits) | count lengths (width bits each)
	count-1   (5 bits) | width (8 bits) | count lengths (width bits each)
	code [extra] [distance code [extra]] ... end-of-block

Huffman codes are written most significant bit first; counts, widths, lengths and extra bits are
written least significant bit first.

Round trip:

	enc, err := flate.Compress(data, nil)
	if err != nil {
		return err
	}
	dec, err := flate.Decompress(enc, nil)
*/
package flate

import (
	"github.com/FitrahHaque/lzhuff/compressor/bitstream"
	"github.com/FitrahHaque/lzhuff/compressor/huffman"
	"github.com/FitrahHaque/lzhuff/compressor/lzss"
)

// codedToken is a token already mapped to its code symbols and extra bits.
type codedToken struct {
	code          int
	lenExtraBits  uint8
	lenExtra      int
	distCode      int
	distExtraBits uint8
	distExtra     int
}

func codeTokens(tokens []lzss.Token) ([]codedToken, huffman.Histogram, huffman.Histogram) {
	coded := make([]codedToken, len(tokens))
	codeFreq, distFreq := make(huffman.Histogram), make(huffman.Histogram)
	for i, token := range tokens {
		ct := &coded[i]
		if token.Kind == lzss.LiteralToken {
			ct.code = int(token.Value)
		} else {
			ct.code, ct.lenExtraBits, ct.lenExtra = LengthCode(token.Length)
			ct.distCode, ct.distExtraBits, ct.distExtra = DistanceCode(token.Distance)
			distFreq.Add(ct.distCode)
		}
		codeFreq.Add(ct.code)
	}
	codeFreq.Add(EndOfBlock)
	return coded, codeFreq, distFreq
}

// Compress encodes src into one stream. Nil options mean DefaultOptions().
func Compress(src []byte, opts *Options) ([]byte, error) {
	log := opts.logger()
	matchOpts := &lzss.Options{}
	if opts != nil {
		matchOpts.MaxChain, matchOpts.Progress = opts.MaxChain, opts.Progress
	}
	tokens := lzss.Tokenize(src, matchOpts)
	coded, codeFreq, distFreq := codeTokens(tokens)

	codeLengths := huffman.Canonicalize(huffman.BuildTree(codeFreq))
	distLengths := huffman.Canonicalize(huffman.BuildTree(distFreq))
	codeTable, err := huffman.AssignCanonicalCodes(codeLengths)
	if err != nil {
		return nil, err
	}
	distTable, err := huffman.AssignCanonicalCodes(distLengths)
	if err != nil {
		return nil, err
	}

	w := bitstream.NewWriter()
	if err := huffman.WriteCodebook(w, huffman.TokenCodebook, codeLengths); err != nil {
		return nil, err
	}
	if err := huffman.WriteCodebook(w, huffman.DistanceCodebook, distLengths); err != nil {
		return nil, err
	}
	header, matches := w.Len(), 0
	for _, ct := range coded {
		c := codeTable[ct.code]
		w.WriteCode(c.Bits, c.Length)
		if ct.code < EndOfBlock {
			continue
		}
		matches++
		w.WriteUint(uint64(ct.lenExtra), ct.lenExtraBits)
		d := distTable[ct.distCode]
		w.WriteCode(d.Bits, d.Length)
		w.WriteUint(uint64(ct.distExtra), ct.distExtraBits)
	}
	eob := codeTable[EndOfBlock]
	w.WriteCode(eob.Bits, eob.Length)

	out, err := w.Bytes()
	if err != nil {
		return nil, err
	}
	log.Debug("flate: compressed",
		"in", len(src),
		"out", len(out),
		"tokens", len(tokens),
		"matches", matches,
		"header_bits", header,
	)
	return out, nil
}
