package flate

import (
	"errors"
	"fmt"

	"github.com/FitrahHaque/lzhuff/compressor/bitstream"
	"github.com/FitrahHaque/lzhuff/compressor/huffman"
	"github.com/FitrahHaque/lzhuff/compressor/lzss"
)

var ErrInvalidBackReference = errors.New("back-reference before start of output")

// Decompress decodes a stream produced by Compress. Empty input yields empty output.
func Decompress(data []byte, opts *Options) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}
	log := opts.logger()
	r := bitstream.NewReader(data)
	codeLengths, err := huffman.ReadCodebook(r, huffman.TokenCodebook)
	if err != nil {
		return nil, fmt.Errorf("code table: %w", err)
	}
	distLengths, err := huffman.ReadCodebook(r, huffman.DistanceCodebook)
	if err != nil {
		return nil, fmt.Errorf("distance table: %w", err)
	}
	codeTree, err := huffman.RebuildTree(codeLengths)
	if err != nil {
		return nil, fmt.Errorf("code table: %w", err)
	}
	distTree, err := huffman.RebuildTree(distLengths)
	if err != nil {
		return nil, fmt.Errorf("distance table: %w", err)
	}

	var out []byte
	for {
		code, err := codeTree.Decode(r)
		if err != nil {
			return nil, err
		}
		if code < EndOfBlock {
			out = append(out, byte(code))
			continue
		}
		if code == EndOfBlock {
			break
		}
		extra, err := r.ReadUint(LengthExtraBits(code))
		if err != nil {
			return nil, err
		}
		length := LengthFromCode(code, int(extra))

		distCode, err := distTree.Decode(r)
		if err != nil {
			return nil, err
		}
		extra, err = r.ReadUint(DistanceExtraBits(distCode))
		if err != nil {
			return nil, err
		}
		distance := DistanceFromCode(distCode, int(extra))
		if distance > len(out) {
			return nil, fmt.Errorf("%w: distance %d, %d bytes decoded", ErrInvalidBackReference, distance, len(out))
		}
		out = lzss.CopyBack(out, distance, length)
	}
	if out == nil {
		out = []byte{}
	}
	log.Debug("flate: decompressed", "in", len(data), "out", len(out))
	return out, nil
}
