// Package jhk stores raw images as Paeth residuals compressed with the flate stream.
//
// A jhk file is a 12-byte header (width, height and component count as little-endian uint32)
// followed by one flate stream over the filtered pixels.
package jhk

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/FitrahHaque/lzhuff/compressor/flate"
)

const HeaderSize = 12

var (
	ErrInvalidHeader     = errors.New("jhk: invalid header")
	ErrDimensionMismatch = errors.New("jhk: pixel data does not match dimensions")
)

// Image is an interleaved 8-bit image: component c of pixel (x, y) is Pix[(y*Width+x)*Components+c].
type Image struct {
	Width, Height, Components int
	Pix                       []byte
}

// Encode filters and compresses img. Nil options mean flate.DefaultOptions().
func Encode(img *Image, opts *flate.Options) ([]byte, error) {
	for _, d := range []int{img.Width, img.Height, img.Components} {
		if d < 0 || uint64(d) > math.MaxUint32 {
			return nil, fmt.Errorf("%w: dimension %d", ErrInvalidHeader, d)
		}
	}
	delta, err := Filter(img.Pix, img.Width, img.Height, img.Components)
	if err != nil {
		return nil, err
	}
	body, err := flate.Compress(delta, opts)
	if err != nil {
		return nil, err
	}
	out := make([]byte, HeaderSize, HeaderSize+len(body))
	binary.LittleEndian.PutUint32(out[0:4], uint32(img.Width))
	binary.LittleEndian.PutUint32(out[4:8], uint32(img.Height))
	binary.LittleEndian.PutUint32(out[8:12], uint32(img.Components))
	return append(out, body...), nil
}

// Decode reverses Encode.
func Decode(data []byte, opts *flate.Options) (*Image, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidHeader, len(data))
	}
	img := &Image{
		Width:      int(binary.LittleEndian.Uint32(data[0:4])),
		Height:     int(binary.LittleEndian.Uint32(data[4:8])),
		Components: int(binary.LittleEndian.Uint32(data[8:12])),
	}
	delta, err := flate.Decompress(data[HeaderSize:], opts)
	if err != nil {
		return nil, err
	}
	if img.Pix, err = Unfilter(delta, img.Width, img.Height, img.Components); err != nil {
		return nil, err
	}
	return img, nil
}
