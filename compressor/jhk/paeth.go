package jhk

import (
	"fmt"
	"math"
	"math/bits"
)

// paeth picks the neighbour closest to left+above-upperLeft, preferring left, then above.
func paeth(left, above, upperLeft byte) byte {
	p := int(left) + int(above) - int(upperLeft)
	pa, pb, pc := abs(p-int(left)), abs(p-int(above)), abs(p-int(upperLeft))
	switch {
	case pa <= pb && pa <= pc:
		return left
	case pb <= pc:
		return above
	default:
		return upperLeft
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func checkSize(n, width, height, components int) error {
	if width < 0 || height < 0 || components < 0 {
		return fmt.Errorf("%w: %dx%dx%d", ErrInvalidHeader, width, height, components)
	}
	hi, area := bits.Mul64(uint64(width), uint64(height))
	if hi == 0 {
		hi, area = bits.Mul64(area, uint64(components))
	}
	if hi != 0 || area > math.MaxInt || int(area) != n {
		return fmt.Errorf("%w: %d bytes for %dx%dx%d", ErrDimensionMismatch, n, width, height, components)
	}
	return nil
}

// traverse visits every pixel in stream order: the first row, then the first column, then the
// remaining pixels row by row.
func traverse(width, height int, fn func(x, y int)) {
	if width == 0 || height == 0 {
		return
	}
	for x := range width {
		fn(x, 0)
	}
	for y := 1; y < height; y++ {
		fn(0, y)
	}
	for y := 1; y < height; y++ {
		for x := 1; x < width; x++ {
			fn(x, y)
		}
	}
}

// Filter returns the Paeth residuals of an interleaved pixel buffer in stream order. Pixels of the
// first row and column are copied as they are.
func Filter(pix []byte, width, height, components int) ([]byte, error) {
	if err := checkSize(len(pix), width, height, components); err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(pix))
	if len(pix) == 0 {
		return out, nil
	}
	at := func(x, y, c int) byte { return pix[(y*width+x)*components+c] }
	traverse(width, height, func(x, y int) {
		for c := range components {
			v := at(x, y, c)
			if x > 0 && y > 0 {
				v -= paeth(at(x-1, y, c), at(x, y-1, c), at(x-1, y-1, c))
			}
			out = append(out, v)
		}
	})
	return out, nil
}

// Unfilter reverses Filter. Every prediction uses neighbours that the traversal has already rebuilt.
func Unfilter(delta []byte, width, height, components int) ([]byte, error) {
	if err := checkSize(len(delta), width, height, components); err != nil {
		return nil, err
	}
	pix := make([]byte, len(delta))
	if len(delta) == 0 {
		return pix, nil
	}
	at := func(x, y, c int) byte { return pix[(y*width+x)*components+c] }
	i := 0
	traverse(width, height, func(x, y int) {
		for c := range components {
			v := delta[i]
			i++
			if x > 0 && y > 0 {
				v += paeth(at(x-1, y, c), at(x, y-1, c), at(x-1, y-1, c))
			}
			pix[(y*width+x)*components+c] = v
		}
	})
	return pix, nil
}
