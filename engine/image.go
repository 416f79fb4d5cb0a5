package engine

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"

	"github.com/FitrahHaque/lzhuff/compressor/flate"
	"github.com/FitrahHaque/lzhuff/compressor/jhk"
)

// The jhk engine reads PNG files and writes jhk streams; decompression writes PNG back.

type imageWriter struct {
	w    io.Writer
	opts *flate.Options
	buf  bytes.Buffer
}

func newImageWriter(w io.Writer, opts *flate.Options) io.WriteCloser {
	return &imageWriter{w: w, opts: opts}
}

func (iw *imageWriter) Write(data []byte) (int, error) {
	return iw.buf.Write(data)
}

func (iw *imageWriter) Close() error {
	img, err := decodePNG(iw.buf.Bytes())
	if err != nil {
		return err
	}
	encoded, err := jhk.Encode(img, iw.opts)
	if err != nil {
		return err
	}
	_, err = iw.w.Write(encoded)
	return err
}

type imageReader struct {
	r       io.Reader
	opts    *flate.Options
	decoded *bytes.Reader
}

func newImageReader(r io.Reader, opts *flate.Options) io.Reader {
	return &imageReader{r: r, opts: opts}
}

func (ir *imageReader) Read(data []byte) (int, error) {
	if ir.decoded == nil {
		content, err := io.ReadAll(ir.r)
		if err != nil {
			return 0, err
		}
		img, err := jhk.Decode(content, ir.opts)
		if err != nil {
			return 0, err
		}
		dst, err := fromImage(img)
		if err != nil {
			return 0, err
		}
		var b bytes.Buffer
		if err := png.Encode(&b, dst); err != nil {
			return 0, err
		}
		ir.decoded = bytes.NewReader(b.Bytes())
	}
	return ir.decoded.Read(data)
}

func decodePNG(content []byte) (*jhk.Image, error) {
	src, err := png.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("reading png: %w", err)
	}
	return toImage(src), nil
}

// toImage flattens any decoded image into 4-component NRGBA pixels.
func toImage(src image.Image) *jhk.Image {
	bounds := src.Bounds()
	rgba, ok := src.(*image.NRGBA)
	if !ok || rgba.Stride != 4*bounds.Dx() || bounds.Min != (image.Point{}) {
		rgba = image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), src, bounds.Min, draw.Src)
	}
	return &jhk.Image{Width: bounds.Dx(), Height: bounds.Dy(), Components: 4, Pix: rgba.Pix}
}

func fromImage(img *jhk.Image) (image.Image, error) {
	rect := image.Rect(0, 0, img.Width, img.Height)
	switch img.Components {
	case 1:
		return &image.Gray{Pix: img.Pix, Stride: img.Width, Rect: rect}, nil
	case 3:
		dst := image.NewNRGBA(rect)
		for i := range img.Width * img.Height {
			copy(dst.Pix[4*i:4*i+3], img.Pix[3*i:3*i+3])
			dst.Pix[4*i+3] = 0xFF
		}
		return dst, nil
	case 4:
		return &image.NRGBA{Pix: img.Pix, Stride: 4 * img.Width, Rect: rect}, nil
	}
	return nil, fmt.Errorf("%w: %d components cannot be written as png", ErrUnsupportedImage, img.Components)
}
