package flate

import (
	"bytes"
	"errors"
	"io"
)

var ErrWriterClosed = errors.New("flate: write after close")

// CompressionWriter collects its input and writes one compressed stream on Close.
type CompressionWriter struct {
	w      io.Writer
	opts   *Options
	buf    bytes.Buffer
	closed bool
}

func NewWriter(writer io.Writer, opts *Options) io.WriteCloser {
	return &CompressionWriter{w: writer, opts: opts}
}

func (cw *CompressionWriter) Write(data []byte) (int, error) {
	if cw.closed {
		return 0, ErrWriterClosed
	}
	return cw.buf.Write(data)
}

func (cw *CompressionWriter) Close() error {
	if cw.closed {
		return nil
	}
	cw.closed = true
	compressed, err := Compress(cw.buf.Bytes(), cw.opts)
	if err != nil {
		return err
	}
	_, err = cw.w.Write(compressed)
	return err
}

// DecompressionReader decodes the whole underlying stream on the first Read.
type DecompressionReader struct {
	r       io.Reader
	opts    *Options
	decoded *bytes.Reader
}

func NewReader(reader io.Reader, opts *Options) io.Reader {
	return &DecompressionReader{r: reader, opts: opts}
}

func (dr *DecompressionReader) Read(data []byte) (int, error) {
	if dr.decoded == nil {
		compressed, err := io.ReadAll(dr.r)
		if err != nil {
			return 0, err
		}
		out, err := Decompress(compressed, dr.opts)
		if err != nil {
			return 0, err
		}
		dr.decoded = bytes.NewReader(out)
	}
	return dr.decoded.Read(data)
}
