package huffman

import (
	"bytes"
	"errors"
	"io"
)

var ErrWriterClosed = errors.New("huffman: write after close")

// CompressionWriter buffers everything written to it and encodes it in one piece on Close.
type CompressionWriter struct {
	w      io.Writer
	buf    bytes.Buffer
	closed bool
}

func NewWriter(writer io.Writer) io.WriteCloser {
	return &CompressionWriter{w: writer}
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
	compressed, err := Encode(cw.buf.Bytes())
	if err != nil {
		return err
	}
	_, err = cw.w.Write(compressed)
	return err
}

// DecompressionReader reads the whole encoded input on the first Read and serves the decoded bytes.
type DecompressionReader struct {
	r       io.Reader
	decoded *bytes.Reader
}

func NewReader(reader io.Reader) io.Reader {
	return &DecompressionReader{r: reader}
}

func (dr *DecompressionReader) Read(data []byte) (int, error) {
	if dr.decoded == nil {
		compressed, err := io.ReadAll(dr.r)
		if err != nil {
			return 0, err
		}
		out, err := Decode(compressed)
		if err != nil {
			return 0, err
		}
		dr.decoded = bytes.NewReader(out)
	}
	return dr.decoded.Read(data)
}
