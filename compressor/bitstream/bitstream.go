// Package bitstream packs single bits and fixed-width unsigned integers into a byte buffer and reads
// them back.
//
// Bits are placed MSB-first within each byte. Prefix codes are written MSB-first as walked from the
// root of their tree, while raw integer fields are emitted least-significant bit first, one bit at a
// time. Both directions must use the same convention for a stream to round-trip.
package bitstream

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/icza/bitio"
)

var (
	ErrUnexpectedEndOfStream = errors.New("unexpected end of bit stream")
	ErrInvalidWidth          = errors.New("integer field wider than 64 bits")
	ErrWriterClosed          = errors.New("bit writer already closed")
)

// Writer accumulates bits in memory. Write errors are sticky and reported by Bytes.
type Writer struct {
	buf    bytes.Buffer
	bw     *bitio.Writer
	err    error
	nbits  int
	closed bool
}

func NewWriter() *Writer {
	w := new(Writer)
	w.bw = bitio.NewWriter(&w.buf)
	return w
}

func (w *Writer) WriteBit(b bool) {
	if w.err != nil {
		return
	}
	if w.closed {
		w.err = ErrWriterClosed
		return
	}
	w.err = w.bw.WriteBool(b)
	w.nbits++
}

func (w *Writer) WriteBits(bits []bool) {
	for _, b := range bits {
		w.WriteBit(b)
	}
}

// WriteCode writes the low length bits of code, most significant first.
func (w *Writer) WriteCode(code uint64, length uint8) {
	if w.err != nil || length == 0 {
		return
	}
	if length > 64 {
		w.err = fmt.Errorf("%w: %d", ErrInvalidWidth, length)
		return
	}
	if w.closed {
		w.err = ErrWriterClosed
		return
	}
	w.err = w.bw.WriteBits(code, length)
	w.nbits += int(length)
}

// WriteUint writes width bits of value, least significant first.
func (w *Writer) WriteUint(value uint64, width uint8) {
	if width > 64 {
		w.err = fmt.Errorf("%w: %d", ErrInvalidWidth, width)
		return
	}
	for i := range width {
		w.WriteBit(value>>i&1 == 1)
	}
}

// Len reports the number of bits written so far.
func (w *Writer) Len() int {
	return w.nbits
}

// Bytes flushes the pending partial byte, zero padded, and returns the buffer.
// The writer cannot be used afterwards.
func (w *Writer) Bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	if !w.closed {
		w.closed = true
		if err := w.bw.Close(); err != nil {
			w.err = err
			return nil, err
		}
	}
	return w.buf.Bytes(), nil
}

// Reader reads bits from an in-memory buffer.
type Reader struct {
	br    *bitio.Reader
	total int
	pos   int
}

func NewReader(data []byte) *Reader {
	return &Reader{
		br:    bitio.NewReader(bytes.NewReader(data)),
		total: len(data) * 8,
	}
}

func (r *Reader) ReadBit() (bool, error) {
	if r.pos >= r.total {
		return false, ErrUnexpectedEndOfStream
	}
	b, err := r.br.ReadBool()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return false, ErrUnexpectedEndOfStream
		}
		return false, err
	}
	r.pos++
	return b, nil
}

// ReadUint reads a width-bit field written by Writer.WriteUint.
func (r *Reader) ReadUint(width uint8) (uint64, error) {
	if width > 64 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidWidth, width)
	}
	var value uint64
	for i := range width {
		b, err := r.ReadBit()
		if err != nil {
			return 0, err
		}
		if b {
			value |= 1 << i
		}
	}
	return value, nil
}

// IsValid reports whether unread bits remain, padding included.
func (r *Reader) IsValid() bool {
	return r.pos < r.total
}

// Offset reports the number of bits consumed.
func (r *Reader) Offset() int {
	return r.pos
}
