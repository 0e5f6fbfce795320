// Package wire provides the big-endian primitives that package pcr
// (the PCR Composite) and package quote (TPM_QUOTE_INFO and
// TPM_QUOTE_INFO2) build the spec.md §6 byte layouts with. It is a
// small typed writer/reader pair rather than ad-hoc byte slicing, in
// the style of the teacher's
// wel/tcg.go use of encoding/binary over a bytes.Buffer.
package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Writer accumulates big-endian primitives into a byte buffer.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer { return &Writer{} }

func (w *Writer) U8(v uint8)      { w.buf.WriteByte(v) }
func (w *Writer) U16(v uint16)    { _ = binary.Write(&w.buf, binary.BigEndian, v) }
func (w *Writer) U32(v uint32)    { _ = binary.Write(&w.buf, binary.BigEndian, v) }
func (w *Writer) Raw(p []byte)    { w.buf.Write(p) }

// Out returns the accumulated buffer.
func (w *Writer) Out() []byte { return w.buf.Bytes() }

// Len reports how many bytes have been written so far.
func (w *Writer) Len() int { return w.buf.Len() }

// Reader walks a big-endian byte buffer, returning an error on the
// first short read rather than panicking.
type Reader struct {
	r   *bytes.Reader
	err error
}

// NewReader wraps data for sequential big-endian reads.
func NewReader(data []byte) *Reader { return &Reader{r: bytes.NewReader(data)} }

func (r *Reader) U8() uint8 {
	if r.err != nil {
		return 0
	}
	b, err := r.r.ReadByte()
	if err != nil {
		r.err = fmt.Errorf("wire: read u8: %w", err)
		return 0
	}
	return b
}

func (r *Reader) U16() uint16 {
	var v uint16
	r.read(&v)
	return v
}

func (r *Reader) U32() uint32 {
	var v uint32
	r.read(&v)
	return v
}

func (r *Reader) Bytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	out := make([]byte, n)
	if _, err := io.ReadFull(r.r, out); err != nil {
		r.err = fmt.Errorf("wire: read %d bytes: %w", n, err)
		return nil
	}
	return out
}

func (r *Reader) read(v interface{}) {
	if r.err != nil {
		return
	}
	if err := binary.Read(r.r, binary.BigEndian, v); err != nil {
		r.err = fmt.Errorf("wire: read: %w", err)
	}
}

// Err returns the first error encountered during reads, if any.
func (r *Reader) Err() error { return r.err }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return r.r.Len() }
