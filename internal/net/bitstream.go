package net

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"strings"
)

var (
	ErrShortMessage   = errors.New("message truncated")
	ErrUnterminated   = errors.New("string not null-terminated")
	ErrUnknownOpcode  = errors.New("unknown opcode")
	ErrEmptyMessage   = errors.New("empty message")
	ErrStringTooLarge = errors.New("string exceeds limit")
	ErrNonFinite      = errors.New("non-finite float")
)

// MaxStringLen bounds names, chat lines and cvar keys.
const MaxStringLen = 255

var order = binary.LittleEndian

// Writer appends little-endian fields to a byte buffer.
type Writer struct {
	buf []byte
}

func NewWriter(op Opcode) *Writer {
	w := &Writer{buf: make([]byte, 0, 32)}
	w.Uint8(uint8(op))
	return w
}

func (w *Writer) Bytes() []byte { return w.buf }

func (w *Writer) Uint8(v uint8) { w.buf = append(w.buf, v) }

func (w *Writer) Bool(v bool) {
	if v {
		w.Uint8(1)
		return
	}
	w.Uint8(0)
}

func (w *Writer) Int32(v int32) { w.buf = order.AppendUint32(w.buf, uint32(v)) }

func (w *Writer) Float32(v float32) { w.buf = order.AppendUint32(w.buf, math.Float32bits(v)) }

func (w *Writer) Vec3(v Vec3) {
	w.Float32(v.X)
	w.Float32(v.Y)
	w.Float32(v.Z)
}

// CString writes s followed by a null byte. Embedded nulls and anything past
// MaxStringLen are cut off so the field always round-trips.
func (w *Writer) CString(s string) {
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	if len(s) > MaxStringLen {
		s = s[:MaxStringLen]
	}
	w.buf = append(w.buf, s...)
	w.buf = append(w.buf, 0)
}

// Reader consumes fields written by Writer. The first error sticks and every
// later read returns a zero value.
type Reader struct {
	buf []byte
	off int
	err error
}

func NewReader(b []byte) *Reader { return &Reader{buf: b} }

func (r *Reader) Err() error { return r.err }

func (r *Reader) Remaining() int { return len(r.buf) - r.off }

func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.Remaining() < n {
		r.err = ErrShortMessage
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *Reader) Uint8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *Reader) Bool() bool { return r.Uint8() != 0 }

func (r *Reader) Int32() int32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return int32(order.Uint32(b))
}

func (r *Reader) Float32() float32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	f := math.Float32frombits(order.Uint32(b))
	if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
		r.err = ErrNonFinite
		return 0
	}
	return f
}

func (r *Reader) Vec3() Vec3 {
	return Vec3{X: r.Float32(), Y: r.Float32(), Z: r.Float32()}
}

func (r *Reader) CString() string {
	if r.err != nil {
		return ""
	}
	i := bytes.IndexByte(r.buf[r.off:], 0)
	if i < 0 {
		r.err = ErrUnterminated
		return ""
	}
	if i > MaxStringLen {
		r.err = ErrStringTooLarge
		return ""
	}
	s := string(r.buf[r.off : r.off+i])
	r.off += i + 1
	return s
}

// Count reads a repeat count and rejects values that cannot fit in the
// remaining bytes given the minimum element size.
func (r *Reader) Count(minElem int) int {
	n := r.Int32()
	if r.err != nil {
		return 0
	}
	if n < 0 || (minElem > 0 && int(n) > r.Remaining()/minElem) {
		r.err = ErrShortMessage
		return 0
	}
	return int(n)
}
