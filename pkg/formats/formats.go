// Package formats reads and writes the binary asset formats the showroom
// loads at runtime.
package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"

	"github.com/Faultbox/showroom/pkg/encoding"
)

// binReader reads little-endian values and keeps the first error.
type binReader struct {
	r   *bytes.Reader
	err error
}

func (b *binReader) read(v any) {
	if b.err != nil {
		return
	}
	if err := binary.Read(b.r, binary.LittleEndian, v); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			err = io.ErrUnexpectedEOF
		}
		b.err = err
	}
}

func (b *binReader) int32() int32 {
	var v int32
	b.read(&v)
	return v
}

func (b *binReader) str(n int) string {
	buf := make([]byte, n)
	b.read(buf)
	if b.err != nil {
		return ""
	}
	return encoding.FixedString(buf)
}

// count reads a length prefix and rejects values above limit.
func (b *binReader) count(limit int32) int {
	n := b.int32()
	if b.err != nil {
		return 0
	}
	if n < 0 || n > limit {
		b.err = errCountOutOfRange
		return 0
	}
	return int(n)
}

var errCountOutOfRange = errors.New("count out of range")

type binWriter struct {
	buf bytes.Buffer
}

func (w *binWriter) write(v any) {
	// bytes.Buffer writes never fail
	_ = binary.Write(&w.buf, binary.LittleEndian, v)
}

func (w *binWriter) str(s string, n int) {
	w.buf.Write(encoding.PutFixedString(s, n))
}
