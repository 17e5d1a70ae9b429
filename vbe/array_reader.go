package vbe

import (
	"fmt"
	"io"

	"github.com/arloliu/vbio/endian"
	"github.com/arloliu/vbio/errs"
)

// ArrayReader reads VBE values from a byte slice owned by the caller.
//
// The readable region is data[start:end]; reads advance an internal cursor
// that never passes end. Reset rebinds the reader to a new region so one
// instance can serve many short reads without allocating.
type ArrayReader struct {
	decoder
	data  []byte
	start int
	pos   int
	end   int
}

var _ Reader = (*ArrayReader)(nil)

// NewArrayReader creates a reader over all of data.
func NewArrayReader(data []byte) *ArrayReader {
	return NewArrayReaderAt(data, 0, len(data))
}

// NewArrayReaderAt creates a reader over data[off:off+length].
//
// Parameters:
//   - data: Backing slice, not copied
//   - off: Offset of the first readable byte
//   - length: Number of readable bytes
//
// Returns:
//   - *ArrayReader: Reader positioned at off
//
// Panics if the region is not inside data.
func NewArrayReaderAt(data []byte, off, length int) *ArrayReader {
	r := &ArrayReader{}
	r.decoder.src = r
	r.Reset(data, off, length)

	return r
}

// Reset rebinds the reader to data[off:off+length] and rewinds it.
// Panics if the region is not inside data.
func (r *ArrayReader) Reset(data []byte, off, length int) {
	if off < 0 || length < 0 || off+length > len(data) {
		panic(fmt.Sprintf("vbe: invalid region off=%d length=%d for %d bytes", off, length, len(data)))
	}
	r.data = data
	r.start = off
	r.pos = off
	r.end = off + length
}

func (r *ArrayReader) next() (byte, error) {
	if r.pos >= r.end {
		return 0, io.EOF
	}
	b := r.data[r.pos]
	r.pos++

	return b, nil
}

func (r *ArrayReader) available() int {
	return r.end - r.pos
}

// Position returns the cursor as an index into the underlying slice.
func (r *ArrayReader) Position() int {
	return r.pos
}

// Seek moves the cursor to pos, an index into the underlying slice that must
// lie inside the region the reader was created or reset with.
func (r *ArrayReader) Seek(pos int) error {
	if pos < r.start || pos > r.end {
		return fmt.Errorf("%w: %d not in [%d, %d]", errs.ErrPositionOutOfRange, pos, r.start, r.end)
	}
	r.pos = pos

	return nil
}

// Remaining returns the unread part of the region. The slice aliases the
// caller's data.
func (r *ArrayReader) Remaining() []byte {
	return r.data[r.pos:r.end]
}

// ReadByte returns the next byte, or errs.ErrEndOfData if there is none.
func (r *ArrayReader) ReadByte() (byte, error) {
	if r.pos >= r.end {
		return 0, errs.ErrEndOfData
	}
	b := r.data[r.pos]
	r.pos++

	return b, nil
}

// Read copies up to len(p) bytes. It returns 0, io.EOF once the region is exhausted.
func (r *ArrayReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if r.pos >= r.end {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:r.end])
	r.pos += n

	return n, nil
}

// ReadInt32 decodes a VBE value and returns its low 32 bits.
func (r *ArrayReader) ReadInt32() (int32, error) {
	v, n, err := Uint32(r.data[r.pos:r.end])
	if err != nil {
		r.pos = r.end
		return 0, err
	}
	r.pos += n

	return int32(v), nil //nolint:gosec
}

// ReadInt64 decodes a VBE value.
func (r *ArrayReader) ReadInt64() (int64, error) {
	v, n, err := Uint64(r.data[r.pos:r.end])
	if err != nil {
		r.pos = r.end
		return 0, err
	}
	r.pos += n

	return int64(v), nil //nolint:gosec
}

// ReadFixedInt32 reads 4 little-endian bytes.
func (r *ArrayReader) ReadFixedInt32() (int32, error) {
	if r.end-r.pos < endian.Fixed32Size {
		r.pos = r.end
		return 0, errs.ErrEndOfData
	}
	v := endian.Default().Uint32(r.data[r.pos:])
	r.pos += endian.Fixed32Size

	return int32(v), nil //nolint:gosec
}

// ReadFixedInt64 reads 8 little-endian bytes.
func (r *ArrayReader) ReadFixedInt64() (int64, error) {
	if r.end-r.pos < endian.Fixed64Size {
		r.pos = r.end
		return 0, errs.ErrEndOfData
	}
	v := endian.Default().Uint64(r.data[r.pos:])
	r.pos += endian.Fixed64Size

	return int64(v), nil //nolint:gosec
}

// ReadUTF reads a length-prefixed string.
func (r *ArrayReader) ReadUTF() (string, error) {
	length, err := r.ReadInt32()
	if err != nil {
		return "", err
	}
	if length < 0 {
		return "", fmt.Errorf("%w: %d", errs.ErrInvalidLength, length)
	}
	if int(length) > r.end-r.pos {
		r.pos = r.end
		return "", errs.ErrEndOfData
	}
	s := string(r.data[r.pos : r.pos+int(length)])
	r.pos += int(length)

	return s, nil
}

// Skip skips n encoded values, stopping without error at the end of the region.
func (r *ArrayReader) Skip(n int) error {
	for ; n > 0 && r.pos < r.end; n-- {
		for r.pos < r.end {
			b := r.data[r.pos]
			r.pos++
			if b&ContinuationBit == 0 {
				break
			}
		}
	}

	return nil
}

// SkipBytes skips exactly n raw bytes. If fewer remain the cursor moves to
// the end of the region and errs.ErrEndOfData is returned.
func (r *ArrayReader) SkipBytes(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: skip %d bytes", errs.ErrInvalidLength, n)
	}
	if n > r.end-r.pos {
		r.pos = r.end
		return errs.ErrEndOfData
	}
	r.pos += n

	return nil
}

// CopyTo copies the next n encoded values to w with a single slice copy.
//
// If the region ends inside a value, the bytes up to the end of the region
// are copied and errs.ErrEndOfData is returned.
func (r *ArrayReader) CopyTo(w *Writer, n int) error {
	from := r.pos
	var err error
	for ; n > 0; n-- {
		l, lenErr := ValueLen(r.data[r.pos:r.end])
		if lenErr != nil {
			r.pos = r.end
			err = lenErr

			break
		}
		r.pos += l
	}
	w.buf.MustWrite(r.data[from:r.pos])

	return err
}

// CopyRaw copies exactly n raw bytes to w with a single slice copy.
//
// If fewer than n bytes remain, the rest of the region is copied and
// errs.ErrEndOfData is returned.
func (r *ArrayReader) CopyRaw(w *Writer, n int) error {
	if n < 0 {
		return fmt.Errorf("%w: copy %d bytes", errs.ErrInvalidLength, n)
	}
	if n > r.end-r.pos {
		w.buf.MustWrite(r.data[r.pos:r.end])
		r.pos = r.end

		return errs.ErrEndOfData
	}
	w.buf.MustWrite(r.data[r.pos : r.pos+n])
	r.pos += n

	return nil
}
