package vbe

import (
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/vbio/endian"
	"github.com/arloliu/vbio/errs"
)

// Reader decodes values written by Writer.
//
// Two end-of-input conventions coexist on purpose. Next and Read report a
// clean end with io.EOF, so callers can loop until the input is drained.
// Every method that needs a byte to complete a value (ReadByte, the integer
// and string decoders, SkipBytes, CopyTo, CopyRaw) fails with
// errs.ErrEndOfData instead, which marks truncated or malformed input.
type Reader interface {
	io.Reader
	io.ByteReader

	// Next returns the next byte, or io.EOF when the input is exhausted.
	Next() (byte, error)
	// Available returns the number of bytes that can be read without blocking.
	Available() int

	ReadInt16() (int16, error)
	ReadInt32() (int32, error)
	ReadInt64() (int64, error)
	ReadFixedInt32() (int32, error)
	ReadFixedInt64() (int64, error)
	ReadUTF() (string, error)

	// Skip skips n encoded values. It stops without error if the input ends first.
	Skip(n int) error
	// SkipBytes skips exactly n raw bytes.
	SkipBytes(n int) error
	// CopyTo copies the raw bytes of the next n encoded values to w.
	CopyTo(w *Writer, n int) error
	// CopyRaw copies exactly n raw bytes to w.
	CopyRaw(w *Writer, n int) error
}

// byteSource is the pair of primitives every Reader variant supplies; the
// decoder builds the whole Reader contract on top of them.
type byteSource interface {
	// next returns the next byte or io.EOF at the end of input.
	next() (byte, error)
	// available returns the number of bytes ready without blocking.
	available() int
}

// chunkSize bounds up-front allocations driven by a length read from the
// input, so a corrupt length cannot allocate more than the input delivers.
const chunkSize = 4096

// decoder implements Reader on top of a byteSource.
type decoder struct {
	src byteSource
}

// endOfData turns a clean io.EOF into errs.ErrEndOfData and keeps other errors as-is.
func endOfData(err error) error {
	if errors.Is(err, io.EOF) {
		return errs.ErrEndOfData
	}

	return err
}

// Next returns the next byte, or io.EOF when the input is exhausted.
func (d *decoder) Next() (byte, error) {
	return d.src.next()
}

// Available returns the number of bytes that can be read without blocking.
func (d *decoder) Available() int {
	return d.src.available()
}

// ReadByte returns the next byte, or errs.ErrEndOfData if there is none.
func (d *decoder) ReadByte() (byte, error) {
	b, err := d.src.next()
	if err != nil {
		return 0, endOfData(err)
	}

	return b, nil
}

// Read fills p one byte at a time until p is full or the input ends.
//
// If the input is already exhausted Read returns 0, io.EOF. If it ends after
// at least one byte, Read returns the short count and a nil error. Any other
// failure is returned together with the number of bytes obtained before it.
func (d *decoder) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	b, err := d.src.next()
	if err != nil {
		return 0, err
	}
	p[0] = b

	for n := 1; n < len(p); n++ {
		b, err = d.src.next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return n, nil
			}

			return n, err
		}
		p[n] = b
	}

	return len(p), nil
}

func (d *decoder) readUint32() (uint32, error) {
	var acc uint32
	var shift uint
	for {
		b, err := d.ReadByte()
		if err != nil {
			return 0, err
		}
		if shift < 32 {
			acc |= uint32(b&PayloadMask) << shift
		}
		if b&ContinuationBit == 0 {
			return acc, nil
		}
		shift += 7
	}
}

func (d *decoder) readUint64() (uint64, error) {
	var acc uint64
	var shift uint
	for {
		b, err := d.ReadByte()
		if err != nil {
			return 0, err
		}
		if shift < 64 {
			acc |= uint64(b&PayloadMask) << shift
		}
		if b&ContinuationBit == 0 {
			return acc, nil
		}
		shift += 7
	}
}

// ReadInt16 decodes a VBE value and returns its low 16 bits.
func (d *decoder) ReadInt16() (int16, error) {
	v, err := d.readUint32()
	return int16(uint16(v)), err //nolint:gosec
}

// ReadInt32 decodes a VBE value and returns its low 32 bits.
func (d *decoder) ReadInt32() (int32, error) {
	v, err := d.readUint32()
	return int32(v), err //nolint:gosec
}

// ReadInt64 decodes a VBE value.
func (d *decoder) ReadInt64() (int64, error) {
	v, err := d.readUint64()
	return int64(v), err //nolint:gosec
}

// ReadFixedInt32 reads 4 little-endian bytes.
func (d *decoder) ReadFixedInt32() (int32, error) {
	var buf [endian.Fixed32Size]byte
	if err := d.readFull(buf[:]); err != nil {
		return 0, err
	}

	return int32(endian.Default().Uint32(buf[:])), nil //nolint:gosec
}

// ReadFixedInt64 reads 8 little-endian bytes.
func (d *decoder) ReadFixedInt64() (int64, error) {
	var buf [endian.Fixed64Size]byte
	if err := d.readFull(buf[:]); err != nil {
		return 0, err
	}

	return int64(endian.Default().Uint64(buf[:])), nil //nolint:gosec
}

func (d *decoder) readFull(p []byte) error {
	for i := range p {
		b, err := d.ReadByte()
		if err != nil {
			return err
		}
		p[i] = b
	}

	return nil
}

// ReadUTF reads a VBE byte length followed by that many bytes of UTF-8 text.
//
// Returns errs.ErrInvalidLength for a negative length and errs.ErrEndOfData
// if the input ends before the announced number of bytes.
func (d *decoder) ReadUTF() (string, error) {
	length, err := d.ReadInt32()
	if err != nil {
		return "", err
	}
	if length < 0 {
		return "", fmt.Errorf("%w: %d", errs.ErrInvalidLength, length)
	}

	buf := make([]byte, 0, min(int(length), chunkSize))
	for i := 0; i < int(length); i++ {
		b, err := d.ReadByte()
		if err != nil {
			return "", err
		}
		buf = append(buf, b)
	}

	return string(buf), nil
}

// Skip skips n encoded values by consuming bytes up to and including the next
// byte without the continuation bit. It stops early, without error, when the
// input is exhausted.
func (d *decoder) Skip(n int) error {
	for ; n > 0; n-- {
		for {
			b, err := d.src.next()
			if err != nil {
				if errors.Is(err, io.EOF) {
					return nil
				}

				return err
			}
			if b&ContinuationBit == 0 {
				break
			}
		}
	}

	return nil
}

// SkipBytes skips exactly n raw bytes, failing with errs.ErrEndOfData if fewer remain.
func (d *decoder) SkipBytes(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: skip %d bytes", errs.ErrInvalidLength, n)
	}
	for ; n > 0; n-- {
		if _, err := d.ReadByte(); err != nil {
			return err
		}
	}

	return nil
}

// CopyTo copies the next n encoded values to w without decoding them.
//
// Bytes are copied as they are consumed: if the input ends inside a value
// the partial bytes are already in w and errs.ErrEndOfData is returned.
func (d *decoder) CopyTo(w *Writer, n int) error {
	for ; n > 0; n-- {
		for {
			b, err := d.ReadByte()
			if err != nil {
				return err
			}
			w.buf.AppendByte(b)
			if b&ContinuationBit == 0 {
				break
			}
		}
	}

	return nil
}

// CopyRaw copies exactly n raw bytes to w.
func (d *decoder) CopyRaw(w *Writer, n int) error {
	if n < 0 {
		return fmt.Errorf("%w: copy %d bytes", errs.ErrInvalidLength, n)
	}
	w.buf.Grow(min(n, chunkSize))
	for ; n > 0; n-- {
		b, err := d.ReadByte()
		if err != nil {
			return err
		}
		w.buf.AppendByte(b)
	}

	return nil
}
