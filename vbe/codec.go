package vbe

import (
	"strings"
	"unicode/utf8"

	"github.com/arloliu/vbio/endian"
	"github.com/arloliu/vbio/errs"
)

const (
	// ContinuationBit is set on every byte of a VBE value except the last.
	ContinuationBit byte = 0x80
	// PayloadMask selects the 7 payload bits of a VBE byte.
	PayloadMask byte = 0x7F

	MaxLen16 = 3  // MaxLen16 is the longest encoding of a 16-bit value.
	MaxLen32 = 5  // MaxLen32 is the longest encoding of a 32-bit value.
	MaxLen64 = 10 // MaxLen64 is the longest encoding of a 64-bit value.
)

// AppendUint16 appends the VBE encoding of v to dst.
func AppendUint16(dst []byte, v uint16) []byte {
	for v&^uint16(PayloadMask) != 0 {
		dst = append(dst, byte(v)|ContinuationBit)
		v >>= 7
	}

	return append(dst, byte(v))
}

// AppendUint32 appends the VBE encoding of v to dst.
func AppendUint32(dst []byte, v uint32) []byte {
	for v&^uint32(PayloadMask) != 0 {
		dst = append(dst, byte(v)|ContinuationBit)
		v >>= 7
	}

	return append(dst, byte(v))
}

// AppendUint64 appends the VBE encoding of v to dst.
func AppendUint64(dst []byte, v uint64) []byte {
	for v&^uint64(PayloadMask) != 0 {
		dst = append(dst, byte(v)|ContinuationBit)
		v >>= 7
	}

	return append(dst, byte(v))
}

// AppendInt16 appends the VBE encoding of the 16-bit pattern of v.
func AppendInt16(dst []byte, v int16) []byte {
	return AppendUint16(dst, uint16(v)) //nolint:gosec
}

// AppendInt32 appends the VBE encoding of the 32-bit pattern of v.
func AppendInt32(dst []byte, v int32) []byte {
	return AppendUint32(dst, uint32(v)) //nolint:gosec
}

// AppendInt64 appends the VBE encoding of the 64-bit pattern of v.
func AppendInt64(dst []byte, v int64) []byte {
	return AppendUint64(dst, uint64(v)) //nolint:gosec
}

// Size16 returns the number of bytes AppendInt16 emits for v.
func Size16(v int16) int {
	return Size64(uint64(uint16(v))) //nolint:gosec
}

// Size32 returns the number of bytes AppendInt32 emits for v.
func Size32(v int32) int {
	return Size64(uint64(uint32(v))) //nolint:gosec
}

// Size64 returns the number of bytes AppendUint64 emits for v.
func Size64(v uint64) int {
	n := 1
	for v&^uint64(PayloadMask) != 0 {
		v >>= 7
		n++
	}

	return n
}

// Uint16 decodes a VBE value from the start of src and returns its low 16
// bits together with the number of bytes consumed.
func Uint16(src []byte) (uint16, int, error) {
	v, n, err := Uint32(src)
	return uint16(v), n, err //nolint:gosec
}

// Uint32 decodes a VBE value from the start of src and returns its low 32
// bits together with the number of bytes consumed.
//
// Groups that land beyond bit 31 are discarded; there is no limit on the
// number of continuation bytes. Returns errs.ErrEndOfData if src ends before
// a byte without the continuation bit.
//
// Parameters:
//   - src: Encoded bytes, starting at the first byte of the value
//
// Returns:
//   - uint32: Decoded value
//   - int: Number of bytes consumed
//   - error: errs.ErrEndOfData if the value is truncated
func Uint32(src []byte) (uint32, int, error) {
	var acc uint32
	var shift uint
	for i, b := range src {
		if shift < 32 {
			acc |= uint32(b&PayloadMask) << shift
		}
		if b&ContinuationBit == 0 {
			return acc, i + 1, nil
		}
		shift += 7
	}

	return 0, 0, errs.ErrEndOfData
}

// Uint64 decodes a VBE value from the start of src and returns it together
// with the number of bytes consumed. Groups beyond bit 63 are discarded.
func Uint64(src []byte) (uint64, int, error) {
	var acc uint64
	var shift uint
	for i, b := range src {
		if shift < 64 {
			acc |= uint64(b&PayloadMask) << shift
		}
		if b&ContinuationBit == 0 {
			return acc, i + 1, nil
		}
		shift += 7
	}

	return 0, 0, errs.ErrEndOfData
}

// ValueLen returns the length of the VBE value at the start of src without
// decoding it.
func ValueLen(src []byte) (int, error) {
	for i, b := range src {
		if b&ContinuationBit == 0 {
			return i + 1, nil
		}
	}

	return 0, errs.ErrEndOfData
}

// AppendFixed32 appends v as 4 little-endian bytes.
func AppendFixed32(dst []byte, v uint32) []byte {
	return endian.Default().AppendUint32(dst, v)
}

// AppendFixed64 appends v as 8 little-endian bytes.
func AppendFixed64(dst []byte, v uint64) []byte {
	return endian.Default().AppendUint64(dst, v)
}

// Fixed32 decodes 4 little-endian bytes from the start of src.
func Fixed32(src []byte) (uint32, error) {
	if len(src) < endian.Fixed32Size {
		return 0, errs.ErrEndOfData
	}

	return endian.Default().Uint32(src), nil
}

// Fixed64 decodes 8 little-endian bytes from the start of src.
func Fixed64(src []byte) (uint64, error) {
	if len(src) < endian.Fixed64Size {
		return 0, errs.ErrEndOfData
	}

	return endian.Default().Uint64(src), nil
}

// AppendUTF appends s as a VBE int32 byte length followed by its UTF-8
// bytes. Invalid UTF-8 sequences in s are replaced with U+FFFD first, so the
// length prefix always matches the bytes written.
func AppendUTF(dst []byte, s string) []byte {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, string(utf8.RuneError))
	}
	dst = AppendUint32(dst, uint32(len(s))) //nolint:gosec

	return append(dst, s...)
}

// UTF decodes a length-prefixed string from the start of src and returns it
// together with the number of bytes consumed.
func UTF(src []byte) (string, int, error) {
	length, n, err := Uint32(src)
	if err != nil {
		return "", 0, err
	}
	if int32(length) < 0 { //nolint:gosec
		return "", 0, errs.ErrInvalidLength
	}
	end := n + int(length)
	if end > len(src) {
		return "", 0, errs.ErrEndOfData
	}

	return string(src[n:end]), end, nil
}
