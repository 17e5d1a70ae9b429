package vbe

import (
	"bytes"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/vbio/errs"
)

// readerVariants builds every Reader implementation over the same bytes so
// the shared contract is checked against each of them.
var readerVariants = []struct {
	name string
	new  func(data []byte) Reader
}{
	{"array", func(data []byte) Reader { return NewArrayReader(data) }},
	{"array offset", func(data []byte) Reader {
		padded := append(append([]byte{0xEE, 0xEE}, data...), 0xEE)
		return NewArrayReaderAt(padded, 2, len(data))
	}},
	{"source", func(data []byte) Reader { return NewSourceReader(StreamSource(bytes.NewReader(data))) }},
}

func encodeSample(t *testing.T) []byte {
	t.Helper()

	w := newTestWriter(t)
	w.WriteInt16(-2)
	w.WriteInt32(16384)
	w.WriteInt64(math.MinInt64)
	w.WriteFixedInt32(0x01020304)
	w.WriteFixedInt64(0x0102030405060708)
	w.WriteUTF("héllo")
	w.WriteInt32(-1)

	return w.Snapshot()
}

func TestReader_DecodesWriterOutput(t *testing.T) {
	data := encodeSample(t)

	for _, variant := range readerVariants {
		t.Run(variant.name, func(t *testing.T) {
			r := variant.new(data)

			v16, err := r.ReadInt16()
			require.NoError(t, err)
			require.Equal(t, int16(-2), v16)

			v32, err := r.ReadInt32()
			require.NoError(t, err)
			require.Equal(t, int32(16384), v32)

			v64, err := r.ReadInt64()
			require.NoError(t, err)
			require.Equal(t, int64(math.MinInt64), v64)

			f32, err := r.ReadFixedInt32()
			require.NoError(t, err)
			require.Equal(t, int32(0x01020304), f32)

			f64, err := r.ReadFixedInt64()
			require.NoError(t, err)
			require.Equal(t, int64(0x0102030405060708), f64)

			s, err := r.ReadUTF()
			require.NoError(t, err)
			require.Equal(t, "héllo", s)

			last, err := r.ReadInt32()
			require.NoError(t, err)
			require.Equal(t, int32(-1), last)

			require.Equal(t, 0, r.Available())
			_, err = r.Next()
			require.ErrorIs(t, err, io.EOF)
			_, err = r.ReadByte()
			require.ErrorIs(t, err, errs.ErrEndOfData)
		})
	}
}

func TestReader_EndConventions(t *testing.T) {
	for _, variant := range readerVariants {
		t.Run(variant.name, func(t *testing.T) {
			r := variant.new([]byte{0x80})

			_, err := r.ReadInt32()
			require.ErrorIs(t, err, errs.ErrEndOfData, "truncated value must not yield a partial result")

			r = variant.new(nil)
			n, err := r.Read(make([]byte, 4))
			require.Equal(t, 0, n)
			require.ErrorIs(t, err, io.EOF)

			_, err = r.ReadInt64()
			require.ErrorIs(t, err, errs.ErrEndOfData)
			_, err = r.ReadFixedInt32()
			require.ErrorIs(t, err, errs.ErrEndOfData)
			_, err = r.ReadUTF()
			require.ErrorIs(t, err, errs.ErrEndOfData)
		})
	}
}

func TestReader_ReadBulk(t *testing.T) {
	for _, variant := range readerVariants {
		t.Run(variant.name, func(t *testing.T) {
			r := variant.new([]byte("abcdef"))

			buf := make([]byte, 4)
			n, err := r.Read(buf)
			require.NoError(t, err)
			require.Equal(t, 4, n)
			require.Equal(t, []byte("abcd"), buf)

			n, err = r.Read(buf)
			require.NoError(t, err)
			require.Equal(t, 2, n)
			require.Equal(t, []byte("ef"), buf[:n])

			n, err = r.Read(buf)
			require.Equal(t, 0, n)
			require.ErrorIs(t, err, io.EOF)

			n, err = r.Read(nil)
			require.Equal(t, 0, n)
			require.NoError(t, err)
		})
	}
}

func TestReader_ReadUTFTruncatedAndNegative(t *testing.T) {
	full := AppendUTF(nil, "truncated")
	negative := AppendInt32(nil, -5)

	for _, variant := range readerVariants {
		t.Run(variant.name, func(t *testing.T) {
			_, err := variant.new(full[:5]).ReadUTF()
			require.ErrorIs(t, err, errs.ErrEndOfData)

			_, err = variant.new(negative).ReadUTF()
			require.ErrorIs(t, err, errs.ErrInvalidLength)
		})
	}
}

func TestReader_Skip(t *testing.T) {
	w := newTestWriter(t)
	w.WriteInt32(300)
	w.WriteInt64(-1)
	w.WriteInt32(5)
	w.WriteUTF("after")
	data := w.Snapshot()

	for _, variant := range readerVariants {
		t.Run(variant.name, func(t *testing.T) {
			r := variant.new(data)

			require.NoError(t, r.Skip(3))
			s, err := r.ReadUTF()
			require.NoError(t, err)
			require.Equal(t, "after", s)

			// Skipping past the end stops quietly.
			r = variant.new(data)
			require.NoError(t, r.Skip(100))
			require.Equal(t, 0, r.Available())

			require.NoError(t, variant.new([]byte{0x80, 0x80}).Skip(1))
		})
	}
}

func TestReader_SkipBytes(t *testing.T) {
	for _, variant := range readerVariants {
		t.Run(variant.name, func(t *testing.T) {
			r := variant.new([]byte{1, 2, 3, 4, 5})

			require.NoError(t, r.SkipBytes(0))
			require.NoError(t, r.SkipBytes(3))
			b, err := r.ReadByte()
			require.NoError(t, err)
			require.Equal(t, byte(4), b)

			require.ErrorIs(t, r.SkipBytes(5), errs.ErrEndOfData)
			require.ErrorIs(t, r.SkipBytes(-1), errs.ErrInvalidLength)
		})
	}
}

func TestReader_CopyTo(t *testing.T) {
	src := newTestWriter(t)
	src.WriteInt32(16384)
	src.WriteInt64(-1)
	src.WriteInt32(7)
	data := src.Snapshot()

	for _, variant := range readerVariants {
		t.Run(variant.name, func(t *testing.T) {
			r := variant.new(data)
			dst := newTestWriter(t)

			require.NoError(t, r.CopyTo(dst, 2))
			require.Equal(t, data[:3+10], dst.Bytes(), "values are copied verbatim")

			v, err := r.ReadInt32()
			require.NoError(t, err)
			require.Equal(t, int32(7), v)

			dst.Clear()
			require.ErrorIs(t, variant.new([]byte{0x01, 0x80}).CopyTo(dst, 2), errs.ErrEndOfData)
			require.Equal(t, []byte{0x01, 0x80}, dst.Bytes(), "partial bytes are copied before failing")
		})
	}
}

// The continuation test in every copy path is the 0x80 bit. A mask that
// never matches (0x200 on a byte) would stop after the first byte of a
// multi-byte value and desynchronize the following read.
func TestReader_CopyToUsesContinuationBit(t *testing.T) {
	data := []byte{0x81, 0x01, 0x05}

	for _, variant := range readerVariants {
		t.Run(variant.name, func(t *testing.T) {
			r := variant.new(data)
			dst := newTestWriter(t)

			require.NoError(t, r.CopyTo(dst, 1))
			require.Equal(t, []byte{0x81, 0x01}, dst.Bytes())

			v, err := r.ReadInt32()
			require.NoError(t, err)
			require.Equal(t, int32(5), v)

			copied, _, err := Uint32(dst.Bytes())
			require.NoError(t, err)
			require.Equal(t, uint32(129), copied)
		})
	}
}

func TestReader_CopyRaw(t *testing.T) {
	for _, variant := range readerVariants {
		t.Run(variant.name, func(t *testing.T) {
			r := variant.new([]byte("0123456789"))
			dst := newTestWriter(t)

			require.NoError(t, r.CopyRaw(dst, 4))
			require.Equal(t, "0123", string(dst.Bytes()))

			require.ErrorIs(t, r.CopyRaw(dst, 10), errs.ErrEndOfData)
			require.Equal(t, "0123456789", string(dst.Bytes()))
			require.ErrorIs(t, r.CopyRaw(dst, -1), errs.ErrInvalidLength)
		})
	}
}

// failAfterSource yields its bytes and then a non-EOF failure.
type failAfterSource struct {
	data []byte
	err  error
}

func (s *failAfterSource) ReadByte() (byte, error) {
	if len(s.data) == 0 {
		return 0, s.err
	}
	b := s.data[0]
	s.data = s.data[1:]

	return b, nil
}

func (s *failAfterSource) Available() int {
	return len(s.data)
}

func TestSourceReader_ReadPropagatesLateFailure(t *testing.T) {
	boom := errors.New("device error")
	r := NewSourceReader(&failAfterSource{data: []byte{1, 2}, err: boom})

	buf := make([]byte, 8)
	n, err := r.Read(buf)
	require.Equal(t, 2, n, "bytes read before the failure are reported")
	require.ErrorIs(t, err, boom, "the failure is not swallowed")
	require.Equal(t, []byte{1, 2}, buf[:n])
}

func TestSourceReader_FailuresAreNotEndOfData(t *testing.T) {
	boom := errors.New("device error")

	_, err := NewSourceReader(&failAfterSource{err: boom}).ReadInt32()
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, errs.ErrEndOfData)

	_, err = NewSourceReader(&failAfterSource{err: boom}).Next()
	require.ErrorIs(t, err, boom)

	require.ErrorIs(t, NewSourceReader(&failAfterSource{data: []byte{0x80}, err: boom}).Skip(1), boom)
}

func TestStreamSource_Available(t *testing.T) {
	src := StreamSource(bytes.NewReader([]byte{1, 2, 3}))
	require.Equal(t, 3, src.Available(), "Available fills an empty buffer")

	r := NewSourceReader(src)
	var got []byte
	for r.Available() > 0 {
		b, err := r.ReadByte()
		require.NoError(t, err)
		got = append(got, b)
	}
	require.Equal(t, []byte{1, 2, 3}, got)
}
