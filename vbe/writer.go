package vbe

import (
	"fmt"
	"io"

	"github.com/arloliu/vbio/endian"
	"github.com/arloliu/vbio/errs"
	"github.com/arloliu/vbio/internal/options"
	"github.com/arloliu/vbio/internal/pool"
)

// WriterOption configures a Writer.
type WriterOption = options.Option[*writerConfig]

type writerConfig struct {
	initialSize int
	pooled      bool
}

// WithInitialSize sets the initial buffer capacity in bytes.
//
// Ignored when the buffer comes from the pool (see WithPooledBuffer).
func WithInitialSize(n int) WriterOption {
	return options.New(func(c *writerConfig) error {
		if n < 0 {
			return fmt.Errorf("%w: initial size %d", errs.ErrInvalidLength, n)
		}
		c.initialSize = n

		return nil
	})
}

// WithPooledBuffer takes the buffer from a shared pool. Call Release when
// the Writer is no longer needed to hand the buffer back.
func WithPooledBuffer() WriterOption {
	return options.NoError(func(c *writerConfig) {
		c.pooled = true
	})
}

// Writer accumulates VBE-encoded values in a growable buffer.
//
// A Writer is not safe for concurrent use.
type Writer struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
	pooled bool
}

var (
	_ io.Writer     = (*Writer)(nil)
	_ io.ByteWriter = (*Writer)(nil)
	_ io.WriterTo   = (*Writer)(nil)
)

// NewWriter creates a Writer.
//
// Parameters:
//   - opts: Optional configuration (WithInitialSize, WithPooledBuffer)
//
// Returns:
//   - *Writer: A new, empty writer
//   - error: An error if an option is invalid
func NewWriter(opts ...WriterOption) (*Writer, error) {
	cfg := &writerConfig{initialSize: pool.WriterBufferDefaultSize}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	w := &Writer{
		engine: endian.Default(),
		pooled: cfg.pooled,
	}
	if cfg.pooled {
		w.buf = pool.GetWriterBuffer()
	} else {
		w.buf = pool.NewByteBuffer(cfg.initialSize)
	}

	return w, nil
}

// WriteByte appends a single raw byte. It never fails.
func (w *Writer) WriteByte(c byte) error {
	w.buf.AppendByte(c)
	return nil
}

// Write appends p verbatim. It never fails.
func (w *Writer) Write(p []byte) (int, error) {
	w.buf.MustWrite(p)
	return len(p), nil
}

// WriteInt16 appends v as a VBE value of at most 3 bytes.
func (w *Writer) WriteInt16(v int16) {
	w.buf.Grow(MaxLen16)
	w.buf.B = AppendInt16(w.buf.B, v)
}

// WriteInt32 appends v as a VBE value of at most 5 bytes.
func (w *Writer) WriteInt32(v int32) {
	w.buf.Grow(MaxLen32)
	w.buf.B = AppendInt32(w.buf.B, v)
}

// WriteInt64 appends v as a VBE value of at most 10 bytes.
func (w *Writer) WriteInt64(v int64) {
	w.buf.Grow(MaxLen64)
	w.buf.B = AppendInt64(w.buf.B, v)
}

// WriteFixedInt32 appends v as 4 little-endian bytes.
func (w *Writer) WriteFixedInt32(v int32) {
	w.buf.Grow(endian.Fixed32Size)
	w.buf.B = w.engine.AppendUint32(w.buf.B, uint32(v)) //nolint:gosec
}

// WriteFixedInt64 appends v as 8 little-endian bytes.
func (w *Writer) WriteFixedInt64(v int64) {
	w.buf.Grow(endian.Fixed64Size)
	w.buf.B = w.engine.AppendUint64(w.buf.B, uint64(v)) //nolint:gosec
}

// WriteFixedInt32At overwrites the 4 bytes at pos with v.
//
// This back-patches a placeholder written earlier with WriteFixedInt32, for
// example a section length that is only known once the section is complete:
//
//	lenPos := w.Position()
//	w.WriteFixedInt32(0)
//	... write the section ...
//	_ = w.WriteFixedInt32At(lenPos, int32(w.Position()-lenPos-4))
//
// Returns errs.ErrPositionOutOfRange if the 4 bytes are not inside the written region.
func (w *Writer) WriteFixedInt32At(pos int, v int32) error {
	if pos < 0 || pos+endian.Fixed32Size > w.buf.Len() {
		return fmt.Errorf("%w: %d (written %d)", errs.ErrPositionOutOfRange, pos, w.buf.Len())
	}
	w.engine.PutUint32(w.buf.B[pos:], uint32(v)) //nolint:gosec

	return nil
}

// WriteUTF appends s as its VBE byte length followed by the UTF-8 bytes.
// Invalid UTF-8 is replaced with U+FFFD, as in AppendUTF.
func (w *Writer) WriteUTF(s string) {
	w.buf.Grow(MaxLen32 + len(s))
	w.buf.B = AppendUTF(w.buf.B, s)
}

// Len returns the number of bytes written since creation or the last Clear.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Position returns the offset the next write will land at.
func (w *Writer) Position() int {
	return w.buf.Len()
}

// Clear discards the written bytes but keeps the allocated capacity.
func (w *Writer) Clear() {
	w.buf.Reset()
}

// Bytes returns the written bytes.
//
// The returned slice aliases the writer's buffer and is only valid until the
// next write or Clear. Use Snapshot for a stable copy.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Snapshot returns a copy of the written bytes that later writes do not affect.
func (w *Writer) Snapshot() []byte {
	return w.buf.Clone()
}

// WriteTo writes the buffered bytes to dst. The writer is left unchanged.
func (w *Writer) WriteTo(dst io.Writer) (int64, error) {
	return w.buf.WriteTo(dst)
}

// Release returns a pooled buffer to its pool. The Writer must not be used
// afterwards. Release is a no-op for writers that own their buffer.
func (w *Writer) Release() {
	if w.pooled && w.buf != nil {
		pool.PutWriterBuffer(w.buf)
		w.buf = nil
	}
}
