package pool

import (
	"io"
	"sync"
)

// Buffer sizes for the default pools.
const (
	WriterBufferDefaultSize  = 256             // 256B, enough for most single records
	WriterBufferMaxThreshold = 1024 * 64       // 64KiB
	FrameBufferDefaultSize   = 1024 * 16       // 16KiB
	FrameBufferMaxThreshold  = 1024 * 1024 * 1 // 1MiB

	// largeBufferThreshold is the capacity above which growth switches from
	// doubling to 25% steps.
	largeBufferThreshold = 1024 * 64
)

// ByteBuffer is an append-only byte slice with an amortized O(1) growth policy.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default size.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Clone returns a copy of the buffer contents that does not alias the buffer.
func (bb *ByteBuffer) Clone() []byte {
	out := make([]byte, len(bb.B))
	copy(out, bb.B)

	return out
}

// Reset resets the buffer to be empty, but retains the allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// MustWrite writes data to the buffer, growing it if necessary.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.Grow(len(data))
	bb.B = append(bb.B, data...)
}

// AppendByte appends a single byte.
func (bb *ByteBuffer) AppendByte(c byte) {
	if len(bb.B) == cap(bb.B) {
		bb.Grow(1)
	}
	bb.B = append(bb.B, c)
}

// Grow grows the buffer to ensure it can hold requiredBytes more bytes without reallocating.
// If the buffer has sufficient capacity, Grow does nothing.
//
// The growth strategy is as follows:
//   - For small buffers (<64KiB), double the capacity.
//   - For larger buffers, grow by 25% of current capacity to balance memory usage and reallocation cost.
//
// Either way the new capacity is at least len+requiredBytes, so appends are amortized O(1).
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return // Sufficient capacity
	}

	growBy := cap(bb.B)
	if growBy < WriterBufferDefaultSize {
		growBy = WriterBufferDefaultSize
	}
	if cap(bb.B) > largeBufferThreshold {
		growBy = cap(bb.B) / 4
	}

	// Ensure we grow enough for at least the required bytes
	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), cap(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Write appends the contents of data to the buffer, growing it as needed.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.MustWrite(data)
	return len(data), nil
}

// WriteTo writes the contents of the buffer to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// ByteBufferPool is a pool of ByteBuffers to minimize allocations.
//
// It uses sync.Pool internally to manage the buffers.
// The pool can be configured with a maximum size threshold to avoid retaining
// overly large buffers that could lead to memory bloat.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int // Optional maximum size threshold for buffers
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the specified default size.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		// Discard overly large buffers to prevent memory bloat
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var (
	writerDefaultPool = NewByteBufferPool(WriterBufferDefaultSize, WriterBufferMaxThreshold)
	frameDefaultPool  = NewByteBufferPool(FrameBufferDefaultSize, FrameBufferMaxThreshold)
)

// GetWriterBuffer retrieves a ByteBuffer from the default writer pool.
func GetWriterBuffer() *ByteBuffer {
	return writerDefaultPool.Get()
}

// PutWriterBuffer returns a ByteBuffer to the default writer pool.
func PutWriterBuffer(bb *ByteBuffer) {
	writerDefaultPool.Put(bb)
}

// GetFrameBuffer retrieves a ByteBuffer from the default frame pool.
func GetFrameBuffer() *ByteBuffer {
	return frameDefaultPool.Get()
}

// PutFrameBuffer returns a ByteBuffer to the default frame pool.
func PutFrameBuffer(bb *ByteBuffer) {
	frameDefaultPool.Put(bb)
}
