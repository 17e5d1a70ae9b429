package pool

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// ByteBuffer Tests
// =============================================================================

func TestNewByteBuffer(t *testing.T) {
	capacity := 1024
	bb := NewByteBuffer(capacity)

	require.NotNil(t, bb)
	require.NotNil(t, bb.B)
	assert.Equal(t, 0, len(bb.B), "new buffer should have zero length")
	assert.Equal(t, capacity, cap(bb.B), "new buffer should have specified capacity")
}

func TestByteBuffer_Reset(t *testing.T) {
	bb := NewByteBuffer(WriterBufferDefaultSize)
	bb.MustWrite([]byte("some data"))
	originalCap := cap(bb.B)

	bb.Reset()

	assert.Equal(t, 0, bb.Len(), "Reset should clear the buffer length")
	assert.Equal(t, originalCap, bb.Cap(), "Reset should preserve capacity")
}

func TestByteBuffer_Clone(t *testing.T) {
	bb := NewByteBuffer(8)
	bb.MustWrite([]byte("abc"))

	snap := bb.Clone()
	bb.Reset()
	bb.MustWrite([]byte("xyz"))

	require.Equal(t, []byte("abc"), snap, "clone must not alias later writes")
	require.Equal(t, []byte("xyz"), bb.Bytes())
}

func TestByteBuffer_AppendByte(t *testing.T) {
	bb := NewByteBuffer(0)
	for i := 0; i < 1000; i++ {
		bb.AppendByte(byte(i))
	}

	require.Equal(t, 1000, bb.Len())
	for i := 0; i < 1000; i++ {
		require.Equal(t, byte(i), bb.B[i])
	}
}

func TestByteBuffer_Grow(t *testing.T) {
	t.Run("sufficient capacity", func(t *testing.T) {
		bb := NewByteBuffer(64)
		bb.Grow(64)
		require.Equal(t, 64, bb.Cap())
	})

	t.Run("small buffer doubles", func(t *testing.T) {
		bb := NewByteBuffer(WriterBufferDefaultSize)
		bb.MustWrite(make([]byte, WriterBufferDefaultSize))
		bb.Grow(1)
		require.Equal(t, 2*WriterBufferDefaultSize, bb.Cap())
	})

	t.Run("large buffer grows by quarter", func(t *testing.T) {
		size := largeBufferThreshold * 2
		bb := NewByteBuffer(size)
		bb.MustWrite(make([]byte, size))
		bb.Grow(1)
		require.Equal(t, size+size/4, bb.Cap())
	})

	t.Run("required bytes win over policy", func(t *testing.T) {
		bb := NewByteBuffer(4)
		bb.Grow(10000)
		require.GreaterOrEqual(t, bb.Cap(), 10000)
	})

	t.Run("preserves data", func(t *testing.T) {
		bb := NewByteBuffer(4)
		bb.MustWrite([]byte("abcd"))
		bb.Grow(100)
		require.Equal(t, []byte("abcd"), bb.Bytes())
	})
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("boom") }

func TestByteBuffer_WriteTo(t *testing.T) {
	bb := NewByteBuffer(16)
	n, err := bb.Write([]byte("payload"))
	require.NoError(t, err)
	require.Equal(t, 7, n)

	var out bytes.Buffer
	written, err := bb.WriteTo(&out)
	require.NoError(t, err)
	require.Equal(t, int64(7), written)
	require.Equal(t, "payload", out.String())

	_, err = bb.WriteTo(failingWriter{})
	require.EqualError(t, err, "boom")
}

// =============================================================================
// Pool Tests
// =============================================================================

func TestByteBufferPool_ResetsOnPut(t *testing.T) {
	p := NewByteBufferPool(32, 0)
	bb := p.Get()
	bb.MustWrite([]byte("dirty"))
	p.Put(bb)

	again := p.Get()
	require.Equal(t, 0, again.Len())
}

func TestByteBufferPool_MaxThreshold_Discard(t *testing.T) {
	p := NewByteBufferPool(16, 32)
	bb := p.Get()
	bb.Grow(1024)
	require.NotPanics(t, func() { p.Put(bb) })
	require.NotPanics(t, func() { p.Put(nil) })
}

func TestDefaultPools(t *testing.T) {
	wb := GetWriterBuffer()
	require.NotNil(t, wb)
	require.GreaterOrEqual(t, wb.Cap(), 0)
	PutWriterBuffer(wb)

	fb := GetFrameBuffer()
	require.NotNil(t, fb)
	PutFrameBuffer(fb)
}

func TestPool_ConcurrentAccess(t *testing.T) {
	p := NewByteBufferPool(64, 0)
	var wg sync.WaitGroup

	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				bb := p.Get()
				bb.AppendByte(byte(id))
				assert.Equal(t, 1, bb.Len())
				p.Put(bb)
			}
		}(g)
	}

	wg.Wait()
}
