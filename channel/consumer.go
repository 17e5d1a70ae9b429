package channel

import (
	"io"

	"github.com/arloliu/vbio/errs"
)

// Consumer is the reading endpoint of a channel. It satisfies vbe.Source,
// so a vbe.SourceReader can decode values straight off the channel.
type Consumer struct {
	s *state
}

var (
	_ io.ReadCloser = (*Consumer)(nil)
	_ io.ByteReader = (*Consumer)(nil)
)

// Read copies up to len(p) buffered bytes into p, blocking while the ring is
// empty and the producer is still open.
//
// It returns 0, io.EOF once the producer has closed cleanly and every byte
// was read. If the producer closed with an error, the buffered bytes are
// still returned and the read after the last one fails with a
// *errs.ChannelFailure.
// Reading after the consumer itself was closed, including a close by a
// watchdog goroutine while Read was blocked, returns errs.ErrChannelClosed.
func (c *Consumer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()

	return c.readLocked(p)
}

func (c *Consumer) readLocked(p []byte) (int, error) {
	s := c.s
	for s.available() == 0 && !s.producerClosed && !s.consumerClosed {
		if err := s.wait(&s.consumerInterrupted); err != nil {
			return 0, err
		}
	}
	if s.consumerClosed {
		return 0, errs.ErrChannelClosed
	}
	if s.available() == 0 {
		if s.producerErr != nil {
			return 0, errs.NewChannelFailure(s.producerErr)
		}
		return 0, io.EOF
	}

	n := s.take(p)
	s.cond.Broadcast()

	return n, nil
}

// ReadByte reads a single byte with the same blocking and end-of-stream
// behaviour as Read.
func (c *Consumer) ReadByte() (byte, error) {
	var one [1]byte

	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := c.readLocked(one[:]); err != nil {
		return 0, err
	}

	return one[0], nil
}

// Available returns the number of bytes that can be read without blocking.
func (c *Consumer) Available() int {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.consumerClosed {
		return 0
	}

	return s.available()
}

// Close closes the consumer without waiting for the producer. Any bytes still
// buffered are discarded. Closing an already closed consumer returns nil.
func (c *Consumer) Close() error {
	return c.CloseWithError(nil)
}

// CloseWithError closes the consumer. A non-nil cause is handed to the
// producer, whose blocked or next call fails with a *errs.ChannelFailure
// wrapping it. This is the abort path; it may be called while the producer
// is blocked in Write.
func (c *Consumer) CloseWithError(cause error) error {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.consumerClosed {
		return nil
	}
	s.consumerErr = cause
	s.consumerClosed = true
	s.ring = nil
	s.cond.Broadcast()

	return nil
}

// Interrupt makes the consumer's current blocking call, or its next one,
// fail with errs.ErrInterruptedWait. It is safe to call from any goroutine.
func (c *Consumer) Interrupt() {
	s := c.s
	s.mu.Lock()
	s.consumerInterrupted = true
	s.cond.Broadcast()
	s.mu.Unlock()
}

// Capacity returns the maximum number of bytes the channel buffers.
func (c *Consumer) Capacity() int {
	return c.s.capacity
}
