package channel

import (
	"io"

	"github.com/arloliu/vbio/errs"
)

// Producer is the writing endpoint of a channel.
type Producer struct {
	s *state
}

var _ io.WriteCloser = (*Producer)(nil)

// Write copies p into the channel, blocking while the ring is full.
//
// It returns once every byte is buffered. If the consumer closes first, Write
// returns the number of bytes buffered so far and errs.ErrChannelClosed, or a
// *errs.ChannelFailure carrying the consumer's error. Writing to a closed
// producer, or one closed by a watchdog while Write was blocked, fails with
// errs.ErrChannelClosed.
func (p *Producer) Write(b []byte) (int, error) {
	s := p.s
	s.mu.Lock()
	defer s.mu.Unlock()

	written := 0
	for len(b) > 0 {
		for s.free() == 0 && !s.consumerClosed && !s.producerClosed {
			s.producerWaits++
			if err := s.wait(&s.producerInterrupted); err != nil {
				return written, err
			}
		}
		if s.producerClosed {
			return written, errs.ErrChannelClosed
		}
		if s.consumerClosed {
			return written, s.consumerFailure()
		}

		n := s.put(b)
		b = b[n:]
		written += n
		s.cond.Broadcast()
	}

	return written, nil
}

// Flush blocks until the consumer has taken every buffered byte.
//
// It fails with a *errs.ChannelFailure if the consumer closed with an error,
// and with errs.ErrChannelClosed if the consumer closed cleanly while bytes
// were still buffered.
func (p *Producer) Flush() error {
	s := p.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.producerClosed {
		return errs.ErrChannelClosed
	}

	return p.flushLocked()
}

func (p *Producer) flushLocked() error {
	s := p.s
	for s.available() > 0 && !s.consumerClosed && !s.producerClosed {
		s.producerWaits++
		if err := s.wait(&s.producerInterrupted); err != nil {
			return err
		}
	}
	if s.producerClosed {
		return errs.ErrChannelClosed
	}
	if s.consumerErr != nil {
		return errs.NewChannelFailure(s.consumerErr)
	}
	if s.available() > 0 {
		return errs.ErrChannelClosed
	}

	return nil
}

// Close finishes the stream cleanly.
//
// It flushes, marks the producer closed so the consumer sees io.EOF after the
// last byte, and then blocks until the consumer has closed. It fails with a
// *errs.ChannelFailure if the consumer closed with an error, and with
// errs.ErrProtocolViolation if the consumer closed with bytes still unread.
// The producer is closed even when Close returns an error. Closing an
// already closed producer returns nil.
func (p *Producer) Close() error {
	return p.CloseWithError(nil)
}

// CloseWithError closes the producer. A nil cause behaves like Close.
//
// With a non-nil cause the buffered bytes are still flushed to the consumer
// first; once it has drained them, its next Read fails with a
// *errs.ChannelFailure wrapping cause instead of returning io.EOF.
// CloseWithError then waits for the consumer to close and reports a consumer
// error the same way Close does. To abandon unread bytes, close the Consumer
// instead.
//
// Parameters:
//   - cause: error handed to the consumer, or nil for a clean close
//
// Returns:
//   - error: flush failure, consumer failure, or errs.ErrProtocolViolation
func (p *Producer) CloseWithError(cause error) error {
	s := p.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.producerClosed {
		return nil
	}

	if cause != nil {
		s.producerErr = cause
	}
	flushErr := p.flushLocked()
	s.producerClosed = true
	s.cond.Broadcast()

	if flushErr != nil {
		return flushErr
	}

	for !s.consumerClosed {
		if err := s.wait(&s.producerInterrupted); err != nil {
			return err
		}
	}
	if s.consumerErr != nil {
		return errs.NewChannelFailure(s.consumerErr)
	}
	if s.available() > 0 {
		return errs.ErrProtocolViolation
	}

	return nil
}

// Interrupt makes the producer's current blocking call, or its next one,
// fail with errs.ErrInterruptedWait. It is safe to call from any goroutine.
func (p *Producer) Interrupt() {
	s := p.s
	s.mu.Lock()
	s.producerInterrupted = true
	s.cond.Broadcast()
	s.mu.Unlock()
}

// Buffered returns the number of bytes written but not yet consumed.
func (p *Producer) Buffered() int {
	s := p.s
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.available()
}

// Capacity returns the maximum number of bytes the channel buffers.
func (p *Producer) Capacity() int {
	return p.s.capacity
}
