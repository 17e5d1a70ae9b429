package channel

import (
	"sync"

	"github.com/arloliu/vbio/errs"
)

// state is the ring buffer and shutdown bookkeeping shared by both endpoints.
//
// One slot of the ring is never filled, so head == tail always means empty
// and (tail+1) % size == head always means full. All fields are guarded by mu.
type state struct {
	mu   sync.Mutex
	cond *sync.Cond

	ring     []byte
	size     int // len(ring) at creation, kept after the ring is released
	capacity int
	head     int
	tail     int

	producerClosed bool
	consumerClosed bool
	producerErr    error
	consumerErr    error

	producerInterrupted bool
	consumerInterrupted bool

	// producerWaits counts how often the producer had to block.
	producerWaits int
}

func newState(capacity int) *state {
	s := &state{
		ring:     make([]byte, capacity+1),
		size:     capacity + 1,
		capacity: capacity,
	}
	s.cond = sync.NewCond(&s.mu)

	return s
}

func (s *state) available() int {
	return (s.tail - s.head + s.size) % s.size
}

func (s *state) free() int {
	return s.capacity - s.available()
}

// wait blocks on the condition unless the waiter was interrupted, in which
// case the interrupt is consumed and reported. Callers hold mu.
func (s *state) wait(interrupted *bool) error {
	if *interrupted {
		*interrupted = false
		return errs.ErrInterruptedWait
	}
	s.cond.Wait()
	if *interrupted {
		*interrupted = false
		return errs.ErrInterruptedWait
	}

	return nil
}

// put copies as much of b as fits into the ring, in at most two segments,
// and returns the number of bytes copied.
func (s *state) put(b []byte) int {
	n := min(len(b), s.free())
	first := min(n, s.size-s.tail)
	copy(s.ring[s.tail:s.tail+first], b[:first])
	copy(s.ring, b[first:n])
	s.tail = (s.tail + n) % s.size

	return n
}

// take copies up to len(p) buffered bytes into p, in at most two segments,
// and returns the number of bytes copied. A drained ring restarts at index 0
// so the next write gets the longest contiguous segment.
func (s *state) take(p []byte) int {
	n := min(len(p), s.available())
	first := min(n, s.size-s.head)
	copy(p[:first], s.ring[s.head:s.head+first])
	copy(p[first:n], s.ring[:n-first])
	s.head = (s.head + n) % s.size
	if s.head == s.tail {
		s.head, s.tail = 0, 0
	}

	return n
}

// consumerFailure reports why the producer cannot continue once the
// consumer has closed. Callers hold mu.
func (s *state) consumerFailure() error {
	if s.consumerErr != nil {
		return errs.NewChannelFailure(s.consumerErr)
	}

	return errs.ErrChannelClosed
}
