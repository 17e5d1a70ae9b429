package channel

import (
	"fmt"

	"github.com/arloliu/vbio/errs"
)

// DefaultCapacity is the ring size used by callers that have no better estimate.
const DefaultCapacity = 64 * 1024

// New creates a channel that buffers up to capacity bytes and returns its
// two endpoints. Hand the Producer to the writing goroutine and the Consumer
// to the reading goroutine; both must eventually be closed.
//
// Parameters:
//   - capacity: Maximum number of buffered bytes, at least 1
//
// Returns:
//   - *Producer: The writing endpoint
//   - *Consumer: The reading endpoint
//   - error: errs.ErrInvalidCapacity if capacity is less than 1
func New(capacity int) (*Producer, *Consumer, error) {
	if capacity < 1 {
		return nil, nil, fmt.Errorf("%w: %d", errs.ErrInvalidCapacity, capacity)
	}
	s := newState(capacity)

	return &Producer{s: s}, &Consumer{s: s}, nil
}
