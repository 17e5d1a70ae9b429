package pipe

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/arloliu/vbio/errs"
	"github.com/arloliu/vbio/internal/options"
)

// Option configures a Pipe.
type Option = options.Option[*config]

type config struct {
	capacity int
	logger   *zap.Logger
	metrics  *Metrics
}

// WithCapacity sets the number of bytes the pipe buffers between the
// producer goroutine and the reader. The default is channel.DefaultCapacity.
func WithCapacity(n int) Option {
	return options.New(func(c *config) error {
		if n < 1 {
			return fmt.Errorf("%w: %d", errs.ErrInvalidCapacity, n)
		}
		c.capacity = n

		return nil
	})
}

// WithLogger logs this pipe's lifecycle to l instead of the package logger.
func WithLogger(l *zap.Logger) Option {
	return options.NoError(func(c *config) {
		if l != nil {
			c.logger = l
		}
	})
}

// WithMetrics reports this pipe's lifecycle to m.
func WithMetrics(m *Metrics) Option {
	return options.NoError(func(c *config) {
		c.metrics = m
	})
}
