// Package pipe runs a producer function on its own goroutine and exposes
// its output as a blocking byte stream, backed by a bounded channel.
//
// The channel has no timeouts; a Pipe supplies one by closing the consumer
// side when its context is done, which fails the producer's pending Write.
package pipe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/segmentio/ksuid"
	"go.uber.org/zap"

	"github.com/arloliu/vbio/channel"
	"github.com/arloliu/vbio/errs"
	"github.com/arloliu/vbio/internal/options"
	"github.com/arloliu/vbio/vbe"
)

// ProducerFunc writes the pipe's content to w. Returning an error fails the
// pipe: once the reader has drained what was written, its next Read fails
// with a *errs.ChannelFailure wrapping the error.
type ProducerFunc func(w io.Writer) error

// Pipe is the reading side of a running producer.
//
// A Pipe is an io.ReadCloser and a vbe.Source, so it can be decoded with
// vbe.NewSourceReader or frame.NewStreamReader. Reads must come from a single
// goroutine; Close, Wait and ID may be called from any goroutine.
type Pipe struct {
	id       ksuid.KSUID
	ctx      context.Context
	consumer *channel.Consumer
	log      *zap.Logger
	metrics  *Metrics

	written atomic.Int64
	done    chan struct{}
	err     error

	stopWatch func() bool
	closeOnce sync.Once
}

var (
	_ io.ReadCloser = (*Pipe)(nil)
	_ vbe.Source    = (*Pipe)(nil)
)

// Start creates a pipe and runs fn on a new goroutine.
//
// When fn returns nil the producer is closed cleanly and the reader sees
// io.EOF after the last byte. When fn fails, or panics, the producer is
// closed with that error. When ctx is done before the pipe is closed, the
// consumer side is closed with the context's cause, which unblocks fn.
//
// Parameters:
//   - ctx: Bounds the pipe's lifetime
//   - fn: Producer run on its own goroutine
//   - opts: Optional configuration (WithCapacity, WithLogger, WithMetrics)
//
// Returns:
//   - *Pipe: The reading side; call Wait or Close when done with it
//   - error: An error if an option is invalid
func Start(ctx context.Context, fn ProducerFunc, opts ...Option) (*Pipe, error) {
	cfg := &config{capacity: channel.DefaultCapacity, logger: Logger()}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	producer, consumer, err := channel.New(cfg.capacity)
	if err != nil {
		return nil, err
	}

	p := &Pipe{
		id:       ksuid.New(),
		ctx:      ctx,
		consumer: consumer,
		metrics:  cfg.metrics,
		done:     make(chan struct{}),
	}
	p.log = cfg.logger.With(zap.Stringer("pipe", p.id))
	p.stopWatch = context.AfterFunc(ctx, func() {
		p.log.Debug("context done, aborting pipe", zap.Error(context.Cause(ctx)))
		_ = consumer.CloseWithError(context.Cause(ctx))
	})

	p.log.Debug("pipe started", zap.Int("capacity", cfg.capacity))
	p.metrics.pipeStarted()
	go p.run(fn, producer)

	return p, nil
}

func (p *Pipe) run(fn ProducerFunc, producer *channel.Producer) {
	defer close(p.done)

	err := p.produce(fn, producer)
	if err != nil {
		p.log.Warn("producer failed", zap.Error(err), zap.Int64("written", p.written.Load()))
		if closeErr := producer.CloseWithError(err); closeErr != nil {
			p.log.Debug("producer close", zap.Error(closeErr))
		}
		p.err = err
		p.metrics.pipeFinished(p.outcome(err), p.written.Load())

		return
	}

	if err := producer.Close(); err != nil {
		p.log.Warn("producer close failed", zap.Error(err))
		p.err = err
		p.metrics.pipeFinished(p.outcome(err), p.written.Load())

		return
	}
	p.log.Debug("producer finished", zap.Int64("written", p.written.Load()))
	p.metrics.pipeFinished(outcomeOK, p.written.Load())
}

func (p *Pipe) outcome(err error) string {
	if cause := context.Cause(p.ctx); cause != nil && errors.Is(err, cause) {
		return outcomeCanceled
	}

	return outcomeFailed
}

func (p *Pipe) produce(fn ProducerFunc, producer *channel.Producer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("producer panicked", zap.Any("panic", r))
			err = fmt.Errorf("pipe: producer panicked: %v", r)
		}
	}()

	return fn(&countingWriter{w: producer, n: &p.written})
}

// ID returns the pipe's unique, time-ordered identifier.
func (p *Pipe) ID() ksuid.KSUID {
	return p.id
}

// Read reads produced bytes, blocking until some are available.
//
// It returns io.EOF after the producer finished cleanly and a
// *errs.ChannelFailure when it failed. Once the context is done, Read
// returns the context's cause.
func (p *Pipe) Read(b []byte) (int, error) {
	n, err := p.consumer.Read(b)

	return n, p.translate(err)
}

// ReadByte reads one produced byte with the same semantics as Read.
func (p *Pipe) ReadByte() (byte, error) {
	c, err := p.consumer.ReadByte()

	return c, p.translate(err)
}

// Available returns the number of bytes that can be read without blocking.
func (p *Pipe) Available() int {
	return p.consumer.Available()
}

// Written returns the number of bytes the producer has handed to the pipe.
func (p *Pipe) Written() int64 {
	return p.written.Load()
}

func (p *Pipe) translate(err error) error {
	if errors.Is(err, errs.ErrChannelClosed) {
		if cause := context.Cause(p.ctx); cause != nil {
			return cause
		}
	}

	return err
}

// Close stops reading. A producer still writing fails with
// errs.ErrChannelClosed. Close does not wait for the producer goroutine;
// use Wait for that.
func (p *Pipe) Close() error {
	p.closeOnce.Do(func() {
		p.stopWatch()
		_ = p.consumer.Close()
		p.log.Debug("pipe closed")
	})

	return nil
}

// Wait closes the pipe, blocks until the producer goroutine has exited and
// returns its error. The error is nil only if the producer finished cleanly
// and the reader consumed everything it wrote before closing.
func (p *Pipe) Wait() error {
	_ = p.Close()
	<-p.done

	return p.err
}

// Done is closed when the producer goroutine exits.
func (p *Pipe) Done() <-chan struct{} {
	return p.done
}

type countingWriter struct {
	w io.Writer
	n *atomic.Int64
}

func (c *countingWriter) Write(b []byte) (int, error) {
	n, err := c.w.Write(b)
	c.n.Add(int64(n))

	return n, err
}
