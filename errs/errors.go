// Package errs defines the sentinel errors shared by the vbio packages.
//
// Callers should match errors with errors.Is and errors.As; every error
// returned by vbio either is one of these sentinels or wraps one with
// additional context.
package errs

import (
	"errors"
	"fmt"
)

// Codec errors.
var (
	// ErrEndOfData is returned when input runs out in the middle of a value, or
	// when a single byte is required and none is left.
	ErrEndOfData = errors.New("vbio: end of data")
	// ErrInvalidLength is returned when a length prefix is negative or otherwise unusable.
	ErrInvalidLength = errors.New("vbio: invalid length prefix")
	// ErrPositionOutOfRange is returned when a position is outside the readable or written region.
	ErrPositionOutOfRange = errors.New("vbio: position out of range")
)

// Channel errors.
var (
	// ErrChannelClosed is returned when the peer endpoint closed cleanly while
	// the call still needed room or data, or when an endpoint is used after
	// it was closed itself.
	ErrChannelClosed = errors.New("vbio: channel closed")
	// ErrChannelFailure matches every *ChannelFailure via errors.Is.
	ErrChannelFailure = errors.New("vbio: channel peer failed")
	// ErrProtocolViolation is returned by Producer.Close when the consumer
	// closed while bytes were still buffered.
	ErrProtocolViolation = errors.New("vbio: channel protocol violation")
	// ErrInterruptedWait is returned when a blocking channel wait was interrupted.
	ErrInterruptedWait = errors.New("vbio: interrupted wait")
	// ErrInvalidCapacity is returned when a channel is created with a capacity below one.
	ErrInvalidCapacity = errors.New("vbio: invalid channel capacity")
)

// Frame errors.
var (
	ErrInvalidMagic           = errors.New("vbio: invalid frame magic")
	ErrChecksumMismatch       = errors.New("vbio: frame checksum mismatch")
	ErrUnsupportedCompression = errors.New("vbio: unsupported compression type")
	ErrFrameTooLarge          = errors.New("vbio: frame exceeds maximum size")
	ErrLengthMismatch         = errors.New("vbio: frame length mismatch")
	ErrInvalidFlags           = errors.New("vbio: invalid frame flags")
)

// ChannelFailure carries the error a channel peer closed with to the other side.
type ChannelFailure struct {
	Cause error
}

// NewChannelFailure wraps cause as a *ChannelFailure.
func NewChannelFailure(cause error) *ChannelFailure {
	return &ChannelFailure{Cause: cause}
}

// Error implements the error interface.
func (e *ChannelFailure) Error() string {
	return fmt.Sprintf("%s: %v", ErrChannelFailure.Error(), e.Cause)
}

// Unwrap returns the peer's error.
func (e *ChannelFailure) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrChannelFailure.
func (e *ChannelFailure) Is(target error) bool {
	return target == ErrChannelFailure
}
