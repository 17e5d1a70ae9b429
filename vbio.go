// Package vbio is the byte-I/O substrate of a record store: a variable-byte
// (VBE) codec for serializing integers and strings, and a bounded
// single-producer/single-consumer byte channel for streaming bytes between
// goroutines with blocking backpressure.
//
// # Core Features
//
//   - Bit-exact VBE encoding of 16, 32 and 64-bit integers (7 payload bits per byte)
//   - Little-endian fixed-width integers and length-prefixed UTF-8 strings
//   - Readers over byte slices (zero-copy fast paths) or any byte source
//   - A ring-buffer channel with flush, clean close and error-carrying abort
//   - Self-describing frames with optional compression (Zstd, S2, LZ4) and xxHash64 checksums
//
// # Basic Usage
//
// Encoding and decoding values:
//
//	w, _ := vbio.NewWriter()
//	w.WriteInt32(300)
//	w.WriteUTF("héllo")
//
//	r := vbio.NewReader(w.Bytes())
//	n, _ := r.ReadInt32()
//	s, _ := r.ReadUTF()
//
// Streaming between goroutines:
//
//	producer, consumer, _ := vbio.NewChannel(4096)
//	go func() {
//	    w.WriteTo(producer)
//	    producer.Close()
//	}()
//	r := vbio.NewSourceReader(consumer)
//	n, _ := r.ReadInt32()
//	consumer.Close()
//
// # Package Structure
//
// This package provides convenient top-level wrappers for the most common use
// cases. The vbe, channel, frame and pipe packages expose the full API.
package vbio

import (
	"context"
	"io"

	"github.com/arloliu/vbio/channel"
	"github.com/arloliu/vbio/frame"
	"github.com/arloliu/vbio/internal/hash"
	"github.com/arloliu/vbio/pipe"
	"github.com/arloliu/vbio/vbe"
)

// NewWriter creates a VBE writer.
//
// Available options:
//   - vbe.WithInitialSize(n)
//   - vbe.WithPooledBuffer()
func NewWriter(opts ...vbe.WriterOption) (*vbe.Writer, error) {
	return vbe.NewWriter(opts...)
}

// NewReader creates a reader over the whole of data. The reader does not copy
// data, so it must not be modified while reading.
func NewReader(data []byte) *vbe.ArrayReader {
	return vbe.NewArrayReader(data)
}

// NewSourceReader creates a reader that pulls bytes from src one at a time,
// such as a channel.Consumer or a pipe.Pipe.
func NewSourceReader(src vbe.Source) *vbe.SourceReader {
	return vbe.NewSourceReader(src)
}

// NewStreamReader creates a reader over any io.Reader, buffered through bufio.
func NewStreamReader(rd io.Reader) *vbe.SourceReader {
	return vbe.NewSourceReader(vbe.StreamSource(rd))
}

// NewChannel creates a bounded byte channel buffering up to capacity bytes.
//
// Example:
//
//	producer, consumer, err := vbio.NewChannel(64 * 1024)
//	if err != nil {
//	    log.Fatal(err)
//	}
func NewChannel(capacity int) (*channel.Producer, *channel.Consumer, error) {
	return channel.New(capacity)
}

// Pipe runs fn on its own goroutine and returns its output as a stream.
// See pipe.Start.
func Pipe(ctx context.Context, fn pipe.ProducerFunc, opts ...pipe.Option) (*pipe.Pipe, error) {
	return pipe.Start(ctx, fn, opts...)
}

// EncodeFrame wraps payload in a single frame.
//
// Example:
//
//	packed, err := vbio.EncodeFrame(payload,
//	    frame.WithCompression(format.CompressionS2),
//	    frame.WithChecksum(true),
//	)
func EncodeFrame(payload []byte, opts ...frame.Option) ([]byte, error) {
	enc, err := frame.NewEncoder(opts...)
	if err != nil {
		return nil, err
	}

	return enc.Encode(payload)
}

// DecodeFrames decodes every frame in data.
func DecodeFrames(data []byte, opts ...frame.Option) ([][]byte, error) {
	dec, err := frame.NewDecoder(opts...)
	if err != nil {
		return nil, err
	}

	return dec.DecodeAll(data)
}

// Checksum returns the xxHash64 of data, the same checksum frames store.
func Checksum(data []byte) uint64 {
	return hash.Checksum(data)
}
