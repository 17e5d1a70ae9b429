package vbe

import (
	"bufio"
	"io"
)

// Source is an opaque byte origin for a SourceReader.
//
// ReadByte must return io.EOF once the source is exhausted. Available
// reports how many bytes can be read without blocking; it may return 0 for a
// source that is not exhausted yet.
type Source interface {
	io.ByteReader
	Available() int
}

// SourceReader decodes VBE values from a Source. It adds no decoding logic of
// its own; every operation is built from Source.ReadByte and Source.Available.
type SourceReader struct {
	decoder
	source Source
}

var _ Reader = (*SourceReader)(nil)

// NewSourceReader creates a reader over src.
func NewSourceReader(src Source) *SourceReader {
	r := &SourceReader{source: src}
	r.decoder.src = r

	return r
}

func (r *SourceReader) next() (byte, error) {
	return r.source.ReadByte()
}

func (r *SourceReader) available() int {
	return r.source.Available()
}

type streamSource struct {
	br *bufio.Reader
}

// StreamSource adapts an io.Reader to a Source through a bufio.Reader.
//
// Available fills the buffer when it is empty, so it only reports 0 once the
// underlying reader is exhausted or failing. That makes the usual
// "for r.Available() > 0" loop work on files and sockets.
//
// Parameters:
//   - rd: Underlying reader
//
// Returns:
//   - Source: Buffered source over rd, suitable for NewSourceReader
func StreamSource(rd io.Reader) Source {
	br, ok := rd.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(rd)
	}

	return &streamSource{br: br}
}

func (s *streamSource) ReadByte() (byte, error) {
	return s.br.ReadByte()
}

func (s *streamSource) Available() int {
	if s.br.Buffered() == 0 {
		_, _ = s.br.Peek(1)
	}

	return s.br.Buffered()
}
