package frame

import (
	"io"

	"github.com/arloliu/vbio/vbe"
)

// StreamWriter writes a sequence of frames to an io.Writer, one frame per
// WriteFrame call. Each frame reaches dst in a single Write.
//
// A StreamWriter is not safe for concurrent use.
type StreamWriter struct {
	enc    *Encoder
	dst    io.Writer
	buf    *vbe.Writer
	frames int
}

var _ io.Writer = (*StreamWriter)(nil)

// NewStreamWriter creates a StreamWriter that encodes with opts. Call Release
// when done to return its buffer to the pool.
func NewStreamWriter(dst io.Writer, opts ...Option) (*StreamWriter, error) {
	enc, err := NewEncoder(opts...)
	if err != nil {
		return nil, err
	}
	buf, err := vbe.NewWriter(vbe.WithPooledBuffer())
	if err != nil {
		return nil, err
	}

	return &StreamWriter{enc: enc, dst: dst, buf: buf}, nil
}

// WriteFrame encodes payload as one frame and writes it to the destination.
func (s *StreamWriter) WriteFrame(payload []byte) error {
	s.buf.Clear()
	if err := s.enc.AppendTo(s.buf, payload); err != nil {
		return err
	}
	if _, err := s.buf.WriteTo(s.dst); err != nil {
		return err
	}
	s.frames++

	return nil
}

// Write makes p one frame, so a StreamWriter can stand in wherever an
// io.Writer is expected. It reports len(p) on success.
func (s *StreamWriter) Write(p []byte) (int, error) {
	if err := s.WriteFrame(p); err != nil {
		return 0, err
	}

	return len(p), nil
}

// Frames returns the number of frames written so far.
func (s *StreamWriter) Frames() int {
	return s.frames
}

// Release returns the internal buffer to the pool. The StreamWriter must not
// be used afterwards.
func (s *StreamWriter) Release() {
	s.buf.Release()
}

// StreamReader reads the frames written by a StreamWriter from a vbe.Source,
// such as a channel.Consumer.
//
// A StreamReader is not safe for concurrent use.
type StreamReader struct {
	dec    *Decoder
	r      *vbe.SourceReader
	frames int
}

// NewStreamReader creates a StreamReader that decodes with opts.
//
// Parameters:
//   - src: Byte source holding a sequence of frames
//   - opts: Optional configuration; only WithMaxFrameSize applies
//
// Returns:
//   - *StreamReader: Reader positioned before the first frame
//   - error: An error if an option is invalid
func NewStreamReader(src vbe.Source, opts ...Option) (*StreamReader, error) {
	dec, err := NewDecoder(opts...)
	if err != nil {
		return nil, err
	}

	return &StreamReader{dec: dec, r: vbe.NewSourceReader(src)}, nil
}

// Next returns the payload of the next frame.
//
// It returns io.EOF when the source ends cleanly between frames and
// errs.ErrEndOfData when it ends inside one.
func (s *StreamReader) Next() ([]byte, error) {
	payload, err := s.dec.Decode(s.r)
	if err != nil {
		return nil, err
	}
	s.frames++

	return payload, nil
}

// Frames returns the number of frames read so far.
func (s *StreamReader) Frames() int {
	return s.frames
}
