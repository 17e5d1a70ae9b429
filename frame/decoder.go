package frame

import (
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/vbio/compress"
	"github.com/arloliu/vbio/endian"
	"github.com/arloliu/vbio/errs"
	"github.com/arloliu/vbio/format"
	"github.com/arloliu/vbio/internal/hash"
	"github.com/arloliu/vbio/internal/pool"
	"github.com/arloliu/vbio/vbe"
)

// Header describes one frame as it was read from the wire.
type Header struct {
	Compression format.CompressionType
	HasChecksum bool
	RawLen      int
	DataLen     int
	Checksum    uint64
}

// Decoder reads frames. It is safe for concurrent use as long as each
// vbe.Reader is used by one goroutine.
type Decoder struct {
	cfg    *config
	engine endian.EndianEngine
}

// NewDecoder creates a Decoder. Only WithMaxFrameSize affects decoding.
func NewDecoder(opts ...Option) (*Decoder, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	return &Decoder{cfg: cfg, engine: endian.GetLittleEndianEngine()}, nil
}

// Decode reads one frame from r with a Decoder built from opts.
func Decode(r vbe.Reader, opts ...Option) ([]byte, error) {
	d, err := NewDecoder(opts...)
	if err != nil {
		return nil, err
	}

	return d.Decode(r)
}

// Decode reads one frame from r and returns its payload.
//
// It returns io.EOF if r is exhausted before the first byte of the frame and
// errs.ErrEndOfData if r ends inside it. Corrupt frames fail with
// errs.ErrInvalidMagic, errs.ErrInvalidFlags, errs.ErrUnsupportedCompression,
// errs.ErrInvalidLength, errs.ErrFrameTooLarge, errs.ErrLengthMismatch or
// errs.ErrChecksumMismatch. Errors from the underlying source, such as a
// *errs.ChannelFailure, are returned as they are.
//
// Parameters:
//   - r: Reader positioned at the start of a frame
//
// Returns:
//   - []byte: The frame's payload, owned by the caller
//   - error: io.EOF, errs.ErrEndOfData, a corruption error or a source error
func (d *Decoder) Decode(r vbe.Reader) ([]byte, error) {
	hdr, err := d.ReadHeader(r)
	if err != nil {
		return nil, err
	}

	payload, err := d.readPayload(r, hdr)
	if err != nil {
		return nil, err
	}

	if hdr.HasChecksum {
		if sum := hash.Checksum(payload); sum != hdr.Checksum {
			return nil, fmt.Errorf("%w: stored %016x, computed %016x", errs.ErrChecksumMismatch, hdr.Checksum, sum)
		}
	}

	return payload, nil
}

// ReadHeader reads and validates the header of the next frame, leaving r
// positioned at its data.
func (d *Decoder) ReadHeader(r vbe.Reader) (Header, error) {
	var hdr Header

	var magic [endian.Fixed32Size]byte
	first, err := r.Next()
	if err != nil {
		return hdr, err
	}
	magic[0] = first
	if _, err := io.ReadFull(r, magic[1:]); err != nil {
		return hdr, truncated(err)
	}
	if m := d.engine.Uint32(magic[:]); m != Magic {
		return hdr, fmt.Errorf("%w: %#08x", errs.ErrInvalidMagic, m)
	}

	flags, err := r.ReadByte()
	if err != nil {
		return hdr, err
	}
	if flags&^(format.FlagCompressionMask|format.FlagChecksum) != 0 {
		return hdr, fmt.Errorf("%w: %#02x", errs.ErrInvalidFlags, flags)
	}
	hdr.Compression = format.CompressionType(flags & format.FlagCompressionMask)
	if !hdr.Compression.Valid() {
		return hdr, fmt.Errorf("%w: %d", errs.ErrUnsupportedCompression, hdr.Compression)
	}
	hdr.HasChecksum = flags&format.FlagChecksum != 0

	if hdr.RawLen, err = d.readLength(r, "raw"); err != nil {
		return hdr, err
	}
	if hdr.DataLen, err = d.readLength(r, "data"); err != nil {
		return hdr, err
	}
	if hdr.Compression == format.CompressionNone && hdr.RawLen != hdr.DataLen {
		return hdr, fmt.Errorf("%w: uncompressed frame with raw %d, data %d", errs.ErrLengthMismatch, hdr.RawLen, hdr.DataLen)
	}

	if hdr.HasChecksum {
		sum, err := r.ReadFixedInt64()
		if err != nil {
			return hdr, err
		}
		hdr.Checksum = uint64(sum) //nolint:gosec
	}

	return hdr, nil
}

func (d *Decoder) readLength(r vbe.Reader, field string) (int, error) {
	v, err := r.ReadInt32()
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: %s length %d", errs.ErrInvalidLength, field, v)
	}
	if int(v) > d.cfg.maxFrameSize {
		return 0, fmt.Errorf("%w: %s length %d, limit %d", errs.ErrFrameTooLarge, field, v, d.cfg.maxFrameSize)
	}

	return int(v), nil
}

func (d *Decoder) readPayload(r vbe.Reader, hdr Header) ([]byte, error) {
	if hdr.Compression == format.CompressionNone {
		payload := make([]byte, hdr.DataLen)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, truncated(err)
		}

		return payload, nil
	}

	// compressed bytes only live until they are decompressed
	buf := pool.GetFrameBuffer()
	defer pool.PutFrameBuffer(buf)
	buf.Grow(hdr.DataLen)
	data := buf.B[:hdr.DataLen]
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, truncated(err)
	}

	codec, err := compress.GetCodec(hdr.Compression)
	if err != nil {
		return nil, err
	}
	payload, err := codec.Decompress(data, hdr.RawLen)
	if err != nil {
		return nil, fmt.Errorf("%s decompress: %w", hdr.Compression, err)
	}
	if len(payload) != hdr.RawLen {
		return nil, fmt.Errorf("%w: header says %d bytes, decompressed %d", errs.ErrLengthMismatch, hdr.RawLen, len(payload))
	}

	return payload, nil
}

// DecodeAll decodes every frame in data. A trailing partial frame fails with
// errs.ErrEndOfData.
func (d *Decoder) DecodeAll(data []byte) ([][]byte, error) {
	r := vbe.NewArrayReader(data)

	var payloads [][]byte
	for {
		payload, err := d.Decode(r)
		if errors.Is(err, io.EOF) {
			return payloads, nil
		}
		if err != nil {
			return payloads, fmt.Errorf("frame %d: %w", len(payloads), err)
		}
		payloads = append(payloads, payload)
	}
}

// truncated maps the io.ReadFull end-of-input errors to errs.ErrEndOfData.
func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return errs.ErrEndOfData
	}

	return err
}
