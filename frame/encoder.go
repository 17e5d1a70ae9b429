package frame

import (
	"fmt"

	"github.com/arloliu/vbio/compress"
	"github.com/arloliu/vbio/endian"
	"github.com/arloliu/vbio/errs"
	"github.com/arloliu/vbio/format"
	"github.com/arloliu/vbio/internal/hash"
	"github.com/arloliu/vbio/vbe"
)

// maxHeaderLen is the longest possible header: magic, flags, two VBE lengths
// and the checksum.
const maxHeaderLen = endian.Fixed32Size + 1 + 2*vbe.MaxLen32 + endian.Fixed64Size

// Encoder turns payloads into frames. It is safe for concurrent use.
type Encoder struct {
	cfg   *config
	codec compress.Codec
}

// NewEncoder creates an Encoder. Without options frames are stored
// uncompressed and without checksum.
//
// Parameters:
//   - opts: Optional configuration (WithCompression, WithChecksum, WithMaxFrameSize)
//
// Returns:
//   - *Encoder: Encoder ready for concurrent use
//   - error: An error if an option is invalid
func NewEncoder(opts ...Option) (*Encoder, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	codec, err := compress.GetCodec(cfg.compression)
	if err != nil {
		return nil, err
	}

	return &Encoder{cfg: cfg, codec: codec}, nil
}

// Compression returns the configured compression type.
func (e *Encoder) Compression() format.CompressionType {
	return e.cfg.compression
}

// Encode returns payload wrapped in a new frame.
func (e *Encoder) Encode(payload []byte) ([]byte, error) {
	w, err := vbe.NewWriter(vbe.WithInitialSize(maxHeaderLen + len(payload)))
	if err != nil {
		return nil, err
	}
	if err := e.AppendTo(w, payload); err != nil {
		return nil, err
	}

	return w.Bytes(), nil
}

// AppendTo writes one frame holding payload to w.
//
// If compression does not shrink the payload the frame is stored
// uncompressed, and its flags say so. Nothing is written on error.
//
// Parameters:
//   - w: Destination writer; the frame is appended after its current content
//   - payload: Bytes to wrap, at most the configured maximum frame size
//
// Returns:
//   - error: errs.ErrFrameTooLarge for oversized payloads, or a codec error
func (e *Encoder) AppendTo(w *vbe.Writer, payload []byte) error {
	if len(payload) > e.cfg.maxFrameSize {
		return fmt.Errorf("%w: payload of %d bytes, limit %d", errs.ErrFrameTooLarge, len(payload), e.cfg.maxFrameSize)
	}

	ct := e.cfg.compression
	data := payload
	if ct != format.CompressionNone && len(payload) > 0 {
		packed, err := e.codec.Compress(payload)
		if err != nil {
			return fmt.Errorf("%s compress: %w", ct, err)
		}
		if len(packed) < len(payload) {
			data = packed
		} else {
			ct = format.CompressionNone
		}
	}

	flags := byte(ct) & format.FlagCompressionMask
	if e.cfg.checksum {
		flags |= format.FlagChecksum
	}

	w.WriteFixedInt32(int32(Magic)) //nolint:gosec
	_ = w.WriteByte(flags)
	w.WriteInt32(int32(len(payload))) //nolint:gosec
	w.WriteInt32(int32(len(data)))    //nolint:gosec
	if e.cfg.checksum {
		w.WriteFixedInt64(int64(hash.Checksum(payload))) //nolint:gosec
	}
	_, _ = w.Write(data)

	return nil
}
