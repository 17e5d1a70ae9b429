package compress

import (
	"fmt"

	"github.com/arloliu/vbio/errs"
	"github.com/arloliu/vbio/format"
)

// Compressor compresses one frame payload at a time.
type Compressor interface {
	// Compress returns the compressed form of data. The input slice is not
	// modified; the result is owned by the caller unless the codec documents
	// otherwise (NoOpCodec returns data itself).
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor.
type Decompressor interface {
	// Decompress restores the original bytes. rawLen is the length recorded
	// when the payload was compressed; codecs use it to size the output
	// buffer in one allocation. A non-positive rawLen means unknown.
	//
	// Decompress does not enforce rawLen: callers that need an exact size
	// compare len(result) against it.
	Decompress(data []byte, rawLen int) ([]byte, error)
}

// Codec combines both directions of one algorithm.
type Codec interface {
	Compressor
	Decompressor
}

// Stats describes the outcome of compressing one payload.
type Stats struct {
	Algorithm      format.CompressionType
	OriginalSize   int64
	CompressedSize int64
}

// Ratio returns CompressedSize / OriginalSize, or 0 for an empty input.
// Values below 1.0 mean the payload shrank.
func (s Stats) Ratio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the saved space as a percentage. It is negative when
// compression made the payload larger.
func (s Stats) SpaceSavings() float64 {
	return (1.0 - s.Ratio()) * 100.0
}

// CreateCodec builds a new Codec for the compression type.
//
// Parameters:
//   - compressionType: Type of compression (None, Zstd, S2 or LZ4)
//   - target: Caller's use of the codec, only used in the error message
//
// Returns:
//   - Codec: New codec instance
//   - error: errs.ErrUnsupportedCompression for unknown types
func CreateCodec(compressionType format.CompressionType, target string) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCodec(), nil
	case format.CompressionZstd:
		return NewZstdCodec(), nil
	case format.CompressionS2:
		return NewS2Codec(), nil
	case format.CompressionLZ4:
		return NewLZ4Codec(), nil
	default:
		return nil, fmt.Errorf("%w: invalid %s compression %s", errs.ErrUnsupportedCompression, target, compressionType)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCodec(),
	format.CompressionZstd: NewZstdCodec(),
	format.CompressionS2:   NewS2Codec(),
	format.CompressionLZ4:  NewLZ4Codec(),
}

// GetCodec returns the shared built-in Codec for the compression type. The
// built-in codecs are stateless and safe for concurrent use.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedCompression, compressionType)
}

// Compress compresses data with the built-in codec for compressionType and
// reports the sizes involved.
//
// Parameters:
//   - compressionType: Codec to use
//   - data: Uncompressed input
//
// Returns:
//   - []byte: Compressed output
//   - Stats: Input and output sizes
//   - error: errs.ErrUnsupportedCompression or a codec error
func Compress(compressionType format.CompressionType, data []byte) ([]byte, Stats, error) {
	codec, err := GetCodec(compressionType)
	if err != nil {
		return nil, Stats{}, err
	}

	out, err := codec.Compress(data)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("%s compress: %w", compressionType, err)
	}

	return out, Stats{
		Algorithm:      compressionType,
		OriginalSize:   int64(len(data)),
		CompressedSize: int64(len(out)),
	}, nil
}
