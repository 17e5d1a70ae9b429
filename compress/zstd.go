package compress

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// The klauspost decoder runs allocation-free after warmup, so decoders and
// encoders are pooled rather than created per call.
var zstdDecoderPool = sync.Pool{
	New: func() any {
		decoder, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(false),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd decoder for pool: %v", err))
		}

		return decoder
	},
}

var zstdEncoderPool = sync.Pool{
	New: func() any {
		encoder, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedDefault),
			zstd.WithEncoderCRC(false), // frames carry their own xxHash64
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd encoder for pool: %v", err))
		}

		return encoder
	},
}

// ZstdCodec compresses with Zstandard. It trades speed for ratio compared to
// S2 and LZ4, which suits payloads that are persisted rather than piped.
type ZstdCodec struct{}

var _ Codec = (*ZstdCodec)(nil)

// NewZstdCodec creates a Zstandard codec backed by the shared encoder and
// decoder pools.
//
// Example:
//
//	codec := compress.NewZstdCodec()
//	packed, err := codec.Compress(payload)
//	if err != nil {
//		return err
//	}
func NewZstdCodec() ZstdCodec {
	return ZstdCodec{}
}

func (c ZstdCodec) Compress(data []byte) ([]byte, error) {
	encoder, _ := zstdEncoderPool.Get().(*zstd.Encoder)
	defer zstdEncoderPool.Put(encoder)

	return encoder.EncodeAll(data, nil), nil
}

// Decompress decodes Zstandard data with a pooled decoder. A failed call
// leaves the decoder reusable.
func (c ZstdCodec) Decompress(data []byte, rawLen int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	decoder, _ := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(decoder)

	var dst []byte
	if rawLen > 0 {
		dst = make([]byte, 0, rawLen)
	}

	out, err := decoder.DecodeAll(data, dst)
	if err != nil {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}

	return out, nil
}
