package compress

import (
	"errors"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// lz4MaxDecompressSize caps the adaptive buffer used when the decompressed
// size is unknown.
const lz4MaxDecompressSize = 128 * 1024 * 1024

var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4Codec compresses with raw LZ4 blocks.
type LZ4Codec struct{}

var _ Codec = (*LZ4Codec)(nil)

func NewLZ4Codec() LZ4Codec {
	return LZ4Codec{}
}

// Compress compresses data into a single LZ4 block using a pooled compressor.
func (c LZ4Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, err
	}

	return dst[:n], nil
}

// Decompress decodes one LZ4 block.
//
// LZ4 blocks do not record their decoded size. With a positive rawLen the
// destination is allocated once at that size. Otherwise the buffer starts at
// 4x the input and doubles on lz4.ErrInvalidSourceShortBuffer, up to 128MiB.
func (c LZ4Codec) Decompress(data []byte, rawLen int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	if rawLen > 0 {
		buf := make([]byte, rawLen)
		n, err := lz4.UncompressBlock(data, buf)
		if err != nil {
			return nil, err
		}

		return buf[:n], nil
	}

	bufSize := len(data) * 4
	for bufSize <= lz4MaxDecompressSize {
		buf := make([]byte, bufSize)
		n, err := lz4.UncompressBlock(data, buf)
		if err != nil {
			if errors.Is(err, lz4.ErrInvalidSourceShortBuffer) && bufSize < lz4MaxDecompressSize {
				bufSize *= 2
				continue
			}

			return nil, err
		}

		return buf[:n], nil
	}

	return nil, lz4.ErrInvalidSourceShortBuffer
}
