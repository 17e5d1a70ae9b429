package compress

import "github.com/klauspost/compress/s2"

// S2Codec compresses with S2, a Snappy-compatible block format tuned for speed.
type S2Codec struct{}

var _ Codec = (*S2Codec)(nil)

func NewS2Codec() S2Codec {
	return S2Codec{}
}

func (c S2Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

// Decompress decodes an S2 block. The block carries its own decoded length,
// so rawLen only pre-sizes the destination.
func (c S2Codec) Decompress(data []byte, rawLen int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var dst []byte
	if rawLen > 0 {
		dst = make([]byte, rawLen)
	}

	return s2.Decode(dst, data)
}
