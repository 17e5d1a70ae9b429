package compress

// NoOpCodec passes payloads through unchanged. It backs
// format.CompressionNone.
type NoOpCodec struct{}

var _ Codec = (*NoOpCodec)(nil)

// NewNoOpCodec creates a pass-through codec.
func NewNoOpCodec() NoOpCodec {
	return NoOpCodec{}
}

// Compress returns data itself. The result aliases the input.
func (c NoOpCodec) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns data itself. The result aliases the input.
func (c NoOpCodec) Decompress(data []byte, _ int) ([]byte, error) {
	return data, nil
}
