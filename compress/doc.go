// Package compress provides the payload codecs used by vbio frames.
//
// Each frame records a format.CompressionType in its flags byte; this package
// maps that type to a Codec:
//   - None: pass-through (NoOpCodec)
//   - Zstd: best ratio, moderate speed (klauspost/compress/zstd)
//   - S2: fast, Snappy-compatible (klauspost/compress/s2)
//   - LZ4: fastest decompression (pierrec/lz4)
//
// # Usage
//
//	codec, err := compress.GetCodec(format.CompressionS2)
//	if err != nil {
//		return err
//	}
//	packed, err := codec.Compress(payload)
//	...
//	payload, err = codec.Decompress(packed, len(payload))
//
// Decompress takes the uncompressed length stored in the frame header so
// that every codec can size its output buffer once. LZ4 in particular cannot
// recover the size from the block itself.
//
// # Thread Safety
//
// The built-in codecs hold no state; Zstd and LZ4 draw encoders and decoders
// from sync.Pool. All of them are safe for concurrent use, and GetCodec hands
// out shared instances.
//
// # Corrupt Input
//
// Decompress returns an error for data that was not produced by the same
// algorithm. It does not check the decoded length against rawLen; the frame
// decoder does that and reports errs.ErrLengthMismatch.
package compress
