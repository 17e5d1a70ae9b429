// Package frame wraps payloads in a self-describing envelope built from the
// vbe codec, so records can be persisted or piped between goroutines and
// verified on the way back in.
//
// # Wire Format
//
//	magic      fixed32 LE  0x56424631
//	flags      byte        low nibble: format.CompressionType, bit 7: checksum present
//	rawLen     VBE int32   payload length before compression
//	dataLen    VBE int32   stored payload length
//	checksum   fixed64 LE  xxHash64 of the uncompressed payload, only if flagged
//	data       dataLen bytes
//
// Bits 4-6 of flags are reserved and must be zero.
//
// # Usage
//
//	enc, err := frame.NewEncoder(frame.WithCompression(format.CompressionS2), frame.WithChecksum(true))
//	if err != nil {
//		return err
//	}
//	packed, err := enc.Encode(payload)
//	...
//	payload, err = frame.Decode(vbe.NewArrayReader(packed))
//
// StreamWriter and StreamReader carry a sequence of frames over an io.Writer
// and a vbe.Source, typically the two endpoints of a channel.
package frame
