// Package vbe implements the variable-byte encoding (VBE) used by every
// persisted vbio record, together with a growable Writer and two Reader
// variants.
//
// # Wire Format
//
// Integers are split into 7-bit groups, least significant group first. Every
// byte except the last carries the continuation bit 0x80:
//
//	0      -> 00
//	127    -> 7F
//	128    -> 80 01
//	16384  -> 80 80 01
//	int32(-1) -> FF FF FF FF 0F
//
// Negative values are encoded from their full two's-complement bit pattern,
// so they always take the maximum length for their width (3 bytes for
// int16, 5 for int32, 10 for int64). Existing data depends on this layout;
// it is not zigzag encoded.
//
// Fixed-width integers are written raw, little-endian, 4 or 8 bytes.
//
// Strings are UTF-8 bytes preceded by their byte length as a VBE int32. The
// prefix counts bytes, not characters: "héllo" is encoded as 06 68 C3 A9 6C 6C 6F.
//
// # Readers
//
// Reader is the decoding contract. ArrayReader reads from a byte slice and
// can be rebound with Reset to avoid allocations in hot loops. SourceReader
// reads from any Source (an io.ByteReader that can report how many bytes
// are ready), for example a bufio-wrapped file or a channel.Consumer. Both
// share the same decoding logic.
//
// # Thread Safety
//
// Writer, ArrayReader and SourceReader are owned by a single goroutine and
// carry no locking. The package level encode and decode functions are safe
// for concurrent use.
package vbe
