// Package endian provides the byte order used for fixed-width integers.
//
// VBE-encoded integers carry their own byte order (least-significant group
// first), but fixed-width integers are written raw. Every persisted vbio
// structure stores them little-endian; the big-endian engine exists for
// collaborators that need to read foreign data through the same interface.
//
// # Basic Usage
//
//	engine := endian.GetLittleEndianEngine()
//	buf = engine.AppendUint32(buf, 0x01020304) // 04 03 02 01
//
// # Thread Safety
//
// The returned EndianEngine instances are immutable and stateless.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// Fixed-width sizes in bytes.
const (
	Fixed32Size = 4
	Fixed64Size = 8
)

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// Default returns the engine used by the vbio wire formats.
func Default() EndianEngine {
	return binary.LittleEndian
}

// IsLittleEndian reports whether engine writes the least significant byte first.
func IsLittleEndian(engine EndianEngine) bool {
	var probe [2]byte
	engine.PutUint16(probe[:], 0x0102)

	return probe[0] == 0x02
}
