// Package format defines the enumerations stored inside vbio frames.
package format

type CompressionType uint8

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

// Frame flag layout: the low nibble holds the CompressionType, the high bit
// marks a trailing xxHash64 checksum.
const (
	FlagCompressionMask byte = 0x0F
	FlagChecksum        byte = 0x80
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// Valid reports whether c is one of the known compression types.
func (c CompressionType) Valid() bool {
	return c >= CompressionNone && c <= CompressionLZ4
}

// ParseCompression maps a lower-case name ("none", "zstd", "s2", "lz4") to its CompressionType.
func ParseCompression(name string) (CompressionType, bool) {
	switch name {
	case "none", "":
		return CompressionNone, true
	case "zstd":
		return CompressionZstd, true
	case "s2":
		return CompressionS2, true
	case "lz4":
		return CompressionLZ4, true
	default:
		return 0, false
	}
}
