package compress

import (
	"fmt"
	"testing"

	"github.com/arloliu/vbio/format"
)

func BenchmarkAllCodecs_Compress(b *testing.B) {
	for _, records := range []int{64, 1024, 16384} {
		payload := recordPayload(b, records)
		for ct, codec := range getAllCodecs() {
			b.Run(fmt.Sprintf("%s/%dKB", ct, len(payload)/1024), func(b *testing.B) {
				b.ReportAllocs()
				b.SetBytes(int64(len(payload)))

				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					if _, err := codec.Compress(payload); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

func BenchmarkAllCodecs_Decompress(b *testing.B) {
	for _, records := range []int{64, 1024, 16384} {
		payload := recordPayload(b, records)
		for ct, codec := range getAllCodecs() {
			packed, err := codec.Compress(payload)
			if err != nil {
				b.Fatal(err)
			}
			b.Run(fmt.Sprintf("%s/%dKB", ct, len(payload)/1024), func(b *testing.B) {
				b.ReportAllocs()
				b.SetBytes(int64(len(payload)))

				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					if _, err := codec.Decompress(packed, len(payload)); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

func BenchmarkLZ4Decompress_UnknownSize(b *testing.B) {
	payload := recordPayload(b, 1024)
	codec := NewLZ4Codec()
	packed, err := codec.Compress(payload)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.SetBytes(int64(len(payload)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := codec.Decompress(packed, 0); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkZstdCompress_Parallel(b *testing.B) {
	payload := recordPayload(b, 1024)
	codec, _ := GetCodec(format.CompressionZstd)
	b.ReportAllocs()
	b.SetBytes(int64(len(payload)))

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := codec.Compress(payload); err != nil {
				b.Error(err)
				return
			}
		}
	})
}
