package vbe

import (
	"bytes"
	"testing"
)

func BenchmarkWriter_WriteInt32(b *testing.B) {
	w, _ := NewWriter(WithInitialSize(1024 * 64))
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if w.Len() > 1024*60 {
			w.Clear()
		}
		w.WriteInt32(int32(i)) //nolint:gosec
	}
}

func BenchmarkArrayReader_ReadInt32(b *testing.B) {
	var data []byte
	for i := int32(0); i < 1024; i++ {
		data = AppendInt32(data, i*131)
	}
	r := NewArrayReader(data)
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if r.Available() == 0 {
			r.Reset(data, 0, len(data))
		}
		_, _ = r.ReadInt32()
	}
}

func BenchmarkSourceReader_ReadInt32(b *testing.B) {
	var data []byte
	for i := int32(0); i < 1024; i++ {
		data = AppendInt32(data, i*131)
	}
	br := bytes.NewReader(data)
	r := NewSourceReader(StreamSource(br))
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if r.Available() == 0 {
			br.Reset(data)
		}
		_, _ = r.ReadInt32()
	}
}

func BenchmarkArrayReader_CopyTo(b *testing.B) {
	var data []byte
	for i := int64(0); i < 256; i++ {
		data = AppendInt64(data, i<<40)
	}
	w, _ := NewWriter(WithInitialSize(len(data)))
	r := NewArrayReader(data)
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		r.Reset(data, 0, len(data))
		w.Clear()
		_ = r.CopyTo(w, 256)
	}
}
