package pipe

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/arloliu/vbio/errs"
	"github.com/arloliu/vbio/format"
	"github.com/arloliu/vbio/frame"
	"github.com/arloliu/vbio/vbe"
)

func TestStart_InvalidCapacity(t *testing.T) {
	p, err := Start(context.Background(), func(io.Writer) error { return nil }, WithCapacity(0))
	require.ErrorIs(t, err, errs.ErrInvalidCapacity)
	require.Nil(t, p)
}

func TestPipe_DecodeProducerOutput(t *testing.T) {
	var encoded int64
	p, err := Start(context.Background(), func(w io.Writer) error {
		vw, err := vbe.NewWriter()
		if err != nil {
			return err
		}
		for i := int64(0); i < 1000; i++ {
			vw.WriteInt64(i * i * 7919)
		}
		vw.WriteUTF("done")
		encoded = int64(vw.Len())
		_, err = vw.WriteTo(w)

		return err
	}, WithCapacity(32))
	require.NoError(t, err)

	r := vbe.NewSourceReader(p)
	for i := int64(0); i < 1000; i++ {
		v, err := r.ReadInt64()
		require.NoError(t, err)
		require.Equal(t, i*i*7919, v)
	}
	s, err := r.ReadUTF()
	require.NoError(t, err)
	require.Equal(t, "done", s)

	_, err = r.ReadInt64()
	require.ErrorIs(t, err, errs.ErrEndOfData)

	require.NoError(t, p.Wait())
	require.Equal(t, encoded, p.Written())
}

func TestPipe_Frames(t *testing.T) {
	payloads := [][]byte{[]byte("alpha"), make([]byte, 10_000), []byte("omega")}

	p, err := Start(context.Background(), func(w io.Writer) error {
		sw, err := frame.NewStreamWriter(w, frame.WithCompression(format.CompressionLZ4), frame.WithChecksum(true))
		if err != nil {
			return err
		}
		defer sw.Release()
		for _, payload := range payloads {
			if err := sw.WriteFrame(payload); err != nil {
				return err
			}
		}

		return nil
	}, WithCapacity(128))
	require.NoError(t, err)

	sr, err := frame.NewStreamReader(p)
	require.NoError(t, err)

	var got [][]byte
	for {
		payload, err := sr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		got = append(got, payload)
	}
	require.Equal(t, payloads, got)
	require.NoError(t, p.Wait())
}

func TestPipe_ProducerError(t *testing.T) {
	cause := errors.New("source unavailable")
	p, err := Start(context.Background(), func(w io.Writer) error {
		if _, err := w.Write([]byte("abc")); err != nil {
			return err
		}
		return cause
	})
	require.NoError(t, err)

	data, err := io.ReadAll(p)
	require.Equal(t, []byte("abc"), data)
	require.ErrorIs(t, err, errs.ErrChannelFailure)
	require.ErrorIs(t, err, cause)

	require.ErrorIs(t, p.Wait(), cause)
}

func TestPipe_ProducerPanic(t *testing.T) {
	p, err := Start(context.Background(), func(io.Writer) error {
		panic("boom")
	})
	require.NoError(t, err)

	_, err = io.ReadAll(p)
	require.ErrorIs(t, err, errs.ErrChannelFailure)
	require.ErrorContains(t, err, "boom")

	require.ErrorContains(t, p.Wait(), "producer panicked")
}

func TestPipe_ContextCancelUnblocksProducer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p, err := Start(ctx, func(w io.Writer) error {
		_, err := w.Write(make([]byte, 100))
		return err
	}, WithCapacity(4))
	require.NoError(t, err)

	// nobody reads, so the producer is stuck until the context is canceled
	require.Eventually(t, func() bool { return p.Available() == 4 }, 2*time.Second, time.Millisecond)
	select {
	case <-p.Done():
		t.Fatal("producer finished without a reader")
	case <-time.After(10 * time.Millisecond):
	}

	cancel()
	select {
	case <-p.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("producer still blocked after cancel")
	}

	_, err = p.Read(make([]byte, 8))
	require.ErrorIs(t, err, context.Canceled)

	err = p.Wait()
	require.ErrorIs(t, err, errs.ErrChannelFailure)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, int64(4), p.Written())
}

func TestPipe_CloseEarly(t *testing.T) {
	p, err := Start(context.Background(), func(w io.Writer) error {
		for {
			if _, err := w.Write([]byte("0123456789")); err != nil {
				return err
			}
		}
	}, WithCapacity(16))
	require.NoError(t, err)

	buf := make([]byte, 5)
	_, err = io.ReadFull(p, buf)
	require.NoError(t, err)
	require.Equal(t, []byte("01234"), buf)

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	require.ErrorIs(t, p.Wait(), errs.ErrChannelClosed)

	_, err = p.Read(buf)
	require.ErrorIs(t, err, errs.ErrChannelClosed)
}

func TestPipe_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		p, err := Start(context.Background(), func(io.Writer) error { return nil })
		require.NoError(t, err)
		id := p.ID().String()
		require.False(t, seen[id])
		seen[id] = true
		require.NoError(t, p.Wait())
	}
}

func TestPipe_LogsProducerFailure(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	cause := errors.New("disk gone")

	p, err := Start(context.Background(), func(io.Writer) error { return cause },
		WithLogger(zap.New(core)))
	require.NoError(t, err)
	require.ErrorIs(t, p.Wait(), cause)

	failed := logs.FilterMessage("producer failed").All()
	require.Len(t, failed, 1)
	require.Equal(t, zapcore.WarnLevel, failed[0].Level)
	require.Equal(t, p.ID().String(), failed[0].ContextMap()["pipe"])

	require.Equal(t, 1, logs.FilterMessage("pipe started").Len())
}

func TestLogger_DefaultIsNop(t *testing.T) {
	require.NotNil(t, Logger())
	require.False(t, Logger().Core().Enabled(zapcore.ErrorLevel))
}
