package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arloliu/vbio/compress"
	"github.com/arloliu/vbio/format"
	"github.com/arloliu/vbio/frame"
	"github.com/arloliu/vbio/internal/hash"
	"github.com/arloliu/vbio/pipe"
)

const defaultChunkSize = 256 * 1024

func newFrameCmd(a *app) *cobra.Command {
	frameCmd := &cobra.Command{
		Use:   "frame",
		Short: "Pack files into frames and unpack them again",
	}
	frameCmd.AddCommand(newFramePackCmd(a), newFrameUnpackCmd(a))

	return frameCmd
}

func newFramePackCmd(a *app) *cobra.Command {
	var (
		compression string
		checksum    bool
		chunkSize   int
		output      string
	)

	packCmd := &cobra.Command{
		Use:   "pack <file>",
		Short: "Split a file into frames",
		Long: `Split a file into frames of at most --chunk-size bytes, compressing
each frame and storing an xxHash64 checksum. Use "-" to read stdin.

Example:
  vbio frame pack --compression zstd -o data.vbf data.bin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ct, ok := format.ParseCompression(compression)
			if !ok {
				return fmt.Errorf("unknown compression %q", compression)
			}
			if chunkSize < 1 || chunkSize > frame.DefaultMaxFrameSize {
				return fmt.Errorf("chunk size must be between 1 and %d", frame.DefaultMaxFrameSize)
			}

			return withFiles(cmd, args[0], output, func(in io.Reader, out io.Writer) error {
				return packFrames(cmd.Context(), a.log, in, out, chunkSize,
					frame.WithCompression(ct), frame.WithChecksum(checksum))
			})
		},
	}
	packCmd.Flags().StringVarP(&compression, "compression", "c", "zstd", "Compression: none, zstd, s2, lz4")
	packCmd.Flags().BoolVar(&checksum, "checksum", true, "Store an xxHash64 checksum per frame")
	packCmd.Flags().IntVar(&chunkSize, "chunk-size", defaultChunkSize, "Maximum payload bytes per frame")
	packCmd.Flags().StringVarP(&output, "output", "o", "-", "Output file, - for stdout")

	return packCmd
}

func newFrameUnpackCmd(a *app) *cobra.Command {
	var output string

	unpackCmd := &cobra.Command{
		Use:   "unpack <file>",
		Short: "Restore the original bytes from packed frames",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFiles(cmd, args[0], output, func(in io.Reader, out io.Writer) error {
				return unpackFrames(cmd.Context(), a.log, in, out)
			})
		},
	}
	unpackCmd.Flags().StringVarP(&output, "output", "o", "-", "Output file, - for stdout")

	return unpackCmd
}

// withFiles opens input and output ("-" meaning stdin and stdout) and hands
// them to fn.
func withFiles(cmd *cobra.Command, input, output string, fn func(io.Reader, io.Writer) error) error {
	in := cmd.InOrStdin()
	if input != "-" {
		f, err := os.Open(input)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	if output == "-" {
		return fn(in, cmd.OutOrStdout())
	}

	f, err := os.Create(output)
	if err != nil {
		return err
	}
	if err := fn(in, f); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

// packFrames reads in on a pipe goroutine, cutting it into frames, while the
// calling goroutine copies the framed stream to out.
func packFrames(ctx context.Context, log *zap.Logger, in io.Reader, out io.Writer, chunkSize int, opts ...frame.Option) error {
	var stats compress.Stats
	digest := hash.NewDigest()

	p, err := pipe.Start(ctx, func(w io.Writer) error {
		sw, err := frame.NewStreamWriter(w, opts...)
		if err != nil {
			return err
		}
		defer sw.Release()

		chunk := make([]byte, chunkSize)
		for {
			n, err := io.ReadFull(in, chunk)
			if n > 0 {
				if werr := sw.WriteFrame(chunk[:n]); werr != nil {
					return werr
				}
				_, _ = digest.Write(chunk[:n])
				stats.OriginalSize += int64(n)
			}
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				log.Debug("input packed", zap.Int("frames", sw.Frames()))
				return nil
			}
			if err != nil {
				return err
			}
		}
	}, pipe.WithLogger(log))
	if err != nil {
		return err
	}

	written, copyErr := io.Copy(out, p)
	if err := p.Wait(); err != nil {
		return err
	}
	if copyErr != nil {
		return copyErr
	}

	stats.CompressedSize = written
	log.Info("packed",
		zap.Int64("input", stats.OriginalSize),
		zap.Int64("output", stats.CompressedSize),
		zap.Float64("savings", stats.SpaceSavings()),
		zap.String("xxhash", fmt.Sprintf("%016x", digest.Sum64())))

	return nil
}

// unpackFrames streams in through a pipe and writes every frame payload to out.
func unpackFrames(ctx context.Context, log *zap.Logger, in io.Reader, out io.Writer) error {
	p, err := pipe.Start(ctx, func(w io.Writer) error {
		_, err := io.Copy(w, in)
		return err
	}, pipe.WithLogger(log))
	if err != nil {
		return err
	}

	digest := hash.NewDigest()

	sr, err := frame.NewStreamReader(p)
	if err != nil {
		_ = p.Close()
		return err
	}

	for {
		payload, err := sr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			_ = p.Close()
			return fmt.Errorf("frame %d: %w", sr.Frames(), err)
		}
		if _, err := out.Write(payload); err != nil {
			_ = p.Close()
			return err
		}
		_, _ = digest.Write(payload)
	}
	log.Info("unpacked",
		zap.Int("frames", sr.Frames()),
		zap.String("xxhash", fmt.Sprintf("%016x", digest.Sum64())))

	return p.Wait()
}
