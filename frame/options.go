package frame

import (
	"fmt"
	"math"

	"github.com/arloliu/vbio/errs"
	"github.com/arloliu/vbio/format"
	"github.com/arloliu/vbio/internal/options"
)

// Magic opens every frame. On the wire it reads "1FBV".
const Magic uint32 = 0x56424631

// DefaultMaxFrameSize bounds both the raw and the stored length of a frame
// unless WithMaxFrameSize says otherwise.
const DefaultMaxFrameSize = 16 * 1024 * 1024

// Option configures an Encoder or a Decoder. Settings that do not apply to
// one side are ignored by it.
type Option = options.Option[*config]

type config struct {
	compression  format.CompressionType
	checksum     bool
	maxFrameSize int
}

func newConfig(opts []Option) (*config, error) {
	cfg := &config{
		compression:  format.CompressionNone,
		maxFrameSize: DefaultMaxFrameSize,
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithCompression selects the payload codec used by an Encoder.
func WithCompression(ct format.CompressionType) Option {
	return options.New(func(c *config) error {
		if !ct.Valid() {
			return fmt.Errorf("%w: %s", errs.ErrUnsupportedCompression, ct)
		}
		c.compression = ct

		return nil
	})
}

// WithChecksum makes an Encoder store an xxHash64 of every payload.
func WithChecksum(enabled bool) Option {
	return options.NoError(func(c *config) {
		c.checksum = enabled
	})
}

// WithMaxFrameSize sets the largest raw or stored payload accepted, in bytes.
// A Decoder rejects larger length fields before allocating anything.
func WithMaxFrameSize(n int) Option {
	return options.New(func(c *config) error {
		if n < 1 || n > math.MaxInt32 {
			return fmt.Errorf("%w: max frame size %d", errs.ErrInvalidLength, n)
		}
		c.maxFrameSize = n

		return nil
	})
}
