package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	size  int
	label string
	calls []string
}

func withSize(n int) Option[*testConfig] {
	return New(func(c *testConfig) error {
		if n < 0 {
			return errors.New("size cannot be negative")
		}
		c.size = n
		c.calls = append(c.calls, "size")

		return nil
	})
}

func withLabel(s string) Option[*testConfig] {
	return NoError(func(c *testConfig) {
		c.label = s
		c.calls = append(c.calls, "label")
	})
}

func TestApply(t *testing.T) {
	t.Run("applies in order", func(t *testing.T) {
		cfg := &testConfig{}
		err := Apply(cfg, withLabel("a"), withSize(3), withLabel("b"))
		require.NoError(t, err)
		require.Equal(t, 3, cfg.size)
		require.Equal(t, "b", cfg.label)
		require.Equal(t, []string{"label", "size", "label"}, cfg.calls)
	})

	t.Run("stops at first error", func(t *testing.T) {
		cfg := &testConfig{}
		err := Apply(cfg, withSize(-1), withLabel("never"))
		require.EqualError(t, err, "size cannot be negative")
		require.Empty(t, cfg.label)
	})

	t.Run("no options", func(t *testing.T) {
		cfg := &testConfig{size: 7}
		require.NoError(t, Apply(cfg))
		require.Equal(t, 7, cfg.size)
	})

	t.Run("skips nil options", func(t *testing.T) {
		cfg := &testConfig{}
		require.NoError(t, Apply[*testConfig](cfg, nil, withSize(1)))
		require.Equal(t, 1, cfg.size)
	})
}
