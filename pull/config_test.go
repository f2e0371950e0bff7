package pull

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 54.0, cfg.MinPullDownDistance)
	assert.Equal(t, 54.0, cfg.MinPullUpDistance)
	assert.Equal(t, 300*time.Millisecond, cfg.MinDisplayTime)
	assert.True(t, cfg.ShowTopIndicator)
	assert.True(t, cfg.ShowBottomIndicator)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Config)
		field string
	}{
		{"negative down distance", func(c *Config) { c.MinPullDownDistance = -1 }, "MinPullDownDistance"},
		{"nan up distance", func(c *Config) { c.MinPullUpDistance = math.NaN() }, "MinPullUpDistance"},
		{"infinite down distance", func(c *Config) { c.MinPullDownDistance = math.Inf(1) }, "MinPullDownDistance"},
		{"negative display time", func(c *Config) { c.MinDisplayTime = -time.Millisecond }, "MinDisplayTime"},
		{"zero row units", func(c *Config) { c.RowUnits = 0 }, "RowUnits"},
		{"zero resistance", func(c *Config) { c.Resistance = 0 }, "Resistance"},
		{"resistance above one", func(c *Config) { c.Resistance = 1.5 }, "Resistance"},
		{"negative wheel delta", func(c *Config) { c.WheelDelta = -2 }, "WheelDelta"},
		{"negative frame interval", func(c *Config) { c.FrameInterval = -1 }, "FrameInterval"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.edit(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))

			var ce *ConfigError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestConfigZeroDistancesAllowed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinPullDownDistance = 0
	cfg.MinPullUpDistance = 0
	cfg.MinDisplayTime = 0
	cfg.FrameInterval = 0
	assert.NoError(t, cfg.Validate())
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinPullUpDistance = -54
	_, err := New(cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
