package pull

import (
	"math"
	"time"
)

// Defaults: 54 units of pull per edge and a 300ms minimum on screen for
// the busy indicator.
const (
	DefaultPullDistance   = 54
	DefaultMinDisplayTime = 300 * time.Millisecond
	DefaultRowUnits       = 18
	DefaultResistance     = 0.5
	DefaultWheelDelta     = 3
	DefaultWheelRelease   = 250 * time.Millisecond
	DefaultFrameInterval  = 16 * time.Millisecond
)

// Config holds the per-list thresholds and timing. Distances are in
// abstract units; RowUnits converts one terminal row into units.
type Config struct {
	MinPullDownDistance float64
	MinPullUpDistance   float64
	MinDisplayTime      time.Duration

	ShowTopIndicator    bool
	ShowBottomIndicator bool

	RowUnits     float64       // units per terminal row
	Resistance   float64       // damping applied to drag distance past an edge, (0,1]
	WheelDelta   int           // rows moved per wheel notch
	WheelRelease time.Duration // wheel idle time treated as a release

	// FrameInterval paces the snap-back animation. Zero disables animation.
	FrameInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		MinPullDownDistance: DefaultPullDistance,
		MinPullUpDistance:   DefaultPullDistance,
		MinDisplayTime:      DefaultMinDisplayTime,
		ShowTopIndicator:    true,
		ShowBottomIndicator: true,
		RowUnits:            DefaultRowUnits,
		Resistance:          DefaultResistance,
		WheelDelta:          DefaultWheelDelta,
		WheelRelease:        DefaultWheelRelease,
		FrameInterval:       DefaultFrameInterval,
	}
}

// Validate rejects values the state machine cannot work with. Nothing is
// clamped: a bad value is a construction error.
func (c Config) Validate() error {
	if err := checkDistance("MinPullDownDistance", c.MinPullDownDistance); err != nil {
		return err
	}
	if err := checkDistance("MinPullUpDistance", c.MinPullUpDistance); err != nil {
		return err
	}
	if c.MinDisplayTime < 0 {
		return &ConfigError{Field: "MinDisplayTime", Value: c.MinDisplayTime, Reason: "must not be negative"}
	}
	if math.IsNaN(c.RowUnits) || math.IsInf(c.RowUnits, 0) || c.RowUnits <= 0 {
		return &ConfigError{Field: "RowUnits", Value: c.RowUnits, Reason: "must be positive"}
	}
	if math.IsNaN(c.Resistance) || c.Resistance <= 0 || c.Resistance > 1 {
		return &ConfigError{Field: "Resistance", Value: c.Resistance, Reason: "must be in (0, 1]"}
	}
	if c.WheelDelta < 0 {
		return &ConfigError{Field: "WheelDelta", Value: c.WheelDelta, Reason: "must not be negative"}
	}
	if c.WheelRelease < 0 {
		return &ConfigError{Field: "WheelRelease", Value: c.WheelRelease, Reason: "must not be negative"}
	}
	if c.FrameInterval < 0 {
		return &ConfigError{Field: "FrameInterval", Value: c.FrameInterval, Reason: "must not be negative"}
	}
	return nil
}

func checkDistance(field string, v float64) error {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return &ConfigError{Field: field, Value: v, Reason: "must be finite"}
	case v < 0:
		return &ConfigError{Field: field, Value: v, Reason: "must not be negative"}
	}
	return nil
}
