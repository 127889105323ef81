package quality

import (
	"time"

	"codeberg.org/mutker/laserscanqa/internal/errors"
)

const (
	DefaultDensityThreshold      = 1000.0
	DefaultNoiseThreshold        = 0.05
	DefaultCompletenessThreshold = 0.9
	DefaultMaxProcessingTime     = 30 * time.Second
	DefaultNoiseNeighbors        = 5
	DefaultHistorySize           = 100
)

// Thresholds are the pass/fail limits a scan is graded against.
type Thresholds struct {
	Density      float64 // minimum points per cubic unit
	Noise        float64 // maximum acceptable noise level
	Completeness float64 // minimum completeness ratio
}

// Config holds the policy for one assessment session. It is passed by value
// and never mutated after construction.
type Config struct {
	Thresholds

	// NoiseNeighbors is the neighbourhood size k; clouds with fewer than
	// k+1 points report zero noise.
	NoiseNeighbors int

	// MaxProcessingTime bounds a single Run. Zero disables the deadline.
	MaxProcessingTime time.Duration

	// HistorySize caps the in-memory history. Zero disables it.
	HistorySize int
}

func DefaultConfig() Config {
	return Config{
		Thresholds: Thresholds{
			Density:      DefaultDensityThreshold,
			Noise:        DefaultNoiseThreshold,
			Completeness: DefaultCompletenessThreshold,
		},
		NoiseNeighbors:    DefaultNoiseNeighbors,
		MaxProcessingTime: DefaultMaxProcessingTime,
		HistorySize:       DefaultHistorySize,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	switch {
	case c.Density <= 0:
		return errFactory.WithData(ErrInvalidConfig, "density threshold must be positive")
	case c.Noise <= 0:
		return errFactory.WithData(ErrInvalidConfig, "noise threshold must be positive")
	case c.Completeness < 0 || c.Completeness > 1:
		return errFactory.WithData(ErrInvalidConfig, "completeness threshold must be within [0, 1]")
	case c.NoiseNeighbors < 1:
		return errFactory.WithData(ErrInvalidConfig, "noise neighbors must be at least 1")
	case c.MaxProcessingTime < 0:
		return errFactory.WithData(ErrInvalidConfig, "max processing time must not be negative")
	case c.HistorySize < 0:
		return errFactory.WithData(ErrInvalidConfig, "history size must not be negative")
	}

	return nil
}
