package doclink

import "time"

// Config holds the options consumed by the linking core. Zero values are
// filled by DefaultConfig; Validate enforces the sanity checks that are
// fatal to a run.
type Config struct {
	// Model is the reasoning endpoint to target.
	Model string

	// ConfidenceThreshold drops concept links below it. In [0,1].
	ConfidenceThreshold float64

	// BatchSize is the number of sections per reasoning call.
	BatchSize int

	// MaxRetries is the number of additional attempts per failed batch.
	MaxRetries int

	// CacheTTL governs expiry of cached link sets.
	CacheTTL time.Duration

	// MaxSectionChars bounds the combined block length of a section.
	MaxSectionChars int

	// Concurrency limits in-flight reasoning calls.
	Concurrency int
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		Model:               "gemini-2.5-flash",
		ConfidenceThreshold: 0.8,
		BatchSize:           5,
		MaxRetries:          3,
		CacheTTL:            24 * time.Hour,
		MaxSectionChars:     8000,
		Concurrency:         3,
	}
}

// Validate returns an EINVALID error if the configuration fails basic
// sanity checks.
func (c Config) Validate() error {
	if c.Model == "" {
		return Errorf(EINVALID, "model required")
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return Errorf(EINVALID, "confidence threshold %v outside [0,1]", c.ConfidenceThreshold)
	}
	if c.BatchSize < 1 {
		return Errorf(EINVALID, "batch size must be positive")
	}
	if c.MaxRetries < 0 {
		return Errorf(EINVALID, "max retries must not be negative")
	}
	if c.CacheTTL < 0 {
		return Errorf(EINVALID, "cache TTL must not be negative")
	}
	if c.Concurrency < 1 {
		return Errorf(EINVALID, "concurrency must be positive")
	}
	return nil
}
