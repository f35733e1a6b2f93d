package scheduler

import "time"

// Defaults applied to zero-valued configuration fields.
const (
	DefaultIntervalHours       = 24
	DefaultRetryAttempts       = 3
	DefaultRetryBackoffSeconds = 60
)

// UpdateConfig controls the refresh cadence.
type UpdateConfig struct {
	// IntervalHours is the time between periodic updates.
	IntervalHours float64 `mapstructure:"interval_hours" json:"interval_hours" yaml:"interval_hours" validate:"gte=0"`
	// RetryAttempts is how many times a failed update is retried.
	RetryAttempts int `mapstructure:"retry_attempts" json:"retry_attempts" yaml:"retry_attempts" validate:"gte=0"`
	// RetryBackoffSeconds is the pause between retries.
	RetryBackoffSeconds float64 `mapstructure:"retry_backoff_seconds" json:"retry_backoff_seconds" yaml:"retry_backoff_seconds" validate:"gte=0"`
}

// DefaultUpdateConfig returns a daily update with three retries a minute
// apart.
func DefaultUpdateConfig() UpdateConfig {
	return UpdateConfig{
		IntervalHours:       DefaultIntervalHours,
		RetryAttempts:       DefaultRetryAttempts,
		RetryBackoffSeconds: DefaultRetryBackoffSeconds,
	}
}

// WithDefaults replaces a non-positive interval and negative retry
// settings with the defaults. Zero retries and zero backoff are honored.
func (c UpdateConfig) WithDefaults() UpdateConfig {
	if c.IntervalHours <= 0 {
		c.IntervalHours = DefaultIntervalHours
	}
	if c.RetryAttempts < 0 {
		c.RetryAttempts = DefaultRetryAttempts
	}
	if c.RetryBackoffSeconds < 0 {
		c.RetryBackoffSeconds = DefaultRetryBackoffSeconds
	}
	return c
}

// Interval returns IntervalHours as a duration.
func (c UpdateConfig) Interval() time.Duration {
	return time.Duration(c.IntervalHours * float64(time.Hour))
}

// Backoff returns RetryBackoffSeconds as a duration.
func (c UpdateConfig) Backoff() time.Duration {
	return time.Duration(c.RetryBackoffSeconds * float64(time.Second))
}
