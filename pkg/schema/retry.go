package schema

import "time"

// BackoffStrategy selects how the delay between retry attempts grows.
type BackoffStrategy string

const (
	BackoffConstant    BackoffStrategy = "constant"
	BackoffLinear      BackoffStrategy = "linear"
	BackoffExponential BackoffStrategy = "exponential"
)

// RetryConfig controls pkg/retry.
type RetryConfig struct {
	MaxAttempts     int             `yaml:"max_attempts" json:"max_attempts" mapstructure:"max_attempts"`
	BackoffStrategy BackoffStrategy `yaml:"backoff_strategy" json:"backoff_strategy" mapstructure:"backoff_strategy"`
	InitialDelay    time.Duration   `yaml:"initial_delay" json:"initial_delay" mapstructure:"initial_delay"`
	MaxDelay        time.Duration   `yaml:"max_delay" json:"max_delay" mapstructure:"max_delay"`
	Multiplier      float64         `yaml:"multiplier" json:"multiplier" mapstructure:"multiplier"`
	RandomJitter    bool            `yaml:"random_jitter" json:"random_jitter" mapstructure:"random_jitter"`
	// MaxElapsedTime of zero means no overall limit.
	MaxElapsedTime time.Duration `yaml:"max_elapsed_time" json:"max_elapsed_time" mapstructure:"max_elapsed_time"`
}
