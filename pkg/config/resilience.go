package config

import "time"

// ResilienceConfig tunes how event publishing and gRPC clients react to a failing peer.
type ResilienceConfig struct {
	Retry          RetryConfig          `koanf:"retry"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuitbreaker"`
}

// RetryConfig counts the first attempt in MaxAttempts.
type RetryConfig struct {
	MaxAttempts    uint          `koanf:"maxattempts"`
	InitialBackoff time.Duration `koanf:"initialbackoff"`
}

// CircuitBreakerConfig opens the breaker after ConsecutiveFailures failures in a row,
// or once more than ConsecutiveFailures calls were made and the failure share exceeds
// ErrorRatePercent. It half-opens after OpenTimeout.
type CircuitBreakerConfig struct {
	ConsecutiveFailures uint32        `koanf:"consecutivefailures"`
	ErrorRatePercent    int           `koanf:"errorratepercent"`
	OpenTimeout         time.Duration `koanf:"opentimeout"`
}

func (c *ResilienceConfig) String() string {
	cb := c.CircuitBreaker
	return newSection("Resilience").
		add("retry.maxattempts", c.Retry.MaxAttempts).
		add("retry.initialbackoff", c.Retry.InitialBackoff).
		add("circuitbreaker.consecutivefailures", cb.ConsecutiveFailures).
		add("circuitbreaker.errorratepercent", cb.ErrorRatePercent).
		add("circuitbreaker.opentimeout", cb.OpenTimeout).
		String()
}

func (c *ResilienceConfig) Validate() error {
	var p problems
	if c.Retry.MaxAttempts == 0 {
		p.addf("retry.maxattempts must be at least 1")
	}
	if c.Retry.InitialBackoff <= 0 {
		p.addf("retry.initialbackoff must be positive, got %v", c.Retry.InitialBackoff)
	}
	if c.CircuitBreaker.ConsecutiveFailures == 0 {
		p.addf("circuitbreaker.consecutivefailures must be at least 1")
	}
	if rate := c.CircuitBreaker.ErrorRatePercent; rate < 0 || rate > 100 {
		p.addf("circuitbreaker.errorratepercent must be within 0..100, got %d", rate)
	}
	if c.CircuitBreaker.OpenTimeout <= 0 {
		p.addf("circuitbreaker.opentimeout must be positive, got %v", c.CircuitBreaker.OpenTimeout)
	}
	return p.err("resilience")
}
