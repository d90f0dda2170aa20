package config

import "time"

// TelemetryConfig enables span export over OTLP/HTTP. Metrics are always
// collected and served on /metrics.
type TelemetryConfig struct {
	Enabled bool `koanf:"enabled"`
	Traces  struct {
		OtlpHttp OtlpHttpConfig `koanf:"otlphttp"`
	} `koanf:"traces"`
}

type OtlpHttpConfig struct {
	// Endpoint is host:port of the collector, without scheme.
	Endpoint string        `koanf:"endpoint"`
	Insecure bool          `koanf:"insecure"`
	Timeout  time.Duration `koanf:"timeout"`
}

func (c *TelemetryConfig) String() string {
	exp := c.Traces.OtlpHttp
	return newSection("Telemetry").
		add("enabled", c.Enabled).
		add("traces.otlphttp.endpoint", exp.Endpoint).
		add("traces.otlphttp.insecure", exp.Insecure).
		add("traces.otlphttp.timeout", exp.Timeout).
		String()
}

func (c *TelemetryConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	var p problems
	if c.Traces.OtlpHttp.Endpoint == "" {
		p.addf("traces.otlphttp.endpoint is required when enabled")
	}
	if c.Traces.OtlpHttp.Timeout <= 0 {
		p.addf("traces.otlphttp.timeout must be positive, got %v", c.Traces.OtlpHttp.Timeout)
	}
	return p.err("telemetry")
}
