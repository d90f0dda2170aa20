package config

import "time"

// ShutdownConfig bounds how long each server gets to drain in-flight requests.
type ShutdownConfig struct {
	Timeout time.Duration `koanf:"timeout"`
}

func (c *ShutdownConfig) String() string {
	return newSection("Shutdown").add("timeout", c.Timeout).String()
}

func (c *ShutdownConfig) Validate() error {
	var p problems
	if c.Timeout <= 0 {
		p.addf("timeout must be positive, got %v", c.Timeout)
	}
	return p.err("shutdown")
}
