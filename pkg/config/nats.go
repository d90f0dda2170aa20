package config

import "time"

// NATSConfig configures the JetStream connection used to publish product events.
// When Enabled is false no connection is made and events are dropped.
type NATSConfig struct {
	Enabled bool          `koanf:"enabled"`
	Url     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
	Stream  string        `koanf:"stream"`
}

func (c *NATSConfig) String() string {
	return newSection("NATS").
		add("enabled", c.Enabled).
		add("url", c.Url).
		add("timeout", c.Timeout).
		add("stream", c.Stream).
		String()
}

func (c *NATSConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	var p problems
	if c.Url == "" {
		p.addf("url is required when enabled")
	}
	if c.Timeout <= 0 {
		p.addf("timeout must be positive, got %v", c.Timeout)
	}
	if c.Stream == "" {
		p.addf("stream is required when enabled")
	}
	return p.err("nats")
}
