package config

import "time"

// HTTPConfig is the public HTTP listener of the catalog API.
type HTTPConfig struct {
	Port           int `koanf:"port"`
	MaxHeaderBytes int `koanf:"maxHeaderBytes"`
	Timeout        struct {
		Read       time.Duration `koanf:"read"`
		Write      time.Duration `koanf:"write"`
		Idle       time.Duration `koanf:"idle"`
		ReadHeader time.Duration `koanf:"readHeader"`
	} `koanf:"timeout"`
}

func (c *HTTPConfig) String() string {
	return newSection("HTTP Server").
		add("port", c.Port).
		add("maxHeaderBytes", c.MaxHeaderBytes).
		add("timeout.read", c.Timeout.Read).
		add("timeout.write", c.Timeout.Write).
		add("timeout.idle", c.Timeout.Idle).
		add("timeout.readHeader", c.Timeout.ReadHeader).
		String()
}

func (c *HTTPConfig) Validate() error {
	var p problems
	if c.Port <= 0 || c.Port > 65535 {
		p.addf("port %d is out of range", c.Port)
	}
	if c.MaxHeaderBytes < 0 {
		p.addf("maxHeaderBytes must not be negative")
	}
	timeouts := []struct {
		key string
		d   time.Duration
	}{
		{"timeout.read", c.Timeout.Read},
		{"timeout.write", c.Timeout.Write},
		{"timeout.idle", c.Timeout.Idle},
		{"timeout.readHeader", c.Timeout.ReadHeader},
	}
	for _, t := range timeouts {
		if t.d <= 0 {
			p.addf("%s must be positive, got %v", t.key, t.d)
		}
	}
	return p.err("server")
}
