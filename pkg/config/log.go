package config

import "strings"

type LogConfig struct {
	Level string `koanf:"level"`
}

func (c *LogConfig) String() string {
	return newSection("Log").add("level", c.Level).String()
}

// Validate accepts an empty level (info is used) or one of debug, info, warn, error.
func (c *LogConfig) Validate() error {
	var p problems
	switch strings.ToLower(c.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		p.addf("unsupported level %q", c.Level)
	}
	return p.err("log")
}
