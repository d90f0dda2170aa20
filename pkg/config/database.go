package config

import (
	"strings"
	"time"
)

type DatabaseConfig struct {
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
	// Migrate applies the embedded schema migrations on startup.
	Migrate bool `koanf:"migrate"`
}

func (c *DatabaseConfig) String() string {
	return newSection("Database").
		add("url", MaskURL(c.URL)).
		add("timeout", c.Timeout).
		add("migrate", c.Migrate).
		String()
}

func (c *DatabaseConfig) Validate() error {
	var p problems
	switch {
	case c.URL == "":
		p.addf("url is not configured")
	case !strings.HasPrefix(c.URL, "postgres://") && !strings.HasPrefix(c.URL, "postgresql://"):
		p.addf("url must start with postgres:// or postgresql://, got %s", MaskURL(c.URL))
	}
	if c.Timeout <= 0 {
		p.addf("timeout must be positive, got %v", c.Timeout)
	}
	return p.err("database")
}

// MaskURL hides everything before the host of a connection URL.
func MaskURL(url string) string {
	if url == "" {
		return "<not configured>"
	}
	if at := strings.LastIndex(url, "@"); at >= 0 {
		return "****" + url[at:]
	}
	return "****"
}
