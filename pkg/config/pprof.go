package config

// PProfConfig controls the optional net/http/pprof listener.
type PProfConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

func (c *PProfConfig) String() string {
	return newSection("PProf").add("enabled", c.Enabled).add("addr", c.Addr).String()
}

func (c *PProfConfig) Validate() error {
	var p problems
	if c.Enabled && c.Addr == "" {
		p.addf("addr is required when enabled")
	}
	return p.err("pprof")
}
