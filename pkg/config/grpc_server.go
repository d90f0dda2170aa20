package config

import "strconv"

type GrpcServerConfig struct {
	Port              string `koanf:"port"`
	ReflectionEnabled bool   `koanf:"reflection"`
}

func (c *GrpcServerConfig) String() string {
	return newSection("gRPC Server").add("port", c.Port).add("reflection", c.ReflectionEnabled).String()
}

func (c *GrpcServerConfig) Validate() error {
	var p problems
	if c.Port == "" {
		p.addf("port is not configured")
	} else if n, err := strconv.Atoi(c.Port); err != nil || n <= 0 || n > 65535 {
		p.addf("port %q is not a valid TCP port", c.Port)
	}
	return p.err("grpc")
}
