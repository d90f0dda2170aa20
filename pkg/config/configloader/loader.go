// Package configloader fills a service config from YAML, a .env file and the
// process environment, in increasing order of priority.
package configloader

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	defaultConfigFile = "config.yaml"
	defaultEnvFile    = ".env"
)

type Validator interface {
	Validate() error
}

// Load reads config.yaml and .env from the working directory, then the process
// environment. Variables carry the <SERVICENAME>_ prefix and use "_" as the key
// separator, e.g. CATALOG_SERVER_PORT overrides server.port.
func Load[T Validator](serviceName string) (T, error) {
	return LoadFiles[T](serviceName, defaultConfigFile, defaultEnvFile)
}

// LoadFiles is Load with explicit file locations. Missing files are skipped;
// unreadable ones are reported and skipped.
func LoadFiles[T Validator](serviceName, configFile, envFile string) (T, error) {
	var cfg T
	prefix := strings.ToUpper(serviceName) + "_"
	k := koanf.New(".")

	if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("WARN: skipping config file %s: %v", configFile, err)
	}
	if err := loadEnvFile(k, envFile, prefix); err != nil {
		log.Printf("WARN: skipping env file %s: %v", envFile, err)
	}
	if err := k.Load(env.Provider(prefix, ".", envKey(prefix)), nil); err != nil {
		log.Printf("WARN: skipping environment variables: %v", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("error unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadEnvFile merges the prefixed entries of a dotenv file. Other entries are ignored
// so a shared .env can serve several services.
func loadEnvFile(k *koanf.Koanf, path, prefix string) error {
	entries, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	toKey := envKey(prefix)
	values := make(map[string]any, len(entries))
	for name, value := range entries {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			values[toKey(name)] = value
		}
	}
	return k.Load(confmap.Provider(values, "."), nil)
}

// envKey maps CATALOG_NATS_URL to nats.url.
func envKey(prefix string) func(string) string {
	return func(name string) string {
		name = strings.ToLower(name[min(len(prefix), len(name)):])
		return strings.ReplaceAll(name, "_", ".")
	}
}
