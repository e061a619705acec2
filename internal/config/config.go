// Package config loads runtime configuration: defaults, then a yaml file,
// then environment variables, then command-line flags, each layer overriding
// the previous one.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// envPrefix namespaces the environment variables, e.g. MAPDRILL_DB.
const envPrefix = "MAPDRILL_"

// Git points at a data repository holding the catalog file.
type Git struct {
	URL   string `koanf:"url"`
	Path  string `koanf:"path"`
	Items string `koanf:"items"`
}

// Catalog selects where the item list comes from: a local yaml file or a
// git-synced data repo. Exactly one source must be set; the file wins when
// both are.
type Catalog struct {
	File string `koanf:"file"`
	Git  Git    `koanf:"git"`
}

// Config is the full runtime configuration.
type Config struct {
	DB        string        `koanf:"db" validate:"required"`
	Catalog   Catalog       `koanf:"catalog"`
	Delay     time.Duration `koanf:"delay" validate:"gte=0"`
	Telemetry bool          `koanf:"telemetry"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		DB:        "mapdrill.db",
		Delay:     2 * time.Second,
		Telemetry: true,
		Catalog: Catalog{
			Git: Git{
				Path:  "repos/catalog",
				Items: "countries.yaml",
			},
		},
	}
}

// Load builds the configuration. configFile may be empty; flags may be nil.
func Load(configFile string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("config: loading %s: %w", configFile, err)
		}
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".")
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("config: loading environment: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return Config{}, fmt.Errorf("config: loading flags: %w", err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshalling: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for completeness.
func Validate(cfg Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if cfg.Catalog.File == "" && cfg.Catalog.Git.URL == "" {
		return errors.New("config: a catalog source is required (catalog.file or catalog.git.url)")
	}
	if cfg.Catalog.Git.URL != "" && cfg.Catalog.Git.Items == "" {
		return errors.New("config: catalog.git.items is required with catalog.git.url")
	}
	return nil
}
