package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaultsAndFile(t *testing.T) {
	path := writeConfigFile(t, `
db: /tmp/drill.db
catalog:
  file: countries.yaml
`)
	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DB != "/tmp/drill.db" {
		t.Errorf("db = %q, want /tmp/drill.db", cfg.DB)
	}
	if cfg.Catalog.File != "countries.yaml" {
		t.Errorf("catalog.file = %q, want countries.yaml", cfg.Catalog.File)
	}
	if cfg.Delay != 2*time.Second {
		t.Errorf("delay = %v, want the 2s default", cfg.Delay)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
db: /tmp/from-file.db
catalog:
  file: countries.yaml
`)
	t.Setenv("MAPDRILL_DB", "/tmp/from-env.db")

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DB != "/tmp/from-env.db" {
		t.Errorf("db = %q, want the environment value", cfg.DB)
	}
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Setenv("MAPDRILL_DB", "/tmp/from-env.db")
	t.Setenv("MAPDRILL_CATALOG_FILE", "countries.yaml")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("db", "", "database path")
	if err := flags.Parse([]string{"--db", "/tmp/from-flag.db"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("", flags)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DB != "/tmp/from-flag.db" {
		t.Errorf("db = %q, want the flag value", cfg.DB)
	}
}

func TestValidateRequiresCatalogSource(t *testing.T) {
	cfg := Default()
	if err := Validate(cfg); err == nil {
		t.Error("expected an error when no catalog source is configured")
	}

	cfg.Catalog.File = "countries.yaml"
	if err := Validate(cfg); err != nil {
		t.Errorf("unexpected error with a file source: %v", err)
	}

	cfg.Catalog.File = ""
	cfg.Catalog.Git.URL = "https://example.com/data.git"
	if err := Validate(cfg); err != nil {
		t.Errorf("unexpected error with a git source: %v", err)
	}

	cfg.Catalog.Git.Items = ""
	if err := Validate(cfg); err == nil {
		t.Error("expected an error when git url is set without an items file")
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	if _, err := Load("/does/not/exist.yaml", nil); err == nil {
		t.Error("expected an error for a missing config file")
	}
}
