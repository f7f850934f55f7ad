package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSetDefaults(t *testing.T) {
	c := &Config{}
	c.SetDefaults()
	if c.Docs.Root != "./repos" {
		t.Fatalf("expected ./repos, got %s", c.Docs.Root)
	}
	if len(c.Docs.IgnoreDirs) != 1 || c.Docs.IgnoreDirs[0] != "version" {
		t.Fatalf("expected version ignore dir, got %v", c.Docs.IgnoreDirs)
	}
	if len(c.Fetch.Repos) != 17 {
		t.Fatalf("expected 17 default repos, got %d", len(c.Fetch.Repos))
	}
	if c.Dialect.StrictParamDoc || c.Dialect.RequireV3 || c.Dialect.StrictNulls {
		t.Fatalf("expected tolerant dialect defaults, got %+v", c.Dialect)
	}
	if c.Server.Port != 3000 {
		t.Fatalf("expected port 3000")
	}
	if c.Server.Host != "127.0.0.1" {
		t.Fatalf("expected default host")
	}
	if c.Log.Level != "info" {
		t.Fatalf("expected info level")
	}
}

func TestLoadFromYAML(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "config.yaml")
	data := "docs:\n  root: ./docs\ndialect:\n  require_v3: true\nserver:\n  port: 8080\nstore:\n  path: " +
		filepath.Join(tmp, "t.db") + "\n"
	if err := os.WriteFile(cfgPath, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Docs.Root != "./docs" {
		t.Fatalf("unexpected root %s", cfg.Docs.Root)
	}
	if !cfg.Dialect.RequireV3 {
		t.Fatalf("expected require_v3 from yaml")
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("unexpected port %d", cfg.Server.Port)
	}
	// unset sections keep their defaults
	if len(cfg.Docs.Extensions) != 1 || cfg.Docs.Extensions[0] != ".md" {
		t.Fatalf("unexpected extensions %v", cfg.Docs.Extensions)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TASSDOC_DOCS_ROOT", "/tmp/docs")
	t.Setenv("TASSDOC_DIALECT_REQUIRE_V3", "true")
	t.Setenv("TASSDOC_SERVER_PORT", "9999")

	c := &Config{}
	c.SetDefaults()
	applyEnvOverrides(c)
	if c.Docs.Root != "/tmp/docs" {
		t.Fatalf("unexpected root %s", c.Docs.Root)
	}
	if !c.Dialect.RequireV3 {
		t.Fatalf("expected require_v3 from env")
	}
	if c.Server.Port != 9999 {
		t.Fatalf("unexpected port %d", c.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	c := &Config{}
	c.SetDefaults()
	c.Output.Dir = t.TempDir()
	if err := c.Validate(); err != nil {
		t.Fatalf("validate failed: %v", err)
	}

	c.Docs.Root = filepath.Join(t.TempDir(), "missing")
	if err := c.ValidateScan(); err == nil {
		t.Fatalf("expected scan validation error for missing root")
	}
	c.Docs.Root = t.TempDir()
	if err := c.ValidateScan(); err != nil {
		t.Fatalf("scan validate failed: %v", err)
	}

	c.Fetch.Repos = nil
	if err := c.ValidateFetch(); err == nil {
		t.Fatalf("expected fetch validation error")
	}
}
