package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultConfigRelPath = ".tassdoc/config.yaml"

// defaultRepos are the vendor's public documentation repositories.
var defaultRepos = []string{
	"IdM",
	"accounts-payable-integration",
	"assessment",
	"boarding",
	"data-upload-utility",
	"deep-linking",
	"employee-hr",
	"general-ledger-analytics",
	"library-integration",
	"lms-integration",
	"mobile-app",
	"online-enrolments",
	"payroll",
	"public-calendar-and-notices",
	"school-calendar-and-notices",
	"student-academic-analytics",
	"student-details",
}

type DocsConfig struct {
	Root        string   `yaml:"root"`
	IgnoreDirs  []string `yaml:"ignore_dirs"`
	IgnoreFiles []string `yaml:"ignore_files"`
	Extensions  []string `yaml:"extensions"`
}

// DialectConfig holds the parser policies the dialect's source material is
// inconsistent about. The zero value is the tolerant default for each.
type DialectConfig struct {
	StrictParamDoc bool `yaml:"strict_param_doc"`
	RequireV3      bool `yaml:"require_v3"`
	StrictNulls    bool `yaml:"strict_nulls"`
}

type FetchConfig struct {
	BaseURL    string   `yaml:"base_url"`
	Dir        string   `yaml:"dir"`
	PatchesDir string   `yaml:"patches_dir"`
	Repos      []string `yaml:"repos"`
}

type StoreConfig struct {
	Path string `yaml:"path"`
}

type OutputConfig struct {
	Dir     string   `yaml:"dir"`
	Formats []string `yaml:"formats"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type Config struct {
	Docs    DocsConfig    `yaml:"docs"`
	Dialect DialectConfig `yaml:"dialect"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Store   StoreConfig   `yaml:"store"`
	Output  OutputConfig  `yaml:"output"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
}

// Load loads YAML config, then applies env overrides.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}
	cfg.SetDefaults()

	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		configPath = filepath.Join(home, defaultConfigRelPath)
	}

	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read config: %w", err)
	}

	applyEnvOverrides(cfg)

	if cfg.Store.Path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		cfg.Store.Path = filepath.Join(home, ".tassdoc", "tassdoc.db")
	}
	return cfg, nil
}

func (c *Config) SetDefaults() {
	if c.Docs.Root == "" {
		c.Docs.Root = "./repos"
	}
	if len(c.Docs.IgnoreDirs) == 0 {
		// versioned duplicates of each call live under version dirs
		c.Docs.IgnoreDirs = []string{"version"}
	}
	if len(c.Docs.IgnoreFiles) == 0 {
		c.Docs.IgnoreFiles = []string{"README.md"}
	}
	if len(c.Docs.Extensions) == 0 {
		c.Docs.Extensions = []string{".md"}
	}
	if c.Fetch.BaseURL == "" {
		c.Fetch.BaseURL = "https://github.com/TheAlphaSchoolSystemPTYLTD/"
	}
	if c.Fetch.Dir == "" {
		c.Fetch.Dir = "./repos"
	}
	if c.Fetch.PatchesDir == "" {
		c.Fetch.PatchesDir = "./patches"
	}
	if len(c.Fetch.Repos) == 0 {
		c.Fetch.Repos = append([]string(nil), defaultRepos...)
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "./output"
	}
	if len(c.Output.Formats) == 0 {
		c.Output.Formats = []string{"json", "markdown"}
	}
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 3000
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Output.Dir) == "" {
		return errors.New("output.dir cannot be empty")
	}
	if err := ensureWritableDir(c.Output.Dir); err != nil {
		return fmt.Errorf("output.dir not writable: %w", err)
	}
	return nil
}

// ValidateScan enforces scan-specific requirements.
func (c *Config) ValidateScan() error {
	if strings.TrimSpace(c.Docs.Root) == "" {
		return errors.New("docs.root cannot be empty")
	}
	info, err := os.Stat(c.Docs.Root)
	if err != nil {
		return fmt.Errorf("docs.root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("docs.root %s is not a directory", c.Docs.Root)
	}
	return nil
}

// ValidateFetch enforces fetch-specific requirements.
func (c *Config) ValidateFetch() error {
	if strings.TrimSpace(c.Fetch.BaseURL) == "" {
		return errors.New("fetch.base_url cannot be empty")
	}
	if strings.TrimSpace(c.Fetch.Dir) == "" {
		return errors.New("fetch.dir cannot be empty")
	}
	if len(c.Fetch.Repos) == 0 {
		return errors.New("fetch.repos cannot be empty")
	}
	return nil
}

func ensureWritableDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".writable-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

func applyEnvOverrides(c *Config) {
	setString(&c.Docs.Root, "TASSDOC_DOCS_ROOT")
	setBool(&c.Dialect.StrictParamDoc, "TASSDOC_DIALECT_STRICT_PARAM_DOC")
	setBool(&c.Dialect.RequireV3, "TASSDOC_DIALECT_REQUIRE_V3")
	setBool(&c.Dialect.StrictNulls, "TASSDOC_DIALECT_STRICT_NULLS")
	setString(&c.Fetch.BaseURL, "TASSDOC_FETCH_BASE_URL")
	setString(&c.Fetch.Dir, "TASSDOC_FETCH_DIR")
	setString(&c.Fetch.PatchesDir, "TASSDOC_FETCH_PATCHES_DIR")
	setString(&c.Store.Path, "TASSDOC_STORE_PATH")
	setString(&c.Output.Dir, "TASSDOC_OUTPUT_DIR")
	setString(&c.Server.Host, "TASSDOC_SERVER_HOST")
	setInt(&c.Server.Port, "TASSDOC_SERVER_PORT")
	setString(&c.Log.Level, "TASSDOC_LOG_LEVEL")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
