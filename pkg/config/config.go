// Package config handles configuration for perspective-pom.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/devicelab-dev/perspective-pom/pkg/core"
	"github.com/devicelab-dev/perspective-pom/pkg/interact"
)

// Supported drivers
const (
	DriverPlaywright = "playwright"
	DriverCDP        = "cdp"
)

// Environment overrides
const (
	EnvGateway   = "POM_GATEWAY"
	EnvProject   = "POM_PROJECT"
	EnvEntryPath = "POM_ENTRY_PATH"
	EnvDriver    = "POM_DRIVER"
	EnvBrowser   = "POM_BROWSER"
	EnvHeadless  = "POM_HEADLESS"
	EnvLogFile   = "POM_LOG_FILE"
)

// Timeouts holds the interaction timing. Zero fields fall back to the interact defaults.
type Timeouts struct {
	Locate time.Duration `yaml:"locate"`
	Wait   time.Duration `yaml:"wait"`
	Poll   time.Duration `yaml:"poll"`
	Verify time.Duration `yaml:"verify"`
}

// Config represents the workspace configuration (pom.yaml).
type Config struct {
	// Site under test
	Gateway   string `yaml:"gateway"`   // Base URL of the web gateway
	Project   string `yaml:"project"`   // Overrides the project of every page map
	EntryPath string `yaml:"entryPath"` // Path opened to bootstrap a session

	// Browser settings
	Driver    string `yaml:"driver"`    // playwright or cdp
	Browser   string `yaml:"browser"`   // chromium, firefox or webkit
	Headless  *bool  `yaml:"headless"`  // Default: true
	RemoteURL string `yaml:"remoteURL"` // DevTools websocket of a running Chrome (cdp only)

	Timeouts Timeouts `yaml:"timeouts"`

	// Page map selection
	PageMaps []string `yaml:"pageMaps"` // Files or directories, relative to the config file

	// Output
	LogFile   string              `yaml:"logFile"`
	Artifacts core.ArtifactConfig `yaml:"artifacts"`

	dir string
}

// Default returns an empty configuration with defaults applied.
func Default() *Config {
	cfg := &Config{Artifacts: core.DefaultArtifactConfig()}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a file, then applies a .env file next to it and
// POM_* environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided config file
	if err != nil {
		return nil, err
	}

	cfg := &Config{Artifacts: core.DefaultArtifactConfig()}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.dir = filepath.Dir(path)

	if err := loadDotEnv(cfg.dir); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// LoadFromDir looks for pom.yaml or pom.yml in the directory.
func LoadFromDir(dir string) (*Config, error) {
	for _, name := range []string{"pom.yaml", "pom.yml"} {
		configPath := filepath.Join(dir, name)
		if _, err := os.Stat(configPath); err == nil {
			return Load(configPath)
		}
	}

	// No config file found: environment only
	cfg := &Config{Artifacts: core.DefaultArtifactConfig(), dir: dir}
	if err := loadDotEnv(dir); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// loadDotEnv reads dir/.env when present. Variables already set in the process win.
func loadDotEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	strs := []struct {
		key string
		dst *string
	}{
		{EnvGateway, &c.Gateway},
		{EnvProject, &c.Project},
		{EnvEntryPath, &c.EntryPath},
		{EnvDriver, &c.Driver},
		{EnvBrowser, &c.Browser},
		{EnvLogFile, &c.LogFile},
	}
	for _, s := range strs {
		if v, ok := os.LookupEnv(s.key); ok && v != "" {
			*s.dst = v
		}
	}

	if v, ok := os.LookupEnv(EnvHeadless); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return core.ErrInvalidConfig.WithMessage(fmt.Sprintf("%s: %q is not a boolean", EnvHeadless, v))
		}
		c.Headless = &b
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Driver == "" {
		c.Driver = DriverPlaywright
	}
	if c.Browser == "" {
		c.Browser = "chromium"
	}
	if c.Headless == nil {
		headless := true
		c.Headless = &headless
	}
}

// Validate checks the values a browser session needs.
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverPlaywright, DriverCDP:
	default:
		return core.ErrInvalidConfig.WithMessage(fmt.Sprintf("unsupported driver %q", c.Driver))
	}
	if c.Gateway == "" {
		return core.ErrInvalidConfig.WithMessage("gateway is not set")
	}
	t := c.Timeouts
	if t.Locate < 0 || t.Wait < 0 || t.Poll < 0 || t.Verify < 0 {
		return core.ErrInvalidConfig.WithMessage("timeouts must not be negative")
	}
	return nil
}

// IsHeadless reports whether the browser runs without a window.
func (c *Config) IsHeadless() bool {
	return c.Headless == nil || *c.Headless
}

// Options returns the interaction timing for a session.
func (c *Config) Options() interact.Options {
	return interact.DefaultOptions().Merge(interact.Options{
		LocateTimeout: c.Timeouts.Locate,
		WaitTimeout:   c.Timeouts.Wait,
		PollInterval:  c.Timeouts.Poll,
		VerifyTimeout: c.Timeouts.Verify,
	})
}

// EntryURL joins the gateway and the entry path.
func (c *Config) EntryURL() string {
	gateway := strings.TrimRight(c.Gateway, "/")
	entry := strings.TrimLeft(c.EntryPath, "/")
	if entry == "" {
		return gateway + "/"
	}
	return gateway + "/" + entry
}

// PageMapPaths returns PageMaps resolved against the config file's directory.
func (c *Config) PageMapPaths() []string {
	paths := make([]string, len(c.PageMaps))
	for i, p := range c.PageMaps {
		if filepath.IsAbs(p) || c.dir == "" {
			paths[i] = p
			continue
		}
		paths[i] = filepath.Join(c.dir, p)
	}
	return paths
}
