// Package config handles the client's configuration directory and file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "studybuddy"

	// FileName is the configuration filename.
	FileName = "config.yaml"

	// CredentialsFile is the credential database filename.
	CredentialsFile = "credentials.db"

	// DefaultAPIURL is the task service address used when nothing is
	// configured.
	DefaultAPIURL = "http://localhost:8000"

	// DefaultTimeout is the default API request timeout.
	DefaultTimeout = 10 * time.Second
)

// Config holds the client settings.
type Config struct {
	// APIURL is the base URL of the task service.
	APIURL string

	// Timeout is the API request timeout.
	Timeout time.Duration

	// DataDir is where the credential database lives. Defaults to the
	// config directory.
	DataDir string

	// Dir is the directory the config was loaded from.
	Dir string
}

// fileConfig is the on-disk shape. The timeout is a duration string so the
// file stays hand-editable ("30s", "1m").
type fileConfig struct {
	APIURL  string `yaml:"api_url"`
	Timeout string `yaml:"timeout"`
	DataDir string `yaml:"data_dir"`
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fall back to the working directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// Load reads the config file from dir, applying defaults for anything unset.
// A missing file yields the defaults; a malformed file is an error. If dir is
// empty the default directory is used.
func Load(dir string) (*Config, error) {
	if dir == "" {
		dir = DefaultConfigDir()
	}

	cfg := &Config{
		APIURL:  DefaultAPIURL,
		Timeout: DefaultTimeout,
		Dir:     dir,
	}

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if os.IsNotExist(err) {
		cfg.DataDir = dir
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if fc.APIURL != "" {
		cfg.APIURL = fc.APIURL
	}
	if fc.Timeout != "" {
		timeout, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Timeout = timeout
	}
	cfg.DataDir = fc.DataDir
	if cfg.DataDir == "" {
		cfg.DataDir = dir
	}
	return cfg, nil
}

// CredentialsPath returns the path of the credential database.
func (c *Config) CredentialsPath() string {
	return filepath.Join(c.DataDir, CredentialsFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}
