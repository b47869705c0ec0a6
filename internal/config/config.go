package config

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/gyeh/rximport/internal/detect"
)

// Config holds all runtime configuration for a rximport run.
type Config struct {
	DSN           string
	FilePath      string
	UserID        string // uuid of the requesting user
	UserFirstName string
	UserLastName  string
	Format        string   // "auto" or an explicit source format
	LogFormat     string   // "text" or "json"
	Formats       []string `yaml:"formats"` // subset of source formats auto-detection may choose
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	Formats []string `yaml:"formats"`
}

// LoadFromFile reads a YAML config file and merges its values into Config.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	c.Formats = yc.Formats
	return c.validateFormats()
}

// validateFormats checks that every entry in Formats is a known source
// format name. If Formats is empty, it defaults to all formats.
func (c *Config) validateFormats() error {
	if len(c.Formats) == 0 {
		c.Formats = make([]string, len(detect.AllFormats))
		for i, f := range detect.AllFormats {
			c.Formats[i] = string(f)
		}
		return nil
	}
	for _, name := range c.Formats {
		f, ok := detect.ParseFormat(name)
		if !ok || f == detect.FormatAuto {
			return fmt.Errorf("unknown source format %q in config", name)
		}
	}
	return nil
}

// FormatEnabled reports whether auto-detection may choose f. An empty
// Formats list enables everything.
func (c *Config) FormatEnabled(f detect.Format) bool {
	if len(c.Formats) == 0 {
		return true
	}
	for _, name := range c.Formats {
		if name == string(f) {
			return true
		}
	}
	return false
}

// Validate checks required fields and returns an error if the config is invalid.
func (c *Config) Validate() error {
	if c.FilePath == "" {
		return fmt.Errorf("--file is required")
	}
	if _, err := os.Stat(c.FilePath); err != nil {
		return fmt.Errorf("file not accessible: %w", err)
	}
	if _, ok := detect.ParseFormat(c.Format); !ok {
		return fmt.Errorf("unknown format %q", c.Format)
	}
	return nil
}

// ValidateWithDSN checks file, user, and DSN fields.
func (c *Config) ValidateWithDSN() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DSN == "" {
		return fmt.Errorf("--dsn or RXIMPORT_DB_URL is required")
	}
	if _, err := uuid.Parse(c.UserID); err != nil {
		return fmt.Errorf("--user must be a valid uuid: %w", err)
	}
	return nil
}
