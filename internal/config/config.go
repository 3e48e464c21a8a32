// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all rolodex configuration.
type Config struct {
	Book    Book    `yaml:"book"`
	Session Session `yaml:"session"`
}

// Book holds contact collection settings.
type Book struct {
	PageSize     int    `yaml:"page_size"`     // Records per "show all" page
	DedupePhones bool   `yaml:"dedupe_phones"` // Skip already-present phones on merge
	LeapPolicy   string `yaml:"leap_policy"`   // "normalize" | "strict"
}

// Session holds interactive session settings.
type Session struct {
	Prompt string `yaml:"prompt"`
	Plain  bool   `yaml:"plain"` // Force plain output even on a TTY
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Book: Book{
			PageSize:   5,
			LeapPolicy: "normalize",
		},
		Session: Session{
			Prompt: "Enter command: ",
		},
	}
}

// Load reads a single YAML config file at path and returns a Config.
// For merging multiple config sources, use LoadLayered instead.
// If the file does not exist, defaults are returned without error.
// If the file contains invalid YAML or unknown fields, an error is returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return &cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &cfg, nil
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if c.Book.PageSize < 1 {
		return fmt.Errorf("config: book.page_size must be positive, got %d", c.Book.PageSize)
	}
	switch c.Book.LeapPolicy {
	case "", "normalize", "strict":
		// valid
	default:
		return fmt.Errorf("config: book.leap_policy must be \"normalize\" or \"strict\", got %q", c.Book.LeapPolicy)
	}
	return nil
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: ROLODEX_PAGE_SIZE, ROLODEX_PROMPT, ROLODEX_PLAIN.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("ROLODEX_PAGE_SIZE"); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
			return fmt.Errorf("config: invalid ROLODEX_PAGE_SIZE %q: %w", v, err)
		}
		c.Book.PageSize = n
	}
	if v := os.Getenv("ROLODEX_PROMPT"); v != "" {
		c.Session.Prompt = v
	}
	if v := os.Getenv("ROLODEX_PLAIN"); v != "" {
		switch v {
		case "1", "true", "yes":
			c.Session.Plain = true
		case "0", "false", "no":
			c.Session.Plain = false
		default:
			return fmt.Errorf("config: invalid ROLODEX_PLAIN %q", v)
		}
	}
	return nil
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	Book    *rawBook    `yaml:"book"`
	Session *rawSession `yaml:"session"`
}

type rawBook struct {
	PageSize     *int    `yaml:"page_size"`
	DedupePhones *bool   `yaml:"dedupe_phones"`
	LeapPolicy   *string `yaml:"leap_policy"`
}

type rawSession struct {
	Prompt *string `yaml:"prompt"`
	Plain  *bool   `yaml:"plain"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if layer.Book != nil {
		if layer.Book.PageSize != nil {
			c.Book.PageSize = *layer.Book.PageSize
		}
		if layer.Book.DedupePhones != nil {
			c.Book.DedupePhones = *layer.Book.DedupePhones
		}
		if layer.Book.LeapPolicy != nil {
			c.Book.LeapPolicy = *layer.Book.LeapPolicy
		}
	}
	if layer.Session != nil {
		if layer.Session.Prompt != nil {
			c.Session.Prompt = *layer.Session.Prompt
		}
		if layer.Session.Plain != nil {
			c.Session.Plain = *layer.Session.Plain
		}
	}
}
