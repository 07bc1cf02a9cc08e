// Package config loads viewer preferences from a YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kk-code-lab/lawview/internal/search"
)

// PinPolicy decides what selecting a paragraph does to other pinned panels.
type PinPolicy string

const (
	// PinToggle flips the selected paragraph and leaves the rest alone.
	PinToggle PinPolicy = "toggle"
	// PinExclusive pins only the selected paragraph; selecting elsewhere
	// unpins everything.
	PinExclusive PinPolicy = "exclusive"
)

// ParsePinPolicy accepts the config and flag spelling of a policy.
func ParsePinPolicy(s string) (PinPolicy, error) {
	switch PinPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PinToggle:
		return PinToggle, nil
	case PinExclusive:
		return PinExclusive, nil
	default:
		return "", fmt.Errorf("unknown pin policy %q (want toggle or exclusive)", s)
	}
}

// Labels are the captions of annotation panels.
type Labels struct {
	Evidence  string `yaml:"evidence"`
	Broadcast string `yaml:"broadcast"`
	Comment   string `yaml:"comment"`
}

// Config holds user configuration values.
type Config struct {
	PinPolicy              PinPolicy `yaml:"pin_policy"`
	SearchMode             string    `yaml:"search_mode"`
	ShowTOC                bool      `yaml:"show_toc"`
	TOCWidth               int       `yaml:"toc_width"`
	ShowFocusedAnnotations bool      `yaml:"show_focused_annotations"`
	Labels                 Labels    `yaml:"labels"`
	Watch                  bool      `yaml:"watch"`
}

const (
	DefaultTOCWidth = 24
	minTOCWidth     = 8
	maxTOCWidth     = 80
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		PinPolicy:  PinToggle,
		SearchMode: search.ModeLiteral.String(),
		ShowTOC:    true,
		TOCWidth:   DefaultTOCWidth,
		Labels: Labels{
			Evidence:  "根拠",
			Broadcast: "放送",
			Comment:   "王コメント",
		},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default value; a missing file yields the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result. Unknown
// keys are rejected so typos do not pass silently.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parsing YAML: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	policy, err := ParsePinPolicy(string(c.PinPolicy))
	if err != nil {
		return err
	}
	c.PinPolicy = policy

	mode, err := search.ParseMode(c.SearchMode)
	if err != nil {
		return err
	}
	c.SearchMode = mode.String()

	switch {
	case c.TOCWidth == 0:
		c.TOCWidth = DefaultTOCWidth
	case c.TOCWidth < minTOCWidth || c.TOCWidth > maxTOCWidth:
		return fmt.Errorf("toc_width %d out of range [%d, %d]", c.TOCWidth, minTOCWidth, maxTOCWidth)
	}

	def := Default().Labels
	if c.Labels.Evidence == "" {
		c.Labels.Evidence = def.Evidence
	}
	if c.Labels.Broadcast == "" {
		c.Labels.Broadcast = def.Broadcast
	}
	if c.Labels.Comment == "" {
		c.Labels.Comment = def.Comment
	}
	return nil
}

// Mode returns the configured query interpretation.
func (c Config) Mode() search.Mode {
	mode, _ := search.ParseMode(c.SearchMode)
	return mode
}

// DefaultPath is $XDG_CONFIG_HOME/lawview/config.yaml, falling back to
// ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "lawview", "config.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "lawview", "config.yaml"), nil
}

// LoadDefault loads the file at DefaultPath. Without a home directory the
// defaults are returned.
func LoadDefault() (Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return Default(), nil
	}
	return Load(path)
}
