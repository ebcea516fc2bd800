// Package config loads the debugcon configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/goccy/go-yaml"

	"debugcon/device/tty"
	"debugcon/device/video/console"
)

// Backend names the surface that the console renders onto.
type Backend string

const (
	// BackendAuto selects BackendTerm when stdout is a terminal and
	// BackendText otherwise.
	BackendAuto Backend = "auto"
	// BackendTerm renders onto the terminal through tcell.
	BackendTerm Backend = "term"
	// BackendText renders into memory and dumps the characters as text.
	BackendText Backend = "text"
	// BackendPNG renders into memory and writes a PNG screenshot.
	BackendPNG Backend = "png"
)

const (
	OverflowScroll  = "scroll"
	OverflowDiscard = "discard"
)

var (
	ErrInvalidConfig = errors.New("invalid config")

	AllBackends = []string{
		string(BackendAuto),
		string(BackendTerm),
		string(BackendText),
		string(BackendPNG),
	}
	AllOverflows = []string{OverflowScroll, OverflowDiscard}
)

type Config struct {
	Console ConsoleConfig `yaml:"console"`
	Output  OutputConfig  `yaml:"output"`
}

type ConsoleConfig struct {
	// Attribute is the initial attribute byte (background<<4 | foreground).
	Attribute uint8 `yaml:"attribute"`
	// Overflow is one of "scroll" or "discard".
	Overflow string `yaml:"overflow"`
	// Clear fills the surface with blanks in Attribute before running.
	Clear bool `yaml:"clear"`
}

type OutputConfig struct {
	Backend Backend `yaml:"backend"`
	// Path is the destination of text and png output; "-" means stdout.
	Path string `yaml:"path"`
}

// NewConfig returns a configuration populated with the defaults.
func NewConfig() *Config {
	return &Config{
		Console: ConsoleConfig{
			Attribute: console.DefaultAttr,
			Overflow:  OverflowScroll,
			Clear:     true,
		},
		Output: OutputConfig{
			Backend: BackendAuto,
			Path:    "-",
		},
	}
}

// Load reads the configuration file at path. A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return NewConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML data on top of the defaults and validates the result.
// Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	c := NewConfig()
	if isEmptyDocument(data) {
		return c, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data), yaml.Strict())
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// isEmptyDocument reports whether data holds nothing but blank lines and
// comments. Decoding such a document would zero the defaults.
func isEmptyDocument(data []byte) bool {
	for line := range bytes.Lines(data) {
		line = bytes.TrimSpace(line)
		if len(line) != 0 && line[0] != '#' && !bytes.Equal(line, []byte("---")) {
			return false
		}
	}

	return true
}

// Validate checks that all enumerated fields hold known values.
func (c *Config) Validate() error {
	if !slices.Contains(AllOverflows, c.Console.Overflow) {
		return fmt.Errorf("%w: console.overflow %q, expected one of %v",
			ErrInvalidConfig, c.Console.Overflow, AllOverflows)
	}

	if !slices.Contains(AllBackends, string(c.Output.Backend)) {
		return fmt.Errorf("%w: output.backend %q, expected one of %v",
			ErrInvalidConfig, c.Output.Backend, AllBackends)
	}

	if c.Output.Path == "" {
		return fmt.Errorf("%w: output.path must not be empty", ErrInvalidConfig)
	}

	return nil
}

// OverflowPolicy returns the console overflow policy named by the config.
func (c *Config) OverflowPolicy() tty.OverflowPolicy {
	if c.Console.Overflow == OverflowDiscard {
		return tty.OverflowDiscard
	}

	return tty.OverflowScroll
}

// Write encodes the configuration as YAML.
func (c *Config) Write(w io.Writer) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	_, err = w.Write(data)
	return err
}
