package realtime

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/comalice/statestack"
)

// DefaultTickRate is 60 ticks per second.
const DefaultTickRate = 16667 * time.Microsecond

// Config configures a Runner and the machine it drives.
//
//	tick_rate: 16ms
//	max_ticks: 600
//	machine:
//	  id: arcade
//	  switch_mode: top
type Config struct {
	TickRate time.Duration     `yaml:"tick_rate" toml:"tick_rate" mapstructure:"tick_rate"` // Fixed tick interval (default 60 FPS)
	MaxTicks uint64            `yaml:"max_ticks" toml:"max_ticks" mapstructure:"max_ticks"` // Stop after this many ticks (0 = unlimited)
	Machine  statestack.Config `yaml:"machine" toml:"machine" mapstructure:"machine"`
}

// WithDefaults fills unset fields.
func (c Config) WithDefaults() Config {
	if c.TickRate <= 0 {
		c.TickRate = DefaultTickRate
	}
	return c
}

// LoadConfig reads a YAML (.yaml, .yml) or TOML (.toml) config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}
	cfg, err := ParseConfig(data, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes data in the given format ("yaml", "yml" or "toml")
// and applies defaults.
func ParseConfig(data []byte, format string) (Config, error) {
	var cfg Config

	switch strings.ToLower(format) {
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("yaml decode: %w", err)
		}
	case "toml":
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("toml decode: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, fmt.Errorf("toml decode: unknown keys %v", undecoded)
		}
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnsupportedConfig, format)
	}

	return cfg.WithDefaults(), nil
}
