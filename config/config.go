// Package config loads the TOML configuration of the replay tool and the
// replay scripts it runs.
package config

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Config is the top-level configuration.
type Config struct {
	// RootElement is the selector of the dispatcher root.
	RootElement string `toml:"root_element"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
	// LogFormat is text or json.
	LogFormat string `toml:"log_format"`
	// Events maps native event names to logical names; "" disables.
	Events map[string]string `toml:"events"`
	// ReleaseRemovedActions drops action bindings of removed elements
	// instead of keeping them for re-insertion.
	ReleaseRemovedActions bool `toml:"release_removed_actions"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		RootElement: "body",
		LogLevel:    "info",
		LogFormat:   "text",
		Events:      map[string]string{},
	}
}

// Load reads and parses the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes TOML on top of Default. Unknown keys are an error.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Wrap(err, "parsing config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.RootElement) == "" {
		return errors.New("root_element must not be empty")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "log_level")
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return errors.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	for native := range c.Events {
		if native == "" || strings.ContainsAny(native, " \t") {
			return errors.Errorf("invalid event name %q", native)
		}
	}
	return nil
}

// CustomEvents returns a copy of the event overrides for dispatcher Setup.
func (c *Config) CustomEvents() map[string]string {
	out := make(map[string]string, len(c.Events))
	for native, logical := range c.Events {
		out[native] = logical
	}
	return out
}

// NewLogger builds a logger honoring LogLevel and LogFormat.
func (c *Config) NewLogger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrap(err, "log_level")
	}
	logger := logrus.New()
	logger.SetLevel(level)
	if c.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	return logger, nil
}
