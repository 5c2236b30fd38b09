package sheetlayout

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/aerissecure/sheetlayout/errs"
	"github.com/aerissecure/sheetlayout/style"
)

// Config is the YAML form of the generator options.
type Config struct {
	Backend            Backend                 `yaml:"backend"`
	DataSheet          string                  `yaml:"data_sheet"`
	DefaultColumnWidth float64                 `yaml:"default_column_width"`
	DefaultRowHeight   float64                 `yaml:"default_row_height"`
	Styles             map[string]*style.Style `yaml:"styles"`
}

// ParseConfig decodes and validates a configuration.
func ParseConfig(b []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	switch c.Backend {
	case "", Unioffice, Excelize:
	default:
		return nil, errs.Configuration("backend", "unknown backend %q", c.Backend)
	}
	if c.DefaultColumnWidth < 0 || c.DefaultRowHeight < 0 {
		return nil, errs.Configuration("config", "default sizes must not be negative")
	}
	for k, s := range c.Styles {
		if s == nil {
			return nil, errs.Configuration("styles", "style %q is empty", k)
		}
		if s.Key == "" {
			s.Key = k
		}
	}
	return &c, nil
}

// LoadConfig reads and decodes the configuration file at path.
func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	c, err := ParseConfig(b)
	return c, errors.Wrapf(err, "config %s", path)
}

// Options returns the generator options the configuration sets.
func (c *Config) Options() []Option {
	var opts []Option
	if c.Backend != "" {
		opts = append(opts, WithBackend(c.Backend))
	}
	if c.DataSheet != "" {
		opts = append(opts, WithDataSheetName(c.DataSheet))
	}
	if c.DefaultColumnWidth > 0 || c.DefaultRowHeight > 0 {
		opts = append(opts, WithDefaultSizes(c.DefaultColumnWidth, c.DefaultRowHeight))
	}
	if len(c.Styles) > 0 {
		opts = append(opts, WithStyles(c.Styles))
	}
	return opts
}
