// Package config loads the excel tool's settings from TOML or YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/jdpolicano/excel/packages/delimited"
	"github.com/jdpolicano/excel/packages/formula"
	"github.com/jdpolicano/excel/packages/logging"
)

// EnvConfigPath names the environment variable holding the config path
const EnvConfigPath = "EXCEL_CONFIG"

// DefaultFunctions is the function set used when none is configured
var DefaultFunctions = []string{"SUM", "IF", "AVERAGE", "AND", "OR", "NOT", "GREATER"}

// Config holds the complete tool configuration
type Config struct {
	Formula FormulaConfig `toml:"formula" yaml:"formula"`
	CSV     CSVConfig     `toml:"csv" yaml:"csv"`
	Output  OutputConfig  `toml:"output" yaml:"output"`
	Log     LogConfig     `toml:"log" yaml:"log"`
}

// FormulaConfig holds parser settings
type FormulaConfig struct {
	Functions []string `toml:"functions" yaml:"functions"`
}

// CSVConfig holds settings for reading and writing delimited text
type CSVConfig struct {
	Delimiter string `toml:"delimiter" yaml:"delimiter"`
	Encoding  string `toml:"encoding" yaml:"encoding"`
	Quoting   string `toml:"quoting" yaml:"quoting"`
}

// OutputConfig holds conversion output settings
type OutputConfig struct {
	Path   string `toml:"path" yaml:"path"`
	SQLite string `toml:"sqlite" yaml:"sqlite"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a config file. files ending in .yaml or .yml are YAML,
// everything else is TOML.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyDefaults()
	cfg.Output.Path = os.ExpandEnv(cfg.Output.Path)
	cfg.Output.SQLite = os.ExpandEnv(cfg.Output.SQLite)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv loads the file named by EXCEL_CONFIG, then ./excel.toml, then
// ./excel.yaml. without any of them the defaults apply.
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return Load(path)
	}

	for _, p := range []string{"./excel.toml", "./excel.yaml"} {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}

	return Default(), nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if len(c.Formula.Functions) == 0 {
		c.Formula.Functions = append([]string(nil), DefaultFunctions...)
	}

	if c.CSV.Delimiter == "" {
		c.CSV.Delimiter = string(delimited.DefaultDelimiter)
	}
	if c.CSV.Encoding == "" {
		c.CSV.Encoding = "utf-8"
	}
	if c.CSV.Quoting == "" {
		c.CSV.Quoting = delimited.QuoteMinimal.String()
	}

	if c.Output.Path == "" {
		c.Output.Path = "out.csv"
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks every setting that has a closed set of values
func (c *Config) Validate() error {
	var errs []error

	for _, name := range c.Formula.Functions {
		if name == "" || strings.ContainsAny(name, "+-*/:(),\" ") {
			errs = append(errs, fmt.Errorf("invalid function name: %q", name))
		}
	}

	if utf8.RuneCountInString(c.CSV.Delimiter) != 1 {
		errs = append(errs, fmt.Errorf("delimiter must be a single character: %q", c.CSV.Delimiter))
	} else if !delimited.ValidDelimiter(c.DelimiterRune()) {
		errs = append(errs, fmt.Errorf("unusable delimiter: %q", c.CSV.Delimiter))
	}

	if _, err := delimited.LookupEncoding(c.CSV.Encoding); err != nil {
		errs = append(errs, err)
	}
	if _, err := delimited.ParseQuoting(c.CSV.Quoting); err != nil {
		errs = append(errs, err)
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// FunctionSet returns the configured function names as a set
func (c *Config) FunctionSet() formula.FunctionSet {
	return formula.NewFunctionSet(c.Formula.Functions...)
}

// DelimiterRune returns the configured field delimiter
func (c *Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.CSV.Delimiter)
	return r
}

// QuotingMode returns the configured writer quoting, minimal when invalid
func (c *Config) QuotingMode() delimited.Quoting {
	q, _ := delimited.ParseQuoting(c.CSV.Quoting)
	return q
}
