package config

import (
	"runtime"

	"github.com/BurntSushi/toml"
	"github.com/pingcap/errors"

	"github.com/ComedicChimera/shiftreduce/src/logging"
	"github.com/ComedicChimera/shiftreduce/src/syntax"
)

// Output formats for parsed trees
const (
	OutputShort = "short"
	OutputJSON  = "json"
	OutputNone  = "none"
)

// Config is the configuration of a parser run
type Config struct {
	Log     logging.Config `toml:"log" json:"log"`
	Table   Table          `toml:"table" json:"table"`
	Parse   Parse          `toml:"parse" json:"parse"`
	Metrics Metrics        `toml:"metrics" json:"metrics"`
}

// Table names the parsing tables to load
type Table struct {
	Path string `toml:"path" json:"path"`

	// Format is one of "json", "yaml" or "gob".  If it is empty, the format
	// is determined from the extension of Path.
	Format string `toml:"format" json:"format"`
}

// Parse controls how inputs are parsed
type Parse struct {
	// Workers is the number of inputs parsed at the same time
	Workers int `toml:"workers" json:"workers"`

	// Output is one of "short", "json" or "none"
	Output string `toml:"output" json:"output"`

	// Trace logs every action the parser takes at debug level
	Trace bool `toml:"trace" json:"trace"`

	// Extension selects the files parsed when a directory is given as input
	// (eg. ".txt").  If it is empty, every regular file is parsed.
	Extension string `toml:"extension" json:"extension"`
}

// Metrics controls the parser metrics
type Metrics struct {
	Enabled bool `toml:"enabled" json:"enabled"`
}

var defaultConf = Config{
	Log: logging.Config{
		Level:  "warn",
		Format: "text",
	},
	Parse: Parse{
		Workers: runtime.NumCPU(),
		Output:  OutputShort,
	},
}

// Default creates a new config with default values
func Default() *Config {
	conf := defaultConf
	return &conf
}

// Load loads a config file on top of the default values and validates it.
// Unknown keys are rejected.
func Load(path string) (*Config, error) {
	c := Default()

	meta, err := toml.DecodeFile(path, c)
	if err != nil {
		return nil, errors.Trace(err)
	}

	if len(meta.Undecoded()) > 0 {
		return nil, errors.Errorf("unknown keys in config file %s: %v", path, meta.Undecoded())
	}

	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, errors.Annotatef(err, "config file %s", path)
	}

	return c, nil
}

// ApplyDefaults fills in every setting that was explicitly emptied
func (c *Config) ApplyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = defaultConf.Log.Level
	}

	if c.Log.Format == "" {
		c.Log.Format = defaultConf.Log.Format
	}

	if c.Parse.Workers <= 0 {
		c.Parse.Workers = defaultConf.Parse.Workers
	}

	if c.Parse.Output == "" {
		c.Parse.Output = defaultConf.Parse.Output
	}
}

// Validate checks the settings for consistency
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.Errorf("invalid log level '%s'", c.Log.Level)
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.Errorf("invalid log format '%s'", c.Log.Format)
	}

	switch c.Parse.Output {
	case OutputShort, OutputJSON, OutputNone:
	default:
		return errors.Errorf("invalid output format '%s'", c.Parse.Output)
	}

	if c.Table.Format != "" {
		if _, err := syntax.ParseFormat(c.Table.Format); err != nil {
			return err
		}
	}

	return nil
}

// TableFormat returns the format of the tables (empty if it is to be inferred
// from the path)
func (c *Config) TableFormat() syntax.Format {
	if c.Table.Format == "" {
		return ""
	}

	f, _ := syntax.ParseFormat(c.Table.Format)
	return f
}
