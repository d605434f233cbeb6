// Package config loads fastqx.toml, the process configuration for the
// cmd/fastqx CLI: default connection URLs, logging level, and CSV
// defaults. Grounded on the teacher's internal/parser/toml package (a
// BurntSushi/toml-decoded schema struct plus a ParseFile/Parse pair),
// trimmed down to the settings fastqx's adapters actually need.
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"fastqx/internal/errors"
)

// Config is the top-level fastqx.toml document.
type Config struct {
	Log  LogConfig  `toml:"log"`
	SQL  SQLConfig  `toml:"sql"`
	HTTP HTTPConfig `toml:"http"`
	CSV  CSVConfig  `toml:"csv"`
}

// LogConfig controls the slog handler built at startup.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error; default info
}

// SQLConfig names a default connection for the `sql` CLI subcommand.
type SQLConfig struct {
	URL string `toml:"url"`
}

// HTTPConfig names a default base URL for the `http` CLI subcommand.
type HTTPConfig struct {
	BaseURL string `toml:"base_url"`
}

// CSVConfig holds the decoded [csv] table. The `load` subcommand does not
// read it: columns without a --types hint are read as String.
type CSVConfig struct {
	DefaultTypeHint string `toml:"default_type_hint"` // default "String"
}

// Default returns the configuration used when no fastqx.toml is present.
func Default() Config {
	return Config{
		Log: LogConfig{Level: "info"},
		CSV: CSVConfig{DefaultTypeHint: "String"},
	}
}

// Load reads and decodes a fastqx.toml file at path. A missing file is
// not an error: Default() is returned instead, matching the CLI's
// "configuration is optional" contract.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, errors.NewBackendError(fmt.Errorf("opening %s: %w", path, err))
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes TOML content from r into a Config seeded with Default().
func Parse(r io.Reader) (Config, error) {
	cfg := Default()
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return Config{}, errors.NewParseError("decoding fastqx.toml: %v", err)
	}
	return cfg, nil
}
