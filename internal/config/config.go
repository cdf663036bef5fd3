// Package config loads gopsr CLI settings from .gopsr.yaml or .gopsr.toml,
// GOPSR_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/spf13/viper"

	"github.com/pulsartiming/gopsr"
	"github.com/pulsartiming/gopsr/par"
	"github.com/pulsartiming/gopsr/tim"
)

// EnvPrefix prefixes every environment override, e.g. GOPSR_STRICTNESS.
const EnvPrefix = "GOPSR"

// Keys.
const (
	KeyStrictness      = "strictness"
	KeyFormat          = "format"
	KeyMaxIncludeDepth = "max_include_depth"
	KeyStrictFlags     = "strict_flags"
	KeyConcurrency     = "concurrency"
	KeyVerbose         = "verbose"
	KeyOutputFormat    = "output_format"
	KeySearchPath      = "search_path"
)

// OutputFormats lists the accepted output_format values.
var OutputFormats = []string{"text", "json", "yaml", "toml"}

// Config holds the resolved CLI settings.
type Config struct {
	Strictness      string `mapstructure:"strictness"`
	Format          string `mapstructure:"format"`
	MaxIncludeDepth int    `mapstructure:"max_include_depth"`
	StrictFlags     bool   `mapstructure:"strict_flags"`
	Concurrency     int    `mapstructure:"concurrency"`
	Verbose         bool   `mapstructure:"verbose"`
	OutputFormat    string `mapstructure:"output_format"`
	// SearchPath is a list of directories in PATH form.
	SearchPath string `mapstructure:"search_path"`
}

// New returns a viper instance reading configFile, or .gopsr.{yaml,toml}
// from the working directory and then $HOME when configFile is empty.
func New(configFile string) *viper.Viper {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".gopsr")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	return v
}

// Load reads the config file, if any, and resolves every key against its
// default. A missing config file is not an error unless it was named
// explicitly.
func Load(v *viper.Viper) (Config, error) {
	v.SetDefault(KeyStrictness, par.Strict.String())
	v.SetDefault(KeyFormat, tim.Tempo2.String())
	v.SetDefault(KeyMaxIncludeDepth, tim.DefaultMaxIncludeDepth)
	v.SetDefault(KeyStrictFlags, false)
	v.SetDefault(KeyConcurrency, 0)
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyOutputFormat, "text")
	v.SetDefault(KeySearchPath, "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values outside each key's vocabulary.
func (c Config) Validate() error {
	if _, ok := par.ParseStrictness(c.Strictness); !ok {
		return fmt.Errorf("%s: unknown value %q (want strict or permissive)", KeyStrictness, c.Strictness)
	}
	if _, ok := tim.ParseFormat(c.Format); !ok {
		return fmt.Errorf("%s: unknown value %q (want tempo2 or parkes)", KeyFormat, c.Format)
	}
	if c.MaxIncludeDepth < 0 {
		return fmt.Errorf("%s: must not be negative, got %d", KeyMaxIncludeDepth, c.MaxIncludeDepth)
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("%s: must not be negative, got %d", KeyConcurrency, c.Concurrency)
	}
	if !slices.Contains(OutputFormats, c.OutputFormat) {
		return fmt.Errorf("%s: unknown value %q (want one of %v)", KeyOutputFormat, c.OutputFormat, OutputFormats)
	}
	return nil
}

// Options converts the settings into gopsr read options.
func (c Config) Options(logger *slog.Logger) []gopsr.Option {
	strictness, _ := par.ParseStrictness(c.Strictness)
	format, _ := tim.ParseFormat(c.Format)

	opts := []gopsr.Option{
		gopsr.WithLogger(logger),
		gopsr.WithStrictness(strictness),
		gopsr.WithFormat(format),
		gopsr.WithMaxIncludeDepth(c.MaxIncludeDepth),
		gopsr.WithConcurrency(c.Concurrency),
	}
	if c.StrictFlags {
		opts = append(opts, gopsr.WithStrictFlags())
	}
	if dirs := gopsr.SplitSearchPath(c.SearchPath); len(dirs) > 0 {
		opts = append(opts, gopsr.WithSearchPath(dirs...))
	}
	return opts
}
