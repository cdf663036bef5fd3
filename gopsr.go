// Package gopsr reads, checks and writes pulsar timing files: parameter
// (.par) files describing a timing model and times-of-arrival (.tim) files
// with recursive INCLUDE support.
//
// The par and tim packages hold the models and parsers. This package wires
// them to file sources, logging and parallel reads:
//
//	pf, err := gopsr.ReadParFile("J1713+0747.par",
//	    gopsr.WithLogger(slog.Default()),
//	)
//
//	toas, err := gopsr.ReadTimFile(ctx, "J1713+0747.tim",
//	    gopsr.WithSource(gopsr.MustDir("timing")),
//	)
package gopsr

import (
	"context"
	"errors"
	"log/slog"
	"runtime"

	"github.com/pulsartiming/gopsr/internal/types"
	"github.com/pulsartiming/gopsr/par"
	"github.com/pulsartiming/gopsr/tim"
)

// ErrNoFiles is returned when ReadTimFiles is called with no names.
var ErrNoFiles = errors.New("no tim files provided")

// LevelTrace is a custom log level more verbose than Debug.
// Use for per-line logging (classified par keys, parsed TOAs).
// Enable with: &slog.HandlerOptions{Level: slog.Level(-8)}
const LevelTrace = types.LevelTrace

// Option configures the read and write entry points.
type Option func(*config)

type config struct {
	logger      *slog.Logger
	source      Source
	searchPath  []string
	searchDirs  []string
	strictness  par.Strictness
	format      tim.Format
	maxDepth    int
	strictFlags bool
	concurrency int
}

func newConfig(opts []Option) config {
	cfg := config{
		source:      OS(),
		maxDepth:    tim.DefaultMaxIncludeDepth,
		concurrency: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if len(cfg.searchPath) > 0 {
		logger := cfg.sourceLogger()
		cfg.searchDirs = filterExistingDirs(dedup(cfg.searchPath), logger)
	}
	return cfg
}

// WithLogger sets the logger for debug/trace output.
// If not set, no logging occurs (zero overhead).
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithSource sets where files are opened and INCLUDE targets resolved.
// The default is OS().
func WithSource(src Source) Option {
	return func(c *config) {
		if src != nil {
			c.source = src
		}
	}
}

// WithStrictness sets how unknown parameter keys are treated.
func WithStrictness(s par.Strictness) Option {
	return func(c *config) { c.strictness = s }
}

// WithFormat sets the TOA line format of tim files.
func WithFormat(f tim.Format) Option {
	return func(c *config) { c.format = f }
}

// WithMaxIncludeDepth bounds INCLUDE nesting. Values below one keep the
// default.
func WithMaxIncludeDepth(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxDepth = n
		}
	}
}

// WithStrictFlags makes a flag repeated on one TOA line an error instead of
// keeping its last value.
func WithStrictFlags() Option {
	return func(c *config) { c.strictFlags = true }
}

// WithConcurrency bounds how many files ReadTimFiles reads at once.
// Values below one keep the default of runtime.NumCPU().
func WithConcurrency(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

func (c config) parConfig(name string) par.Config {
	return par.Config{
		Logger:     componentLogger(c.logger, "par"),
		Strictness: c.strictness,
		Name:       name,
	}
}

func (c config) timReader(src Source) *tim.Reader {
	return &tim.Reader{
		Source:          src,
		Format:          c.format,
		MaxIncludeDepth: c.maxDepth,
		StrictFlags:     c.strictFlags,
		Logger:          componentLogger(c.logger, "tim"),
	}
}

func componentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("component", component))
}

// logEnabled returns true if logging is enabled at the given level.
func logEnabled(logger *slog.Logger, level slog.Level) bool {
	return logger != nil && logger.Enabled(context.Background(), level)
}
