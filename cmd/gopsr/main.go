// Command gopsr checks, normalizes and inspects pulsar timing files.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pulsartiming/gopsr"
	"github.com/pulsartiming/gopsr/cmd/internal/cliutil"
	"github.com/pulsartiming/gopsr/internal/config"
)

// Exit codes.
const (
	exitOK    = 0 // success
	exitError = 1 // problems found, or processing failure
)

// errProblems reports that a command found problems it already printed.
var errProblems = errors.New("problems found")

type app struct {
	errOut io.Writer

	configFile string
	verbose    int
	v          *viper.Viper
	cfg        config.Config
	logger     *slog.Logger
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{errOut: stderr}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errProblems) {
			cliutil.PrintError(stderr, "%v", err)
		}
		return exitError
	}
	return exitOK
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gopsr",
		Short:         "Pulsar timing file toolkit",
		Long:          "gopsr checks, normalizes and inspects pulsar parameter (.par) and times-of-arrival (.tim) files.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default .gopsr.yaml or .gopsr.toml)")
	flags.CountVarP(&a.verbose, "verbose", "v", "debug logging, repeat for trace logging")
	flags.String("strictness", "", "unknown par keys: strict or permissive")
	flags.String("tim-format", "", "TOA line format: tempo2 or parkes")
	flags.Int("max-include-depth", 0, "maximum INCLUDE nesting")
	flags.Bool("strict-flags", false, "reject a flag repeated on one TOA line")
	flags.Int("concurrency", 0, "files read in parallel")
	flags.String("search-path", "", "directories searched for files not found directly, in PATH form")

	root.AddCommand(
		a.lintCmd(),
		a.fmtCmd(),
		a.dumpCmd(),
		a.toasCmd(),
		a.keysCmd(),
		a.watchCmd(),
		versionCmd(),
	)
	return root
}

// flagKeys maps persistent flags to config keys.
var flagKeys = map[string]string{
	"strictness":        config.KeyStrictness,
	"tim-format":        config.KeyFormat,
	"max-include-depth": config.KeyMaxIncludeDepth,
	"strict-flags":      config.KeyStrictFlags,
	"concurrency":       config.KeyConcurrency,
	"search-path":       config.KeySearchPath,
}

func (a *app) loadConfig(cmd *cobra.Command) error {
	a.v = config.New(a.configFile)
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			if err := a.v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = a.setupLogger()
	return nil
}

func (a *app) setupLogger() *slog.Logger {
	verbose := a.verbose
	if verbose == 0 && a.cfg.Verbose {
		verbose = 1
	}
	if verbose == 0 {
		return nil
	}
	level := slog.LevelDebug
	if verbose >= 2 {
		level = gopsr.LevelTrace
	}
	return slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{
		Level: level,
	}))
}

func (a *app) log(level slog.Level, msg string, attrs ...slog.Attr) {
	if a.logger != nil {
		a.logger.LogAttrs(context.Background(), level, msg, attrs...)
	}
}

func (a *app) options() []gopsr.Option {
	return a.cfg.Options(a.logger)
}

// outputFormat returns flag when set, else the configured output format.
func (a *app) outputFormat(flag string, allowed ...string) (string, error) {
	format := flag
	if format == "" {
		format = a.cfg.OutputFormat
	}
	for _, f := range allowed {
		if f == format {
			return format, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (want %s)", format, strings.Join(allowed, ", "))
}

// fileKind classifies a path by extension.
func fileKind(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".par":
		return "par"
	case ".tim":
		return "tim"
	}
	return ""
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			version := "(devel)"
			if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
				version = info.Main.Version
			}
			fmt.Fprintf(cmd.OutOrStdout(), "gopsr %s\n", version)
		},
	}
}
