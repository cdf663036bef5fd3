package gopsr

import (
	"context"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/pulsartiming/gopsr/par"
	"github.com/pulsartiming/gopsr/psrerr"
	"github.com/pulsartiming/gopsr/tim"
)

// ReadPar parses and checks a parameter file read from r.
func ReadPar(r io.Reader, opts ...Option) (*par.Parfile, error) {
	cfg := newConfig(opts)
	return par.Read(r, cfg.parConfig(""))
}

// ReadParFile opens name through the configured source, then parses and
// checks it. Line errors carry name as their file context.
func ReadParFile(name string, opts ...Option) (*par.Parfile, error) {
	cfg := newConfig(opts)
	src, path := cfg.locate(name)

	f, err := src.Open(path)
	if err != nil {
		return nil, psrerr.Wrap(psrerr.KindIO, name, err)
	}
	defer f.Close()

	if logEnabled(cfg.logger, slog.LevelDebug) {
		cfg.logger.LogAttrs(context.Background(), slog.LevelDebug, "reading par file",
			slog.String("file", path))
	}
	return par.Read(f, cfg.parConfig(path))
}

// WritePar checks pf and writes it to w. Nothing is written when the check
// fails.
func WritePar(w io.Writer, pf *par.Parfile) error {
	return pf.Write(w)
}

// ReadTim reads TOAs from r. The name gives error context and the base for
// relative INCLUDE targets; pass "" for a stream that includes nothing.
func ReadTim(ctx context.Context, name string, r io.Reader, opts ...Option) ([]tim.TOAInfo, error) {
	cfg := newConfig(opts)
	return cfg.timReader(cfg.source).Read(ctx, name, r)
}

// ReadTimFile reads the named tim file and everything it includes.
//
// Example:
//
//	toas, err := gopsr.ReadTimFile(ctx, "J0437-4715.tim",
//	    gopsr.WithStrictFlags(),
//	    gopsr.WithLogger(slog.Default()),
//	)
func ReadTimFile(ctx context.Context, name string, opts ...Option) ([]tim.TOAInfo, error) {
	cfg := newConfig(opts)
	src, path := cfg.locate(name)
	return cfg.timReader(src).ReadFile(ctx, path)
}

// ReadTimFiles reads independent tim files in parallel. Result i holds the
// TOAs of names[i]. The first failure cancels the remaining reads and is
// returned.
//
// Example:
//
//	src := gopsr.MustDirTree("pta/dr2")
//	names, _ := src.ListFiles()
//	all, err := gopsr.ReadTimFiles(ctx, names,
//	    gopsr.WithSource(src),
//	    gopsr.WithConcurrency(4),
//	)
func ReadTimFiles(ctx context.Context, names []string, opts ...Option) ([][]tim.TOAInfo, error) {
	if len(names) == 0 {
		return nil, ErrNoFiles
	}
	cfg := newConfig(opts)
	logger := cfg.logger

	if logEnabled(logger, slog.LevelDebug) {
		logger.LogAttrs(ctx, slog.LevelDebug, "parallel read",
			slog.Int("files", len(names)),
			slog.Int("concurrency", cfg.concurrency))
	}

	results := make([][]tim.TOAInfo, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.concurrency)
	for i, name := range names {
		g.Go(func() error {
			src, path := cfg.locate(name)
			toas, err := cfg.timReader(src).ReadFile(gctx, path)
			if err != nil {
				return err
			}
			results[i] = toas
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if logEnabled(logger, slog.LevelDebug) {
		total := 0
		for _, toas := range results {
			total += len(toas)
		}
		logger.LogAttrs(ctx, slog.LevelDebug, "parallel read complete",
			slog.Int("files", len(names)),
			slog.Int("toas", total))
	}
	return results, nil
}
