package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/pulsartiming/gopsr"
)

func (a *app) watchCmd() *cobra.Command {
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch FILE...",
		Short: "Re-lint files whenever they or their includes change",
		Long: `Lint the given par and tim files, then lint them again each time one of
them, or any file a tim file INCLUDEs, is written. Stop with Ctrl-C.`,
		Example: `  gopsr watch J1713+0747.par J1713+0747.tim`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := newWatcher(a, cmd.OutOrStdout(), args, debounce)
			if err != nil {
				return err
			}
			defer w.close()
			return w.run(cmd.Context())
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", 100*time.Millisecond, "quiet period before re-linting")
	return cmd
}

// recordingSource remembers every name it is asked to open, so a lint run
// reports the full include tree of a tim file.
type recordingSource struct {
	gopsr.Source

	mu     sync.Mutex
	opened []string
}

func (s *recordingSource) Open(name string) (io.ReadCloser, error) {
	s.mu.Lock()
	s.opened = append(s.opened, name)
	s.mu.Unlock()
	return s.Source.Open(name)
}

func (s *recordingSource) names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.opened...)
}

type watcher struct {
	app      *app
	out      io.Writer
	targets  []string
	debounce time.Duration

	fw      *fsnotify.Watcher
	dirs    map[string]bool
	watched map[string]bool
}

func newWatcher(a *app, out io.Writer, targets []string, debounce time.Duration) (*watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &watcher{
		app:      a,
		out:      out,
		targets:  targets,
		debounce: debounce,
		fw:       fw,
		dirs:     make(map[string]bool),
		watched:  make(map[string]bool),
	}, nil
}

func (w *watcher) close() {
	_ = w.fw.Close()
}

func (w *watcher) run(ctx context.Context) error {
	w.lintAll(ctx)

	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	var pending time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			if !w.watched[absPath(event.Name)] {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = time.Now()
			}

		case <-ticker.C:
			if !pending.IsZero() && time.Since(pending) >= w.debounce {
				pending = time.Time{}
				w.lintAll(ctx)
			}

		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			w.app.log(slog.LevelDebug, "watch error", slog.String("error", err.Error()))
		}
	}
}

// lintAll lints every target and extends the watch set with every file the
// run opened.
func (w *watcher) lintAll(ctx context.Context) {
	result := lintResult{Files: len(w.targets), Problems: []problem{}}
	for _, name := range w.targets {
		src := &recordingSource{Source: gopsr.OS()}
		err := w.app.lintFile(ctx, name, gopsr.WithSource(src))
		result.Problems = append(result.Problems, problemsOf(name, err)...)

		w.watch(name)
		for _, opened := range src.names() {
			w.watch(opened)
		}
	}

	fmt.Fprintf(w.out, "-- %s\n", time.Now().Format(time.TimeOnly))
	printLintText(w.out, result)
}

func (w *watcher) watch(name string) {
	path := absPath(name)
	w.watched[path] = true

	dir := filepath.Dir(path)
	if w.dirs[dir] {
		return
	}
	if err := w.fw.Add(dir); err != nil {
		w.app.log(slog.LevelDebug, "cannot watch directory",
			slog.String("dir", dir),
			slog.String("error", err.Error()))
		return
	}
	w.dirs[dir] = true
	w.app.log(slog.LevelDebug, "watching directory", slog.String("dir", dir))
}

func absPath(name string) string {
	if abs, err := filepath.Abs(name); err == nil {
		return abs
	}
	return filepath.Clean(name)
}
