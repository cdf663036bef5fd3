// Package tim reads pulsar times-of-arrival (.tim) files.
//
// A tim file holds one TOA per line. Three directives are understood:
//
//	INCLUDE path   read another tim file in place; path is relative to the including file
//	FORMAT 1       declare the Tempo2 format
//	MODE 1         accepted and ignored
//
// Errors raised while handling a line carry the file and line number that
// produced them. When the failing line sits inside an included file, the
// innermost location is kept.
package tim

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/pulsartiming/gopsr/internal/types"
	"github.com/pulsartiming/gopsr/psrerr"
)

// Format is the TOA line layout of a tim file.
type Format uint8

const (
	// Tempo2 is the free-form, whitespace-separated format.
	Tempo2 Format = iota
	// Parkes is the legacy fixed-column format. Only its framing is checked.
	Parkes
)

func (f Format) String() string {
	switch f {
	case Tempo2:
		return "tempo2"
	case Parkes:
		return "parkes"
	default:
		return fmt.Sprintf("format(%d)", f)
	}
}

// ParseFormat maps "tempo2" or "parkes" (any case) to a Format.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(s) {
	case "tempo2", "":
		return Tempo2, true
	case "parkes":
		return Parkes, true
	}
	return Tempo2, false
}

// DefaultMaxIncludeDepth bounds INCLUDE nesting when Reader.MaxIncludeDepth
// is zero.
const DefaultMaxIncludeDepth = 32

// Directive keywords.
const (
	directiveInclude = "INCLUDE"
	directiveFormat  = "FORMAT"
	directiveMode    = "MODE"
)

// Reader reads tim files. The zero value reads Tempo2 files from the local
// file system. A Reader holds no state between calls and may be used
// concurrently.
type Reader struct {
	// Source opens files and resolves includes. Nil means the local file system.
	Source Source
	Format Format
	// MaxIncludeDepth limits INCLUDE nesting. Zero means DefaultMaxIncludeDepth.
	MaxIncludeDepth int
	// StrictFlags turns a repeated flag key on one line into an error
	// instead of keeping the last value.
	StrictFlags bool
	// Logger receives debug and trace events. Nil disables logging.
	Logger *slog.Logger
}

// ReadFile reads the named file and every file it includes, returning the
// TOAs in encounter order.
func (r *Reader) ReadFile(ctx context.Context, name string) ([]TOAInfo, error) {
	s := r.newState()
	if err := s.readFile(ctx, name, 0); err != nil {
		return nil, err
	}
	return s.toas, nil
}

// Read reads TOAs from rd. The name is used for error context and as the
// base for relative includes; an unnamed stream cannot include files.
func (r *Reader) Read(ctx context.Context, name string, rd io.Reader) ([]TOAInfo, error) {
	s := r.newState()
	if name != "" {
		s.stack = append(s.stack, name)
	}
	if err := s.readStream(ctx, name, rd, 0); err != nil {
		return nil, err
	}
	return s.toas, nil
}

func (r *Reader) newState() *readState {
	src := r.Source
	if src == nil {
		src = osSource{}
	}
	depth := r.MaxIncludeDepth
	if depth <= 0 {
		depth = DefaultMaxIncludeDepth
	}
	return &readState{
		src:      src,
		format:   r.Format,
		maxDepth: depth,
		strict:   r.StrictFlags,
		Logger:   types.Logger{L: r.Logger},
	}
}

// readState is the accumulator of one top-level read.
type readState struct {
	src      Source
	format   Format
	maxDepth int
	strict   bool
	types.Logger

	// stack holds the files being read, outermost first.
	stack []string
	toas  []TOAInfo
}

func (s *readState) readFile(ctx context.Context, name string, depth int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if slices.Contains(s.stack, name) {
		return psrerr.New(psrerr.KindIncludeCycle, name)
	}
	if depth > s.maxDepth {
		return psrerr.New(psrerr.KindIncludeDepth, name)
	}

	f, err := s.src.Open(name)
	if err != nil {
		return psrerr.Wrap(psrerr.KindIO, name, err)
	}
	defer f.Close()
	s.Log(slog.LevelDebug, "reading tim file", slog.String("file", name), slog.Int("depth", depth))

	s.stack = append(s.stack, name)
	defer func() { s.stack = s.stack[:len(s.stack)-1] }()

	return s.readStream(ctx, name, f, depth)
}

func (s *readState) readStream(ctx context.Context, name string, rd io.Reader, depth int) error {
	scanner := bufio.NewScanner(rd)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		where := psrerr.TimContext{File: name, Line: line}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.parseLine(ctx, name, scanner.Text(), where, depth); err != nil {
			return psrerr.WithContext(err, where)
		}
	}
	if err := scanner.Err(); err != nil {
		return psrerr.WithContext(psrerr.Wrap(psrerr.KindIO, name, err), psrerr.TimContext{File: name, Line: line})
	}
	return nil
}

func (s *readState) parseLine(ctx context.Context, name, text string, where psrerr.TimContext, depth int) error {
	tokens := strings.Fields(text)
	if len(tokens) == 0 || strings.HasPrefix(tokens[0], "#") {
		return nil
	}

	switch tokens[0] {
	case directiveInclude:
		if len(tokens) < 2 {
			return psrerr.New(psrerr.KindTimUnexpectedEOL, text)
		}
		if name == "" {
			return psrerr.New(psrerr.KindOrphanFile, tokens[1])
		}
		target := s.src.Resolve(name, tokens[1])
		s.Log(slog.LevelDebug, "include",
			slog.String("from", name),
			slog.String("file", target),
			slog.Int("depth", depth+1))
		return s.readFile(ctx, target, depth+1)

	case directiveFormat:
		if len(tokens) < 2 {
			return psrerr.New(psrerr.KindTimUnexpectedEOL, text)
		}
		if tokens[1] != "1" || s.format != Tempo2 {
			return psrerr.New(psrerr.KindTimFormatDiscrepancy, tokens[0]+" "+tokens[1]+" in "+s.format.String()+" mode")
		}
		return nil

	case directiveMode:
		if len(tokens) < 2 {
			return psrerr.New(psrerr.KindTimUnexpectedEOL, text)
		}
		if tokens[1] != "1" {
			s.Log(slog.LevelDebug, "ignoring MODE directive", slog.String("value", tokens[1]))
		}
		return nil
	}

	var (
		toa      TOAInfo
		repeated []string
		err      error
	)
	switch s.format {
	case Parkes:
		toa, err = ParseParkes(text)
	default:
		toa, repeated, err = parseTempo2(tokens, s.strict)
	}
	if err != nil {
		return err
	}
	for _, key := range repeated {
		s.Log(slog.LevelDebug, "flag given more than once, keeping last value",
			slog.String("flag", key),
			slog.String("at", where.String()))
	}

	toa.Origin = where
	s.toas = append(s.toas, toa)
	if s.TraceEnabled() {
		s.Trace("parsed TOA",
			slog.String("at", where.String()),
			slog.String("file", toa.File),
			slog.String("mjd", toa.MJD.String()))
	}
	return nil
}
