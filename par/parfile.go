// Package par reads, validates and writes pulsar timing parameter (.par)
// files.
//
// A file is parsed line by line. Each line is classified, in order, as a
// glitch sub-field (GLEP_1, GLF0_1, ...), a JUMP, one of the special keys
// (RA, DEC, TIMEEPH, MODEL, T2CMETHOD, UNITS, MODE), or an entry of the
// flag, float, integer or text tables. Once the whole stream is read the
// Parfile is checked as a document: PSR, PEPOCH, F0 and DM must be present,
// no parameter may be given twice, and every glitch must be complete.
//
// Basic usage:
//
//	pf, err := par.Parse(f)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	f0, _ := pf.Lookup("F0")
//	fmt.Println(f0.Value().Value)
package par

import (
	"bufio"
	"io"
	"log/slog"
	"strings"

	"github.com/pulsartiming/gopsr/astro"
	"github.com/pulsartiming/gopsr/internal/parsetools"
	"github.com/pulsartiming/gopsr/internal/types"
	"github.com/pulsartiming/gopsr/psrerr"
)

// Parfile is a parsed parameter file.
//
// Optional enumerations are never given a default: a key absent from the
// file leaves its field Unstated. All fields are exported so that a Parfile
// can be built or edited in code; Write checks it before emitting anything.
type Parfile struct {
	RA  RAParam
	Dec DecParam

	// Floats holds the double-valued parameters in the order they were read.
	Floats   []FloatParam
	Integers []Parameter[uint32]
	Texts    []Parameter[string]
	Flags    []Parameter[bool]

	Glitches []Glitch
	Jumps    []Jump

	TimeEphemeris TimeEphemeris
	BinaryModel   BinaryModel
	T2CMethod     T2CMethod
	Units         Units
	ErrorMode     ErrorMode
}

// New returns an empty Parfile with unset coordinates.
func New() *Parfile {
	return &Parfile{
		RA:  NewParameter(raEntry, FieldValue[astro.RA]{}),
		Dec: NewParameter(decEntry, FieldValue[astro.Dec]{}),
	}
}

// Strictness controls how unknown keys are treated.
type Strictness uint8

const (
	// Strict rejects any key that is not in the parameter tables.
	Strict Strictness = iota
	// Permissive skips unknown keys and logs them at debug level.
	Permissive
)

func (s Strictness) String() string {
	if s == Permissive {
		return "permissive"
	}
	return "strict"
}

// ParseStrictness maps "strict" or "permissive" to a Strictness.
func ParseStrictness(s string) (Strictness, bool) {
	switch strings.ToLower(s) {
	case "strict", "":
		return Strict, true
	case "permissive":
		return Permissive, true
	}
	return Strict, false
}

// Config controls a Read.
type Config struct {
	// Logger receives debug and trace events. Nil disables logging.
	Logger *slog.Logger
	// Strictness decides whether unknown keys are fatal.
	Strictness Strictness
	// Name, when set, is attached to line errors as their file context.
	Name string
}

// Parse reads a parameter file with the default configuration.
func Parse(r io.Reader) (*Parfile, error) {
	return Read(r, Config{})
}

// Read parses a parameter file from r and checks it. The first line error
// aborts the read. Document-level problems are reported together.
func Read(r io.Reader, cfg Config) (*Parfile, error) {
	p := &parser{
		pf:     New(),
		cfg:    cfg,
		Logger: types.Logger{L: cfg.Logger},
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		if err := p.parseLine(scanner.Text()); err != nil {
			return nil, p.attribute(err, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, p.attribute(psrerr.Wrap(psrerr.KindIO, cfg.Name, err), line)
	}

	p.pf.Glitches = p.glitches.compact()
	p.Log(slog.LevelDebug, "parameter file read",
		slog.String("name", cfg.Name),
		slog.Int("lines", line),
		slog.Int("floats", len(p.pf.Floats)),
		slog.Int("glitches", len(p.pf.Glitches)),
		slog.Int("jumps", len(p.pf.Jumps)))

	if err := p.pf.Check(); err != nil {
		return nil, err
	}
	return p.pf, nil
}

type parser struct {
	pf       *Parfile
	cfg      Config
	glitches glitchArena
	types.Logger
}

func (p *parser) attribute(err error, line int) error {
	if p.cfg.Name == "" {
		return err
	}
	return psrerr.WithContext(err, psrerr.TimContext{File: p.cfg.Name, Line: line})
}

func (p *parser) parseLine(line string) error {
	tokens := strings.Fields(line)
	if len(tokens) == 0 || strings.HasPrefix(tokens[0], "#") {
		return nil
	}
	if len(tokens) < 2 {
		return psrerr.New(psrerr.KindMissingValue, tokens[0])
	}
	key := tokens[0]

	ok, overwrote, err := p.glitches.accept(tokens)
	if err != nil {
		return err
	}
	if ok {
		if overwrote {
			p.Log(slog.LevelDebug, "glitch field overwritten", slog.String("key", key))
		}
		p.traceLine(key, "glitch")
		return nil
	}

	if key == jumpEntry.Name {
		j, err := ParseJump(tokens)
		if err != nil {
			return err
		}
		p.pf.Jumps = append(p.pf.Jumps, j)
		p.traceLine(key, "jump")
		return nil
	}

	if ok, err := p.parseSpecial(tokens); ok || err != nil {
		if err == nil {
			p.traceLine(key, "special")
		}
		return err
	}

	if e, ok := LookupFlag(key); ok {
		v, err := parsetools.Bool(tokens[1])
		if err != nil {
			return err
		}
		p.pf.Flags = append(p.pf.Flags, NewParameter(e, v))
		p.traceLine(key, "flag")
		return nil
	}

	if e, ok := LookupFloat(key); ok {
		v, err := parseFitted(tokens, parsetools.Float)
		if err != nil {
			return err
		}
		p.pf.Floats = append(p.pf.Floats, NewParameter(e, v))
		p.traceLine(key, "float")
		return nil
	}

	if e, ok := LookupInteger(key); ok {
		v, err := parsetools.Uint32(tokens[1])
		if err != nil {
			return err
		}
		p.pf.Integers = append(p.pf.Integers, NewParameter(e, v))
		p.traceLine(key, "integer")
		return nil
	}

	if e, ok := LookupText(key); ok {
		p.pf.Texts = append(p.pf.Texts, NewParameter(e, tokens[1]))
		p.traceLine(key, "text")
		return nil
	}

	if p.cfg.Strictness == Permissive {
		p.Log(slog.LevelDebug, "skipping unrecognised key", slog.String("key", key))
		return nil
	}
	return psrerr.New(psrerr.KindUnrecognisedKey, key)
}

func (p *parser) traceLine(key, target string) {
	if p.TraceEnabled() {
		p.Trace("classified line", slog.String("key", key), slog.String("target", target))
	}
}

// parseSpecial handles the keys that live outside the generic tables.
func (p *parser) parseSpecial(tokens []string) (bool, error) {
	key, value := tokens[0], tokens[1]
	pf := p.pf

	switch {
	case raEntry.Matches(key):
		if !pf.RA.Value().IsMissing() {
			return true, psrerr.New(psrerr.KindRepeatParam, raEntry.Name)
		}
		v, err := parseFitted(tokens, astro.ParseRA)
		if err != nil {
			return true, err
		}
		pf.RA = NewParameter(raEntry, v)

	case decEntry.Matches(key):
		if !pf.Dec.Value().IsMissing() {
			return true, psrerr.New(psrerr.KindRepeatParam, decEntry.Name)
		}
		v, err := parseFitted(tokens, astro.ParseDec)
		if err != nil {
			return true, err
		}
		pf.Dec = NewParameter(decEntry, v)

	case timeEphEntry.Matches(key):
		return true, setEnum(&pf.TimeEphemeris, timeEphemerisNames, timeEphEntry, value, psrerr.KindUnknownTimeEphemeris)
	case modelEntry.Matches(key):
		return true, setEnum(&pf.BinaryModel, binaryModelNames, modelEntry, value, psrerr.KindUnknownBinaryModel)
	case t2cMethodEntry.Matches(key):
		return true, setEnum(&pf.T2CMethod, t2cMethodNames, t2cMethodEntry, value, psrerr.KindUnknownT2CMethod)
	case unitsEntry.Matches(key):
		return true, setEnum(&pf.Units, unitsNames, unitsEntry, value, psrerr.KindUnknownUnits)
	case modeEntry.Matches(key):
		return true, setEnum(&pf.ErrorMode, errorModeNames, modeEntry, value, psrerr.KindUnknownErrorMode)

	default:
		return false, nil
	}
	return true, nil
}

func setEnum[E ~uint8](dst *E, names []string, e Entry, value string, unknown psrerr.Kind) error {
	if *dst != 0 {
		return psrerr.New(psrerr.KindRepeatParam, e.Name)
	}
	v, ok := parseEnum[E](names, value)
	if !ok {
		return psrerr.New(unknown, value)
	}
	*dst = v
	return nil
}

// parseFitted reads "KEY VALUE [FIT [ERROR]]". A fit flag without an error
// records a zero uncertainty; tokens past the error are ignored.
func parseFitted[T any](tokens []string, parse func(string) (T, error)) (FieldValue[T], error) {
	v, err := parse(tokens[1])
	if err != nil {
		return FieldValue[T]{}, err
	}
	if len(tokens) < 3 {
		return Just(v), nil
	}
	fit, err := parsetools.Bool(tokens[2])
	if err != nil {
		return FieldValue[T]{}, err
	}
	var uncertainty float64
	if len(tokens) > 3 {
		if uncertainty, err = parsetools.Float(tokens[3]); err != nil {
			return FieldValue[T]{}, err
		}
	}
	return Fitted(v, fit, uncertainty), nil
}

// Lookup returns the first float parameter whose canonical name or alias
// matches key.
func (pf *Parfile) Lookup(key string) (FloatParam, bool) {
	e, ok := LookupFloat(key)
	if !ok {
		return FloatParam{}, false
	}
	for _, p := range pf.Floats {
		if p.Name() == e.Name {
			return p, true
		}
	}
	return FloatParam{}, false
}

// Name returns the PSR value, or "" when the file has none.
func (pf *Parfile) Name() string {
	for _, t := range pf.Texts {
		if t.Name() == "PSR" {
			return t.Value()
		}
	}
	return ""
}
