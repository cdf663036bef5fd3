package par

import (
	"strings"

	"github.com/pulsartiming/gopsr/internal/parsetools"
	"github.com/pulsartiming/gopsr/psrerr"
)

// Selector picks the TOAs a jump applies to. It is one of MJDRange,
// FreqRange, Telescope, ProfileName or FlagSelector.
type Selector interface {
	// Tokens returns the selector as written after JUMP.
	Tokens() []string
}

// MJDRange selects TOAs between two dates.
type MJDRange struct {
	Start, End float64
}

// FreqRange selects TOAs between two observing frequencies (MHz).
type FreqRange struct {
	Low, High float64
}

// Telescope selects TOAs by site identifier.
type Telescope string

// ProfileName selects TOAs by profile (archive) name.
type ProfileName string

// FlagSelector selects TOAs whose flag Key has Value, e.g. "-be GUPPI".
type FlagSelector struct {
	Key, Value string
}

func (s MJDRange) Tokens() []string {
	return []string{"MJD", parsetools.FormatFloat(s.Start), parsetools.FormatFloat(s.End)}
}

func (s FreqRange) Tokens() []string {
	return []string{"FREQ", parsetools.FormatFloat(s.Low), parsetools.FormatFloat(s.High)}
}

func (s Telescope) Tokens() []string { return []string{"TEL", string(s)} }

func (s ProfileName) Tokens() []string { return []string{"NAME", string(s)} }

func (s FlagSelector) Tokens() []string { return []string{s.Key, s.Value} }

// Jump is a constant offset applied to the TOAs matching Selector.
type Jump struct {
	Selector Selector
	Offset   float64
	Fit      bool
}

// String renders the jump as a par-file line without the newline.
func (j Jump) String() string {
	parts := append([]string{"JUMP"}, j.Selector.Tokens()...)
	parts = append(parts, parsetools.FormatFloat(j.Offset), parsetools.FormatBool(j.Fit))
	return strings.Join(parts, " ")
}

// ParseJump parses the tokens of one JUMP line, JUMP keyword included. A
// line too short for its selector is KindIncompleteJump carrying the line.
func ParseJump(tokens []string) (Jump, error) {
	line := strings.Join(tokens, " ")
	incomplete := psrerr.New(psrerr.KindIncompleteJump, line)

	if len(tokens) < 3 || tokens[0] != jumpEntry.Name {
		return Jump{}, incomplete
	}
	rest := tokens[2:]
	next := func() (string, bool) {
		if len(rest) == 0 {
			return "", false
		}
		tok := rest[0]
		rest = rest[1:]
		return tok, true
	}
	nextFloat := func() (float64, error) {
		tok, ok := next()
		if !ok {
			return 0, incomplete
		}
		return parsetools.Float(tok)
	}
	nextString := func() (string, error) {
		tok, ok := next()
		if !ok {
			return "", incomplete
		}
		return tok, nil
	}

	var j Jump
	switch kind := tokens[1]; kind {
	case "MJD", "FREQ":
		lo, err := nextFloat()
		if err != nil {
			return Jump{}, err
		}
		hi, err := nextFloat()
		if err != nil {
			return Jump{}, err
		}
		if kind == "MJD" {
			j.Selector = MJDRange{Start: lo, End: hi}
		} else {
			j.Selector = FreqRange{Low: lo, High: hi}
		}
	case "TEL", "NAME":
		v, err := nextString()
		if err != nil {
			return Jump{}, err
		}
		if kind == "TEL" {
			j.Selector = Telescope(v)
		} else {
			j.Selector = ProfileName(v)
		}
	default:
		v, err := nextString()
		if err != nil {
			return Jump{}, err
		}
		j.Selector = FlagSelector{Key: kind, Value: v}
	}

	offset, err := nextFloat()
	if err != nil {
		return Jump{}, err
	}
	fitText, err := nextString()
	if err != nil {
		return Jump{}, err
	}
	fit, err := parsetools.Bool(fitText)
	if err != nil {
		return Jump{}, err
	}

	j.Offset = offset
	j.Fit = fit
	return j, nil
}
