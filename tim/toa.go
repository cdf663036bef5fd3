package tim

import (
	"strings"

	"github.com/pulsartiming/gopsr/astro"
	"github.com/pulsartiming/gopsr/internal/parsetools"
	"github.com/pulsartiming/gopsr/psrerr"
)

// TOAInfo is one time of arrival.
type TOAInfo struct {
	// IsBad is set when the line starts with the c/C marker.
	IsBad bool
	// File is the archive the TOA was computed from.
	File string
	// Frequency is the observing frequency (MHz).
	Frequency float64
	MJD       astro.Mjd
	// MJDError is the TOA uncertainty (us).
	MJDError float64
	SiteID   string
	// Comment joins the comment tokens with " -- ". Tokens starting with
	// '#' come first in line order, then every token after a lone "#".
	Comment string
	Flags   map[string]FlagValue
	// Origin is the file and line the TOA was read from.
	Origin psrerr.TimContext
}

// FlagValue is the value of a TOA flag: a number when the token parses as
// one, text otherwise.
type FlagValue struct {
	text    string
	number  float64
	numeric bool
}

// NumberFlag returns a numeric flag value.
func NumberFlag(v float64) FlagValue {
	return FlagValue{text: parsetools.FormatFloat(v), number: v, numeric: true}
}

// TextFlag returns a text flag value.
func TextFlag(s string) FlagValue {
	return FlagValue{text: s}
}

func parseFlagValue(token string) FlagValue {
	if v, err := parsetools.Float(token); err == nil {
		return FlagValue{text: token, number: v, numeric: true}
	}
	return FlagValue{text: token}
}

// Float returns the numeric value and whether the flag is numeric.
func (v FlagValue) Float() (float64, bool) { return v.number, v.numeric }

// IsNumber reports whether the value parsed as a double.
func (v FlagValue) IsNumber() bool { return v.numeric }

// String returns the value as written.
func (v FlagValue) String() string { return v.text }

// Equal reports whether two values hold the same number or text.
func (v FlagValue) Equal(o FlagValue) bool {
	if v.numeric != o.numeric {
		return false
	}
	if v.numeric {
		return v.number == o.number
	}
	return v.text == o.text
}

// requiredFields is the count of FILE FREQ MJD ERROR SITE.
const requiredFields = 5

// ParseTempo2 parses the whitespace-separated tokens of a Tempo2 TOA line:
//
//	[c|C] FILE FREQ MJD ERROR SITE [-FLAG VALUE]... [# comment]
//
// A repeated flag keeps its last value.
func ParseTempo2(tokens []string) (TOAInfo, error) {
	toa, _, err := parseTempo2(tokens, false)
	return toa, err
}

// parseTempo2 also returns the flag keys that were given more than once.
// With strictFlags set a repeated key is an error instead.
func parseTempo2(tokens []string, strictFlags bool) (TOAInfo, []string, error) {
	line := strings.Join(tokens, " ")

	var toa TOAInfo
	toa.IsBad = len(tokens) > 0 && (tokens[0] == "c" || tokens[0] == "C")

	var comments, values []string
	for _, tok := range tokens {
		if len(tok) > 1 && tok[0] == '#' {
			comments = append(comments, tok)
		} else {
			values = append(values, tok)
		}
	}
	for i, tok := range values {
		if tok == "#" {
			comments = append(comments, values[i+1:]...)
			values = values[:i]
			break
		}
	}
	toa.Comment = strings.Join(comments, " -- ")

	// The bad marker is a placeholder and never a value.
	if toa.IsBad && len(values) > 0 {
		values = values[1:]
	}
	// A short line is an EOL error whichever field is absent.
	if len(values) < requiredFields {
		return TOAInfo{}, nil, psrerr.New(psrerr.KindTimUnexpectedEOL, line)
	}

	var err error
	toa.File = values[0]
	if toa.Frequency, err = parsetools.FiniteFloat(values[1]); err != nil {
		return TOAInfo{}, nil, err
	}
	if toa.MJD, err = astro.ParseMjd(values[2]); err != nil {
		return TOAInfo{}, nil, err
	}
	if toa.MJDError, err = parsetools.FiniteFloat(values[3]); err != nil {
		return TOAInfo{}, nil, err
	}
	toa.SiteID = values[4]
	values = values[requiredFields:]

	if len(values)%2 != 0 {
		return TOAInfo{}, nil, psrerr.New(psrerr.KindTimUnvaluedFlag, values[len(values)-1])
	}

	toa.Flags = make(map[string]FlagValue, len(values)/2)
	var repeated []string
	for i := 0; i < len(values); i += 2 {
		key := strings.TrimPrefix(values[i], "-")
		if _, dup := toa.Flags[key]; dup {
			if strictFlags {
				return TOAInfo{}, nil, psrerr.New(psrerr.KindTimDuplicateFlag, key)
			}
			repeated = append(repeated, key)
		}
		toa.Flags[key] = parseFlagValue(values[i+1])
	}

	return toa, repeated, nil
}
