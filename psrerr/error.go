// Package psrerr defines the error value returned by the gopsr parsers.
//
// Every failure is an *Error carrying a Kind. Callers match kinds with
// errors.Is, since Kind itself satisfies the error interface:
//
//	if errors.Is(err, psrerr.KindNoFrequency) { ... }
//
// Errors raised while reading a tim file additionally carry a TimContext
// naming the file and line that produced them.
package psrerr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an Error.
type Kind int

const (
	KindUnknown Kind = iota

	// Lexical.
	KindUnparsable

	// I/O.
	KindIO
	KindOrphanFile

	// Coordinates.
	KindInvalidRA
	KindInvalidDec

	// Parameter file lines.
	KindMissingValue
	KindUnrecognisedKey
	KindUnknownBinaryModel
	KindUnknownTimeEphemeris
	KindUnknownT2CMethod
	KindUnknownUnits
	KindUnknownErrorMode
	KindIncompleteJump
	KindRepeatParam

	// Parameter file document checks.
	KindBadGlitch
	KindGlitchGap
	KindNoName
	KindNoFrequency
	KindNoPEpoch
	KindNoDispersion
	KindBadFrequency
	KindBadPEpoch
	KindDuplicateParameters

	// Tim files.
	KindTimUnexpectedEOL
	KindTimUnvaluedFlag
	KindTimDuplicateFlag
	KindTimFormatDiscrepancy
	KindTimNotASCII
	KindTimParkesMissingBlank
	KindTimParkesMissingPeriod
	KindNotImplemented
	KindIncludeCycle
	KindIncludeDepth
)

var kindNames = map[Kind]string{
	KindUnknown:                "unknown",
	KindUnparsable:             "unparsable",
	KindIO:                     "io",
	KindOrphanFile:             "orphan-file",
	KindInvalidRA:              "invalid-ra",
	KindInvalidDec:             "invalid-dec",
	KindMissingValue:           "missing-value",
	KindUnrecognisedKey:        "unrecognised-key",
	KindUnknownBinaryModel:     "unknown-binary-model",
	KindUnknownTimeEphemeris:   "unknown-time-ephemeris",
	KindUnknownT2CMethod:       "unknown-t2c-method",
	KindUnknownUnits:           "unknown-units",
	KindUnknownErrorMode:       "unknown-error-mode",
	KindIncompleteJump:         "incomplete-jump",
	KindRepeatParam:            "repeat-param",
	KindBadGlitch:              "bad-glitch",
	KindGlitchGap:              "glitch-gap",
	KindNoName:                 "no-name",
	KindNoFrequency:            "no-frequency",
	KindNoPEpoch:               "no-pepoch",
	KindNoDispersion:           "no-dispersion",
	KindBadFrequency:           "bad-frequency",
	KindBadPEpoch:              "bad-pepoch",
	KindDuplicateParameters:    "duplicate-parameters",
	KindTimUnexpectedEOL:       "tim-unexpected-eol",
	KindTimUnvaluedFlag:        "tim-unvalued-flag",
	KindTimDuplicateFlag:       "tim-duplicate-flag",
	KindTimFormatDiscrepancy:   "tim-format-discrepancy",
	KindTimNotASCII:            "tim-not-ascii",
	KindTimParkesMissingBlank:  "tim-parkes-missing-blank",
	KindTimParkesMissingPeriod: "tim-parkes-missing-period",
	KindNotImplemented:         "not-implemented",
	KindIncludeCycle:           "include-cycle",
	KindIncludeDepth:           "include-depth",
}

// String returns the kebab-case code of the kind, e.g. "no-frequency".
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error lets a Kind be used as an errors.Is target.
func (k Kind) Error() string {
	return k.String()
}

// TimContext locates a tim-file line.
type TimContext struct {
	File string
	Line int // 1-based
}

// String returns "file:line".
func (c TimContext) String() string {
	return fmt.Sprintf("%s:%d", c.File, c.Line)
}

// Duplicate is a pair of parameter lines sharing one canonical name.
type Duplicate struct {
	First  string
	Second string
}

// Error is the error type of every gopsr parser.
type Error struct {
	Kind Kind

	// Value is the offending literal: a token, key, line or file name.
	Value string
	// Expected names the target type of an unparsable token.
	Expected string
	// Index is the glitch index for glitch errors.
	Index int
	// Duplicates lists every detected pair for KindDuplicateParameters.
	Duplicates []Duplicate

	// Context is set once, by the innermost tim reader frame that sees the error.
	Context *TimContext

	// Err is the underlying cause, if any.
	Err error
}

// New returns an error of the given kind about value.
func New(kind Kind, value string) *Error {
	return &Error{Kind: kind, Value: value}
}

// Unparsable reports a token that could not be read as the expected type.
func Unparsable(value, expected string) *Error {
	return &Error{Kind: KindUnparsable, Value: value, Expected: expected}
}

// Wrap returns an error of the given kind caused by err.
func Wrap(kind Kind, value string, err error) *Error {
	return &Error{Kind: kind, Value: value, Err: err}
}

func (e *Error) Error() string {
	msg := e.message()
	if e.Context != nil {
		return e.Context.String() + ": " + msg
	}
	return msg
}

func (e *Error) message() string {
	switch e.Kind {
	case KindUnparsable:
		return fmt.Sprintf("cannot parse '%s' as %s", e.Value, e.Expected)
	case KindIO:
		if e.Value != "" {
			return fmt.Sprintf("io error on '%s': %v", e.Value, e.Err)
		}
		return fmt.Sprintf("io error: %v", e.Err)
	case KindOrphanFile:
		return fmt.Sprintf("'%s' has no readable parent directory to resolve includes against", e.Value)
	case KindInvalidRA:
		return fmt.Sprintf("invalid RA string '%s'", e.Value)
	case KindInvalidDec:
		return fmt.Sprintf("invalid DEC string '%s'", e.Value)
	case KindMissingValue:
		return fmt.Sprintf("parameter '%s' is missing a value", e.Value)
	case KindUnrecognisedKey:
		return fmt.Sprintf("unrecognised key '%s'", e.Value)
	case KindUnknownBinaryModel:
		return fmt.Sprintf("unknown binary model '%s'", e.Value)
	case KindUnknownTimeEphemeris:
		return fmt.Sprintf("unknown time ephemeris '%s'", e.Value)
	case KindUnknownT2CMethod:
		return fmt.Sprintf("unknown T2C method '%s'", e.Value)
	case KindUnknownUnits:
		return fmt.Sprintf("unknown units '%s'", e.Value)
	case KindUnknownErrorMode:
		return fmt.Sprintf("unknown error mode '%s'", e.Value)
	case KindIncompleteJump:
		return fmt.Sprintf("incomplete jump '%s'", e.Value)
	case KindRepeatParam:
		return fmt.Sprintf("repeated '%s' parameter", e.Value)
	case KindBadGlitch:
		return fmt.Sprintf("glitch with index %d is incomplete", e.Index)
	case KindGlitchGap:
		return fmt.Sprintf("glitch indices are not contiguous: index %d is missing", e.Index)
	case KindNoName:
		return "missing PSR parameter"
	case KindNoFrequency:
		return "missing F0 parameter"
	case KindNoPEpoch:
		return "missing PEPOCH parameter"
	case KindNoDispersion:
		return "missing DM parameter"
	case KindBadFrequency:
		return fmt.Sprintf("F0 must be positive, got '%s'", e.Value)
	case KindBadPEpoch:
		return fmt.Sprintf("PEPOCH must be positive, got '%s'", e.Value)
	case KindDuplicateParameters:
		var b strings.Builder
		b.WriteString("duplicate parameters defined:")
		for _, d := range e.Duplicates {
			fmt.Fprintf(&b, "\n * '%s' and '%s'", d.First, d.Second)
		}
		return b.String()
	case KindTimUnexpectedEOL:
		return fmt.Sprintf("TOA line ended prematurely: '%s'", e.Value)
	case KindTimUnvaluedFlag:
		return fmt.Sprintf("flag '%s' does not have a value", e.Value)
	case KindTimDuplicateFlag:
		return fmt.Sprintf("flag '%s' is given more than once", e.Value)
	case KindTimFormatDiscrepancy:
		return fmt.Sprintf("read format does not match supplied '%s'", e.Value)
	case KindTimNotASCII:
		return fmt.Sprintf("cannot handle non-ascii text in the supplied mode: '%s'", e.Value)
	case KindTimParkesMissingBlank:
		return fmt.Sprintf("parkes line must start with a blank column: '%s'", e.Value)
	case KindTimParkesMissingPeriod:
		return fmt.Sprintf("parkes line must have a period in column 42: '%s'", e.Value)
	case KindNotImplemented:
		return fmt.Sprintf("%s is not implemented", e.Value)
	case KindIncludeCycle:
		return fmt.Sprintf("include cycle through '%s'", e.Value)
	case KindIncludeDepth:
		return fmt.Sprintf("include nesting too deep at '%s'", e.Value)
	default:
		if e.Err != nil {
			return e.Err.Error()
		}
		return fmt.Sprintf("%s: '%s'", e.Kind, e.Value)
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches a Kind target, or another *Error of the same kind.
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case Kind:
		return e.Kind == t
	case *Error:
		return t != nil && e.Kind == t.Kind
	}
	return false
}

// KindOf returns the kind of the first *Error in err's tree, or KindUnknown.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}

// WithContext attaches ctx to err unless err already carries a context.
// The first attribution wins, so the innermost file and line survive as an
// error propagates out of nested includes. Foreign errors are wrapped as
// KindIO first.
func WithContext(err error, ctx TimContext) error {
	if err == nil {
		return nil
	}
	var pe *Error
	if !errors.As(err, &pe) {
		pe = Wrap(KindIO, "", err)
		err = pe
	}
	if pe.Context == nil {
		c := ctx
		pe.Context = &c
	}
	return err
}
