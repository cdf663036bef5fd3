package par

import (
	"fmt"
	"strings"

	"github.com/pulsartiming/gopsr/astro"
	"github.com/pulsartiming/gopsr/internal/parsetools"
)

// FitState says which annotations a FieldValue carries.
type FitState uint8

const (
	// Missing is the zero state. A Missing value is never written out.
	Missing FitState = iota
	// JustValue carries a value without fit information.
	JustValue
	// FitInfo carries a value, a fit flag and an uncertainty.
	FitInfo
)

func (s FitState) String() string {
	switch s {
	case JustValue:
		return "value"
	case FitInfo:
		return "fit-info"
	default:
		return "missing"
	}
}

// FieldValue is an ephemeris value with optional tempo-style fit annotations.
type FieldValue[T any] struct {
	State FitState
	Value T
	// Fit reports whether a fitting routine may adjust the value.
	Fit bool
	// Uncertainty of the fitted value.
	Uncertainty float64
}

// Just returns a value without fit information.
func Just[T any](v T) FieldValue[T] {
	return FieldValue[T]{State: JustValue, Value: v}
}

// Fitted returns a value with fit information.
func Fitted[T any](v T, fit bool, uncertainty float64) FieldValue[T] {
	return FieldValue[T]{State: FitInfo, Value: v, Fit: fit, Uncertainty: uncertainty}
}

// IsMissing reports whether no value was read.
func (f FieldValue[T]) IsMissing() bool {
	return f.State == Missing
}

// Get returns the value and whether one is present.
func (f FieldValue[T]) Get() (T, bool) {
	return f.Value, f.State != Missing
}

// text renders the value tokens, without the key.
func (f FieldValue[T]) text() string {
	v := formatValue(f.Value)
	if f.State == FitInfo {
		return v + " " + parsetools.FormatBool(f.Fit) + " " + parsetools.FormatFloat(f.Uncertainty)
	}
	return v
}

func formatValue(v any) string {
	switch x := v.(type) {
	case float64:
		return parsetools.FormatFloat(x)
	case bool:
		if x {
			return "Y"
		}
		return "N"
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// Parameter is one entry of a par file under its canonical name.
type Parameter[T any] struct {
	name        string
	description string
	value       T
}

// FloatParam is a double-valued parameter with optional fit information.
type FloatParam = Parameter[FieldValue[float64]]

// RAParam is the right ascension parameter.
type RAParam = Parameter[FieldValue[astro.RA]]

// DecParam is the declination parameter.
type DecParam = Parameter[FieldValue[astro.Dec]]

// NewParameter returns a parameter named after the table entry.
func NewParameter[T any](e Entry, value T) Parameter[T] {
	return Parameter[T]{name: e.Name, description: e.Description, value: value}
}

// Name returns the canonical key, which may differ from the alias in the file.
func (p Parameter[T]) Name() string { return p.name }

// Description returns a short human description of the parameter.
func (p Parameter[T]) Description() string { return p.description }

// Value returns the recorded value.
func (p Parameter[T]) Value() T { return p.value }

// String renders the parameter as a par-file line without the newline.
func (p Parameter[T]) String() string {
	var v any = p.value
	if fv, ok := v.(interface{ text() string }); ok {
		return p.name + " " + fv.text()
	}
	return p.name + " " + formatValue(p.value)
}

// line renders the parameter padded to a fixed key column.
func (p Parameter[T]) line() string {
	s := p.String()
	key, rest, _ := strings.Cut(s, " ")
	return fmt.Sprintf("%-*s %s\n", keyWidth, key, rest)
}

const keyWidth = 15
