// Package parsetools converts text tokens to primitive values with uniform
// error reporting.
package parsetools

import (
	"math"
	"strconv"
	"strings"

	"github.com/pulsartiming/gopsr/psrerr"
)

// Float parses a double. Fortran exponents ("1.5D-15") are accepted since
// tempo-era files still carry them.
func Float(value string) (float64, error) {
	s := value
	if strings.ContainsAny(s, "dD") {
		s = strings.NewReplacer("D", "e", "d", "e").Replace(s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, psrerr.Unparsable(value, "double")
	}
	return v, nil
}

// FiniteFloat is Float that also rejects NaN and the infinities.
func FiniteFloat(value string) (float64, error) {
	v, err := Float(value)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, psrerr.Unparsable(value, "finite double")
	}
	return v, nil
}

// Uint32 parses an unsigned 32-bit integer.
func Uint32(value string) (uint32, error) {
	v, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, psrerr.Unparsable(value, "integer")
	}
	return uint32(v), nil
}

// Bool parses a tempo-style boolean: 1/Y/y or 0/N/n.
func Bool(value string) (bool, error) {
	switch value {
	case "1", "Y", "y":
		return true, nil
	case "0", "N", "n":
		return false, nil
	}
	return false, psrerr.Unparsable(value, "bool")
}

// FormatFloat renders v in its shortest round-trip form.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// FormatBool renders b the way Bool reads it back ("1" or "0").
func FormatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
