package astro

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pulsartiming/gopsr/psrerr"
)

// Mjd is a modified Julian date split into an integer day and a fraction of
// a day in [0, 1). Keeping the parts apart preserves the sub-nanosecond
// precision a single float64 would lose.
type Mjd struct {
	day  uint32
	frac float64
}

// NewMjd builds an Mjd from its parts. It panics if frac is outside [0, 1):
// that is a caller bug, never an input error.
func NewMjd(day uint32, frac float64) Mjd {
	if !(frac >= 0 && frac < 1) {
		panic(fmt.Sprintf("astro: MJD fraction %v outside [0, 1)", frac))
	}
	return Mjd{day: day, frac: frac}
}

// ParseMjd parses "<digits>" or "<digits>.<digits>".
func ParseMjd(s string) (Mjd, error) {
	bad := func() (Mjd, error) { return Mjd{}, psrerr.Unparsable(s, "MJD") }

	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	if !isDigits(intPart) || (hasFrac && !isDigits(fracPart)) {
		return bad()
	}

	day, err := strconv.ParseUint(intPart, 10, 32)
	if err != nil {
		return bad()
	}
	if !hasFrac {
		return Mjd{day: uint32(day)}, nil
	}

	frac, err := strconv.ParseFloat("0."+fracPart, 64)
	if err != nil || frac >= 1 {
		// "0.9999999999999999999" rounds up to 1.
		return bad()
	}
	return Mjd{day: uint32(day), frac: frac}, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Day returns the integer day.
func (m Mjd) Day() uint32 { return m.day }

// Fraction returns the fraction of the day, in [0, 1).
func (m Mjd) Fraction() float64 { return m.frac }

// Float returns the date as one float64, losing precision below ~1 µs.
func (m Mjd) Float() float64 {
	return float64(m.day) + m.frac
}

// Before reports whether m is earlier than other.
func (m Mjd) Before(other Mjd) bool {
	if m.day != other.day {
		return m.day < other.day
	}
	return m.frac < other.frac
}

// String renders the date in normalized decimal form, e.g. "55000.5".
func (m Mjd) String() string {
	if m.frac == 0 {
		return strconv.FormatUint(uint64(m.day), 10)
	}
	frac := strconv.FormatFloat(m.frac, 'f', -1, 64)
	return strconv.FormatUint(uint64(m.day), 10) + strings.TrimPrefix(frac, "0")
}

// MarshalText implements encoding.TextMarshaler.
func (m Mjd) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mjd) UnmarshalText(text []byte) error {
	parsed, err := ParseMjd(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
