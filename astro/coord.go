// Package astro holds the small value types shared by par and tim files:
// sexagesimal J2000 coordinates and modified Julian dates.
package astro

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pulsartiming/gopsr/internal/parsetools"
	"github.com/pulsartiming/gopsr/psrerr"
)

// CoordKind is implemented by the zero-sized tags that select the
// validation rules of a Coord.
type CoordKind interface {
	RightAscension | Declination
	rules() kindRules
}

type kindRules struct {
	errKind psrerr.Kind
	major   string  // unit of the major component, for error messages
	degrees float64 // degrees per major unit
	check   func(neg bool, major int8, minutes uint8, seconds float64) bool
}

// RightAscension tags a Coord measured in hours, [0, 24).
type RightAscension struct{}

// Declination tags a Coord measured in degrees, [-90, 90].
type Declination struct{}

func (RightAscension) rules() kindRules {
	return kindRules{
		errKind: psrerr.KindInvalidRA,
		major:   "hours [0, 24)",
		degrees: 15,
		check: func(neg bool, major int8, minutes uint8, seconds float64) bool {
			return !neg && major >= 0 && major < 24 && minutes < 60 && seconds >= 0 && seconds < 60
		},
	}
}

func (Declination) rules() kindRules {
	return kindRules{
		errKind: psrerr.KindInvalidDec,
		major:   "degrees [-90, 90]",
		degrees: 1,
		check: func(_ bool, major int8, minutes uint8, seconds float64) bool {
			if major < -90 || major > 90 || minutes >= 60 || seconds < 0 || seconds >= 60 {
				return false
			}
			if major == 90 || major == -90 {
				return minutes == 0 && seconds == 0
			}
			return true
		},
	}
}

// Coord is a J2000 sexagesimal angle. The zero value is 00:00:00; every other
// value comes from a constructor and has passed validation.
type Coord[K CoordKind] struct {
	major   int8
	minutes uint8
	seconds float64
	// negZero keeps the sign of "-00:mm:ss", which major alone cannot.
	negZero bool
}

// RA is a right ascension in hours.
type RA = Coord[RightAscension]

// Dec is a declination in degrees.
type Dec = Coord[Declination]

// NewCoord builds and validates a coordinate from its components.
func NewCoord[K CoordKind](major int8, minutes uint8, seconds float64) (Coord[K], error) {
	c := Coord[K]{major: major, minutes: minutes, seconds: seconds}
	if err := c.validate(); err != nil {
		return Coord[K]{}, err
	}
	return c, nil
}

// NewRA builds a right ascension, failing for values out of bounds.
func NewRA(hours int8, minutes uint8, seconds float64) (RA, error) {
	return NewCoord[RightAscension](hours, minutes, seconds)
}

// NewDec builds a declination, failing for values out of bounds.
func NewDec(degrees int8, minutes uint8, seconds float64) (Dec, error) {
	return NewCoord[Declination](degrees, minutes, seconds)
}

// ParseCoord parses "major:minutes:seconds". Every failure carries the
// coordinate's kind; a bad component also wraps an Unparsable cause.
func ParseCoord[K CoordKind](s string) (Coord[K], error) {
	var k K
	rules := k.rules()

	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return Coord[K]{}, psrerr.New(rules.errKind, s)
	}

	major, err := strconv.ParseInt(parts[0], 10, 8)
	if err != nil {
		return Coord[K]{}, psrerr.Wrap(rules.errKind, s, psrerr.Unparsable(parts[0], rules.major))
	}
	minutes, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil {
		return Coord[K]{}, psrerr.Wrap(rules.errKind, s, psrerr.Unparsable(parts[1], "minutes"))
	}
	seconds, err := parsetools.Float(parts[2])
	if err != nil {
		return Coord[K]{}, psrerr.Wrap(rules.errKind, s, err)
	}

	c := Coord[K]{
		major:   int8(major),
		minutes: uint8(minutes),
		seconds: seconds,
		negZero: major == 0 && strings.HasPrefix(parts[0], "-"),
	}
	if err := c.validate(); err != nil {
		return Coord[K]{}, psrerr.New(rules.errKind, s)
	}
	return c, nil
}

// ParseRA parses a right ascension "hh:mm:ss.s".
func ParseRA(s string) (RA, error) {
	return ParseCoord[RightAscension](s)
}

// ParseDec parses a declination "±dd:mm:ss.s".
func ParseDec(s string) (Dec, error) {
	return ParseCoord[Declination](s)
}

func (c Coord[K]) validate() error {
	var k K
	rules := k.rules()
	if math.IsNaN(c.seconds) || !rules.check(c.negZero, c.major, c.minutes, c.seconds) {
		return psrerr.New(rules.errKind, c.String())
	}
	return nil
}

// Major returns hours for RA and degrees for DEC.
func (c Coord[K]) Major() int8 { return c.major }

// Minutes returns the 60ths of one major unit.
func (c Coord[K]) Minutes() uint8 { return c.minutes }

// Seconds returns the 3600ths of one major unit.
func (c Coord[K]) Seconds() float64 { return c.seconds }

// Negative reports whether the angle lies below zero, including "-00:mm:ss".
func (c Coord[K]) Negative() bool { return c.major < 0 || c.negZero }

// Decimal returns the angle as a single number in major units: decimal
// hours for RA, decimal degrees for DEC. The sign applies to the whole angle.
func (c Coord[K]) Decimal() float64 {
	abs := math.Abs(float64(c.major)) + float64(c.minutes)/60 + c.seconds/3600
	if c.Negative() {
		return -abs
	}
	return abs
}

// Degrees returns the angle in decimal degrees.
func (c Coord[K]) Degrees() float64 {
	var k K
	return c.Decimal() * k.rules().degrees
}

// String renders the coordinate as "hh:mm:ss.sss" (RA) or "±dd:mm:ss.sss" (DEC).
func (c Coord[K]) String() string {
	sign := ""
	if c.Negative() {
		sign = "-"
	}
	major := int(c.major)
	if major < 0 {
		major = -major
	}
	sec := strconv.FormatFloat(c.seconds, 'f', -1, 64)
	if c.seconds >= 0 && c.seconds < 10 {
		sec = "0" + sec
	}
	return fmt.Sprintf("%s%02d:%02d:%s", sign, major, c.minutes, sec)
}

// MarshalText implements encoding.TextMarshaler.
func (c Coord[K]) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Coord[K]) UnmarshalText(text []byte) error {
	parsed, err := ParseCoord[K](string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
