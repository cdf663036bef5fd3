package tim

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsartiming/gopsr/astro"
	"github.com/pulsartiming/gopsr/internal/testutil"
	"github.com/pulsartiming/gopsr/psrerr"
)

func parseLine(t *testing.T, line string) (TOAInfo, error) {
	t.Helper()
	return ParseTempo2(strings.Fields(line))
}

func TestParseTempo2Minimal(t *testing.T) {
	toa, err := parseLine(t, testutil.MinimalTOA)
	require.NoError(t, err)

	assert.False(t, toa.IsBad)
	assert.Equal(t, "dir/file.ext", toa.File)
	assert.Equal(t, 999.999, toa.Frequency)
	assert.Equal(t, astro.NewMjd(55000, 0.97531), toa.MJD)
	assert.Equal(t, 99.11, toa.MJDError)
	assert.Equal(t, "tele-id", toa.SiteID)
	assert.Empty(t, toa.Comment)
	assert.Empty(t, toa.Flags)
}

func TestParseTempo2MissingField(t *testing.T) {
	fields := strings.Fields(testutil.MinimalTOA)
	for i := range fields {
		t.Run(fields[i], func(t *testing.T) {
			var tokens []string
			tokens = append(tokens, fields[:i]...)
			tokens = append(tokens, fields[i+1:]...)

			_, err := ParseTempo2(tokens)
			testutil.RequireKind(t, err, psrerr.KindTimUnexpectedEOL)
			assert.Contains(t, err.Error(), strings.Join(tokens, " "))
		})
	}
}

func TestParseTempo2BadMarker(t *testing.T) {
	for _, marker := range []string{"C", "c"} {
		t.Run(marker, func(t *testing.T) {
			toa, err := parseLine(t, marker+" "+testutil.MinimalTOA)
			require.NoError(t, err)
			assert.True(t, toa.IsBad)
			assert.Equal(t, "dir/file.ext", toa.File)
			assert.Equal(t, "tele-id", toa.SiteID)
		})
	}

	_, err := parseLine(t, "C 999.999 55000.97531 99.11 tele-id")
	testutil.RequireKind(t, err, psrerr.KindTimUnexpectedEOL)
}

func TestParseTempo2Comments(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		comment string
		flags   map[string]string
	}{
		{
			name:    "hash tokens anywhere",
			line:    "#hii " + testutil.MinimalTOA + " #hellouuu",
			comment: "#hii -- #hellouuu",
		},
		{
			name:    "lone hash ends values",
			line:    testutil.MinimalTOA + " -f x # trailing words here",
			comment: "trailing -- words -- here",
			flags:   map[string]string{"f": "x"},
		},
		{
			name:    "after bad marker",
			line:    "C #skipped " + testutil.MinimalTOA,
			comment: "#skipped",
		},
		{
			name:    "lone hash swallows hash tokens order",
			line:    testutil.MinimalTOA + " #a # b",
			comment: "#a -- b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toa, err := parseLine(t, tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.comment, toa.Comment)
			assert.Len(t, toa.Flags, len(tt.flags))
			for k, v := range tt.flags {
				assert.Equal(t, v, toa.Flags[k].String())
			}
		})
	}
}

func TestParseTempo2Flags(t *testing.T) {
	toa, err := parseLine(t, testutil.MinimalTOA+" -fe L-wide -bw 64 -pta NANOGrav be GUPPI -snr 1.2D1")
	require.NoError(t, err)

	require.Len(t, toa.Flags, 5)
	assert.Equal(t, "L-wide", toa.Flags["fe"].String())
	assert.False(t, toa.Flags["fe"].IsNumber())

	bw, ok := toa.Flags["bw"].Float()
	assert.True(t, ok)
	assert.Equal(t, 64.0, bw)

	assert.Equal(t, "NANOGrav", toa.Flags["pta"].String())
	assert.Equal(t, "GUPPI", toa.Flags["be"].String())

	snr, ok := toa.Flags["snr"].Float()
	assert.True(t, ok)
	assert.Equal(t, 12.0, snr)
	assert.Equal(t, "1.2D1", toa.Flags["snr"].String(), "the original token is kept")
}

func TestParseTempo2UnvaluedFlag(t *testing.T) {
	_, err := parseLine(t, testutil.MinimalTOA+" -fe L-wide -bw")
	testutil.RequireKind(t, err, psrerr.KindTimUnvaluedFlag)
	assert.Equal(t, "-bw", testutil.FindKind(err, psrerr.KindTimUnvaluedFlag).Value)
	assert.Contains(t, err.Error(), "flag '-bw' does not have a value")
}

func TestParseTempo2DuplicateFlag(t *testing.T) {
	tokens := strings.Fields(testutil.MinimalTOA + " -be ASP -be GUPPI")

	toa, err := ParseTempo2(tokens)
	require.NoError(t, err)
	assert.Equal(t, "GUPPI", toa.Flags["be"].String())

	_, repeated, err := parseTempo2(tokens, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"be"}, repeated)

	_, _, err = parseTempo2(tokens, true)
	testutil.RequireKind(t, err, psrerr.KindTimDuplicateFlag)
	assert.Equal(t, "be", testutil.FindKind(err, psrerr.KindTimDuplicateFlag).Value)
}

func TestParseTempo2BadValues(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		value    string
		expected string
	}{
		{"frequency", "f.ar fast 55000.1 1.0 ao", "fast", "double"},
		{"mjd", "f.ar 1400 55000.x 1.0 ao", "55000.x", "MJD"},
		{"mjd parts", "f.ar 1400 55000.1.2 1.0 ao", "55000.1.2", "MJD"},
		{"error", "f.ar 1400 55000.1 big ao", "big", "double"},
		{"NaN frequency", "f.ar NaN 55000.1 1.0 ao", "NaN", "finite double"},
		{"infinite frequency", "f.ar -Inf 55000.1 1.0 ao", "-Inf", "finite double"},
		{"infinite error", "f.ar 1400 55000.1 Inf ao", "Inf", "finite double"},
		{"NaN error", "f.ar 1400 55000.1 nan ao", "nan", "finite double"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseLine(t, tt.line)
			testutil.RequireKind(t, err, psrerr.KindUnparsable)
			pe := testutil.FindKind(err, psrerr.KindUnparsable)
			assert.Equal(t, tt.value, pe.Value)
			assert.Equal(t, tt.expected, pe.Expected)
		})
	}
}

func TestParseTempo2IntegerMJD(t *testing.T) {
	toa, err := parseLine(t, "f.ar 1400 55000 1.0 ao")
	require.NoError(t, err)
	assert.Equal(t, uint32(55000), toa.MJD.Day())
	assert.Zero(t, toa.MJD.Fraction())
}

func TestFlagValue(t *testing.T) {
	n := NumberFlag(1.5)
	v, ok := n.Float()
	assert.True(t, ok)
	assert.Equal(t, 1.5, v)
	assert.Equal(t, "1.5", n.String())

	s := TextFlag("GUPPI")
	_, ok = s.Float()
	assert.False(t, ok)

	assert.True(t, n.Equal(parseFlagValue("1.50")))
	assert.False(t, n.Equal(s))
	assert.True(t, s.Equal(parseFlagValue("GUPPI")))
}
