package par

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsartiming/gopsr/internal/testutil"
	"github.com/pulsartiming/gopsr/psrerr"
)

func TestParseJump(t *testing.T) {
	tests := []struct {
		line string
		want Jump
	}{
		{"JUMP MJD 55000 55100 0.001 1", Jump{MJDRange{55000, 55100}, 0.001, true}},
		{"JUMP FREQ 1200 1600 -2e-6 0", Jump{FreqRange{1200, 1600}, -2e-6, false}},
		{"JUMP TEL pks 0.5 Y", Jump{Telescope("pks"), 0.5, true}},
		{"JUMP NAME J1234.ar 0.5 n", Jump{ProfileName("J1234.ar"), 0.5, false}},
		{"JUMP -be GUPPI 1.5D-3 1", Jump{FlagSelector{"-be", "GUPPI"}, 1.5e-3, true}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := ParseJump(strings.Fields(tt.line))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseJumpIncomplete(t *testing.T) {
	for _, line := range []string{
		"JUMP MJD",
		"JUMP MJD 55000",
		"JUMP MJD 55000 55100",
		"JUMP MJD 55000 55100 0.001",
		"JUMP FREQ 1200",
		"JUMP TEL",
		"JUMP TEL pks 0.5",
		"JUMP NAME",
		"JUMP -be",
		"JUMP -be GUPPI",
	} {
		t.Run(line, func(t *testing.T) {
			_, err := ParseJump(strings.Fields(line))
			testutil.RequireKind(t, err, psrerr.KindIncompleteJump)
			assert.Equal(t, line, testutil.FindKind(err, psrerr.KindIncompleteJump).Value)
			assert.Contains(t, err.Error(), line)
		})
	}
}

func TestParseJumpBadTokens(t *testing.T) {
	for _, line := range []string{
		"JUMP MJD start 55100 0.001 1",
		"JUMP FREQ 1200 1600 big 1",
		"JUMP TEL pks 0.5 maybe",
	} {
		t.Run(line, func(t *testing.T) {
			_, err := ParseJump(strings.Fields(line))
			testutil.RequireKind(t, err, psrerr.KindUnparsable)
		})
	}
}

func TestJumpString(t *testing.T) {
	for _, line := range []string{
		"JUMP MJD 55000 55100.5 0.001 1",
		"JUMP FREQ 1200 1600 -2e-06 0",
		"JUMP TEL pks 0.5 1",
		"JUMP NAME J1234.ar 0 0",
		"JUMP -be GUPPI 0.0015 1",
	} {
		t.Run(line, func(t *testing.T) {
			j, err := ParseJump(strings.Fields(line))
			require.NoError(t, err)
			assert.Equal(t, line, j.String())
		})
	}
}

func TestParfileJumps(t *testing.T) {
	pf := mustParse(t, testutil.MinimalPar+testutil.Lines(
		"JUMP TEL pks 0.5 1",
		"JUMP -be GUPPI 0.1 0",
	))

	require.Len(t, pf.Jumps, 2)
	assert.Equal(t, Telescope("pks"), pf.Jumps[0].Selector)
	assert.Equal(t, FlagSelector{"-be", "GUPPI"}, pf.Jumps[1].Selector)

	_, err := parse(t, testutil.MinimalPar+"JUMP MJD 55000\n")
	testutil.RequireKind(t, err, psrerr.KindIncompleteJump)

	_, err = parse(t, testutil.MinimalPar+"JUMP\n")
	testutil.RequireKind(t, err, psrerr.KindMissingValue)
}
