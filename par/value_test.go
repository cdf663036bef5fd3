package par

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pulsartiming/gopsr/astro"
)

func TestFieldValue(t *testing.T) {
	var missing FieldValue[float64]
	assert.True(t, missing.IsMissing())
	_, ok := missing.Get()
	assert.False(t, ok)
	assert.Equal(t, "missing", missing.State.String())

	v, ok := Just(1.5).Get()
	assert.True(t, ok)
	assert.Equal(t, 1.5, v)

	f := Fitted(2.5, true, 0.1)
	assert.Equal(t, FitInfo, f.State)
	assert.Equal(t, "fit-info", f.State.String())
	assert.Equal(t, "value", JustValue.String())
}

func TestParameterString(t *testing.T) {
	f0, _ := LookupFloat("F0")
	flag, _ := LookupFlag("NOTRACK")
	nits, _ := LookupInteger("NITS")
	psr, _ := LookupText("PSRJ")
	ra, err := astro.ParseRA("05:34:31.97")
	assert.NoError(t, err)

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"just", NewParameter(f0, Just(9001.5)).String(), "F0 9001.5"},
		{"fitted", NewParameter(f0, Fitted(9001.5, true, 1e-12)).String(), "F0 9001.5 1 1e-12"},
		{"not fitted", NewParameter(f0, Fitted(9001.5, false, 0)).String(), "F0 9001.5 0 0"},
		{"flag", NewParameter(flag, false).String(), "NOTRACK N"},
		{"integer", NewParameter(nits, uint32(3)).String(), "NITS 3"},
		{"text", NewParameter(psr, "J0534+2200").String(), "PSR J0534+2200"},
		{"coordinate", NewParameter(raEntry, Just(ra)).String(), "RA 05:34:31.97"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestParameterLine(t *testing.T) {
	f0, _ := LookupFloat("F0")
	assert.Equal(t, "F0              29.946923\n", NewParameter(f0, Just(29.946923)).line())
}

func TestEnumNames(t *testing.T) {
	assert.Equal(t, "Unstated", BinaryModelUnstated.String())
	assert.Equal(t, "ELL1H", BinaryModelELL1H.String())
	assert.Equal(t, "IF99", TimeEphemerisIF99.String())
	assert.Equal(t, "IAU2000B", T2CMethodIAU2000B.String())
	assert.Equal(t, "TCB", UnitsTCB.String())
	assert.Equal(t, "0", ErrorMode0.String())
	assert.Equal(t, "Unstated", BinaryModel(200).String())

	m, ok := parseEnum[BinaryModel](binaryModelNames, "DDGR")
	assert.True(t, ok)
	assert.Equal(t, BinaryModelDDGR, m)

	_, ok = parseEnum[BinaryModel](binaryModelNames, "Unstated")
	assert.False(t, ok, "Unstated is never parsed")
}
