package psrerr

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindMatching(t *testing.T) {
	err := fmt.Errorf("reading: %w", New(KindNoFrequency, ""))

	assert.True(t, errors.Is(err, KindNoFrequency))
	assert.False(t, errors.Is(err, KindNoPEpoch))
	assert.True(t, errors.Is(err, &Error{Kind: KindNoFrequency}))
	assert.Equal(t, KindNoFrequency, KindOf(err))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
}

func TestJoinedKinds(t *testing.T) {
	err := errors.Join(New(KindNoName, ""), New(KindNoDispersion, ""))

	assert.True(t, errors.Is(err, KindNoName))
	assert.True(t, errors.Is(err, KindNoDispersion))
	assert.False(t, errors.Is(err, KindNoFrequency))
}

func TestMessagesIncludeValue(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{Unparsable("12x", "double"), "cannot parse '12x' as double"},
		{New(KindInvalidRA, "25:00:00"), "invalid RA string '25:00:00'"},
		{New(KindInvalidDec, "91:00:00"), "invalid DEC string '91:00:00'"},
		{New(KindMissingValue, "F0"), "parameter 'F0' is missing a value"},
		{New(KindUnrecognisedKey, "BOGUS"), "unrecognised key 'BOGUS'"},
		{New(KindUnknownBinaryModel, "XYZ"), "unknown binary model 'XYZ'"},
		{New(KindIncompleteJump, "JUMP MJD 1"), "incomplete jump 'JUMP MJD 1'"},
		{New(KindRepeatParam, "UNITS"), "repeated 'UNITS' parameter"},
		{&Error{Kind: KindBadGlitch, Index: 2}, "glitch with index 2 is incomplete"},
		{New(KindTimUnvaluedFlag, "-fe"), "flag '-fe' does not have a value"},
		{New(KindNotImplemented, "parkes format"), "parkes format is not implemented"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Kind.String(), func(t *testing.T) {
			assert.Contains(t, tt.err.Error(), tt.want)
		})
	}
}

func TestDuplicateMessageListsEveryPair(t *testing.T) {
	err := &Error{
		Kind: KindDuplicateParameters,
		Duplicates: []Duplicate{
			{First: "F1 0.0002", Second: "F1 0.002"},
			{First: "PSR A", Second: "PSR B"},
		},
	}
	msg := err.Error()
	assert.Contains(t, msg, "'F1 0.0002' and 'F1 0.002'")
	assert.Contains(t, msg, "'PSR A' and 'PSR B'")
}

func TestWithContextFirstWins(t *testing.T) {
	inner := TimContext{File: "inner.tim", Line: 3}
	outer := TimContext{File: "outer.tim", Line: 7}

	err := error(New(KindTimUnexpectedEOL, "x"))
	err = WithContext(err, inner)
	err = WithContext(fmt.Errorf("include: %w", err), outer)

	var pe *Error
	require.True(t, errors.As(err, &pe))
	require.NotNil(t, pe.Context)
	assert.Equal(t, inner, *pe.Context)
	assert.Contains(t, err.Error(), "inner.tim:3: ")
}

func TestWithContextWrapsForeignErrors(t *testing.T) {
	err := WithContext(fs.ErrNotExist, TimContext{File: "a.tim", Line: 1})

	assert.Equal(t, KindIO, KindOf(err))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Nil(t, WithContext(nil, TimContext{}))
}

func TestKindStringUnknownValue(t *testing.T) {
	assert.Equal(t, "kind(999)", Kind(999).String())
	assert.Equal(t, "no-frequency", KindNoFrequency.Error())
}
