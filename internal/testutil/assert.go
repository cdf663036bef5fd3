// Package testutil provides test helpers shared across gopsr packages.
package testutil

import (
	"errors"
	"fmt"

	"github.com/stretchr/testify/require"

	"github.com/pulsartiming/gopsr/psrerr"
)

// RequireKind fails the test unless err carries kind somewhere in its tree.
func RequireKind(t require.TestingT, err error, kind psrerr.Kind, msgAndArgs ...any) {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	require.Error(t, err, msgAndArgs...)
	if !errors.Is(err, kind) {
		require.Fail(t, fmt.Sprintf("expected error kind %s, got %s: %v", kind, psrerr.KindOf(err), err), msgAndArgs...)
	}
}

// RequireKinds fails the test unless every kind appears in err's tree.
func RequireKinds(t require.TestingT, err error, kinds ...psrerr.Kind) {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	for _, k := range kinds {
		RequireKind(t, err, k)
	}
}

// FindKind returns the first *psrerr.Error of the given kind in err's tree,
// descending into joined errors.
func FindKind(err error, kind psrerr.Kind) *psrerr.Error {
	switch e := err.(type) {
	case nil:
		return nil
	case *psrerr.Error:
		if e.Kind == kind {
			return e
		}
		return FindKind(e.Err, kind)
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			if pe := FindKind(inner, kind); pe != nil {
				return pe
			}
		}
	case interface{ Unwrap() error }:
		return FindKind(e.Unwrap(), kind)
	}
	return nil
}

// ContextOf returns the file context of the first *psrerr.Error in err's
// tree, or the zero context.
func ContextOf(err error) psrerr.TimContext {
	var pe *psrerr.Error
	if errors.As(err, &pe) && pe.Context != nil {
		return *pe.Context
	}
	return psrerr.TimContext{}
}
