// Package testutil provides shared test utilities and fixtures.
//
// This package centralises the bitstream builders used by decoder tests:
// header syntax writers, a bypass symbol writer and geometry/attribute
// body encoders mirroring the decoders' coding conventions.
package testutil

import (
	"testing"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}
