//go:build !(cgo && refprop)

package cgolib

import (
	"errors"
	"testing"

	rperrors "github.com/wippyai/refprop/errors"
)

func TestOpen_Unavailable(t *testing.T) {
	if Available {
		t.Fatal("stub build reports Available")
	}
	lib, err := Open("/opt/refprop/librefprop.so")
	if lib != nil {
		t.Error("expected nil library")
	}
	if !errors.Is(err, rperrors.ErrInitialization) {
		t.Fatalf("got %v", err)
	}
}
