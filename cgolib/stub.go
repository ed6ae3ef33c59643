//go:build !(cgo && refprop)

package cgolib

import (
	"context"

	"github.com/wippyai/refprop"
	"github.com/wippyai/refprop/errors"
)

// Available reports whether this build can load the shared library.
const Available = false

// Library is unavailable in this build.
type Library struct {
	refprop.Library
}

// Open always fails: the binary was built without cgo or the refprop tag.
func Open(path string) (*Library, error) {
	return nil, errors.New(errors.PhaseLoad, errors.KindInitialization).
		Value(path).
		Detail("shared library backend not compiled in; rebuild with cgo and -tags refprop").
		Build()
}

// Close is a no-op.
func (l *Library) Close(context.Context) error {
	return nil
}
