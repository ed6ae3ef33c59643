// Package cgolib implements refprop.Library on the REFPROP shared library
// loaded at run time with dlopen.
//
// The binding is compiled only with cgo enabled and the refprop build tag:
//
//	go build -tags refprop ./...
//
// Without the tag Open returns an initialization error and Available is
// false, so the rest of the module builds and tests without a C toolchain.
//
// Every parameter is passed by reference in the library's positional order,
// followed by one trailing int per text buffer giving its declared length.
// None of the buffers handed to C contain Go pointers.
package cgolib
