package marshal

import (
	"github.com/wippyai/refprop"
	"github.com/wippyai/refprop/errors"
)

// Element is the set of element types the native arrays carry.
type Element interface {
	~float64 | ~int32
}

// Pack copies src left-aligned into dst and zeroes the remainder.
func Pack[T Element](dst, src []T) error {
	if len(src) > len(dst) {
		return errors.New(errors.PhaseMarshal, errors.KindInvalidInput).
			Value(len(src)).
			Detail("%d elements exceed buffer capacity %d", len(src), len(dst)).
			Build()
	}
	n := copy(dst, src)
	clear(dst[n:])
	return nil
}

// Unpack returns a copy of the first n elements of buf.
func Unpack[T Element](buf []T, n int) []T {
	if n > len(buf) {
		n = len(buf)
	}
	if n < 0 {
		n = 0
	}
	out := make([]T, n)
	copy(out, buf[:n])
	return out
}

// PackComposition packs z into a fresh composition buffer.
func PackComposition(z []float64) (refprop.Composition, error) {
	var buf refprop.Composition
	err := Pack(buf[:], z)
	return buf, err
}

// LeadingPositive returns the leading run of strictly positive values in buf.
// Predefined mixtures report their composition this way.
func LeadingPositive(buf []float64) []float64 {
	n := 0
	for n < len(buf) && buf[n] > 0 {
		n++
	}
	return Unpack(buf, n)
}
