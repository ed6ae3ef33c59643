package marshal

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/wippyai/refprop"
	"github.com/wippyai/refprop/errors"
)

// SumTolerance is the allowed deviation of a normalized composition from 1.
const SumTolerance = 1e-6

// CheckLength fails when z has more components than the native buffer holds.
// It is the only check applied to operations that accept arbitrary vectors.
func CheckLength(z []float64) error {
	if len(z) > refprop.MaxComponents {
		return errors.New(errors.PhaseValidate, errors.KindInvalidInput).
			Value(len(z)).
			Detail("composition has %d components, limit is %d", len(z), refprop.MaxComponents).
			Build()
	}
	return nil
}

// ValidateComposition fails unless z fits the native buffer and sums to 1
// within SumTolerance.
func ValidateComposition(z []float64) error {
	if err := CheckLength(z); err != nil {
		return err
	}
	sum := floats.Sum(z)
	if !scalar.EqualWithinAbs(sum, 1, SumTolerance) {
		return errors.New(errors.PhaseValidate, errors.KindInvalidInput).
			Value(sum).
			Detail("composition sums to %g, want 1 within %g", sum, SumTolerance).
			Build()
	}
	return nil
}
