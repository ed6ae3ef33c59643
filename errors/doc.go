// Package errors provides structured error types for the refprop module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Kind set is the failure taxonomy every public operation
// reports: initialization, calculation, invalid input, text decoding,
// poisoned gate and unknown.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseCall, errors.KindCalculation).
//		Entry("PHFLSHdll").
//		Code(248).
//		Detail("[PHFLSH error 248] iteration did not converge").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InvalidInput(errors.PhaseValidate, "composition has 21 components, limit is 20")
//
// Callers match categories with the package sentinels:
//
//	if errors.Is(err, errors.ErrPoisonedGate) {
//	    // re-run session setup
//	}
package errors
