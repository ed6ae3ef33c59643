// Package fluid is the public operation surface over the native property
// library.
//
// A Client pairs a refprop.Library with the process gate. Every method
// validates its inputs before touching the gate, holds the gate from buffer
// packing until the result is unpacked, and returns either a value or an
// *errors.Error of a known Kind.
//
// # Session
//
// The native library keeps one loaded fluid or mixture for the whole
// process. Setup applies a config.Config in a single gate hold: search path,
// then fluids or mixture, then the unit system. Calculations issued after
// Setup returns always see that session.
//
//	client, err := fluid.Open(ctx, cfg, fluid.Options{})
//	if err != nil {
//	    return err
//	}
//	defer client.Close(ctx)
//
//	out, err := client.TPFlash(300, 101.325, []float64{1})
//
// # Flash Calculations
//
// The typed methods (TPFlash, PHFlash, ...) call the dedicated entry points.
// Flash accepts any pair of distinct letters from TPDEHSQ and routes to a
// dedicated entry point when one exists, falling back to ABFLSHdll.
// FlashBatch resolves many states of one pair under a single gate hold.
//
// # Recovery
//
// After a backend trap every call fails with errors.ErrPoisonedGate until
// Recover re-applies a configuration successfully.
package fluid
