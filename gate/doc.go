// Package gate provides the process-wide mutual exclusion that serializes
// every call into the native library.
//
// The native library keeps the loaded fluid, unit system and scratch arrays
// in global state and is not reentrant, so there is exactly one gate per
// process. Default returns it, creating it on first use. Separate gates from
// New are only meaningful for stand-in libraries in tests.
//
// # Holding the Gate
//
// A caller holds the gate from buffer packing until the result is unpacked,
// including the follow-up call that fetches a diagnostic message:
//
//	err := gate.Default().Do("PHFLSHdll", func() error {
//	    lib.Flash(refprop.EntryPHFlash, frame)
//	    return translate(frame)
//	})
//
// Acquisition blocks without timeout or cancellation. Waiters are served in
// whatever order sync.Mutex provides.
//
// # Poisoning
//
// A panic while the gate is held means a native call did not complete and
// the session may be corrupt. The gate records the cause and every later
// acquisition fails with errors.ErrPoisonedGate until Recover runs a
// successful session setup.
package gate
