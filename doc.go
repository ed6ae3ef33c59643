// Package refprop provides a concurrency-safe Go layer over the REFPROP
// native thermodynamic property library.
//
// The native library keeps the loaded fluid, unit system and scratch arrays
// in unsynchronized global state and reports results through fixed-size
// buffers and integer error codes. This module serializes every native call
// behind a single process-wide gate, marshals Go values into the fixed
// layouts the library expects, and translates codes and sentinel values into
// Go errors and optional fields.
//
// # Architecture Overview
//
//	refprop/             Root package with the native Library interface and core result types
//	├── fluid/           High-level API: session setup, flash family, conversions
//	├── engine/          Critical sections, error translation, flash descriptor table
//	├── gate/            Process-wide call gate with poisoning
//	├── marshal/         Composition checks, fixed buffers, flag encoding, sentinels
//	├── errors/          Structured error types
//	├── config/          TOML and environment configuration
//	├── wasmlib/         Library backed by a WebAssembly build (wazero)
//	└── cgolib/          Library backed by the shared native library (cgo)
//
// # Quick Start
//
//	cfg, err := config.Load("refprop.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	client, err := fluid.Open(ctx, cfg, fluid.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close(ctx)
//
//	out, err := client.PHFlash(101.325, 1000, []float64{1.0})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if cp, ok := out.Cp.Get(); ok {
//	    fmt.Println("single phase, cp =", cp)
//	}
//
// # Thread Safety
//
// Every operation is safe for concurrent use. Calls into the native library
// never overlap. Inputs are validated and packed before the gate is taken;
// the gate is then held until the results have been unpacked, so a
// calculation always sees a fully applied fluid selection.
// Waiters are not ordered and a blocked call cannot be cancelled.
//
// # Poisoning
//
// If a native call terminates abnormally (a trap in the WebAssembly build, a
// panic while the gate is held) the gate is poisoned and every later call fails
// with errors.ErrPoisonedGate. Client.Recover re-runs session setup and clears
// the poison only when setup succeeds.
package refprop
