// Package engine runs native calls inside the process gate and interprets
// their results.
//
// # Critical Sections
//
// Engine.Do acquires the gate and hands the callback a Tx. Every native call
// made through the Tx runs in the same critical section, so a sequence such
// as "select fluid, then flash" cannot be interleaved with another caller:
//
//	err := eng.Do("setup", func(tx *engine.Tx) error {
//	    if err := tx.Setup(refprop.EntrySetPath, callSetPath, nil); err != nil {
//	        return err
//	    }
//	    return tx.Setup(refprop.EntrySetFluids, callSetFluids, nil)
//	})
//
// # Error Translation
//
// A nonzero native code triggers a second call, ERRMSGdll, on the same
// message buffer while the gate is still held. The decoded text becomes an
// errors.KindCalculation error carrying the code. Undecodable text becomes
// errors.KindTextDecoding. A zero code performs no message lookup.
//
// # Flash Descriptors
//
// The flash family is a table of FlashSpec values. Each names the entry
// point, the two input fields, the output fields it populates and the shape
// of its extra integer flag. Engine.Flash is the single generic path:
//
//	validate → acquire gate → pack frame → invoke → translate → unpack → release
//
// Heat capacities pass through marshal.HeatCapacity before leaving the
// critical section, so sentinel values never reach callers.
package engine
