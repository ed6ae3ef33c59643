// Package marshal converts between Go values and the fixed layouts of the
// native interface.
//
// Nothing here calls into the native library. The functions are pure and are
// applied before the gate is acquired (validation, packing) or while it is
// held (unpacking, text decoding, sentinel conversion).
//
// # Fixed Buffers
//
// Variable-length slices are copied left-aligned into zero-initialized arrays
// of the native capacity and truncated back to the caller's length after the
// call:
//
//	var z refprop.Composition
//	if err := marshal.Pack(z[:], fractions); err != nil {
//	    return err
//	}
//	// ... native call ...
//	x := marshal.Unpack(out[:], len(fractions))
//
// # Text Fields
//
// Text is null-terminated inside its fixed field. Fields whose full value
// matters (paths, fluid lists) reject oversized input with Reject; lookups
// where a prefix is meaningful use Truncate. Embedded NUL bytes are always
// rejected.
//
// # Composite Flags
//
// Up to three options in [0,4] pack into one integer by decimal position:
//
//	flag = opt0 + 10*opt1 + 100*opt2
//
// # Sentinels
//
// The native library reports heat capacities that are undefined for the
// state (two-phase) with reserved values. HeatCapacity maps both reserved
// values to an absent Optional.
package marshal
