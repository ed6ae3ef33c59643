package marshal

import "github.com/wippyai/refprop"

// Reserved values the native library writes in place of a result.
const (
	CvUndefined   = -9999990.0 // isochoric heat capacity not defined
	CpUndefined   = -9999980.0 // isobaric heat capacity not defined
	PropUndefined = -9999970.0 // ALLPROPS output could not be calculated
)

// IsHeatCapacitySentinel reports whether v is either heat capacity sentinel.
// Some entry points write the companion sentinel, so both are checked.
func IsHeatCapacitySentinel(v float64) bool {
	return v == CvUndefined || v == CpUndefined
}

// HeatCapacity converts a raw heat capacity output into an Optional.
func HeatCapacity(v float64) refprop.Optional[float64] {
	if IsHeatCapacitySentinel(v) {
		return refprop.None[float64]()
	}
	return refprop.Some(v)
}

// Recheck re-applies HeatCapacity to an already converted value.
func Recheck(o refprop.Optional[float64]) refprop.Optional[float64] {
	v, ok := o.Get()
	if !ok {
		return o
	}
	return HeatCapacity(v)
}
