package nativetest

import (
	"strings"

	"github.com/wippyai/refprop/marshal"
)

// Fluid is one component known to the stand-in.
type Fluid struct {
	Name      string
	Long      string
	CAS       string
	MolarMass float64 // g/mol
	Tc        float64 // K
	Pc        float64 // kPa
	Dc        float64 // mol/L
}

var fluids = map[string]Fluid{
	"WATER":    {"WATER", "water", "7732-18-5", 18.015268, 647.096, 22064, 17.873716},
	"NITROGEN": {"NITROGEN", "nitrogen", "7727-37-9", 28.01348, 126.192, 3395.8, 11.1839},
	"OXYGEN":   {"OXYGEN", "oxygen", "7782-44-7", 31.9988, 154.581, 5043, 13.63},
	"ARGON":    {"ARGON", "argon", "7440-37-1", 39.948, 150.687, 4863, 13.40742},
	"METHANE":  {"METHANE", "methane", "74-82-8", 16.0428, 190.564, 4599.2, 10.139128},
	"CO2":      {"CO2", "carbon dioxide", "124-38-9", 44.0098, 304.1282, 7377.3, 10.6249},
	"PROPANE":  {"PROPANE", "propane", "74-98-6", 44.09562, 369.89, 4251.2, 5},
	"R134A":    {"R134A", "1,1,1,2-tetrafluoroethane", "811-97-2", 102.032, 374.21, 4059.28, 5.017053},
	"R32":      {"R32", "difluoromethane", "75-10-5", 52.024, 351.255, 5782, 8.1500846},
	"R125":     {"R125", "pentafluoroethane", "354-33-6", 120.0214, 339.173, 3617.7, 4.779},
}

// LookupFluid finds a component by name, ignoring case and a ".FLD" suffix.
func LookupFluid(name string) (Fluid, bool) {
	key := strings.ToUpper(strings.TrimSpace(name))
	key = strings.TrimSuffix(key, ".FLD")
	f, ok := fluids[key]
	return f, ok
}

// Mixture is a predefined mixture known to the stand-in.
type Mixture struct {
	Components []string
	Fractions  []float64
}

var mixtures = map[string]Mixture{
	"AIR":   {[]string{"NITROGEN", "ARGON", "OXYGEN"}, []float64{0.7812, 0.0092, 0.2096}},
	"R410A": {[]string{"R32", "R125"}, []float64{0.697614699375863, 0.302385300624138}},
}

// LookupMixture finds a predefined mixture, ignoring case and a ".MIX"
// suffix.
func LookupMixture(name string) (Mixture, bool) {
	key := strings.ToUpper(strings.TrimSpace(name))
	key = strings.TrimSuffix(key, ".MIX")
	m, ok := mixtures[key]
	return m, ok
}

// Unit system enumerations, resolved with GetEnum flags other than 3.
var unitSystems = map[string]int32{
	"DEFAULT":       0,
	"MOLAR SI":      1,
	"MASS SI":       2,
	"SI WITH C":     3,
	"MOLAR BASE SI": 4,
	"MASS BASE SI":  5,
	"ENGLISH":       6,
	"MOLAR ENGLISH": 7,
	"MKS":           8,
	"CGS":           9,
	"MIXED":         10,
	"MEUNITS":       11,
}

// Property enumerations, resolved with GetEnum flags other than 1.
var propertyCodes = map[string]int32{
	"T":   1001,
	"P":   1002,
	"D":   1003,
	"E":   1004,
	"H":   1005,
	"S":   1006,
	"CV":  1007,
	"CP":  1008,
	"W":   1009,
	"ETA": 1010,
	"TCX": 1011,
	"M":   1012,
	// resolves but is never defined
	"UNDEF": 1099,
}

// PropertyCode returns the enumeration the stand-in assigns to a property
// name.
func PropertyCode(name string) int32 {
	return propertyCodes[strings.ToUpper(name)]
}

// UnitSystem returns the enumeration the stand-in assigns to a unit system.
func UnitSystem(name string) int32 {
	return unitSystems[strings.ToUpper(name)]
}

const gasConstant = 8.314462618 // J/(mol K)

// property evaluates a property code at (t, d) for a mixture of molar mass w.
func property(code int32, t, d, w float64) (float64, bool) {
	p := d * gasConstant * t // kPa for d in mol/L
	e := 20.8 * t
	switch code {
	case 1001:
		return t, true
	case 1002:
		return p, true
	case 1003:
		return d, true
	case 1004:
		return e, true
	case 1005:
		if d == 0 {
			return e, true
		}
		return e + p/d, true
	case 1006:
		return 191.6, true
	case 1007:
		return 20.8, true
	case 1008:
		return 20.8 + gasConstant, true
	case 1009:
		return 353.1, true
	case 1010:
		return 10 + t/100 + d, true
	case 1011:
		return 0.02 + t/1e4 + d/1e3, true
	case 1012:
		return w, true
	case 1099:
		return marshal.PropUndefined, true
	}
	return 0, false
}
