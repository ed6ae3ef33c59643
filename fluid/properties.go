package fluid

import (
	"fmt"
	"strings"

	"github.com/wippyai/refprop"
	"github.com/wippyai/refprop/engine"
	"github.com/wippyai/refprop/errors"
	"github.com/wippyai/refprop/marshal"
)

// MolarMass returns the molar mass of z in g/mol. z is not required to be
// normalized.
func (c *Client) MolarMass(z []float64) (float64, error) {
	zb, err := packAny(z)
	if err != nil {
		return 0, err
	}
	var w float64
	err = c.eng.Call(refprop.EntryMolarMass,
		func(lib refprop.Library, _ *engine.Status) {
			lib.MolarMass(&zb, &w)
		},
		func() error {
			return checkMolarMass(refprop.EntryMolarMass, w)
		})
	if err != nil {
		return 0, err
	}
	return w, nil
}

// CriticalPoint is an estimate of a mixture's critical state.
type CriticalPoint struct {
	Tc float64 // K
	Pc float64 // kPa
	Dc float64 // mol/L
}

// CriticalPoint estimates the critical parameters of z. For mixtures the
// values come from fits to binary critical lines.
func (c *Client) CriticalPoint(z []float64) (CriticalPoint, error) {
	zb, err := packAny(z)
	if err != nil {
		return CriticalPoint{}, err
	}
	var cp CriticalPoint
	err = c.eng.Call(refprop.EntryCriticalPoint, func(lib refprop.Library, st *engine.Status) {
		lib.CriticalPoint(&zb, &cp.Tc, &cp.Pc, &cp.Dc, &st.Code, &st.Msg)
	}, nil)
	if err != nil {
		return CriticalPoint{}, err
	}
	return cp, nil
}

// TransportOutput holds transport properties.
type TransportOutput struct {
	Eta float64 // viscosity, uPa-s
	Tcx float64 // thermal conductivity, W/m-K
}

// Transport returns viscosity and thermal conductivity at temperature t and
// density d. It is defined for single-phase states only.
func (c *Client) Transport(t, d float64, z []float64) (TransportOutput, error) {
	zb, err := packNormalized(z)
	if err != nil {
		return TransportOutput{}, err
	}
	var out TransportOutput
	err = c.eng.Call(refprop.EntryTransport, func(lib refprop.Library, st *engine.Status) {
		lib.Transport(&t, &d, &zb, &out.Eta, &out.Tcx, &st.Code, &st.Msg)
	}, nil)
	if err != nil {
		return TransportOutput{}, err
	}
	return out, nil
}

// AllProps0 evaluates the properties named by enumeration codes at
// temperature t and density d. Codes come from GetEnum. The result has one
// value per code.
func (c *Client) AllProps0(codes []int32, basis Basis, t, d float64, z []float64) ([]float64, error) {
	if len(codes) == 0 || len(codes) > refprop.MaxProps {
		return nil, errors.InvalidInput(errors.PhaseValidate,
			"%d property codes, want 1 to %d", len(codes), refprop.MaxProps)
	}
	if !basis.Valid() {
		return nil, errors.InvalidInput(errors.PhaseValidate,
			"basis %d out of range [0,%d]", basis, BasisMassExceptComposition)
	}
	zb, err := packNormalized(z)
	if err != nil {
		return nil, err
	}
	var iout [refprop.MaxProps]int32
	if err := marshal.Pack(iout[:], codes); err != nil {
		return nil, err
	}

	iin := int32(len(codes))
	iflag := int32(basis)
	var output [refprop.MaxProps]float64
	var values []float64
	err = c.eng.Call(refprop.EntryAllProps0,
		func(lib refprop.Library, st *engine.Status) {
			lib.AllProps0(&iin, &iout, &iflag, &t, &d, &zb, &output, &st.Code, &st.Msg)
		},
		func() error {
			values = marshal.Unpack(output[:], len(codes))
			return undefinedProperty(refprop.EntryAllProps0, values, func(i int) string {
				return fmt.Sprintf("code %d", codes[i])
			})
		})
	if err != nil {
		return nil, err
	}
	return values, nil
}

// AllProps1 evaluates the properties listed in props, separated by spaces,
// commas, semicolons or '|', at temperature t and density d. units selects
// the unit system for this call; empty uses the one chosen at setup.
func (c *Client) AllProps1(props string, units Units, t, d float64, z []float64) ([]float64, error) {
	names := splitProps(props)
	if len(names) == 0 || len(names) > refprop.MaxProps {
		return nil, errors.InvalidInput(errors.PhaseValidate,
			"%d properties listed, want 1 to %d", len(names), refprop.MaxProps)
	}
	var hout [refprop.PropsLen]byte
	if err := marshal.PackText(hout[:], props, "property list", marshal.Reject); err != nil {
		return nil, err
	}
	var henum *[refprop.EnumLen]byte
	if units != "" {
		var err error
		if henum, err = packEnum(units); err != nil {
			return nil, err
		}
	}
	zb, err := packNormalized(z)
	if err != nil {
		return nil, err
	}

	var values []float64
	err = c.eng.Do(string(refprop.EntryAllProps1), func(tx *engine.Tx) error {
		iunits := c.units
		if henum != nil {
			code, err := getEnum(tx, UnitsOnly, henum)
			if err != nil {
				return err
			}
			iunits = code
		}

		var out [refprop.MaxProps]float64
		return tx.Call(refprop.EntryAllProps1,
			func(lib refprop.Library, st *engine.Status) {
				lib.AllProps1(&hout, &iunits, &t, &d, &zb, &out, &st.Code, &st.Msg)
			},
			func() error {
				values = marshal.Unpack(out[:], len(names))
				return undefinedProperty(refprop.EntryAllProps1, values, func(i int) string {
					return names[i]
				})
			})
	})
	if err != nil {
		return nil, err
	}
	return values, nil
}

func splitProps(props string) []string {
	return strings.FieldsFunc(props, func(r rune) bool {
		return r == ' ' || r == ',' || r == ';' || r == '|'
	})
}

// undefinedProperty fails on the first value the library could not
// calculate.
func undefinedProperty(entry refprop.Entry, values []float64, label func(int) string) error {
	for i, v := range values {
		if v == marshal.PropUndefined {
			return errors.New(errors.PhaseCall, errors.KindCalculation).
				Entry(string(entry)).
				Value(i).
				Detail("property %s is undefined at this state", label(i)).
				Build()
		}
	}
	return nil
}

func packAny(z []float64) (refprop.Composition, error) {
	if err := marshal.CheckLength(z); err != nil {
		return refprop.Composition{}, err
	}
	return marshal.PackComposition(z)
}

func packNormalized(z []float64) (refprop.Composition, error) {
	if err := marshal.ValidateComposition(z); err != nil {
		return refprop.Composition{}, err
	}
	return marshal.PackComposition(z)
}
