package fluid

import (
	"fmt"

	"github.com/wippyai/refprop"
	"github.com/wippyai/refprop/engine"
	"github.com/wippyai/refprop/errors"
	"github.com/wippyai/refprop/marshal"
)

// MassFractions converts mole fractions to mass fractions and returns the
// mixture molar mass in g/mol.
func (c *Client) MassFractions(xmol []float64) ([]float64, float64, error) {
	return c.fractions(refprop.EntryMassFractions, xmol, func(lib refprop.Library, in, out *refprop.Composition, w *float64) {
		lib.MassFractions(in, out, w)
	})
}

// MoleFractions converts mass fractions to mole fractions and returns the
// mixture molar mass in g/mol.
func (c *Client) MoleFractions(xkg []float64) ([]float64, float64, error) {
	return c.fractions(refprop.EntryMoleFractions, xkg, func(lib refprop.Library, in, out *refprop.Composition, w *float64) {
		lib.MoleFractions(in, out, w)
	})
}

// fractions runs a conversion entry point. These report no error code; a
// molar mass that is not positive is the only failure signal.
func (c *Client) fractions(entry refprop.Entry, x []float64, call func(refprop.Library, *refprop.Composition, *refprop.Composition, *float64)) ([]float64, float64, error) {
	if err := marshal.ValidateComposition(x); err != nil {
		return nil, 0, err
	}
	in, err := marshal.PackComposition(x)
	if err != nil {
		return nil, 0, err
	}

	var out refprop.Composition
	var w float64
	err = c.eng.Call(entry,
		func(lib refprop.Library, _ *engine.Status) {
			call(lib, &in, &out, &w)
		},
		func() error {
			return checkMolarMass(entry, w)
		})
	if err != nil {
		return nil, 0, err
	}
	return marshal.Unpack(out[:], len(x)), w, nil
}

func checkMolarMass(entry refprop.Entry, w float64) error {
	if w > 0 {
		return nil
	}
	return errors.Calculation(string(entry), 0,
		fmt.Sprintf("molar mass %g is not positive; check the loaded fluids and composition", w))
}

// QualityOutput is the result of a quality basis conversion.
type QualityOutput struct {
	Quality float64   // converted quality
	Liquid  []float64 // liquid composition on the converted basis
	Vapor   []float64 // vapor composition on the converted basis

	LiquidMolarMass float64 // g/mol
	VaporMolarMass  float64 // g/mol
}

// MassQuality converts a molar quality with liquid and vapor mole fractions
// to the mass basis.
func (c *Client) MassQuality(qmol float64, xl, xv []float64) (QualityOutput, error) {
	return c.quality(refprop.EntryMassQuality, qmol, xl, xv,
		func(lib refprop.Library, q *float64, xl, xv *refprop.Composition, qout *float64, xlout, xvout *refprop.Composition, wl, wv *float64, st *engine.Status) {
			lib.MassQuality(q, xl, xv, qout, xlout, xvout, wl, wv, &st.Code, &st.Msg)
		})
}

// MoleQuality converts a mass quality with liquid and vapor mass fractions
// to the molar basis.
func (c *Client) MoleQuality(qkg float64, xl, xv []float64) (QualityOutput, error) {
	return c.quality(refprop.EntryMoleQuality, qkg, xl, xv,
		func(lib refprop.Library, q *float64, xl, xv *refprop.Composition, qout *float64, xlout, xvout *refprop.Composition, wl, wv *float64, st *engine.Status) {
			lib.MoleQuality(q, xl, xv, qout, xlout, xvout, wl, wv, &st.Code, &st.Msg)
		})
}

type qualityCall func(lib refprop.Library, q *float64, xl, xv *refprop.Composition, qout *float64, xlout, xvout *refprop.Composition, wl, wv *float64, st *engine.Status)

func (c *Client) quality(entry refprop.Entry, q float64, xl, xv []float64, call qualityCall) (QualityOutput, error) {
	if !(q >= 0 && q <= 1) {
		return QualityOutput{}, errors.New(errors.PhaseValidate, errors.KindInvalidInput).
			Entry(string(entry)).
			Value(q).
			Detail("quality %g outside [0,1]", q).
			Build()
	}
	for _, x := range [][]float64{xl, xv} {
		if err := marshal.ValidateComposition(x); err != nil {
			return QualityOutput{}, err
		}
	}
	xlb, err := marshal.PackComposition(xl)
	if err != nil {
		return QualityOutput{}, err
	}
	xvb, err := marshal.PackComposition(xv)
	if err != nil {
		return QualityOutput{}, err
	}

	var (
		qout         float64
		xlout, xvout refprop.Composition
		out          QualityOutput
	)
	err = c.eng.Call(entry,
		func(lib refprop.Library, st *engine.Status) {
			call(lib, &q, &xlb, &xvb, &qout, &xlout, &xvout, &out.LiquidMolarMass, &out.VaporMolarMass, st)
		},
		func() error {
			out.Quality = qout
			out.Liquid = marshal.Unpack(xlout[:], len(xl))
			out.Vapor = marshal.Unpack(xvout[:], len(xv))
			return nil
		})
	if err != nil {
		return QualityOutput{}, err
	}
	return out, nil
}
