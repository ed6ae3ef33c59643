package fluid

import (
	"github.com/wippyai/refprop"
	"github.com/wippyai/refprop/engine"
)

var (
	specTP = engine.MustLookup("TP")
	specTD = engine.MustLookup("TD")
	specTH = engine.MustLookup("TH")
	specTS = engine.MustLookup("TS")
	specTE = engine.MustLookup("TE")
	specTQ = engine.MustLookup("TQ")
	specPD = engine.MustLookup("PD")
	specPH = engine.MustLookup("PH")
	specPS = engine.MustLookup("PS")
	specPE = engine.MustLookup("PE")
	specPQ = engine.MustLookup("PQ")
	specHS = engine.MustLookup("HS")
	specDH = engine.MustLookup("DH")
	specDS = engine.MustLookup("DS")
	specDE = engine.MustLookup("DE")
	specAB = engine.MustLookup("AB")
)

func (c *Client) flash(spec engine.FlashSpec, a, b float64, z []float64, flag int32) (refprop.FlashOutput, error) {
	return c.eng.Flash(spec, engine.FlashRequest{A: a, B: b, Z: z, Flag: flag})
}

// TPFlash resolves the state at temperature t and pressure p.
func (c *Client) TPFlash(t, p float64, z []float64) (refprop.FlashOutput, error) {
	return c.flash(specTP, t, p, z, 0)
}

// TDFlash resolves the state at temperature t and density d.
func (c *Client) TDFlash(t, d float64, z []float64) (refprop.FlashOutput, error) {
	return c.flash(specTD, t, d, z, 0)
}

// THFlash resolves the state at temperature t and enthalpy h. kr picks the
// root when two liquid states share t and h.
func (c *Client) THFlash(t, h float64, z []float64, kr RootSelection) (refprop.FlashOutput, error) {
	return c.flash(specTH, t, h, z, int32(kr))
}

// TSFlash resolves the state at temperature t and entropy s.
func (c *Client) TSFlash(t, s float64, z []float64, kr RootSelection) (refprop.FlashOutput, error) {
	return c.flash(specTS, t, s, z, int32(kr))
}

// TEFlash resolves the state at temperature t and internal energy e.
func (c *Client) TEFlash(t, e float64, z []float64, kr RootSelection) (refprop.FlashOutput, error) {
	return c.flash(specTE, t, e, z, int32(kr))
}

// TQFlash resolves the saturation state at temperature t and quality q. A q
// of -99 requests the melting line and -98 the sublimation line. Basis and
// phase options beyond kq go through Flash, which routes them to ABFLSHdll.
func (c *Client) TQFlash(t, q float64, z []float64, kq QualityBasis) (refprop.FlashOutput, error) {
	return c.flash(specTQ, t, q, z, int32(kq))
}

// PDFlash resolves the state at pressure p and density d.
func (c *Client) PDFlash(p, d float64, z []float64) (refprop.FlashOutput, error) {
	return c.flash(specPD, p, d, z, 0)
}

// PHFlash resolves the state at pressure p and enthalpy h.
func (c *Client) PHFlash(p, h float64, z []float64) (refprop.FlashOutput, error) {
	return c.flash(specPH, p, h, z, 0)
}

// PSFlash resolves the state at pressure p and entropy s.
func (c *Client) PSFlash(p, s float64, z []float64) (refprop.FlashOutput, error) {
	return c.flash(specPS, p, s, z, 0)
}

// PEFlash resolves the state at pressure p and internal energy e.
func (c *Client) PEFlash(p, e float64, z []float64) (refprop.FlashOutput, error) {
	return c.flash(specPE, p, e, z, 0)
}

// PQFlash resolves the saturation state at pressure p and quality q. A q of
// -99 requests the melting line and -98 the sublimation line. Basis and phase
// options beyond kq go through Flash, which routes them to ABFLSHdll.
func (c *Client) PQFlash(p, q float64, z []float64, kq QualityBasis) (refprop.FlashOutput, error) {
	return c.flash(specPQ, p, q, z, int32(kq))
}

// HSFlash resolves the state at enthalpy h and entropy s.
func (c *Client) HSFlash(h, s float64, z []float64) (refprop.FlashOutput, error) {
	return c.flash(specHS, h, s, z, 0)
}

// DHFlash resolves the state at density d and enthalpy h.
func (c *Client) DHFlash(d, h float64, z []float64) (refprop.FlashOutput, error) {
	return c.flash(specDH, d, h, z, 0)
}

// DSFlash resolves the state at density d and entropy s.
func (c *Client) DSFlash(d, s float64, z []float64) (refprop.FlashOutput, error) {
	return c.flash(specDS, d, s, z, 0)
}

// DEFlash resolves the state at density d and internal energy e.
func (c *Client) DEFlash(d, e float64, z []float64) (refprop.FlashOutput, error) {
	return c.flash(specDE, d, e, z, 0)
}

// ABFlash resolves the state from any pair of distinct properties drawn from
// T, P, D, E, H, S and Q, with a and b in pair order.
func (c *Client) ABFlash(pair string, a, b float64, z []float64, flags FlashFlags) (refprop.FlashOutput, error) {
	if err := flags.validate(); err != nil {
		return refprop.FlashOutput{}, err
	}
	return c.eng.Flash(specAB, engine.FlashRequest{A: a, B: b, Z: z, Flag: flags.Encode(), Pair: pair})
}

// Flash resolves the state for pair, in either order, using the dedicated
// entry point when one exists and the flags fit it, and ABFLSHdll otherwise.
func (c *Client) Flash(pair string, a, b float64, z []float64, flags FlashFlags) (refprop.FlashOutput, error) {
	r, err := route(pair, flags)
	if err != nil {
		return refprop.FlashOutput{}, err
	}
	return c.eng.Flash(r.spec, r.request(a, b, z))
}

// BatchRequest is one state of a FlashBatch.
type BatchRequest struct {
	A, B float64
	Z    []float64
}

// FlashBatch resolves every request for pair under a single gate hold, so
// all results see the same session. Inputs are validated before the gate is
// taken; the first native failure ends the batch.
func (c *Client) FlashBatch(pair string, reqs []BatchRequest, flags FlashFlags) ([]refprop.FlashOutput, error) {
	r, err := route(pair, flags)
	if err != nil {
		return nil, err
	}
	batch := make([]engine.FlashRequest, len(reqs))
	for i, req := range reqs {
		batch[i] = r.request(req.A, req.B, req.Z)
	}
	return c.eng.FlashBatch(r.spec, batch)
}

// routing is the resolved target of a generic flash.
type routing struct {
	spec    engine.FlashSpec
	swapped bool
	flag    int32
	pair    string
}

func (r routing) request(a, b float64, z []float64) engine.FlashRequest {
	if r.swapped {
		a, b = b, a
	}
	return engine.FlashRequest{A: a, B: b, Z: z, Flag: r.flag, Pair: r.pair}
}

// route picks the entry point for a generic flash. A dedicated entry point
// is used only when the flags carry nothing it cannot express: molar basis,
// no phase hint, and a krkq that maps onto its root or quality flag.
func route(pair string, flags FlashFlags) (routing, error) {
	up, err := engine.ValidatePair(pair)
	if err != nil {
		return routing{}, err
	}
	if err := flags.validate(); err != nil {
		return routing{}, err
	}

	if flags.Basis == BasisMolar && flags.Phase == PhaseUnknown {
		if spec, swapped, ok := engine.Resolve(up); ok {
			if flag, ok := dedicatedFlag(spec.Extra, flags.KrKq); ok {
				return routing{spec: spec, swapped: swapped, flag: flag}, nil
			}
		}
	}
	return routing{spec: specAB, flag: flags.Encode(), pair: up}, nil
}

// dedicatedFlag translates krkq into the kr or kq argument of a dedicated
// entry point.
func dedicatedFlag(extra engine.Extra, k KrKq) (int32, bool) {
	switch extra {
	case engine.ExtraNone:
		return 0, k == KrKqDefault
	case engine.ExtraRoot:
		switch k {
		case KrKqDefault, KrKqLowerDensity:
			return int32(RootLowerDensity), true
		case KrKqHigherDensity:
			return int32(RootHigherDensity), true
		}
	case engine.ExtraQualityBasis:
		switch k {
		case KrKqDefault, KrKqQualityMolar:
			return int32(QualityMolar), true
		case KrKqQualityMass:
			return int32(QualityMass), true
		}
	}
	return 0, false
}
