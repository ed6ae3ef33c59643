package engine

import (
	"fmt"
	"strings"

	"github.com/wippyai/refprop"
	"github.com/wippyai/refprop/errors"
	"github.com/wippyai/refprop/marshal"
)

// Extra describes the integer flag a flash entry point takes after the
// composition.
type Extra uint8

const (
	ExtraNone         Extra = iota
	ExtraRoot               // kr: 1 lower density root, 2 higher density root
	ExtraQualityBasis       // kq: 1 molar quality, 2 mass quality
	ExtraComposite          // iFlag: basis + 10*phase + 100*krkq
)

// FlashSpec describes one flash entry point.
type FlashSpec struct {
	Code    string // input pair, e.g. "PH"
	Entry   refprop.Entry
	Inputs  [2]refprop.Field
	Outputs refprop.Field
	Extra   Extra
}

// Populates returns the fields a successful call fills, inputs included.
func (s FlashSpec) Populates() refprop.Field {
	return s.Inputs[0] | s.Inputs[1] | s.Outputs
}

const (
	fT  = refprop.FieldT
	fP  = refprop.FieldP
	fD  = refprop.FieldD
	fDl = refprop.FieldDl
	fDv = refprop.FieldDv
	fX  = refprop.FieldX
	fY  = refprop.FieldY
	fQ  = refprop.FieldQ
	fE  = refprop.FieldE
	fH  = refprop.FieldH
	fS  = refprop.FieldS
	fCv = refprop.FieldCv
	fCp = refprop.FieldCp
	fW  = refprop.FieldW

	// phases and heat capacities; every entry point reports these
	common = fDl | fDv | fX | fY | fCv | fCp | fW
)

var flashSpecs = [...]FlashSpec{
	{"TP", refprop.EntryTPFlash, [2]refprop.Field{fT, fP}, common | fD | fQ | fE | fH | fS, ExtraNone},
	{"TD", refprop.EntryTDFlash, [2]refprop.Field{fT, fD}, common | fP | fQ | fE | fH | fS, ExtraNone},
	{"TH", refprop.EntryTHFlash, [2]refprop.Field{fT, fH}, common | fP | fD | fQ | fE | fS, ExtraRoot},
	{"TS", refprop.EntryTSFlash, [2]refprop.Field{fT, fS}, common | fP | fD | fQ | fE | fH, ExtraRoot},
	{"TE", refprop.EntryTEFlash, [2]refprop.Field{fT, fE}, common | fP | fD | fQ | fH | fS, ExtraRoot},
	{"TQ", refprop.EntryTQFlash, [2]refprop.Field{fT, fQ}, common | fP | fD | fE | fH | fS, ExtraQualityBasis},
	{"PD", refprop.EntryPDFlash, [2]refprop.Field{fP, fD}, common | fT | fQ | fE | fH | fS, ExtraNone},
	{"PH", refprop.EntryPHFlash, [2]refprop.Field{fP, fH}, common | fT | fD | fQ | fE | fS, ExtraNone},
	{"PS", refprop.EntryPSFlash, [2]refprop.Field{fP, fS}, common | fT | fD | fQ | fE | fH, ExtraNone},
	{"PE", refprop.EntryPEFlash, [2]refprop.Field{fP, fE}, common | fT | fD | fQ | fH | fS, ExtraNone},
	{"PQ", refprop.EntryPQFlash, [2]refprop.Field{fP, fQ}, common | fT | fD | fE | fH | fS, ExtraQualityBasis},
	{"HS", refprop.EntryHSFlash, [2]refprop.Field{fH, fS}, common | fT | fP | fD | fQ | fE, ExtraNone},
	{"DH", refprop.EntryDHFlash, [2]refprop.Field{fD, fH}, common | fT | fP | fQ | fE | fS, ExtraNone},
	{"DS", refprop.EntryDSFlash, [2]refprop.Field{fD, fS}, common | fT | fP | fQ | fE | fH, ExtraNone},
	{"DE", refprop.EntryDEFlash, [2]refprop.Field{fD, fE}, common | fT | fP | fQ | fH | fS, ExtraNone},
	{"AB", refprop.EntryABFlash, [2]refprop.Field{}, refprop.FieldsAll, ExtraComposite},
}

// Specs returns the flash descriptor table.
func Specs() []FlashSpec {
	out := make([]FlashSpec, len(flashSpecs))
	copy(out, flashSpecs[:])
	return out
}

// Lookup returns the descriptor for an exact pair code such as "PH" or "AB".
func Lookup(code string) (FlashSpec, bool) {
	code = strings.ToUpper(code)
	for _, s := range flashSpecs {
		if s.Code == code {
			return s, true
		}
	}
	return FlashSpec{}, false
}

// MustLookup is Lookup for codes known to be in the table.
func MustLookup(code string) FlashSpec {
	s, ok := Lookup(code)
	if !ok {
		panic("engine: no flash entry for " + code)
	}
	return s
}

// LookupEntry returns the descriptor for a flash entry point.
func LookupEntry(entry refprop.Entry) (FlashSpec, bool) {
	for _, s := range flashSpecs {
		if s.Entry == entry {
			return s, true
		}
	}
	return FlashSpec{}, false
}

// Results lists the output fields in the entry point's positional order,
// which follows the field bit order.
func (s FlashSpec) Results() []refprop.Field {
	var out []refprop.Field
	for f := refprop.FieldT; f <= refprop.FieldW; f <<= 1 {
		if s.Outputs&f != 0 {
			out = append(out, f)
		}
	}
	return out
}

// Resolve finds the dedicated entry for a pair in either order. swapped
// reports that the caller's inputs must be exchanged. The generic AB entry is
// never returned.
func Resolve(pair string) (spec FlashSpec, swapped bool, ok bool) {
	pair = strings.ToUpper(pair)
	if len(pair) != 2 || pair == "AB" {
		return FlashSpec{}, false, false
	}
	if s, found := Lookup(pair); found {
		return s, false, true
	}
	if s, found := Lookup(string([]byte{pair[1], pair[0]})); found {
		return s, true, true
	}
	return FlashSpec{}, false, false
}

const pairLetters = "TPDEHSQ"

// ValidatePair checks a generic flash pair code and returns it upper-cased.
func ValidatePair(pair string) (string, error) {
	up := strings.ToUpper(pair)
	if len(up) != refprop.PairLen {
		return "", errors.InvalidInput(errors.PhaseValidate,
			"flash pair %q must be exactly %d characters", pair, refprop.PairLen)
	}
	for i := 0; i < len(up); i++ {
		if strings.IndexByte(pairLetters, up[i]) < 0 {
			return "", errors.InvalidInput(errors.PhaseValidate,
				"invalid character %q in flash pair %q, want one of %s", up[i], pair, pairLetters)
		}
	}
	if up[0] == up[1] {
		return "", errors.InvalidInput(errors.PhaseValidate, "flash pair %q repeats a property", pair)
	}
	return up, nil
}

// FlashRequest carries the inputs of one flash calculation.
type FlashRequest struct {
	A, B float64   // values of the descriptor's two inputs, in order
	Z    []float64 // composition
	Flag int32     // kr, kq or composite iFlag, per the descriptor's Extra
	Pair string    // property pair, AB entry only
}

// validate rejects malformed requests before the gate is touched.
func (s FlashSpec) validate(req *FlashRequest) error {
	if err := marshal.ValidateComposition(req.Z); err != nil {
		return err
	}

	switch s.Extra {
	case ExtraRoot:
		if req.Flag != 1 && req.Flag != 2 {
			return errors.New(errors.PhaseValidate, errors.KindInvalidInput).
				Entry(string(s.Entry)).
				Value(req.Flag).
				Detail("root selection must be 1 or 2, got %d", req.Flag).
				Build()
		}
	case ExtraQualityBasis:
		if req.Flag != 1 && req.Flag != 2 {
			return errors.New(errors.PhaseValidate, errors.KindInvalidInput).
				Entry(string(s.Entry)).
				Value(req.Flag).
				Detail("quality basis must be 1 (molar) or 2 (mass), got %d", req.Flag).
				Build()
		}
	case ExtraComposite:
		if !marshal.FlagInRange(req.Flag) {
			return errors.New(errors.PhaseValidate, errors.KindInvalidInput).
				Entry(string(s.Entry)).
				Value(req.Flag).
				Detail("composite flag %d has an option outside [0,%d]", req.Flag, marshal.FlagMax).
				Build()
		}
		pair, err := ValidatePair(req.Pair)
		if err != nil {
			return err
		}
		req.Pair = pair
	}
	return nil
}

// pack builds the frame. Heat capacity slots start at their sentinels so an
// entry point that leaves them untouched reports them as absent.
func (s FlashSpec) pack(req *FlashRequest) (*refprop.FlashFrame, error) {
	f := &refprop.FlashFrame{
		Flag: req.Flag,
		Cv:   marshal.CvUndefined,
		Cp:   marshal.CpUndefined,
	}
	if err := marshal.Pack(f.Z[:], req.Z); err != nil {
		return nil, err
	}

	if s.Extra == ExtraComposite {
		if err := marshal.PackFixed(f.Pair[:], req.Pair, "flash pair"); err != nil {
			return nil, err
		}
		f.A, f.B = req.A, req.B
		return f, nil
	}

	setField(f, s.Inputs[0], req.A)
	setField(f, s.Inputs[1], req.B)
	return f, nil
}

// unpack copies the populated fields out of the frame.
func (s FlashSpec) unpack(f *refprop.FlashFrame, n int) refprop.FlashOutput {
	mask := s.Populates()
	out := refprop.FlashOutput{Populated: mask}

	get := func(field refprop.Field, v float64) float64 {
		if mask&field == 0 {
			return 0
		}
		return v
	}
	out.T = get(fT, f.T)
	out.P = get(fP, f.P)
	out.D = get(fD, f.D)
	out.Dl = get(fDl, f.Dl)
	out.Dv = get(fDv, f.Dv)
	out.Q = get(fQ, f.Q)
	out.E = get(fE, f.E)
	out.H = get(fH, f.H)
	out.S = get(fS, f.S)
	out.W = get(fW, f.W)

	if mask&fX != 0 {
		out.X = marshal.Unpack(f.X[:], n)
	}
	if mask&fY != 0 {
		out.Y = marshal.Unpack(f.Y[:], n)
	}
	if mask&fCv != 0 {
		out.Cv = marshal.HeatCapacity(f.Cv)
	}
	if mask&fCp != 0 {
		out.Cp = marshal.HeatCapacity(f.Cp)
	}
	return out
}

func setField(f *refprop.FlashFrame, field refprop.Field, v float64) {
	p := f.Scalar(field)
	if p == nil {
		panic(fmt.Sprintf("engine: %v is not a flash input", field))
	}
	*p = v
}

// Flash validates req, then resolves the state in one critical section.
func (e *Engine) Flash(spec FlashSpec, req FlashRequest) (refprop.FlashOutput, error) {
	if err := spec.validate(&req); err != nil {
		return refprop.FlashOutput{}, err
	}

	var out refprop.FlashOutput
	err := e.Do(string(spec.Entry), func(tx *Tx) error {
		var err error
		out, err = tx.flash(spec, &req)
		return err
	})
	if err != nil {
		return refprop.FlashOutput{}, err
	}
	return out, nil
}

// FlashBatch resolves several states of the same entry point under a single
// gate hold, so every result sees the same session. All requests are
// validated before the gate is acquired; the first native failure stops the
// batch.
func (e *Engine) FlashBatch(spec FlashSpec, reqs []FlashRequest) ([]refprop.FlashOutput, error) {
	reqs = append([]FlashRequest(nil), reqs...)
	for i := range reqs {
		if err := spec.validate(&reqs[i]); err != nil {
			return nil, fmt.Errorf("request %d: %w", i, err)
		}
	}

	outs := make([]refprop.FlashOutput, 0, len(reqs))
	err := e.Do(string(spec.Entry), func(tx *Tx) error {
		for i := range reqs {
			out, err := tx.flash(spec, &reqs[i])
			if err != nil {
				return fmt.Errorf("request %d: %w", i, err)
			}
			outs = append(outs, out)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outs, nil
}

// flash performs one validated flash inside the caller's critical section.
func (tx *Tx) flash(spec FlashSpec, req *FlashRequest) (refprop.FlashOutput, error) {
	f, err := spec.pack(req)
	if err != nil {
		return refprop.FlashOutput{}, err
	}

	var out refprop.FlashOutput
	err = tx.Call(spec.Entry,
		func(lib refprop.Library, st *Status) {
			lib.Flash(spec.Entry, f)
			st.Code = f.Ierr
			st.Msg = f.Herr
		},
		func() error {
			out = spec.unpack(f, len(req.Z))
			return nil
		})
	return out, err
}
