package wasmlib

import (
	"fmt"

	"github.com/wippyai/refprop"
	"github.com/wippyai/refprop/engine"
)

func (l *Library) SetPath(hpth *[refprop.PathLen]byte) {
	c := l.newCall(refprop.EntrySetPath)
	c.text(hpth[:])
	c.invoke()
}

func (l *Library) SetFluids(hfld *[refprop.FluidsLen]byte, ierr *int32) {
	c := l.newCall(refprop.EntrySetFluids)
	c.text(hfld[:])
	c.i32(ierr)
	c.invoke()
}

func (l *Library) SetMixture(hmxnme *[refprop.MixtureLen]byte, z *refprop.Composition, ierr *int32) {
	c := l.newCall(refprop.EntrySetMixture)
	c.text(hmxnme[:])
	c.f64s(z[:])
	c.i32(ierr)
	c.invoke()
}

func (l *Library) PureFluid(icomp *int32) {
	c := l.newCall(refprop.EntryPureFluid)
	c.i32(icomp)
	c.invoke()
}

func (l *Library) SatSpline(z *refprop.Composition, ierr *int32, herr *refprop.ErrBuf) {
	c := l.newCall(refprop.EntrySatSpline)
	c.f64s(z[:])
	c.i32(ierr)
	c.text(herr[:])
	c.invoke()
}

func (l *Library) Name(icomp *int32, hnam *[refprop.NameLen]byte, hn80 *[refprop.LongNameLen]byte, hcasn *[refprop.CASLen]byte) {
	c := l.newCall(refprop.EntryName)
	c.i32(icomp)
	c.text(hnam[:])
	c.text(hn80[:])
	c.text(hcasn[:])
	c.invoke()
}

func (l *Library) GetEnum(iflag *int32, henum *[refprop.EnumLen]byte, ienum *int32, ierr *int32, herr *refprop.ErrBuf) {
	c := l.newCall(refprop.EntryGetEnum)
	c.i32(iflag)
	c.text(henum[:])
	c.i32(ienum)
	c.i32(ierr)
	c.text(herr[:])
	c.invoke()
}

func (l *Library) ErrMsg(ierr *int32, herr *refprop.ErrBuf) {
	c := l.newCall(refprop.EntryErrMsg)
	c.i32(ierr)
	c.text(herr[:])
	c.invoke()
}

func (l *Library) MolarMass(z *refprop.Composition, wmm *float64) {
	c := l.newCall(refprop.EntryMolarMass)
	c.f64s(z[:])
	c.f64(wmm)
	c.invoke()
}

func (l *Library) MassFractions(xmol *refprop.Composition, xkg *refprop.Composition, wmix *float64) {
	c := l.newCall(refprop.EntryMassFractions)
	c.f64s(xmol[:])
	c.f64s(xkg[:])
	c.f64(wmix)
	c.invoke()
}

func (l *Library) MoleFractions(xkg *refprop.Composition, xmol *refprop.Composition, wmix *float64) {
	c := l.newCall(refprop.EntryMoleFractions)
	c.f64s(xkg[:])
	c.f64s(xmol[:])
	c.f64(wmix)
	c.invoke()
}

func (l *Library) MassQuality(qmol *float64, xl, xv *refprop.Composition, qkg *float64, xlkg, xvkg *refprop.Composition, wliq, wvap *float64, ierr *int32, herr *refprop.ErrBuf) {
	c := l.newCall(refprop.EntryMassQuality)
	c.f64(qmol)
	c.f64s(xl[:])
	c.f64s(xv[:])
	c.f64(qkg)
	c.f64s(xlkg[:])
	c.f64s(xvkg[:])
	c.f64(wliq)
	c.f64(wvap)
	c.i32(ierr)
	c.text(herr[:])
	c.invoke()
}

func (l *Library) MoleQuality(qkg *float64, xlkg, xvkg *refprop.Composition, qmol *float64, xl, xv *refprop.Composition, wliq, wvap *float64, ierr *int32, herr *refprop.ErrBuf) {
	c := l.newCall(refprop.EntryMoleQuality)
	c.f64(qkg)
	c.f64s(xlkg[:])
	c.f64s(xvkg[:])
	c.f64(qmol)
	c.f64s(xl[:])
	c.f64s(xv[:])
	c.f64(wliq)
	c.f64(wvap)
	c.i32(ierr)
	c.text(herr[:])
	c.invoke()
}

func (l *Library) Transport(t, d *float64, z *refprop.Composition, eta, tcx *float64, ierr *int32, herr *refprop.ErrBuf) {
	c := l.newCall(refprop.EntryTransport)
	c.f64(t)
	c.f64(d)
	c.f64s(z[:])
	c.f64(eta)
	c.f64(tcx)
	c.i32(ierr)
	c.text(herr[:])
	c.invoke()
}

func (l *Library) CriticalPoint(z *refprop.Composition, tc, pc, dc *float64, ierr *int32, herr *refprop.ErrBuf) {
	c := l.newCall(refprop.EntryCriticalPoint)
	c.f64s(z[:])
	c.f64(tc)
	c.f64(pc)
	c.f64(dc)
	c.i32(ierr)
	c.text(herr[:])
	c.invoke()
}

func (l *Library) AllProps0(iin *int32, iout *[refprop.MaxProps]int32, iflag *int32, t, d *float64, z *refprop.Composition, output *[refprop.MaxProps]float64, ierr *int32, herr *refprop.ErrBuf) {
	c := l.newCall(refprop.EntryAllProps0)
	c.i32(iin)
	c.i32s(iout[:])
	c.i32(iflag)
	c.f64(t)
	c.f64(d)
	c.f64s(z[:])
	c.f64s(output[:])
	c.i32(ierr)
	c.text(herr[:])
	c.invoke()
}

func (l *Library) AllProps1(hout *[refprop.PropsLen]byte, iunits *int32, t, d *float64, z *refprop.Composition, out *[refprop.MaxProps]float64, ierr *int32, herr *refprop.ErrBuf) {
	c := l.newCall(refprop.EntryAllProps1)
	c.text(hout[:])
	c.i32(iunits)
	c.f64(t)
	c.f64(d)
	c.f64s(z[:])
	c.f64s(out[:])
	c.i32(ierr)
	c.text(herr[:])
	c.invoke()
}

// Flash lays the frame out as inputs, composition, optional flag, the
// entry's outputs in field order, then the error slots. ABFLSHdll leads with
// its pair code and raw input values.
func (l *Library) Flash(entry refprop.Entry, f *refprop.FlashFrame) {
	spec, ok := engine.LookupEntry(entry)
	if !ok {
		panic(fmt.Sprintf("wasmlib: %s is not a flash entry point", entry))
	}

	c := l.newCall(entry)
	if spec.Extra == engine.ExtraComposite {
		c.text(f.Pair[:])
		c.f64(&f.A)
		c.f64(&f.B)
	} else {
		c.f64(f.Scalar(spec.Inputs[0]))
		c.f64(f.Scalar(spec.Inputs[1]))
	}
	c.f64s(f.Z[:])
	if spec.Extra != engine.ExtraNone {
		c.i32(&f.Flag)
	}
	for _, field := range spec.Results() {
		if v := f.Vector(field); v != nil {
			c.f64s(v[:])
		} else {
			c.f64(f.Scalar(field))
		}
	}
	c.i32(&f.Ierr)
	c.text(f.Herr[:])
	c.invoke()
}
