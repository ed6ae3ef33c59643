//go:build cgo && refprop

package cgolib

/*
#cgo linux LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdlib.h>

typedef void* P;

static void call_p1(P f, P a) { ((void (*)(P))f)(a); }
static void call_p2(P f, P a, P b) { ((void (*)(P, P))f)(a, b); }
static void call_p3(P f, P a, P b, P c) { ((void (*)(P, P, P))f)(a, b, c); }
static void call_p1_l1(P f, P a, int n) { ((void (*)(P, int))f)(a, n); }
static void call_p2_l1(P f, P a, P b, int n) { ((void (*)(P, P, int))f)(a, b, n); }
static void call_p3_l1(P f, P a, P b, P c, int n) { ((void (*)(P, P, P, int))f)(a, b, c, n); }

static void call_p4_l3(P f, P a, P b, P c, P d, int n1, int n2, int n3) {
	((void (*)(P, P, P, P, int, int, int))f)(a, b, c, d, n1, n2, n3);
}

static void call_p5_l2(P f, P a, P b, P c, P d, P e, int n1, int n2) {
	((void (*)(P, P, P, P, P, int, int))f)(a, b, c, d, e, n1, n2);
}

static void call_p6_l1(P f, P a, P b, P c, P d, P e, P g, int n) {
	((void (*)(P, P, P, P, P, P, int))f)(a, b, c, d, e, g, n);
}

static void call_p7_l1(P f, P a, P b, P c, P d, P e, P g, P h, int n) {
	((void (*)(P, P, P, P, P, P, P, int))f)(a, b, c, d, e, g, h, n);
}

static void call_p8_l2(P f, P a, P b, P c, P d, P e, P g, P h, P i, int n1, int n2) {
	((void (*)(P, P, P, P, P, P, P, P, int, int))f)(a, b, c, d, e, g, h, i, n1, n2);
}

static void call_p9_l1(P f, P a, P b, P c, P d, P e, P g, P h, P i, P j, int n) {
	((void (*)(P, P, P, P, P, P, P, P, P, int))f)(a, b, c, d, e, g, h, i, j, n);
}

static void call_p10_l1(P f, P a, P b, P c, P d, P e, P g, P h, P i, P j, P k, int n) {
	((void (*)(P, P, P, P, P, P, P, P, P, P, int))f)(a, b, c, d, e, g, h, i, j, k, n);
}

typedef void (*flash17)(P, P, P, P, P, P, P, P, P, P, P, P, P, P, P, P, P, int);
typedef void (*flash18)(P, P, P, P, P, P, P, P, P, P, P, P, P, P, P, P, P, P, int);
typedef void (*flash21)(P, P, P, P, P, P, P, P, P, P, P, P, P, P, P, P, P, P, P, P, P, int, int);

static void call_flash17(P f,
	P p0, P p1, P p2, P p3, P p4, P p5, P p6, P p7, P p8,
	P p9, P p10, P p11, P p12, P p13, P p14, P p15, P p16, int n) {
	((flash17)f)(p0, p1, p2, p3, p4, p5, p6, p7, p8, p9, p10, p11, p12, p13, p14, p15, p16, n);
}

static void call_flash18(P f,
	P p0, P p1, P p2, P p3, P p4, P p5, P p6, P p7, P p8,
	P p9, P p10, P p11, P p12, P p13, P p14, P p15, P p16, P p17, int n) {
	((flash18)f)(p0, p1, p2, p3, p4, p5, p6, p7, p8, p9, p10, p11, p12, p13, p14, p15, p16, p17, n);
}

static void call_flash21(P f,
	P p0, P p1, P p2, P p3, P p4, P p5, P p6, P p7, P p8, P p9, P p10,
	P p11, P p12, P p13, P p14, P p15, P p16, P p17, P p18, P p19, P p20, int n1, int n2) {
	((flash21)f)(p0, p1, p2, p3, p4, p5, p6, p7, p8, p9, p10,
		p11, p12, p13, p14, p15, p16, p17, p18, p19, p20, n1, n2);
}
*/
import "C"

import (
	"context"
	"fmt"
	"strings"
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/refprop"
	"github.com/wippyai/refprop/engine"
	"github.com/wippyai/refprop/errors"
)

// Available reports whether this build can load the shared library.
const Available = true

// Library implements refprop.Library on the shared native library. Like the
// native library it is not safe for concurrent use.
type Library struct {
	path   string
	handle unsafe.Pointer
	syms   map[refprop.Entry]C.P
}

// Open loads the shared library at path and resolves every entry point.
func Open(path string) (*Library, error) {
	if path == "" {
		return nil, errors.New(errors.PhaseLoad, errors.KindInitialization).
			Detail("no shared library path configured").
			Build()
	}

	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	handle := C.dlopen(cpath, C.RTLD_NOW|C.RTLD_LOCAL)
	if handle == nil {
		return nil, errors.New(errors.PhaseLoad, errors.KindInitialization).
			Detail("dlopen %s: %s", path, C.GoString(C.dlerror())).
			Build()
	}

	syms := make(map[refprop.Entry]C.P)
	var missing []string
	for _, e := range refprop.Entries() {
		if sym := lookup(handle, e); sym != nil {
			syms[e] = sym
			continue
		}
		missing = append(missing, string(e))
	}
	if len(missing) > 0 {
		C.dlclose(handle)
		return nil, errors.New(errors.PhaseLoad, errors.KindInitialization).
			Value(missing).
			Detail("%s is missing %d entry points: %s", path, len(missing), strings.Join(missing, ", ")).
			Build()
	}

	Logger().Info("native library loaded", zap.String("path", path), zap.Int("exports", len(syms)))
	return &Library{path: path, handle: handle, syms: syms}, nil
}

func lookup(handle unsafe.Pointer, e refprop.Entry) C.P {
	for _, name := range e.ExportNames() {
		cname := C.CString(name)
		sym := C.dlsym(handle, cname)
		C.free(unsafe.Pointer(cname))
		if sym != nil {
			return C.P(sym)
		}
	}
	return nil
}

// Close unloads the shared library.
func (l *Library) Close(context.Context) error {
	if l.handle == nil {
		return nil
	}
	handle := l.handle
	l.handle = nil
	if C.dlclose(handle) != 0 {
		return errors.New(errors.PhaseLoad, errors.KindUnknown).
			Detail("dlclose %s: %s", l.path, C.GoString(C.dlerror())).
			Build()
	}
	return nil
}

func p[T any](v *T) C.P {
	return C.P(unsafe.Pointer(v))
}

func n(b []byte) C.int {
	return C.int(len(b))
}

func (l *Library) SetPath(hpth *[refprop.PathLen]byte) {
	C.call_p1_l1(l.syms[refprop.EntrySetPath], p(hpth), n(hpth[:]))
}

func (l *Library) SetFluids(hfld *[refprop.FluidsLen]byte, ierr *int32) {
	C.call_p2_l1(l.syms[refprop.EntrySetFluids], p(hfld), p(ierr), n(hfld[:]))
}

func (l *Library) SetMixture(hmxnme *[refprop.MixtureLen]byte, z *refprop.Composition, ierr *int32) {
	C.call_p3_l1(l.syms[refprop.EntrySetMixture], p(hmxnme), p(z), p(ierr), n(hmxnme[:]))
}

func (l *Library) PureFluid(icomp *int32) {
	C.call_p1(l.syms[refprop.EntryPureFluid], p(icomp))
}

func (l *Library) SatSpline(z *refprop.Composition, ierr *int32, herr *refprop.ErrBuf) {
	C.call_p3_l1(l.syms[refprop.EntrySatSpline], p(z), p(ierr), p(herr), n(herr[:]))
}

func (l *Library) Name(icomp *int32, hnam *[refprop.NameLen]byte, hn80 *[refprop.LongNameLen]byte, hcasn *[refprop.CASLen]byte) {
	C.call_p4_l3(l.syms[refprop.EntryName], p(icomp), p(hnam), p(hn80), p(hcasn),
		n(hnam[:]), n(hn80[:]), n(hcasn[:]))
}

func (l *Library) GetEnum(iflag *int32, henum *[refprop.EnumLen]byte, ienum *int32, ierr *int32, herr *refprop.ErrBuf) {
	C.call_p5_l2(l.syms[refprop.EntryGetEnum], p(iflag), p(henum), p(ienum), p(ierr), p(herr),
		n(henum[:]), n(herr[:]))
}

func (l *Library) ErrMsg(ierr *int32, herr *refprop.ErrBuf) {
	C.call_p2_l1(l.syms[refprop.EntryErrMsg], p(ierr), p(herr), n(herr[:]))
}

func (l *Library) MolarMass(z *refprop.Composition, wmm *float64) {
	C.call_p2(l.syms[refprop.EntryMolarMass], p(z), p(wmm))
}

func (l *Library) MassFractions(xmol *refprop.Composition, xkg *refprop.Composition, wmix *float64) {
	C.call_p3(l.syms[refprop.EntryMassFractions], p(xmol), p(xkg), p(wmix))
}

func (l *Library) MoleFractions(xkg *refprop.Composition, xmol *refprop.Composition, wmix *float64) {
	C.call_p3(l.syms[refprop.EntryMoleFractions], p(xkg), p(xmol), p(wmix))
}

func (l *Library) MassQuality(qmol *float64, xl, xv *refprop.Composition, qkg *float64, xlkg, xvkg *refprop.Composition, wliq, wvap *float64, ierr *int32, herr *refprop.ErrBuf) {
	C.call_p10_l1(l.syms[refprop.EntryMassQuality], p(qmol), p(xl), p(xv), p(qkg), p(xlkg), p(xvkg),
		p(wliq), p(wvap), p(ierr), p(herr), n(herr[:]))
}

func (l *Library) MoleQuality(qkg *float64, xlkg, xvkg *refprop.Composition, qmol *float64, xl, xv *refprop.Composition, wliq, wvap *float64, ierr *int32, herr *refprop.ErrBuf) {
	C.call_p10_l1(l.syms[refprop.EntryMoleQuality], p(qkg), p(xlkg), p(xvkg), p(qmol), p(xl), p(xv),
		p(wliq), p(wvap), p(ierr), p(herr), n(herr[:]))
}

func (l *Library) Transport(t, d *float64, z *refprop.Composition, eta, tcx *float64, ierr *int32, herr *refprop.ErrBuf) {
	C.call_p7_l1(l.syms[refprop.EntryTransport], p(t), p(d), p(z), p(eta), p(tcx), p(ierr), p(herr),
		n(herr[:]))
}

func (l *Library) CriticalPoint(z *refprop.Composition, tc, pc, dc *float64, ierr *int32, herr *refprop.ErrBuf) {
	C.call_p6_l1(l.syms[refprop.EntryCriticalPoint], p(z), p(tc), p(pc), p(dc), p(ierr), p(herr),
		n(herr[:]))
}

func (l *Library) AllProps0(iin *int32, iout *[refprop.MaxProps]int32, iflag *int32, t, d *float64, z *refprop.Composition, output *[refprop.MaxProps]float64, ierr *int32, herr *refprop.ErrBuf) {
	C.call_p9_l1(l.syms[refprop.EntryAllProps0], p(iin), p(iout), p(iflag), p(t), p(d), p(z),
		p(output), p(ierr), p(herr), n(herr[:]))
}

func (l *Library) AllProps1(hout *[refprop.PropsLen]byte, iunits *int32, t, d *float64, z *refprop.Composition, out *[refprop.MaxProps]float64, ierr *int32, herr *refprop.ErrBuf) {
	C.call_p8_l2(l.syms[refprop.EntryAllProps1], p(hout), p(iunits), p(t), p(d), p(z), p(out),
		p(ierr), p(herr), n(hout[:]), n(herr[:]))
}

// Flash lays the frame out as inputs, composition, optional flag, the
// entry's outputs in field order, then the error slots. ABFLSHdll leads with
// its pair code and raw input values.
func (l *Library) Flash(entry refprop.Entry, f *refprop.FlashFrame) {
	spec, ok := engine.LookupEntry(entry)
	if !ok {
		panic(fmt.Sprintf("cgolib: %s is not a flash entry point", entry))
	}

	var a [21]C.P
	i := 0
	push := func(v C.P) {
		a[i] = v
		i++
	}

	if spec.Extra == engine.ExtraComposite {
		push(p(&f.Pair))
		push(p(&f.A))
		push(p(&f.B))
	} else {
		push(p(f.Scalar(spec.Inputs[0])))
		push(p(f.Scalar(spec.Inputs[1])))
	}
	push(p(&f.Z))
	if spec.Extra != engine.ExtraNone {
		push(p(&f.Flag))
	}
	for _, field := range spec.Results() {
		if v := f.Vector(field); v != nil {
			push(p(v))
		} else {
			push(p(f.Scalar(field)))
		}
	}
	push(p(&f.Ierr))
	push(p(&f.Herr))

	fn := l.syms[entry]
	switch i {
	case 17:
		C.call_flash17(fn, a[0], a[1], a[2], a[3], a[4], a[5], a[6], a[7], a[8],
			a[9], a[10], a[11], a[12], a[13], a[14], a[15], a[16], n(f.Herr[:]))
	case 18:
		C.call_flash18(fn, a[0], a[1], a[2], a[3], a[4], a[5], a[6], a[7], a[8],
			a[9], a[10], a[11], a[12], a[13], a[14], a[15], a[16], a[17], n(f.Herr[:]))
	case 21:
		C.call_flash21(fn, a[0], a[1], a[2], a[3], a[4], a[5], a[6], a[7], a[8], a[9], a[10],
			a[11], a[12], a[13], a[14], a[15], a[16], a[17], a[18], a[19], a[20],
			n(f.Pair[:]), n(f.Herr[:]))
	default:
		panic(fmt.Sprintf("cgolib: %s lays out %d parameters", entry, i))
	}
}

var _ refprop.Library = (*Library)(nil)
