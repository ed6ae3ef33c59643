package refprop

import "strings"

// Fixed buffer widths of the native interface.
const (
	MaxComponents = 20    // composition slots
	MaxProps      = 200   // bulk property output slots
	ErrLen        = 255   // diagnostic text
	PathLen       = 255   // search path
	FluidsLen     = 10000 // fluid list
	MixtureLen    = 255   // predefined mixture name
	NameLen       = 12    // component short name
	LongNameLen   = 80    // component long name / file name
	CASLen        = 12    // CAS number
	EnumLen       = 255   // enumeration lookup text
	PropsLen      = 255   // property code list
	PairLen       = 2     // flash input pair code
)

// Composition is the fixed 20-slot composition array of the native interface.
type Composition = [MaxComponents]float64

// ErrBuf is the diagnostic text buffer trailing most entry points.
type ErrBuf = [ErrLen]byte

// Entry names a native entry point.
type Entry string

// Native entry points.
const (
	EntrySetPath       Entry = "SETPATHdll"
	EntrySetFluids     Entry = "SETFLUIDSdll"
	EntrySetMixture    Entry = "SETMIXTUREdll"
	EntryPureFluid     Entry = "PUREFLDdll"
	EntrySatSpline     Entry = "SATSPLNdll"
	EntryName          Entry = "NAMEdll"
	EntryGetEnum       Entry = "GETENUMdll"
	EntryErrMsg        Entry = "ERRMSGdll"
	EntryMolarMass     Entry = "WMOLdll"
	EntryMassFractions Entry = "XMASSdll"
	EntryMoleFractions Entry = "XMOLEdll"
	EntryMassQuality   Entry = "QMASSdll"
	EntryMoleQuality   Entry = "QMOLEdll"
	EntryTransport     Entry = "TRNPRPdll"
	EntryCriticalPoint Entry = "CRITPdll"
	EntryAllProps0     Entry = "ALLPROPS0dll"
	EntryAllProps1     Entry = "ALLPROPS1dll"

	EntryTPFlash Entry = "TPFLSHdll"
	EntryTDFlash Entry = "TDFLSHdll"
	EntryTHFlash Entry = "THFLSHdll"
	EntryTSFlash Entry = "TSFLSHdll"
	EntryTEFlash Entry = "TEFLSHdll"
	EntryTQFlash Entry = "TQFLSHdll"
	EntryPDFlash Entry = "PDFLSHdll"
	EntryPHFlash Entry = "PHFLSHdll"
	EntryPSFlash Entry = "PSFLSHdll"
	EntryPEFlash Entry = "PEFLSHdll"
	EntryPQFlash Entry = "PQFLSHdll"
	EntryHSFlash Entry = "HSFLSHdll"
	EntryDHFlash Entry = "DHFLSHdll"
	EntryDSFlash Entry = "DSFLSHdll"
	EntryDEFlash Entry = "DEFLSHdll"
	EntryABFlash Entry = "ABFLSHdll"
)

// Library is the native binary interface.
//
// Each method is one entry point. Parameters are pointers to fixed-size
// buffers in the entry point's positional order; the declared lengths that
// trail text parameters are implied by the array types and supplied by the
// implementation. Implementations are not safe for concurrent use and must
// only be called while holding the process gate.
//
// An implementation that cannot complete a call (trap, memory fault) panics.
// The gate treats that as abnormal termination and poisons itself.
type Library interface {
	SetPath(hpth *[PathLen]byte)
	SetFluids(hfld *[FluidsLen]byte, ierr *int32)
	SetMixture(hmxnme *[MixtureLen]byte, z *Composition, ierr *int32)
	PureFluid(icomp *int32)
	SatSpline(z *Composition, ierr *int32, herr *ErrBuf)
	Name(icomp *int32, hnam *[NameLen]byte, hn80 *[LongNameLen]byte, hcasn *[CASLen]byte)
	GetEnum(iflag *int32, henum *[EnumLen]byte, ienum *int32, ierr *int32, herr *ErrBuf)
	ErrMsg(ierr *int32, herr *ErrBuf)

	MolarMass(z *Composition, wmm *float64)
	MassFractions(xmol *Composition, xkg *Composition, wmix *float64)
	MoleFractions(xkg *Composition, xmol *Composition, wmix *float64)
	MassQuality(qmol *float64, xl, xv *Composition, qkg *float64, xlkg, xvkg *Composition, wliq, wvap *float64, ierr *int32, herr *ErrBuf)
	MoleQuality(qkg *float64, xlkg, xvkg *Composition, qmol *float64, xl, xv *Composition, wliq, wvap *float64, ierr *int32, herr *ErrBuf)

	Transport(t, d *float64, z *Composition, eta, tcx *float64, ierr *int32, herr *ErrBuf)
	CriticalPoint(z *Composition, tc, pc, dc *float64, ierr *int32, herr *ErrBuf)
	AllProps0(iin *int32, iout *[MaxProps]int32, iflag *int32, t, d *float64, z *Composition, output *[MaxProps]float64, ierr *int32, herr *ErrBuf)
	AllProps1(hout *[PropsLen]byte, iunits *int32, t, d *float64, z *Composition, c *[MaxProps]float64, ierr *int32, herr *ErrBuf)

	// Flash invokes one of the two-property flash entry points. The
	// implementation maps frame fields to the entry's positional layout.
	Flash(entry Entry, f *FlashFrame)
}

var allEntries = []Entry{
	EntrySetPath, EntrySetFluids, EntrySetMixture, EntryPureFluid, EntrySatSpline,
	EntryName, EntryGetEnum, EntryErrMsg,
	EntryMolarMass, EntryMassFractions, EntryMoleFractions, EntryMassQuality, EntryMoleQuality,
	EntryTransport, EntryCriticalPoint, EntryAllProps0, EntryAllProps1,
	EntryTPFlash, EntryTDFlash, EntryTHFlash, EntryTSFlash, EntryTEFlash, EntryTQFlash,
	EntryPDFlash, EntryPHFlash, EntryPSFlash, EntryPEFlash, EntryPQFlash,
	EntryHSFlash, EntryDHFlash, EntryDSFlash, EntryDEFlash, EntryABFlash,
}

// Entries returns every entry point a backend must bind.
func Entries() []Entry {
	return append([]Entry(nil), allEntries...)
}

// ExportNames lists the symbol spellings toolchains give an entry point:
// as declared, lower case, and lower case with a trailing underscore.
func (e Entry) ExportNames() []string {
	lower := strings.ToLower(string(e))
	return []string{string(e), lower, lower + "_"}
}
