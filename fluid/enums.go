package fluid

import (
	"github.com/wippyai/refprop/errors"
	"github.com/wippyai/refprop/marshal"
)

// Basis selects the basis of ABFLSHdll inputs and outputs.
type Basis uint8

const (
	BasisMolar                 Basis = 0
	BasisMass                  Basis = 1
	BasisMassExceptComposition Basis = 2 // mass properties, molar composition
)

// Valid reports whether b is a defined basis.
func (b Basis) Valid() bool {
	return b <= BasisMassExceptComposition
}

// Phase is an optional hint that lets the solver skip phase detection.
type Phase uint8

const (
	PhaseUnknown  Phase = 0
	PhaseLiquid   Phase = 1
	PhaseVapor    Phase = 2
	PhaseTwoPhase Phase = 3
)

// Valid reports whether p is a defined phase hint.
func (p Phase) Valid() bool {
	return p <= PhaseTwoPhase
}

// KrKq is the third ABFLSHdll option: quality basis for pairs with Q, root
// selection otherwise.
type KrKq uint8

const (
	KrKqDefault       KrKq = 0
	KrKqQualityMolar  KrKq = 1
	KrKqQualityMass   KrKq = 2
	KrKqLowerDensity  KrKq = 3
	KrKqHigherDensity KrKq = 4
)

// Valid reports whether k is a defined option.
func (k KrKq) Valid() bool {
	return k <= KrKqHigherDensity
}

// RootSelection picks a density root for TH, TS and TE flashes, which can
// have two liquid solutions.
type RootSelection int32

const (
	RootLowerDensity  RootSelection = 1
	RootHigherDensity RootSelection = 2
)

// QualityBasis gives the basis of the quality input of TQ and PQ flashes.
type QualityBasis int32

const (
	QualityMolar QualityBasis = 1
	QualityMass  QualityBasis = 2
)

// FlashFlags are the options of a generic flash.
type FlashFlags struct {
	Basis Basis
	Phase Phase
	KrKq  KrKq
}

func (f FlashFlags) validate() error {
	switch {
	case !f.Basis.Valid():
		return errors.InvalidInput(errors.PhaseValidate, "basis %d out of range [0,%d]", f.Basis, BasisMassExceptComposition)
	case !f.Phase.Valid():
		return errors.InvalidInput(errors.PhaseValidate, "phase %d out of range [0,%d]", f.Phase, PhaseTwoPhase)
	case !f.KrKq.Valid():
		return errors.InvalidInput(errors.PhaseValidate, "krkq %d out of range [0,%d]", f.KrKq, KrKqHigherDensity)
	}
	return nil
}

// Encode returns the composite iFlag: basis + 10*phase + 100*krkq.
func (f FlashFlags) Encode() int32 {
	return marshal.EncodeFlag(uint8(f.Basis), uint8(f.Phase), uint8(f.KrKq))
}

// GetEnumFlag restricts which strings GETENUMdll searches.
type GetEnumFlag int32

const (
	// AllStrings checks every string the library knows.
	AllStrings GetEnumFlag = 0
	// UnitsOnly checks unit system names only.
	UnitsOnly GetEnumFlag = 1
	// UnitsAndTrivial checks unit systems and properties that are not
	// functions of temperature and density.
	UnitsAndTrivial GetEnumFlag = 2
	// TrivialOnly checks properties that are not functions of temperature
	// and density.
	TrivialOnly GetEnumFlag = 3
)

// Valid reports whether f is a defined flag.
func (f GetEnumFlag) Valid() bool {
	return f >= AllStrings && f <= TrivialOnly
}

// Units names a unit system. The library accepts more names than the
// constants below; any string is passed through to GETENUMdll.
type Units string

const (
	UnitsDefault      Units = "DEFAULT"
	UnitsMolarSI      Units = "MOLAR SI"
	UnitsMassSI       Units = "MASS SI"
	UnitsSIWithC      Units = "SI WITH C"
	UnitsMolarBaseSI  Units = "MOLAR BASE SI"
	UnitsMassBaseSI   Units = "MASS BASE SI"
	UnitsEnglish      Units = "ENGLISH"
	UnitsMolarEnglish Units = "MOLAR ENGLISH"
	UnitsMKS          Units = "MKS"
	UnitsCGS          Units = "CGS"
	UnitsMixed        Units = "MIXED"
	UnitsME           Units = "MEUNITS"
)
