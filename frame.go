package refprop

// FlashFrame holds every fixed buffer a flash entry point may touch.
//
// Inputs are written into the fields named by the entry's input pair (P and H
// for PHFLSHdll). ABFLSHdll is the exception: it reads Pair, A and B and
// writes every state field.
type FlashFrame struct {
	Pair [PairLen]byte
	A, B float64
	Flag int32 // kr, kq or composite iFlag depending on the entry

	T, P, D, Dl, Dv float64
	Z, X, Y         Composition
	Q, E, H, S      float64
	Cv, Cp, W       float64

	Ierr int32
	Herr ErrBuf
}

// Field identifies one slot of a FlashOutput.
type Field uint16

const (
	FieldT Field = 1 << iota
	FieldP
	FieldD
	FieldDl
	FieldDv
	FieldX
	FieldY
	FieldQ
	FieldE
	FieldH
	FieldS
	FieldCv
	FieldCp
	FieldW

	FieldsAll = FieldT | FieldP | FieldD | FieldDl | FieldDv | FieldX | FieldY |
		FieldQ | FieldE | FieldH | FieldS | FieldCv | FieldCp | FieldW
)

var fieldNames = [...]string{"T", "P", "D", "Dl", "Dv", "x", "y", "q", "e", "h", "s", "Cv", "Cp", "w"}

// String returns the field names in the set, joined by '|'.
func (f Field) String() string {
	if f == 0 {
		return "none"
	}
	var out []byte
	for i, name := range fieldNames {
		if f&(1<<i) == 0 {
			continue
		}
		if len(out) > 0 {
			out = append(out, '|')
		}
		out = append(out, name...)
	}
	return string(out)
}

// Optional is a value that may be absent.
type Optional[T any] struct {
	value T
	ok    bool
}

// Some returns a present value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, ok: true}
}

// None returns an absent value.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.ok
}

// IsSet reports whether the value is present.
func (o Optional[T]) IsSet() bool {
	return o.ok
}

// Or returns the value, or def when absent.
func (o Optional[T]) Or(def T) T {
	if o.ok {
		return o.value
	}
	return def
}

// FlashOutput is the resolved state returned by a flash calculation.
//
// Units follow the native library's active unit system (molar SI by default:
// K, kPa, mol/L, J/mol, J/mol-K, m/s).
type FlashOutput struct {
	T  float64   // temperature
	P  float64   // pressure
	D  float64   // overall density
	Dl float64   // liquid phase density
	Dv float64   // vapor phase density
	X  []float64 // liquid phase composition
	Y  []float64 // vapor phase composition
	Q  float64   // vapor quality, molar basis
	E  float64   // internal energy
	H  float64   // enthalpy
	S  float64   // entropy

	// Heat capacities are defined only for single-phase states.
	Cv Optional[float64]
	Cp Optional[float64]

	W float64 // speed of sound

	// Populated lists the fields the entry point supplied, inputs included.
	Populated Field
}

// Has reports whether every field in f was populated.
func (o *FlashOutput) Has(f Field) bool {
	return o.Populated&f == f
}

// TwoPhase reports whether the state lies in the two-phase region, judged by
// the absence of heat capacities.
func (o *FlashOutput) TwoPhase() bool {
	return !o.Cv.IsSet() && !o.Cp.IsSet()
}

// Scalar returns the frame slot holding a scalar field, or nil for the phase
// compositions and unknown fields.
func (f *FlashFrame) Scalar(field Field) *float64 {
	switch field {
	case FieldT:
		return &f.T
	case FieldP:
		return &f.P
	case FieldD:
		return &f.D
	case FieldDl:
		return &f.Dl
	case FieldDv:
		return &f.Dv
	case FieldQ:
		return &f.Q
	case FieldE:
		return &f.E
	case FieldH:
		return &f.H
	case FieldS:
		return &f.S
	case FieldCv:
		return &f.Cv
	case FieldCp:
		return &f.Cp
	case FieldW:
		return &f.W
	}
	return nil
}

// Vector returns the frame slot holding a phase composition, or nil.
func (f *FlashFrame) Vector(field Field) *Composition {
	switch field {
	case FieldX:
		return &f.X
	case FieldY:
		return &f.Y
	}
	return nil
}
