package errors

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseValidate  Phase = "validate"  // input checks before the gate
	PhaseMarshal   Phase = "marshal"   // packing fixed buffers
	PhaseSetup     Phase = "setup"     // path, fluid and mixture selection
	PhaseCall      Phase = "call"      // native invocation
	PhaseTranslate Phase = "translate" // error message retrieval and decoding
	PhaseGate      Phase = "gate"      // gate acquisition
	PhaseConfig    Phase = "config"    // configuration loading
	PhaseLoad      Phase = "load"      // backend loading
)

// Kind categorizes the error
type Kind string

const (
	KindInitialization Kind = "initialization"
	KindCalculation    Kind = "calculation"
	KindInvalidInput   Kind = "invalid_input"
	KindTextDecoding   Kind = "text_decoding"
	KindPoisonedGate   Kind = "poisoned_gate"
	KindUnknown        Kind = "unknown"
)

// Sentinels for errors.Is. They match any *Error of the same Kind.
var (
	ErrInitialization = &Error{Kind: KindInitialization}
	ErrCalculation    = &Error{Kind: KindCalculation}
	ErrInvalidInput   = &Error{Kind: KindInvalidInput}
	ErrTextDecoding   = &Error{Kind: KindTextDecoding}
	ErrPoisonedGate   = &Error{Kind: KindPoisonedGate}
	ErrUnknown        = &Error{Kind: KindUnknown}
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Entry  string // native entry point or public operation
	Detail string
	Code   int32 // native error code, 0 when not applicable
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Entry != "" {
		b.WriteString(" in ")
		b.WriteString(e.Entry)
	}

	if e.Code != 0 {
		b.WriteString(" (code ")
		b.WriteString(strconv.FormatInt(int64(e.Code), 10))
		b.WriteByte(')')
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. Kind must match; Phase must
// match only when the target sets one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Phase == "" || t.Phase == e.Phase
}

// Message returns the detail text without phase, kind or cause decoration.
// For calculation errors this is the native library's diagnostic.
func (e *Error) Message() string {
	return e.Detail
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Entry sets the native entry point or operation name
func (b *Builder) Entry(name string) *Builder {
	b.err.Entry = name
	return b
}

// Code sets the native error code
func (b *Builder) Code(code int32) *Builder {
	b.err.Code = code
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string, args ...any) *Error {
	return New(phase, KindInvalidInput).Detail(detail, args...).Build()
}

// Calculation creates a calculation error carrying the native diagnostic
func Calculation(entry string, code int32, message string) *Error {
	return &Error{
		Phase:  PhaseCall,
		Kind:   KindCalculation,
		Entry:  entry,
		Code:   code,
		Detail: message,
	}
}

// Initialization creates a session setup error
func Initialization(entry, detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseSetup,
		Kind:   KindInitialization,
		Entry:  entry,
		Detail: detail,
		Cause:  cause,
	}
}

// TextDecoding creates an error for a native text buffer that is not valid UTF-8
func TextDecoding(entry string, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  PhaseTranslate,
		Kind:   KindTextDecoding,
		Entry:  entry,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// PoisonedGate creates the error returned once the gate has been poisoned
func PoisonedGate(op string, cause error) *Error {
	return &Error{
		Phase:  PhaseGate,
		Kind:   KindPoisonedGate,
		Entry:  op,
		Detail: "native session state may be inconsistent; re-run session setup",
		Cause:  cause,
	}
}

// Unknown creates a fallback error
func Unknown(phase Phase, detail string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnknown,
		Detail: detail,
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Reclassify returns a copy of err with its Kind and Phase replaced. Errors
// that are not *Error are wrapped.
func Reclassify(err error, phase Phase, kind Kind) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		c := *e
		c.Phase = phase
		c.Kind = kind
		return &c
	}
	return Wrap(phase, kind, err, "")
}

// KindOf returns the Kind of the first *Error in err's chain, or KindUnknown
// when there is none.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
