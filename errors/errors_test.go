package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseCall,
				Kind:   KindCalculation,
				Entry:  "PHFLSHdll",
				Code:   248,
				Detail: "iteration did not converge",
			},
			contains: []string{"[call]", "calculation", "PHFLSHdll", "code 248", "iteration did not converge"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseValidate,
				Kind:  KindInvalidInput,
			},
			contains: []string{"[validate]", "invalid_input"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseGate,
				Kind:   KindPoisonedGate,
				Detail: "session lost",
				Cause:  errors.New("trap"),
			},
			contains: []string{"[gate]", "poisoned_gate", "session lost", "caused by", "trap"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_ErrorOmitsZeroCode(t *testing.T) {
	err := InvalidInput(PhaseValidate, "bad")
	if strings.Contains(err.Error(), "code") {
		t.Errorf("unexpected code in %q", err.Error())
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseLoad,
		Kind:  KindInitialization,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := Calculation("TDFLSHdll", 1, "T out of range")

	if !errors.Is(err, ErrCalculation) {
		t.Error("Is should match kind sentinel")
	}
	if !err.Is(&Error{Phase: PhaseCall, Kind: KindCalculation}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseSetup, Kind: KindCalculation}) {
		t.Error("Is should not match different phase")
	}
	if errors.Is(err, ErrInvalidInput) {
		t.Error("Is should not match different kind")
	}
	if err.Is(errors.New("plain")) {
		t.Error("Is should not match non-structured errors")
	}

	wrapped := fmt.Errorf("flash: %w", err)
	if !errors.Is(wrapped, ErrCalculation) {
		t.Error("errors.Is should see through fmt wrapping")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseCall, KindCalculation).
		Entry("CRITPdll").
		Code(-5).
		Value(21).
		Cause(cause).
		Detail("expected %d, got %d", 20, 21).
		Build()

	if err.Phase != PhaseCall {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseCall)
	}
	if err.Kind != KindCalculation {
		t.Errorf("Kind = %v, want %v", err.Kind, KindCalculation)
	}
	if err.Entry != "CRITPdll" {
		t.Errorf("Entry = %v, want CRITPdll", err.Entry)
	}
	if err.Code != -5 {
		t.Errorf("Code = %v, want -5", err.Code)
	}
	if err.Value != 21 {
		t.Errorf("Value = %v, want 21", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected 20, got 21" {
		t.Errorf("Detail = %v, want 'expected 20, got 21'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("InvalidInput", func(t *testing.T) {
		err := InvalidInput(PhaseValidate, "length %d exceeds %d", 21, 20)
		if err.Kind != KindInvalidInput {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidInput)
		}
		if err.Detail != "length 21 exceeds 20" {
			t.Errorf("Detail = %q", err.Detail)
		}
	})

	t.Run("Calculation", func(t *testing.T) {
		err := Calculation("PHFLSHdll", 3, "msg")
		if err.Message() != "msg" || err.Code != 3 || err.Entry != "PHFLSHdll" {
			t.Errorf("unexpected %+v", err)
		}
	})

	t.Run("TextDecoding", func(t *testing.T) {
		err := TextDecoding("ERRMSGdll", []byte{0xff, 0xfe})
		if err.Kind != KindTextDecoding {
			t.Errorf("Kind = %v, want %v", err.Kind, KindTextDecoding)
		}
		if !strings.Contains(err.Detail, "fffe") {
			t.Errorf("Detail = %v, should contain hex preview", err.Detail)
		}
	})

	t.Run("PoisonedGate", func(t *testing.T) {
		cause := errors.New("panic")
		err := PoisonedGate("PHFLSHdll", cause)
		if !errors.Is(err, ErrPoisonedGate) {
			t.Error("expected poisoned gate kind")
		}
		if !errors.Is(err, cause) {
			t.Error("expected cause in chain")
		}
	})

	t.Run("Initialization", func(t *testing.T) {
		err := Initialization("SETFLUIDSdll", "fluid not found", nil)
		if !errors.Is(err, ErrInitialization) || err.Phase != PhaseSetup {
			t.Errorf("unexpected %+v", err)
		}
	})

	t.Run("Unknown", func(t *testing.T) {
		cause := errors.New("wasm error: unreachable")
		err := Unknown(PhaseCall, "guest trapped in CRITPdll", cause)
		if !errors.Is(err, ErrUnknown) || !errors.Is(err, cause) || err.Phase != PhaseCall {
			t.Errorf("unexpected %+v", err)
		}
	})
}

func TestReclassify(t *testing.T) {
	orig := Calculation("SETMIXTUREdll", 101, "mixture file missing")
	got := Reclassify(orig, PhaseSetup, KindInitialization)

	if got.Kind != KindInitialization || got.Phase != PhaseSetup {
		t.Errorf("got %v/%v", got.Phase, got.Kind)
	}
	if got.Detail != orig.Detail || got.Code != orig.Code {
		t.Error("reclassify must keep detail and code")
	}
	if orig.Kind != KindCalculation {
		t.Error("reclassify must not mutate the original")
	}

	plain := errors.New("plain")
	if w := Reclassify(plain, PhaseLoad, KindUnknown); !errors.Is(w, plain) {
		t.Error("plain errors should be wrapped")
	}
	if Reclassify(nil, PhaseLoad, KindUnknown) != nil {
		t.Error("nil should stay nil")
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"plain", errors.New("x"), KindUnknown},
		{"direct", InvalidInput(PhaseValidate, "x"), KindInvalidInput},
		{"wrapped", fmt.Errorf("op: %w", Calculation("X", 1, "y")), KindCalculation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf = %q, want %q", got, tt.want)
			}
		})
	}
}
