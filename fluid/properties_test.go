package fluid

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/wippyai/refprop"
	rperrors "github.com/wippyai/refprop/errors"
	"github.com/wippyai/refprop/internal/nativetest"
)

const gasConstant = 8.314462618

func TestMolarMass(t *testing.T) {
	tests := []struct {
		name string
		z    []float64
		want float64
	}{
		{"pure", []float64{1}, wN2},
		{"binary", []float64{0.79, 0.21}, 0.79*wN2 + 0.21*wO2},
		{"unnormalized", []float64{2}, 2 * wN2},
	}
	c, _ := newClient(t, binary())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := c.MolarMass(tt.z)
			if err != nil {
				t.Fatal(err)
			}
			if !near(w, tt.want) {
				t.Errorf("w = %g, want %g", w, tt.want)
			}
		})
	}
}

func TestMolarMass_Failures(t *testing.T) {
	c, lib := newClient(t, nil)
	if _, err := c.MolarMass(make([]float64, refprop.MaxComponents+1)); !errors.Is(err, rperrors.ErrInvalidInput) {
		t.Errorf("too long: got %v", err)
	}
	if n := lib.TotalCalls(); n != 0 {
		t.Errorf("%d native calls", n)
	}
	if _, err := c.MolarMass(pure); !errors.Is(err, rperrors.ErrCalculation) {
		t.Errorf("nothing loaded: got %v", err)
	}
}

func TestCriticalPoint(t *testing.T) {
	c, _ := newClient(t, nitrogen())
	cp, err := c.CriticalPoint(pure)
	if err != nil {
		t.Fatal(err)
	}
	want := CriticalPoint{Tc: 126.192, Pc: 3395.8, Dc: 11.1839}
	if cp != want {
		t.Errorf("critical point = %+v, want %+v", cp, want)
	}

	c, _ = newClient(t, nil)
	_, err = c.CriticalPoint(pure)
	var e *rperrors.Error
	if !errors.As(err, &e) || e.Kind != rperrors.KindCalculation || e.Code != nativetest.CodeNoFluids {
		t.Errorf("nothing loaded: got %v", err)
	}
}

func TestTransport(t *testing.T) {
	c, lib := newClient(t, nitrogen())
	out, err := c.Transport(300, 0.04, pure)
	if err != nil {
		t.Fatal(err)
	}
	if !near(out.Eta, 13.04) || !near(out.Tcx, 0.05004) {
		t.Errorf("transport = %+v", out)
	}

	lib.Fail(refprop.EntryTransport, 1, "[TRNPRP error 1] temperature below lower limit")
	if _, err := c.Transport(10, 0.04, pure); !errors.Is(err, rperrors.ErrCalculation) {
		t.Errorf("got %v", err)
	}
	if _, err := c.Transport(300, 0.04, []float64{0.4}); !errors.Is(err, rperrors.ErrInvalidInput) {
		t.Errorf("unnormalized: got %v", err)
	}
}

func TestAllProps0(t *testing.T) {
	c, _ := newClient(t, nitrogen())
	codes := []int32{
		nativetest.PropertyCode("T"),
		nativetest.PropertyCode("P"),
		nativetest.PropertyCode("M"),
	}
	values, err := c.AllProps0(codes, BasisMolar, 300, 0.04, pure)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{300, 0.04 * gasConstant * 300, wN2}
	if len(values) != len(want) {
		t.Fatalf("values = %v", values)
	}
	for i := range want {
		if !near(values[i], want[i]) {
			t.Errorf("values[%d] = %g, want %g", i, values[i], want[i])
		}
	}
}

func TestAllProps0_Failures(t *testing.T) {
	tests := []struct {
		name  string
		codes []int32
		basis Basis
		want  error
		msg   string
	}{
		{"no codes", nil, BasisMolar, rperrors.ErrInvalidInput, "0 property codes"},
		{"too many codes", make([]int32, refprop.MaxProps+1), BasisMolar, rperrors.ErrInvalidInput, "201 property codes"},
		{"bad basis", []int32{1001}, 3, rperrors.ErrInvalidInput, "basis 3"},
		{"unknown code", []int32{1001, 42}, BasisMolar, rperrors.ErrCalculation, "unknown property code 42"},
		{"undefined", []int32{1001, 1099}, BasisMass, rperrors.ErrCalculation, "code 1099"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newClient(t, nitrogen())
			_, err := c.AllProps0(tt.codes, tt.basis, 300, 0.04, pure)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("%q missing from %v", tt.msg, err)
			}
		})
	}
}

func TestAllProps1(t *testing.T) {
	c, lib := newClient(t, nitrogen())

	values, err := c.AllProps1("T,P; m", "", 300, 0.04, pure)
	if err != nil {
		t.Fatal(err)
	}
	if len(values) != 3 || values[0] != 300 || !near(values[2], wN2) {
		t.Errorf("values = %v", values)
	}
	if got := entries(lib.Spans()); !slices.Equal(got, []refprop.Entry{refprop.EntryAllProps1}) {
		t.Errorf("setup units: calls = %v", got)
	}

	lib.Reset()
	if _, err := c.AllProps1("ETA|TCX", UnitsMassSI, 300, 0.04, pure); err != nil {
		t.Fatal(err)
	}
	want := []refprop.Entry{refprop.EntryGetEnum, refprop.EntryAllProps1}
	if got := entries(lib.Spans()); !slices.Equal(got, want) {
		t.Errorf("explicit units: calls = %v, want %v", got, want)
	}
}

func TestAllProps1_Failures(t *testing.T) {
	tests := []struct {
		name    string
		props   string
		units   Units
		want    error
		msg     string
		natives int
	}{
		{"empty list", " , ;", "", rperrors.ErrInvalidInput, "0 properties", 0},
		{"too many", strings.Repeat("T ", refprop.MaxProps+1), "", rperrors.ErrInvalidInput, "201 properties", 0},
		{"list too long", strings.Repeat("X", refprop.PropsLen), "", rperrors.ErrInvalidInput, "property list", 0},
		{"unknown units", "T", "FURLONGS", rperrors.ErrCalculation, "FURLONGS", 2},
		{"undefined property", "T UNDEF", "", rperrors.ErrCalculation, "UNDEF", 1},
		{"unknown property", "T BOGUS", "", rperrors.ErrCalculation, "BOGUS", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, lib := newClient(t, nitrogen())
			_, err := c.AllProps1(tt.props, tt.units, 300, 0.04, pure)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("%q missing from %v", tt.msg, err)
			}
			if n := lib.TotalCalls(); n != tt.natives {
				t.Errorf("%d native calls, want %d", n, tt.natives)
			}
		})
	}
}
