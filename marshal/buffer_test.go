package marshal

import (
	"errors"
	"slices"
	"testing"

	"github.com/wippyai/refprop"
	rperrors "github.com/wippyai/refprop/errors"
)

func TestPackUnpack_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		src  []float64
	}{
		{"empty", nil},
		{"one", []float64{1}},
		{"three", []float64{0.2, 0.3, 0.5}},
		{"full", make([]float64, refprop.MaxComponents)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf refprop.Composition
			for i := range buf {
				buf[i] = -1 // stale data from a previous call
			}
			if err := Pack(buf[:], tt.src); err != nil {
				t.Fatalf("Pack: %v", err)
			}
			for i := len(tt.src); i < len(buf); i++ {
				if buf[i] != 0 {
					t.Fatalf("padding slot %d = %v, want 0", i, buf[i])
				}
			}
			got := Unpack(buf[:], len(tt.src))
			if !slices.Equal(got, tt.src) {
				t.Errorf("round trip = %v, want %v", got, tt.src)
			}
		})
	}
}

func TestPack_Overflow(t *testing.T) {
	var buf [refprop.MaxProps]int32
	err := Pack(buf[:], make([]int32, refprop.MaxProps+1))
	if !errors.Is(err, rperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestUnpack_CopiesAndClamps(t *testing.T) {
	buf := []float64{1, 2, 3}
	got := Unpack(buf, 2)
	got[0] = 99
	if buf[0] != 1 {
		t.Error("Unpack must not alias the native buffer")
	}
	if n := len(Unpack(buf, 5)); n != 3 {
		t.Errorf("len = %d, want 3", n)
	}
	if n := len(Unpack(buf, -1)); n != 0 {
		t.Errorf("len = %d, want 0", n)
	}
}

func TestLeadingPositive(t *testing.T) {
	var z refprop.Composition
	z[0], z[1], z[2] = 0.5, 0.3, 0.2
	got := LeadingPositive(z[:])
	if !slices.Equal(got, []float64{0.5, 0.3, 0.2}) {
		t.Errorf("got %v", got)
	}
}
