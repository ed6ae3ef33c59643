package marshal

import (
	"errors"
	"math"
	"testing"

	rperrors "github.com/wippyai/refprop/errors"
)

func TestValidateComposition(t *testing.T) {
	uniform := func(n int) []float64 {
		z := make([]float64, n)
		for i := range z {
			z[i] = 1 / float64(n)
		}
		return z
	}

	tests := []struct {
		name    string
		z       []float64
		wantErr bool
	}{
		{"pure", []float64{1}, false},
		{"binary", []float64{0.4, 0.6}, false},
		{"twenty components", uniform(20), false},
		{"within tolerance high", []float64{0.5, 0.5 + 9e-7}, false},
		{"within tolerance low", []float64{0.5, 0.5 - 9e-7}, false},
		{"outside tolerance", []float64{0.5, 0.5 + 2e-6}, true},
		{"twenty one components", uniform(21), true},
		{"empty", nil, true},
		{"not normalized", []float64{0.3, 0.3}, true},
		{"nan component", []float64{math.NaN(), 1}, true},
		{"infinite component", []float64{math.Inf(1), math.Inf(-1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateComposition(tt.z)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateComposition(%v) error = %v, wantErr %v", tt.z, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, rperrors.ErrInvalidInput) {
				t.Errorf("error kind = %v, want invalid input", rperrors.KindOf(err))
			}
		})
	}
}

func TestValidateComposition_IndicatorFunction(t *testing.T) {
	// Sweep the sum across the tolerance boundary for several lengths.
	for n := 1; n <= 22; n++ {
		for _, delta := range []float64{-1e-3, -1.5e-6, -5e-7, 0, 5e-7, 1.5e-6, 1e-3} {
			z := make([]float64, n)
			for i := range z {
				z[i] = 1 / float64(n)
			}
			z[0] += delta

			sum := 0.0
			for _, v := range z {
				sum += v
			}
			d := sum - 1
			if d < 0 {
				d = -d
			}
			want := n <= 20 && d <= SumTolerance

			got := ValidateComposition(z) == nil
			if got != want {
				t.Errorf("n=%d delta=%g: accepted=%v, want %v", n, delta, got, want)
			}
		}
	}
}

func TestCheckLength(t *testing.T) {
	if err := CheckLength(make([]float64, 20)); err != nil {
		t.Errorf("20 components rejected: %v", err)
	}
	if err := CheckLength([]float64{3, 7}); err != nil {
		t.Errorf("unnormalized vector rejected: %v", err)
	}
	if err := CheckLength(make([]float64, 21)); !errors.Is(err, rperrors.ErrInvalidInput) {
		t.Errorf("21 components: got %v", err)
	}
}
