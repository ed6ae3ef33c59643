package engine

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wippyai/refprop"
	rperrors "github.com/wippyai/refprop/errors"
	"github.com/wippyai/refprop/marshal"
)

func TestSpecs_Table(t *testing.T) {
	specs := Specs()
	if len(specs) != 16 {
		t.Fatalf("table has %d entries, want 16", len(specs))
	}

	seen := map[string]bool{}
	for _, s := range specs {
		if seen[s.Code] {
			t.Errorf("duplicate code %s", s.Code)
		}
		seen[s.Code] = true

		if !strings.HasPrefix(string(s.Entry), s.Code) {
			t.Errorf("%s: entry %s does not match code", s.Code, s.Entry)
		}
		if s.Code == "AB" {
			continue
		}
		if s.Inputs[0]&s.Outputs != 0 || s.Inputs[1]&s.Outputs != 0 {
			t.Errorf("%s: inputs %v overlap outputs %v", s.Code, s.Inputs, s.Outputs)
		}
		if s.Populates()&(refprop.FieldCv|refprop.FieldCp) != refprop.FieldCv|refprop.FieldCp {
			t.Errorf("%s: heat capacities not populated", s.Code)
		}
	}
}

func TestSpecs_ReturnsCopy(t *testing.T) {
	Specs()[0].Code = "XX"
	if _, ok := Lookup("TP"); !ok {
		t.Error("mutating Specs changed the table")
	}
}

func TestResults_PositionalOrder(t *testing.T) {
	ph := MustLookup("PH")
	want := []refprop.Field{
		refprop.FieldT, refprop.FieldD, refprop.FieldDl, refprop.FieldDv,
		refprop.FieldX, refprop.FieldY, refprop.FieldQ, refprop.FieldE, refprop.FieldS,
		refprop.FieldCv, refprop.FieldCp, refprop.FieldW,
	}
	got := ph.Results()
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("PH results = %v, want %v", got, want)
	}
	if n := len(MustLookup("AB").Results()); n != 14 {
		t.Errorf("AB has %d results, want 14", n)
	}
}

func TestLookupAndResolve(t *testing.T) {
	tests := []struct {
		pair    string
		code    string
		swapped bool
		ok      bool
	}{
		{"PH", "PH", false, true},
		{"hp", "PH", true, true},
		{"TQ", "TQ", false, true},
		{"QT", "TQ", true, true},
		{"ED", "DE", true, true},
		{"TP", "TP", false, true},
		{"QH", "", false, false},
		{"AB", "", false, false},
		{"P", "", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.pair, func(t *testing.T) {
			s, swapped, ok := Resolve(tt.pair)
			if ok != tt.ok || swapped != tt.swapped || s.Code != tt.code {
				t.Errorf("Resolve(%q) = %s, %v, %v", tt.pair, s.Code, swapped, ok)
			}
		})
	}
}

func TestValidatePair(t *testing.T) {
	tests := []struct {
		pair string
		want string
		ok   bool
	}{
		{"ph", "PH", true},
		{"QS", "QS", true},
		{"PP", "", false},
		{"PX", "", false},
		{"PHS", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.pair, func(t *testing.T) {
			got, err := ValidatePair(tt.pair)
			if tt.ok != (err == nil) || got != tt.want {
				t.Errorf("ValidatePair(%q) = %q, %v", tt.pair, got, err)
			}
			if err != nil && !errors.Is(err, rperrors.ErrInvalidInput) {
				t.Errorf("wrong kind: %v", err)
			}
		})
	}
}

func TestFlash_SinglePhase(t *testing.T) {
	e, lib := newEngine(t)
	loadNitrogen(t, e)

	out, err := e.Flash(MustLookup("PH"), FlashRequest{A: 101.325, B: 8721.3, Z: []float64{1}})
	if err != nil {
		t.Fatal(err)
	}

	if out.P != 101.325 || out.H != 8721.3 {
		t.Errorf("inputs not echoed: P=%v H=%v", out.P, out.H)
	}
	if out.T == 0 || out.D == 0 {
		t.Errorf("T/D not populated: %+v", out)
	}
	if !out.Has(refprop.FieldT|refprop.FieldP|refprop.FieldD|refprop.FieldH) {
		t.Errorf("Populated = %v", out.Populated)
	}
	if !out.Cv.IsSet() || !out.Cp.IsSet() {
		t.Error("single-phase heat capacities absent")
	}
	if len(out.X) != 1 || len(out.Y) != 1 {
		t.Errorf("phase compositions not sized to z: %v %v", out.X, out.Y)
	}

	f := lib.LastFlash()
	if f.P != 101.325 || f.H != 8721.3 {
		t.Errorf("frame inputs = P %v H %v", f.P, f.H)
	}
}

func TestFlash_TwoPhaseHeatCapacitiesAbsent(t *testing.T) {
	e, lib := newEngine(t)
	loadNitrogen(t, e)
	lib.TwoPhase = true

	out, err := e.Flash(MustLookup("TQ"), FlashRequest{A: 77.355, B: 0.5, Z: []float64{1}, Flag: 1})
	if err != nil {
		t.Fatal(err)
	}
	if out.Cv.IsSet() || out.Cp.IsSet() {
		t.Errorf("two-phase heat capacities present: %v %v", out.Cv, out.Cp)
	}
	if !out.TwoPhase() {
		t.Error("TwoPhase() = false")
	}
}

func TestFlash_NeverExactlyOneHeatCapacityAbsent(t *testing.T) {
	for _, twoPhase := range []bool{false, true} {
		for _, spec := range Specs() {
			t.Run(fmt.Sprintf("%s/two-phase=%v", spec.Code, twoPhase), func(t *testing.T) {
				e, lib := newEngine(t)
				loadNitrogen(t, e)
				lib.TwoPhase = twoPhase

				req := FlashRequest{A: 300, B: 100, Z: []float64{1}}
				switch spec.Extra {
				case ExtraRoot, ExtraQualityBasis:
					req.Flag = 1
				case ExtraComposite:
					req.Pair = "TP"
				}
				out, err := e.Flash(spec, req)
				if err != nil {
					t.Fatal(err)
				}
				if out.Cv.IsSet() != out.Cp.IsSet() {
					t.Errorf("Cv set=%v, Cp set=%v", out.Cv.IsSet(), out.Cp.IsSet())
				}
				if out.Populated != spec.Populates() {
					t.Errorf("Populated = %v, want %v", out.Populated, spec.Populates())
				}
			})
		}
	}
}

func TestFlash_UntouchedHeatCapacitiesReportAbsent(t *testing.T) {
	e, lib := newEngine(t)
	loadNitrogen(t, e)
	lib.FlashHook = func(_ refprop.Entry, f *refprop.FlashFrame) {
		f.Cv, f.Cp = marshal.CvUndefined, marshal.CpUndefined
	}

	out, err := e.Flash(MustLookup("TP"), FlashRequest{A: 300, B: 100, Z: []float64{1}})
	if err != nil {
		t.Fatal(err)
	}
	if out.Cv.IsSet() || out.Cp.IsSet() {
		t.Error("sentinels escaped as values")
	}
}

func TestFlash_AB(t *testing.T) {
	e, lib := newEngine(t)
	loadNitrogen(t, e)

	flag := marshal.EncodeFlag(0, 2, 0)
	out, err := e.Flash(MustLookup("AB"), FlashRequest{A: 300, B: 191.6, Z: []float64{1}, Pair: "ts", Flag: flag})
	if err != nil {
		t.Fatal(err)
	}
	if out.T != 300 || out.S != 191.6 {
		t.Errorf("T=%v S=%v", out.T, out.S)
	}
	if out.Populated != refprop.FieldsAll {
		t.Errorf("Populated = %v", out.Populated)
	}

	f := lib.LastFlash()
	if string(f.Pair[:]) != "TS" || f.Flag != flag || f.A != 300 || f.B != 191.6 {
		t.Errorf("frame = pair %q flag %d a %v b %v", f.Pair[:], f.Flag, f.A, f.B)
	}
}

func TestFlash_RejectsBeforeGate(t *testing.T) {
	z21 := make([]float64, 21)
	z21[0] = 1

	tests := []struct {
		name string
		code string
		req  FlashRequest
	}{
		{"composition too long", "PH", FlashRequest{A: 1, B: 1, Z: z21}},
		{"composition not normalized", "PH", FlashRequest{A: 1, B: 1, Z: []float64{0.4, 0.4}}},
		{"empty composition", "TP", FlashRequest{A: 1, B: 1}},
		{"root selection 0", "TH", FlashRequest{A: 1, B: 1, Z: []float64{1}}},
		{"root selection 3", "TS", FlashRequest{A: 1, B: 1, Z: []float64{1}, Flag: 3}},
		{"quality basis 0", "PQ", FlashRequest{A: 1, B: 1, Z: []float64{1}}},
		{"quality basis 5", "TQ", FlashRequest{A: 1, B: 1, Z: []float64{1}, Flag: 5}},
		{"composite option out of range", "AB", FlashRequest{A: 1, B: 1, Z: []float64{1}, Pair: "TP", Flag: 5}},
		{"negative composite", "AB", FlashRequest{A: 1, B: 1, Z: []float64{1}, Pair: "TP", Flag: -1}},
		{"bad pair", "AB", FlashRequest{A: 1, B: 1, Z: []float64{1}, Pair: "TX"}},
		{"repeated pair", "AB", FlashRequest{A: 1, B: 1, Z: []float64{1}, Pair: "TT"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, lib := newEngine(t)
			_, err := e.Flash(MustLookup(tt.code), tt.req)
			if !errors.Is(err, rperrors.ErrInvalidInput) {
				t.Fatalf("got %v, want invalid input", err)
			}
			if n := lib.TotalCalls(); n != 0 {
				t.Errorf("native library called %d times", n)
			}
		})
	}
}

func TestFlash_MeltingLineQualityPassesThrough(t *testing.T) {
	e, lib := newEngine(t)
	loadNitrogen(t, e)

	if _, err := e.Flash(MustLookup("PQ"), FlashRequest{A: 500, B: -99, Z: []float64{1}, Flag: 1}); err != nil {
		t.Fatal(err)
	}
	if q := lib.LastFlash().Q; q != -99 {
		t.Errorf("quality passed as %v", q)
	}
}

func TestFlash_NativeFailure(t *testing.T) {
	e, lib := newEngine(t)
	loadNitrogen(t, e)
	lib.Fail(refprop.EntryPHFlash, 248, "[PHFLSH error 248] single-phase iteration did not converge")

	_, err := e.Flash(MustLookup("PH"), FlashRequest{A: 1, B: 1, Z: []float64{1}})
	if !errors.Is(err, rperrors.ErrCalculation) {
		t.Fatalf("got %v", err)
	}
	if !strings.Contains(err.Error(), "did not converge") {
		t.Errorf("message lost: %v", err)
	}
}

func TestFlashBatch(t *testing.T) {
	e, lib := newEngine(t)
	loadNitrogen(t, e)
	lib.Reset()

	reqs := []FlashRequest{
		{A: 300, B: 100, Z: []float64{1}},
		{A: 310, B: 200, Z: []float64{1}},
		{A: 320, B: 300, Z: []float64{1}},
	}
	outs, err := e.FlashBatch(MustLookup("TP"), reqs)
	if err != nil {
		t.Fatal(err)
	}
	if len(outs) != 3 {
		t.Fatalf("got %d outputs", len(outs))
	}
	for i, out := range outs {
		if out.T != reqs[i].A || out.P != reqs[i].B {
			t.Errorf("output %d = T %v P %v", i, out.T, out.P)
		}
	}
	if n := lib.Calls(refprop.EntryTPFlash); n != 3 {
		t.Errorf("flash calls = %d", n)
	}
}

func TestFlashBatch_ValidatesAllFirst(t *testing.T) {
	e, lib := newEngine(t)
	loadNitrogen(t, e)
	lib.Reset()

	_, err := e.FlashBatch(MustLookup("TP"), []FlashRequest{
		{A: 300, B: 100, Z: []float64{1}},
		{A: 300, B: 100, Z: []float64{2}},
	})
	if !errors.Is(err, rperrors.ErrInvalidInput) || !strings.Contains(err.Error(), "request 1") {
		t.Fatalf("got %v", err)
	}
	if lib.TotalCalls() != 0 {
		t.Error("batch reached the native library before validation finished")
	}
}

func TestFlashBatch_StopsAtFirstFailure(t *testing.T) {
	e, lib := newEngine(t)
	loadNitrogen(t, e)
	calls := 0
	lib.FlashHook = func(_ refprop.Entry, f *refprop.FlashFrame) {
		calls++
		if calls == 2 {
			f.Ierr = 1
		}
	}

	_, err := e.FlashBatch(MustLookup("TD"), []FlashRequest{
		{A: 300, B: 1, Z: []float64{1}},
		{A: 300, B: 2, Z: []float64{1}},
		{A: 300, B: 3, Z: []float64{1}},
	})
	if !errors.Is(err, rperrors.ErrCalculation) || !strings.Contains(err.Error(), "request 1") {
		t.Fatalf("got %v", err)
	}
	if calls != 2 {
		t.Errorf("flash calls = %d, want 2", calls)
	}
}

func TestFlash_ConcurrentCallersNeverOverlap(t *testing.T) {
	e, lib := newEngine(t)
	loadNitrogen(t, e)
	lib.Delay = 50 * time.Microsecond
	lib.Fail(refprop.EntryCriticalPoint, 5, "forced")

	var eg errgroup.Group
	for i := 0; i < 16; i++ {
		i := i
		eg.Go(func() error {
			for j := 0; j < 10; j++ {
				var err error
				switch (i + j) % 3 {
				case 0:
					_, err = e.Flash(MustLookup("PH"), FlashRequest{A: 100, B: 1000, Z: []float64{1}})
				case 1:
					_, err = e.Flash(MustLookup("TQ"), FlashRequest{A: 80, B: 0.5, Z: []float64{1}, Flag: 2})
				default:
					// error path: two native calls per critical section
					if cerr := e.Call(refprop.EntryCriticalPoint, criticalPoint, nil); !errors.Is(cerr, rperrors.ErrCalculation) {
						err = fmt.Errorf("critical point: %v", cerr)
					}
				}
				if err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		t.Fatal(err)
	}

	if n := lib.Overlaps(); n != 0 {
		t.Errorf("%d native calls overlapped", n)
	}
	if lib.OverlappingSpans() {
		t.Error("recorded spans intersect")
	}
}
