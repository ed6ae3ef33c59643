package nativetest

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/wippyai/refprop"
)

func setFluids(t *testing.T, l *Library, list string) int32 {
	t.Helper()
	var buf [refprop.FluidsLen]byte
	copy(buf[:], list)
	var ierr int32
	l.SetFluids(&buf, &ierr)
	return ierr
}

func TestOverlapDetector(t *testing.T) {
	l := New()
	l.Delay = 5 * time.Millisecond

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var z refprop.Composition
			var w float64
			l.MolarMass(&z, &w)
		}()
	}
	wg.Wait()

	if l.Overlaps() == 0 {
		t.Error("unserialized callers were not detected")
	}
	if !l.OverlappingSpans() {
		t.Error("spans of unserialized callers do not intersect")
	}
	if got := l.Calls(refprop.EntryMolarMass); got != 4 {
		t.Errorf("Calls = %d, want 4", got)
	}
}

func TestSequentialCallsDoNotOverlap(t *testing.T) {
	l := New()
	for i := 0; i < 10; i++ {
		var p [refprop.PathLen]byte
		l.SetPath(&p)
	}
	if l.Overlaps() != 0 || l.OverlappingSpans() {
		t.Error("sequential calls reported as overlapping")
	}
	if len(l.Spans()) != 10 {
		t.Errorf("recorded %d spans, want 10", len(l.Spans()))
	}
}

func TestSetFluids(t *testing.T) {
	l := New()
	if code := setFluids(t, l, "nitrogen|argon.fld;OXYGEN"); code != 0 {
		t.Fatalf("code = %d", code)
	}
	got := l.Loaded()
	if len(got) != 3 || got[0] != "NITROGEN" || got[1] != "ARGON" {
		t.Errorf("Loaded = %v", got)
	}

	if code := setFluids(t, l, "NITROGEN|UNOBTAINIUM"); code != CodeMissingFluid {
		t.Fatalf("code = %d, want %d", code, CodeMissingFluid)
	}
	var herr refprop.ErrBuf
	code := CodeMissingFluid
	l.ErrMsg(&code, &herr)
	if want := "UNOBTAINIUM"; !bytes.Contains(herr[:], []byte(want)) {
		t.Errorf("message %q does not name %s", herr[:], want)
	}
}

func TestScriptedFailureAndPanic(t *testing.T) {
	l := New()
	l.Fail(refprop.EntryCriticalPoint, 7, "boom")

	var z refprop.Composition
	var tc, pc, dc float64
	var ierr int32
	var herr refprop.ErrBuf
	l.CriticalPoint(&z, &tc, &pc, &dc, &ierr, &herr)
	if ierr != 7 {
		t.Fatalf("ierr = %d, want 7", ierr)
	}

	l.PanicOn(refprop.EntrySetPath, "trap")
	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected panic")
			}
		}()
		var p [refprop.PathLen]byte
		l.SetPath(&p)
	}()

	// one-shot
	var p [refprop.PathLen]byte
	l.SetPath(&p)
	if l.Overlaps() != 0 {
		t.Error("panicking call left the in-flight counter raised")
	}
}
