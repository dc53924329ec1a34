package observ

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("policy")
	tm.End(idx, "gcc 12.2.0")
	tm.Record("link:app", 2*time.Millisecond, "")
	tm.End(42, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("phases = %d, want 2", len(r.Phases))
	}
	if r.Phases[0].Name != "policy" || r.Phases[0].Note != "gcc 12.2.0" {
		t.Fatalf("phase[0] = %+v", r.Phases[0])
	}
	if r.Phases[1].DurationMS != 2 {
		t.Fatalf("phase[1].DurationMS = %v, want 2", r.Phases[1].DurationMS)
	}
	if r.TotalMS < 2 {
		t.Fatalf("TotalMS = %v, want >= 2", r.TotalMS)
	}
}

func TestTimerEmpty(t *testing.T) {
	r := NewTimer().Report()
	if r.TotalMS != 0 || r.Phases != nil {
		t.Fatalf("empty report = %+v", r)
	}
}

func TestTimerSummary(t *testing.T) {
	tm := NewTimer()
	tm.Record("plan", time.Millisecond, "3 steps")
	s := tm.Summary()
	for _, want := range []string{"timings:", "plan", "// 3 steps", "total"} {
		if !strings.Contains(s, want) {
			t.Fatalf("summary missing %q:\n%s", want, s)
		}
	}
}

func TestTimerConcurrentRecord(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.End(tm.Begin("step"), "")
		}()
	}
	wg.Wait()
	if n := len(tm.Report().Phases); n != 16 {
		t.Fatalf("phases = %d, want 16", n)
	}
}
