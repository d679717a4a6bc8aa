package observ

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("analyze")
	tm.End(idx, "3 files")
	tm.Record("transform", 2*time.Millisecond, "")

	rep := tm.Report()
	if len(rep.Phases) != 2 {
		t.Fatalf("phases = %d", len(rep.Phases))
	}
	if rep.Phases[0].Name != "analyze" || rep.Phases[0].Note != "3 files" {
		t.Fatalf("phase 0 = %+v", rep.Phases[0])
	}
	if rep.Phases[1].DurationMS != 2 {
		t.Fatalf("phase 1 ms = %v", rep.Phases[1].DurationMS)
	}
	if rep.TotalMS < 2 {
		t.Fatalf("total = %v", rep.TotalMS)
	}
	if s := tm.Summary(); !strings.Contains(s, "analyze") || !strings.Contains(s, "// 3 files") {
		t.Fatalf("summary = %q", s)
	}
}

func TestTimerNilAndBadIndex(t *testing.T) {
	var tm *Timer
	if tm.Begin("x") != -1 || tm.End(0, "") != 0 {
		t.Fatal("nil timer must be inert")
	}
	if len(tm.Report().Phases) != 0 {
		t.Fatal("nil timer report")
	}
	real := NewTimer()
	if real.End(5, "") != 0 {
		t.Fatal("out of range end")
	}
}

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()
	m.FileCompiled(false)
	m.FileCompiled(false)
	m.FileCompiled(true)
	m.Diagnostics("warning", 3)
	m.CacheLookup(CacheMemory, true)
	m.CacheLookup(CacheDisk, false)
	m.ObservePhase("transform", time.Millisecond)
	m.OutputBytes(120)

	if got := testutil.ToFloat64(m.files.WithLabelValues("ok")); got != 2 {
		t.Fatalf("ok files = %v", got)
	}
	if got := testutil.ToFloat64(m.diagnostics.WithLabelValues("warning")); got != 3 {
		t.Fatalf("warnings = %v", got)
	}
	if got := testutil.ToFloat64(m.cache.WithLabelValues(CacheDisk, "miss")); got != 1 {
		t.Fatalf("disk misses = %v", got)
	}
	if got := testutil.ToFloat64(m.outputBytes); got != 120 {
		t.Fatalf("output bytes = %v", got)
	}
}

func TestMetricsTextfile(t *testing.T) {
	m := NewMetrics()
	m.FileCompiled(false)
	path := filepath.Join(t.TempDir(), "stcss.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `stcss_compile_files_total{result="ok"} 1`) {
		t.Fatalf("textfile:\n%s", data)
	}
	var nilMetrics *Metrics
	nilMetrics.FileCompiled(true)
	if err := nilMetrics.WriteTextfile(path); err != nil {
		t.Fatal(err)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLogger("info", &buf, false)
	if err != nil {
		t.Fatal(err)
	}
	log.Debug("hidden")
	log.Info("shown")
	_ = log.Sync()
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") || !strings.Contains(out, "INFO") {
		t.Fatalf("log output = %q", out)
	}

	if _, err := NewLogger("loud", &buf, false); err == nil {
		t.Fatal("expected error for unknown level")
	}
	nop, err := NewLogger("none", &buf, false)
	if err != nil || nop.Core().Enabled(-1) {
		t.Fatalf("none level: %v", err)
	}
	if OrNop(nil) == nil {
		t.Fatal("OrNop(nil)")
	}
}
