package fuzztests

import (
	"testing"
	"time"

	"stcss/internal/analyze"
	"stcss/internal/diag"
	"stcss/internal/feature/builtin"
	"stcss/internal/meta"
	"stcss/internal/resolve"
	"stcss/internal/selector"
	"stcss/internal/source"
	"stcss/internal/stylesheet"
	"stcss/internal/transform"
)

// stepTimeout is the maximum time allowed for one input. Longer runs
// point at an infinite loop in error recovery.
const stepTimeout = 5 * time.Second

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}

func withTimeout(t *testing.T, input []byte, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-done:
	case <-time.After(stepTimeout):
		t.Fatalf("no result after %s for input %q", stepTimeout, input)
	}
}

func FuzzStylesheetParse(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		withTimeout(t, input, func() {
			fs := source.NewFileSet()
			file := fs.Get(fs.AddVirtual("fuzz.st.css", input))
			bag := diag.NewBag(128)
			sheet := stylesheet.Parse(file, &diag.BagReporter{Bag: bag})
			_ = stylesheet.String(sheet.Nodes, stylesheet.PrintOptions{})
		})
	})
}

func FuzzSelectorParse(f *testing.F) {
	for _, s := range []string{".a", "div > .b", ":global(.x) .y", ".a:is(.b,", "::before", "a ~ + b", "*|*"} {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, input string) {
		if len(input) > maxFuzzInput {
			input = input[:maxFuzzInput]
		}
		withTimeout(t, []byte(input), func() {
			base := source.Span{End: uint32(len(input))}
			list := selector.Parse(input, base, diag.NopReporter{})
			_ = selector.Stringify(selector.Clone(list))
		})
	})
}

func FuzzAnalyzeTransform(f *testing.F) {
	addCorpusSeeds(f)
	reg := builtin.Registry()
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		withTimeout(t, input, func() {
			fs := source.NewFileSet()
			file := fs.Get(fs.AddVirtual("fuzz.st.css", input))
			m := meta.New(file, meta.Options{MaxDiagnostics: 128})
			analyze.Analyze(m, reg)
			r := resolve.New(nil)
			r.ReportIssues(m)
			_ = transform.Transform(m, reg, r)
		})
	})
}
