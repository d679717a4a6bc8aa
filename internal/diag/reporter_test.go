package diag

import (
	"testing"

	"stcss/internal/source"
)

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(4)
	r := &BagReporter{Bag: bag}
	b := ReportWarning(r, SymRedeclare, source.Span{Start: 3, End: 9}, `redeclare symbol "Button"`).
		WithWord("Button").
		WithNote(source.Span{Start: 0, End: 2}, "previous declaration here")
	b.Emit()
	b.Emit()

	if bag.Len() != 1 {
		t.Fatalf("expected exactly one diagnostic, got %d", bag.Len())
	}
	d := bag.Items()[0]
	if d.Word != "Button" || len(d.Notes) != 1 || d.Severity != SevWarning {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
}

func TestDedupAndMultiReporter(t *testing.T) {
	left, right := NewBag(4), NewBag(4)
	r := NewDedupReporter(MultiReporter{&BagReporter{Bag: left}, nil, &BagReporter{Bag: right}})
	sp := source.Span{Start: 1, End: 4}
	r.Report(NewError(SelUnclosedParen, sp, "x"))
	r.Report(NewError(SelUnclosedParen, sp, "x"))
	r.Report(NewWarning(SelUnclosedParen, sp, "x"))
	r.Report(NewWarning(SelUnclosedParen, sp, "x").WithWord("y"))

	if left.Len() != 3 || right.Len() != 3 {
		t.Fatalf("expected 3 unique diagnostics on each side, got %d/%d", left.Len(), right.Len())
	}
	if r.Suppressed() != 1 {
		t.Fatalf("suppressed = %d, want 1", r.Suppressed())
	}
	NopReporter{}.Report(nil)
}

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")
	file := fs.AddVirtual("/workspace/src/sample.st.css", []byte("a\nb\n"))

	diags := []*Diagnostic{
		NewError(SelUnexpectedToken, source.Span{File: file, Start: 0, End: 1}, "first line\nsecond").
			WithNote(source.Span{File: file, Start: 2, End: 3}, "note line"),
		NewWarning(ScpUnscopedType, source.Span{File: file, Start: 2, End: 3}, "another"),
	}

	expected := "error SEL2001 src/sample.st.css:1:1 first line second\n" +
		"note SEL2001 src/sample.st.css:2:1 note line\n" +
		"warning SCP4001 src/sample.st.css:2:1 another"

	if got := FormatShort(diags, fs, true); got != expected {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}
