package meta

import (
	"strings"
	"testing"
	"time"

	"stcss/internal/diag"
	"stcss/internal/source"
)

func newMeta(t *testing.T, path, src string) *Meta {
	t.Helper()
	fs := source.NewFileSetWithBase("/proj")
	id := fs.Add(path, []byte(src), time.Time{}, source.FileVirtual)
	return New(fs.Get(id), Options{BaseDir: "/proj"})
}

func TestNamespaceFromPath(t *testing.T) {
	m := newMeta(t, "/proj/src/my button.st.css", ".root {}")
	if m.RelPath != "src/my button.st.css" {
		t.Fatalf("unexpected rel path %q", m.RelPath)
	}
	if !strings.HasPrefix(m.Namespace, "my_button") || len(m.Namespace) != len("my_button")+8 {
		t.Fatalf("unexpected namespace %q", m.Namespace)
	}
	if got := m.Scoped("root"); got != m.Namespace+"__root" {
		t.Fatalf("unexpected scoped token %q", got)
	}
}

func TestNamespaceDeterministicAndDistinct(t *testing.T) {
	a := DeriveNamespace("a/button.st.css", "")
	b := DeriveNamespace("b/button.st.css", "")
	if a == b {
		t.Fatalf("same base name in different dirs must not collide: %q", a)
	}
	if a != DeriveNamespace("a/button.st.css", "") {
		t.Fatalf("namespace is not deterministic")
	}
	if DeriveNamespace("a\\button.st.css", "") != a {
		t.Fatalf("separators must not affect the namespace")
	}
}

func TestNamespaceBaseIgnoresBackslash(t *testing.T) {
	got := DeriveNamespace("a\\button.st.css", "")
	if !strings.HasPrefix(got, "button") || len(got) != len("button")+8 {
		t.Fatalf("unexpected namespace %q", got)
	}
}

func TestDeclaredNamespace(t *testing.T) {
	m := newMeta(t, "/proj/x.st.css", "@namespace \"Gallery\";\n.root {}")
	if !strings.HasPrefix(m.Namespace, "Gallery") {
		t.Fatalf("@namespace ignored: %q", m.Namespace)
	}
	if got := DeriveNamespace("x.st.css", "9lives"); !strings.HasPrefix(got, "s9lives") {
		t.Fatalf("leading digit not guarded: %q", got)
	}
}

func TestParseDiagnosticsCollected(t *testing.T) {
	m := newMeta(t, "/proj/x.st.css", ".a { color: red")
	if m.Bag.Len() != 1 || m.Bag.Items()[0].Code != diag.CssUnclosedBlock {
		t.Fatalf("expected unclosed block diagnostic, got %v", m.Bag.Items())
	}
	if m.Symbols == nil || m.Data == nil {
		t.Fatalf("meta not fully initialized")
	}
}

func TestResetDiagnosticsKeepsSealed(t *testing.T) {
	m := newMeta(t, "/proj/x.st.css", ".a { color: red")
	m.Seal()
	diag.ReportError(m.Reporter, diag.ImpUnknownFile, m.Sheet.Nodes[0].Span, "late").Emit()
	if m.Bag.Len() != 2 {
		t.Fatalf("bag len = %d, want 2", m.Bag.Len())
	}
	m.ResetDiagnostics()
	if m.Bag.Len() != 1 || m.Bag.Items()[0].Code != diag.CssUnclosedBlock {
		t.Fatalf("after reset: %v", m.Bag.Items())
	}
}
