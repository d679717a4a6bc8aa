package diag

import "stcss/internal/source"

type dedupKey struct {
	code Code
	sev  Severity
	span source.Span
	msg  string
	word string
}

// DedupReporter forwards each distinct diagnostic once. Two diagnostics are
// the same when code, severity, primary span, message and word match; notes
// are ignored. Not safe for concurrent use.
type DedupReporter struct {
	next       Reporter
	seen       map[dedupKey]struct{}
	suppressed int
}

// NewDedupReporter wraps next.
func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{
		next: next,
		seen: make(map[dedupKey]struct{}),
	}
}

func (r *DedupReporter) Report(d *Diagnostic) {
	if r == nil || d == nil {
		return
	}
	key := dedupKey{code: d.Code, sev: d.Severity, span: d.Primary, msg: d.Message, word: d.Word}
	if _, dup := r.seen[key]; dup {
		r.suppressed++
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(d)
	}
}

// Suppressed counts the duplicates dropped so far.
func (r *DedupReporter) Suppressed() int {
	if r == nil {
		return 0
	}
	return r.suppressed
}
