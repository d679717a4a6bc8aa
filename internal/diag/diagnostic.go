package diag

import (
	"stcss/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is a single finding attached to a stylesheet position.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	// Word is the source text the diagnostic points at (selector node, symbol name).
	Word  string
	Notes []Note
}

func New(sev Severity, code Code, primary source.Span, msg string) *Diagnostic {
	return &Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) *Diagnostic {
	return New(SevError, code, primary, msg)
}

func NewWarning(code Code, primary source.Span, msg string) *Diagnostic {
	return New(SevWarning, code, primary, msg)
}

func (d *Diagnostic) WithNote(sp source.Span, msg string) *Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

func (d *Diagnostic) WithWord(word string) *Diagnostic {
	d.Word = word
	return d
}
