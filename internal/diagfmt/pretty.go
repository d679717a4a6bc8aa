package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"stcss/internal/diag"
	"stcss/internal/source"
)

type palette struct {
	err, warn, info, code, gutter, caret, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.gutter, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, d, fs, opts, pal)
	}
	if n := bag.Dropped(); n > 0 {
		fmt.Fprintf(w, "\n... %d more diagnostics not shown\n", n)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	f := fs.Get(d.Primary.File)
	start, end := fs.Resolve(d.Primary)
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		formatPath(f, fs, opts.PathMode), start.Line, start.Col,
		pal.severity(d.Severity).Sprint(d.Severity.String()),
		pal.code.Sprint(d.Code.ID()),
		d.Message)

	if f != nil && !f.Has(source.FileMissing) && len(f.Content) > 0 {
		printContext(w, f, start, end, opts, pal)
	}

	if !opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		nf := fs.Get(n.Span.File)
		ns, _ := fs.Resolve(n.Span)
		fmt.Fprintf(w, "  %s %s:%d:%d: %s\n",
			pal.note.Sprint("note:"), formatPath(nf, fs, opts.PathMode), ns.Line, ns.Col, n.Msg)
	}
}

func printContext(w io.Writer, f *source.File, start, end source.LineCol, opts PrettyOpts, pal palette) {
	ctx := uint32(max(opts.Context, 0))
	first := start.Line - min(ctx, start.Line-1)
	last := min(start.Line+ctx, lineCount(f))
	if last < start.Line {
		last = start.Line
	}
	gutterWidth := len(strconv.FormatUint(uint64(last), 10))
	blank := strings.Repeat(" ", gutterWidth)

	for ln := first; ln <= last; ln++ {
		text := f.GetLine(ln)
		num := fmt.Sprintf("%*d", gutterWidth, ln)
		fmt.Fprintf(w, " %s %s %s\n", pal.gutter.Sprint(num), pal.gutter.Sprint("|"), truncate(expandTabs(text), opts.Width))
		if ln != start.Line {
			continue
		}
		to := len(text)
		if end.Line == start.Line {
			to = int(end.Col) - 1
		}
		under := caretLine(text, int(start.Col)-1, to)
		fmt.Fprintf(w, " %s %s %s\n", blank, pal.gutter.Sprint("|"), pal.caret.Sprint(under))
	}
}

// lineCount не считает пустой хвост после завершающего перевода строки.
func lineCount(f *source.File) uint32 {
	n := uint32(len(f.LineIdx)) + 1
	if len(f.Content) > 0 && f.Content[len(f.Content)-1] == '\n' {
		n--
	}
	return n
}
