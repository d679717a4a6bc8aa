package diagfmt

import (
	"io"

	"stcss/internal/diag"
	"stcss/internal/source"
)

// Short writes one line per diagnostic, sorted by position.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, includeNotes bool) error {
	out := diag.FormatShort(bag.Items(), fs, includeNotes)
	if out == "" {
		return nil
	}
	_, err := io.WriteString(w, out+"\n")
	return err
}
