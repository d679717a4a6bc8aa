package diagfmt

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const tabWidth = 4

// expandTabs заменяет табы пробелами, чтобы каретка совпадала с текстом.
func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col += runewidth.RuneWidth(r)
	}
	return b.String()
}

// displayWidth is the terminal width of s with tabs expanded.
func displayWidth(s string) int {
	return runewidth.StringWidth(expandTabs(s))
}

// caretLine builds the underline for the byte range [from, to) of line.
func caretLine(line string, from, to int) string {
	from = max(0, min(from, len(line)))
	to = max(from, min(to, len(line)))
	pad := displayWidth(line[:from])
	n := max(1, displayWidth(line[:to])-pad)
	return strings.Repeat(" ", pad) + "^" + strings.Repeat("~", n-1)
}

func truncate(s string, width uint8) string {
	if width == 0 {
		return s
	}
	return runewidth.Truncate(s, int(width), "…")
}
