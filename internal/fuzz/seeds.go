package fuzztests

import (
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB — ограничение для тестового корпуса
	maxFuzzInput = 1 << 16
)

var stylesheetSeeds = []string{
	"",
	".root {}\n",
	".root { color: red; }\n.root button { margin: 0 }\n",
	"@st-namespace \"btn\";\n.root .label {}\n",
	"@st-import Button, [label] from \"./button.st.css\";\n.root Button .label {}\n",
	":global(.ext) div, .a > span ~ b + i {}\n",
	".a:hover::before, .a:is(.b, .c) {}\n",
	".a { -st-global: \".ext\"; }\n",
	"@media (min-width: 10px) { .root div { x: y } }\n",
	"div {",
	".a >> .b {}",
	":global(",
	"/* unterminated",
	".a { color: \"unterminated }\n",
	"@st-import from;",
	"\x00\xff{}",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range stylesheetSeeds {
		f.Add(clampSeed([]byte(s)))
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
