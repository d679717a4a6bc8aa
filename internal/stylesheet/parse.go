package stylesheet

import (
	"fmt"
	"strings"

	"github.com/tdewolff/parse/v2/css"

	"stcss/internal/diag"
	"stcss/internal/source"
)

// blockMode определяет, как разбирать тело at-правила.
type blockMode uint8

const (
	bodyRaw blockMode = iota
	bodyRules
	bodyDecls
)

var atRuleBodies = map[string]blockMode{
	"media":               bodyRules,
	"supports":            bodyRules,
	"layer":               bodyRules,
	"container":           bodyRules,
	"document":            bodyRules,
	"scope":               bodyRules,
	"starting-style":      bodyRules,
	"st-scope":            bodyRules,
	"font-face":           bodyDecls,
	"page":                bodyDecls,
	"property":            bodyDecls,
	"counter-style":       bodyDecls,
	"font-palette-values": bodyDecls,
	"viewport":            bodyDecls,
}

func modeFor(name string) blockMode {
	return atRuleBodies[strings.ToLower(name)]
}

type parser struct {
	file     *source.File
	src      string
	toks     []Token
	pos      int
	reporter diag.Reporter
}

// Parse builds the stylesheet tree of file. Syntax problems are reported to r
// and parsing continues past them, so the returned sheet is never nil.
func Parse(file *source.File, r diag.Reporter) *Sheet {
	if r == nil {
		r = diag.NopReporter{}
	}
	src := string(file.Content)
	p := &parser{
		file:     file,
		src:      src,
		toks:     Tokenize(src),
		reporter: r,
	}
	return &Sheet{File: file.ID, Nodes: p.parseRuleList(false)}
}

// ParseString parses src as an anonymous virtual file; used by tests and tools.
func ParseString(src string, r diag.Reporter) *Sheet {
	return Parse(&source.File{Path: "<string>", Content: []byte(src), Flags: source.FileVirtual}, r)
}

func (p *parser) peek() Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos]
}

func (p *parser) next() Token {
	t := p.peek()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) skipWhitespace() {
	for p.peek().Type == css.WhitespaceToken {
		p.next()
	}
}

func (p *parser) span(start, end int) source.Span {
	return source.NewSpan(p.file.ID, start, end)
}

func (p *parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) {
	p.reporter.Report(diag.New(sev, code, sp, msg))
}

func (p *parser) parseRuleList(nested bool) []*Node {
	var nodes []*Node
	for {
		p.skipWhitespace()
		t := p.peek()
		switch t.Type {
		case css.ErrorToken:
			return nodes
		case css.RightBraceToken:
			if nested {
				return nodes
			}
			p.next()
			p.report(diag.CssUnexpectedToken, diag.SevError, p.span(t.Start, t.End), `unexpected "}"`)
		case css.CommentToken:
			p.next()
			nodes = append(nodes, p.comment(t))
		case css.CDOToken, css.CDCToken:
			p.next()
		case css.SemicolonToken:
			p.next()
			p.report(diag.CssUnexpectedToken, diag.SevError, p.span(t.Start, t.End), `unexpected ";"`)
		case css.AtKeywordToken:
			if n := p.parseAtRule(); n != nil {
				nodes = append(nodes, n)
			}
		default:
			if n := p.parseRule(); n != nil {
				nodes = append(nodes, n)
			}
		}
	}
}

func (p *parser) comment(t Token) *Node {
	sp := p.span(t.Start, t.End)
	return &Node{Kind: KindComment, Params: t.Text, ParamsSpan: sp, Span: sp}
}

// prelude собирает токены до '{', ';' или '}' на нулевой глубине скобок.
// Возвращает границы значимого текста (без пробелов и комментариев по краям).
func (p *parser) prelude() (start, end int, stop Token) {
	start, end = -1, -1
	depth := 0
	for {
		t := p.peek()
		switch t.Type {
		case css.ErrorToken:
			return start, end, t
		case css.LeftBraceToken, css.SemicolonToken, css.RightBraceToken:
			if depth == 0 {
				return start, end, t
			}
		case css.LeftParenthesisToken, css.LeftBracketToken, css.FunctionToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			if depth > 0 {
				depth--
			}
		}
		p.next()
		if t.IsTrivia() {
			continue
		}
		if start < 0 {
			start = t.Start
		}
		end = t.End
	}
}

func (p *parser) parseRule() *Node {
	first := p.peek()
	start, end, stop := p.prelude()
	switch stop.Type {
	case css.ErrorToken:
		p.report(diag.CssUnexpectedToken, diag.SevError, p.span(first.Start, stop.End), `expected "{" after selector`)
		return nil
	case css.SemicolonToken:
		p.next()
		p.report(diag.CssUnexpectedToken, diag.SevError, p.span(first.Start, stop.End), `unexpected ";" after selector`)
		return nil
	case css.RightBraceToken:
		p.report(diag.CssUnexpectedToken, diag.SevError, p.span(first.Start, stop.Start), `expected "{" after selector`)
		return nil
	}
	open := p.next()
	n := &Node{Kind: KindRule, Block: true}
	if start < 0 {
		p.report(diag.CssMissingSelector, diag.SevError, p.span(open.Start, open.End), "rule without selector")
		start, end = open.Start, open.Start
	}
	n.Params = p.src[start:end]
	n.ParamsSpan = p.span(start, end)
	n.Nodes = p.parseDeclList()
	n.Span = p.span(start, p.closeBlock(open))
	return n
}

// closeBlock поглощает '}' и возвращает конец блока.
func (p *parser) closeBlock(open Token) int {
	t := p.peek()
	if t.Type == css.RightBraceToken {
		p.next()
		return t.End
	}
	p.report(diag.CssUnclosedBlock, diag.SevError, p.span(open.Start, open.End), "unclosed block")
	return t.Start
}

func (p *parser) parseDeclList() []*Node {
	var nodes []*Node
	for {
		p.skipWhitespace()
		t := p.peek()
		switch t.Type {
		case css.ErrorToken, css.RightBraceToken:
			return nodes
		case css.SemicolonToken:
			p.next()
		case css.CommentToken:
			p.next()
			nodes = append(nodes, p.comment(t))
		default:
			if n := p.parseDecl(); n != nil {
				nodes = append(nodes, n)
			}
		}
	}
}

func (p *parser) parseDecl() *Node {
	start, end := -1, -1
	colon := -1
	depth := 0
loop:
	for {
		t := p.peek()
		switch t.Type {
		case css.ErrorToken:
			break loop
		case css.SemicolonToken, css.RightBraceToken:
			if depth == 0 {
				break loop
			}
		case css.LeftBraceToken:
			if depth == 0 {
				p.skipNestedBlock()
				p.report(diag.CssUnexpectedToken, diag.SevError, p.span(t.Start, t.End), "nested rules are not supported")
				return nil
			}
		case css.ColonToken:
			if depth == 0 && colon < 0 {
				colon = t.Start
			}
		case css.LeftParenthesisToken, css.LeftBracketToken, css.FunctionToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			if depth > 0 {
				depth--
			}
		}
		p.next()
		if t.IsTrivia() {
			continue
		}
		if start < 0 {
			start = t.Start
		}
		end = t.End
	}
	if start < 0 {
		return nil
	}
	if colon < 0 {
		p.report(diag.CssMissingColon, diag.SevWarning, p.span(start, end), fmt.Sprintf("declaration %q is missing \":\"", p.src[start:end]))
		return nil
	}
	name := strings.TrimSpace(p.src[start:colon])
	value := strings.TrimSpace(p.src[colon+1 : end])
	vstart := colon + 1 + (len(p.src[colon+1:end]) - len(strings.TrimLeft(p.src[colon+1:end], " \t\r\n\f")))
	n := &Node{
		Kind:       KindDecl,
		Name:       name,
		Span:       p.span(start, end),
		ParamsSpan: p.span(vstart, end),
	}
	n.Params, n.Important = splitImportant(value)
	return n
}

// splitImportant отделяет "!important" от значения.
func splitImportant(value string) (string, bool) {
	lower := strings.ToLower(value)
	if !strings.HasSuffix(lower, "important") {
		return value, false
	}
	rest := strings.TrimRight(value[:len(value)-len("important")], " \t\r\n\f")
	if !strings.HasSuffix(rest, "!") {
		return value, false
	}
	return strings.TrimSpace(rest[:len(rest)-1]), true
}

func (p *parser) skipNestedBlock() {
	depth := 0
	for {
		t := p.next()
		switch t.Type {
		case css.ErrorToken:
			return
		case css.LeftBraceToken:
			depth++
		case css.RightBraceToken:
			depth--
			if depth <= 0 {
				return
			}
		}
	}
}

func (p *parser) parseAtRule() *Node {
	at := p.next()
	n := &Node{Kind: KindAtRule, Name: strings.TrimPrefix(at.Text, "@")}
	p.skipWhitespace()
	start, end, stop := p.prelude()
	if start >= 0 {
		n.Params = p.src[start:end]
		n.ParamsSpan = p.span(start, end)
	} else {
		n.ParamsSpan = p.span(at.End, at.End)
	}
	switch stop.Type {
	case css.SemicolonToken:
		p.next()
		n.Span = p.span(at.Start, stop.End)
		return n
	case css.ErrorToken, css.RightBraceToken:
		n.Span = p.span(at.Start, max(at.End, end))
		return n
	}
	open := p.next()
	n.Block = true
	switch modeFor(n.Name) {
	case bodyRules:
		n.Nodes = p.parseRuleList(true)
		n.Span = p.span(at.Start, p.closeBlock(open))
	case bodyDecls:
		n.Nodes = p.parseDeclList()
		n.Span = p.span(at.Start, p.closeBlock(open))
	default:
		n.Raw, n.Span = p.rawBody(at, open)
	}
	return n
}

// rawBody сохраняет тело блока как есть (keyframes и неизвестные at-правила).
func (p *parser) rawBody(at, open Token) (string, source.Span) {
	depth := 1
	for {
		t := p.peek()
		switch t.Type {
		case css.ErrorToken:
			p.report(diag.CssUnclosedBlock, diag.SevError, p.span(open.Start, open.End), "unclosed block")
			return strings.TrimSpace(p.src[open.End:t.Start]), p.span(at.Start, t.Start)
		case css.LeftBraceToken:
			depth++
		case css.RightBraceToken:
			depth--
			if depth == 0 {
				p.next()
				return strings.TrimSpace(p.src[open.End:t.Start]), p.span(at.Start, t.End)
			}
		}
		p.next()
	}
}
