package selector

import (
	"fmt"
	"strings"

	"github.com/tdewolff/parse/v2/css"

	"stcss/internal/diag"
	"stcss/internal/source"
	"stcss/internal/stylesheet"
)

// rawArgs lists functional pseudo-classes whose argument is not a selector list.
var rawArgs = map[string]bool{
	"nth-child":        true,
	"nth-last-child":   true,
	"nth-of-type":      true,
	"nth-last-of-type": true,
	"nth-col":          true,
	"nth-last-col":     true,
	"lang":             true,
	"dir":              true,
	"state":            true,
	"part":             true,
	"highlight":        true,
}

type parser struct {
	text     string
	toks     []stylesheet.Token
	pos      int
	base     source.Span
	reporter diag.Reporter
}

// Parse parses a selector list. base is the span of text inside its file; node
// spans are derived from it. Problems go to r and the parser keeps going, so a
// partial list is returned even for broken input.
func Parse(text string, base source.Span, r diag.Reporter) []*Node {
	if r == nil {
		r = diag.NopReporter{}
	}
	p := &parser{
		text:     text,
		toks:     stylesheet.Tokenize(text),
		base:     base,
		reporter: r,
	}
	list := p.parseList(false)
	for !p.peek().IsEOF() {
		t := p.next()
		p.errorf(diag.SelUnexpectedToken, t.Start, t.End, "unexpected %q in selector", t.Text)
	}
	return list
}

// MustParse parses text and panics on any diagnostic; intended for tests.
func MustParse(text string) []*Node {
	bag := diag.NewBag(8)
	list := Parse(text, source.Span{}, &diag.BagReporter{Bag: bag})
	if bag.Len() > 0 {
		panic(fmt.Sprintf("selector: parse %q: %s", text, bag.Items()[0].Message))
	}
	return list
}

func (p *parser) peek() stylesheet.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos]
}

func (p *parser) peekAt(n int) stylesheet.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *parser) next() stylesheet.Token {
	t := p.peek()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) span(start, end int) source.Span {
	return p.base.Sub(start, end)
}

func (p *parser) errorf(code diag.Code, start, end int, format string, args ...any) {
	p.reporter.Report(diag.NewError(code, p.span(start, end), fmt.Sprintf(format, args...)))
}

func (p *parser) parseList(nested bool) []*Node {
	list := make([]*Node, 0, 1)
	for {
		list = append(list, p.parseSelector(nested))
		if p.peek().Type != css.CommaToken {
			return list
		}
		p.next()
	}
}

func isEnd(t stylesheet.Token, nested bool) bool {
	switch t.Type {
	case css.ErrorToken, css.CommaToken:
		return true
	case css.RightParenthesisToken:
		return nested
	}
	return false
}

func combinatorOf(t stylesheet.Token) string {
	if t.Type != css.DelimToken {
		return ""
	}
	switch t.Text {
	case Child, Adjacent, Sibling:
		return t.Text
	}
	return ""
}

func (p *parser) parseSelector(nested bool) *Node {
	sel := &Node{Kind: KindSelector}
	start := p.peek().Start
	end := start
	spaced := false
	var last *Node
	for {
		t := p.peek()
		if isEnd(t, nested) {
			break
		}
		if t.IsTrivia() {
			p.next()
			spaced = true
			continue
		}
		if c := combinatorOf(t); c != "" {
			p.next()
			if last != nil && last.Kind == KindCombinator {
				p.errorf(diag.SelDanglingCombinator, t.Start, t.End, "combinator %q follows another combinator", c)
			} else {
				last = &Node{Kind: KindCombinator, Value: c, Span: p.span(t.Start, t.End)}
				sel.Nodes = append(sel.Nodes, last)
			}
			spaced = false
			end = t.End
			continue
		}
		if spaced && last != nil && last.Kind != KindCombinator {
			last = &Node{Kind: KindCombinator, Value: Descendant, Span: p.span(end, t.Start)}
			sel.Nodes = append(sel.Nodes, last)
		}
		spaced = false
		n := p.parseItem(nested)
		if n == nil {
			continue
		}
		sel.Nodes = append(sel.Nodes, n)
		last = n
		end = int(n.Span.End - p.base.Start)
	}
	sel.Span = p.span(start, max(start, end))
	switch {
	case len(sel.Nodes) == 0:
		t := p.peek()
		p.errorf(diag.SelEmptySelector, t.Start, t.End, "empty selector")
	case last.Kind == KindCombinator:
		p.errorf(diag.SelDanglingCombinator, int(last.Span.Start-p.base.Start), int(last.Span.End-p.base.Start), "combinator %q has no right-hand side", last.Value)
	}
	return sel
}

func (p *parser) parseItem(nested bool) *Node {
	t := p.next()
	switch t.Type {
	case css.IdentToken, css.CustomPropertyNameToken:
		return &Node{Kind: KindType, Value: t.Text, Span: p.span(t.Start, t.End)}
	case css.FunctionToken:
		return p.functional(KindType, strings.TrimSuffix(t.Text, "("), t)
	case css.HashToken:
		return &Node{Kind: KindID, Value: t.Text[1:], Span: p.span(t.Start, t.End)}
	case css.LeftBracketToken:
		return p.attribute(t)
	case css.ColonToken:
		return p.pseudo(t)
	case css.DelimToken:
		switch t.Text {
		case "*":
			return &Node{Kind: KindUniversal, Value: "*", Span: p.span(t.Start, t.End)}
		case "&":
			return &Node{Kind: KindNesting, Value: "&", Span: p.span(t.Start, t.End)}
		case ".":
			name := p.peek()
			switch name.Type {
			case css.IdentToken, css.CustomPropertyNameToken:
				p.next()
				return &Node{Kind: KindClass, Value: name.Text, Span: p.span(t.Start, name.End)}
			case css.FunctionToken:
				p.next()
				return p.functional(KindClass, strings.TrimSuffix(name.Text, "("), t)
			}
			p.errorf(diag.SelUnexpectedToken, t.Start, name.End, "expected class name after \".\"")
			return nil
		}
	}
	p.errorf(diag.SelUnexpectedToken, t.Start, t.End, "unexpected %q in selector", t.Text)
	return nil
}

func (p *parser) pseudo(colon stylesheet.Token) *Node {
	kind := KindPseudoClass
	if p.peek().Type == css.ColonToken {
		p.next()
		kind = KindPseudoElement
	}
	name := p.peek()
	switch name.Type {
	case css.IdentToken:
		p.next()
		return &Node{Kind: kind, Value: name.Text, Span: p.span(colon.Start, name.End)}
	case css.FunctionToken:
		p.next()
		return p.functional(kind, strings.TrimSuffix(name.Text, "("), colon)
	}
	p.errorf(diag.SelUnexpectedToken, colon.Start, name.End, "expected pseudo name after %q", p.text[colon.Start:name.Start])
	return nil
}

// functional разбирает аргументы после "name(" до парной скобки.
func (p *parser) functional(kind Kind, name string, first stylesheet.Token) *Node {
	n := &Node{Kind: kind, Value: name}
	argStart := p.peek().Start
	if (kind == KindPseudoClass || kind == KindPseudoElement) && rawArgs[strings.ToLower(name)] {
		n.Nodes = []*Node{}
		n.Raw = strings.TrimSpace(p.text[argStart:p.skipBalanced()])
	} else {
		n.Nodes = p.parseList(true)
	}
	closing := p.peek()
	if closing.Type != css.RightParenthesisToken {
		p.errorf(diag.SelUnclosedParen, first.Start, closing.Start, "unclosed %q in selector", name+"(")
		n.Span = p.span(first.Start, closing.Start)
		return n
	}
	p.next()
	n.Span = p.span(first.Start, closing.End)
	return n
}

// skipBalanced поглощает токены до ')' текущего уровня и возвращает её смещение.
func (p *parser) skipBalanced() int {
	depth := 0
	for {
		t := p.peek()
		switch t.Type {
		case css.ErrorToken:
			return t.Start
		case css.LeftParenthesisToken, css.FunctionToken:
			depth++
		case css.RightParenthesisToken:
			if depth == 0 {
				return t.Start
			}
			depth--
		}
		p.next()
	}
}

func (p *parser) attribute(open stylesheet.Token) *Node {
	for {
		t := p.peek()
		switch t.Type {
		case css.ErrorToken:
			p.errorf(diag.SelUnclosedParen, open.Start, t.Start, `unclosed "[" in selector`)
			return &Node{Kind: KindAttribute, Value: strings.TrimSpace(p.text[open.End:t.Start]), Span: p.span(open.Start, t.Start)}
		case css.RightBracketToken:
			p.next()
			return &Node{Kind: KindAttribute, Value: strings.TrimSpace(p.text[open.End:t.Start]), Span: p.span(open.Start, t.End)}
		}
		p.next()
	}
}
