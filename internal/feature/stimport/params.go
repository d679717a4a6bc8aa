package stimport

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/tdewolff/parse/v2/css"

	"stcss/internal/stylesheet"
)

type namedImport struct {
	imported string
	local    string
}

type importDecl struct {
	defaultName string
	named       []namedImport
	request     string
}

var (
	errMissingFrom    = errors.New(`expected "from"`)
	errMissingRequest = errors.New("expected a quoted path after \"from\"")
	errEmpty          = errors.New("nothing imported")
)

// parseParams разбирает `Default, [a, b as c] from "./x.st.css"`.
func parseParams(params string) (importDecl, error) {
	var toks []stylesheet.Token
	for _, t := range stylesheet.Tokenize(params) {
		if !t.IsTrivia() && !t.IsEOF() {
			toks = append(toks, t)
		}
	}
	var d importDecl
	i := 0
	at := func(tt css.TokenType) bool { return i < len(toks) && toks[i].Type == tt }
	isFrom := func() bool { return at(css.IdentToken) && toks[i].Text == "from" }

	if at(css.IdentToken) && !isFrom() {
		d.defaultName = toks[i].Text
		i++
		if at(css.CommaToken) {
			i++
		}
	}
	if at(css.LeftBracketToken) {
		i++
		for !at(css.RightBracketToken) {
			if !at(css.IdentToken) {
				if i >= len(toks) {
					return d, errors.New(`unclosed "["`)
				}
				return d, fmt.Errorf("unexpected %q in named imports", toks[i].Text)
			}
			n := namedImport{imported: toks[i].Text, local: toks[i].Text}
			i++
			if at(css.IdentToken) && toks[i].Text == "as" {
				i++
				if !at(css.IdentToken) {
					return d, fmt.Errorf("expected a local name after \"as %s\"", n.imported)
				}
				n.local = toks[i].Text
				i++
			}
			d.named = append(d.named, n)
			if at(css.CommaToken) {
				i++
			}
		}
		i++
	}
	if !isFrom() {
		if i < len(toks) {
			return d, fmt.Errorf("unexpected %q, %w", toks[i].Text, errMissingFrom)
		}
		return d, errMissingFrom
	}
	i++
	if !at(css.StringToken) {
		return d, errMissingRequest
	}
	req, err := strconv.Unquote(toks[i].Text)
	if err != nil {
		// одинарные кавычки
		req = toks[i].Text[1 : len(toks[i].Text)-1]
	}
	i++
	if i < len(toks) {
		return d, fmt.Errorf("unexpected %q after path", toks[i].Text)
	}
	if d.defaultName == "" && len(d.named) == 0 {
		return d, errEmpty
	}
	if req == "" {
		return d, errMissingRequest
	}
	d.request = req
	return d, nil
}
