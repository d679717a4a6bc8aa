package stylesheet

import (
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Token is a lexer token with byte offsets into the source it was cut from.
type Token struct {
	Type  css.TokenType
	Text  string
	Start int
	End   int
}

// Tokenize runs the CSS lexer over src and returns every token, whitespace and
// comments included, so that offsets stay contiguous. The final token is always
// css.ErrorToken at len(src).
func Tokenize(src string) []Token {
	lx := css.NewLexer(parse.NewInputString(src))
	out := make([]Token, 0, len(src)/3+1)
	off := 0
	for {
		tt, data := lx.Next()
		if tt == css.ErrorToken {
			out = append(out, Token{Type: css.ErrorToken, Start: off, End: off})
			return out
		}
		end := off + len(data)
		out = append(out, Token{Type: tt, Text: string(data), Start: off, End: end})
		off = end
	}
}

// IsTrivia reports tokens that carry no structure.
func (t Token) IsTrivia() bool {
	return t.Type == css.WhitespaceToken || t.Type == css.CommentToken
}

// IsEOF reports the terminating token.
func (t Token) IsEOF() bool {
	return t.Type == css.ErrorToken
}
