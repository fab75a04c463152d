package parser

import (
	"fmt"
	"strings"

	"github.com/sylvre-lang/sylvre/internal/compiler/ast"
	cerrors "github.com/sylvre-lang/sylvre/internal/compiler/errors"
	"github.com/sylvre-lang/sylvre/internal/compiler/lexer"
)

// Expected-token descriptions used in mismatched input messages
const (
	expectHash       = "'#'"
	expectLT         = "'<'"
	expectGT         = "'>'"
	expectLParen     = "'('"
	expectRParen     = "')'"
	expectRBracket   = "']'"
	expectIdentifier = "IDENTIFIER"
	expectNumber     = "{NUMBER, DECIMAL}"
	expectArgsEnd    = "{',', ')'}"
	expectArrayEnd   = "{',', ']'}"
	expectParamsEnd  = "{',', '<'}"
	expectParamsOrLT = "{'PARAMS', '<'}"
	expectBlock      = "{'function', 'if', 'loopwhile', 'loopfor', 'create', 'call', 'exit', 'increment', 'decrement', IDENTIFIER}"
)

// mismatched records a mismatched input error at tok
func (p *Parser) mismatched(tok lexer.Token, expecting string) {
	if p.panicking {
		return
	}
	p.panicking = true

	p.errors = append(p.errors, cerrors.ParseError{
		ErrorBase: cerrors.ErrorBase{
			Symbol:  tok.Text(),
			Line:    tok.Line,
			Column:  tok.Column,
			Message: fmt.Sprintf("mismatched input '%s' expecting %s", tok.Text(), expecting),
		},
		IsMismatchedInput: true,
	})
}

// noViable records a no viable alternative error for the production that
// started at token index start and could not continue at the current token.
func (p *Parser) noViable(start int) {
	if p.panicking {
		return
	}
	p.panicking = true

	first := p.tokenAt(start)
	offending := p.peek()

	p.errors = append(p.errors, cerrors.ParseError{
		ErrorBase: cerrors.ErrorBase{
			Symbol:  offending.Text(),
			Line:    first.Line,
			Column:  first.Column,
			Message: fmt.Sprintf("no viable alternative at input '%s'", p.textBetween(start, p.current)),
		},
		IsMismatchedInput: false,
	})
}

// textBetween reconstructs the input covered by tokens[from..to], separating
// tokens that were not adjacent in the source with a single space.
func (p *Parser) textBetween(from, to int) string {
	var b strings.Builder
	for i := from; i <= to && i < len(p.tokens); i++ {
		tok := p.tokens[i]
		if i > from {
			prev := p.tokens[i-1]
			if tok.Offset > prev.Offset+len(prev.Lexeme) {
				b.WriteByte(' ')
			}
		}
		b.WriteString(tok.Text())
	}
	return b.String()
}

func (p *Parser) tokenAt(i int) lexer.Token {
	if i >= len(p.tokens) {
		return p.peek()
	}
	return p.tokens[i]
}

// loc returns the location of the token at index i
func (p *Parser) loc(i int) ast.SourceLocation {
	return ast.TokenLocation(p.tokenAt(i))
}
