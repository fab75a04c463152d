package parser

import (
	"github.com/sylvre-lang/sylvre/internal/compiler/ast"
	"github.com/sylvre-lang/sylvre/internal/compiler/lexer"
)

var comparisonOperators = map[lexer.TokenType]ast.ComparisonOp{
	lexer.TOKEN_GTHAN:  ast.OpGreaterThan,
	lexer.TOKEN_GEQUAL: ast.OpGreaterEqual,
	lexer.TOKEN_LTHAN:  ast.OpLessThan,
	lexer.TOKEN_LEQUAL: ast.OpLessEqual,
	lexer.TOKEN_EQUALS: ast.OpEquals,
}

var logicalOperators = map[lexer.TokenType]ast.LogicalOp{
	lexer.TOKEN_AND: ast.OpAnd,
	lexer.TOKEN_OR:  ast.OpOr,
}

// parseParenthesizedCondition parses the `(cond)` header of if, elseif and
// loopwhile. These parentheses are syntax, not a Grouping.
func (p *Parser) parseParenthesizedCondition() ast.Expr {
	if _, ok := p.consume(lexer.TOKEN_LPAREN, expectLParen); !ok {
		return nil
	}

	cond := p.parseCondition()
	if cond == nil {
		return nil
	}

	if _, ok := p.consume(lexer.TOKEN_RPAREN, expectRParen); !ok {
		return nil
	}
	return cond
}

// parseCondition parses comparisons and logical operators. All binary
// conditional operators chain left to right without precedence between them.
func (p *Parser) parseCondition() ast.Expr {
	left := p.parseUnaryCondition()
	if left == nil {
		return nil
	}

	for {
		tok := p.peek()
		if op, ok := comparisonOperators[tok.Type]; ok {
			p.advance()
			right := p.parseUnaryCondition()
			if right == nil {
				return nil
			}
			left = &ast.Comparison{Operator: op, Left: left, Right: right, Loc: ast.TokenLocation(tok)}
			continue
		}
		if op, ok := logicalOperators[tok.Type]; ok {
			p.advance()
			right := p.parseUnaryCondition()
			if right == nil {
				return nil
			}
			left = &ast.Logical{Operator: op, Left: left, Right: right, Loc: ast.TokenLocation(tok)}
			continue
		}
		return left
	}
}

// parseUnaryCondition parses `NOT operand` or an arithmetic expression
func (p *Parser) parseUnaryCondition() ast.Expr {
	if p.check(lexer.TOKEN_NOT) {
		notToken := p.advance()
		operand := p.parseUnaryCondition()
		if operand == nil {
			return nil
		}
		return &ast.Negation{Operand: operand, Loc: ast.TokenLocation(notToken)}
	}
	return p.parseExpression()
}

// parseExpression parses `term { (+|-) term }`
func (p *Parser) parseExpression() ast.Expr {
	return p.expressionTail(p.parseTerm())
}

func (p *Parser) expressionTail(left ast.Expr) ast.Expr {
	if left == nil {
		return nil
	}
	for p.check(lexer.TOKEN_PLUS) || p.check(lexer.TOKEN_MINUS) {
		op := p.advance()
		right := p.parseTerm()
		if right == nil {
			return nil
		}
		left = &ast.BinaryExpr{Left: left, Operator: op.Lexeme, Right: right, Loc: ast.TokenLocation(op)}
	}
	return left
}

// parseTerm parses `factor { (*|/) factor }`
func (p *Parser) parseTerm() ast.Expr {
	return p.termTail(p.parseFactor())
}

func (p *Parser) termTail(left ast.Expr) ast.Expr {
	if left == nil {
		return nil
	}
	for p.check(lexer.TOKEN_STAR) || p.check(lexer.TOKEN_SLASH) {
		op := p.advance()
		right := p.parseFactor()
		if right == nil {
			return nil
		}
		left = &ast.BinaryExpr{Left: left, Operator: op.Lexeme, Right: right, Loc: ast.TokenLocation(op)}
	}
	return left
}

//nolint:gocyclo,cyclop // one case per factor alternative
func (p *Parser) parseFactor() ast.Expr {
	start := p.current
	tok := p.peek()

	switch tok.Type {
	case lexer.TOKEN_MINUS:
		p.advance()
		return p.parseNumber(tok, true)
	case lexer.TOKEN_NUMBER, lexer.TOKEN_DECIMAL:
		return p.parseNumber(tok, false)
	case lexer.TOKEN_STRING:
		p.advance()
		value, _ := tok.Literal.(string)
		return &ast.StringLiteral{Raw: tok.Lexeme, Value: value, Loc: ast.TokenLocation(tok)}
	case lexer.TOKEN_TRUE, lexer.TOKEN_FALSE:
		p.advance()
		return &ast.BoolLiteral{Value: tok.Type == lexer.TOKEN_TRUE, Loc: ast.TokenLocation(tok)}
	case lexer.TOKEN_LPAREN:
		p.advance()
		inner := p.parseCondition()
		if inner == nil {
			return nil
		}
		if _, ok := p.consume(lexer.TOKEN_RPAREN, expectRParen); !ok {
			return nil
		}
		if ast.IsConditional(inner) {
			return &ast.Grouping{Inner: inner, Loc: ast.TokenLocation(tok)}
		}
		return &ast.ParenExpr{Inner: inner, Loc: ast.TokenLocation(tok)}
	case lexer.TOKEN_CALL:
		p.advance()
		if call := p.parseCallTarget(start); call != nil {
			return call
		}
		return nil
	case lexer.TOKEN_INCREMENT, lexer.TOKEN_DECREMENT:
		if incdec := p.parsePrefixIncDec(); incdec != nil {
			return incdec
		}
		return nil
	case lexer.TOKEN_IDENTIFIER:
		ref := p.parseReference()
		if ref == nil {
			return nil
		}
		return p.referenceFactor(ref)
	default:
		p.noViable(start)
		return nil
	}
}

// parseNumber parses a NUMBER or DECIMAL, after an optional minus sign
func (p *Parser) parseNumber(first lexer.Token, negative bool) ast.Expr {
	tok := p.peek()
	switch tok.Type {
	case lexer.TOKEN_NUMBER:
		p.advance()
		return &ast.NumberLiteral{Text: tok.Lexeme, Negative: negative, Loc: ast.TokenLocation(first)}
	case lexer.TOKEN_DECIMAL:
		p.advance()
		return &ast.DecimalLiteral{Text: tok.Lexeme, Negative: negative, Loc: ast.TokenLocation(first)}
	}
	p.mismatched(tok, expectNumber)
	return nil
}

// referenceFactor turns a parsed reference into a factor, absorbing a
// trailing increment or decrement.
func (p *Parser) referenceFactor(ref *ast.Reference) ast.Expr {
	if p.check(lexer.TOKEN_INCREMENT) || p.check(lexer.TOKEN_DECREMENT) {
		return p.suffixIncDec(ref)
	}
	return ref
}

// parseReference parses `IDENT { .IDENT[(args)] | [expr] }`
func (p *Parser) parseReference() *ast.Reference {
	baseToken, ok := p.consume(lexer.TOKEN_IDENTIFIER, expectIdentifier)
	if !ok {
		return nil
	}

	ref := &ast.Reference{
		Base:     &ast.Identifier{Name: baseToken.Lexeme, Loc: ast.TokenLocation(baseToken)},
		Suffixes: make([]ast.Suffix, 0),
		Loc:      ast.TokenLocation(baseToken),
	}

	for {
		switch {
		case p.check(lexer.TOKEN_DOT):
			dot := p.advance()
			nameToken, ok := p.consume(lexer.TOKEN_IDENTIFIER, expectIdentifier)
			if !ok {
				return nil
			}
			member := &ast.MemberSuffix{
				Name: &ast.Identifier{Name: nameToken.Lexeme, Loc: ast.TokenLocation(nameToken)},
				Loc:  ast.TokenLocation(dot),
			}
			if p.match(lexer.TOKEN_LPAREN) {
				args, ok := p.parseArguments()
				if !ok {
					return nil
				}
				member.IsCall = true
				member.Args = args
			}
			ref.Suffixes = append(ref.Suffixes, member)
		case p.check(lexer.TOKEN_LBRACKET):
			bracket := p.advance()
			index := p.parseExpression()
			if index == nil {
				return nil
			}
			if _, ok := p.consume(lexer.TOKEN_RBRACKET, expectRBracket); !ok {
				return nil
			}
			ref.Suffixes = append(ref.Suffixes, &ast.IndexSuffix{Index: index, Loc: ast.TokenLocation(bracket)})
		default:
			return ref
		}
	}
}

// parseCallTarget parses the callee and arguments after `call`. When the
// reference already ends in an invoked member, that invocation is the call.
func (p *Parser) parseCallTarget(start int) *ast.CallExpr {
	callee := p.parseReference()
	if callee == nil {
		return nil
	}

	call := &ast.CallExpr{Callee: callee, Loc: p.loc(start)}

	if n := len(callee.Suffixes); n > 0 {
		if member, ok := callee.Suffixes[n-1].(*ast.MemberSuffix); ok && member.IsCall {
			call.Args = member.Args
			callee.Suffixes[n-1] = &ast.MemberSuffix{Name: member.Name, Loc: member.Loc}
			return call
		}
	}

	if _, ok := p.consume(lexer.TOKEN_LPAREN, expectLParen); !ok {
		return nil
	}
	args, ok := p.parseArguments()
	if !ok {
		return nil
	}
	call.Args = args
	return call
}

// parseArguments parses a comma-separated argument list after '(' up to
// and including ')'
func (p *Parser) parseArguments() ([]ast.Expr, bool) {
	args := make([]ast.Expr, 0)
	if p.match(lexer.TOKEN_RPAREN) {
		return args, true
	}

	for {
		arg := p.parseCondition()
		if arg == nil {
			return nil, false
		}
		args = append(args, arg)
		if !p.match(lexer.TOKEN_COMMA) {
			break
		}
	}

	if !p.check(lexer.TOKEN_RPAREN) {
		p.mismatched(p.peek(), expectArgsEnd)
		return nil, false
	}
	p.advance()
	return args, true
}

// parseArray parses `[a, b, c]`
func (p *Parser) parseArray() *ast.ArrayLiteral {
	bracket := p.advance()
	array := &ast.ArrayLiteral{Elements: make([]ast.Expr, 0), Loc: ast.TokenLocation(bracket)}

	if p.match(lexer.TOKEN_RBRACKET) {
		return array
	}

	for {
		element := p.parseCondition()
		if element == nil {
			return nil
		}
		array.Elements = append(array.Elements, element)
		if !p.match(lexer.TOKEN_COMMA) {
			break
		}
	}

	if !p.check(lexer.TOKEN_RBRACKET) {
		p.mismatched(p.peek(), expectArrayEnd)
		return nil
	}
	p.advance()
	return array
}

// parsePrefixIncDec parses `increment ref` or `decrement ref`
func (p *Parser) parsePrefixIncDec() *ast.IncDecExpr {
	op := p.advance()
	target := p.parseReference()
	if target == nil {
		return nil
	}
	return &ast.IncDecExpr{
		Target:    target,
		Decrement: op.Type == lexer.TOKEN_DECREMENT,
		Prefix:    true,
		Loc:       ast.TokenLocation(op),
	}
}

// suffixIncDec consumes the increment or decrement after ref
func (p *Parser) suffixIncDec(ref *ast.Reference) *ast.IncDecExpr {
	op := p.advance()
	return &ast.IncDecExpr{
		Target:    ref,
		Decrement: op.Type == lexer.TOKEN_DECREMENT,
		Prefix:    false,
		Loc:       ref.Loc,
	}
}
