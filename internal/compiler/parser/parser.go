// Package parser implements the Sylvre language parser, transforming token streams into Abstract Syntax Trees (ASTs).
// It uses recursive descent parsing with panic mode error recovery so that
// independent syntax errors in one input are all reported in a single pass.
package parser

import (
	"github.com/sylvre-lang/sylvre/internal/compiler/ast"
	cerrors "github.com/sylvre-lang/sylvre/internal/compiler/errors"
	"github.com/sylvre-lang/sylvre/internal/compiler/lexer"
)

// Parser transforms a stream of tokens into an Abstract Syntax Tree (AST)
type Parser struct {
	tokens  []lexer.Token
	current int
	errors  []cerrors.ParseError

	// panicking is set after an error is recorded and cleared once the
	// parser has resynchronized; errors raised meanwhile are dropped.
	panicking bool
}

// New creates a new parser for the given token stream
func New(tokens []lexer.Token) *Parser {
	return &Parser{
		tokens:  tokens,
		current: 0,
		errors:  make([]cerrors.ParseError, 0),
	}
}

// ParseSource lexes and parses source in one step
func ParseSource(source string) (*ast.Program, []cerrors.ParseError) {
	tokens, _ := lexer.New(source).ScanTokens()
	return New(tokens).Parse()
}

// Parse parses the token stream and returns the AST and any errors. The
// returned program is never nil; with errors it holds the blocks that parsed.
func (p *Parser) Parse() (*ast.Program, []cerrors.ParseError) {
	program := &ast.Program{
		Blocks: make([]ast.Block, 0),
	}

	if p.isAtEnd() {
		p.mismatched(p.peek(), expectBlock)
		return program, p.errors
	}

	for !p.isAtEnd() {
		start := p.current
		if block := p.parseBlock(true); block != nil {
			program.Blocks = append(program.Blocks, block)
		}
		if p.current == start {
			// Nothing could be consumed here, e.g. a stray '>'.
			p.advance()
			p.panicking = false
		}
	}

	return program, p.errors
}

// parseBlock parses one block. Functions are only allowed at the top level.
func (p *Parser) parseBlock(allowFunction bool) ast.Block {
	switch p.peek().Type {
	case lexer.TOKEN_FUNCTION:
		if !allowFunction {
			// A nested function is reported once and skipped as a unit.
			p.mismatched(p.peek(), expectGT)
			if fn := p.parseFunction(); fn != nil {
				p.panicking = false
			} else {
				p.synchronize()
			}
			return nil
		}
		if fn := p.parseFunction(); fn != nil {
			return fn
		}
	case lexer.TOKEN_IF:
		if block := p.parseIf(); block != nil {
			return block
		}
	case lexer.TOKEN_LOOPWHILE:
		if block := p.parseWhile(); block != nil {
			return block
		}
	case lexer.TOKEN_LOOPFOR:
		if block := p.parseFor(); block != nil {
			return block
		}
	default:
		return p.parseStatementBlock()
	}

	p.synchronize()
	return nil
}

// parseFunction parses `function name [PARAMS a, b] < body >`
func (p *Parser) parseFunction() *ast.FunctionBlock {
	fnToken := p.advance()

	nameToken, ok := p.consume(lexer.TOKEN_IDENTIFIER, expectIdentifier)
	if !ok {
		return nil
	}

	fn := &ast.FunctionBlock{
		Name:   &ast.Identifier{Name: nameToken.Lexeme, Loc: ast.TokenLocation(nameToken)},
		Params: make([]*ast.Identifier, 0),
		Loc:    ast.TokenLocation(fnToken),
	}

	if p.match(lexer.TOKEN_PARAMS) {
		for {
			param, ok := p.consume(lexer.TOKEN_IDENTIFIER, expectIdentifier)
			if !ok {
				return nil
			}
			fn.Params = append(fn.Params, &ast.Identifier{Name: param.Lexeme, Loc: ast.TokenLocation(param)})
			if !p.match(lexer.TOKEN_COMMA) {
				break
			}
		}
		if !p.check(lexer.TOKEN_LT) {
			p.mismatched(p.peek(), expectParamsEnd)
			return nil
		}
	} else if !p.check(lexer.TOKEN_LT) {
		p.mismatched(p.peek(), expectParamsOrLT)
		return nil
	}

	body, ok := p.parseBody()
	if !ok {
		return nil
	}
	fn.Body = body
	return fn
}

// parseIf parses an if chain with its elseif and else arms
func (p *Parser) parseIf() *ast.IfBlock {
	ifToken := p.advance()

	branch := p.parseConditionalBranch(ifToken)
	if branch == nil {
		return nil
	}

	block := &ast.IfBlock{
		If:      branch,
		ElseIfs: make([]*ast.ConditionalBranch, 0),
		Loc:     ast.TokenLocation(ifToken),
	}

	for p.check(lexer.TOKEN_ELSEIF) {
		elseifToken := p.advance()
		branch := p.parseConditionalBranch(elseifToken)
		if branch == nil {
			return nil
		}
		block.ElseIfs = append(block.ElseIfs, branch)
	}

	if p.check(lexer.TOKEN_ELSE) {
		elseToken := p.advance()
		body, ok := p.parseBody()
		if !ok {
			return nil
		}
		block.Else = &ast.ElseBranch{Body: body, Loc: ast.TokenLocation(elseToken)}
	}

	return block
}

// parseConditionalBranch parses `(cond) < body >` after if or elseif
func (p *Parser) parseConditionalBranch(keyword lexer.Token) *ast.ConditionalBranch {
	cond := p.parseParenthesizedCondition()
	if cond == nil {
		return nil
	}

	body, ok := p.parseBody()
	if !ok {
		return nil
	}

	return &ast.ConditionalBranch{
		Condition: cond,
		Body:      body,
		Loc:       ast.TokenLocation(keyword),
	}
}

// parseWhile parses `loopwhile (cond) < body >`
func (p *Parser) parseWhile() *ast.WhileBlock {
	whileToken := p.advance()

	cond := p.parseParenthesizedCondition()
	if cond == nil {
		return nil
	}

	body, ok := p.parseBody()
	if !ok {
		return nil
	}

	return &ast.WhileBlock{
		Condition: cond,
		Body:      body,
		Loc:       ast.TokenLocation(whileToken),
	}
}

// parseFor parses `loopfor (init# cond# step[#]) < body >`
func (p *Parser) parseFor() *ast.ForBlock {
	forToken := p.advance()

	if _, ok := p.consume(lexer.TOKEN_LPAREN, expectLParen); !ok {
		return nil
	}

	var init ast.Statement
	start := p.current
	switch {
	case p.check(lexer.TOKEN_CREATE):
		decl := p.parseDeclaration()
		if decl == nil {
			return nil
		}
		init = decl
	case p.check(lexer.TOKEN_IDENTIFIER):
		target := p.parseReference()
		if target == nil {
			return nil
		}
		if !p.checkAssignOperator() {
			p.noViable(start)
			return nil
		}
		assign := p.parseAssignment(target, start)
		if assign == nil {
			return nil
		}
		init = assign
	default:
		p.noViable(start)
		return nil
	}

	if _, ok := p.consume(lexer.TOKEN_HASH, expectHash); !ok {
		return nil
	}

	cond := p.parseCondition()
	if cond == nil {
		return nil
	}

	if _, ok := p.consume(lexer.TOKEN_HASH, expectHash); !ok {
		return nil
	}

	step := p.parseForStep()
	if step == nil {
		return nil
	}

	p.match(lexer.TOKEN_HASH)

	if _, ok := p.consume(lexer.TOKEN_RPAREN, expectRParen); !ok {
		return nil
	}

	body, ok := p.parseBody()
	if !ok {
		return nil
	}

	return &ast.ForBlock{
		Init:      init,
		Condition: cond,
		Step:      step,
		Body:      body,
		Loc:       ast.TokenLocation(forToken),
	}
}

// parseForStep parses the step slot of a loopfor header, which is either an
// assignment or an arithmetic expression such as `i increment`.
func (p *Parser) parseForStep() ast.Node {
	if !p.check(lexer.TOKEN_IDENTIFIER) {
		if expr := p.parseExpression(); expr != nil {
			return expr
		}
		return nil
	}

	start := p.current
	target := p.parseReference()
	if target == nil {
		return nil
	}
	if p.checkAssignOperator() {
		if assign := p.parseAssignment(target, start); assign != nil {
			return assign
		}
		return nil
	}

	factor := p.referenceFactor(target)
	term := p.termTail(factor)
	if term == nil {
		return nil
	}
	if expr := p.expressionTail(term); expr != nil {
		return expr
	}
	return nil
}

// parseBody parses `< nestable* >`
func (p *Parser) parseBody() ([]ast.Block, bool) {
	if _, ok := p.consume(lexer.TOKEN_LT, expectLT); !ok {
		return nil, false
	}

	body := make([]ast.Block, 0)
	for !p.check(lexer.TOKEN_GT) && !p.isAtEnd() {
		start := p.current
		if block := p.parseBlock(false); block != nil {
			body = append(body, block)
		}
		if p.current == start {
			p.advance()
			p.panicking = false
		}
	}

	if _, ok := p.consume(lexer.TOKEN_GT, expectGT); !ok {
		return nil, false
	}
	return body, true
}

// parseStatementBlock parses a statement followed by `#`. When the token
// after an unexpected one is `#`, the unexpected token is dropped and the
// statement kept.
func (p *Parser) parseStatementBlock() ast.Block {
	start := p.current
	stmt := p.parseStatement()
	if stmt == nil {
		p.synchronize()
		return nil
	}

	if !p.check(lexer.TOKEN_HASH) {
		p.mismatched(p.peek(), expectHash)
		if p.peekNext().Type != lexer.TOKEN_HASH {
			p.synchronize()
			return nil
		}
		p.advance()
		p.panicking = false
	}
	p.advance()

	return &ast.StatementBlock{Statement: stmt, Loc: p.loc(start)}
}

// parseStatement parses a single statement without its terminator
func (p *Parser) parseStatement() ast.Statement {
	start := p.current

	switch p.peek().Type {
	case lexer.TOKEN_CREATE:
		if decl := p.parseDeclaration(); decl != nil {
			return decl
		}
		return nil
	case lexer.TOKEN_CALL:
		p.advance()
		if call := p.parseCallTarget(start); call != nil {
			return call
		}
		return nil
	case lexer.TOKEN_EXIT:
		if ret := p.parseReturn(); ret != nil {
			return ret
		}
		return nil
	case lexer.TOKEN_INCREMENT, lexer.TOKEN_DECREMENT:
		if incdec := p.parsePrefixIncDec(); incdec != nil {
			return incdec
		}
		return nil
	case lexer.TOKEN_IDENTIFIER:
		target := p.parseReference()
		if target == nil {
			return nil
		}
		if p.checkAssignOperator() {
			if assign := p.parseAssignment(target, start); assign != nil {
				return assign
			}
			return nil
		}
		if p.check(lexer.TOKEN_INCREMENT) || p.check(lexer.TOKEN_DECREMENT) {
			return p.suffixIncDec(target)
		}
		p.noViable(start)
		return nil
	default:
		p.noViable(start)
		return nil
	}
}

// parseDeclaration parses `create name = value`
func (p *Parser) parseDeclaration() *ast.Declaration {
	start := p.current
	p.advance()

	nameToken, ok := p.consume(lexer.TOKEN_IDENTIFIER, expectIdentifier)
	if !ok {
		return nil
	}

	// The right-hand side decides between an expression and an array, so a
	// missing '=' leaves the whole declaration undecided.
	if !p.check(lexer.TOKEN_ASSIGN) {
		p.noViable(start)
		return nil
	}
	p.advance()

	value := p.parseValue()
	if value == nil {
		return nil
	}

	return &ast.Declaration{
		Name:  &ast.Identifier{Name: nameToken.Lexeme, Loc: ast.TokenLocation(nameToken)},
		Value: value,
		Loc:   p.loc(start),
	}
}

// parseAssignment parses `op value` after an already parsed target
func (p *Parser) parseAssignment(target *ast.Reference, start int) *ast.Assignment {
	op := p.advance()

	value := p.parseValue()
	if value == nil {
		return nil
	}

	return &ast.Assignment{
		Target:   target,
		Operator: op.Lexeme,
		Value:    value,
		Loc:      p.loc(start),
	}
}

// parseReturn parses `exit` or `exit with value`
func (p *Parser) parseReturn() *ast.Return {
	exitToken := p.advance()
	ret := &ast.Return{Loc: ast.TokenLocation(exitToken)}

	if p.match(lexer.TOKEN_WITH) {
		value := p.parseCondition()
		if value == nil {
			return nil
		}
		ret.Value = value
	}

	return ret
}

// parseValue parses the right-hand side of a declaration or assignment
func (p *Parser) parseValue() ast.Expr {
	if p.check(lexer.TOKEN_LBRACKET) {
		if array := p.parseArray(); array != nil {
			return array
		}
		return nil
	}
	return p.parseCondition()
}

func (p *Parser) checkAssignOperator() bool {
	switch p.peek().Type {
	case lexer.TOKEN_ASSIGN, lexer.TOKEN_PLUS_ASSIGN, lexer.TOKEN_MINUS_ASSIGN,
		lexer.TOKEN_STAR_ASSIGN, lexer.TOKEN_SLASH_ASSIGN:
		return true
	}
	return false
}

// Token navigation

func (p *Parser) peek() lexer.Token {
	if len(p.tokens) == 0 {
		return lexer.Token{Type: lexer.TOKEN_EOF, Line: 1, Column: 1}
	}
	if p.current >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.current]
}

// peekNext returns the token after the current one
func (p *Parser) peekNext() lexer.Token {
	if p.current+1 >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.current+1]
}

// previous returns the most recently consumed token
func (p *Parser) previous() lexer.Token {
	if len(p.tokens) == 0 || p.current == 0 {
		return lexer.Token{Type: lexer.TOKEN_EOF}
	}
	return p.tokens[p.current-1]
}

// advance consumes the current token and returns it
func (p *Parser) advance() lexer.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

// check returns true if the current token matches the given type
func (p *Parser) check(tokenType lexer.TokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == tokenType
}

// match consumes the token if it matches any of the given types
func (p *Parser) match(types ...lexer.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

// consume advances if the next token matches, otherwise reports a
// mismatched input error
func (p *Parser) consume(tokenType lexer.TokenType, expecting string) (lexer.Token, bool) {
	if p.check(tokenType) {
		return p.advance(), true
	}

	p.mismatched(p.peek(), expecting)
	return lexer.Token{Type: lexer.TOKEN_ERROR}, false
}

// isAtEnd returns true if we've reached the end of the token stream
func (p *Parser) isAtEnd() bool {
	return p.current >= len(p.tokens) || p.tokens[p.current].Type == lexer.TOKEN_EOF
}

// synchronize implements panic mode error recovery. It skips to just past
// the next '#', or stops before a '>' or a token that starts a block.
// A '<' found while skipping opens a body that is skipped as a whole.
func (p *Parser) synchronize() {
	p.panicking = false

	for !p.isAtEnd() {
		switch p.peek().Type {
		case lexer.TOKEN_HASH:
			p.advance()
			return
		case lexer.TOKEN_GT:
			return
		case lexer.TOKEN_LT:
			p.skipBody()
			continue
		}

		if isBlockStart(p.peek().Type) {
			return
		}
		p.advance()
	}
}

// skipBody skips a '<' ... '>' group including nested groups
func (p *Parser) skipBody() {
	depth := 0
	for !p.isAtEnd() {
		switch p.advance().Type {
		case lexer.TOKEN_LT:
			depth++
		case lexer.TOKEN_GT:
			depth--
			if depth == 0 {
				return
			}
		}
	}
}

func isBlockStart(t lexer.TokenType) bool {
	switch t {
	case lexer.TOKEN_FUNCTION, lexer.TOKEN_IF, lexer.TOKEN_LOOPWHILE, lexer.TOKEN_LOOPFOR,
		lexer.TOKEN_CREATE, lexer.TOKEN_CALL, lexer.TOKEN_EXIT,
		lexer.TOKEN_INCREMENT, lexer.TOKEN_DECREMENT:
		return true
	}
	return false
}
