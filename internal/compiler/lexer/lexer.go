// Package lexer provides lexical analysis for Sylvre source code.
// It tokenizes .syl files into a stream of tokens for the parser.
package lexer

import (
	"fmt"
	"strconv"
	"strings"
)

// Lexer tokenizes Sylvre source code.
//
// Thread Safety: Lexer instances are NOT thread-safe. Each goroutine must
// create its own Lexer instance via New().
type Lexer struct {
	source  string     // Source code to tokenize
	start   int        // Start position of current token
	current int        // Current position in source
	line    int        // Current line number (1-indexed)
	column  int        // Current column number (1-indexed)
	tokens  []Token    // Collected tokens
	errors  []LexError // Collected errors
}

// New creates a new Lexer for the given source code
func New(source string) *Lexer {
	return &Lexer{
		source:  source,
		start:   0,
		current: 0,
		line:    1,
		column:  1,
		tokens:  make([]Token, 0),
		errors:  make([]LexError, 0),
	}
}

// ScanTokens tokenizes the entire source and returns tokens and errors.
// Every lexical error is also present in the token stream as a TOKEN_ERROR
// token so the parser can report it in source order.
func (l *Lexer) ScanTokens() ([]Token, []LexError) {
	for !l.isAtEnd() {
		l.start = l.current
		l.scanToken()
	}

	l.tokens = append(l.tokens, Token{
		Type:   TOKEN_EOF,
		Lexeme: "",
		Line:   l.line,
		Column: l.column,
		Offset: len(l.source),
	})

	return l.tokens, l.errors
}

//nolint:gocyclo,cyclop // Lexer dispatch function
func (l *Lexer) scanToken() {
	c := l.advance()

	switch {
	case c == '(' || c == ')' || c == '[' || c == ']' || c == '<' || c == '>':
		l.scanDelimiter(c)
	case c == '#':
		l.addToken(TOKEN_HASH)
	case c == ',':
		l.addToken(TOKEN_COMMA)
	case c == '.':
		l.addToken(TOKEN_DOT)
	case c == '=':
		l.addToken(TOKEN_ASSIGN)
	case c == '+' || c == '-' || c == '*' || c == '/':
		l.scanArithmetic(c)
	case c == '"' || c == '\'':
		l.string(c)
	case c == ' ' || c == '\r' || c == '\t':
		// Ignore whitespace
	case c == '\n':
		l.line++
		l.column = 1
	default:
		l.scanDefault(c)
	}
}

// scanDelimiter handles ( ) [ ] < >
func (l *Lexer) scanDelimiter(c byte) {
	switch c {
	case '(':
		l.addToken(TOKEN_LPAREN)
	case ')':
		l.addToken(TOKEN_RPAREN)
	case '[':
		l.addToken(TOKEN_LBRACKET)
	case ']':
		l.addToken(TOKEN_RBRACKET)
	case '<':
		l.addToken(TOKEN_LT)
	case '>':
		l.addToken(TOKEN_GT)
	}
}

// scanArithmetic handles + - * / with their compound assignment forms and
// the // and /* */ comment openers.
func (l *Lexer) scanArithmetic(c byte) {
	if c == '/' {
		if l.match('/') {
			l.comment()
			return
		}
		if l.match('*') {
			l.multilineComment()
			return
		}
	}

	compound := l.match('=')
	switch c {
	case '+':
		l.addToken(pick(compound, TOKEN_PLUS_ASSIGN, TOKEN_PLUS))
	case '-':
		l.addToken(pick(compound, TOKEN_MINUS_ASSIGN, TOKEN_MINUS))
	case '*':
		l.addToken(pick(compound, TOKEN_STAR_ASSIGN, TOKEN_STAR))
	case '/':
		l.addToken(pick(compound, TOKEN_SLASH_ASSIGN, TOKEN_SLASH))
	}
}

func pick(cond bool, yes, no TokenType) TokenType {
	if cond {
		return yes
	}
	return no
}

func (l *Lexer) scanDefault(c byte) {
	switch {
	case l.isDigit(c):
		l.number()
	case c == '_':
		l.underscoreIdentifier()
	case l.isAlpha(c):
		l.identifier()
	default:
		l.illegal(fmt.Sprintf("Unexpected character '%c'", c))
	}
}

// comment skips a // comment up to the end of the line
func (l *Lexer) comment() {
	for !l.isAtEnd() && l.peek() != '\n' {
		l.advance()
	}
}

// multilineComment skips a /* ... */ comment
func (l *Lexer) multilineComment() {
	for !l.isAtEnd() {
		if l.peek() == '*' && l.peekNext() == '/' {
			l.advance()
			l.advance()
			return
		}
		if l.peek() == '\n' {
			l.advance()
			l.line++
			l.column = 1
			continue
		}
		l.advance()
	}
	l.addError("Unterminated multi-line comment")
}

// string handles single- and double-quoted strings. A backslash escapes the
// next character; strings may not span lines.
func (l *Lexer) string(quote byte) {
	value := strings.Builder{}

	for !l.isAtEnd() && l.peek() != quote && l.peek() != '\n' {
		if l.peek() == '\\' {
			l.advance()
			if l.isAtEnd() || l.peek() == '\n' {
				break
			}
			escaped := l.advance()
			switch escaped {
			case 'n':
				value.WriteByte('\n')
			case 't':
				value.WriteByte('\t')
			case '\\', '"', '\'':
				value.WriteByte(escaped)
			default:
				value.WriteByte('\\')
				value.WriteByte(escaped)
			}
			continue
		}
		value.WriteByte(l.advance())
	}

	if l.isAtEnd() || l.peek() != quote {
		l.illegal("Unterminated string")
		return
	}

	l.advance()
	l.addTokenWithLiteral(TOKEN_STRING, value.String())
}

// number handles integer and decimal literals
func (l *Lexer) number() {
	for l.isDigit(l.peek()) {
		l.advance()
	}

	isDecimal := false
	if l.peek() == '.' && l.isDigit(l.peekNext()) {
		isDecimal = true
		l.advance()
		for l.isDigit(l.peek()) {
			l.advance()
		}
	}

	lexeme := l.source[l.start:l.current]
	if isDecimal {
		value, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			l.illegal(fmt.Sprintf("Invalid decimal literal: %s", lexeme))
			return
		}
		l.addTokenWithLiteral(TOKEN_DECIMAL, value)
		return
	}

	value, err := strconv.ParseInt(lexeme, 10, 64)
	if err != nil {
		// Out of int64 range; the text is still emitted verbatim.
		l.addTokenWithLiteral(TOKEN_NUMBER, lexeme)
		return
	}
	l.addTokenWithLiteral(TOKEN_NUMBER, value)
}

// identifier handles identifiers and keywords
func (l *Lexer) identifier() {
	for l.isAlphaNumeric(l.peek()) {
		l.advance()
	}

	text := l.source[l.start:l.current]

	tokenType, isKeyword := Keywords[text]
	if !isKeyword {
		tokenType = TOKEN_IDENTIFIER
	}

	switch tokenType {
	case TOKEN_TRUE:
		l.addTokenWithLiteral(tokenType, true)
	case TOKEN_FALSE:
		l.addTokenWithLiteral(tokenType, false)
	default:
		l.addToken(tokenType)
	}
}

// underscoreIdentifier consumes a word starting with one or more
// underscores. Such words are never valid identifiers.
func (l *Lexer) underscoreIdentifier() {
	for l.isAlphaNumeric(l.peek()) {
		l.advance()
	}
	l.illegal("Identifiers cannot start with an underscore")
}

// illegal emits a TOKEN_ERROR token for the current lexeme and records the error
func (l *Lexer) illegal(message string) {
	l.addTokenWithLiteral(TOKEN_ERROR, message)
	l.addError(message)
}

// Helper methods

func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

// advance consumes and returns the current character
func (l *Lexer) advance() byte {
	if l.isAtEnd() {
		return 0
	}
	c := l.source[l.current]
	l.current++
	l.column++
	return c
}

// match checks if the current character matches expected and consumes it
func (l *Lexer) match(expected byte) bool {
	if l.isAtEnd() {
		return false
	}
	if l.source[l.current] != expected {
		return false
	}
	l.current++
	l.column++
	return true
}

func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.current]
}

func (l *Lexer) peekNext() byte {
	if l.current+1 >= len(l.source) {
		return 0
	}
	return l.source[l.current+1]
}

func (l *Lexer) isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// isAlpha checks if a character is an ASCII letter
func (l *Lexer) isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z')
}

// isAlphaNumeric checks if a character may continue an identifier
func (l *Lexer) isAlphaNumeric(c byte) bool {
	return l.isAlpha(c) || l.isDigit(c) || c == '_'
}

func (l *Lexer) addToken(tokenType TokenType) {
	l.addTokenWithLiteral(tokenType, nil)
}

func (l *Lexer) addTokenWithLiteral(tokenType TokenType, literal interface{}) {
	lexeme := l.source[l.start:l.current]
	token := Token{
		Type:    tokenType,
		Lexeme:  lexeme,
		Literal: literal,
		Line:    l.line,
		Column:  l.column - (l.current - l.start),
		Offset:  l.start,
	}
	l.tokens = append(l.tokens, token)
}

// addError records a lexical error
func (l *Lexer) addError(message string) {
	lexeme := ""
	if l.start < len(l.source) {
		end := l.current
		if end > l.start+20 {
			end = l.start + 20
		}
		lexeme = l.source[l.start:end]
	}

	l.errors = append(l.errors, LexError{
		Message: message,
		Line:    l.line,
		Column:  l.column - (l.current - l.start),
		Lexeme:  lexeme,
	})
}

// IsKeyword checks if a string is a Sylvre keyword
func IsKeyword(s string) bool {
	_, ok := Keywords[s]
	return ok
}

// IsValidIdentifier reports whether s would scan as a single identifier token
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	first := s[0]
	if !((first >= 'a' && first <= 'z') || (first >= 'A' && first <= 'Z')) {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_') {
			return false
		}
	}
	return !IsKeyword(s)
}
