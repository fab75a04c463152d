// Package format pretty-prints Sylvre source. It re-indents blocks,
// normalizes spacing between tokens and collapses blank lines while keeping
// every comment in place.
package format

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sylvre-lang/sylvre/internal/compiler/lexer"
	"github.com/sylvre-lang/sylvre/internal/compiler/parser"
)

// ErrInvalidSource is returned for source that does not parse
var ErrInvalidSource = errors.New("source has syntax errors")

// Formatter formats Sylvre source code
type Formatter struct {
	config *Config
	buf    *bytes.Buffer

	depth  int
	parens int

	prev        lexer.Token
	hasPrev     bool
	unary       bool
	lastComment bool
	atLineStart bool
}

// New creates a new Formatter with the given configuration
func New(config *Config) *Formatter {
	if config == nil {
		config = DefaultConfig()
	}
	return &Formatter{
		config: config,
		buf:    new(bytes.Buffer),
	}
}

// Format formats Sylvre source code and returns the formatted result.
// Source with syntax errors is rejected unchanged.
func (f *Formatter) Format(source string) (string, error) {
	tokens, _ := lexer.New(source).ScanTokens()

	// Only comments, or nothing at all
	if len(tokens) > 1 {
		if _, errs := parser.ParseSource(source); len(errs) > 0 {
			first := errs[0]
			return "", fmt.Errorf("%w: %d:%d: %s", ErrInvalidSource, first.Line, first.Column, first.Message)
		}
	}

	f.reset()

	prevEnd := 0
	for _, tok := range tokens {
		comments, trailing := splitGap(source[prevEnd:tok.Offset])
		for _, c := range comments {
			f.newlines(c.newlines)
			f.comment(c.text)
		}
		f.newlines(trailing)

		if tok.Type == lexer.TOKEN_EOF {
			break
		}
		f.token(tok)
		prevEnd = tok.Offset + len(tok.Lexeme)
	}

	out := strings.TrimRight(f.buf.String(), "\n")
	if out == "" {
		return "", nil
	}
	return out + "\n", nil
}

// FormatFile formats a Sylvre source file
func FormatFile(path string, config *Config) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	return New(config).Format(string(content))
}

func (f *Formatter) reset() {
	f.buf.Reset()
	f.depth = 0
	f.parens = 0
	f.hasPrev = false
	f.unary = false
	f.lastComment = false
	f.atLineStart = true
}

// newlines ends the current line and keeps at most MaxBlankLines of the
// n-1 blank lines that followed it. Leading blank lines are dropped.
func (f *Formatter) newlines(n int) {
	if n == 0 || f.buf.Len() == 0 {
		return
	}
	blank := min(n-1, f.config.MaxBlankLines)
	f.buf.WriteString(strings.Repeat("\n", blank+1))
	f.atLineStart = true
}

func (f *Formatter) comment(text string) {
	if f.atLineStart {
		f.writeIndent()
	} else {
		f.buf.WriteByte(' ')
	}
	f.buf.WriteString(text)
	f.atLineStart = false
	f.lastComment = true
}

func (f *Formatter) token(tok lexer.Token) {
	switch tok.Type {
	case lexer.TOKEN_GT:
		f.depth = max(f.depth-1, 0)
	case lexer.TOKEN_RPAREN, lexer.TOKEN_RBRACKET:
		f.parens = max(f.parens-1, 0)
	}

	if f.atLineStart {
		f.writeIndent()
	} else if f.spaceBefore(tok) {
		f.buf.WriteByte(' ')
	}
	f.buf.WriteString(tok.Lexeme)

	switch tok.Type {
	case lexer.TOKEN_LT:
		f.depth++
	case lexer.TOKEN_LPAREN, lexer.TOKEN_LBRACKET:
		f.parens++
	}

	f.unary = tok.Type == lexer.TOKEN_MINUS && !(f.hasPrev && isOperand(f.prev.Type))
	f.prev = tok
	f.hasPrev = true
	f.lastComment = false
	f.atLineStart = false
}

func (f *Formatter) spaceBefore(tok lexer.Token) bool {
	if f.lastComment {
		return true
	}
	if f.unary {
		return false
	}

	switch tok.Type {
	case lexer.TOKEN_HASH, lexer.TOKEN_COMMA, lexer.TOKEN_RPAREN, lexer.TOKEN_RBRACKET, lexer.TOKEN_DOT:
		return false
	}
	switch f.prev.Type {
	case lexer.TOKEN_LPAREN, lexer.TOKEN_LBRACKET, lexer.TOKEN_DOT:
		return false
	}

	switch tok.Type {
	case lexer.TOKEN_LPAREN:
		// add(1) but if (x)
		return !isCallee(f.prev.Type)
	case lexer.TOKEN_LBRACKET:
		// a[0] but = [1, 2]
		return !isCallee(f.prev.Type) && f.prev.Type != lexer.TOKEN_STRING
	}
	return true
}

func (f *Formatter) writeIndent() {
	level := f.depth + f.parens
	if f.config.UseTabs {
		f.buf.WriteString(strings.Repeat("\t", level))
		return
	}
	f.buf.WriteString(strings.Repeat(" ", level*f.config.IndentSize))
}

func isCallee(t lexer.TokenType) bool {
	switch t {
	case lexer.TOKEN_IDENTIFIER, lexer.TOKEN_RPAREN, lexer.TOKEN_RBRACKET:
		return true
	}
	return false
}

func isOperand(t lexer.TokenType) bool {
	switch t {
	case lexer.TOKEN_IDENTIFIER, lexer.TOKEN_NUMBER, lexer.TOKEN_DECIMAL, lexer.TOKEN_STRING,
		lexer.TOKEN_TRUE, lexer.TOKEN_FALSE, lexer.TOKEN_RPAREN, lexer.TOKEN_RBRACKET:
		return true
	}
	return false
}

type gapComment struct {
	text     string
	newlines int
}

// splitGap extracts the comments between two tokens, each with the number
// of line breaks before it, plus the line breaks after the last one
func splitGap(gap string) ([]gapComment, int) {
	var comments []gapComment
	newlines := 0

	for i := 0; i < len(gap); {
		switch {
		case gap[i] == '\n':
			newlines++
			i++
		case strings.HasPrefix(gap[i:], "//"):
			end := strings.IndexByte(gap[i:], '\n')
			if end < 0 {
				end = len(gap) - i
			}
			comments = append(comments, gapComment{strings.TrimRight(gap[i:i+end], " \t\r"), newlines})
			newlines = 0
			i += end
		case strings.HasPrefix(gap[i:], "/*"):
			end := strings.Index(gap[i+2:], "*/")
			if end < 0 {
				end = len(gap) - i
			} else {
				end += 4
			}
			comments = append(comments, gapComment{gap[i : i+end], newlines})
			newlines = 0
			i += end
		default:
			i++
		}
	}

	return comments, newlines
}
