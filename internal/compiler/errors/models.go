package errors

import (
	"fmt"

	"github.com/sylvre-lang/sylvre/internal/compiler/ast"
)

// ErrorBase is the shape shared by parse and transpile errors. Line and
// Column are 1-based.
type ErrorBase struct {
	Symbol  string `json:"symbol"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
}

// Location returns the error position as an AST source location
func (e ErrorBase) Location() ast.SourceLocation {
	return ast.SourceLocation{Line: e.Line, Column: e.Column}
}

// ParseError is a syntax error found by the parser
type ParseError struct {
	ErrorBase
	// IsMismatchedInput is true when a specific token was required and a
	// different one was found, false when no production could continue.
	IsMismatchedInput bool `json:"isMismatchedInput"`
}

// Error implements the error interface
func (e ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// ToCompilerError converts the parse error into a structured CompilerError
func (e ParseError) ToCompilerError() *CompilerError {
	if e.IsMismatchedInput {
		return NewMismatchedInput(e.Location(), e.Symbol, e.Message)
	}
	return NewNoViableAlternative(e.Location(), e.Symbol, e.Message)
}

// TranspileError is a rejected construct found while generating code
type TranspileError struct {
	ErrorBase
	Code ErrorCode `json:"code,omitempty"`
}

// Error implements the error interface
func (e TranspileError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// ToCompilerError converts the transpile error into a structured CompilerError
func (e TranspileError) ToCompilerError() *CompilerError {
	code := e.Code
	if code == "" {
		code = ErrCodeGenFailed
	}
	return newError(code, codeGenTypes[code], CategoryCodeGen, SeverityError, e.Message, e.Location()).
		WithActual(e.Symbol).
		WithSuggestion(codeGenSuggestions[code])
}

// FromParseErrors converts parse errors into an ErrorList, attaching file
// name and source context when source is non-empty.
func FromParseErrors(file, source string, errs []ParseError) ErrorList {
	list := make(ErrorList, 0, len(errs))
	for _, e := range errs {
		list = append(list, decorate(e.ToCompilerError(), file, source))
	}
	return list
}

// FromTranspileErrors converts transpile errors into an ErrorList
func FromTranspileErrors(file, source string, errs []TranspileError) ErrorList {
	list := make(ErrorList, 0, len(errs))
	for _, e := range errs {
		list = append(list, decorate(e.ToCompilerError(), file, source))
	}
	return list
}

func decorate(ce *CompilerError, file, source string) *CompilerError {
	if file != "" {
		ce.WithFile(file)
	}
	if source != "" {
		current, lines := SourceContext(source, ce.Location.Line)
		if current != "" || len(lines) > 0 {
			ce.WithContext(current, lines)
		}
	}
	return ce
}
