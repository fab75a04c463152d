package errors

import (
	"github.com/sylvre-lang/sylvre/internal/compiler/ast"
)

// Syntax error codes (SYN001-099)
const (
	// ErrNoViableAlternative indicates that no production could continue at the input
	ErrNoViableAlternative ErrorCode = "SYN001"
	// ErrMismatchedInput indicates that a specific token was required but another was found
	ErrMismatchedInput ErrorCode = "SYN002"
)

// NewNoViableAlternative creates a SYN001 error
func NewNoViableAlternative(loc ast.SourceLocation, symbol, message string) *CompilerError {
	return newError(
		ErrNoViableAlternative,
		"no_viable_alternative",
		CategorySyntax,
		SeverityError,
		message,
		loc,
	).WithActual(symbol).
		WithSuggestion("Check that the statement starts with a keyword such as create or call and ends with #")
}

// NewMismatchedInput creates a SYN002 error
func NewMismatchedInput(loc ast.SourceLocation, symbol, message string) *CompilerError {
	return newError(
		ErrMismatchedInput,
		"mismatched_input",
		CategorySyntax,
		SeverityError,
		message,
		loc,
	).WithActual(symbol).
		WithExamples(
			"create total = 1 + 2#",
			"loopwhile (i LTHAN 10) < increment i# >",
		)
}
