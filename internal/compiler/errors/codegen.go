package errors

import (
	"fmt"

	"github.com/sylvre-lang/sylvre/internal/compiler/ast"
)

// Code generation error codes (GEN600-699)
const (
	// ErrCodeGenFailed indicates a general code generation failure
	ErrCodeGenFailed ErrorCode = "GEN600"
	// ErrMissingModuleName indicates a library reference without a module
	ErrMissingModuleName ErrorCode = "GEN601"
	// ErrIndexAfterLibrary indicates an index suffix directly on the library reference
	ErrIndexAfterLibrary ErrorCode = "GEN602"
	// ErrUnknownModule indicates a module that the library does not provide
	ErrUnknownModule ErrorCode = "GEN603"
	// ErrMissingModuleMember indicates a module reference without a member
	ErrMissingModuleMember ErrorCode = "GEN604"
	// ErrIndexAfterModule indicates an index suffix directly on a module reference
	ErrIndexAfterModule ErrorCode = "GEN605"
	// ErrUnknownModuleMember indicates a member that the module does not provide
	ErrUnknownModuleMember ErrorCode = "GEN606"
	// ErrReservedLibraryName indicates a declaration or assignment to the library name itself
	ErrReservedLibraryName ErrorCode = "GEN607"
)

// Messages reported for library reference failures. Clients match on these
// strings, so they must not change.
const (
	MsgMissingModuleName   = "Missing a module name after the library reference."
	MsgIndexAfterLibrary   = "An index reference is not allowed after the library reference."
	MsgUnknownModule       = "This Sylvre module does not exist."
	MsgMissingModuleMember = "Missing a module member reference after module name."
	MsgIndexAfterModule    = "An index reference is not allowed after a module reference."
	MsgUnknownModuleMember = "This Sylvre module member does not exist."
	MsgReservedLibraryName = "Sylvre is a reserved keyword, it cannot be declared or assigned to."
)

var codeGenTypes = map[ErrorCode]string{
	ErrCodeGenFailed:       "codegen_failed",
	ErrMissingModuleName:   "missing_module_name",
	ErrIndexAfterLibrary:   "index_after_library",
	ErrUnknownModule:       "unknown_module",
	ErrMissingModuleMember: "missing_module_member",
	ErrIndexAfterModule:    "index_after_module",
	ErrUnknownModuleMember: "unknown_module_member",
	ErrReservedLibraryName: "reserved_library_name",
}

var codeGenSuggestions = map[ErrorCode]string{
	ErrCodeGenFailed:       "This is likely a compiler bug - please report it",
	ErrMissingModuleName:   "Reference a module, for example Sylvre.Console",
	ErrIndexAfterLibrary:   "Library modules are accessed with a dot, for example Sylvre.Math",
	ErrUnknownModule:       "Run `sylvre library` to list the available modules",
	ErrMissingModuleMember: "Reference a member, for example Sylvre.Console.output",
	ErrIndexAfterModule:    "Module members are accessed with a dot, for example Sylvre.Console.output",
	ErrUnknownModuleMember: "Run `sylvre library` to list the members of each module",
	ErrReservedLibraryName: "Choose a different variable name",
}

// NewTranspileError builds a TranspileError for the given code at loc
func NewTranspileError(code ErrorCode, loc ast.SourceLocation, symbol, message string) TranspileError {
	return TranspileError{
		ErrorBase: ErrorBase{
			Symbol:  symbol,
			Line:    loc.Line,
			Column:  loc.Column,
			Message: message,
		},
		Code: code,
	}
}

// NewCodeGenFailed creates a GEN600 error
func NewCodeGenFailed(loc ast.SourceLocation, reason string) *CompilerError {
	return newError(
		ErrCodeGenFailed,
		codeGenTypes[ErrCodeGenFailed],
		CategoryCodeGen,
		SeverityError,
		fmt.Sprintf("Code generation failed: %s", reason),
		loc,
	).WithSuggestion(codeGenSuggestions[ErrCodeGenFailed])
}
