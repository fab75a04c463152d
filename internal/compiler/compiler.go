// Package compiler ties the Sylvre pipeline together: source is parsed into a
// Program, and a Program without parse errors is handed to a code generation
// target.
package compiler

import (
	"errors"
	"fmt"

	"github.com/sylvre-lang/sylvre/internal/compiler/ast"
	"github.com/sylvre-lang/sylvre/internal/compiler/codegen"
	cerrors "github.com/sylvre-lang/sylvre/internal/compiler/errors"
	"github.com/sylvre-lang/sylvre/internal/compiler/parser"

	// Registers the JavaScript target.
	_ "github.com/sylvre-lang/sylvre/internal/compiler/codegen/javascript"
)

var (
	// ErrProgramHasParseErrors is returned when generating a program whose
	// parse failed
	ErrProgramHasParseErrors = errors.New("program has parse errors")

	// ErrUnknownTarget is returned for a target with no registered generator
	ErrUnknownTarget = codegen.ErrUnknownTarget
)

// Program is the result of parsing one source unit. It is not modified
// after Parse returns.
type Program struct {
	// Root holds every block that parsed, even when there were errors
	Root        *ast.Program
	ParseErrors []cerrors.ParseError
}

// HasParseErrors reports whether parsing produced any errors
func (p *Program) HasParseErrors() bool {
	return len(p.ParseErrors) != 0
}

// Parse parses source. Malformed input is reported through ParseErrors.
func Parse(source string) *Program {
	root, errs := parser.ParseSource(source)
	return &Program{
		Root:        root,
		ParseErrors: errs,
	}
}

// Generate emits program for target
func Generate(program *Program, target codegen.Target) (*codegen.Output, error) {
	if program == nil || program.HasParseErrors() {
		return nil, ErrProgramHasParseErrors
	}

	gen, err := codegen.Lookup(target)
	if err != nil {
		return nil, err
	}
	return gen.Generate(program.Root), nil
}

// ErrorSource names the stage that rejected a transpile
type ErrorSource string

const (
	ErrorSourceNone       ErrorSource = "none"
	ErrorSourceParser     ErrorSource = "parser"
	ErrorSourceTranspiler ErrorSource = "transpiler"
)

// Result is the outcome of Transpile
type Result struct {
	Target          codegen.Target           `json:"target"`
	Code            string                   `json:"transpiledCode"`
	ErrorSource     ErrorSource              `json:"errorSource"`
	ParseErrors     []cerrors.ParseError     `json:"parseErrors,omitempty"`
	TranspileErrors []cerrors.TranspileError `json:"transpileErrors,omitempty"`
}

// HasErrors reports whether either stage failed
func (r *Result) HasErrors() bool {
	return r.ErrorSource != ErrorSourceNone
}

// Errors returns the errors of the failing stage in a common shape
func (r *Result) Errors() []cerrors.ErrorBase {
	out := make([]cerrors.ErrorBase, 0, len(r.ParseErrors)+len(r.TranspileErrors))
	for _, e := range r.ParseErrors {
		out = append(out, e.ErrorBase)
	}
	for _, e := range r.TranspileErrors {
		out = append(out, e.ErrorBase)
	}
	return out
}

// CompilerErrors converts the result's errors into structured compiler
// errors for file, with source context.
func (r *Result) CompilerErrors(file, source string) cerrors.ErrorList {
	if len(r.ParseErrors) > 0 {
		return cerrors.FromParseErrors(file, source, r.ParseErrors)
	}
	return cerrors.FromTranspileErrors(file, source, r.TranspileErrors)
}

// Transpile parses and generates source in one step. Parse errors stop the
// pipeline before generation. Only an unknown target is returned as an error.
func Transpile(source string, target codegen.Target) (*Result, error) {
	if !codegen.IsRegistered(target) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, target)
	}

	result := &Result{Target: target, ErrorSource: ErrorSourceNone}

	program := Parse(source)
	if program.HasParseErrors() {
		result.ErrorSource = ErrorSourceParser
		result.ParseErrors = program.ParseErrors
		return result, nil
	}

	out, err := Generate(program, target)
	if err != nil {
		return nil, err
	}
	if out.HasErrors() {
		result.ErrorSource = ErrorSourceTranspiler
		result.TranspileErrors = out.Errors
		return result, nil
	}

	result.Code = out.Code
	return result, nil
}
