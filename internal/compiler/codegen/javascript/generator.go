// Package javascript emits JavaScript from a Sylvre AST. Identifiers that
// collide with JavaScript reserved words are prefixed with "__", and
// references through the Sylvre library are resolved against the stdlib
// binding table.
package javascript

import (
	"bytes"
	"strings"

	"github.com/sylvre-lang/sylvre/internal/compiler/ast"
	"github.com/sylvre-lang/sylvre/internal/compiler/codegen"
	cerrors "github.com/sylvre-lang/sylvre/internal/compiler/errors"
	"github.com/sylvre-lang/sylvre/internal/compiler/stdlib"
)

const prologue = `"use strict";`

// reservedPrefix is prepended to identifiers that are JavaScript reserved words
const reservedPrefix = "__"

func init() {
	codegen.Register(codegen.JavaScript, func() codegen.Generator { return New() })
}

// Generator transforms a Sylvre AST into JavaScript
type Generator struct {
	buf    *bytes.Buffer
	lib    *stdlib.Registry
	errors []cerrors.TranspileError

	// aborted is set when the construct being emitted was rejected; the rest
	// of that construct is skipped and no further errors are raised for it.
	aborted bool
}

// New creates a generator backed by the embedded JavaScript library table
func New() *Generator {
	return NewWithRegistry(stdlib.JavaScript())
}

// NewWithRegistry creates a generator that resolves library references
// against lib
func NewWithRegistry(lib *stdlib.Registry) *Generator {
	return &Generator{
		buf:    &bytes.Buffer{},
		lib:    lib,
		errors: make([]cerrors.TranspileError, 0),
	}
}

// Generate emits the whole program. Rejected constructs are reported in the
// output's errors; generation continues with the constructs after them.
func (g *Generator) Generate(program *ast.Program) *codegen.Output {
	g.buf.Reset()
	g.errors = make([]cerrors.TranspileError, 0)
	g.aborted = false

	g.buf.WriteString(prologue)
	if program != nil {
		for _, block := range program.Blocks {
			g.generateBlock(block)
		}
	}

	return &codegen.Output{
		Code:   g.buf.String(),
		Errors: g.errors,
	}
}

func (g *Generator) generateBlock(block ast.Block) {
	switch b := block.(type) {
	case *ast.FunctionBlock:
		g.generateFunction(b)
	case *ast.IfBlock:
		g.generateIf(b)
	case *ast.WhileBlock:
		g.generateWhile(b)
	case *ast.ForBlock:
		g.generateFor(b)
	case *ast.StatementBlock:
		g.generateStatementBlock(b)
	}
}

func (g *Generator) generateBody(body []ast.Block) {
	g.buf.WriteByte('{')
	for _, block := range body {
		g.generateBlock(block)
	}
	g.buf.WriteByte('}')
}

// generateFunction emits `function name(a,b){...}`
func (g *Generator) generateFunction(fn *ast.FunctionBlock) {
	params := make([]string, 0, len(fn.Params))
	for _, param := range fn.Params {
		params = append(params, g.identifier(param.Name))
	}

	g.buf.WriteString("function ")
	g.buf.WriteString(g.identifier(fn.Name.Name))
	g.buf.WriteByte('(')
	g.buf.WriteString(strings.Join(params, ","))
	g.buf.WriteByte(')')
	g.generateBody(fn.Body)
}

func (g *Generator) generateIf(block *ast.IfBlock) {
	g.generateBranch("if", block.If)
	for _, branch := range block.ElseIfs {
		g.generateBranch("else if", branch)
	}
	if block.Else != nil {
		g.buf.WriteString("else")
		g.generateBody(block.Else.Body)
	}
}

func (g *Generator) generateBranch(keyword string, branch *ast.ConditionalBranch) {
	cond := g.generateExpr(branch.Condition)
	g.endConstruct()

	g.buf.WriteString(keyword)
	g.buf.WriteByte('(')
	g.buf.WriteString(cond)
	g.buf.WriteByte(')')
	g.generateBody(branch.Body)
}

func (g *Generator) generateWhile(block *ast.WhileBlock) {
	cond := g.generateExpr(block.Condition)
	g.endConstruct()

	g.buf.WriteString("while(")
	g.buf.WriteString(cond)
	g.buf.WriteByte(')')
	g.generateBody(block.Body)
}

// generateFor emits `for(init;cond;step){...}`. Each header slot is its own
// construct, so a rejected init does not hide errors in the condition.
func (g *Generator) generateFor(block *ast.ForBlock) {
	init := g.generateStatement(block.Init)
	g.endConstruct()
	cond := g.generateExpr(block.Condition)
	g.endConstruct()

	var step string
	switch s := block.Step.(type) {
	case ast.Statement:
		step = g.generateStatement(s)
	case ast.Expr:
		step = g.generateExpr(s)
	}
	g.endConstruct()

	g.buf.WriteString("for(")
	g.buf.WriteString(init)
	g.buf.WriteByte(';')
	g.buf.WriteString(cond)
	g.buf.WriteByte(';')
	g.buf.WriteString(step)
	g.buf.WriteByte(')')
	g.generateBody(block.Body)
}

// generateStatementBlock emits a statement terminated by ';'. A rejected
// statement is left out of the output.
func (g *Generator) generateStatementBlock(block *ast.StatementBlock) {
	code := g.generateStatement(block.Statement)
	if g.endConstruct() {
		return
	}
	g.buf.WriteString(code)
	g.buf.WriteByte(';')
}

func (g *Generator) generateStatement(stmt ast.Statement) string {
	switch s := stmt.(type) {
	case *ast.Declaration:
		return g.generateDeclaration(s)
	case *ast.Assignment:
		return g.generateAssignment(s)
	case *ast.CallExpr:
		return g.generateCall(s)
	case *ast.Return:
		if s.Value == nil {
			return "return"
		}
		return "return " + g.generateExpr(s.Value)
	case *ast.IncDecExpr:
		return g.generateIncDec(s)
	}
	return ""
}

// generateDeclaration emits `var name=value`
func (g *Generator) generateDeclaration(decl *ast.Declaration) string {
	if decl.Name.Name == stdlib.LibraryName {
		g.reject(cerrors.ErrReservedLibraryName, decl.Name.Loc, decl.Name.Name, cerrors.MsgReservedLibraryName)
		return ""
	}
	value := g.generateExpr(decl.Value)
	return "var " + g.identifier(decl.Name.Name) + "=" + value
}

// generateAssignment emits `target op value`
func (g *Generator) generateAssignment(assign *ast.Assignment) string {
	target := assign.Target
	if target.Base.Name == stdlib.LibraryName && len(target.Suffixes) == 0 {
		g.reject(cerrors.ErrReservedLibraryName, target.Base.Loc, target.Base.Name, cerrors.MsgReservedLibraryName)
		return ""
	}

	ref := g.generateReference(target)
	value := g.generateExpr(assign.Value)
	return ref + assign.Operator + value
}

// identifier escapes name when it collides with a reserved word
func (g *Generator) identifier(name string) string {
	if g.lib.IsReserved(name) {
		return reservedPrefix + name
	}
	return name
}

// reject records a transpile error and aborts the current construct. Only
// the first rejection of a construct is recorded.
func (g *Generator) reject(code cerrors.ErrorCode, loc ast.SourceLocation, symbol, message string) {
	if g.aborted {
		return
	}
	g.aborted = true
	g.errors = append(g.errors, cerrors.NewTranspileError(code, loc, symbol, message))
}

// endConstruct closes the current construct and reports whether it was rejected
func (g *Generator) endConstruct() bool {
	aborted := g.aborted
	g.aborted = false
	return aborted
}
