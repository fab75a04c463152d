// Package ast defines the Abstract Syntax Tree (AST) node types for the Sylvre programming language.
// It provides structures for representing blocks, statements, references, and expressions.
package ast

import "github.com/sylvre-lang/sylvre/internal/compiler/lexer"

// SourceLocation tracks the position of an AST node in source code
type SourceLocation struct {
	Line   int // Line number (1-indexed)
	Column int // Column number (1-indexed)
}

// TokenLocation returns the location of a token
func TokenLocation(tok lexer.Token) SourceLocation {
	return SourceLocation{Line: tok.Line, Column: tok.Column}
}

// Node is the base interface for all AST nodes
type Node interface {
	Location() SourceLocation
	node()
}

// Block is a top-level or nested unit of a program: a function, an if
// chain, a loop, or a single terminated statement.
type Block interface {
	Node
	blockNode()
}

// Statement is the body of a StatementBlock
type Statement interface {
	Node
	statementNode()
}

// Program is the root node of the AST
type Program struct {
	Blocks []Block
}

func (p *Program) node() {}

// Location returns the source location of the program node in the AST.
func (p *Program) Location() SourceLocation {
	if len(p.Blocks) > 0 {
		return p.Blocks[0].Location()
	}
	return SourceLocation{Line: 1, Column: 1}
}

// FunctionBlock represents `function name PARAMS a, b < ... >`.
// Function bodies never contain other functions.
type FunctionBlock struct {
	Name   *Identifier
	Params []*Identifier
	Body   []Block
	Loc    SourceLocation
}

func (f *FunctionBlock) node()      {}
func (f *FunctionBlock) blockNode() {}

// Location returns the source location of the function keyword.
func (f *FunctionBlock) Location() SourceLocation {
	return f.Loc
}

// ConditionalBranch is one `if` or `elseif` arm
type ConditionalBranch struct {
	Condition Expr
	Body      []Block
	Loc       SourceLocation
}

func (c *ConditionalBranch) node() {}

func (c *ConditionalBranch) Location() SourceLocation {
	return c.Loc
}

// ElseBranch is the trailing `else` arm of an if chain
type ElseBranch struct {
	Body []Block
	Loc  SourceLocation
}

func (e *ElseBranch) node() {}

func (e *ElseBranch) Location() SourceLocation {
	return e.Loc
}

// IfBlock represents an if / elseif* / else? chain
type IfBlock struct {
	If      *ConditionalBranch
	ElseIfs []*ConditionalBranch
	Else    *ElseBranch // nil when absent
	Loc     SourceLocation
}

func (i *IfBlock) node()      {}
func (i *IfBlock) blockNode() {}

func (i *IfBlock) Location() SourceLocation {
	return i.Loc
}

// WhileBlock represents `loopwhile (cond) < ... >`
type WhileBlock struct {
	Condition Expr
	Body      []Block
	Loc       SourceLocation
}

func (w *WhileBlock) node()      {}
func (w *WhileBlock) blockNode() {}

func (w *WhileBlock) Location() SourceLocation {
	return w.Loc
}

// ForBlock represents `loopfor (init# cond# step) < ... >`.
// Init is a *Declaration or an *Assignment. Step is an *Assignment or an Expr.
type ForBlock struct {
	Init      Statement
	Condition Expr
	Step      Node
	Body      []Block
	Loc       SourceLocation
}

func (f *ForBlock) node()      {}
func (f *ForBlock) blockNode() {}

func (f *ForBlock) Location() SourceLocation {
	return f.Loc
}

// StatementBlock wraps a statement terminated by `#`
type StatementBlock struct {
	Statement Statement
	Loc       SourceLocation
}

func (s *StatementBlock) node()      {}
func (s *StatementBlock) blockNode() {}

func (s *StatementBlock) Location() SourceLocation {
	return s.Loc
}

// Declaration represents `create name = value`
type Declaration struct {
	Name  *Identifier
	Value Expr // conditional expression or *ArrayLiteral
	Loc   SourceLocation
}

func (d *Declaration) node()          {}
func (d *Declaration) statementNode() {}

func (d *Declaration) Location() SourceLocation {
	return d.Loc
}

// Assignment represents `target op value` where op is one of = += -= *= /=
type Assignment struct {
	Target   *Reference
	Operator string
	Value    Expr // conditional expression or *ArrayLiteral
	Loc      SourceLocation
}

func (a *Assignment) node()          {}
func (a *Assignment) statementNode() {}

func (a *Assignment) Location() SourceLocation {
	return a.Loc
}

// Return represents `exit` or `exit with value`
type Return struct {
	Value Expr // nil for a bare exit
	Loc   SourceLocation
}

func (r *Return) node()          {}
func (r *Return) statementNode() {}

func (r *Return) Location() SourceLocation {
	return r.Loc
}
