package ast

// Expr is the interface for all expression nodes, conditional and arithmetic
type Expr interface {
	Node
	exprNode()
}

// Suffix is a member or index access following a reference base
type Suffix interface {
	Node
	suffixNode()
}

// Identifier is a bare name as written in source
type Identifier struct {
	Name string
	Loc  SourceLocation
}

func (i *Identifier) node() {}

func (i *Identifier) Location() SourceLocation {
	return i.Loc
}

// Reference is a base identifier followed by member and index suffixes,
// for example `arr[i].length` or `Sylvre.Console.output`.
type Reference struct {
	Base     *Identifier
	Suffixes []Suffix
	Loc      SourceLocation
}

func (r *Reference) node()     {}
func (r *Reference) exprNode() {}

func (r *Reference) Location() SourceLocation {
	return r.Loc
}

// MemberSuffix is `.name`, optionally invoked as `.name(args)`
type MemberSuffix struct {
	Name   *Identifier
	IsCall bool
	Args   []Expr
	Loc    SourceLocation // location of the dot
}

func (m *MemberSuffix) node()       {}
func (m *MemberSuffix) suffixNode() {}

func (m *MemberSuffix) Location() SourceLocation {
	return m.Loc
}

// IndexSuffix is `[expr]`
type IndexSuffix struct {
	Index Expr
	Loc   SourceLocation // location of the opening bracket
}

func (i *IndexSuffix) node()       {}
func (i *IndexSuffix) suffixNode() {}

func (i *IndexSuffix) Location() SourceLocation {
	return i.Loc
}

// CallExpr is `call callee(args)`. It is both a statement and a factor.
type CallExpr struct {
	Callee *Reference
	Args   []Expr
	Loc    SourceLocation
}

func (c *CallExpr) node()          {}
func (c *CallExpr) exprNode()      {}
func (c *CallExpr) statementNode() {}

func (c *CallExpr) Location() SourceLocation {
	return c.Loc
}

// IncDecExpr is `increment x`, `x increment`, `decrement x` or `x decrement`.
// It is both a statement and a factor.
type IncDecExpr struct {
	Target    *Reference
	Decrement bool
	Prefix    bool
	Loc       SourceLocation
}

func (i *IncDecExpr) node()          {}
func (i *IncDecExpr) exprNode()      {}
func (i *IncDecExpr) statementNode() {}

func (i *IncDecExpr) Location() SourceLocation {
	return i.Loc
}

// NumberLiteral is an integer literal with an optional leading minus
type NumberLiteral struct {
	Text     string
	Negative bool
	Loc      SourceLocation
}

func (n *NumberLiteral) node()     {}
func (n *NumberLiteral) exprNode() {}

func (n *NumberLiteral) Location() SourceLocation {
	return n.Loc
}

// DecimalLiteral is a decimal literal with an optional leading minus
type DecimalLiteral struct {
	Text     string
	Negative bool
	Loc      SourceLocation
}

func (d *DecimalLiteral) node()     {}
func (d *DecimalLiteral) exprNode() {}

func (d *DecimalLiteral) Location() SourceLocation {
	return d.Loc
}

// StringLiteral keeps the quoted source text in Raw and the unescaped text in Value
type StringLiteral struct {
	Raw   string
	Value string
	Loc   SourceLocation
}

func (s *StringLiteral) node()     {}
func (s *StringLiteral) exprNode() {}

func (s *StringLiteral) Location() SourceLocation {
	return s.Loc
}

// BoolLiteral is TRUE or FALSE
type BoolLiteral struct {
	Value bool
	Loc   SourceLocation
}

func (b *BoolLiteral) node()     {}
func (b *BoolLiteral) exprNode() {}

func (b *BoolLiteral) Location() SourceLocation {
	return b.Loc
}

// ArrayLiteral is `[a, b, c]`
type ArrayLiteral struct {
	Elements []Expr
	Loc      SourceLocation
}

func (a *ArrayLiteral) node()     {}
func (a *ArrayLiteral) exprNode() {}

func (a *ArrayLiteral) Location() SourceLocation {
	return a.Loc
}

// BinaryExpr is an arithmetic operation: + - * /
type BinaryExpr struct {
	Left     Expr
	Operator string
	Right    Expr
	Loc      SourceLocation
}

func (b *BinaryExpr) node()     {}
func (b *BinaryExpr) exprNode() {}

func (b *BinaryExpr) Location() SourceLocation {
	return b.Loc
}

// ParenExpr is an arithmetic expression in parentheses
type ParenExpr struct {
	Inner Expr
	Loc   SourceLocation
}

func (p *ParenExpr) node()     {}
func (p *ParenExpr) exprNode() {}

func (p *ParenExpr) Location() SourceLocation {
	return p.Loc
}

// Grouping is a conditional expression in parentheses
type Grouping struct {
	Inner Expr
	Loc   SourceLocation
}

func (g *Grouping) node()     {}
func (g *Grouping) exprNode() {}

func (g *Grouping) Location() SourceLocation {
	return g.Loc
}

// Negation is `NOT operand`
type Negation struct {
	Operand Expr
	Loc     SourceLocation
}

func (n *Negation) node()     {}
func (n *Negation) exprNode() {}

func (n *Negation) Location() SourceLocation {
	return n.Loc
}

// ComparisonOp is one of the comparison keywords
type ComparisonOp string

const (
	OpGreaterThan  ComparisonOp = "GTHAN"
	OpGreaterEqual ComparisonOp = "GEQUAL"
	OpLessThan     ComparisonOp = "LTHAN"
	OpLessEqual    ComparisonOp = "LEQUAL"
	OpEquals       ComparisonOp = "EQUALS"
)

// Comparison is `left OP right` for the comparison keywords
type Comparison struct {
	Operator ComparisonOp
	Left     Expr
	Right    Expr
	Loc      SourceLocation
}

func (c *Comparison) node()     {}
func (c *Comparison) exprNode() {}

func (c *Comparison) Location() SourceLocation {
	return c.Loc
}

// LogicalOp is AND or OR
type LogicalOp string

const (
	OpAnd LogicalOp = "AND"
	OpOr  LogicalOp = "OR"
)

// Logical is `left AND right` or `left OR right`
type Logical struct {
	Operator LogicalOp
	Left     Expr
	Right    Expr
	Loc      SourceLocation
}

func (l *Logical) node()     {}
func (l *Logical) exprNode() {}

func (l *Logical) Location() SourceLocation {
	return l.Loc
}

// IsConditional reports whether e is one of the conditional expression kinds
func IsConditional(e Expr) bool {
	switch e.(type) {
	case *Grouping, *Negation, *Comparison, *Logical:
		return true
	}
	return false
}
