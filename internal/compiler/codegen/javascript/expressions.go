package javascript

import (
	"strings"

	"github.com/sylvre-lang/sylvre/internal/compiler/ast"
	"github.com/sylvre-lang/sylvre/internal/compiler/stdlib"
)

var comparisonOperators = map[ast.ComparisonOp]string{
	ast.OpGreaterThan:  ">",
	ast.OpGreaterEqual: ">=",
	ast.OpLessThan:     "<",
	ast.OpLessEqual:    "<=",
	ast.OpEquals:       "==",
}

var logicalOperators = map[ast.LogicalOp]string{
	ast.OpAnd: "&&",
	ast.OpOr:  "||",
}

// generateExpr generates JavaScript for an expression. Parentheses are only
// emitted where the source had them.
func (g *Generator) generateExpr(expr ast.Expr) string {
	if expr == nil || g.aborted {
		return ""
	}

	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return signed(e.Text, e.Negative)
	case *ast.DecimalLiteral:
		return signed(e.Text, e.Negative)
	case *ast.StringLiteral:
		return e.Raw
	case *ast.BoolLiteral:
		if e.Value {
			return "true"
		}
		return "false"
	case *ast.ArrayLiteral:
		return "[" + g.generateList(e.Elements) + "]"
	case *ast.Reference:
		return g.generateReference(e)
	case *ast.CallExpr:
		return g.generateCall(e)
	case *ast.IncDecExpr:
		return g.generateIncDec(e)
	case *ast.BinaryExpr:
		left := g.generateExpr(e.Left)
		return joinOperator(left, e.Operator, g.generateExpr(e.Right))
	case *ast.ParenExpr:
		return "(" + g.generateExpr(e.Inner) + ")"
	case *ast.Grouping:
		return "(" + g.generateExpr(e.Inner) + ")"
	case *ast.Negation:
		return "!" + g.generateExpr(e.Operand)
	case *ast.Comparison:
		left := g.generateExpr(e.Left)
		return left + comparisonOperators[e.Operator] + g.generateExpr(e.Right)
	case *ast.Logical:
		left := g.generateExpr(e.Left)
		return left + logicalOperators[e.Operator] + g.generateExpr(e.Right)
	}
	return ""
}

// joinOperator joins an arithmetic operator with its operands, separating a
// sign that would otherwise fuse into `++` or `--`.
func joinOperator(left, op, right string) string {
	if strings.HasSuffix(left, op) {
		left += " "
	}
	if strings.HasPrefix(right, op) {
		right = " " + right
	}
	return left + op + right
}

func signed(text string, negative bool) string {
	if negative {
		return "-" + text
	}
	return text
}

// generateList emits comma-separated expressions
func (g *Generator) generateList(exprs []ast.Expr) string {
	parts := make([]string, 0, len(exprs))
	for _, expr := range exprs {
		parts = append(parts, g.generateExpr(expr))
	}
	return strings.Join(parts, ",")
}

// generateCall emits `callee(args)`
func (g *Generator) generateCall(call *ast.CallExpr) string {
	callee := g.generateReference(call.Callee)
	if g.aborted {
		return ""
	}
	return callee + "(" + g.generateList(call.Args) + ")"
}

// generateIncDec emits ++x, x++, --x or x--
func (g *Generator) generateIncDec(e *ast.IncDecExpr) string {
	op := "++"
	if e.Decrement {
		op = "--"
	}
	target := g.generateReference(e.Target)
	if e.Prefix {
		return op + target
	}
	return target + op
}

// generateReference emits a reference, resolving library references
func (g *Generator) generateReference(ref *ast.Reference) string {
	if g.aborted {
		return ""
	}
	if ref.Base.Name == stdlib.LibraryName {
		return g.resolveLibrary(ref)
	}
	return g.identifier(ref.Base.Name) + g.generateSuffixes(ref.Suffixes)
}

func (g *Generator) generateSuffixes(suffixes []ast.Suffix) string {
	var b strings.Builder
	for _, suffix := range suffixes {
		switch s := suffix.(type) {
		case *ast.MemberSuffix:
			b.WriteByte('.')
			b.WriteString(g.identifier(s.Name.Name))
			if s.IsCall {
				b.WriteByte('(')
				b.WriteString(g.generateList(s.Args))
				b.WriteByte(')')
			}
		case *ast.IndexSuffix:
			b.WriteByte('[')
			b.WriteString(g.generateExpr(s.Index))
			b.WriteByte(']')
		}
	}
	return b.String()
}
