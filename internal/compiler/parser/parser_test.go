package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sylvre-lang/sylvre/internal/compiler/ast"
	cerrors "github.com/sylvre-lang/sylvre/internal/compiler/errors"
)

// Helper function to parse source that is expected to be valid
func mustParse(t *testing.T, source string) *ast.Program {
	t.Helper()

	program, errs := ParseSource(source)
	if len(errs) > 0 {
		t.Fatalf("Unexpected parse errors for %q: %v", source, errs)
	}
	return program
}

func readTestData(t *testing.T, name string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("Failed to read %s: %v", name, err)
	}
	return string(data)
}

func firstStatement(t *testing.T, program *ast.Program) ast.Statement {
	t.Helper()

	if len(program.Blocks) == 0 {
		t.Fatal("Expected at least one block")
	}
	block, ok := program.Blocks[0].(*ast.StatementBlock)
	if !ok {
		t.Fatalf("Expected StatementBlock, got %T", program.Blocks[0])
	}
	return block.Statement
}

func TestParseEmptyInput(t *testing.T) {
	for _, source := range []string{"", "             ", "\t \t \n \n"} {
		program, errs := ParseSource(source)
		if program == nil {
			t.Fatalf("Expected a program for %q", source)
		}
		if len(errs) != 1 {
			t.Fatalf("Expected 1 error for %q, got %d: %v", source, len(errs), errs)
		}
		if !errs[0].IsMismatchedInput || errs[0].Symbol != "<EOF>" {
			t.Errorf("Expected mismatched <EOF>, got %+v", errs[0])
		}
	}
}

func TestParseQuickSort(t *testing.T) {
	program := mustParse(t, readTestData(t, "quickSort.syl"))

	// numbers declaration, five functions, four top-level calls
	if len(program.Blocks) != 10 {
		t.Fatalf("Expected 10 blocks, got %d", len(program.Blocks))
	}

	names := []string{"swap", "partition", "checkSorted", "indexOf", "quickSort"}
	for i, name := range names {
		fn, ok := program.Blocks[i+1].(*ast.FunctionBlock)
		if !ok {
			t.Fatalf("Block %d: expected FunctionBlock, got %T", i+1, program.Blocks[i+1])
		}
		if fn.Name.Name != name {
			t.Errorf("Block %d: expected function %s, got %s", i+1, name, fn.Name.Name)
		}
	}
}

func TestParseQuickSortThreeErrors(t *testing.T) {
	_, errs := ParseSource(readTestData(t, "quickSort_bad_three_errors.syl"))

	if len(errs) != 3 {
		t.Fatalf("Expected 3 errors, got %d: %v", len(errs), errs)
	}

	first := errs[0]
	if first.IsMismatchedInput {
		t.Error("First error should be a no viable alternative error")
	}
	if !strings.Contains(first.Message, "create temp num_array") {
		t.Errorf("Unexpected first message %q", first.Message)
	}
	if first.Line != 32 || first.Column != 13 {
		t.Errorf("Expected first error at 32:13, got %d:%d", first.Line, first.Column)
	}

	second := errs[1]
	if !second.IsMismatchedInput {
		t.Error("Second error should be a mismatched input error")
	}
	if second.Symbol != ";" {
		t.Errorf("Expected symbol ';', got %q", second.Symbol)
	}
	if second.Line != 46 || second.Column != 17 {
		t.Errorf("Expected second error at 46:17, got %d:%d", second.Line, second.Column)
	}

	third := errs[2]
	if third.IsMismatchedInput {
		t.Error("Third error should be a no viable alternative error")
	}
	if third.Message != "no viable alternative at input 'quickSort('" {
		t.Errorf("Unexpected third message %q", third.Message)
	}
	if third.Line != 53 || third.Column != 9 {
		t.Errorf("Expected third error at 53:9, got %d:%d", third.Line, third.Column)
	}
}

func TestParseUnderscorePrefixedNames(t *testing.T) {
	for _, source := range []string{
		"create _testvar = 18#",
		"create __test_var = 18#",
		"create ___TestVar_ = 18#",
	} {
		if _, errs := ParseSource(source); len(errs) == 0 {
			t.Errorf("Expected parse errors for %q", source)
		}
	}
}

func TestParseDeclaration(t *testing.T) {
	stmt := firstStatement(t, mustParse(t, "create total = 1 + 2 * 3#"))

	decl, ok := stmt.(*ast.Declaration)
	if !ok {
		t.Fatalf("Expected Declaration, got %T", stmt)
	}
	if decl.Name.Name != "total" {
		t.Errorf("Expected name total, got %s", decl.Name.Name)
	}

	sum, ok := decl.Value.(*ast.BinaryExpr)
	if !ok || sum.Operator != "+" {
		t.Fatalf("Expected '+' at the root, got %#v", decl.Value)
	}
	if product, ok := sum.Right.(*ast.BinaryExpr); !ok || product.Operator != "*" {
		t.Errorf("Expected '*' to bind tighter, got %#v", sum.Right)
	}
}

func TestParseArrayDeclaration(t *testing.T) {
	stmt := firstStatement(t, mustParse(t, "create list = [1, 'two', TRUE, other[0]]#"))

	decl := stmt.(*ast.Declaration)
	array, ok := decl.Value.(*ast.ArrayLiteral)
	if !ok {
		t.Fatalf("Expected ArrayLiteral, got %T", decl.Value)
	}
	if len(array.Elements) != 4 {
		t.Errorf("Expected 4 elements, got %d", len(array.Elements))
	}
}

func TestParseDeclarationMissingAssign(t *testing.T) {
	_, errs := ParseSource("create a 1#")
	if len(errs) != 1 {
		t.Fatalf("Expected 1 error, got %d: %v", len(errs), errs)
	}
	if errs[0].IsMismatchedInput {
		t.Error("Expected a no viable alternative error")
	}
	if errs[0].Column != 1 {
		t.Errorf("Expected error at the declaration start, got column %d", errs[0].Column)
	}
}

func TestParseAssignmentOperators(t *testing.T) {
	for _, op := range []string{"=", "+=", "-=", "*=", "/="} {
		stmt := firstStatement(t, mustParse(t, "x.items[0] "+op+" 5#"))

		assign, ok := stmt.(*ast.Assignment)
		if !ok {
			t.Fatalf("Expected Assignment for %s, got %T", op, stmt)
		}
		if assign.Operator != op {
			t.Errorf("Expected operator %s, got %s", op, assign.Operator)
		}
		if len(assign.Target.Suffixes) != 2 {
			t.Errorf("Expected 2 suffixes, got %d", len(assign.Target.Suffixes))
		}
	}
}

func TestParseIncrementDecrement(t *testing.T) {
	tests := []struct {
		source    string
		prefix    bool
		decrement bool
	}{
		{"i increment#", false, false},
		{"i decrement#", false, true},
		{"increment i#", true, false},
		{"decrement i#", true, true},
	}

	for _, tt := range tests {
		stmt := firstStatement(t, mustParse(t, tt.source))
		incdec, ok := stmt.(*ast.IncDecExpr)
		if !ok {
			t.Fatalf("%q: expected IncDecExpr, got %T", tt.source, stmt)
		}
		if incdec.Prefix != tt.prefix || incdec.Decrement != tt.decrement {
			t.Errorf("%q: got prefix=%v decrement=%v", tt.source, incdec.Prefix, incdec.Decrement)
		}
	}
}

func TestParseCalls(t *testing.T) {
	t.Run("plain call", func(t *testing.T) {
		call := firstStatement(t, mustParse(t, "call print(1, 'a')#")).(*ast.CallExpr)
		if call.Callee.Base.Name != "print" || len(call.Args) != 2 {
			t.Errorf("Unexpected call %#v", call)
		}
	})

	t.Run("member call is lifted", func(t *testing.T) {
		call := firstStatement(t, mustParse(t, "call Sylvre.Console.output('hi')#")).(*ast.CallExpr)
		if len(call.Args) != 1 {
			t.Fatalf("Expected 1 argument, got %d", len(call.Args))
		}
		last := call.Callee.Suffixes[len(call.Callee.Suffixes)-1].(*ast.MemberSuffix)
		if last.IsCall || last.Name.Name != "output" {
			t.Errorf("Expected callee to end in plain member output, got %#v", last)
		}
	})

	t.Run("nested call argument", func(t *testing.T) {
		call := firstStatement(t, mustParse(t, "call outer(call inner())#")).(*ast.CallExpr)
		if _, ok := call.Args[0].(*ast.CallExpr); !ok {
			t.Errorf("Expected CallExpr argument, got %T", call.Args[0])
		}
	})

	t.Run("call without keyword", func(t *testing.T) {
		_, errs := ParseSource("print(1)#")
		if len(errs) != 1 || errs[0].IsMismatchedInput {
			t.Fatalf("Expected one no viable alternative error, got %v", errs)
		}
		if errs[0].Message != "no viable alternative at input 'print('" {
			t.Errorf("Unexpected message %q", errs[0].Message)
		}
	})
}

func TestParseFunction(t *testing.T) {
	program := mustParse(t, "function add PARAMS a, b < exit with a + b# >\nfunction noop < >")

	add := program.Blocks[0].(*ast.FunctionBlock)
	if len(add.Params) != 2 || add.Params[1].Name != "b" {
		t.Errorf("Unexpected params %#v", add.Params)
	}
	if len(add.Body) != 1 {
		t.Fatalf("Expected 1 body block, got %d", len(add.Body))
	}
	ret := add.Body[0].(*ast.StatementBlock).Statement.(*ast.Return)
	if ret.Value == nil {
		t.Error("Expected return value")
	}

	noop := program.Blocks[1].(*ast.FunctionBlock)
	if len(noop.Params) != 0 || len(noop.Body) != 0 {
		t.Errorf("Expected empty function, got %#v", noop)
	}
}

func TestParseNestedFunction(t *testing.T) {
	_, errs := ParseSource("function outer < function inner < > >")
	if len(errs) != 1 {
		t.Fatalf("Expected 1 error, got %d: %v", len(errs), errs)
	}
	if !errs[0].IsMismatchedInput || errs[0].Symbol != "function" {
		t.Errorf("Expected mismatched 'function', got %+v", errs[0])
	}
}

func TestParseIfChain(t *testing.T) {
	source := `if (a GTHAN 1) <
    create x = 1#
> elseif (a EQUALS 0) <
> elseif (NOT (a LTHAN 0)) <
> else <
    exit#
>`
	block := mustParse(t, source).Blocks[0].(*ast.IfBlock)

	if _, ok := block.If.Condition.(*ast.Comparison); !ok {
		t.Errorf("Expected Comparison, got %T", block.If.Condition)
	}
	if len(block.ElseIfs) != 2 {
		t.Fatalf("Expected 2 elseif arms, got %d", len(block.ElseIfs))
	}
	negation, ok := block.ElseIfs[1].Condition.(*ast.Negation)
	if !ok {
		t.Fatalf("Expected Negation, got %T", block.ElseIfs[1].Condition)
	}
	if _, ok := negation.Operand.(*ast.Grouping); !ok {
		t.Errorf("Expected Grouping operand, got %T", negation.Operand)
	}
	if block.Else == nil || len(block.Else.Body) != 1 {
		t.Error("Expected else arm with one block")
	}
}

func TestParseIfRequiresParentheses(t *testing.T) {
	_, errs := ParseSource("if a GTHAN 1 < >")
	if len(errs) == 0 || !errs[0].IsMismatchedInput {
		t.Fatalf("Expected mismatched input error, got %v", errs)
	}
	if errs[0].Symbol != "a" {
		t.Errorf("Expected symbol a, got %q", errs[0].Symbol)
	}
}

func TestParseConditionsChainLeftToRight(t *testing.T) {
	stmt := firstStatement(t, mustParse(t, "create ok = a GTHAN 1 AND b OR c#"))

	root, ok := stmt.(*ast.Declaration).Value.(*ast.Logical)
	if !ok || root.Operator != ast.OpOr {
		t.Fatalf("Expected OR at the root, got %#v", stmt.(*ast.Declaration).Value)
	}
	and, ok := root.Left.(*ast.Logical)
	if !ok || and.Operator != ast.OpAnd {
		t.Fatalf("Expected AND on the left, got %#v", root.Left)
	}
	if cmp, ok := and.Left.(*ast.Comparison); !ok || cmp.Operator != ast.OpGreaterThan {
		t.Errorf("Expected GTHAN innermost, got %#v", and.Left)
	}
}

func TestParseParenthesizedArithmetic(t *testing.T) {
	stmt := firstStatement(t, mustParse(t, "create x = (1 + 2) * -3#"))

	product := stmt.(*ast.Declaration).Value.(*ast.BinaryExpr)
	if _, ok := product.Left.(*ast.ParenExpr); !ok {
		t.Errorf("Expected ParenExpr, got %T", product.Left)
	}
	number, ok := product.Right.(*ast.NumberLiteral)
	if !ok || !number.Negative || number.Text != "3" {
		t.Errorf("Expected negative number literal, got %#v", product.Right)
	}
}

func TestParseWhile(t *testing.T) {
	block := mustParse(t, "loopwhile (i LTHAN 10) < i increment# >").Blocks[0].(*ast.WhileBlock)
	if len(block.Body) != 1 {
		t.Errorf("Expected 1 body block, got %d", len(block.Body))
	}
}

func TestParseFor(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"increment step", "loopfor(create i = 0# i LTHAN 10# i increment) < >"},
		{"trailing hash", "loopfor(create i = 0# i LTHAN 10# i increment#) < >"},
		{"assignment step", "loopfor(i = 0# i LTHAN 10# i += 2) < >"},
		{"prefix step", "loopfor(create i = 10# i GTHAN 0# decrement i) < >"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block, ok := mustParse(t, tt.source).Blocks[0].(*ast.ForBlock)
			if !ok {
				t.Fatal("Expected ForBlock")
			}
			if block.Init == nil || block.Condition == nil || block.Step == nil {
				t.Errorf("Incomplete loopfor header %#v", block)
			}
		})
	}
}

func TestParseRecoversAfterErrors(t *testing.T) {
	source := "create a = #\ncreate b = 2#\ncall x(#\ncreate c = 3#"
	program, errs := ParseSource(source)

	if len(errs) != 2 {
		t.Fatalf("Expected 2 errors, got %d: %v", len(errs), errs)
	}
	if len(program.Blocks) != 2 {
		t.Errorf("Expected 2 recovered blocks, got %d", len(program.Blocks))
	}
}

func TestParseErrorsConvert(t *testing.T) {
	source := "create a 1#"
	_, errs := ParseSource(source)

	list := cerrors.FromParseErrors("main.syl", source, errs)
	if len(list) != 1 {
		t.Fatalf("Expected 1 compiler error, got %d", len(list))
	}
	if list[0].Code != cerrors.ErrNoViableAlternative {
		t.Errorf("Expected %s, got %s", cerrors.ErrNoViableAlternative, list[0].Code)
	}
}
