package errors

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/sylvre-lang/sylvre/internal/compiler/ast"
)

func init() {
	color.NoColor = true
}

func TestErrorCodeUniqueness(t *testing.T) {
	codes := make(map[ErrorCode]bool)

	all := []ErrorCode{
		ErrNoViableAlternative, ErrMismatchedInput,
		ErrCodeGenFailed, ErrMissingModuleName, ErrIndexAfterLibrary,
		ErrUnknownModule, ErrMissingModuleMember, ErrIndexAfterModule,
		ErrUnknownModuleMember, ErrReservedLibraryName,
	}

	for _, code := range all {
		if codes[code] {
			t.Errorf("Duplicate error code %s", code)
		}
		codes[code] = true
	}
}

func TestCodeGenCodesHaveTypesAndSuggestions(t *testing.T) {
	for _, code := range []ErrorCode{
		ErrCodeGenFailed, ErrMissingModuleName, ErrIndexAfterLibrary,
		ErrUnknownModule, ErrMissingModuleMember, ErrIndexAfterModule,
		ErrUnknownModuleMember, ErrReservedLibraryName,
	} {
		if codeGenTypes[code] == "" {
			t.Errorf("Code %s has no type identifier", code)
		}
		if codeGenSuggestions[code] == "" {
			t.Errorf("Code %s has no suggestion", code)
		}
	}
}

func TestParseErrorToCompilerError(t *testing.T) {
	tests := []struct {
		name       string
		mismatched bool
		code       ErrorCode
	}{
		{"mismatched input", true, ErrMismatchedInput},
		{"no viable alternative", false, ErrNoViableAlternative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pe := ParseError{
				ErrorBase:         ErrorBase{Symbol: ";", Line: 46, Column: 17, Message: "mismatched input ';' expecting '#'"},
				IsMismatchedInput: tt.mismatched,
			}

			ce := pe.ToCompilerError()
			if ce.Code != tt.code {
				t.Errorf("Expected code %s, got %s", tt.code, ce.Code)
			}
			if ce.Category != CategorySyntax {
				t.Errorf("Expected category %s, got %s", CategorySyntax, ce.Category)
			}
			if ce.Location.Line != 46 || ce.Location.Column != 17 {
				t.Errorf("Expected 46:17, got %d:%d", ce.Location.Line, ce.Location.Column)
			}
			if ce.Actual != ";" {
				t.Errorf("Expected actual ';', got %q", ce.Actual)
			}
		})
	}
}

func TestTranspileErrorToCompilerError(t *testing.T) {
	te := NewTranspileError(ErrUnknownModule, ast.SourceLocation{Line: 1, Column: 13}, "NonExist", MsgUnknownModule)

	if te.Message != MsgUnknownModule {
		t.Errorf("Expected message %q, got %q", MsgUnknownModule, te.Message)
	}

	ce := te.ToCompilerError()
	if ce.Code != ErrUnknownModule {
		t.Errorf("Expected code %s, got %s", ErrUnknownModule, ce.Code)
	}
	if ce.Type != "unknown_module" {
		t.Errorf("Expected type unknown_module, got %s", ce.Type)
	}
	if ce.Category != CategoryCodeGen {
		t.Errorf("Expected category %s, got %s", CategoryCodeGen, ce.Category)
	}
	if ce.Suggestion == "" {
		t.Error("Expected a suggestion")
	}
}

func TestTranspileErrorWithoutCode(t *testing.T) {
	te := TranspileError{ErrorBase: ErrorBase{Message: "boom", Line: 1, Column: 1}}
	if ce := te.ToCompilerError(); ce.Code != ErrCodeGenFailed {
		t.Errorf("Expected fallback code %s, got %s", ErrCodeGenFailed, ce.Code)
	}
}

func TestParseErrorJSONShape(t *testing.T) {
	pe := ParseError{
		ErrorBase:         ErrorBase{Symbol: "num_array", Line: 32, Column: 13, Message: "no viable alternative at input 'create temp num_array'"},
		IsMismatchedInput: false,
	}

	data, err := json.Marshal(pe)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	for _, key := range []string{"symbol", "line", "column", "message", "isMismatchedInput"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("Expected key %q in %s", key, data)
		}
	}
}

func TestErrorJSONSerialization(t *testing.T) {
	loc := ast.SourceLocation{Line: 10, Column: 5}
	err := NewMismatchedInput(loc, ";", "mismatched input ';' expecting '#'")

	jsonStr, jsonErr := err.ToJSON()
	if jsonErr != nil {
		t.Fatalf("Failed to serialize error to JSON: %v", jsonErr)
	}

	var parsed CompilerError
	if unmarshalErr := json.Unmarshal([]byte(jsonStr), &parsed); unmarshalErr != nil {
		t.Fatalf("Failed to parse error JSON: %v", unmarshalErr)
	}

	if parsed.Code != ErrMismatchedInput {
		t.Errorf("Expected code %s, got %s", ErrMismatchedInput, parsed.Code)
	}
	if parsed.Type != "mismatched_input" {
		t.Errorf("Expected type 'mismatched_input', got '%s'", parsed.Type)
	}
	if parsed.Location.Line != 10 || parsed.Location.Column != 5 {
		t.Errorf("Expected 10:5, got %d:%d", parsed.Location.Line, parsed.Location.Column)
	}
	if parsed.Actual != ";" {
		t.Errorf("Expected actual ';', got '%s'", parsed.Actual)
	}
}

func TestErrorFormatting(t *testing.T) {
	source := "create a = 1#\ncreate b = 2;\ncreate c = 3#"
	errs := FromParseErrors("main.syl", source, []ParseError{{
		ErrorBase:         ErrorBase{Symbol: ";", Line: 2, Column: 13, Message: "mismatched input ';' expecting '#'"},
		IsMismatchedInput: true,
	}})

	formatted := errs[0].Format()

	if !strings.Contains(formatted, "Syntax Error") {
		t.Error("Formatted error should contain 'Syntax Error'")
	}
	if !strings.Contains(formatted, "main.syl") {
		t.Error("Formatted error should contain filename")
	}
	if !strings.Contains(formatted, "Line 2, Column 13") {
		t.Error("Formatted error should contain the position")
	}
	if !strings.Contains(formatted, "  1 |  create a = 1#") {
		t.Errorf("Formatted error should contain the line before, got:\n%s", formatted)
	}
	if !strings.Contains(formatted, strings.Repeat(" ", 7+12)+"^ mismatched input") {
		t.Errorf("Caret should sit under column 13, got:\n%s", formatted)
	}
	if !strings.Contains(formatted, "https://docs.sylvre-lang.org/errors/SYN002") {
		t.Error("Formatted error should contain documentation URL")
	}
}

func TestSourceContext(t *testing.T) {
	source := "one\ntwo\nthree"

	tests := []struct {
		line    int
		current string
		lines   []string
	}{
		{1, "one", []string{"one", "two"}},
		{2, "two", []string{"one", "two", "three"}},
		{3, "three", []string{"two", "three"}},
		{4, "", nil},
	}

	for _, tt := range tests {
		current, lines := SourceContext(source, tt.line)
		if current != tt.current {
			t.Errorf("line %d: expected current %q, got %q", tt.line, tt.current, current)
		}
		if strings.Join(lines, "|") != strings.Join(tt.lines, "|") {
			t.Errorf("line %d: expected %v, got %v", tt.line, tt.lines, lines)
		}
	}
}

func TestErrorListFormatting(t *testing.T) {
	errs := ErrorList{
		NewNoViableAlternative(ast.SourceLocation{Line: 5, Column: 10}, "x", "no viable alternative at input 'x'"),
		NewTranspileError(ErrUnknownModule, ast.SourceLocation{Line: 12, Column: 3}, "Nope", MsgUnknownModule).ToCompilerError(),
	}

	formatted := errs.Error()

	if !strings.Contains(formatted, "2 error(s)") {
		t.Error("Formatted error list should contain error count")
	}
	if !strings.Contains(formatted, "Syntax Error") {
		t.Error("Formatted error list should contain first error")
	}
	if !strings.Contains(formatted, "Transpile Error") {
		t.Error("Formatted error list should contain second error")
	}
}

func TestFormatCompact(t *testing.T) {
	ce := NewMismatchedInput(ast.SourceLocation{Line: 3, Column: 7}, ";", "mismatched input ';' expecting '#'").WithFile("a.syl")

	want := "a.syl:3:7: error: mismatched input ';' expecting '#' [SYN002]"
	if got := FormatCompact(ce); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestErrorListHasErrors(t *testing.T) {
	warning := NewCodeGenFailed(ast.SourceLocation{Line: 1, Column: 1}, "x")
	warning.Severity = SeverityWarning

	if !(ErrorList{NewCodeGenFailed(ast.SourceLocation{Line: 1, Column: 1}, "x")}).HasErrors() {
		t.Error("Expected HasErrors() to return true when list contains errors")
	}
	if (ErrorList{warning}).HasErrors() {
		t.Error("Expected HasErrors() to return false when list contains only warnings")
	}

	errCount, warnCount, infoCount := ErrorList{warning}.ErrorCount()
	if errCount != 0 || warnCount != 1 || infoCount != 0 {
		t.Errorf("Unexpected counts %d/%d/%d", errCount, warnCount, infoCount)
	}
}

func TestEmptyErrorList(t *testing.T) {
	if got := (ErrorList{}).Error(); got != "no errors" {
		t.Errorf("Expected 'no errors', got %q", got)
	}
}
