package tooling

import (
	"fmt"
	"strings"

	"github.com/sylvre-lang/sylvre/internal/compiler/lexer"
	"github.com/sylvre-lang/sylvre/internal/compiler/stdlib"
)

var keywordDocs = map[string]string{
	"function":  "Declares a function: `function name PARAMS a, b < ... >`.",
	"PARAMS":    "Introduces the parameter list of a function.",
	"if":        "Runs its body when the condition holds: `if (cond) < ... >`.",
	"elseif":    "Tests another condition when the previous branches did not run.",
	"else":      "Runs when no previous branch of the if chain ran.",
	"loopwhile": "Repeats its body while the condition holds.",
	"loopfor":   "Counting loop: `loopfor (create i = 0# i LTHAN n# i increment) < ... >`.",
	"create":    "Declares a variable: `create name = value#`.",
	"call":      "Calls a function or library member: `call name(args)#`.",
	"exit":      "Returns from a function; `exit with value#` returns a value.",
	"with":      "Gives `exit` its return value.",
	"increment": "Adds one to a reference, before or after it.",
	"decrement": "Subtracts one from a reference, before or after it.",
	"AND":       "Logical and.",
	"OR":        "Logical or.",
	"NOT":       "Logical negation.",
	"GTHAN":     "Greater than.",
	"GEQUAL":    "Greater than or equal.",
	"LTHAN":     "Less than.",
	"LEQUAL":    "Less than or equal.",
	"EQUALS":    "Equality.",
	"TRUE":      "Boolean true.",
	"FALSE":     "Boolean false.",
}

func (a *API) buildHover(doc *Document, pos Position) *Hover {
	word := wordAt(doc.Content, pos)
	if word == nil {
		return nil
	}

	if word.Chain[0] == stdlib.LibraryName {
		contents := a.libraryHover(word)
		if contents == "" {
			return nil
		}
		return &Hover{Contents: contents, Range: word.Range}
	}

	if word.Segment != 0 {
		return nil
	}
	name := word.Chain[0]

	if _, ok := lexer.Keywords[name]; ok && len(word.Chain) == 1 {
		return &Hover{
			Contents: fmt.Sprintf("```sylvre\n%s\n```\n\n%s", name, keywordDocs[name]),
			Range:    word.Range,
		}
	}

	sym := resolveSymbol(doc, name, pos)
	if sym == nil {
		return nil
	}

	var content strings.Builder
	fmt.Fprintf(&content, "```sylvre\n%s\n```\n", sym.Detail)
	if sym.ContainerName != "" && sym.Kind == SymbolKindVariable {
		fmt.Fprintf(&content, "\n*In function:* `%s`\n", sym.ContainerName)
	}
	if a.library.IsReserved(name) {
		fmt.Fprintf(&content, "\nEmitted as `__%s`: `%s` is reserved in %s.\n", name, name, a.library.Target())
	}

	return &Hover{Contents: content.String(), Range: word.Range}
}

// libraryHover describes the part of a `Sylvre.Module.member` chain under
// the cursor
func (a *API) libraryHover(word *Word) string {
	var content strings.Builder

	switch word.Segment {
	case 0:
		content.WriteString("```sylvre\nSylvre\n```\n\nLibrary modules:\n\n")
		for _, module := range a.library.Modules() {
			fmt.Fprintf(&content, "- `%s` → `%s`: %s\n", module.Name, namespaceOf(module), module.Description)
		}

	case 1:
		module, ok := a.library.Module(word.Chain[1])
		if !ok {
			return ""
		}
		fmt.Fprintf(&content, "```sylvre\nSylvre.%s\n```\n\n%s\n\n", module.Name, module.Description)
		for _, member := range module.Members {
			fmt.Fprintf(&content, "- `%s` → `%s`\n", member.Name, targetName(module, member))
		}

	case 2:
		module, ok := a.library.Module(word.Chain[1])
		if !ok {
			return ""
		}
		member, ok := a.library.Member(module.Name, word.Chain[2])
		if !ok {
			return ""
		}
		fmt.Fprintf(&content, "```sylvre\nSylvre.%s.%s\n```\n\n%s\n\n---\n\nTranspiles to `%s`\n",
			module.Name, member.Name, member.Description, targetName(module, member))

	default:
		return ""
	}

	return content.String()
}

func namespaceOf(module *stdlib.ModuleDef) string {
	if module.Namespace == "" {
		return "(global)"
	}
	return module.Namespace
}

// targetName is the generated reference for a library member
func targetName(module *stdlib.ModuleDef, member stdlib.MemberDef) string {
	if module.Namespace == "" {
		return member.Target
	}
	return module.Namespace + "." + member.Target
}
