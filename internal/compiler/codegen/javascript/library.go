package javascript

import (
	"strings"

	"github.com/sylvre-lang/sylvre/internal/compiler/ast"
	cerrors "github.com/sylvre-lang/sylvre/internal/compiler/errors"
)

// resolveLibrary validates a `Sylvre.Module.member` reference and emits the
// bound namespace and member followed by any remaining suffixes. The first
// failed check rejects the reference.
func (g *Generator) resolveLibrary(ref *ast.Reference) string {
	base := ref.Base

	if len(ref.Suffixes) == 0 {
		g.reject(cerrors.ErrMissingModuleName, justAfter(base), base.Name, cerrors.MsgMissingModuleName)
		return ""
	}

	moduleRef, ok := ref.Suffixes[0].(*ast.MemberSuffix)
	if !ok {
		g.reject(cerrors.ErrIndexAfterLibrary, ref.Suffixes[0].Location(), "[", cerrors.MsgIndexAfterLibrary)
		return ""
	}

	module, ok := g.lib.Module(moduleRef.Name.Name)
	if !ok {
		g.reject(cerrors.ErrUnknownModule, moduleRef.Name.Loc, moduleRef.Name.Name, cerrors.MsgUnknownModule)
		return ""
	}

	// Invoking the module itself leaves it without a member.
	if len(ref.Suffixes) == 1 || moduleRef.IsCall {
		g.reject(cerrors.ErrMissingModuleMember, justAfter(moduleRef.Name), moduleRef.Name.Name, cerrors.MsgMissingModuleMember)
		return ""
	}

	memberRef, ok := ref.Suffixes[1].(*ast.MemberSuffix)
	if !ok {
		g.reject(cerrors.ErrIndexAfterModule, ref.Suffixes[1].Location(), "[", cerrors.MsgIndexAfterModule)
		return ""
	}

	member, ok := g.lib.Member(module.Name, memberRef.Name.Name)
	if !ok {
		g.reject(cerrors.ErrUnknownModuleMember, memberRef.Name.Loc, memberRef.Name.Name, cerrors.MsgUnknownModuleMember)
		return ""
	}

	var b strings.Builder
	if module.Namespace != "" {
		b.WriteString(module.Namespace)
		b.WriteByte('.')
	}
	b.WriteString(member.Target)
	if memberRef.IsCall {
		b.WriteByte('(')
		b.WriteString(g.generateList(memberRef.Args))
		b.WriteByte(')')
	}
	b.WriteString(g.generateSuffixes(ref.Suffixes[2:]))
	return b.String()
}

// justAfter returns the position immediately following an identifier
func justAfter(ident *ast.Identifier) ast.SourceLocation {
	return ast.SourceLocation{Line: ident.Loc.Line, Column: ident.Loc.Column + len(ident.Name)}
}
