// Package typecheck infers a module's type information given its untyped
// AST and the type information of every module it depends on. The checker
// here is intentionally shallow: it only has to discover each top-level
// declaration's exported signature, which is all the rest of the engine's
// contract requires.
package typecheck

import (
	"fmt"

	"github.com/ash-lang/ashc/internal/compiler/ast"
)

// Error reports a type-inference failure: an unresolved reference or
// redeclaration.
type Error struct {
	Msg string
}

func (e *Error) Error() string { return e.Msg }

// Infer produces a TypedModule from an untyped one, given the type info of
// every module it imports (keyed by module name). It returns an *Error on
// failure.
func Infer(module *ast.Module, deps map[string]ast.ModuleTypeInfo) (*ast.TypedModule, error) {
	seen := map[string]bool{}
	var exports []ast.TypeSig

	for _, stmt := range module.Statements {
		if stmt.Kind == ast.StatementImport {
			if _, ok := deps[stmt.Name]; !ok {
				// The Analyzed layer is responsible for turning an unresolved
				// dependency into UnknownImport before we ever get here; if
				// we see one it means the caller built deps incorrectly.
				return nil, &Error{Msg: fmt.Sprintf("internal: missing type info for dependency %q", stmt.Name)}
			}
			continue
		}

		if seen[stmt.Name] {
			return nil, &Error{Msg: fmt.Sprintf("%q is declared more than once", stmt.Name)}
		}
		seen[stmt.Name] = true

		if stmt.Public {
			arity := len(stmt.Fields)
			exports = append(exports, ast.TypeSig{Name: stmt.Name, Arity: arity, Public: true})
		}
	}

	info := ast.ModuleTypeInfo{
		ModuleName: joinSegments(module.Name),
		Exports:    exports,
	}

	return &ast.TypedModule{
		Name:       module.Name,
		Statements: module.Statements,
		TypeInfo:   info,
	}, nil
}

func joinSegments(segs []string) string {
	out := ""
	for i, s := range segs {
		if i > 0 {
			out += "/"
		}
		out += s
	}
	return out
}
